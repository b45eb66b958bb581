package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framecut/framecut/internal/model"
	"github.com/framecut/framecut/internal/preset"
)

func testEngine() *Engine {
	return NewEngine(model.DefaultGeometryConfig())
}

func singleNormal() (model.DoorSpec, model.Dimensions, model.ManufacturingDefaults) {
	spec := model.DoorSpec{Category: model.CategorySingle, Subtype: model.SubtypeNormal}
	dims := model.Dimensions{
		WidthMeasurement:  900,
		HeightMeasurement: 2100,
	}.WithUniformAllowance(25)
	return spec, dims, model.DefaultManufacturing()
}

func frameByName(t *testing.T, doc *model.GeometryDocument, name string) model.Frame {
	t.Helper()
	for _, f := range doc.Frames {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("frame %q not found", name)
	return model.Frame{}
}

func cutoutByName(t *testing.T, doc *model.GeometryDocument, name string) model.Cutout {
	t.Helper()
	for _, c := range doc.Cutouts {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cutout %q not found", name)
	return model.Cutout{}
}

func TestDeriveStandardSingleDoor(t *testing.T) {
	spec, dims, mfg := singleNormal()

	d, err := testEngine().Derive(spec, dims, mfg)
	require.NoError(t, err)

	assert.Equal(t, 950.0, d.FrameTotalWidth)
	assert.Equal(t, 2150.0, d.FrameTotalHeight)
	assert.Equal(t, 882.0, d.InnerWidth)
	assert.Equal(t, 2080.0, d.InnerHeight)
	assert.Equal(t, 913.0, d.OuterWidth)
	assert.Equal(t, 2080.0, d.OuterHeight)
	assert.Equal(t, 19.0, d.InnerOffsetX)
	assert.Equal(t, -12.0, d.InnerOffsetY)
	assert.Equal(t, 2104.0, d.InnerFrameHeight)
}

func TestDeriveUsesDefaultAllowance(t *testing.T) {
	spec, dims, mfg := singleNormal()
	spec.UseDefaultAllowance = true
	dims.LeftAllowanceWidth = 999 // must be ignored

	d, err := testEngine().Derive(spec, dims, mfg)
	require.NoError(t, err)
	assert.Equal(t, 950.0, d.FrameTotalWidth)
}

func TestDeriveDegenerateOpening(t *testing.T) {
	spec, dims, mfg := singleNormal()
	dims.WidthMeasurement = 10
	dims = dims.WithUniformAllowance(0)

	_, err := testEngine().Derive(spec, dims, mfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDegenerateGeometry)
}

func TestDeriveRejectsNonPositiveMeasurement(t *testing.T) {
	spec, dims, mfg := singleNormal()
	dims.HeightMeasurement = 0

	_, err := testEngine().Derive(spec, dims, mfg)
	assert.ErrorIs(t, err, ErrDegenerateGeometry)
}

func TestDeriveRejectsLatchBoxTallerThanFrame(t *testing.T) {
	spec, dims, mfg := singleNormal()
	dims.HeightMeasurement = 150
	dims = dims.WithUniformAllowance(0)
	// inner frame height is 150 - 70 + 24 = 104, below the 112 latch box

	_, err := testEngine().Derive(spec, dims, mfg)
	assert.ErrorIs(t, err, ErrDegenerateGeometry)
}

func TestBuildStandardSingleDoor(t *testing.T) {
	spec, dims, mfg := singleNormal()

	doc, err := testEngine().Build(BuildRequest{Spec: spec, Dims: dims, Mfg: mfg, Label: "D-01", Annotate: true})
	require.NoError(t, err)

	outer := frameByName(t, doc, "outer")
	assert.Equal(t, 913.0, outer.Width)
	assert.Equal(t, 2080.0, outer.Height)

	inner := frameByName(t, doc, "inner")
	assert.Equal(t, 882.0, inner.Width)
	assert.Equal(t, 2104.0, inner.Height)

	// Dimension lines extend 20mm beyond the sheet on both axes, so
	// normalization shifts the drawing by (20, 20).
	assert.Equal(t, model.Point2D{X: 20, Y: 20}, doc.Metadata.Origin)

	// Hinge holes share an X and sit symmetric about the opening.
	require.Len(t, doc.Holes, 2)
	top, bottom := doc.Holes[0], doc.Holes[1]
	assert.Equal(t, top.Center.X, bottom.Center.X)
	assert.InDelta(t, 19.0+40.0+doc.Metadata.Origin.X, top.Center.X, 1e-9)
	assert.InDelta(t, 2080.0-300.0, top.Center.Y-bottom.Center.Y, 1e-9)
	assert.Equal(t, 5.0, top.Radius)

	// Latch box is centered vertically in the inner frame.
	box := cutoutByName(t, doc, "latch_box")
	min, max := box.Points.BoundingBox()
	assert.InDelta(t, 22.0, max.X-min.X, 1e-9)
	assert.InDelta(t, 112.0, max.Y-min.Y, 1e-9)
	innerMin, innerMax := inner.Points.BoundingBox()
	assert.InDelta(t, (innerMin.Y+innerMax.Y)/2, (min.Y+max.Y)/2, 1e-9)

	assert.NotEmpty(t, doc.Dimensions)
	assert.Len(t, doc.Labels, 2)
	assert.Equal(t, "D-01", doc.Labels[0].Text)
	assert.Equal(t, "913 x 2080", doc.Labels[1].Text)
}

func TestBuildAnnotatesBothHingeHoles(t *testing.T) {
	spec, dims, mfg := singleNormal()

	doc, err := testEngine().Build(BuildRequest{Spec: spec, Dims: dims, Mfg: mfg, Annotate: true})
	require.NoError(t, err)
	require.Len(t, doc.Holes, 2)

	// Each hole carries one horizontal and one vertical placement
	// dimension, ending at its center.
	for i, hole := range doc.Holes {
		var horizontal, vertical int
		for _, dim := range doc.Dimensions {
			if dim.End != hole.Center {
				continue
			}
			switch dim.Orientation {
			case model.Horizontal:
				horizontal++
				assert.Equal(t, 20.0, dim.Offset, "hole %d horizontal offset", i)
				assert.Equal(t, "40", dim.Label, "hole %d horizontal label", i)
			case model.Vertical:
				vertical++
				assert.Equal(t, 40.0, dim.Offset, "hole %d vertical offset", i)
				assert.Equal(t, "150", dim.Label, "hole %d vertical label", i)
			}
		}
		assert.Equal(t, 1, horizontal, "hole %d horizontal dimensions", i)
		assert.Equal(t, 1, vertical, "hole %d vertical dimensions", i)
	}
}

func TestBuildWithoutAnnotations(t *testing.T) {
	spec, dims, mfg := singleNormal()

	doc, err := testEngine().Build(BuildRequest{Spec: spec, Dims: dims, Mfg: mfg, Label: "D-02"})
	require.NoError(t, err)

	assert.Empty(t, doc.Dimensions)
	// The identification label survives without annotations.
	assert.Len(t, doc.Labels, 2)
	// Only the inner frame dips below Y=0, by the 12mm bend offset.
	assert.Equal(t, model.Point2D{X: 0, Y: 12}, doc.Metadata.Origin)
}

func TestBuildCoordinatesNonNegative(t *testing.T) {
	spec, dims, mfg := singleNormal()

	for _, annotate := range []bool{false, true} {
		for _, rotate := range []bool{false, true} {
			doc, err := testEngine().Build(BuildRequest{Spec: spec, Dims: dims, Mfg: mfg, Annotate: annotate, Rotate: rotate})
			require.NoError(t, err)
			minX, minY := documentExtent(doc)
			assert.GreaterOrEqual(t, minX, 0.0, "annotate=%v rotate=%v", annotate, rotate)
			assert.GreaterOrEqual(t, minY, 0.0, "annotate=%v rotate=%v", annotate, rotate)
		}
	}
}

func TestBuildRotationSwapsSpans(t *testing.T) {
	spec, dims, mfg := singleNormal()

	plain, err := testEngine().Build(BuildRequest{Spec: spec, Dims: dims, Mfg: mfg})
	require.NoError(t, err)
	rotated, err := testEngine().Build(BuildRequest{Spec: spec, Dims: dims, Mfg: mfg, Rotate: true})
	require.NoError(t, err)

	assert.True(t, rotated.Metadata.Rotated)
	assert.InDelta(t, plain.Metadata.Width, rotated.Metadata.Height, 1e-9)
	assert.InDelta(t, plain.Metadata.Height, rotated.Metadata.Width, 1e-9)
}

func TestBuildRotationFlipsDimensionOrientation(t *testing.T) {
	spec, dims, mfg := singleNormal()

	doc, err := testEngine().Build(BuildRequest{Spec: spec, Dims: dims, Mfg: mfg, Annotate: true, Rotate: true})
	require.NoError(t, err)

	for _, dim := range doc.Dimensions {
		if dim.Orientation == model.Vertical {
			assert.Equal(t, dim.Start.X, dim.End.X, "vertical dimension %q", dim.Label)
		} else {
			assert.Equal(t, dim.Start.Y, dim.End.Y, "horizontal dimension %q", dim.Label)
		}
	}
}

func TestBuildAppliesPlacementOffset(t *testing.T) {
	spec, dims, mfg := singleNormal()

	doc, err := testEngine().Build(BuildRequest{Spec: spec, Dims: dims, Mfg: mfg, Offset: model.Point2D{X: 500, Y: 100}})
	require.NoError(t, err)

	min, _ := doc.BoundingBox()
	assert.InDelta(t, 500.0, min.X, 1e-9)
	assert.InDelta(t, 100.0, min.Y, 1e-9)
}

func TestBuildIsDeterministic(t *testing.T) {
	spec, dims, mfg := singleNormal()
	req := BuildRequest{Spec: spec, Dims: dims, Mfg: mfg, Label: "D-03", Annotate: true}

	a, err := testEngine().Build(req)
	require.NoError(t, err)
	b, err := testEngine().Build(req)
	require.NoError(t, err)

	// Documents differ only by their generated ID.
	b.ID = a.ID
	assert.Equal(t, a, b)
}

func TestBuildZeroLengthDimensionsSuppressed(t *testing.T) {
	spec, dims, _ := singleNormal()
	mfg := model.DefaultManufacturing()
	mfg.BendingWidth = 12 // inner offset X collapses to zero

	doc, err := testEngine().Build(BuildRequest{Spec: spec, Dims: dims, Mfg: mfg, Annotate: true})
	require.NoError(t, err)

	for _, dim := range doc.Dimensions {
		assert.False(t, dim.Start == dim.End, "zero-length dimension %q survived", dim.Label)
	}
}

func TestBuildDoubleDoor(t *testing.T) {
	spec, dims, mfg := singleNormal()
	spec.Category = model.CategoryDouble
	dims.WidthMeasurement = 1800

	d, err := testEngine().Derive(spec, dims, mfg)
	require.NoError(t, err)
	assert.Equal(t, 1778.0, d.InnerWidth) // 1850 - 68 - 4
	assert.Equal(t, 889.0, d.LeafWidth)
	assert.Equal(t, 893.0, d.ShiftLeft)

	doc, err := testEngine().Build(BuildRequest{Spec: spec, Dims: dims, Mfg: mfg})
	require.NoError(t, err)

	require.Len(t, doc.Frames, 4)
	frameByName(t, doc, "outer_left")
	frameByName(t, doc, "inner_left")
	cutoutByName(t, doc, "latch_box")
	left := cutoutByName(t, doc, "latch_box_left")

	// Both leaves' latch boxes face the meeting gap.
	right := cutoutByName(t, doc, "latch_box")
	lMin, _ := left.Points.BoundingBox()
	rMin, _ := right.Points.BoundingBox()
	assert.Less(t, lMin.X, rMin.X)

	// Total width covers both leaves plus the gap.
	assert.Greater(t, doc.Metadata.Width, d.OuterWidth+d.LeafWidth)
}

func TestBuildFireDoorCutouts(t *testing.T) {
	spec, dims, mfg := singleNormal()
	spec.Subtype = model.SubtypeFire
	spec.Option = model.OptionStandard

	ov, err := preset.BuiltinTable().Resolve(spec.Category, spec.Subtype, spec.Option)
	require.NoError(t, err)

	doc, err := testEngine().Build(BuildRequest{Spec: spec, Dims: dims, Mfg: mfg, Overrides: ov})
	require.NoError(t, err)

	glass := cutoutByName(t, doc, "glass_1")
	assert.Greater(t, len(glass.Points), 4, "glass cutout should have rounded corners")
	min, max := glass.Points.BoundingBox()
	assert.InDelta(t, 882.0-2*190.0, max.X-min.X, 1e-9)
	assert.InDelta(t, 2080.0-170.0-240.0, max.Y-min.Y, 1e-9)

	keybox := cutoutByName(t, doc, "keybox")
	kMin, kMax := keybox.Points.BoundingBox()
	assert.InDelta(t, 70.0, kMax.X-kMin.X, 1e-9)
	assert.InDelta(t, 40.0, kMax.Y-kMin.Y, 1e-9)
}

func TestBuildTopFixedGlassOccupiesUpperHalf(t *testing.T) {
	spec, dims, mfg := singleNormal()
	spec.Subtype = model.SubtypeGlass
	spec.Option = model.OptionTopFixed

	ov, err := preset.BuiltinTable().Resolve(spec.Category, spec.Subtype, spec.Option)
	require.NoError(t, err)

	doc, err := testEngine().Build(BuildRequest{Spec: spec, Dims: dims, Mfg: mfg, Overrides: ov})
	require.NoError(t, err)

	glass := cutoutByName(t, doc, "glass_1")
	min, max := glass.Points.BoundingBox()
	assert.InDelta(t, 2080.0-170.0-2080.0/2, max.Y-min.Y, 1e-9)
	assert.Greater(t, min.Y, 2080.0/2)
}

func TestBuildFourGlassStacksTwoPanels(t *testing.T) {
	spec, dims, mfg := singleNormal()
	spec.Subtype = model.SubtypeGlass
	spec.Option = model.OptionFourGlass

	ov, err := preset.BuiltinTable().Resolve(spec.Category, spec.Subtype, spec.Option)
	require.NoError(t, err)

	doc, err := testEngine().Build(BuildRequest{Spec: spec, Dims: dims, Mfg: mfg, Overrides: ov})
	require.NoError(t, err)

	lower := cutoutByName(t, doc, "glass_1")
	upper := cutoutByName(t, doc, "glass_2")
	_, lowerMax := lower.Points.BoundingBox()
	upperMin, _ := upper.Points.BoundingBox()
	assert.InDelta(t, 2*fourGlassWaist, upperMin.Y-lowerMax.Y, 1e-9)
}

func TestBuildGlassFallbackOnNarrowDoor(t *testing.T) {
	spec, dims, mfg := singleNormal()
	spec.Subtype = model.SubtypeGlass
	spec.Option = model.OptionStandard
	dims.WidthMeasurement = 350 // inner width 332, swallowed by the 2x190mm side margins

	ov, err := preset.BuiltinTable().Resolve(spec.Category, spec.Subtype, spec.Option)
	require.NoError(t, err)

	doc, err := testEngine().Build(BuildRequest{Spec: spec, Dims: dims, Mfg: mfg, Overrides: ov})
	require.NoError(t, err)

	// The swallowed opening degrades to a centered default-box panel.
	glass := cutoutByName(t, doc, "glass_1")
	min, max := glass.Points.BoundingBox()
	assert.InDelta(t, 22.0, max.X-min.X, 1e-9)
	assert.InDelta(t, 112.0, max.Y-min.Y, 1e-9)
}

func TestBuildCustomHoleOffset(t *testing.T) {
	spec, dims, mfg := singleNormal()
	spec.HoleOffset = "200x50"

	doc, err := testEngine().Build(BuildRequest{Spec: spec, Dims: dims, Mfg: mfg})
	require.NoError(t, err)

	require.Len(t, doc.Holes, 2)
	assert.InDelta(t, 19.0+50.0, doc.Holes[0].Center.X, 1e-9)
	assert.InDelta(t, 2080.0-400.0, doc.Holes[0].Center.Y-doc.Holes[1].Center.Y, 1e-9)
}

func TestBuildRejectsMalformedHoleOffset(t *testing.T) {
	spec, dims, mfg := singleNormal()

	for _, bad := range []string{"150", "ax40", "150x", "-10x40"} {
		spec.HoleOffset = bad
		_, err := testEngine().Build(BuildRequest{Spec: spec, Dims: dims, Mfg: mfg})
		assert.ErrorIs(t, err, preset.ErrInvalidClassification, "hole offset %q", bad)
	}
}
