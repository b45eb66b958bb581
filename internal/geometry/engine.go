// Package geometry derives the cut geometry and dimension annotations of a
// door frame from its classified specification. The engine is pure: it holds
// only the placement constant set and produces an immutable document per
// request.
package geometry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/framecut/framecut/internal/model"
	"github.com/framecut/framecut/internal/preset"
)

// ErrDegenerateGeometry is returned when the resolved inputs produce a
// non-positive span somewhere in the derivation chain (opening smaller than
// the deductions, latch box taller than the opening, collapsed glass panel).
var ErrDegenerateGeometry = errors.New("degenerate geometry")

// Engine derives door-frame geometry from classified requests.
type Engine struct {
	cfg model.GeometryConfig
}

// NewEngine returns an engine using the given placement constants.
func NewEngine(cfg model.GeometryConfig) *Engine {
	return &Engine{cfg: cfg}
}

// BuildRequest is one geometry generation job. Overrides comes from the
// preset resolver and is nil for doors without a preset.
type BuildRequest struct {
	Spec      model.DoorSpec
	Dims      model.Dimensions
	Mfg       model.ManufacturingDefaults
	Overrides *preset.Overrides

	Label    string
	FileName string

	Annotate bool          // emit dimension annotations and labels
	Rotate   bool          // rotate the finished drawing 90 degrees CCW
	Offset   model.Point2D // external placement offset (sheet nesting)
}

// Derivation is the numeric backbone of a drawing: every span and offset the
// entities are placed from. All values are mm in local, pre-normalization
// coordinates.
type Derivation struct {
	FrameTotalWidth  float64 `json:"frame_total_width"`
	FrameTotalHeight float64 `json:"frame_total_height"`

	InnerWidth  float64 `json:"inner_width"` // full opening, both leaves for doubles
	InnerHeight float64 `json:"inner_height"`
	LeafWidth   float64 `json:"leaf_width"` // equals InnerWidth for singles
	OuterWidth  float64 `json:"outer_width"`
	OuterHeight float64 `json:"outer_height"`

	InnerOffsetX     float64 `json:"inner_offset_x"`
	InnerOffsetY     float64 `json:"inner_offset_y"` // may be negative
	InnerFrameHeight float64 `json:"inner_frame_height"`

	ShiftLeft float64 `json:"shift_left,omitempty"` // left-leaf translation, doubles only
}

// Derive computes the spans and offsets for a request without building
// entities. Build uses it internally; tests and reporting use it directly.
func (e *Engine) Derive(spec model.DoorSpec, dims model.Dimensions, mfg model.ManufacturingDefaults) (Derivation, error) {
	if spec.UseDefaultAllowance {
		dims = dims.WithUniformAllowance(e.cfg.DefaultAllowance)
	}
	if dims.WidthMeasurement <= 0 || dims.HeightMeasurement <= 0 {
		return Derivation{}, fmt.Errorf("%w: measurement %gx%g",
			ErrDegenerateGeometry, dims.WidthMeasurement, dims.HeightMeasurement)
	}

	d := Derivation{
		FrameTotalWidth:  dims.FrameTotalWidth(),
		FrameTotalHeight: dims.FrameTotalHeight(),
	}

	minusW := mfg.DoorMinusWidth
	if spec.IsDouble() {
		minusW += e.cfg.DoubleDoorGap
	}
	d.InnerWidth = d.FrameTotalWidth - minusW
	d.InnerHeight = d.FrameTotalHeight - mfg.DoorMinusHeight

	d.LeafWidth = d.InnerWidth
	if spec.IsDouble() {
		d.LeafWidth = d.InnerWidth / 2
		d.ShiftLeft = d.LeafWidth + e.cfg.DoubleDoorGap
	}

	d.OuterWidth = d.LeafWidth + mfg.BendingWidth
	d.OuterHeight = d.InnerHeight

	d.InnerOffsetX = mfg.BendingWidth - e.cfg.BendAdjust
	d.InnerOffsetY = e.cfg.BendAdjust - mfg.BendingHeight
	d.InnerFrameHeight = d.InnerHeight + mfg.BendingHeight

	if d.InnerWidth <= 0 || d.InnerHeight <= 0 || d.LeafWidth <= 0 || d.OuterWidth <= 0 {
		return Derivation{}, fmt.Errorf("%w: inner opening %gx%g",
			ErrDegenerateGeometry, d.InnerWidth, d.InnerHeight)
	}
	if e.cfg.BoxHeight > d.InnerFrameHeight {
		return Derivation{}, fmt.Errorf("%w: latch box %g exceeds inner frame height %g",
			ErrDegenerateGeometry, e.cfg.BoxHeight, d.InnerFrameHeight)
	}
	return d, nil
}

// Build derives the geometry document for a request. The returned document
// is normalized so every entity, including dimension lines, has non-negative
// coordinates; the applied translation is recorded in Metadata.Origin.
func (e *Engine) Build(req BuildRequest) (*model.GeometryDocument, error) {
	d, err := e.Derive(req.Spec, req.Dims, req.Mfg)
	if err != nil {
		return nil, err
	}

	topHole, leftHole, err := e.holeOffsets(req.Spec)
	if err != nil {
		return nil, err
	}

	doc := model.NewGeometryDocument(model.Metadata{
		Label:              req.Label,
		FileName:           req.FileName,
		Rotated:            req.Rotate,
		AnnotationRequired: req.Annotate,
	})

	e.buildFrames(doc, req, d)
	e.buildLatchBoxes(doc, req, d)
	e.buildHoles(doc, d, topHole, leftHole)
	if err := e.buildCutouts(doc, req, d); err != nil {
		return nil, err
	}
	if req.Annotate {
		e.buildDimensions(doc, d, topHole, leftHole)
	}
	// The identification label is drawn even on annotation-free nested
	// sheets; only an empty label suppresses it.
	e.buildCenterLabel(doc, req, d)

	e.finalize(doc, req, d)
	return doc, nil
}

// holeOffsets resolves the hinge-hole placement preset, "<top>x<left>" mm.
func (e *Engine) holeOffsets(spec model.DoorSpec) (top, left float64, err error) {
	if spec.HoleOffset == "" {
		return e.cfg.TopCircleOffset, e.cfg.LeftCircleOffset, nil
	}
	parts := strings.SplitN(strings.ToLower(spec.HoleOffset), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: hole offset %q", preset.ErrInvalidClassification, spec.HoleOffset)
	}
	top, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err == nil {
		left, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	}
	if err != nil || top <= 0 || left <= 0 {
		return 0, 0, fmt.Errorf("%w: hole offset %q", preset.ErrInvalidClassification, spec.HoleOffset)
	}
	return top, left, nil
}

func (e *Engine) buildFrames(doc *model.GeometryDocument, req BuildRequest, d Derivation) {
	doc.Frames = append(doc.Frames,
		model.NewFrame("outer", model.Rect(0, 0, d.OuterWidth, d.OuterHeight)),
		model.NewFrame("inner", model.Rect(d.InnerOffsetX, d.InnerOffsetY, d.LeafWidth, d.InnerFrameHeight)),
	)
	if !req.Spec.IsDouble() {
		return
	}

	// The left leaf mirrors the right one, shifted across the meeting gap.
	// Its outer bend allowance may differ from the right leaf's.
	bendLeft := e.cfg.BendingWidthDouble
	if bendLeft == 0 {
		bendLeft = req.Mfg.BendingWidth
	}
	leftX := -d.ShiftLeft
	doc.Frames = append(doc.Frames,
		model.NewFrame("outer_left", model.Rect(leftX, 0, d.LeafWidth+bendLeft, d.OuterHeight)),
		model.NewFrame("inner_left", model.Rect(leftX+bendLeft-e.cfg.BendAdjust, d.InnerOffsetY, d.LeafWidth, d.InnerFrameHeight)),
	)
}

func (e *Engine) buildLatchBoxes(doc *model.GeometryDocument, req BuildRequest, d Derivation) {
	boxBottom := d.InnerOffsetY + (d.InnerFrameHeight-e.cfg.BoxHeight)/2
	doc.Cutouts = append(doc.Cutouts, model.Cutout{
		Name:   "latch_box",
		Layer:  model.LayerCut,
		Points: model.Rect(d.InnerOffsetX+e.cfg.BoxGap, boxBottom, e.cfg.BoxWidth, e.cfg.BoxHeight),
	})
	if !req.Spec.IsDouble() {
		return
	}

	// Both latches face the meeting gap, so the left leaf's box sits against
	// its right inner edge.
	bendLeft := e.cfg.BendingWidthDouble
	if bendLeft == 0 {
		bendLeft = req.Mfg.BendingWidth
	}
	leftInnerX := -d.ShiftLeft + bendLeft - e.cfg.BendAdjust
	doc.Cutouts = append(doc.Cutouts, model.Cutout{
		Name:   "latch_box_left",
		Layer:  model.LayerCut,
		Points: model.Rect(leftInnerX+d.LeafWidth-e.cfg.BoxGap-e.cfg.BoxWidth, boxBottom, e.cfg.BoxWidth, e.cfg.BoxHeight),
	})
}

func (e *Engine) buildHoles(doc *model.GeometryDocument, d Derivation, topHole, leftHole float64) {
	cx := d.InnerOffsetX + leftHole
	base := d.InnerOffsetY + e.cfg.BendAdjust
	doc.Holes = append(doc.Holes,
		model.Hole{
			Name:   "hinge_top",
			Layer:  model.LayerCut,
			Center: model.Point2D{X: cx, Y: base + d.InnerHeight - topHole},
			Radius: e.cfg.CircleRadius,
		},
		model.Hole{
			Name:   "hinge_bottom",
			Layer:  model.LayerCut,
			Center: model.Point2D{X: cx, Y: base + topHole},
			Radius: e.cfg.CircleRadius,
		},
	)
}

// buildCutouts adds the preset-driven openings: glass panels and the keybox.
func (e *Engine) buildCutouts(doc *model.GeometryDocument, req BuildRequest, d Derivation) error {
	ov := req.Overrides
	if ov == nil {
		return nil
	}
	if ov.Glass != nil {
		if err := e.buildGlass(doc, req, d, ov.Glass); err != nil {
			return err
		}
	}
	if ov.Keybox {
		kx := d.InnerOffsetX + (d.LeafWidth-e.cfg.KeyboxWidth)/2
		ky := d.InnerOffsetY + e.cfg.BendAdjust + e.cfg.KeyboxBottomOffset
		doc.Cutouts = append(doc.Cutouts, model.Cutout{
			Name:   "keybox",
			Layer:  model.LayerCut,
			Points: model.Rect(kx, ky, e.cfg.KeyboxWidth, e.cfg.KeyboxHeight),
		})
	}
	return nil
}

// fourGlassWaist is the half-height of the solid band left between stacked
// glass panels.
const fourGlassWaist = 50.0

func (e *Engine) buildGlass(doc *model.GeometryDocument, req BuildRequest, d Derivation, g *preset.GlassPreset) error {
	top := g.TopMargin
	bottom := g.BottomMargin
	switch g.Clamp {
	case preset.ClampBottomToMid:
		bottom = d.InnerHeight / 2
	case preset.ClampTopToMid:
		top = d.InnerHeight / 2
	}

	base := d.InnerOffsetY + e.cfg.BendAdjust

	// Horizontal spans. Standard double doors get one panel across both
	// leaves; four-glass doubles get panels per leaf.
	type span struct{ x, w float64 }
	var spans []span
	if req.Spec.IsDouble() && g.PanelsPerLeaf == 1 {
		bendLeft := e.cfg.BendingWidthDouble
		if bendLeft == 0 {
			bendLeft = req.Mfg.BendingWidth
		}
		leftInnerX := -d.ShiftLeft + bendLeft - e.cfg.BendAdjust
		rightInnerEnd := d.InnerOffsetX + d.LeafWidth
		spans = []span{{leftInnerX + g.SideMargin, rightInnerEnd - leftInnerX - 2*g.SideMargin}}
	} else {
		spans = []span{{d.InnerOffsetX + g.SideMargin, d.LeafWidth - 2*g.SideMargin}}
		if req.Spec.IsDouble() {
			bendLeft := e.cfg.BendingWidthDouble
			if bendLeft == 0 {
				bendLeft = req.Mfg.BendingWidth
			}
			leftInnerX := -d.ShiftLeft + bendLeft - e.cfg.BendAdjust
			spans = append(spans, span{leftInnerX + g.SideMargin, d.LeafWidth - 2*g.SideMargin})
		}
	}

	// Vertical bands, bottom-up.
	type band struct{ y, h float64 }
	var bands []band
	if g.PanelsPerLeaf == 2 {
		mid := d.InnerHeight / 2
		bands = []band{
			{base + bottom, mid - fourGlassWaist - bottom},
			{base + mid + fourGlassWaist, d.InnerHeight - top - mid - fourGlassWaist},
		}
	} else {
		bands = []band{{base + bottom, d.InnerHeight - top - bottom}}
	}

	n := 0
	for _, s := range spans {
		for _, b := range bands {
			x, y, w, h := s.x, b.y, s.w, b.h
			if w <= 0 || h <= 0 {
				// Margins swallowed the opening. Fall back to a centered
				// default-box panel instead of losing the cutout.
				w, h = e.cfg.BoxWidth, e.cfg.BoxHeight
				x = d.InnerOffsetX + (d.LeafWidth-w)/2
				y = base + (d.InnerHeight-h)/2
			}
			n++
			doc.Cutouts = append(doc.Cutouts, model.Cutout{
				Name:   fmt.Sprintf("glass_%d", n),
				Layer:  model.LayerCut,
				Points: roundedRect(x, y, w, h, e.cfg.GlassCornerRadius, e.cfg.GlassSegments),
			})
		}
	}
	return nil
}

func (e *Engine) buildDimensions(doc *model.GeometryDocument, d Derivation, topHole, leftHole float64) {
	h := e.cfg.HorizontalDimOffset
	v := e.cfg.VerticalDimOffset
	add := func(start, end model.Point2D, offset, textOffset float64) {
		if dim, ok := newDimension(start, end, offset, textOffset, ""); ok {
			doc.Dimensions = append(doc.Dimensions, dim)
		}
	}

	innerTopY := d.InnerOffsetY + d.InnerFrameHeight
	innerRightX := d.InnerOffsetX + d.LeafWidth

	// Edge dimensions are pushed away from the sheet center so they land
	// outside the part regardless of which edge they annotate.
	center := model.Point2D{X: d.OuterWidth / 2, Y: d.OuterHeight / 2}
	auto := func(start, end model.Point2D, magnitude, textOffset float64) {
		mid := model.Point2D{X: (start.X + end.X) / 2, Y: (start.Y + end.Y) / 2}
		o := model.Horizontal
		if start.X == end.X {
			o = model.Vertical
		}
		add(start, end, autoOffset(mid, center, magnitude, o), textOffset)
	}

	// Overall sheet, outside the bottom-left corner.
	auto(model.Point2D{X: 0, Y: 0}, model.Point2D{X: d.OuterWidth, Y: 0}, h, 0)
	auto(model.Point2D{X: 0, Y: 0}, model.Point2D{X: 0, Y: d.OuterHeight}, h, 0)

	// Inner frame spans.
	auto(model.Point2D{X: d.InnerOffsetX, Y: innerTopY}, model.Point2D{X: innerRightX, Y: innerTopY}, h, 0)
	auto(model.Point2D{X: innerRightX, Y: d.InnerOffsetY}, model.Point2D{X: innerRightX, Y: innerTopY}, v, 0)

	// Bend flange gaps between the inner frame and the sheet edges.
	auto(model.Point2D{X: 0, Y: d.OuterHeight}, model.Point2D{X: d.InnerOffsetX, Y: d.OuterHeight}, h, 0)
	auto(model.Point2D{X: innerRightX, Y: d.OuterHeight}, model.Point2D{X: d.OuterWidth, Y: d.OuterHeight}, h, 0)
	auto(model.Point2D{X: d.OuterWidth, Y: 0}, model.Point2D{X: d.OuterWidth, Y: d.InnerOffsetY}, v, 0)
	auto(model.Point2D{X: d.OuterWidth, Y: innerTopY}, model.Point2D{X: d.OuterWidth, Y: d.OuterHeight}, v, 0)

	// Hinge hole placement: each hole gets a horizontal dimension from the
	// inner-left edge and a vertical one from the nearest inner edge.
	cx := d.InnerOffsetX + leftHole
	innerBottom := d.InnerOffsetY + e.cfg.BendAdjust
	cyTop := innerBottom + d.InnerHeight - topHole
	cyBottom := innerBottom + topHole
	add(model.Point2D{X: d.InnerOffsetX, Y: cyTop}, model.Point2D{X: cx, Y: cyTop}, h, 28)
	add(model.Point2D{X: cx, Y: innerBottom + d.InnerHeight}, model.Point2D{X: cx, Y: cyTop}, v, 28)
	add(model.Point2D{X: d.InnerOffsetX, Y: cyBottom}, model.Point2D{X: cx, Y: cyBottom}, h, 38)
	add(model.Point2D{X: cx, Y: innerBottom}, model.Point2D{X: cx, Y: cyBottom}, v, 38)

	// Latch box placement.
	boxLeft := d.InnerOffsetX + e.cfg.BoxGap
	boxBottom := d.InnerOffsetY + (d.InnerFrameHeight-e.cfg.BoxHeight)/2
	boxTop := boxBottom + e.cfg.BoxHeight
	boxMidY := boxBottom + e.cfg.BoxHeight/2
	add(model.Point2D{X: d.InnerOffsetX, Y: boxMidY}, model.Point2D{X: boxLeft, Y: boxMidY}, h, 0)
	add(model.Point2D{X: boxLeft, Y: boxBottom}, model.Point2D{X: boxLeft + e.cfg.BoxWidth, Y: boxBottom}, h, 0)
	add(model.Point2D{X: boxLeft, Y: boxBottom}, model.Point2D{X: boxLeft, Y: boxTop}, v, 18)
	add(model.Point2D{X: boxLeft, Y: boxTop}, model.Point2D{X: boxLeft, Y: d.OuterHeight}, v, 28)
}

func (e *Engine) buildCenterLabel(doc *model.GeometryDocument, req BuildRequest, d Derivation) {
	if req.Label == "" {
		return
	}
	center := model.Point2D{X: d.OuterWidth / 2, Y: d.OuterHeight / 2}
	size := formatMM(d.OuterWidth) + " x " + formatMM(d.OuterHeight)
	doc.Labels = append(doc.Labels,
		model.TextLabel{Kind: "center_label", Position: model.Point2D{X: center.X, Y: center.Y + e.cfg.DimTextHeight}, Text: req.Label},
		model.TextLabel{Kind: "center_label", Position: model.Point2D{X: center.X, Y: center.Y - e.cfg.DimTextHeight}, Text: size},
	)
}

// finalize rotates the document if requested, then translates it so every
// entity, dimension lines included, lands at non-negative coordinates, and
// applies the external placement offset. The applied translation is recorded
// in Metadata.Origin.
func (e *Engine) finalize(doc *model.GeometryDocument, req BuildRequest, d Derivation) {
	if req.Rotate {
		rotateDocument(doc, d.OuterHeight)
	}

	minX, minY := documentExtent(doc)
	dx := req.Offset.X
	dy := req.Offset.Y
	if minX < 0 {
		dx -= minX
	}
	if minY < 0 {
		dy -= minY
	}
	translateDocument(doc, dx, dy)

	min, max := doc.BoundingBox()
	doc.Metadata.Origin = model.Point2D{X: dx, Y: dy}
	doc.Metadata.Width = max.X - min.X
	doc.Metadata.Height = max.Y - min.Y
}

// documentExtent returns the minimum coordinates reached by any entity,
// accounting for the perpendicular reach of dimension lines and their text.
func documentExtent(doc *model.GeometryDocument) (minX, minY float64) {
	min, _ := doc.BoundingBox()
	minX, minY = min.X, min.Y

	consider := func(x, y float64) {
		if x < minX {
			minX = x
		}
		if y < minY {
			minY = y
		}
	}
	for _, dim := range doc.Dimensions {
		reach := dim.Offset
		if dim.TextOffset != 0 {
			// Text may sit beyond the dimension line on the same side.
			if (reach >= 0) == (dim.TextOffset >= 0) {
				reach += dim.TextOffset
			}
		}
		if dim.Orientation == model.Horizontal {
			consider(dim.Start.X, dim.Start.Y+reach)
			consider(dim.End.X, dim.End.Y+reach)
		} else {
			consider(dim.Start.X+reach, dim.Start.Y)
			consider(dim.End.X+reach, dim.End.Y)
		}
	}
	for _, l := range doc.Labels {
		consider(l.Position.X, l.Position.Y)
	}
	return minX, minY
}

// rotateDocument rotates every entity 90 degrees CCW about the origin and
// shifts it back into the first quadrant using the pivot height:
// (x, y) -> (pivot - y, x).
func rotateDocument(doc *model.GeometryDocument, pivot float64) {
	rot := func(p model.Point2D) model.Point2D {
		return model.Point2D{X: pivot - p.Y, Y: p.X}
	}
	for i := range doc.Frames {
		f := &doc.Frames[i]
		for j, p := range f.Points {
			f.Points[j] = rot(p)
		}
		f.Width, f.Height = f.Height, f.Width
	}
	for i := range doc.Cutouts {
		for j, p := range doc.Cutouts[i].Points {
			doc.Cutouts[i].Points[j] = rot(p)
		}
	}
	for i := range doc.Holes {
		doc.Holes[i].Center = rot(doc.Holes[i].Center)
	}
	for i := range doc.Dimensions {
		dim := &doc.Dimensions[i]
		dim.Start = rot(dim.Start)
		dim.End = rot(dim.End)
		// A CCW quarter turn maps a +Y normal to -X and a +X normal to +Y.
		if dim.Orientation == model.Horizontal {
			dim.Orientation = model.Vertical
			dim.Offset = -dim.Offset
		} else {
			dim.Orientation = model.Horizontal
		}
	}
	for i := range doc.Labels {
		doc.Labels[i].Position = rot(doc.Labels[i].Position)
		doc.Labels[i].Rotation += 90
	}
}

func translateDocument(doc *model.GeometryDocument, dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	for i := range doc.Frames {
		doc.Frames[i].Points = doc.Frames[i].Points.Translate(dx, dy)
	}
	for i := range doc.Cutouts {
		doc.Cutouts[i].Points = doc.Cutouts[i].Points.Translate(dx, dy)
	}
	for i := range doc.Holes {
		doc.Holes[i].Center.X += dx
		doc.Holes[i].Center.Y += dy
	}
	for i := range doc.Dimensions {
		dim := &doc.Dimensions[i]
		dim.Start.X += dx
		dim.Start.Y += dy
		dim.End.X += dx
		dim.End.Y += dy
	}
	for i := range doc.Labels {
		doc.Labels[i].Position.X += dx
		doc.Labels[i].Position.Y += dy
	}
}
