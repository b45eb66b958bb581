// Package document projects geometry documents onto their two output
// surfaces: flat CAD primitives for DXF/PDF serializers and a JSON preview
// shape for browser clients. The projection expands dimension annotations
// into the lines, arrowheads and text a plotter draws.
package document

import (
	"errors"

	"github.com/framecut/framecut/internal/model"
)

// ErrSerialization marks failures while encoding or writing a finished
// document. Geometry problems never carry this sentinel.
var ErrSerialization = errors.New("serialization failure")

// Polyline is a connected point sequence on a drawing layer.
type Polyline struct {
	Layer  model.LayerRole
	Closed bool
	Points model.Outline
}

// Circle is a full circle entity.
type Circle struct {
	Layer  model.LayerRole
	Center model.Point2D
	Radius float64
}

// Line is a single segment.
type Line struct {
	Layer model.LayerRole
	From  model.Point2D
	To    model.Point2D
}

// Text is a positioned text entity.
type Text struct {
	Layer    model.LayerRole
	Position model.Point2D
	Height   float64
	Value    string
	Rotation float64 // degrees CCW
	Align    model.TextAlign
}

// CADDocument is the flattened form of a geometry document, ready for a
// format-specific serializer.
type CADDocument struct {
	Polylines []Polyline
	Circles   []Circle
	Lines     []Line
	Texts     []Text
}

// Builder flattens geometry documents using a fixed rendering constant set.
type Builder struct {
	cfg model.GeometryConfig
}

// NewBuilder returns a builder using the given rendering constants.
func NewBuilder(cfg model.GeometryConfig) *Builder {
	return &Builder{cfg: cfg}
}

// CAD projects a geometry document onto CAD primitives.
func (b *Builder) CAD(doc *model.GeometryDocument) *CADDocument {
	out := &CADDocument{}

	for _, f := range doc.Frames {
		out.Polylines = append(out.Polylines, Polyline{Layer: f.Layer, Closed: true, Points: f.Points})
	}
	for _, c := range doc.Cutouts {
		out.Polylines = append(out.Polylines, Polyline{Layer: c.Layer, Closed: true, Points: c.Points})
	}
	for _, h := range doc.Holes {
		out.Circles = append(out.Circles, Circle{Layer: h.Layer, Center: h.Center, Radius: h.Radius})
	}
	for _, dim := range doc.Dimensions {
		b.expandDimension(out, dim)
	}
	for _, l := range doc.Labels {
		out.Texts = append(out.Texts, Text{
			Layer:    model.LayerDimensions,
			Position: l.Position,
			Height:   b.cfg.DimTextHeight,
			Value:    l.Text,
			Rotation: l.Rotation,
			Align:    l.Align,
		})
	}
	return out
}

// expandDimension emits the extension lines, dimension line, arrowheads and
// measurement text of one annotation onto the DIMENSIONS layer.
func (b *Builder) expandDimension(out *CADDocument, dim model.DimensionAnnotation) {
	// Unit vector along the measurement and unit normal toward the
	// dimension line. Offset sign selects the side.
	var u, n model.Point2D
	sign := func(v float64) float64 {
		if v < 0 {
			return -1
		}
		return 1
	}
	if dim.Orientation == model.Horizontal {
		u = model.Point2D{X: sign(dim.End.X - dim.Start.X)}
		n = model.Point2D{Y: sign(dim.Offset)}
	} else {
		u = model.Point2D{Y: sign(dim.End.Y - dim.Start.Y)}
		n = model.Point2D{X: sign(dim.Offset)}
	}
	off := dim.Offset
	if off < 0 {
		off = -off
	}
	move := func(p model.Point2D, d model.Point2D, by float64) model.Point2D {
		return model.Point2D{X: p.X + d.X*by, Y: p.Y + d.Y*by}
	}

	p1 := move(dim.Start, n, off)
	p2 := move(dim.End, n, off)

	line := func(a, z model.Point2D) {
		out.Lines = append(out.Lines, Line{Layer: model.LayerDimensions, From: a, To: z})
	}
	line(dim.Start, p1)
	line(dim.End, p2)
	line(p1, p2)

	// Arrowheads point outward along the dimension line.
	a := b.cfg.DimArrowSize
	for _, tip := range []struct {
		p   model.Point2D
		dir float64
	}{{p1, 1}, {p2, -1}} {
		base := move(tip.p, u, a*tip.dir)
		line(tip.p, move(base, n, a/2))
		line(tip.p, move(base, n, -a/2))
	}

	textOff := dim.TextOffset
	if textOff == 0 {
		textOff = 2 * b.cfg.DimTextHeight
	}
	mid := model.Point2D{X: (p1.X + p2.X) / 2, Y: (p1.Y + p2.Y) / 2}
	txt := Text{
		Layer:    model.LayerDimensions,
		Position: move(mid, n, textOff),
		Height:   b.cfg.DimTextHeight,
		Value:    dim.Label,
		Align:    model.AlignCenter,
	}
	if dim.Orientation == model.Vertical {
		// Vertical measurements keep horizontal text beside the line,
		// anchored on the side the offset selected.
		if n.X > 0 {
			txt.Align = model.AlignLeft
		} else {
			txt.Align = model.AlignRight
		}
	}
	out.Texts = append(out.Texts, txt)
}
