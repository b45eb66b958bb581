package model

import "github.com/google/uuid"

// LayerRole identifies the logical drawing layer an entity belongs to.
type LayerRole string

const (
	LayerCut        LayerRole = "CUT"        // Shapes to be cut from the sheet
	LayerDimensions LayerRole = "DIMENSIONS" // Measurement annotations
	LayerBin        LayerRole = "BIN"        // Stock sheet boundary in nested output
)

// Point2D represents a 2D coordinate in mm. The drawing coordinate system
// has its origin at the outer sheet's bottom-left corner, X right, Y up
// (CAD convention; preview consumers flip Y for screen display).
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Outline represents a closed polygon as a sequence of 2D points.
// The outline is implicitly closed: the last point connects back to the first.
type Outline []Point2D

// BoundingBox returns the min and max corners of the outline.
func (o Outline) BoundingBox() (min, max Point2D) {
	if len(o) == 0 {
		return Point2D{}, Point2D{}
	}
	min = Point2D{X: o[0].X, Y: o[0].Y}
	max = Point2D{X: o[0].X, Y: o[0].Y}
	for _, p := range o[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max
}

// Translate shifts all points by dx, dy.
func (o Outline) Translate(dx, dy float64) Outline {
	result := make(Outline, len(o))
	for i, p := range o {
		result[i] = Point2D{X: p.X + dx, Y: p.Y + dy}
	}
	return result
}

// Rect returns the outline of an axis-aligned rectangle anchored at its
// bottom-left corner.
func Rect(x, y, w, h float64) Outline {
	return Outline{
		{X: x, Y: y},
		{X: x + w, Y: y},
		{X: x + w, Y: y + h},
		{X: x, Y: y + h},
	}
}

// Frame is a closed polygon cut from the sheet (outer sheet or inner opening).
type Frame struct {
	Name   string    `json:"name"`
	Layer  LayerRole `json:"layer"`
	Points Outline   `json:"points"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
}

// NewFrame builds a Frame on the CUT layer, deriving width and height from
// the outline's bounding box.
func NewFrame(name string, points Outline) Frame {
	min, max := points.BoundingBox()
	return Frame{
		Name:   name,
		Layer:  LayerCut,
		Points: points,
		Width:  max.X - min.X,
		Height: max.Y - min.Y,
	}
}

// Cutout is an opening inside a frame (latch box, glass panel, keybox).
type Cutout struct {
	Name   string    `json:"name"`
	Layer  LayerRole `json:"layer"`
	Points Outline   `json:"points"`
}

// Hole is a circular cut.
type Hole struct {
	Name   string    `json:"name"`
	Layer  LayerRole `json:"layer"`
	Center Point2D   `json:"center"`
	Radius float64   `json:"radius"`
}

// Orientation selects the axis a dimension annotation measures along.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "Vertical"
	}
	return "Horizontal"
}

// DimensionAnnotation reports the distance between two points. Offset is the
// signed perpendicular distance from the measured segment to the dimension
// line; its sign selects the side of the part the annotation is drawn on.
type DimensionAnnotation struct {
	Start       Point2D     `json:"from"`
	End         Point2D     `json:"to"`
	Offset      float64     `json:"offset"`
	TextOffset  float64     `json:"text_offset,omitempty"` // 0 = default gap
	Label       string      `json:"text"`
	Orientation Orientation `json:"-"`
}

// TextAlign anchors a text entity relative to its position.
type TextAlign int

const (
	AlignCenter TextAlign = iota
	AlignLeft
	AlignRight
)

// TextLabel is a caption-style annotation not tied to a measurement.
type TextLabel struct {
	Kind     string    `json:"type"` // e.g. "center_label"
	Position Point2D   `json:"position"`
	Text     string    `json:"text"`
	Rotation float64   `json:"rotation,omitempty"` // degrees CCW
	Align    TextAlign `json:"-"`
}

// Metadata echoes the request context a document was generated from.
type Metadata struct {
	Label              string  `json:"label"`
	FileName           string  `json:"file_name"`
	Width              float64 `json:"width"`  // logical outer width, mm
	Height             float64 `json:"height"` // logical outer height, mm
	Rotated            bool    `json:"rotated"`
	AnnotationRequired bool    `json:"is_annotation_required"`
	Origin             Point2D `json:"offset"` // translation applied during normalization
}

// GeometryDocument aggregates all entities produced for one generation
// request. It is immutable once built and consumed exactly once by a
// serializer.
type GeometryDocument struct {
	ID         string                `json:"id"`
	Metadata   Metadata              `json:"metadata"`
	Frames     []Frame               `json:"frames"`
	Cutouts    []Cutout              `json:"cutouts"`
	Holes      []Hole                `json:"holes"`
	Dimensions []DimensionAnnotation `json:"annotations"`
	Labels     []TextLabel           `json:"labels"`
}

// NewGeometryDocument creates an empty document with a fresh short ID.
func NewGeometryDocument(meta Metadata) *GeometryDocument {
	return &GeometryDocument{
		ID:       uuid.New().String()[:8],
		Metadata: meta,
	}
}

// BoundingBox returns the extent of all cut geometry in the document.
// Dimension annotations and labels are excluded.
func (d *GeometryDocument) BoundingBox() (min, max Point2D) {
	var all Outline
	for _, f := range d.Frames {
		all = append(all, f.Points...)
	}
	for _, c := range d.Cutouts {
		all = append(all, c.Points...)
	}
	for _, h := range d.Holes {
		all = append(all,
			Point2D{X: h.Center.X - h.Radius, Y: h.Center.Y - h.Radius},
			Point2D{X: h.Center.X + h.Radius, Y: h.Center.Y + h.Radius})
	}
	return all.BoundingBox()
}
