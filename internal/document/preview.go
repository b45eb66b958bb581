package document

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/framecut/framecut/internal/model"
)

// PreviewShape is a closed polygon in the preview wire shape. Points are
// [x, y] pairs, mm, origin bottom-left.
type PreviewShape struct {
	Name   string          `json:"name"`
	Layer  model.LayerRole `json:"layer"`
	Points [][2]float64    `json:"points"`
}

// PreviewHole is a circular cut in the preview wire shape.
type PreviewHole struct {
	Name   string          `json:"name"`
	Layer  model.LayerRole `json:"layer"`
	Center [2]float64      `json:"center"`
	Radius float64         `json:"radius"`
}

// PreviewDocument is the JSON document served to preview clients. It keeps
// dimension annotations symbolic so the client can restyle them.
type PreviewDocument struct {
	ID          string                      `json:"id"`
	Metadata    model.Metadata              `json:"metadata"`
	Frames      []PreviewShape              `json:"frames"`
	Cutouts     []PreviewShape              `json:"cutouts"`
	Holes       []PreviewHole               `json:"holes"`
	Annotations []model.DimensionAnnotation `json:"annotations"`
	Labels      []model.TextLabel           `json:"labels"`
}

func previewPoints(o model.Outline) [][2]float64 {
	pts := make([][2]float64, len(o))
	for i, p := range o {
		pts[i] = [2]float64{p.X, p.Y}
	}
	return pts
}

// Preview projects a geometry document onto the preview wire shape.
func Preview(doc *model.GeometryDocument) *PreviewDocument {
	out := &PreviewDocument{
		ID:          doc.ID,
		Metadata:    doc.Metadata,
		Annotations: doc.Dimensions,
		Labels:      doc.Labels,
		Frames:      make([]PreviewShape, 0, len(doc.Frames)),
		Cutouts:     make([]PreviewShape, 0, len(doc.Cutouts)),
		Holes:       make([]PreviewHole, 0, len(doc.Holes)),
	}
	for _, f := range doc.Frames {
		out.Frames = append(out.Frames, PreviewShape{Name: f.Name, Layer: f.Layer, Points: previewPoints(f.Points)})
	}
	for _, c := range doc.Cutouts {
		out.Cutouts = append(out.Cutouts, PreviewShape{Name: c.Name, Layer: c.Layer, Points: previewPoints(c.Points)})
	}
	for _, h := range doc.Holes {
		out.Holes = append(out.Holes, PreviewHole{Name: h.Name, Layer: h.Layer, Center: [2]float64{h.Center.X, h.Center.Y}, Radius: h.Radius})
	}
	return out
}

// EncodePreview writes the preview JSON for a document to w.
func EncodePreview(w io.Writer, doc *model.GeometryDocument) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Preview(doc)); err != nil {
		return fmt.Errorf("%w: encode preview: %v", ErrSerialization, err)
	}
	return nil
}
