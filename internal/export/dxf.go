// Package export serializes flattened drawing documents to the delivery
// formats: DXF for the laser cutter, PDF cut sheets and QR label sheets for
// the shop floor, and zip archives for batch runs.
package export

import (
	"fmt"
	"io"
	"os"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/table"

	"github.com/framecut/framecut/internal/document"
	"github.com/framecut/framecut/internal/model"
)

// Layer color assignments follow the cutter's convention: cyan cuts,
// red annotations, yellow stock boundary.
var layerColors = map[model.LayerRole]color.ColorNumber{
	model.LayerCut:        color.Cyan,
	model.LayerDimensions: color.Red,
	model.LayerBin:        color.Yellow,
}

var layerOrder = []model.LayerRole{model.LayerCut, model.LayerDimensions, model.LayerBin}

// WriteDXF serializes a flattened document as DXF.
func WriteDXF(w io.Writer, cad *document.CADDocument) error {
	d, err := buildDrawing(cad)
	if err != nil {
		return err
	}
	if _, err := d.WriteTo(w); err != nil {
		return fmt.Errorf("%w: write dxf: %v", document.ErrSerialization, err)
	}
	return nil
}

// SaveDXF writes a flattened document to a DXF file at path.
func SaveDXF(path string, cad *document.CADDocument) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", document.ErrSerialization, path, err)
	}
	defer f.Close()

	if err := WriteDXF(f, cad); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", document.ErrSerialization, path, err)
	}
	return nil
}

func buildDrawing(cad *document.CADDocument) (*drawing.Drawing, error) {
	d := dxf.NewDrawing()

	for _, layer := range layerOrder {
		if !layerUsed(cad, layer) {
			continue
		}
		if _, err := d.AddLayer(string(layer), layerColors[layer], table.LT_CONTINUOUS, true); err != nil {
			return nil, fmt.Errorf("%w: add layer %s: %v", document.ErrSerialization, layer, err)
		}
		if err := emitLayer(d, cad, layer); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func layerUsed(cad *document.CADDocument, layer model.LayerRole) bool {
	for _, p := range cad.Polylines {
		if p.Layer == layer {
			return true
		}
	}
	for _, c := range cad.Circles {
		if c.Layer == layer {
			return true
		}
	}
	for _, l := range cad.Lines {
		if l.Layer == layer {
			return true
		}
	}
	for _, t := range cad.Texts {
		if t.Layer == layer {
			return true
		}
	}
	return false
}

func emitLayer(d *drawing.Drawing, cad *document.CADDocument, layer model.LayerRole) error {
	fail := func(what string, err error) error {
		return fmt.Errorf("%w: %s on layer %s: %v", document.ErrSerialization, what, layer, err)
	}

	for _, p := range cad.Polylines {
		if p.Layer != layer {
			continue
		}
		vertices := make([][]float64, len(p.Points))
		for i, pt := range p.Points {
			vertices[i] = []float64{pt.X, pt.Y}
		}
		if _, err := d.LwPolyline(p.Closed, vertices...); err != nil {
			return fail("polyline", err)
		}
	}
	for _, c := range cad.Circles {
		if c.Layer != layer {
			continue
		}
		if _, err := d.Circle(c.Center.X, c.Center.Y, 0, c.Radius); err != nil {
			return fail("circle", err)
		}
	}
	for _, l := range cad.Lines {
		if l.Layer != layer {
			continue
		}
		if _, err := d.Line(l.From.X, l.From.Y, 0, l.To.X, l.To.Y, 0); err != nil {
			return fail("line", err)
		}
	}
	for _, t := range cad.Texts {
		if t.Layer != layer {
			continue
		}
		pos := textAnchor(t)
		if _, err := d.Text(t.Value, pos.X, pos.Y, 0, t.Height); err != nil {
			return fail("text", err)
		}
	}
	return nil
}

// textAnchor approximates center and right alignment by shifting the
// insertion point, using a 0.6 glyph aspect for the stock CAD font.
func textAnchor(t document.Text) model.Point2D {
	w := 0.6 * t.Height * float64(len(t.Value))
	pos := t.Position
	switch t.Align {
	case model.AlignCenter:
		pos.X -= w / 2
	case model.AlignRight:
		pos.X -= w
	}
	return pos
}
