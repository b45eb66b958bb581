package export

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/framecut/framecut/internal/document"
	"github.com/framecut/framecut/internal/model"
)

// Page layout constants (A4 portrait in mm).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF renders one cut sheet page per document: the scaled drawing with
// cuts, holes and dimension annotations, headed by the door label and sheet
// size.
func ExportPDF(path string, docs []*model.GeometryDocument, cfg model.GeometryConfig) error {
	if len(docs) == 0 {
		return fmt.Errorf("%w: no documents to export", document.ErrSerialization)
	}

	builder := document.NewBuilder(cfg)
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, doc := range docs {
		pdf.AddPage()
		renderCutSheetPage(pdf, builder.CAD(doc), doc.Metadata, i+1, len(docs))
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("%w: write pdf: %v", document.ErrSerialization, err)
	}
	return nil
}

// renderCutSheetPage draws a single document on the current PDF page.
func renderCutSheetPage(pdf *fpdf.Fpdf, cad *document.CADDocument, meta model.Metadata, pageNum, pageCount int) {
	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s (%.0f x %.0f mm)", meta.Label, meta.Width, meta.Height)
	if meta.Label == "" {
		title = fmt.Sprintf("%.0f x %.0f mm", meta.Width, meta.Height)
	}
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5,
		fmt.Sprintf("Sheet %d of %d | %s", pageNum, pageCount, meta.FileName), "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom

	// Scale the drawing to fit the page, preserving aspect ratio. The
	// drawing includes annotation overhang, so size off the full extents.
	minP, maxP := cadExtents(cad)
	spanX := maxP.X - minP.X
	spanY := maxP.Y - minP.Y
	if spanX <= 0 || spanY <= 0 {
		return
	}
	scale := drawWidth / spanX
	if s := drawHeight / spanY; s < scale {
		scale = s
	}

	offsetX := marginLeft + (drawWidth-spanX*scale)/2
	offsetY := drawAreaTop + (drawHeight-spanY*scale)/2

	// PDF origin is top-left; the drawing's is bottom-left.
	tx := func(p model.Point2D) (float64, float64) {
		return offsetX + (p.X-minP.X)*scale, offsetY + (maxP.Y-p.Y)*scale
	}

	setLayerStyle := func(layer model.LayerRole) {
		switch layer {
		case model.LayerDimensions:
			pdf.SetDrawColor(200, 0, 0)
			pdf.SetLineWidth(0.15)
		case model.LayerBin:
			pdf.SetDrawColor(180, 140, 0)
			pdf.SetLineWidth(0.4)
		default:
			pdf.SetDrawColor(30, 30, 30)
			pdf.SetLineWidth(0.3)
		}
	}

	for _, pl := range cad.Polylines {
		if len(pl.Points) < 2 {
			continue
		}
		setLayerStyle(pl.Layer)
		pts := make([]fpdf.PointType, 0, len(pl.Points))
		for _, p := range pl.Points {
			x, y := tx(p)
			pts = append(pts, fpdf.PointType{X: x, Y: y})
		}
		if pl.Closed {
			pdf.Polygon(pts, "D")
		} else {
			for i := 1; i < len(pts); i++ {
				pdf.Line(pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y)
			}
		}
	}

	for _, c := range cad.Circles {
		setLayerStyle(c.Layer)
		x, y := tx(c.Center)
		pdf.Circle(x, y, c.Radius*scale, "D")
	}

	for _, l := range cad.Lines {
		setLayerStyle(l.Layer)
		x1, y1 := tx(l.From)
		x2, y2 := tx(l.To)
		pdf.Line(x1, y1, x2, y2)
	}

	pdf.SetTextColor(120, 0, 0)
	for _, t := range cad.Texts {
		fontSize := t.Height * scale / 0.3528 // mm to pt
		if fontSize < 4 {
			fontSize = 4
		}
		pdf.SetFont("Helvetica", "", fontSize)
		x, y := tx(t.Position)
		w := pdf.GetStringWidth(t.Value)
		switch t.Align {
		case model.AlignCenter:
			x -= w / 2
		case model.AlignRight:
			x -= w
		}
		if t.Rotation != 0 {
			pdf.TransformBegin()
			pdf.TransformRotate(t.Rotation, x, y)
		}
		pdf.Text(x, y, t.Value)
		if t.Rotation != 0 {
			pdf.TransformEnd()
		}
	}
	pdf.SetTextColor(0, 0, 0)
}

func cadExtents(cad *document.CADDocument) (min, max model.Point2D) {
	first := true
	grow := func(x, y float64) {
		if first {
			min = model.Point2D{X: x, Y: y}
			max = min
			first = false
			return
		}
		if x < min.X {
			min.X = x
		}
		if y < min.Y {
			min.Y = y
		}
		if x > max.X {
			max.X = x
		}
		if y > max.Y {
			max.Y = y
		}
	}
	for _, pl := range cad.Polylines {
		for _, p := range pl.Points {
			grow(p.X, p.Y)
		}
	}
	for _, c := range cad.Circles {
		grow(c.Center.X-c.Radius, c.Center.Y-c.Radius)
		grow(c.Center.X+c.Radius, c.Center.Y+c.Radius)
	}
	for _, l := range cad.Lines {
		grow(l.From.X, l.From.Y)
		grow(l.To.X, l.To.Y)
	}
	for _, t := range cad.Texts {
		grow(t.Position.X, t.Position.Y)
	}
	return min, max
}
