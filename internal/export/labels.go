package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/framecut/framecut/internal/document"
	"github.com/framecut/framecut/internal/model"
)

// LabelInfo holds the data encoded into each door label's QR code.
type LabelInfo struct {
	DocumentID string  `json:"id"`
	Label      string  `json:"label"`
	FileName   string  `json:"file_name"`
	Width      float64 `json:"width_mm"`
	Height     float64 `json:"height_mm"`
	Rotated    bool    `json:"rotated"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows
// per page). Each label cell is approximately 66.7mm x 25.4mm on US Letter.
const (
	labelMarginTop  = 12.7
	labelMarginLeft = 4.8
	labelWidth      = 66.7
	labelHeight     = 25.4
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0
	labelPadding    = 2.0
)

// ExportLabels generates a PDF of QR-coded labels, one per document. Each
// label carries the door name, sheet size and a QR code encoding the
// document metadata as JSON.
func ExportLabels(path string, docs []*model.GeometryDocument) error {
	if len(docs) == 0 {
		return fmt.Errorf("%w: no documents to generate labels for", document.ErrSerialization)
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, doc := range docs {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols
		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		info := LabelInfo{
			DocumentID: doc.ID,
			Label:      doc.Metadata.Label,
			FileName:   doc.Metadata.FileName,
			Width:      doc.Metadata.Width,
			Height:     doc.Metadata.Height,
			Rotated:    doc.Metadata.Rotated,
		}
		if err := renderLabel(pdf, x, y, info); err != nil {
			return fmt.Errorf("%w: label for %q: %v", document.ErrSerialization, info.Label, err)
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("%w: write labels pdf: %v", document.ErrSerialization, err)
	}
	return nil
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Light border as a cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return err
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return err
	}

	imgName := "qr_" + info.DocumentID
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	label := info.Label
	if label == "" {
		label = info.DocumentID
	}
	if pdf.GetStringWidth(label) > textW {
		for len(label) > 0 && pdf.GetStringWidth(label+"...") > textW {
			label = label[:len(label)-1]
		}
		label += "..."
	}
	pdf.CellFormat(textW, 5, label, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(textX, y+labelPadding+6)
	pdf.CellFormat(textW, 4, fmt.Sprintf("%.0f x %.0f mm", info.Width, info.Height), "", 0, "L", false, 0, "")

	if info.Rotated {
		pdf.SetXY(textX, y+labelPadding+11)
		pdf.CellFormat(textW, 4, "rotated", "", 0, "L", false, 0, "")
	}
	return nil
}
