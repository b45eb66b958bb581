package export

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/framecut/framecut/internal/document"
)

// ArchiveEntry is one DXF file inside a batch archive.
type ArchiveEntry struct {
	Name string
	CAD  *document.CADDocument
}

// BatchSummary is the manifest written alongside the DXF files of a batch
// archive. Failed rows appear here and nowhere else.
type BatchSummary struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Sheets      []SheetSummary `json:"sheets"`
	Doors       []DoorSummary  `json:"doors"`
	Failures    []RowFailure   `json:"failures,omitempty"`
}

// SheetSummary describes one nested stock sheet in the archive.
type SheetSummary struct {
	FileName string  `json:"file_name"`
	Doors    int     `json:"doors"`
	Width    float64 `json:"width_mm"`
	Height   float64 `json:"height_mm"`
}

// DoorSummary describes one successfully generated door.
type DoorSummary struct {
	Name    string  `json:"name"`
	Sheet   int     `json:"sheet"`
	Width   float64 `json:"width_mm"`
	Height  float64 `json:"height_mm"`
	Rotated bool    `json:"rotated"`
}

// RowFailure records a rejected batch row.
type RowFailure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// WriteArchive streams a zip archive with one DXF per entry plus a
// summary.json manifest.
func WriteArchive(w io.Writer, entries []ArchiveEntry, summary BatchSummary) error {
	zw := zip.NewWriter(w)

	for _, e := range entries {
		f, err := zw.Create(e.Name)
		if err != nil {
			return fmt.Errorf("%w: archive entry %s: %v", document.ErrSerialization, e.Name, err)
		}
		if err := WriteDXF(f, e.CAD); err != nil {
			return err
		}
	}

	f, err := zw.Create("summary.json")
	if err != nil {
		return fmt.Errorf("%w: archive summary: %v", document.ErrSerialization, err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("%w: encode summary: %v", document.ErrSerialization, err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: close archive: %v", document.ErrSerialization, err)
	}
	return nil
}
