// Package batch turns imported door orders into nested stock-sheet DXF
// archives. Failures stay per-row: a rejected order is reported in the
// archive manifest while the remaining doors are still produced.
package batch

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/framecut/framecut/internal/document"
	"github.com/framecut/framecut/internal/export"
	"github.com/framecut/framecut/internal/geometry"
	"github.com/framecut/framecut/internal/importer"
	"github.com/framecut/framecut/internal/model"
	"github.com/framecut/framecut/internal/nest"
	"github.com/framecut/framecut/internal/preset"
)

// Runner wires the preset table, geometry engine and nester for batch runs.
type Runner struct {
	cfg     model.AppConfig
	table   *preset.Table
	engine  *geometry.Engine
	builder *document.Builder
	nester  *nest.Nester

	// Workers caps concurrent geometry builds; 0 means one per CPU.
	Workers int
	// Optimize enables the genetic layout search on top of the greedy
	// packer, keeping whichever result uses less material.
	Optimize bool
}

// NewRunner returns a batch runner for the given settings.
func NewRunner(cfg model.AppConfig, table *preset.Table) *Runner {
	return &Runner{
		cfg:     cfg,
		table:   table,
		engine:  geometry.NewEngine(cfg.Geometry),
		builder: document.NewBuilder(cfg.Geometry),
		nester:  nest.NewNester(cfg),
	}
}

// Output is the product of a batch run: one archive entry per nested stock
// sheet and a manifest covering successes and failures.
type Output struct {
	Entries []export.ArchiveEntry
	Summary export.BatchSummary
	// Sheets holds the merged per-sheet documents for further rendering
	// (PDF cut sheets); Doors the individual drawings that were nested
	// (label sheets).
	Sheets []*model.GeometryDocument
	Doors  []*model.GeometryDocument
}

// buildParts generates every valid order and returns the nestable parts.
// Rows that fail classification or geometry come back as failures.
func (r *Runner) buildParts(ctx context.Context, rows []importer.Row) (parts []nest.Part, docs []*model.GeometryDocument, failures []export.RowFailure) {
	var items []document.BatchItem
	for _, row := range rows {
		overrides, err := r.table.Resolve(row.Spec.Category, row.Spec.Subtype, row.Spec.Option)
		if err != nil {
			failures = append(failures, export.RowFailure{Name: row.Name, Error: err.Error()})
			continue
		}
		items = append(items, document.BatchItem{
			Name: row.Name,
			Request: geometry.BuildRequest{
				Spec:      row.Spec,
				Dims:      row.Dims,
				Mfg:       r.cfg.Defaults,
				Overrides: overrides,
				Label:     row.Name,
				FileName:  row.Name + ".dxf",
			},
		})
	}

	results := document.RunBatch(ctx, r.engine, items, r.Workers)
	for i, res := range results {
		if res.Err != nil {
			failures = append(failures, export.RowFailure{Name: res.Name, Error: res.Err.Error()})
			continue
		}
		parts = append(parts, nest.Part{
			Name:    res.Name,
			Width:   res.Doc.Metadata.Width,
			Height:  res.Doc.Metadata.Height,
			Request: items[i].Request,
		})
		docs = append(docs, res.Doc)
	}
	return parts, docs, failures
}

// Run generates, nests and flattens all orders. Row-level problems land in
// the summary's failure list; only archive assembly itself can fail.
func (r *Runner) Run(ctx context.Context, rows []importer.Row) (Output, error) {
	out := Output{Summary: export.BatchSummary{GeneratedAt: time.Now().UTC()}}

	parts, docs, failures := r.buildParts(ctx, rows)
	out.Doors = docs
	out.Summary.Failures = failures

	var packed nest.Result
	if r.Optimize {
		packed = r.nester.PackBest(parts)
	} else {
		packed = r.nester.Pack(parts)
	}
	for _, p := range packed.Unplaced {
		out.Summary.Failures = append(out.Summary.Failures, export.RowFailure{
			Name:  p.Name,
			Error: fmt.Sprintf("door %gx%g does not fit the %gx%g stock sheet", p.Width, p.Height, r.nester.SheetWidth, r.nester.SheetHeight),
		})
	}

	for i, sheet := range packed.Sheets {
		name := fmt.Sprintf("sheet_%d.dxf", i+1)
		doc, err := r.nester.BuildSheetDocument(r.engine, sheet, name)
		if err != nil {
			return Output{}, err
		}
		out.Sheets = append(out.Sheets, doc)
		out.Entries = append(out.Entries, export.ArchiveEntry{Name: name, CAD: r.builder.CAD(doc)})
		out.Summary.Sheets = append(out.Summary.Sheets, export.SheetSummary{
			FileName: name,
			Doors:    len(sheet.Placements),
			Width:    sheet.Width,
			Height:   sheet.Height,
		})
		for _, p := range sheet.Placements {
			out.Summary.Doors = append(out.Summary.Doors, export.DoorSummary{
				Name:    p.Part.Name,
				Sheet:   i + 1,
				Width:   p.Part.Width,
				Height:  p.Part.Height,
				Rotated: p.Rotated,
			})
		}
	}
	return out, nil
}

// WriteZip streams a run's output as a zip archive.
func (r *Runner) WriteZip(w io.Writer, out Output) error {
	return export.WriteArchive(w, out.Entries, out.Summary)
}

// Compare nests the same orders under the default what-if strategies so
// sheet usage can be judged before committing material.
func (r *Runner) Compare(ctx context.Context, rows []importer.Row) []nest.StrategyResult {
	parts, _, _ := r.buildParts(ctx, rows)
	return nest.CompareStrategies(nest.BuildDefaultStrategies(*r.nester), parts)
}
