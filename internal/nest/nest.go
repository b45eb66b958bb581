// Package nest lays generated doors out on stock sheets for batch cutting.
// It uses a guillotine-style packer with maximal-rectangle splitting: free
// rectangles are split around each placement and pruned, which lets rotated
// doors reuse strips spanning earlier cuts.
package nest

import (
	"fmt"
	"sort"

	"github.com/framecut/framecut/internal/geometry"
	"github.com/framecut/framecut/internal/model"
)

// Part is one door to nest, identified by its outer cut extents.
type Part struct {
	Name    string
	Width   float64
	Height  float64
	Request geometry.BuildRequest
}

// Placement is a part positioned on a sheet. X, Y address the bottom-left
// corner of the part's padded envelope.
type Placement struct {
	Part    Part
	X, Y    float64
	Rotated bool
}

// Sheet is one stock sheet with its placements.
type Sheet struct {
	Width      float64
	Height     float64
	Placements []Placement
}

// Result is the outcome of a nesting run. Parts too large for an empty
// sheet end up in Unplaced.
type Result struct {
	Sheets   []Sheet
	Unplaced []Part
}

// Nester packs door envelopes onto fixed-size stock sheets. Gap is the
// clearance kept between doors and around the sheet rim.
type Nester struct {
	SheetWidth  float64
	SheetHeight float64
	Gap         float64
}

// NewNester returns a nester for the given stock sheet size.
func NewNester(cfg model.AppConfig) *Nester {
	return &Nester{SheetWidth: cfg.SheetWidth, SheetHeight: cfg.SheetHeight, Gap: cfg.NestingGap}
}

// Pack nests the parts onto as many sheets as needed. Larger parts are
// placed first; each part is tried in both orientations and takes the
// tighter fit.
func (n *Nester) Pack(parts []Part) Result {
	ordered := make([]Part, len(parts))
	copy(ordered, parts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Width*ordered[i].Height > ordered[j].Width*ordered[j].Height
	})

	var result Result
	remaining := ordered
	for len(remaining) > 0 {
		sheet, unplaced := n.packSheet(remaining)
		if len(sheet.Placements) == 0 {
			// Nothing fits an empty sheet; everything left is oversized.
			result.Unplaced = append(result.Unplaced, unplaced...)
			break
		}
		result.Sheets = append(result.Sheets, sheet)
		remaining = unplaced
	}
	return result
}

func (n *Nester) packSheet(parts []Part) (Sheet, []Part) {
	sheet := Sheet{Width: n.SheetWidth, Height: n.SheetHeight}
	packer := newPacker(n.SheetWidth, n.SheetHeight, n.Gap)

	var unplaced []Part
	for _, part := range parts {
		w := part.Width
		h := part.Height

		// Compare both orientations and take the tighter fit.
		rotated := false
		if w != h {
			normalFit := packer.bestFit(w, h)
			rotatedFit := packer.bestFit(h, w)
			if normalFit < 0 && rotatedFit >= 0 {
				rotated = true
			} else if normalFit >= 0 && rotatedFit >= 0 && rotatedFit < normalFit {
				rotated = true
			}
		}
		if rotated {
			w, h = h, w
		}

		ok, x, y := packer.insert(w, h)
		if !ok && !rotated && w != h {
			// Normal orientation failed; the rotated one may still fit.
			ok, x, y = packer.insert(h, w)
			rotated = ok
		}
		if !ok {
			unplaced = append(unplaced, part)
			continue
		}
		sheet.Placements = append(sheet.Placements, Placement{Part: part, X: x, Y: y, Rotated: rotated})
	}
	return sheet, unplaced
}

// BuildSheetDocument regenerates each placed door at its sheet position and
// merges everything into one drawing with the stock boundary on the BIN
// layer. Doors keep their identification labels but drop dimension
// annotations, which have no place on a nested sheet.
func (n *Nester) BuildSheetDocument(eng *geometry.Engine, sheet Sheet, name string) (*model.GeometryDocument, error) {
	out := model.NewGeometryDocument(model.Metadata{
		Label:    name,
		FileName: name,
		Width:    sheet.Width,
		Height:   sheet.Height,
	})
	out.Frames = append(out.Frames, model.Frame{
		Name:   "stock",
		Layer:  model.LayerBin,
		Points: model.Rect(0, 0, sheet.Width, sheet.Height),
		Width:  sheet.Width,
		Height: sheet.Height,
	})

	half := n.Gap / 2
	for _, p := range sheet.Placements {
		req := p.Part.Request
		req.Annotate = false
		req.Rotate = p.Rotated
		req.Offset = model.Point2D{X: p.X + half, Y: p.Y + half}

		doc, err := eng.Build(req)
		if err != nil {
			return nil, fmt.Errorf("nest %s: %w", p.Part.Name, err)
		}
		out.Frames = append(out.Frames, doc.Frames...)
		out.Cutouts = append(out.Cutouts, doc.Cutouts...)
		out.Holes = append(out.Holes, doc.Holes...)
		out.Labels = append(out.Labels, doc.Labels...)
	}
	return out, nil
}

// packer keeps the free-rectangle state of one sheet. Parts are padded by
// the gap on both axes and inserted with Best Area Fit.
type packer struct {
	freeRects []freeRect
	gap       float64
}

type freeRect struct {
	x, y, w, h float64
}

func newPacker(width, height, gap float64) *packer {
	return &packer{
		freeRects: []freeRect{{0, 0, width, height}},
		gap:       gap,
	}
}

const packEps = 0.001

// insert places a w x h part plus clearance. It returns the envelope
// position on success.
func (p *packer) insert(w, h float64) (bool, float64, float64) {
	wk := w + p.gap
	hk := h + p.gap

	bestIdx := -1
	bestAreaFit := float64(-1)
	for i, r := range p.freeRects {
		if wk <= r.w+packEps && hk <= r.h+packEps {
			areaFit := r.w*r.h - w*h
			if bestIdx < 0 || areaFit < bestAreaFit {
				bestIdx = i
				bestAreaFit = areaFit
			}
		}
	}
	if bestIdx < 0 {
		return false, 0, 0
	}

	chosen := p.freeRects[bestIdx]
	placed := freeRect{x: chosen.x, y: chosen.y, w: wk, h: hk}
	p.splitAroundPlacement(placed)
	return true, chosen.x, chosen.y
}

// bestFit reports the area waste of the best placement for a w x h part
// without mutating the packer. -1 means no fit.
func (p *packer) bestFit(w, h float64) float64 {
	wk := w + p.gap
	hk := h + p.gap
	best := float64(-1)
	for _, r := range p.freeRects {
		if wk <= r.w+packEps && hk <= r.h+packEps {
			areaFit := r.w*r.h - w*h
			if best < 0 || areaFit < best {
				best = areaFit
			}
		}
	}
	return best
}

// splitAroundPlacement removes every free rect overlapping the placement and
// replaces it with up to four maximal strips, then prunes contained rects.
func (p *packer) splitAroundPlacement(placed freeRect) {
	var next []freeRect
	for _, r := range p.freeRects {
		if !rectsOverlap(r, placed) {
			next = append(next, r)
			continue
		}
		if placed.x > r.x+packEps {
			next = append(next, freeRect{r.x, r.y, placed.x - r.x, r.h})
		}
		if placed.x+placed.w < r.x+r.w-packEps {
			next = append(next, freeRect{placed.x + placed.w, r.y, r.x + r.w - placed.x - placed.w, r.h})
		}
		if placed.y > r.y+packEps {
			next = append(next, freeRect{r.x, r.y, r.w, placed.y - r.y})
		}
		if placed.y+placed.h < r.y+r.h-packEps {
			next = append(next, freeRect{r.x, placed.y + placed.h, r.w, r.y + r.h - placed.y - placed.h})
		}
	}
	p.freeRects = pruneContained(next)
}

func rectsOverlap(a, b freeRect) bool {
	return a.x < b.x+b.w-packEps && a.x+a.w > b.x+packEps &&
		a.y < b.y+b.h-packEps && a.y+a.h > b.y+packEps
}

// pruneContained removes rects fully contained within another.
func pruneContained(rects []freeRect) []freeRect {
	if len(rects) <= 1 {
		return rects
	}
	kept := make([]freeRect, 0, len(rects))
	for i, a := range rects {
		contained := false
		for j, b := range rects {
			if i != j && containsRect(b, a) {
				contained = true
				break
			}
		}
		if !contained {
			kept = append(kept, a)
		}
	}
	return kept
}

func containsRect(outer, inner freeRect) bool {
	return outer.x <= inner.x+packEps && outer.y <= inner.y+packEps &&
		outer.x+outer.w >= inner.x+inner.w-packEps &&
		outer.y+outer.h >= inner.y+inner.h-packEps
}
