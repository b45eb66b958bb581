package geometry

import (
	"math"
	"strconv"

	"github.com/framecut/framecut/internal/model"
)

// newDimension builds an annotation between two axis-aligned points. The
// orientation is derived from the endpoints and the label defaults to the
// measured distance. Zero-length measurements produce no annotation.
func newDimension(start, end model.Point2D, offset, textOffset float64, label string) (model.DimensionAnnotation, bool) {
	dx := end.X - start.X
	dy := end.Y - start.Y
	if dx == 0 && dy == 0 {
		return model.DimensionAnnotation{}, false
	}

	o := model.Horizontal
	length := math.Abs(dx)
	if dx == 0 {
		o = model.Vertical
		length = math.Abs(dy)
	}
	if label == "" {
		label = formatMM(length)
	}
	return model.DimensionAnnotation{
		Start:       start,
		End:         end,
		Offset:      offset,
		TextOffset:  textOffset,
		Label:       label,
		Orientation: o,
	}, true
}

// autoOffset returns a signed offset of the given magnitude pointing away
// from the drawing center, so automatically placed dimensions land outside
// the part. Midpoints exactly on the center line get the positive side.
func autoOffset(mid, center model.Point2D, magnitude float64, o model.Orientation) float64 {
	switch o {
	case model.Vertical:
		if mid.X < center.X {
			return -magnitude
		}
	default:
		if mid.Y < center.Y {
			return -magnitude
		}
	}
	return magnitude
}

// formatMM renders a millimeter value without trailing zeros ("913", "19.5").
func formatMM(v float64) string {
	// Snap near-integers so float noise never leaks into labels.
	r := math.Round(v*1000) / 1000
	return strconv.FormatFloat(r, 'f', -1, 64)
}
