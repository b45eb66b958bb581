package geometry

import (
	"math"

	"github.com/framecut/framecut/internal/model"
)

// roundedRect returns the outline of an axis-aligned rectangle with filleted
// corners. Each corner arc is approximated with segments chord points. A
// radius larger than half the shorter side is clamped so opposite fillets
// meet tangentially instead of overlapping.
func roundedRect(x, y, w, h, r float64, segments int) model.Outline {
	if r <= 0 || segments < 1 {
		return model.Rect(x, y, w, h)
	}
	if max := math.Min(w, h) / 2; r > max {
		r = max
	}

	// Corner centers, counter-clockwise from bottom-left, with the start
	// angle of each quarter arc.
	corners := []struct {
		cx, cy, start float64
	}{
		{x + r, y + r, math.Pi},           // bottom-left
		{x + w - r, y + r, 1.5 * math.Pi}, // bottom-right
		{x + w - r, y + h - r, 0},         // top-right
		{x + r, y + h - r, 0.5 * math.Pi}, // top-left
	}

	out := make(model.Outline, 0, 4*(segments+1))
	for _, c := range corners {
		for i := 0; i <= segments; i++ {
			a := c.start + (float64(i)/float64(segments))*(math.Pi/2)
			out = append(out, model.Point2D{
				X: c.cx + r*math.Cos(a),
				Y: c.cy + r*math.Sin(a),
			})
		}
	}
	return dedupePoints(out)
}

// dedupePoints removes consecutive duplicates (within float noise), including
// a trailing point that duplicates the first. Fully clamped fillets produce
// coincident arc endpoints that would otherwise become zero-length edges.
func dedupePoints(o model.Outline) model.Outline {
	const eps = 1e-9
	same := func(a, b model.Point2D) bool {
		return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
	}
	out := o[:0:0]
	for _, p := range o {
		if len(out) > 0 && same(out[len(out)-1], p) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && same(out[0], out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out
}
