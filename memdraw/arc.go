package memdraw

import (
	"math"

	"github.com/go-draw/compositor/draw"
)

// Arc draws the portion of the ellipse centered at c (radii a, b) that
// sweeps extent degrees counter-clockwise from start degrees, measured
// from the positive X axis per the 'a' opcode's documented angle
// convention. thick is the border thickness as in Ellipse (0 for a
// filled wedge).
//
// This implementation uses math.Atan2 directly to classify each pixel's
// angle against the wedge, and falls back to Ellipse's exact per-pixel
// membership test for the ring.
func Arc(dst *Image, c draw.Point, a, b, thick int, src, mask *Image, op draw.Op, sp draw.Point, start, extent int) {
	if a <= 0 || b <= 0 || extent == 0 {
		return
	}
	bbox := draw.Rect(c.X-a-thick, c.Y-b-thick, c.X+a+thick+1, c.Y+b+thick+1)
	if !draw.RectClip(&bbox, dst.Clipr) {
		return
	}
	outerA, outerB := a+thick, b+thick
	var innerA, innerB int
	filled := thick <= 0
	if !filled {
		innerA, innerB = a-thick, b-thick
	}

	lo, hi := normalizeArc(start, extent)

	for y := bbox.Min.Y; y < bbox.Max.Y; y++ {
		dy := y - c.Y
		for x := bbox.Min.X; x < bbox.Max.X; x++ {
			dx := x - c.X
			if dx == 0 && dy == 0 {
				continue
			}
			if !inEllipse(dx, dy, outerA, outerB) {
				continue
			}
			if !filled && inEllipse(dx, dy, innerA, innerB) {
				continue
			}
			if !inWedge(dx, dy, lo, hi) {
				continue
			}
			p := draw.Pt(x, y)
			r := draw.Rectangle{Min: p, Max: draw.Pt(x+1, y+1)}
			Draw(dst, r, src, mask, op, sp.Add(p.Sub(c)), sp.Add(p.Sub(c)))
		}
	}
}

// normalizeArc converts a (start-degrees, extent-degrees) pair, where a
// negative extent sweeps clockwise instead of the default
// counter-clockwise, and an extent magnitude over 360 is clamped, into a
// [lo, hi] degree range with lo <= hi, hi - lo <= 360. Angles increase
// counter-clockwise from the positive X axis in screen space (see
// inWedge's dy negation).
func normalizeArc(start, extent int) (lo, hi float64) {
	a := float64(start)
	p := float64(extent)
	if p < 0 {
		a += p
		p = -p
	}
	if p > 360 {
		p = 360
	}
	lo = math.Mod(a, 360)
	if lo < 0 {
		lo += 360
	}
	hi = lo + p
	return lo, hi
}

func inWedge(dx, dy int, lo, hi float64) bool {
	// Negate dy: draw coordinates put Y down, but positive alpha must
	// extend counter-clockwise on screen. atan2 with dy negated treats
	// increasing angle as counter-clockwise in screen space.
	deg := math.Atan2(float64(-dy), float64(dx)) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	if hi <= 360 {
		return deg >= lo && deg <= hi
	}
	return deg >= lo || deg <= hi-360
}
