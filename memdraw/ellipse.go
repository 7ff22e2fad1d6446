package memdraw

import "github.com/go-draw/compositor/draw"

// Ellipse draws, and optionally fills, an axis-aligned ellipse centered
// at c with horizontal/vertical radii a, b and border thickness thick (0
// means filled-only, the 'e'/'E' opcodes' "thickness 0" convention for a
// solid disc). Membership is tested per-pixel against the ellipse
// inequality, which is simple and exact for axis-aligned ellipses.
func Ellipse(dst *Image, c draw.Point, a, b, thick int, src, mask *Image, op draw.Op, sp draw.Point) {
	if a <= 0 || b <= 0 {
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

	for y := bbox.Min.Y; y < bbox.Max.Y; y++ {
		dy := y - c.Y
		for x := bbox.Min.X; x < bbox.Max.X; x++ {
			dx := x - c.X
			if !inEllipse(dx, dy, outerA, outerB) {
				continue
			}
			if !filled && inEllipse(dx, dy, innerA, innerB) {
				continue
			}
			p := draw.Pt(x, y)
			r := draw.Rectangle{Min: p, Max: draw.Pt(x+1, y+1)}
			Draw(dst, r, src, mask, op, sp.Add(p.Sub(c)), sp.Add(p.Sub(c)))
		}
	}
}

func inEllipse(dx, dy, a, b int) bool {
	if a <= 0 || b <= 0 {
		return dx == 0 && dy == 0
	}
	// (dx/a)^2 + (dy/b)^2 <= 1, scaled to avoid floats
	return dx*dx*b*b+dy*dy*a*a <= a*a*b*b
}
