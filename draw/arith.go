package draw

import "image"

// A Point is an X, Y coordinate pair, a location in an Image such as the
// display surface. The coordinate system has X increasing to the right
// and Y increasing down.
type Point = image.Point

// A Rectangle is a rectangular area in an image.
// By definition, Min.X <= Max.X and Min.Y <= Max.Y.
// By convention, the right (Max.X) and bottom (Max.Y) edges are excluded
// from the represented rectangle, so abutting rectangles have no points
// in common. A Rectangle with Min.X > Max.X or Min.Y > Max.Y is empty.
type Rectangle = image.Rectangle

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Rect is shorthand for Rectangle{Min: Pt(x0, y0), Max: Pt(x1, y1)}.
// Unlike image.Rect, Rect does not canonicalize its arguments: a
// Rectangle with x1 > x2 or y1 > y2 is an empty rectangle, not an error.
func Rect(x0, y0, x1, y1 int) Rectangle {
	return Rectangle{Pt(x0, y0), Pt(x1, y1)}
}

// Rpt is shorthand for Rectangle{min, max}.
func Rpt(min, max Point) Rectangle {
	return Rectangle{Min: min, Max: max}
}

// ZP is the zero Point.
var ZP Point

// ZR is the zero Rectangle.
var ZR Rectangle

// RectClip intersects *r with rr, reporting whether the result is
// non-empty. If the intersection is empty, *r is left as the empty
// intersection (so callers that short-circuit on a false return get a
// degenerate but well-formed rectangle).
func RectClip(r *Rectangle, rr Rectangle) bool {
	if r.Min.X < rr.Min.X {
		r.Min.X = rr.Min.X
	}
	if r.Min.Y < rr.Min.Y {
		r.Min.Y = rr.Min.Y
	}
	if r.Max.X > rr.Max.X {
		r.Max.X = rr.Max.X
	}
	if r.Max.Y > rr.Max.Y {
		r.Max.Y = rr.Max.Y
	}
	return r.Min.X < r.Max.X && r.Min.Y < r.Max.Y
}

// RectXRect reports whether r and rr share at least one point, including
// touching at an edge.
func RectXRect(r, rr Rectangle) bool {
	return r.Min.X <= rr.Max.X && rr.Min.X <= r.Max.X &&
		r.Min.Y <= rr.Max.Y && rr.Min.Y <= r.Max.Y
}

// RectInRect reports whether r is entirely contained within rr.
func RectInRect(r, rr Rectangle) bool {
	return r.Min.X >= rr.Min.X && r.Max.X <= rr.Max.X &&
		r.Min.Y >= rr.Min.Y && r.Max.Y <= rr.Max.Y
}

// CombineRect grows *r to be the bounding box of *r and rr.
// An empty rr leaves *r unchanged; an empty *r takes on rr's bounds.
func CombineRect(r *Rectangle, rr Rectangle) {
	if rr.Empty() {
		return
	}
	if r.Empty() {
		*r = rr
		return
	}
	if rr.Min.X < r.Min.X {
		r.Min.X = rr.Min.X
	}
	if rr.Min.Y < r.Min.Y {
		r.Min.Y = rr.Min.Y
	}
	if rr.Max.X > r.Max.X {
		r.Max.X = rr.Max.X
	}
	if rr.Max.Y > r.Max.Y {
		r.Max.Y = rr.Max.Y
	}
}

// BytesPerLine returns the number of bytes needed to hold one scan line
// of r at the given bit depth, tightly packed.
func BytesPerLine(r Rectangle, depth int) int {
	if depth <= 0 || depth > 32 {
		panic("draw: invalid depth")
	}
	w := r.Dx()
	return (w*depth + 7) / 8
}
