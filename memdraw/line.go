package memdraw

import (
	"math"

	"github.com/go-draw/compositor/draw"
)

// Line draws a thick line segment from p0 to p1 of the given radius
// (half-width) and end cap style, by building the segment's
// rectangle-plus-caps outline as a polygon and filling it, rather than
// a dedicated Bresenham walk.
func Line(dst *Image, p0, p1 draw.Point, end0, end1 draw.End, radius int, src, mask *Image, op draw.Op, sp draw.Point) {
	if radius < 0 {
		radius = 0
	}
	pts := lineOutline(p0, p1, radius, end0, end1)
	FillPoly(dst, pts, true, 0, src, mask, op, sp)
}

// lineOutline builds the polygon outline of a stroked segment: a
// rectangle radius wide perpendicular to the segment, extended at each
// end per the cap style. Square caps extend the rectangle by radius at
// that end; disc caps round that end off with a semicircular arc of
// points instead. Arrow caps currently render as a plain butt cap (no
// extension or arrowhead geometry).
func lineOutline(p0, p1 draw.Point, radius int, end0, end1 draw.End) []draw.Point {
	dx := float64(p1.X - p0.X)
	dy := float64(p1.Y - p0.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		length = 1
	}
	ux, uy := dx/length, dy/length
	// The stroke's documented width is max(1, 2*radius). At radius 0 the
	// outline is the segment plus its copy shifted one pixel along the
	// minor axis, a band exactly one pixel wide.
	if radius == 0 {
		off := draw.Pt(0, 1)
		if math.Abs(dy) > math.Abs(dx) {
			off = draw.Pt(1, 0)
		}
		return []draw.Point{p0, p1, p1.Add(off), p0.Add(off)}
	}
	halfWidth := radius
	nx, ny := -uy*float64(halfWidth), ux*float64(halfWidth)

	a0, a1 := p0, p1
	if end0 == draw.EndSquare && radius > 0 {
		a0 = draw.Pt(a0.X-round(ux*float64(radius)), a0.Y-round(uy*float64(radius)))
	}
	if end1 == draw.EndSquare && radius > 0 {
		a1 = draw.Pt(a1.X+round(ux*float64(radius)), a1.Y+round(uy*float64(radius)))
	}

	pts := []draw.Point{
		draw.Pt(a0.X+round(nx), a0.Y+round(ny)),
		draw.Pt(a1.X+round(nx), a1.Y+round(ny)),
	}
	if end1 == draw.EndDisc {
		pts = append(pts, discCapPoints(a1, halfWidth, ux, uy)...)
	}
	pts = append(pts,
		draw.Pt(a1.X-round(nx), a1.Y-round(ny)),
		draw.Pt(a0.X-round(nx), a0.Y-round(ny)),
	)
	if end0 == draw.EndDisc {
		pts = append(pts, discCapPoints(a0, halfWidth, -ux, -uy)...)
	}
	return pts
}

// discCapPoints returns points tracing a semicircular arc of radius rad
// around center, bulging out in the direction (dirX, dirY) (a unit
// vector), from the +90-degree normal to the -90-degree normal. Used to
// round off a disc-style line end cap instead of leaving it a flat butt.
func discCapPoints(center draw.Point, rad int, dirX, dirY float64) []draw.Point {
	const segments = 8
	nx, ny := -dirY, dirX
	pts := make([]draw.Point, 0, segments-1)
	for i := 1; i < segments; i++ {
		theta := math.Pi * float64(i) / float64(segments)
		cx := nx*math.Cos(theta) + dirX*math.Sin(theta)
		cy := ny*math.Cos(theta) + dirY*math.Sin(theta)
		pts = append(pts, draw.Pt(center.X+round(cx*float64(rad)), center.Y+round(cy*float64(rad))))
	}
	return pts
}

func round(f float64) int {
	if f >= 0 {
		return int(f + 0.5)
	}
	return int(f - 0.5)
}
