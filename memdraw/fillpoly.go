package memdraw

import (
	"sort"

	"github.com/go-draw/compositor/draw"
)

// FillPoly fills the polygon described by pts (in dst's coordinate
// space) using a standard integer active-edge scanline. wind selects the
// fill rule: 0 is even-odd (alternate spans filled), nonzero is
// non-zero winding (a span is filled wherever the signed edge-crossing
// count is nonzero).
//
// sp is the point in src (and, if present, mask) aligned with pts[0],
// the convention the polygon and line opcodes use for their source
// point. closed false treats pts as an open polyline whose last segment
// (pts[len-1] back to pts[0]) does not exist; Line and the 'P' opcode
// both pass true.
func FillPoly(dst *Image, pts []draw.Point, closed bool, wind int, src, mask *Image, op draw.Op, sp draw.Point) {
	if len(pts) < 2 {
		return
	}
	origin := pts[0]
	edges := buildEdges(pts, closed)
	if len(edges) == 0 {
		return
	}
	ymin, ymax := edges[0].yTop, edges[0].yBot
	for _, e := range edges[1:] {
		if e.yTop < ymin {
			ymin = e.yTop
		}
		if e.yBot > ymax {
			ymax = e.yBot
		}
	}
	clip := dst.Clipr
	if ymin < clip.Min.Y {
		ymin = clip.Min.Y
	}
	if ymax > clip.Max.Y {
		ymax = clip.Max.Y
	}

	fillSpan := func(y, x0, x1 int) {
		if x0 < clip.Min.X {
			x0 = clip.Min.X
		}
		if x1 > clip.Max.X {
			x1 = clip.Max.X
		}
		if x0 >= x1 {
			return
		}
		r := draw.Rect(x0, y, x1, y+1)
		rowSP := draw.Pt(sp.X+(x0-origin.X), sp.Y+(y-origin.Y))
		Draw(dst, r, src, mask, op, rowSP, rowSP)
	}

	type crossing struct {
		x   int
		dir int
	}

	for y := ymin; y < ymax; y++ {
		var xs []crossing
		for _, e := range edges {
			if y < e.yTop || y >= e.yBot {
				continue
			}
			xs = append(xs, crossing{x: e.xAt(y), dir: e.dir})
		}
		if len(xs) < 2 {
			continue
		}
		sort.Slice(xs, func(i, j int) bool { return xs[i].x < xs[j].x })

		if wind == 0 {
			for i := 0; i+1 < len(xs); i += 2 {
				fillSpan(y, xs[i].x, xs[i+1].x)
			}
			continue
		}

		winding := 0
		spanStart := 0
		for _, c := range xs {
			before := winding
			winding += c.dir
			if before == 0 && winding != 0 {
				spanStart = c.x
			} else if before != 0 && winding == 0 {
				fillSpan(y, spanStart, c.x)
			}
		}
	}
}

type edge struct {
	yTop, yBot int
	x0         float64
	slope      float64 // dx per unit y
	dir        int     // +1 if the original edge descends (a.Y < b.Y), -1 otherwise
}

func (e edge) xAt(y int) int {
	return round(e.x0 + e.slope*float64(y-e.yTop))
}

func buildEdges(pts []draw.Point, closed bool) []edge {
	n := len(pts)
	last := n - 1
	if !closed {
		last = n - 2
	}
	var edges []edge
	for i := 0; i <= last; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		if a.Y == b.Y {
			continue
		}
		dir := 1
		if a.Y > b.Y {
			dir = -1
		}
		top, bot := a, b
		if top.Y > bot.Y {
			top, bot = bot, top
		}
		slope := float64(bot.X-top.X) / float64(bot.Y-top.Y)
		edges = append(edges, edge{
			yTop:  top.Y,
			yBot:  bot.Y,
			x0:    float64(top.X),
			slope: slope,
			dir:   dir,
		})
	}
	return edges
}
