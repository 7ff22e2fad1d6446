package memdraw

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-draw/compositor/draw"
)

func TestFillPolySimpleSquareBothWindingRules(t *testing.T) {
	src := newImage(draw.Rect(0, 0, 1, 1), draw.XRGB32, true, RGBA{R: 0xFF, A: 0xFF})
	square := []draw.Point{draw.Pt(2, 2), draw.Pt(8, 2), draw.Pt(8, 8), draw.Pt(2, 8)}

	for _, wind := range []int{0, 1} {
		dst := newImage(draw.Rect(0, 0, 10, 10), draw.XRGB32, false, RGBA{})
		FillPoly(dst, square, true, wind, src, nil, draw.SoverD, draw.ZP)
		require.Equal(t, RGBA{R: 0xFF, A: 0xFF}, dst.at(draw.Pt(5, 5)), "wind=%d", wind)
		require.Equal(t, RGBA{}, dst.at(draw.Pt(0, 0)), "wind=%d", wind)
	}
}

func TestFillPolyNonZeroWindingFillsDoublyWoundLoop(t *testing.T) {
	src := newImage(draw.Rect(0, 0, 1, 1), draw.XRGB32, true, RGBA{R: 0xFF, A: 0xFF})

	// A single path tracing the same square twice, same direction: every
	// scanline crosses each side edge twice, so the square's interior has
	// winding number ±2. Non-zero winding fills it; even-odd pairs the
	// duplicate crossings into two zero-width spans and fills nothing.
	square := []draw.Point{draw.Pt(0, 0), draw.Pt(10, 0), draw.Pt(10, 10), draw.Pt(0, 10)}
	pts := append(append([]draw.Point{}, square...), square...)

	dstNonZero := newImage(draw.Rect(0, 0, 12, 12), draw.XRGB32, false, RGBA{})
	FillPoly(dstNonZero, pts, true, 1, src, nil, draw.SoverD, draw.ZP)

	dstEvenOdd := newImage(draw.Rect(0, 0, 12, 12), draw.XRGB32, false, RGBA{})
	FillPoly(dstEvenOdd, pts, true, 0, src, nil, draw.SoverD, draw.ZP)

	inside := draw.Pt(5, 5)
	require.Equal(t, RGBA{R: 0xFF, A: 0xFF}, dstNonZero.at(inside))
	require.Equal(t, RGBA{}, dstEvenOdd.at(inside))
}
