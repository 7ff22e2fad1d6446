package memdraw

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-draw/compositor/draw"
)

func newImage(r draw.Rectangle, chn draw.Pix, repl bool, fill RGBA) *Image {
	img := &Image{R: r, Clipr: r, Chan: chn, Repl: repl, Pix: make([]RGBA, r.Dx()*r.Dy())}
	for i := range img.Pix {
		img.Pix[i] = fill
	}
	return img
}

func TestDrawFlatFillReplication(t *testing.T) {
	dst := newImage(draw.Rect(0, 0, 4, 4), draw.XRGB32, false, RGBA{})
	src := newImage(draw.Rect(0, 0, 1, 1), draw.XRGB32, true, RGBA{R: 0xFF, A: 0xFF})
	Draw(dst, draw.Rect(0, 0, 4, 4), src, nil, draw.SoverD, draw.ZP, draw.ZP)
	for _, p := range []draw.Point{draw.Pt(0, 0), draw.Pt(3, 3), draw.Pt(1, 2)} {
		got := dst.at(p)
		require.Equal(t, RGBA{R: 0xFF, A: 0xFF}, got)
	}
}

func TestDrawTiledReplicationPattern(t *testing.T) {
	pattern := newImage(draw.Rect(0, 0, 2, 2), draw.XRGB32, true, RGBA{})
	pattern.Pix[0*2+0] = RGBA{R: 1, A: 0xFF}
	pattern.Pix[0*2+1] = RGBA{R: 2, A: 0xFF}
	pattern.Pix[1*2+0] = RGBA{R: 3, A: 0xFF}
	pattern.Pix[1*2+1] = RGBA{R: 4, A: 0xFF}

	dst := newImage(draw.Rect(0, 0, 5, 5), draw.XRGB32, false, RGBA{})
	Draw(dst, draw.Rect(0, 0, 5, 5), pattern, nil, draw.SoverD, draw.ZP, draw.ZP)

	got := dst.at(draw.Pt(3, 1))
	want := pattern.at(draw.Pt(1, 1))
	require.Equal(t, want, got)
}

func TestDrawEmptyRectNoOp(t *testing.T) {
	dst := newImage(draw.Rect(0, 0, 4, 4), draw.XRGB32, false, RGBA{A: 0xFF})
	src := newImage(draw.Rect(0, 0, 1, 1), draw.XRGB32, true, RGBA{R: 0xFF, A: 0xFF})
	before := append([]RGBA(nil), dst.Pix...)
	Draw(dst, draw.Rect(2, 2, 2, 2), src, nil, draw.SoverD, draw.ZP, draw.ZP)
	require.Equal(t, before, dst.Pix)
}

func TestLineRadiusZeroIsThin(t *testing.T) {
	dst := newImage(draw.Rect(0, 0, 10, 10), draw.XRGB32, false, RGBA{})
	src := newImage(draw.Rect(0, 0, 1, 1), draw.XRGB32, true, RGBA{R: 0xFF, A: 0xFF})
	Line(dst, draw.Pt(1, 5), draw.Pt(8, 5), draw.EndSquare, draw.EndSquare, 0, src, nil, draw.SoverD, draw.ZP)
	require.Equal(t, RGBA{R: 0xFF, A: 0xFF}, dst.at(draw.Pt(4, 5)))
}

func TestEllipseMembership(t *testing.T) {
	require.True(t, inEllipse(0, 0, 5, 3))
	require.True(t, inEllipse(5, 0, 5, 3))
	require.False(t, inEllipse(6, 0, 5, 3))
	require.False(t, inEllipse(0, 4, 5, 3))
}
