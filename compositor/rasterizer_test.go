package compositor

import (
	"encoding/binary"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/go-draw/compositor/draw"
	"github.com/go-draw/compositor/memdraw"
)

func decodePoint(buf []byte) draw.Point {
	return draw.Pt(
		int(int32(binary.LittleEndian.Uint32(buf[0:4]))),
		int(int32(binary.LittleEndian.Uint32(buf[4:8]))),
	)
}

func newTestRasterizer(w, h int) *Rasterizer {
	return New(w, h, zerolog.Nop())
}

func putLongLE(buf []byte, v int32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func putRect(buf []byte, r draw.Rectangle) []byte {
	buf = putLongLE(buf, int32(r.Min.X))
	buf = putLongLE(buf, int32(r.Min.Y))
	buf = putLongLE(buf, int32(r.Max.X))
	buf = putLongLE(buf, int32(r.Max.Y))
	return buf
}

func putPoint(buf []byte, p draw.Point) []byte {
	buf = putLongLE(buf, int32(p.X))
	buf = putLongLE(buf, int32(p.Y))
	return buf
}

// allocCmd builds a 'b' alloc-image command buffer.
func allocCmd(id, screenID int32, chn draw.Pix, repl bool, r, clipr draw.Rectangle, color draw.Color) []byte {
	buf := []byte{'b'}
	buf = putLongLE(buf, id)
	buf = putLongLE(buf, screenID)
	buf = append(buf, 0) // refresh method
	buf = putLongLE(buf, int32(chn))
	replB := byte(0)
	if repl {
		replB = 1
	}
	buf = append(buf, replB)
	buf = putRect(buf, r)
	buf = putRect(buf, clipr)
	buf = putLongLE(buf, int32(color))
	return buf
}

func drawCmd(dst, src, mask int32, r draw.Rectangle, sp, mp draw.Point) []byte {
	buf := []byte{'d'}
	buf = putLongLE(buf, dst)
	buf = putLongLE(buf, src)
	buf = putLongLE(buf, mask)
	buf = putRect(buf, r)
	buf = putPoint(buf, sp)
	buf = putPoint(buf, mp)
	return buf
}

func setOpCmd(op draw.Op) []byte {
	buf := []byte{'O'}
	buf = putLongLE(buf, int32(op))
	return buf
}

func flushCmd() []byte { return []byte{'v'} }

// loadCmd builds a 'y' load command. data must be the last bytes of its
// buffer: the opcode reads to the end of the command stream.
func loadCmd(id int32, r draw.Rectangle, data []byte) []byte {
	buf := []byte{'y'}
	buf = putLongLE(buf, id)
	buf = putRect(buf, r)
	buf = append(buf, data...)
	return buf
}

// scenario 1: flat fill
func TestFlatFill(t *testing.T) {
	r := newTestRasterizer(4, 4)
	var buf []byte
	buf = append(buf, allocCmd(1, 0, draw.XRGB32, true, draw.Rect(0, 0, 1, 1), draw.Rect(0, 0, 1, 1), draw.Red)...)
	buf = append(buf, drawCmd(0, 1, 0, draw.Rect(0, 0, 4, 4), draw.ZP, draw.ZP)...)
	buf = append(buf, flushCmd()...)

	_, refreshes, err := r.Process(buf)
	require.NoError(t, err)
	require.Len(t, refreshes, 1)

	disp := r.Display()
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			p := disp.At(draw.Pt(x, y))
			require.Equal(t, uint8(0xFF), p.R, "pixel %d,%d red", x, y)
			require.Equal(t, uint8(0), p.G)
			require.Equal(t, uint8(0), p.B)
			require.Equal(t, uint8(0xFF), p.A)
		}
	}
}

// scenario 2: operator reset
func TestOperatorResetsAfterDraw(t *testing.T) {
	r := newTestRasterizer(4, 4)
	var buf []byte
	buf = append(buf, allocCmd(1, 0, draw.XRGB32, true, draw.Rect(0, 0, 1, 1), draw.Rect(0, 0, 1, 1), draw.Red)...)
	buf = append(buf, setOpCmd(draw.S)...)
	buf = append(buf, drawCmd(0, 1, 0, draw.Rect(0, 0, 4, 4), draw.ZP, draw.ZP)...)

	green := draw.Green.WithAlpha(0x80)
	buf = append(buf, allocCmd(2, 0, draw.ARGB32, true, draw.Rect(0, 0, 1, 1), draw.Rect(0, 0, 1, 1), green)...)
	buf = append(buf, drawCmd(0, 2, 0, draw.Rect(0, 0, 2, 2), draw.ZP, draw.ZP)...)

	_, _, err := r.Process(buf)
	require.NoError(t, err)
	require.Equal(t, draw.SoverD, r.currentOp)

	p := r.Display().At(draw.Pt(0, 0))
	require.Equal(t, memdraw.RGBA{R: 0x7F, G: 0x80, B: 0x00, A: 0xFF}, p,
		"second draw should blend translucent green over red, not replace")
}

// A pixel loaded via 'y' is straight (non-premultiplied) RGBA; drawing it
// with SoverD over opaque content must blend by the straight-alpha "over"
// algebra, not treat the wire bytes as already premultiplied.
func TestLoadOpcodeStraightAlphaBlend(t *testing.T) {
	r := newTestRasterizer(1, 1)

	var setup []byte
	setup = append(setup, allocCmd(1, 0, draw.XRGB32, true, draw.Rect(0, 0, 1, 1), draw.Rect(0, 0, 1, 1), draw.Black)...)
	setup = append(setup, drawCmd(0, 1, 0, draw.Rect(0, 0, 1, 1), draw.ZP, draw.ZP)...)
	setup = append(setup, allocCmd(2, 0, draw.RGBA32, true, draw.Rect(0, 0, 1, 1), draw.Rect(0, 0, 1, 1), draw.Transparent)...)
	_, _, err := r.Process(setup)
	require.NoError(t, err)

	// straight R=0xFF, G=0x00, B=0x00, A=0x80: 50%-alpha red.
	load := loadCmd(2, draw.Rect(0, 0, 1, 1), []byte{0xFF, 0x00, 0x00, 0x80})
	_, _, err = r.Process(load)
	require.NoError(t, err)

	var draw2 []byte
	draw2 = append(draw2, drawCmd(0, 2, 0, draw.Rect(0, 0, 1, 1), draw.ZP, draw.ZP)...)
	_, _, err = r.Process(draw2)
	require.NoError(t, err)

	p := r.Display().At(draw.Pt(0, 0))
	require.Equal(t, memdraw.RGBA{R: 0x80, G: 0x00, B: 0x00, A: 0xFF}, p)
}

// scenario 3: polygon coord round trip (see codec package tests for the
// unit-level coverage); here we exercise it through the 'P' wire opcode
// end to end.
func TestPolygonOpcodeDecodesPoints(t *testing.T) {
	r := newTestRasterizer(200, 200)
	var buf []byte
	buf = append(buf, allocCmd(1, 0, draw.XRGB32, true, draw.Rect(0, 0, 1, 1), draw.Rect(0, 0, 1, 1), draw.White)...)

	pts := []draw.Point{draw.Pt(10, 10), draw.Pt(73, 10), draw.Pt(3, 110), draw.Pt(3, 110)}
	cmd := []byte{'P'}
	cmd = putLongLE(cmd, 1) // dst
	cmd = putLongLE(cmd, int32(len(pts)-1))
	cmd = append(cmd, 0, 0) // wind, unused
	cmd = putLongLE(cmd, 0) // unused
	cmd = putLongLE(cmd, 1) // src
	cmd = putPoint(cmd, draw.ZP)
	cmd = append(cmd, encodeDeltaPoints(pts)...)
	buf = append(buf, cmd...)

	_, _, err := r.Process(buf)
	require.NoError(t, err)
}

func encodeDeltaPoints(pts []draw.Point) []byte {
	var buf []byte
	px, py := 0, 0
	enc := func(prev, v int) []byte {
		d := v - prev
		if d >= -64 && d <= 63 {
			return []byte{byte(d & 0x7F)}
		}
		x := uint32(v) & 0x7FFFFF
		return []byte{byte(x&0x7F) | 0x80, byte(x >> 7), byte(x >> 15)}
	}
	for _, p := range pts {
		buf = append(buf, enc(px, p.X)...)
		buf = append(buf, enc(py, p.Y)...)
		px, py = p.X, p.Y
	}
	return buf
}

// scenario 4: glyph rendering
func TestGlyphRendering(t *testing.T) {
	r := newTestRasterizer(32, 16)
	var buf []byte
	buf = append(buf, allocCmd(5, 0, draw.XRGB32, false, draw.Rect(0, 0, 4, 10), draw.Rect(0, 0, 4, 10), draw.Black)...)

	initFont := []byte{'i'}
	initFont = putLongLE(initFont, 5)
	initFont = putLongLE(initFont, 1)
	initFont = putLongLE(initFont, 8)
	buf = append(buf, initFont...)

	loadChar := []byte{'l'}
	loadChar = putLongLE(loadChar, 5)
	loadChar = putLongLE(loadChar, 5)
	loadChar = putLongLE(loadChar, 0)
	loadChar = putRect(loadChar, draw.Rect(0, 0, 4, 8))
	loadChar = putPoint(loadChar, draw.ZP)
	loadChar = append(loadChar, 0, 4)
	buf = append(buf, loadChar...)

	buf = append(buf, allocCmd(9, 0, draw.XRGB32, true, draw.Rect(0, 0, 1, 1), draw.Rect(0, 0, 1, 1), draw.White)...)

	s := []byte{'s'}
	s = putLongLE(s, 0)
	s = putLongLE(s, 9)
	s = putLongLE(s, 5)
	s = putPoint(s, draw.Pt(0, 8))
	s = putRect(s, draw.Rect(0, 0, 32, 16))
	s = putPoint(s, draw.ZP)
	s = putLongLE(s, 1)
	s = append(s, 0, 0) // index 0 as u16
	buf = append(buf, s...)
	buf = append(buf, flushCmd()...)

	resp, refreshes, err := r.Process(buf)
	require.NoError(t, err)
	require.Equal(t, draw.Pt(4, 8), decodePoint(resp))
	require.Len(t, refreshes, 1)
	require.Equal(t, draw.Rect(0, 0, 4, 8), decodeRefreshRect(refreshes[0]))
}

// decodeRefreshRect decodes a 16-byte refresh record (Min.X, Min.Y, Max.X,
// Max.Y, little-endian i32 each) into a Rectangle.
func decodeRefreshRect(buf []byte) draw.Rectangle {
	return draw.Rectangle{
		Min: decodePoint(buf[0:8]),
		Max: decodePoint(buf[8:16]),
	}
}

// scenario 5: RLE decode
func TestRLEDecodeScenario(t *testing.T) {
	input := []byte{0x02, 0x7F, 0x81, 0xAB, 0xCD}
	out, consumed, err := memdraw.DecompressRLE(input, 5)
	require.NoError(t, err)
	require.Equal(t, 5, consumed)
	require.Equal(t, []byte{0x7F, 0x7F, 0x7F, 0xAB, 0xCD}, out)
}
