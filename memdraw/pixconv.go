package memdraw

import "github.com/go-draw/compositor/draw"

// RGBA is one pixel of the internal surface format every Image is stored
// in, regardless of its wire channel descriptor. Components are straight
// (not premultiplied by alpha); draw.Color is premultiplied, so values
// crossing that boundary go through premultiply/unpremultiply. Keeping a
// single concrete pixel type here, rather than dispatching through an
// interface per channel format, is what lets the compositing inner loop
// (draw.go) stay monomorphic.
type RGBA struct {
	R, G, B, A uint8
}

func colorToRGBA(c draw.Color) RGBA {
	r, g, b, a := c.RGBA8()
	return unpremultiply(RGBA{r, g, b, a})
}

// RGBAToColor is the inverse of colorToRGBA: it packs a straight RGBA
// pixel into a draw.Color, premultiplying its components in the process.
func RGBAToColor(c RGBA) draw.Color {
	p := premultiply(c)
	return draw.Color(uint32(p.R)<<24 | uint32(p.G)<<16 | uint32(p.B)<<8 | uint32(p.A))
}

// premultiply and unpremultiply convert between this package's straight
// (non-premultiplied) RGBA and the premultiplied form draw.Color and the
// Porter-Duff compositing algebra both use.
func premultiply(c RGBA) RGBA {
	return RGBA{mul8(c.R, c.A), mul8(c.G, c.A), mul8(c.B, c.A), c.A}
}

func unpremultiply(c RGBA) RGBA {
	if c.A == 0 {
		return RGBA{}
	}
	return RGBA{unmul8(c.R, c.A), unmul8(c.G, c.A), unmul8(c.B, c.A), c.A}
}

func unmul8(v, a uint8) uint8 {
	r := int(v) * 255 / int(a)
	if r > 255 {
		r = 255
	}
	return uint8(r)
}

// cmap8ToRGB is a stand-in for the Plan 9 default color map (normally a
// 256-entry table tuned for perceptual spacing, generated offline by
// mkcmap and not present in the source this package was grounded on); it
// substitutes a uniform 6x6x6 cube plus a 40-step grey ramp,
// which is legal (CMAP8 is never lossless) but not identical to the
// original palette.
func cmap8ToRGB(idx uint8) (r, g, b uint8) {
	if idx >= 6*6*6 {
		// last 40 entries: a grey ramp
		level := idx - 6*6*6
		v := uint8(int(level) * 255 / 39)
		return v, v, v
	}
	r = uint8(idx/36) * 51
	g = uint8((idx/6)%6) * 51
	b = uint8(idx%6) * 51
	return r, g, b
}

func rgbToCmap8(r, g, b uint8) uint8 {
	ri := uint32(r) * 5 / 255
	gi := uint32(g) * 5 / 255
	bi := uint32(b) * 5 / 255
	return uint8(ri*36 + gi*6 + bi)
}

// decodeRow converts one scanline of width px pixels, packed per chan,
// into straight RGBA. Unknown channel descriptors fall back to XRGB32
// semantics, per spec.
func decodeRow(chn draw.Pix, width int, row []byte) []RGBA {
	out := make([]RGBA, width)
	switch chn {
	case draw.GREY1, draw.GREY2, draw.GREY4:
		depth := chn.Depth()
		perByte := 8 / depth
		max := uint8(1<<depth) - 1
		for x := 0; x < width; x++ {
			byteIdx := x / perByte
			if byteIdx >= len(row) {
				break
			}
			shift := uint(perByte-1-x%perByte) * uint(depth)
			v := (row[byteIdx] >> shift) & max
			// replicate to fill 8 bits
			g := v
			for bits := depth; bits < 8; bits *= 2 {
				g |= g << uint(bits)
			}
			out[x] = RGBA{g, g, g, 0xFF}
		}
	case draw.GREY8:
		for x := 0; x < width && x < len(row); x++ {
			v := row[x]
			out[x] = RGBA{v, v, v, 0xFF}
		}
	case draw.CMAP8:
		for x := 0; x < width && x < len(row); x++ {
			r, g, b := cmap8ToRGB(row[x])
			out[x] = RGBA{r, g, b, 0xFF}
		}
	case draw.RGB15:
		for x := 0; x+1 < len(row) && x/2 < width; x += 2 {
			lo, hi := row[x], row[x+1]
			r := (hi << 1) & 0xF8
			g := (hi << 6) | ((lo & 0xE0) >> 2)
			g &= 0xF8
			b := lo << 3
			out[x/2] = RGBA{r | r>>5, g | g>>5, b | b>>5, 0xFF}
		}
	case draw.RGB16:
		for x := 0; x+1 < len(row) && x/2 < width; x += 2 {
			lo, hi := row[x], row[x+1]
			r := hi & 0xF8
			g := (hi << 5) | ((lo & 0xE0) >> 3)
			g &= 0xF8
			b := lo << 3
			out[x/2] = RGBA{r | r>>5, g | g>>5, b | b>>5, 0xFF}
		}
	case draw.RGB24:
		for x := 0; x*3+2 < len(row) && x < width; x++ {
			out[x] = RGBA{row[x*3], row[x*3+1], row[x*3+2], 0xFF}
		}
	case draw.BGR24:
		for x := 0; x*3+2 < len(row) && x < width; x++ {
			out[x] = RGBA{row[x*3+2], row[x*3+1], row[x*3], 0xFF}
		}
	case draw.RGBA32:
		for x := 0; x*4+3 < len(row) && x < width; x++ {
			out[x] = RGBA{row[x*4], row[x*4+1], row[x*4+2], row[x*4+3]}
		}
	case draw.ARGB32:
		for x := 0; x*4+3 < len(row) && x < width; x++ {
			out[x] = RGBA{row[x*4+1], row[x*4+2], row[x*4+3], row[x*4]}
		}
	case draw.ABGR32:
		for x := 0; x*4+3 < len(row) && x < width; x++ {
			out[x] = RGBA{row[x*4+3], row[x*4+2], row[x*4+1], row[x*4]}
		}
	case draw.XBGR32:
		for x := 0; x*4+3 < len(row) && x < width; x++ {
			out[x] = RGBA{row[x*4+2], row[x*4+1], row[x*4], 0xFF}
		}
	default: // XRGB32 and unknown formats
		for x := 0; x*4+3 < len(row) && x < width; x++ {
			out[x] = RGBA{row[x*4+1], row[x*4+2], row[x*4+3], 0xFF}
		}
	}
	return out
}

// encodeRow is the inverse of decodeRow: it packs width RGBA pixels into
// chn's byte layout.
func encodeRow(chn draw.Pix, pixels []RGBA) []byte {
	switch chn {
	case draw.GREY1, draw.GREY2, draw.GREY4:
		depth := chn.Depth()
		perByte := 8 / depth
		out := make([]byte, (len(pixels)+perByte-1)/perByte)
		for x, p := range pixels {
			v := p.R >> uint(8-depth)
			byteIdx := x / perByte
			shift := uint(perByte-1-x%perByte) * uint(depth)
			out[byteIdx] |= v << shift
		}
		return out
	case draw.GREY8:
		out := make([]byte, len(pixels))
		for x, p := range pixels {
			out[x] = p.R
		}
		return out
	case draw.CMAP8:
		out := make([]byte, len(pixels))
		for x, p := range pixels {
			out[x] = rgbToCmap8(p.R, p.G, p.B)
		}
		return out
	case draw.RGB15:
		out := make([]byte, len(pixels)*2)
		for x, p := range pixels {
			r5 := uint16(p.R >> 3)
			g5 := uint16(p.G >> 3)
			b5 := uint16(p.B >> 3)
			v := r5<<10 | g5<<5 | b5
			out[x*2] = byte(v)
			out[x*2+1] = byte(v >> 8)
		}
		return out
	case draw.RGB16:
		out := make([]byte, len(pixels)*2)
		for x, p := range pixels {
			v := uint16(p.R>>3)<<11 | uint16(p.G>>2)<<5 | uint16(p.B>>3)
			out[x*2] = byte(v)
			out[x*2+1] = byte(v >> 8)
		}
		return out
	case draw.RGB24:
		out := make([]byte, len(pixels)*3)
		for x, p := range pixels {
			out[x*3], out[x*3+1], out[x*3+2] = p.R, p.G, p.B
		}
		return out
	case draw.BGR24:
		out := make([]byte, len(pixels)*3)
		for x, p := range pixels {
			out[x*3], out[x*3+1], out[x*3+2] = p.B, p.G, p.R
		}
		return out
	case draw.RGBA32:
		out := make([]byte, len(pixels)*4)
		for x, p := range pixels {
			out[x*4], out[x*4+1], out[x*4+2], out[x*4+3] = p.R, p.G, p.B, p.A
		}
		return out
	case draw.ARGB32:
		out := make([]byte, len(pixels)*4)
		for x, p := range pixels {
			out[x*4], out[x*4+1], out[x*4+2], out[x*4+3] = p.A, p.R, p.G, p.B
		}
		return out
	case draw.ABGR32:
		out := make([]byte, len(pixels)*4)
		for x, p := range pixels {
			out[x*4], out[x*4+1], out[x*4+2], out[x*4+3] = p.A, p.B, p.G, p.R
		}
		return out
	case draw.XBGR32:
		out := make([]byte, len(pixels)*4)
		for x, p := range pixels {
			out[x*4], out[x*4+1], out[x*4+2], out[x*4+3] = 0, p.B, p.G, p.R
		}
		return out
	default: // XRGB32 and unknown formats
		out := make([]byte, len(pixels)*4)
		for x, p := range pixels {
			out[x*4], out[x*4+1], out[x*4+2], out[x*4+3] = 0, p.R, p.G, p.B
		}
		return out
	}
}
