package compositor

import (
	"github.com/go-draw/compositor/codec"
	"github.com/go-draw/compositor/draw"
	"github.com/go-draw/compositor/memdraw"
)

// opString handles both 's' (string) and 'x' (string with background
// fill). The response is the final pen point encoded as a point
// (8 bytes).
func (r *Rasterizer) opString(cr *codec.Reader, withBg bool) ([]byte, error) {
	op := byte('s')
	if withBg {
		op = 'x'
	}
	dstID, err := cr.Long()
	if err != nil {
		return nil, wrapShort(op, err)
	}
	srcID, err := cr.Long()
	if err != nil {
		return nil, wrapShort(op, err)
	}
	fontID, err := cr.Long()
	if err != nil {
		return nil, wrapShort(op, err)
	}
	p, err := cr.Point()
	if err != nil {
		return nil, wrapShort(op, err)
	}
	clipr, err := cr.Rect()
	if err != nil {
		return nil, wrapShort(op, err)
	}
	sp, err := cr.Point()
	if err != nil {
		return nil, wrapShort(op, err)
	}
	n, err := cr.Long()
	if err != nil {
		return nil, wrapShort(op, err)
	}
	var bgID int32
	var bgp draw.Point
	if withBg {
		bgID, err = cr.Long()
		if err != nil {
			return nil, wrapShort(op, err)
		}
		bgp, err = cr.Point()
		if err != nil {
			return nil, wrapShort(op, err)
		}
	}
	if n < 0 {
		return nil, newErr(op, MalformedStream, "negative glyph count %d", n)
	}
	indices := make([]int, n)
	for i := range indices {
		idx, ierr := cr.Short()
		if ierr != nil {
			return nil, wrapShort(op, ierr)
		}
		indices[i] = int(idx)
	}

	dst, derr := r.lookupImage(op, dstID)
	if derr != nil {
		return nilErr(derr)
	}
	var src *memdraw.Image
	if srcID != 0 {
		src, derr = r.lookupImage(op, srcID)
		if derr != nil {
			return nilErr(derr)
		}
	}

	savedClip := dst.Clipr
	if draw.RectClip(&clipr, dst.Clipr) {
		dst.Clipr = clipr
	} else {
		dst.Clipr = draw.ZR
	}
	defer func() { dst.Clipr = savedClip }()

	font, hasFont := r.fonts[fontID]

	var end draw.Point
	height := 13
	ascent := 11
	if hasFont {
		height = font.Height
		ascent = font.Ascent
	}
	if withBg {
		var bg *memdraw.Image
		if bgID != 0 {
			bg, derr = r.lookupImage(op, bgID)
			if derr != nil {
				return nilErr(derr)
			}
		}
		width := measureWidth(font, hasFont, indices)
		bgRect := draw.Rect(p.X, p.Y-ascent, p.X+width, p.Y-ascent+height)
		memdraw.Draw(dst, bgRect, bg, nil, draw.SoverD, bgp, bgp)
	}

	if hasFont && font.HasGlyphs() {
		end = font.StringIndices(dst, p, src, sp, r.currentOp, indices)
	} else {
		text := runesFromIndices(indices)
		color := draw.White
		if src != nil {
			color = memdraw.RGBAToColor(src.At(sp))
		}
		end = memdraw.FallbackDrawer(height, "", text, color, dst, p)
	}

	r.addRefresh(dst, draw.Rect(p.X, p.Y-ascent, end.X, p.Y-ascent+height))
	return encodePoint(end), nil
}

func nilErr(err error) ([]byte, error) { return nil, err }

func measureWidth(f *memdraw.Font, hasFont bool, indices []int) int {
	if !hasFont {
		return len(indices) * 7
	}
	w := 0
	for _, idx := range indices {
		if idx < 0 || idx+1 >= len(f.Glyphs) {
			continue
		}
		w += f.Glyphs[idx].Width
	}
	return w
}

func runesFromIndices(indices []int) string {
	rs := make([]rune, len(indices))
	for i, idx := range indices {
		rs[i] = rune(idx)
	}
	return string(rs)
}

func encodePoint(p draw.Point) []byte {
	buf := make([]byte, 8)
	putLong(buf[0:4], int32(p.X))
	putLong(buf[4:8], int32(p.Y))
	return buf
}

func putLong(buf []byte, v int32) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
	buf[3] = byte(v >> 24)
}
