package memdraw

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/go-draw/compositor/draw"
)

// GlyphInfo is one entry of a Font's glyph metrics table, grounded on
// the subfont cache's per-glyph record (x, top, bottom, left, width):
// x locates the glyph's raster inside the font's backing Image, the
// rest are advance-width metrics. A Font's table carries n+1 entries,
// the last a sentinel whose X marks the end of the last real glyph's
// raster so its width can be computed as next.X - this.X.
type GlyphInfo struct {
	X, Top, Bottom, Left int
	Width                int
}

// Font is a loaded bitmap font: a backing Image holding every glyph's
// raster packed side by side, a metrics table indexed by rune offset
// from a contiguous block's first rune, and the block's rune range.
type Font struct {
	ID     int32
	Height int
	Ascent int
	Image  *Image
	First  rune
	Glyphs []GlyphInfo // len == n+1: n glyph slots plus the sentinel
}

// NewFont creates an empty font backed by img, ready for LoadChar calls.
func NewFont(id int32, height, ascent int, img *Image, first rune, n int) *Font {
	return &Font{
		ID:     id,
		Height: height,
		Ascent: ascent,
		Image:  img,
		First:  first,
		Glyphs: make([]GlyphInfo, n+1),
	}
}

// LoadChar installs the metrics for glyph index i (0-based from First),
// per the 'l' opcode.
func (f *Font) LoadChar(i int, info GlyphInfo) error {
	if i < 0 || i >= len(f.Glyphs) {
		return fmt.Errorf("memdraw: glyph index %d out of range", i)
	}
	f.Glyphs[i] = info
	return nil
}

// glyph returns the metrics for r, and whether the font has that glyph.
func (f *Font) glyph(r rune) (GlyphInfo, int, bool) {
	idx := int(r - f.First)
	if idx < 0 || idx+1 >= len(f.Glyphs) {
		return GlyphInfo{}, 0, false
	}
	g := f.Glyphs[idx]
	next := f.Glyphs[idx+1]
	return g, next.X - g.X, true
}

// String draws text in font f starting at pen, compositing each glyph's
// raster (a sub-rectangle of f.Image) as the mask for src through op,
// and returns the pen position following the last glyph. Runes f has no
// glyph for are skipped entirely, advancing the pen by nothing.
func (f *Font) String(dst *Image, pen draw.Point, src *Image, sp draw.Point, op draw.Op, text string) draw.Point {
	for _, rn := range text {
		g, width, ok := f.glyph(rn)
		if !ok {
			continue
		}
		srcRect := draw.Rect(g.X, g.Top, g.X+width, g.Bottom)
		dstRect := draw.Rect(pen.X+g.Left, pen.Y-f.Ascent+g.Top, pen.X+g.Left+srcRect.Dx(), pen.Y-f.Ascent+g.Bottom)
		Draw(dst, dstRect, src, f.Image, op, sp, srcRect.Min)
		pen.X += width
	}
	return pen
}

// StringIndices draws the glyphs named by indices (direct 0-based slots
// into Glyphs, the 's'/'x' opcodes' own addressing scheme) starting at
// pen, and returns the pen position following the last glyph. A glyph
// whose width is 0, or whose sentinel collapses its source rectangle, is
// skipped without advancing the pen.
func (f *Font) StringIndices(dst *Image, pen draw.Point, src *Image, sp draw.Point, op draw.Op, indices []int) draw.Point {
	for _, idx := range indices {
		if idx < 0 || idx+1 >= len(f.Glyphs) {
			continue
		}
		g := f.Glyphs[idx]
		next := f.Glyphs[idx+1]
		if g.Width == 0 || next.X <= g.X {
			continue
		}
		srcRect := draw.Rect(g.X, g.Top, next.X, g.Bottom)
		dstRect := draw.Rect(pen.X+g.Left, pen.Y-f.Ascent+g.Top, pen.X+g.Left+srcRect.Dx(), pen.Y-f.Ascent+g.Bottom)
		Draw(dst, dstRect, src, f.Image, op, sp, srcRect.Min)
		pen.X += g.Width
	}
	return pen
}

// HasGlyphs reports whether any glyph in f's table carries a nonzero
// advance width, used to decide whether the fallback text drawer should
// be used instead of the cache.
func (f *Font) HasGlyphs() bool {
	for _, g := range f.Glyphs {
		if g.Width != 0 {
			return true
		}
	}
	return false
}

// FallbackDrawer renders text using golang.org/x/image/font/basicfont
// when no bitmap font has been loaded for a family, the "pluggable text
// rendering capability" the design notes call for: family is currently
// ignored since basicfont ships a single face, but the signature keeps
// room for a richer face registry without changing call sites. It is a
// variable so that a different drawer can be substituted.
var FallbackDrawer = func(height int, family string, text string, color draw.Color, dst *Image, pen draw.Point) draw.Point {
	face := basicfont.Face7x13
	c := colorToRGBA(color)
	// pen.Y is already the baseline, matching the loaded-font path's
	// p.y convention; x/image/font's dot.Y is also baseline-relative.
	dot := fixed.Point26_6{X: fixed.I(pen.X), Y: fixed.I(pen.Y)}
	for _, r := range text {
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			continue
		}
		drawGlyphMask(dst, face, r, dot, c)
		dot.X += adv
	}
	return draw.Pt(dot.X.Round(), pen.Y)
}

func drawGlyphMask(dst *Image, face font.Face, r rune, dot fixed.Point26_6, c RGBA) {
	dr, mask, maskp, advance, ok := face.Glyph(dot, r)
	_ = advance
	if !ok {
		return
	}
	for y := dr.Min.Y; y < dr.Max.Y; y++ {
		for x := dr.Min.X; x < dr.Max.X; x++ {
			_, _, _, a := mask.At(maskp.X+(x-dr.Min.X), maskp.Y+(y-dr.Min.Y)).RGBA()
			if a == 0 {
				continue
			}
			p := draw.Pt(x, y)
			if !p.In(dst.Clipr) {
				continue
			}
			alpha := uint8(a >> 8)
			under := dst.at(p)
			blended := RGBA{
				R: mul8(c.R, alpha) + mul8(under.R, 255-alpha),
				G: mul8(c.G, alpha) + mul8(under.G, 255-alpha),
				B: mul8(c.B, alpha) + mul8(under.B, 255-alpha),
				A: mul8(c.A, alpha) + mul8(under.A, 255-alpha),
			}
			dst.set(p, blended)
		}
	}
}
