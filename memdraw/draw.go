package memdraw

import "github.com/go-draw/compositor/draw"

// Draw composites src through mask onto dst within r, using op. r is
// clipped to dst's clip rectangle before compositing. sp and mp are the
// points in src and mask that align with r.Min.
//
// src or mask may be nil, meaning "fully opaque white" and "fully
// opaque" respectively; the 'd' opcode passes nil for a src or mask id
// of 0.
func Draw(dst *Image, r draw.Rectangle, src, mask *Image, op draw.Op, sp, mp draw.Point) {
	if !draw.RectClip(&r, dst.Clipr) {
		return
	}
	dx := r.Min.X - sp.X
	dy := r.Min.Y - sp.Y
	mdx := r.Min.X - mp.X
	mdy := r.Min.Y - mp.Y

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			var s RGBA
			if src == nil {
				s = RGBA{0xFF, 0xFF, 0xFF, 0xFF}
			} else {
				s = src.at(draw.Pt(x-dx, y-dy))
			}
			var ma uint8 = 0xFF
			if mask != nil {
				ma = mask.at(draw.Pt(x-mdx, y-mdy)).A
			}
			if ma != 0xFF {
				// s is straight RGBA: a coverage mask only reduces how much
				// of it is present, it doesn't scale the color components.
				s.A = mul8(s.A, ma)
			}
			d := dst.at(draw.Pt(x, y))
			dst.set(draw.Pt(x, y), composite(op, s, d))
		}
	}
}

func mul8(a, b uint8) uint8 {
	return uint8(uint32(a) * uint32(b) / 255)
}

// composite applies op's Porter-Duff algebra to s over d. Both are
// straight RGBA (this package's storage format); the algebra itself is
// defined on premultiplied components, so composite premultiplies its
// inputs, runs the algebra, and unpremultiplies the result before
// returning it for storage.
func composite(op draw.Op, s, d RGBA) RGBA {
	sp, dp := premultiply(s), premultiply(d)

	// The four terms (SinD, DinS, SoutD, DoutS) are coefficients on S and
	// D's own alpha-in/out masks; since our surfaces are single flat
	// images rather than per-pixel coverage masks, "in" and "out" reduce
	// to whether the term is selected at all, scaled by the operand's own
	// alpha everywhere it contributes.
	var outR, outG, outB, outA int
	if op&draw.SinD != 0 {
		a := int(dp.A)
		outR += int(sp.R) * a / 255
		outG += int(sp.G) * a / 255
		outB += int(sp.B) * a / 255
		outA += int(sp.A) * a / 255
	}
	if op&draw.SoutD != 0 {
		a := 255 - int(dp.A)
		outR += int(sp.R) * a / 255
		outG += int(sp.G) * a / 255
		outB += int(sp.B) * a / 255
		outA += int(sp.A) * a / 255
	}
	if op&draw.DinS != 0 {
		a := int(sp.A)
		outR += int(dp.R) * a / 255
		outG += int(dp.G) * a / 255
		outB += int(dp.B) * a / 255
		outA += int(dp.A) * a / 255
	}
	if op&draw.DoutS != 0 {
		a := 255 - int(sp.A)
		outR += int(dp.R) * a / 255
		outG += int(dp.G) * a / 255
		outB += int(dp.B) * a / 255
		outA += int(dp.A) * a / 255
	}
	return unpremultiply(RGBA{clamp8(outR), clamp8(outG), clamp8(outB), clamp8(outA)})
}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
