package compositor

import (
	"github.com/go-draw/compositor/codec"
	"github.com/go-draw/compositor/draw"
	"github.com/go-draw/compositor/memdraw"
)

func (r *Rasterizer) opAlloc(cr *codec.Reader) error {
	id, err := cr.Long()
	if err != nil {
		return wrapShort('b', err)
	}
	screenID, err := cr.Long()
	if err != nil {
		return wrapShort('b', err)
	}
	_, err = cr.Byte() // refresh method: only "no refresh" is honoured, per design notes open question
	if err != nil {
		return wrapShort('b', err)
	}
	chn, err := cr.ULong()
	if err != nil {
		return wrapShort('b', err)
	}
	replByte, err := cr.Byte()
	if err != nil {
		return wrapShort('b', err)
	}
	rect, err := cr.Rect()
	if err != nil {
		return wrapShort('b', err)
	}
	clipr, err := cr.Rect()
	if err != nil {
		return wrapShort('b', err)
	}
	color, err := cr.ULong()
	if err != nil {
		return wrapShort('b', err)
	}
	if id == 0 {
		return newErr('b', DisplayInvariant, "cannot reallocate the display image")
	}
	if rect.Dx() <= 0 || rect.Dy() <= 0 {
		return newErr('b', AllocationFailure, "degenerate rectangle %v", rect)
	}
	// replacing an existing id: free first, matching the "must not affect
	// the display surface" replace rule since id 0 is rejected above.
	if _, lerr := r.store.Lookup(id); lerr == nil {
		_ = r.store.Free(id)
		delete(r.fonts, id)
	}
	img, aerr := r.store.Alloc(id, rect, draw.Pix(chn), replByte != 0, draw.Color(color))
	if aerr != nil {
		return newErr('b', AllocationFailure, "%v", aerr)
	}
	if !draw.RectClip(&clipr, img.R) {
		clipr = draw.ZR
	}
	img.Clipr = clipr
	if screenID != 0 {
		scr, serr := r.store.LookupScreen(screenID)
		if serr == nil {
			img.Screen = scr
		}
	}
	return nil
}

func (r *Rasterizer) opAllocScreen(cr *codec.Reader) error {
	screenID, err := cr.Long()
	if err != nil {
		return wrapShort('A', err)
	}
	imageID, err := cr.Long()
	if err != nil {
		return wrapShort('A', err)
	}
	fillID, err := cr.Long()
	if err != nil {
		return wrapShort('A', err)
	}
	_, err = cr.Byte() // public bit, advisory
	if err != nil {
		return wrapShort('A', err)
	}
	img, ierr := r.lookupImage('A', imageID)
	if ierr != nil {
		return ierr
	}
	var fill *memdraw.Image
	if fillID != 0 {
		fill, ierr = r.lookupImage('A', fillID)
		if ierr != nil {
			return ierr
		}
	}
	if _, aerr := r.store.AllocScreen(screenID, img, fill); aerr != nil {
		return newErr('A', AllocationFailure, "%v", aerr)
	}
	return nil
}

func (r *Rasterizer) opFreeScreen(cr *codec.Reader) error {
	id, err := cr.Long()
	if err != nil {
		return wrapShort('F', err)
	}
	if ferr := r.store.FreeScreen(id); ferr != nil {
		return newErr('F', UnknownImage, "%v", ferr)
	}
	return nil
}

func (r *Rasterizer) opFree(cr *codec.Reader) error {
	id, err := cr.Long()
	if err != nil {
		return wrapShort('f', err)
	}
	if id == 0 {
		return nil // id 0 is the display image; freeing it is a no-op
	}
	delete(r.fonts, id)
	if ferr := r.store.Free(id); ferr != nil {
		return newErr('f', UnknownImage, "%v", ferr)
	}
	return nil
}

func (r *Rasterizer) opDraw(cr *codec.Reader) error {
	dstID, err := cr.Long()
	if err != nil {
		return wrapShort('d', err)
	}
	srcID, err := cr.Long()
	if err != nil {
		return wrapShort('d', err)
	}
	maskID, err := cr.Long()
	if err != nil {
		return wrapShort('d', err)
	}
	rect, err := cr.Rect()
	if err != nil {
		return wrapShort('d', err)
	}
	sp, err := cr.Point()
	if err != nil {
		return wrapShort('d', err)
	}
	mp, err := cr.Point()
	if err != nil {
		return wrapShort('d', err)
	}
	dst, derr := r.lookupImage('d', dstID)
	if derr != nil {
		return derr
	}
	var src, mask *memdraw.Image
	if srcID != 0 {
		src, derr = r.lookupImage('d', srcID)
		if derr != nil {
			return derr
		}
	}
	if maskID != 0 {
		mask, derr = r.lookupImage('d', maskID)
		if derr != nil {
			return derr
		}
	}
	if rect.Empty() {
		return nil
	}
	memdraw.Draw(dst, rect, src, mask, r.currentOp, sp, mp)
	r.addRefresh(dst, rect)
	return nil
}

func (r *Rasterizer) opLine(cr *codec.Reader) error {
	dstID, err := cr.Long()
	if err != nil {
		return wrapShort('L', err)
	}
	p0, err := cr.Point()
	if err != nil {
		return wrapShort('L', err)
	}
	p1, err := cr.Point()
	if err != nil {
		return wrapShort('L', err)
	}
	end0b, err := cr.Byte()
	if err != nil {
		return wrapShort('L', err)
	}
	end1b, err := cr.Byte()
	if err != nil {
		return wrapShort('L', err)
	}
	radius, err := cr.Long()
	if err != nil {
		return wrapShort('L', err)
	}
	srcID, err := cr.Long()
	if err != nil {
		return wrapShort('L', err)
	}
	sp, err := cr.Point()
	if err != nil {
		return wrapShort('L', err)
	}
	dst, derr := r.lookupImage('L', dstID)
	if derr != nil {
		return derr
	}
	var src *memdraw.Image
	if srcID != 0 {
		src, derr = r.lookupImage('L', srcID)
		if derr != nil {
			return derr
		}
	}
	memdraw.Line(dst, p0, p1, capEnd(end0b), capEnd(end1b), int(radius), src, nil, r.currentOp, sp)
	bbox := draw.Rectangle{Min: p0, Max: p1}
	bbox = normalizeRect(bbox)
	bbox.Min.X -= int(radius) + 1
	bbox.Min.Y -= int(radius) + 1
	bbox.Max.X += int(radius) + 1
	bbox.Max.Y += int(radius) + 1
	r.addRefresh(dst, bbox)
	return nil
}

func capEnd(b byte) draw.End {
	switch b & 0x1F {
	case 1:
		return draw.EndDisc
	case 2:
		return draw.EndArrow // memdraw.Line currently renders this as a butt cap, see its doc comment
	default:
		return draw.EndSquare
	}
}

func normalizeRect(r draw.Rectangle) draw.Rectangle {
	if r.Min.X > r.Max.X {
		r.Min.X, r.Max.X = r.Max.X, r.Min.X
	}
	if r.Min.Y > r.Max.Y {
		r.Min.Y, r.Max.Y = r.Max.Y, r.Min.Y
	}
	return r
}

func (r *Rasterizer) opEllipse(cr *codec.Reader, filled bool) error {
	op := byte('e')
	if filled {
		op = 'E'
	}
	dstID, err := cr.Long()
	if err != nil {
		return wrapShort(op, err)
	}
	c, err := cr.Point()
	if err != nil {
		return wrapShort(op, err)
	}
	a, err := cr.Long()
	if err != nil {
		return wrapShort(op, err)
	}
	b, err := cr.Long()
	if err != nil {
		return wrapShort(op, err)
	}
	thick, err := cr.Long()
	if err != nil {
		return wrapShort(op, err)
	}
	_, err = cr.Long() // alpha, ignored for full ellipse
	if err != nil {
		return wrapShort(op, err)
	}
	_, err = cr.Long() // phi, ignored for full ellipse
	if err != nil {
		return wrapShort(op, err)
	}
	srcID, err := cr.Long()
	if err != nil {
		return wrapShort(op, err)
	}
	sp, err := cr.Point()
	if err != nil {
		return wrapShort(op, err)
	}
	dst, derr := r.lookupImage(op, dstID)
	if derr != nil {
		return derr
	}
	var src *memdraw.Image
	if srcID != 0 {
		src, derr = r.lookupImage(op, srcID)
		if derr != nil {
			return derr
		}
	}
	t := int(thick)
	if filled || t < 0 {
		t = 0
	}
	memdraw.Ellipse(dst, c, int(a), int(b), t, src, nil, r.currentOp, sp)
	r.addRefresh(dst, draw.Rect(c.X-int(a), c.Y-int(b), c.X+int(a)+1, c.Y+int(b)+1))
	return nil
}

func (r *Rasterizer) opArc(cr *codec.Reader) error {
	dstID, err := cr.Long()
	if err != nil {
		return wrapShort('a', err)
	}
	c, err := cr.Point()
	if err != nil {
		return wrapShort('a', err)
	}
	a, err := cr.Long()
	if err != nil {
		return wrapShort('a', err)
	}
	b, err := cr.Long()
	if err != nil {
		return wrapShort('a', err)
	}
	thick, err := cr.Long()
	if err != nil {
		return wrapShort('a', err)
	}
	alpha, err := cr.Long()
	if err != nil {
		return wrapShort('a', err)
	}
	phi, err := cr.Long()
	if err != nil {
		return wrapShort('a', err)
	}
	srcID, err := cr.Long()
	if err != nil {
		return wrapShort('a', err)
	}
	sp, err := cr.Point()
	if err != nil {
		return wrapShort('a', err)
	}
	dst, derr := r.lookupImage('a', dstID)
	if derr != nil {
		return derr
	}
	var src *memdraw.Image
	if srcID != 0 {
		src, derr = r.lookupImage('a', srcID)
		if derr != nil {
			return derr
		}
	}
	t := int(thick)
	if t < 0 {
		t = 0
	}
	// Plan 9 angles are 64*degrees; divide down to plain degrees.
	// Wire order is (alpha=extent, phi=start); memdraw.Arc takes
	// (start, extent), so the two are passed start-first here.
	start, extent := int(phi)/64, int(alpha)/64
	memdraw.Arc(dst, c, int(a), int(b), t, src, nil, r.currentOp, sp, start, extent)
	r.addRefresh(dst, draw.Rect(c.X-int(a), c.Y-int(b), c.X+int(a)+1, c.Y+int(b)+1))
	return nil
}

func (r *Rasterizer) opPolygon(cr *codec.Reader, filled bool) error {
	op := byte('p')
	if filled {
		op = 'P'
	}
	dstID, err := cr.Long()
	if err != nil {
		return wrapShort(op, err)
	}
	n, err := cr.Long()
	if err != nil {
		return wrapShort(op, err)
	}
	// Filled form carries (wind, _, _); outline form carries
	// (end0, end1, radius). Both are the same wire shape, interpreted
	// differently depending on the opcode.
	b0, err := cr.Byte()
	if err != nil {
		return wrapShort(op, err)
	}
	b1, err := cr.Byte()
	if err != nil {
		return wrapShort(op, err)
	}
	radiusOrUnused, err := cr.Long()
	if err != nil {
		return wrapShort(op, err)
	}
	srcID, err := cr.Long()
	if err != nil {
		return wrapShort(op, err)
	}
	sp, err := cr.Point()
	if err != nil {
		return wrapShort(op, err)
	}
	if n < 1 {
		return newErr(op, MalformedStream, "polygon with %d points", n)
	}
	pts, perr := cr.DeltaPoints(int(n)+1, draw.ZP)
	if perr != nil {
		return newErr(op, MalformedStream, "decoding polygon points: %v", perr)
	}
	dst, derr := r.lookupImage(op, dstID)
	if derr != nil {
		return derr
	}
	var src *memdraw.Image
	if srcID != 0 {
		src, derr = r.lookupImage(op, srcID)
		if derr != nil {
			return derr
		}
	}
	if filled {
		wind := int(b0)
		memdraw.FillPoly(dst, pts, true, wind, src, nil, r.currentOp, sp)
	} else {
		end0, end1 := capEnd(b0), capEnd(b1)
		radius := int(radiusOrUnused)
		for i := 0; i+1 < len(pts); i++ {
			memdraw.Line(dst, pts[i], pts[i+1], end0, end1, radius, src, nil, r.currentOp, sp)
		}
	}
	var bbox draw.Rectangle
	for _, p := range pts {
		draw.CombineRect(&bbox, draw.Rect(p.X, p.Y, p.X+1, p.Y+1))
	}
	r.addRefresh(dst, bbox)
	return nil
}

func (r *Rasterizer) opOrigin(cr *codec.Reader) error {
	// Implements the minimum useful behaviour: translate the image's
	// rectangle (and clip) to the new origin, preserving extent.
	id, err := cr.Long()
	if err != nil {
		return wrapShort('o', err)
	}
	newOrigin, err := cr.Point()
	if err != nil {
		return wrapShort('o', err)
	}
	_, err = cr.Point() // screen-relative origin, read and discarded
	if err != nil {
		return wrapShort('o', err)
	}
	img, ierr := r.lookupImage('o', id)
	if ierr != nil {
		return ierr
	}
	delta := newOrigin.Sub(img.R.Min)
	img.R = img.R.Add(delta)
	img.Clipr = img.Clipr.Add(delta)
	return nil
}

func (r *Rasterizer) opSetClip(cr *codec.Reader) error {
	id, err := cr.Long()
	if err != nil {
		return wrapShort('c', err)
	}
	replByte, err := cr.Byte()
	if err != nil {
		return wrapShort('c', err)
	}
	clipr, err := cr.Rect()
	if err != nil {
		return wrapShort('c', err)
	}
	img, ierr := r.lookupImage('c', id)
	if ierr != nil {
		return ierr
	}
	img.Repl = replByte != 0
	r.store.SetClip(img, clipr)
	return nil
}

func (r *Rasterizer) opSetOp(cr *codec.Reader) error {
	v, err := cr.Long()
	if err != nil {
		return wrapShort('O', err)
	}
	if v < 0 || v > int32(draw.Ncomp)-1 {
		return newErr('O', OutOfRange, "operator value %d out of range", v)
	}
	r.currentOp = draw.Op(v)
	return nil
}

func (r *Rasterizer) opTopBottom(cr *codec.Reader, top bool) error {
	op := byte('t')
	if !top {
		op = 'B'
	}
	n, err := cr.Long()
	if err != nil {
		return wrapShort(op, err)
	}
	imgs := make([]*memdraw.Image, 0, n)
	for i := int32(0); i < n; i++ {
		id, lerr := cr.Long()
		if lerr != nil {
			return wrapShort(op, lerr)
		}
		img, ierr := r.lookupImage(op, id)
		if ierr != nil {
			return ierr
		}
		imgs = append(imgs, img)
	}
	if top {
		r.store.Top(imgs)
	} else {
		r.store.Bottom(imgs)
	}
	return nil
}

func (r *Rasterizer) opName(cr *codec.Reader, global bool) error {
	op := byte('N')
	if !global {
		op = 'n'
	}
	id, err := cr.Long()
	if err != nil {
		return wrapShort(op, err)
	}
	name, err := cr.String()
	if err != nil {
		return wrapShort(op, err)
	}
	if _, lerr := r.store.Lookup(id); lerr != nil {
		// registering a name on an unknown id binds the name to the
		// display surface (id 0); the unknown id itself is not added
		// to the store and still fails lookup.
		r.names[name] = 0
		return nil
	}
	r.names[name] = id
	return nil
}

func (r *Rasterizer) opInitFont(cr *codec.Reader) error {
	fontID, err := cr.Long()
	if err != nil {
		return wrapShort('i', err)
	}
	n, err := cr.Long()
	if err != nil {
		return wrapShort('i', err)
	}
	ascent, err := cr.Long()
	if err != nil {
		return wrapShort('i', err)
	}
	img, ierr := r.lookupImage('i', fontID)
	if ierr != nil {
		return ierr
	}
	if n < 0 {
		return newErr('i', OutOfRange, "negative glyph count %d", n)
	}
	r.fonts[fontID] = memdraw.NewFont(fontID, int(ascent), int(ascent), img, 0, int(n))
	return nil
}

func (r *Rasterizer) opLoadChar(cr *codec.Reader) error {
	fontID, err := cr.Long()
	if err != nil {
		return wrapShort('l', err)
	}
	srcID, err := cr.Long()
	if err != nil {
		return wrapShort('l', err)
	}
	index, err := cr.Long()
	if err != nil {
		return wrapShort('l', err)
	}
	rect, err := cr.Rect()
	if err != nil {
		return wrapShort('l', err)
	}
	p, err := cr.Point()
	if err != nil {
		return wrapShort('l', err)
	}
	leftB, err := cr.Byte()
	if err != nil {
		return wrapShort('l', err)
	}
	widthB, err := cr.Byte()
	if err != nil {
		return wrapShort('l', err)
	}
	font, ok := r.fonts[fontID]
	if !ok {
		return newErr('l', UnknownFont, "font %d not initialized", fontID)
	}
	src, serr := r.lookupImage('l', srcID)
	if serr != nil {
		return serr
	}
	if int(index) < 0 || int(index) >= len(font.Glyphs)-1 {
		return newErr('l', OutOfRange, "glyph index %d out of range", index)
	}
	srcRect := draw.Rectangle{Min: p, Max: p.Add(rect.Size())}
	memdraw.Draw(font.Image, rect, src, nil, draw.S, srcRect.Min, draw.ZP)
	left := int8(leftB)
	if lerr := font.LoadChar(int(index), memdraw.GlyphInfo{
		X: rect.Min.X, Top: rect.Min.Y, Bottom: rect.Max.Y,
		Left: int(left), Width: int(widthB),
	}); lerr != nil {
		return newErr('l', OutOfRange, "%v", lerr)
	}
	font.Glyphs[int(index)+1].X = rect.Max.X
	if rect.Max.Y > font.Height {
		font.Height = rect.Max.Y
	}
	return nil
}
