package compositor

import (
	"github.com/go-draw/compositor/codec"
	"github.com/go-draw/compositor/memdraw"
)

// opLoad handles 'y' (load) and 'Y' (load compressed). data runs to the
// end of the command buffer. The response is a long carrying the number
// of input bytes consumed.
func (r *Rasterizer) opLoad(cr *codec.Reader, compressed bool) ([]byte, error) {
	op := byte('y')
	if compressed {
		op = 'Y'
	}
	id, err := cr.Long()
	if err != nil {
		return nil, wrapShort(op, err)
	}
	rect, err := cr.Rect()
	if err != nil {
		return nil, wrapShort(op, err)
	}
	data := cr.Rest()

	img, ierr := r.lookupImage(op, id)
	if ierr != nil {
		return nil, ierr
	}

	var consumed int
	var lerr error
	if compressed {
		consumed, lerr = memdraw.LoadCompressed(img, rect, data)
	} else {
		consumed, lerr = memdraw.Load(img, rect, data)
	}
	if lerr != nil {
		return nil, newErr(op, OutOfRange, "%v", lerr)
	}
	r.addRefresh(img, rect)

	buf := make([]byte, 4)
	putLong(buf, int32(consumed))
	return buf, nil
}

// opUnload handles 'r' (unload): reads pixels from id's surface within
// r, converts to chan, and returns the byte stream.
func (r *Rasterizer) opUnload(cr *codec.Reader) ([]byte, error) {
	id, err := cr.Long()
	if err != nil {
		return nil, wrapShort('r', err)
	}
	rect, err := cr.Rect()
	if err != nil {
		return nil, wrapShort('r', err)
	}
	img, ierr := r.lookupImage('r', id)
	if ierr != nil {
		return nil, ierr
	}
	out, uerr := memdraw.Unload(img, rect)
	if uerr != nil {
		return nil, newErr('r', OutOfRange, "%v", uerr)
	}
	return out, nil
}
