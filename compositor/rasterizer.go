// Package compositor dispatches a decoded /dev/draw command stream
// against a memdraw.Store.
package compositor

import (
	"github.com/rs/zerolog"

	"github.com/go-draw/compositor/codec"
	"github.com/go-draw/compositor/draw"
	"github.com/go-draw/compositor/memdraw"
)

// Rasterizer holds the single sticky current_op, the image/font/name
// tables, and the refresh accumulator that together make up all
// cross-command state the core carries; every command's other effects
// are local to that command.
type Rasterizer struct {
	store      *memdraw.Store
	fonts      map[int32]*memdraw.Font
	names      map[string]int32
	currentOp  draw.Op
	refresh    refreshAccumulator
	log        zerolog.Logger
	DisplayTag string // the label Info() reports, settable by the harness
}

// New creates a Rasterizer over a freshly sized display surface.
func New(w, h int, logger zerolog.Logger) *Rasterizer {
	return &Rasterizer{
		store:     memdraw.NewStore(draw.Rect(0, 0, w, h), draw.XRGB32),
		fonts:     make(map[int32]*memdraw.Font),
		names:     make(map[string]int32),
		currentOp: draw.SoverD,
		log:       logger,
	}
}

// Display returns the current display surface image, for callers (the
// harness, tests) that need to read back pixels.
func (r *Rasterizer) Display() *memdraw.Image { return r.store.Display }

// ResizeDisplay replaces the display surface with one of the given
// bounds. This is not a wire opcode; the host calls it directly as the
// single point where display dimension changes happen.
func (r *Rasterizer) ResizeDisplay(w, h int) error {
	if w <= 0 || h <= 0 {
		return newErr(0, DisplayInvariant, "cannot resize display to non-positive extent %dx%d", w, h)
	}
	r.store.ResizeDisplay(draw.Rect(0, 0, w, h), draw.XRGB32)
	return nil
}

// Process decodes and dispatches every command in buf in order,
// returning the concatenation of each command's response bytes (empty
// for opcodes with no response) and the byte-encoded refresh records
// emitted by any 'v' (flush) opcodes encountered. A decode or dispatch
// error aborts the remaining buffer; commands already executed keep
// their effect.
func (r *Rasterizer) Process(buf []byte) (response []byte, refreshes [][]byte, err error) {
	cr := codec.NewReader(buf)
	for cr.Len() > 0 {
		op, derr := cr.Byte()
		if derr != nil {
			return response, refreshes, newErr(0, MalformedStream, "reading opcode: %v", derr)
		}
		resp, flushed, derr := r.dispatch(op, cr)
		if derr != nil {
			r.logError(op, derr)
			return response, refreshes, derr
		}
		if resp != nil {
			response = append(response, resp...)
		}
		if flushed != nil {
			refreshes = append(refreshes, flushed)
		}
	}
	return response, refreshes, nil
}

func (r *Rasterizer) logError(op byte, err error) {
	kind := MalformedStream
	if ce, ok := err.(*Error); ok {
		kind = ce.Kind
	}
	ev := r.log.Warn()
	if kind == AllocationFailure || kind == DisplayInvariant {
		ev = r.log.Error()
	}
	ev.Str("op", string(rune(op))).Str("kind", kind.String()).Err(err).Msg("draw command rejected")
}

// dispatch executes one opcode, returning its response bytes (if any)
// and, for 'v', the drained refresh record.
func (r *Rasterizer) dispatch(op byte, cr *codec.Reader) (response []byte, flushed []byte, err error) {
	isDrawOp := false
	switch op {
	case 'b':
		err = r.opAlloc(cr)
	case 'A':
		err = r.opAllocScreen(cr)
	case 'F':
		err = r.opFreeScreen(cr)
	case 'f':
		err = r.opFree(cr)
	case 'd':
		err = r.opDraw(cr)
		isDrawOp = true
	case 'L':
		err = r.opLine(cr)
		isDrawOp = true
	case 'e', 'E':
		err = r.opEllipse(cr, op == 'E')
		isDrawOp = true
	case 'a':
		err = r.opArc(cr)
		isDrawOp = true
	case 'p', 'P':
		err = r.opPolygon(cr, op == 'P')
		isDrawOp = true
	case 's', 'x':
		response, err = r.opString(cr, op == 'x')
		isDrawOp = true
	case 'y':
		response, err = r.opLoad(cr, false)
	case 'Y':
		response, err = r.opLoad(cr, true)
	case 'r':
		response, err = r.opUnload(cr)
	case 'o':
		err = r.opOrigin(cr)
	case 'c':
		err = r.opSetClip(cr)
	case 'O':
		err = r.opSetOp(cr)
	case 't':
		err = r.opTopBottom(cr, true)
	case 'B':
		err = r.opTopBottom(cr, false)
	case 'N':
		err = r.opName(cr, true)
	case 'n':
		err = r.opName(cr, false)
	case 'i':
		err = r.opInitFont(cr)
	case 'l':
		err = r.opLoadChar(cr)
	case 'I':
		response = r.Info(r.DisplayTag)
	case 'v':
		flushed = r.refresh.drain()
	default:
		err = newErr(op, MalformedStream, "unknown opcode %q", rune(op))
	}
	if err != nil {
		if ce, ok := err.(*Error); ok && ce.Op == 0 {
			ce.Op = op
		}
		return nil, nil, err
	}
	if isDrawOp {
		r.currentOp = draw.SoverD
	}
	return response, flushed, nil
}

func wrapShort(op byte, err error) error {
	return newErr(op, MalformedStream, "short read: %v", err)
}

func (r *Rasterizer) lookupImage(op byte, id int32) (*memdraw.Image, error) {
	img, err := r.store.Lookup(id)
	if err != nil {
		return nil, newErr(op, UnknownImage, "%v", err)
	}
	return img, nil
}

func (r *Rasterizer) addRefresh(img *memdraw.Image, rect draw.Rectangle) {
	if img == r.store.Display {
		r.refresh.add(rect)
	}
}
