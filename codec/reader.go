// Package codec decodes the little-endian primitives that make up a
// /dev/draw command buffer: fixed-width integers, points, rectangles,
// length-prefixed strings, and the variable-length delta-coordinate
// encoding used inside polygon point arrays.
//
// A Reader is a stateful cursor over a byte slice. Bytes and Rest return
// sub-slices of that buffer, not copies; callers that need a copy must
// make one.
package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/go-draw/compositor/draw"
)

// ErrShort is returned when a read would run past the end of the buffer.
var ErrShort = fmt.Errorf("codec: short read")

// Reader is a cursor over a command buffer.
type Reader struct {
	buf []byte
}

// NewReader returns a Reader positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return len(r.buf) }

// Remaining returns the unread tail of the buffer, without consuming it.
func (r *Reader) Remaining() []byte { return r.buf }

func (r *Reader) need(n int) ([]byte, error) {
	if len(r.buf) < n {
		return nil, ErrShort
	}
	b := r.buf[:n]
	r.buf = r.buf[n:]
	return b, nil
}

// Byte reads one unsigned byte.
func (r *Reader) Byte() (byte, error) {
	b, err := r.need(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Short reads a little-endian u16.
func (r *Reader) Short() (uint16, error) {
	b, err := r.need(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// Long reads a little-endian, signed 32-bit integer.
func (r *Reader) Long() (int32, error) {
	b, err := r.need(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

// ULong reads a little-endian u32.
func (r *Reader) ULong() (uint32, error) {
	b, err := r.need(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Point reads a long x, long y pair.
func (r *Reader) Point() (draw.Point, error) {
	x, err := r.Long()
	if err != nil {
		return draw.ZP, err
	}
	y, err := r.Long()
	if err != nil {
		return draw.ZP, err
	}
	return draw.Pt(int(x), int(y)), nil
}

// Rect reads four longs: min.x, min.y, max.x, max.y.
func (r *Reader) Rect() (draw.Rectangle, error) {
	min, err := r.Point()
	if err != nil {
		return draw.ZR, err
	}
	max, err := r.Point()
	if err != nil {
		return draw.ZR, err
	}
	return draw.Rpt(min, max), nil
}

// String reads a one-byte length prefix followed by that many bytes of
// UTF-8.
func (r *Reader) String() (string, error) {
	n, err := r.Byte()
	if err != nil {
		return "", err
	}
	b, err := r.need(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Bytes consumes and returns the next n bytes.
func (r *Reader) Bytes(n int) ([]byte, error) {
	return r.need(n)
}

// Rest consumes and returns every remaining byte, for opcodes (load,
// load compressed) whose data field runs to the end of the command
// buffer.
func (r *Reader) Rest() []byte {
	b := r.buf
	r.buf = nil
	return b
}

// DeltaCoord decodes one axis of a polygon delta-coordinate: if the
// leading byte's top bit is clear, a signed 7-bit delta (-64..63) is
// added to prev; if set, the low 7 bits of the leading byte plus two
// further bytes form a signed 23-bit absolute value, little-endian,
// sign-extended from bit 22.
func (r *Reader) DeltaCoord(prev int) (int, error) {
	b0, err := r.Byte()
	if err != nil {
		return 0, err
	}
	if b0&0x80 == 0 {
		v := int(b0 & 0x7F)
		if v&0x40 != 0 {
			v |= ^0x7F // sign-extend the 7-bit field
		}
		return prev + v, nil
	}
	rest, err := r.need(2)
	if err != nil {
		return 0, err
	}
	v := int(b0&0x7F) | int(rest[0])<<7 | int(rest[1])<<15
	if v&(1<<22) != 0 {
		v |= ^0 << 23
	}
	return v, nil
}

// DeltaPoints reads n points encoded as independent per-axis delta
// chains: all n x-deltas are seeded from start.X and chained against
// each other, likewise for y, matching the polygon opcode's point array
// encoding (each axis tracks its own previous value, not the previous
// point's opposite axis).
func (r *Reader) DeltaPoints(n int, start draw.Point) ([]draw.Point, error) {
	pts := make([]draw.Point, n)
	px, py := start.X, start.Y
	for i := 0; i < n; i++ {
		x, err := r.DeltaCoord(px)
		if err != nil {
			return nil, err
		}
		y, err := r.DeltaCoord(py)
		if err != nil {
			return nil, err
		}
		pts[i] = draw.Pt(x, y)
		px, py = x, y
	}
	return pts, nil
}
