package compositor

import (
	"encoding/binary"

	"github.com/go-draw/compositor/draw"
)

// refreshAccumulator tracks the bounding box of every drawing mutation
// targeted at the display image since the last flush.
type refreshAccumulator struct {
	r draw.Rectangle
}

func (a *refreshAccumulator) add(r draw.Rectangle) {
	draw.CombineRect(&a.r, r)
}

// drain returns the accumulated rectangle encoded as a 16-byte record of
// four little-endian i32 fields (Min.X, Min.Y, Max.X, Max.Y), and resets
// the accumulator to empty.
func (a *refreshAccumulator) drain() []byte {
	r := a.r
	a.r = draw.ZR
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(int32(r.Min.X)))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(int32(r.Min.Y)))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(int32(r.Max.X)))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(int32(r.Max.Y)))
	return buf
}
