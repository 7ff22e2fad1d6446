package compositor

import (
	"fmt"

	"github.com/go-draw/compositor/draw"
)

// Ctl is the 12-field record devdraw.go's 'I' case formats with
// "%11d %11d %11s ..." and this module's Encode method
// reproduces verbatim, one field per 12-byte slot (11 digits/chars plus
// a separating space), right-justified, space-padded, for a fixed
// 144-byte total.
type Ctl struct {
	ClientID int32
	ImageID  int32
	Chan     draw.Pix
	Repl     bool
	R        draw.Rectangle
	Clipr    draw.Rectangle
}

const ctlFieldWidth = 12

// Encode renders c as the fixed 144-byte ASCII Ctl record.
func (c Ctl) Encode() []byte {
	repl := 0
	if c.Repl {
		repl = 1
	}
	fields := []string{
		fmt.Sprintf("%d", c.ClientID),
		fmt.Sprintf("%d", c.ImageID),
		c.Chan.String(),
		fmt.Sprintf("%d", repl),
		fmt.Sprintf("%d", c.R.Min.X),
		fmt.Sprintf("%d", c.R.Min.Y),
		fmt.Sprintf("%d", c.R.Max.X),
		fmt.Sprintf("%d", c.R.Max.Y),
		fmt.Sprintf("%d", c.Clipr.Min.X),
		fmt.Sprintf("%d", c.Clipr.Min.Y),
		fmt.Sprintf("%d", c.Clipr.Max.X),
		fmt.Sprintf("%d", c.Clipr.Max.Y),
	}
	out := make([]byte, 0, ctlFieldWidth*len(fields))
	for _, f := range fields {
		out = append(out, padField(f)...)
	}
	return out
}

func padField(s string) []byte {
	if len(s) > ctlFieldWidth-1 {
		s = s[:ctlFieldWidth-1]
	}
	buf := make([]byte, ctlFieldWidth)
	for i := range buf {
		buf[i] = ' '
	}
	start := ctlFieldWidth - 1 - len(s)
	copy(buf[start:], s)
	return buf
}

// Info returns the 'I' opcode's response: display id 0, the XRGB32
// channel tag, a 128-byte NUL-padded label, and four longs for the
// display rectangle.
func (r *Rasterizer) Info(label string) []byte {
	buf := make([]byte, 0, 4+4+128+16)
	buf = appendLong(buf, 0)
	buf = appendLong(buf, int32(draw.XRGB32))
	lbl := make([]byte, 128)
	copy(lbl, label)
	buf = append(buf, lbl...)
	disp := r.store.Display
	buf = appendLong(buf, int32(disp.R.Min.X))
	buf = appendLong(buf, int32(disp.R.Min.Y))
	buf = appendLong(buf, int32(disp.R.Max.X))
	buf = appendLong(buf, int32(disp.R.Max.Y))
	return buf
}

func appendLong(buf []byte, v int32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}
