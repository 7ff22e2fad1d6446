package codec

import (
	"testing"

	"github.com/go-draw/compositor/draw"
	"github.com/stretchr/testify/require"
)

func encodeDelta(buf []byte, prev, v int) []byte {
	d := v - prev
	if d >= -64 && d <= 63 {
		return append(buf, byte(d&0x7F))
	}
	x := uint32(v) & 0x7FFFFF
	return append(buf, byte(x&0x7F)|0x80, byte(x>>7), byte(x>>15))
}

func TestDeltaCoordRoundTrip(t *testing.T) {
	pts := []int{0, 63, -70, -70, 1<<22 - 1, -(1 << 22)}
	var buf []byte
	prev := 0
	for _, v := range pts {
		buf = encodeDelta(buf, prev, v)
		prev = v
	}
	r := NewReader(buf)
	prev = 0
	for _, want := range pts {
		got, err := r.DeltaCoord(prev)
		require.NoError(t, err)
		require.Equal(t, want, got)
		prev = got
	}
}

func TestDeltaCoordShort(t *testing.T) {
	r := NewReader([]byte{0x80, 0x01})
	_, err := r.DeltaCoord(0)
	require.ErrorIs(t, err, ErrShort)
}

func TestPrimitives(t *testing.T) {
	var buf []byte
	buf = append(buf, 0x05)                   // byte
	buf = append(buf, 0x34, 0x12)              // short 0x1234
	buf = append(buf, 0xFF, 0xFF, 0xFF, 0xFF)  // long -1
	buf = append(buf, 3, 'h', 'i', '!')        // string
	r := NewReader(buf)

	b, err := r.Byte()
	require.NoError(t, err)
	require.Equal(t, byte(5), b)

	s, err := r.Short()
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), s)

	l, err := r.Long()
	require.NoError(t, err)
	require.Equal(t, int32(-1), l)

	str, err := r.String()
	require.NoError(t, err)
	require.Equal(t, "hi!", str)

	require.Equal(t, 0, r.Len())
}

func TestPointRect(t *testing.T) {
	var buf []byte
	for _, v := range []int32{1, 2, 3, 4} {
		buf = append(buf, byte(v), 0, 0, 0)
	}
	r := NewReader(buf)
	rect, err := r.Rect()
	require.NoError(t, err)
	require.Equal(t, draw.Rect(1, 2, 3, 4), rect)
}
