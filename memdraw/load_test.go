package memdraw

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-draw/compositor/draw"
)

func TestRLERoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{1, 2, 3},
		{5, 5, 5, 5, 5, 5},
		{0, 0, 1, 1, 1, 2, 2, 2, 2, 3},
		bytesOf(300, 0xAB),
	}
	for _, want := range cases {
		compressed := CompressRLE(want)
		got, consumed, err := DecompressRLE(compressed, len(want))
		require.NoError(t, err)
		require.LessOrEqual(t, consumed, len(compressed))
		require.Equal(t, want, got)
	}
}

func bytesOf(n int, b byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}

func TestRLEScenario(t *testing.T) {
	input := []byte{0x02, 0x7F, 0x81, 0xAB, 0xCD}
	got, consumed, err := DecompressRLE(input, 5)
	require.NoError(t, err)
	require.Equal(t, 5, consumed)
	require.Equal(t, []byte{0x7F, 0x7F, 0x7F, 0xAB, 0xCD}, got)
}

func TestLoadUnloadRoundTrip(t *testing.T) {
	for _, chn := range []draw.Pix{draw.XRGB32, draw.RGBA32, draw.RGB24, draw.GREY8} {
		r := draw.Rect(0, 0, 4, 3)
		img := &Image{R: r, Clipr: r, Chan: chn, Pix: make([]RGBA, r.Dx()*r.Dy())}
		for i := range img.Pix {
			img.Pix[i] = RGBA{R: uint8(i * 7), G: uint8(i * 3), B: uint8(i * 11), A: 0xFF}
		}
		data, err := Unload(img, r)
		require.NoError(t, err)

		img2 := &Image{R: r, Clipr: r, Chan: chn, Pix: make([]RGBA, r.Dx()*r.Dy())}
		n, err := Load(img2, r, data)
		require.NoError(t, err)
		require.Equal(t, len(data), n)

		data2, err := Unload(img2, r)
		require.NoError(t, err)
		require.Equal(t, data, data2)
	}
}
