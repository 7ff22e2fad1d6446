package draw

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePixRoundTrip(t *testing.T) {
	for _, s := range []string{"r8g8b8", "r8g8b8a8", "k8", "x8r8g8b8"} {
		p, err := ParsePix(s)
		require.NoError(t, err)
		require.Equal(t, s, p.String())
	}
}

func TestParsePixMalformed(t *testing.T) {
	_, err := ParsePix("q9")
	require.Error(t, err)
}

func TestPixDepth(t *testing.T) {
	require.Equal(t, 24, RGB24.Depth())
	require.Equal(t, 32, XRGB32.Depth())
	require.Equal(t, 8, GREY8.Depth())
}

func TestColorWithAlpha(t *testing.T) {
	half := Red.WithAlpha(0x80)
	r, g, b, a := half.RGBA8()
	require.Equal(t, uint8(0x80), a)
	require.Equal(t, uint8(0), g)
	require.Equal(t, uint8(0), b)
	require.Equal(t, uint8(0x80), r)
}
