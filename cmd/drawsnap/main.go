// Command drawsnap drives a compositor.Rasterizer over a raw draw
// command buffer and writes the resulting display surface out as a PNG.
// It plays the out-of-process role frametest/main.go plays for the
// frame package: a visual smoke-test harness, not part of the core.
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	xdraw "golang.org/x/image/draw"

	"github.com/go-draw/compositor/compositor"
	"github.com/go-draw/compositor/draw"
)

func main() {
	var (
		width  = pflag.Int("width", 640, "initial display width")
		height = pflag.Int("height", 480, "initial display height")
		input  = pflag.String("input", "-", "path to a raw draw command buffer, or - for stdin")
		output = pflag.String("output", "snapshot.png", "path to write the rendered PNG")
		thumb  = pflag.Int("thumb", 0, "if nonzero, also downscale the longest side to this many pixels")
		label  = pflag.String("label", "drawsnap", "label reported by the init opcode")
		quiet  = pflag.Bool("quiet", false, "suppress structured logging of rejected commands")
	)
	pflag.Parse()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if *quiet {
		logger = logger.Level(zerolog.Disabled)
	}

	buf, err := readInput(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "drawsnap: %v\n", err)
		os.Exit(1)
	}

	r := compositor.New(*width, *height, logger)
	r.DisplayTag = *label

	if _, _, err := r.Process(buf); err != nil {
		fmt.Fprintf(os.Stderr, "drawsnap: command buffer rejected: %v\n", err)
		os.Exit(1)
	}

	if err := writePNG(r, *output, *thumb); err != nil {
		fmt.Fprintf(os.Stderr, "drawsnap: %v\n", err)
		os.Exit(1)
	}
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writePNG(r *compositor.Rasterizer, path string, thumbMax int) error {
	disp := r.Display()
	bounds := disp.R
	img := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := disp.At(draw.Pt(x, y))
			img.SetNRGBA(x-bounds.Min.X, y-bounds.Min.Y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A})
		}
	}

	var out image.Image = img
	if thumbMax > 0 && (img.Bounds().Dx() > thumbMax || img.Bounds().Dy() > thumbMax) {
		out = downscale(img, thumbMax)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, out)
}

func downscale(src *image.NRGBA, maxSide int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	scale := float64(maxSide) / float64(w)
	if h > w {
		scale = float64(maxSide) / float64(h)
	}
	nw := int(float64(w) * scale)
	nh := int(float64(h) * scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}
