package expcomp

import (
	"image"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/abworrall/expcomp/pkg/ecolor"
)

// newFrame stacks one uniformly filled band per camera.
func newFrame(w, bandHeight int, fills ...ecolor.Packed) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, bandHeight*len(fills)))
	for i, fill := range fills {
		fillRect(img, image.Rect(0, i*bandHeight, w, (i+1)*bandHeight), fill)
	}
	return img
}

func fillRect(img *image.RGBA, r image.Rectangle, p ecolor.Packed) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			ecolor.Store(img.Pix[img.PixOffset(x, y):], p)
		}
	}
}

func at(img *image.RGBA, x, y int) ecolor.Packed {
	return ecolor.Load(img.Pix[img.PixOffset(x, y):])
}

// withPadding copies img into a buffer whose rows are pad bytes longer than
// they need to be, with the padding filled with junk.
func withPadding(img *image.RGBA, pad int) *image.RGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	stride := w*4 + pad
	out := &image.RGBA{Pix: make([]byte, stride*h), Stride: stride, Rect: image.Rect(0, 0, w, h)}
	for i := range out.Pix {
		out.Pix[i] = 0xA5
	}
	for y := 0; y < h; y++ {
		copy(out.Pix[y*stride:y*stride+w*4], img.Pix[img.PixOffset(0, y):img.PixOffset(0, y)+w*4])
	}
	return out
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testConfig(alpha, beta float64, regions ...Region) Config {
	cfg := NewConfig()
	cfg.Alpha = alpha
	cfg.Beta = beta
	cfg.StatsWorkers = 2
	cfg.Cameras = regions
	return cfg
}
