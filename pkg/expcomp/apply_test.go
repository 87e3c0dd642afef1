package expcomp

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abworrall/expcomp/pkg/ecolor"
)

func TestApplyGainsSaturatesAndSkipsNoData(t *testing.T) {
	regions := []image.Rectangle{image.Rect(0, 0, 3, 2), image.Rect(0, 0, 3, 2)}
	in := newFrame(3, 2, ecolor.Pack(200, 100, 0, 255), ecolor.Pack(10, 20, 30, 40))
	ecolor.Store(in.Pix[in.PixOffset(1, 1):], ecolor.NoData)
	ecolor.Store(in.Pix[in.PixOffset(2, 3):], ecolor.NoData)
	out := image.NewRGBA(in.Rect)

	ApplyGains(in, out, 2, regions, []float64{1.5, 0.5})

	assert.Equal(t, ecolor.Pack(255, 150, 0, 255), at(out, 0, 0))
	assert.Equal(t, ecolor.NoData, at(out, 1, 1))
	assert.Equal(t, ecolor.Pack(5, 10, 15, 20), at(out, 0, 2))
	assert.Equal(t, ecolor.NoData, at(out, 2, 3))
}

func TestApplyGainsOnlyWritesRegions(t *testing.T) {
	marker := ecolor.Pack(1, 2, 3, 4)
	regions := []image.Rectangle{
		image.Rect(0, 0, 6, 3),
		image.Rect(4, 1, 10, 4),
		image.Rect(2, 0, 8, 2),
	}
	in := newFrame(10, 4,
		ecolor.Pack(100, 100, 100, 100),
		ecolor.Pack(100, 100, 100, 100),
		ecolor.Pack(100, 100, 100, 100),
	)
	out := newFrame(10, 4, marker, marker, marker)

	gains := []float64{1.1, 1.2, 1.3}
	ApplyGains(in, out, 4, regions, gains)

	// Every output pixel is either untouched, or written by exactly the
	// camera whose band it's in.
	for y := 0; y < 12; y++ {
		cam := y / 4
		for x := 0; x < 10; x++ {
			p := image.Point{x, y % 4}
			want := marker
			if p.In(regions[cam]) {
				want = ecolor.Pack(100, 100, 100, 100).Scale(gains[cam])
			}
			assert.Equal(t, want, at(out, x, y), "(%d,%d)", x, y)
		}
	}
}

func TestApplyGainsHonoursStride(t *testing.T) {
	regions := []image.Rectangle{image.Rect(1, 0, 4, 2), image.Rect(0, 1, 4, 2)}
	in := withPadding(newFrame(4, 2, ecolor.Pack(10, 10, 10, 10), ecolor.Pack(20, 20, 20, 20)), 8)
	out := withPadding(image.NewRGBA(in.Rect), 4)

	ApplyGains(in, out, 2, regions, []float64{2, 3})

	assert.Equal(t, ecolor.Packed(0), at(out, 0, 0))
	assert.Equal(t, ecolor.Pack(20, 20, 20, 20), at(out, 3, 1))
	assert.Equal(t, ecolor.Packed(0), at(out, 3, 2))
	assert.Equal(t, ecolor.Pack(60, 60, 60, 60), at(out, 0, 3))

	// The junk in the row padding is left alone
	for y := 0; y < 4; y++ {
		assert.Equal(t, []byte{0xA5, 0xA5, 0xA5, 0xA5}, out.Pix[y*out.Stride+16:y*out.Stride+20])
	}
}
