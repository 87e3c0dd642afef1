package expcomp

import (
	"image"
	"sync"

	"github.com/abworrall/expcomp/pkg/ecolor"
)

// ApplyGains writes gain-scaled copies of each camera's valid region from
// in to out. Cameras 0..N-2 each get a goroutine and the last camera runs
// on the caller's goroutine; everything has finished by the time it
// returns. Pixels outside the valid regions are not touched.
//
// Each worker writes only WriteRect(i), which is disjoint from every other
// camera's as long as the regions fit in their bands (checkBands).
func ApplyGains(in, out *image.RGBA, bandHeight int, regions []image.Rectangle, gains []float64) {
	n := len(regions)
	if n == 0 {
		return
	}

	var wg sync.WaitGroup
	for i := 0; i < n-1; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			applyGain(in, out, bandHeight, regions[i], i, gains[i])
		}(i)
	}
	applyGain(in, out, bandHeight, regions[n-1], n-1, gains[n-1])
	wg.Wait()
}

func applyGain(in, out *image.RGBA, bandHeight int, region image.Rectangle, i int, gain float64) {
	// in and out may have different strides, but share the same layout.
	src := WriteRect(in.Rect, bandHeight, region, i)
	dst := WriteRect(out.Rect, bandHeight, region, i)

	for y := 0; y < src.Dy(); y++ {
		ps := in.PixOffset(src.Min.X, src.Min.Y+y)
		pd := out.PixOffset(dst.Min.X, dst.Min.Y+y)
		for x := 0; x < src.Dx(); x++ {
			ecolor.Store(out.Pix[pd:], ecolor.Load(in.Pix[ps:]).Scale(gain))
			ps += 4
			pd += 4
		}
	}
}
