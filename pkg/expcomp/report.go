package expcomp

import (
	"fmt"
	"image"

	"github.com/codahale/hdrhistogram"

	"github.com/abworrall/expcomp/pkg/ecolor"
)

// A CameraReport summarises one camera's band of a compensated frame.
type CameraReport struct {
	Gain        float64
	InputMean   float64 // Mean intensity over the region, before the gain
	Mean        float64
	Median      int64
	P99         int64
	ClippedFrac float64 // Fraction of valid pixels with any of R,G,B at 255
	ValidPixels int64
}

type Report []CameraReport

func (r Report) String() string {
	str := "Report [\n"
	for i, cr := range r {
		str += fmt.Sprintf("  cam%d: gain %.4f, mean %6.2f -> %6.2f, median %3d, p99 %3d, clipped %5.2f%% (%d pix)\n",
			i, cr.Gain, cr.InputMean, cr.Mean, cr.Median, cr.P99, 100*cr.ClippedFrac, cr.ValidPixels)
	}
	return str + "]\n"
}

// Report looks at the compensated frame that Process wrote to out, using
// the statistics from the same frame for the before-gain means.
func (c *Compensator) Report(out *image.RGBA, gains Gains) (Report, error) {
	bandHeight, err := c.CheckFrame(out, out)
	if err != nil {
		return nil, err
	}
	if len(gains) != c.NumCameras() {
		return nil, fmt.Errorf("%w: %d gains for %d cameras", ErrConfiguration, len(gains), c.NumCameras())
	}

	rep := make(Report, c.NumCameras())
	for i, region := range c.regions {
		cr, err := cameraReport(out, WriteRect(out.Rect, bandHeight, region, i), c.intensity)
		if err != nil {
			return nil, fmt.Errorf("camera %d: %v", i, err)
		}
		rep[i] = cr
		rep[i].Gain = gains[i]
		if i < len(c.lastStats.SelfIntensity) {
			rep[i].InputMean = c.lastStats.SelfIntensity[i]
		}
	}
	return rep, nil
}

// reportMaxIntensity is the histogram ceiling. Intensities above it (no
// built-in policy gets there) are recorded as the ceiling.
const reportMaxIntensity = 1024

func cameraReport(img *image.RGBA, r image.Rectangle, f ecolor.IntensityFunc) (CameraReport, error) {
	h := hdrhistogram.New(1, reportMaxIntensity, 3)
	clipped := int64(0)

	for y := r.Min.Y; y < r.Max.Y; y++ {
		p := img.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			v := ecolor.Load(img.Pix[p:])
			p += 4
			if !v.IsValid() {
				continue
			}
			if err := h.RecordValue(min(int64(f(v)), reportMaxIntensity)); err != nil {
				return CameraReport{}, fmt.Errorf("histogram: %v", err)
			}
			if v.R() == 255 || v.G() == 255 || v.B() == 255 {
				clipped++
			}
		}
	}

	cr := CameraReport{ValidPixels: h.TotalCount()}
	if cr.ValidPixels > 0 {
		cr.Mean = h.Mean()
		cr.Median = h.ValueAtQuantile(50)
		cr.P99 = h.ValueAtQuantile(99)
		cr.ClippedFrac = float64(clipped) / float64(cr.ValidPixels)
	}
	return cr, nil
}
