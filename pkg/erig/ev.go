package erig

import (
	"fmt"
	"math"
)

type rat64 [2]int64

// An ExposureValue is how a camera's image was exposed, as read from its
// EXIF tags. It lets us say how far apart two cameras' exposures were, in
// stops, which is a useful sanity check on the gains we compute.
//
// The EV is rounded to whole stops, by snapping the shutterspeed and
// aperture to the nearest "whole" values below them.
type ExposureValue struct {
	ISO                        int64  // 100, 800, etc.
	ApertureX10                int64  // f/5.6 is the integer 56.
	ShutterSpeed               rat64  // 1/500, 1/1000, etc.
	EV                         int    // https://en.wikipedia.org/wiki/Exposure_value
}

var(
	// The sequence of "whole" f-stops from f/1.0 to f/32, as x10 int values
	apertureX10FStops = []int64{10, 14, 20, 28, 40, 56, 80, 110, 160, 220, 320}

	// This sequence isn't quite mathematical
	shutterSpeeds = []rat64{
		rat64{1, 8000},
		rat64{1, 4000},
		rat64{1, 2000},
		rat64{1, 1000},
		rat64{1,  500},
		rat64{1,  250},
		rat64{1,  125},
		rat64{1,   60},
		rat64{1,   30},
		rat64{1,   15},
		rat64{1,    8},
		rat64{1,    4},
		rat64{1,    2},
		rat64{1,    1},
		rat64{2,    1},
		rat64{4,    1},
		rat64{8,    1},
		rat64{16,   1},
		rat64{32,   1},
	}

	isoStops = map[int64]int{
		100: 0, 200: 1, 400: 2, 800: 3, 1600: 4, 3200: 5, 6400: 6, 12800: 7,
	}
)

// An aperture index doesn't have meaning per se, but the distance
// between two of them does - e.g. differ by 2, then the respective
// apertures differ by 2 'stops'
func closestApertureIndex(apertureX10 int64) int {
	ret := 0
	for i, fstop := range apertureX10FStops {
		if fstop <= apertureX10 {
			ret = i
		}
	}
	return ret
}

func closestShutterSpeedIndex(ssIn rat64) int {
	ret := 0
	for i, ss := range shutterSpeeds {
		// ssIn >= ss, without dividing
		if ssIn[0]*ss[1] >= ss[0]*ssIn[1] {
			ret = i
		}
	}
	return ret
}

func (ev ExposureValue)String() string {
	s := fmt.Sprintf("f/%.1f", float32(ev.ApertureX10)/10.0)
	if ev.ShutterSpeed[1] != 1 {
		s += fmt.Sprintf(", %d/%d", ev.ShutterSpeed[0], ev.ShutterSpeed[1])
	} else {
		s += fmt.Sprintf(", %ds", ev.ShutterSpeed[0])
	}
	return s + fmt.Sprintf(", ISO%d, EV %d", ev.ISO, ev.EV)
}

// Validate fills in the EV, or complains if the exposure values look
// implausible.
func (ev *ExposureValue)Validate() error {
	// We know that f/5.6 at 1/4000 and ISO100 is EV=17; figure how we differ from this in stops.
	apStops := closestApertureIndex(ev.ApertureX10)        - closestApertureIndex(56)
	ssStops := closestShutterSpeedIndex(ev.ShutterSpeed) - closestShutterSpeedIndex(rat64{1, 4000})

	base := 17 + apStops - ssStops
	if base < 0 || base > 20 {
		return fmt.Errorf("exposure info looks suspicious, base EV=%d: %v", base, ev)
	}

	// The higher the ISO, the less physical light needed to fully expose.
	stops, exists := isoStops[ev.ISO]
	if !exists {
		return fmt.Errorf("(%s) had unhandled ISO", ev)
	}

	ev.EV = base - stops
	return nil
}

// PredictedGain is how much an image exposed at ev would need to be
// scaled by to look like one exposed at ref. A higher EV lets in less
// light, so it needs a bigger gain.
func (ev ExposureValue)PredictedGain(ref ExposureValue) float64 {
	return math.Pow(2, float64(ev.EV - ref.EV))
}
