package ecolor

import (
	"fmt"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/abworrall/expcomp/pkg/emath"
)

// An IntensityFunc maps a valid pixel to a scalar that stands in for how
// exposed it is. It is a proxy for exposure level, not a colour-accurate
// quantity, so it only has to be monotonic in brightness.
type IntensityFunc func(Packed) uint32

// IntensityPolicy names one of the IntensityFuncs below.
type IntensityPolicy string

const (
	PolicyLuma         IntensityPolicy = "luma"
	PolicyRGBMean      IntensityPolicy = "rgbmean"
	PolicyRGBMagnitude IntensityPolicy = "rgbmagnitude"
	PolicyLightness    IntensityPolicy = "lightness"
)

var intensityFuncs = map[IntensityPolicy]IntensityFunc{
	PolicyLuma:         Luma,
	PolicyRGBMean:      RGBMean,
	PolicyRGBMagnitude: RGBMagnitude,
	PolicyLightness:    Lightness,
}

// Luma uses the high byte, for frames whose producer wrote luma there.
func Luma(p Packed) uint32 { return uint32(p.A()) }

// RGBMean averages the three colour channels.
func RGBMean(p Packed) uint32 {
	return (uint32(p.R()) + uint32(p.G()) + uint32(p.B())) / 3
}

// RGBMagnitude is the length of the RGB vector, in [0, 441].
func RGBMagnitude(p Packed) uint32 {
	r, g, b := float64(p.R()), float64(p.G()), float64(p.B())
	return uint32(math.Sqrt(r*r + g*g + b*b))
}

// Lightness is CIE L* scaled to [0, 255]. It treats the channels as sRGB,
// which is much slower than the other policies.
func Lightness(p Packed) uint32 {
	c := colorful.Color{R: float64(p.R()) / 255.0, G: float64(p.G()) / 255.0, B: float64(p.B()) / 255.0}
	l, _, _ := c.Lab()
	return uint32(math.Round(emath.Clamp(l, 0.0, 1.0) * 255.0))
}

func (ip IntensityPolicy) Func() (IntensityFunc, error) {
	if f, ok := intensityFuncs[ip]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("no intensity policy named '%s' (have %v)", ip, ListIntensityPolicies())
}

func ListIntensityPolicies() []string {
	names := []string{}
	for k := range intensityFuncs {
		names = append(names, string(k))
	}
	sort.Strings(names)
	return names
}
