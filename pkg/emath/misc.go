package emath

import "math"

// Some functions that only operate on basic types, that are useful

func GammaExpand_F64(f float64) float64 {
	if f <= 0.0031308 {
		return 12.92 * f
	}
	return 1.055*math.Pow(f, 1.0/2.4) - 0.055
}

func Clamp(f, min, max float64) float64 {
	if f < min {
		return min
	} else if f > max {
		return max
	}
	return f
}
