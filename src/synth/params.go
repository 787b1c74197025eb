package synth

import "math"

// Clamp01 clamps x into [0,1].
func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// ExpMap01 maps x in [0,1] to [lo,hi] exponentially (requires lo > 0).
// Used for frequencies and cutoffs, where perception is logarithmic.
func ExpMap01(x float64, lo float64, hi float64) float64 {
	return lo * math.Pow(hi/lo, Clamp01(x))
}

// LinMap01 maps x in [0,1] to [lo,hi] linearly.
func LinMap01(x float64, lo float64, hi float64) float64 {
	return lo + Clamp01(x)*(hi-lo)
}

// NormalizeParams writes a normalized parameter vector of exactly n values
// into dst and returns it: values from src are clamped into [0,1], missing
// positions are padded with 0.5 and extras are dropped. dst is reused when
// its capacity allows, so callers on the render path can pass a fixed buffer.
func NormalizeParams(dst []float64, src []float64, n int) []float64 {
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	for i := 0; i < n; i++ {
		if i < len(src) {
			dst[i] = Clamp01(src[i])
		} else {
			dst[i] = 0.5
		}
	}
	return dst
}
