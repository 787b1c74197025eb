package synth

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFFTPureToneBin(t *testing.T) {
	const n = 1024
	const bin = 8
	fft := NewFFT(n)
	x := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = math.Sin(2 * math.Pi * bin * float64(i) / n)
	}
	fft.CalcAbs(x)

	peak := 0
	for i := 1; i < n/2; i++ {
		if x[i] > x[peak] {
			peak = i
		}
	}
	assert.Equal(t, bin, peak)
	// A unit sine concentrates n/2 of magnitude in its bin.
	assert.InDelta(t, n/2, x[bin], 1e-6)
}

func TestFFTLengthMismatchPanics(t *testing.T) {
	fft := NewFFT(256)
	assert.Panics(t, func() {
		fft.Calc(make([]complex128, 128))
	})
}

func TestFFTScratchReuse(t *testing.T) {
	const n = 256
	fft := NewFFT(n)
	x := make([]float64, n)
	x[0] = 1 // impulse: flat spectrum
	fft.CalcAbs(x)
	for i, v := range x {
		assert.InDelta(t, 1.0, v, 1e-9, "bin %d", i)
	}
	// Second use of the same FFT must be unaffected by the first.
	y := make([]float64, n)
	y[0] = 1
	fft.CalcAbs(y)
	assert.InDeltaSlice(t, x, y, 1e-12)
}
