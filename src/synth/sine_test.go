package synth

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinePhaseContinuity(t *testing.T) {
	const blockSize = 480
	params := []float64{0.5, 1.0}

	split := NewSineGenerator()
	split.SetParams(params)
	first := make([]float32, blockSize)
	second := make([]float32, blockSize)
	split.Generate(first, 48000)
	split.Generate(second, 48000)

	whole := NewSineGenerator()
	whole.SetParams(params)
	full := make([]float32, 2*blockSize)
	whole.Generate(full, 48000)

	for i := 0; i < blockSize; i++ {
		require.InDelta(t, full[i], first[i], 1e-5, "sample %d", i)
		require.InDelta(t, full[blockSize+i], second[i], 1e-5, "sample %d", blockSize+i)
	}
}

func TestSineSilenceFastPath(t *testing.T) {
	g := NewSineGenerator()
	g.SetParams([]float64{0.7, 0})
	out := make([]float32, 128)
	for i := range out {
		out[i] = 1
	}
	g.Generate(out, 48000)
	for i, v := range out {
		require.Equal(t, float32(0), v, "sample %d", i)
	}
}

// With f in [20, 2000] and p0 = 0.5, the fundamental sits at the geometric
// mean sqrt(20*2000) = 200 Hz.
func TestSineFundamentalFrequency(t *testing.T) {
	const sr = 48000
	const frames = 4800 // 100 ms
	g := NewSineGenerator()
	g.SetParams([]float64{0.5, 1.0})
	out := make([]float32, frames)
	g.Generate(out, sr)

	rising := 0
	peak := float32(0)
	for i := 1; i < frames; i++ {
		if out[i-1] < 0 && out[i] >= 0 {
			rising++
		}
		if a := float32(math.Abs(float64(out[i]))); a > peak {
			peak = a
		}
	}
	freq := float64(rising) / (float64(frames) / sr)
	assert.InDelta(t, 200.0, freq, 5)
	assert.Greater(t, peak, float32(0.999))
}

func TestSinePhaseStaysWrapped(t *testing.T) {
	g := NewSineGenerator()
	g.SetParams([]float64{1.0, 1.0}) // 2 kHz
	out := make([]float32, 128)
	for i := 0; i < 100; i++ {
		g.Generate(out, 48000)
		require.GreaterOrEqual(t, g.phase, 0.0)
		require.Less(t, g.phase, twoPi)
	}
}

func TestSineReadouts(t *testing.T) {
	g := NewSineGenerator()
	assert.Equal(t, []string{"Freq (Hz):  200.00 Hz", "Amp: 0.200"}, g.Readouts())
	g.SetParams([]float64{0, 1})
	assert.Equal(t, []string{"Freq (Hz):   20.00 Hz", "Amp: 1.000"}, g.Readouts())
}

func TestSineRangeFloors(t *testing.T) {
	g := NewSineGeneratorRange(-5, -10)
	g.SetParams([]float64{0, 1})
	// Both bounds collapse onto the 1e-3 floor.
	assert.InEpsilon(t, 1e-3, g.freq, 1e-12)
}
