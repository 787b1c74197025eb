package synth

import (
	"fmt"
	"math"
)

const twoPi = 2 * math.Pi

func init() {
	Register("sine", func() Generator { return NewSineGenerator() })
}

var sineLabels = []string{"Freq (Hz)", "Amp"}

// SineGenerator is a sine oscillator.
//
//	p[0] -> frequency in [fLo, fHi] Hz (exp)
//	p[1] -> amplitude in [0, 1] (linear)
type SineGenerator struct {
	fLo, fHi float64
	norm     []float64
	freq     float64
	amp      float64
	phase    float64 // radians, wrapped to [0, 2π)
}

// NewSineGenerator returns a sine oscillator spanning 20 Hz to 2 kHz.
func NewSineGenerator() *SineGenerator {
	return NewSineGeneratorRange(20, 2000)
}

// NewSineGeneratorRange returns a sine oscillator whose frequency parameter
// maps exponentially onto [fLo, fHi].
func NewSineGeneratorRange(fLo, fHi float64) *SineGenerator {
	g := &SineGenerator{
		fLo:  math.Max(1e-3, fLo),
		norm: make([]float64, len(sineLabels)),
	}
	g.fHi = math.Max(g.fLo, fHi)
	g.SetParams([]float64{0.5, 0.2})
	return g
}

func (g *SineGenerator) NumParams() int {
	return len(sineLabels)
}

func (g *SineGenerator) ParamLabels() []string {
	return sineLabels
}

func (g *SineGenerator) Params() []float64 {
	return append([]float64(nil), g.norm...)
}

func (g *SineGenerator) SetParams(norm []float64) {
	g.norm = NormalizeParams(g.norm, norm, len(sineLabels))
	g.freq = ExpMap01(g.norm[0], g.fLo, g.fHi)
	g.amp = g.norm[1]
}

func (g *SineGenerator) Generate(out []float32, sampleRate int) {
	if g.amp <= 0 || g.freq <= 0 {
		for i := range out {
			out[i] = 0
		}
		return
	}
	inc := twoPi * g.freq / float64(sampleRate)
	phase := g.phase
	for i := range out {
		out[i] = float32(g.amp * math.Sin(phase))
		phase += inc
	}
	// The next block starts exactly where this one left off.
	g.phase = math.Mod(phase, twoPi)
}

func (g *SineGenerator) Readouts() []string {
	return []string{
		fmt.Sprintf("%s: %7.2f Hz", sineLabels[0], g.freq),
		fmt.Sprintf("%s: %.3f", sineLabels[1], g.amp),
	}
}
