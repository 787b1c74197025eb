package synth

import (
	"fmt"
	"math"
	"math/rand"
)

func init() {
	Register("noise", func() Generator { return NewNoiseGenerator() })
}

var noiseLabels = []string{"Cutoff (Hz)", "Level"}

// NoiseGenerator feeds gaussian white noise through a one-pole lowpass.
//
//	p[0] -> cutoff in [cLo, cHi] Hz (exp)
//	p[1] -> level in [0, 1] (linear)
type NoiseGenerator struct {
	cLo, cHi float64
	norm     []float64
	cutoff   float64
	level    float64
	prev     float64 // last filter output, carried across blocks
	rng      *rand.Rand
}

// NewNoiseGenerator returns a filtered-noise voice spanning 100 Hz to 8 kHz,
// seeded with 0.
func NewNoiseGenerator() *NoiseGenerator {
	return NewNoiseGeneratorSeed(100, 8000, 0)
}

// NewNoiseGeneratorSeed returns a filtered-noise voice with an explicit
// cutoff range and noise seed. The same seed yields the same output.
func NewNoiseGeneratorSeed(cLo, cHi float64, seed int64) *NoiseGenerator {
	g := &NoiseGenerator{
		cLo:  math.Max(1e-3, cLo),
		norm: make([]float64, len(noiseLabels)),
		rng:  rand.New(rand.NewSource(seed)),
	}
	g.cHi = math.Max(g.cLo, cHi)
	g.SetParams([]float64{0.5, 0.2})
	return g
}

func (g *NoiseGenerator) NumParams() int {
	return len(noiseLabels)
}

func (g *NoiseGenerator) ParamLabels() []string {
	return noiseLabels
}

func (g *NoiseGenerator) Params() []float64 {
	return append([]float64(nil), g.norm...)
}

func (g *NoiseGenerator) SetParams(norm []float64) {
	g.norm = NormalizeParams(g.norm, norm, len(noiseLabels))
	g.cutoff = ExpMap01(g.norm[0], g.cLo, g.cHi)
	g.level = g.norm[1]
}

func (g *NoiseGenerator) Generate(out []float32, sampleRate int) {
	if g.level <= 0 {
		// Silence without consuming the noise stream.
		for i := range out {
			out[i] = 0
		}
		return
	}
	a := 1 - math.Exp(-twoPi*g.cutoff/float64(sampleRate))
	y := g.prev
	for i := range out {
		x := g.rng.NormFloat64() * 0.5
		y += a * (x - y)
		out[i] = float32(g.level * y)
	}
	g.prev = y
}

func (g *NoiseGenerator) Readouts() []string {
	return []string{
		fmt.Sprintf("%s: %7.1f Hz", noiseLabels[0], g.cutoff),
		fmt.Sprintf("%s: %.3f", noiseLabels[1], g.level),
	}
}
