package synth

import "fmt"

func init() {
	Register("stub", func() Generator { return NewStubGenerator() })
}

var stubLabels = []string{"Param 1", "Param 2"}

// StubGenerator is the template for new algorithms: it carries the full
// parameter plumbing but emits silence. Start here for new DSP ideas.
//
//	p[0] -> something exponential in [0.1, 10]
//	p[1] -> something linear in [0, 1]
//
// Add or remove params by editing the labels and the mappings in SetParams.
type StubGenerator struct {
	norm []float64
	val1 float64
	val2 float64
}

// NewStubGenerator ...
func NewStubGenerator() *StubGenerator {
	g := &StubGenerator{norm: make([]float64, len(stubLabels))}
	g.SetParams([]float64{0.5, 0.5})
	return g
}

func (g *StubGenerator) NumParams() int {
	return len(stubLabels)
}

func (g *StubGenerator) ParamLabels() []string {
	return stubLabels
}

func (g *StubGenerator) Params() []float64 {
	return append([]float64(nil), g.norm...)
}

func (g *StubGenerator) SetParams(norm []float64) {
	g.norm = NormalizeParams(g.norm, norm, len(stubLabels))
	g.val1 = ExpMap01(g.norm[0], 0.1, 10)
	g.val2 = LinMap01(g.norm[1], 0, 1)
}

// Generate emits silence; replace with real DSP.
func (g *StubGenerator) Generate(out []float32, sampleRate int) {
	for i := range out {
		out[i] = 0
	}
}

func (g *StubGenerator) Readouts() []string {
	return []string{
		fmt.Sprintf("%s: %.3f", stubLabels[0], g.val1),
		fmt.Sprintf("%s: %.3f", stubLabels[1], g.val2),
	}
}
