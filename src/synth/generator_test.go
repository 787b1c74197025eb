package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryHasBuiltins(t *testing.T) {
	assert.Equal(t, []string{"noise", "sine", "stub"}, Names())
}

func TestNewGeneratorUnknown(t *testing.T) {
	_, err := NewGenerator("theremin")
	assert.Error(t, err)
}

// Every generator must hold the vector invariant: after SetParams with any
// input, exactly NumParams stored values, each in [0,1].
func TestSetParamsInvariant(t *testing.T) {
	inputs := [][]float64{
		nil,
		{},
		{0.3},
		{-5, 7},
		{0.1, 0.2, 0.3, 0.4, 0.5},
	}
	for _, name := range Names() {
		for _, input := range inputs {
			g, err := NewGenerator(name)
			require.NoError(t, err)
			g.SetParams(input)
			params := g.Params()
			require.Len(t, params, g.NumParams(), "%s with input %v", name, input)
			for i, v := range params {
				assert.GreaterOrEqual(t, v, 0.0, "%s param %d", name, i)
				assert.LessOrEqual(t, v, 1.0, "%s param %d", name, i)
			}
		}
	}
}

func TestParamMetadataConsistent(t *testing.T) {
	for _, name := range Names() {
		g, err := NewGenerator(name)
		require.NoError(t, err)
		assert.Len(t, g.ParamLabels(), g.NumParams(), name)
		assert.Len(t, g.Readouts(), g.NumParams(), name)
	}
}

func TestSetParamsPadsWithCenter(t *testing.T) {
	g := NewSineGenerator()
	g.SetParams([]float64{0.3})
	assert.Equal(t, []float64{0.3, 0.5}, g.Params())
}

func TestStubGeneratesSilence(t *testing.T) {
	g := NewStubGenerator()
	out := make([]float32, 256)
	for i := range out {
		out[i] = 1
	}
	g.Generate(out, 48000)
	for i, v := range out {
		require.Equal(t, float32(0), v, "sample %d", i)
	}
}

func TestStubReadouts(t *testing.T) {
	g := NewStubGenerator()
	// Defaults [0.5, 0.5]: exp map of [0.1,10] at center is 1, linear is 0.5.
	assert.Equal(t, []string{"Param 1: 1.000", "Param 2: 0.500"}, g.Readouts())
}
