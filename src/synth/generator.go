// Package synth is a realtime audio synthesis engine: a driver-invoked
// callback renders blocks of mono samples from a pluggable generator whose
// behavior is controlled by a small vector of normalized parameters in [0,1].
package synth

import (
	"fmt"
	"sort"
	"sync"
)

// Generator is implemented by every sound algorithm the engine can host.
//
// SetParams and Generate are invoked once per audio block from the realtime
// path, so implementations must not allocate, block, or take locks there;
// state lives in plain fields owned exclusively by the generator. Carry-over
// state (oscillator phase, filter memory) persists across Generate calls to
// keep block boundaries free of discontinuities.
type Generator interface {
	// NumParams returns the arity of the parameter vector, fixed per type.
	NumParams() int
	// ParamLabels returns one human-readable name per parameter.
	ParamLabels() []string
	// Params returns a copy of the current normalized parameter vector.
	Params() []float64
	// SetParams stores norm as the parameter vector, padded with 0.5 and
	// truncated to NumParams values clamped into [0,1], and recomputes all
	// derived semantic values.
	SetParams(norm []float64)
	// Generate fills out with len(out) mono samples in [-1,1].
	Generate(out []float32, sampleRate int)
	// Readouts returns one formatted string per parameter reflecting the
	// current semantic values. Purely presentational.
	Readouts() []string
}

// ----- Registry ----- //

// The engine itself only needs a constructed Generator instance; discovery of
// installable generators by name is this plain map from name to factory.

var registry = struct {
	sync.Mutex
	factories map[string]func() Generator
}{factories: map[string]func() Generator{}}

// Register makes a generator factory available under name. Later
// registrations replace earlier ones.
func Register(name string, factory func() Generator) {
	registry.Lock()
	registry.factories[name] = factory
	registry.Unlock()
}

// NewGenerator constructs a registered generator by name.
func NewGenerator(name string) (Generator, error) {
	registry.Lock()
	factory, ok := registry.factories[name]
	registry.Unlock()
	if !ok {
		return nil, fmt.Errorf("synth: unknown generator %q", name)
	}
	return factory(), nil
}

// Names returns the registered generator names, sorted.
func Names() []string {
	registry.Lock()
	names := make([]string, 0, len(registry.factories))
	for name := range registry.factories {
		names = append(names, name)
	}
	registry.Unlock()
	sort.Strings(names)
	return names
}
