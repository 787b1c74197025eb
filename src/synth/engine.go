package synth

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// fftSize is the rolling window the spectrum diagnostic looks at. Power of
// two, multiple of the default block size.
const fftSize = 2048

// ErrClosed is returned by lifecycle operations after Close.
var ErrClosed = errors.New("synth: engine is closed")

type streamStatus int

const (
	statusStopped streamStatus = iota
	statusRunning
	statusClosed
)

// Config holds the engine's stream settings. Zero values select the
// defaults: 48 kHz, 128-frame blocks, mono, portaudio backend.
type Config struct {
	SampleRate int
	BlockSize  int
	Channels   int
	Backend    string // "portaudio", "oto" or "headless"
}

func (c Config) withDefaults() Config {
	if c.SampleRate <= 0 {
		c.SampleRate = 48000
	}
	if c.BlockSize <= 0 {
		c.BlockSize = 128
	}
	if c.Channels <= 0 {
		c.Channels = 1
	}
	return c
}

// Diagnostics is a snapshot of the driver-reported stream conditions. The
// engine only counts them; whether to restart, log or ignore is the caller's
// call.
type Diagnostics struct {
	Underflows uint64
	Overflows  uint64
}

// Engine owns the output stream and the active generator, and hands control
// parameters to the realtime callback. All methods are safe for concurrent
// use from any goroutine; none may be called after Close.
type Engine struct {
	mu      sync.Mutex
	gen     Generator
	pending []float64 // normalized vector the callback will apply next
	status  streamStatus
	stream  OutputStream

	// genMu serializes the callback's SetParams against Readouts, which
	// formats the same semantic fields from the control thread. The
	// callback holds it only across SetParams: bounded, allocation-free.
	genMu sync.Mutex

	sampleRate int
	blockSize  int
	channels   int

	// Callback scratch. The callback is the only writer; normScratch is
	// sized for the active generator's arity under mu.
	mono        []float32
	normScratch []float64

	underflows uint64
	overflows  uint64

	// Rolling window of rendered output for the spectrum diagnostic.
	// Guarded separately so the parameter lock's critical section stays a
	// pointer/vector copy.
	ringMu  sync.Mutex
	ring    []float64
	ringPos int
	fft     *FFT
	fftBuf  []float64
}

// NewEngine opens an output stream on the configured backend and wraps gen
// in an engine. The stream does not run until Start.
func NewEngine(gen Generator, cfg Config) (*Engine, error) {
	drv, err := driverFor(cfg.Backend)
	if err != nil {
		return nil, err
	}
	return NewEngineWithDriver(gen, cfg, drv)
}

// NewEngineWithDriver is NewEngine with an explicit output driver.
func NewEngineWithDriver(gen Generator, cfg Config, drv Driver) (*Engine, error) {
	cfg = cfg.withDefaults()
	ringLen := fftSize
	for ringLen < cfg.BlockSize {
		ringLen <<= 1
	}
	e := &Engine{
		gen:         gen,
		pending:     NormalizeParams(nil, gen.Params(), gen.NumParams()),
		sampleRate:  cfg.SampleRate,
		blockSize:   cfg.BlockSize,
		channels:    cfg.Channels,
		mono:        make([]float32, cfg.BlockSize),
		normScratch: make([]float64, gen.NumParams()),
		ring:        make([]float64, ringLen),
		fftBuf:      make([]float64, ringLen),
		fft:         NewFFT(ringLen),
	}
	stream, err := drv.Open(StreamConfig{
		SampleRate: cfg.SampleRate,
		BlockSize:  cfg.BlockSize,
		Channels:   cfg.Channels,
	}, e.render)
	if err != nil {
		return nil, fmt.Errorf("synth: open stream: %w", err)
	}
	e.stream = stream
	return e, nil
}

// ----- control ----- //

// SetParams replaces the pending normalized parameter vector, padded and
// truncated to the active generator's arity. The callback applies it; the
// generator's own state is never touched here.
func (e *Engine) SetParams(norm []float64) {
	e.mu.Lock()
	e.pending = NormalizeParams(e.pending, norm, e.gen.NumParams())
	e.mu.Unlock()
}

// SetGenerator atomically replaces the active generator and seeds the pending
// vector from the new generator's own parameters, so the callback never
// observes the switch half-applied. The engine takes ownership of gen: it must
// not be shared with another engine or reinstalled while possibly still
// active, since the callback mutates it outside the lock.
func (e *Engine) SetGenerator(gen Generator) {
	e.mu.Lock()
	e.gen = gen
	n := gen.NumParams()
	e.pending = NormalizeParams(e.pending, gen.Params(), n)
	if cap(e.normScratch) < n {
		e.normScratch = make([]float64, n)
	}
	e.mu.Unlock()
}

// Start begins playback. Starting a running engine is a no-op.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.status {
	case statusClosed:
		return ErrClosed
	case statusRunning:
		return nil
	}
	if err := e.stream.Start(); err != nil {
		return fmt.Errorf("synth: start stream: %w", err)
	}
	e.status = statusRunning
	return nil
}

// Stop halts playback at the next block boundary. Stopping a stopped engine
// is a no-op.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.status {
	case statusClosed:
		return ErrClosed
	case statusStopped:
		return nil
	}
	if err := e.stream.Stop(); err != nil {
		return fmt.Errorf("synth: stop stream: %w", err)
	}
	e.status = statusStopped
	return nil
}

// Close releases the stream. The engine is marked closed whether or not the
// release succeeds; the returned error is best-effort status only. Idempotent.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status == statusClosed {
		return nil
	}
	e.status = statusClosed
	if err := e.stream.Close(); err != nil {
		return fmt.Errorf("synth: close stream: %w", err)
	}
	return nil
}

// NumParams returns the active generator's arity.
func (e *Engine) NumParams() int {
	e.mu.Lock()
	gen := e.gen
	e.mu.Unlock()
	return gen.NumParams()
}

// ParamLabels returns the active generator's parameter names.
func (e *Engine) ParamLabels() []string {
	e.mu.Lock()
	gen := e.gen
	e.mu.Unlock()
	return gen.ParamLabels()
}

// Readouts returns the active generator's formatted parameter readouts as of
// the last rendered block. Safe to call from any goroutine while the stream
// runs.
func (e *Engine) Readouts() []string {
	e.mu.Lock()
	gen := e.gen
	e.mu.Unlock()
	e.genMu.Lock()
	defer e.genMu.Unlock()
	return gen.Readouts()
}

// Diagnostics returns the accumulated driver condition counters.
func (e *Engine) Diagnostics() Diagnostics {
	return Diagnostics{
		Underflows: atomic.LoadUint64(&e.underflows),
		Overflows:  atomic.LoadUint64(&e.overflows),
	}
}

// Spectrum returns the magnitude spectrum of the most recently rendered
// window of output, Hann-weighted, as fftSize/2 bins from DC to Nyquist.
// Control thread only; the returned slice is reused across calls.
func (e *Engine) Spectrum() []float64 {
	e.ringMu.Lock()
	n := len(e.ring)
	copy(e.fftBuf, e.ring[e.ringPos:])
	copy(e.fftBuf[n-e.ringPos:], e.ring[:e.ringPos])
	e.ringMu.Unlock()
	Han(e.fftBuf)
	e.fft.CalcAbs(e.fftBuf)
	for i, v := range e.fftBuf {
		e.fftBuf[i] = v * 2 / float64(n)
	}
	return e.fftBuf[:n/2]
}

// ----- audio callback ----- //

// render runs on the driver's realtime context once per block. The lock is
// held only long enough to copy out the generator reference and the pending
// vector; holding it across Generate would risk priority inversion against
// the control thread.
func (e *Engine) render(out []float32, frames int, _ StreamTime, flags StreamFlags) {
	if flags&FlagUnderflow != 0 {
		atomic.AddUint64(&e.underflows, 1)
	}
	if flags&FlagOverflow != 0 {
		atomic.AddUint64(&e.overflows, 1)
	}

	e.mu.Lock()
	gen := e.gen
	norm := e.normScratch[:len(e.pending)]
	copy(norm, e.pending)
	e.mu.Unlock()

	if frames*e.channels > len(out) {
		frames = len(out) / e.channels
	}
	if frames > len(e.mono) {
		// Drivers render fixed-size blocks; this only happens if one
		// requests more than it was opened with.
		e.mono = make([]float32, frames)
	}
	mono := e.mono[:frames]

	e.genMu.Lock()
	gen.SetParams(norm)
	e.genMu.Unlock()
	gen.Generate(mono, e.sampleRate)

	if e.channels == 1 {
		copy(out[:frames], mono)
	} else {
		for i, v := range mono {
			base := i * e.channels
			for c := 0; c < e.channels; c++ {
				out[base+c] = v
			}
		}
	}

	e.ringMu.Lock()
	for _, v := range mono {
		e.ring[e.ringPos] = float64(v)
		e.ringPos++
		if e.ringPos == len(e.ring) {
			e.ringPos = 0
		}
	}
	e.ringMu.Unlock()
}
