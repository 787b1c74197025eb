package synth

import (
	"fmt"
	"time"
)

// StreamConfig describes the output stream a driver should open.
type StreamConfig struct {
	SampleRate int
	BlockSize  int // frames per render call
	Channels   int
}

// StreamTime carries the driver's clock readings for one render call.
// Drivers without real timestamps synthesize Current from the sample clock
// and leave OutputDAC zero.
type StreamTime struct {
	Current   time.Duration
	OutputDAC time.Duration
}

// StreamFlags reports driver-side conditions for one render call.
type StreamFlags uint32

const (
	// FlagUnderflow means the driver needed a block before the engine
	// supplied one; the result is an audible glitch, not a crash.
	FlagUnderflow StreamFlags = 1 << iota
	// FlagOverflow means the driver discarded rendered output because its
	// buffer had no room for it.
	FlagOverflow
)

// RenderFunc fills out with frames*channels interleaved float32 samples.
// It runs on the driver's realtime execution context once per block.
type RenderFunc func(out []float32, frames int, t StreamTime, flags StreamFlags)

// OutputStream is an opened audio output. Start and Stop are idempotent at
// the engine level; Close releases the underlying device.
type OutputStream interface {
	Start() error
	Stop() error
	Close() error
}

// Driver opens output streams against one audio backend.
type Driver interface {
	Open(cfg StreamConfig, render RenderFunc) (OutputStream, error)
}

func driverFor(backend string) (Driver, error) {
	switch backend {
	case "", "portaudio":
		return PortAudioDriver{}, nil
	case "oto":
		return OtoDriver{}, nil
	case "headless":
		return &HeadlessDriver{}, nil
	}
	return nil, fmt.Errorf("synth: unknown audio backend %q", backend)
}
