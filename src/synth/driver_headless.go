package synth

import "time"

// HeadlessDriver renders without audio hardware. Nothing pulls blocks on its
// own; callers advance the stream explicitly with Pump. Used by tests and by
// deployments that only want the engine's diagnostics.
type HeadlessDriver struct {
	// Stream is the most recently opened stream.
	Stream *HeadlessStream
}

func (d *HeadlessDriver) Open(cfg StreamConfig, render RenderFunc) (OutputStream, error) {
	s := &HeadlessStream{
		cfg:    cfg,
		render: render,
		buf:    make([]float32, cfg.BlockSize*cfg.Channels),
	}
	d.Stream = s
	return s, nil
}

// HeadlessStream is the no-op output stream of HeadlessDriver.
type HeadlessStream struct {
	cfg     StreamConfig
	render  RenderFunc
	buf     []float32
	frames  int64
	started bool
}

func (s *HeadlessStream) Start() error {
	s.started = true
	return nil
}

func (s *HeadlessStream) Stop() error {
	s.started = false
	return nil
}

func (s *HeadlessStream) Close() error {
	s.started = false
	return nil
}

// Pump renders n consecutive blocks into the stream's buffer.
func (s *HeadlessStream) Pump(n int) {
	for i := 0; i < n; i++ {
		s.PumpWithFlags(0)
	}
}

// PumpWithFlags renders one block, passing flags through to the engine as if
// the driver had reported them.
func (s *HeadlessStream) PumpWithFlags(flags StreamFlags) {
	t := StreamTime{Current: time.Duration(s.frames * int64(time.Second) / int64(s.cfg.SampleRate))}
	s.render(s.buf, s.cfg.BlockSize, t, flags)
	s.frames += int64(s.cfg.BlockSize)
}

// Buffer returns the most recently rendered interleaved block.
func (s *HeadlessStream) Buffer() []float32 {
	return s.buf
}
