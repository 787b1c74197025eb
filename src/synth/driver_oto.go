package synth

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/hajimehoshi/oto"
)

const bitDepthInBytes = 2

// OtoDriver is an alternative backend built on oto's pull model: a pump
// goroutine renders block by block and writes int16 little-endian frames to
// the player, whose internal buffer provides the pacing. Timing info is
// synthesized from the sample clock; oto reports no underflow flags.
type OtoDriver struct{}

func (OtoDriver) Open(cfg StreamConfig, render RenderFunc) (OutputStream, error) {
	if cfg.Channels > 2 {
		return nil, fmt.Errorf("synth: oto backend supports at most 2 channels, got %d", cfg.Channels)
	}
	samples := cfg.BlockSize * cfg.Channels
	// Keep a few blocks of slack between the pump and the device.
	bufferSizeInBytes := samples * bitDepthInBytes * 4
	ctx, err := oto.NewContext(cfg.SampleRate, cfg.Channels, bitDepthInBytes, bufferSizeInBytes)
	if err != nil {
		return nil, err
	}
	return &otoStream{
		ctx:    ctx,
		cfg:    cfg,
		render: render,
		fbuf:   make([]float32, samples),
		bbuf:   make([]byte, samples*bitDepthInBytes),
	}, nil
}

type otoStream struct {
	ctx    *oto.Context
	cfg    StreamConfig
	render RenderFunc

	fbuf []float32
	bbuf []byte
	pos  int64 // frames rendered since open; pump goroutine only

	mu      sync.Mutex
	player  *oto.Player
	done    chan struct{}
	wg      sync.WaitGroup
	started bool
}

func (s *otoStream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	s.player = s.ctx.NewPlayer()
	s.done = make(chan struct{})
	s.wg.Add(1)
	go s.pump(s.player, s.done)
	s.started = true
	return nil
}

func (s *otoStream) pump(player *oto.Player, done chan struct{}) {
	defer s.wg.Done()
	for {
		select {
		case <-done:
			return
		default:
		}
		t := StreamTime{Current: time.Duration(s.pos * int64(time.Second) / int64(s.cfg.SampleRate))}
		s.render(s.fbuf, s.cfg.BlockSize, t, 0)
		s.pos += int64(s.cfg.BlockSize)
		float32ToInt16LE(s.fbuf, s.bbuf)
		if _, err := player.Write(s.bbuf); err != nil {
			log.Printf("oto write ended: %v", err)
			return
		}
	}
}

func (s *otoStream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil
	}
	close(s.done)
	// Closing the player unblocks a pump stuck in Write.
	err := s.player.Close()
	s.wg.Wait()
	s.player = nil
	s.started = false
	return err
}

func (s *otoStream) Close() error {
	err := s.Stop()
	if cerr := s.ctx.Close(); err == nil {
		err = cerr
	}
	return err
}

func float32ToInt16LE(src []float32, dst []byte) {
	const max = 32767
	for i, v := range src {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		b := int16(v * max)
		dst[2*i] = byte(b)
		dst[2*i+1] = byte(b >> 8)
	}
}
