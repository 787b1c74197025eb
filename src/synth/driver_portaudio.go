package synth

import (
	"github.com/gordonklaus/portaudio"
)

// PortAudioDriver opens a low-latency callback stream on the default output
// device. This is the default backend; it is the only one that reports real
// driver timestamps and underflow/overflow flags.
type PortAudioDriver struct{}

func (PortAudioDriver) Open(cfg StreamConfig, render RenderFunc) (OutputStream, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	dev, err := portaudio.DefaultOutputDevice()
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	p := portaudio.LowLatencyParameters(nil, dev)
	p.Output.Channels = cfg.Channels
	p.SampleRate = float64(cfg.SampleRate)
	p.FramesPerBuffer = cfg.BlockSize
	stream, err := portaudio.OpenStream(p, func(out []float32, ti portaudio.StreamCallbackTimeInfo, sf portaudio.StreamCallbackFlags) {
		var flags StreamFlags
		if sf&portaudio.OutputUnderflow != 0 {
			flags |= FlagUnderflow
		}
		if sf&portaudio.OutputOverflow != 0 {
			flags |= FlagOverflow
		}
		t := StreamTime{Current: ti.CurrentTime, OutputDAC: ti.OutputBufferDacTime}
		render(out, len(out)/cfg.Channels, t, flags)
	})
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	return &portAudioStream{stream: stream}, nil
}

type portAudioStream struct {
	stream *portaudio.Stream
}

func (s *portAudioStream) Start() error {
	return s.stream.Start()
}

func (s *portAudioStream) Stop() error {
	return s.stream.Stop()
}

func (s *portAudioStream) Close() error {
	err := s.stream.Close()
	if terr := portaudio.Terminate(); err == nil {
		err = terr
	}
	return err
}
