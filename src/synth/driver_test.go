package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat32ToInt16LE(t *testing.T) {
	src := []float32{0, 1, -1, 0.5, 2, -2}
	dst := make([]byte, len(src)*2)
	float32ToInt16LE(src, dst)

	decode := func(i int) int16 {
		return int16(uint16(dst[2*i]) | uint16(dst[2*i+1])<<8)
	}
	assert.Equal(t, int16(0), decode(0))
	assert.Equal(t, int16(32767), decode(1))
	assert.Equal(t, int16(-32767), decode(2))
	assert.Equal(t, int16(16383), decode(3))
	// Out-of-range input clamps instead of wrapping.
	assert.Equal(t, int16(32767), decode(4))
	assert.Equal(t, int16(-32767), decode(5))
}

func TestDriverFor(t *testing.T) {
	for _, name := range []string{"", "portaudio", "oto", "headless"} {
		_, err := driverFor(name)
		assert.NoError(t, err, name)
	}
	_, err := driverFor("jack")
	assert.Error(t, err)
}

func TestHeadlessStreamClock(t *testing.T) {
	drv := &HeadlessDriver{}
	var frames []int
	var times []int64
	stream, err := drv.Open(StreamConfig{SampleRate: 48000, BlockSize: 128, Channels: 1},
		func(out []float32, n int, tm StreamTime, flags StreamFlags) {
			frames = append(frames, n)
			times = append(times, int64(tm.Current))
		})
	require.NoError(t, err)
	require.NoError(t, stream.Start())
	drv.Stream.Pump(3)
	require.NoError(t, stream.Close())

	assert.Equal(t, []int{128, 128, 128}, frames)
	// The clock advances by one block period per call.
	require.Len(t, times, 3)
	assert.Equal(t, int64(0), times[0])
	assert.Greater(t, times[1], times[0])
	assert.Equal(t, times[1]-times[0], times[2]-times[1])
}

func TestOtoDriverRejectsTooManyChannels(t *testing.T) {
	_, err := OtoDriver{}.Open(StreamConfig{SampleRate: 48000, BlockSize: 128, Channels: 4}, nil)
	assert.Error(t, err)
}
