package audio

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeWAV writes a mono 16-bit 440 Hz tone.
func writeWAV(t *testing.T, path string, sampleRate, seconds int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	data := make([]int, sampleRate*seconds)
	for i := range data {
		data[i] = int(10000 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate)))
	}

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	require.NoError(t, enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
}

func openTone(t *testing.T) *WAVDecoder {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeWAV(t, path, 8000, 1)

	d, err := OpenWAV(path)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestWAVDecoder_Format(t *testing.T) {
	d := openTone(t)
	assert.Equal(t, Format{SampleRate: 8000, Channels: 1, BitDepth: 16}, d.Format())
}

func TestWAVDecoder_DecodeAll(t *testing.T) {
	d := openTone(t)

	var stats SampleStats
	require.NoError(t, d.Decode(context.Background(), &stats, 0))

	assert.Equal(t, 8000, stats.Samples)
	assert.InDelta(t, 10000, int(stats.Peak), 5)
}

func TestWAVDecoder_MaxLength(t *testing.T) {
	d := openTone(t)

	var stats SampleStats
	require.NoError(t, d.Decode(context.Background(), &stats, 500*time.Millisecond))
	assert.Equal(t, 4000, stats.Samples)
}

func TestWAVDecoder_ConsumerError(t *testing.T) {
	d := openTone(t)
	stop := errors.New("stop")

	err := d.Decode(context.Background(), ConsumerFunc(func([]int16) error { return stop }), 0)
	assert.ErrorIs(t, err, stop)
}

func TestWAVDecoder_Cancelled(t *testing.T) {
	d := openTone(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stats SampleStats
	assert.ErrorIs(t, d.Decode(ctx, &stats, 0), context.Canceled)
	assert.Zero(t, stats.Samples)
}

func TestOpenWAV_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not RIFF"), 0644))

	_, err := OpenWAV(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestTo16(t *testing.T) {
	tests := []struct {
		v, depth int
		want     int16
	}{
		{128, 8, 0},
		{255, 8, 127 << 8},
		{-1000, 16, -1000},
		{1 << 20, 24, 1 << 12},
		{1 << 30, 32, 1 << 14},
	}

	for _, tt := range tests {
		if got := to16(tt.v, tt.depth); got != tt.want {
			t.Errorf("to16(%d, %d) = %d, want %d", tt.v, tt.depth, got, tt.want)
		}
	}
}

func TestUnavailableSigner(t *testing.T) {
	d := openTone(t)
	_, err := UnavailableSigner{}.Sign(context.Background(), d)
	assert.ErrorIs(t, err, ErrSignatureUnavailable)
}
