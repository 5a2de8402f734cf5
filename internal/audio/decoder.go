package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Consumer receives decoded PCM samples, interleaved by channel. The slice
// is reused between calls and must not be retained.
type Consumer interface {
	Consume(samples []int16) error
}

// ConsumerFunc adapts a function to Consumer.
type ConsumerFunc func(samples []int16) error

// Consume calls f(samples).
func (f ConsumerFunc) Consume(samples []int16) error {
	return f(samples)
}

// Format describes a PCM stream.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// Decoder pushes the PCM samples of an audio file to a Consumer.
type Decoder interface {
	// Format returns the stream format of the source.
	Format() Format

	// Decode delivers up to maxLength of audio as 16-bit samples. A zero
	// maxLength decodes the whole stream.
	Decode(ctx context.Context, c Consumer, maxLength time.Duration) error

	Close() error
}

const decodeBatch = 4096

// WAVDecoder decodes PCM WAV files.
type WAVDecoder struct {
	file   *os.File
	dec    *wav.Decoder
	format Format
}

// OpenWAV opens a WAV file for decoding.
func OpenWAV(path string) (*WAVDecoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is not a valid wav file", ErrUnsupportedFormat, path)
	}

	return &WAVDecoder{
		file: f,
		dec:  dec,
		format: Format{
			SampleRate: int(dec.SampleRate),
			Channels:   int(dec.NumChans),
			BitDepth:   int(dec.BitDepth),
		},
	}, nil
}

// Format implements Decoder.
func (d *WAVDecoder) Format() Format {
	return d.format
}

// Decode implements Decoder. Samples of other bit depths are scaled to 16 bits.
func (d *WAVDecoder) Decode(ctx context.Context, c Consumer, maxLength time.Duration) error {
	remaining := -1
	if maxLength > 0 {
		frames := int(maxLength.Seconds() * float64(d.format.SampleRate))
		remaining = frames * d.format.Channels
	}

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{NumChannels: d.format.Channels, SampleRate: d.format.SampleRate},
		Data:   make([]int, decodeBatch),
	}
	out := make([]int16, decodeBatch)

	for remaining != 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := d.dec.PCMBuffer(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("decode wav: %w", err)
		}
		if n == 0 {
			return nil
		}
		if remaining > 0 && n > remaining {
			n = remaining
		}

		for i := 0; i < n; i++ {
			out[i] = to16(buf.Data[i], d.format.BitDepth)
		}
		if err := c.Consume(out[:n]); err != nil {
			return err
		}
		if remaining > 0 {
			remaining -= n
		}
	}
	return nil
}

// Close releases the file.
func (d *WAVDecoder) Close() error {
	return d.file.Close()
}

func to16(v, bitDepth int) int16 {
	switch bitDepth {
	case 8:
		return int16((v - 128) << 8)
	case 24:
		return int16(v >> 8)
	case 32:
		return int16(v >> 16)
	default:
		return int16(v)
	}
}
