package audio

import (
	"context"
	"errors"
	"math"
)

// ErrSignatureUnavailable is returned by signers that cannot compute an
// audio signature.
var ErrSignatureUnavailable = errors.New("audio signature is not available")

// Signer computes an acoustic signature from decoded audio.
type Signer interface {
	Sign(ctx context.Context, d Decoder) (string, error)
}

// UnavailableSigner is the Signer used when no fingerprinting backend is
// configured. It always fails with ErrSignatureUnavailable.
type UnavailableSigner struct{}

// Sign implements Signer.
func (UnavailableSigner) Sign(context.Context, Decoder) (string, error) {
	return "", ErrSignatureUnavailable
}

// SampleStats is a Consumer that counts samples and tracks the peak level.
type SampleStats struct {
	Samples int
	Peak    int16
}

// Consume implements Consumer.
func (s *SampleStats) Consume(samples []int16) error {
	s.Samples += len(samples)
	for _, v := range samples {
		switch {
		case v == math.MinInt16:
			v = math.MaxInt16
		case v < 0:
			v = -v
		}
		if v > s.Peak {
			s.Peak = v
		}
	}
	return nil
}
