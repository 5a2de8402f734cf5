package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/handiism/music-manager/internal/audio"
)

// signatureLength is how much audio a signature is computed from.
const signatureLength = 120 * time.Second

func newSignatureCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "signature <file.wav>",
		Short:       "Decode a WAV file and compute its acoustic signature",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := audio.OpenWAV(args[0])
			if err != nil {
				return err
			}
			defer d.Close()

			out := cmd.OutOrStdout()
			f := d.Format()
			fmt.Fprintf(out, "Format: %d Hz, %d channel(s), %d-bit\n", f.SampleRate, f.Channels, f.BitDepth)

			var stats audio.SampleStats
			if err := d.Decode(cmd.Context(), &stats, signatureLength); err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}
			fmt.Fprintf(out, "Decoded %d samples, peak %d\n", stats.Samples, stats.Peak)

			sig, err := audio.UnavailableSigner{}.Sign(cmd.Context(), d)
			if errors.Is(err, audio.ErrSignatureUnavailable) {
				fmt.Fprintln(out, "Signature: unavailable (no fingerprint backend is built in)")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "Signature:", sig)
			return nil
		},
	}
}
