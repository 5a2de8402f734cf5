// Package audio reads and writes audio file tags and decodes PCM audio.
//
// # Tag storage
//
// Store maps a file to a model.Record and writes changed fields back:
//
//	store := audio.NewStore()
//	rec, err := store.Read(path)
//	if err != nil {
//	    return err
//	}
//	rec.Album = strings.TrimSuffix(rec.Album, " (Disc 1)")
//	err = store.Write(rec)
//
// MP3 files use ID3v2 frames and FLAC files use Vorbis comments; both can be
// written. Other containers (M4A, OGG, WAV, ...) are read through a generic
// tag reader and are read-only. Only fields reported by Record.Modified are
// written, so frames the record does not model survive a write.
//
// Multi-valued fields map to NUL-separated ID3v2.4 text frames and to
// repeated Vorbis comment keys.
//
// # Decoding
//
// Decoder streams 16-bit PCM samples to a Consumer:
//
//	d, err := audio.OpenWAV(path)
//	if err != nil {
//	    return err
//	}
//	defer d.Close()
//
//	var stats audio.SampleStats
//	err = d.Decode(ctx, &stats, 2*time.Minute)
//
// # Signatures
//
// Signer is the boundary for acoustic fingerprinting. UnavailableSigner is
// the only implementation and reports ErrSignatureUnavailable.
package audio
