package audio

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/handiism/music-manager/internal/model"
)

var (
	// ErrUnsupportedFormat is returned for files whose extension has no backend.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrReadOnlyFormat is returned when writing tags to a format that can
	// only be read.
	ErrReadOnlyFormat = errors.New("tags of this format cannot be written")

	// ErrCorruptFile is returned when a file's structure cannot be parsed.
	ErrCorruptFile = errors.New("corrupt audio file")
)

type backend interface {
	name() string
	writable() bool
	read(path string) (*model.Record, error)
	write(rec *model.Record, fields []string) error
}

// Store reads tag records from audio files and writes modified fields back.
//
// The backend is chosen by file extension:
//   - .mp3: ID3v2 frames (read and write)
//   - .flac: Vorbis comments (read and write)
//   - .m4a, .m4b, .ogg, .aifc, .aiff, .wav, .wma, .dsf: read only
//
// Example:
//
//	store := audio.NewStore()
//	rec, err := store.Read("/music/Artist/Album/01 Song.mp3")
//	if err != nil {
//	    return err
//	}
//	rec.Album = "Album"
//	err = store.Write(rec) // writes TALB only
type Store struct {
	backends map[string]backend
}

// NewStore creates a Store with every supported backend.
func NewStore() *Store {
	return &Store{backends: map[string]backend{
		".mp3":  id3Backend{},
		".flac": flacBackend{},
		".m4a":  genericBackend{format: "M4A"},
		".m4b":  genericBackend{format: "M4B"},
		".ogg":  genericBackend{format: "OGG"},
		".opus": genericBackend{format: "OPUS"},
		".aifc": genericBackend{format: "AIFC"},
		".aiff": genericBackend{format: "AIFF"},
		".wav":  genericBackend{format: "WAV"},
		".wma":  genericBackend{format: "WMA"},
		".dsf":  genericBackend{format: "DSF"},
	}}
}

// Extensions returns the supported extensions, lower-cased, with the dot.
func (s *Store) Extensions() []string {
	exts := make([]string, 0, len(s.backends))
	for ext := range s.backends {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Supports reports whether path has a supported extension.
func (s *Store) Supports(path string) bool {
	_, ok := s.backends[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Writable reports whether tags of path can be written.
func (s *Store) Writable(path string) bool {
	b, ok := s.backends[strings.ToLower(filepath.Ext(path))]
	return ok && b.writable()
}

// Read loads the tag record of path. The returned record has a clean
// baseline, so Modified reports only later changes.
func (s *Store) Read(path string) (*model.Record, error) {
	b, err := s.backend(path)
	if err != nil {
		return nil, err
	}
	rec, err := b.read(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	rec.MarkClean()
	return rec, nil
}

// Write saves the modified fields of rec to rec.Path. An unmodified record is
// not written. After a successful write the record is clean again.
func (s *Store) Write(rec *model.Record) error {
	fields := rec.Modified()
	if len(fields) == 0 {
		return nil
	}
	b, err := s.backend(rec.Path)
	if err != nil {
		return err
	}
	if !b.writable() {
		return fmt.Errorf("%w: %s", ErrReadOnlyFormat, b.name())
	}
	if err := b.write(rec, fields); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(rec.Path), err)
	}
	rec.MarkClean()
	return nil
}

// Picture returns the front cover embedded in path, or nil when the file has
// none.
func (s *Store) Picture(path string) (*Picture, error) {
	if _, err := s.backend(path); err != nil {
		return nil, err
	}
	return readPicture(path)
}

func (s *Store) backend(path string) (backend, error) {
	b, ok := s.backends[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	return b, nil
}
