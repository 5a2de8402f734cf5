package audio

import (
	"errors"
	"fmt"
	"os"

	"github.com/dhowden/tag"

	"github.com/handiism/music-manager/internal/model"
)

// genericBackend reads tags of any container dhowden/tag understands.
// It cannot write.
type genericBackend struct {
	format string
}

func (b genericBackend) name() string { return b.format }

func (genericBackend) writable() bool { return false }

func (b genericBackend) read(path string) (*model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rec := &model.Record{Path: path, Format: b.format}

	m, err := tag.ReadFrom(f)
	if errors.Is(err, tag.ErrNoTagsFound) {
		return rec, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tags: %w", err)
	}

	rec.Album = m.Album()
	rec.Title = m.Title()
	rec.Genre = m.Genre()
	rec.Comment = m.Comment()
	rec.Lyrics = m.Lyrics()
	rec.Artists = splitValues(m.Artist(), id3Separator)
	rec.AlbumArtists = splitValues(m.AlbumArtist(), id3Separator)
	rec.Composers = splitValues(m.Composer(), id3Separator)
	rec.Year = m.Year()
	rec.Track, rec.TrackCount = m.Track()
	rec.Disc, rec.DiscCount = m.Disc()

	return rec, nil
}

func (b genericBackend) write(*model.Record, []string) error {
	return fmt.Errorf("%w: %s", ErrReadOnlyFormat, b.format)
}

// Picture is an embedded cover image.
type Picture struct {
	MIMEType string
	Ext      string
	Data     []byte
}

// readPicture returns the cover image embedded in path, or nil when there is none.
func readPicture(path string) (*Picture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if errors.Is(err, tag.ErrNoTagsFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tags: %w", err)
	}

	p := m.Picture()
	if p == nil || len(p.Data) == 0 {
		return nil, nil
	}
	return &Picture{MIMEType: p.MIMEType, Ext: p.Ext, Data: p.Data}, nil
}
