package audio

import (
	"fmt"
	"strings"

	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"

	"github.com/handiism/music-manager/internal/model"
)

// vorbisKeys maps record fields to Vorbis comment keys. Multi-valued fields
// are stored as repeated keys.
var vorbisKeys = map[string]string{
	"Album":        flacvorbis.FIELD_ALBUM,
	"AlbumSort":    "ALBUMSORT",
	"Title":        flacvorbis.FIELD_TITLE,
	"TitleSort":    "TITLESORT",
	"Artists":      flacvorbis.FIELD_ARTIST,
	"Performers":   flacvorbis.FIELD_PERFORMER,
	"AlbumArtists": "ALBUMARTIST",
	"Composers":    "COMPOSER",
	"Genre":        flacvorbis.FIELD_GENRE,
	"Comment":      "COMMENT",
	"Copyright":    flacvorbis.FIELD_COPYRIGHT,
	"Conductor":    "CONDUCTOR",
	"Grouping":     "GROUPING",
	"Lyrics":       "LYRICS",
}

// flacBackend reads and writes Vorbis comments in FLAC files.
type flacBackend struct{}

func (flacBackend) name() string { return "FLAC" }

func (flacBackend) writable() bool { return true }

func (b flacBackend) read(path string) (*model.Record, error) {
	f, err := parseFLAC(path)
	if err != nil {
		return nil, err
	}

	cmts, _, err := vorbisBlock(f)
	if err != nil {
		return nil, err
	}
	comments := vorbisValues(cmts)

	rec := &model.Record{Path: path, Format: b.name()}
	for field, key := range vorbisKeys {
		fld, _ := model.LookupField(field)
		if fld.Kind == model.ListField {
			fld.Set(rec, model.List(comments[key]...))
		} else if values := comments[key]; len(values) > 0 {
			fld.Set(rec, model.Text(values[0]))
		}
	}

	rec.Year = leadingInt(first(comments[flacvorbis.FIELD_DATE]))
	rec.Track, rec.TrackCount = parsePosition(first(comments[flacvorbis.FIELD_TRACKNUMBER]))
	if total := leadingInt(first(comments["TRACKTOTAL"])); total > 0 {
		rec.TrackCount = total
	}
	rec.Disc, rec.DiscCount = parsePosition(first(comments["DISCNUMBER"]))
	if total := leadingInt(first(comments["DISCTOTAL"])); total > 0 {
		rec.DiscCount = total
	}

	return rec, nil
}

// write rewrites the comments of the given fields and saves the file. Other
// comments, and every other metadata block, are kept as they were.
func (b flacBackend) write(rec *model.Record, fields []string) error {
	f, err := parseFLAC(rec.Path)
	if err != nil {
		return err
	}

	cmts, idx, err := vorbisBlock(f)
	if err != nil {
		return err
	}

	for _, name := range fields {
		key, ok := vorbisKeys[name]
		if !ok {
			return fmt.Errorf("%w: field %s in %s", ErrReadOnlyFormat, name, b.name())
		}
		fld, err := model.LookupField(name)
		if err != nil {
			return err
		}

		kept := cmts.Comments[:0:0]
		for _, c := range cmts.Comments {
			k, _, _ := strings.Cut(c, "=")
			if !strings.EqualFold(k, key) {
				kept = append(kept, c)
			}
		}
		for _, v := range nonEmpty(fld.Get(rec).Items()) {
			kept = append(kept, key+"="+v)
		}
		cmts.Comments = kept
	}

	block := cmts.Marshal()
	if idx >= 0 {
		f.Meta[idx] = &block
	} else {
		f.Meta = append(f.Meta, &block)
	}

	if err := f.Save(rec.Path); err != nil {
		return fmt.Errorf("save flac: %w", err)
	}
	return nil
}

// parseFLAC parses the file at path. go-flac panics on streams that end
// right after the metadata blocks, so the panic is turned into ErrCorruptFile.
func parseFLAC(path string) (f *flac.File, err error) {
	defer func() {
		if r := recover(); r != nil {
			f, err = nil, fmt.Errorf("parse flac: %w: %v", ErrCorruptFile, r)
		}
	}()

	f, err = flac.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse flac: %w", err)
	}
	return f, nil
}

// vorbisBlock returns the parsed Vorbis comment block of f and its index, or
// a new block and -1 when the file has none.
func vorbisBlock(f *flac.File) (*flacvorbis.MetaDataBlockVorbisComment, int, error) {
	for idx, meta := range f.Meta {
		if meta.Type == flac.VorbisComment {
			cmts, err := flacvorbis.ParseFromMetaDataBlock(*meta)
			if err != nil {
				return nil, -1, fmt.Errorf("parse vorbis comment: %w", err)
			}
			return cmts, idx, nil
		}
	}
	return flacvorbis.New(), -1, nil
}

// vorbisValues groups comments by upper-cased key, keeping their order.
func vorbisValues(cmts *flacvorbis.MetaDataBlockVorbisComment) map[string][]string {
	out := make(map[string][]string)
	for _, c := range cmts.Comments {
		k, v, ok := strings.Cut(c, "=")
		if !ok {
			continue
		}
		k = strings.ToUpper(k)
		out[k] = append(out[k], v)
	}
	return out
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
