package audio

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bogem/id3v2"

	"github.com/handiism/music-manager/internal/model"
)

// id3Separator joins the values of a multi-valued text frame (ID3v2.4).
const id3Separator = "\x00"

// performerDescription is the TXXX description holding performers.
const performerDescription = "PERFORMER"

// id3Frames maps scalar fields to the text frame that stores them.
var id3Frames = map[string]string{
	"Album":     "TALB",
	"AlbumSort": "TSOA",
	"Title":     "TIT2",
	"TitleSort": "TSOT",
	"Genre":     "TCON",
	"Copyright": "TCOP",
	"Conductor": "TPE3",
	"Grouping":  "TIT1",
}

// id3ListFrames maps multi-valued fields to their text frame.
var id3ListFrames = map[string]string{
	"Artists":      "TPE1",
	"AlbumArtists": "TPE2",
	"Composers":    "TCOM",
}

// id3Backend reads and writes ID3v2 tags in MP3 files.
type id3Backend struct{}

func (id3Backend) name() string { return "MP3" }

func (id3Backend) writable() bool { return true }

func (b id3Backend) read(path string) (*model.Record, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("open id3 tag: %w", err)
	}
	defer tag.Close()

	rec := &model.Record{Path: path, Format: b.name()}
	for field, id := range id3Frames {
		f, _ := model.LookupField(field)
		f.Set(rec, model.Text(textFrame(tag, id)))
	}
	for field, id := range id3ListFrames {
		f, _ := model.LookupField(field)
		f.Set(rec, model.List(splitValues(textFrame(tag, id), id3Separator)...))
	}
	rec.Performers = splitValues(userText(tag, performerDescription), id3Separator)

	if frames := tag.GetFrames("COMM"); len(frames) > 0 {
		if cf, ok := frames[0].(id3v2.CommentFrame); ok {
			rec.Comment = cf.Text
		}
	}
	if frames := tag.GetFrames("USLT"); len(frames) > 0 {
		if lf, ok := frames[0].(id3v2.UnsynchronisedLyricsFrame); ok {
			rec.Lyrics = lf.Lyrics
		}
	}

	year := textFrame(tag, "TYER")
	if year == "" {
		year = textFrame(tag, "TDRC")
	}
	rec.Year = leadingInt(year)
	rec.Track, rec.TrackCount = parsePosition(textFrame(tag, "TRCK"))
	rec.Disc, rec.DiscCount = parsePosition(textFrame(tag, "TPOS"))

	return rec, nil
}

// write updates the frames of the given fields and saves the tag.
//
// Fields with more than one value are joined with NUL separators, which
// requires ID3v2.4, so the tag version is raised when needed.
func (b id3Backend) write(rec *model.Record, fields []string) error {
	tag, err := id3v2.Open(rec.Path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open id3 tag: %w", err)
	}
	defer tag.Close()

	for _, name := range fields {
		f, err := model.LookupField(name)
		if err != nil {
			return err
		}
		v := f.Get(rec)

		if id, ok := id3Frames[name]; ok {
			setTextFrame(tag, id, v.Scalar())
			continue
		}
		if id, ok := id3ListFrames[name]; ok {
			items := nonEmpty(v.Items())
			if len(items) > 1 {
				tag.SetVersion(4)
			}
			setTextFrame(tag, id, strings.Join(items, id3Separator))
			continue
		}

		switch name {
		case "Performers":
			items := nonEmpty(v.Items())
			if len(items) > 1 {
				tag.SetVersion(4)
			}
			setUserText(tag, performerDescription, strings.Join(items, id3Separator))
		case "Comment":
			tag.DeleteFrames("COMM")
			if s := v.Scalar(); s != "" {
				tag.AddCommentFrame(id3v2.CommentFrame{
					Encoding: id3v2.EncodingUTF8,
					Language: "eng",
					Text:     s,
				})
			}
		case "Lyrics":
			tag.DeleteFrames("USLT")
			if s := v.Scalar(); s != "" {
				tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
					Encoding: id3v2.EncodingUTF8,
					Language: "eng",
					Lyrics:   s,
				})
			}
		default:
			return fmt.Errorf("%w: field %s in %s", ErrReadOnlyFormat, name, b.name())
		}
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save id3 tag: %w", err)
	}
	return nil
}

func textFrame(tag *id3v2.Tag, id string) string {
	tf := tag.GetTextFrame(id)
	return strings.TrimRight(tf.Text, id3Separator)
}

func setTextFrame(tag *id3v2.Tag, id, text string) {
	if text == "" {
		tag.DeleteFrames(id)
		return
	}
	tag.AddTextFrame(id, id3v2.EncodingUTF8, text)
}

func userText(tag *id3v2.Tag, description string) string {
	for _, f := range tag.GetFrames("TXXX") {
		udtf, ok := f.(id3v2.UserDefinedTextFrame)
		if ok && strings.EqualFold(udtf.Description, description) {
			return strings.TrimRight(udtf.Value, id3Separator)
		}
	}
	return ""
}

// setUserText replaces the TXXX frame with the given description and keeps
// the others.
func setUserText(tag *id3v2.Tag, description, value string) {
	var keep []id3v2.UserDefinedTextFrame
	for _, f := range tag.GetFrames("TXXX") {
		udtf, ok := f.(id3v2.UserDefinedTextFrame)
		if ok && !strings.EqualFold(udtf.Description, description) {
			keep = append(keep, udtf)
		}
	}
	tag.DeleteFrames("TXXX")
	for _, udtf := range keep {
		tag.AddUserDefinedTextFrame(udtf)
	}
	if value != "" {
		tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
			Encoding:    id3v2.EncodingUTF8,
			Description: description,
			Value:       value,
		})
	}
}

func splitValues(s, sep string) []string {
	if s == "" {
		return nil
	}
	return nonEmpty(strings.Split(s, sep))
}

func nonEmpty(items []string) []string {
	var out []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parsePosition reads "3" or "3/12" style track and disc numbers.
func parsePosition(s string) (n, total int) {
	num, of, _ := strings.Cut(strings.TrimSpace(s), "/")
	return leadingInt(num), leadingInt(of)
}

func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, _ := strconv.Atoi(s[:end])
	return n
}
