package model

// Record holds the tag metadata of one audio file.
//
// String fields are scalar tags; slice fields are multi-valued tags whose
// order is preserved from the file. Numeric fields (Year, Track, Disc and
// their totals) are carried for export but cannot be addressed by rules.
//
// A Record is created by the tag storage from one file, mutated in place by
// the rule runner, and written back by the storage. The storage calls
// MarkClean after loading so that Modified reports only the fields changed
// afterwards.
//
// Example:
//
//	rec := &model.Record{Album: "Abbey Road (Disc 1)", Artists: []string{"The Beatles"}}
//	rec.MarkClean()
//	rec.Album = "Abbey Road"
//	fmt.Println(rec.Modified()) // [Album]
type Record struct {
	// Path is the file the record was read from.
	Path string `json:"-"`

	// Format is the container format, as reported by the storage ("MP3", "FLAC", ...).
	Format string `json:"-"`

	Album     string `json:"Album,omitempty"`
	AlbumSort string `json:"AlbumSort,omitempty"`
	Title     string `json:"Title,omitempty"`
	TitleSort string `json:"TitleSort,omitempty"`

	Artists      []string `json:"Artists,omitempty"`
	Performers   []string `json:"Performers,omitempty"`
	AlbumArtists []string `json:"AlbumArtists,omitempty"`
	Composers    []string `json:"Composers,omitempty"`

	Genre     string `json:"Genre,omitempty"`
	Comment   string `json:"Comment,omitempty"`
	Copyright string `json:"Copyright,omitempty"`
	Conductor string `json:"Conductor,omitempty"`
	Grouping  string `json:"Grouping,omitempty"`
	Lyrics    string `json:"Lyrics,omitempty"`

	Year       int `json:"Year,omitempty"`
	Track      int `json:"Track,omitempty"`
	TrackCount int `json:"TrackCount,omitempty"`
	Disc       int `json:"Disc,omitempty"`
	DiscCount  int `json:"DiscCount,omitempty"`

	clean map[string]Value
}

// MarkClean records the current field values as the baseline for Modified.
func (r *Record) MarkClean() {
	r.clean = make(map[string]Value, len(registry))
	for _, f := range registry {
		r.clean[f.Name] = f.Get(r)
	}
}

// Modified returns the names of the fields whose values differ from the
// baseline set by MarkClean, in registry order. Without a baseline every
// non-empty field counts as modified.
func (r *Record) Modified() []string {
	var names []string
	for _, f := range registry {
		current := f.Get(r)
		if r.clean == nil {
			if !current.IsEmpty() {
				names = append(names, f.Name)
			}
			continue
		}
		if !current.Equal(r.clean[f.Name]) {
			names = append(names, f.Name)
		}
	}
	return names
}

// IsModified reports whether any field differs from the baseline.
func (r *Record) IsModified() bool {
	return len(r.Modified()) > 0
}

// Clone returns a deep copy of r, including its baseline.
func (r *Record) Clone() *Record {
	cp := *r
	cp.Artists = cloneStrings(r.Artists)
	cp.Performers = cloneStrings(r.Performers)
	cp.AlbumArtists = cloneStrings(r.AlbumArtists)
	cp.Composers = cloneStrings(r.Composers)
	if r.clean != nil {
		cp.clean = make(map[string]Value, len(r.clean))
		for k, v := range r.clean {
			cp.clean[k] = v
		}
	}
	return &cp
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	cp := make([]string, len(s))
	copy(cp, s)
	return cp
}
