package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFieldNotFound is returned when a subject or property reference does not
// name a registered field.
var ErrFieldNotFound = errors.New("field not found")

// FieldKind tells whether a field is scalar or multi-valued.
type FieldKind int

const (
	// ScalarField holds a single string.
	ScalarField FieldKind = iota

	// ListField holds an ordered sequence of strings.
	ListField
)

func (k FieldKind) String() string {
	if k == ListField {
		return "list"
	}
	return "scalar"
}

// Field is a typed accessor for one rule-addressable tag field.
type Field struct {
	// Name is the field token used in rule subjects ("Album", "Artists").
	Name string

	// Kind is the multiplicity of the field.
	Kind FieldKind

	text func(*Record) *string
	list func(*Record) *[]string
}

// Get reads the field from r. List fields always yield a sequence, never nil.
func (f Field) Get(r *Record) Value {
	if f.Kind == ListField {
		return List(*f.list(r)...)
	}
	return Text(*f.text(r))
}

// Set writes v into r, converting the multiplicity to the field's kind:
// a sequence written to a scalar field keeps its scalar view, and a scalar
// written to a list field becomes a one-element sequence (or an empty one
// when the text is empty).
func (f Field) Set(r *Record, v Value) {
	if f.Kind == ListField {
		var items []string
		if v.IsList() {
			items = v.Items()
		} else if s := v.Scalar(); s != "" {
			items = []string{s}
		}
		*f.list(r) = items
		return
	}
	*f.text(r) = v.Scalar()
}

func scalar(name string, at func(*Record) *string) Field {
	return Field{Name: name, Kind: ScalarField, text: at}
}

func list(name string, at func(*Record) *[]string) Field {
	return Field{Name: name, Kind: ListField, list: at}
}

var registry = []Field{
	scalar("Album", func(r *Record) *string { return &r.Album }),
	scalar("AlbumSort", func(r *Record) *string { return &r.AlbumSort }),
	scalar("Title", func(r *Record) *string { return &r.Title }),
	scalar("TitleSort", func(r *Record) *string { return &r.TitleSort }),
	list("Artists", func(r *Record) *[]string { return &r.Artists }),
	list("Performers", func(r *Record) *[]string { return &r.Performers }),
	list("AlbumArtists", func(r *Record) *[]string { return &r.AlbumArtists }),
	list("Composers", func(r *Record) *[]string { return &r.Composers }),
	scalar("Genre", func(r *Record) *string { return &r.Genre }),
	scalar("Comment", func(r *Record) *string { return &r.Comment }),
	scalar("Copyright", func(r *Record) *string { return &r.Copyright }),
	scalar("Conductor", func(r *Record) *string { return &r.Conductor }),
	scalar("Grouping", func(r *Record) *string { return &r.Grouping }),
	scalar("Lyrics", func(r *Record) *string { return &r.Lyrics }),
}

var byName = func() map[string]Field {
	m := make(map[string]Field, len(registry))
	for _, f := range registry {
		m[f.Name] = f
	}
	return m
}()

// Fields returns the registered fields in their canonical order.
func Fields() []Field {
	out := make([]Field, len(registry))
	copy(out, registry)
	return out
}

// LookupField resolves a field reference.
//
// Names are case-sensitive. A dotted path such as
// "DigitalZenWorks.MusicToolKit.Tags.Album" resolves by its last segment, so
// rule files that spell subjects as qualified property names keep working.
func LookupField(path string) (Field, error) {
	name := strings.TrimSpace(path)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	f, ok := byName[name]
	if !ok {
		return Field{}, fmt.Errorf("%w: %q", ErrFieldNotFound, path)
	}
	return f, nil
}
