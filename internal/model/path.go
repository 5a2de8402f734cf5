package model

import (
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var multiSpace = regexp.MustCompile(`\s+`)

// PathHints derives artist and album names from a library layout of the
// form ".../<Artist>/<Album>/<file>".
//
// Underscores are read as spaces, whitespace is collapsed and the album name
// is title-cased. Either result is empty when the path is too shallow.
//
// Example:
//
//	artist, album := PathHints("/music/Miles Davis/kind_of_blue/01 So What.mp3")
//	// artist = "Miles Davis", album = "Kind Of Blue"
func PathHints(path string) (artist, album string) {
	dir := filepath.Dir(filepath.Clean(path))
	albumDir := filepath.Base(dir)
	artistDir := filepath.Base(filepath.Dir(dir))

	album = tidyPathName(albumDir)
	if album != "" {
		// Casers keep state, so each call gets its own.
		album = cases.Title(language.Und, cases.NoLower).String(album)
	}
	artist = tidyPathName(artistDir)
	return artist, album
}

func tidyPathName(name string) string {
	if name == "." || name == string(filepath.Separator) || name == "" {
		return ""
	}
	name = strings.ReplaceAll(name, "_", " ")
	name = multiSpace.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// FillFromPath sets Album and Artists from PathHints when they are empty and
// returns the names of the fields it filled.
func (r *Record) FillFromPath() []string {
	if r.Path == "" {
		return nil
	}
	artist, album := PathHints(r.Path)

	var filled []string
	if r.Album == "" && album != "" {
		r.Album = album
		filled = append(filled, "Album")
	}
	if firstOrEmpty(r.Artists) == "" && artist != "" {
		r.Artists = []string{artist}
		filled = append(filled, "Artists")
	}
	return filled
}

func firstOrEmpty(s []string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}
