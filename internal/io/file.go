package ioutils

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	invalidChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots = regexp.MustCompile(`\.+$`)
	runsOfSpace  = regexp.MustCompile(`\s+`)
)

// WriteFile writes data to path, creating parent directories as needed.
//
// The file is created with mode 0644. If the file already exists,
// it is truncated before writing. A cancelled context stops the write
// before anything touches the disk.
//
// Example:
//
//	err := WriteFile(ctx, "/music Tags Only/Artist/Album/01 Intro.mp3.json", data)
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// WriteJSON writes v to path as indented JSON followed by a newline.
func WriteJSON(ctx context.Context, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return WriteFile(ctx, path, append(data, '\n'))
}

// SanitizeFileName removes or replaces characters that are invalid in file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed (Windows limitation)
//   - Multiple whitespace → single space
//   - Leading and trailing whitespace → removed
//
// Example:
//
//	SanitizeFileName("Song: Part 1/2")     // Returns "Song_ Part 1_2"
//	SanitizeFileName("Track...")           // Returns "Track"
//	SanitizeFileName("Name   with  spaces") // Returns "Name with spaces"
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = runsOfSpace.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// MirrorPath maps path, which lives under root, to the same relative location
// under destination. Every relative component goes through SanitizeFileName
// so the export tree stays portable.
//
// Example:
//
//	MirrorPath("/music", "/music Tags Only", "/music/Artist/Album: Live/01.mp3")
//	// Returns "/music Tags Only/Artist/Album_ Live/01.mp3"
func MirrorPath(root, destination, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}
	parts := strings.Split(rel, string(filepath.Separator))
	for i, part := range parts {
		if clean := SanitizeFileName(part); clean != "" {
			parts[i] = clean
		}
	}
	return filepath.Join(append([]string{destination}, parts...)...), nil
}
