package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
)

// AppName names the data directory and the default config and log files.
const AppName = "MusicManager"

// Settings holds all configuration options.
type Settings struct {
	// Library settings
	LibraryLocation   string   `json:"library_location" toml:"library_location"`
	IncludeExtensions []string `json:"include_extensions" toml:"include_extensions"`
	InferTagsFromPath bool     `json:"infer_tags_from_path" toml:"infer_tags_from_path"`

	// Rules settings
	RulesFile  string `json:"rules_file" toml:"rules_file"` // empty uses the built-in rules
	UpdateTags bool   `json:"update_tags" toml:"update_tags"`

	// Processing
	MaxConcurrentFiles int `json:"max_concurrent_files" toml:"max_concurrent_files"`

	// Tag export settings
	ExtractArtwork bool `json:"extract_artwork" toml:"extract_artwork"`
	ArtworkMaxSize int  `json:"artwork_max_size" toml:"artwork_max_size"` // 0 keeps the original size

	// Logging
	LogLevel string `json:"log_level" toml:"log_level"` // debug, info, warn, error
	LogFile  string `json:"log_file" toml:"log_file"`   // empty disables the log file
}

// DataDir returns the per-user directory holding settings and logs.
func DataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, AppName)
}

// DefaultPath returns the default settings file location.
func DefaultPath() string {
	return filepath.Join(DataDir(), AppName+".json")
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		LibraryLocation:   filepath.Join(homeDir, "Music"),
		IncludeExtensions: []string{".AIFC", ".FLAC", ".M4A", ".MP3", ".OGG", ".WAV", ".WMA"},
		InferTagsFromPath: true,

		UpdateTags: true,

		MaxConcurrentFiles: 4,

		ExtractArtwork: false,
		ArtworkMaxSize: 1000,

		LogLevel: "info",
		LogFile:  filepath.Join(DataDir(), AppName+".log"),
	}
}

// Load reads settings from a JSON or TOML file, chosen by extension.
// A missing file yields the defaults. Values absent from the file keep their
// defaults.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return settings, nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, settings)
	default:
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}

	if err := settings.normalize(); err != nil {
		return nil, err
	}
	return settings, settings.Validate()
}

// Save writes settings to a JSON or TOML file, chosen by extension.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		data, err = toml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate reports the first unusable setting.
func (s *Settings) Validate() error {
	if s.LibraryLocation == "" {
		return errors.New("library_location must be set")
	}
	if s.MaxConcurrentFiles < 1 {
		return fmt.Errorf("max_concurrent_files must be at least 1, got %d", s.MaxConcurrentFiles)
	}
	if s.ArtworkMaxSize < 0 {
		return fmt.Errorf("artwork_max_size must not be negative, got %d", s.ArtworkMaxSize)
	}
	if len(s.IncludeExtensions) == 0 {
		return errors.New("include_extensions must list at least one extension")
	}
	if _, err := log.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// Includes reports whether path has one of the included extensions,
// ignoring case.
func (s *Settings) Includes(path string) bool {
	ext := filepath.Ext(path)
	for _, inc := range s.IncludeExtensions {
		if strings.EqualFold(inc, ext) {
			return true
		}
	}
	return false
}

func (s *Settings) normalize() error {
	var err error
	if s.LibraryLocation, err = ExpandPath(s.LibraryLocation); err != nil {
		return fmt.Errorf("library_location: %w", err)
	}
	if s.RulesFile, err = ExpandPath(s.RulesFile); err != nil {
		return fmt.Errorf("rules_file: %w", err)
	}
	if s.LogFile, err = ExpandPath(s.LogFile); err != nil {
		return fmt.Errorf("log_file: %w", err)
	}
	for i, ext := range s.IncludeExtensions {
		ext = strings.ToUpper(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		s.IncludeExtensions[i] = ext
	}
	s.LogLevel = strings.ToLower(strings.TrimSpace(s.LogLevel))
	return nil
}

// ExpandPath resolves a leading "~" and makes the path absolute. Empty paths
// stay empty.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if path == "~" {
			path = home
		} else if len(path) > 1 && (path[1] == '/' || path[1] == '\\') {
			path = filepath.Join(home, path[2:])
		}
	}
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", path, err)
	}
	return abs, nil
}
