package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, DefaultSettings()) {
		t.Errorf("Load() = %+v, want defaults", got)
	}
}

func TestLoad_JSONKeepsUnsetDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "MusicManager.json")
	data := `{"library_location": "` + filepath.ToSlash(dir) + `", "update_tags": false, "include_extensions": ["mp3", ".flac"]}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.UpdateTags {
		t.Error("UpdateTags = true, want false from file")
	}
	if got.MaxConcurrentFiles != DefaultSettings().MaxConcurrentFiles {
		t.Errorf("MaxConcurrentFiles = %d, want default", got.MaxConcurrentFiles)
	}
	if want := []string{".MP3", ".FLAC"}; !reflect.DeepEqual(got.IncludeExtensions, want) {
		t.Errorf("IncludeExtensions = %v, want %v", got.IncludeExtensions, want)
	}
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	data := "library_location = '" + dir + "'\nmax_concurrent_files = 8\nlog_level = 'DEBUG'\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.MaxConcurrentFiles != 8 {
		t.Errorf("MaxConcurrentFiles = %d, want 8", got.MaxConcurrentFiles)
	}
	if got.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", got.LogLevel)
	}
}

func TestLoad_ExpandsHomeInPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	path := filepath.Join(t.TempDir(), "s.json")
	data := `{"rules_file": "~/rules.json", "log_file": "~/logs/mm.log"}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if want := filepath.Join(home, "rules.json"); got.RulesFile != want {
		t.Errorf("RulesFile = %q, want %q", got.RulesFile, want)
	}
	if want := filepath.Join(home, "logs", "mm.log"); got.LogFile != want {
		t.Errorf("LogFile = %q, want %q", got.LogFile, want)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad json", `{"library_location": `},
		{"zero workers", `{"max_concurrent_files": 0}`},
		{"bad level", `{"log_level": "loud"}`},
		{"negative artwork", `{"artwork_max_size": -1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "s.json")
			if err := os.WriteFile(path, []byte(tt.data), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Errorf("Load(%s) error = nil, want error", tt.data)
			}
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	for _, name := range []string{"s.json", "s.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			want := DefaultSettings()
			want.RulesFile = filepath.Join(filepath.Dir(path), "rules.json")
			want.ExtractArtwork = true

			if err := want.Save(path); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Load(Save(s)) = %+v, want %+v", got, want)
			}
		})
	}
}

func TestIncludes(t *testing.T) {
	s := DefaultSettings()
	tests := []struct {
		path string
		want bool
	}{
		{"a/b/01 song.mp3", true},
		{"a/b/01 song.FLAC", true},
		{"a/b/cover.jpg", false},
		{"a/b/README", false},
	}

	for _, tt := range tests {
		if got := s.Includes(tt.path); got != tt.want {
			t.Errorf("Includes(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got, err := ExpandPath("~/Music")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, "Music"); got != want {
		t.Errorf("ExpandPath(~/Music) = %q, want %q", got, want)
	}

	if got, _ := ExpandPath(""); got != "" {
		t.Errorf("ExpandPath(\"\") = %q, want empty", got)
	}
}
