package ioutils

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Song: Part 1/2", "Song_ Part 1_2"},
		{"Track...", "Track"},
		{"Name   with  spaces", "Name with spaces"},
		{"  padded  ", "padded"},
		{"a<b>c|d?e*f", "a_b_c_d_e_f"},
	}

	for _, tt := range tests {
		if got := SanitizeFileName(tt.input); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMirrorPath(t *testing.T) {
	root := filepath.Join("music")
	dest := filepath.Join("music Tags Only")
	got, err := MirrorPath(root, dest, filepath.Join(root, "Artist", "Album", "01.mp3"))
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dest, "Artist", "Album", "01.mp3"); got != want {
		t.Errorf("MirrorPath() = %q, want %q", got, want)
	}

	got, err = MirrorPath(root, dest, filepath.Join(root, "Artist", "Live: 1999", "01 Intro?.mp3"))
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dest, "Artist", "Live_ 1999", "01 Intro_.mp3"); got != want {
		t.Errorf("MirrorPath() = %q, want %q", got, want)
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "01.mp3.json")
	if err := WriteJSON(context.Background(), path, map[string]string{"Album": "Greatest Hits"}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]string
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got["Album"] != "Greatest Hits" {
		t.Errorf("Album = %q, want Greatest Hits", got["Album"])
	}
}

func TestWriteFile_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "x.json")
	if err := WriteFile(ctx, path, []byte("{}")); err == nil {
		t.Fatal("WriteFile() error = nil, want context error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file written despite cancelled context")
	}
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{1500, 1000, 1000, 1000, 1000, 666},
		{1000, 1500, 1000, 1000, 666, 1000},
		{800, 600, 1000, 1000, 800, 600},
		{800, 600, 0, 0, 800, 600},
		{2000, 10, 100, 100, 100, 1},
	}

	for _, tt := range tests {
		w, h := fitWithin(tt.w, tt.h, tt.maxW, tt.maxH)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("fitWithin(%d, %d, %d, %d) = %dx%d, want %dx%d",
				tt.w, tt.h, tt.maxW, tt.maxH, w, h, tt.wantW, tt.wantH)
		}
	}
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestResizeImage(t *testing.T) {
	svc := NewImageService()
	out, err := svc.ResizeImage(context.Background(), testPNG(t, 300, 200), 150, 150)
	if err != nil {
		t.Fatalf("ResizeImage() error = %v", err)
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("result is not a JPEG: %v", err)
	}
	if cfg.Width != 150 || cfg.Height != 100 {
		t.Errorf("resized to %dx%d, want 150x100", cfg.Width, cfg.Height)
	}
}

func TestConvertToJPEG(t *testing.T) {
	svc := NewImageService()
	out, err := svc.ConvertToJPEG(context.Background(), testPNG(t, 20, 10))
	if err != nil {
		t.Fatalf("ConvertToJPEG() error = %v", err)
	}
	if _, err := jpeg.DecodeConfig(bytes.NewReader(out)); err != nil {
		t.Errorf("result is not a JPEG: %v", err)
	}

	if _, err := svc.ConvertToJPEG(context.Background(), []byte("not an image")); err == nil {
		t.Error("ConvertToJPEG(garbage) error = nil, want error")
	}
}
