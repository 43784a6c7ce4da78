package debug

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
}

func TestFilename(t *testing.T) {
	s := NewScreenshots("", "shot")
	s.now = fixedClock
	if got := s.Filename(); got != "shot-20240309-140507.png" {
		t.Errorf("Filename() = %q", got)
	}

	s = NewScreenshots("out", "shot")
	s.now = fixedClock
	if got, want := s.Filename(), filepath.Join("out", "shot-20240309-140507.png"); got != want {
		t.Errorf("Filename() = %q, want %q", got, want)
	}
}

func TestSaveWritesPNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s := NewScreenshots(dir, "shot")
	s.now = fixedClock

	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(2, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	name, err := s.Save(img)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	f, err := os.Open(name)
	if err != nil {
		t.Fatalf("open %s: %v", name, err)
	}
	defer f.Close()

	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Bounds().Dx() != 3 || decoded.Bounds().Dy() != 2 {
		t.Errorf("bounds = %v", decoded.Bounds())
	}
	r, g, b, _ := decoded.At(2, 1).RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Errorf("pixel = %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestSaveRejectsEmpty(t *testing.T) {
	s := NewScreenshots(t.TempDir(), "shot")
	if _, err := s.Save(image.NewRGBA(image.Rect(0, 0, 0, 0))); err == nil {
		t.Error("expected error for empty image")
	}
}
