package assets

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestManagerLayerPriority(t *testing.T) {
	m := NewManager()
	m.AddFS("embedded", fstest.MapFS{
		"shaders/model.vs": {Data: []byte("embedded vs")},
		"shaders/model.fs": {Data: []byte("embedded fs")},
	})
	m.AddFS("override", fstest.MapFS{
		"shaders/model.fs": {Data: []byte("override fs")},
	})

	tests := []struct {
		path string
		want string
	}{
		{"shaders/model.vs", "embedded vs"},
		{"shaders/model.fs", "override fs"},
		{"./shaders/../shaders/model.fs", "override fs"},
	}
	for _, tt := range tests {
		got, err := m.ReadFile(tt.path)
		if err != nil {
			t.Fatalf("ReadFile(%q): %v", tt.path, err)
		}
		if string(got) != tt.want {
			t.Errorf("ReadFile(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestManagerNotFound(t *testing.T) {
	m := NewManager()
	m.AddFS("empty", fstest.MapFS{})

	_, err := m.ReadFile("missing.png")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestManagerAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "tex.png")
	if err := os.WriteFile(p, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManager()
	got, err := m.ReadFile(p)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "png" {
		t.Errorf("got %q", got)
	}
}

func TestManagerAddDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("disk"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManager()
	if err := m.AddDir(dir); err != nil {
		t.Fatalf("AddDir: %v", err)
	}
	got, err := fs.ReadFile(m, "a.txt")
	if err != nil || string(got) != "disk" {
		t.Errorf("fs.ReadFile = %q, %v", got, err)
	}

	if err := m.AddDir(filepath.Join(dir, "a.txt")); err == nil {
		t.Error("expected error for a file")
	}
	if err := m.AddDir(filepath.Join(dir, "nope")); err == nil {
		t.Error("expected error for a missing dir")
	}
}

func TestManagerLoadCaches(t *testing.T) {
	files := fstest.MapFS{"a.glsl": {Data: []byte("v1")}}
	m := NewManager()
	m.AddFS("mem", files)

	if _, err := m.Load("a.glsl"); err != nil {
		t.Fatal(err)
	}
	files["a.glsl"] = &fstest.MapFile{Data: []byte("v2")}

	got, _ := m.Load("a.glsl")
	if string(got) != "v1" {
		t.Errorf("expected cached v1, got %q", got)
	}
	hits, misses := m.Cache().Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("stats = %d hits, %d misses", hits, misses)
	}

	m.Invalidate("a.glsl")
	got, _ = m.Load("a.glsl")
	if string(got) != "v2" {
		t.Errorf("expected v2 after invalidate, got %q", got)
	}
}

func TestCacheClear(t *testing.T) {
	c := NewCache()
	c.Set("k", []byte("v"))
	c.Get("k")
	c.Clear()

	if _, ok := c.Get("k"); ok {
		t.Error("expected cache to be empty")
	}
	if hits, _ := c.Stats(); hits != 0 {
		t.Errorf("hits = %d after clear", hits)
	}
}
