package texture

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io/fs"
	"sync"
	"testing"

	"github.com/Faultbox/learngl/internal/engine/gpu/gputest"
)

// memFiles serves file contents from a map and counts reads.
type memFiles struct {
	mu    sync.Mutex
	files map[string][]byte
	reads map[string]int
}

func newMemFiles() *memFiles {
	return &memFiles{files: make(map[string][]byte), reads: make(map[string]int)}
}

func (m *memFiles) ReadFile(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads[name]++
	data, ok := m.files[name]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func solidPNG(t *testing.T, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return encodePNG(t, img)
}

func newTestCache(t *testing.T, policy FailurePolicy) (*Cache, *gputest.Device, *memFiles) {
	t.Helper()
	files := newMemFiles()
	files.files["models/crate/diffuse.png"] = solidPNG(t, color.NRGBA{R: 200, A: 255})
	files.files["models/crate/specular.png"] = solidPNG(t, color.NRGBA{G: 200, A: 255})
	files.files["models/crate/broken.png"] = []byte("garbage")

	dev := gputest.New()
	c := NewCache(dev, Options{Policy: policy, FlipY: true, ReadFile: files.ReadFile})
	return c, dev, files
}

func TestCacheLoadOncePerPath(t *testing.T) {
	c, dev, files := newTestCache(t, Placeholder)

	a, err := c.Load("models/crate/diffuse.png", Diffuse)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	b, err := c.Load("models/crate/diffuse.png", Diffuse)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}

	if a != b {
		t.Error("repeated load returned a different *Texture")
	}
	if c.Uploads() != 1 {
		t.Errorf("uploads = %d, want 1", c.Uploads())
	}
	if n := len(dev.Ops("CreateTexture")); n != 1 {
		t.Errorf("device saw %d uploads, want 1", n)
	}
	if files.reads["models/crate/diffuse.png"] != 1 {
		t.Errorf("file read %d times, want 1", files.reads["models/crate/diffuse.png"])
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestCacheSharesHandleAcrossKinds(t *testing.T) {
	c, _, _ := newTestCache(t, Placeholder)

	d, err := c.Load("models/crate/diffuse.png", Diffuse)
	if err != nil {
		t.Fatalf("Load diffuse: %v", err)
	}
	s, err := c.Load("models/crate/diffuse.png", Specular)
	if err != nil {
		t.Fatalf("Load specular: %v", err)
	}

	if d.ID != s.ID {
		t.Errorf("IDs differ: %d vs %d", d.ID, s.ID)
	}
	if s.Kind != Specular {
		t.Errorf("kind = %q, want specular", s.Kind)
	}
	if c.Uploads() != 1 {
		t.Errorf("uploads = %d, want 1", c.Uploads())
	}
}

func TestCacheDistinctPaths(t *testing.T) {
	c, _, _ := newTestCache(t, Placeholder)

	d, _ := c.Load("models/crate/diffuse.png", Diffuse)
	s, _ := c.Load("models/crate/specular.png", Specular)
	if d.ID == s.ID {
		t.Error("distinct paths share a texture ID")
	}
	if c.Uploads() != 2 {
		t.Errorf("uploads = %d, want 2", c.Uploads())
	}
}

func TestCachePlaceholderPolicy(t *testing.T) {
	c, dev, _ := newTestCache(t, Placeholder)

	missing, err := c.Load("models/crate/missing.png", Diffuse)
	if err != nil {
		t.Fatalf("placeholder policy returned error: %v", err)
	}
	broken, err := c.Load("models/crate/broken.png", Specular)
	if err != nil {
		t.Fatalf("placeholder policy returned error: %v", err)
	}

	if !missing.Placeholder || !broken.Placeholder {
		t.Error("expected placeholder textures")
	}
	if missing.ID != broken.ID {
		t.Error("placeholders should share one texture")
	}
	img := dev.Textures[missing.ID]
	if img == nil || img.Width != 1 || img.Height != 1 {
		t.Errorf("placeholder image = %+v, want 1x1", img)
	}
	if c.Uploads() != 0 {
		t.Errorf("uploads = %d, placeholder should not count", c.Uploads())
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, placeholder should not count", c.Len())
	}
}

func TestCacheSkipPolicy(t *testing.T) {
	c, _, _ := newTestCache(t, Skip)

	tex, err := c.Load("models/crate/broken.png", Diffuse)
	if err == nil {
		t.Fatal("expected error")
	}
	if tex != nil {
		t.Error("expected nil texture on error")
	}
	if !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}

	_, err = c.Load("models/crate/missing.png", Diffuse)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestCacheUploadFailure(t *testing.T) {
	c, dev, _ := newTestCache(t, Abort)
	dev.FailTextures = true

	if _, err := c.Load("models/crate/diffuse.png", Diffuse); err == nil {
		t.Error("expected upload error")
	}
}

func TestCacheLoadData(t *testing.T) {
	c, _, _ := newTestCache(t, Placeholder)
	data := solidPNG(t, color.NRGBA{B: 255, A: 255})

	a, err := c.LoadData("scene.glb#image0", data, Diffuse)
	if err != nil {
		t.Fatalf("LoadData: %v", err)
	}
	b, _ := c.LoadData("scene.glb#image0", data, Diffuse)
	if a != b {
		t.Error("embedded image uploaded twice")
	}
	if c.Uploads() != 1 {
		t.Errorf("uploads = %d, want 1", c.Uploads())
	}
}

func TestCacheClose(t *testing.T) {
	c, dev, _ := newTestCache(t, Placeholder)

	d, _ := c.Load("models/crate/diffuse.png", Diffuse)
	c.Load("models/crate/diffuse.png", Specular)
	c.Load("models/crate/specular.png", Specular)
	p, _ := c.Load("models/crate/missing.png", Diffuse)

	c.Close()

	deleted := make(map[uint32]int)
	for _, call := range dev.Ops("DeleteTexture") {
		deleted[call.ID]++
	}
	if len(deleted) != 3 {
		t.Errorf("deleted %d textures, want 3", len(deleted))
	}
	for id, n := range deleted {
		if n != 1 {
			t.Errorf("texture %d deleted %d times", id, n)
		}
	}
	if deleted[d.ID] != 1 || deleted[p.ID] != 1 {
		t.Error("expected diffuse and placeholder textures to be deleted")
	}
	if len(dev.Textures) != 0 {
		t.Errorf("%d textures still alive", len(dev.Textures))
	}
	if c.Len() != 0 || c.Uploads() != 0 {
		t.Error("cache not empty after Close")
	}
}

func TestCachePrefetch(t *testing.T) {
	c, _, files := newTestCache(t, Skip)

	paths := []string{
		"models/crate/diffuse.png",
		"models/crate/specular.png",
		"models/crate/diffuse.png",
		"models/crate/broken.png",
	}
	if err := c.Prefetch(context.Background(), paths); err != nil {
		t.Fatalf("Prefetch: %v", err)
	}
	if files.reads["models/crate/diffuse.png"] != 1 {
		t.Errorf("diffuse read %d times during prefetch", files.reads["models/crate/diffuse.png"])
	}

	if _, err := c.Load("models/crate/diffuse.png", Diffuse); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if files.reads["models/crate/diffuse.png"] != 1 {
		t.Error("Load re-read a prefetched file")
	}

	// The prefetched decode error surfaces on Load
	if _, err := c.Load("models/crate/broken.png", Diffuse); !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
}

func TestCacheDropPrefetched(t *testing.T) {
	c, _, files := newTestCache(t, Abort)
	paths := []string{"models/crate/diffuse.png", "models/crate/specular.png"}
	if err := c.Prefetch(context.Background(), paths); err != nil {
		t.Fatalf("Prefetch: %v", err)
	}
	if c.Prefetched() != 2 {
		t.Fatalf("Prefetched() = %d, want 2", c.Prefetched())
	}

	if _, err := c.Load(paths[0], Diffuse); err != nil {
		t.Fatalf("Load: %v", err)
	}
	c.DropPrefetched(paths)
	if c.Prefetched() != 0 {
		t.Errorf("Prefetched() = %d after drop", c.Prefetched())
	}

	// A dropped image is read again on demand
	if _, err := c.Load(paths[1], Specular); err != nil {
		t.Fatalf("Load after drop: %v", err)
	}
	if files.reads[paths[1]] != 2 {
		t.Errorf("specular read %d times, want 2", files.reads[paths[1]])
	}
}

func TestCachePrefetchCanceled(t *testing.T) {
	c, _, _ := newTestCache(t, Placeholder)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.Prefetch(ctx, []string{"models/crate/diffuse.png"}); err == nil {
		t.Error("expected error from canceled context")
	}
}

func TestLoadCubemap(t *testing.T) {
	c, dev, files := newTestCache(t, Placeholder)
	var faces [6]string
	for i, name := range []string{"right", "left", "top", "bottom", "front", "back"} {
		faces[i] = "skybox/" + name + ".png"
		files.files[faces[i]] = solidPNG(t, color.NRGBA{R: uint8(i * 40), A: 255})
	}

	id, err := c.LoadCubemap(context.Background(), faces)
	if err != nil {
		t.Fatalf("LoadCubemap: %v", err)
	}
	got, ok := dev.Cubemaps[id]
	if !ok {
		t.Fatal("cubemap not uploaded")
	}
	// Faces keep their order
	if got[2].Pix[0] != 80 {
		t.Errorf("face 2 red = %d, want 80", got[2].Pix[0])
	}

	c.Close()
	if _, ok := dev.Cubemaps[id]; ok {
		t.Error("cubemap not released by Close")
	}

	faces[3] = "skybox/missing.png"
	if _, err := c.LoadCubemap(context.Background(), faces); err == nil {
		t.Error("expected error for missing face")
	}
}
