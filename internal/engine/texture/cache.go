package texture

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Faultbox/learngl/internal/engine/gpu"
)

// Kind is the semantic type of a material texture.
type Kind string

// Texture kinds a material can reference.
const (
	Diffuse  Kind = "diffuse"
	Specular Kind = "specular"
)

// FailurePolicy decides what a failed texture load turns into.
type FailurePolicy int

const (
	// Placeholder substitutes a 1x1 white texture and logs a warning.
	Placeholder FailurePolicy = iota
	// Skip returns the error; the model loader drops the texture slot and
	// keeps loading.
	Skip
	// Abort returns the error; the model loader fails the whole load.
	Abort
)

func (p FailurePolicy) String() string {
	switch p {
	case Placeholder:
		return "placeholder"
	case Skip:
		return "error"
	case Abort:
		return "abort"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParseFailurePolicy parses the config spelling of a policy.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(s) {
	case "", "placeholder":
		return Placeholder, nil
	case "error", "skip":
		return Skip, nil
	case "abort":
		return Abort, nil
	default:
		return Placeholder, fmt.Errorf("unknown texture failure policy %q", s)
	}
}

// Texture is an uploaded texture. Textures are shared between meshes and
// must not be modified.
type Texture struct {
	ID   uint32
	Kind Kind
	Path string

	// Placeholder is set when ID is the fallback texture.
	Placeholder bool
}

// Options configures a Cache.
type Options struct {
	Policy FailurePolicy

	// FlipY reverses image rows on decode.
	FlipY bool

	// Workers bounds concurrent decodes in Prefetch. Zero means 4.
	Workers int

	// ReadFile reads texture files. Defaults to os.ReadFile.
	ReadFile func(name string) ([]byte, error)

	Log *zap.Logger
}

type cacheKey struct {
	path string
	kind Kind
}

type decoded struct {
	img *gpu.Image
	err error
}

// Cache uploads each distinct texture path once and hands out the same
// *Texture for repeated requests. A Cache belongs to one load session and
// is not tied to any global state; Close releases everything it uploaded.
//
// The methods of a Cache must be called from the goroutine that owns the
// GL context. Only the decoding inside Prefetch and LoadCubemap fans out.
type Cache struct {
	dev  gpu.Device
	opts Options
	log  *zap.Logger

	entries map[cacheKey]*Texture
	ids     map[string]uint32
	cubes   []uint32
	uploads int

	placeholder uint32

	mu      sync.Mutex
	decoded map[string]decoded
	group   singleflight.Group
}

// NewCache creates an empty cache uploading through dev.
func NewCache(dev gpu.Device, opts Options) *Cache {
	if opts.ReadFile == nil {
		opts.ReadFile = os.ReadFile
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{
		dev:     dev,
		opts:    opts,
		log:     log,
		entries: make(map[cacheKey]*Texture),
		ids:     make(map[string]uint32),
		decoded: make(map[string]decoded),
	}
}

// Policy returns the failure policy the cache was created with.
func (c *Cache) Policy() FailurePolicy {
	return c.opts.Policy
}

// Load returns the texture for path, uploading it on first use. Paths are
// compared as exact strings.
func (c *Cache) Load(path string, kind Kind) (*Texture, error) {
	return c.load(path, kind, func() (*gpu.Image, error) {
		return c.decodeFile(path)
	})
}

// LoadData is Load for images embedded in a model file. key identifies the
// image within the cache.
func (c *Cache) LoadData(key string, data []byte, kind Kind) (*Texture, error) {
	return c.load(key, kind, func() (*gpu.Image, error) {
		return c.decodeBytes(key, data)
	})
}

func (c *Cache) load(path string, kind Kind, decode func() (*gpu.Image, error)) (*Texture, error) {
	key := cacheKey{path: path, kind: kind}
	if tex, ok := c.entries[key]; ok {
		return tex, nil
	}

	// Same image under another kind shares the GPU texture.
	if id, ok := c.ids[path]; ok {
		tex := &Texture{ID: id, Kind: kind, Path: path, Placeholder: id == c.placeholder}
		c.entries[key] = tex
		return tex, nil
	}

	img, err := decode()
	if err == nil {
		var id uint32
		id, err = c.dev.CreateTexture(img)
		if err == nil {
			c.uploads++
			c.ids[path] = id
			tex := &Texture{ID: id, Kind: kind, Path: path}
			c.entries[key] = tex
			c.log.Debug("texture uploaded",
				zap.String("path", path),
				zap.String("kind", string(kind)),
				zap.Int("width", img.Width),
				zap.Int("height", img.Height),
				zap.Int("channels", img.Channels))
			return tex, nil
		}
		err = fmt.Errorf("upload %s: %w", path, err)
	}

	if c.opts.Policy != Placeholder {
		return nil, err
	}

	c.log.Warn("texture load failed, using placeholder", zap.String("path", path), zap.Error(err))
	id, perr := c.placeholderID()
	if perr != nil {
		return nil, fmt.Errorf("%w (placeholder: %v)", err, perr)
	}
	c.ids[path] = id
	tex := &Texture{ID: id, Kind: kind, Path: path, Placeholder: true}
	c.entries[key] = tex
	return tex, nil
}

func (c *Cache) placeholderID() (uint32, error) {
	if c.placeholder != 0 {
		return c.placeholder, nil
	}
	id, err := c.dev.CreateTexture(White())
	if err != nil {
		return 0, err
	}
	c.placeholder = id
	return id, nil
}

// decodeFile returns a prefetched image or reads and decodes path now.
// Concurrent requests for one path share a single decode.
func (c *Cache) decodeFile(path string) (*gpu.Image, error) {
	c.mu.Lock()
	d, ok := c.decoded[path]
	if ok {
		delete(c.decoded, path)
	}
	c.mu.Unlock()
	if ok {
		return d.img, d.err
	}

	v, err, _ := c.group.Do(path, func() (interface{}, error) {
		data, err := c.opts.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return Decode(data, path, c.opts.FlipY)
	})
	if err != nil {
		return nil, err
	}
	return v.(*gpu.Image), nil
}

func (c *Cache) decodeBytes(name string, data []byte) (*gpu.Image, error) {
	return Decode(data, name, c.opts.FlipY)
}

// Len returns the number of distinct textures held, not counting the
// placeholder.
func (c *Cache) Len() int {
	n := len(c.ids)
	for _, id := range c.ids {
		if id == c.placeholder {
			n--
		}
	}
	return n
}

// Uploads returns how many images were uploaded, not counting the
// placeholder.
func (c *Cache) Uploads() int {
	return c.uploads
}

// Close deletes every texture the cache created. Textures handed out
// earlier must not be used afterwards.
func (c *Cache) Close() {
	seen := make(map[uint32]bool)
	for _, id := range c.ids {
		if id != 0 && !seen[id] {
			seen[id] = true
			c.dev.DeleteTexture(id)
		}
	}
	if c.placeholder != 0 && !seen[c.placeholder] {
		c.dev.DeleteTexture(c.placeholder)
	}
	for _, id := range c.cubes {
		c.dev.DeleteTexture(id)
	}

	c.entries = make(map[cacheKey]*Texture)
	c.ids = make(map[string]uint32)
	c.cubes = nil
	c.placeholder = 0
	c.uploads = 0

	c.mu.Lock()
	c.decoded = make(map[string]decoded)
	c.mu.Unlock()
}
