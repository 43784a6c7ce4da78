// Package assets resolves asset paths against layered roots and caches the
// bytes of small, frequently reread files such as shader sources.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"
)

type layer struct {
	name string
	fsys fs.FS
}

// Manager searches its layers in reverse order, so the last added layer has
// the highest priority. It implements fs.FS over the merged view.
type Manager struct {
	layers []layer
	cache  *Cache
	mu     sync.RWMutex
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// AddFS adds a layer.
func (m *Manager) AddFS(name string, fsys fs.FS) {
	m.mu.Lock()
	m.layers = append(m.layers, layer{name: name, fsys: fsys})
	m.mu.Unlock()
}

// AddDir adds a directory on disk as a layer.
func (m *Manager) AddDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("adding asset dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("adding asset dir %s: not a directory", dir)
	}
	m.AddFS(dir, os.DirFS(dir))
	return nil
}

// Open implements fs.FS.
func (m *Manager) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.layers) - 1; i >= 0; i-- {
		f, err := m.layers[i].fsys.Open(name)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// ReadFile reads p without caching. Absolute paths and paths leaving the
// roots are read from disk directly.
func (m *Manager) ReadFile(p string) ([]byte, error) {
	name, ok := fsName(p)
	if !ok {
		return os.ReadFile(p)
	}
	data, err := fs.ReadFile(m, name)
	if err != nil {
		return nil, fmt.Errorf("file not found: %s: %w", p, err)
	}
	return data, nil
}

// Load is ReadFile with caching.
func (m *Manager) Load(p string) ([]byte, error) {
	if data, ok := m.cache.Get(p); ok {
		return data, nil
	}
	data, err := m.ReadFile(p)
	if err != nil {
		return nil, err
	}
	m.cache.Set(p, data)
	return data, nil
}

// Invalidate drops p from the cache, for files changed on disk.
func (m *Manager) Invalidate(p string) {
	m.cache.Delete(p)
}

// Cache returns the byte cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// Close drops all layers and cached data.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.layers = nil
	m.cache.Clear()
}

// fsName converts an OS path to an fs.FS name.
func fsName(p string) (string, bool) {
	if filepath.IsAbs(p) {
		return "", false
	}
	name := path.Clean(filepath.ToSlash(p))
	return name, fs.ValidPath(name)
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Delete removes an item.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Stats returns hit and miss counts.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}
