// Package assets loads texture files and resolves them into an immutable
// registry keyed by material slot.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned when no source directory holds a file.
var ErrNotFound = errors.New("asset not found")

// Manager loads files from a stack of directories.
type Manager struct {
	dirs  []string
	cache *Cache
	mu    sync.RWMutex
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// AddDir adds a source directory.
// Directories are searched in reverse order (last added = highest priority).
func (m *Manager) AddDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("opening asset dir %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("asset dir %s: not a directory", path)
	}

	m.mu.Lock()
	m.dirs = append(m.dirs, path)
	m.mu.Unlock()

	return nil
}

// Load reads a file relative to the source directories.
func (m *Manager) Load(path string) ([]byte, error) {
	if data, ok := m.cache.Get(path); ok {
		return data, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.dirs) - 1; i >= 0; i-- {
		data, err := os.ReadFile(filepath.Join(m.dirs[i], filepath.FromSlash(path)))
		if err == nil {
			m.cache.Set(path, data)
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
}

// Cache returns the manager's byte cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// Close drops all directories and cached data.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dirs = nil
	m.cache.Clear()
}

// Cache is a simple in-memory cache for loaded files.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	// Stats
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

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
