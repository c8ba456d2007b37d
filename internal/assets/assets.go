// Package assets resolves the texture maps named by 3DS materials to image
// files on disk and reads their headers.
//
// 3DS files store bare, often upper-case 8.3 names ("WOOD.TGA"), so lookups
// are case-insensitive within each search directory.
package assets

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
)

var (
	// ErrNotFound is returned when no search directory holds the map file.
	ErrNotFound = errors.New("texture map not found")
	// ErrUnsupported is returned for map files with an unknown extension.
	ErrUnsupported = errors.New("unsupported texture format")
)

type configDecoder func(io.Reader) (image.Config, error)

// TGA has no magic number, so formats are picked by extension rather than
// by sniffing.
var decoders = map[string]struct {
	format string
	decode configDecoder
}{
	".tga":  {"tga", tga.DecodeConfig},
	".bmp":  {"bmp", bmp.DecodeConfig},
	".png":  {"png", png.DecodeConfig},
	".jpg":  {"jpeg", jpeg.DecodeConfig},
	".jpeg": {"jpeg", jpeg.DecodeConfig},
	".gif":  {"gif", gif.DecodeConfig},
}

// Info describes a resolved texture map.
type Info struct {
	Path   string
	Format string // tga, bmp, png, jpeg or gif
	Width  int
	Height int
}

// Manager resolves texture map names against a list of directories.
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

// AddDir adds a search directory.
// Directories are searched in reverse order (last added = highest priority).
func (m *Manager) AddDir(dir string) error {
	st, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("adding search dir %s: %w", dir, err)
	}
	if !st.IsDir() {
		return fmt.Errorf("adding search dir %s: not a directory", dir)
	}

	m.mu.Lock()
	m.dirs = append(m.dirs, dir)
	m.mu.Unlock()

	return nil
}

// Resolve returns the path of the file matching name. Only the base name is
// used; directory parts stored in the 3DS file are ignored.
func (m *Manager) Resolve(name string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "" || base == "." || base == "/" {
		return "", fmt.Errorf("%w: empty name", ErrNotFound)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.dirs) - 1; i >= 0; i-- {
		if path, ok := findFold(m.dirs[i], base); ok {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// findFold looks for base in dir, exact name first, then ignoring case.
func findFold(dir, base string) (string, bool) {
	exact := filepath.Join(dir, base)
	if st, err := os.Stat(exact); err == nil && !st.IsDir() {
		return exact, true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(e.Name(), base) {
			return filepath.Join(dir, e.Name()), true
		}
	}
	return "", false
}

// Probe resolves name and decodes the image header. Results are cached per
// name.
func (m *Manager) Probe(name string) (Info, error) {
	if info, ok := m.cache.Get(name); ok {
		return info, nil
	}

	path, err := m.Resolve(name)
	if err != nil {
		return Info{}, err
	}

	dec, ok := decoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return Info{Path: path}, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("opening texture map: %w", err)
	}
	defer f.Close()

	cfg, err := dec.decode(f)
	if err != nil {
		return Info{Path: path}, fmt.Errorf("decoding %s: %w", path, err)
	}

	info := Info{Path: path, Format: dec.format, Width: cfg.Width, Height: cfg.Height}
	m.cache.Set(name, info)
	return info, nil
}

// Close drops all search directories and cached results.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dirs = nil
	m.cache.Clear()
}

// Cache is a simple in-memory cache of probed maps.
type Cache struct {
	data map[string]Info
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]Info),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) (Info, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	info, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return info, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, info Info) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = info
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]Info)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
