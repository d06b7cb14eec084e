package assets

import (
	"elypso/internal/console"
	"fmt"
	"log/slog"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache keeps the most recently used assets by name. Assets pushed out of
// the cache, or dropped by Purge, are handed to the unloader. Names that
// failed to load are remembered with their error until ClearFailures or
// Purge, so a missing file is not retried on every lookup.
type Cache[T any] struct {
	cache  *lru.Cache[string, T]
	failed *lru.Cache[string, error]
	load   func(name string) (T, error)
}

func NewCache[T any](size int, load func(name string) (T, error), unload func(name string, v T)) (*Cache[T], error) {
	onEvict := func(name string, v T) {
		if unload != nil {
			unload(name, v)
		}
	}
	cache, err := lru.NewWithEvict[string, T](size, onEvict)
	if err != nil {
		return nil, fmt.Errorf("asset cache: %w", err)
	}
	failed, err := lru.New[string, error](size)
	if err != nil {
		return nil, fmt.Errorf("asset cache: %w", err)
	}
	return &Cache[T]{cache: cache, failed: failed, load: load}, nil
}

// Get returns the cached asset, loading it on first use. A name whose load
// failed returns the same error without calling the loader again.
func (c *Cache[T]) Get(name string) (T, error) {
	var zero T
	if v, ok := c.cache.Get(name); ok {
		return v, nil
	}
	if err, ok := c.failed.Get(name); ok {
		return zero, err
	}

	v, err := c.load(name)
	if err != nil {
		c.failed.Add(name, err)
		return zero, err
	}
	c.cache.Add(name, v)
	return v, nil
}

// ClearFailures lets every failed name be loaded again.
func (c *Cache[T]) ClearFailures() {
	c.failed.Purge()
}

func (c *Cache[T]) Len() int {
	return c.cache.Len()
}

// Purge unloads everything and forgets failed names.
func (c *Cache[T]) Purge() {
	c.cache.Purge()
	c.failed.Purge()
}

// NewTextureCache caches GPU textures loaded from dir. It needs an open
// window.
func NewTextureCache(dir string, size int) (*Cache[rl.Texture2D], error) {
	log := console.For(console.Engine)

	load := func(name string) (rl.Texture2D, error) {
		path := filepath.Join(dir, name)
		tex := rl.LoadTexture(path)
		if tex.ID == 0 {
			log.Warn("Couldn't load texture", slog.String("path", path))
			return tex, fmt.Errorf("load texture %s: failed", path)
		}
		log.Debug("Loaded texture", slog.String("path", path))
		return tex, nil
	}
	unload := func(name string, tex rl.Texture2D) {
		rl.UnloadTexture(tex)
		log.Debug("Unloaded texture", slog.String("name", name))
	}
	return NewCache(size, load, unload)
}
