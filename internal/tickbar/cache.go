package tickbar

import (
	"image"
	"sync"

	"codeberg.org/mutker/vernier/internal/theme"
)

type cacheKey struct {
	layout Layout
	theme  theme.Theme
	height int
}

// Cache memoizes the last rendered bar. A request with a different
// (Layout, Theme, height) key replaces the entry.
type Cache struct {
	mu    sync.Mutex
	key   cacheKey
	img   *image.RGBA
	plan  []Mark
	valid bool

	renders int
}

// Image returns the rendered bar, rendering only when the key changed or the
// cache was invalidated. The returned image is shared and must not be modified.
func (c *Cache) Image(layout Layout, th theme.Theme, h int) (*image.RGBA, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.refresh(layout, th, h); err != nil {
		return nil, err
	}
	return c.img, nil
}

// Plan returns the cached drawing description for the key.
func (c *Cache) Plan(layout Layout, th theme.Theme, h int) ([]Mark, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.refresh(layout, th, h); err != nil {
		return nil, err
	}
	return c.plan, nil
}

// Invalidate drops the cached entry.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.img = nil
	c.plan = nil
	c.mu.Unlock()
}

// Renders reports how many times the cache had to render.
func (c *Cache) Renders() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renders
}

func (c *Cache) refresh(layout Layout, th theme.Theme, h int) error {
	key := cacheKey{layout: layout, theme: th, height: h}
	if c.valid && c.key == key {
		return nil
	}

	plan, err := Plan(layout, th, h)
	if err != nil {
		return err
	}
	c.key, c.plan, c.img, c.valid = key, plan, paint(layout, plan, h), true
	c.renders++
	return nil
}
