package data

import (
	"maps"
	"slices"
)

// VoidCachePrefix starts the name of the callbacks clearing module caches.
const VoidCachePrefix = "void_cache"

// Cache memoizes values computed by a module. Embed it in a module to make it
// cached: the owning interface then registers a callback clearing the cache,
// so that any change of parameters forces new computations.
type Cache struct {
	// KeepOnTrigger disables the registration of the clearing callback.
	KeepOnTrigger bool

	values map[string]any
}

// Cached is implemented by modules embedding a Cache.
type Cached interface {
	ModuleCache() *Cache
}

// ModuleCache returns the cache itself.
func (c *Cache) ModuleCache() *Cache {
	return c
}

// Has reports whether a value is stored under name.
func (c *Cache) Has(name string) bool {
	_, ok := c.values[name]

	return ok
}

// CacheLen returns the number of stored values.
func (c *Cache) CacheLen() int {
	return len(c.values)
}

// CacheKeys returns the names of stored values, sorted.
func (c *Cache) CacheKeys() []string {
	return slices.Sorted(maps.Keys(c.values))
}

// ClearCache removes every stored value.
func (c *Cache) ClearCache() {
	clear(c.values)
}

// SetCache stores a value under name.
func (c *Cache) SetCache(name string, value any) {
	if c.values == nil {
		c.values = make(map[string]any)
	}

	c.values[name] = value
}

func (c *Cache) snapshot() map[string]any {
	return maps.Clone(c.values)
}

// repopulate stores back saved values, keeping values computed since.
func (c *Cache) repopulate(saved map[string]any) {
	for name, v := range saved {
		c.SetCache(name, v)
	}
}

// Autocached returns the value stored under name, computing and storing it on
// first call. Errors are returned and not stored.
func Autocached[T any](c *Cache, name string, compute func() (T, error)) (T, error) {
	if v, ok := c.values[name]; ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	v, err := compute()
	if err != nil {
		return v, err
	}

	c.SetCache(name, v)

	return v, nil
}

func voidCacheName(path string) string {
	return VoidCachePrefix + "[" + path + "]"
}
