package component

// Cache keeps component instances alive across full rebuilds, keyed by a
// stable identity (item ids, never display names).
type Cache[K comparable, C any] struct {
	items map[K]C
}

// NewCache returns an empty cache.
func NewCache[K comparable, C any]() *Cache[K, C] {
	return &Cache[K, C]{items: make(map[K]C)}
}

// Get returns the instance for key, building it on first use.
func (c *Cache[K, C]) Get(key K, build func() C) C {
	if existing, ok := c.items[key]; ok {
		return existing
	}
	created := build()
	c.items[key] = created
	return created
}

// Lookup returns the cached instance without building one.
func (c *Cache[K, C]) Lookup(key K) (C, bool) {
	existing, ok := c.items[key]
	return existing, ok
}

// Retain drops every instance whose key is not in keep and returns how many
// were removed.
func (c *Cache[K, C]) Retain(keep []K) int {
	wanted := make(map[K]struct{}, len(keep))
	for _, key := range keep {
		wanted[key] = struct{}{}
	}
	removed := 0
	for key := range c.items {
		if _, ok := wanted[key]; !ok {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of cached instances.
func (c *Cache[K, C]) Len() int {
	return len(c.items)
}
