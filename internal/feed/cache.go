// Package feed implements the news feed engine: the in-memory news
// cache, the polling synchronizer, and the pure filter that derives the
// displayed list.
package feed

import (
	"sort"
	"sync"

	"github.com/ywebstudio/newslist/pkg/models"
)

// Cache holds the authoritative in-memory snapshot of all news items.
// It is only ever replaced wholesale, never patched in place. Safe for
// concurrent use.
type Cache struct {
	mu    sync.RWMutex
	items []models.NewsItem
	ids   map[string]struct{}
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{ids: make(map[string]struct{})}
}

// Replace sorts items newest-first and swaps them in as the new
// snapshot. Items with a zero timestamp sort last.
func (c *Cache) Replace(items []models.NewsItem) {
	sorted := make([]models.NewsItem, len(items))
	copy(sorted, items)
	SortByRecency(sorted)

	ids := make(map[string]struct{}, len(sorted))
	for _, it := range sorted {
		ids[it.ID] = struct{}{}
	}

	c.mu.Lock()
	c.items = sorted
	c.ids = ids
	c.mu.Unlock()
}

// Snapshot returns the current snapshot. The returned slice must not be
// mutated by callers.
func (c *Cache) Snapshot() []models.NewsItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items
}

// Len returns the number of cached items.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// HasNew reports whether any of the given items carries an id absent
// from the snapshot. Detection is by id-set difference, not by count,
// so an add paired with a removal in the same interval is still seen.
func (c *Cache) HasNew(items []models.NewsItem) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range items {
		if _, ok := c.ids[it.ID]; !ok {
			return true
		}
	}
	return false
}

// SortByRecency orders items descending by creation time, in place.
// Zero timestamps are treated as epoch 0 and end up last. The sort is
// stable so equal timestamps keep their relative order.
func SortByRecency(items []models.NewsItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
