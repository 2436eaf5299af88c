package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// DefaultAssetCacheCapacity is the default number of decoded title card
// images kept resident at any time.
const DefaultAssetCacheCapacity = 50

// ImageAsset is a decoded, ready-to-render title card image.
//
// Ownership: once an asset is handed to the AssetCache via Put, the cache is
// the sole authority over its lifetime. Holders of a pointer returned by Get
// must not call Release themselves.
type ImageAsset struct {
	Path   string        // Absolute path of the source file (cache key)
	Image  *ebiten.Image // Decoded (and possibly resized) pixel buffer
	Width  int           // Final width in pixels
	Height int           // Final height in pixels
}

// Release frees the decoded pixel buffer. Safe to call more than once.
func (a *ImageAsset) Release() {
	if a.Image != nil {
		a.Image.Deallocate()
		a.Image = nil
	}
}

// AssetCache is a bounded cache of decoded title card images keyed by the
// resolved file path.
//
// The eviction policy is approximate LRU: insertion order is tracked in a
// queue, a Put for an already-present path moves it to the most recent
// position, and inserting beyond capacity evicts the oldest-inserted entry.
// Exact access-recency is deliberately not tracked; the only guarantees are
// a hard bound on resident entries and monotonic eviction.
//
// Eviction releases the evicted asset's pixel buffer before the table entry
// is removed, so a full cache never leaks GPU/CPU image memory.
//
// Thread Safety Note:
// Like the rest of this package, AssetCache assumes the single-threaded
// game loop. Add external locking before touching it from other goroutines.
type AssetCache struct {
	capacity int
	entries  map[string]*ImageAsset
	order    []string // insertion order queue, oldest first

	// onEvict, when set, observes every released asset (eviction and Clear).
	// Used by tests to count destroys.
	onEvict func(*ImageAsset)
}

// NewAssetCache creates an empty cache. A capacity <= 0 falls back to
// DefaultAssetCacheCapacity.
func NewAssetCache(capacity int) *AssetCache {
	if capacity <= 0 {
		capacity = DefaultAssetCacheCapacity
	}
	return &AssetCache{
		capacity: capacity,
		entries:  make(map[string]*ImageAsset),
	}
}

// SetEvictHook installs an observer invoked after each asset release.
func (c *AssetCache) SetEvictHook(fn func(*ImageAsset)) {
	c.onEvict = fn
}

// Get returns the cached asset for path, if resident.
func (c *AssetCache) Get(path string) (*ImageAsset, bool) {
	asset, ok := c.entries[path]
	return asset, ok
}

// Len returns the number of resident assets.
func (c *AssetCache) Len() int {
	return len(c.entries)
}

// Put inserts an asset under its resolved path and evicts the
// oldest-inserted entries while the cache exceeds capacity.
//
// Re-inserting a present path refreshes its queue position. If the new
// asset differs from the resident one, the resident pixel buffer is
// released first.
func (c *AssetCache) Put(path string, asset *ImageAsset) {
	if asset == nil {
		return
	}

	if old, ok := c.entries[path]; ok {
		if old != asset {
			c.release(old)
		}
		c.removeFromOrder(path)
	}

	c.entries[path] = asset
	c.order = append(c.order, path)

	for len(c.entries) > c.capacity {
		c.evictOldest()
	}
}

// Clear releases every cached pixel buffer and empties the table.
// Called at teardown and when the image root changes.
func (c *AssetCache) Clear() {
	for _, asset := range c.entries {
		c.release(asset)
	}
	c.entries = make(map[string]*ImageAsset)
	c.order = c.order[:0]
}

// evictOldest drops the least-recently-inserted entry, releasing its
// buffer before removing the table entry.
func (c *AssetCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]

	asset, ok := c.entries[oldest]
	if !ok {
		return
	}
	c.release(asset)
	delete(c.entries, oldest)
	log.Printf("[AssetCache] Evicted %s (resident: %d/%d)", oldest, len(c.entries), c.capacity)
}

func (c *AssetCache) release(asset *ImageAsset) {
	asset.Release()
	if c.onEvict != nil {
		c.onEvict(asset)
	}
}

func (c *AssetCache) removeFromOrder(path string) {
	for i, p := range c.order {
		if p == path {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
