package render

import (
	"sync"

	"github.com/go-pdfview/viewer/pkg/engine"
)

// MaxEntries bounds the cache's live entry count (spec.md §4.5).
const MaxEntries = 256

// visibilityMarginTiles records the margin-tile fuzz factor of 2 for
// keeping near-visible tiles. FreeNotVisible does not read it: which
// pages count as near enough is decided entirely by the isVisible
// predicate it is given.
const visibilityMarginTiles = 2

type entry struct {
	key       Key
	bitmap    engine.Bitmap
	refs      int32
	unlinked  bool // removed from the index, waiting for last Release
	outOfDate bool // kept alive across keepForDoc but due for replacement
}

// Handle is a reference-counted view onto one cached bitmap. Callers
// (the painter, an in-flight completion) must call Release exactly
// once when done (spec.md invariant 7: "no double-free").
type Handle struct {
	cache *Cache
	e     *entry
}

// Bitmap returns the underlying pixels. Valid until Release.
func (h *Handle) Bitmap() engine.Bitmap { return h.e.bitmap }

// Key returns the cache key this handle's bitmap was stored under.
func (h *Handle) Key() Key { return h.e.key }

// OutOfDate reports whether KeepForDoc marked this entry out of date.
func (h *Handle) OutOfDate() bool { return h.e.outOfDate }

// Release decrements the reference count, freeing the bitmap once it
// reaches zero and the entry has been unlinked from the index.
func (h *Handle) Release() {
	h.cache.release(h.e)
}

// Cache is the fixed-capacity, reference-counted bitmap cache (spec.md
// §4.5). The zero value is not usable; use NewCache.
type Cache struct {
	mu      sync.Mutex
	entries []*entry
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{}
}

// Count returns the number of live (linked) entries.
func (c *Cache) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.entries {
		if !e.unlinked {
			n++
		}
	}
	return n
}

// HasFresh implements FreshChecker for Queue.Enqueue's step 4.
func (c *Cache) HasFresh(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if !e.unlinked && e.key == key {
			return true
		}
	}
	return false
}

// Find looks up key, taking a reference on a match. With fuzzyZoom,
// any entry for the same (doc, page, rotation, tile) is returned
// regardless of zoom, so the painter can stretch a stand-in while the
// exact render is pending (spec.md §4.5).
func (c *Cache) Find(key Key, fuzzyZoom bool) (*Handle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		if e.unlinked {
			continue
		}
		if e.key == key || (fuzzyZoom && sameExceptZoom(e.key, key)) {
			e.refs++
			return &Handle{cache: c, e: e}, true
		}
	}
	return nil, false
}

func sameExceptZoom(a, b Key) bool {
	return a.Doc == b.Doc && a.Page == b.Page && a.Rotation == b.Rotation && a.Tile == b.Tile
}

// Add installs bitmap under key, dropping any existing exact-key entry
// and evicting to make room if the cache is full (spec.md §4.5).
// isVisible, if non-nil, classifies a page as visible-or-near for the
// same-doc eviction preference; nil falls back to oldest-overall
// eviction only.
func (c *Cache) Add(key Key, bitmap engine.Bitmap, isVisible func(doc DocID, page int) bool) *Handle {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.dropExactLocked(key)

	if c.liveCountLocked() >= MaxEntries {
		c.evictOneLocked(key.Doc, isVisible)
	}

	e := &entry{key: key, bitmap: bitmap, refs: 1}
	c.entries = append(c.entries, e)
	return &Handle{cache: c, e: e}
}

func (c *Cache) dropExactLocked(key Key) {
	for _, e := range c.entries {
		if !e.unlinked && e.key == key {
			c.unlinkLocked(e)
		}
	}
}

func (c *Cache) liveCountLocked() int {
	n := 0
	for _, e := range c.entries {
		if !e.unlinked {
			n++
		}
	}
	return n
}

// evictOneLocked prefers an invisible entry belonging to doc (spec.md:
// "evicts either an invisible entry for the same doc or the oldest
// entry overall"), falling back to the oldest live entry.
func (c *Cache) evictOneLocked(doc DocID, isVisible func(DocID, int) bool) {
	if isVisible != nil {
		for _, e := range c.entries {
			if e.unlinked || e.key.Doc != doc {
				continue
			}
			if !isVisible(e.key.Doc, e.key.Page) {
				c.unlinkLocked(e)
				return
			}
		}
	}
	for _, e := range c.entries {
		if !e.unlinked {
			c.unlinkLocked(e)
			return
		}
	}
}

// unlinkLocked removes e from the index; the backing bitmap is only
// actually released once its refcount drops to zero (spec.md: "entries
// with refs > 1 are unlinked from the index but actual free waits for
// last release").
func (c *Cache) unlinkLocked(e *entry) {
	if e.unlinked {
		return
	}
	e.unlinked = true
	if e.refs == 0 {
		c.removeLocked(e)
	}
}

func (c *Cache) removeLocked(target *entry) {
	for i, e := range c.entries {
		if e == target {
			// Build a new backing array so a caller ranging over the old
			// slice (FreePage, FreeNotVisible, KeepForDoc) skips nothing.
			c.entries = append(c.entries[:i:i], c.entries[i+1:]...)
			return
		}
	}
}

func (c *Cache) release(e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e.refs > 0 {
		e.refs--
	}
	if e.refs == 0 && e.unlinked {
		c.removeLocked(e)
	}
}

// FreePage invalidates entries by scope: all of doc's entries when
// page is nil, one page's entries when tile is nil, or a single tile
// otherwise (spec.md §4.5).
func (c *Cache) FreePage(doc DocID, page *int, tile *Tile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if e.unlinked {
			continue
		}
		if matchesScope(e.key, doc, page, tile) {
			c.unlinkLocked(e)
		}
	}
}

// FreeNotVisible drops any entry for which isVisible(doc, page) reports
// false; how far from the viewport a page may lie and still count as
// visible is up to isVisible (spec.md §4.5).
func (c *Cache) FreeNotVisible(isVisible func(doc DocID, page int) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if e.unlinked {
			continue
		}
		if !isVisible(e.key.Doc, e.key.Page) {
			c.unlinkLocked(e)
		}
	}
}

// KeepForDoc rebinds entries for pages isVisible(page)==true from
// oldDoc to newDoc and marks them outOfDate; entries for other pages
// are unlinked. Find and HasFresh treat out-of-date entries like any
// other, so one stays in use until an Add for the same key replaces it
// or it is freed (spec.md §4.5: used on document reload).
func (c *Cache) KeepForDoc(oldDoc, newDoc DocID, isVisible func(page int) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if e.unlinked || e.key.Doc != oldDoc {
			continue
		}
		if isVisible == nil || isVisible(e.key.Page) {
			e.key.Doc = newDoc
			e.outOfDate = true
		} else {
			c.unlinkLocked(e)
		}
	}
}
