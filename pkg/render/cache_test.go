package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-pdfview/viewer/pkg/engine"
	"github.com/go-pdfview/viewer/pkg/render"
)

func bmp() engine.Bitmap {
	return engine.Bitmap{PixWidth: 1, PixHeight: 1, Pix: []byte{0xFF, 0xFF, 0xFF, 0xFF}}
}

func TestFindMissOnEmptyCache(t *testing.T) {
	c := render.NewCache()
	_, ok := c.Find(key(1, 1), false)
	assert.False(t, ok)
}

func TestAddThenFindExact(t *testing.T) {
	c := render.NewCache()
	c.Add(key(1, 1), bmp(), nil)

	h, ok := c.Find(key(1, 1), false)
	require.True(t, ok)
	defer h.Release()
	assert.Equal(t, 1, h.Bitmap().PixWidth)
}

func TestFindFuzzyZoomIgnoresZoom(t *testing.T) {
	c := render.NewCache()
	k := key(1, 1)
	k.Zoom = 50
	c.Add(k, bmp(), nil)

	want := k
	want.Zoom = 133
	h, ok := c.Find(want, true)
	require.True(t, ok)
	h.Release()

	_, exact := c.Find(want, false)
	assert.False(t, exact)
}

func TestAddReplacesExactKeyEntry(t *testing.T) {
	c := render.NewCache()
	k := key(1, 1)
	c.Add(k, bmp(), nil)
	c.Add(k, bmp(), nil)
	assert.Equal(t, 1, c.Count())
}

func TestCacheBoundHoldsAfterManyAdds(t *testing.T) {
	c := render.NewCache()
	for i := 0; i < render.MaxEntries+50; i++ {
		c.Add(key(1, i), bmp(), nil)
	}
	assert.LessOrEqual(t, c.Count(), render.MaxEntries)
}

func TestEvictionPrefersInvisibleEntryForSameDoc(t *testing.T) {
	c := render.NewCache()
	for i := 0; i < render.MaxEntries; i++ {
		c.Add(key(1, i), bmp(), nil)
	}
	invisiblePage := 7
	isVisible := func(doc render.DocID, page int) bool { return page != invisiblePage }

	c.Add(key(1, 999), bmp(), isVisible)

	_, stillThere := c.Find(key(1, invisiblePage), false)
	assert.False(t, stillThere)
	_, newEntry := c.Find(key(1, 999), false)
	assert.True(t, newEntry)
}

func TestReleaseIsIdempotentSafeAfterUnlink(t *testing.T) {
	c := render.NewCache()
	k := key(1, 1)
	c.Add(k, bmp(), nil)

	h1, _ := c.Find(k, false)
	c.FreePage(1, nil, nil)
	// Entry is unlinked but h1 still holds a reference; a concurrent
	// Find must miss (no double-free, invariant 7).
	_, ok := c.Find(k, false)
	assert.False(t, ok)

	h1.Release()
	assert.Equal(t, 0, c.Count())
}

func TestFreeNotVisibleDropsOnlyInvisiblePages(t *testing.T) {
	c := render.NewCache()
	c.Add(key(1, 1), bmp(), nil)
	c.Add(key(1, 2), bmp(), nil)

	c.FreeNotVisible(func(doc render.DocID, page int) bool { return page == 1 })

	_, ok1 := c.Find(key(1, 1), false)
	_, ok2 := c.Find(key(1, 2), false)
	assert.True(t, ok1)
	assert.False(t, ok2)
}

func TestKeepForDocRebindsVisibleEntries(t *testing.T) {
	c := render.NewCache()
	c.Add(key(1, 1), bmp(), nil)
	c.Add(key(1, 2), bmp(), nil)

	c.KeepForDoc(1, 2, func(page int) bool { return page == 1 })

	h, ok := c.Find(key(2, 1), false)
	require.True(t, ok)
	assert.True(t, h.OutOfDate())
	h.Release()

	_, goneFromOld := c.Find(key(1, 1), false)
	assert.False(t, goneFromOld)
	_, droppedInvisible := c.Find(key(1, 2), false)
	assert.False(t, droppedInvisible)
}

func TestHasFreshMatchesQueueEnqueueShortCircuit(t *testing.T) {
	c := render.NewCache()
	c.Add(key(1, 1), bmp(), nil)
	assert.True(t, c.HasFresh(key(1, 1)))
	assert.False(t, c.HasFresh(key(1, 2)))
}
