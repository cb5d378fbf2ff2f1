// Package worker runs the single background goroutine that turns
// queued render.Request values into cached bitmaps (spec.md §4.6). The
// event-loop shape — one goroutine blocking on a wake channel, popping
// and dispatching one request at a time — follows the actor pattern in
// other_examples/23396c2a_Nitro-lazypdf__faster_raster.go.go; the
// per-step skip/abort/invert/cache/repaint sequence is grounded on
// original_source/src/RenderCache.cc's RenderCacheThread.
package worker

import (
	"context"
	"image"
	"image/color"
	"image/draw"

	"github.com/go-pdfview/viewer/pkg/engine"
	"github.com/go-pdfview/viewer/pkg/log"
	"github.com/go-pdfview/viewer/pkg/render"
)

// DocHandle is the per-document state the worker needs beyond the
// render key: the engine to call into and the predicates governing
// whether a request should still be serviced.
type DocHandle struct {
	Engine engine.Iface

	// NearVisible reports whether page is visible or close enough to
	// the viewport to be worth rendering speculatively (spec.md §4.6
	// step 2).
	NearVisible func(page int) bool

	// DoNotRender is the document's shutdown flag (spec.md §4.6 step
	// 3): set while the document is being closed so in-flight and
	// about-to-start requests are skipped rather than racing teardown.
	DoNotRender func() bool
}

// Docs resolves a DocID to its current DocHandle. The worker looks
// documents up by ID on every request rather than holding one itself,
// so a closed-then-reopened document under the same ID is always
// serviced against live state.
type Docs interface {
	Lookup(doc render.DocID) (DocHandle, bool)
}

// Snapshot is the subset of global preferences the worker is allowed
// to observe directly (spec.md §5: "the worker observes specific
// fields ... through atomics or owner-granted snapshots").
type Snapshot struct {
	InvertColors bool
}

// Worker is the single render-dispatch goroutine. The zero value is
// not usable; use New.
type Worker struct {
	queue *render.Queue
	cache *render.Cache
	docs  Docs

	// Snapshot is polled fresh before each render; tests and the
	// owning pkg/system aggregator may swap it for a closure reading
	// an atomic or a prefs.Store.TakeSnapshot().
	Snapshot func() Snapshot

	// Repaint is called after a successful cache.Add (spec.md §4.6
	// step 7: "signal a UI repaint").
	Repaint func(doc render.DocID, page int)

	// FreeMemoryEachRound enables step 8's optional invisible-tile
	// eviction after every render; off by default since it trades
	// memory for extra engine calls on the next scroll.
	FreeMemoryEachRound bool
	IsVisible           func(doc render.DocID, page int) bool
}

// New returns a Worker dispatching against queue/cache, resolving
// documents through docs.
func New(queue *render.Queue, cache *render.Cache, docs Docs) *Worker {
	return &Worker{
		queue:    queue,
		cache:    cache,
		docs:     docs,
		Snapshot: func() Snapshot { return Snapshot{} },
		Repaint:  func(render.DocID, int) {},
	}
}

// Run blocks, servicing requests until ctx is cancelled. Callers
// typically run this in its own goroutine — exactly one, per spec.md
// §4.6's concurrency contract.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.queue.Wake():
			for {
				req := w.queue.PopNext()
				if req == nil {
					break
				}
				w.service(ctx, req)
				if ctx.Err() != nil {
					return
				}
			}
		}
	}
}

func (w *Worker) service(ctx context.Context, req *render.Request) {
	defer w.queue.Release(req)

	doc, ok := w.docs.Lookup(req.Key.Doc)
	if !ok {
		return
	}

	// Step 2: a request with no completion callback targeting a page
	// that has scrolled out of view is stale; drop it.
	if req.Completion == nil && doc.NearVisible != nil && !doc.NearVisible(req.Key.Page) {
		log.Trace.Printf("worker: skip page %d, not near-visible", req.Key.Page)
		return
	}
	// Step 3: document is being torn down.
	if doc.DoNotRender != nil && doc.DoNotRender() {
		return
	}

	mediabox := doc.Engine.PageMediabox(req.Key.Page)
	rect := render.TileRect(mediabox, req.Key.Tile)

	bmp, err := doc.Engine.RenderBitmap(ctx, req.Key.Page, req.Key.Zoom, req.Key.Rotation, rect, req.Abort)
	if req.Abort() {
		// Step 5: discard whatever the engine produced.
		return
	}
	if err != nil {
		log.Info.Printf("worker: render failed for page %d: %v", req.Key.Page, err)
		return
	}

	if snap := w.Snapshot(); snap.InvertColors {
		invertBitmap(&bmp)
	}

	w.cache.Add(req.Key, bmp, w.IsVisible).Release()
	w.Repaint(req.Key.Doc, req.Key.Page)

	if req.Completion != nil {
		req.Completion()
	}

	if w.FreeMemoryEachRound && w.IsVisible != nil {
		w.cache.FreeNotVisible(w.IsVisible)
	}
}

// invertBitmap negates RGB in place, leaving alpha untouched — the
// optional color-invert post-process of spec.md §4.6 step 6, used for
// a dark reading mode.
func invertBitmap(bmp *engine.Bitmap) {
	img := &image.RGBA{
		Pix:    bmp.Pix,
		Stride: bmp.PixWidth * 4,
		Rect:   image.Rect(0, 0, bmp.PixWidth, bmp.PixHeight),
	}
	draw.Draw(img, img.Bounds(), &invertedSource{img}, image.Point{}, draw.Src)
}

// invertedSource adapts an *image.RGBA as an image.Image source that
// yields color-inverted pixels, letting image/draw's Draw do the pixel
// walk instead of a hand-rolled loop.
type invertedSource struct {
	*image.RGBA
}

func (s *invertedSource) At(x, y int) color.Color {
	c := s.RGBA.RGBAAt(x, y)
	return color.RGBA{R: 0xFF - c.R, G: 0xFF - c.G, B: 0xFF - c.B, A: c.A}
}
