package system

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/go-pdfview/viewer/pkg/displaymodel"
	"github.com/go-pdfview/viewer/pkg/engine"
	"github.com/go-pdfview/viewer/pkg/geom"
	"github.com/go-pdfview/viewer/pkg/log"
	"github.com/go-pdfview/viewer/pkg/prefs"
	"github.com/go-pdfview/viewer/pkg/render"
	"github.com/go-pdfview/viewer/pkg/worker"
)

// RenderSystem aggregates everything a host application embeds: the
// shared cache/queue/worker, the prefs store, and one DisplayModel per
// open document, addressed by an opaque DocID so documents never hold
// a reference back to the system that owns them (spec.md §9 design
// note: avoids the UI <-> core cyclic reference the original carries
// via raw pointers).
type RenderSystem struct {
	Config Configuration
	Prefs  *prefs.Store

	cache  *render.Cache
	queue  *render.Queue
	worker *worker.Worker

	mu      sync.Mutex
	docs    map[render.DocID]*displaymodel.DisplayModel
	nextDoc uint64

	cancel context.CancelFunc
}

// New constructs a RenderSystem and starts its render worker goroutine.
func New(cfg Configuration, prefsStore *prefs.Store) *RenderSystem {
	s := &RenderSystem{
		Config: cfg,
		Prefs:  prefsStore,
		cache:  render.NewCache(),
		queue:  render.NewQueue(),
		docs:   map[render.DocID]*displaymodel.DisplayModel{},
	}
	s.worker = worker.New(s.queue, s.cache, docLookup{s})
	s.worker.IsVisible = s.isVisible
	s.worker.Snapshot = func() worker.Snapshot {
		return worker.Snapshot{InvertColors: s.Prefs.TakeSnapshot().InvertColors}
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.worker.Run(ctx)
	return s
}

// Shutdown stops the render worker goroutine. Open documents should be
// closed first via CloseDocument.
func (s *RenderSystem) Shutdown() {
	s.cancel()
}

// docLookup adapts RenderSystem to worker.Docs without exposing the
// mutex-guarded map directly.
type docLookup struct{ s *RenderSystem }

func (d docLookup) Lookup(id render.DocID) (worker.DocHandle, bool) {
	d.s.mu.Lock()
	dm, ok := d.s.docs[id]
	d.s.mu.Unlock()
	if !ok {
		return worker.DocHandle{}, false
	}
	return worker.DocHandle{
		Engine:      dm.Engine,
		NearVisible: dm.PageVisibleNearby,
		DoNotRender: dm.DontRender,
	}, true
}

func (s *RenderSystem) isVisible(doc render.DocID, page int) bool {
	s.mu.Lock()
	dm, ok := s.docs[doc]
	s.mu.Unlock()
	if !ok {
		return false
	}
	return dm.PageVisibleNearby(page)
}

// OpenDocument creates a DisplayModel for eng and registers it under a
// fresh DocID.
func (s *RenderSystem) OpenDocument(eng engine.Iface, viewport geom.Size) (render.DocID, *displaymodel.DisplayModel) {
	id := render.DocID(atomic.AddUint64(&s.nextDoc, 1))
	dm := displaymodel.New(id, eng, viewport)

	s.mu.Lock()
	s.docs[id] = dm
	s.mu.Unlock()
	return id, dm
}

// CloseDocument tears down doc per spec.md §3's lifecycle: forget it,
// mark it do-not-render, cancel its in-flight/pending requests, then
// free its cache entries (spec.md §5: "cancelForDoc + freeForDoc
// happen-before engine destruction").
func (s *RenderSystem) CloseDocument(doc render.DocID) {
	s.mu.Lock()
	dm, ok := s.docs[doc]
	if ok {
		delete(s.docs, doc)
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	dm.SetDontRender(true)
	s.queue.CancelForDoc(doc)
	s.cache.FreePage(doc, nil, nil)
}

// ReloadDocument rebinds doc's engine handle (e.g. after an external
// file change invalidated the old one), keeping cache entries for
// currently visible pages alive as out-of-date stand-ins (spec.md
// §4.5 keepForDoc).
func (s *RenderSystem) ReloadDocument(doc render.DocID, eng engine.Iface) render.DocID {
	s.mu.Lock()
	dm, ok := s.docs[doc]
	s.mu.Unlock()
	if !ok {
		return doc
	}

	viewport := dm.CanvasSize() // best-effort; host should re-call SetViewport
	newID := render.DocID(atomic.AddUint64(&s.nextDoc, 1))
	s.cache.KeepForDoc(doc, newID, dm.PageVisibleNearby)

	newDM := displaymodel.New(newID, eng, viewport)
	s.mu.Lock()
	delete(s.docs, doc)
	s.docs[newID] = newDM
	s.mu.Unlock()

	log.Info.Printf("system: reloaded document %d as %d", doc, newID)
	return newID
}

// Cache exposes the shared bitmap cache for the painter.
func (s *RenderSystem) Cache() *render.Cache { return s.cache }

// Queue exposes the shared render queue for the painter.
func (s *RenderSystem) Queue() *render.Queue { return s.queue }

// Document returns the DisplayModel registered under doc, if any.
func (s *RenderSystem) Document(doc render.DocID) (*displaymodel.DisplayModel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dm, ok := s.docs[doc]
	return dm, ok
}

// DocCount returns the number of currently open documents.
func (s *RenderSystem) DocCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}
