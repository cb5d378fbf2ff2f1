package render_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-pdfview/viewer/pkg/render"
)

func key(doc render.DocID, page int) render.Key {
	return render.Key{Doc: doc, Page: page, Rotation: 0, Zoom: 100, Tile: render.Tile{}}
}

func TestEnqueueDedupKeepsOneRequestForIdenticalKey(t *testing.T) {
	q := render.NewQueue()
	k := key(1, 3)
	for i := 0; i < 5; i++ {
		q.Enqueue(&render.Request{Key: k, Timestamp: time.Now()}, nil)
	}
	assert.Equal(t, 1, q.Len())
}

func TestEnqueuePromotesExistingPendingToTail(t *testing.T) {
	q := render.NewQueue()
	a, b := key(1, 1), key(1, 2)
	q.Enqueue(&render.Request{Key: a, Timestamp: time.Now()}, nil)
	q.Enqueue(&render.Request{Key: b, Timestamp: time.Now()}, nil)
	q.Enqueue(&render.Request{Key: a, Timestamp: time.Now()}, nil)

	req := q.PopNext()
	require.NotNil(t, req)
	assert.Equal(t, a, req.Key)
}

func TestEnqueueAbortsStaleInFlightForSameTarget(t *testing.T) {
	q := render.NewQueue()
	k := key(1, 1)
	current := &render.Request{Key: k, Timestamp: time.Now()}
	q.Enqueue(current, nil)
	require.NotNil(t, q.PopNext())

	stale := k
	stale.Zoom = 200
	q.Enqueue(&render.Request{Key: stale, Timestamp: time.Now()}, nil)
	assert.True(t, current.Abort())
}

func TestEnqueueDropsOldestWhenFull(t *testing.T) {
	q := render.NewQueue()
	for i := 0; i < render.MaxRequests+2; i++ {
		q.Enqueue(&render.Request{Key: key(1, i), Timestamp: time.Now()}, nil)
	}
	assert.Equal(t, render.MaxRequests, q.Len())
}

type alwaysFresh struct{}

func (alwaysFresh) HasFresh(render.Key) bool { return true }

func TestEnqueueSkipsWhenCacheAlreadyFresh(t *testing.T) {
	q := render.NewQueue()
	q.Enqueue(&render.Request{Key: key(1, 1), Timestamp: time.Now()}, alwaysFresh{})
	assert.Equal(t, 0, q.Len())
}

func TestPopNextIsLIFO(t *testing.T) {
	q := render.NewQueue()
	q.Enqueue(&render.Request{Key: key(1, 1), Timestamp: time.Now()}, nil)
	q.Enqueue(&render.Request{Key: key(1, 2), Timestamp: time.Now()}, nil)

	req := q.PopNext()
	require.NotNil(t, req)
	assert.Equal(t, 2, req.Key.Page)
}

func TestCancelForDocRemovesPendingAndAbortsCurrent(t *testing.T) {
	q := render.NewQueue()
	q.Enqueue(&render.Request{Key: key(1, 1), Timestamp: time.Now()}, nil)
	current := q.PopNext()
	q.Enqueue(&render.Request{Key: key(1, 2), Timestamp: time.Now()}, nil)

	done := make(chan struct{})
	go func() {
		q.CancelForDoc(1)
		close(done)
	}()

	// The worker "finishes" the in-flight request after observing abort.
	for !current.Abort() {
		time.Sleep(time.Millisecond)
	}
	q.Release(current)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("CancelForDoc did not return after Release")
	}
	assert.Equal(t, 0, q.Len())
}

func TestClearForDocDoesNotAbortCurrent(t *testing.T) {
	q := render.NewQueue()
	q.Enqueue(&render.Request{Key: key(1, 1), Timestamp: time.Now()}, nil)
	current := q.PopNext()
	q.Enqueue(&render.Request{Key: key(1, 2), Timestamp: time.Now()}, nil)

	q.ClearForDoc(1, nil, nil)
	assert.Equal(t, 0, q.Len())
	assert.False(t, current.Abort())
}

func TestOldestAgeReportsMissWhenNoneQueued(t *testing.T) {
	q := render.NewQueue()
	_, ok := q.OldestAge(1, 1, render.Tile{})
	assert.False(t, ok)
}
