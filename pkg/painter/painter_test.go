package painter_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-pdfview/viewer/pkg/engine"
	"github.com/go-pdfview/viewer/pkg/geom"
	"github.com/go-pdfview/viewer/pkg/painter"
	"github.com/go-pdfview/viewer/pkg/render"
)

func solidBitmap(w, h int) engine.Bitmap {
	pix := make([]byte, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = 10, 20, 30, 255
	}
	return engine.Bitmap{PixWidth: w, PixHeight: h, Pix: pix}
}

func TestPaintBlitsExactCacheHit(t *testing.T) {
	cache := render.NewCache()
	queue := render.NewQueue()
	p := painter.New(1, cache, queue, painter.Config{})

	pv := painter.PageView{
		Page: 1, ZoomReal: 100, Resolution: 0, Visibility: 1,
		CanvasRect: geom.NewRectangle(0, 0, 100, 100),
	}
	key := render.Key{Doc: 1, Page: 1, Zoom: 100, Tile: render.Tile{}}
	cache.Add(key, solidBitmap(100, 100), nil)

	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	p.Paint(dst, []painter.PageView{pv}, nil)

	c := dst.RGBAAt(50, 50)
	assert.Equal(t, uint8(10), c.R)
	assert.Equal(t, uint8(20), c.G)
	assert.Equal(t, uint8(30), c.B)

	assert.Equal(t, 0, queue.Len(), "exact cache hit must not enqueue a render")
}

func TestPaintEnqueuesMissingTileAndDrawsPlaceholder(t *testing.T) {
	cache := render.NewCache()
	queue := render.NewQueue()
	p := painter.New(1, cache, queue, painter.Config{})

	pv := painter.PageView{
		Page: 1, ZoomReal: 100, Resolution: 0, Visibility: 1,
		CanvasRect: geom.NewRectangle(0, 0, 40, 40),
	}
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	p.Paint(dst, []painter.PageView{pv}, nil)

	require.Equal(t, 1, queue.Len())
	req := queue.PopNext()
	assert.Equal(t, 1, req.Key.Page)

	c := dst.RGBAAt(1, 1)
	assert.NotEqual(t, uint8(0xFF), c.R, "background must not show through the placeholder")
}

func TestPaintStretchesFuzzyZoomStandIn(t *testing.T) {
	cache := render.NewCache()
	queue := render.NewQueue()
	p := painter.New(1, cache, queue, painter.Config{})

	stale := render.Key{Doc: 1, Page: 1, Zoom: 50, Tile: render.Tile{}}
	cache.Add(stale, solidBitmap(10, 10), nil)

	pv := painter.PageView{
		Page: 1, ZoomReal: 200, Resolution: 0, Visibility: 1,
		CanvasRect: geom.NewRectangle(0, 0, 80, 80),
	}
	dst := image.NewRGBA(image.Rect(0, 0, 80, 80))
	p.Paint(dst, []painter.PageView{pv}, nil)

	c := dst.RGBAAt(40, 40)
	assert.NotEqual(t, color.RGBA{}, c)
	assert.Equal(t, 1, queue.Len(), "still enqueues the exact-zoom request")
}

func TestPaintSkipsPagesWithNoVisibility(t *testing.T) {
	cache := render.NewCache()
	queue := render.NewQueue()
	p := painter.New(1, cache, queue, painter.Config{})

	pv := painter.PageView{Page: 1, Visibility: 0, CanvasRect: geom.NewRectangle(0, 0, 10, 10)}
	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))
	p.Paint(dst, []painter.PageView{pv}, nil)

	assert.Equal(t, 0, queue.Len())
}

func TestPaintBlendsOverlay(t *testing.T) {
	cache := render.NewCache()
	queue := render.NewQueue()
	p := painter.New(1, cache, queue, painter.Config{})

	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	overlay := painter.Overlay{Rect: geom.NewRectangle(0, 0, 20, 20), Color: color.RGBA{R: 255, A: 128}}
	p.Paint(dst, nil, []painter.Overlay{overlay})

	c := dst.RGBAAt(5, 5)
	assert.NotEqual(t, uint8(0), c.R)
}
