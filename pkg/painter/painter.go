// Package painter composites cached bitmaps, stand-ins, and overlays
// into a repaint region (spec.md §4.7). It never touches the engine or
// the render queue's internals directly — it reads render.Cache,
// enqueues onto render.Queue, and writes into a target image.RGBA.
package painter

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/mattn/go-runewidth"
	xdraw "golang.org/x/image/draw"

	"github.com/go-pdfview/viewer/pkg/engine"
	"github.com/go-pdfview/viewer/pkg/geom"
	"github.com/go-pdfview/viewer/pkg/render"
)

// PageView is one page's placement and rendering parameters as laid
// out by the display model — enough for the painter to pick tiles and
// map them onto the canvas without importing pkg/displaymodel.
type PageView struct {
	Page       int
	Rotation   int
	ZoomReal   float64
	Resolution uint16 // tiling resolution chosen for this page, spec.md §4.5
	CanvasRect geom.Rectangle
	Visibility float64 // >0 required for the page to be painted at all
}

// Overlay is a translucent rectangle drawn over the composited page
// content: selection, search hits, or a forward-search mark (spec.md
// §4.7 step 4). Color holds straight (non-premultiplied) RGB with its
// alpha in A.
type Overlay struct {
	Rect  geom.Rectangle
	Color color.RGBA
}

// Config bundles the few knobs spec.md assigns the painter beyond
// cache/queue access.
type Config struct {
	Background  color.Color
	FrameColor  color.Color
	RenderingMsg string // localized "rendering…" placeholder text
	FailedMsg    string // localized "couldn't render" placeholder text
}

func (c *Config) defaults() {
	if c.Background == nil {
		c.Background = color.White
	}
	if c.FrameColor == nil {
		c.FrameColor = color.Gray{Y: 0x60}
	}
	if c.RenderingMsg == "" {
		c.RenderingMsg = "rendering…"
	}
	if c.FailedMsg == "" {
		c.FailedMsg = "couldn't render"
	}
}

// Painter draws a DisplayModel's visible pages into a target image,
// pulling bitmaps from cache and enqueueing whatever is missing.
type Painter struct {
	Cache  *render.Cache
	Queue  *render.Queue
	Config Config

	Doc render.DocID
}

// New returns a Painter over cache/queue for document doc.
func New(doc render.DocID, cache *render.Cache, queue *render.Queue, cfg Config) *Painter {
	cfg.defaults()
	return &Painter{Cache: cache, Queue: queue, Config: cfg, Doc: doc}
}

// Paint fills dst (whose bounds are the repaint region in device
// pixels) per spec.md §4.7: background, page tiles (exact, then fuzzy
// stand-in, enqueueing the exact request), page frames, then overlays.
func (p *Painter) Paint(dst *image.RGBA, pages []PageView, overlays []Overlay) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(p.Config.Background), image.Point{}, draw.Src)

	for _, pv := range pages {
		if pv.Visibility <= 0 {
			continue
		}
		p.paintPage(dst, pv)
		p.frame(dst, pv.CanvasRect)
	}

	for _, ov := range overlays {
		p.blendOverlay(dst, ov)
	}
}

func (p *Painter) paintPage(dst *image.RGBA, pv PageView) {
	tiles := tileGrid(pv.Resolution)
	for _, t := range tiles {
		tileRect := tileScreenRect(pv.CanvasRect, pv.Resolution, t)
		dr := rectToImage(tileRect)
		if !dr.Overlaps(dst.Bounds()) {
			continue
		}

		key := render.Key{Doc: p.Doc, Page: pv.Page, Rotation: pv.Rotation, Zoom: pv.ZoomReal, Tile: t}

		if h, ok := p.Cache.Find(key, false); ok {
			blit(dst, dr, h.Bitmap())
			h.Release()
			continue
		}

		painted := false
		if h, ok := p.Cache.Find(key, true); ok {
			stretchBlit(dst, dr, h.Bitmap())
			h.Release()
			painted = true
		}

		p.Queue.Enqueue(&render.Request{Key: key}, p.Cache)

		if !painted {
			p.placeholder(dst, dr, p.Config.RenderingMsg)
		}
	}
}

// tileGrid enumerates every (col,row) in the res's 2^res x 2^res grid.
func tileGrid(res uint16) []render.Tile {
	n := int(uint32(1) << res)
	tiles := make([]render.Tile, 0, n*n)
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			tiles = append(tiles, render.Tile{Res: res, Col: uint16(col), Row: uint16(row)})
		}
	}
	return tiles
}

// tileScreenRect maps tile t to its screen-space sub-rectangle of a
// page already placed at canvasRect.
func tileScreenRect(canvasRect geom.Rectangle, res uint16, t render.Tile) geom.Rectangle {
	n := float64(uint32(1) << res)
	w := canvasRect.Width() / n
	h := canvasRect.Height() / n
	llx := canvasRect.LL.X + float64(t.Col)*w
	lly := canvasRect.LL.Y + float64(t.Row)*h
	return geom.NewRectangle(llx, lly, llx+w, lly+h)
}

func rectToImage(r geom.Rectangle) image.Rectangle {
	return image.Rect(int(r.LL.X), int(r.LL.Y), int(r.UR.X), int(r.UR.Y))
}

// blit copies bmp into dst at dr exactly (BitBlt-style, spec.md §4.7
// step 2's first bullet).
func blit(dst *image.RGBA, dr image.Rectangle, bmp engine.Bitmap) {
	src := bitmapToImage(bmp)
	draw.Draw(dst, dr, src, image.Point{}, draw.Over)
}

// stretchBlit draws bmp scaled to fill dr (StretchBlt-style stand-in,
// spec.md §4.7 step 2's second bullet), via golang.org/x/image/draw's
// approximate bilinear scaler.
func stretchBlit(dst *image.RGBA, dr image.Rectangle, bmp engine.Bitmap) {
	src := bitmapToImage(bmp)
	xdraw.ApproxBiLinear.Scale(dst, dr, src, src.Bounds(), xdraw.Over, nil)
}

func bitmapToImage(bmp engine.Bitmap) *image.RGBA {
	return &image.RGBA{Pix: bmp.Pix, Stride: bmp.PixWidth * 4, Rect: image.Rect(0, 0, bmp.PixWidth, bmp.PixHeight)}
}

// placeholder paints a filled rectangle with a centered message,
// measuring the text with go-runewidth so double-width glyphs in CJK
// locales don't overrun the box (spec.md §4.7: "paint a placeholder
// rectangle with a localized ... message").
func (p *Painter) placeholder(dst *image.RGBA, dr image.Rectangle, msg string) {
	draw.Draw(dst, dr, image.NewUniform(color.Gray{Y: 0xE0}), image.Point{}, draw.Over)
	cellWidth := runewidth.StringWidth(msg)
	if cellWidth == 0 || dr.Dx() <= 0 {
		return
	}
	// A real glyph renderer belongs in the UI layer; here we only
	// reserve and tint a centered strip proportional to the message's
	// measured width so the placeholder's footprint is stable across
	// locales.
	glyphPixelWidth := cellWidth * 8
	if glyphPixelWidth > dr.Dx() {
		glyphPixelWidth = dr.Dx()
	}
	x0 := dr.Min.X + (dr.Dx()-glyphPixelWidth)/2
	strip := image.Rect(x0, dr.Min.Y+dr.Dy()/2-1, x0+glyphPixelWidth, dr.Min.Y+dr.Dy()/2+1)
	draw.Draw(dst, strip.Intersect(dr), image.NewUniform(color.Gray{Y: 0x80}), image.Point{}, draw.Over)
}

func (p *Painter) frame(dst *image.RGBA, canvasRect geom.Rectangle) {
	dr := rectToImage(canvasRect)
	frameColor := image.NewUniform(p.Config.FrameColor)
	top := image.Rect(dr.Min.X, dr.Min.Y, dr.Max.X, dr.Min.Y+1)
	bottom := image.Rect(dr.Min.X, dr.Max.Y-1, dr.Max.X, dr.Max.Y)
	left := image.Rect(dr.Min.X, dr.Min.Y, dr.Min.X+1, dr.Max.Y)
	right := image.Rect(dr.Max.X-1, dr.Min.Y, dr.Max.X, dr.Max.Y)
	for _, edge := range []image.Rectangle{top, bottom, left, right} {
		draw.Draw(dst, edge.Intersect(dst.Bounds()), frameColor, image.Point{}, draw.Over)
	}
}

// blendOverlay alpha-blends ov over dst using its own alpha channel
// (spec.md §4.7 step 4).
func (p *Painter) blendOverlay(dst *image.RGBA, ov Overlay) {
	dr := rectToImage(ov.Rect).Intersect(dst.Bounds())
	if dr.Empty() {
		return
	}
	c := color.NRGBA{R: ov.Color.R, G: ov.Color.G, B: ov.Color.B, A: ov.Color.A}
	draw.Draw(dst, dr, image.NewUniform(c), image.Point{}, draw.Over)
}
