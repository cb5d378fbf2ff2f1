// Package displaymodel lays out a document's pages on a virtual
// canvas under a chosen display mode, zoom, and rotation, tracks
// visibility, and drives navigation and coordinate conversion
// (spec.md §4.1). It owns no bitmaps and never calls into pkg/render
// directly — the painter reads PageInfo to decide what to draw.
package displaymodel

import (
	"math"

	"github.com/go-pdfview/viewer/pkg/engine"
	"github.com/go-pdfview/viewer/pkg/geom"
	"github.com/go-pdfview/viewer/pkg/render"
	"github.com/go-pdfview/viewer/pkg/viewmode"
)

// PageInfo is one page's layout and visibility state (spec.md §3).
type PageInfo struct {
	PageSize     geom.Size
	PageRotation int

	Shown      bool
	Visibility float64
	CanvasRect geom.Rectangle

	// SrcRect/DstRect are recomputed by RecomputeVisibility: the part
	// of the page bitmap on screen and where it lands in viewport
	// coordinates. Both are zero when Visibility == 0.
	SrcRect, DstRect geom.Rectangle
}

// ScrollState is the canonical serialization of "where the user is
// looking" (spec.md §4.1). X==-1/Y==-1 are sentinels meaning "keep
// whatever margin was previously visible".
type ScrollState struct {
	Page int
	X, Y float64
}

// navRingCapacity bounds the back/forward navigation history.
const navRingCapacity = 50

// DisplayModel is the per-document layout/navigation engine. Not safe
// for concurrent use: spec.md §5 dedicates it to the UI thread only.
type DisplayModel struct {
	Doc    render.DocID
	Engine engine.Iface

	mode        viewmode.DisplayMode
	rotation    int
	zoomVirtual float64
	zoomReal    float64
	dpi         float64

	viewport geom.Size
	padding  viewmode.Padding

	pages      []PageInfo
	startPage  int // 1-indexed first shown page in non-continuous modes
	areaOffset geom.Point
	canvasSize geom.Size

	presentation     bool
	presentationSave presentationSaved
	navHistory       []ScrollState

	links            []engine.Link
	linksBuiltForLen int

	tocToggles map[int]bool

	// dontRender is polled by the render worker (spec.md §4.6 step 3)
	// and set true while the document is being closed.
	dontRender bool
}

// New returns a DisplayModel for doc/eng with default mode/zoom and
// the given viewport, already laid out.
func New(doc render.DocID, eng engine.Iface, viewport geom.Size) *DisplayModel {
	dm := &DisplayModel{
		Doc:         doc,
		Engine:      eng,
		mode:        viewmode.DisplayModeAutomatic,
		rotation:    0,
		zoomVirtual: viewmode.ZoomFitPage,
		dpi:         viewmode.ReferenceDPI,
		viewport:    viewport,
		padding:     viewmode.DefaultPadding(),
		startPage:   1,
		tocToggles:  map[int]bool{},
	}
	dm.pages = make([]PageInfo, eng.PageCount())
	for i := range dm.pages {
		dm.pages[i].PageSize = eng.PageSize(i + 1)
		dm.pages[i].PageRotation = eng.PageRotation(i + 1)
	}
	dm.Relayout()
	return dm
}

// PageCount returns the document's page count.
func (dm *DisplayModel) PageCount() int { return len(dm.pages) }

// Page returns page n's (1-indexed) current layout info.
func (dm *DisplayModel) Page(n int) (PageInfo, bool) {
	if n < 1 || n > len(dm.pages) {
		return PageInfo{}, false
	}
	return dm.pages[n-1], true
}

// Mode returns the active display mode.
func (dm *DisplayModel) Mode() viewmode.DisplayMode { return dm.mode }

// ZoomVirtual returns the configured virtual zoom (a percentage or a
// sentinel such as viewmode.ZoomFitPage).
func (dm *DisplayModel) ZoomVirtual() float64 { return dm.zoomVirtual }

// ZoomReal returns the real (engine) zoom percentage produced by the
// last Relayout.
func (dm *DisplayModel) ZoomReal() float64 { return dm.zoomReal }

// Rotation returns the normalized global rotation.
func (dm *DisplayModel) Rotation() int { return dm.rotation }

// CanvasSize returns the full laid-out canvas size.
func (dm *DisplayModel) CanvasSize() geom.Size { return dm.canvasSize }

// SetDontRender toggles the shutdown flag RenderWorker polls before
// servicing requests against this document (spec.md §4.6 step 3).
func (dm *DisplayModel) SetDontRender(v bool) { dm.dontRender = v }

// DontRender reports the current shutdown flag.
func (dm *DisplayModel) DontRender() bool { return dm.dontRender }

// SetMode changes the display mode and relayouts.
func (dm *DisplayModel) SetMode(mode viewmode.DisplayMode) {
	if dm.mode == mode {
		return
	}
	cur := dm.CurrentPage()
	dm.mode = mode
	if !mode.IsContinuous() {
		dm.startPage = dm.snapToRowStart(cur, mode.Columns())
	}
	dm.Relayout()
}

// SetViewport updates the viewport size and relayouts (spec.md §4.1:
// "recomputed on ... viewport resize").
func (dm *DisplayModel) SetViewport(size geom.Size) {
	dm.viewport = size
	dm.Relayout()
}

// Presentation reports whether presentation-mode padding is active.
// EnterPresentation/ExitPresentation (presentation.go) toggle it.
func (dm *DisplayModel) Presentation() bool { return dm.presentation }

// columns resolves mode to 1 or 2 (spec.md §4.1 step 1).
func columns(mode viewmode.DisplayMode) int { return mode.Columns() }

// Relayout recomputes every page's canvasRect and the canvas size
// following spec.md §4.1's five-step layout algorithm, then
// recomputes visibility for the current scroll offset.
func (dm *DisplayModel) Relayout() {
	if len(dm.pages) == 0 {
		return
	}
	cols := columns(dm.mode)
	dm.markShown(cols)
	dm.zoomReal = dm.resolveZoomReal(cols)
	dm.layoutPages(cols)
	dm.RecomputeVisibility()
}

// markShown sets PageInfo.Shown for every page per spec.md §3: all
// pages in Continuous modes, else `cols` pages starting at startPage.
// BookView leaves the first row's left cell empty, so with startPage 1
// it shows page 1 alone.
func (dm *DisplayModel) markShown(cols int) {
	if dm.mode.IsContinuous() {
		for i := range dm.pages {
			dm.pages[i].Shown = true
		}
		return
	}
	for i := range dm.pages {
		dm.pages[i].Shown = false
	}
	last := dm.startPage + cols - 1
	if dm.mode.IsBookView() && cols == 2 && dm.startPage == 1 {
		last = 1
	}
	for p := dm.startPage; p <= last && p <= len(dm.pages); p++ {
		if p >= 1 {
			dm.pages[p-1].Shown = true
		}
	}
}

// rotatedSize swaps Dx/Dy when the combined rotation is 90 or 270
// (spec.md §4.1 step 3).
func (dm *DisplayModel) rotatedSize(p PageInfo) geom.Size {
	total := geom.NormalizeRotation(dm.rotation + p.PageRotation)
	return p.PageSize.Rotated(total)
}

func (dm *DisplayModel) resolveZoomReal(cols int) float64 {
	switch dm.zoomVirtual {
	case viewmode.ZoomFitWidth, viewmode.ZoomFitPage:
		return dm.fitZoom(cols, dm.zoomVirtual == viewmode.ZoomFitPage)
	case viewmode.ZoomFitContent:
		return dm.fitContentZoom(cols)
	default:
		return dm.zoomVirtual * viewmode.DPIFactor(dm.dpi)
	}
}

// fitZoom computes, for every shown page, the real zoom that fits its
// rotated size into the viewport (minus padding), and returns the
// minimum across shown pages so the widest/tallest page still fits
// (spec.md §4.1 step 2). fitPage also bounds by height; fitWidth only
// by the column width share.
func (dm *DisplayModel) fitZoom(cols int, fitPage bool) float64 {
	availW := dm.viewport.Dx - dm.padding.BorderLeft - dm.padding.BorderRight - float64(cols-1)*dm.padding.BetweenX
	availH := dm.viewport.Dy - dm.padding.BorderTop - dm.padding.BorderBottom
	colW := availW / float64(cols)

	best := math.MaxFloat64
	any := false
	for _, p := range dm.pages {
		if !p.Shown {
			continue
		}
		sz := dm.rotatedSize(p)
		if sz.Dx <= 0 {
			continue
		}
		z := colW / sz.Dx * 100
		if fitPage && sz.Dy > 0 {
			zh := availH / sz.Dy * 100
			if zh < z {
				z = zh
			}
		}
		if z < best {
			best = z
		}
		any = true
	}
	if !any {
		return 100
	}
	return viewmode.ClampZoom(best)
}

// fitContentZoom is fitZoom's content-bbox variant (spec.md §4.1 step
// 2's FitContent bullet).
func (dm *DisplayModel) fitContentZoom(cols int) float64 {
	availW := dm.viewport.Dx - dm.padding.BorderLeft - dm.padding.BorderRight - float64(cols-1)*dm.padding.BetweenX
	colW := availW / float64(cols)

	best := math.MaxFloat64
	any := false
	for i, p := range dm.pages {
		if !p.Shown {
			continue
		}
		box := dm.Engine.PageContentBox(i + 1)
		total := geom.NormalizeRotation(dm.rotation + p.PageRotation)
		w := box.Width()
		if geom.Swapped(total) {
			w = box.Height()
		}
		if w <= 0 {
			continue
		}
		z := colW / w * 100
		if z < best {
			best = z
		}
		any = true
	}
	if !any {
		return 100
	}
	return viewmode.ClampZoom(best)
}

// layoutPages places shown pages into rows of `cols`, per spec.md
// §4.1 steps 3-6.
func (dm *DisplayModel) layoutPages(cols int) {
	bookView := dm.mode.IsBookView()

	type cell struct {
		pageIdx int // -1 for an empty cell
		size    geom.Size
	}
	var rows [][]cell

	shownIdx := make([]int, 0, len(dm.pages))
	for i, p := range dm.pages {
		if p.Shown {
			shownIdx = append(shownIdx, i)
		}
	}

	row := make([]cell, 0, cols)
	if bookView && cols == 2 && len(shownIdx) > 0 && shownIdx[0] == 0 {
		row = append(row, cell{pageIdx: -1})
	}
	scale := dm.zoomReal / 100
	for _, idx := range shownIdx {
		sz := dm.rotatedSize(dm.pages[idx])
		row = append(row, cell{pageIdx: idx, size: geom.Size{Dx: sz.Dx * scale, Dy: sz.Dy * scale}})
		if len(row) == cols {
			rows = append(rows, row)
			row = make([]cell, 0, cols)
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	// First pass: column widths (max width per column across rows) and
	// row heights, so pages can be centered within their column.
	colWidths := make([]float64, cols)
	for _, r := range rows {
		for c, cl := range r {
			if cl.pageIdx < 0 {
				continue
			}
			if cl.size.Dx > colWidths[c] {
				colWidths[c] = cl.size.Dx
			}
		}
	}

	totalContentW := dm.padding.BorderLeft + dm.padding.BorderRight
	for c, w := range colWidths {
		totalContentW += w
		if c > 0 {
			totalContentW += dm.padding.BetweenX
		}
	}

	y := dm.padding.BorderTop
	var totalContentH float64
	for _, r := range rows {
		rowH := 0.0
		for _, cl := range r {
			if cl.size.Dy > rowH {
				rowH = cl.size.Dy
			}
		}
		x := dm.padding.BorderLeft
		for c, cl := range r {
			cellW := colWidths[c]
			if cl.pageIdx >= 0 {
				cx := x + (cellW-cl.size.Dx)/2
				cy := y + (rowH-cl.size.Dy)/2
				dm.pages[cl.pageIdx].CanvasRect = geom.NewRectangle(cx, cy, cx+cl.size.Dx, cy+cl.size.Dy)
			}
			x += cellW + dm.padding.BetweenX
		}
		y += rowH + dm.padding.BetweenY
		totalContentH = y
	}
	if len(rows) > 0 {
		totalContentH += dm.padding.BorderBottom - dm.padding.BetweenY
	} else {
		totalContentH = dm.padding.BorderTop + dm.padding.BorderBottom
	}

	dm.canvasSize = geom.Size{Dx: totalContentW, Dy: totalContentH}

	// Step 5: center when the canvas is smaller than the viewport.
	var centerX, centerY float64
	if totalContentW < dm.viewport.Dx {
		centerX = (dm.viewport.Dx - totalContentW) / 2
	}
	if totalContentH < dm.viewport.Dy {
		centerY = (dm.viewport.Dy - totalContentH) / 2
	}
	if centerX != 0 || centerY != 0 {
		for i := range dm.pages {
			if !dm.pages[i].Shown {
				continue
			}
			dm.pages[i].CanvasRect = dm.pages[i].CanvasRect.Translate(centerX, centerY)
		}
		dm.canvasSize.Dx = math.Max(dm.canvasSize.Dx, dm.viewport.Dx)
		dm.canvasSize.Dy = math.Max(dm.canvasSize.Dy, dm.viewport.Dy)
	}
}

// RecomputeVisibility intersects every shown page's canvasRect
// (translated by -areaOffset) with the viewport, recording visibility
// fraction and the clipped source/destination rectangles (spec.md
// §4.1 "Visibility").
func (dm *DisplayModel) RecomputeVisibility() {
	viewportRect := geom.NewRectangle(dm.areaOffset.X, dm.areaOffset.Y,
		dm.areaOffset.X+dm.viewport.Dx, dm.areaOffset.Y+dm.viewport.Dy)

	for i := range dm.pages {
		p := &dm.pages[i]
		if !p.Shown {
			p.Visibility = 0
			p.SrcRect, p.DstRect = geom.Rectangle{}, geom.Rectangle{}
			continue
		}
		inter, ok := p.CanvasRect.Intersect(viewportRect)
		if !ok || p.CanvasRect.Area() == 0 {
			p.Visibility = 0
			p.SrcRect, p.DstRect = geom.Rectangle{}, geom.Rectangle{}
			continue
		}
		p.Visibility = inter.Area() / p.CanvasRect.Area()
		p.SrcRect = inter.Translate(-p.CanvasRect.LL.X, -p.CanvasRect.LL.Y)
		p.DstRect = inter.Translate(-dm.areaOffset.X, -dm.areaOffset.Y)
	}
}

// pageVisibleNearby reports whether page is visible now or within one
// viewport width/height of the viewport — the predicate
// RenderWorker step 2 and BitmapCache.FreeNotVisible need (spec.md
// §4.5's margin-tile fuzz factor, §4.6 step 2).
func (dm *DisplayModel) pageVisibleNearby(n int) bool {
	p, ok := dm.Page(n)
	if !ok {
		return false
	}
	if p.Visibility > 0 {
		return true
	}
	if !p.Shown {
		return false
	}
	margin := geom.Size{Dx: dm.viewport.Dx, Dy: dm.viewport.Dy}
	expanded := geom.NewRectangle(
		dm.areaOffset.X-margin.Dx, dm.areaOffset.Y-margin.Dy,
		dm.areaOffset.X+dm.viewport.Dx+margin.Dx, dm.areaOffset.Y+dm.viewport.Dy+margin.Dy,
	)
	_, ok = p.CanvasRect.Intersect(expanded)
	return ok
}

// PageVisibleNearby exports pageVisibleNearby for worker.DocHandle
// wiring (pkg/system binds it as NearVisible).
func (dm *DisplayModel) PageVisibleNearby(n int) bool { return dm.pageVisibleNearby(n) }

// CurrentPage returns the page most representative of what the user
// is looking at (spec.md §4.1 "Current page").
func (dm *DisplayModel) CurrentPage() int {
	if !dm.mode.IsContinuous() {
		return dm.startPage
	}

	best, bestVis := 0, -1.0
	for i, p := range dm.pages {
		if p.Visibility > bestVis {
			bestVis = p.Visibility
			best = i + 1
		} else if p.Visibility == bestVis && p.Visibility > 0 && i+1 < best {
			best = i + 1
		}
	}
	if bestVis > 0 {
		return best
	}
	// No page visible: viewport is above page 1 or past the last page.
	if dm.areaOffset.Y <= 0 {
		return 1
	}
	return len(dm.pages)
}

func (dm *DisplayModel) snapToRowStart(page, cols int) int {
	if cols <= 1 {
		return page
	}
	if dm.mode.IsBookView() {
		if page <= 1 {
			return 1
		}
		// Rows are [-,1],[2,3],[4,5],...; a row after the first starts on
		// an even page, so an odd page snaps back by one.
		if page%2 == 0 {
			return page
		}
		return page - 1
	}
	idx := page - 1
	return idx - idx%cols + 1
}
