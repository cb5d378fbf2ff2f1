package displaymodel

import (
	"github.com/go-pdfview/viewer/pkg/geom"
	"github.com/go-pdfview/viewer/pkg/viewmode"
)

// GoToPage validates n, snaps it to its row's first page in facing
// modes, updates startPage in non-continuous modes, relayouts, and
// positions the viewport at scrollY/scrollX within the target page
// (spec.md §4.1 "goToPage"). Returns false for an out-of-range page.
func (dm *DisplayModel) GoToPage(n int, scrollY float64, addHistory bool, scrollX float64) bool {
	if n < 1 || n > len(dm.pages) {
		return false
	}
	cols := columns(dm.mode)
	n = dm.snapToRowStart(n, cols)

	if addHistory {
		dm.pushHistory()
	}

	if !dm.mode.IsContinuous() {
		dm.startPage = n
	}
	dm.Relayout()

	target, _ := dm.Page(n)
	y := target.CanvasRect.LL.Y
	if scrollY >= 0 {
		y += scrollY
	}
	x := target.CanvasRect.LL.X
	if scrollX >= 0 {
		x += scrollX
	}
	dm.setAreaOffset(x, y)
	return true
}

func (dm *DisplayModel) pushHistory() {
	dm.navHistory = append(dm.navHistory, dm.GetScrollState())
	if len(dm.navHistory) > navRingCapacity {
		dm.navHistory = dm.navHistory[len(dm.navHistory)-navRingCapacity:]
	}
}

// GoBack restores the most recently pushed scroll state, if any.
func (dm *DisplayModel) GoBack() bool {
	if len(dm.navHistory) == 0 {
		return false
	}
	last := dm.navHistory[len(dm.navHistory)-1]
	dm.navHistory = dm.navHistory[:len(dm.navHistory)-1]
	dm.SetScrollState(last)
	return true
}

func (dm *DisplayModel) setAreaOffset(x, y float64) {
	maxX := dm.canvasSize.Dx - dm.viewport.Dx
	maxY := dm.canvasSize.Dy - dm.viewport.Dy
	dm.areaOffset.X = clamp(x, 0, maxX)
	dm.areaOffset.Y = clamp(y, 0, maxY)
	dm.RecomputeVisibility()
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// pageFullyVisible reports whether n's canvasRect is entirely within
// the current viewport vertically (spec.md §4.1: "fully reveal the
// current page first if partially off-screen, else move by columns").
func (dm *DisplayModel) pageFullyVisible(n int) bool {
	p, ok := dm.Page(n)
	if !ok {
		return false
	}
	top := p.CanvasRect.LL.Y
	bottom := p.CanvasRect.UR.Y
	return top >= dm.areaOffset.Y && bottom <= dm.areaOffset.Y+dm.viewport.Dy
}

// GoToNextPage advances to the next row/page, or if the current page
// is only partially visible, scrolls to fully reveal it first.
func (dm *DisplayModel) GoToNextPage() bool {
	cur := dm.CurrentPage()
	if !dm.pageFullyVisible(cur) {
		return dm.GoToPage(cur, 0, false, -1)
	}
	next := cur + columns(dm.mode)
	if next > len(dm.pages) {
		if cur >= len(dm.pages) {
			return false
		}
		next = len(dm.pages)
	}
	return dm.GoToPage(next, 0, false, -1)
}

// GoToPrevPage is GoToNextPage's mirror.
func (dm *DisplayModel) GoToPrevPage() bool {
	cur := dm.CurrentPage()
	if !dm.pageFullyVisible(cur) {
		return dm.GoToPage(cur, 0, false, -1)
	}
	if cur <= 1 {
		return false
	}
	prev := cur - columns(dm.mode)
	if prev < 1 {
		prev = 1
	}
	return dm.GoToPage(prev, 0, false, -1)
}

// GoToFirst jumps to page 1; false if already there.
func (dm *DisplayModel) GoToFirst() bool {
	if dm.CurrentPage() == 1 {
		return false
	}
	return dm.GoToPage(1, 0, true, -1)
}

// GoToLast jumps to the last page; false if already there.
func (dm *DisplayModel) GoToLast() bool {
	n := len(dm.pages)
	if dm.CurrentPage() == n {
		return false
	}
	return dm.GoToPage(n, 0, true, -1)
}

// ScrollXBy shifts the horizontal scroll offset by dx.
func (dm *DisplayModel) ScrollXBy(dx float64) {
	dm.setAreaOffset(dm.areaOffset.X+dx, dm.areaOffset.Y)
}

// ScrollYBy shifts the vertical scroll offset by dy. In non-continuous
// mode with changePage set, scrolling past the top/bottom edge
// triggers GoToPrevPage/GoToNextPage carrying the remainder (spec.md
// §4.1 "scrollYBy").
func (dm *DisplayModel) ScrollYBy(dy float64, changePage bool) {
	newY := dm.areaOffset.Y + dy
	maxY := dm.canvasSize.Dy - dm.viewport.Dy

	if changePage && !dm.mode.IsContinuous() {
		if newY < 0 {
			remainder := newY
			if dm.GoToPrevPage() {
				dm.setAreaOffset(dm.areaOffset.X, dm.canvasSize.Dy-dm.viewport.Dy+remainder)
			}
			return
		}
		if newY > maxY {
			remainder := newY - maxY
			if dm.GoToNextPage() {
				dm.setAreaOffset(dm.areaOffset.X, remainder)
			}
			return
		}
	}
	dm.setAreaOffset(dm.areaOffset.X, newY)
}

// ZoomTo sets the virtual zoom (a percentage or sentinel), preserving
// the current ScrollState across relayout (spec.md §4.1 "zoomTo").
func (dm *DisplayModel) ZoomTo(virtual float64) {
	saved := dm.GetScrollState()
	dm.zoomVirtual = viewmode.ClampZoom(virtual)
	dm.Relayout()
	dm.SetScrollState(saved)
}

// ZoomBy multiplies the current real zoom by factor and applies it as
// a concrete percentage (spec.md §4.1 "zoomBy").
func (dm *DisplayModel) ZoomBy(factor float64) {
	newVirtual := dm.zoomReal / viewmode.DPIFactor(dm.dpi) * factor
	dm.ZoomTo(newVirtual)
}

// RotateBy adds delta (expected to be a multiple of 90) to the global
// rotation, re-normalizes, relayouts, and re-centers on the page that
// was current before rotating (spec.md §4.1 "rotateBy").
func (dm *DisplayModel) RotateBy(delta int) {
	cur := dm.CurrentPage()
	dm.rotation = geom.NormalizeRotation(dm.rotation + delta)
	dm.Relayout()
	dm.GoToPage(cur, 0, false, -1)
}

// GetScrollState captures the canonical serialization of the current
// viewport position (spec.md §4.1 "ScrollState").
func (dm *DisplayModel) GetScrollState() ScrollState {
	page := dm.CurrentPage()
	p, ok := dm.Page(page)
	if !ok {
		return ScrollState{Page: page, X: -1, Y: -1}
	}
	return ScrollState{
		Page: page,
		X:    dm.areaOffset.X - p.CanvasRect.LL.X,
		Y:    dm.areaOffset.Y - p.CanvasRect.LL.Y,
	}
}

// SetScrollState restores a previously captured ScrollState.
func (dm *DisplayModel) SetScrollState(s ScrollState) {
	if s.Page < 1 || s.Page > len(dm.pages) {
		return
	}
	dm.GoToPage(s.Page, s.Y, false, s.X)
}
