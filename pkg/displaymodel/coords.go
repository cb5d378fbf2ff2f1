package displaymodel

import (
	"strings"

	"github.com/go-pdfview/viewer/pkg/engine"
	"github.com/go-pdfview/viewer/pkg/geom"
	"github.com/go-pdfview/viewer/pkg/matrix"
)

// UserToScreen maps (page, x, y) in page user-space to viewport pixel
// coordinates at the current zoom/rotation, via the engine's ctm plus
// the page's canvas placement (spec.md §4.1 "userToScreen").
func (dm *DisplayModel) UserToScreen(page int, x, y float64) (sx, sy float64, ok bool) {
	p, found := dm.Page(page)
	if !found {
		return 0, 0, false
	}
	ctm := dm.Engine.Viewctm(page, dm.zoomReal, dm.rotation)
	pt := ctm.Transform(geom.Point{X: x, Y: y})
	sx = p.CanvasRect.LL.X + pt.X - dm.areaOffset.X
	sy = p.CanvasRect.LL.Y + pt.Y - dm.areaOffset.Y
	return sx, sy, true
}

// ScreenToUser is UserToScreen's inverse: it first locates the page
// whose canvasRect contains (x,y), then maps the point back through
// the engine ctm (spec.md §4.1 "screenToUser").
func (dm *DisplayModel) ScreenToUser(x, y float64) (page int, ux, uy float64, ok bool) {
	cx, cy := x+dm.areaOffset.X, y+dm.areaOffset.Y
	for i, p := range dm.pages {
		if !p.Shown {
			continue
		}
		if p.CanvasRect.Contains(geom.Point{X: cx, Y: cy}) {
			ctm := dm.Engine.Viewctm(i+1, dm.zoomReal, dm.rotation)
			inv, invertible := invert(ctm)
			if !invertible {
				return 0, 0, 0, false
			}
			pt := inv.Transform(geom.Point{X: cx - p.CanvasRect.LL.X, Y: cy - p.CanvasRect.LL.Y})
			return i + 1, pt.X, pt.Y, true
		}
	}
	return 0, 0, 0, false
}

// invert computes a 2D affine inverse of m's rotation/scale/translate
// form (the bottom row is always [0 0 1] for the matrices CTM
// produces).
func invert(m matrix.Matrix) (matrix.Matrix, bool) {
	det := m[0][0]*m[1][1] - m[0][1]*m[1][0]
	if det == 0 {
		return matrix.Matrix{}, false
	}
	inv := matrix.Matrix{}
	inv[0][0] = m[1][1] / det
	inv[0][1] = -m[0][1] / det
	inv[1][0] = -m[1][0] / det
	inv[1][1] = m[0][0] / det
	inv[2][0] = -(m[2][0]*inv[0][0] + m[2][1]*inv[1][0])
	inv[2][1] = -(m[2][0]*inv[0][1] + m[2][1]*inv[1][1])
	inv[2][2] = 1
	return inv, true
}

// rebuildLinks lazily (re)materializes the document's link list once
// the engine reports a higher count than was last seen (spec.md §4.1
// "linkAtPosition"). Invisible-page links are parked at an off-canvas
// sentinel rectangle so hit tests never need a shown-page check.
func (dm *DisplayModel) rebuildLinks() {
	n := dm.Engine.LinkCount()
	if n <= dm.linksBuiltForLen {
		return
	}
	buf := make([]engine.Link, n)
	got, err := dm.Engine.FillLinks(buf)
	if err != nil {
		return
	}
	dm.links = buf[:got]
	dm.linksBuiltForLen = got
}

var offCanvasSentinel = geom.NewRectangle(-1e9, -1e9, -1e9+1, -1e9+1)

// linkScreenRect maps a link's page-space rect to viewport coordinates,
// or returns the off-canvas sentinel if its page isn't shown.
func (dm *DisplayModel) linkScreenRect(l engine.Link) geom.Rectangle {
	p, ok := dm.Page(l.Page)
	if !ok || !p.Shown {
		return offCanvasSentinel
	}
	ctm := dm.Engine.Viewctm(l.Page, dm.zoomReal, dm.rotation)
	screen := ctm.TransformRect(l.Rect)
	return screen.Translate(p.CanvasRect.LL.X-dm.areaOffset.X, p.CanvasRect.LL.Y-dm.areaOffset.Y)
}

// LinkAtPosition returns the topmost link whose screen rectangle
// contains (x,y), scanning only shown-page links (spec.md §4.1
// "linkAtPosition").
func (dm *DisplayModel) LinkAtPosition(x, y float64) (engine.Link, bool) {
	dm.rebuildLinks()
	pt := geom.Point{X: x, Y: y}
	for i := len(dm.links) - 1; i >= 0; i-- {
		l := dm.links[i]
		if dm.linkScreenRect(l).Contains(pt) {
			return l, true
		}
	}
	return engine.Link{}, false
}

// OpenLaunchFunc is invoked by GoToLink for engine.LinkLaunch links;
// the host resolves the relative PDF path into a new document.
type OpenLaunchFunc func(path string)

// OpenURIFunc is invoked by GoToLink for engine.LinkURI links; the
// host hands the URI to the shell.
type OpenURIFunc func(uri string)

// GoToLink dispatches l by kind (spec.md §4.1 "goToLink"): URI opens
// via openURI, GoTo navigates internally, Launch opens a sibling
// document via openLaunch, and any other kind is ignored.
func (dm *DisplayModel) GoToLink(l engine.Link, openURI OpenURIFunc, openLaunch OpenLaunchFunc) {
	switch l.Kind {
	case engine.LinkURI:
		if openURI != nil {
			openURI(l.URI)
		}
	case engine.LinkGoTo:
		dm.GoToDest(l.Dest)
	case engine.LinkLaunch:
		if openLaunch != nil {
			openLaunch(l.Path)
		}
	}
}

// GoToDest resolves dest to a page and, for XYZ destinations, a
// scroll offset relative to the target page's canvas origin (spec.md
// §4.1 "goToDest").
func (dm *DisplayModel) GoToDest(dest engine.Destination) bool {
	page, ok := dm.Engine.FindPageByDest(dest)
	if !ok {
		return false
	}
	if dest.Kind != engine.DestXYZ || (!dest.HasLeft && !dest.HasTop) {
		return dm.GoToPage(page, -1, true, -1)
	}

	sx, sy, ok := dm.UserToScreen(page, valueOr(dest.HasLeft, dest.Left, 0), valueOr(dest.HasTop, dest.Top, 0))
	if !ok {
		return dm.GoToPage(page, -1, true, -1)
	}
	p, _ := dm.Page(page)
	scrollX, scrollY := -1.0, -1.0
	if dest.HasLeft {
		scrollX = sx + dm.areaOffset.X - p.CanvasRect.LL.X
	}
	if dest.HasTop {
		scrollY = sy + dm.areaOffset.Y - p.CanvasRect.LL.Y
	}
	return dm.GoToPage(page, scrollY, true, scrollX)
}

func valueOr(has bool, v, fallback float64) float64 {
	if has {
		return v
	}
	return fallback
}

// GoToNamedDest resolves name through the engine and navigates to it
// (supplemented feature: original_source's named-destination support,
// dropped by the distilled spec but retained here since GoToDest
// already does the hard part).
func (dm *DisplayModel) GoToNamedDest(name string) bool {
	dest, ok := dm.Engine.GetNamedDest(name)
	if !ok {
		return false
	}
	return dm.GoToDest(dest)
}

// GetTextInRegion asks the engine for page, filters characters whose
// box intersects userRect, and joins them with a newline between
// lines (spec.md §4.1 "getTextInRegion").
func (dm *DisplayModel) GetTextInRegion(page int, userRect geom.Rectangle) (string, error) {
	chars, err := dm.Engine.ExtractPageText(page)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, c := range chars {
		if _, overlaps := c.Box.Intersect(userRect); !overlaps {
			continue
		}
		b.WriteRune(c.Rune)
		if c.EndOfLine {
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

// ExtractAllText concatenates GetTextInRegion over every page's full
// mediabox (spec.md §4.1 "extractAllText").
func (dm *DisplayModel) ExtractAllText() (string, error) {
	var b strings.Builder
	for i := range dm.pages {
		page := i + 1
		box := dm.Engine.PageMediabox(page)
		text, err := dm.GetTextInRegion(page, box)
		if err != nil {
			continue
		}
		b.WriteString(text)
	}
	return b.String(), nil
}

// searchHitPadding pads a mapped search-hit rectangle by a few screen
// pixels so the highlight doesn't hug the glyph edges exactly.
const searchHitPadding = 2

// MapResultRectToScreen converts userRect's four corners through the
// page's ctm, returns the tight enclosing screen rectangle padded by
// searchHitPadding, and — if that rectangle lies partly outside the
// viewport — the minimal scroll delta needed to bring it fully inside
// (spec.md §4.1 "MapResultRectToScreen").
func (dm *DisplayModel) MapResultRectToScreen(page int, userRect geom.Rectangle) (screen geom.Rectangle, scrollDelta geom.Point, ok bool) {
	p, found := dm.Page(page)
	if !found {
		return geom.Rectangle{}, geom.Point{}, false
	}
	ctm := dm.Engine.Viewctm(page, dm.zoomReal, dm.rotation)
	devRect := ctm.TransformRect(userRect)
	screenRect := devRect.Translate(p.CanvasRect.LL.X-dm.areaOffset.X, p.CanvasRect.LL.Y-dm.areaOffset.Y)
	screen = geom.NewRectangle(
		screenRect.LL.X-searchHitPadding, screenRect.LL.Y-searchHitPadding,
		screenRect.UR.X+searchHitPadding, screenRect.UR.Y+searchHitPadding,
	)

	var dx, dy float64
	switch {
	case screen.LL.X < 0:
		dx = screen.LL.X
	case screen.UR.X > dm.viewport.Dx:
		dx = screen.UR.X - dm.viewport.Dx
	}
	switch {
	case screen.LL.Y < 0:
		dy = screen.LL.Y
	case screen.UR.Y > dm.viewport.Dy:
		dy = screen.UR.Y - dm.viewport.Dy
	}
	return screen, geom.Point{X: dx, Y: dy}, true
}
