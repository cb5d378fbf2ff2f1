package displaymodel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-pdfview/viewer/pkg/displaymodel"
	"github.com/go-pdfview/viewer/pkg/engine"
	"github.com/go-pdfview/viewer/pkg/geom"
	"github.com/go-pdfview/viewer/pkg/viewmode"
)

func newFakeDM(pages int, viewport geom.Size) (*displaymodel.DisplayModel, *engine.Fake) {
	fake := engine.NewFake(pages, geom.Size{Dx: 600, Dy: 800})
	dm := displaymodel.New(1, fake, viewport)
	return dm, fake
}

func TestLayoutIsStableAcrossRepeatedRelayout(t *testing.T) {
	dm, _ := newFakeDM(5, geom.Size{Dx: 800, Dy: 600})
	dm.Relayout()
	first := make([]geom.Rectangle, dm.PageCount())
	for i := range first {
		p, _ := dm.Page(i + 1)
		first[i] = p.CanvasRect
	}
	dm.Relayout()
	for i := 0; i < dm.PageCount(); i++ {
		p, _ := dm.Page(i + 1)
		assert.Equal(t, first[i], p.CanvasRect)
	}
}

// S5: Facing + BookView, 5 pages. Row1=[-,1], row2=[2,3], row3=[4,5].
func TestFacingBookViewLayoutRowsAndNavigation(t *testing.T) {
	dm, _ := newFakeDM(5, geom.Size{Dx: 1200, Dy: 900})
	dm.SetMode(viewmode.DisplayModeBookView)
	require.Equal(t, 1, dm.CurrentPage())

	advanced := dm.GoToNextPage()
	require.True(t, advanced)
	assert.Equal(t, 2, dm.CurrentPage())
}

func TestCurrentPageMonotonicWhileScrollingDownInContinuous(t *testing.T) {
	dm, _ := newFakeDM(10, geom.Size{Dx: 600, Dy: 400})
	dm.SetMode(viewmode.DisplayModeContinuous)

	last := dm.CurrentPage()
	for i := 0; i < 20; i++ {
		dm.ScrollYBy(100, false)
		cur := dm.CurrentPage()
		assert.GreaterOrEqual(t, cur, last)
		last = cur
	}
}

func TestRotationNormalizesAfterRotateBy(t *testing.T) {
	dm, _ := newFakeDM(3, geom.Size{Dx: 600, Dy: 800})
	dm.RotateBy(90)
	assert.Equal(t, 90, dm.Rotation())
	dm.RotateBy(90)
	assert.Equal(t, 180, dm.Rotation())
	dm.RotateBy(270)
	assert.Equal(t, 90, dm.Rotation())
}

func TestZoomToPreservesScrollStatePage(t *testing.T) {
	dm, _ := newFakeDM(5, geom.Size{Dx: 600, Dy: 400})
	dm.SetMode(viewmode.DisplayModeContinuous)
	dm.GoToPage(3, 0, false, -1)
	before := dm.GetScrollState()

	dm.ZoomTo(150)
	after := dm.GetScrollState()
	assert.Equal(t, before.Page, after.Page)
}

func TestScreenToUserInvertsUserToScreen(t *testing.T) {
	dm, _ := newFakeDM(1, geom.Size{Dx: 600, Dy: 800})
	sx, sy, ok := dm.UserToScreen(1, 10, 20)
	require.True(t, ok)

	page, ux, uy, ok := dm.ScreenToUser(sx, sy)
	require.True(t, ok)
	assert.Equal(t, 1, page)
	assert.InDelta(t, 10, ux, 0.5)
	assert.InDelta(t, 20, uy, 0.5)
}

func TestGoToDestNavigatesToPage(t *testing.T) {
	dm, fake := newFakeDM(5, geom.Size{Dx: 600, Dy: 400})
	fake.NamedDests["chapter2"] = engine.Destination{Kind: engine.DestXYZ, Page: 3, HasTop: true, Top: 100}

	ok := dm.GoToNamedDest("chapter2")
	require.True(t, ok)
	assert.Equal(t, 3, dm.CurrentPage())
}

func TestLinkAtPositionFindsLinkOnShownPage(t *testing.T) {
	dm, fake := newFakeDM(1, geom.Size{Dx: 600, Dy: 800})
	fake.Links = []engine.Link{{Kind: engine.LinkURI, Page: 1, Rect: geom.NewRectangle(0, 0, 50, 50), URI: "https://example.com"}}

	// User-space y grows up, so the link sits at the page's bottom-left
	// corner on screen.
	l, ok := dm.LinkAtPosition(20, 770)
	require.True(t, ok)
	assert.Equal(t, "https://example.com", l.URI)
}

func TestPresentationModeSavesAndRestoresModeAndZoom(t *testing.T) {
	dm, _ := newFakeDM(5, geom.Size{Dx: 600, Dy: 400})
	dm.SetMode(viewmode.DisplayModeContinuousFacing)
	dm.ZoomTo(150)

	dm.EnterPresentation()
	assert.Equal(t, viewmode.DisplayModeSinglePage, dm.Mode())

	dm.ExitPresentation()
	assert.Equal(t, viewmode.DisplayModeContinuousFacing, dm.Mode())
	assert.Equal(t, 150.0, dm.ZoomVirtual())
}

func TestMapResultRectToScreenReturnsScrollDeltaWhenOffscreen(t *testing.T) {
	dm, _ := newFakeDM(1, geom.Size{Dx: 100, Dy: 100})
	_, delta, ok := dm.MapResultRectToScreen(1, geom.NewRectangle(0, 2000, 50, 2050))
	require.True(t, ok)
	assert.NotEqual(t, geom.Point{}, delta)
}
