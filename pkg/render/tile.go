// Package render implements the bounded render request queue and the
// reference-counted bitmap cache shared by the render worker and the
// painter (spec.md §4.4, §4.5). It knows nothing about layout or the
// engine; callers supply bitmaps and visibility predicates.
package render

import (
	"math"

	"github.com/go-pdfview/viewer/pkg/geom"
)

// DocID is an opaque handle identifying an open document across the
// queue and cache. It carries no meaning beyond equality; the owner
// (pkg/system) mints and retires these.
type DocID uint64

// Tile addresses one piece of a page rendered at resolution Res: the
// page is divided into a 2^Res x 2^Res grid, and Col/Row select one
// cell of it. Res==0 means "whole page, no tiling".
type Tile struct {
	Res, Col, Row uint16
}

// Key is the full identity BitmapCache and RenderQueue key entries by
// (spec.md §4.5: "Keys compared by full tuple").
type Key struct {
	Doc      DocID
	Page     int
	Rotation int
	Zoom     float64
	Tile     Tile
}

// sameTarget reports whether k and other address the same (doc, page,
// tile), ignoring zoom/rotation — the granularity at which enqueue and
// freePage/freeNotVisible match regardless of render parameters.
func (k Key) sameTarget(other Key) bool {
	return k.Doc == other.Doc && k.Page == other.Page && k.Tile == other.Tile
}

// MaxTileSize bounds how large a single tile bitmap's larger dimension
// may be before the page is split into finer tiles (spec.md §4.5).
const MaxTileSize = 1024

// TileResolution picks the tiling resolution for a page of the given
// width/height in page-space points rendered at zoomReal, following
// spec.md §4.5: compute the required pixel size of the whole page; if
// it exceeds MaxTileSize+1 by factor f, use res = ceil(log2(f)).
// fitsInViewport, isSingleImage, or a fit-page/fit-width zoom mode all
// prefer coarser (half-resolution) tiling since the whole page is
// likely to be requested at once.
func TileResolution(pageW, pageH, zoomReal float64, fitsInViewport, isSingleImage, isFitMode bool) uint16 {
	scale := zoomReal / 100
	pixW := pageW * scale
	pixH := pageH * scale

	longest := pixW
	if pixH > longest {
		longest = pixH
	}

	res := 0
	if longest > MaxTileSize+1 {
		f := longest / (MaxTileSize + 1)
		res = int(math.Ceil(math.Log2(f)))
	}

	if fitsInViewport || isSingleImage || isFitMode {
		res /= 2
	}
	if res < 0 {
		res = 0
	}
	return uint16(res)
}

// TileRect returns tile's sub-rectangle of mediabox, dividing it into
// a 2^tile.Res x 2^tile.Res grid (spec.md §4.4 step 4's "page
// rectangle for the tile"; grounded on RenderCache::GetTileRect, which
// divides the mediabox by 1<<res in both dimensions before offsetting
// by col/row).
func TileRect(mediabox geom.Rectangle, tile Tile) geom.Rectangle {
	n := float64(uint32(1) << tile.Res)
	w := mediabox.Width() / n
	h := mediabox.Height() / n
	llx := mediabox.LL.X + float64(tile.Col)*w
	lly := mediabox.LL.Y + float64(tile.Row)*h
	return geom.NewRectangle(llx, lly, llx+w, lly+h)
}
