package engine

import (
	"context"
	"time"

	"github.com/go-pdfview/viewer/pkg/geom"
	"github.com/go-pdfview/viewer/pkg/matrix"
)

// Fake is a deterministic, synchronous Iface implementation used by the
// display model, render queue/worker, and painter tests. It never touches
// disk or cgo; every page is a plain rectangle of a configurable size.
type Fake struct {
	Sizes      []geom.Size // one per page, 1-indexed access via Sizes[page-1]
	Rotations  []int       // per-page intrinsic rotation, defaults to 0
	Links      []Link
	NamedDests map[string]Destination
	Toc        []TOCNode
	ImagePages map[int]bool

	// RenderDelay simulates engine work so RenderWorker cancellation
	// tests can observe abort being polled mid-render.
	RenderDelay time.Duration

	// FailPages marks pages whose RenderBitmap call returns an error
	// (spec.md §7 EngineFailure).
	FailPages map[int]bool
}

// NewFake returns a Fake with n pages of the given uniform size.
func NewFake(n int, pageSize geom.Size) *Fake {
	sizes := make([]geom.Size, n)
	for i := range sizes {
		sizes[i] = pageSize
	}
	return &Fake{Sizes: sizes, NamedDests: map[string]Destination{}, ImagePages: map[int]bool{}, FailPages: map[int]bool{}}
}

func (f *Fake) PageCount() int { return len(f.Sizes) }

func (f *Fake) PageSize(page int) geom.Size {
	if page < 1 || page > len(f.Sizes) {
		return geom.Size{}
	}
	return f.Sizes[page-1]
}

func (f *Fake) PageRotation(page int) int {
	if page < 1 || page > len(f.Rotations) {
		return 0
	}
	return f.Rotations[page-1]
}

func (f *Fake) PageMediabox(page int) geom.Rectangle {
	s := f.PageSize(page)
	return geom.NewRectangle(0, 0, s.Dx, s.Dy)
}

func (f *Fake) PageContentBox(page int) geom.Rectangle {
	return f.PageMediabox(page)
}

func (f *Fake) Viewctm(page int, zoomReal float64, rotation int) matrix.Matrix {
	return matrix.CTM(f.PageSize(page), zoomReal, rotation)
}

func (f *Fake) RenderBitmap(ctx context.Context, page int, zoomReal float64, rotation int, rect geom.Rectangle, abort AbortFunc) (Bitmap, error) {
	if f.FailPages[page] {
		return Bitmap{}, errEngineFailure{page}
	}
	if f.RenderDelay > 0 {
		t := time.NewTimer(f.RenderDelay)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				goto rendered
			case <-ctx.Done():
				return Bitmap{}, ctx.Err()
			default:
				if abort != nil && abort() {
					return Bitmap{}, errAborted{}
				}
				time.Sleep(time.Millisecond)
			}
		}
	}
rendered:
	if abort != nil && abort() {
		return Bitmap{}, errAborted{}
	}
	w := int(rect.Width())
	h := int(rect.Height())
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	pix := make([]byte, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = 0xFF, 0xFF, 0xFF, 0xFF
	}
	return Bitmap{PixWidth: w, PixHeight: h, Pix: pix}, nil
}

func (f *Fake) ExtractPageText(page int) ([]TextChar, error) {
	return nil, nil
}

func (f *Fake) LinkCount() int { return len(f.Links) }

func (f *Fake) FillLinks(buf []Link) (int, error) {
	n := copy(buf, f.Links)
	return n, nil
}

func (f *Fake) FindPageByDest(dest Destination) (int, bool) {
	if dest.Page >= 1 && dest.Page <= f.PageCount() {
		return dest.Page, true
	}
	return 0, false
}

func (f *Fake) GetNamedDest(name string) (Destination, bool) {
	d, ok := f.NamedDests[name]
	return d, ok
}

func (f *Fake) IsImagePage(page int) bool { return f.ImagePages[page] }

func (f *Fake) GetTocTree() []TOCNode { return f.Toc }

func (f *Fake) PrintingAllowed() bool { return true }

type errEngineFailure struct{ page int }

func (e errEngineFailure) Error() string { return "engine: render failed" }

type errAborted struct{}

func (errAborted) Error() string { return "engine: render aborted" }

// IsAborted reports whether err is the sentinel RenderBitmap returns after
// observing abort()==true.
func IsAborted(err error) bool {
	_, ok := err.(errAborted)
	return ok
}
