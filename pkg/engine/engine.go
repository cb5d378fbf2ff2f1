// Package engine defines the narrow interface the rendering core requires
// of a PDF engine (spec.md §6, EngineIface). The engine itself — parsing,
// content-stream interpretation, rasterization — is out of scope; this
// package only describes the boundary and provides a deterministic fake
// used by the rest of the core's tests.
package engine

import (
	"context"

	"github.com/go-pdfview/viewer/pkg/geom"
	"github.com/go-pdfview/viewer/pkg/matrix"
)

// Bitmap is an engine-rendered tile: raw RGBA pixels at PixWidth x
// PixHeight, row-major, no padding.
type Bitmap struct {
	PixWidth, PixHeight int
	Pix                 []byte
}

// TextChar is one glyph's extracted Unicode codepoint and its bounding box
// in page user-space, as returned by ExtractPageText.
type TextChar struct {
	Rune rune
	Box  geom.Rectangle
	// EndOfLine marks the last character of a line (spec.md §4.1:
	// getTextInRegion inserts a newline between lines).
	EndOfLine bool
}

// LinkKind discriminates the destinations a Link can point to.
type LinkKind int

const (
	LinkURI LinkKind = iota
	LinkGoTo
	LinkLaunch
	LinkOther
)

// Link is one hyperlink or annotation-derived link on a page.
type Link struct {
	Kind LinkKind
	Page int
	Rect geom.Rectangle
	URI  string       // LinkURI
	Dest Destination  // LinkGoTo
	Path string       // LinkLaunch: relative PDF path
}

// DestKind discriminates destination types; only XYZ is resolved to a
// screen position by spec.md §4.1 goToDest.
type DestKind int

const (
	DestXYZ DestKind = iota
	DestOther
)

// Destination is a resolved or named jump target within a document.
type Destination struct {
	Kind DestKind
	Page int
	// Left/Top are in page user-space; HasLeft/HasTop distinguish an
	// explicit 0 coordinate from "unspecified, keep current".
	Left, Top       float64
	HasLeft, HasTop bool
}

// TOCNode is one entry of the document outline.
type TOCNode struct {
	Title    string
	Dest     Destination
	Children []TOCNode
}

// AbortFunc is polled by the engine at granular rendering steps; once it
// returns true the engine should stop and the caller discards any partial
// bitmap (spec.md §4.6 step 5, §5 cancellation).
type AbortFunc func() bool

// Iface is the capability set spec.md's DisplayModel, RenderWorker, and
// Painter require of a document engine. A single Iface value is bound to
// one open document; it is not safe for concurrent use by more than one
// caller at a time (spec.md §4.6: "all engine calls for a given document
// are serialized through [the render] worker").
type Iface interface {
	PageCount() int
	PageSize(page int) geom.Size
	PageRotation(page int) int
	PageMediabox(page int) geom.Rectangle

	// PageContentBox returns the tight bounding box of actual marked
	// content on the page, used by DisplayModel's FitContent zoom mode.
	// Engines without a cheap way to compute this may return the full
	// mediabox.
	PageContentBox(page int) geom.Rectangle

	// Viewctm returns the CTM mapping page user-space to device space at
	// the given real zoom percentage and normalized rotation.
	Viewctm(page int, zoomReal float64, rotation int) matrix.Matrix

	// RenderBitmap renders rect (in page user-space, post-rotation) at
	// zoomReal/rotation into a bitmap sized to match. abort is polled
	// during rendering; a true return discards the in-progress render.
	RenderBitmap(ctx context.Context, page int, zoomReal float64, rotation int, rect geom.Rectangle, abort AbortFunc) (Bitmap, error)

	ExtractPageText(page int) ([]TextChar, error)

	LinkCount() int
	FillLinks(buf []Link) (int, error)

	FindPageByDest(dest Destination) (page int, ok bool)
	GetNamedDest(name string) (Destination, bool)

	IsImagePage(page int) bool
	GetTocTree() []TOCNode
	PrintingAllowed() bool
}
