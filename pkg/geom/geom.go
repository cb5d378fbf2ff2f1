// Package geom provides the rectangles, points, and rotation arithmetic
// shared by the display model, render queue, and bitmap cache.
package geom

import "fmt"

// Point represents a location in either user space or screen space; the
// caller's context decides which.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Rectangle is an axis-aligned rectangle. LL and UR are opposite corners;
// no invariant is imposed on which is numerically smaller, since screen
// space grows downward while user space grows upward.
type Rectangle struct {
	LL, UR Point
}

// NewRectangle returns a new rectangle for given corner coordinates.
func NewRectangle(llx, lly, urx, ury float64) Rectangle {
	return Rectangle{LL: Point{llx, lly}, UR: Point{urx, ury}}
}

// Width returns the horizontal span of r.
func (r Rectangle) Width() float64 {
	return r.UR.X - r.LL.X
}

// Height returns the vertical span of r.
func (r Rectangle) Height() float64 {
	return r.UR.Y - r.LL.Y
}

// Area returns the area of r. A degenerate (zero-size) rectangle has area 0.
func (r Rectangle) Area() float64 {
	w, h := r.Width(), r.Height()
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Translate returns r shifted by (dx, dy).
func (r Rectangle) Translate(dx, dy float64) Rectangle {
	return Rectangle{
		LL: Point{r.LL.X + dx, r.LL.Y + dy},
		UR: Point{r.UR.X + dx, r.UR.Y + dy},
	}
}

// Contains reports whether p lies within r (inclusive of edges).
func (r Rectangle) Contains(p Point) bool {
	return p.X >= r.LL.X && p.X <= r.UR.X && p.Y >= r.LL.Y && p.Y <= r.UR.Y
}

// Intersect returns the intersection of r and s and whether it is non-empty.
func (r Rectangle) Intersect(s Rectangle) (Rectangle, bool) {
	llx := max(r.LL.X, s.LL.X)
	lly := max(r.LL.Y, s.LL.Y)
	urx := min(r.UR.X, s.UR.X)
	ury := min(r.UR.Y, s.UR.Y)
	if urx <= llx || ury <= lly {
		return Rectangle{}, false
	}
	return NewRectangle(llx, lly, urx, ury), true
}

// VisibilityIn returns the fraction of r's area that overlaps viewport,
// in [0,1]. A degenerate r (zero area) is always 0.
func (r Rectangle) VisibilityIn(viewport Rectangle) float64 {
	area := r.Area()
	if area == 0 {
		return 0
	}
	inter, ok := r.Intersect(viewport)
	if !ok {
		return 0
	}
	return inter.Area() / area
}

func (r Rectangle) String() string {
	return fmt.Sprintf("(%.2f,%.2f)-(%.2f,%.2f) w=%.2f h=%.2f", r.LL.X, r.LL.Y, r.UR.X, r.UR.Y, r.Width(), r.Height())
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// NormalizeRotation folds any integer degree value onto {0, 90, 180, 270}.
func NormalizeRotation(r int) int {
	r %= 360
	if r < 0 {
		r += 360
	}
	// Round to the nearest supported quadrant; callers pass multiples of
	// 90 in practice, but a defensive fold keeps odd inputs sane instead
	// of panicking later on a map lookup.
	switch {
	case r < 45 || r >= 315:
		return 0
	case r < 135:
		return 90
	case r < 225:
		return 180
	default:
		return 270
	}
}

// Swapped reports whether a page with the given combined rotation has its
// width/height swapped relative to its unrotated size (true at 90/270).
func Swapped(rotation int) bool {
	r := NormalizeRotation(rotation)
	return r == 90 || r == 270
}

// Size is a page or viewport extent in either user or device units.
type Size struct {
	Dx, Dy float64
}

// Rotated returns s with Dx/Dy swapped if rotation is 90 or 270.
func (s Size) Rotated(rotation int) Size {
	if Swapped(rotation) {
		return Size{Dx: s.Dy, Dy: s.Dx}
	}
	return s
}
