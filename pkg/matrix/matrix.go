// Package matrix builds the current transformation matrices the display
// model needs to convert between user-space document coordinates and
// device-space bitmap coordinates.
package matrix

import (
	"fmt"
	"math"

	"github.com/go-pdfview/viewer/pkg/geom"
)

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi
)

// Matrix is a 3x3 affine transform in row-major, homogeneous form.
type Matrix [3][3]float64

// Ident is the identity transform.
var Ident = Matrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// Multiply returns the product m*n.
func (m Matrix) Multiply(n Matrix) Matrix {
	var p Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				p[i][j] += m[i][k] * n[k][j]
			}
		}
	}
	return p
}

// Transform applies m to p.
func (m Matrix) Transform(p geom.Point) geom.Point {
	x := p.X*m[0][0] + p.Y*m[1][0] + m[2][0]
	y := p.X*m[0][1] + p.Y*m[1][1] + m[2][1]
	return geom.Point{X: x, Y: y}
}

// TransformRect applies m to all four corners of r and returns the
// axis-aligned bounding box of the result.
func (m Matrix) TransformRect(r geom.Rectangle) geom.Rectangle {
	corners := [4]geom.Point{
		{X: r.LL.X, Y: r.LL.Y},
		{X: r.UR.X, Y: r.LL.Y},
		{X: r.UR.X, Y: r.UR.Y},
		{X: r.LL.X, Y: r.UR.Y},
	}
	out := m.Transform(corners[0])
	minX, maxX := out.X, out.X
	minY, maxY := out.Y, out.Y
	for _, c := range corners[1:] {
		t := m.Transform(c)
		minX, maxX = math.Min(minX, t.X), math.Max(maxX, t.X)
		minY, maxY = math.Min(minY, t.Y), math.Max(maxY, t.Y)
	}
	return geom.NewRectangle(minX, minY, maxX, maxY)
}

func (m Matrix) String() string {
	return fmt.Sprintf("%3.2f %3.2f %3.2f\n%3.2f %3.2f %3.2f\n%3.2f %3.2f %3.2f\n",
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2])
}

// calcTransform composes a scale, a rotate, and a translate into one matrix.
func calcTransform(sx, sy, sin, cos, dx, dy float64) Matrix {
	scale := Ident
	scale[0][0] = sx
	scale[1][1] = sy

	rotate := Ident
	rotate[0][0] = cos
	rotate[0][1] = sin
	rotate[1][0] = -sin
	rotate[1][1] = cos

	translate := Ident
	translate[2][0] = dx
	translate[2][1] = dy

	return scale.Multiply(rotate).Multiply(translate)
}

// CTM returns the current transformation matrix that maps a page's user
// space (origin lower-left, y up, sized pageSize) to device/bitmap space
// (origin top-left, y down) at the given real zoom factor (percent, not
// fraction: 100 == actual size) and normalized rotation.
//
// zoomReal is applied as a percentage, matching spec.md's "zoomReal"
// convention (EngineIface.viewctm takes the same unit).
func CTM(pageSize geom.Size, zoomReal float64, rotation int) Matrix {
	rotation = geom.NormalizeRotation(rotation)
	scale := zoomReal / 100
	sin := math.Sin(float64(rotation) * degToRad)
	cos := math.Cos(float64(rotation) * degToRad)

	// Flip y (user space grows up, device space grows down) by folding a
	// -1 y-scale into the scale step, then translate so that whichever
	// corner becomes the origin after rotation lands at (0,0).
	var dx, dy float64
	switch rotation {
	case 0:
		dx, dy = 0, pageSize.Dy*scale
	case 90:
		dx, dy = 0, 0
	case 180:
		dx, dy = pageSize.Dx*scale, 0
	case 270:
		dx, dy = pageSize.Dy*scale, pageSize.Dx*scale
	}

	flip := calcTransform(scale, -scale, sin, cos, dx, dy)
	return flip
}

// RotateAroundCenter returns a matrix that takes content of bb's size,
// given with its lower-left corner at (0,0), rotates it by deg degrees
// around its own center, and places that center at bb's center.
func RotateAroundCenter(deg float64, bb geom.Rectangle) Matrix {
	sin := math.Sin(deg * degToRad)
	cos := math.Cos(deg * degToRad)
	dx := bb.LL.X + bb.Width()/2 + sin*(bb.Height()/2) - cos*bb.Width()/2
	dy := bb.LL.Y + bb.Height()/2 - cos*(bb.Height()/2) - sin*bb.Width()/2
	return calcTransform(1, 1, sin, cos, dx, dy)
}
