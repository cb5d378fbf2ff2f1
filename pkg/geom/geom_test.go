package geom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-pdfview/viewer/pkg/geom"
)

func TestNormalizeRotation(t *testing.T) {
	cases := map[int]int{
		0: 0, 90: 90, 180: 180, 270: 270,
		360: 0, 450: 90, -90: 270, -360: 0, 720 + 180: 180,
	}
	for in, want := range cases {
		assert.Equal(t, want, geom.NormalizeRotation(in), "normalize(%d)", in)
	}
}

func TestNormalizeRotationPeriodic(t *testing.T) {
	for r := -720; r <= 720; r += 17 {
		assert.Equal(t, geom.NormalizeRotation(r), geom.NormalizeRotation(r+360), "normalize(%d+360)", r)
		assert.Contains(t, []int{0, 90, 180, 270}, geom.NormalizeRotation(r))
	}
}

func TestRectangleVisibility(t *testing.T) {
	page := geom.NewRectangle(0, 0, 100, 100)
	viewport := geom.NewRectangle(0, 0, 100, 50)
	assert.InDelta(t, 0.5, page.VisibilityIn(viewport), 1e-9)

	offscreen := geom.NewRectangle(200, 200, 300, 300)
	assert.Equal(t, 0.0, offscreen.VisibilityIn(viewport))

	fully := geom.NewRectangle(0, 0, 50, 50)
	assert.Equal(t, 1.0, fully.VisibilityIn(viewport))
}

func TestSizeRotated(t *testing.T) {
	s := geom.Size{Dx: 200, Dy: 100}
	assert.Equal(t, s, s.Rotated(0))
	assert.Equal(t, s, s.Rotated(180))
	assert.Equal(t, geom.Size{Dx: 100, Dy: 200}, s.Rotated(90))
	assert.Equal(t, geom.Size{Dx: 100, Dy: 200}, s.Rotated(270))
}
