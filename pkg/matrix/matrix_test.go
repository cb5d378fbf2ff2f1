package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-pdfview/viewer/pkg/geom"
	"github.com/go-pdfview/viewer/pkg/matrix"
)

func TestCTMFlipsYAtZeroRotation(t *testing.T) {
	m := matrix.CTM(geom.Size{Dx: 200, Dy: 100}, 100, 0)
	origin := m.Transform(geom.Point{X: 0, Y: 0})
	assert.InDelta(t, 0.0, origin.X, 1e-9)
	assert.InDelta(t, 100.0, origin.Y, 1e-9)

	topRight := m.Transform(geom.Point{X: 200, Y: 100})
	assert.InDelta(t, 200.0, topRight.X, 1e-9)
	assert.InDelta(t, 0.0, topRight.Y, 1e-9)
}

func TestCTMScalesWithZoom(t *testing.T) {
	m := matrix.CTM(geom.Size{Dx: 100, Dy: 100}, 200, 0)
	p := m.Transform(geom.Point{X: 100, Y: 0})
	assert.InDelta(t, 200.0, p.X, 1e-9)
}

func TestMultiplyWithIdentIsNoop(t *testing.T) {
	m := matrix.CTM(geom.Size{Dx: 50, Dy: 80}, 150, 90)
	assert.Equal(t, m, m.Multiply(matrix.Ident))
}
