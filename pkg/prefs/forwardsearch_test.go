package prefs_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-pdfview/viewer/pkg/geom"
	"github.com/go-pdfview/viewer/pkg/painter"
	"github.com/go-pdfview/viewer/pkg/prefs"
)

func TestForwardSearchStyleOverlayBlendsOverPaint(t *testing.T) {
	style := prefs.ForwardSearchStyle{HighlightColor: 0x6581FF}
	ov := style.Overlay(geom.NewRectangle(0, 0, 10, 10))

	assert.Equal(t, uint8(0x65), ov.Color.R)
	assert.Equal(t, uint8(0x81), ov.Color.G)
	assert.Equal(t, uint8(0xFF), ov.Color.B)
	assert.NotEqual(t, uint8(0xFF), ov.Color.A, "forward-search mark must be alpha-blended, not opaque")

	p := painter.New(0, nil, nil, painter.Config{Background: color.Black})
	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))
	p.Paint(dst, nil, []painter.Overlay{ov})

	got := dst.RGBAAt(5, 5)
	a := float64(ov.Color.A) / 255
	want := color.RGBA{
		R: uint8(float64(ov.Color.R) * a),
		G: uint8(float64(ov.Color.G) * a),
		B: uint8(float64(ov.Color.B) * a),
		A: 255,
	}
	assert.InDelta(t, int(want.R), int(got.R), 2)
	assert.InDelta(t, int(want.G), int(got.G), 2)
	assert.InDelta(t, int(want.B), int(got.B), 2)
	assert.Equal(t, uint8(255), got.A)

	// Blended pixel differs from both pure background and pure overlay
	// color: proof the blend actually happened instead of a straight copy.
	assert.NotEqual(t, color.RGBA{A: 255}, got)
	assert.NotEqual(t, color.RGBA{R: ov.Color.R, G: ov.Color.G, B: ov.Color.B, A: 255}, got)
}
