package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-pdfview/viewer/pkg/render"
)

func TestTileResolutionZeroWhenPageFitsInOneTile(t *testing.T) {
	res := render.TileResolution(600, 800, 100, false, false, false)
	assert.Equal(t, uint16(0), res)
}

func TestTileResolutionIncreasesWithZoom(t *testing.T) {
	res := render.TileResolution(600, 800, 800, false, false, false)
	assert.Greater(t, res, uint16(0))
}

func TestTileResolutionHalvesForFitModes(t *testing.T) {
	tiled := render.TileResolution(600, 800, 800, false, false, false)
	fit := render.TileResolution(600, 800, 800, false, false, true)
	assert.Equal(t, tiled/2, fit)
}

func TestTileResolutionHalvesForSingleImagePages(t *testing.T) {
	tiled := render.TileResolution(600, 800, 800, false, false, false)
	image := render.TileResolution(600, 800, 800, false, true, false)
	assert.Equal(t, tiled/2, image)
}
