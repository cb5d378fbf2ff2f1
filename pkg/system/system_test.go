package system_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-pdfview/viewer/pkg/engine"
	"github.com/go-pdfview/viewer/pkg/geom"
	"github.com/go-pdfview/viewer/pkg/prefs"
	"github.com/go-pdfview/viewer/pkg/render"
	"github.com/go-pdfview/viewer/pkg/system"
)

func TestOpenRenderAndCloseDocument(t *testing.T) {
	s := system.New(system.DefaultConfiguration(), prefs.NewStore())
	defer s.Shutdown()

	fake := engine.NewFake(3, geom.Size{Dx: 600, Dy: 800})
	doc, dm := s.OpenDocument(fake, geom.Size{Dx: 600, Dy: 800})
	require.NotZero(t, doc)

	key := render.Key{Doc: doc, Page: 1, Zoom: dm.ZoomReal()}
	s.Queue().Enqueue(&render.Request{Key: key, Timestamp: time.Now()}, s.Cache())

	deadline := time.After(time.Second)
	for {
		if _, ok := s.Cache().Find(key, false); ok {
			break
		}
		select {
		case <-deadline:
			t.Fatal("render never completed")
		case <-time.After(5 * time.Millisecond):
		}
	}

	s.CloseDocument(doc)
	_, ok := s.Document(doc)
	assert.False(t, ok)
}

func TestLoadConfigurationMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := system.LoadConfiguration("/nonexistent/path/pdfview.dev.yaml")
	require.NoError(t, err)
	assert.Equal(t, system.DefaultConfiguration(), cfg)
}

func TestEnsureDefaultConfigAtWritesFileOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdfview", "pdfview.dev.yaml")

	require.NoError(t, system.EnsureDefaultConfigAt(path, false))
	first, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	require.NoError(t, os.WriteFile(path, []byte("max_entries: 42\n"), 0o644))
	require.NoError(t, system.EnsureDefaultConfigAt(path, false))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "max_entries: 42\n", string(second), "existing file must not be clobbered without override")

	require.NoError(t, system.EnsureDefaultConfigAt(path, true))
	third, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, third, "override must restore the embedded default")
}
