package debugserver_test

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/go-pdfview/viewer/pkg/debugserver"
)

func TestServerReportsStats(t *testing.T) {
	s := debugserver.New("127.0.0.1:0", zap.NewNop(), func() debugserver.Stats {
		return debugserver.Stats{CacheCount: 3, QueueLen: 1, DocCount: 2}
	})
	addr, err := s.Start()
	require.NoError(t, err)
	defer s.Shutdown(nil) //nolint:errcheck

	resp, err := http.Get("http://" + addr + "/debug/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var stats debugserver.Stats
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, 3, stats.CacheCount)
	assert.Equal(t, 1, stats.QueueLen)
	assert.Equal(t, 2, stats.DocCount)
}

func TestServerHealthz(t *testing.T) {
	s := debugserver.New("127.0.0.1:0", zap.NewNop(), func() debugserver.Stats { return debugserver.Stats{} })
	addr, err := s.Start()
	require.NoError(t, err)
	defer s.Shutdown(nil) //nolint:errcheck

	resp, err := http.Get("http://" + addr + "/debug/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
