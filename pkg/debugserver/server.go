// Package debugserver exposes a loopback-only HTTP introspection
// surface over the render system's cache/queue state, for local
// debugging: a small echo.Echo wrapper with a New/Start/Shutdown
// lifecycle serving two JSON endpoints instead of a single-page app.
package debugserver

import (
	"context"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Stats is the subset of render-system state the debug endpoints
// report; Server takes a provider function rather than a direct
// dependency on pkg/system so this package stays acyclic.
type Stats struct {
	CacheCount int    `json:"cacheCount"`
	QueueLen   int    `json:"queueLen"`
	DocCount   int    `json:"docCount"`
}

// StatsFunc produces a fresh Stats snapshot on each request.
type StatsFunc func() Stats

// Server is a loopback-only debug HTTP server.
type Server struct {
	echo     *echo.Echo
	addr     string
	listener net.Listener
}

// New builds a Server bound to addr (e.g. "127.0.0.1:0") reporting
// stats() on GET /debug/stats and OK on GET /debug/healthz.
func New(addr string, z *zap.Logger, stats StatsFunc) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(zapLogger(z))
	e.Use(zapRecover(z))
	e.Use(middleware.RequestID())

	e.GET("/debug/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/debug/stats", func(c echo.Context) error {
		return c.JSON(http.StatusOK, stats())
	})

	return &Server{echo: e, addr: addr}
}

// Start binds the listener and begins serving in the background.
// Returns the actual bound address (useful when addr's port is 0).
func (s *Server) Start() (string, error) {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return "", err
	}
	s.listener = ln
	s.echo.Listener = ln

	go func() {
		_ = s.echo.Start("")
	}()
	return ln.Addr().String(), nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
