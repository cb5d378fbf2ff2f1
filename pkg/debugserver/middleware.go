package debugserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const requestIDHeader = echo.HeaderXRequestID

// zapLogger logs one structured line per request: method, path, status,
// latency, and (if present) the render system error attached to the
// response. Caller is omitted; it always points here.
func zapLogger(z *zap.Logger) echo.MiddlewareFunc {
	z = z.WithOptions(zap.WithCaller(false))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			herr := next(c)
			if herr != nil {
				c.Error(herr)
			}

			req := c.Request()
			resp := c.Response()

			fields := []zapcore.Field{
				zap.String("method", req.Method),
				zap.String("path", req.RequestURI),
				zap.Int("status", resp.Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("client_ip", c.RealIP()),
			}
			if id := req.Header.Get(requestIDHeader); id != "" {
				fields = append(fields, zap.String("request_id", id))
			}
			if herr != nil {
				fields = append(fields, zap.Error(herr))
			}

			switch {
			case resp.Status >= 500:
				z.Error("served", fields...)
			case resp.Status >= 400:
				z.Warn("served", fields...)
			default:
				z.Info("served", fields...)
			}
			return nil
		}
	}
}

// zapRecover turns a panic inside a handler into a 500 plus a logged error,
// instead of taking down the single debug-server goroutine.
func zapRecover(z *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					rerr, ok := r.(error)
					if !ok {
						rerr = errUnknownPanic{r}
					}
					z.Error("recovered", zap.Error(rerr), zap.String("path", c.Request().RequestURI))
					err = c.JSON(http.StatusInternalServerError, map[string]string{"error": rerr.Error()})
				}
			}()
			return next(c)
		}
	}
}

type errUnknownPanic struct{ v interface{} }

func (e errUnknownPanic) Error() string { return fmt.Sprintf("panic: %v", e.v) }
