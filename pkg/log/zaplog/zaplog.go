// Package zaplog adapts a go.uber.org/zap logger to the log.Logger
// interface, for hosts that want structured fields (doc id, page, tile)
// instead of the plain-text default backend.
package zaplog

import (
	"go.uber.org/zap"

	"github.com/go-pdfview/viewer/pkg/log"
)

// adapter makes *zap.SugaredLogger satisfy log.Logger.
type adapter struct {
	sugar *zap.SugaredLogger
	fatal bool
}

// New wraps z as a log.Logger whose entries carry component ("debug",
// "info", "stats", "trace") as zap's logger name. Printf and Println log
// at zap's Info level whatever the component.
func New(z *zap.Logger, component string) log.Logger {
	return &adapter{sugar: z.Sugar().Named(component)}
}

// Install wires z into all four of log's package-level loggers, one
// *zap.Logger named per component.
func Install(z *zap.Logger) {
	log.SetDebugLogger(New(z, "debug"))
	log.SetInfoLogger(New(z, "info"))
	log.SetStatsLogger(New(z, "stats"))
	log.SetTraceLogger(New(z, "trace"))
}

func (a *adapter) Printf(format string, args ...interface{}) {
	a.sugar.Infof(format, args...)
}

func (a *adapter) Println(args ...interface{}) {
	a.sugar.Info(args...)
}

func (a *adapter) Fatalf(format string, args ...interface{}) {
	a.sugar.Fatalf(format, args...)
}

func (a *adapter) Fatalln(args ...interface{}) {
	a.sugar.Fatal(args...)
}
