// Package monitoring is the best-effort observability layer: breadcrumbs,
// exception capture, and advisory counters, with threshold alerts fanned out
// to configured webhook and email channels. Nothing in this package may
// block or fail a request; every delivery error is swallowed locally.
package monitoring

import "log"

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Breadcrumb is a structured trail event attached to request processing.
type Breadcrumb struct {
	Category string
	Message  string
	Level    Level
	Data     map[string]any
}

// Sink receives structured events from every layer. Implementations must be
// safe for concurrent use and must never propagate their own failures.
type Sink interface {
	AddBreadcrumb(b Breadcrumb)
	CaptureException(err error, tags map[string]string)
	IncrCounter(name string, delta int64)
}

// NopSink discards everything. Used in tests and as a safe default.
type NopSink struct{}

func (NopSink) AddBreadcrumb(Breadcrumb)                  {}
func (NopSink) CaptureException(error, map[string]string) {}
func (NopSink) IncrCounter(string, int64)                 {}

func logBreadcrumb(b Breadcrumb) {
	if b.Level == "" {
		b.Level = LevelInfo
	}
	if len(b.Data) > 0 {
		log.Printf("[%s] %s: %s %v", b.Level, b.Category, b.Message, b.Data)
		return
	}
	log.Printf("[%s] %s: %s", b.Level, b.Category, b.Message)
}
