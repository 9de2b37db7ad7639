package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g.
// "Parsed 42 nodes, 41 edges, 12 regions, 97 annotations (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability Hooks
// =============================================================================

// logHooks reports parse and render events at debug level. Failed
// dependencies are logged as warnings since the parse error that follows
// does not name the layer it came from.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnParseStart(source string) {
	h.logger.Debug("parse started", "source", sourceName(source))
}

func (h *logHooks) OnParseComplete(source string, nodes, edges int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("parse failed", "source", sourceName(source), "err", err)
		return
	}
	h.logger.Debug("parse complete", "source", sourceName(source), "nodes", nodes, "edges", edges,
		"took", d.Round(time.Microsecond))
}

func (h *logHooks) OnDependency(typeName string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("dependency failed", "type", typeName, "err", err)
		return
	}
	h.logger.Debug("dependency merged", "type", typeName, "took", d.Round(time.Microsecond))
}

func (h *logHooks) OnRenderComplete(format string, nodes, edges int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "format", format, "err", err)
		return
	}
	h.logger.Debug("render complete", "format", format, "nodes", nodes, "edges", edges,
		"took", d.Round(time.Microsecond))
}

func sourceName(source string) string {
	if source == "" {
		return "<stdin>"
	}
	return source
}
