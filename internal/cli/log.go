package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/isotower/pkg/observability"
)

// newLogger creates a logger writing to w at the given level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Compared 12 graphs (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() if there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// searchLogHooks logs every search at debug level.
type searchLogHooks struct {
	observability.NoopSearchHooks
	logger *log.Logger
}

func (h *searchLogHooks) OnSearchStart(_ context.Context, mode string, vertices int) {
	h.logger.Debug("search started", "mode", mode, "vertices", vertices)
}

func (h *searchLogHooks) OnSearchComplete(_ context.Context, mode string, stats observability.SearchStats, err error) {
	kv := []any{
		"mode", mode,
		"nodes", stats.Nodes,
		"leaves", stats.Leaves,
		"pruned", stats.Pruned,
		"depth", stats.MaxDepth,
		"elapsed", stats.Duration.Round(time.Microsecond),
	}
	if err != nil {
		h.logger.Debug("search failed", append(kv, "err", err)...)
		return
	}
	h.logger.Debug("search finished", kv...)
}
