package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/isotower/pkg/observability"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			assert.Equal(t, tt.wantLog, buf.Len() > 0)
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)
	prog.done("Compared 3 graphs")

	assert.Contains(t, buf.String(), "Compared 3 graphs (")
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)

	assert.Same(t, custom, loggerFromContext(withLogger(context.Background(), custom)))
	assert.Same(t, log.Default(), loggerFromContext(context.Background()))
}

func TestSearchLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := &searchLogHooks{logger: newLogger(&buf, log.DebugLevel)}
	ctx := context.Background()

	h.OnSearchStart(ctx, "generators", 20)
	h.OnLeaf(ctx, "generators", 3)
	h.OnSearchComplete(ctx, "generators", observability.SearchStats{Nodes: 17, Leaves: 4}, nil)
	h.OnSearchComplete(ctx, "decide", observability.SearchStats{Nodes: 1}, errors.New("boom"))

	out := buf.String()
	for _, want := range []string{"search started", "vertices=20", "search finished", "nodes=17", "leaves=4", "search failed", "err=boom"} {
		assert.Contains(t, out, want)
	}
}

func TestSetLogLevelRegistersSearchHooks(t *testing.T) {
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)
	c.SetLogLevel(log.InfoLevel)
	_, ok := observability.Search().(*searchLogHooks)
	require.False(t, ok, "search hooks registered at info level")

	c.SetLogLevel(log.DebugLevel)
	assert.IsType(t, &searchLogHooks{}, observability.Search())
}
