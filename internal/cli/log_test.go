package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		emit  func(*log.Logger)
		want  bool
	}{
		{"info at info", log.InfoLevel, func(l *log.Logger) { l.Info("x") }, true},
		{"debug at info", log.InfoLevel, func(l *log.Logger) { l.Debug("x") }, false},
		{"debug at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("x") }, true},
		{"warn at info", log.InfoLevel, func(l *log.Logger) { l.Warn("x") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(newLogger(&buf, tt.level))
			assert.Equal(t, tt.want, buf.Len() > 0)
		})
	}
}

func TestSetLogLevelTogglesTimestamps(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.Logger.Info("quiet")
	assert.Regexp(t, `^INFO quiet`, buf.String())

	buf.Reset()
	c.SetLogLevel(LogDebug)
	c.Logger.Debug("loud")
	assert.Regexp(t, `^\d{2}:\d{2}:\d{2}\.\d{2} DEBU loud`, buf.String())
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("planned project", "walls", 3)

	assert.Contains(t, buf.String(), "planned project")
	assert.Contains(t, buf.String(), "walls=3")
	assert.Contains(t, buf.String(), "elapsed=")
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := logHooks{logger: newLogger(&buf, log.DebugLevel)}
	ctx := context.Background()

	h.OnPlanStart(ctx, "main", 32)
	h.OnPlanComplete(ctx, "main", 4, 6, 3*time.Millisecond, nil)
	h.OnPlanComplete(ctx, "side", 0, 0, 0, errors.New("boom"))
	h.OnMirrorApplied(ctx, "side", "main")
	h.OnCacheHit(ctx, "plan")
	h.OnCacheMiss(ctx, "plan")
	h.OnCacheSet(ctx, "plan", 128)

	for _, want := range []string{"planning wall", "wall done", "wall failed", "boom", "mirror derived", "cache hit", "cache miss", "cache set", "bytes=128"} {
		assert.Contains(t, buf.String(), want)
	}
}

func TestLogHooksQuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	h := logHooks{logger: newLogger(&buf, log.InfoLevel)}
	h.OnPlanStart(context.Background(), "main", 1)
	h.OnCacheHit(context.Background(), "plan")
	assert.Empty(t, buf.String())
}
