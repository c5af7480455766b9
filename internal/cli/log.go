package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wallplan/pkg/observability"
)

// newLogger writes human-oriented log lines to w. Timestamps are reported
// only at debug level, where the interleaving of concurrent walls matters.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{TimeFormat: "15:04:05.00"})
	setLevel(l, level)
	return l
}

func setLevel(l *log.Logger, level log.Level) {
	l.SetLevel(level)
	l.SetReportTimestamp(level <= log.DebugLevel)
}

// progress times one command step. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with the elapsed time, e.g.
// "Planned 3 walls elapsed=12ms".
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

// =============================================================================
// Hook Logging
// =============================================================================

// logHooks reports pipeline and cache events at debug level.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.PipelineHooks = logHooks{}
	_ observability.CacheHooks    = logHooks{}
)

func (h logHooks) OnPlanStart(_ context.Context, wallID string, cells int) {
	h.logger.Debug("planning wall", "wall", wallID, "cells", cells)
}

func (h logHooks) OnPlanComplete(_ context.Context, wallID string, runs, circuits int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("wall failed", "wall", wallID, "error", err)
		return
	}
	h.logger.Debug("wall done", "wall", wallID, "runs", runs, "circuits", circuits, "duration", d.Round(time.Microsecond))
}

func (h logHooks) OnMirrorApplied(_ context.Context, mirrorID, masterID string) {
	h.logger.Debug("mirror derived", "wall", mirrorID, "master", masterID)
}

func (h logHooks) OnCacheHit(_ context.Context, kind string) {
	h.logger.Debug("cache hit", "key", kind)
}

func (h logHooks) OnCacheMiss(_ context.Context, kind string) {
	h.logger.Debug("cache miss", "key", kind)
}

func (h logHooks) OnCacheSet(_ context.Context, kind string, size int) {
	h.logger.Debug("cache set", "key", kind, "bytes", size)
}
