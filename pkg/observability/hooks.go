// Package observability lets a host program watch wall planning and plan
// cache traffic without the engine packages importing a logging or metrics
// backend.
//
// The pipeline reports through [Pipeline] and [Cache]; main installs
// receivers once at startup:
//
//	observability.SetPipelineHooks(myHooks)
//	observability.SetCacheHooks(myHooks)
//
// Until then every event goes to a no-op receiver. [Counters] tallies events
// in memory and serves tests and summaries.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the planning pipeline.
type PipelineHooks interface {
	// OnPlanStart fires before a wall is planned.
	OnPlanStart(ctx context.Context, wallID string, cells int)

	// OnPlanComplete fires after a master or standalone wall is planned,
	// freshly or from cache.
	OnPlanComplete(ctx context.Context, wallID string, runs, circuits int, duration time.Duration, err error)

	// OnMirrorApplied fires when a mirror wall's plan is derived from its master.
	OnMirrorApplied(ctx context.Context, mirrorID, masterID string)
}

// CacheHooks receives plan cache events. kind names the cached artifact,
// currently always "plan".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, kind string)
	OnCacheMiss(ctx context.Context, kind string)
	OnCacheSet(ctx context.Context, kind string, size int)
}

// NoopPipelineHooks discards pipeline events.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnPlanStart(context.Context, string, int) {}
func (NoopPipelineHooks) OnPlanComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnMirrorApplied(context.Context, string, string) {}

// NoopCacheHooks discards cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// Registry. Values are boxed so atomic.Value always stores one concrete type.
type pipelineBox struct{ PipelineHooks }
type cacheBox struct{ CacheHooks }

var pipelineHooks, cacheHooks atomic.Value

func init() { Reset() }

// SetPipelineHooks installs h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineHooks.Store(pipelineBox{h})
	}
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheHooks.Store(cacheBox{h})
	}
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks {
	return pipelineHooks.Load().(pipelineBox).PipelineHooks
}

// Cache returns the installed cache hooks.
func Cache() CacheHooks {
	return cacheHooks.Load().(cacheBox).CacheHooks
}

// Reset reinstalls the no-op hooks.
func Reset() {
	pipelineHooks.Store(pipelineBox{NoopPipelineHooks{}})
	cacheHooks.Store(cacheBox{NoopCacheHooks{}})
}
