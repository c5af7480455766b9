package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Counters implements both hook interfaces by counting events. It is safe
// for concurrent use; the zero value is ready.
type Counters struct {
	Planned  atomic.Int64
	Failed   atomic.Int64
	Mirrored atomic.Int64
	Hits     atomic.Int64
	Misses   atomic.Int64
	Stored   atomic.Int64
	Bytes    atomic.Int64
}

func (c *Counters) OnPlanStart(context.Context, string, int) {}

func (c *Counters) OnPlanComplete(_ context.Context, _ string, _, _ int, _ time.Duration, err error) {
	if err != nil {
		c.Failed.Add(1)
		return
	}
	c.Planned.Add(1)
}

func (c *Counters) OnMirrorApplied(context.Context, string, string) { c.Mirrored.Add(1) }

func (c *Counters) OnCacheHit(context.Context, string)  { c.Hits.Add(1) }
func (c *Counters) OnCacheMiss(context.Context, string) { c.Misses.Add(1) }

func (c *Counters) OnCacheSet(_ context.Context, _ string, size int) {
	c.Stored.Add(1)
	c.Bytes.Add(int64(size))
}

var (
	_ PipelineHooks = (*Counters)(nil)
	_ CacheHooks    = (*Counters)(nil)
)
