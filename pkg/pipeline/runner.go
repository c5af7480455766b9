package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/wallplan/pkg/buildinfo"
	"github.com/matzehuels/wallplan/pkg/cache"
	errs "github.com/matzehuels/wallplan/pkg/errors"
	"github.com/matzehuels/wallplan/pkg/io"
	"github.com/matzehuels/wallplan/pkg/observability"
	"github.com/matzehuels/wallplan/pkg/wall"
)

// Runner plans walls with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't store
// plans. Multiple goroutines can safely use the same Runner with different
// options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of cached plans. Zero uses cache.TTLPlan.
	TTL time.Duration

	// now is replaced in tests.
	now func() time.Time
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		now:    time.Now,
	}
}

// PlanWallWithCacheInfo plans a standalone or master wall and reports whether
// the plan came from the cache.
func (r *Runner) PlanWallWithCacheInfo(ctx context.Context, cat wall.Catalog, e io.WallEntry, opts Options) (WallPlan, bool, error) {
	if err := ctx.Err(); err != nil {
		return WallPlan{}, false, err
	}
	if e.Wall.IsMirror() {
		return WallPlan{}, false, errs.New(errs.ErrCodeMirrorLink, "wall %s is a mirror; plan it with its project", e.Wall.ID)
	}

	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnPlanStart(ctx, e.Wall.ID, len(e.Cells))

	o, w, err := opts.ForWall(e)
	if err != nil {
		hooks.OnPlanComplete(ctx, e.Wall.ID, 0, 0, time.Since(start), err)
		return WallPlan{}, false, err
	}

	hash, err := inputHash(cat, w, e.Cells)
	if err != nil {
		return WallPlan{}, false, err
	}
	key := r.Keyer.PlanKey(w.ID, hash, o.PlanKeyOpts())

	if !o.Refresh {
		if wp, ok := r.lookup(ctx, key); ok {
			r.logPlan(wp, time.Since(start), true)
			hooks.OnPlanComplete(ctx, w.ID, len(wp.Data.Runs), wp.Power.CircuitCount, time.Since(start), nil)
			return wp, true, nil
		}
	}

	wp, err := plan(cat, w, e.Cells, o)
	hooks.OnPlanComplete(ctx, w.ID, len(wp.Data.Runs), wp.Power.CircuitCount, time.Since(start), err)
	if err != nil {
		return WallPlan{}, false, err
	}
	r.store(ctx, key, wp)
	r.logPlan(wp, time.Since(start), false)
	return wp, false, nil
}

// PlanWall is a convenience wrapper that calls PlanWallWithCacheInfo and
// discards the cache hit info.
func (r *Runner) PlanWall(ctx context.Context, cat wall.Catalog, e io.WallEntry, opts Options) (WallPlan, error) {
	wp, _, err := r.PlanWallWithCacheInfo(ctx, cat, e, opts)
	return wp, err
}

// PlanProject plans every wall of p. Standalone and master walls are planned
// concurrently, bounded by opts.Parallelism; mirror walls are derived from
// their masters afterwards. Plans are returned in project file order.
func (r *Runner) PlanProject(ctx context.Context, p io.Project, opts Options) (*PlanSet, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	plans := make([]WallPlan, len(p.Walls))
	hits := make([]bool, len(p.Walls))
	index := make(map[string]int, len(p.Walls))
	for i, e := range p.Walls {
		index[e.Wall.ID] = i
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallelism)
	for i, e := range p.Walls {
		if e.Wall.IsMirror() {
			continue
		}
		g.Go(func() error {
			wp, hit, err := r.PlanWallWithCacheInfo(gctx, p.Catalog, e, opts)
			if err != nil {
				return err
			}
			plans[i], hits[i] = wp, hit
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, e := range p.Walls {
		if !e.Wall.IsMirror() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		masterID, _ := e.Wall.ImagMasterWallID.Get()
		mi, ok := index[masterID]
		if !ok {
			return nil, errs.New(errs.ErrCodeMirrorLink, "mirror wall %s references unknown master %q", e.Wall.ID, masterID)
		}
		wp, err := PlanMirror(p.Catalog, plans[mi], p.Walls[mi], e, opts)
		if err != nil {
			return nil, err
		}
		observability.Pipeline().OnMirrorApplied(ctx, e.Wall.ID, masterID)
		r.Logger.Debug("derived mirror plan", "wall", e.Wall.ID, "master", masterID)
		plans[i] = wp
	}

	set := &PlanSet{
		Project:     p.Name,
		Generator:   buildinfo.Generator(),
		GeneratedAt: r.now().UTC(),
		Walls:       plans,
	}
	for i, hit := range hits {
		if hit {
			set.CacheHits = append(set.CacheHits, p.Walls[i].Wall.ID)
		}
	}
	return set, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) lookup(ctx context.Context, key string) (WallPlan, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
		return WallPlan{}, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "plan")
		return WallPlan{}, false
	}
	var wp WallPlan
	if err := json.Unmarshal(data, &wp); err != nil {
		// Stale encoding; recompute.
		r.Logger.Debug("discarding unreadable cache entry", "err", err)
		observability.Cache().OnCacheMiss(ctx, "plan")
		return WallPlan{}, false
	}
	observability.Cache().OnCacheHit(ctx, "plan")
	return wp, true
}

func (r *Runner) store(ctx context.Context, key string, wp WallPlan) {
	data, err := json.Marshal(wp)
	if err != nil {
		return
	}
	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.TTLPlan
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "plan", len(data))
}

func (r *Runner) logPlan(wp WallPlan, d time.Duration, cached bool) {
	r.Logger.Info("planned wall",
		"wall", wp.WallID,
		"runs", len(wp.Data.Runs),
		"circuits", wp.Power.CircuitCount,
		"duration", d.Round(time.Microsecond),
		"cached", cached)
}
