package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. Every Get misses, so the pipeline recomputes each
// plan. It backs --no-cache, the "none" backend and a file cache that could
// not be opened.
type NullCache struct{}

func NewNullCache() Cache {
	return NullCache{}
}

// Get misses unless ctx is already done.
func (NullCache) Get(ctx context.Context, _ string) ([]byte, bool, error) {
	return nil, false, ctx.Err()
}

func (NullCache) Set(ctx context.Context, _ string, _ []byte, _ time.Duration) error {
	return ctx.Err()
}

func (NullCache) Delete(context.Context, string) error { return nil }

// Clear removes nothing and reports zero entries.
func (NullCache) Clear(context.Context) (int, error) { return 0, nil }

func (NullCache) Close() error { return nil }

var (
	_ Cache   = NullCache{}
	_ Clearer = NullCache{}
)
