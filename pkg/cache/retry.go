package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNetwork marks backend failures caused by the connection rather than the
// command. Only these are retried.
var ErrNetwork = errors.New("cache backend unreachable")

// backoff retries an operation that fails with ErrNetwork, doubling the
// pause after each attempt.
type backoff struct {
	attempts int
	delay    time.Duration
}

// defaultBackoff is used by the Redis cache; tests shorten the delay.
var defaultBackoff = backoff{attempts: 3, delay: 200 * time.Millisecond}

func (b backoff) do(ctx context.Context, fn func() error) error {
	delay := b.delay
	var err error
	for i := range b.attempts {
		if err = fn(); err == nil || !errors.Is(err, ErrNetwork) {
			return err
		}
		if i == b.attempts-1 {
			break
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
	return err
}

// classify wraps connection-level Redis failures in ErrNetwork. Misses,
// command errors and context errors pass through unchanged.
func classify(err error) error {
	switch {
	case err == nil, errors.Is(err, redis.Nil):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	var ne net.Error
	if errors.As(err, &ne) || errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	return err
}
