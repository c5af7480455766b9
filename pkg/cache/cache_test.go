package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func init() {
	defaultBackoff.delay = time.Millisecond
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if n, err := c.(Clearer).Clear(ctx); n != 0 || err != nil {
		t.Errorf("Clear = %d, %v", n, err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, _, err := c.Get(canceled, "key"); err == nil {
		t.Error("Get with canceled context should fail")
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "nested", "cache"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if _, hit, err := c.Get(ctx, "plan:main:x"); err != nil || hit {
		t.Fatalf("empty cache: hit=%v err=%v", hit, err)
	}

	if err := c.Set(ctx, "plan:main:x", []byte(`{"runs":2}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "plan:main:x")
	if err != nil || !hit {
		t.Fatalf("Get after Set: hit=%v err=%v", hit, err)
	}
	if string(data) != `{"runs":2}` {
		t.Errorf("data = %s", data)
	}

	if err := c.Delete(ctx, "plan:main:x"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "plan:main:x"); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, "plan:main:x"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should be a miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed from disk")
	}

	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero ttl should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v", hit, err)
	}
}

func TestFileCachePrune(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "short", []byte("v"), time.Minute)
	_ = c.Set(ctx, "long", []byte("v"), time.Hour)
	_ = c.Set(ctx, "forever", []byte("v"), 0)
	junk := c.path("junk")
	_ = os.MkdirAll(filepath.Dir(junk), 0o755)
	_ = os.WriteFile(junk, []byte("{"), 0o644)

	now = now.Add(10 * time.Minute)
	n, err := c.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 2 {
		t.Errorf("Prune removed %d entries, want 2", n)
	}
	for _, k := range []string{"long", "forever"} {
		if _, hit, _ := c.Get(ctx, k); !hit {
			t.Errorf("%s should survive Prune", k)
		}
	}
	if _, err := os.Stat(c.path("short")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed from disk")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatalf("Set %s: %v", k, err)
		}
	}
	n, err := c.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("cache dir not empty after Clear: %d entries", len(entries))
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	opts := PlanKeyOpts{PathMode: "SNAKE_ROWS", LoomBundleSize: 4, PortGroupSize: 4, Source: "SOCAPEX", Feeds: 1}

	key := k.PlanKey("main", "abc", opts)
	if !strings.HasPrefix(key, "plan:main:") {
		t.Errorf("PlanKey prefix unexpected: %s", key)
	}
	if key != k.PlanKey("main", "abc", opts) {
		t.Error("PlanKey should be deterministic")
	}

	changed := opts
	changed.Feeds = 2
	tests := []struct {
		name  string
		other string
	}{
		{"wall", k.PlanKey("side", "abc", opts)},
		{"inputs", k.PlanKey("main", "abd", opts)},
		{"options", k.PlanKey("main", "abc", changed)},
	}
	for _, tt := range tests {
		if tt.other == key {
			t.Errorf("different %s should produce a different key", tt.name)
		}
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "project:arena:")
	key := scoped.PlanKey("main", "abc", PlanKeyOpts{})
	if !strings.HasPrefix(key, "project:arena:plan:main:") {
		t.Errorf("ScopedKeyer PlanKey should be prefixed: %s", key)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "p:")
	want := "p:" + NewDefaultKeyer().PlanKey("w", "h", PlanKeyOpts{})
	if got := scoped.PlanKey("w", "h", PlanKeyOpts{}); got != want {
		t.Errorf("nil inner: got %s, want %s", got, want)
	}
}

func TestBackoff(t *testing.T) {
	ctx := context.Background()
	b := backoff{attempts: 3, delay: time.Millisecond}
	permanent := errors.New("WRONGTYPE")
	flaky := fmt.Errorf("%w: reset", ErrNetwork)

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   error
	}{
		{"success", 0, nil, 1, nil},
		{"permanent", 5, permanent, 1, permanent},
		{"recovers", 1, flaky, 2, nil},
		{"exhausted", 5, flaky, 3, ErrNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := b.do(ctx, func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := backoff{attempts: 3, delay: time.Hour}.do(ctx, func() error {
		return ErrNetwork
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestClassify(t *testing.T) {
	opErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	tests := []struct {
		name    string
		err     error
		network bool
	}{
		{"nil", nil, false},
		{"miss", redis.Nil, false},
		{"dial", opErr, true},
		{"eof", io.EOF, true},
		{"deadline", context.DeadlineExceeded, false},
		{"command", errors.New("WRONGTYPE"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			if errors.Is(got, ErrNetwork) != tt.network {
				t.Errorf("classify(%v) = %v", tt.err, got)
			}
			if tt.err != nil && !errors.Is(got, tt.err) {
				t.Errorf("classify should keep the cause: %v", got)
			}
		})
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), RedisConfig{URL: "http://localhost:6379"})
	if err == nil || !strings.Contains(err.Error(), "parse redis url") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestRedisKeyPrefix(t *testing.T) {
	c := &RedisCache{prefix: DefaultRedisPrefix}
	if got := c.key("plan:main:abc"); got != "wallplan:plan:main:abc" {
		t.Errorf("key = %s", got)
	}
}

func TestHashJSON(t *testing.T) {
	a, err := HashJSON(map[string]int{"b": 2, "a": 1})
	if err != nil {
		t.Fatalf("HashJSON: %v", err)
	}
	b, _ := HashJSON(map[string]int{"a": 1, "b": 2})
	if a != b {
		t.Error("HashJSON should not depend on map order")
	}
	if _, err := HashJSON(func() {}); err == nil {
		t.Error("HashJSON should reject values JSON cannot encode")
	}
}
