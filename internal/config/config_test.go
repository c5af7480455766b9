package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/wallplan/pkg/cache"
	errs "github.com/matzehuels/wallplan/pkg/errors"
	"github.com/matzehuels/wallplan/pkg/wall"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Empty(t, cfg.File)
	assert.Equal(t, BackendFile, cfg.Cache.Backend)
	assert.Equal(t, filepath.Join(dir, "cache", "wallplan"), cfg.Cache.Dir)
	assert.Equal(t, cache.TTLPlan, cfg.Cache.TTL)
	assert.Empty(t, cfg.Plan.Source, "plan defaults are left to the pipeline")
}

func TestLoadFile(t *testing.T) {
	dir := isolate(t)
	cfgDir := filepath.Join(dir, "config", "wallplan")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte(`
[plan]
source = "L21-30"
processor = "mx40"
voltage = 120
loom_bundle_size = 2
card = "A10s"

[cache]
backend = "none"
ttl = "24h"
`), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(cfgDir, "config.toml"), cfg.File)
	assert.Equal(t, "L21-30", cfg.Plan.Source)
	assert.Equal(t, "mx40", cfg.Plan.ProcessorID)
	assert.Equal(t, wall.Voltage120, cfg.Plan.Voltage)
	assert.Equal(t, 2, cfg.Plan.LoomBundleSize)
	assert.Equal(t, wall.CardA10s, cfg.Plan.Card)
	assert.Equal(t, BackendNone, cfg.Cache.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("WALLPLAN_PLAN_SOURCE", "EDISON")
	t.Setenv("WALLPLAN_PLAN_FEEDS", "3")
	t.Setenv("WALLPLAN_CACHE_BACKEND", "REDIS")
	t.Setenv("WALLPLAN_CACHE_REDIS_URL", "redis://cache:6379/1")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "EDISON", cfg.Plan.Source)
	assert.Equal(t, 3, cfg.Plan.Feeds)
	assert.Equal(t, BackendRedis, cfg.Cache.Backend)
	assert.Equal(t, "redis://cache:6379/1", cfg.Cache.RedisURL)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestCacheConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     CacheConfig
		wantErr bool
	}{
		{"file", CacheConfig{Backend: BackendFile}, false},
		{"none", CacheConfig{Backend: BackendNone}, false},
		{"redis", CacheConfig{Backend: BackendRedis, RedisURL: "redis://localhost"}, false},
		{"redis without url", CacheConfig{Backend: BackendRedis}, true},
		{"unknown", CacheConfig{Backend: "memcached"}, true},
		{"negative ttl", CacheConfig{Backend: BackendFile, TTL: -time.Second}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.True(t, errs.Is(err, errs.ErrCodeInvalidOptions), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
