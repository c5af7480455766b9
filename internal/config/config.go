// Package config loads wallplan's user configuration.
//
// Settings come from an optional TOML file ($XDG_CONFIG_HOME/wallplan/config.toml
// by default) and WALLPLAN_* environment variables, in increasing order of
// precedence. Command-line flags override both.
//
//	[plan]
//	source = "SOCAPEX"
//	processor = "mx40"
//	loom_bundle_size = 4
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "24h"
//
// The same keys as environment variables: WALLPLAN_PLAN_SOURCE,
// WALLPLAN_CACHE_BACKEND, WALLPLAN_CACHE_REDIS_URL, ...
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/matzehuels/wallplan/pkg/cache"
	errs "github.com/matzehuels/wallplan/pkg/errors"
	"github.com/matzehuels/wallplan/pkg/pipeline"
)

const appName = "wallplan"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the merged user configuration.
type Config struct {
	Plan  pipeline.Options `mapstructure:"plan"`
	Cache CacheConfig      `mapstructure:"cache"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// CacheConfig selects and configures the plan cache.
type CacheConfig struct {
	Backend  string        `mapstructure:"backend"`
	Dir      string        `mapstructure:"dir"`
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Validate checks the cache settings.
func (c CacheConfig) Validate() error {
	switch c.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.RedisURL == "" {
			return errs.New(errs.ErrCodeInvalidOptions, "cache.redis_url is required for the redis backend")
		}
	default:
		return errs.New(errs.ErrCodeInvalidOptions, "invalid cache backend: %q (must be one of: file, redis, none)", c.Backend)
	}
	if c.TTL < 0 {
		return errs.New(errs.ErrCodeInvalidOptions, "cache.ttl must not be negative")
	}
	return nil
}

// Load reads the config file at path, or the default location when path is
// empty, and applies environment overrides. A missing default file is not an
// error; a missing explicit file is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{File: v.ConfigFileUsed()}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Cache.Dir == "" {
		if dir, err := CacheDir(); err == nil {
			cfg.Cache.Dir = dir
		}
	}
	cfg.Cache.Backend = strings.ToLower(cfg.Cache.Backend)
	if err := cfg.Cache.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it during
// Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("plan.path_mode", "")
	v.SetDefault("plan.loom_bundle_size", 0)
	v.SetDefault("plan.port_group_size", 0)
	v.SetDefault("plan.rack_location", "")
	v.SetDefault("plan.source", "")
	v.SetDefault("plan.feeds", 0)
	v.SetDefault("plan.voltage", 0)
	v.SetDefault("plan.planning_threshold_percent", 0.0)
	v.SetDefault("plan.hard_limit_percent", 0.0)
	v.SetDefault("plan.processor", "")
	v.SetDefault("plan.card", "")
	v.SetDefault("plan.parallelism", 0)

	v.SetDefault("cache.backend", BackendFile)
	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", cache.TTLPlan)
}

// Dir returns the config directory using XDG standard (~/.config/wallplan/).
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// CacheDir returns the cache directory using XDG standard (~/.cache/wallplan/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
