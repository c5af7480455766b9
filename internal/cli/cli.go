// Package cli implements the wallplan command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wallplan/internal/config"
	"github.com/matzehuels/wallplan/pkg/buildinfo"
	"github.com/matzehuels/wallplan/pkg/cache"
	"github.com/matzehuels/wallplan/pkg/observability"
	"github.com/matzehuels/wallplan/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display and cache key scopes.
const appName = "wallplan"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configFile string
	noCache    bool

	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	setLevel(c.Logger, level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "wallplan plans data and power for LED video walls",
		Long: `wallplan lays out LED cabinets on a wall grid and derives the processor
port runs, power circuits and totals a crew needs to build it.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			hooks := logHooks{logger: c.Logger}
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/wallplan/config.toml)")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the plan cache")

	for _, cmd := range []*cobra.Command{
		c.planCommand(),
		c.validateCommand(),
		c.fillCommand(),
		c.placeCommand(),
		c.removeCommand(),
		c.moveCommand(),
		c.markCommand(),
		c.viewCommand(),
	} {
		root.AddCommand(withProjectCompletion(cmd))
	}
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config loads the configuration once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
// Plans stored in Redis are scoped by project so projects sharing a server
// never collide.
func (c *CLI) newRunner(ctx context.Context, project string) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	store, err := c.newCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}

	var keyer cache.Keyer
	if cfg.Cache.Backend == config.BackendRedis {
		keyer = cache.NewScopedKeyer(nil, appName+":"+project+":")
	}

	r := pipeline.NewRunner(store, keyer, c.Logger)
	r.TTL = cfg.Cache.TTL
	return r, nil
}

// newCache opens the backend named by cc. --no-cache always wins.
func (c *CLI) newCache(ctx context.Context, cc config.CacheConfig) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}

	switch cc.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		spinner := newSpinnerWithContext(ctx, os.Stderr, "Connecting to Redis...")
		spinner.Start()
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: cc.RedisURL})
		spinner.Stop()
		if err != nil {
			return nil, fmt.Errorf("open redis cache: %w", err)
		}
		return rc, nil
	default:
		fc, err := cache.NewFileCache(cc.Dir)
		if err != nil {
			c.Logger.Warn("plan cache disabled", "dir", cc.Dir, "error", err)
			return cache.NewNullCache(), nil
		}
		return fc, nil
	}
}
