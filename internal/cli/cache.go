package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wallplan/internal/config"
	"github.com/matzehuels/wallplan/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the plan cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePruneCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached plan from the configured backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}

			if cfg.Cache.Backend == config.BackendFile {
				if _, err := os.Stat(cfg.Cache.Dir); errors.Is(err, fs.ErrNotExist) {
					printInfo("Cache is empty")
					return nil
				}
			}

			count, err := clearCache(cmd.Context(), c, cfg.Cache)
			if err != nil {
				return err
			}
			printSuccess("Cleared %d cached entries", count)
			switch cfg.Cache.Backend {
			case config.BackendFile:
				printDetail("Directory: %s", cfg.Cache.Dir)
			case config.BackendRedis:
				printDetail("Redis: %s", cfg.Cache.RedisURL)
			}
			return nil
		},
	}
}

func clearCache(ctx context.Context, c *CLI, cc config.CacheConfig) (int, error) {
	store, err := c.newCache(ctx, cc)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	clr, ok := store.(cache.Clearer)
	if !ok {
		return 0, fmt.Errorf("cache backend %q cannot be cleared", cc.Backend)
	}
	n, err := clr.Clear(ctx)
	if err != nil {
		return n, fmt.Errorf("clear cache: %w", err)
	}
	return n, nil
}

// cachePruneCommand creates the "cache prune" subcommand. Redis expires
// entries itself, so only the file backend has anything to prune.
func (c *CLI) cachePruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired entries from the file cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if cfg.Cache.Backend != config.BackendFile {
				printInfo("Nothing to prune for the %s backend", cfg.Cache.Backend)
				return nil
			}
			if _, err := os.Stat(cfg.Cache.Dir); errors.Is(err, fs.ErrNotExist) {
				printInfo("Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(cfg.Cache.Dir)
			if err != nil {
				return fmt.Errorf("open file cache: %w", err)
			}
			n, err := fc.Prune(cmd.Context())
			if err != nil {
				return fmt.Errorf("prune cache: %w", err)
			}
			printSuccess("Pruned %d expired entries", n)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.Cache.Dir)
			return nil
		},
	}
}
