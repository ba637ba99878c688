package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/globecover/internal/config"
	"github.com/matzehuels/globecover/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached covering, terrain and payload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if c.Config.Cache.Backend == config.BackendFile {
				dir, err := c.fileCacheDir()
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					printInfo(out, "Cache is empty")
					return nil
				}
			}

			ch, err := c.newCache(ctx, false)
			if err != nil {
				return err
			}
			defer ch.Close()

			clearer, ok := ch.(cache.Clearer)
			if !ok {
				printInfo(out, "Caching is disabled; nothing to clear")
				return nil
			}
			if err := clearer.Clear(ctx); err != nil {
				return err
			}

			printSuccess(out, "Cache cleared")
			printDetail(out, "%s", c.cacheLocation())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.cacheLocation())
			return nil
		},
	}
}

// cacheLocation describes the configured backend: a directory for the
// file cache, a redis URL otherwise.
func (c *CLI) cacheLocation() string {
	cfg := c.Config.Cache
	switch cfg.Backend {
	case config.BackendRedis:
		return fmt.Sprintf("redis://%s/%d", cfg.RedisAddr, cfg.RedisDB)
	case config.BackendNone:
		return "disabled"
	}
	dir, err := c.fileCacheDir()
	if err != nil {
		return "disabled"
	}
	return dir
}
