package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/isotower/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached answer",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.cacheConfig()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			if cfg.Backend == cache.BackendNone {
				printInfo("Caching is disabled")
				return nil
			}

			ch, err := cache.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer ch.Close()

			if err := cache.Clear(cmd.Context(), ch); err != nil {
				return err
			}
			printSuccess("Cleared the %s cache", cfg.Backend)
			printDetail("Location: %s", cacheLocation(cfg))
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where answers are cached",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.cacheConfig()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(cacheLocation(cfg))
			return nil
		},
	}
}

// cacheLocation is the directory of local back ends or the address of redis.
func cacheLocation(cfg cache.Config) string {
	switch cfg.Backend {
	case cache.BackendRedis:
		if cfg.RedisAddr == "" {
			return "redis://localhost:6379"
		}
		return "redis://" + cfg.RedisAddr
	case cache.BackendNone:
		return "(disabled)"
	}
	return cfg.Dir
}
