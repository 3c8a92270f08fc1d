// Package cli implements the isotower command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/isotower/pkg/buildinfo"
	"github.com/matzehuels/isotower/pkg/cache"
	"github.com/matzehuels/isotower/pkg/observability"
	"github.com/matzehuels/isotower/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "isotower"

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

	configPath string
	settings   Settings
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(w, level),
		settings: DefaultSettings(),
	}
}

// SetLogLevel updates the logger's level. At debug level every search is
// logged through the observability hooks.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.SetSearchHooks(&searchLogHooks{logger: c.Logger})
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "isotower decides graph isomorphism and counts automorphisms",
		Long: `isotower decides whether graphs are isomorphic and counts their isomorphisms
and automorphisms by individualization and color refinement.

Graphs are read from .gr/.grl edge lists, graph6 (.g6) or JSON files.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(c.configPath)
			if err != nil {
				return err
			}
			c.settings = s
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/isotower/config.toml)")

	root.AddCommand(c.isoCommand())
	root.AddCommand(c.countCommand())
	root.AddCommand(c.automCommand())
	root.AddCommand(c.tournamentCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, pipeline.DefaultKeyer, c.Logger), nil
}

// ttl is the lifetime of newly cached answers.
func (c *CLI) ttl() time.Duration {
	if c.settings.Cache.TTL > 0 {
		return c.settings.Cache.TTL
	}
	return pipeline.DefaultTTL
}

func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg, err := c.cacheConfig()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	if noCache || cfg.Backend == cache.BackendNone {
		return cache.NewNullCache(), nil
	}
	ch, err := cache.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return cache.Instrument(ch), nil
}

// cacheConfig returns the cache settings with the directory of local back
// ends resolved under cacheDir.
func (c *CLI) cacheConfig() (cache.Config, error) {
	cfg := c.settings.Cache
	if cfg.Backend == "" {
		cfg.Backend = cache.BackendFile
	}
	if cfg.Dir != "" || cfg.Backend == cache.BackendRedis || cfg.Backend == cache.BackendNone {
		return cfg, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cfg, err
	}
	cfg.Dir = filepath.Join(dir, cfg.Backend)
	return cfg, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/isotower/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/isotower/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
