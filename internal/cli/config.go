package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/isotower/internal/server"
	"github.com/matzehuels/isotower/pkg/cache"
	errs "github.com/matzehuels/isotower/pkg/errors"
	"github.com/matzehuels/isotower/pkg/iso"
	"github.com/matzehuels/isotower/pkg/refine"
)

// Settings is the content of the TOML config file:
//
//	[algorithm]
//	twin_removal = true
//	refinement = "fast"
//	max_nodes = 1000000
//	timeout = "30s"
//
//	[cache]
//	backend = "badger"
//	ttl = "720h"
//
//	[server]
//	addr = "127.0.0.1:8080"
type Settings struct {
	Algorithm iso.Config     `toml:"algorithm"`
	Cache     cache.Config   `toml:"cache"`
	Server    ServerSettings `toml:"server"`
}

// ServerSettings configures the serve command.
type ServerSettings struct {
	Addr string `toml:"addr"`
}

// DefaultSettings returns the settings used without a config file.
func DefaultSettings() Settings {
	return Settings{
		Algorithm: iso.DefaultConfig(),
		Cache:     cache.Config{Backend: cache.BackendFile},
		Server:    ServerSettings{Addr: server.DefaultAddr},
	}
}

// loadSettings reads path over the defaults. An empty path means the
// default location, which may be missing; an explicit path must exist.
func loadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return s, nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if explicit {
			return s, errs.Wrap(errs.ErrCodeFileNotFound, err, "config %s", path)
		}
		return s, nil
	}

	md, err := toml.DecodeFile(path, &s)
	if err != nil {
		return s, errs.Wrap(errs.ErrCodeInvalidConfig, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return s, errs.New(errs.ErrCodeInvalidConfig, "config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := s.Algorithm.Validate(); err != nil {
		return s, fmt.Errorf("config %s: %w", path, err)
	}
	return s, nil
}

// algorithmFlags are the per-command overrides of [Settings.Algorithm].
type algorithmFlags struct {
	noTwins      bool
	noTree       bool
	noComplement bool
	noReject     bool
	refinement   string
	maxNodes     int
	timeout      time.Duration
	noCache      bool
}

func (f *algorithmFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.BoolVar(&f.noTwins, "no-twins", false, "disable twin removal")
	fs.BoolVar(&f.noTree, "no-tree", false, "disable the tree shortcut")
	fs.BoolVar(&f.noComplement, "no-complement", false, "never search the complement of dense graphs")
	fs.BoolVar(&f.noReject, "no-reject", false, "disable the degree-based quick reject")
	fs.StringVar(&f.refinement, "refinement", "", "color refinement: naive or fast")
	fs.IntVar(&f.maxNodes, "max-nodes", 0, "abort a search after this many nodes (0 = unlimited)")
	fs.DurationVar(&f.timeout, "timeout", 0, "abort a query after this long (0 = no limit)")
	fs.BoolVar(&f.noCache, "no-cache", false, "do not read or write the result cache")
}

// apply overlays the flags that were set on base.
func (f *algorithmFlags) apply(cmd *cobra.Command, base iso.Config) (iso.Config, error) {
	cfg := base
	fs := cmd.Flags()
	if f.noTwins {
		cfg.UseTwinRemoval = false
	}
	if f.noTree {
		cfg.UseTreeShortcut = false
	}
	if f.noComplement {
		cfg.UseComplement = false
	}
	if f.noReject {
		cfg.UseQuickReject = false
	}
	if fs.Changed("refinement") {
		k, err := refine.ParseKind(f.refinement)
		if err != nil {
			return cfg, err
		}
		cfg.Refinement = k
	}
	if fs.Changed("max-nodes") {
		cfg.MaxNodes = f.maxNodes
	}
	if fs.Changed("timeout") {
		cfg.Timeout = f.timeout
	}
	return cfg, cfg.Validate()
}
