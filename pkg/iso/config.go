package iso

import (
	"time"

	errs "github.com/matzehuels/isotower/pkg/errors"
	"github.com/matzehuels/isotower/pkg/refine"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultMaxNodes leaves the search unbounded.
	DefaultMaxNodes = 0

	// DefaultTimeout leaves the search without a deadline.
	DefaultTimeout = time.Duration(0)
)

// Config selects the reductions applied around the search and bounds the
// search itself. It replaces process-wide switches: every query takes its
// own Config.
type Config struct {
	// UseTwinRemoval collapses twin classes before searching.
	UseTwinRemoval bool `toml:"twin_removal" json:"twin_removal"`

	// UseTreeShortcut answers queries on trees without searching.
	UseTreeShortcut bool `toml:"tree_shortcut" json:"tree_shortcut"`

	// UseComplement searches the complement of dense graphs.
	UseComplement bool `toml:"complement" json:"complement"`

	// UseQuickReject compares orders, sizes and degrees before searching.
	UseQuickReject bool `toml:"quick_reject" json:"quick_reject"`

	// Refinement selects the color refinement strategy.
	Refinement refine.Kind `toml:"refinement" json:"refinement"`

	// MaxNodes bounds every search run by a query. Zero means no limit.
	MaxNodes int `toml:"max_nodes" json:"max_nodes,omitempty"`

	// Timeout bounds the whole query. Zero means no deadline.
	Timeout time.Duration `toml:"timeout" json:"timeout,omitempty"`
}

// DefaultConfig enables every reduction and the fast refinement.
func DefaultConfig() Config {
	return Config{
		UseTwinRemoval:  true,
		UseTreeShortcut: true,
		UseComplement:   true,
		UseQuickReject:  true,
		Refinement:      refine.DefaultKind,
		MaxNodes:        DefaultMaxNodes,
		Timeout:         DefaultTimeout,
	}
}

// Validate checks the config and fills in the default refinement.
func (c *Config) Validate() error {
	if c.Refinement == 0 {
		c.Refinement = refine.DefaultKind
	}
	if _, err := refine.New(c.Refinement); err != nil {
		return err
	}
	if c.MaxNodes < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "max_nodes must not be negative: %d", c.MaxNodes)
	}
	if c.Timeout < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "timeout must not be negative: %s", c.Timeout)
	}
	return nil
}
