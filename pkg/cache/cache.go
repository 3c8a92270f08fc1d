// Package cache stores query results keyed by graph encoding and
// configuration.
//
// # Back ends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [BadgerCache]: an embedded badger key/value store, on disk or in memory
//   - [RedisCache]: a shared Redis server, for several API instances
//   - [NullCache]: stores nothing
//
// [Open] builds one of them from a [Config]. Wrap a cache with
// [Instrument] to report hits, misses and writes to the observability
// hooks.
//
// # Keys
//
// [Keyer.ResultKey] derives a key from the query name, the configuration and
// the graph6 encodings of the input graphs. Changing any of them yields a
// different key, so stale results are never returned for a new
// configuration.
package cache

import (
	"context"
	"time"

	errs "github.com/matzehuels/isotower/pkg/errors"
)

// Cache is a byte-oriented key/value store with optional expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for back-end
// failures. A ttl of zero means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Back-end names accepted by [Open].
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Config selects and configures a cache back end.
type Config struct {
	Backend   string        `toml:"backend" json:"backend"`
	Dir       string        `toml:"dir" json:"dir"`               // file and badger
	RedisAddr string        `toml:"redis_addr" json:"redis_addr"` // redis
	TTL       time.Duration `toml:"ttl" json:"ttl"`
}

// Open returns the back end named by cfg.Backend. An empty name selects the
// file cache. The file and badger caches need cfg.Dir, except that badger
// runs in memory when Dir is empty.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendFile:
		if cfg.Dir == "" {
			return nil, errs.New(errs.ErrCodeInvalidConfig, "file cache needs a directory")
		}
		c, err := NewFileCache(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendBadger:
		c, err := NewBadgerCache(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendNone:
		return NewNullCache(), nil
	}
	return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown cache backend %q", cfg.Backend)
}
