package cache

import (
	"context"
	"time"

	errs "github.com/matzehuels/isotower/pkg/errors"
	"github.com/matzehuels/isotower/pkg/observability"
)

var errUnsupportedClear = errs.New(errs.ErrCodeUnsupported, "cache back end cannot be cleared")

// Clearer is implemented by back ends that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

type instrumented struct {
	Cache
}

// Instrument wraps c so that every Get and Set is reported to the
// registered [observability.CacheHooks], labelled by key type.
func Instrument(c Cache) Cache {
	if _, ok := c.(instrumented); ok {
		return c
	}
	return instrumented{c}
}

func (c instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.Cache.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, hit, err
}

func (c instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	return nil
}

// Clear drops every entry if the wrapped cache supports it.
func (c instrumented) Clear(ctx context.Context) error {
	return Clear(ctx, c.Cache)
}

// Clear drops every entry of c. Back ends without bulk removal return an
// UNSUPPORTED error.
func Clear(ctx context.Context, c Cache) error {
	if cl, ok := c.(Clearer); ok {
		return cl.Clear(ctx)
	}
	if _, ok := c.(*NullCache); ok {
		return nil
	}
	return errUnsupportedClear
}
