package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/isotower/pkg/errors"
	"github.com/matzehuels/isotower/pkg/observability"
)

var (
	errFlaky = errors.New("connection reset")
	errFatal = errors.New("bad request")
)

// exerciseCache runs the contract every storing back end must satisfy.
func exerciseCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	_, hit, err := c.Get(ctx, "result:missing")
	require.NoError(t, err)
	require.False(t, hit)

	require.NoError(t, c.Set(ctx, "result:a", []byte("120"), 0))
	data, hit, err := c.Get(ctx, "result:a")
	require.NoError(t, err)
	require.True(t, hit, "Get after Set")
	assert.Equal(t, "120", string(data))

	require.NoError(t, c.Set(ctx, "result:a", []byte("48"), time.Hour))
	data, _, _ = c.Get(ctx, "result:a")
	assert.Equal(t, "48", string(data), "Get after overwrite")

	require.NoError(t, c.Delete(ctx, "result:a"))
	_, hit, _ = c.Get(ctx, "result:a")
	assert.False(t, hit, "entry still present after Delete")
	assert.NoError(t, c.Delete(ctx, "result:a"), "Delete of missing key")
}

// exerciseDiscard checks a back end that accepts writes and keeps nothing.
func exerciseDiscard(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "result:a", []byte("120"), time.Hour))
	data, hit, err := c.Get(ctx, "result:a")
	require.NoError(t, err)
	assert.False(t, hit, "Get after Set")
	assert.Nil(t, data)
	assert.NoError(t, c.Delete(ctx, "result:a"))
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	defer c.Close()

	exerciseDiscard(t, c)
	assert.NoError(t, Clear(context.Background(), c))
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	defer c.Close()
	exerciseCache(t, c)
}

func TestFileCacheExpiryAndCorruption(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Nanosecond))
	time.Sleep(2 * time.Millisecond)
	_, hit, _ := c.Get(ctx, "k")
	assert.False(t, hit, "expired entry returned")
	_, err = os.Stat(c.path("k"))
	assert.True(t, os.IsNotExist(err), "expired entry not removed")

	require.NoError(t, os.MkdirAll(filepath.Dir(c.path("bad")), 0o755))
	require.NoError(t, os.WriteFile(c.path("bad"), []byte("{"), 0o644))
	_, hit, err = c.Get(ctx, "bad")
	assert.NoError(t, err)
	assert.False(t, hit, "corrupt entry should read as a miss")
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, c.Set(ctx, k, []byte(k), 0))
	}
	require.NoError(t, Clear(ctx, c))

	entries, _ := os.ReadDir(c.Dir())
	assert.Empty(t, entries)
	_, err = os.Stat(c.Dir())
	assert.NoError(t, err, "Clear removed the root")
}

func TestBadgerCacheInMemory(t *testing.T) {
	c, err := NewBadgerCache("")
	require.NoError(t, err)
	defer c.Close()
	exerciseCache(t, c)

	ctx := context.Background()
	_ = c.Set(ctx, "x", []byte("1"), 0)
	require.NoError(t, Clear(ctx, c))
	_, hit, _ := c.Get(ctx, "x")
	assert.False(t, hit, "entry survived Clear")
}

func TestBadgerCacheOnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	c, err := NewBadgerCache(dir)
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, "k", []byte("persisted"), 0))
	require.NoError(t, c.Close())

	c, err = NewBadgerCache(dir)
	require.NoError(t, err)
	defer c.Close()
	data, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "persisted", string(data))
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("ISOTOWER_REDIS_ADDR")
	if addr == "" {
		t.Skip("ISOTOWER_REDIS_ADDR not set")
	}
	c, err := NewRedisCache(context.Background(), addr)
	require.NoError(t, err)
	defer c.Close()
	exerciseCache(t, c)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		cfg     Config
		stores  bool
		wantErr bool
	}{
		{"file", Config{Backend: BackendFile, Dir: t.TempDir()}, true, false},
		{"default is file", Config{Dir: t.TempDir()}, true, false},
		{"file without dir", Config{Backend: BackendFile}, false, true},
		{"badger in memory", Config{Backend: BackendBadger}, true, false},
		{"none", Config{Backend: BackendNone}, false, false},
		{"unknown", Config{Backend: "memcached"}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Open(ctx, tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errs.Is(err, errs.ErrCodeInvalidConfig), "code = %q", errs.GetCode(err))
				return
			}
			require.NoError(t, err)
			defer c.Close()
			if tt.stores {
				exerciseCache(t, c)
			} else {
				exerciseDiscard(t, c)
			}
		})
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	assert.Equal(t, h1, Hash([]byte("hello")), "Hash should be deterministic")
	assert.NotEqual(t, h1, Hash([]byte("world")))
	assert.Len(t, h1, 64)
}

func TestKeyer(t *testing.T) {
	type cfg struct{ Twins bool }
	k := NewKeyer("")

	base := k.ResultKey("automorphisms", cfg{true}, "Bw")
	assert.Equal(t, base, k.ResultKey("automorphisms", cfg{true}, "Bw"))
	for name, other := range map[string]string{
		"query":  k.ResultKey("isomorphic", cfg{true}, "Bw"),
		"config": k.ResultKey("automorphisms", cfg{false}, "Bw"),
		"graph":  k.ResultKey("automorphisms", cfg{true}, "Bg"),
		"arity":  k.ResultKey("automorphisms", cfg{true}, "Bw", "Bw"),
	} {
		assert.NotEqual(t, base, other, "changing the %s should change the key", name)
	}

	scoped := NewKeyer("server1:").ResultKey("automorphisms", cfg{true}, "Bw")
	assert.Equal(t, "server1:"+base, scoped)
	assert.Equal(t, KeyResult, keyType(scoped))
	assert.Equal(t, KeyResult, keyType(base))
	assert.Empty(t, keyType("plain"))
}

type recordingHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets int
	lastType           string
}

func (r *recordingHooks) OnCacheHit(_ context.Context, keyType string) {
	r.hits++
	r.lastType = keyType
}

func (r *recordingHooks) OnCacheMiss(_ context.Context, keyType string) {
	r.misses++
	r.lastType = keyType
}

func (r *recordingHooks) OnCacheSet(_ context.Context, keyType string, _ int) {
	r.sets++
	r.lastType = keyType
}

func TestInstrument(t *testing.T) {
	rec := &recordingHooks{}
	observability.SetCacheHooks(rec)
	defer observability.Reset()

	inner, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	c := Instrument(Instrument(inner))
	ctx := context.Background()
	key := NewKeyer("").ResultKey("automorphisms", nil, "Bw")

	_, _, _ = c.Get(ctx, key)
	_ = c.Set(ctx, key, []byte("6"), 0)
	_, _, _ = c.Get(ctx, key)

	assert.Equal(t, 1, rec.hits)
	assert.Equal(t, 1, rec.misses)
	assert.Equal(t, 1, rec.sets)
	assert.Equal(t, KeyResult, rec.lastType)
	assert.NoError(t, Clear(ctx, c), "Clear through wrapper")
}

type plainCache struct{ NullCache }

func TestClearUnsupported(t *testing.T) {
	err := Clear(context.Background(), &plainCache{})
	assert.True(t, errs.Is(err, errs.ErrCodeUnsupported), "got %v", err)
}

func TestRetryableError(t *testing.T) {
	assert.NoError(t, Retryable(nil))

	err := Retryable(errFlaky)
	assert.True(t, IsRetryable(err))
	assert.EqualError(t, err, errFlaky.Error())
	assert.ErrorIs(t, err, errFlaky)
	assert.False(t, IsRetryable(errFatal))
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return errFatal
	})
	assert.Equal(t, errFatal, err)
	assert.Equal(t, 1, calls, "non-retryable errors are not retried")

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(errFlaky)
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return Retryable(errFlaky)
	})
	assert.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(errFlaky)
	})
	assert.Equal(t, context.Canceled, err)
}
