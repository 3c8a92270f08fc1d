package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	require.NoError(t, err)
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".cache", appName), dir)
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

	dir, err := cacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/custom-cache", appName), dir)
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	dir, err := configDir()
	require.NoError(t, err)
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".config", appName), dir)

	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")
	dir, _ = configDir()
	assert.Equal(t, filepath.Join("/tmp/custom-config", appName), dir)
}

func TestCacheConfig(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")

	tests := []struct {
		name    string
		backend string
		dir     string
		wantDir string
	}{
		{"default is file", "", "", "/tmp/xdg/isotower/file"},
		{"badger", "badger", "", "/tmp/xdg/isotower/badger"},
		{"explicit dir", "file", "/srv/cache", "/srv/cache"},
		{"redis has no dir", "redis", "", ""},
		{"none has no dir", "none", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(os.Stderr, LogInfo)
			c.settings.Cache.Backend = tt.backend
			c.settings.Cache.Dir = tt.dir
			cfg, err := c.cacheConfig()
			require.NoError(t, err)
			assert.Equal(t, tt.wantDir, cfg.Dir)
		})
	}
}
