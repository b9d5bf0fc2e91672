package scriptrt

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig("myapp")

	assert.Equal(t, "myapp", cfg.AppName)
	assert.Equal(t, "localhost:3000", cfg.Address)
	assert.Equal(t, 12, cfg.PoolSize)
	assert.Equal(t, 2*time.Second, cfg.WatchDebounce)
}

func TestConfigLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scriptrt.toml")
	contents := `
pool_size = 32
address = "0.0.0.0:8080"
acme_enabled = true
acme_host_whitelist = ["example.com", "www.example.com"]
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg := NewConfig("myapp")
	require.NoError(t, cfg.LoadFile(path))

	assert.Equal(t, 32, cfg.PoolSize)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address)
	assert.True(t, cfg.ACMEEnabled)
	assert.Equal(t, []string{"example.com", "www.example.com"}, cfg.ACMEHostWhitelist)
	assert.Equal(t, "myapp", cfg.AppName, "fields absent from the file keep their defaults")
}

func TestConfigLoadFileMissingReturnsError(t *testing.T) {
	cfg := NewConfig("myapp")
	err := cfg.LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
