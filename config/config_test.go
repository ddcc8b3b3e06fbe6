package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 60, cfg.FPSMax)
	assert.Equal(t, 45, cfg.Streams)
	assert.Equal(t, 0, cfg.DirX)
	assert.Equal(t, 1, cfg.DirY)
	assert.Equal(t, 30, cfg.MaxStreamLength)
	assert.Equal(t, 2*time.Second, cfg.WarmUp.Duration)
}

func TestLoadEmptyPathKeepsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matrix.toml")
	data := `
fps_max = 30
streams = 12
max_stream_length = 8
warm_up = "500ms"
asset_dir = "/tmp/corpus"
extensions = ["go"]
seed = 42
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 30, cfg.FPSMax)
	assert.Equal(t, 12, cfg.Streams)
	assert.Equal(t, 8, cfg.MaxStreamLength)
	assert.Equal(t, 500*time.Millisecond, cfg.WarmUp.Duration)
	assert.Equal(t, "/tmp/corpus", cfg.AssetDir)
	assert.Equal(t, []string{"go"}, cfg.Extensions)
	assert.Equal(t, uint64(42), cfg.Seed)

	// Untouched keys keep their defaults.
	assert.Equal(t, 40, cfg.MinCharsPerSecond)
	assert.Equal(t, 50, cfg.MaxCharsPerSecond)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadBadDurationFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte(`warm_up = "forever"`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejections(t *testing.T) {
	mutations := map[string]func(*Config){
		"zero fps":            func(c *Config) { c.FPSMax = 0 },
		"zero streams":        func(c *Config) { c.Streams = 0 },
		"zero length":         func(c *Config) { c.MaxStreamLength = 0 },
		"zero rate floor":     func(c *Config) { c.MinCharsPerSecond = 0 },
		"inverted rate range": func(c *Config) { c.MaxCharsPerSecond = c.MinCharsPerSecond - 1 },
		"negative warm-up":    func(c *Config) { c.WarmUp.Duration = -time.Second },
		"empty asset dir":     func(c *Config) { c.AssetDir = "" },
		"no extensions":       func(c *Config) { c.Extensions = nil },
		"stationary vector":   func(c *Config) { c.DirX, c.DirY = 0, 0 },
		"diagonal vector":     func(c *Config) { c.DirX, c.DirY = 1, 1 },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDurationUnmarshalText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1.5s")))
	assert.Equal(t, 1500*time.Millisecond, d.Duration)

	assert.Error(t, d.UnmarshalText([]byte("soon")))
}
