// Package config holds the recognized tunables, their defaults, and
// TOML file loading.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Defaults mirror the classic screensaver tuning.
const (
	DefaultFPSMax            = 60
	DefaultStreams           = 45
	DefaultMinCharsPerSecond = 40
	DefaultMaxCharsPerSecond = 50
	DefaultMaxStreamLength   = 30
	DefaultWarmUp            = 2 * time.Second
)

// DefaultExtensions are the file extensions sourced for stream text.
var DefaultExtensions = []string{"txt", "md", "py", "cmd"}

// Duration wraps time.Duration so TOML can decode values like "1.5s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	d.Duration = v
	return err
}

// Config is the full set of recognized options.
type Config struct {
	// FPSMax caps the frame refresh rate.
	FPSMax int `toml:"fps_max"`
	// Streams is the size of the fixed actor pool.
	Streams int `toml:"streams"`
	// DirX and DirY form the per-step direction vector; DX moves the
	// column, DY the row. Exactly one must be nonzero.
	DirX int `toml:"dir_x"`
	DirY int `toml:"dir_y"`
	// MinCharsPerSecond and MaxCharsPerSecond bound the per-stream
	// emission rate.
	MinCharsPerSecond int `toml:"min_chars_per_second"`
	MaxCharsPerSecond int `toml:"max_chars_per_second"`
	// MaxStreamLength bounds the visible trail of a single stream.
	MaxStreamLength int `toml:"max_stream_length"`
	// WarmUp bounds the random stagger of stream start times.
	WarmUp Duration `toml:"warm_up"`
	// AssetDir is scanned recursively for stream text.
	AssetDir string `toml:"asset_dir"`
	// Extensions whitelists source file extensions.
	Extensions []string `toml:"extensions"`
	// Seed fixes the random sequence; zero draws from entropy.
	Seed uint64 `toml:"seed"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		FPSMax:            DefaultFPSMax,
		Streams:           DefaultStreams,
		DirX:              0,
		DirY:              1,
		MinCharsPerSecond: DefaultMinCharsPerSecond,
		MaxCharsPerSecond: DefaultMaxCharsPerSecond,
		MaxStreamLength:   DefaultMaxStreamLength,
		WarmUp:            Duration{DefaultWarmUp},
		AssetDir:          ".",
		Extensions:        DefaultExtensions,
	}
}

// Load returns the defaults overlaid with the TOML file at path. An
// empty path skips the file entirely.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the scheduler or actors cannot run
// with. Called once at startup, before anything touches the terminal.
func (c *Config) Validate() error {
	switch {
	case c.FPSMax <= 0:
		return fmt.Errorf("config: fps_max must be positive, got %d", c.FPSMax)
	case c.Streams <= 0:
		return fmt.Errorf("config: streams must be positive, got %d", c.Streams)
	case c.MaxStreamLength <= 0:
		return fmt.Errorf("config: max_stream_length must be positive, got %d", c.MaxStreamLength)
	case c.MinCharsPerSecond <= 0:
		return fmt.Errorf("config: min_chars_per_second must be positive, got %d", c.MinCharsPerSecond)
	case c.MaxCharsPerSecond < c.MinCharsPerSecond:
		return fmt.Errorf("config: chars-per-second range inverted: %d > %d",
			c.MinCharsPerSecond, c.MaxCharsPerSecond)
	case c.WarmUp.Duration < 0:
		return fmt.Errorf("config: warm_up must not be negative")
	case c.AssetDir == "":
		return fmt.Errorf("config: asset_dir must not be empty")
	case len(c.Extensions) == 0:
		return fmt.Errorf("config: at least one extension is required")
	}

	moving := 0
	if c.DirX != 0 {
		moving++
	}
	if c.DirY != 0 {
		moving++
	}
	if moving != 1 {
		return fmt.Errorf("config: direction (%d,%d) must move exactly one axis", c.DirX, c.DirY)
	}

	return nil
}
