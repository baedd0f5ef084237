// Package config loads the cookbook's TOML configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Backend names accepted in [render].backend.
const (
	BackendSoft = "soft"
	BackendWGPU = "wgpu"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Window configures the interactive window.
type Window struct {
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Title     string `toml:"title"`
	VSync     bool   `toml:"vsync"`
	Resizable bool   `toml:"resizable"`
}

// Render configures the device.
type Render struct {
	Backend string `toml:"backend"`

	// Workers is the soft rasterizer's row-band parallelism. Zero means one per CPU.
	Workers int `toml:"workers"`

	// Scale multiplies the display size of headless renders when writing the output image.
	Scale float32 `toml:"scale"`
}

// Log configures the package logger.
type Log struct {
	Level string `toml:"level"`
}

// Config is the whole cookbook configuration.
type Config struct {
	Window Window `toml:"window"`
	Render Render `toml:"render"`
	Log    Log    `toml:"log"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Window: Window{Width: 1280, Height: 720, Title: "oxy-shade", VSync: true, Resizable: true},
		Render: Render{Backend: BackendWGPU, Workers: 0, Scale: 1},
		Log:    Log{Level: "info"},
	}
}

// Load reads a TOML file on top of Default.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Config: the merged configuration
//   - error: a read, decode or validation error
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads TOML from r on top of Default. Unknown keys are rejected.
//
// Parameters:
//   - r: the TOML source
//
// Returns:
//   - Config: the merged configuration
//   - error: a decode or validation error
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("%w: %s", ErrInvalid, strict.String())
		}
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	switch c.Render.Backend {
	case BackendSoft, BackendWGPU:
	default:
		return fmt.Errorf("%w: render backend %q", ErrInvalid, c.Render.Backend)
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("%w: render workers %d", ErrInvalid, c.Render.Workers)
	}
	if c.Render.Scale <= 0 {
		return fmt.Errorf("%w: render scale %g", ErrInvalid, c.Render.Scale)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// WorkerCount resolves Workers, mapping zero to the CPU count.
func (r Render) WorkerCount() int {
	if r.Workers == 0 {
		return runtime.NumCPU()
	}
	return r.Workers
}

// SlogLevel parses Level. "off" maps to a level above every record.
func (l Log) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "off":
		return slog.LevelError + 4, nil
	default:
		return 0, fmt.Errorf("%w: log level %q", ErrInvalid, l.Level)
	}
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
