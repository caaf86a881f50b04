// Package config loads keyflow settings.
//
// Settings come from three sources, later sources overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A TOML file, normally ~/.config/keyflow/config.toml
//  3. KEYFLOW_* environment variables
//
// A missing file is not an error. Unknown keys in the file are.
//
// Example file:
//
//	[input]
//	timeout = true
//	timeout_ms = 1000
//	paste_chunk_bytes = 4096
//	channel_capacity = 1024
//	channel_policy = "block"
//	tick_ms = 16
//
//	[log]
//	level = "info"
//	format = "text"
//	file = "/tmp/keyflow.log"
//
//	[keymap]
//	path = "~/.config/keyflow/keymap.toml"
//	watch = true
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/keyflow/internal/input/paste"
	"github.com/dshills/keyflow/internal/input/queue"
)

// Config holds all keyflow settings.
type Config struct {
	Input  InputConfig  `toml:"input"`
	Log    LogConfig    `toml:"log"`
	Keymap KeymapConfig `toml:"keymap"`
}

// InputConfig configures the input pipeline.
type InputConfig struct {
	// Timeout enables the sequence timeout. When false, ambiguous
	// sequences wait for more input indefinitely.
	Timeout bool `toml:"timeout"`

	// TimeoutMS is the sequence timeout in milliseconds.
	TimeoutMS int `toml:"timeout_ms"`

	// PasteChunkBytes is the paste flush threshold.
	PasteChunkBytes int `toml:"paste_chunk_bytes"`

	// ChannelCapacity is the event channel capacity.
	ChannelCapacity int `toml:"channel_capacity"`

	// ChannelPolicy is "block" or "reject".
	ChannelPolicy string `toml:"channel_policy"`

	// TickMS is the flush driver interval in milliseconds.
	TickMS int `toml:"tick_ms"`
}

// SequenceTimeout returns the timeout as a duration.
func (c InputConfig) SequenceTimeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// TickInterval returns the flush interval as a duration.
func (c InputConfig) TickInterval() time.Duration {
	return time.Duration(c.TickMS) * time.Millisecond
}

// Policy returns the parsed channel policy.
func (c InputConfig) Policy() queue.Policy {
	p, _ := queue.ParsePolicy(c.ChannelPolicy)
	return p
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `toml:"level"`

	// Format is text or json.
	Format string `toml:"format"`

	// File receives log output. Empty means stderr, which live mode
	// cannot use while the terminal is in raw mode.
	File string `toml:"file"`
}

// KeymapConfig locates user keymaps.
type KeymapConfig struct {
	// Path is a TOML, YAML or JSON keymap file. Empty means defaults only.
	Path string `toml:"path"`

	// Watch reloads the file when it changes.
	Watch bool `toml:"watch"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Timeout:         true,
			TimeoutMS:       1000,
			PasteChunkBytes: paste.DefaultChunkBytes,
			ChannelCapacity: queue.DefaultCapacity,
			ChannelPolicy:   "block",
			TickMS:          16,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Keymap: KeymapConfig{
			Watch: true,
		},
	}
}

// DefaultPath returns the user configuration file path.
func DefaultPath() string {
	return filepath.Join(UserConfigDir(), "config.toml")
}

// UserConfigDir returns the keyflow configuration directory.
func UserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "keyflow")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "keyflow")
}

// Load builds the configuration from defaults, the file at path (if it
// exists) and the environment, then validates it. An empty path skips the
// file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := cfg.decode(path, bytes.NewReader(data)); err != nil {
				return nil, err
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	cfg.Keymap.Path = expandHome(cfg.Keymap.Path)
	cfg.Log.File = expandHome(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadReader decodes TOML from r over the defaults and validates the
// result. The environment is not consulted.
func LoadReader(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := cfg.decode("<reader>", r); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(source string, r io.Reader) error {
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}

		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			perr.Line, perr.Column = decodeErr.Position()
		}
		var strictErr *toml.StrictMissingError
		if errors.As(err, &strictErr) {
			perr.Message = "unknown keys:\n" + strictErr.String()
		}
		return perr
	}
	return nil
}

var (
	validLevels  = []string{"debug", "info", "warn", "warning", "error"}
	validFormats = []string{"text", "json"}
)

// Validate checks every setting and reports all failures at once.
func (c *Config) Validate() error {
	errs := &ValidationErrors{}

	if c.Input.TimeoutMS <= 0 {
		errs.Add("input.timeout_ms", "must be positive", c.Input.TimeoutMS)
	}
	if c.Input.PasteChunkBytes < paste.MinChunkBytes {
		errs.Add("input.paste_chunk_bytes", fmt.Sprintf("must be at least %d", paste.MinChunkBytes), c.Input.PasteChunkBytes)
	}
	if c.Input.ChannelCapacity <= 0 {
		errs.Add("input.channel_capacity", "must be positive", c.Input.ChannelCapacity)
	}
	if _, err := queue.ParsePolicy(c.Input.ChannelPolicy); err != nil {
		errs.Add("input.channel_policy", `must be "block" or "reject"`, c.Input.ChannelPolicy)
	}
	if c.Input.TickMS <= 0 {
		errs.Add("input.tick_ms", "must be positive", c.Input.TickMS)
	}
	if !oneOf(c.Log.Level, validLevels) {
		errs.Add("log.level", "must be one of "+strings.Join(validLevels, ", "), c.Log.Level)
	}
	if !oneOf(c.Log.Format, validFormats) {
		errs.Add("log.format", "must be one of "+strings.Join(validFormats, ", "), c.Log.Format)
	}

	return errs.OrNil()
}

func oneOf(s string, set []string) bool {
	return slices.Contains(set, strings.ToLower(strings.TrimSpace(s)))
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
