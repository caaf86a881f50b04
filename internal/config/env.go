package config

import (
	"fmt"
	"strconv"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "KEYFLOW_"

// LookupFunc reads one environment variable. os.LookupEnv satisfies it.
type LookupFunc func(name string) (string, bool)

type envBinding struct {
	name  string
	apply func(c *Config, value string) error
}

// envBindings maps environment variables onto settings.
var envBindings = []envBinding{
	{"KEYFLOW_TIMEOUT", func(c *Config, v string) error { return setBool(&c.Input.Timeout, v) }},
	{"KEYFLOW_TIMEOUT_MS", func(c *Config, v string) error { return setInt(&c.Input.TimeoutMS, v) }},
	{"KEYFLOW_PASTE_CHUNK_BYTES", func(c *Config, v string) error { return setInt(&c.Input.PasteChunkBytes, v) }},
	{"KEYFLOW_CHANNEL_CAPACITY", func(c *Config, v string) error { return setInt(&c.Input.ChannelCapacity, v) }},
	{"KEYFLOW_CHANNEL_POLICY", func(c *Config, v string) error { c.Input.ChannelPolicy = v; return nil }},
	{"KEYFLOW_TICK_MS", func(c *Config, v string) error { return setInt(&c.Input.TickMS, v) }},
	{"KEYFLOW_LOG_LEVEL", func(c *Config, v string) error { c.Log.Level = v; return nil }},
	{"KEYFLOW_LOG_FORMAT", func(c *Config, v string) error { c.Log.Format = v; return nil }},
	{"KEYFLOW_LOG_FILE", func(c *Config, v string) error { c.Log.File = v; return nil }},
	{"KEYFLOW_KEYMAP", func(c *Config, v string) error { c.Keymap.Path = v; return nil }},
	{"KEYFLOW_KEYMAP_WATCH", func(c *Config, v string) error { return setBool(&c.Keymap.Watch, v) }},
}

// EnvVars returns the names of the recognized environment variables.
func EnvVars() []string {
	names := make([]string, len(envBindings))
	for i, b := range envBindings {
		names[i] = b.name
	}
	return names
}

// ApplyEnv overrides settings from the environment.
// Empty values are treated as set, not as unset.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	for _, b := range envBindings {
		v, ok := lookup(b.name)
		if !ok {
			continue
		}
		if err := b.apply(c, v); err != nil {
			return &ParseError{Path: b.name, Message: err.Error(), Err: err}
		}
	}
	return nil
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("expected an integer, got %q", v)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("expected a boolean, got %q", v)
	}
	*dst = b
	return nil
}
