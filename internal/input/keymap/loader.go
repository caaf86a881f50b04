package keymap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/sahilm/fuzzy"
	"gopkg.in/yaml.v3"

	"github.com/dshills/keyflow/internal/input/mode"
)

// Format is a keymap file encoding.
type Format string

// Supported keymap file formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// fileConfig is the on-disk structure shared by all formats:
//
//	[[keymap]]
//	name = "mine"
//	mode = "normal"
//
//	  [[keymap.bindings]]
//	  keys = "g h"
//	  action = "cursor.moveLineStart"
//	  kind = "motion"
type fileConfig struct {
	Keymaps []keymapConfig `toml:"keymap" yaml:"keymap" json:"keymap"`
}

type keymapConfig struct {
	Name     string          `toml:"name" yaml:"name" json:"name"`
	Mode     string          `toml:"mode" yaml:"mode" json:"mode"`
	Bindings []bindingConfig `toml:"bindings" yaml:"bindings" json:"bindings"`
}

type bindingConfig struct {
	Keys        string            `toml:"keys" yaml:"keys" json:"keys"`
	Action      string            `toml:"action" yaml:"action" json:"action"`
	Kind        string            `toml:"kind,omitempty" yaml:"kind,omitempty" json:"kind,omitempty"`
	Policy      string            `toml:"policy,omitempty" yaml:"policy,omitempty" json:"policy,omitempty"`
	NextMode    string            `toml:"next_mode,omitempty" yaml:"next_mode,omitempty" json:"next_mode,omitempty"`
	CharArg     bool              `toml:"char_arg,omitempty" yaml:"char_arg,omitempty" json:"char_arg,omitempty"`
	NoCount     bool              `toml:"no_count,omitempty" yaml:"no_count,omitempty" json:"no_count,omitempty"`
	Linewise    string            `toml:"linewise,omitempty" yaml:"linewise,omitempty" json:"linewise,omitempty"`
	Args        map[string]string `toml:"args,omitempty" yaml:"args,omitempty" json:"args,omitempty"`
	Description string            `toml:"description,omitempty" yaml:"description,omitempty" json:"description,omitempty"`
	Category    string            `toml:"category,omitempty" yaml:"category,omitempty" json:"category,omitempty"`
}

// LoadFile reads keymaps from a TOML, YAML or JSON file.
func LoadFile(path string) ([]*Keymap, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening keymap file: %w", err)
	}
	defer f.Close()

	kms, err := LoadReader(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, km := range kms {
		km.Source = "user:" + path
	}
	return kms, nil
}

// LoadReader decodes keymaps in the given format. Unknown fields are
// rejected so a misspelled option does not silently do nothing.
func LoadReader(r io.Reader, format Format) ([]*Keymap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading keymap: %w", err)
	}

	var cfg fileConfig
	switch format {
	case FormatTOML:
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&cfg)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&cfg)
		if err == io.EOF {
			err = nil
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding keymap: %w", err)
	}

	out := make([]*Keymap, 0, len(cfg.Keymaps))
	for i, kc := range cfg.Keymaps {
		km, err := kc.toKeymap()
		if err != nil {
			return nil, fmt.Errorf("keymap %d: %w", i, err)
		}
		out = append(out, km)
	}
	return out, nil
}

func (kc keymapConfig) toKeymap() (*Keymap, error) {
	if !mode.IsStandard(kc.Mode) {
		return nil, fmt.Errorf("%w: %q%s", ErrUnknownMode, kc.Mode, suggest(kc.Mode, mode.Names))
	}
	name := kc.Name
	if name == "" {
		name = "user-" + kc.Mode
	}

	km := NewKeymap(name, kc.Mode)
	for i, bc := range kc.Bindings {
		b, err := bc.toBinding()
		if err != nil {
			return nil, &EntryError{Keymap: name, Index: i, Keys: bc.Keys, Err: err}
		}
		km.AddBinding(b)
	}
	return km, km.Validate()
}

func (bc bindingConfig) toBinding() (Binding, error) {
	kind, err := ParseKind(bc.Kind)
	if err != nil {
		return Binding{}, fmt.Errorf("%w%s", err, suggest(bc.Kind, kindNames))
	}
	policy, err := ParsePolicy(bc.Policy)
	if err != nil {
		return Binding{}, fmt.Errorf("%w%s", err, suggest(bc.Policy, []string{"wait", "eager"}))
	}
	if bc.NextMode != "" && !mode.IsStandard(bc.NextMode) {
		return Binding{}, fmt.Errorf("%w: next_mode %q%s", ErrUnknownMode, bc.NextMode, suggest(bc.NextMode, mode.Names))
	}
	return Binding{
		Keys:        bc.Keys,
		Action:      bc.Action,
		Kind:        kind,
		Policy:      policy,
		NextMode:    bc.NextMode,
		CharArg:     bc.CharArg,
		NoCount:     bc.NoCount,
		Linewise:    bc.Linewise,
		Args:        bc.Args,
		Description: bc.Description,
		Category:    bc.Category,
	}, nil
}

// suggest returns a "did you mean" hint for an unknown name, or "".
func suggest(name string, candidates []string) string {
	if name == "" {
		return ""
	}
	matches := fuzzy.Find(strings.ToLower(name), candidates)
	if len(matches) == 0 {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", matches[0].Str)
}

// Load compiles the default tables followed by the keymaps in path.
// An empty path yields the defaults alone.
func Load(path string, logger *slog.Logger) (*Set, error) {
	keymaps := DefaultKeymaps()
	if path != "" {
		user, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		keymaps = append(keymaps, user...)
	}
	return Compile(keymaps, logger)
}
