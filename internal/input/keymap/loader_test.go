package keymap

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/keyflow/internal/input/mode"
)

const tomlKeymap = `
[[keymap]]
name = "mine"
mode = "normal"

  [[keymap.bindings]]
  keys = "g h"
  action = "cursor.moveLineStart"
  kind = "motion"

  [[keymap.bindings]]
  keys = "<Space> w"
  action = "file.save"
  policy = "eager"
  args = { force = "true" }

[[keymap]]
mode = "insert"

  [[keymap.bindings]]
  keys = "j k"
  action = "mode.exit"
  next_mode = "normal"
`

const yamlKeymap = `
keymap:
  - name: mine
    mode: normal
    bindings:
      - keys: g h
        action: cursor.moveLineStart
        kind: motion
      - keys: <Space> w
        action: file.save
        policy: eager
        args:
          force: "true"
  - mode: insert
    bindings:
      - keys: j k
        action: mode.exit
        next_mode: normal
`

const jsonKeymap = `{
  "keymap": [
    {
      "name": "mine",
      "mode": "normal",
      "bindings": [
        {"keys": "g h", "action": "cursor.moveLineStart", "kind": "motion"},
        {"keys": "<Space> w", "action": "file.save", "policy": "eager", "args": {"force": "true"}}
      ]
    },
    {
      "mode": "insert",
      "bindings": [
        {"keys": "j k", "action": "mode.exit", "next_mode": "normal"}
      ]
    }
  ]
}`

func TestLoadReaderFormats(t *testing.T) {
	tests := []struct {
		format Format
		input  string
	}{
		{FormatTOML, tomlKeymap},
		{FormatYAML, yamlKeymap},
		{FormatJSON, jsonKeymap},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			kms, err := LoadReader(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("LoadReader() error = %v", err)
			}
			if len(kms) != 2 {
				t.Fatalf("got %d keymaps, want 2", len(kms))
			}

			normal := kms[0]
			if normal.Name != "mine" || normal.Mode != mode.ModeNormal || len(normal.Bindings) != 2 {
				t.Fatalf("unexpected normal keymap: %+v", normal)
			}
			if normal.Bindings[0].Kind != KindMotion {
				t.Errorf("Kind = %v, want motion", normal.Bindings[0].Kind)
			}
			save := normal.Bindings[1]
			if save.Policy != PolicyEager || save.Args["force"] != "true" {
				t.Errorf("unexpected binding: %+v", save)
			}

			insert := kms[1]
			if insert.Name != "user-insert" {
				t.Errorf("Name = %q, want generated name", insert.Name)
			}
			if insert.Bindings[0].NextMode != mode.ModeNormal {
				t.Errorf("NextMode = %q", insert.Bindings[0].NextMode)
			}
		})
	}
}

func TestLoadReaderCompiles(t *testing.T) {
	kms, err := LoadReader(strings.NewReader(tomlKeymap), FormatTOML)
	if err != nil {
		t.Fatalf("LoadReader() error = %v", err)
	}
	set, err := Compile(append(DefaultKeymaps(), kms...), nil)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	// A user motion composes with the default operators.
	res := set.Trie(mode.ModeNormal).Lookup(seq("d g h"))
	if res.Kind != Terminal || res.Template.Motion != "cursor.moveLineStart" {
		t.Errorf("unexpected d g h: %+v", res)
	}
	res = set.Trie(mode.ModeInsert).Lookup(seq("j"))
	if res.Kind != Partial {
		t.Errorf("j should be a prefix in insert mode, got %v", res.Kind)
	}
}

func TestLoadReaderNoCount(t *testing.T) {
	const in = `
[[keymap]]
mode = "normal"

  [[keymap.bindings]]
  keys = "<C-e>"
  action = "view.scrollDown"
  no_count = true
`
	kms, err := LoadReader(strings.NewReader(in), FormatTOML)
	if err != nil {
		t.Fatalf("LoadReader() error = %v", err)
	}
	set, err := Compile(append(DefaultKeymaps(), kms...), nil)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	for _, keys := range []string{"<C-e>", "<C-d>", "<C-u>"} {
		res := set.Trie(mode.ModeNormal).Lookup(seq(keys))
		if res.Kind != Terminal || !res.Template.NoCount {
			t.Errorf("%s: %+v, want a terminal NoCount entry", keys, res)
		}
	}
	if res := set.Trie(mode.ModeNormal).Lookup(seq("<C-f>")); res.Template.NoCount {
		t.Errorf("<C-f> should keep its count")
	}
}

func TestLoadReaderErrors(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		input   string
		want    error
		hint    string
		wantAny bool
	}{
		{
			name:    "unknown toml field",
			format:  FormatTOML,
			input:   "[[keymap]]\nmode = \"normal\"\ncolour = \"red\"\n",
			wantAny: true,
		},
		{
			name:    "unknown yaml field",
			format:  FormatYAML,
			input:   "keymap:\n  - mode: normal\n    colour: red\n",
			wantAny: true,
		},
		{
			name:    "unknown json field",
			format:  FormatJSON,
			input:   `{"keymap": [{"mode": "normal", "colour": "red"}]}`,
			wantAny: true,
		},
		{
			name:   "misspelled mode",
			format: FormatTOML,
			input:  "[[keymap]]\nmode = \"ins\"\n",
			want:   ErrUnknownMode,
			hint:   `did you mean "insert"?`,
		},
		{
			name:   "misspelled kind",
			format: FormatYAML,
			input:  "keymap:\n  - mode: normal\n    bindings:\n      - keys: x\n        action: y\n        kind: motn\n",
			want:   ErrUnknownKind,
			hint:   `did you mean "motion"?`,
		},
		{
			name:   "bad policy",
			format: FormatJSON,
			input:  `{"keymap": [{"mode": "normal", "bindings": [{"keys": "x", "action": "y", "policy": "later"}]}]}`,
			want:   ErrUnknownPolicy,
		},
		{
			name:   "empty action",
			format: FormatTOML,
			input:  "[[keymap]]\nmode = \"normal\"\n[[keymap.bindings]]\nkeys = \"x\"\n",
			want:   ErrEmptyAction,
		},
		{
			name:   "unknown format",
			format: Format("ini"),
			input:  "",
			want:   ErrUnknownFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadReader(strings.NewReader(tt.input), tt.format)
			if err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantAny && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if tt.hint != "" && !strings.Contains(err.Error(), tt.hint) {
				t.Errorf("error %q should contain %q", err, tt.hint)
			}
		})
	}
}

func TestLoadReaderEmpty(t *testing.T) {
	for _, format := range []Format{FormatTOML, FormatYAML} {
		kms, err := LoadReader(strings.NewReader(""), format)
		if err != nil {
			t.Errorf("%s: LoadReader() error = %v", format, err)
		}
		if len(kms) != 0 {
			t.Errorf("%s: got %d keymaps", format, len(kms))
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		err  bool
	}{
		{"keys.toml", FormatTOML, false},
		{"keys.yaml", FormatYAML, false},
		{"/etc/keyflow/KEYS.YML", FormatYAML, false},
		{"keys.json", FormatJSON, false},
		{"keys.ini", "", true},
		{"keys", "", true},
	}

	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.err {
			t.Errorf("FormatFromPath(%q) error = %v", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keys.toml")
	if err := os.WriteFile(path, []byte(tomlKeymap), 0o600); err != nil {
		t.Fatal(err)
	}

	kms, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	for _, km := range kms {
		if km.Source != "user:"+path {
			t.Errorf("Source = %q", km.Source)
		}
	}

	set, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := set.Trie(mode.ModeNormal).Lookup(seq("<Space> w")).Template.Action; got != "file.save" {
		t.Errorf("user binding missing, got %q", got)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadDefaults(t *testing.T) {
	set, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(set.Modes()) != len(mode.Names) {
		t.Errorf("Modes() = %v", set.Modes())
	}
}
