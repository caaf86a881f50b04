package mode

import (
	"errors"
	"testing"

	"github.com/dshills/keyflow/internal/input/key"
)

func TestHandleUnmapped(t *testing.T) {
	tests := []struct {
		name       string
		mode       Mode
		tok        key.Token
		wantAction string
		wantText   string
	}{
		{"insert rune", NewInsertMode(), key.Char('a'), InsertTextAction, "a"},
		{"insert greek", NewInsertMode(), key.Char('ά'), InsertTextAction, "ά"},
		{"insert space", NewInsertMode(), key.Char(' '), InsertTextAction, " "},
		{"insert digit", NewInsertMode(), key.Char('3'), InsertTextAction, "3"},
		{"insert tab", NewInsertMode(), key.Key(key.NamedTab), InsertTextAction, "\t"},
		{"insert chord", NewInsertMode(), key.Chord(key.Char('x'), key.ModCtrl), "", ""},
		{"insert function key", NewInsertMode(), key.Key(key.NamedF(5)), "", ""},
		{"command rune", NewCommandMode(), key.Char('w'), CommandCharAction, "w"},
		{"command escape", NewCommandMode(), key.Key(key.NamedEscape), "", ""},
		{"normal rune", NewNormalMode(), key.Char('z'), "", ""},
		{"visual rune", NewVisualMode(), key.Char('z'), "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := tt.mode.HandleUnmapped(tt.tok)
			if tt.wantAction == "" {
				if res != nil {
					t.Fatalf("expected nil, got %+v", res)
				}
				return
			}
			if res == nil {
				t.Fatal("expected result, got nil")
			}
			if res.Action != tt.wantAction || res.Text != tt.wantText {
				t.Errorf("got %+v, want action %q text %q", res, tt.wantAction, tt.wantText)
			}
		})
	}
}

func TestHandleText(t *testing.T) {
	if res := NewInsertMode().HandleText("καλή"); res == nil || res.Action != InsertTextAction || res.Text != "καλή" {
		t.Errorf("insert: got %+v", res)
	}
	if res := NewCommandMode().HandleText("wq"); res == nil || res.Action != CommandCharAction {
		t.Errorf("command: got %+v", res)
	}
	if res := NewInsertMode().HandleText(""); res != nil {
		t.Errorf("empty text should be ignored, got %+v", res)
	}
	for _, m := range []Mode{NewNormalMode(), NewVisualMode()} {
		if res := m.HandleText("x"); res != nil {
			t.Errorf("%s: got %+v", m.Name(), res)
		}
	}
}

func TestAcceptsPrefix(t *testing.T) {
	tests := []struct {
		mode Mode
		want bool
	}{
		{NewNormalMode(), true},
		{NewVisualMode(), true},
		{NewInsertMode(), false},
		{NewCommandMode(), false},
	}

	for _, tt := range tests {
		if got := tt.mode.AcceptsPrefix(); got != tt.want {
			t.Errorf("%s.AcceptsPrefix() = %v, want %v", tt.mode.Name(), got, tt.want)
		}
	}
}

func TestIsStandard(t *testing.T) {
	for _, name := range Names {
		if !IsStandard(name) {
			t.Errorf("expected %q to be standard", name)
		}
	}
	if IsStandard("operator-pending") {
		t.Error("operator-pending is not a mode here")
	}
}

func TestManagerDefaults(t *testing.T) {
	m := NewDefaultManager()
	if m.CurrentName() != ModeNormal {
		t.Fatalf("expected normal mode, got %q", m.CurrentName())
	}
	for _, name := range Names {
		if err := m.Switch(name); err != nil {
			t.Errorf("Switch(%q) error = %v", name, err)
		}
	}
}

func TestManagerSwitch(t *testing.T) {
	m := NewDefaultManager()

	if err := m.Switch(ModeInsert); err != nil {
		t.Fatalf("Switch() error = %v", err)
	}
	if m.CurrentName() != ModeInsert {
		t.Errorf("expected insert, got %q", m.CurrentName())
	}
	if m.Current() == nil || m.Current().AcceptsPrefix() {
		t.Error("insert mode should be current and reject prefixes")
	}

	// Switching to the active mode is a no-op.
	if err := m.Switch(ModeInsert); err != nil {
		t.Fatalf("Switch() error = %v", err)
	}
	if m.CurrentName() != ModeInsert {
		t.Errorf("expected insert, got %q", m.CurrentName())
	}
}

func TestManagerErrors(t *testing.T) {
	m := NewDefaultManager()

	if err := m.Switch("replace"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
	if err := m.SetInitialMode("replace"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
	if m.CurrentName() != ModeNormal {
		t.Errorf("failed switch should keep normal mode, got %q", m.CurrentName())
	}
}

type failingMode struct{ NormalMode }

func (*failingMode) Name() string { return "failing" }

func (*failingMode) Enter(*Context) error { return errors.New("boom") }

func TestManagerEnterError(t *testing.T) {
	m := NewDefaultManager()
	m.Register(&failingMode{})

	if err := m.Switch("failing"); err == nil {
		t.Fatal("expected error from Enter")
	}
	if m.CurrentName() != ModeNormal {
		t.Errorf("failed switch should keep the current mode, got %q", m.CurrentName())
	}
}
