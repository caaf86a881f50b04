package key

import (
	"testing"
)

func TestModMaskHas(t *testing.T) {
	tests := []struct {
		mod    ModMask
		check  ModMask
		expect bool
	}{
		{ModNone, ModCtrl, false},
		{ModCtrl, ModCtrl, true},
		{ModCtrl | ModAlt, ModAlt, true},
		{ModCtrl | ModAlt, ModShift, false},
		{ModCtrl | ModSuper, ModSuper, true},
		{ModMeta, ModSuper, false},
	}

	for _, tt := range tests {
		if got := tt.mod.Has(tt.check); got != tt.expect {
			t.Errorf("ModMask(%d).Has(%d) = %v, want %v", tt.mod, tt.check, got, tt.expect)
		}
	}
}

func TestModMaskWithWithout(t *testing.T) {
	m := ModNone.With(ModCtrl).With(ModAlt)
	if !m.Has(ModCtrl) || !m.Has(ModAlt) {
		t.Fatal("With should accumulate")
	}
	m = m.Without(ModCtrl)
	if m.Has(ModCtrl) || !m.Has(ModAlt) {
		t.Error("Without should only remove Ctrl")
	}
	if !m.Without(ModAlt).IsEmpty() {
		t.Error("mask should be empty")
	}
}

func TestModMaskString(t *testing.T) {
	tests := []struct {
		mod   ModMask
		long  string
		short string
	}{
		{ModNone, "", ""},
		{ModCtrl, "Ctrl", "C"},
		{ModCtrl | ModAlt, "Ctrl+Alt", "C-A"},
		{ModShift | ModSuper, "Shift+Super", "S-D"},
		{ModCtrl | ModAlt | ModShift | ModMeta | ModSuper, "Ctrl+Alt+Shift+Meta+Super", "C-A-S-M-D"},
	}

	for _, tt := range tests {
		if got := tt.mod.String(); got != tt.long {
			t.Errorf("String() = %q, want %q", got, tt.long)
		}
		if got := tt.mod.ShortString(); got != tt.short {
			t.Errorf("ShortString() = %q, want %q", got, tt.short)
		}
	}
}

func TestModifierFromName(t *testing.T) {
	tests := map[string]ModMask{
		"ctrl":  ModCtrl,
		"C":     ModCtrl,
		"Alt":   ModAlt,
		"opt":   ModAlt,
		"shift": ModShift,
		"meta":  ModMeta,
		"super": ModSuper,
		"cmd":   ModSuper,
		"D":     ModSuper,
		"hyper": ModNone,
	}
	for name, want := range tests {
		if got := ModifierFromName(name); got != want {
			t.Errorf("ModifierFromName(%q) = %v, want %v", name, got, want)
		}
	}
}
