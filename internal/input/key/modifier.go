package key

import "strings"

// ModMask is a set of independent modifier flags.
type ModMask uint8

const (
	// ModNone indicates no modifiers.
	ModNone ModMask = 0

	// ModCtrl indicates the Control key.
	ModCtrl ModMask = 1 << iota

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt

	// ModShift indicates the Shift key.
	ModShift

	// ModMeta indicates the Meta key as reported by the terminal.
	ModMeta

	// ModSuper indicates the Super key (Cmd on macOS, Win on Windows).
	ModSuper
)

// Has returns true if m contains any of the bits in mod.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// With returns a new mask with mod added.
func (m ModMask) With(mod ModMask) ModMask {
	return m | mod
}

// Without returns a new mask with mod removed.
func (m ModMask) Without(mod ModMask) ModMask {
	return m &^ mod
}

// IsEmpty returns true if no modifiers are set.
func (m ModMask) IsEmpty() bool {
	return m == ModNone
}

// String returns a representation like "Ctrl+Alt".
func (m ModMask) String() string {
	return m.join([5]string{"Ctrl", "Alt", "Shift", "Meta", "Super"}, "+")
}

// ShortString returns the Vim-style prefix letters like "C-A".
func (m ModMask) ShortString() string {
	return m.join([5]string{"C", "A", "S", "M", "D"}, "-")
}

func (m ModMask) join(names [5]string, sep string) string {
	if m == ModNone {
		return ""
	}
	var parts []string
	for i, mod := range []ModMask{ModCtrl, ModAlt, ModShift, ModMeta, ModSuper} {
		if m.Has(mod) {
			parts = append(parts, names[i])
		}
	}
	return strings.Join(parts, sep)
}

var modifierByName = map[string]ModMask{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"c":       ModCtrl,
	"alt":     ModAlt,
	"a":       ModAlt,
	"option":  ModAlt,
	"opt":     ModAlt,
	"shift":   ModShift,
	"s":       ModShift,
	"meta":    ModMeta,
	"m":       ModMeta,
	"super":   ModSuper,
	"cmd":     ModSuper,
	"command": ModSuper,
	"win":     ModSuper,
	"d":       ModSuper, // Vim's <D-...>
}

// ModifierFromName returns the modifier for a name (case-insensitive).
// Returns ModNone if the name is not recognized.
func ModifierFromName(name string) ModMask {
	return modifierByName[strings.ToLower(strings.TrimSpace(name))]
}
