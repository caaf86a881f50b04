package key

import (
	"fmt"
	"strconv"
	"strings"
)

// Named identifies a logical, non-character key.
type Named uint16

const (
	// NamedNone is the zero value; a Token with Kind KindNamed never carries it.
	NamedNone Named = iota

	// NamedUnknown is the catch-all for raw codes the normalizer does not
	// recognize. The raw code travels in the token so it can still be traced.
	NamedUnknown

	NamedEscape
	NamedEnter
	NamedTab
	NamedBackspace
	NamedDelete
	NamedInsert
	NamedHome
	NamedEnd
	NamedPageUp
	NamedPageDown

	NamedUp
	NamedDown
	NamedLeft
	NamedRight

	// NamedF1 is the first function key; F(n) is NamedF1+n-1 up to F64.
	NamedF1
)

// MaxFunctionKey is the highest function key number representable.
const MaxFunctionKey = 64

// NamedF returns the function key F(n). Out-of-range n yields NamedUnknown.
func NamedF(n int) Named {
	if n < 1 || n > MaxFunctionKey {
		return NamedUnknown
	}
	return NamedF1 + Named(n-1)
}

// FunctionNumber returns n for F(n), or 0 if n is not a function key.
func (n Named) FunctionNumber() int {
	if n < NamedF1 || n >= NamedF1+MaxFunctionKey {
		return 0
	}
	return int(n-NamedF1) + 1
}

// String returns a human-readable name for the key.
func (n Named) String() string {
	switch n {
	case NamedNone:
		return "None"
	case NamedUnknown:
		return "Unknown"
	case NamedEscape:
		return "Esc"
	case NamedEnter:
		return "Enter"
	case NamedTab:
		return "Tab"
	case NamedBackspace:
		return "BS"
	case NamedDelete:
		return "Del"
	case NamedInsert:
		return "Insert"
	case NamedHome:
		return "Home"
	case NamedEnd:
		return "End"
	case NamedPageUp:
		return "PageUp"
	case NamedPageDown:
		return "PageDown"
	case NamedUp:
		return "Up"
	case NamedDown:
		return "Down"
	case NamedLeft:
		return "Left"
	case NamedRight:
		return "Right"
	}
	if f := n.FunctionNumber(); f > 0 {
		return "F" + strconv.Itoa(f)
	}
	return fmt.Sprintf("Named(%d)", uint16(n))
}

// IsFunctionKey returns true for F1 through F64.
func (n Named) IsFunctionKey() bool {
	return n.FunctionNumber() > 0
}

// IsArrowKey returns true if this is an arrow key.
func (n Named) IsArrowKey() bool {
	return n >= NamedUp && n <= NamedRight
}

// IsNavigationKey returns true if this is a navigation key.
func (n Named) IsNavigationKey() bool {
	return n.IsArrowKey() || n == NamedHome || n == NamedEnd || n == NamedPageUp || n == NamedPageDown
}

// namedByName maps lowercase key names and Vim aliases to Named values.
var namedByName = map[string]Named{
	"escape":    NamedEscape,
	"esc":       NamedEscape,
	"enter":     NamedEnter,
	"return":    NamedEnter,
	"cr":        NamedEnter,
	"nl":        NamedEnter,
	"tab":       NamedTab,
	"backspace": NamedBackspace,
	"bs":        NamedBackspace,
	"delete":    NamedDelete,
	"del":       NamedDelete,
	"insert":    NamedInsert,
	"ins":       NamedInsert,
	"home":      NamedHome,
	"end":       NamedEnd,
	"pageup":    NamedPageUp,
	"pgup":      NamedPageUp,
	"pagedown":  NamedPageDown,
	"pgdn":      NamedPageDown,
	"up":        NamedUp,
	"down":      NamedDown,
	"left":      NamedLeft,
	"right":     NamedRight,
}

// NamedFromName returns the Named key for a name (case-insensitive),
// including function keys written as "F1".."F64".
// Returns NamedNone if the name is not recognized.
func NamedFromName(name string) Named {
	name = strings.ToLower(strings.TrimSpace(name))
	if n, ok := namedByName[name]; ok {
		return n
	}
	if len(name) > 1 && name[0] == 'f' {
		if f, err := strconv.Atoi(name[1:]); err == nil {
			if n := NamedF(f); n != NamedUnknown {
				return n
			}
		}
	}
	return NamedNone
}
