package mode

import (
	"github.com/dshills/keyflow/internal/input/key"
)

// Standard mode names.
const (
	ModeNormal  = "normal"
	ModeInsert  = "insert"
	ModeVisual  = "visual"
	ModeCommand = "command"
)

// Names lists the standard modes in display order.
var Names = []string{ModeNormal, ModeInsert, ModeVisual, ModeCommand}

// IsStandard reports whether name is one of the standard modes.
func IsStandard(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}

// Mode defines how a translator treats keys while the mode is active.
// Key sequences are resolved through the mode's table first; a mode
// only decides what happens to keys its table does not map.
type Mode interface {
	// Name returns the unique mode identifier (e.g., "normal", "insert").
	Name() string

	// AcceptsPrefix reports whether count digits and the register
	// prefix are collected in this mode rather than typed as text.
	AcceptsPrefix() bool

	// Enter is called when entering this mode.
	Enter(ctx *Context) error

	// Exit is called when leaving this mode.
	Exit(ctx *Context) error

	// HandleUnmapped decides what an unmapped key does in this mode.
	// Returns nil if the key has no meaning here.
	HandleUnmapped(tok key.Token) *UnmappedResult

	// HandleText decides what committed text (an IME commit) does in
	// this mode. Returns nil if text cannot be entered here.
	HandleText(text string) *UnmappedResult
}

// UnmappedResult describes what to do with an unmapped key.
type UnmappedResult struct {
	// Action is the action name to emit.
	Action string

	// Text is the text carried by the action, if any.
	Text string
}

// Context provides information during mode transitions.
type Context struct {
	// PreviousMode is the mode being transitioned from (for Enter).
	PreviousMode string

	// NextMode is the mode being transitioned to (for Exit).
	NextMode string
}

// textOf returns the text an unmapped token types, if any.
// Printable characters type themselves and Tab types a tab.
func textOf(tok key.Token) (string, bool) {
	if tok.IsKey(key.NamedTab) {
		return "\t", true
	}
	if !tok.IsPrintable() {
		return "", false
	}
	r, _ := tok.Rune()
	return string(r), true
}
