package input

import (
	"log/slog"
	"maps"
	"strconv"

	"github.com/dshills/keyflow/internal/input/key"
)

// Actions produced by the translator itself rather than by a keymap.
const (
	ActionLiteral           = "input.literal"
	ActionPasteBegin        = "paste.begin"
	ActionPasteInsert       = "paste.insert"
	ActionPasteEnd          = "paste.end"
	ActionCompositionUpdate = "composition.update"
	ActionFocusGained       = "focus.gained"
	ActionFocusLost         = "focus.lost"
)

// ActionSource indicates the origin of an action.
type ActionSource uint8

const (
	// SourceKeyboard indicates the action resolved from key presses.
	SourceKeyboard ActionSource = iota
	// SourceFlush indicates the action was forced by a sequence timeout.
	SourceFlush
	// SourcePaste indicates the action came from a bracketed paste.
	SourcePaste
	// SourceComposition indicates the action came from an input method.
	SourceComposition
	// SourceFocus indicates a terminal focus change.
	SourceFocus
)

// String returns a string representation of the action source.
func (s ActionSource) String() string {
	switch s {
	case SourceKeyboard:
		return "keyboard"
	case SourceFlush:
		return "flush"
	case SourcePaste:
		return "paste"
	case SourceComposition:
		return "composition"
	case SourceFocus:
		return "focus"
	default:
		return "unknown"
	}
}

// ActionArgs holds arguments for an action.
type ActionArgs struct {
	// Motion is the motion action an operator applies to.
	Motion string

	// TextObject is the text object action an operator applies to.
	TextObject string

	// Linewise marks a doubled operator (dd, yy).
	Linewise bool

	// Register for yank/paste operations (a-z, 0-9, ", +, *, etc.).
	Register rune

	// Text for insert operations, paste chunks, and character arguments.
	Text string

	// Keys holds the raw tokens of a literal fallback.
	Keys key.Sequence

	// NextMode is the mode the translator entered after this action.
	NextMode string

	// Extra holds the fixed arguments of the binding.
	Extra map[string]string
}

// Get retrieves a value from Extra.
func (a ActionArgs) Get(name string) (string, bool) {
	v, ok := a.Extra[name]
	return v, ok
}

// GetString retrieves a string value from Extra.
func (a ActionArgs) GetString(name string) string {
	return a.Extra[name]
}

// GetInt retrieves an int value from Extra.
func (a ActionArgs) GetInt(name string) int {
	n, err := strconv.Atoi(a.Extra[name])
	if err != nil {
		return 0
	}
	return n
}

// GetBool retrieves a bool value from Extra.
func (a ActionArgs) GetBool(name string) bool {
	b, _ := strconv.ParseBool(a.Extra[name])
	return b
}

// Action represents a command to be executed by the dispatcher.
type Action struct {
	// Name is the command identifier (e.g., "operator.delete", "cursor.moveDown").
	Name string

	// Args contains command-specific arguments.
	Args ActionArgs

	// Source indicates where this action originated.
	Source ActionSource

	// Count is the repeat count, or 0 when none was typed.
	Count int
}

// EffectiveCount returns the count, treating "none" as 1.
func (a Action) EffectiveCount() int {
	if a.Count <= 0 {
		return 1
	}
	return a.Count
}

// WithCount returns a copy of the action with the specified count.
func (a Action) WithCount(count int) Action {
	a.Count = count
	return a
}

// WithRegister returns a copy of the action with the specified register.
func (a Action) WithRegister(register rune) Action {
	a.Args.Register = register
	return a
}

// WithText returns a copy of the action carrying text.
func (a Action) WithText(text string) Action {
	a.Args.Text = text
	return a
}

// Clone returns a copy that shares no slices or maps with a.
func (a Action) Clone() Action {
	a.Args.Keys = a.Args.Keys.Clone()
	a.Args.Extra = maps.Clone(a.Args.Extra)
	return a
}

// LogValue implements slog.LogValuer. Only the name, source, count and
// sizes are reported; text, keys and register names never are.
func (a Action) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("name", a.Name),
		slog.String("source", a.Source.String()),
		slog.Int("count", a.Count),
	}
	if a.Args.Register != 0 {
		attrs = append(attrs, slog.Bool("register", true))
	}
	if a.Args.Motion != "" {
		attrs = append(attrs, slog.String("motion", a.Args.Motion))
	}
	if a.Args.TextObject != "" {
		attrs = append(attrs, slog.String("text_object", a.Args.TextObject))
	}
	if a.Args.Text != "" {
		attrs = append(attrs, slog.Int("text_len", len(a.Args.Text)))
	}
	if len(a.Args.Keys) > 0 {
		attrs = append(attrs, slog.Int("keys", len(a.Args.Keys)))
	}
	return slog.GroupValue(attrs...)
}
