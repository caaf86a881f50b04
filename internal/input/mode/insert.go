package mode

import "github.com/dshills/keyflow/internal/input/key"

// InsertTextAction is emitted for every character typed in insert mode.
const InsertTextAction = "insert.text"

// InsertMode implements Vim's insert mode.
// Unmapped printable keys are typed as text.
type InsertMode struct{}

// NewInsertMode creates a new insert mode instance.
func NewInsertMode() *InsertMode {
	return &InsertMode{}
}

// Name returns the mode identifier.
func (m *InsertMode) Name() string {
	return ModeInsert
}

// AcceptsPrefix returns false; digits and quotes are text here.
func (m *InsertMode) AcceptsPrefix() bool {
	return false
}

// Enter is called when entering insert mode.
func (m *InsertMode) Enter(*Context) error {
	return nil
}

// Exit is called when leaving insert mode.
func (m *InsertMode) Exit(*Context) error {
	return nil
}

// HandleUnmapped types printable characters and Tab as text.
// Other unmapped keys (chords, function keys) are ignored.
func (m *InsertMode) HandleUnmapped(tok key.Token) *UnmappedResult {
	text, ok := textOf(tok)
	if !ok {
		return nil
	}
	return &UnmappedResult{Action: InsertTextAction, Text: text}
}

// HandleText inserts committed text as one action.
func (m *InsertMode) HandleText(text string) *UnmappedResult {
	if text == "" {
		return nil
	}
	return &UnmappedResult{Action: InsertTextAction, Text: text}
}
