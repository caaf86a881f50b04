package mode

import "github.com/dshills/keyflow/internal/input/key"

// VisualMode implements Vim's character-wise visual mode.
// Keys are commands acting on the selection.
type VisualMode struct{}

// NewVisualMode creates a new visual mode instance.
func NewVisualMode() *VisualMode {
	return &VisualMode{}
}

// Name returns the mode identifier.
func (m *VisualMode) Name() string {
	return ModeVisual
}

// AcceptsPrefix returns true.
func (m *VisualMode) AcceptsPrefix() bool {
	return true
}

// Enter is called when entering visual mode.
func (m *VisualMode) Enter(*Context) error {
	return nil
}

// Exit is called when leaving visual mode.
func (m *VisualMode) Exit(*Context) error {
	return nil
}

// HandleUnmapped returns nil.
func (m *VisualMode) HandleUnmapped(key.Token) *UnmappedResult {
	return nil
}

// HandleText returns nil.
func (m *VisualMode) HandleText(string) *UnmappedResult {
	return nil
}
