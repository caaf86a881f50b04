package mode

import "github.com/dshills/keyflow/internal/input/key"

// NormalMode implements Vim's normal mode.
// In normal mode, keys are interpreted as commands rather than text input.
type NormalMode struct{}

// NewNormalMode creates a new normal mode instance.
func NewNormalMode() *NormalMode {
	return &NormalMode{}
}

// Name returns the mode identifier.
func (m *NormalMode) Name() string {
	return ModeNormal
}

// AcceptsPrefix returns true; counts and registers prefix commands.
func (m *NormalMode) AcceptsPrefix() bool {
	return true
}

// Enter is called when entering normal mode.
func (m *NormalMode) Enter(*Context) error {
	return nil
}

// Exit is called when leaving normal mode.
func (m *NormalMode) Exit(*Context) error {
	return nil
}

// HandleUnmapped returns nil: an unmapped command key has no effect.
func (m *NormalMode) HandleUnmapped(key.Token) *UnmappedResult {
	return nil
}

// HandleText returns nil; text is not typed in normal mode.
func (m *NormalMode) HandleText(string) *UnmappedResult {
	return nil
}
