package mode

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownMode is returned for a mode that is not registered.
var ErrUnknownMode = errors.New("unknown mode")

// Manager keeps the registered modes and the current one.
type Manager struct {
	mu sync.RWMutex

	// modes holds all registered modes by name.
	modes map[string]Mode

	// current is the active mode.
	current Mode
}

// NewManager creates a new mode manager.
func NewManager() *Manager {
	return &Manager{
		modes: make(map[string]Mode),
	}
}

// NewDefaultManager returns a manager with the standard modes
// registered and normal mode active.
func NewDefaultManager() *Manager {
	m := NewManager()
	m.Register(NewNormalMode())
	m.Register(NewInsertMode())
	m.Register(NewVisualMode())
	m.Register(NewCommandMode())
	// Normal mode's Enter cannot fail.
	_ = m.SetInitialMode(ModeNormal)
	return m
}

// Register adds a mode to the manager.
// If a mode with the same name exists, it is replaced.
func (m *Manager) Register(mode Mode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modes[mode.Name()] = mode
}

// Current returns the current mode.
// Returns nil if no mode is set.
func (m *Manager) Current() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// CurrentName returns the name of the current mode.
// Returns empty string if no mode is set.
func (m *Manager) CurrentName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.Name()
}

// Switch changes to a different mode.
// Calls Exit() on the current mode and Enter() on the new mode.
// Switching to the current mode is a no-op.
func (m *Manager) Switch(name string) error {
	m.mu.Lock()

	newMode, ok := m.modes[name]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownMode, name)
	}
	if m.current == newMode {
		m.mu.Unlock()
		return nil
	}

	oldMode := m.current
	ctx := &Context{NextMode: newMode.Name()}
	if oldMode != nil {
		if err := oldMode.Exit(ctx); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("exit %s: %w", oldMode.Name(), err)
		}
		ctx.PreviousMode = oldMode.Name()
	}
	ctx.NextMode = ""
	if err := newMode.Enter(ctx); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("enter %s: %w", newMode.Name(), err)
	}

	m.current = newMode
	m.mu.Unlock()
	return nil
}

// SetInitialMode makes name current without calling Exit on the old mode.
// It is meant for initialization.
func (m *Manager) SetInitialMode(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	mode, ok := m.modes[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMode, name)
	}

	m.current = mode
	return mode.Enter(&Context{})
}
