package capture

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Source delivers raw terminal events. Events is closed when the stream
// ends.
type Source interface {
	Events() <-chan tcell.Event
	EnablePaste()
	DisablePaste()
	Close() error
}

// TerminalSource implements Source on a tcell screen.
type TerminalSource struct {
	screen tcell.Screen
	events chan tcell.Event
	quit   chan struct{}
	once   sync.Once
	mu     sync.Mutex
}

// NewTerminalSource opens the controlling terminal.
func NewTerminalSource() (*TerminalSource, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	return NewScreenSource(screen)
}

// NewScreenSource initializes screen and starts polling it. The source
// owns the screen from then on and finalizes it on Close.
func NewScreenSource(screen tcell.Screen) (*TerminalSource, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}

	screen.EnableMouse()
	screen.EnableFocus()

	s := &TerminalSource{
		screen: screen,
		events: make(chan tcell.Event, 64),
		quit:   make(chan struct{}),
	}
	go s.poll()
	return s, nil
}

func (s *TerminalSource) poll() {
	defer close(s.events)
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case s.events <- ev:
		case <-s.quit:
			return
		}
	}
}

// Events returns the event stream.
func (s *TerminalSource) Events() <-chan tcell.Event {
	return s.events
}

// EnablePaste requests bracketed paste from the terminal.
func (s *TerminalSource) EnablePaste() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.screen.EnablePaste()
}

// DisablePaste turns bracketed paste off again.
func (s *TerminalSource) DisablePaste() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.screen.DisablePaste()
}

// Close restores the terminal and ends the event stream. It is safe to
// call more than once.
func (s *TerminalSource) Close() error {
	s.once.Do(func() {
		close(s.quit)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.screen.Fini()
	})
	return nil
}
