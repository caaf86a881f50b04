package capture

import (
	"errors"
	"fmt"
)

// Errors returned by Task.
var (
	// ErrStreamEnded means the terminal event stream closed.
	ErrStreamEnded = errors.New("terminal event stream ended")

	// ErrNoSource is returned by New without a Source.
	ErrNoSource = errors.New("capture source is required")

	// ErrNoChannel is returned by New without an event channel.
	ErrNoChannel = errors.New("capture channel is required")
)

// StreamError wraps an error reported by the terminal.
type StreamError struct {
	Err error
}

func (e *StreamError) Error() string {
	if e == nil || e.Err == nil {
		return "terminal stream error"
	}
	return fmt.Sprintf("terminal stream error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *StreamError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
