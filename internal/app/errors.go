// Package app wires the keyflow pipeline together.
package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrAlreadyRunning indicates the pipeline is already running.
	ErrAlreadyRunning = errors.New("pipeline already running")

	// ErrNotTerminal indicates live mode was requested without a terminal.
	ErrNotTerminal = errors.New("stdin is not a terminal")

	// ErrNoSource indicates a pipeline was built without an event source.
	ErrNoSource = errors.New("no event source")
)

// InitError reports a component that failed to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// ReplayError reports a script token that could not be replayed.
type ReplayError struct {
	Line  int    // 1-based line of the token
	Token string // the offending script token
	Err   error  // underlying error
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("replay line %d: %q: %v", e.Line, e.Token, e.Err)
}

func (e *ReplayError) Unwrap() error {
	return e.Err
}

// ErrorList collects multiple errors.
// NOTE: ErrorList is NOT safe for concurrent use.
type ErrorList struct {
	errors []error
}

// Add adds an error to the list. Nil errors are ignored.
func (e *ErrorList) Add(err error) {
	if err != nil {
		e.errors = append(e.errors, err)
	}
}

// Len returns the number of errors.
func (e *ErrorList) Len() int {
	return len(e.errors)
}

// Error returns a combined error message.
func (e *ErrorList) Error() string {
	if e == nil || len(e.errors) == 0 {
		return ""
	}
	if len(e.errors) == 1 {
		return e.errors[0].Error()
	}
	return fmt.Sprintf("%d errors: first: %v", len(e.errors), e.errors[0])
}

// Unwrap exposes every collected error to errors.Is and errors.As.
func (e *ErrorList) Unwrap() []error {
	return e.errors
}

// AsError returns nil if there are no errors, otherwise returns the ErrorList.
func (e *ErrorList) AsError() error {
	if len(e.errors) == 0 {
		return nil
	}
	return e
}
