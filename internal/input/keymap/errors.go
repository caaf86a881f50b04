package keymap

import (
	"errors"
	"fmt"
)

// Keymap errors
var (
	ErrEmptyKeys     = errors.New("empty keys")
	ErrEmptyAction   = errors.New("empty action")
	ErrUnknownMode   = errors.New("unknown mode")
	ErrUnknownKind   = errors.New("unknown binding kind")
	ErrUnknownPolicy = errors.New("unknown policy")
	ErrLinewise      = errors.New("linewise action on a non-operator binding")
	ErrUnknownFormat = errors.New("unknown keymap file format")
)

// EntryError reports a problem with one binding of a keymap.
type EntryError struct {
	Keymap string
	Index  int
	Keys   string
	Err    error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("keymap %q binding %d (%s): %v", e.Keymap, e.Index, e.Keys, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}
