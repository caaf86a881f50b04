package keymap

import (
	"fmt"
	"maps"

	"github.com/dshills/keyflow/internal/input/key"
	"github.com/dshills/keyflow/internal/input/mode"
)

// Kind tells the compiler how a binding takes part in sequences.
type Kind uint8

const (
	// KindCommand resolves to its action on its own.
	KindCommand Kind = iota

	// KindMotion resolves on its own and may also follow an operator.
	KindMotion

	// KindOperator never resolves alone: it is followed by a motion,
	// a text object, or its own last key for the line-wise form.
	KindOperator

	// KindTextObject only resolves after an operator.
	KindTextObject
)

var kindNames = []string{"command", "motion", "operator", "textobject"}

// String returns the kind name used in keymap files.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind parses a kind name. The empty string is KindCommand.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return KindCommand, nil
	}
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return KindCommand, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Policy decides how a binding resolves when its keys are also the
// prefix of a longer binding.
type Policy uint8

const (
	// PolicyWait keeps the sequence pending until more keys or the
	// deadline arrive; on timeout the binding's own action is emitted.
	PolicyWait Policy = iota

	// PolicyEager resolves immediately; longer bindings that share the
	// prefix become unreachable from this point.
	PolicyEager
)

// String returns the policy name used in keymap files.
func (p Policy) String() string {
	if p == PolicyEager {
		return "eager"
	}
	return "wait"
}

// ParsePolicy parses a policy name. The empty string is PolicyWait.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "wait":
		return PolicyWait, nil
	case "eager":
		return PolicyEager, nil
	}
	return PolicyWait, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// Binding represents a single key-sequence-to-action mapping.
type Binding struct {
	// Keys is the key sequence that triggers this binding.
	// Formats: "j", "g g", "<C-s>", "<C-w>v", "Ctrl+Shift+A"
	Keys string

	// Action is the command to execute.
	// Examples: "cursor.moveDown", "operator.delete", "mode.insert"
	Action string

	// Kind is how the binding composes with others.
	Kind Kind

	// Policy applies when Keys is also a prefix of a longer binding.
	Policy Policy

	// NextMode is the mode to enter when the action is emitted.
	NextMode string

	// CharArg makes the binding read one more key as its argument
	// (f, t, r).
	CharArg bool

	// NoCount drops a typed count instead of passing it to the action.
	NoCount bool

	// Linewise is the action for a doubled operator key (dd, yy).
	Linewise string

	// Args are fixed arguments for the action.
	Args map[string]string

	// Description provides documentation for the binding.
	Description string

	// Category groups bindings for display purposes.
	Category string
}

// WithPolicy returns a copy of the binding with the given policy.
func (b Binding) WithPolicy(p Policy) Binding {
	b.Policy = p
	return b
}

// WithNextMode returns a copy of the binding that switches to m.
func (b Binding) WithNextMode(m string) Binding {
	b.NextMode = m
	return b
}

// WithDescription sets the description for this binding.
func (b Binding) WithDescription(desc string) Binding {
	b.Description = desc
	return b
}

// Keymap holds key bindings for a mode.
type Keymap struct {
	// Name is the keymap identifier.
	Name string

	// Mode is the mode this keymap applies to.
	Mode string

	// Bindings are the key-to-action mappings, in priority order:
	// a later binding for the same keys replaces an earlier one.
	Bindings []Binding

	// Source indicates where this keymap was defined.
	// Examples: "default", "user:/home/me/.config/keyflow/keys.toml"
	Source string
}

// NewKeymap creates a new keymap with the given name and mode.
func NewKeymap(name, m string) *Keymap {
	return &Keymap{
		Name: name,
		Mode: m,
	}
}

// Add adds a command binding to this keymap.
func (k *Keymap) Add(keys, action string) *Keymap {
	k.Bindings = append(k.Bindings, Binding{
		Keys:   keys,
		Action: action,
	})
	return k
}

// AddBinding adds a fully configured binding to this keymap.
func (k *Keymap) AddBinding(binding Binding) *Keymap {
	k.Bindings = append(k.Bindings, binding)
	return k
}

// Validate checks the keymap's mode and that all bindings are valid.
// Binding problems are reported as *EntryError.
func (k *Keymap) Validate() error {
	if !mode.IsStandard(k.Mode) {
		return fmt.Errorf("keymap %q: %w: %q", k.Name, ErrUnknownMode, k.Mode)
	}
	for i, b := range k.Bindings {
		if err := b.validate(); err != nil {
			return &EntryError{Keymap: k.Name, Index: i, Keys: b.Keys, Err: err}
		}
	}
	return nil
}

func (b Binding) validate() error {
	if b.Keys == "" {
		return ErrEmptyKeys
	}
	if b.Action == "" {
		return ErrEmptyAction
	}
	seq, err := key.ParseSequence(b.Keys)
	if err != nil {
		return err
	}
	if len(seq) == 0 {
		return ErrEmptyKeys
	}
	if b.Kind > KindTextObject {
		return ErrUnknownKind
	}
	if b.Policy > PolicyEager {
		return ErrUnknownPolicy
	}
	if b.Linewise != "" && b.Kind != KindOperator {
		return ErrLinewise
	}
	if b.NextMode != "" && !mode.IsStandard(b.NextMode) {
		return fmt.Errorf("%w: next mode %q", ErrUnknownMode, b.NextMode)
	}
	return nil
}

// Clone creates a deep copy of the keymap.
func (k *Keymap) Clone() *Keymap {
	clone := &Keymap{
		Name:     k.Name,
		Mode:     k.Mode,
		Source:   k.Source,
		Bindings: make([]Binding, len(k.Bindings)),
	}
	copy(clone.Bindings, k.Bindings)
	for i := range clone.Bindings {
		clone.Bindings[i].Args = maps.Clone(k.Bindings[i].Args)
	}
	return clone
}
