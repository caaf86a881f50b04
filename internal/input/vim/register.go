package vim

import "unicode"

// RegisterPrefix is the key that introduces a register name.
const RegisterPrefix = '"'

// RegisterType categorizes registers by their behavior.
type RegisterType uint8

const (
	// RegisterInvalid is not a register name.
	RegisterInvalid RegisterType = iota

	// RegisterNamed is a named register (a-z, A-Z).
	RegisterNamed

	// RegisterNumbered is a numbered register (0-9).
	RegisterNumbered

	// RegisterUnnamed is the default register (").
	RegisterUnnamed

	// RegisterSmallDelete is the small delete register (-).
	RegisterSmallDelete

	// RegisterBlackHole is the black hole register (_).
	RegisterBlackHole

	// RegisterReadOnly covers . % # and : which can be read but not written.
	RegisterReadOnly

	// RegisterSearch is the last search pattern register (/).
	RegisterSearch

	// RegisterExpression is the expression register (=).
	RegisterExpression

	// RegisterClipboard is the system clipboard register (+).
	RegisterClipboard

	// RegisterSelection is the primary selection register (*).
	RegisterSelection
)

// String returns the register type name.
func (t RegisterType) String() string {
	switch t {
	case RegisterNamed:
		return "named"
	case RegisterNumbered:
		return "numbered"
	case RegisterUnnamed:
		return "unnamed"
	case RegisterSmallDelete:
		return "small-delete"
	case RegisterBlackHole:
		return "black-hole"
	case RegisterReadOnly:
		return "read-only"
	case RegisterSearch:
		return "search"
	case RegisterExpression:
		return "expression"
	case RegisterClipboard:
		return "clipboard"
	case RegisterSelection:
		return "selection"
	default:
		return "invalid"
	}
}

// ClassifyRegister returns the type of the register named r.
func ClassifyRegister(r rune) RegisterType {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return RegisterNamed
	case r >= '0' && r <= '9':
		return RegisterNumbered
	}
	switch r {
	case '"':
		return RegisterUnnamed
	case '-':
		return RegisterSmallDelete
	case '_':
		return RegisterBlackHole
	case '.', '%', '#', ':':
		return RegisterReadOnly
	case '/':
		return RegisterSearch
	case '=':
		return RegisterExpression
	case '+':
		return RegisterClipboard
	case '*':
		return RegisterSelection
	}
	return RegisterInvalid
}

// IsValidRegister returns true if r names a register.
func IsValidRegister(r rune) bool {
	return ClassifyRegister(r) != RegisterInvalid
}

// IsAppendRegister returns true for uppercase named registers,
// which append to their lowercase counterpart.
func IsAppendRegister(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

// NormalizeRegister maps an append register onto the register it writes.
func NormalizeRegister(r rune) rune {
	if IsAppendRegister(r) {
		return unicode.ToLower(r)
	}
	return r
}
