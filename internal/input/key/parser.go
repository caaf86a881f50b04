package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a key specification string into a canonical Token.
//
// Supported formats:
//   - Single character: "a", "A", "1", "@", "é"
//   - Named keys: "Enter", "Escape", "Tab", "F5"
//   - With modifiers: "Ctrl+S", "Alt+F4", "Ctrl+Shift+P"
//   - Vim-style: "<C-s>", "<A-f>", "<S-Tab>", "<CR>", "<Esc>", "<lt>"
//
// The result goes through the same canonical rules as Normalize, so "<C-j>"
// and "<CR>" parse to the same token.
func Parse(spec string) (Token, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Token{}, ErrEmptySpec
	}

	if len(spec) > 2 && strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		return parseVimStyle(spec[1 : len(spec)-1])
	}

	if len(spec) > 1 && strings.Contains(spec, "+") {
		return parseModifierStyle(spec)
	}

	return parseKey(spec, ModNone)
}

// parseVimStyle parses the inside of <...>, e.g. "C-s", "A-F4", "CR".
func parseVimStyle(inner string) (Token, error) {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return Token{}, ErrInvalidSpec
	}

	// "<C-->" means Ctrl+minus: the key part may itself be "-".
	var mods ModMask
	for {
		i := strings.IndexByte(inner, '-')
		if i <= 0 || i == len(inner)-1 {
			break
		}
		mod := ModifierFromName(inner[:i])
		if mod == ModNone {
			return Token{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, inner[:i])
		}
		mods = mods.With(mod)
		inner = inner[i+1:]
	}
	return parseKey(inner, mods)
}

// parseModifierStyle parses "Ctrl+S" style notation.
func parseModifierStyle(spec string) (Token, error) {
	parts := strings.Split(spec, "+")
	keyPart := parts[len(parts)-1]
	if keyPart == "" && len(parts) > 2 {
		// "Ctrl++"
		parts = parts[:len(parts)-1]
		keyPart = "+"
	}

	var mods ModMask
	for _, p := range parts[:len(parts)-1] {
		mod := ModifierFromName(p)
		if mod == ModNone {
			return Token{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}
	return parseKey(keyPart, mods)
}

// parseKey resolves a key name or single character under mods.
func parseKey(keyPart string, mods ModMask) (Token, error) {
	if keyPart == "" {
		return Token{}, ErrInvalidSpec
	}

	switch strings.ToLower(keyPart) {
	case "space":
		return normalizeRune(' ', mods), nil
	case "lt":
		return normalizeRune('<', mods), nil
	case "gt":
		return normalizeRune('>', mods), nil
	case "bar":
		return normalizeRune('|', mods), nil
	case "bslash":
		return normalizeRune('\\', mods), nil
	case "minus":
		return normalizeRune('-', mods), nil
	}

	if r, size := utf8.DecodeRuneInString(keyPart); size == len(keyPart) && r != utf8.RuneError {
		if mods.Has(ModShift) && !mods.Has(ModCtrl) {
			r = unicode.ToUpper(r)
		}
		return normalizeRune(r, mods), nil
	}

	if n := NamedFromName(keyPart); n != NamedNone {
		return Chord(Key(n), mods), nil
	}

	return Token{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
}

// MustParse parses a key specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Token {
	t, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return t
}
