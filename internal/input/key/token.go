package key

import (
	"fmt"
	"strings"
	"unicode"
)

// Kind discriminates the three token shapes.
type Kind uint8

const (
	// KindInvalid is the zero Token.
	KindInvalid Kind = iota
	// KindChar is a single Unicode scalar value.
	KindChar
	// KindNamed is a logical key such as Escape or F5.
	KindNamed
	// KindChord is a Char or Named base held with one or more modifiers.
	KindChord
)

// String returns the label used in content-free diagnostics.
func (k Kind) String() string {
	switch k {
	case KindChar:
		return "char"
	case KindNamed:
		return "named"
	case KindChord:
		return "chord"
	default:
		return "invalid"
	}
}

// Token is the canonical representation of one key press.
//
// Token is comparable and is used directly as a trie edge. A chord stores
// its base inline (Rune or Named) together with Mods, so a chord can never
// wrap another chord.
type Token struct {
	kind  Kind
	r     rune
	named Named
	mods  ModMask
}

// Char returns the token for a Unicode scalar value.
func Char(r rune) Token {
	return Token{kind: KindChar, r: r}
}

// Key returns the token for a logical key.
func Key(n Named) Token {
	return Token{kind: KindNamed, named: n}
}

// Unknown returns the catch-all named token for an unrecognized raw code.
func Unknown(code int) Token {
	return Token{kind: KindNamed, named: NamedUnknown, r: rune(code)}
}

// Chord combines base with mods. Chording a chord merges the masks;
// an empty mask returns the bare base.
func Chord(base Token, mods ModMask) Token {
	if base.kind == KindChord {
		mods = mods.With(base.mods)
		base = base.Base()
	}
	if mods.IsEmpty() || base.kind == KindInvalid {
		return base
	}
	return Token{kind: KindChord, r: base.r, named: base.named, mods: mods}
}

// Kind returns the token's discriminant.
func (t Token) Kind() Kind {
	return t.kind
}

// IsValid reports whether t was built by a constructor.
func (t Token) IsValid() bool {
	return t.kind != KindInvalid
}

// Base returns the unmodified token beneath a chord, or t itself.
func (t Token) Base() Token {
	if t.kind != KindChord {
		return t
	}
	if t.named != NamedNone {
		return Token{kind: KindNamed, named: t.named, r: t.r}
	}
	return Token{kind: KindChar, r: t.r}
}

// Mods returns the chord's modifiers; non-chords have none.
func (t Token) Mods() ModMask {
	return t.mods
}

// Rune returns the scalar of a Char token and whether t is one.
func (t Token) Rune() (rune, bool) {
	if t.kind != KindChar {
		return 0, false
	}
	return t.r, true
}

// Named returns the logical key of a Named token and whether t is one.
func (t Token) Named() (Named, bool) {
	if t.kind != KindNamed {
		return NamedNone, false
	}
	return t.named, true
}

// RawCode returns the raw terminal code carried by an Unknown token.
func (t Token) RawCode() int {
	if t.kind == KindNamed && t.named == NamedUnknown {
		return int(t.r)
	}
	return 0
}

// IsChar reports whether t is exactly Char(r).
func (t Token) IsChar(r rune) bool {
	return t.kind == KindChar && t.r == r
}

// IsKey reports whether t is exactly Key(n) with no modifiers.
func (t Token) IsKey(n Named) bool {
	return t.kind == KindNamed && t.named == n
}

// IsDigit reports whether t is an unmodified ASCII digit.
func (t Token) IsDigit() bool {
	return t.kind == KindChar && t.r >= '0' && t.r <= '9'
}

// IsPrintable reports whether t is an unmodified printable character.
func (t Token) IsPrintable() bool {
	return t.kind == KindChar && unicode.IsPrint(t.r)
}

// String returns a compact form such as "a", "Esc", or "C-a".
func (t Token) String() string {
	switch t.kind {
	case KindChar:
		if t.r == ' ' {
			return "Space"
		}
		return string(t.r)
	case KindNamed:
		return t.named.String()
	case KindChord:
		return t.mods.ShortString() + "-" + t.Base().String()
	default:
		return "Invalid"
	}
}

// VimString returns Vim key notation, such as "a", "<Esc>", "<C-a>", "<lt>".
// The result parses back to the same token.
func (t Token) VimString() string {
	switch t.kind {
	case KindChar:
		switch t.r {
		case ' ':
			return "<Space>"
		case '<':
			return "<lt>"
		}
		return string(t.r)
	case KindNamed:
		return "<" + vimName(t.named) + ">"
	case KindChord:
		var name string
		if t.named != NamedNone {
			name = vimName(t.named)
		} else {
			name = vimCharName(t.r)
		}
		return "<" + t.mods.ShortString() + "-" + name + ">"
	default:
		return ""
	}
}

func vimName(n Named) string {
	switch n {
	case NamedEnter:
		return "CR"
	case NamedInsert:
		return "Ins"
	}
	return n.String()
}

func vimCharName(r rune) string {
	switch r {
	case ' ':
		return "Space"
	case '<':
		return "lt"
	case '>':
		return "gt"
	case '-':
		return "minus"
	}
	return string(r)
}

// GoString implements fmt.GoStringer for debugging.
func (t Token) GoString() string {
	switch t.kind {
	case KindChar:
		return fmt.Sprintf("key.Char(%q)", t.r)
	case KindNamed:
		if t.named == NamedUnknown {
			return fmt.Sprintf("key.Unknown(%d)", t.r)
		}
		return "key.Key(" + t.named.String() + ")"
	case KindChord:
		return fmt.Sprintf("key.Chord(%#v, %s)", t.Base(), strings.ReplaceAll(t.mods.String(), "+", "|"))
	default:
		return "key.Token{}"
	}
}
