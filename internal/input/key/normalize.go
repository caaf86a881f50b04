package key

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// Normalize maps a raw terminal key code, rune, and modifier bits into the
// canonical token. It is pure and total: codes it does not recognize come
// back as Unknown tokens rather than being dropped.
//
// Control bytes and their Ctrl-letter spellings converge on one token, so
// Ctrl+J, Ctrl+M, and a literal newline all become Key(NamedEnter). Shift
// held with a printable character is folded into the character itself.
func Normalize(code tcell.Key, r rune, mods tcell.ModMask) Token {
	m := FromTcellMods(mods)

	if code == tcell.KeyRune {
		return normalizeRune(r, m)
	}
	if n, ok := tcellNamed[code]; ok {
		return Chord(Key(n), m)
	}
	if code == tcell.KeyBacktab {
		return Chord(Key(NamedTab), m.With(ModShift))
	}
	if code >= tcell.KeyF1 && code <= tcell.KeyF64 {
		return Chord(Key(NamedF(int(code-tcell.KeyF1)+1)), m)
	}
	if code < 0x20 || code == 0x7F {
		return Chord(ControlByte(byte(code)), m.Without(ModCtrl))
	}
	if code >= tcell.KeyCtrlA && code <= tcell.KeyCtrlZ {
		return normalizeRune(rune('a'+(code-tcell.KeyCtrlA)), m.With(ModCtrl))
	}
	return Chord(Unknown(int(code)), m)
}

// ControlByte maps a C0 control byte (or DEL) onto the canonical token.
// Printable bytes map to Char.
func ControlByte(b byte) Token {
	switch b {
	case '\r', '\n':
		return Key(NamedEnter)
	case '\t':
		return Key(NamedTab)
	case 0x1B:
		return Key(NamedEscape)
	case 0x08, 0x7F:
		return Key(NamedBackspace)
	case 0x00:
		return Chord(Char(' '), ModCtrl)
	}
	switch {
	case b >= 0x01 && b <= 0x1A:
		return Chord(Char(rune('a'+b-1)), ModCtrl)
	case b >= 0x1C && b <= 0x1F:
		return Chord(Char(rune('\\'+b-0x1C)), ModCtrl)
	}
	return Char(rune(b))
}

// FromTcellMods converts tcell modifier bits.
func FromTcellMods(mods tcell.ModMask) ModMask {
	var m ModMask
	if mods&tcell.ModCtrl != 0 {
		m = m.With(ModCtrl)
	}
	if mods&tcell.ModAlt != 0 {
		m = m.With(ModAlt)
	}
	if mods&tcell.ModShift != 0 {
		m = m.With(ModShift)
	}
	if mods&tcell.ModMeta != 0 {
		m = m.With(ModMeta)
	}
	return m
}

// normalizeRune applies the character rules: control scalars go through
// ControlByte, Ctrl+letter is lowercase, Ctrl spellings of Enter, Tab,
// Escape, and Backspace become those keys, and Shift is dropped.
func normalizeRune(r rune, m ModMask) Token {
	m = m.Without(ModShift)
	if r < 0x20 || r == 0x7F {
		return Chord(ControlByte(byte(r)), m)
	}
	if !m.Has(ModCtrl) {
		return Chord(Char(r), m)
	}
	r = unicode.ToLower(r)
	switch r {
	case 'm', 'j':
		return Chord(Key(NamedEnter), m.Without(ModCtrl))
	case 'i':
		return Chord(Key(NamedTab), m.Without(ModCtrl))
	case '[':
		return Chord(Key(NamedEscape), m.Without(ModCtrl))
	case 'h':
		return Chord(Key(NamedBackspace), m.Without(ModCtrl))
	}
	return Chord(Char(r), m)
}

var tcellNamed = map[tcell.Key]Named{
	tcell.KeyEnter:      NamedEnter,
	tcell.KeyTab:        NamedTab,
	tcell.KeyEscape:     NamedEscape,
	tcell.KeyBackspace:  NamedBackspace,
	tcell.KeyBackspace2: NamedBackspace,
	tcell.KeyDelete:     NamedDelete,
	tcell.KeyInsert:     NamedInsert,
	tcell.KeyHome:       NamedHome,
	tcell.KeyEnd:        NamedEnd,
	tcell.KeyPgUp:       NamedPageUp,
	tcell.KeyPgDn:       NamedPageDown,
	tcell.KeyUp:         NamedUp,
	tcell.KeyDown:       NamedDown,
	tcell.KeyLeft:       NamedLeft,
	tcell.KeyRight:      NamedRight,
}
