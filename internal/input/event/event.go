// Package event defines the input events produced by the capture task and
// consumed by the translator.
//
// Event is a closed set: only the types in this package implement it.
// Events carry content (typed characters, pasted text) that must never be
// logged; use Kind and the length accessors for diagnostics.
package event

import (
	"time"

	"github.com/dshills/keyflow/internal/input/key"
)

// Kind discriminates event variants in logs and metrics.
type Kind uint8

const (
	KindKeyPress Kind = iota + 1
	KindPasteStart
	KindPasteChunk
	KindPasteEnd
	KindRawBytes
	KindMouse
	KindFocus
	KindResize
	KindCompositionUpdate
	KindTextCommit
	KindLegacyKey
)

var kindNames = [...]string{
	KindKeyPress:          "key_press",
	KindPasteStart:        "paste_start",
	KindPasteChunk:        "paste_chunk",
	KindPasteEnd:          "paste_end",
	KindRawBytes:          "raw_bytes",
	KindMouse:             "mouse",
	KindFocus:             "focus",
	KindResize:            "resize",
	KindCompositionUpdate: "composition_update",
	KindTextCommit:        "text_commit",
	KindLegacyKey:         "legacy_key",
}

// String returns the snake_case variant name.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Event is one item on the input channel.
type Event interface {
	Kind() Kind
	sealed()
}

// KeyPress is a single normalized key press.
type KeyPress struct {
	Token     key.Token
	Timestamp time.Time
	// Repeat is set when the terminal reports key auto-repeat.
	Repeat bool
}

// Mods returns the modifiers held with the key.
func (e KeyPress) Mods() key.ModMask { return e.Token.Mods() }

// PasteStart opens a bracketed-paste session.
type PasteStart struct{}

// PasteChunk carries pasted text. It never ends inside a grapheme cluster.
type PasteChunk struct {
	Text string
}

// PasteEnd closes a bracketed-paste session.
type PasteEnd struct{}

// RawBytes carries input the terminal could not decode.
type RawBytes struct {
	Bytes []byte
}

// MouseButton is a bit set of pressed mouse buttons and wheel directions.
type MouseButton uint16

const (
	ButtonPrimary MouseButton = 1 << iota
	ButtonSecondary
	ButtonMiddle
	WheelUp
	WheelDown
	WheelLeft
	WheelRight
)

// Mouse is a pointer event in cell coordinates.
type Mouse struct {
	X, Y    int
	Buttons MouseButton
	Mods    key.ModMask
}

// Focus reports terminal focus changes.
type Focus struct {
	Gained bool
}

// Resize reports a new terminal size in cells.
type Resize struct {
	Width, Height int
}

// CompositionUpdate carries in-progress IME preedit text.
type CompositionUpdate struct {
	Text string
}

// TextCommit carries text committed by an input method.
type TextCommit struct {
	Text string
}

// LegacyKey is the pre-normalization key event shape.
//
// Deprecated: producers emit KeyPress. The translator reports and ignores
// any LegacyKey it receives.
type LegacyKey struct {
	Code rune
}

func (KeyPress) Kind() Kind          { return KindKeyPress }
func (PasteStart) Kind() Kind        { return KindPasteStart }
func (PasteChunk) Kind() Kind        { return KindPasteChunk }
func (PasteEnd) Kind() Kind          { return KindPasteEnd }
func (RawBytes) Kind() Kind          { return KindRawBytes }
func (Mouse) Kind() Kind             { return KindMouse }
func (Focus) Kind() Kind             { return KindFocus }
func (Resize) Kind() Kind            { return KindResize }
func (CompositionUpdate) Kind() Kind { return KindCompositionUpdate }
func (TextCommit) Kind() Kind        { return KindTextCommit }
func (LegacyKey) Kind() Kind         { return KindLegacyKey }

func (KeyPress) sealed()          {}
func (PasteStart) sealed()        {}
func (PasteChunk) sealed()        {}
func (PasteEnd) sealed()          {}
func (RawBytes) sealed()          {}
func (Mouse) sealed()             {}
func (Focus) sealed()             {}
func (Resize) sealed()            {}
func (CompositionUpdate) sealed() {}
func (TextCommit) sealed()        {}
func (LegacyKey) sealed()         {}

// PayloadLen returns the byte length of an event's text or byte payload,
// which is the only content-derived value safe to log.
func PayloadLen(e Event) int {
	switch ev := e.(type) {
	case PasteChunk:
		return len(ev.Text)
	case RawBytes:
		return len(ev.Bytes)
	case CompositionUpdate:
		return len(ev.Text)
	case TextCommit:
		return len(ev.Text)
	}
	return 0
}
