package key

import (
	"strings"
	"unicode/utf8"
)

// Sequence is an ordered run of tokens forming a command.
// Examples: "g g" (go to top), "d i w" (delete inner word), "<C-w> v".
type Sequence []Token

// String returns a space-separated representation, e.g. "g g".
func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, t := range s {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

// VimString returns Vim notation, e.g. "gg", "<C-w>v".
func (s Sequence) VimString() string {
	var sb strings.Builder
	for _, t := range s {
		sb.WriteString(t.VimString())
	}
	return sb.String()
}

// Equals returns true if both sequences hold the same tokens in order.
func (s Sequence) Equals(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix returns true if s starts with prefix.
func (s Sequence) HasPrefix(prefix Sequence) bool {
	return len(prefix) <= len(s) && s[:len(prefix)].Equals(prefix)
}

// Clone returns an independent copy.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// AsString returns the sequence as text if every token is a plain character.
func (s Sequence) AsString() (string, bool) {
	if len(s) == 0 {
		return "", false
	}
	var sb strings.Builder
	for _, t := range s {
		r, ok := t.Rune()
		if !ok {
			return "", false
		}
		sb.WriteRune(r)
	}
	return sb.String(), true
}

// ParseSequence parses a key sequence string.
// The string may be space-separated specs or a continuous Vim-style run.
// Examples: "g g", "d i w", "<C-x><C-s>", "dd", "\"ayy".
func ParseSequence(s string) (Sequence, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Sequence{}, nil
	}

	if strings.ContainsAny(s, " \t") {
		var seq Sequence
		for _, part := range strings.Fields(s) {
			t, err := Parse(part)
			if err != nil {
				return nil, err
			}
			seq = append(seq, t)
		}
		return seq, nil
	}

	var seq Sequence
	for len(s) > 0 {
		if s[0] == '<' {
			if end := strings.IndexByte(s, '>'); end > 1 {
				t, err := Parse(s[:end+1])
				if err != nil {
					return nil, err
				}
				seq = append(seq, t)
				s = s[end+1:]
				continue
			}
		}
		r, size := utf8.DecodeRuneInString(s)
		seq = append(seq, Char(r))
		s = s[size:]
	}
	return seq, nil
}

// MustParseSequence parses a sequence string and panics on error.
// Use only for known-valid sequences in initialization code.
func MustParseSequence(s string) Sequence {
	seq, err := ParseSequence(s)
	if err != nil {
		panic("invalid key sequence: " + s + ": " + err.Error())
	}
	return seq
}
