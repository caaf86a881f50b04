package key

import (
	"testing"
)

func TestParseSequence(t *testing.T) {
	tests := []struct {
		input string
		want  Sequence
	}{
		{"", Sequence{}},
		{"g g", Sequence{Char('g'), Char('g')}},
		{"gg", Sequence{Char('g'), Char('g')}},
		{"d i w", Sequence{Char('d'), Char('i'), Char('w')}},
		{"\"ayy", Sequence{Char('"'), Char('a'), Char('y'), Char('y')}},
		{"<C-w>v", Sequence{Chord(Char('w'), ModCtrl), Char('v')}},
		{"<C-x><C-s>", Sequence{Chord(Char('x'), ModCtrl), Chord(Char('s'), ModCtrl)}},
		{"<", Sequence{Char('<')}},
		{"χαρά", Sequence{Char('χ'), Char('α'), Char('ρ'), Char('ά')}},
		{"0 c w <Esc>", Sequence{Char('0'), Char('c'), Char('w'), Key(NamedEscape)}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSequence(tt.input)
			if err != nil {
				t.Fatalf("ParseSequence(%q) error = %v", tt.input, err)
			}
			if !got.Equals(tt.want) {
				t.Errorf("ParseSequence(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSequenceError(t *testing.T) {
	if _, err := ParseSequence("a <Bogus-x>"); err == nil {
		t.Error("expected error for invalid key in sequence")
	}
}

func TestSequenceHasPrefix(t *testing.T) {
	seq := MustParseSequence("diw")
	tests := []struct {
		prefix string
		want   bool
	}{
		{"", true},
		{"d", true},
		{"di", true},
		{"diw", true},
		{"diwx", false},
		{"da", false},
	}

	for _, tt := range tests {
		if got := seq.HasPrefix(MustParseSequence(tt.prefix)); got != tt.want {
			t.Errorf("HasPrefix(%q) = %v, want %v", tt.prefix, got, tt.want)
		}
	}
}

func TestSequenceCloneIndependent(t *testing.T) {
	seq := MustParseSequence("dw")
	clone := seq.Clone()
	clone[0] = Char('c')
	if seq[0] != Char('d') {
		t.Error("modifying clone changed the original")
	}
}

func TestSequenceStrings(t *testing.T) {
	seq := MustParseSequence("<C-w> v <Esc>")
	if got := seq.String(); got != "C-w v Esc" {
		t.Errorf("String() = %q", got)
	}
	if got := seq.VimString(); got != "<C-w>v<Esc>" {
		t.Errorf("VimString() = %q", got)
	}
}

func TestSequenceAsString(t *testing.T) {
	if s, ok := MustParseSequence("χαρά").AsString(); !ok || s != "χαρά" {
		t.Errorf("AsString() = %q, %v", s, ok)
	}
	if _, ok := MustParseSequence("a<Esc>").AsString(); ok {
		t.Error("AsString should fail with a named key")
	}
}
