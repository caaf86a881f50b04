package keymap

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"

	"github.com/dshills/keyflow/internal/input/key"
)

func seq(s string) key.Sequence {
	return key.MustParseSequence(s)
}

func TestTrieLookup(t *testing.T) {
	b := NewBuilder()
	b.Add(seq("g g"), Template{Action: "cursor.moveFirstLine"}, PolicyWait)
	b.Add(seq("g"), Template{Action: "goto.prefix"}, PolicyEager)
	b.Add(seq("d d"), Template{Action: "editor.deleteLine", Linewise: true}, PolicyWait)
	b.MarkCountable(seq("d"))
	b.Add(seq("x"), Template{Action: "editor.deleteChar"}, PolicyWait)
	trie := b.Build()

	tests := []struct {
		keys      string
		kind      MatchKind
		action    string
		ambiguous bool
		countable bool
		policy    Policy
	}{
		{"g", Terminal, "goto.prefix", true, false, PolicyEager},
		{"g g", Terminal, "cursor.moveFirstLine", false, false, PolicyWait},
		{"g x", NoMatch, "", false, false, PolicyWait},
		{"d", Partial, "", false, true, PolicyWait},
		{"d d", Terminal, "editor.deleteLine", false, false, PolicyWait},
		{"d d d", NoMatch, "", false, false, PolicyWait},
		{"x", Terminal, "editor.deleteChar", false, false, PolicyWait},
		{"z", NoMatch, "", false, false, PolicyWait},
	}

	for _, tt := range tests {
		t.Run(tt.keys, func(t *testing.T) {
			res := trie.Lookup(seq(tt.keys))
			if res.Kind != tt.kind {
				t.Fatalf("Kind = %v, want %v", res.Kind, tt.kind)
			}
			if res.Template.Action != tt.action {
				t.Errorf("Action = %q, want %q", res.Template.Action, tt.action)
			}
			if res.Ambiguous() != tt.ambiguous {
				t.Errorf("Ambiguous() = %v, want %v", res.Ambiguous(), tt.ambiguous)
			}
			if res.Countable != tt.countable {
				t.Errorf("Countable = %v, want %v", res.Countable, tt.countable)
			}
			if res.Policy != tt.policy {
				t.Errorf("Policy = %v, want %v", res.Policy, tt.policy)
			}
		})
	}
}

func TestTrieEmptyAndNil(t *testing.T) {
	var nilTrie *Trie
	if nilTrie.Lookup(seq("a")).Kind != NoMatch || nilTrie.Len() != 0 {
		t.Error("nil trie should match nothing")
	}

	trie := NewBuilder().Build()
	if trie.Lookup(nil).Kind != NoMatch {
		t.Error("empty sequence should not match")
	}

	b := NewBuilder()
	if b.Add(nil, Template{Action: "x"}, PolicyWait) {
		t.Error("empty sequence should not be added")
	}
	if b.Build().Len() != 0 {
		t.Error("expected no entries")
	}
}

func TestTrieCountableLeaf(t *testing.T) {
	b := NewBuilder()
	b.MarkCountable(seq("d"))
	trie := b.Build()
	if res := trie.Lookup(seq("d")); res.Kind != NoMatch || !res.Countable {
		t.Errorf("bare marker should be NoMatch and countable, got %+v", res)
	}
}

func TestTrieOverride(t *testing.T) {
	b := NewBuilder()
	if b.Add(seq("j"), Template{Action: "cursor.moveDown"}, PolicyWait) {
		t.Error("first add should not report an override")
	}
	if !b.Add(seq("j"), Template{Action: "cursor.moveUp"}, PolicyEager) {
		t.Error("second add should report an override")
	}
	if b.Overrides() != 1 {
		t.Errorf("Overrides() = %d, want 1", b.Overrides())
	}
	trie := b.Build()
	res := trie.Lookup(seq("j"))
	if res.Template.Action != "cursor.moveUp" || res.Policy != PolicyEager {
		t.Errorf("later entry should win, got %+v", res)
	}
	if trie.Len() != 1 {
		t.Errorf("Len() = %d, want 1", trie.Len())
	}
}

func TestTrieArgsCopied(t *testing.T) {
	args := map[string]string{"dir": "up"}
	b := NewBuilder()
	b.Add(seq("k"), Template{Action: "scroll", Args: args}, PolicyWait)
	trie := b.Build()
	args["dir"] = "down"
	if got := trie.Lookup(seq("k")).Template.Args["dir"]; got != "up" {
		t.Errorf("template args changed through caller map: %q", got)
	}
}

func TestTrieWalk(t *testing.T) {
	b := NewBuilder()
	b.Add(seq("b"), Template{Action: "two"}, PolicyWait)
	b.Add(seq("a"), Template{Action: "one"}, PolicyWait)
	b.Add(seq("a b"), Template{Action: "three"}, PolicyWait)
	trie := b.Build()

	var got []string
	trie.Walk(func(s key.Sequence, tmpl Template, _ Policy) bool {
		got = append(got, s.String()+"="+tmpl.Action)
		return true
	})
	want := []string{"a=one", "a b=three", "b=two"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Walk order = %v, want %v", got, want)
	}

	n := 0
	trie.Walk(func(key.Sequence, Template, Policy) bool {
		n++
		return false
	})
	if n != 1 {
		t.Errorf("Walk should stop when fn returns false, visited %d", n)
	}
}

// Every added sequence is Terminal, and every strict prefix of one is
// Partial or Terminal.
func TestTrieProperty(t *testing.T) {
	alphabet := []key.Token{
		key.Char('a'), key.Char('b'), key.Char('g'),
		key.Key(key.NamedEscape), key.Chord(key.Char('w'), key.ModCtrl),
	}
	prop := func(seed int64) bool {
		rng := rand.New(rand.NewSource(seed))
		b := NewBuilder()
		var added []key.Sequence
		for i := 0; i < 1+rng.Intn(20); i++ {
			s := make(key.Sequence, 1+rng.Intn(4))
			for j := range s {
				s[j] = alphabet[rng.Intn(len(alphabet))]
			}
			b.Add(s, Template{Action: fmt.Sprint(i)}, PolicyWait)
			added = append(added, s)
		}
		trie := b.Build()
		for _, s := range added {
			if trie.Lookup(s).Kind != Terminal {
				return false
			}
			for n := 1; n < len(s); n++ {
				if trie.Lookup(s[:n]).Kind == NoMatch {
					return false
				}
			}
		}
		return true
	}
	cfg := &quick.Config{MaxCount: 200, Rand: rand.New(rand.NewSource(7))}
	if err := quick.Check(prop, cfg); err != nil {
		t.Error(err)
	}
}
