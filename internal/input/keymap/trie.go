package keymap

import (
	"cmp"
	"maps"
	"slices"

	"github.com/dshills/keyflow/internal/input/key"
)

// MatchKind is the outcome of a trie lookup.
type MatchKind uint8

const (
	// NoMatch means no entry starts with the sequence.
	NoMatch MatchKind = iota

	// Partial means the sequence is a strict prefix of at least one
	// entry and is not an entry itself.
	Partial

	// Terminal means the sequence is an entry. It may still be the
	// prefix of longer entries; see Result.Ambiguous.
	Terminal
)

// String returns the match kind name.
func (k MatchKind) String() string {
	switch k {
	case Partial:
		return "partial"
	case Terminal:
		return "terminal"
	default:
		return "no_match"
	}
}

// Template is the action an entry resolves to, before the pending
// count, register and character argument are applied.
type Template struct {
	// Action is the action name.
	Action string

	// Motion is the motion action when an operator is applied to one.
	Motion string

	// TextObject is the text object action when an operator is applied to one.
	TextObject string

	// Linewise marks a doubled operator (dd, yy).
	Linewise bool

	// NextMode is the mode to enter once the action is emitted.
	NextMode string

	// CharArg makes the entry read one more key as its argument.
	CharArg bool

	// NoCount drops the pending count.
	NoCount bool

	// Args are fixed arguments for the action.
	Args map[string]string
}

// Result is the answer to a trie lookup.
type Result struct {
	Kind MatchKind

	// Template is set when Kind is Terminal.
	Template Template

	// Policy is the terminal entry's ambiguity policy.
	Policy Policy

	// HasChildren reports longer entries below this sequence.
	HasChildren bool

	// Countable marks an operator node: a count may be typed here.
	Countable bool
}

// Ambiguous reports a sequence that is an entry and also the prefix
// of a longer one.
func (r Result) Ambiguous() bool {
	return r.Kind == Terminal && r.HasChildren
}

const noTemplate = -1

// node is one trie node. Children are addressed by index into the
// arena so the structure has no pointers between nodes.
type node struct {
	edges     map[key.Token]int32
	terminal  int32
	policy    Policy
	countable bool
}

// Trie maps token sequences to action templates. It is immutable once
// built and safe for concurrent lookups.
type Trie struct {
	nodes     []node
	templates []Template
}

// Builder accumulates entries for a Trie.
type Builder struct {
	trie      Trie
	overrides int
}

// NewBuilder returns a builder holding only the root node.
func NewBuilder() *Builder {
	b := &Builder{}
	b.trie.nodes = []node{{terminal: noTemplate}}
	return b
}

// Add inserts an entry for seq. A later entry for the same sequence
// replaces the earlier one; Add reports whether that happened.
// Empty sequences are ignored.
func (b *Builder) Add(seq key.Sequence, tmpl Template, policy Policy) bool {
	if len(seq) == 0 {
		return false
	}
	n := b.walk(seq)
	tmpl.Args = maps.Clone(tmpl.Args)

	t := &b.trie
	replaced := t.nodes[n].terminal != noTemplate
	if replaced {
		t.templates[t.nodes[n].terminal] = tmpl
		b.overrides++
	} else {
		t.nodes[n].terminal = int32(len(t.templates))
		t.templates = append(t.templates, tmpl)
	}
	t.nodes[n].policy = policy
	return replaced
}

// MarkCountable marks the node for seq as accepting a count, creating
// the path if needed.
func (b *Builder) MarkCountable(seq key.Sequence) {
	if len(seq) == 0 {
		return
	}
	b.trie.nodes[b.walk(seq)].countable = true
}

// Overrides returns how many entries replaced an earlier one.
func (b *Builder) Overrides() int {
	return b.overrides
}

// Build returns the finished trie. The builder must not be used afterward.
func (b *Builder) Build() *Trie {
	t := b.trie
	b.trie = Trie{}
	return &t
}

// walk returns the node index for seq, creating nodes as needed.
func (b *Builder) walk(seq key.Sequence) int32 {
	t := &b.trie
	var cur int32
	for _, tok := range seq {
		next, ok := t.nodes[cur].edges[tok]
		if !ok {
			next = int32(len(t.nodes))
			t.nodes = append(t.nodes, node{terminal: noTemplate})
			if t.nodes[cur].edges == nil {
				t.nodes[cur].edges = make(map[key.Token]int32)
			}
			t.nodes[cur].edges[tok] = next
		}
		cur = next
	}
	return cur
}

// Lookup classifies seq against the trie. Lookups of the empty
// sequence and on a nil trie return NoMatch.
func (t *Trie) Lookup(seq key.Sequence) Result {
	if t == nil || len(seq) == 0 {
		return Result{Kind: NoMatch}
	}
	var cur int32
	for _, tok := range seq {
		next, ok := t.nodes[cur].edges[tok]
		if !ok {
			return Result{Kind: NoMatch}
		}
		cur = next
	}

	n := t.nodes[cur]
	res := Result{
		HasChildren: len(n.edges) > 0,
		Countable:   n.countable,
	}
	switch {
	case n.terminal != noTemplate:
		res.Kind = Terminal
		res.Template = t.templates[n.terminal]
		res.Policy = n.policy
	case res.HasChildren:
		res.Kind = Partial
	default:
		// A countable marker with no entries below it.
		res.Kind = NoMatch
	}
	return res
}

// Len returns the number of entries.
func (t *Trie) Len() int {
	if t == nil {
		return 0
	}
	return len(t.templates)
}

// Walk calls fn for every entry in a stable order (edges sorted by
// their Vim notation). Walk stops early if fn returns false.
func (t *Trie) Walk(fn func(seq key.Sequence, tmpl Template, policy Policy) bool) {
	if t == nil || len(t.nodes) == 0 {
		return
	}
	t.walk(0, nil, fn)
}

func (t *Trie) walk(cur int32, prefix key.Sequence, fn func(key.Sequence, Template, Policy) bool) bool {
	n := t.nodes[cur]
	if n.terminal != noTemplate {
		if !fn(prefix.Clone(), t.templates[n.terminal], n.policy) {
			return false
		}
	}
	toks := slices.Collect(maps.Keys(n.edges))
	slices.SortFunc(toks, func(a, b key.Token) int {
		return cmp.Compare(a.VimString(), b.VimString())
	})
	for _, tok := range toks {
		if !t.walk(n.edges[tok], append(prefix, tok), fn) {
			return false
		}
	}
	return true
}
