package keymap

import (
	"log/slog"
	"slices"

	"github.com/dshills/keyflow/internal/input/key"
)

// Set holds one compiled trie per mode. A Set is immutable and can be
// shared between goroutines; reloading keymaps produces a new Set.
type Set struct {
	tries     map[string]*Trie
	overrides int
}

// Trie returns the trie for mode m, or nil if no keymap targets m.
// A nil trie matches nothing.
func (s *Set) Trie(m string) *Trie {
	if s == nil {
		return nil
	}
	return s.tries[m]
}

// Modes returns the modes that have a table, sorted.
func (s *Set) Modes() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.tries))
	for m := range s.tries {
		out = append(out, m)
	}
	slices.Sort(out)
	return out
}

// Overrides returns how many bindings replaced an earlier binding for
// the same keys while compiling.
func (s *Set) Overrides() int {
	if s == nil {
		return 0
	}
	return s.overrides
}

// Compile validates keymaps and builds one trie per mode.
//
// Keymaps for the same mode are merged in order. Operators are expanded
// first: each operator followed by each motion and text object of its
// mode, and the doubled operator when it has a line-wise action. Command
// and motion bindings are added afterward, so an explicit binding always
// wins over a generated one, and a later binding wins over an earlier one.
func Compile(keymaps []*Keymap, logger *slog.Logger) (*Set, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	byMode := make(map[string][]*Keymap)
	var order []string
	for _, km := range keymaps {
		if err := km.Validate(); err != nil {
			return nil, err
		}
		if _, ok := byMode[km.Mode]; !ok {
			order = append(order, km.Mode)
		}
		byMode[km.Mode] = append(byMode[km.Mode], km)
	}

	set := &Set{tries: make(map[string]*Trie, len(order))}
	for _, m := range order {
		b := compileMode(byMode[m])
		set.overrides += b.Overrides()
		trie := b.Build()
		set.tries[m] = trie
		logger.Debug("keymap.compiled",
			"mode", m,
			"keymaps", len(byMode[m]),
			"entries", trie.Len(),
			"overrides", b.Overrides(),
		)
	}
	return set, nil
}

type parsedBinding struct {
	Binding
	seq key.Sequence
}

func compileMode(keymaps []*Keymap) *Builder {
	var operators, motions, objects, plain []parsedBinding
	for _, km := range keymaps {
		for _, bnd := range km.Bindings {
			// Validate already parsed every sequence once.
			pb := parsedBinding{Binding: bnd, seq: key.MustParseSequence(bnd.Keys)}
			switch bnd.Kind {
			case KindOperator:
				operators = append(operators, pb)
			case KindTextObject:
				objects = append(objects, pb)
			case KindMotion:
				motions = append(motions, pb)
				plain = append(plain, pb)
			default:
				plain = append(plain, pb)
			}
		}
	}

	b := NewBuilder()
	for _, op := range operators {
		b.MarkCountable(op.seq)
		for _, mo := range motions {
			b.Add(concat(op.seq, mo.seq), Template{
				Action:   op.Action,
				Motion:   mo.Action,
				NextMode: op.NextMode,
				CharArg:  mo.CharArg,
				Args:     op.Args,
			}, PolicyWait)
		}
		for _, obj := range objects {
			b.Add(concat(op.seq, obj.seq), Template{
				Action:     op.Action,
				TextObject: obj.Action,
				NextMode:   op.NextMode,
				Args:       op.Args,
			}, PolicyWait)
		}
		if op.Linewise != "" {
			last := op.seq[len(op.seq)-1]
			b.Add(concat(op.seq, key.Sequence{last}), Template{
				Action:   op.Linewise,
				Linewise: true,
				NextMode: op.NextMode,
				Args:     op.Args,
			}, op.Policy)
		}
	}
	for _, p := range plain {
		b.Add(p.seq, Template{
			Action:   p.Action,
			NextMode: p.NextMode,
			CharArg:  p.CharArg,
			NoCount:  p.NoCount,
			Args:     p.Args,
		}, p.Policy)
	}
	return b
}

func concat(a, b key.Sequence) key.Sequence {
	out := make(key.Sequence, 0, len(a)+len(b))
	return append(append(out, a...), b...)
}
