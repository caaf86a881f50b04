package vim

// TextObject represents a Vim text object.
// Each object is reached by "i" (inner) or "a" (around) followed by
// one of its keys, and only after an operator or in visual mode.
type TextObject struct {
	// Name is the text object identifier.
	Name string

	// Keys are the characters selecting this object after i or a.
	Keys []rune

	// InnerAction is dispatched for the "i" form.
	InnerAction string

	// AroundAction is dispatched for the "a" form.
	AroundAction string
}

// TextObjects is the standard text object table.
var TextObjects = []TextObject{
	{Name: "word", Keys: []rune{'w'}, InnerAction: "textobj.innerWord", AroundAction: "textobj.aWord"},
	{Name: "WORD", Keys: []rune{'W'}, InnerAction: "textobj.innerWORD", AroundAction: "textobj.aWORD"},
	{Name: "sentence", Keys: []rune{'s'}, InnerAction: "textobj.innerSentence", AroundAction: "textobj.aSentence"},
	{Name: "paragraph", Keys: []rune{'p'}, InnerAction: "textobj.innerParagraph", AroundAction: "textobj.aParagraph"},
	{Name: "paren", Keys: []rune{'(', ')', 'b'}, InnerAction: "textobj.innerParen", AroundAction: "textobj.aParen"},
	{Name: "bracket", Keys: []rune{'[', ']'}, InnerAction: "textobj.innerBracket", AroundAction: "textobj.aBracket"},
	{Name: "brace", Keys: []rune{'{', '}', 'B'}, InnerAction: "textobj.innerBrace", AroundAction: "textobj.aBrace"},
	{Name: "angle", Keys: []rune{'<', '>'}, InnerAction: "textobj.innerAngle", AroundAction: "textobj.aAngle"},
	{Name: "tag", Keys: []rune{'t'}, InnerAction: "textobj.innerTag", AroundAction: "textobj.aTag"},
	{Name: "doubleQuote", Keys: []rune{'"'}, InnerAction: "textobj.innerDoubleQuote", AroundAction: "textobj.aDoubleQuote"},
	{Name: "singleQuote", Keys: []rune{'\''}, InnerAction: "textobj.innerSingleQuote", AroundAction: "textobj.aSingleQuote"},
	{Name: "backtick", Keys: []rune{'`'}, InnerAction: "textobj.innerBacktick", AroundAction: "textobj.aBacktick"},
}

// TextObjectKey is one concrete key pair for a text object, e.g. "i(".
type TextObjectKey struct {
	Prefix rune
	Key    rune
	Action string
	Inner  bool
}

// Expand lists every prefix/key combination for the object.
func (o TextObject) Expand() []TextObjectKey {
	out := make([]TextObjectKey, 0, 2*len(o.Keys))
	for _, k := range o.Keys {
		out = append(out,
			TextObjectKey{Prefix: 'i', Key: k, Action: o.InnerAction, Inner: true},
			TextObjectKey{Prefix: 'a', Key: k, Action: o.AroundAction},
		)
	}
	return out
}
