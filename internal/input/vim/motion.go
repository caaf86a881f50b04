package vim

// MotionType categorizes motions by their behavior.
type MotionType uint8

const (
	// MotionCharwise moves character by character.
	MotionCharwise MotionType = iota

	// MotionLinewise operates on whole lines.
	MotionLinewise
)

// String returns the motion type name.
func (t MotionType) String() string {
	if t == MotionLinewise {
		return "linewise"
	}
	return "charwise"
}

// Motion represents a Vim motion command.
// Motions move the cursor on their own and define the range an
// operator acts on when they follow one.
type Motion struct {
	// Name is the motion identifier (e.g., "wordForward", "lineStart").
	Name string

	// Keys is the key sequence that triggers this motion.
	Keys string

	// Action is the action name to dispatch (e.g., "cursor.wordForward").
	Action string

	// Type indicates the motion type.
	Type MotionType

	// Inclusive indicates if the motion includes the character under cursor.
	// e.g., 'e' is inclusive, 'w' is exclusive.
	Inclusive bool

	// CharArg marks motions that read one more key as their target (f, t).
	CharArg bool
}

// Motions is the standard motion table.
var Motions = []Motion{
	{Name: "left", Keys: "h", Action: "cursor.moveLeft"},
	{Name: "right", Keys: "l", Action: "cursor.moveRight"},
	{Name: "up", Keys: "k", Action: "cursor.moveUp", Type: MotionLinewise},
	{Name: "down", Keys: "j", Action: "cursor.moveDown", Type: MotionLinewise},
	{Name: "leftArrow", Keys: "<Left>", Action: "cursor.moveLeft"},
	{Name: "rightArrow", Keys: "<Right>", Action: "cursor.moveRight"},
	{Name: "upArrow", Keys: "<Up>", Action: "cursor.moveUp", Type: MotionLinewise},
	{Name: "downArrow", Keys: "<Down>", Action: "cursor.moveDown", Type: MotionLinewise},

	{Name: "wordForward", Keys: "w", Action: "cursor.wordForward"},
	{Name: "wordBackward", Keys: "b", Action: "cursor.wordBackward"},
	{Name: "wordEnd", Keys: "e", Action: "cursor.wordEndForward", Inclusive: true},
	{Name: "wordEndBackward", Keys: "g e", Action: "cursor.wordEndBackward", Inclusive: true},
	{Name: "bigWordForward", Keys: "W", Action: "cursor.bigWordForward"},
	{Name: "bigWordBackward", Keys: "B", Action: "cursor.bigWordBackward"},
	{Name: "bigWordEnd", Keys: "E", Action: "cursor.bigWordEndForward", Inclusive: true},

	{Name: "lineStart", Keys: "0", Action: "cursor.moveLineStart"},
	{Name: "firstNonBlank", Keys: "^", Action: "cursor.firstNonBlank"},
	{Name: "lineEnd", Keys: "$", Action: "cursor.moveLineEnd", Inclusive: true},
	{Name: "gotoColumn", Keys: "|", Action: "cursor.gotoColumn"},

	{Name: "documentStart", Keys: "g g", Action: "cursor.moveFirstLine", Type: MotionLinewise},
	{Name: "documentEnd", Keys: "G", Action: "cursor.moveLastLine", Type: MotionLinewise},
	{Name: "screenTop", Keys: "H", Action: "cursor.screenTop", Type: MotionLinewise},
	{Name: "screenMiddle", Keys: "M", Action: "cursor.screenMiddle", Type: MotionLinewise},
	{Name: "screenBottom", Keys: "L", Action: "cursor.screenBottom", Type: MotionLinewise},

	{Name: "findChar", Keys: "f", Action: "cursor.findForward", Inclusive: true, CharArg: true},
	{Name: "findCharBack", Keys: "F", Action: "cursor.findBackward", CharArg: true},
	{Name: "tillChar", Keys: "t", Action: "cursor.tillForward", Inclusive: true, CharArg: true},
	{Name: "tillCharBack", Keys: "T", Action: "cursor.tillBackward", CharArg: true},
	{Name: "repeatFind", Keys: ";", Action: "cursor.repeatFind", Inclusive: true},
	{Name: "repeatFindReverse", Keys: ",", Action: "cursor.repeatFindReverse"},

	{Name: "paragraphForward", Keys: "}", Action: "cursor.paragraphForward"},
	{Name: "paragraphBackward", Keys: "{", Action: "cursor.paragraphBackward"},
	{Name: "sentenceForward", Keys: ")", Action: "cursor.sentenceForward"},
	{Name: "sentenceBackward", Keys: "(", Action: "cursor.sentenceBackward"},
	{Name: "matchPair", Keys: "%", Action: "cursor.matchingBracket", Inclusive: true},

	{Name: "searchNext", Keys: "n", Action: "search.next"},
	{Name: "searchPrevious", Keys: "N", Action: "search.previous"},
}

// GetMotion returns the motion with the given name, or nil.
func GetMotion(name string) *Motion {
	for i := range Motions {
		if Motions[i].Name == name {
			return &Motions[i]
		}
	}
	return nil
}
