package vim

// Operator represents a Vim operator command.
// Operators act on a range of text defined by a following motion or
// text object, or on whole lines when the operator key is doubled.
type Operator struct {
	// Name is the operator identifier (e.g., "delete", "change", "yank").
	Name string

	// Keys is the key sequence that triggers this operator (e.g., "d", "g u").
	Keys string

	// Action is the action name to dispatch (e.g., "operator.delete").
	Action string

	// LinewiseAction is the action for the doubled form (e.g., "dd").
	LinewiseAction string

	// EntersInsert indicates if this operator enters insert mode after.
	EntersInsert bool
}

// Operators is the standard operator table.
var Operators = []Operator{
	{Name: "delete", Keys: "d", Action: "operator.delete", LinewiseAction: "editor.deleteLine"},
	{Name: "change", Keys: "c", Action: "operator.change", LinewiseAction: "editor.changeLine", EntersInsert: true},
	{Name: "yank", Keys: "y", Action: "operator.yank", LinewiseAction: "editor.yankLine"},
	{Name: "indent", Keys: ">", Action: "operator.indent", LinewiseAction: "editor.indentLine"},
	{Name: "outdent", Keys: "<lt>", Action: "operator.outdent", LinewiseAction: "editor.outdentLine"},
	{Name: "format", Keys: "=", Action: "operator.format", LinewiseAction: "editor.formatLine"},
	{Name: "lowercase", Keys: "g u", Action: "operator.lowercase", LinewiseAction: "editor.lowercaseLine"},
	{Name: "uppercase", Keys: "g U", Action: "operator.uppercase", LinewiseAction: "editor.uppercaseLine"},
	{Name: "toggleCase", Keys: "g ~", Action: "operator.toggleCase", LinewiseAction: "editor.toggleCaseLine"},
	{Name: "formatText", Keys: "g q", Action: "operator.formatText", LinewiseAction: "editor.formatTextLine"},
}

// GetOperator returns the operator with the given name, or nil.
func GetOperator(name string) *Operator {
	for i := range Operators {
		if Operators[i].Name == name {
			return &Operators[i]
		}
	}
	return nil
}

// IsOperatorAction returns true if action is dispatched by an operator.
func IsOperatorAction(action string) bool {
	for i := range Operators {
		if Operators[i].Action == action {
			return true
		}
	}
	return false
}
