package mode

import "github.com/dshills/keyflow/internal/input/key"

// CommandCharAction is emitted for every character typed on the command line.
const CommandCharAction = "commandline.char"

// CommandMode implements Vim's command-line mode, entered with ":".
// It only forwards typed characters; the command line itself is kept by
// whatever consumes the actions.
type CommandMode struct{}

// NewCommandMode creates a new command mode instance.
func NewCommandMode() *CommandMode {
	return &CommandMode{}
}

// Name returns the mode identifier.
func (m *CommandMode) Name() string {
	return ModeCommand
}

// AcceptsPrefix returns false.
func (m *CommandMode) AcceptsPrefix() bool {
	return false
}

// Enter is called when entering command mode.
func (m *CommandMode) Enter(*Context) error {
	return nil
}

// Exit is called when leaving command mode.
func (m *CommandMode) Exit(*Context) error {
	return nil
}

// HandleUnmapped forwards printable characters to the command line.
func (m *CommandMode) HandleUnmapped(tok key.Token) *UnmappedResult {
	text, ok := textOf(tok)
	if !ok {
		return nil
	}
	return &UnmappedResult{Action: CommandCharAction, Text: text}
}

// HandleText forwards committed text to the command line.
func (m *CommandMode) HandleText(text string) *UnmappedResult {
	if text == "" {
		return nil
	}
	return &UnmappedResult{Action: CommandCharAction, Text: text}
}
