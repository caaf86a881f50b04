package keymap

import (
	"github.com/dshills/keyflow/internal/input/mode"
	"github.com/dshills/keyflow/internal/input/vim"
)

// Actions emitted by the default tables that other packages refer to.
const (
	ActionModeExit          = "mode.exit"
	ActionCommandLineEnter  = "commandline.enter"
	ActionCommandLineCancel = "commandline.cancel"
	ActionCommandLineRun    = "commandline.execute"
	ActionInsertNewline     = "insert.newline"
	ActionInsertBackspace   = "insert.backspace"
)

// DefaultKeymaps returns the built-in tables for every standard mode.
func DefaultKeymaps() []*Keymap {
	return []*Keymap{
		DefaultNormalKeymap(),
		DefaultInsertKeymap(),
		DefaultVisualKeymap(),
		DefaultCommandKeymap(),
	}
}

// Defaults compiles the built-in tables.
func Defaults() *Set {
	set, err := Compile(DefaultKeymaps(), nil)
	if err != nil {
		panic("keymap: invalid default tables: " + err.Error())
	}
	return set
}

// motionBindings lists the motion table as bindings of the given kind.
func motionBindings(kind Kind, category string) []Binding {
	out := make([]Binding, 0, len(vim.Motions))
	for _, m := range vim.Motions {
		out = append(out, Binding{
			Keys:     m.Keys,
			Action:   m.Action,
			Kind:     kind,
			CharArg:  m.CharArg,
			Category: category,
		})
	}
	return out
}

// textObjectBindings lists the text object table as "i x" / "a x" bindings.
func textObjectBindings(kind Kind) []Binding {
	var out []Binding
	for _, obj := range vim.TextObjects {
		for _, k := range obj.Expand() {
			out = append(out, Binding{
				Keys:     string(k.Prefix) + " " + keySpec(k.Key),
				Action:   k.Action,
				Kind:     kind,
				Category: "Text Objects",
			})
		}
	}
	return out
}

// keySpec returns the spec for a single rune that needs escaping in
// a space-separated key string.
func keySpec(r rune) string {
	if r == '<' {
		return "<lt>"
	}
	return string(r)
}

// DefaultNormalKeymap returns default normal mode bindings.
func DefaultNormalKeymap() *Keymap {
	km := &Keymap{
		Name:   "default-normal",
		Mode:   mode.ModeNormal,
		Source: "default",
	}

	for _, op := range vim.Operators {
		b := Binding{
			Keys:     op.Keys,
			Action:   op.Action,
			Kind:     KindOperator,
			Linewise: op.LinewiseAction,
			Category: "Operators",
		}
		if op.EntersInsert {
			b.NextMode = mode.ModeInsert
		}
		km.AddBinding(b)
	}
	km.Bindings = append(km.Bindings, motionBindings(KindMotion, "Movement")...)
	km.Bindings = append(km.Bindings, textObjectBindings(KindTextObject)...)

	km.Bindings = append(km.Bindings, []Binding{
		// Scrolling
		{Keys: "<C-d>", Action: "view.halfPageDown", NoCount: true, Description: "Scroll half page down", Category: "Scrolling"},
		{Keys: "<C-u>", Action: "view.halfPageUp", NoCount: true, Description: "Scroll half page up", Category: "Scrolling"},
		{Keys: "<C-f>", Action: "view.pageDown", Description: "Scroll page down", Category: "Scrolling"},
		{Keys: "<C-b>", Action: "view.pageUp", Description: "Scroll page up", Category: "Scrolling"},
		{Keys: "z z", Action: "view.centerCursor", Description: "Center cursor on screen", Category: "Scrolling"},
		{Keys: "z t", Action: "view.topCursor", Description: "Cursor to top of screen", Category: "Scrolling"},
		{Keys: "z b", Action: "view.bottomCursor", Description: "Cursor to bottom of screen", Category: "Scrolling"},

		// Mode switching
		{Keys: "i", Action: "mode.insert", NextMode: mode.ModeInsert, Category: "Mode"},
		{Keys: "I", Action: "mode.insertLineStart", NextMode: mode.ModeInsert, Category: "Mode"},
		{Keys: "a", Action: "mode.append", NextMode: mode.ModeInsert, Category: "Mode"},
		{Keys: "A", Action: "mode.appendLineEnd", NextMode: mode.ModeInsert, Category: "Mode"},
		{Keys: "o", Action: "mode.openBelow", NextMode: mode.ModeInsert, Category: "Mode"},
		{Keys: "O", Action: "mode.openAbove", NextMode: mode.ModeInsert, Category: "Mode"},
		{Keys: "v", Action: "mode.visual", NextMode: mode.ModeVisual, Category: "Mode"},
		{Keys: "V", Action: "mode.visualLine", NextMode: mode.ModeVisual, Category: "Mode"},
		{Keys: "g v", Action: "selection.reselect", NextMode: mode.ModeVisual, Category: "Mode"},
		{Keys: ":", Action: ActionCommandLineEnter, NextMode: mode.ModeCommand, Description: "Enter command line", Category: "Mode"},
		{Keys: "/", Action: "search.forward", NextMode: mode.ModeCommand, Description: "Search forward", Category: "Search"},
		{Keys: "?", Action: "search.backward", NextMode: mode.ModeCommand, Description: "Search backward", Category: "Search"},

		// Quick edits
		{Keys: "x", Action: "editor.deleteChar", Description: "Delete character", Category: "Editing"},
		{Keys: "X", Action: "editor.deleteCharBefore", Description: "Delete character before", Category: "Editing"},
		{Keys: "r", Action: "editor.replaceChar", CharArg: true, Description: "Replace character", Category: "Editing"},
		{Keys: "s", Action: "editor.substituteChar", NextMode: mode.ModeInsert, Category: "Editing"},
		{Keys: "S", Action: "editor.substituteLine", NextMode: mode.ModeInsert, Category: "Editing"},
		{Keys: "C", Action: "editor.changeToEnd", NextMode: mode.ModeInsert, Category: "Editing"},
		{Keys: "D", Action: "editor.deleteToEnd", Description: "Delete to end of line", Category: "Editing"},
		{Keys: "Y", Action: "editor.yankLine", Description: "Yank line", Category: "Editing"},
		{Keys: "J", Action: "editor.joinLines", Description: "Join lines", Category: "Editing"},
		{Keys: "g J", Action: "editor.joinLinesNoSpace", Description: "Join lines without space", Category: "Editing"},
		{Keys: "~", Action: "editor.toggleCaseChar", Description: "Toggle case of character", Category: "Editing"},

		// Paste
		{Keys: "p", Action: "editor.pasteAfter", Description: "Paste after", Category: "Editing"},
		{Keys: "P", Action: "editor.pasteBefore", Description: "Paste before", Category: "Editing"},
		{Keys: "g p", Action: "editor.pasteAfterCursor", Description: "Paste after, cursor after", Category: "Editing"},
		{Keys: "g P", Action: "editor.pasteBeforeCursor", Description: "Paste before, cursor after", Category: "Editing"},

		// Undo/Redo
		{Keys: "u", Action: "editor.undo", Description: "Undo", Category: "History"},
		{Keys: "<C-r>", Action: "editor.redo", Description: "Redo", Category: "History"},
		{Keys: ".", Action: "editor.repeatLast", Description: "Repeat last change", Category: "History"},

		// Search
		{Keys: "*", Action: "search.wordUnderCursor", Description: "Search word under cursor", Category: "Search"},
		{Keys: "#", Action: "search.wordUnderCursorBackward", Description: "Search word backward", Category: "Search"},

		// Marks and macros
		{Keys: "m", Action: "mark.set", CharArg: true, Description: "Set mark", Category: "Marks"},
		{Keys: "'", Action: "mark.gotoLine", CharArg: true, Description: "Go to mark line", Category: "Marks"},
		{Keys: "`", Action: "mark.gotoExact", CharArg: true, Description: "Go to mark exact", Category: "Marks"},
		{Keys: "q", Action: "macro.toggleRecord", CharArg: true, Description: "Toggle macro recording", Category: "Macros"},
		{Keys: "@", Action: "macro.play", CharArg: true, Description: "Play macro", Category: "Macros"},

		// Windows
		{Keys: "<C-w>h", Action: "window.focusLeft", Category: "Window"},
		{Keys: "<C-w>j", Action: "window.focusDown", Category: "Window"},
		{Keys: "<C-w>k", Action: "window.focusUp", Category: "Window"},
		{Keys: "<C-w>l", Action: "window.focusRight", Category: "Window"},
		{Keys: "<C-w>v", Action: "window.splitVertical", Category: "Window"},
		{Keys: "<C-w>s", Action: "window.splitHorizontal", Category: "Window"},
		{Keys: "<C-w>q", Action: "window.close", Category: "Window"},
		{Keys: "<C-w>w", Action: "window.focusNext", Category: "Window"},

		// Navigation
		{Keys: "g d", Action: "goto.definition", Description: "Go to definition", Category: "Navigation"},
		{Keys: "K", Action: "hover.show", Description: "Show hover info", Category: "Navigation"},
		{Keys: "Z Z", Action: "file.saveQuit", Description: "Save and quit", Category: "File"},
		{Keys: "Z Q", Action: "file.quit", Description: "Quit without saving", Category: "File"},
	}...)
	return km
}

// DefaultInsertKeymap returns default insert mode bindings.
// Unmapped printable keys are typed as text by the insert mode itself.
func DefaultInsertKeymap() *Keymap {
	return &Keymap{
		Name:   "default-insert",
		Mode:   mode.ModeInsert,
		Source: "default",
		Bindings: []Binding{
			{Keys: "<Esc>", Action: ActionModeExit, NextMode: mode.ModeNormal, Description: "Return to normal mode", Category: "Mode"},
			{Keys: "<C-c>", Action: ActionModeExit, NextMode: mode.ModeNormal, Description: "Return to normal mode", Category: "Mode"},

			{Keys: "<CR>", Action: ActionInsertNewline, Description: "Insert line break", Category: "Editing"},
			{Keys: "<BS>", Action: ActionInsertBackspace, Description: "Delete char before cursor", Category: "Editing"},
			{Keys: "<Del>", Action: "insert.delete", Description: "Delete char under cursor", Category: "Editing"},
			{Keys: "<C-w>", Action: "editor.deleteWordBefore", Description: "Delete word before cursor", Category: "Editing"},
			{Keys: "<C-u>", Action: "editor.deleteToLineStart", Description: "Delete to line start", Category: "Editing"},
			{Keys: "<C-t>", Action: "editor.indentLine", Description: "Indent line", Category: "Editing"},
			{Keys: "<C-d>", Action: "editor.outdentLine", Description: "Outdent line", Category: "Editing"},

			{Keys: "<C-n>", Action: "completion.next", Description: "Next completion", Category: "Completion"},
			{Keys: "<C-p>", Action: "completion.previous", Description: "Previous completion", Category: "Completion"},
			{Keys: "<C-x><C-o>", Action: "completion.omni", Description: "Omni completion", Category: "Completion"},
			{Keys: "<C-x><C-f>", Action: "completion.file", Description: "File completion", Category: "Completion"},
			{Keys: "<C-x><C-l>", Action: "completion.line", Description: "Line completion", Category: "Completion"},

			{Keys: "<C-r>", Action: "insert.register", CharArg: true, Description: "Insert from register", Category: "Insert"},
			{Keys: "<C-a>", Action: "insert.lastInserted", Description: "Insert last inserted text", Category: "Insert"},

			{Keys: "<Left>", Action: "cursor.moveLeft", Category: "Navigation"},
			{Keys: "<Right>", Action: "cursor.moveRight", Category: "Navigation"},
			{Keys: "<Up>", Action: "cursor.moveUp", Category: "Navigation"},
			{Keys: "<Down>", Action: "cursor.moveDown", Category: "Navigation"},
			{Keys: "<Home>", Action: "cursor.moveLineStart", Category: "Navigation"},
			{Keys: "<End>", Action: "cursor.moveLineEnd", Category: "Navigation"},
		},
	}
}

// DefaultVisualKeymap returns default visual mode bindings.
func DefaultVisualKeymap() *Keymap {
	km := &Keymap{
		Name:   "default-visual",
		Mode:   mode.ModeVisual,
		Source: "default",
		Bindings: []Binding{
			{Keys: "<Esc>", Action: ActionModeExit, NextMode: mode.ModeNormal, Description: "Return to normal mode", Category: "Mode"},
			{Keys: "<C-c>", Action: ActionModeExit, NextMode: mode.ModeNormal, Description: "Return to normal mode", Category: "Mode"},
			{Keys: "v", Action: ActionModeExit, NextMode: mode.ModeNormal, Description: "Leave visual mode", Category: "Mode"},
			{Keys: "V", Action: "mode.visualLine", Description: "Switch to visual line", Category: "Mode"},
			{Keys: ":", Action: ActionCommandLineEnter, NextMode: mode.ModeCommand, Description: "Command line on selection", Category: "Mode"},

			{Keys: "o", Action: "selection.swapAnchor", Description: "Swap selection anchor", Category: "Selection"},

			{Keys: "d", Action: "editor.deleteSelection", NextMode: mode.ModeNormal, Category: "Editing"},
			{Keys: "x", Action: "editor.deleteSelection", NextMode: mode.ModeNormal, Category: "Editing"},
			{Keys: "c", Action: "editor.changeSelection", NextMode: mode.ModeInsert, Category: "Editing"},
			{Keys: "s", Action: "editor.changeSelection", NextMode: mode.ModeInsert, Category: "Editing"},
			{Keys: "y", Action: "editor.yankSelection", NextMode: mode.ModeNormal, Category: "Editing"},
			{Keys: ">", Action: "editor.indentSelection", NextMode: mode.ModeNormal, Category: "Editing"},
			{Keys: "<lt>", Action: "editor.outdentSelection", NextMode: mode.ModeNormal, Category: "Editing"},
			{Keys: "=", Action: "editor.formatSelection", NextMode: mode.ModeNormal, Category: "Editing"},
			{Keys: "u", Action: "editor.lowercaseSelection", NextMode: mode.ModeNormal, Category: "Editing"},
			{Keys: "U", Action: "editor.uppercaseSelection", NextMode: mode.ModeNormal, Category: "Editing"},
			{Keys: "~", Action: "editor.toggleCaseSelection", NextMode: mode.ModeNormal, Category: "Editing"},
			{Keys: "J", Action: "editor.joinSelection", NextMode: mode.ModeNormal, Category: "Editing"},
			{Keys: "r", Action: "editor.replaceSelection", CharArg: true, NextMode: mode.ModeNormal, Category: "Editing"},

			{Keys: "I", Action: "mode.insertAtSelectionStart", NextMode: mode.ModeInsert, Category: "Mode"},
			{Keys: "A", Action: "mode.insertAtSelectionEnd", NextMode: mode.ModeInsert, Category: "Mode"},
		},
	}
	km.Bindings = append(km.Bindings, motionBindings(KindMotion, "Movement")...)
	km.Bindings = append(km.Bindings, textObjectBindings(KindCommand)...)
	return km
}

// DefaultCommandKeymap returns default command-line mode bindings.
// Unmapped printable keys are forwarded by the command mode itself.
func DefaultCommandKeymap() *Keymap {
	return &Keymap{
		Name:   "default-command",
		Mode:   mode.ModeCommand,
		Source: "default",
		Bindings: []Binding{
			{Keys: "<Esc>", Action: ActionCommandLineCancel, NextMode: mode.ModeNormal, Description: "Cancel and return to normal", Category: "Mode"},
			{Keys: "<C-c>", Action: ActionCommandLineCancel, NextMode: mode.ModeNormal, Description: "Cancel and return to normal", Category: "Mode"},
			{Keys: "<CR>", Action: ActionCommandLineRun, NextMode: mode.ModeNormal, Description: "Execute command", Category: "Command"},

			{Keys: "<BS>", Action: "commandline.backspace", Description: "Delete char before cursor", Category: "Editing"},
			{Keys: "<C-w>", Action: "commandline.deleteWord", Description: "Delete word before cursor", Category: "Editing"},
			{Keys: "<C-u>", Action: "commandline.clear", Description: "Clear command line", Category: "Editing"},

			{Keys: "<Left>", Action: "commandline.left", Category: "Navigation"},
			{Keys: "<Right>", Action: "commandline.right", Category: "Navigation"},
			{Keys: "<Home>", Action: "commandline.home", Category: "Navigation"},
			{Keys: "<End>", Action: "commandline.end", Category: "Navigation"},
			{Keys: "<Up>", Action: "commandline.historyPrev", Category: "History"},
			{Keys: "<Down>", Action: "commandline.historyNext", Category: "History"},

			{Keys: "<Tab>", Action: "commandline.complete", Category: "Completion"},
			{Keys: "<S-Tab>", Action: "commandline.completePrev", Category: "Completion"},
			{Keys: "<C-r>", Action: "commandline.insertRegister", CharArg: true, Category: "Insert"},
		},
	}
}
