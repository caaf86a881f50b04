// Package key provides the canonical key token model for the input system.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Token: one key press as Char (a Unicode scalar), Named (a logical key
//     such as Escape or F5), or Chord (either of those held with modifiers)
//   - ModMask: modifier flags (Ctrl, Alt, Shift, Meta, Super)
//   - Sequence: an ordered run of tokens forming a command
//
// # Normalization
//
// Normalize turns raw terminal key codes into tokens. Control bytes and their
// Ctrl-letter spellings converge: Ctrl+J, Ctrl+M and a newline byte are all
// Key(NamedEnter). Shift with a printable character is folded into the
// character. Codes that are not recognized become Unknown tokens.
//
// # Key Specifications
//
// Key specifications can be written in multiple formats:
//
//   - Simple keys: "a", "A", "1", "Enter", "Escape"
//   - With modifiers: "Ctrl+S", "Alt+F4", "Ctrl+Shift+P"
//   - Vim-style: "<C-s>", "<A-f>", "<S-Tab>", "<CR>", "<Esc>"
package key
