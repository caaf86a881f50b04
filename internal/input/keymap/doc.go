// Package keymap builds the key sequence tables the translator resolves
// keys against.
//
// # Keymaps and Bindings
//
// A Keymap is an ordered list of Bindings for one mode. A Binding maps a
// key sequence ("g g", "<C-w>v", "d") to an action name and says how it
// composes: commands and motions resolve on their own, operators wait
// for a motion or text object (or their own last key for the line-wise
// form), and text objects only resolve after an operator.
//
// # Tries
//
// Compile turns keymaps into a Set holding one Trie per mode. A Trie is
// a flat arena of nodes; children are addressed by index. Lookup of a
// token sequence answers NoMatch, Partial (strict prefix of a longer
// entry), or Terminal. A Terminal result that also has children is
// ambiguous, and the entry's Policy decides whether the translator waits
// for more keys (PolicyWait) or resolves at once (PolicyEager).
//
// Operator nodes are marked countable, so "2d3w" can carry a second
// count between the operator and its motion.
//
// # Files
//
// User keymaps are read from TOML, YAML or JSON:
//
//	[[keymap]]
//	mode = "normal"
//
//	  [[keymap.bindings]]
//	  keys = "g h"
//	  action = "cursor.moveLineStart"
//	  kind = "motion"
//
//	  [[keymap.bindings]]
//	  keys = "g"
//	  action = "goto.prefix"
//	  policy = "eager"
//
// User bindings are compiled after the defaults, so they replace
// default bindings for the same keys.
package keymap
