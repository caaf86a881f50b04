// Package mode provides the editor modes the translator switches between.
//
// Four modes are standard:
//   - Normal mode: keys are commands; counts and registers prefix them
//   - Insert mode: unmapped printable keys are typed as text
//   - Visual mode: keys are commands acting on a selection
//   - Command mode: unmapped printable keys go to the command line
//
// A Mode does not resolve key sequences itself. The translator resolves
// sequences through the mode's keymap table and asks the Mode only about
// keys the table does not map (HandleUnmapped) and whether count and
// register prefixes apply (AcceptsPrefix).
//
// When switching modes the current mode's Exit() is called, then the new
// mode's Enter().
package mode
