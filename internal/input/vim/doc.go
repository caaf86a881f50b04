// Package vim holds the Vim command grammar tables used to build the
// default key sequence tables, plus the count and register rules the
// translator applies while a sequence is pending.
//
// The grammar for normal mode commands is:
//
//	[count]["x][operator][count][motion|text-object]
//	[count]["x][operator][operator]  (line-wise: dd, yy, cc)
//	[count][motion]
//	[count]["x][simple-command]
//
// Counts accumulate in decimal, a leading '0' is the line-start motion
// rather than a count digit, and counts saturate at MaxCount. A count
// typed after the operator multiplies the one typed before it, so "2d3w"
// deletes six words.
//
// Register names follow Vim: a-z and A-Z (append), 0-9, the unnamed
// register ", and the special registers - _ . % # : / = + *.
package vim
