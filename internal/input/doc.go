// Package input turns terminal input events into editor actions.
//
// A Translator consumes events one at a time, in the order the capture
// task produced them. Key presses are collected into a pending sequence
// and matched against the compiled keymap of the current mode:
//
//	3"ayy   count 3, register a, then the doubled operator yy
//	2d3w    operator d with counts 2 and 3, resolved with count 6
//	d0      operator d with the line-start motion
//
// A sequence that is complete resolves to an Action immediately. A
// sequence that is only a prefix stays pending until more keys arrive or
// its deadline passes; the Driver calls Translator.Flush on a regular
// tick, and a timed-out sequence resolves to its own entry when it has
// one, or to its keys replayed as literal input otherwise.
//
// Paste, focus, and composition events resolve to fixed actions. Mouse,
// resize and raw byte events are ignored. Nothing the user typed or
// pasted is ever logged; diagnostics carry lengths, counts and kinds.
//
// # Usage
//
//	tr := input.NewTranslator(input.TranslatorConfig{Logger: logger})
//	driver := input.NewDriver(tr, dispatcher, nil, logger)
//
//	for ev := range events {
//	    if res := tr.Step(ev); res.Action != nil {
//	        dispatcher.Dispatch(*res.Action)
//	    }
//	    driver.Tick(time.Now())
//	}
package input
