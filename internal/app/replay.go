package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/keyflow/internal/input"
	"github.com/dshills/keyflow/internal/input/event"
	"github.com/dshills/keyflow/internal/input/key"
)

// errBadAdvance is wrapped by ReplayError for a malformed @+N token.
var errBadAdvance = errors.New("clock advance must be @+N with N >= 0 milliseconds")

// ReplayResult summarizes a replayed script.
type ReplayResult struct {
	Keys    int                   // key presses fed
	Flushes int                   // timeouts that fired
	End     time.Time             // clock at the end of the script
	Pending input.PendingSequence // state left when the script ended
	Actions []input.Action        // every resolved action, in order
}

// Replay feeds a key script through tr, starting the clock at start, and
// hands every resolved action to d (which may be nil).
//
// A script is whitespace-separated tokens. Lines starting with # are
// comments. A token is either a key run in keymap notation ("dd",
// "<C-w>v", "<Esc>") or @+N, which advances the clock N milliseconds and
// flushes a sequence whose deadline has passed.
func Replay(r io.Reader, tr *input.Translator, d input.Dispatcher, start time.Time) (ReplayResult, error) {
	res := ReplayResult{End: start}
	collect := input.DispatcherFunc(func(a input.Action) {
		res.Actions = append(res.Actions, a.Clone())
		if d != nil {
			d.Dispatch(a)
		}
	})
	driver := input.NewDriver(tr, collect, func() time.Time { return res.End }, nil)

	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(text, "#") {
			continue
		}
		for _, tok := range strings.Fields(text) {
			if rest, ok := strings.CutPrefix(tok, "@+"); ok {
				ms, err := strconv.Atoi(rest)
				if err != nil || ms < 0 {
					return res, &ReplayError{Line: line, Token: tok, Err: errBadAdvance}
				}
				res.End = res.End.Add(time.Duration(ms) * time.Millisecond)
				if _, flushed := driver.Tick(res.End); flushed {
					res.Flushes++
				}
				continue
			}

			seq, err := key.ParseSequence(tok)
			if err != nil {
				return res, &ReplayError{Line: line, Token: tok, Err: err}
			}
			for _, t := range seq {
				res.Keys++
				step := tr.Step(event.KeyPress{Token: t, Timestamp: res.End})
				if step.Action != nil {
					collect.Dispatch(*step.Action)
				}
			}
		}
	}
	if err := sc.Err(); err != nil {
		return res, fmt.Errorf("reading replay script: %w", err)
	}

	res.Pending = tr.Pending()
	return res, nil
}

// FormatAction renders an action for replay output: its name, count,
// register and motion. Inserted text is never printed, only its length.
func FormatAction(a input.Action) string {
	var sb strings.Builder
	sb.WriteString(a.Name)
	if a.Count > 0 {
		fmt.Fprintf(&sb, " count=%d", a.Count)
	}
	if a.Args.Register != 0 {
		fmt.Fprintf(&sb, " register=%q", a.Args.Register)
	}
	if a.Args.Motion != "" {
		fmt.Fprintf(&sb, " motion=%s", a.Args.Motion)
	}
	if a.Args.TextObject != "" {
		fmt.Fprintf(&sb, " object=%s", a.Args.TextObject)
	}
	if a.Args.Linewise {
		sb.WriteString(" linewise")
	}
	if a.Args.Text != "" {
		fmt.Fprintf(&sb, " text_len=%d", len(a.Args.Text))
	}
	if len(a.Args.Keys) > 0 {
		fmt.Fprintf(&sb, " keys=%d", len(a.Args.Keys))
	}
	if a.Source != input.SourceKeyboard {
		fmt.Fprintf(&sb, " source=%s", a.Source)
	}
	return sb.String()
}
