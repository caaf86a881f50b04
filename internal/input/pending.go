package input

import (
	"time"

	"github.com/dshills/keyflow/internal/input/key"
)

// PendingSequence is the translator state collected since the last
// resolution. The translator hands out copies; mutating one has no
// effect on the translator.
type PendingSequence struct {
	// Tokens are the keys fed to the trie so far.
	Tokens key.Sequence

	// Raw is every key of the run in arrival order, including count
	// digits and the register prefix. A literal fallback replays Raw.
	Raw key.Sequence

	// Count is the count typed before the command, or 0.
	Count int

	// PostCount is the count typed after an operator, or 0.
	PostCount int

	// Register is the selected register, or 0.
	Register rune

	// AwaitingRegister is set after the register prefix key.
	AwaitingRegister bool

	// AwaitingChar is set when a resolved entry needs one more key as
	// its argument (f, t, r).
	AwaitingChar bool

	// Deadline is when the run times out. Zero when no trie token has
	// been seen, when timeouts are disabled, or while awaiting a
	// character argument.
	Deadline time.Time
}

// IsEmpty reports whether nothing is pending.
func (p PendingSequence) IsEmpty() bool {
	return len(p.Raw) == 0
}

// HasDeadline reports whether the run can time out.
func (p PendingSequence) HasDeadline() bool {
	return !p.Deadline.IsZero()
}

// Expired reports whether the deadline has been reached at now.
func (p PendingSequence) Expired(now time.Time) bool {
	return p.HasDeadline() && !now.Before(p.Deadline)
}

// String returns the pending keys in Vim notation for a status line,
// e.g. `3"ad`.
func (p PendingSequence) String() string {
	return p.Raw.VimString()
}

// Clone returns a deep copy of the pending state.
func (p PendingSequence) Clone() PendingSequence {
	p.Tokens = p.Tokens.Clone()
	p.Raw = p.Raw.Clone()
	return p
}

// Outcome classifies what a translator step did.
type Outcome uint8

const (
	// OutcomeIgnored means the event had no effect on translation.
	OutcomeIgnored Outcome = iota
	// OutcomeResolved means an action was produced.
	OutcomeResolved
	// OutcomePending means the event was absorbed into the pending state.
	OutcomePending
	// OutcomeUnmapped means the sequence matched nothing and was discarded.
	OutcomeUnmapped
	// OutcomeCancelled means the pending state was discarded on request.
	OutcomeCancelled
	// OutcomeFlushed means a timed-out sequence produced an action.
	OutcomeFlushed
	// OutcomeLegacy means a deprecated event variant was received.
	OutcomeLegacy
	// OutcomeInvalidRegister means the register name was rejected.
	OutcomeInvalidRegister
)

var outcomeNames = [...]string{
	OutcomeIgnored:         "ignored",
	OutcomeResolved:        "resolved",
	OutcomePending:         "pending",
	OutcomeUnmapped:        "unmapped",
	OutcomeCancelled:       "cancelled",
	OutcomeFlushed:         "flushed",
	OutcomeLegacy:          "legacy",
	OutcomeInvalidRegister: "invalid_register",
}

// String returns the outcome name used in logs.
func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

// Resolution is the result of one translator step.
//
// At most one of Action and Pending is set: an action is only produced
// once the pending state has been cleared.
type Resolution struct {
	// Action is the resolved action, if any.
	Action *Action

	// Pending reports a sequence still waiting for input.
	Pending bool

	// Deadline is the live deadline of the pending sequence, if any.
	Deadline time.Time

	// Outcome classifies the step for diagnostics.
	Outcome Outcome
}

// HasDeadline reports whether the pending sequence can time out.
func (r Resolution) HasDeadline() bool {
	return !r.Deadline.IsZero()
}
