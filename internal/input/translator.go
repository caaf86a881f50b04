package input

import (
	"context"
	"log/slog"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/dshills/keyflow/internal/input/event"
	"github.com/dshills/keyflow/internal/input/key"
	"github.com/dshills/keyflow/internal/input/keymap"
	"github.com/dshills/keyflow/internal/input/mode"
	"github.com/dshills/keyflow/internal/input/vim"
	"github.com/dshills/keyflow/internal/text"
)

// DefaultSequenceTimeout is how long an incomplete sequence waits for
// more keys before a flush may resolve it.
const DefaultSequenceTimeout = 1000 * time.Millisecond

// TranslatorConfig configures a Translator.
type TranslatorConfig struct {
	// Keymaps are the compiled tables. Nil uses keymap.Defaults().
	Keymaps *keymap.Set

	// Modes is the mode manager. Nil uses a manager with the four
	// standard modes, starting in normal mode.
	Modes *mode.Manager

	// SequenceTimeout bounds how long an incomplete sequence waits.
	// Zero uses DefaultSequenceTimeout.
	SequenceTimeout time.Duration

	// DisableTimeout makes incomplete sequences wait indefinitely for
	// disambiguating keys.
	DisableTimeout bool

	// Metrics receives outcome counters. Nil allocates a private tracker.
	Metrics *Metrics

	// Logger receives content-free diagnostics. Nil discards them.
	Logger *slog.Logger
}

// Translator turns input events into actions.
//
// It owns the pending sequence: keys collected since the last
// resolution, with the count, register and deadline that go with them.
// Time is never read from the system clock; key presses carry their
// timestamp and Flush takes the current time as an argument, so the
// same events and times always produce the same resolutions.
//
// Mode change callbacks registered on the mode manager run while the
// translator is locked and must not call back into it.
type Translator struct {
	mu sync.Mutex

	keymaps *keymap.Set
	modes   *mode.Manager
	timeout time.Duration
	metrics *Metrics
	logger  *slog.Logger

	// Pending state, cleared together by clear.
	tokens           key.Sequence
	raw              key.Sequence
	count            vim.CountState
	postCount        vim.CountState
	register         rune
	awaitingRegister bool
	countable        bool
	charArg          *keymap.Template
	deadline         time.Time
}

// NewTranslator creates a translator.
func NewTranslator(cfg TranslatorConfig) *Translator {
	t := &Translator{
		keymaps: cfg.Keymaps,
		modes:   cfg.Modes,
		timeout: cfg.SequenceTimeout,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
	}
	if t.keymaps == nil {
		t.keymaps = keymap.Defaults()
	}
	if t.modes == nil {
		t.modes = mode.NewDefaultManager()
	}
	if t.timeout <= 0 {
		t.timeout = DefaultSequenceTimeout
	}
	if cfg.DisableTimeout {
		t.timeout = 0
	}
	if t.metrics == nil {
		t.metrics = NewMetrics()
	}
	if t.logger == nil {
		t.logger = slog.New(slog.DiscardHandler)
	}
	t.logger = t.logger.With("component", "input.translate")
	return t
}

// Step processes one event.
func (t *Translator) Step(ev event.Event) Resolution {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ev == nil {
		return t.state()
	}

	switch ev := ev.(type) {
	case event.KeyPress:
		return t.translate(ev)

	case event.PasteStart:
		return t.emitEvent(ev, Action{Name: ActionPasteBegin, Source: SourcePaste})

	case event.PasteChunk:
		return t.emitEvent(ev, Action{
			Name:   ActionPasteInsert,
			Source: SourcePaste,
			Args:   ActionArgs{Text: ev.Text},
		})

	case event.PasteEnd:
		return t.emitEvent(ev, Action{Name: ActionPasteEnd, Source: SourcePaste})

	case event.CompositionUpdate:
		preedit := text.NFC(ev.Text)
		if t.logger.Enabled(context.Background(), slog.LevelDebug) {
			t.logger.Debug("translator.composition",
				"clusters", text.ClusterCount(preedit),
				"width", text.Width(preedit),
			)
		}
		return t.emitEvent(ev, Action{
			Name:   ActionCompositionUpdate,
			Source: SourceComposition,
			Args:   ActionArgs{Text: preedit},
		})

	case event.TextCommit:
		return t.commit(ev)

	case event.Focus:
		name := ActionFocusLost
		if ev.Gained {
			name = ActionFocusGained
		}
		return t.emitEvent(ev, Action{Name: name, Source: SourceFocus})

	case event.LegacyKey:
		t.metrics.otherEvents.Add(1)
		t.metrics.record(OutcomeLegacy)
		t.logger.Warn("legacy_event", "kind", ev.Kind().String())
		res := t.state()
		res.Outcome = OutcomeLegacy
		return res

	default:
		// Mouse, Resize and RawBytes do not take part in translation.
		t.metrics.otherEvents.Add(1)
		t.logger.Debug("translator.ignored",
			"kind", ev.Kind().String(),
			"payload_len", event.PayloadLen(ev),
		)
		return t.state()
	}
}

// Translate processes one key press.
func (t *Translator) Translate(kp event.KeyPress) Resolution {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.translate(kp)
}

func (t *Translator) translate(kp event.KeyPress) Resolution {
	t.metrics.keyEvents.Add(1)
	t.logger.Debug("translator.key",
		"token", kp.Token.Kind().String(),
		"mods", kp.Token.Mods().String(),
		"repeat", kp.Repeat,
	)
	return t.feed(kp.Token, kp.Timestamp, false)
}

// feed applies one token to the pending state. refed marks a token
// that is being replayed after its sequence failed to match, so it is
// never replayed twice.
func (t *Translator) feed(tok key.Token, now time.Time, refed bool) Resolution {
	if tok.IsKey(key.NamedEscape) && !t.empty() {
		return t.cancel("escape")
	}
	if t.charArg != nil {
		return t.completeCharArg(tok)
	}
	if t.awaitingRegister {
		return t.selectRegister(tok)
	}

	if cur := t.modes.Current(); cur != nil && cur.AcceptsPrefix() {
		if r, ok := tok.Rune(); ok {
			switch {
			case r == vim.RegisterPrefix && len(t.tokens) == 0:
				t.awaitingRegister = true
				t.raw = append(t.raw, tok)
				return t.state()
			case len(t.tokens) == 0 && t.count.AccumulateDigit(r):
				t.raw = append(t.raw, tok)
				return t.state()
			case len(t.tokens) > 0 && t.countable && t.postCount.AccumulateDigit(r):
				t.raw = append(t.raw, tok)
				return t.state()
			}
		}
	}

	t.tokens = append(t.tokens, tok)
	t.raw = append(t.raw, tok)
	if len(t.tokens) == 1 && t.timeout > 0 {
		t.deadline = now.Add(t.timeout)
	}

	res := t.trie().Lookup(t.tokens)
	switch res.Kind {
	case keymap.Partial:
		t.countable = res.Countable
		return t.state()

	case keymap.Terminal:
		if res.Ambiguous() && res.Policy == keymap.PolicyWait {
			t.countable = res.Countable
			return t.state()
		}
		if res.Template.CharArg {
			tmpl := res.Template
			t.charArg = &tmpl
			t.deadline = time.Time{}
			return t.state()
		}
		return t.emit(res.Template, SourceKeyboard, "", OutcomeResolved)
	}

	return t.noMatch(tok, now, refed)
}

func (t *Translator) noMatch(tok key.Token, now time.Time, refed bool) Resolution {
	n := len(t.tokens)
	if n == 1 {
		if cur := t.modes.Current(); cur != nil {
			if um := cur.HandleUnmapped(tok); um != nil {
				return t.emitAction(Action{
					Name:   um.Action,
					Source: SourceKeyboard,
					Args:   ActionArgs{Text: um.Text},
				}, OutcomeResolved)
			}
		}
	}

	t.metrics.record(OutcomeUnmapped)
	t.logger.Debug("translator.unmapped",
		"mode", t.modes.CurrentName(),
		"tokens", n,
		"keys", len(t.raw),
	)
	t.clear()

	if n > 1 && !refed {
		return t.feed(tok, now, true)
	}
	return Resolution{Outcome: OutcomeUnmapped}
}

func (t *Translator) completeCharArg(tok key.Token) Resolution {
	arg, ok := charArgText(tok)
	if !ok {
		return t.cancel("char_arg")
	}
	return t.emit(*t.charArg, SourceKeyboard, arg, OutcomeResolved)
}

// charArgText returns the text a key contributes as a character argument.
func charArgText(tok key.Token) (string, bool) {
	if tok.IsKey(key.NamedTab) {
		return "\t", true
	}
	if !tok.IsPrintable() {
		return "", false
	}
	r, _ := tok.Rune()
	return string(r), true
}

func (t *Translator) selectRegister(tok key.Token) Resolution {
	r, ok := tok.Rune()
	if !ok || !vim.IsValidRegister(r) {
		t.metrics.record(OutcomeInvalidRegister)
		t.logger.Debug("translator.invalid_register",
			"token", tok.Kind().String(),
			"mods", tok.Mods().String(),
		)
		t.clear()
		return Resolution{Outcome: OutcomeInvalidRegister}
	}
	t.register = r
	t.awaitingRegister = false
	t.raw = append(t.raw, tok)
	return t.state()
}

func (t *Translator) cancel(reason string) Resolution {
	t.metrics.record(OutcomeCancelled)
	t.logger.Debug("translator.cancel", "reason", reason, "keys", len(t.raw))
	t.clear()
	return Resolution{Outcome: OutcomeCancelled}
}

func (t *Translator) commit(ev event.TextCommit) Resolution {
	t.metrics.otherEvents.Add(1)
	t.discard(ev.Kind())

	s := text.NFC(ev.Text)
	if cur := t.modes.Current(); cur != nil {
		if um := cur.HandleText(s); um != nil {
			return t.emitAction(Action{
				Name:   um.Action,
				Source: SourceComposition,
				Args:   ActionArgs{Text: um.Text},
			}, OutcomeResolved)
		}
	}

	t.metrics.record(OutcomeUnmapped)
	t.logger.Debug("translator.unmapped",
		"mode", t.modes.CurrentName(),
		"kind", ev.Kind().String(),
		"text_len", len(s),
	)
	return Resolution{Outcome: OutcomeUnmapped}
}

// emitEvent resolves a non-key event to a fixed action. Any pending
// sequence is discarded first.
func (t *Translator) emitEvent(ev event.Event, a Action) Resolution {
	t.metrics.otherEvents.Add(1)
	t.discard(ev.Kind())
	return t.emitAction(a, OutcomeResolved)
}

func (t *Translator) discard(kind event.Kind) {
	if t.empty() {
		return
	}
	t.logger.Debug("translator.discard", "kind", kind.String(), "keys", len(t.raw))
	t.clear()
}

// emit materializes a template with the pending count and register.
func (t *Translator) emit(tmpl keymap.Template, src ActionSource, arg string, outcome Outcome) Resolution {
	count := vim.CombineCounts(t.count.Value, t.postCount.Value)
	if tmpl.NoCount {
		count = 0
	}
	return t.emitAction(Action{
		Name:   tmpl.Action,
		Source: src,
		Count:  count,
		Args: ActionArgs{
			Motion:     tmpl.Motion,
			TextObject: tmpl.TextObject,
			Linewise:   tmpl.Linewise,
			Register:   t.register,
			Text:       arg,
			NextMode:   tmpl.NextMode,
			Extra:      maps.Clone(tmpl.Args),
		},
	}, outcome)
}

// emitAction clears the pending state, applies the action's mode
// change, and returns the action.
func (t *Translator) emitAction(a Action, outcome Outcome) Resolution {
	t.clear()
	if a.Args.NextMode != "" {
		if err := t.modes.Switch(a.Args.NextMode); err != nil {
			t.logger.Warn("translator.mode_switch_failed",
				"action", a.Name,
				"mode", a.Args.NextMode,
				"error", err,
			)
		}
	}
	t.metrics.actions.Add(1)
	t.logger.Debug("translator.resolved", "outcome", outcome.String(), "action", a)
	return Resolution{Action: &a, Outcome: outcome}
}

// Flush resolves the pending sequence if its deadline has been reached
// at now. The best terminal entry for the collected keys wins; when
// there is none the keys are replayed as literal input. It reports
// whether a flush happened.
func (t *Translator) Flush(now time.Time) (Resolution, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.deadline.IsZero() || now.Before(t.deadline) {
		return t.state(), false
	}

	t.metrics.timeouts.Add(1)
	t.logger.Debug("translator.flush", "tokens", len(t.tokens), "keys", len(t.raw))

	res := t.trie().Lookup(t.tokens)
	if res.Kind == keymap.Terminal && !res.Template.CharArg {
		return t.emit(res.Template, SourceFlush, "", OutcomeFlushed), true
	}
	return t.emitAction(t.literal(), OutcomeFlushed), true
}

// literal builds the fallback for keys that never formed a command.
// Where the mode types text, keys that all type the same kind of text
// are joined into that action; otherwise the raw keys are replayed.
func (t *Translator) literal() Action {
	fallback := Action{
		Name:   ActionLiteral,
		Source: SourceFlush,
		Args:   ActionArgs{Keys: t.raw.Clone()},
	}

	cur := t.modes.Current()
	if cur == nil || cur.AcceptsPrefix() {
		return fallback
	}

	var (
		name string
		sb   strings.Builder
	)
	for _, tok := range t.raw {
		um := cur.HandleUnmapped(tok)
		if um == nil || (name != "" && um.Action != name) {
			return fallback
		}
		name = um.Action
		sb.WriteString(um.Text)
	}
	return Action{
		Name:   name,
		Source: SourceFlush,
		Args:   ActionArgs{Text: sb.String()},
	}
}

// Deadline returns the pending sequence's deadline, if it has one.
func (t *Translator) Deadline() (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.deadline, !t.deadline.IsZero()
}

// Pending returns a copy of the pending state.
func (t *Translator) Pending() PendingSequence {
	t.mu.Lock()
	defer t.mu.Unlock()
	return PendingSequence{
		Tokens:           t.tokens.Clone(),
		Raw:              t.raw.Clone(),
		Count:            t.count.Value,
		PostCount:        t.postCount.Value,
		Register:         t.register,
		AwaitingRegister: t.awaitingRegister,
		AwaitingChar:     t.charArg != nil,
		Deadline:         t.deadline,
	}
}

// Mode returns the name of the current mode.
func (t *Translator) Mode() string {
	return t.modes.CurrentName()
}

// Modes returns the mode manager.
func (t *Translator) Modes() *mode.Manager {
	return t.modes
}

// SetMode switches to the named mode, discarding pending state.
func (t *Translator) SetMode(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.modes.Switch(name); err != nil {
		return err
	}
	t.clear()
	return nil
}

// Keymaps returns the tables in use.
func (t *Translator) Keymaps() *keymap.Set {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.keymaps
}

// SetKeymaps installs new tables. Pending state is discarded since it
// was collected against the old tables.
func (t *Translator) SetKeymaps(set *keymap.Set) {
	if set == nil {
		set = keymap.Defaults()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.keymaps = set
	t.clear()
	t.logger.Info("translator.keymaps_installed",
		"modes", len(set.Modes()),
		"overrides", set.Overrides(),
	)
}

// Reset discards pending state.
func (t *Translator) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clear()
}

// Metrics returns the translator's metrics tracker.
func (t *Translator) Metrics() *Metrics {
	return t.metrics
}

// Stats returns a snapshot of the translator's counters.
func (t *Translator) Stats() MetricsSnapshot {
	return t.metrics.Snapshot()
}

func (t *Translator) trie() *keymap.Trie {
	return t.keymaps.Trie(t.modes.CurrentName())
}

func (t *Translator) empty() bool {
	return len(t.raw) == 0
}

// state reports the pending state without changing it.
func (t *Translator) state() Resolution {
	if t.empty() {
		return Resolution{Outcome: OutcomeIgnored}
	}
	return Resolution{Pending: true, Deadline: t.deadline, Outcome: OutcomePending}
}

// clear discards all pending state at once.
func (t *Translator) clear() {
	t.tokens = t.tokens[:0]
	t.raw = t.raw[:0]
	t.count.Reset()
	t.postCount.Reset()
	t.register = 0
	t.awaitingRegister = false
	t.countable = false
	t.charArg = nil
	t.deadline = time.Time{}
}
