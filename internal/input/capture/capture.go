// Package capture runs the task that reads the terminal and feeds the event
// channel.
//
// The task owns the paste session: while a bracketed paste is open, key
// events are routed into the session as text rather than becoming key
// presses. Everything else is converted to input events in arrival order.
//
// The task never logs typed characters or pasted text, and never drops an
// event: a send the channel rejects is retried until it is delivered.
//
// tcell does not report key auto-repeat, so KeyPress.Repeat is always
// false for events from a TerminalSource.
package capture

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/dshills/keyflow/internal/input/event"
	"github.com/dshills/keyflow/internal/input/key"
	"github.com/dshills/keyflow/internal/input/paste"
	"github.com/dshills/keyflow/internal/input/queue"
)

// Clock supplies event timestamps.
type Clock func() time.Time

// StopReason records why Run returned.
type StopReason uint8

const (
	// StopSignal means the context was cancelled.
	StopSignal StopReason = iota
	// StopChannel means the event channel was closed.
	StopChannel
	// StopStreamEnded means the terminal stream closed.
	StopStreamEnded
	// StopStreamError means the terminal reported an error.
	StopStreamError
)

func (r StopReason) String() string {
	switch r {
	case StopSignal:
		return "signal"
	case StopChannel:
		return "channel"
	case StopStreamEnded:
		return "stream_end"
	case StopStreamError:
		return "stream_error"
	default:
		return "unknown"
	}
}

// Config configures a Task.
type Config struct {
	// Source is the terminal event source. Required.
	Source Source

	// Channel receives the converted events. Required.
	Channel *queue.Channel

	// PasteChunkBytes is the paste flush threshold.
	// Zero means paste.DefaultChunkBytes.
	PasteChunkBytes int

	// Clock stamps key presses. Nil means time.Now.
	Clock Clock

	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger
}

// Stats is a snapshot of the task's lifecycle counters. Rejected counts
// sends the channel refused; each was retried until delivered.
type Stats struct {
	Starts        uint64
	Events        uint64
	Ignored       uint64
	Rejected      uint64
	Clamped       uint64
	StopSignal    uint64
	StopChannel   uint64
	StopStreamEnd uint64
	StopStreamErr uint64
}

// Task converts terminal events into input events.
// Run must not be called concurrently with itself.
type Task struct {
	id     string
	source Source
	ch     *queue.Channel
	paste  *paste.Session
	clock  Clock
	logger *slog.Logger
	last   time.Time

	starts        atomic.Uint64
	events        atomic.Uint64
	ignored       atomic.Uint64
	rejected      atomic.Uint64
	clamped       atomic.Uint64
	stopSignal    atomic.Uint64
	stopChannel   atomic.Uint64
	stopStreamEnd atomic.Uint64
	stopStreamErr atomic.Uint64
}

// New creates a capture task.
func New(cfg Config) (*Task, error) {
	if cfg.Source == nil {
		return nil, ErrNoSource
	}
	if cfg.Channel == nil {
		return nil, ErrNoChannel
	}
	if cfg.PasteChunkBytes == 0 {
		cfg.PasteChunkBytes = paste.DefaultChunkBytes
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	id := uuid.NewString()
	base := cfg.Logger.With("session", id)

	ps, err := paste.NewSession(cfg.PasteChunkBytes, base)
	if err != nil {
		return nil, err
	}

	return &Task{
		id:     id,
		source: cfg.Source,
		ch:     cfg.Channel,
		paste:  ps,
		clock:  cfg.Clock,
		logger: base.With("component", "input.capture"),
	}, nil
}

// ID returns the session ID attached to the task's logs.
func (t *Task) ID() string {
	return t.id
}

// Paste returns the task's paste session.
func (t *Task) Paste() *paste.Session {
	return t.paste
}

// Run reads the source until ctx is cancelled or the stream stops. It
// returns nil on cancellation, ErrStreamEnded when the source closes, a
// *StreamError when the terminal fails, and queue.ErrClosed when the
// channel is closed underneath it.
//
// Bracketed paste is requested on entry and disabled on exit. A paste
// still open at exit is abandoned.
func (t *Task) Run(ctx context.Context) error {
	t.starts.Add(1)
	t.logger.Info("capture start")

	t.source.EnablePaste()
	defer t.source.DisablePaste()

	err := t.loop(ctx)
	t.paste.Abandon()

	reason := t.stopped(err)
	if reason == StopSignal {
		err = nil
	}

	attrs := []any{
		"reason", reason.String(),
		"events", t.events.Load(),
	}
	if err != nil {
		attrs = append(attrs, "error", err)
		t.logger.Warn("capture stop", attrs...)
	} else {
		t.logger.Info("capture stop", attrs...)
	}
	return err
}

func (t *Task) loop(ctx context.Context) error {
	events := t.source.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return ErrStreamEnded
			}
			if err := t.handle(ctx, ev); err != nil {
				return err
			}
		}
	}
}

func (t *Task) stopped(err error) StopReason {
	var streamErr *StreamError
	switch {
	case errors.Is(err, queue.ErrClosed):
		t.stopChannel.Add(1)
		return StopChannel
	case errors.Is(err, ErrStreamEnded):
		t.stopStreamEnd.Add(1)
		return StopStreamEnded
	case errors.As(err, &streamErr):
		t.stopStreamErr.Add(1)
		return StopStreamError
	default:
		t.stopSignal.Add(1)
		return StopSignal
	}
}

// handle converts one terminal event.
func (t *Task) handle(ctx context.Context, ev tcell.Event) error {
	switch e := ev.(type) {
	case *tcell.EventKey:
		if t.paste.State() == paste.Active {
			text, ok := pasteText(e)
			if !ok {
				t.ignore("paste_key")
				return nil
			}
			return t.send(ctx, t.paste.Write(text)...)
		}
		return t.send(ctx, event.KeyPress{
			Token:     key.Normalize(e.Key(), e.Rune(), e.Modifiers()),
			Timestamp: t.now(),
		})

	case *tcell.EventPaste:
		if e.Start() {
			return t.send(ctx, t.paste.Begin()...)
		}
		return t.send(ctx, t.paste.End()...)

	case *tcell.EventMouse:
		x, y := e.Position()
		return t.send(ctx, event.Mouse{
			X:       x,
			Y:       y,
			Buttons: mouseButtons(e.Buttons()),
			Mods:    key.FromTcellMods(e.Modifiers()),
		})

	case *tcell.EventFocus:
		return t.send(ctx, event.Focus{Gained: e.Focused})

	case *tcell.EventResize:
		w, h := e.Size()
		return t.send(ctx, event.Resize{Width: w, Height: h})

	case *tcell.EventError:
		return &StreamError{Err: e}

	default:
		t.ignore("unsupported")
		return nil
	}
}

// send forwards events in order. A send the channel rejects is reported
// and retried until it is delivered; any other failure stops the task.
func (t *Task) send(ctx context.Context, evs ...event.Event) error {
	for _, ev := range evs {
		err := t.ch.Send(ctx, ev)
		if errors.Is(err, queue.ErrFull) {
			n := t.rejected.Add(1)
			t.logger.Warn("event rejected, waiting",
				"event_kind", ev.Kind().String(),
				"payload_len", event.PayloadLen(ev),
				"rejected_total", n,
			)
			err = t.ch.SendWait(ctx, ev)
		}
		if err != nil {
			return err
		}
		t.events.Add(1)
	}
	return nil
}

func (t *Task) ignore(why string) {
	t.ignored.Add(1)
	t.logger.Debug("terminal event ignored", "reason", why)
}

// now returns the clock reading, never earlier than the previous one.
func (t *Task) now() time.Time {
	ts := t.clock()
	if ts.Before(t.last) {
		t.clamped.Add(1)
		ts = t.last
	}
	t.last = ts
	return ts
}

// Stats returns a snapshot of the counters. It may be called while Run
// is active.
func (t *Task) Stats() Stats {
	return Stats{
		Starts:        t.starts.Load(),
		Events:        t.events.Load(),
		Ignored:       t.ignored.Load(),
		Rejected:      t.rejected.Load(),
		Clamped:       t.clamped.Load(),
		StopSignal:    t.stopSignal.Load(),
		StopChannel:   t.stopChannel.Load(),
		StopStreamEnd: t.stopStreamEnd.Load(),
		StopStreamErr: t.stopStreamErr.Load(),
	}
}

// pasteText returns the text a key event contributes to an open paste.
func pasteText(e *tcell.EventKey) (string, bool) {
	switch e.Key() {
	case tcell.KeyRune:
		return string(e.Rune()), true
	case tcell.KeyEnter, tcell.KeyLF:
		return "\n", true
	case tcell.KeyTab:
		return "\t", true
	default:
		return "", false
	}
}

var buttonMap = []struct {
	from tcell.ButtonMask
	to   event.MouseButton
}{
	{tcell.ButtonPrimary, event.ButtonPrimary},
	{tcell.ButtonSecondary, event.ButtonSecondary},
	{tcell.ButtonMiddle, event.ButtonMiddle},
	{tcell.WheelUp, event.WheelUp},
	{tcell.WheelDown, event.WheelDown},
	{tcell.WheelLeft, event.WheelLeft},
	{tcell.WheelRight, event.WheelRight},
}

func mouseButtons(b tcell.ButtonMask) event.MouseButton {
	var out event.MouseButton
	for _, m := range buttonMap {
		if b&m.from != 0 {
			out |= m.to
		}
	}
	return out
}
