package input

import (
	"context"
	"log/slog"
	"time"
)

// DefaultTickInterval is how often Run checks for an elapsed deadline.
const DefaultTickInterval = 16 * time.Millisecond

// Clock returns the current time. time.Now carries a monotonic reading,
// so deadlines computed from it are not affected by wall clock changes.
type Clock func() time.Time

// Driver flushes timed-out sequences on a regular cadence and forwards
// the resulting actions to a Dispatcher exactly as the event loop
// forwards ordinary resolutions.
type Driver struct {
	translator *Translator
	dispatcher Dispatcher
	clock      Clock
	logger     *slog.Logger
}

// NewDriver creates a driver for tr. A nil clock uses time.Now and a
// nil logger discards output.
func NewDriver(tr *Translator, d Dispatcher, clock Clock, logger *slog.Logger) *Driver {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Driver{
		translator: tr,
		dispatcher: d,
		clock:      clock,
		logger:     logger.With("component", "input.flush"),
	}
}

// Tick flushes the translator if its deadline has been reached at now,
// dispatching the resulting action. It reports whether a flush happened.
func (d *Driver) Tick(now time.Time) (Resolution, bool) {
	res, ok := FlushAt(d.translator, now)
	if !ok {
		return res, false
	}
	if res.Action != nil {
		d.logger.Debug("flush.dispatch", "action", *res.Action)
		if d.dispatcher != nil {
			d.dispatcher.Dispatch(*res.Action)
		}
	}
	return res, true
}

// Run calls Tick every interval until ctx is done. A non-positive
// interval uses DefaultTickInterval. Run returns nil when ctx is
// cancelled.
//
// Run is for a standalone driver that owns its own goroutine. The
// pipeline ticks its driver from the translate loop instead, so flushes
// and key steps never interleave.
func (d *Driver) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	d.logger.Debug("flush.started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			d.logger.Debug("flush.stopped")
			return nil
		case <-ticker.C:
			d.Tick(d.clock())
		}
	}
}

// FlushAt flushes tr as of now without a driver or dispatcher. It is
// the one-shot form of Tick for callers that control time directly.
func FlushAt(tr *Translator, now time.Time) (Resolution, bool) {
	return tr.Flush(now)
}
