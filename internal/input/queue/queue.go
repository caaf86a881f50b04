// Package queue provides the bounded, ordered channel between the capture
// task and the translator.
//
// The channel never drops an event. When it is full a send either waits
// (PolicyBlock) or fails with ErrFull (PolicyReject); in both cases the
// backpressure counter is incremented first so pressure is observable.
// A rejected event stays with the producer, which may retry it with
// SendWait.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dshills/keyflow/internal/input/event"
)

// DefaultCapacity is the default channel capacity.
const DefaultCapacity = 1024

// Errors returned by Channel.
var (
	ErrClosed   = errors.New("event channel closed")
	ErrFull     = errors.New("event channel full")
	ErrCapacity = errors.New("event channel capacity must be positive")
)

// Policy selects what Send does when the channel is full.
type Policy uint8

const (
	// PolicyBlock makes Send wait for space.
	PolicyBlock Policy = iota
	// PolicyReject makes Send return ErrFull.
	PolicyReject
)

func (p Policy) String() string {
	if p == PolicyReject {
		return "reject"
	}
	return "block"
}

// ParsePolicy parses "block" or "reject" (case-insensitive).
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "block":
		return PolicyBlock, nil
	case "reject":
		return PolicyReject, nil
	default:
		return PolicyBlock, fmt.Errorf("unknown channel policy %q", s)
	}
}

// Stats is a snapshot of channel counters.
type Stats struct {
	Sent         uint64
	Received     uint64
	Backpressure uint64
	Rejected     uint64
	SendFailures uint64
	Depth        int
	Capacity     int
}

// Channel is a bounded FIFO of events. Send and Receive may be called from
// different goroutines; events are received in send order.
type Channel struct {
	ch     chan event.Event
	done   chan struct{}
	once   sync.Once
	policy Policy
	logger *slog.Logger

	sent         atomic.Uint64
	received     atomic.Uint64
	backpressure atomic.Uint64
	rejected     atomic.Uint64
	sendFailures atomic.Uint64
}

// New creates a channel with the given capacity and full-channel policy.
func New(capacity int, policy Policy, logger *slog.Logger) (*Channel, error) {
	if capacity <= 0 {
		return nil, ErrCapacity
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Channel{
		ch:     make(chan event.Event, capacity),
		done:   make(chan struct{}),
		policy: policy,
		logger: logger.With("component", "input.queue"),
	}, nil
}

// Send enqueues ev. It returns immediately when there is space. Otherwise
// it records backpressure and then, depending on the policy, waits for
// space or returns ErrFull. A waiting Send returns ctx.Err() if ctx is
// done first, or ErrClosed if the channel is closed.
func (c *Channel) Send(ctx context.Context, ev event.Event) error {
	select {
	case <-c.done:
		c.sendFailures.Add(1)
		return ErrClosed
	default:
	}

	select {
	case c.ch <- ev:
		c.sent.Add(1)
		return nil
	default:
	}

	n := c.backpressure.Add(1)
	c.logger.Debug("event channel full",
		"policy", c.policy.String(),
		"capacity", cap(c.ch),
		"event_kind", ev.Kind().String(),
		"backpressure_total", n,
	)

	if c.policy == PolicyReject {
		c.rejected.Add(1)
		return ErrFull
	}
	return c.wait(ctx, ev)
}

// SendWait enqueues ev, waiting for space whatever the policy. A producer
// that must not lose an event retries a rejected Send with SendWait.
func (c *Channel) SendWait(ctx context.Context, ev event.Event) error {
	select {
	case <-c.done:
		c.sendFailures.Add(1)
		return ErrClosed
	default:
	}
	return c.wait(ctx, ev)
}

func (c *Channel) wait(ctx context.Context, ev event.Event) error {
	select {
	case c.ch <- ev:
		c.sent.Add(1)
		return nil
	case <-ctx.Done():
		c.sendFailures.Add(1)
		return ctx.Err()
	case <-c.done:
		c.sendFailures.Add(1)
		return ErrClosed
	}
}

// Receive waits for the next event. After Close, buffered events are
// still delivered in order before ErrClosed is returned.
func (c *Channel) Receive(ctx context.Context) (event.Event, error) {
	select {
	case ev := <-c.ch:
		c.received.Add(1)
		return ev, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		if ev, ok := c.TryReceive(); ok {
			return ev, nil
		}
		return nil, ErrClosed
	}
}

// TryReceive returns the next event without waiting.
func (c *Channel) TryReceive() (event.Event, bool) {
	select {
	case ev := <-c.ch:
		c.received.Add(1)
		return ev, true
	default:
		return nil, false
	}
}

// Close stops further sends. It is safe to call more than once.
func (c *Channel) Close() {
	c.once.Do(func() {
		close(c.done)
	})
}

// Done is closed when the channel is closed.
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// Len returns the number of buffered events.
func (c *Channel) Len() int {
	return len(c.ch)
}

// Cap returns the channel capacity.
func (c *Channel) Cap() int {
	return cap(c.ch)
}

// Policy returns the full-channel policy.
func (c *Channel) Policy() Policy {
	return c.policy
}

// Stats returns a snapshot of the counters.
func (c *Channel) Stats() Stats {
	return Stats{
		Sent:         c.sent.Load(),
		Received:     c.received.Load(),
		Backpressure: c.backpressure.Load(),
		Rejected:     c.rejected.Load(),
		SendFailures: c.sendFailures.Load(),
		Depth:        len(c.ch),
		Capacity:     cap(c.ch),
	}
}
