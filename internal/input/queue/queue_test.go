package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dshills/keyflow/internal/input/event"
	"github.com/dshills/keyflow/internal/input/key"
)

func newTestChannel(t *testing.T, capacity int, policy Policy) *Channel {
	t.Helper()
	c, err := New(capacity, policy, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func press(r rune) event.Event {
	return event.KeyPress{Token: key.Char(r)}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestNewRejectsBadCapacity(t *testing.T) {
	if _, err := New(0, PolicyBlock, nil); !errors.Is(err, ErrCapacity) {
		t.Errorf("New(0) error = %v, want ErrCapacity", err)
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", PolicyBlock, false},
		{"block", PolicyBlock, false},
		{"Reject", PolicyReject, false},
		{"drop", PolicyBlock, true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParsePolicy(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestOrderPreserved(t *testing.T) {
	c := newTestChannel(t, 8, PolicyBlock)
	ctx := context.Background()
	for _, r := range "abcdefgh" {
		if err := c.Send(ctx, press(r)); err != nil {
			t.Fatalf("Send() error = %v", err)
		}
	}
	for _, want := range "abcdefgh" {
		ev, err := c.Receive(ctx)
		if err != nil {
			t.Fatalf("Receive() error = %v", err)
		}
		if !ev.(event.KeyPress).Token.IsChar(want) {
			t.Errorf("got %v, want %q", ev, want)
		}
	}
}

func TestBackpressureBlocksThenCompletes(t *testing.T) {
	const k = 4
	c := newTestChannel(t, k, PolicyBlock)
	ctx := context.Background()

	for i := 0; i < k; i++ {
		if err := c.Send(ctx, press('x')); err != nil {
			t.Fatal(err)
		}
	}
	if c.Stats().Backpressure != 0 {
		t.Fatal("no backpressure expected below capacity")
	}

	var wg sync.WaitGroup
	wg.Add(1)
	sendErr := make(chan error, 1)
	go func() {
		defer wg.Done()
		sendErr <- c.Send(ctx, press('y'))
	}()

	waitFor(t, func() bool { return c.Stats().Backpressure == 1 })
	if c.Len() != k {
		t.Fatalf("Len() = %d, want %d while sender is blocked", c.Len(), k)
	}

	received := 0
	for received < k+1 {
		if _, err := c.Receive(ctx); err != nil {
			t.Fatal(err)
		}
		received++
	}
	wg.Wait()
	if err := <-sendErr; err != nil {
		t.Fatalf("blocked Send() error = %v", err)
	}

	st := c.Stats()
	if st.Sent != k+1 || st.Received != k+1 {
		t.Errorf("Stats() = %+v, want %d sent and received", st, k+1)
	}
}

func TestRejectPolicy(t *testing.T) {
	c := newTestChannel(t, 1, PolicyReject)
	ctx := context.Background()
	if err := c.Send(ctx, press('a')); err != nil {
		t.Fatal(err)
	}
	if err := c.Send(ctx, press('b')); !errors.Is(err, ErrFull) {
		t.Fatalf("Send() on full channel = %v, want ErrFull", err)
	}
	st := c.Stats()
	if st.Backpressure != 1 || st.Rejected != 1 {
		t.Errorf("Stats() = %+v", st)
	}
}

func TestSendWaitIgnoresRejectPolicy(t *testing.T) {
	c := newTestChannel(t, 1, PolicyReject)
	ctx := context.Background()
	if err := c.Send(ctx, press('a')); err != nil {
		t.Fatal(err)
	}
	if err := c.Send(ctx, press('b')); !errors.Is(err, ErrFull) {
		t.Fatalf("Send() on full channel = %v, want ErrFull", err)
	}

	done := make(chan error, 1)
	go func() { done <- c.SendWait(ctx, press('b')) }()

	for _, want := range []rune{'a', 'b'} {
		ev, err := c.Receive(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if !ev.(event.KeyPress).Token.IsChar(want) {
			t.Errorf("received %v, want %q", ev, want)
		}
	}
	if err := <-done; err != nil {
		t.Errorf("SendWait() = %v", err)
	}

	c.Close()
	if err := c.SendWait(ctx, press('c')); !errors.Is(err, ErrClosed) {
		t.Errorf("SendWait() after Close = %v, want ErrClosed", err)
	}
}

func TestBlockedSendCancelled(t *testing.T) {
	c := newTestChannel(t, 1, PolicyBlock)
	if err := c.Send(context.Background(), press('a')); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := c.Send(ctx, press('b')); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Send() = %v, want deadline exceeded", err)
	}
	if c.Stats().SendFailures != 1 {
		t.Errorf("SendFailures = %d, want 1", c.Stats().SendFailures)
	}
}

func TestCloseDrainsThenErrClosed(t *testing.T) {
	c := newTestChannel(t, 4, PolicyBlock)
	ctx := context.Background()
	c.Send(ctx, press('a'))
	c.Send(ctx, press('b'))
	c.Close()
	c.Close()

	if err := c.Send(ctx, press('c')); !errors.Is(err, ErrClosed) {
		t.Errorf("Send() after Close = %v, want ErrClosed", err)
	}
	for _, want := range "ab" {
		ev, err := c.Receive(ctx)
		if err != nil {
			t.Fatalf("Receive() error = %v", err)
		}
		if !ev.(event.KeyPress).Token.IsChar(want) {
			t.Errorf("got %v, want %q", ev, want)
		}
	}
	if _, err := c.Receive(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("Receive() on drained closed channel = %v, want ErrClosed", err)
	}
}

func TestCloseWakesBlockedSender(t *testing.T) {
	c := newTestChannel(t, 1, PolicyBlock)
	c.Send(context.Background(), press('a'))

	errCh := make(chan error, 1)
	go func() { errCh <- c.Send(context.Background(), press('b')) }()
	waitFor(t, func() bool { return c.Stats().Backpressure == 1 })
	c.Close()

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrClosed) {
			t.Errorf("Send() = %v, want ErrClosed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("blocked sender not released by Close")
	}
}
