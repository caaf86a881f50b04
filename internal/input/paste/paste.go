// Package paste implements the bracketed-paste session state machine.
//
// A Session buffers pasted text and releases it as PasteChunk events once the
// buffer reaches the configured threshold. Chunks only ever end on grapheme
// cluster boundaries: the last cluster in the buffer is always held back,
// since a later scalar (ZWJ, combining mark, variation selector, regional
// indicator) may still extend it.
//
// Pasted text is never logged. Diagnostics carry byte and chunk counts only.
package paste

import (
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/rivo/uniseg"

	"github.com/dshills/keyflow/internal/input/event"
)

const (
	// DefaultChunkBytes is the default flush threshold.
	DefaultChunkBytes = 4096

	// MinChunkBytes is the smallest accepted threshold. It exceeds the byte
	// length of any grapheme cluster found in real text, so ordinary
	// clusters never outgrow a chunk.
	MinChunkBytes = 64
)

// ErrThreshold is returned for a threshold below MinChunkBytes.
var ErrThreshold = errors.New("paste chunk threshold below minimum")

// State is the session state.
type State uint8

const (
	// Idle means no paste is in progress.
	Idle State = iota
	// Active means a paste is open and text is being buffered.
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}

// Stats is a snapshot of session counters.
type Stats struct {
	Sessions     uint64
	Chunks       uint64
	Bytes        uint64
	OrphanEnds   uint64
	NestedBegins uint64
	Abandoned    uint64
}

// Session is the paste state machine. It is owned by a single goroutine
// (the capture task); only Stats may be called concurrently.
type Session struct {
	threshold int
	logger    *slog.Logger

	state         State
	buf           strings.Builder
	sessionBytes  int
	sessionChunks int

	sessions     atomic.Uint64
	chunks       atomic.Uint64
	bytes        atomic.Uint64
	orphanEnds   atomic.Uint64
	nestedBegins atomic.Uint64
	abandoned    atomic.Uint64
}

// NewSession creates an idle session that flushes at threshold bytes.
func NewSession(threshold int, logger *slog.Logger) (*Session, error) {
	if threshold < MinChunkBytes {
		return nil, ErrThreshold
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		threshold: threshold,
		logger:    logger.With("component", "input.paste"),
	}, nil
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Threshold returns the configured flush threshold in bytes.
func (s *Session) Threshold() int {
	return s.threshold
}

// Buffered returns the number of bytes held and not yet emitted.
func (s *Session) Buffered() int {
	return s.buf.Len()
}

// Begin handles a paste-begin marker.
func (s *Session) Begin() []event.Event {
	if s.state == Active {
		// Some terminals repeat the begin marker. Keep the session open;
		// the trailing cluster stays buffered since it may still grow.
		s.nestedBegins.Add(1)
		s.logger.Warn("paste begin while active", "buffered_len", s.buf.Len())
		return s.drain(nil)
	}

	s.state = Active
	s.sessionBytes = 0
	s.sessionChunks = 0
	s.sessions.Add(1)
	s.logger.Debug("paste session start")
	return []event.Event{event.PasteStart{}}
}

// Write buffers text from an active session and returns any chunks that
// became ready. text must hold whole runes. Writing while idle is ignored.
func (s *Session) Write(text string) []event.Event {
	if s.state != Active {
		s.logger.Warn("paste text while idle", "text_len", len(text))
		return nil
	}
	if text == "" {
		return nil
	}
	s.buf.WriteString(text)
	if s.buf.Len() < s.threshold {
		return nil
	}
	return s.drain(nil)
}

// End handles a paste-end marker: the remaining buffer is emitted as a final
// chunk (if non-empty) followed by PasteEnd. An end without a start is a
// protocol violation; it is reported once and otherwise ignored.
func (s *Session) End() []event.Event {
	if s.state != Active {
		s.orphanEnds.Add(1)
		s.logger.Warn("paste end without start")
		return nil
	}

	out := s.flushAll(nil)
	out = append(out, event.PasteEnd{})
	s.logger.Info("paste session end",
		"bytes", s.sessionBytes,
		"chunks", s.sessionChunks,
	)
	s.state = Idle
	return out
}

// Abandon discards any open session without emitting events.
// It is used on shutdown, where the session is lost anyway.
func (s *Session) Abandon() {
	if s.state != Active {
		return
	}
	s.abandoned.Add(1)
	s.logger.Info("paste session abandoned",
		"bytes", s.sessionBytes,
		"chunks", s.sessionChunks,
		"buffered_len", s.buf.Len(),
	)
	s.buf.Reset()
	s.state = Idle
}

// Stats returns a snapshot of the counters.
func (s *Session) Stats() Stats {
	return Stats{
		Sessions:     s.sessions.Load(),
		Chunks:       s.chunks.Load(),
		Bytes:        s.bytes.Load(),
		OrphanEnds:   s.orphanEnds.Load(),
		NestedBegins: s.nestedBegins.Load(),
		Abandoned:    s.abandoned.Load(),
	}
}

// drain emits chunks of complete clusters while the buffer holds at least
// threshold bytes. Chunks are at most threshold bytes unless a single
// cluster is longer, in which case it travels alone. The final cluster
// always stays buffered.
func (s *Session) drain(out []event.Event) []event.Event {
	data := s.buf.String()
	start, pos := 0, 0
	rest := data
	state := -1
	for len(rest) > 0 {
		cluster, next, _, newState := uniseg.FirstGraphemeClusterInString(rest, state)
		if len(next) == 0 {
			break
		}
		end := pos + len(cluster)
		if end-start > s.threshold && pos > start {
			out = s.emit(out, data[start:pos])
			start = pos
		}
		pos = end
		rest = next
		state = newState
	}
	if len(data)-start >= s.threshold && pos > start {
		out = s.emit(out, data[start:pos])
		start = pos
	}

	if start > 0 {
		tail := data[start:]
		s.buf.Reset()
		s.buf.WriteString(tail)
	}
	return out
}

// flushAll emits the entire buffer, tail included.
func (s *Session) flushAll(out []event.Event) []event.Event {
	if s.buf.Len() == 0 {
		return out
	}
	out = s.drain(out)
	if s.buf.Len() > 0 {
		out = s.emit(out, s.buf.String())
		s.buf.Reset()
	}
	return out
}

func (s *Session) emit(out []event.Event, chunk string) []event.Event {
	s.sessionBytes += len(chunk)
	s.sessionChunks++
	s.chunks.Add(1)
	s.bytes.Add(uint64(len(chunk)))
	s.logger.Debug("paste chunk", "chunk_len", len(chunk))
	return append(out, event.PasteChunk{Text: chunk})
}
