package paste

import (
	"bytes"
	"errors"
	"log/slog"
	"math/rand"
	"strings"
	"testing"
	"testing/quick"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/dshills/keyflow/internal/input/event"
)

func newTestSession(t *testing.T, threshold int) *Session {
	t.Helper()
	s, err := NewSession(threshold, nil)
	if err != nil {
		t.Fatalf("NewSession(%d) error = %v", threshold, err)
	}
	return s
}

func chunksOf(events []event.Event) []string {
	var out []string
	for _, ev := range events {
		if c, ok := ev.(event.PasteChunk); ok {
			out = append(out, c.Text)
		}
	}
	return out
}

func TestNewSessionRejectsSmallThreshold(t *testing.T) {
	if _, err := NewSession(MinChunkBytes-1, nil); !errors.Is(err, ErrThreshold) {
		t.Errorf("NewSession() error = %v, want ErrThreshold", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestSession(t, DefaultChunkBytes)

	evs := s.Begin()
	if len(evs) != 1 || evs[0].Kind() != event.KindPasteStart {
		t.Fatalf("Begin() = %v, want [PasteStart]", evs)
	}
	if s.State() != Active {
		t.Fatalf("State() = %v, want active", s.State())
	}

	if evs := s.Write("hello "); len(evs) != 0 {
		t.Errorf("Write below threshold emitted %v", evs)
	}
	s.Write("world")

	evs = s.End()
	if len(evs) != 2 {
		t.Fatalf("End() = %d events, want 2", len(evs))
	}
	if c, ok := evs[0].(event.PasteChunk); !ok || c.Text != "hello world" {
		t.Errorf("final chunk = %#v", evs[0])
	}
	if evs[1].Kind() != event.KindPasteEnd {
		t.Errorf("last event = %v, want PasteEnd", evs[1].Kind())
	}
	if s.State() != Idle {
		t.Error("session should be idle after End")
	}

	st := s.Stats()
	if st.Sessions != 1 || st.Chunks != 1 || st.Bytes != 11 {
		t.Errorf("Stats() = %+v", st)
	}
}

func TestEmptyPasteHasNoChunk(t *testing.T) {
	s := newTestSession(t, MinChunkBytes)
	s.Begin()
	evs := s.End()
	if len(evs) != 1 || evs[0].Kind() != event.KindPasteEnd {
		t.Errorf("End() on empty paste = %v, want [PasteEnd]", evs)
	}
}

func TestOrphanEnd(t *testing.T) {
	s := newTestSession(t, MinChunkBytes)
	if evs := s.End(); evs != nil {
		t.Errorf("End() without Begin = %v, want nil", evs)
	}
	if s.State() != Idle {
		t.Error("orphan end must leave session idle")
	}
	if s.Stats().OrphanEnds != 1 {
		t.Errorf("OrphanEnds = %d, want 1", s.Stats().OrphanEnds)
	}
}

func TestWriteWhileIdleIgnored(t *testing.T) {
	s := newTestSession(t, MinChunkBytes)
	if evs := s.Write("stray"); evs != nil {
		t.Errorf("Write while idle = %v", evs)
	}
	if s.Buffered() != 0 {
		t.Error("idle write must not buffer")
	}
}

func TestNestedBeginKeepsSession(t *testing.T) {
	s := newTestSession(t, MinChunkBytes)
	s.Begin()
	s.Write("abc")
	if evs := s.Begin(); len(evs) != 0 {
		t.Errorf("nested Begin below the threshold emitted %d events", len(evs))
	}
	if s.State() != Active {
		t.Error("nested begin keeps the session active")
	}
	if s.Stats().NestedBegins != 1 || s.Stats().Sessions != 1 {
		t.Errorf("Stats() = %+v", s.Stats())
	}

	evs := s.End()
	if got := chunksOf(evs); len(got) != 1 || got[0] != "abc" {
		t.Errorf("End chunks = %q, want [abc]", got)
	}
}

func TestNestedBeginHoldsTrailingCluster(t *testing.T) {
	s := newTestSession(t, MinChunkBytes)
	var chunks []string
	s.Begin()
	chunks = append(chunks, chunksOf(s.Write("e"))...)
	chunks = append(chunks, chunksOf(s.Begin())...)
	chunks = append(chunks, chunksOf(s.Write("\u0301"))...)
	chunks = append(chunks, chunksOf(s.End())...)

	if len(chunks) != 1 || chunks[0] != "e\u0301" {
		t.Errorf("chunks = %q, want one chunk %q", chunks, "e\u0301")
	}
}

func TestChunkHoldsTrailingCluster(t *testing.T) {
	s := newTestSession(t, MinChunkBytes)
	s.Begin()

	base := strings.Repeat("a", MinChunkBytes-1) + "e"
	evs := s.Write(base)
	got := chunksOf(evs)
	if len(got) != 1 || got[0] != strings.Repeat("a", MinChunkBytes-1) {
		t.Fatalf("chunks = %q, want the run before the last cluster", got)
	}

	// A combining acute arrives in a later write and must join the held "e".
	s.Write("\u0301")
	evs = s.End()
	got = chunksOf(evs)
	if len(got) != 1 || got[0] != "e\u0301" {
		t.Errorf("final chunk = %q, want %q", got, "e\u0301")
	}
}

func TestZWJSequenceNotSplit(t *testing.T) {
	const zwj = "\u200d"
	s := newTestSession(t, MinChunkBytes)
	s.Begin()

	prefix := strings.Repeat("x", MinChunkBytes-4)
	var chunks []string
	chunks = append(chunks, chunksOf(s.Write(prefix+"\U0001F468"))...)
	chunks = append(chunks, chunksOf(s.Write(zwj+"\U0001F469"+zwj+"\U0001F467"))...)
	chunks = append(chunks, chunksOf(s.End())...)

	want := prefix + "\U0001F468" + zwj + "\U0001F469" + zwj + "\U0001F467"
	if strings.Join(chunks, "") != want {
		t.Fatal("chunks do not reassemble the paste")
	}
	for _, c := range chunks {
		if strings.HasPrefix(c, zwj) {
			t.Errorf("chunk %q starts inside a ZWJ sequence", c)
		}
	}
}

func TestChunksBoundedByThreshold(t *testing.T) {
	const threshold = 100
	s := newTestSession(t, threshold)
	s.Begin()
	var chunks []string
	chunks = append(chunks, chunksOf(s.Write(strings.Repeat("αβγ", 500)))...)
	chunks = append(chunks, chunksOf(s.End())...)

	for i, c := range chunks {
		if len(c) > threshold {
			t.Errorf("chunk %d is %d bytes, threshold %d", i, len(c), threshold)
		}
	}
	if strings.Join(chunks, "") != strings.Repeat("αβγ", 500) {
		t.Error("chunks do not reassemble the paste")
	}
}

func TestAbandonDropsBuffer(t *testing.T) {
	s := newTestSession(t, MinChunkBytes)
	s.Begin()
	s.Write("secret")
	s.Abandon()
	if s.State() != Idle || s.Buffered() != 0 {
		t.Error("Abandon should reset the session")
	}
	if s.Stats().Abandoned != 1 {
		t.Errorf("Abandoned = %d", s.Stats().Abandoned)
	}
}

func TestLogsCarryNoContent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := NewSession(MinChunkBytes, logger)
	if err != nil {
		t.Fatal(err)
	}

	secret := strings.Repeat("hunter2-", 20)
	s.Begin()
	s.Write(secret)
	s.End()
	s.End()

	if strings.Contains(buf.String(), "hunter2") {
		t.Errorf("paste content leaked into logs:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "chunk_len") {
		t.Error("expected chunk_len metadata in logs")
	}
}

// graphemePieces are fragments chosen to stress cluster boundaries.
var graphemePieces = []string{
	"a", "Z", " ", "\n", "\r\n",
	"\u03ac",       // precomposed alpha with tonos
	"\u03b1\u0301", // alpha + combining acute
	"e\u0301\u0302",
	"\U0001F468\u200d\U0001F469\u200d\U0001F467\u200d\U0001F466", // family
	"\U0001F44D\U0001F3FD",                                       // thumbs up, skin tone
	"\U0001F1EC\U0001F1F7",                                       // flag GR
	"\U0001F1EF\U0001F1F5\U0001F1FA\U0001F1F8",                   // flags JP US
	"\u200d", "\u0301",
	"\u263a\ufe0f",
	"\u03ba\u03b1\u03bb\u03ae",
	"\U0001F642",
	"\uac01",             // precomposed hangul
	"\u1100\u1161\u11a8", // conjoining jamo
}

func TestGraphemeSafetyProperty(t *testing.T) {
	f := func(seed int64, n uint8, thr uint8) bool {
		rng := rand.New(rand.NewSource(seed))
		threshold := MinChunkBytes + int(thr)

		var sb strings.Builder
		for i := 0; i < int(n)+1; i++ {
			sb.WriteString(graphemePieces[rng.Intn(len(graphemePieces))])
		}
		input := sb.String()

		s, err := NewSession(threshold, nil)
		if err != nil {
			return false
		}
		evs := s.Begin()
		for rest := input; len(rest) > 0; {
			cut := 1 + rng.Intn(len(rest))
			for cut < len(rest) && !utf8.RuneStart(rest[cut]) {
				cut++
			}
			evs = append(evs, s.Write(rest[:cut])...)
			rest = rest[cut:]
		}
		evs = append(evs, s.End()...)

		if evs[0].Kind() != event.KindPasteStart || evs[len(evs)-1].Kind() != event.KindPasteEnd {
			return false
		}

		boundaries := map[int]bool{0: true}
		off := 0
		state := -1
		for rest := input; len(rest) > 0; {
			var c string
			c, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
			off += len(c)
			boundaries[off] = true
		}

		var got strings.Builder
		for _, c := range chunksOf(evs) {
			if c == "" {
				return false
			}
			got.WriteString(c)
			if !boundaries[got.Len()] {
				return false
			}
		}
		return got.String() == input
	}

	if err := quick.Check(f, &quick.Config{MaxCount: 300}); err != nil {
		t.Error(err)
	}
}
