package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dshills/keyflow/internal/input"
	"github.com/dshills/keyflow/internal/input/key"
)

var t0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestReplay(t *testing.T) {
	script := `
# move and delete
5j dd
"ayy
g @+1500
`
	tr := input.NewTranslator(input.TranslatorConfig{})
	rec := &input.Recorder{}

	res, err := Replay(strings.NewReader(script), tr, rec, t0)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}

	want := []string{"cursor.moveDown", "editor.deleteLine", "editor.yankLine", input.ActionLiteral}
	if got := rec.Names(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("actions = %v, want %v", got, want)
	}
	if len(res.Actions) != len(want) {
		t.Errorf("result holds %d actions, want %d", len(res.Actions), len(want))
	}
	if res.Keys != 8 || res.Flushes != 1 {
		t.Errorf("Keys = %d, Flushes = %d; want 8, 1", res.Keys, res.Flushes)
	}
	if !res.End.Equal(t0.Add(1500 * time.Millisecond)) {
		t.Errorf("End = %v", res.End)
	}
	if !res.Pending.IsEmpty() {
		t.Errorf("Pending = %q, want empty", res.Pending)
	}

	lit := res.Actions[3]
	if lit.Source != input.SourceFlush || !lit.Args.Keys.Equals(key.Sequence{key.Char('g')}) {
		t.Errorf("literal = %+v", lit)
	}
}

func TestReplayShortWaitDoesNotFlush(t *testing.T) {
	tr := input.NewTranslator(input.TranslatorConfig{})

	res, err := Replay(strings.NewReader("3d @+200"), tr, nil, t0)
	if err != nil {
		t.Fatal(err)
	}
	if res.Flushes != 0 || len(res.Actions) != 0 {
		t.Errorf("unexpected flush: %+v", res)
	}
	if res.Pending.String() != "3d" || res.Pending.Count != 3 {
		t.Errorf("Pending = %q (count %d), want 3d", res.Pending, res.Pending.Count)
	}
}

func TestReplayErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		line   int
		token  string
		is     error
	}{
		{"bad advance", "j\n@+soon", 2, "@+soon", errBadAdvance},
		{"negative advance", "@+-5", 1, "@+-5", errBadAdvance},
		{"bad key", "j <Hyper-a>", 1, "<Hyper-a>", key.ErrInvalidSpec},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := input.NewTranslator(input.TranslatorConfig{})
			_, err := Replay(strings.NewReader(tt.script), tr, nil, t0)

			var rerr *ReplayError
			if !errors.As(err, &rerr) {
				t.Fatalf("Replay() = %v, want *ReplayError", err)
			}
			if rerr.Line != tt.line || rerr.Token != tt.token {
				t.Errorf("ReplayError = line %d token %q, want line %d token %q", rerr.Line, rerr.Token, tt.line, tt.token)
			}
			if !errors.Is(err, tt.is) {
				t.Errorf("error %v should wrap %v", err, tt.is)
			}
		})
	}
}

func TestFormatAction(t *testing.T) {
	tests := []struct {
		action input.Action
		want   string
	}{
		{
			input.Action{Name: "cursor.moveDown", Count: 5},
			"cursor.moveDown count=5",
		},
		{
			input.Action{Name: "editor.yankLine", Args: input.ActionArgs{Register: 'a', Linewise: true}},
			"editor.yankLine register='a' linewise",
		},
		{
			input.Action{Name: "operator.delete", Count: 6, Args: input.ActionArgs{Motion: "cursor.wordForward"}},
			"operator.delete count=6 motion=cursor.wordForward",
		},
		{
			input.Action{Name: "operator.change", Args: input.ActionArgs{TextObject: "textobj.innerWord"}},
			"operator.change object=textobj.innerWord",
		},
		{
			input.Action{Name: "paste.insert", Source: input.SourcePaste, Args: input.ActionArgs{Text: "secret"}},
			"paste.insert text_len=6 source=paste",
		},
		{
			input.Action{Name: input.ActionLiteral, Source: input.SourceFlush, Args: input.ActionArgs{Keys: key.MustParseSequence("g")}},
			"input.literal keys=1 source=flush",
		},
	}

	for _, tt := range tests {
		if got := FormatAction(tt.action); got != tt.want {
			t.Errorf("FormatAction() = %q, want %q", got, tt.want)
		}
	}
}
