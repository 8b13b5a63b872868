package token_test

import (
	"testing"

	"github.com/timbarnes/tforth/internal/mem"
	"github.com/timbarnes/tforth/internal/token"
)

// fakeSource replays a fixed list of lines, like a file being INCLUDE-FILEd.
type fakeSource struct {
	lines []string
	i     int
}

func (f *fakeSource) ReadLine(prompt string, continuation bool) (string, bool) {
	if f.i >= len(f.lines) {
		return "", false
	}
	line := f.lines[f.i]
	f.i++
	return line, true
}

func (f *fakeSource) ReadChar() (rune, bool) { return 0, false }

func collect(t *testing.T, lines []string) []token.Token {
	t.Helper()
	m := mem.New()
	tz := token.New(m, &fakeSource{lines: lines})
	var out []token.Token
	for {
		tok, ok := tz.Next("ok> ")
		if !ok {
			return out
		}
		out = append(out, tok)
	}
}

func TestOperatorsAndIntegers(t *testing.T) {
	toks := collect(t, []string{"dup 1 2 + swap\n"})
	if len(toks) != 5 {
		t.Fatalf("expected 5 tokens, got %d: %v", len(toks), toks)
	}
	if toks[0].Kind != token.Operator || toks[0].Text != "dup" {
		t.Errorf("token 0: %+v", toks[0])
	}
	if toks[1].Kind != token.Integer || toks[1].Int != 1 {
		t.Errorf("token 1: %+v", toks[1])
	}
	if toks[3].Kind != token.Operator || toks[3].Text != "+" {
		t.Errorf("token 3: %+v", toks[3])
	}
}

func TestNegativeIntegerAndFloat(t *testing.T) {
	toks := collect(t, []string{"-5 3.25\n"})
	if len(toks) != 2 {
		t.Fatalf("expected 2 tokens, got %d: %v", len(toks), toks)
	}
	if toks[0].Kind != token.Integer || toks[0].Int != -5 {
		t.Errorf("token 0: %+v", toks[0])
	}
	if toks[1].Kind != token.Float || toks[1].Float != 3.25 {
		t.Errorf("token 1: %+v", toks[1])
	}
}

func TestJumpWords(t *testing.T) {
	toks := collect(t, []string{"if 1 else 2 then\n"})
	if toks[0].Kind != token.Jump || toks[0].Text != "if" {
		t.Errorf("token 0: %+v", toks[0])
	}
	if toks[2].Kind != token.Jump || toks[2].Text != "else" {
		t.Errorf("token 2: %+v", toks[2])
	}
	if toks[4].Kind != token.Jump || toks[4].Text != "then" {
		t.Errorf("token 4: %+v", toks[4])
	}
}

func TestParenComment(t *testing.T) {
	toks := collect(t, []string{"1 ( a comment ) 2\n"})
	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens, got %d: %v", len(toks), toks)
	}
	if toks[1].Kind != token.Forward || toks[1].Text != "(" {
		t.Fatalf("token 1: %+v", toks[1])
	}
	if toks[1].Tail != "a comment" {
		t.Errorf("comment tail: expected %q, got %q", "a comment", toks[1].Tail)
	}
}

func TestDotQuoteString(t *testing.T) {
	toks := collect(t, []string{`." hello world" cr` + "\n"})
	if toks[0].Kind != token.Forward || toks[0].Text != `."` {
		t.Fatalf("token 0: %+v", toks[0])
	}
	if toks[0].Tail != "hello world" {
		t.Errorf("string tail: expected %q, got %q", "hello world", toks[0].Tail)
	}
	if toks[1].Kind != token.Operator || toks[1].Text != "cr" {
		t.Errorf("token 1: %+v", toks[1])
	}
}

func TestBackslashCommentConsumesRestOfLine(t *testing.T) {
	toks := collect(t, []string{"1 \\ trailing comment\n", "2\n"})
	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens, got %d: %v", len(toks), toks)
	}
	if toks[1].Kind != token.Forward || toks[1].Text != `\` {
		t.Fatalf("token 1: %+v", toks[1])
	}
	if toks[2].Kind != token.Integer || toks[2].Int != 2 {
		t.Errorf("token 2 (next line): %+v", toks[2])
	}
}

func TestVariableHeadTakesNextWordAsTail(t *testing.T) {
	toks := collect(t, []string{"variable counter\n"})
	if len(toks) != 1 {
		t.Fatalf("expected 1 token, got %d: %v", len(toks), toks)
	}
	if toks[0].Kind != token.Forward || toks[0].Text != "variable" || toks[0].Tail != "counter" {
		t.Errorf("token 0: %+v", toks[0])
	}
}

func TestForwardSpansMultipleLines(t *testing.T) {
	toks := collect(t, []string{"( unterminated on one line\n", "and closed on the next )\n", "3\n"})
	if len(toks) != 2 {
		t.Fatalf("expected 2 tokens, got %d: %v", len(toks), toks)
	}
	if toks[0].Kind != token.Forward || toks[0].Text != "(" {
		t.Fatalf("token 0: %+v", toks[0])
	}
	if toks[1].Kind != token.Integer || toks[1].Int != 3 {
		t.Errorf("token 1: %+v", toks[1])
	}
}

func TestUnterminatedForwardAtEndOfStream(t *testing.T) {
	toks := collect(t, []string{`s" never closed` + "\n"})
	if len(toks) != 1 {
		t.Fatalf("expected the partial tail as a single token, got %d: %v", len(toks), toks)
	}
	if toks[0].Kind != token.Forward || toks[0].Text != `s"` {
		t.Fatalf("token 0: %+v", toks[0])
	}
}

func TestEmptyStreamReportsEOF(t *testing.T) {
	m := mem.New()
	tz := token.New(m, &fakeSource{})
	if _, ok := tz.Next("ok> "); ok {
		t.Fatal("expected immediate EOF on an empty source")
	}
}
