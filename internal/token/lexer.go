package token

import (
	"strconv"
	"strings"

	"github.com/timbarnes/tforth/internal/forthio"
	"github.com/timbarnes/tforth/internal/mem"
)

// Tokenizer produces one token per call to Next, caching the remainder of
// the current line in the shared TIB/>IN registers between calls (spec
// §4.1).
type Tokenizer struct {
	mem *mem.Memory
	src forthio.LineSource
	eof bool
}

// New creates a Tokenizer reading from src and sharing m's TIB/>IN/#TIB/
// BASE registers.
func New(m *mem.Memory, src forthio.LineSource) *Tokenizer {
	return &Tokenizer{mem: m, src: src}
}

func isSeparator(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func (t *Tokenizer) atEnd() bool {
	return int(t.mem.Register(mem.RegToIn)) >= int(t.mem.Register(mem.RegNTIB))
}

func (t *Tokenizer) refill(prompt string, continuation bool) bool {
	line, ok := t.src.ReadLine(prompt, continuation)
	if !ok {
		return false
	}
	t.mem.SetTIB(line)
	return true
}

func (t *Tokenizer) skipSeparators() {
	tib := t.mem.TIB()
	ntib := int(t.mem.Register(mem.RegNTIB))
	in := int(t.mem.Register(mem.RegToIn))
	for in < ntib && isSeparator(tib[in]) {
		in++
	}
	t.mem.SetRegister(mem.RegToIn, mem.Cell(in))
}

// readWord reads one whitespace-delimited token starting at the current
// >IN without crossing a line boundary. Callers must ensure !atEnd first.
func (t *Tokenizer) readWord() string {
	tib := t.mem.TIB()
	ntib := int(t.mem.Register(mem.RegNTIB))
	start := int(t.mem.Register(mem.RegToIn))
	i := start
	for i < ntib && !isSeparator(tib[i]) {
		i++
	}
	t.mem.SetRegister(mem.RegToIn, mem.Cell(i))
	return tib[start:i]
}

// readRawUntil reads raw characters (separators included) until term is
// found, transparently pulling in continuation lines if the current one
// runs out first (spec §4.1: "the tail may span multiple lines"). If the
// line source reaches end-of-stream before term appears, it returns the
// partial tail collected so far and found=false.
func (t *Tokenizer) readRawUntil(term byte) (string, bool) {
	var sb strings.Builder
	for {
		tib := t.mem.TIB()
		ntib := int(t.mem.Register(mem.RegNTIB))
		in := int(t.mem.Register(mem.RegToIn))
		for in < ntib {
			c := tib[in]
			in++
			if c == term {
				t.mem.SetRegister(mem.RegToIn, mem.Cell(in))
				return sb.String(), true
			}
			sb.WriteByte(c)
		}
		t.mem.SetRegister(mem.RegToIn, mem.Cell(in))
		if !t.refill("  ", true) {
			return sb.String(), false
		}
	}
}

func parseInt(word string, base int) (int64, bool) {
	if word == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(word, base, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseFloat(word string) (float64, bool) {
	f, err := strconv.ParseFloat(word, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Next returns the next token, or ok=false at true end-of-stream (a prior
// unterminated Forward tail having already been delivered as a final,
// partial token).
func (t *Tokenizer) Next(promptHint string) (Token, bool) {
	if t.eof {
		return Token{}, false
	}
	for {
		t.skipSeparators()
		if !t.atEnd() {
			break
		}
		if !t.refill(promptHint, false) {
			t.eof = true
			return Token{}, false
		}
	}

	word := t.readWord()

	switch {
	case word == "(":
		tail, found := t.readRawUntil(')')
		if !found {
			t.eof = true
		}
		return Token{Kind: Forward, Text: word, Tail: strings.TrimSpace(tail)}, true

	case word == `s"` || word == `."`:
		if !t.atEnd() && t.mem.TIB()[t.mem.Register(mem.RegToIn)] == ' ' {
			t.mem.SetRegister(mem.RegToIn, t.mem.Register(mem.RegToIn)+1)
		}
		tail, found := t.readRawUntil('"')
		if !found {
			t.eof = true
		}
		return Token{Kind: Forward, Text: word, Tail: tail}, true

	case word == `\`:
		tail, _ := t.readRawUntil('\n')
		return Token{Kind: Forward, Text: word, Tail: tail}, true

	case wordTerminatedHeads[word]:
		t.skipSeparators()
		if t.atEnd() {
			if !t.refill(promptHint, true) {
				t.eof = true
				return Token{Kind: Forward, Text: word, Tail: ""}, true
			}
			t.skipSeparators()
		}
		return Token{Kind: Forward, Text: word, Tail: t.readWord()}, true

	case jumpWords[word]:
		return Token{Kind: Jump, Text: word}, true

	default:
		if n, ok := parseInt(word, int(t.mem.Base())); ok {
			return Token{Kind: Integer, Int: n}, true
		}
		if f, ok := parseFloat(word); ok {
			return Token{Kind: Float, Float: f}, true
		}
		return Token{Kind: Operator, Text: word}, true
	}
}
