package compiler_test

import (
	"testing"

	"github.com/timbarnes/tforth/internal/compiler"
	"github.com/timbarnes/tforth/internal/mem"
)

// instrAt decodes the record at dictionary address addr.
func instrAt(m *mem.Memory, addr mem.Cell) compiler.Instr {
	tag, _ := m.ReadCell(addr)
	arg, _ := m.ReadCell(addr + 1)
	return compiler.Instr{Op: compiler.Op(tag), Arg: arg}
}

func TestIfThenOffsetLandsOnThen(t *testing.T) {
	m := mem.New()
	c := compiler.New(m)

	nfa, err := c.Begin("t")
	if err != nil {
		t.Fatal(err)
	}
	if err := c.CompileJump("if"); err != nil {
		t.Fatal(err)
	}
	c.CompileLiteral(1)
	if err := c.CompileJump("then"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.End(); err != nil {
		t.Fatal(err)
	}

	body := m.PayloadAddr(nfa, 0)
	ifInstr := instrAt(m, body)
	if ifInstr.Op != compiler.OpJIf {
		t.Fatalf("expected J_IF at body[0], got %v", ifInstr.Op)
	}
	// Record 0 is J_IF, record 1 is LITERAL, record 2 is J_THEN: the
	// instruction delta from J_IF to J_THEN (2) is stored in cell units
	// (InstrWidth per instruction). The interpreter adds it to the pc that
	// has already advanced past J_IF, so a false predicate resumes just
	// after J_THEN.
	if ifInstr.Arg != 2*compiler.InstrWidth {
		t.Errorf("expected J_IF offset %d (landing on J_THEN), got %d", 2*compiler.InstrWidth, ifInstr.Arg)
	}
	thenInstr := instrAt(m, body+2*compiler.InstrWidth)
	if thenInstr.Op != compiler.OpJThen {
		t.Fatalf("expected J_THEN at record 2, got %v", thenInstr.Op)
	}
}

func TestIfElseThen(t *testing.T) {
	m := mem.New()
	c := compiler.New(m)

	nfa, err := c.Begin("t")
	if err != nil {
		t.Fatal(err)
	}
	c.CompileJump("if")              // record 0
	c.CompileLiteral(1)              // record 1
	c.CompileJump("else")            // record 2
	c.CompileLiteral(2)              // record 3
	c.CompileJump("then")            // record 4
	if _, err := c.End(); err != nil {
		t.Fatal(err)
	}

	body := m.PayloadAddr(nfa, 0)
	ifInstr := instrAt(m, body)
	if ifInstr.Op != compiler.OpJIf || ifInstr.Arg != 2*compiler.InstrWidth {
		t.Errorf("J_IF: expected offset to record 2 (else), got %+v", ifInstr)
	}
	elseInstr := instrAt(m, body+2*compiler.InstrWidth)
	if elseInstr.Op != compiler.OpJElse || elseInstr.Arg != 2*compiler.InstrWidth {
		t.Errorf("J_ELSE: expected offset to record 4 (then), got %+v", elseInstr)
	}
}

func TestForNextOffsets(t *testing.T) {
	m := mem.New()
	c := compiler.New(m)

	nfa, err := c.Begin("c")
	if err != nil {
		t.Fatal(err)
	}
	c.CompileJump("for")    // record 0
	c.CompileBuiltin(7)     // record 1, e.g. i
	c.CompileJump("next")   // record 2
	if _, err := c.End(); err != nil {
		t.Fatal(err)
	}

	body := m.PayloadAddr(nfa, 0)
	forInstr := instrAt(m, body)
	if forInstr.Op != compiler.OpJFor || forInstr.Arg != 2*compiler.InstrWidth {
		t.Errorf("J_FOR: expected offset %d, got %+v", 2*compiler.InstrWidth, forInstr)
	}
	nextInstr := instrAt(m, body+2*compiler.InstrWidth)
	if nextInstr.Op != compiler.OpJNext || nextInstr.Arg != 2*compiler.InstrWidth {
		t.Errorf("J_NEXT: expected offset %d (jumps back to the instruction after for), got %+v", 2*compiler.InstrWidth, nextInstr)
	}
}

func TestUnmatchedIfIsCompileError(t *testing.T) {
	m := mem.New()
	c := compiler.New(m)

	hereBefore := m.Here()
	if _, err := c.Begin("bad"); err != nil {
		t.Fatal(err)
	}
	if err := c.CompileJump("if"); err != nil {
		t.Fatal(err)
	}
	c.CompileLiteral(42)
	if _, err := c.End(); err == nil {
		t.Fatal("expected an unmatched-control-flow error")
	}
	if m.Here() != hereBefore {
		t.Errorf("expected HERE rolled back to %d, got %d", hereBefore, m.Here())
	}
	if m.Compiling() {
		t.Error("expected compile? cleared after a discarded definition")
	}
}

func TestDefinitionIsFindableAfterEnd(t *testing.T) {
	m := mem.New()
	c := compiler.New(m)

	if _, err := c.Begin("sq"); err != nil {
		t.Fatal(err)
	}
	c.CompileBuiltin(3)
	if _, err := c.End(); err != nil {
		t.Fatal(err)
	}
	nfa, ok := m.Find("sq")
	if !ok {
		t.Fatal("expected sq to be findable after ;")
	}
	if m.EntryKind(nfa) != mem.Definition {
		t.Errorf("expected kind DEFINITION, got %v", m.EntryKind(nfa))
	}
}

func TestElseWithoutIfIsAnError(t *testing.T) {
	m := mem.New()
	c := compiler.New(m)
	if _, err := c.Begin("bad"); err != nil {
		t.Fatal(err)
	}
	if err := c.CompileJump("else"); err == nil {
		t.Fatal("expected an error compiling else without a matching if")
	}
}
