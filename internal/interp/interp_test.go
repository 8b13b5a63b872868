package interp_test

import (
	"bytes"
	"testing"

	"github.com/timbarnes/tforth/internal/compiler"
	"github.com/timbarnes/tforth/internal/forthio"
	"github.com/timbarnes/tforth/internal/interp"
	"github.com/timbarnes/tforth/internal/mem"
)

func assertEqualI(t *testing.T, name string, expected, got int) {
	t.Helper()
	if expected != got {
		t.Errorf("%s: expected %d, got %d", name, expected, got)
	}
}

func newInterp(out *bytes.Buffer) (*mem.Memory, *interp.Interp) {
	m := mem.New()
	it := interp.New(m, out, forthio.NopSink{}, eofSource{})
	return m, it
}

type eofSource struct{}

func (eofSource) ReadLine(prompt string, continuation bool) (string, bool) { return "", false }
func (eofSource) ReadChar() (rune, bool)                                   { return 0, false }

func findBuiltin(t *testing.T, m *mem.Memory, name string) mem.Cell {
	t.Helper()
	nfa, ok := m.Find(name)
	if !ok {
		t.Fatalf("builtin %q not registered", name)
	}
	return m.Payload(nfa, 0)
}

// begin opens a definition via a fresh Compiler and returns both, so each
// test can compile a body by hand and then run it through Interp.Execute.
func begin(t *testing.T, m *mem.Memory, name string) (*compiler.Compiler, mem.Cell) {
	t.Helper()
	c := compiler.New(m)
	nfa, err := c.Begin(name)
	if err != nil {
		t.Fatal(err)
	}
	return c, nfa
}

func TestArithmeticBuiltins(t *testing.T) {
	var out bytes.Buffer
	m, it := newInterp(&out)

	c, nfa := begin(t, m, "t")
	c.CompileLiteral(3)
	c.CompileLiteral(4)
	c.CompileBuiltin(findBuiltin(t, m, "+"))
	c.CompileBuiltin(findBuiltin(t, m, "."))
	if _, err := c.End(); err != nil {
		t.Fatal(err)
	}

	if err := it.Execute(nfa); err != nil {
		t.Fatal(err)
	}
	if out.String() != "7 " {
		t.Errorf("expected %q, got %q", "7 ", out.String())
	}
}

func TestDivideByZero(t *testing.T) {
	var out bytes.Buffer
	m, it := newInterp(&out)

	c, nfa := begin(t, m, "t")
	c.CompileLiteral(1)
	c.CompileLiteral(0)
	c.CompileBuiltin(findBuiltin(t, m, "/"))
	if _, err := c.End(); err != nil {
		t.Fatal(err)
	}

	if err := it.Execute(nfa); err == nil {
		t.Fatal("expected divide-by-zero error")
	}
}

func TestVariableStoreFetch(t *testing.T) {
	var out bytes.Buffer
	m, it := newInterp(&out)

	vnfa, err := m.MakeEntry("v", mem.Variable, 0)
	if err != nil {
		t.Fatal(err)
	}
	m.CompleteLast()

	c, nfa := begin(t, m, "t")
	c.CompileLiteral(99)
	c.CompileVarAddr(vnfa)
	c.CompileBuiltin(findBuiltin(t, m, "!"))
	c.CompileVarAddr(vnfa)
	c.CompileBuiltin(findBuiltin(t, m, "@"))
	c.CompileBuiltin(findBuiltin(t, m, "."))
	if _, err := c.End(); err != nil {
		t.Fatal(err)
	}

	if err := it.Execute(nfa); err != nil {
		t.Fatal(err)
	}
	if out.String() != "99 " {
		t.Errorf("expected %q, got %q", "99 ", out.String())
	}
}

func TestForNextLoopDrivesFullCount(t *testing.T) {
	var out bytes.Buffer
	m, it := newInterp(&out)

	c, nfa := begin(t, m, "c")
	c.CompileLiteral(5)
	if err := c.CompileJump("for"); err != nil {
		t.Fatal(err)
	}
	c.CompileBuiltin(findBuiltin(t, m, "i"))
	c.CompileBuiltin(findBuiltin(t, m, "."))
	if err := c.CompileJump("next"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.End(); err != nil {
		t.Fatal(err)
	}

	if err := it.Execute(nfa); err != nil {
		t.Fatal(err)
	}
	if out.String() != "4 3 2 1 0 " {
		t.Errorf("expected %q, got %q", "4 3 2 1 0 ", out.String())
	}
	assertEqualI(t, "return stack depth after loop", 0, m.RDepth())
}

func TestForSkipsBodyEntirelyOnZeroCount(t *testing.T) {
	var out bytes.Buffer
	m, it := newInterp(&out)

	c, nfa := begin(t, m, "c")
	c.CompileLiteral(0)
	if err := c.CompileJump("for"); err != nil {
		t.Fatal(err)
	}
	c.CompileBuiltin(findBuiltin(t, m, "i"))
	c.CompileBuiltin(findBuiltin(t, m, "."))
	if err := c.CompileJump("next"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.End(); err != nil {
		t.Fatal(err)
	}

	if err := it.Execute(nfa); err != nil {
		t.Fatal(err)
	}
	if out.String() != "" {
		t.Errorf("expected no output, got %q", out.String())
	}
	assertEqualI(t, "return stack depth after zero-count for", 0, m.RDepth())
}

func TestAbortResetsStackAndReportsErrAborted(t *testing.T) {
	var out bytes.Buffer
	m, it := newInterp(&out)

	if err := m.Push(1); err != nil {
		t.Fatal(err)
	}
	if err := m.Push(2); err != nil {
		t.Fatal(err)
	}

	c, nfa := begin(t, m, "t")
	c.CompileBuiltin(findBuiltin(t, m, "abort"))
	if _, err := c.End(); err != nil {
		t.Fatal(err)
	}

	err := it.Execute(nfa)
	if err != interp.ErrAborted {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	assertEqualI(t, "depth after abort", 0, m.Depth())
}

func TestSeeDecompilesADefinition(t *testing.T) {
	var out bytes.Buffer
	m, it := newInterp(&out)

	c, nfa := begin(t, m, "sq")
	c.CompileBuiltin(findBuiltin(t, m, "dup"))
	c.CompileBuiltin(findBuiltin(t, m, "*"))
	if _, err := c.End(); err != nil {
		t.Fatal(err)
	}

	it.See(nfa)
	if out.String() == "" {
		t.Fatal("expected a non-empty decompilation")
	}
}
