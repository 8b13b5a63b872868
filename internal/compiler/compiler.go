package compiler

import (
	"github.com/pkg/errors"

	"github.com/timbarnes/tforth/internal/mem"
)

// ErrUnmatchedControlFlow is the compile-time error raised when a
// definition closes with an if/else or for left open (spec §4.4, §7
// "Malformed definition").
var ErrUnmatchedControlFlow = errors.New("unmatched control-flow opener in definition")

// Compiler accumulates opcodes for one colon definition at a time and
// performs the single-pass branch fix-up described in spec §4.4. Resolving
// a token against the dictionary (FIND, kind dispatch) is the caller's
// job; Compiler only knows how to turn an already-resolved reference into
// opcodes.
type Compiler struct {
	mem *mem.Memory

	nfa         mem.Cell
	hereAtBegin mem.Cell
	prevContext mem.Cell

	body      []Instr
	condStack []int
	loopStack []int
}

// New creates a Compiler sharing m's dictionary and registers.
func New(m *mem.Memory) *Compiler { return &Compiler{mem: m} }

// Active reports whether a definition is currently being compiled.
func (c *Compiler) Active() bool { return c.mem.Compiling() }

// Begin opens a new colon definition named name, returning its name-field
// address. CONTEXT is updated immediately so the definition may call
// itself recursively before it is complete.
func (c *Compiler) Begin(name string) (mem.Cell, error) {
	c.prevContext = c.mem.Context()
	c.hereAtBegin = c.mem.Here()
	nfa, err := c.mem.MakeEntry(name, mem.Definition)
	if err != nil {
		return 0, err
	}
	c.nfa = nfa
	c.body = c.body[:0]
	c.condStack = c.condStack[:0]
	c.loopStack = c.loopStack[:0]
	c.mem.SetCompiling(true)
	return nfa, nil
}

func (c *Compiler) emit(op Op, arg mem.Cell) int {
	c.body = append(c.body, Instr{Op: op, Arg: arg})
	return len(c.body) - 1
}

// CompileLiteral emits LITERAL(n).
func (c *Compiler) CompileLiteral(n mem.Cell) { c.emit(OpLiteral, n) }

// CompileBuiltin emits CALL_BUILTIN(index).
func (c *Compiler) CompileBuiltin(index mem.Cell) { c.emit(OpCallBuiltin, index) }

// CompileWord emits CALL_WORD(nfa).
func (c *Compiler) CompileWord(nfa mem.Cell) { c.emit(OpCallWord, nfa) }

// CompileVarAddr emits PUSH_VAR_ADDR(nfa).
func (c *Compiler) CompileVarAddr(nfa mem.Cell) { c.emit(OpPushVarAddr, nfa) }

// CompileConstant emits PUSH_CONSTANT_VALUE(nfa).
func (c *Compiler) CompileConstant(nfa mem.Cell) { c.emit(OpPushConstantValue, nfa) }

// CompileStringLiteral stores text as a counted string and emits
// PUSH_STRING_ADDR(addr), for a compiled s" ...".
func (c *Compiler) CompileStringLiteral(text string) error {
	addr, err := c.mem.WriteCountedString(text)
	if err != nil {
		return err
	}
	c.emit(OpPushStringAddr, addr)
	return nil
}

// CompilePrintString stores text as a counted string and emits
// PRINT_STRING(addr), for a compiled ." ...".
func (c *Compiler) CompilePrintString(text string) error {
	addr, err := c.mem.WriteCountedString(text)
	if err != nil {
		return err
	}
	c.emit(OpPrintString, addr)
	return nil
}

// CompileJump appends one of if/else/then/for/next and performs the
// corresponding step of the single-pass branch fix-up (spec §4.4). Each
// opener is patched the moment its matching closer is compiled, so an
// unmatched opener is detectable simply by checking cond_stack/loop_stack
// at End.
func (c *Compiler) CompileJump(name string) error {
	switch name {
	case "if":
		c.emit(OpJIf, 0)
		c.condStack = append(c.condStack, len(c.body)-1)

	case "else":
		if len(c.condStack) == 0 {
			return errors.Wrap(ErrUnmatchedControlFlow, "else without if")
		}
		slot := c.condStack[len(c.condStack)-1]
		c.condStack = c.condStack[:len(c.condStack)-1]
		i := c.emit(OpJElse, 0)
		c.body[slot].Arg = mem.Cell(i - slot)
		c.condStack = append(c.condStack, i)

	case "then":
		if len(c.condStack) == 0 {
			return errors.Wrap(ErrUnmatchedControlFlow, "then without if")
		}
		slot := c.condStack[len(c.condStack)-1]
		c.condStack = c.condStack[:len(c.condStack)-1]
		i := c.emit(OpJThen, 0)
		c.body[slot].Arg = mem.Cell(i - slot)

	case "for":
		c.emit(OpJFor, 0)
		c.loopStack = append(c.loopStack, len(c.body)-1)

	case "next":
		if len(c.loopStack) == 0 {
			return errors.Wrap(ErrUnmatchedControlFlow, "next without for")
		}
		slot := c.loopStack[len(c.loopStack)-1]
		c.loopStack = c.loopStack[:len(c.loopStack)-1]
		i := c.emit(OpJNext, 0)
		c.body[slot].Arg = mem.Cell(i - slot)
		// next jumps back to the instruction right after for, not to for
		// itself: for only runs once, to pop the count and seed the return
		// stack; the backward distance is measured from next's own
		// post-advance pc (i+1) to that landing instruction (slot+1).
		c.body[i].Arg = mem.Cell(i - slot)

	default:
		return errors.Errorf("not a control-flow word: %q", name)
	}
	return nil
}

// NumInstr returns the number of instructions compiled so far, for tests.
func (c *Compiler) NumInstr() int { return len(c.body) }

// End finalizes the in-progress definition: validates that every opener
// was matched, appends the end-of-definition sentinel, flattens the body
// into the dictionary, and marks the entry complete (LAST = CONTEXT).
func (c *Compiler) End() (mem.Cell, error) {
	if len(c.condStack) > 0 || len(c.loopStack) > 0 {
		c.Discard()
		return 0, errors.Wrap(ErrUnmatchedControlFlow, "unterminated if/for at ;")
	}
	c.emit(OpEnd, 0)
	for _, ins := range c.body {
		arg := ins.Arg
		if isJump(ins.Op) {
			// Fix-up above computed offsets in instruction-count units;
			// pc advances in cell units (InstrWidth per instruction), so
			// scale before compiling the final cell.
			arg *= mem.Cell(InstrWidth)
		}
		if _, err := c.mem.EmitCell(mem.Cell(ins.Op)); err != nil {
			c.Discard()
			return 0, err
		}
		if _, err := c.mem.EmitCell(arg); err != nil {
			c.Discard()
			return 0, err
		}
	}
	c.mem.CompleteLast()
	c.mem.SetCompiling(false)
	return c.nfa, nil
}

// Discard abandons the in-progress definition, rolling HERE and CONTEXT
// back to their values before Begin and clearing compile? (spec §7
// "Malformed definition": error, discard definition, abort).
func (c *Compiler) Discard() {
	c.mem.SetRegister(mem.RegHere, c.hereAtBegin)
	c.mem.SetRegister(mem.RegContext, c.prevContext)
	c.mem.SetCompiling(false)
}
