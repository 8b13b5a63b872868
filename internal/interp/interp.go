package interp

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/timbarnes/tforth/internal/compiler"
	"github.com/timbarnes/tforth/internal/forthio"
	"github.com/timbarnes/tforth/internal/mem"
)

// ErrAborted is returned by Run/Execute when abort? was set mid-execution;
// the outer loop's QUIT recovers from it rather than treating it as fatal.
var ErrAborted = errors.New("aborted")

// ErrBye is returned when the bye builtin runs; the outer loop and cmd
// front end treat it as a clean, successful exit request.
var ErrBye = errors.New("bye")

// Builtin is one primitive's implementation.
type Builtin func(it *Interp) error

// Interp is the inner interpreter: the opcode dispatch loop plus the
// builtin table it calls into. It holds no tokenizing or compiling logic
// of its own (spec §4.5).
type Interp struct {
	Mem    *mem.Memory
	Stdout io.Writer
	Sink   forthio.MessageSink
	Src    forthio.LineSource

	// RunSource drives a full outer-loop pass (tokenize, compile-or-execute
	// every line) over an alternate input source. It is nil until the
	// owning forth.Engine wires it up, since interp has no tokenizer or
	// compiler of its own; include-file uses it to load a file.
	RunSource func(forthio.LineSource) error

	// EndDefinition closes the colon definition currently being compiled.
	// It is nil until the owning forth.Engine wires it up, since interp
	// holds no compiler of its own; the ";" builtin uses it.
	EndDefinition func() (mem.Cell, error)

	builtins []Builtin
	names    []string

	debugLevel forthio.Level
	stepping   bool
	including  bool
}

// New creates an Interp and registers the full builtin table (spec §4.6),
// leaving Mem's dictionary populated with one BUILTIN entry per primitive.
func New(m *mem.Memory, stdout io.Writer, sink forthio.MessageSink, src forthio.LineSource) *Interp {
	it := &Interp{Mem: m, Stdout: stdout, Sink: sink, Src: src, debugLevel: forthio.LevelWarning}
	it.registerBuiltins()
	return it
}

// DebugLevel reports the diagnostic verbosity level last set.
func (it *Interp) DebugLevel() forthio.Level { return it.debugLevel }

// SetDebugLevel records the diagnostic verbosity level (the debuglevel
// builtin). Interp only stores the value for DebugLevel; messages are
// filtered by the MessageSink's own floor, which this call does not change.
func (it *Interp) SetDebugLevel(l forthio.Level) { it.debugLevel = l }

// Stepping reports whether single-step tracing is enabled.
func (it *Interp) Stepping() bool { return it.stepping }

func (it *Interp) define(name string, fn Builtin) mem.Cell {
	idx := mem.Cell(len(it.builtins))
	it.builtins = append(it.builtins, fn)
	it.names = append(it.names, name)
	nfa, err := it.Mem.MakeEntry(name, mem.Builtin, idx)
	if err != nil {
		// The bootstrap dictionary region is sized generously (DictLimit);
		// running out while registering the fixed builtin table is not a
		// recoverable condition.
		panic(errors.Wrapf(err, "registering builtin %q", name))
	}
	it.Mem.CompleteLast()
	return nfa
}

// BuiltinName returns the name a builtin was registered under, for SEE and
// error messages.
func (it *Interp) BuiltinName(index mem.Cell) string {
	if index < 0 || int(index) >= len(it.names) {
		return "?"
	}
	return it.names[index]
}

func (it *Interp) callBuiltin(index mem.Cell) error {
	if index < 0 || int(index) >= len(it.builtins) {
		return errors.Errorf("bad builtin index %d", index)
	}
	return it.builtins[index](it)
}

// Execute dispatches on the kind cell of the entry at nfa, per spec §4.5's
// EXECUTE primitive.
func (it *Interp) Execute(nfa mem.Cell) error {
	switch it.Mem.EntryKind(nfa) {
	case mem.Builtin:
		return it.callBuiltin(it.Mem.Payload(nfa, 0))
	case mem.Variable:
		return it.Mem.Push(it.Mem.PayloadAddr(nfa, 0))
	case mem.Constant, mem.Literal, mem.String:
		return it.Mem.Push(it.Mem.Payload(nfa, 0))
	case mem.Definition:
		return it.Run(it.Mem.PayloadAddr(nfa, 0))
	default:
		return errors.Errorf("unexecutable entry kind %v", it.Mem.EntryKind(nfa))
	}
}

// Run drives the opcode dispatch loop starting at pc (a definition body's
// first instruction) until that call frame returns, i.e. until the return
// stack unwinds back to the depth it had on entry. CALL_WORD nests by
// changing pc and pushing a resume address rather than recursing in Go, so
// one Run call drives an entire chain of Forth-level calls (spec §4.5:
// "a call chain therefore forms a spaghetti stack on the return stack").
func (it *Interp) Run(pc mem.Cell) error {
	baseDepth := it.Mem.RDepth()
	for {
		if it.Mem.Aborting() {
			return ErrAborted
		}
		tag, err := it.Mem.ReadCell(pc)
		if err != nil {
			return err
		}
		arg, err := it.Mem.ReadCell(pc + 1)
		if err != nil {
			return err
		}
		pc += compiler.InstrWidth

		if it.stepping {
			it.Sink.Debug("step", compiler.Op(tag).String(), arg)
		}

		switch compiler.Op(tag) {
		case compiler.OpLiteral, compiler.OpPushStringAddr:
			if err := it.Mem.Push(arg); err != nil {
				return err
			}

		case compiler.OpPrintString:
			fmt.Fprint(it.Stdout, it.Mem.StringAt(arg))

		case compiler.OpCallBuiltin:
			if err := it.callBuiltin(arg); err != nil {
				return err
			}

		case compiler.OpCallWord:
			if err := it.Mem.RPush(pc); err != nil {
				return err
			}
			pc = it.Mem.PayloadAddr(arg, 0)

		case compiler.OpPushVarAddr:
			if err := it.Mem.Push(it.Mem.PayloadAddr(arg, 0)); err != nil {
				return err
			}

		case compiler.OpPushConstantValue:
			if err := it.Mem.Push(it.Mem.Payload(arg, 0)); err != nil {
				return err
			}

		case compiler.OpJIf:
			pred, err := it.Mem.Pop()
			if err != nil {
				return err
			}
			if pred == 0 {
				pc += arg
			}

		case compiler.OpJElse:
			pc += arg

		case compiler.OpJThen:
			// no-op: the landing pad a jump targets.

		case compiler.OpJFor:
			n, err := it.Mem.Pop()
			if err != nil {
				return err
			}
			if n <= 0 {
				pc += arg
			} else if err := it.Mem.RPush(n - 1); err != nil {
				return err
			}

		case compiler.OpJNext:
			n, err := it.Mem.RPop()
			if err != nil {
				return err
			}
			if n > 0 {
				if err := it.Mem.RPush(n - 1); err != nil {
					return err
				}
				pc -= arg
			}

		case compiler.OpEnd:
			if it.Mem.RDepth() <= baseDepth {
				return nil
			}
			pc, err = it.Mem.RPop()
			if err != nil {
				return err
			}

		default:
			return errors.Errorf("bad opcode %d at dictionary address %d", tag, pc-compiler.InstrWidth)
		}
	}
}
