package interp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/timbarnes/tforth/internal/compiler"
	"github.com/timbarnes/tforth/internal/forthio"
	"github.com/timbarnes/tforth/internal/mem"
)

// ErrDivideByZero is raised by / and mod on a zero divisor (spec §7).
var ErrDivideByZero = errors.New("divide by zero")

func (it *Interp) pop2() (a, b mem.Cell, err error) {
	b, err = it.Mem.Pop()
	if err != nil {
		return 0, 0, err
	}
	a, err = it.Mem.Pop()
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func (it *Interp) binary(f func(a, b mem.Cell) (mem.Cell, error)) error {
	a, b, err := it.pop2()
	if err != nil {
		return err
	}
	r, err := f(a, b)
	if err != nil {
		return err
	}
	return it.Mem.Push(r)
}

// registerBuiltins installs the primitive words as BUILTIN dictionary
// entries. The lookahead forms (:, variable, constant, see, ') and the
// control-flow words are not registered here; the tokenizer, the compiler
// and package forth handle them. Order only matters in that each entry's
// builtin index must match its position in it.builtins; name lookup is by
// string, not position, so the table below may grow freely.
func (it *Interp) registerBuiltins() {
	// Arithmetic
	it.define("+", func(it *Interp) error {
		return it.binary(func(a, b mem.Cell) (mem.Cell, error) { return a + b, nil })
	})
	it.define("-", func(it *Interp) error {
		return it.binary(func(a, b mem.Cell) (mem.Cell, error) { return a - b, nil })
	})
	it.define("*", func(it *Interp) error {
		return it.binary(func(a, b mem.Cell) (mem.Cell, error) { return a * b, nil })
	})
	it.define("/", func(it *Interp) error {
		return it.binary(func(a, b mem.Cell) (mem.Cell, error) {
			if b == 0 {
				return 0, ErrDivideByZero
			}
			return a / b, nil
		})
	})
	it.define("mod", func(it *Interp) error {
		return it.binary(func(a, b mem.Cell) (mem.Cell, error) {
			if b == 0 {
				return 0, ErrDivideByZero
			}
			return a % b, nil
		})
	})

	// Comparisons
	it.define("<", func(it *Interp) error {
		return it.binary(func(a, b mem.Cell) (mem.Cell, error) { return mem.Bool(a < b), nil })
	})
	it.define("=", func(it *Interp) error {
		return it.binary(func(a, b mem.Cell) (mem.Cell, error) { return mem.Bool(a == b), nil })
	})
	it.define("0=", func(it *Interp) error {
		v, err := it.Mem.Pop()
		if err != nil {
			return err
		}
		return it.Mem.Push(mem.Bool(v == 0))
	})
	it.define("0<", func(it *Interp) error {
		v, err := it.Mem.Pop()
		if err != nil {
			return err
		}
		return it.Mem.Push(mem.Bool(v < 0))
	})

	// Bitwise
	it.define("and", func(it *Interp) error {
		return it.binary(func(a, b mem.Cell) (mem.Cell, error) { return a & b, nil })
	})
	it.define("or", func(it *Interp) error {
		return it.binary(func(a, b mem.Cell) (mem.Cell, error) { return a | b, nil })
	})

	// Constants
	it.define("true", func(it *Interp) error { return it.Mem.Push(mem.True) })
	it.define("false", func(it *Interp) error { return it.Mem.Push(mem.False) })

	// Stack shuffles
	it.define("dup", func(it *Interp) error {
		v, err := it.Mem.Tos()
		if err != nil {
			return err
		}
		return it.Mem.Push(v)
	})
	it.define("drop", func(it *Interp) error {
		_, err := it.Mem.Pop()
		return err
	})
	it.define("swap", func(it *Interp) error {
		a, b, err := it.pop2()
		if err != nil {
			return err
		}
		if err := it.Mem.Push(b); err != nil {
			return err
		}
		return it.Mem.Push(a)
	})
	it.define("over", func(it *Interp) error {
		v, err := it.Mem.Nos()
		if err != nil {
			return err
		}
		return it.Mem.Push(v)
	})
	it.define("rot", func(it *Interp) error {
		c, err := it.Mem.Pop()
		if err != nil {
			return err
		}
		b, err := it.Mem.Pop()
		if err != nil {
			return err
		}
		a, err := it.Mem.Pop()
		if err != nil {
			return err
		}
		if err := it.Mem.Push(b); err != nil {
			return err
		}
		if err := it.Mem.Push(c); err != nil {
			return err
		}
		return it.Mem.Push(a)
	})

	// Return stack transfer
	it.define(">r", func(it *Interp) error {
		v, err := it.Mem.Pop()
		if err != nil {
			return err
		}
		return it.Mem.RPush(v)
	})
	it.define("r>", func(it *Interp) error {
		v, err := it.Mem.RPop()
		if err != nil {
			return err
		}
		return it.Mem.Push(v)
	})
	it.define("r@", func(it *Interp) error {
		v, err := it.Mem.RTos()
		if err != nil {
			return err
		}
		return it.Mem.Push(v)
	})

	// Raw memory access
	it.define("@", func(it *Interp) error {
		addr, err := it.Mem.Pop()
		if err != nil {
			return err
		}
		v, err := it.Mem.ReadCell(addr)
		if err != nil {
			return err
		}
		return it.Mem.Push(v)
	})
	it.define("!", func(it *Interp) error {
		v, addr, err := it.pop2()
		if err != nil {
			return err
		}
		return it.Mem.WriteCell(addr, v)
	})

	// Output
	it.define(".", func(it *Interp) error {
		v, err := it.Mem.Pop()
		if err != nil {
			return err
		}
		fmt.Fprintf(it.Stdout, "%d ", v)
		return nil
	})
	it.define(".s", func(it *Interp) error {
		stack := it.Mem.DataStack()
		parts := make([]string, len(stack))
		for i, v := range stack {
			parts[i] = strconv.FormatInt(int64(v), 10)
		}
		fmt.Fprintf(it.Stdout, "[%s]", strings.Join(parts, " "))
		return nil
	})
	it.define("cr", func(it *Interp) error {
		fmt.Fprintln(it.Stdout)
		return nil
	})
	it.define("emit", func(it *Interp) error {
		v, err := it.Mem.Pop()
		if err != nil {
			return err
		}
		fmt.Fprintf(it.Stdout, "%c", rune(v))
		return nil
	})
	it.define("flush", func(it *Interp) error {
		if f, ok := it.Stdout.(interface{ Flush() error }); ok {
			return f.Flush()
		}
		return nil
	})
	it.define("type", func(it *Interp) error {
		addr, err := it.Mem.Pop()
		if err != nil {
			return err
		}
		fmt.Fprint(it.Stdout, it.Mem.StringAt(addr))
		return nil
	})

	// Input
	it.define("key", func(it *Interp) error {
		ch, ok := it.Src.ReadChar()
		if !ok {
			return it.Mem.Push(-1)
		}
		return it.Mem.Push(mem.Cell(ch))
	})
	it.define("accept", func(it *Interp) error {
		line, ok := it.Src.ReadLine("", false)
		if !ok {
			return it.Mem.SetTIB("")
		}
		return it.Mem.SetTIB(strings.TrimRight(line, "\n"))
	})
	it.define("query", func(it *Interp) error {
		return it.callBuiltin(it.mustIndex("accept"))
	})

	// Dictionary introspection and metaprogramming
	it.define("find", func(it *Interp) error {
		addr, err := it.Mem.Pop()
		if err != nil {
			return err
		}
		name := it.Mem.StringAt(addr)
		nfa, found := it.Mem.Find(name)
		if err := it.Mem.Push(nfa); err != nil {
			return err
		}
		return it.Mem.Push(mem.Bool(found))
	})
	it.define("execute", func(it *Interp) error {
		nfa, err := it.Mem.Pop()
		if err != nil {
			return err
		}
		return it.Execute(nfa)
	})
	it.define("number?", func(it *Interp) error {
		addr, err := it.Mem.Pop()
		if err != nil {
			return err
		}
		text := it.Mem.StringAt(addr)
		n, err := strconv.ParseInt(text, int(it.Mem.Base()), 64)
		if err != nil {
			if err := it.Mem.Push(0); err != nil {
				return err
			}
			return it.Mem.Push(mem.False)
		}
		if err := it.Mem.Push(mem.Cell(n)); err != nil {
			return err
		}
		return it.Mem.Push(mem.True)
	})
	it.define("?unique", func(it *Interp) error {
		addr, err := it.Mem.Pop()
		if err != nil {
			return err
		}
		_, found := it.Mem.Find(it.Mem.StringAt(addr))
		return it.Mem.Push(mem.Bool(!found))
	})

	// End a colon definition; IMMEDIATE so it fires during compilation
	// instead of being compiled into the body itself.
	it.define(";", func(it *Interp) error {
		if it.EndDefinition == nil {
			return errors.New("; unsupported")
		}
		_, err := it.EndDefinition()
		return err
	})
	it.Mem.SetImmediate(it.Mem.Last())

	// Compile-mode bracket escape and IMMEDIATE
	it.define("[", func(it *Interp) error {
		it.Mem.SetCompiling(false)
		return nil
	})
	it.Mem.SetImmediate(it.Mem.Context())
	it.define("]", func(it *Interp) error {
		it.Mem.SetCompiling(true)
		return nil
	})
	it.define("immediate", func(it *Interp) error {
		it.Mem.SetImmediate(it.Mem.Last())
		return nil
	})

	// Loop indices
	it.define("i", func(it *Interp) error {
		v, err := it.Mem.RPeek(0)
		if err != nil {
			return err
		}
		return it.Mem.Push(v)
	})
	it.define("j", func(it *Interp) error {
		v, err := it.Mem.RPeek(1)
		if err != nil {
			return err
		}
		return it.Mem.Push(v)
	})

	// Control-flow unwinding and exit
	it.define("abort", func(it *Interp) error {
		it.Mem.Reset()
		it.Mem.ResetReturn()
		it.Mem.SetAborting(true)
		return ErrAborted
	})
	it.define("quit", func(it *Interp) error {
		it.Mem.Reset()
		it.Mem.ResetReturn()
		it.Mem.SetAborting(true)
		return ErrAborted
	})
	it.define("bye", func(it *Interp) error { return ErrBye })

	// Dictionary dump / decompile
	it.define("words", func(it *Interp) error {
		var names []string
		for nfa := it.Mem.Context(); nfa != 0; nfa = it.Mem.BackLink(nfa) {
			names = append(names, it.Mem.StringAt(it.Mem.NameField(nfa)))
		}
		fmt.Fprintln(it.Stdout, strings.Join(names, " "))
		return nil
	})
	it.define("see-all", func(it *Interp) error {
		for nfa := it.Mem.Context(); nfa != 0; nfa = it.Mem.BackLink(nfa) {
			it.decompile(nfa)
		}
		return nil
	})

	// File loading
	it.define("include-file", func(it *Interp) error {
		addr, err := it.Mem.Pop()
		if err != nil {
			return err
		}
		return it.includeFile(it.Mem.StringAt(addr))
	})

	// Developer diagnostics
	it.define("dbg", func(it *Interp) error {
		it.Sink.Debug("dbg", ".s", it.Mem.DataStack())
		return nil
	})
	it.define("debuglevel", func(it *Interp) error {
		v, err := it.Mem.Pop()
		if err != nil {
			return err
		}
		it.SetDebugLevel(forthio.Level(v))
		return nil
	})
	it.define("step-on", func(it *Interp) error { it.stepping = true; return nil })
	it.define("step-off", func(it *Interp) error { it.stepping = false; return nil })
}

func (it *Interp) mustIndex(name string) mem.Cell {
	for i, n := range it.names {
		if n == name {
			return mem.Cell(i)
		}
	}
	panic("builtin not registered: " + name)
}

// See writes a human-readable decompilation of one dictionary entry (the
// SEE word's effect; see-all calls this for every entry in the
// dictionary).
func (it *Interp) See(nfa mem.Cell) { it.decompile(nfa) }

// decompile writes a human-readable trace of one dictionary entry (the
// SEE builtin's per-word output, factored out so see-all can reuse it).
func (it *Interp) decompile(nfa mem.Cell) {
	name := it.Mem.StringAt(it.Mem.NameField(nfa))
	kind := it.Mem.EntryKind(nfa)
	switch kind {
	case mem.Builtin:
		fmt.Fprintf(it.Stdout, "%s: builtin %q\n", name, it.BuiltinName(it.Mem.Payload(nfa, 0)))
	case mem.Variable:
		fmt.Fprintf(it.Stdout, "%s: variable = %d\n", name, it.Mem.Payload(nfa, 0))
	case mem.Constant:
		fmt.Fprintf(it.Stdout, "%s: constant = %d\n", name, it.Mem.Payload(nfa, 0))
	case mem.Definition:
		fmt.Fprintf(it.Stdout, "%s:", name)
		addr := it.Mem.PayloadAddr(nfa, 0)
		for {
			tag, _ := it.Mem.ReadCell(addr)
			arg, _ := it.Mem.ReadCell(addr + 1)
			op := compiler.Op(tag)
			if op == compiler.OpEnd {
				break
			}
			fmt.Fprintf(it.Stdout, " %s(%d)", op, arg)
			addr += compiler.InstrWidth
		}
		fmt.Fprintln(it.Stdout)
	default:
		fmt.Fprintf(it.Stdout, "%s: %s\n", name, kind)
	}
}

// includeFile loads path as a sequence of input lines, running each
// through the outer loop via RunSource. Recursion is disabled (spec §5,
// §9 open question): a nested include-file while one is already active is
// an error.
func (it *Interp) includeFile(path string) error {
	if it.including {
		return errors.New("include-file does not support recursion")
	}
	if it.RunSource == nil {
		return errors.New("include-file: no source runner configured")
	}
	src, err := forthio.OpenFile(path)
	if err != nil {
		return err
	}
	defer src.Close()
	it.including = true
	defer func() { it.including = false }()
	return it.RunSource(src)
}
