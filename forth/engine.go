package forth

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/timbarnes/tforth/internal/compiler"
	"github.com/timbarnes/tforth/internal/forthio"
	"github.com/timbarnes/tforth/internal/interp"
	"github.com/timbarnes/tforth/internal/mem"
	"github.com/timbarnes/tforth/internal/token"
)

// eofSource is the default interactive source: immediate end-of-stream.
// Engines that only load files (most tests) never touch it.
type eofSource struct{}

func (eofSource) ReadLine(prompt string, continuation bool) (string, bool) { return "", false }
func (eofSource) ReadChar() (rune, bool)                                   { return 0, false }

// Engine owns one interpreter instance: the dictionary, the tokenizer
// reading the interactive source, the compiler, and the inner
// interpreter, wired together per spec §2's dependency order.
type Engine struct {
	Mem      *mem.Memory
	Compiler *compiler.Compiler
	Interp   *interp.Interp

	tok *token.Tokenizer

	stdout      io.Writer
	outw        *forthio.TrackingWriter
	sink        forthio.MessageSink
	src         forthio.LineSource
	libraryPath string
	noLibrary   bool
	userFile    string
	debugLevel  forthio.Level
}

// New builds an Engine and registers the builtin table, but does not load
// the library or enter the REPL; call Boot for that.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		Mem:         mem.New(),
		stdout:      io.Discard,
		sink:        forthio.NopSink{},
		src:         eofSource{},
		libraryPath: "lib/core.fs",
		debugLevel:  forthio.LevelWarning,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	e.outw = forthio.NewTrackingWriter(e.stdout)
	e.Compiler = compiler.New(e.Mem)
	e.Interp = interp.New(e.Mem, e.outw, e.sink, e.src)
	e.Interp.RunSource = e.runSource
	e.Interp.EndDefinition = e.endDefinition
	e.Interp.SetDebugLevel(e.debugLevel)
	e.tok = token.New(e.Mem, e.src)
	return e, nil
}

// Boot loads the core library (unless disabled) and the optional user
// file, per spec §6: "the system always boots from scratch, loads a
// core-library source file, then optionally a user file."
func (e *Engine) Boot() error {
	if !e.noLibrary {
		if err := e.LoadFile(e.libraryPath); err != nil {
			return errors.Wrap(err, "loading core library")
		}
	}
	if e.userFile != "" {
		if err := e.LoadFile(e.userFile); err != nil {
			return errors.Wrap(err, "loading user file")
		}
	}
	return nil
}

// LoadFile interprets path as a sequence of source lines.
func (e *Engine) LoadFile(path string) error {
	src, err := forthio.OpenFile(path)
	if err != nil {
		return err
	}
	defer src.Close()
	return e.runSource(src)
}

// runSource interprets every token from src to end-of-stream. It backs
// both LoadFile and the include-file builtin (via Interp.RunSource).
func (e *Engine) runSource(src forthio.LineSource) error {
	tz := token.New(e.Mem, src)
	return e.drive(tz, "")
}

// errSemicolonOutsideDefinition is returned by the ";" builtin (via
// endDefinition) when it runs outside a colon definition.
var errSemicolonOutsideDefinition = errors.New("; outside a definition")

// endDefinition backs the ";" builtin (internal/interp.Interp.EndDefinition):
// Interp holds no compiler of its own, so Engine supplies this hook.
func (e *Engine) endDefinition() (mem.Cell, error) {
	if !e.Compiler.Active() {
		return 0, errSemicolonOutsideDefinition
	}
	return e.Compiler.End()
}

// REPL runs the outer loop (spec §4.5 QUIT) against the engine's
// interactive source until end-of-stream, bye, or an I/O failure.
func (e *Engine) REPL() error {
	e.Mem.ResetReturn()
	e.Mem.Reset()
	e.Mem.SetAborting(false)
	return e.drive(e.tok, "ok> ")
}

// drive pulls tokens from tz and dispatches them until end-of-stream or a
// fatal error. Aborts are recovered in place (clear abort?, warn, keep
// going); bye and end-of-stream return cleanly. The "ok" acknowledgment a
// real terminal shows after a clean line is display decoration owned by
// the interactive LineSource, not program output, so drive never writes
// one to stdout itself; it only picks the prompt passed to the next
// ReadLine call.
func (e *Engine) drive(tz *token.Tokenizer, prompt string) error {
	for {
		tok, ok := tz.Next(prompt)
		if !ok {
			return nil
		}
		err := e.dispatch(tok)
		if err == nil {
			if e.outw.Err != nil {
				return e.outw.Err
			}
			continue
		}
		switch {
		case errors.Is(err, interp.ErrBye):
			return nil
		case errors.Is(err, interp.ErrAborted):
			e.Mem.SetAborting(false)
			e.sink.Warning("quit", "aborted", nil)
		default:
			// Spec §7: every runtime error (stack underflow, bad address,
			// divide-by-zero, ...) aborts the same way the abort/quit
			// builtins do, clearing both stacks before resuming the REPL.
			e.Mem.Reset()
			e.Mem.ResetReturn()
			e.Mem.SetAborting(false)
			e.sink.Error("interpret", err.Error(), nil)
		}
	}
}

// dispatch resolves one token per spec §4.4/§4.5's compile-or-execute
// rule and either runs it immediately or appends an opcode to the
// definition currently being compiled.
func (e *Engine) dispatch(tok token.Token) error {
	switch tok.Kind {
	case token.Integer:
		return e.number(mem.Cell(tok.Int))
	case token.Float:
		e.sink.Warning("interpret", "floating-point literal has no runtime representation", tok.Float)
		return nil
	case token.Jump:
		if !e.Compiler.Active() {
			e.sink.Warning("interpret", "control-flow word outside a definition", tok.Text)
			return nil
		}
		return e.Compiler.CompileJump(tok.Text)
	case token.Forward:
		return e.dispatchForward(tok)
	case token.Operator:
		return e.dispatchOperator(tok.Text)
	case token.Empty:
		return nil
	default:
		return errors.Errorf("unhandled token kind %v", tok.Kind)
	}
}

func (e *Engine) number(n mem.Cell) error {
	if e.Compiler.Active() {
		e.Compiler.CompileLiteral(n)
		return nil
	}
	return e.Mem.Push(n)
}

func (e *Engine) dispatchForward(tok token.Token) error {
	switch tok.Text {
	case "(":
		return nil

	case `\`:
		return nil

	case `s"`:
		if e.Compiler.Active() {
			return e.Compiler.CompileStringLiteral(tok.Tail)
		}
		addr, err := e.Mem.WriteCountedString(tok.Tail)
		if err != nil {
			return err
		}
		return e.Mem.Push(addr)

	case `."`:
		if e.Compiler.Active() {
			return e.Compiler.CompilePrintString(tok.Tail)
		}
		fmt.Fprint(e.outw, tok.Tail)
		return nil

	case ":":
		_, err := e.Compiler.Begin(tok.Tail)
		return err

	case "variable":
		_, err := e.Mem.MakeEntry(tok.Tail, mem.Variable, 0)
		if err != nil {
			return err
		}
		e.Mem.CompleteLast()
		return nil

	case "constant":
		v, err := e.Mem.Pop()
		if err != nil {
			return err
		}
		if _, err := e.Mem.MakeEntry(tok.Tail, mem.Constant, v); err != nil {
			return err
		}
		e.Mem.CompleteLast()
		return nil

	case "see":
		nfa, ok := e.Mem.Find(tok.Tail)
		if !ok {
			e.sink.Warning("see", "not found", tok.Tail)
			return nil
		}
		e.Interp.See(nfa)
		return nil

	case "'":
		nfa, _ := e.Mem.Find(tok.Tail)
		return e.Mem.Push(nfa)

	default:
		return errors.Errorf("unhandled lookahead form %q", tok.Text)
	}
}

func (e *Engine) dispatchOperator(name string) error {
	nfa, found := e.Mem.Find(name)
	if !found {
		e.sink.Warning("interpret", "unknown word", name)
		return nil
	}
	if !e.Compiler.Active() || e.Mem.IsImmediate(nfa) {
		return e.Interp.Execute(nfa)
	}
	return e.compileResolved(nfa)
}

func (e *Engine) compileResolved(nfa mem.Cell) error {
	switch e.Mem.EntryKind(nfa) {
	case mem.Builtin:
		e.Compiler.CompileBuiltin(e.Mem.Payload(nfa, 0))
	case mem.Definition:
		e.Compiler.CompileWord(nfa)
	case mem.Variable:
		e.Compiler.CompileVarAddr(nfa)
	case mem.Constant, mem.Literal, mem.String:
		e.Compiler.CompileConstant(nfa)
	default:
		return errors.Errorf("word %q has no compiled form", e.Mem.StringAt(e.Mem.NameField(nfa)))
	}
	return nil
}
