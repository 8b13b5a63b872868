package forth

import (
	"io"

	"github.com/timbarnes/tforth/internal/forthio"
)

// Option configures an Engine at construction time.
type Option func(*Engine) error

// Stdout sets the writer program output (., emit, cr, type, .s, see, ."")
// is written to. Defaults to io.Discard.
func Stdout(w io.Writer) Option {
	return func(e *Engine) error { e.stdout = w; return nil }
}

// Sink sets the leveled diagnostic logger. Defaults to forthio.NopSink.
func Sink(sink forthio.MessageSink) Option {
	return func(e *Engine) error { e.sink = sink; return nil }
}

// Source sets the interactive line source driving the REPL. Defaults to a
// source that reports immediate end-of-stream, for tests that only load
// files.
func Source(src forthio.LineSource) Option {
	return func(e *Engine) error { e.src = src; return nil }
}

// LibraryPath overrides the core-library source file loaded at boot.
func LibraryPath(path string) Option {
	return func(e *Engine) error { e.libraryPath = path; return nil }
}

// NoLibrary disables loading the core-library source file at boot.
func NoLibrary(skip bool) Option {
	return func(e *Engine) error { e.noLibrary = skip; return nil }
}

// UserFile sets a source file to load after the core library and before
// the REPL.
func UserFile(path string) Option {
	return func(e *Engine) error { e.userFile = path; return nil }
}

// Config collects the settings a CLI front end reads from flags before
// constructing an Engine, mirroring original_source/src/config.rs's
// Settings struct: library path, debug level, and user file are read once
// at boot and threaded through from a single value rather than as loose
// parameters.
type Config struct {
	LibraryPath string
	NoLibrary   bool
	UserFile    string
	DebugLevel  forthio.Level
}

// FromConfig applies every field of cfg as engine options in one call.
func FromConfig(cfg Config) Option {
	return func(e *Engine) error {
		e.libraryPath = cfg.LibraryPath
		e.noLibrary = cfg.NoLibrary
		e.userFile = cfg.UserFile
		e.debugLevel = cfg.DebugLevel
		return nil
	}
}
