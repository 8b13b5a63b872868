// Package forthio holds the two small protocols the interpreter core
// consumes from its surrounding collaborators (spec §6): a line source
// (console prompts or a file reader) and a leveled message sink. The
// console and file line sources and a no-op sink live here too;
// cmd/tforth supplies the stderr message sink, and tests supply fakes.
package forthio

// LineSource produces lines and characters on demand. ReadLine returns the
// next line (including semantics around its terminating newline are up to
// the implementation) or ok=false at end-of-stream; continuation reports
// whether this call is completing a multi-line lookahead token (spec
// §4.1) so an interactive implementation can print a different prompt.
// ReadChar reads one character, used by KEY and single-step debugging.
type LineSource interface {
	ReadLine(prompt string, continuation bool) (line string, ok bool)
	ReadChar() (ch rune, ok bool)
}

// Level is a message severity, filtered by MessageSink implementations.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// MessageSink is the level-filtered logging facility consumed by the core.
// None of these calls abort execution by themselves (spec §6).
type MessageSink interface {
	Info(context, message string, value ...interface{})
	Warning(context, message string, value ...interface{})
	Error(context, message string, value ...interface{})
	Debug(context, message string, value ...interface{})
}

// NopSink discards every message. Useful as a default/test collaborator.
type NopSink struct{}

func (NopSink) Info(string, string, ...interface{})    {}
func (NopSink) Warning(string, string, ...interface{}) {}
func (NopSink) Error(string, string, ...interface{})   {}
func (NopSink) Debug(string, string, ...interface{})   {}
