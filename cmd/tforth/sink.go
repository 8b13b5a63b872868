package main

import (
	"fmt"
	"io"

	"github.com/timbarnes/tforth/internal/forthio"
)

// stderrSink is the default MessageSink: fmt.Fprintf to a writer (normally
// os.Stderr), filtered by a level floor, mirroring the teacher's -debug
// gated diagnostic dump in atExit.
type stderrSink struct {
	w     io.Writer
	floor forthio.Level
}

func newStderrSink(w io.Writer, floor forthio.Level) *stderrSink {
	return &stderrSink{w: w, floor: floor}
}

func (s *stderrSink) emit(level forthio.Level, context, message string, value ...interface{}) {
	if level < s.floor {
		return
	}
	if len(value) > 0 {
		fmt.Fprintf(s.w, "[%s] %s: %s %v\n", level, context, message, value)
		return
	}
	fmt.Fprintf(s.w, "[%s] %s: %s\n", level, context, message)
}

func (s *stderrSink) Info(context, message string, value ...interface{}) {
	s.emit(forthio.LevelInfo, context, message, value...)
}

func (s *stderrSink) Warning(context, message string, value ...interface{}) {
	s.emit(forthio.LevelWarning, context, message, value...)
}

func (s *stderrSink) Error(context, message string, value ...interface{}) {
	s.emit(forthio.LevelError, context, message, value...)
}

func (s *stderrSink) Debug(context, message string, value ...interface{}) {
	s.emit(forthio.LevelDebug, context, message, value...)
}
