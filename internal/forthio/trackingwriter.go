package forthio

import (
	"io"

	"github.com/pkg/errors"
)

// TrackingWriter wraps an io.Writer and remembers its first write error.
// Program output (., emit, type, ." ...") is written via fmt.Fprint*, whose
// own error returns nothing in this codebase checks per call; wrapping
// Stdout in one of these lets the outer loop notice a broken pipe or full
// disk once, after the fact, rather than silently dropping output forever.
type TrackingWriter struct {
	w   io.Writer
	Err error
}

// NewTrackingWriter wraps w.
func NewTrackingWriter(w io.Writer) *TrackingWriter {
	return &TrackingWriter{w: w}
}

func (t *TrackingWriter) Write(p []byte) (int, error) {
	if t.Err != nil {
		return 0, t.Err
	}
	n, err := t.w.Write(p)
	if err != nil {
		t.Err = errors.Wrap(err, "program output write failed")
	}
	return n, t.Err
}

// Flush forwards to the wrapped writer's Flush, if it has one, so the
// FLUSH builtin still reaches a buffered writer through the wrapper.
func (t *TrackingWriter) Flush() error {
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}
