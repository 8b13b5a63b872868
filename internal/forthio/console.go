package forthio

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ConsoleLineSource reads interactive input from a terminal (or a piped
// stdin, for scripting). It prints the prompt itself when attached to a
// real tty; a non-interactive stdin (a pipe, a redirected file) gets no
// prompt noise, matching how a REPL is normally scripted in tests and CI.
type ConsoleLineSource struct {
	r        *bufio.Reader
	w        io.Writer
	isTTY    bool
	fd       int
	oldState *term.State
}

// NewConsoleLineSource wraps in/out as the interactive source. out receives
// the prompt text when in is a terminal.
func NewConsoleLineSource(in *os.File, out io.Writer) *ConsoleLineSource {
	fd := int(in.Fd())
	return &ConsoleLineSource{
		r:     bufio.NewReader(in),
		w:     out,
		isTTY: term.IsTerminal(fd),
		fd:    fd,
	}
}

func (c *ConsoleLineSource) ReadLine(prompt string, continuation bool) (string, bool) {
	if c.isTTY && prompt != "" {
		p := prompt
		if continuation {
			p = "  "
		}
		fmt.Fprint(c.w, p)
	}
	line, err := c.r.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return line, true
}

// ReadChar reads one character for KEY, putting the terminal in raw mode
// for the duration of the read so it need not wait for a newline.
func (c *ConsoleLineSource) ReadChar() (rune, bool) {
	if c.isTTY {
		old, err := term.MakeRaw(c.fd)
		if err == nil {
			defer term.Restore(c.fd, old)
		}
	}
	r, _, err := c.r.ReadRune()
	if err != nil {
		return 0, false
	}
	return r, true
}
