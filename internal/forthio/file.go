package forthio

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"
)

// FileLineSource reads lines from a file, ignoring prompts, for
// INCLUDE-FILE (spec §5, §6). ReadChar is unsupported: KEY on a file
// source is not a behavior this spec requires.
type FileLineSource struct {
	f *os.File
	r *bufio.Reader
}

// OpenFile opens path for INCLUDE-FILE. The caller is responsible for
// calling Close when done.
func OpenFile(path string) (*FileLineSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "include-file %q", path)
	}
	return &FileLineSource{f: f, r: bufio.NewReader(f)}, nil
}

func (s *FileLineSource) ReadLine(prompt string, continuation bool) (string, bool) {
	line, err := s.r.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	if err != nil && err != io.EOF {
		return "", false
	}
	return line, true
}

func (s *FileLineSource) ReadChar() (rune, bool) { return 0, false }

// Close releases the underlying file handle.
func (s *FileLineSource) Close() error { return s.f.Close() }
