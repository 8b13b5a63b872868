package mem

import "github.com/pkg/errors"

// maxCountedString is the largest string this string area can store as a
// counted string: the length prefix is a single byte.
const maxCountedString = 255

// WriteCountedString writes s as a counted string (length byte followed by
// characters) at the current S-HERE and advances S-HERE past it. It returns
// the address of the length byte.
func (m *Memory) WriteCountedString(s string) (Cell, error) {
	if len(s) > maxCountedString {
		s = s[:maxCountedString]
	}
	addr := m.Register(RegSHere)
	need := Cell(1 + len(s))
	if int(addr)+int(need) > len(m.strs) {
		return 0, ErrStringAreaFull
	}
	m.strs[addr] = byte(len(s))
	copy(m.strs[addr+1:], s)
	m.SetRegister(RegSHere, addr+need)
	return addr, nil
}

// StringAt decodes the counted string starting at addr in the string area.
func (m *Memory) StringAt(addr Cell) string {
	if addr < 0 || int(addr) >= len(m.strs) {
		return ""
	}
	n := int(m.strs[addr])
	start := int(addr) + 1
	end := start + n
	if end > len(m.strs) {
		end = len(m.strs)
	}
	return string(m.strs[start:end])
}

// WriteCountedAt writes s as a counted string at a fixed address (used for
// the long-lived TIB and PAD buffers, which are reused on every input line
// instead of being freshly allocated from S-HERE).
func (m *Memory) WriteCountedAt(addr Cell, s string) error {
	if len(s) > BufSize-1 {
		s = s[:BufSize-1]
	}
	if int(addr)+1+len(s) > len(m.strs) {
		return errors.Wrapf(ErrBadAddress, "counted string write @%d", addr)
	}
	m.strs[addr] = byte(len(s))
	copy(m.strs[addr+1:], s)
	return nil
}

// SetTIB loads line into the text input buffer and resets >IN to 0 and
// #TIB to line's length.
func (m *Memory) SetTIB(line string) error {
	if err := m.WriteCountedAt(TibAddr, line); err != nil {
		return err
	}
	m.SetRegister(RegNTIB, Cell(len(line)))
	if len(line) > BufSize-1 {
		m.SetRegister(RegNTIB, Cell(BufSize-1))
	}
	m.SetRegister(RegToIn, 0)
	return nil
}

// TIB returns the current text input buffer contents.
func (m *Memory) TIB() string { return m.StringAt(TibAddr) }

// SetPad stores s in the PAD scratch buffer.
func (m *Memory) SetPad(s string) error { return m.WriteCountedAt(PadAddr, s) }

// Pad returns the current PAD buffer contents.
func (m *Memory) Pad() string { return m.StringAt(PadAddr) }
