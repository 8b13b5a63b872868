package mem

import "github.com/pkg/errors"

// Sentinel conditions from spec §7. Callers use errors.Cause to recover
// these from a wrapped error.
var (
	ErrStackUnderflow = errors.New("stack underflow")
	ErrReturnStackUnderflow = errors.New("return stack underflow")
	ErrStackOverflow  = errors.New("stack overflow")
	ErrBadAddress     = errors.New("bad address")
	ErrDictionaryFull = errors.New("dictionary full")
	ErrStringAreaFull = errors.New("string area full")
	ErrNotVariable    = errors.New("not a variable")
)
