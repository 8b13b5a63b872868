// Package mem implements the interpreter's data area, string area and
// dictionary: the linear, address-indexed memory model that every other
// package in this module reads and writes.
//
// The data area holds the thirteen named registers, the dictionary (growing
// upward from the first free cell after the registers) and the two stacks
// (growing downward from a midpoint, the return stack sitting just below the
// data stack). The string area is a separate byte-indexed space holding
// counted strings: word names, the PAD scratch buffer and the text input
// buffer (TIB).
package mem
