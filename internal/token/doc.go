// Package token implements the tokenizer described in spec §4.1: a lazy,
// restartable sequence of tokens pulled from a forthio.LineSource, with
// lookahead for comment- and string-like forms.
//
// The tokenizer shares its line cache with the dictionary's TIB buffer and
// >IN/#TIB registers (internal/mem) rather than keeping a private buffer.
// No PARSE or (PARSE) builtin is registered; the tokenizer is the only
// reader of that input window.
package token
