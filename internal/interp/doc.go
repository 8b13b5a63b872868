// Package interp implements the inner interpreter: the opcode dispatch
// loop that drives a compiled definition's body, the EXECUTE primitive's
// kind-based dispatch, and the builtin primitive table (spec §4.5, §4.6).
//
// interp knows how to run opcodes; it does not know how to tokenize or
// compile them. The outer loop (package forth) owns INTERPRET/QUIT and
// decides, token by token, whether to call Interp.Execute or hand the
// token to the compiler.
package interp
