// Package forth wires the dictionary, tokenizer, compiler and inner
// interpreter into the outer loop described in spec §4.5: QUIT reads and
// interprets lines until end-of-stream, bye, or a program-output write
// failure, recovering from every abort and runtime error in between;
// INTERPRET resolves each token against the dictionary and either runs it
// immediately or hands it to the compiler, depending on compile? and the
// IMMEDIATE flag.
package forth
