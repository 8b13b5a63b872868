package token

// Kind discriminates the semantic token kinds recognized by the tokenizer
// (spec §4.1).
type Kind int

const (
	// Empty marks a line that contained no token.
	Empty Kind = iota
	// Integer holds a signed decimal (or BASE-radix) integer literal.
	Integer
	// Float holds a decimal float literal; never consumed by a builtin
	// (spec §1/§9).
	Float
	// Jump is one of the supported control-flow words.
	Jump
	// Forward is a lookahead token: Text is the head, Tail the text read
	// up to (and not including) the terminator.
	Forward
	// Operator is any other non-empty token: a word name.
	Operator
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "Empty"
	case Integer:
		return "Integer"
	case Float:
		return "Float"
	case Jump:
		return "Jump"
	case Forward:
		return "Forward"
	case Operator:
		return "Operator"
	default:
		return "Unknown"
	}
}

// Token is one lexical unit produced by the tokenizer.
type Token struct {
	Kind  Kind
	Text  string  // raw token text (Operator/Jump), or head (Forward)
	Int   int64   // valid when Kind == Integer
	Float float64 // valid when Kind == Float
	Tail  string  // valid when Kind == Forward: the looked-ahead text
}

// jumpWords is the closed set of control-flow words this tokenizer
// recognizes as Jump tokens. Per SPEC_FULL.md's Open Question Decisions,
// this implementation supports the for/next loop family and if/else/then;
// begin/until/while/repeat/do/loop/+loop/leave are deliberately not
// recognized here, so using them surfaces as an ordinary "unknown word"
// rather than a half-implemented control structure.
var jumpWords = map[string]bool{
	"if":   true,
	"else": true,
	"then": true,
	"for":  true,
	"next": true,
}

// forwardHeads maps a lookahead head token to the character (or "\n" for
// end-of-line) that terminates its tail, per spec §4.1's table.
// Tokenizer.Next does not consult this map: it matches these heads in its
// own switch, and handles the heads whose terminator is whitespace via
// wordTerminatedHeads.
var forwardHeads = map[string]byte{
	"(":  ')',
	"s\"": '"',
	".\"": '"',
	"\\": '\n',
}

// wordTerminatedHeads terminate their tail at the next whitespace run,
// i.e. their tail is simply the next ordinary word. ":" is included here
// (rather than left as a plain Operator) so the compiler's entry point
// gets the new definition's name the same lookahead way variable/constant
// get theirs; "'" reuses it to fetch the name whose dictionary entry it
// resolves.
var wordTerminatedHeads = map[string]bool{
	"see":      true,
	"variable": true,
	"constant": true,
	":":        true,
	"'":        true,
}
