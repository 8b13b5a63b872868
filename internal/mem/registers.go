package mem

// Register addresses: the thirteen named, process-wide cells from spec
// §4.3, all living at fixed low addresses in the data area so that Forth
// code can reach them with plain @ and !.
const (
	RegHere    = iota // next free dictionary cell
	RegContext        // newest entry's name field
	RegLast           // mirrors CONTEXT on definition completion
	RegSHere          // next free string-area cell
	RegBase           // numeric input/output radix
	RegPad            // counted-string scratch buffer address
	RegTIB            // text input buffer address
	RegNTIB           // #TIB: current length of TIB contents
	RegToIn           // >IN: cursor offset into TIB
	RegHld            // HLD: formatted-numeric-output cursor
	RegCompile        // compile?: nonzero while compiling
	RegAbort          // abort?: nonzero when abort was signalled
	RegPC             // opcode program counter
	NumRegisters
)

var registerNames = [NumRegisters]string{
	RegHere:    "HERE",
	RegContext: "CONTEXT",
	RegLast:    "LAST",
	RegSHere:   "S-HERE",
	RegBase:    "BASE",
	RegPad:     "PAD",
	RegTIB:     "TIB",
	RegNTIB:    "#TIB",
	RegToIn:    ">IN",
	RegHld:     "HLD",
	RegCompile: "compile?",
	RegAbort:   "abort?",
	RegPC:      "pc",
}

// RegisterName returns the canonical Forth name for a register address, or
// "" if addr does not name a register.
func RegisterName(addr Cell) string {
	if addr < 0 || int(addr) >= len(registerNames) {
		return ""
	}
	return registerNames[int(addr)]
}

// String area and data area layout constants, sized after the buffer/stack
// layout in the original tforth engine but re-partitioned to match this
// spec's stack-direction invariants (data and return stacks growing
// downward).
const (
	// BufSize is the capacity (including the length byte) of the TIB and
	// PAD counted-string buffers in the string area. The original tforth
	// engine used 132; this implementation widens it to accommodate
	// longer interactive input lines while keeping the same single-byte
	// length prefix.
	BufSize = 256

	TibAddr        = 0
	PadAddr        = BufSize
	SHereInit      = 2 * BufSize
	StringAreaSize = 5000

	// DictStart is HERE's initial value: the first free dictionary cell,
	// immediately after the register block.
	DictStart = NumRegisters
	// DictLimit is one past the highest address the dictionary may use;
	// the return stack's region starts here.
	DictLimit = 5000

	// RetFloor/RetStart bound the return stack: it grows downward from
	// RetStart (its empty-stack pointer value) toward RetFloor.
	RetFloor = DictLimit
	RetStart = RetFloor + 1000

	// StackFloor/StackStart bound the data stack: it grows downward from
	// StackStart toward StackFloor, which sits just above the return
	// stack's region (i.e. the return stack is "just below" the data
	// stack, per spec §3).
	StackFloor = RetStart
	DataAreaSize = 10000
	StackStart   = DataAreaSize

	BaseInit = 10
)
