package bytecode

// Opcode enumerates the stack-machine operations this translator
// understands. Values are part of the serialized form; append only.
type Opcode uint8

const (
	// OpLoadConst pushes constant Arg with a new reference.
	OpLoadConst Opcode = iota
	// OpLoadFast pushes local variable Arg, raising an unbound-local
	// error when the slot is still null.
	OpLoadFast
	// OpLoadFree pushes free variable Arg, raising an unbound-free
	// error when the slot is still null.
	OpLoadFree
	// OpStoreFast pops into local slot Arg, releasing the previous
	// value if any.
	OpStoreFast
	// OpPopTop pops and releases the top of stack.
	OpPopTop
	// OpDupTop duplicates the top of stack with a new reference.
	OpDupTop
	// OpReturnValue pops the top of stack and returns it, transferring
	// its reference to the caller.
	OpReturnValue
)

func (op Opcode) String() string {
	switch op {
	case OpLoadConst:
		return "load_const"
	case OpLoadFast:
		return "load_fast"
	case OpLoadFree:
		return "load_free"
	case OpStoreFast:
		return "store_fast"
	case OpPopTop:
		return "pop_top"
	case OpDupTop:
		return "dup_top"
	case OpReturnValue:
		return "return_value"
	default:
		return "<op?>"
	}
}

// HasArg reports whether the opcode carries an operand.
func (op Opcode) HasArg() bool {
	switch op {
	case OpLoadConst, OpLoadFast, OpLoadFree, OpStoreFast:
		return true
	default:
		return false
	}
}

// Instr is one decoded instruction.
type Instr struct {
	Op  Opcode `msgpack:"op"`
	Arg int32  `msgpack:"arg"`
}
