package bytecode

import (
	"errors"
	"fmt"
)

// ConstKind distinguishes constant-pool entry kinds.
type ConstKind uint8

const (
	// ConstNone is the runtime's singleton none value.
	ConstNone ConstKind = iota
	// ConstInt is a signed integer constant.
	ConstInt
	// ConstStr is a string constant.
	ConstStr
)

// Const is one constant-pool entry.
type Const struct {
	Kind ConstKind `msgpack:"kind"`
	Int  int64     `msgpack:"int"`
	Str  string    `msgpack:"str"`
}

func (c Const) String() string {
	switch c.Kind {
	case ConstNone:
		return "none"
	case ConstInt:
		return fmt.Sprintf("%d", c.Int)
	case ConstStr:
		return fmt.Sprintf("%q", c.Str)
	default:
		return "<const?>"
	}
}

// CodeObject is the loader-facing model of one compiled unit: the
// metadata and decoded instruction stream the function builder
// consumes. It mirrors the host runtime's code descriptor, minus the
// raw in-memory pointers.
type CodeObject struct {
	Name        string `msgpack:"name"`
	Filename    string `msgpack:"filename"`
	Argcount    int32  `msgpack:"argcount"`
	Nlocals     int32  `msgpack:"nlocals"`
	Stacksize   int32  `msgpack:"stacksize"`
	Flags       int32  `msgpack:"flags"`
	Firstlineno int32  `msgpack:"firstlineno"`

	Consts   []Const  `msgpack:"consts"`
	Names    []string `msgpack:"names"`
	Varnames []string `msgpack:"varnames"`
	Freevars []string `msgpack:"freevars"`
	Cellvars []string `msgpack:"cellvars"`

	Code []Instr `msgpack:"code"`
}

// Validate checks the structural invariants the translator relies on:
// operand indices in range, counts consistent. It does not verify
// stack discipline; the loader is trusted for that.
func (c *CodeObject) Validate() error {
	if c == nil {
		return errors.New("bytecode: nil code object")
	}
	var errs []error
	if c.Nlocals < 0 || int(c.Nlocals) != len(c.Varnames) {
		errs = append(errs, fmt.Errorf("nlocals=%d does not match %d varnames", c.Nlocals, len(c.Varnames)))
	}
	if c.Stacksize < 0 {
		errs = append(errs, fmt.Errorf("negative stacksize %d", c.Stacksize))
	}
	for i, ins := range c.Code {
		switch ins.Op {
		case OpLoadConst:
			if ins.Arg < 0 || int(ins.Arg) >= len(c.Consts) {
				errs = append(errs, fmt.Errorf("instr %d: const index %d out of range", i, ins.Arg))
			}
		case OpLoadFast, OpStoreFast:
			if ins.Arg < 0 || int(ins.Arg) >= len(c.Varnames) {
				errs = append(errs, fmt.Errorf("instr %d: local index %d out of range", i, ins.Arg))
			}
		case OpLoadFree:
			if ins.Arg < 0 || int(ins.Arg) >= len(c.Freevars) {
				errs = append(errs, fmt.Errorf("instr %d: free index %d out of range", i, ins.Arg))
			}
		case OpPopTop, OpDupTop, OpReturnValue:
			// No operand.
		default:
			errs = append(errs, fmt.Errorf("instr %d: unknown opcode %d", i, uint8(ins.Op)))
		}
	}
	return errors.Join(errs...)
}
