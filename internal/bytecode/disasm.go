package bytecode

import (
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"
)

// Disasm writes an assembly-style dump of a code object: a header with
// the counts the translator cares about, then one aligned line per
// instruction with the operand resolved against the relevant pool.
func Disasm(w io.Writer, c *CodeObject) error {
	if w == nil || c == nil {
		return nil
	}
	fmt.Fprintf(w, "code %s (file=%s, args=%d, locals=%d, stack=%d)\n",
		c.Name, c.Filename, c.Argcount, c.Nlocals, c.Stacksize)
	for i, ins := range c.Code {
		mnemonic := runewidth.FillRight(ins.Op.String(), 14)
		if !ins.Op.HasArg() {
			fmt.Fprintf(w, "  %4d  %s\n", i, mnemonic)
			continue
		}
		fmt.Fprintf(w, "  %4d  %s%-6d%s\n", i, mnemonic, ins.Arg, operandNote(c, ins))
	}
	return nil
}

func operandNote(c *CodeObject, ins Instr) string {
	switch ins.Op {
	case OpLoadConst:
		if int(ins.Arg) < len(c.Consts) {
			return "; " + c.Consts[ins.Arg].String()
		}
	case OpLoadFast, OpStoreFast:
		if int(ins.Arg) < len(c.Varnames) {
			return "; " + c.Varnames[ins.Arg]
		}
	case OpLoadFree:
		if int(ins.Arg) < len(c.Freevars) {
			return "; " + c.Freevars[ins.Arg]
		}
	}
	return ""
}
