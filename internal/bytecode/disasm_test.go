package bytecode_test

import (
	"strings"
	"testing"

	"pyrite/internal/bytecode"
)

func TestDisasm(t *testing.T) {
	code := validCode()
	code.Code = append(code.Code[:3],
		bytecode.Instr{Op: bytecode.OpLoadFree, Arg: 0},
		bytecode.Instr{Op: bytecode.OpPopTop},
		bytecode.Instr{Op: bytecode.OpReturnValue},
	)

	var sb strings.Builder
	if err := bytecode.Disasm(&sb, code); err != nil {
		t.Fatalf("disasm: %v", err)
	}
	out := sb.String()

	for _, want := range []string{
		"code f (file=f.py, args=0, locals=1, stack=4)",
		"load_const",
		"; 42",
		"store_fast",
		"; x",
		"load_free",
		"; captured",
		"pop_top",
		"return_value",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("disassembly is missing %q\n%s", want, out)
		}
	}
}
