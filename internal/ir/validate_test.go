package ir_test

import (
	"strings"
	"testing"

	"pyrite/internal/ir"
)

func TestValidate_WellFormed(t *testing.T) {
	mod, _, b := newFunc(t)
	then := b.NewBlock("then")
	els := b.NewBlock("else")
	cond := b.ICmp(ir.ICmpEq, b.Null(""), b.Null(""), "")
	b.CondBr(cond, then, els)
	b.StartBlock(then)
	b.Ret(b.Null(""))
	b.StartBlock(els)
	b.Ret(b.Null(""))

	if err := ir.Validate(mod); err != nil {
		t.Fatalf("well-formed module rejected: %v", err)
	}
}

func TestValidate_UnterminatedBlock(t *testing.T) {
	mod, _, b := newFunc(t)
	b.Null("")

	err := ir.Validate(mod)
	if err == nil || !strings.Contains(err.Error(), "unterminated") {
		t.Fatalf("err = %v, want an unterminated-block failure", err)
	}
}

func TestValidate_BadBranchTarget(t *testing.T) {
	mod, _, b := newFunc(t)
	b.Br(ir.BlockID(42))

	err := ir.Validate(mod)
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("err = %v, want a missing-target failure", err)
	}
}

func TestValidate_BadValueRef(t *testing.T) {
	mod, f, b := newFunc(t)
	b.Ret(b.Null(""))
	// Corrupt a load to point at a value that was never created.
	f.Blocks[0].Instrs = append(f.Blocks[0].Instrs, ir.Instr{
		Kind:   ir.InstrLoad,
		Result: 1,
		Load:   ir.LoadInstr{Addr: ir.ValueID(99), Elem: ir.Ptr()},
	})

	err := ir.Validate(mod)
	if err == nil || !strings.Contains(err.Error(), "v99") {
		t.Fatalf("err = %v, want a dangling value reference", err)
	}
}

func TestValidate_BadExternRef(t *testing.T) {
	mod, f, b := newFunc(t)
	b.Ret(b.Null(""))
	f.Blocks[0].Instrs = append(f.Blocks[0].Instrs, ir.Instr{
		Kind:   ir.InstrCall,
		Result: ir.NoValueID,
		Call:   ir.CallInstr{Callee: ir.ExternID(7)},
	})

	err := ir.Validate(mod)
	if err == nil || !strings.Contains(err.Error(), "extern") {
		t.Fatalf("err = %v, want a missing-extern failure", err)
	}
}
