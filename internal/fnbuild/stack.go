package fnbuild

import "pyrite/internal/ir"

// Push stores value at the current stack pointer and advances the
// pointer slot by one. No bounds check: the bytecode is pre-verified
// against the code descriptor's declared stack size.
func (fb *Builder) Push(value ir.ValueID) {
	b := fb.b
	sp := b.Load(fb.stackPtrSlot, ir.Ptr(), "stack_pointer")
	b.Store(value, sp)
	one := b.ConstInt(ir.Int32(), 1, "")
	b.Store(b.Index(sp, ir.Ptr(), one, "new_stack_pointer"), fb.stackPtrSlot)
}

// Pop retreats the stack pointer slot by one and returns the value at
// the new top. The reference it carries moves to the caller.
func (fb *Builder) Pop() ir.ValueID {
	b := fb.b
	sp := b.Load(fb.stackPtrSlot, ir.Ptr(), "stack_pointer")
	minusOne := b.ConstInt(ir.Int32(), -1, "")
	newSP := b.Index(sp, ir.Ptr(), minusOne, "new_stack_pointer")
	top := b.Load(newSP, ir.Ptr(), "former_top")
	b.Store(newSP, fb.stackPtrSlot)
	return top
}
