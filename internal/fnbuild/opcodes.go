package fnbuild

import (
	"pyrite/internal/ir"
	"pyrite/internal/rtlayout"
)

// loadConst pushes constant index with a new reference. Constant
// indices are valid by construction; there is no failure path.
func (fb *Builder) loadConst(index int32) {
	b := fb.b
	varD := fb.reg.Describe(rtlayout.LayoutVarObject)
	items := b.FieldAddr(fb.consts, rtlayout.LayoutVarObject, varD.Index("items"), "consts_items")
	value := b.Load(
		b.Index(items, ir.Ptr(), b.ConstInt(ir.Int32(), int64(index), ""), ""),
		ir.Ptr(), "const")
	fb.IncRef(value)
	fb.Push(value)
}

// loadFast pushes local slot index, or raises an unbound-local error
// and returns the failure sentinel when the slot is still null.
func (fb *Builder) loadFast(index int32) {
	b := fb.b
	unbound := b.NewBlock("load_fast_unbound")
	success := b.NewBlock("load_fast_success")

	local := b.Load(
		b.Index(fb.fastlocals, ir.Ptr(), b.ConstInt(ir.Int32(), int64(index), ""), ""),
		ir.Ptr(), "local")
	b.CondBr(b.ICmp(ir.ICmpEq, local, b.Null(""), "is_null"), unbound, success)

	b.StartBlock(unbound)
	varname := b.Call(declTupleItem(fb.mod),
		[]ir.ValueID{fb.varnames, b.ConstInt(ir.IntPtr(), int64(index), "")}, "varname")
	fb.FormatExcArg(excUnboundLocal, unboundLocalMsg, varname)
	b.Ret(b.Null(""))

	b.StartBlock(success)
	fb.IncRef(local)
	fb.Push(local)
}

// loadFree pushes free-variable slot index, mirroring loadFast over
// the free-variable array base. The name for the error message comes
// from the code descriptor's free-variable container, loaded on the
// failure branch only.
func (fb *Builder) loadFree(index int32) {
	b := fb.b
	frameD := fb.reg.Describe(rtlayout.LayoutFrame)
	codeD := fb.reg.Describe(rtlayout.LayoutCode)
	unbound := b.NewBlock("load_free_unbound")
	success := b.NewBlock("load_free_success")

	value := b.Load(
		b.Index(fb.freevars, ir.Ptr(), b.ConstInt(ir.Int32(), int64(index), ""), ""),
		ir.Ptr(), "free")
	b.CondBr(b.ICmp(ir.ICmpEq, value, b.Null(""), "is_null"), unbound, success)

	b.StartBlock(unbound)
	co := b.Load(
		b.FieldAddr(fb.frame, rtlayout.LayoutFrame, frameD.Index("code"), "code_addr"),
		ir.Ptr(), "co")
	freenames := b.Load(
		b.FieldAddr(co, rtlayout.LayoutCode, codeD.Index("freevars"), "freevars_addr"),
		ir.Ptr(), "freevarnames")
	name := b.Call(declTupleItem(fb.mod),
		[]ir.ValueID{freenames, b.ConstInt(ir.IntPtr(), int64(index), "")}, "freename")
	fb.FormatExcArg(excUnboundFree, unboundFreeMsg, name)
	b.Ret(b.Null(""))

	b.StartBlock(success)
	fb.IncRef(value)
	fb.Push(value)
}

// storeFast pops into local slot index. The popped reference moves
// into the slot; the previous occupant, if any, is released.
func (fb *Builder) storeFast(index int32) {
	b := fb.b
	value := fb.Pop()
	slot := b.Index(fb.fastlocals, ir.Ptr(), b.ConstInt(ir.Int32(), int64(index), ""), "local_slot")
	old := b.Load(slot, ir.Ptr(), "old_local")
	b.Store(value, slot)

	release := b.NewBlock("store_fast_release")
	done := b.NewBlock("store_fast_done")
	b.CondBr(b.ICmp(ir.ICmpEq, old, b.Null(""), "old_null"), done, release)

	b.StartBlock(release)
	fb.DecRef(old)
	b.FallThroughTo(done)
}

// popTop pops and releases the top of stack.
func (fb *Builder) popTop() {
	fb.DecRef(fb.Pop())
}

// dupTop duplicates the top of stack with a new reference.
func (fb *Builder) dupTop() {
	value := fb.Pop()
	fb.IncRef(value)
	fb.Push(value)
	fb.Push(value)
}

// returnValue pops the top of stack and returns it. Ownership of its
// reference transfers to the caller; no refcount operation is emitted.
func (fb *Builder) returnValue() {
	fb.b.Ret(fb.Pop())
}
