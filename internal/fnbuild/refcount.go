package fnbuild

import (
	"pyrite/internal/ir"
	"pyrite/internal/rtlayout"
)

// addToCell adds delta to the integer at addr and returns the new
// value. Plain wrapping arithmetic at the cell's width, matching the
// host runtime; no saturation.
func (fb *Builder) addToCell(addr ir.ValueID, ty ir.Type, delta int64) ir.ValueID {
	b := fb.b
	orig := b.Load(addr, ty, "")
	next := b.Add(ty, orig, b.ConstInt(ty, delta, ""), "")
	b.Store(next, addr)
	return next
}

func (fb *Builder) refcountAddr(value ir.ValueID) (asObject, addr ir.ValueID) {
	b := fb.b
	objD := fb.reg.Describe(rtlayout.LayoutObject)
	asObject = b.BitCast(value, rtlayout.LayoutObject, "as_object")
	addr = b.FieldAddr(asObject, rtlayout.LayoutObject, objD.Index("refcount"), "refcnt_addr")
	return asObject, addr
}

// IncRef emits the take-a-reference sequence for value. Debug mode
// also bumps the process-wide total-reference cell.
func (fb *Builder) IncRef(value ir.ValueID) {
	b := fb.b
	if fb.mode == ModeDebug {
		total := b.GlobalAddr(declTotalRefs(fb.mod), "total_refs_addr")
		fb.addToCell(total, ir.IntPtr(), 1)
	}
	_, addr := fb.refcountAddr(value)
	fb.addToCell(addr, ir.IntPtr(), 1)
}

// DecRef emits the release-a-reference sequence for value: decrement,
// branch to deallocation when the count reaches zero, and in debug
// mode report a negative count to the runtime's fault routine. Every
// path converges on a single continuation block, so callers keep
// emitting without tracking which branch was taken.
func (fb *Builder) DecRef(value ir.ValueID) {
	b := fb.b
	if fb.mode == ModeDebug {
		total := b.GlobalAddr(declTotalRefs(fb.mod), "total_refs_addr")
		fb.addToCell(total, ir.IntPtr(), -1)
	}
	asObject, addr := fb.refcountAddr(value)
	newCount := fb.addToCell(addr, ir.IntPtr(), -1)

	dealloc := b.NewBlock("dealloc")
	tail := b.NewBlock("decref_tail")
	refNeZero := tail
	if fb.mode == ModeDebug {
		refNeZero = b.NewBlock("check_refcnt")
	}

	zero := b.ConstInt(ir.IntPtr(), 0, "")
	b.CondBr(b.ICmp(ir.ICmpNe, newCount, zero, "ref_ne_zero"), refNeZero, dealloc)

	if fb.mode == ModeDebug {
		b.StartBlock(refNeZero)
		negative := b.NewBlock("negative_refcount")
		b.CondBr(b.ICmp(ir.ICmpSlt, newCount, zero, "ref_lt_zero"), negative, tail)

		b.StartBlock(negative)
		// Tag the report with the source file and the bytecode index
		// being translated.
		file := b.StrAddr(fb.code.Filename, "file")
		line := b.ConstInt(ir.Int32(), int64(fb.pc), "")
		b.Call(declNegativeRefcount(fb.mod), []ir.ValueID{file, line, asObject}, "")
		b.Br(tail)
	}

	b.StartBlock(dealloc)
	b.Call(declDealloc(fb.mod), []ir.ValueID{asObject}, "")
	b.Br(tail)

	b.StartBlock(tail)
}
