package fnbuild

import (
	"fmt"

	"pyrite/internal/bytecode"
	"pyrite/internal/ir"
	"pyrite/internal/rtlayout"
)

// Builder translates one code object's instruction stream into one
// generated IR function. The external driver feeds it opcodes in
// program order via Op; the builder advances a single insertion cursor
// and keeps an explicit evaluation-stack pointer slot, so a Builder is
// strictly sequential and never shared.
type Builder struct {
	mod  *ir.Module
	reg  *rtlayout.Registry
	mode Mode
	code *bytecode.CodeObject

	fn *ir.Func
	b  *ir.Builder

	frame ir.ValueID
	// stackPtrSlot holds the current evaluation stack pointer, seeded
	// from the frame's stacktop field.
	stackPtrSlot ir.ValueID

	// Cached in the prologue.
	varnames   ir.ValueID
	names      ir.ValueID
	consts     ir.ValueID
	fastlocals ir.ValueID
	freevars   ir.ValueID

	// pc is the index of the instruction being translated, used as the
	// location tag of debug fault reports.
	pc int
}

// New creates a builder for one code object and emits the prologue:
// allocate the stack-pointer slot, seed it from frame.stacktop, and
// cache the code descriptor's containers and the local/free variable
// array bases. The registry's debug setting and mode must agree, since
// both sides describe the same object header.
func New(mod *ir.Module, name string, code *bytecode.CodeObject, reg *rtlayout.Registry, mode Mode) (*Builder, error) {
	if mod == nil || code == nil || reg == nil {
		return nil, fmt.Errorf("fnbuild: nil module, code or registry")
	}
	if (mode == ModeDebug) != reg.Debug() {
		return nil, fmt.Errorf("fnbuild: build mode %s does not match registry debug=%t", mode, reg.Debug())
	}

	fb := &Builder{
		mod:  mod,
		reg:  reg,
		mode: mode,
		code: code,
	}
	fb.fn = mod.NewFunc(name, ir.LinkagePrivate)
	fb.b = ir.NewBuilder(mod, fb.fn)
	fb.frame = fb.fn.Param()
	fb.prologue()
	return fb, nil
}

// Func returns the function under construction.
func (fb *Builder) Func() *ir.Func { return fb.fn }

func (fb *Builder) prologue() {
	b := fb.b
	frameD := fb.reg.Describe(rtlayout.LayoutFrame)
	codeD := fb.reg.Describe(rtlayout.LayoutCode)

	fb.stackPtrSlot = b.Alloca(ir.Ptr(), "stack_pointer_addr")
	initial := b.Load(
		b.FieldAddr(fb.frame, rtlayout.LayoutFrame, frameD.Index("stacktop"), "stacktop_addr"),
		ir.Ptr(), "initial_stack_pointer")
	b.Store(initial, fb.stackPtrSlot)

	co := b.Load(
		b.FieldAddr(fb.frame, rtlayout.LayoutFrame, frameD.Index("code"), "code_addr"),
		ir.Ptr(), "co")
	fb.varnames = b.Load(
		b.FieldAddr(co, rtlayout.LayoutCode, codeD.Index("varnames"), "varnames_addr"),
		ir.Ptr(), "varnames")
	fb.names = b.BitCast(
		b.Load(b.FieldAddr(co, rtlayout.LayoutCode, codeD.Index("names"), "names_addr"), ir.Ptr(), ""),
		rtlayout.LayoutVarObject, "names")
	fb.consts = b.BitCast(
		b.Load(b.FieldAddr(co, rtlayout.LayoutCode, codeD.Index("consts"), "consts_addr"), ir.Ptr(), ""),
		rtlayout.LayoutVarObject, "consts")

	// &frame.localsplus[0]; free variables start nlocals slots in.
	fb.fastlocals = b.FieldAddr(fb.frame, rtlayout.LayoutFrame, frameD.Index("localsplus"), "fastlocals")
	nlocals := b.Load(
		b.FieldAddr(co, rtlayout.LayoutCode, codeD.Index("nlocals"), "nlocals_addr"),
		ir.Int32(), "nlocals")
	fb.freevars = b.Index(fb.fastlocals, ir.Ptr(), nlocals, "freevars")
}

// Op translates the instruction at index pc. An opcode with no handler
// fails the whole translation; no trap is emitted and nothing is
// skipped.
func (fb *Builder) Op(pc int, ins bytecode.Instr) error {
	fb.pc = pc
	switch ins.Op {
	case bytecode.OpLoadConst:
		fb.loadConst(ins.Arg)
	case bytecode.OpLoadFast:
		fb.loadFast(ins.Arg)
	case bytecode.OpLoadFree:
		fb.loadFree(ins.Arg)
	case bytecode.OpStoreFast:
		fb.storeFast(ins.Arg)
	case bytecode.OpPopTop:
		fb.popTop()
	case bytecode.OpDupTop:
		fb.dupTop()
	case bytecode.OpReturnValue:
		fb.returnValue()
	default:
		return fmt.Errorf("fnbuild: %s: instr %d: no handler for opcode %d", fb.fn.Name, pc, uint8(ins.Op))
	}
	return nil
}
