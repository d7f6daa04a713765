package ir

import (
	"fmt"

	"fortio.org/safecast"
)

// Builder emits instructions into one function through a single
// insertion cursor. Translation of a function is strictly sequential:
// the cursor mirrors the straight-line/branching shape of the compiled
// function, so Builder is not safe for concurrent use.
type Builder struct {
	mod *Module
	f   *Func
	cur BlockID
}

// NewBuilder creates a builder positioned in a fresh entry block of f.
func NewBuilder(mod *Module, f *Func) *Builder {
	b := &Builder{mod: mod, f: f, cur: NoBlockID}
	entry := b.NewBlock("entry")
	f.Entry = entry
	b.cur = entry
	return b
}

// Module returns the module the builder emits into.
func (b *Builder) Module() *Module { return b.mod }

// Func returns the function under construction.
func (b *Builder) Func() *Func { return b.f }

// CurBlock returns the block the cursor is positioned in.
func (b *Builder) CurBlock() *Block {
	if b == nil || b.f == nil {
		return nil
	}
	return b.f.Block(b.cur)
}

// NewBlock appends an empty block and returns its ID. The cursor does
// not move.
func (b *Builder) NewBlock(label string) BlockID {
	raw, err := safecast.Conv[int32](len(b.f.Blocks))
	if err != nil {
		panic(fmt.Errorf("ir: block id overflow: %w", err))
	}
	id := BlockID(raw)
	b.f.Blocks = append(b.f.Blocks, Block{ID: id, Label: label, Term: Terminator{Kind: TermNone}})
	return id
}

// StartBlock moves the cursor. The block being left must already be
// terminated; use FallThroughTo when it may not be.
func (b *Builder) StartBlock(id BlockID) {
	b.cur = id
}

// FallThroughTo closes the current block with an unconditional branch
// to next if it has no terminator yet, then moves the cursor to next.
func (b *Builder) FallThroughTo(next BlockID) {
	if !b.CurBlock().Terminated() {
		b.SetTerm(&Terminator{Kind: TermBr, Br: BrTerm{Target: next}})
	}
	b.cur = next
}

// SetTerm terminates the current block. A second terminator on the
// same block is dropped, matching the emit discipline for code that
// follows an early return.
func (b *Builder) SetTerm(t *Terminator) {
	blk := b.CurBlock()
	if blk == nil || blk.Terminated() || t == nil {
		return
	}
	blk.Term = *t
}

func (b *Builder) emit(ins *Instr) {
	blk := b.CurBlock()
	if blk == nil || blk.Terminated() || ins == nil {
		return
	}
	blk.Instrs = append(blk.Instrs, *ins)
}

func (b *Builder) newValue(name string, ty Type) ValueID {
	raw, err := safecast.Conv[int32](len(b.f.Values))
	if err != nil {
		panic(fmt.Errorf("ir: value id overflow: %w", err))
	}
	id := ValueID(raw)
	if name == "" {
		name = fmt.Sprintf("t%d", id)
	} else {
		name = fmt.Sprintf("%s.%d", name, id)
	}
	b.f.Values = append(b.f.Values, ValueInfo{Name: name, Type: ty})
	return id
}

// Alloca reserves a slot holding one elem and returns its address.
func (b *Builder) Alloca(elem Type, name string) ValueID {
	res := b.newValue(name, Ptr())
	b.emit(&Instr{Kind: InstrAlloca, Result: res, Alloca: AllocaInstr{Elem: elem}})
	return res
}

// Load reads an elem through addr.
func (b *Builder) Load(addr ValueID, elem Type, name string) ValueID {
	res := b.newValue(name, elem)
	b.emit(&Instr{Kind: InstrLoad, Result: res, Load: LoadInstr{Addr: addr, Elem: elem}})
	return res
}

// Store writes value through addr.
func (b *Builder) Store(value, addr ValueID) {
	b.emit(&Instr{Kind: InstrStore, Store: StoreInstr{Value: value, Addr: addr}})
}

// FieldAddr addresses field of the layout named layout at base.
func (b *Builder) FieldAddr(base ValueID, layout string, field int, name string) ValueID {
	res := b.newValue(name, Ptr())
	b.emit(&Instr{Kind: InstrFieldAddr, Result: res, FieldAddr: FieldAddrInstr{Base: base, Layout: layout, Field: field}})
	return res
}

// Index addresses element index of an elem array starting at base.
func (b *Builder) Index(base ValueID, elem Type, index ValueID, name string) ValueID {
	res := b.newValue(name, Ptr())
	b.emit(&Instr{Kind: InstrIndex, Result: res, Index: IndexInstr{Base: base, Elem: elem, Index: index}})
	return res
}

// BitCast reinterprets a pointer as a view of the named layout.
func (b *Builder) BitCast(value ValueID, layout string, name string) ValueID {
	res := b.newValue(name, Ptr())
	b.emit(&Instr{Kind: InstrBitCast, Result: res, BitCast: BitCastInstr{Value: value, Layout: layout}})
	return res
}

// ICmp compares left and right under pred.
func (b *Builder) ICmp(pred ICmpPred, left, right ValueID, name string) ValueID {
	res := b.newValue(name, Int1())
	b.emit(&Instr{Kind: InstrICmp, Result: res, ICmp: ICmpInstr{Pred: pred, Left: left, Right: right}})
	return res
}

// Add adds two values of type ty with wrapping semantics.
func (b *Builder) Add(ty Type, left, right ValueID, name string) ValueID {
	res := b.newValue(name, ty)
	b.emit(&Instr{Kind: InstrAdd, Result: res, Add: AddInstr{Type: ty, Left: left, Right: right}})
	return res
}

// Call calls an extern function. The result is NoValueID for void
// callees.
func (b *Builder) Call(callee ExternID, args []ValueID, name string) ValueID {
	ext := b.mod.Extern(callee)
	res := NoValueID
	if ext != nil && ext.Sig.Ret.Kind != TypeVoid {
		res = b.newValue(name, ext.Sig.Ret)
	}
	b.emit(&Instr{Kind: InstrCall, Result: res, Call: CallInstr{Callee: callee, Args: args}})
	return res
}

// ConstInt materializes an integer constant of type ty.
func (b *Builder) ConstInt(ty Type, value int64, name string) ValueID {
	res := b.newValue(name, ty)
	b.emit(&Instr{Kind: InstrConstInt, Result: res, ConstInt: ConstIntInstr{Type: ty, Value: value}})
	return res
}

// Null materializes the null pointer sentinel.
func (b *Builder) Null(name string) ValueID {
	res := b.newValue(name, Ptr())
	b.emit(&Instr{Kind: InstrConstNull, Result: res})
	return res
}

// GlobalAddr takes the address of an extern global cell.
func (b *Builder) GlobalAddr(global ExternID, name string) ValueID {
	res := b.newValue(name, Ptr())
	b.emit(&Instr{Kind: InstrGlobalAddr, Result: res, GlobalAddr: GlobalAddrInstr{Global: global}})
	return res
}

// StrAddr takes the address of an interned string constant.
func (b *Builder) StrAddr(s string, name string) ValueID {
	id := b.mod.InternString(s)
	res := b.newValue(name, Ptr())
	b.emit(&Instr{Kind: InstrStrAddr, Result: res, StrAddr: StrAddrInstr{Str: id}})
	return res
}

// Br terminates the current block with an unconditional branch.
func (b *Builder) Br(target BlockID) {
	b.SetTerm(&Terminator{Kind: TermBr, Br: BrTerm{Target: target}})
}

// CondBr terminates the current block with a conditional branch.
func (b *Builder) CondBr(cond ValueID, then, els BlockID) {
	b.SetTerm(&Terminator{Kind: TermCondBr, CondBr: CondBrTerm{Cond: cond, Then: then, Else: els}})
}

// Ret terminates the current block returning value.
func (b *Builder) Ret(value ValueID) {
	b.SetTerm(&Terminator{Kind: TermRet, Ret: RetTerm{Value: value}})
}

// Unreachable terminates the current block as unreachable.
func (b *Builder) Unreachable() {
	b.SetTerm(&Terminator{Kind: TermUnreachable})
}
