package ir

// InstrKind enumerates instruction kinds in the IR.
type InstrKind uint8

const (
	// InstrAlloca reserves a stack slot in the generated function.
	InstrAlloca InstrKind = iota
	// InstrLoad loads a value through a pointer.
	InstrLoad
	// InstrStore stores a value through a pointer.
	InstrStore
	// InstrFieldAddr computes the address of a named layout's field.
	InstrFieldAddr
	// InstrIndex computes the address of element i from a base pointer.
	InstrIndex
	// InstrBitCast reinterprets a pointer as a view of a named layout.
	InstrBitCast
	// InstrICmp compares two integer or pointer values.
	InstrICmp
	// InstrAdd adds two integers with wrapping semantics.
	InstrAdd
	// InstrCall calls an extern declaration.
	InstrCall
	// InstrConstInt materializes an integer constant.
	InstrConstInt
	// InstrConstNull materializes the null pointer sentinel.
	InstrConstNull
	// InstrGlobalAddr takes the address of an extern global.
	InstrGlobalAddr
	// InstrStrAddr takes the address of an interned string constant.
	InstrStrAddr
)

// Instr represents one IR instruction. Result is NoValueID for
// instructions that produce nothing (stores, void calls).
type Instr struct {
	Kind   InstrKind
	Result ValueID

	Alloca     AllocaInstr
	Load       LoadInstr
	Store      StoreInstr
	FieldAddr  FieldAddrInstr
	Index      IndexInstr
	BitCast    BitCastInstr
	ICmp       ICmpInstr
	Add        AddInstr
	Call       CallInstr
	ConstInt   ConstIntInstr
	GlobalAddr GlobalAddrInstr
	StrAddr    StrAddrInstr
}

type AllocaInstr struct {
	Elem Type
}

type LoadInstr struct {
	Addr ValueID
	Elem Type
}

type StoreInstr struct {
	Value ValueID
	Addr  ValueID
}

// FieldAddrInstr addresses field Field of the layout named Layout,
// given a base pointer to the start of that layout.
type FieldAddrInstr struct {
	Base   ValueID
	Layout string
	Field  int
}

// IndexInstr addresses element Index in an array of Elem starting at
// Base. Index may be a constant or a dynamically computed value.
type IndexInstr struct {
	Base  ValueID
	Elem  Type
	Index ValueID
}

type BitCastInstr struct {
	Value  ValueID
	Layout string
}

// ICmpPred enumerates integer comparison predicates.
type ICmpPred uint8

const (
	ICmpEq ICmpPred = iota
	ICmpNe
	ICmpSlt
)

func (p ICmpPred) String() string {
	switch p {
	case ICmpEq:
		return "eq"
	case ICmpNe:
		return "ne"
	case ICmpSlt:
		return "slt"
	default:
		return "<pred?>"
	}
}

type ICmpInstr struct {
	Pred  ICmpPred
	Left  ValueID
	Right ValueID
}

type AddInstr struct {
	Type  Type
	Left  ValueID
	Right ValueID
}

type CallInstr struct {
	Callee ExternID
	Args   []ValueID
}

type ConstIntInstr struct {
	Type  Type
	Value int64
}

type GlobalAddrInstr struct {
	Global ExternID
}

type StrAddrInstr struct {
	Str StrID
}
