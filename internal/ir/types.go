package ir

type ValueID int32
type BlockID int32
type ExternID int32
type StrID int32

const (
	NoValueID  ValueID  = -1
	NoBlockID  BlockID  = -1
	NoExternID ExternID = -1
	NoStrID    StrID    = -1
)

// TypeKind enumerates the scalar and pointer types the IR knows about.
// Pointers are opaque; struct shapes live in layout descriptors and are
// referenced by name from FieldAddr/BitCast instructions.
type TypeKind uint8

const (
	TypeVoid TypeKind = iota
	TypeInt1
	TypeInt8
	TypeInt32
	// TypeIntPtr is a pointer-sized signed integer (the host runtime's
	// ssize type).
	TypeIntPtr
	TypePtr
)

type Type struct {
	Kind TypeKind
}

func Void() Type   { return Type{Kind: TypeVoid} }
func Int1() Type   { return Type{Kind: TypeInt1} }
func Int8() Type   { return Type{Kind: TypeInt8} }
func Int32() Type  { return Type{Kind: TypeInt32} }
func IntPtr() Type { return Type{Kind: TypeIntPtr} }
func Ptr() Type    { return Type{Kind: TypePtr} }

func (t Type) String() string {
	switch t.Kind {
	case TypeVoid:
		return "void"
	case TypeInt1:
		return "i1"
	case TypeInt8:
		return "i8"
	case TypeInt32:
		return "i32"
	case TypeIntPtr:
		return "i64"
	case TypePtr:
		return "ptr"
	default:
		return "<type?>"
	}
}

// Sig is a call signature for extern declarations and generated
// functions.
type Sig struct {
	Ret      Type
	Params   []Type
	Variadic bool
}
