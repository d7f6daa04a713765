package ir

// Linkage controls how a generated function is exposed to the linker.
type Linkage uint8

const (
	LinkagePrivate Linkage = iota
	LinkageExternal
)

// ValueInfo describes one SSA value of a function. Values are created
// by the Builder; the parameter occupies index 0.
type ValueInfo struct {
	Name string
	Type Type
}

// Func is one generated function. The calling convention is fixed:
// a single pointer-to-frame parameter and a pointer-sized result that
// doubles as the null failure sentinel.
type Func struct {
	Name    string
	Linkage Linkage

	Blocks []Block
	Entry  BlockID
	Values []ValueInfo
}

// Param returns the ValueID of the frame parameter.
func (f *Func) Param() ValueID {
	if f == nil || len(f.Values) == 0 {
		return NoValueID
	}
	return 0
}

// Block returns the block with the given ID, or nil.
func (f *Func) Block(id BlockID) *Block {
	if f == nil || id < 0 || int(id) >= len(f.Blocks) {
		return nil
	}
	return &f.Blocks[id]
}
