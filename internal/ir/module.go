package ir

// ExternKind distinguishes imported functions from imported globals.
type ExternKind uint8

const (
	ExternFunc ExternKind = iota
	ExternGlobal
)

// Extern is a declaration of a symbol defined by the host runtime and
// resolved by the downstream linker.
type Extern struct {
	Kind ExternKind
	Name string

	// Func-only:
	Sig Sig
	// Global-only:
	Type Type
}

// StrConst is an interned NUL-terminated byte string.
type StrConst struct {
	Value string
}

// Module is one translation target: the generated functions for a
// single code object plus everything they reference.
type Module struct {
	Name  string
	Funcs []*Func

	Externs []Extern
	Strs    []StrConst

	externByName map[string]ExternID
	strByValue   map[string]StrID
}

func NewModule(name string) *Module {
	return &Module{
		Name:         name,
		externByName: make(map[string]ExternID, 16),
		strByValue:   make(map[string]StrID, 8),
	}
}

// DeclareFunc returns the declaration for name, creating an extern
// function with the given signature on first use. A name is declared
// at most once per module; later calls return the original handle and
// ignore the signature (the set of extern names and signatures is
// fixed at build time, so a mismatch is a programming error).
func (m *Module) DeclareFunc(name string, sig Sig) ExternID {
	if id, ok := m.externByName[name]; ok {
		return id
	}
	id := ExternID(len(m.Externs))
	m.Externs = append(m.Externs, Extern{Kind: ExternFunc, Name: name, Sig: sig})
	m.externByName[name] = id
	return id
}

// DeclareGlobal returns the declaration for an extern global cell,
// creating it on first use. Deduplicated by name like DeclareFunc.
func (m *Module) DeclareGlobal(name string, ty Type) ExternID {
	if id, ok := m.externByName[name]; ok {
		return id
	}
	id := ExternID(len(m.Externs))
	m.Externs = append(m.Externs, Extern{Kind: ExternGlobal, Name: name, Type: ty})
	m.externByName[name] = id
	return id
}

// Extern returns the declaration for id, or nil.
func (m *Module) Extern(id ExternID) *Extern {
	if m == nil || id < 0 || int(id) >= len(m.Externs) {
		return nil
	}
	return &m.Externs[id]
}

// InternString returns the ID of the given string constant, interning
// it on first use.
func (m *Module) InternString(s string) StrID {
	if id, ok := m.strByValue[s]; ok {
		return id
	}
	id := StrID(len(m.Strs))
	m.Strs = append(m.Strs, StrConst{Value: s})
	m.strByValue[s] = id
	return id
}

// NewFunc adds an empty function with a single frame parameter and
// returns it.
func (m *Module) NewFunc(name string, linkage Linkage) *Func {
	f := &Func{
		Name:    name,
		Linkage: linkage,
		Entry:   NoBlockID,
		Values:  []ValueInfo{{Name: "frame", Type: Ptr()}},
	}
	m.Funcs = append(m.Funcs, f)
	return f
}
