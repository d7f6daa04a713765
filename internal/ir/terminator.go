package ir

type TermKind uint8

const (
	TermNone TermKind = iota
	TermBr
	TermCondBr
	TermRet
	TermUnreachable
)

type Terminator struct {
	Kind TermKind

	Br          BrTerm
	CondBr      CondBrTerm
	Ret         RetTerm
	Unreachable struct{}
}

type BrTerm struct {
	Target BlockID
}

type CondBrTerm struct {
	Cond ValueID
	Then BlockID
	Else BlockID
}

type RetTerm struct {
	Value ValueID
}
