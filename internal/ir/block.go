package ir

type Block struct {
	ID BlockID
	// Label is a human-readable hint kept for dumps, e.g.
	// "load_fast_unbound". Never used for lookup.
	Label  string
	Instrs []Instr
	Term   Terminator
}

func (b *Block) Terminated() bool {
	if b == nil {
		return true
	}
	return b.Term.Kind != TermNone
}
