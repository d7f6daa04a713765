package ir

import (
	"errors"
	"fmt"
)

// Validate checks module invariants.
// Returns error if any invariant is violated.
func Validate(m *Module) error {
	if m == nil {
		return nil
	}
	var errs []error
	for _, f := range m.Funcs {
		if f == nil {
			continue
		}
		if err := validateFunc(m, f); err != nil {
			errs = append(errs, fmt.Errorf("function %s: %w", f.Name, err))
		}
	}
	return errors.Join(errs...)
}

func validateFunc(m *Module, f *Func) error {
	var errs []error

	if err := validateBlocksTerminated(f); err != nil {
		errs = append(errs, err)
	}
	if err := validateBlockTargets(f); err != nil {
		errs = append(errs, err)
	}
	if err := validateValueRefs(m, f); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// validateBlocksTerminated checks that every block ends with a terminator.
func validateBlocksTerminated(f *Func) error {
	var errs []error
	for i := range f.Blocks {
		if f.Blocks[i].Term.Kind == TermNone {
			errs = append(errs, fmt.Errorf("bb%d: unterminated block", i))
		}
	}
	return errors.Join(errs...)
}

// validateBlockTargets checks that all branch target IDs exist.
func validateBlockTargets(f *Func) error {
	var errs []error

	blockExists := func(id BlockID) bool {
		return id >= 0 && int(id) < len(f.Blocks)
	}

	for i := range f.Blocks {
		bb := &f.Blocks[i]
		switch bb.Term.Kind {
		case TermBr:
			if !blockExists(bb.Term.Br.Target) {
				errs = append(errs, fmt.Errorf("bb%d: br target bb%d does not exist", i, bb.Term.Br.Target))
			}
		case TermCondBr:
			if !blockExists(bb.Term.CondBr.Then) {
				errs = append(errs, fmt.Errorf("bb%d: condbr then target bb%d does not exist", i, bb.Term.CondBr.Then))
			}
			if !blockExists(bb.Term.CondBr.Else) {
				errs = append(errs, fmt.Errorf("bb%d: condbr else target bb%d does not exist", i, bb.Term.CondBr.Else))
			}
		}
	}
	return errors.Join(errs...)
}

// validateValueRefs checks that every value, extern and string
// reference is in range.
func validateValueRefs(m *Module, f *Func) error {
	var errs []error

	valueExists := func(id ValueID) bool {
		return id >= 0 && int(id) < len(f.Values)
	}
	externExists := func(id ExternID) bool {
		return m != nil && id >= 0 && int(id) < len(m.Externs)
	}
	strExists := func(id StrID) bool {
		return m != nil && id >= 0 && int(id) < len(m.Strs)
	}

	checkValue := func(id ValueID, context string) {
		if !valueExists(id) {
			errs = append(errs, fmt.Errorf("%s: value v%d does not exist", context, id))
		}
	}

	for i := range f.Blocks {
		bb := &f.Blocks[i]
		for j := range bb.Instrs {
			ins := &bb.Instrs[j]
			ctx := fmt.Sprintf("bb%d instr %d", i, j)

			switch ins.Kind {
			case InstrLoad:
				checkValue(ins.Load.Addr, ctx)
			case InstrStore:
				checkValue(ins.Store.Value, ctx)
				checkValue(ins.Store.Addr, ctx)
			case InstrFieldAddr:
				checkValue(ins.FieldAddr.Base, ctx)
			case InstrIndex:
				checkValue(ins.Index.Base, ctx)
				checkValue(ins.Index.Index, ctx)
			case InstrBitCast:
				checkValue(ins.BitCast.Value, ctx)
			case InstrICmp:
				checkValue(ins.ICmp.Left, ctx)
				checkValue(ins.ICmp.Right, ctx)
			case InstrAdd:
				checkValue(ins.Add.Left, ctx)
				checkValue(ins.Add.Right, ctx)
			case InstrCall:
				if !externExists(ins.Call.Callee) {
					errs = append(errs, fmt.Errorf("%s: extern %d does not exist", ctx, ins.Call.Callee))
				}
				for _, arg := range ins.Call.Args {
					checkValue(arg, ctx)
				}
			case InstrGlobalAddr:
				if !externExists(ins.GlobalAddr.Global) {
					errs = append(errs, fmt.Errorf("%s: extern global %d does not exist", ctx, ins.GlobalAddr.Global))
				}
			case InstrStrAddr:
				if !strExists(ins.StrAddr.Str) {
					errs = append(errs, fmt.Errorf("%s: string constant %d does not exist", ctx, ins.StrAddr.Str))
				}
			}
			if ins.Result != NoValueID && !valueExists(ins.Result) {
				errs = append(errs, fmt.Errorf("%s: result v%d does not exist", ctx, ins.Result))
			}
		}

		ctx := fmt.Sprintf("bb%d terminator", i)
		switch bb.Term.Kind {
		case TermRet:
			checkValue(bb.Term.Ret.Value, ctx)
		case TermCondBr:
			checkValue(bb.Term.CondBr.Cond, ctx)
		}
	}

	return errors.Join(errs...)
}
