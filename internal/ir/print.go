package ir

import (
	"fmt"
	"io"
	"strings"
)

// DumpModule writes a deterministic, LLVM-flavored textual form of the
// module: extern declarations first, then string constants, then
// functions with bbN labels. Layout-typed addressing is printed
// against %rt.<layout> named types; the consumer pairs the text with
// the layout registry that produced it.
func DumpModule(w io.Writer, m *Module) error {
	if w == nil || m == nil {
		return nil
	}

	fmt.Fprintf(w, "; module %q\n\n", m.Name)

	for i := range m.Externs {
		ext := &m.Externs[i]
		switch ext.Kind {
		case ExternFunc:
			params := make([]string, 0, len(ext.Sig.Params))
			for _, p := range ext.Sig.Params {
				params = append(params, p.String())
			}
			if ext.Sig.Variadic {
				params = append(params, "...")
			}
			fmt.Fprintf(w, "declare %s @%s(%s)\n", ext.Sig.Ret, ext.Name, strings.Join(params, ", "))
		case ExternGlobal:
			fmt.Fprintf(w, "@%s = external global %s\n", ext.Name, ext.Type)
		}
	}
	if len(m.Externs) > 0 {
		fmt.Fprintln(w)
	}

	for i := range m.Strs {
		fmt.Fprintf(w, "@.str.%d = private constant [%d x i8] c\"%s\\00\"\n",
			i, len(m.Strs[i].Value)+1, escapeString(m.Strs[i].Value))
	}
	if len(m.Strs) > 0 {
		fmt.Fprintln(w)
	}

	for _, f := range m.Funcs {
		if f == nil {
			continue
		}
		if err := dumpFunc(w, m, f); err != nil {
			return err
		}
	}
	return nil
}

func dumpFunc(w io.Writer, m *Module, f *Func) error {
	linkage := ""
	if f.Linkage == LinkagePrivate {
		linkage = "private "
	}
	fmt.Fprintf(w, "define %sptr @%q(ptr %%frame) {\n", linkage, f.Name)
	for i := range f.Blocks {
		bb := &f.Blocks[i]
		if bb.Label != "" {
			fmt.Fprintf(w, "bb%d: ; %s\n", bb.ID, bb.Label)
		} else {
			fmt.Fprintf(w, "bb%d:\n", bb.ID)
		}
		for j := range bb.Instrs {
			fmt.Fprintf(w, "  %s\n", formatInstr(m, f, &bb.Instrs[j]))
		}
		fmt.Fprintf(w, "  %s\n", formatTerm(f, &bb.Term))
	}
	fmt.Fprint(w, "}\n\n")
	return nil
}

func valueRef(f *Func, id ValueID) string {
	if f == nil || id < 0 || int(id) >= len(f.Values) {
		return "<value?>"
	}
	return "%" + f.Values[id].Name
}

func typedRef(f *Func, id ValueID) string {
	if f == nil || id < 0 || int(id) >= len(f.Values) {
		return "<value?>"
	}
	return f.Values[id].Type.String() + " " + valueRef(f, id)
}

func formatInstr(m *Module, f *Func, ins *Instr) string {
	if ins == nil {
		return "<instr?>"
	}
	res := ""
	if ins.Result != NoValueID {
		res = valueRef(f, ins.Result) + " = "
	}
	switch ins.Kind {
	case InstrAlloca:
		return fmt.Sprintf("%salloca %s", res, ins.Alloca.Elem)
	case InstrLoad:
		return fmt.Sprintf("%sload %s, ptr %s", res, ins.Load.Elem, valueRef(f, ins.Load.Addr))
	case InstrStore:
		return fmt.Sprintf("store %s, ptr %s", typedRef(f, ins.Store.Value), valueRef(f, ins.Store.Addr))
	case InstrFieldAddr:
		return fmt.Sprintf("%sgetelementptr %%rt.%s, ptr %s, i32 0, i32 %d",
			res, ins.FieldAddr.Layout, valueRef(f, ins.FieldAddr.Base), ins.FieldAddr.Field)
	case InstrIndex:
		return fmt.Sprintf("%sgetelementptr %s, ptr %s, %s",
			res, ins.Index.Elem, valueRef(f, ins.Index.Base), typedRef(f, ins.Index.Index))
	case InstrBitCast:
		return fmt.Sprintf("%sbitcast ptr %s to ptr ; %%rt.%s", res, valueRef(f, ins.BitCast.Value), ins.BitCast.Layout)
	case InstrICmp:
		return fmt.Sprintf("%sicmp %s %s, %s", res, ins.ICmp.Pred, typedRef(f, ins.ICmp.Left), valueRef(f, ins.ICmp.Right))
	case InstrAdd:
		return fmt.Sprintf("%sadd %s %s, %s", res, ins.Add.Type, valueRef(f, ins.Add.Left), valueRef(f, ins.Add.Right))
	case InstrCall:
		ext := m.Extern(ins.Call.Callee)
		name := "<extern?>"
		ret := Void()
		if ext != nil {
			name = ext.Name
			ret = ext.Sig.Ret
		}
		args := make([]string, 0, len(ins.Call.Args))
		for _, a := range ins.Call.Args {
			args = append(args, typedRef(f, a))
		}
		return fmt.Sprintf("%scall %s @%s(%s)", res, ret, name, strings.Join(args, ", "))
	case InstrConstInt:
		return fmt.Sprintf("%sconst %s %d", res, ins.ConstInt.Type, ins.ConstInt.Value)
	case InstrConstNull:
		return fmt.Sprintf("%snull ptr", res)
	case InstrGlobalAddr:
		ext := m.Extern(ins.GlobalAddr.Global)
		name := "<extern?>"
		if ext != nil {
			name = ext.Name
		}
		return fmt.Sprintf("%sglobaladdr @%s", res, name)
	case InstrStrAddr:
		return fmt.Sprintf("%sstraddr @.str.%d", res, ins.StrAddr.Str)
	default:
		return "<instr?>"
	}
}

func formatTerm(f *Func, t *Terminator) string {
	if t == nil {
		return "<term?>"
	}
	switch t.Kind {
	case TermBr:
		return fmt.Sprintf("br label %%bb%d", t.Br.Target)
	case TermCondBr:
		return fmt.Sprintf("br i1 %s, label %%bb%d, label %%bb%d",
			valueRef(f, t.CondBr.Cond), t.CondBr.Then, t.CondBr.Else)
	case TermRet:
		return fmt.Sprintf("ret %s", typedRef(f, t.Ret.Value))
	case TermUnreachable:
		return "unreachable"
	case TermNone:
		return "<unterminated>"
	default:
		return "<term?>"
	}
}

func escapeString(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c < 0x7f && c != '"' && c != '\\' {
			sb.WriteByte(c)
			continue
		}
		fmt.Fprintf(&sb, "\\%02X", c)
	}
	return sb.String()
}
