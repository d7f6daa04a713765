package fnbuild_test

import (
	"testing"

	"pyrite/internal/bytecode"
	"pyrite/internal/fnbuild"
	"pyrite/internal/ir"
	"pyrite/internal/rtlayout"
)

// The tests in this package run the generated IR in a tiny interpreter
// against a hand-built frame image, so stack discipline and refcount
// balance are observed rather than pattern-matched.

// Fixed addresses of the simulated frame image.
const (
	frameAddr     = 0x1000
	codeAddr      = 0x2000
	constsAddr    = 0x3000 // varobject holding the constant pool
	varnamesAddr  = 0x4000 // opaque name containers
	namesAddr     = 0x4100
	freenamesAddr = 0x4200
	stackAddr     = 0x5000
	objBase       = 0x6000 // constant objects, 0x100 apart

	globalBase = 0x70000000
	strBase    = 0x71000000
)

type callRec struct {
	name string
	args []int64
}

// machine interprets one generated function over a word-addressed
// memory image. Extern calls are recorded and answered by hooks.
type machine struct {
	t   *testing.T
	mod *ir.Module
	reg *rtlayout.Registry

	mem        map[int64]int64
	nextAlloca int64

	calls []callRec
	hooks map[string]func(args []int64) int64
}

func newMachine(t *testing.T, mod *ir.Module, reg *rtlayout.Registry) *machine {
	t.Helper()
	return &machine{
		t:          t,
		mod:        mod,
		reg:        reg,
		mem:        make(map[int64]int64, 64),
		nextAlloca: 0x100,
		hooks: map[string]func(args []int64) int64{
			"rt_tuple_item": func(args []int64) int64 { return 0x4F00 + args[1] },
			"rt_as_string":  func(args []int64) int64 { return 0x4E00 },
			"rt_err_format": func([]int64) int64 { return 0 },
		},
	}
}

func (m *machine) globalAddr(id ir.ExternID) int64 { return globalBase + int64(id)*8 }
func (m *machine) strAddr(id ir.StrID) int64       { return strBase + int64(id)*16 }

func elemSize(ty ir.Type) int64 {
	switch ty.Kind {
	case ir.TypeInt8:
		return 1
	case ir.TypeInt32:
		return 4
	default:
		return 8
	}
}

// run executes f from its entry block and returns the ret value.
func (m *machine) run(f *ir.Func, frame int64) int64 {
	m.t.Helper()
	vals := make([]int64, len(f.Values))
	vals[f.Param()] = frame

	cur := f.Block(f.Entry)
	for steps := 0; ; steps++ {
		if steps > 10000 {
			m.t.Fatal("interpreter did not terminate")
		}
		if cur == nil {
			m.t.Fatal("interpreter fell off a missing block")
		}
		for i := range cur.Instrs {
			m.step(f, vals, &cur.Instrs[i])
		}
		switch cur.Term.Kind {
		case ir.TermBr:
			cur = f.Block(cur.Term.Br.Target)
		case ir.TermCondBr:
			if vals[cur.Term.CondBr.Cond] != 0 {
				cur = f.Block(cur.Term.CondBr.Then)
			} else {
				cur = f.Block(cur.Term.CondBr.Else)
			}
		case ir.TermRet:
			return vals[cur.Term.Ret.Value]
		default:
			m.t.Fatalf("bb%d: unexpected terminator kind %d", cur.ID, cur.Term.Kind)
		}
	}
}

func (m *machine) step(f *ir.Func, vals []int64, ins *ir.Instr) {
	m.t.Helper()
	switch ins.Kind {
	case ir.InstrAlloca:
		vals[ins.Result] = m.nextAlloca
		m.nextAlloca += 16
	case ir.InstrLoad:
		vals[ins.Result] = m.mem[vals[ins.Load.Addr]]
	case ir.InstrStore:
		m.mem[vals[ins.Store.Addr]] = vals[ins.Store.Value]
	case ir.InstrFieldAddr:
		d := m.reg.Describe(ins.FieldAddr.Layout)
		vals[ins.Result] = vals[ins.FieldAddr.Base] + int64(d.Offsets[ins.FieldAddr.Field])
	case ir.InstrIndex:
		vals[ins.Result] = vals[ins.Index.Base] + vals[ins.Index.Index]*elemSize(ins.Index.Elem)
	case ir.InstrBitCast:
		vals[ins.Result] = vals[ins.BitCast.Value]
	case ir.InstrICmp:
		var ok bool
		switch ins.ICmp.Pred {
		case ir.ICmpEq:
			ok = vals[ins.ICmp.Left] == vals[ins.ICmp.Right]
		case ir.ICmpNe:
			ok = vals[ins.ICmp.Left] != vals[ins.ICmp.Right]
		case ir.ICmpSlt:
			ok = vals[ins.ICmp.Left] < vals[ins.ICmp.Right]
		}
		if ok {
			vals[ins.Result] = 1
		} else {
			vals[ins.Result] = 0
		}
	case ir.InstrAdd:
		vals[ins.Result] = vals[ins.Add.Left] + vals[ins.Add.Right]
	case ir.InstrCall:
		ext := m.mod.Extern(ins.Call.Callee)
		if ext == nil {
			m.t.Fatal("call to missing extern")
		}
		args := make([]int64, len(ins.Call.Args))
		for i, a := range ins.Call.Args {
			args[i] = vals[a]
		}
		m.calls = append(m.calls, callRec{name: ext.Name, args: args})
		var ret int64
		if hook, ok := m.hooks[ext.Name]; ok {
			ret = hook(args)
		}
		if ins.Result != ir.NoValueID {
			vals[ins.Result] = ret
		}
	case ir.InstrConstInt:
		vals[ins.Result] = ins.ConstInt.Value
	case ir.InstrConstNull:
		vals[ins.Result] = 0
	case ir.InstrGlobalAddr:
		vals[ins.Result] = m.globalAddr(ins.GlobalAddr.Global)
	case ir.InstrStrAddr:
		vals[ins.Result] = m.strAddr(ins.StrAddr.Str)
	default:
		m.t.Fatalf("unhandled instruction kind %d", ins.Kind)
	}
}

func (m *machine) callCount(name string) int {
	n := 0
	for _, c := range m.calls {
		if c.name == name {
			n++
		}
	}
	return n
}

func (m *machine) callsTo(name string) []callRec {
	var out []callRec
	for _, c := range m.calls {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

// constObj returns the address of constant object i in the fixture.
func constObj(i int) int64 { return objBase + int64(i)*0x100 }

// loadFrame writes the frame, code descriptor and constant pool image
// the prologue expects. Every constant object starts with refcount 1.
func (m *machine) loadFrame(code *bytecode.CodeObject) int64 {
	frameD := m.reg.Describe(rtlayout.LayoutFrame)
	codeD := m.reg.Describe(rtlayout.LayoutCode)
	varD := m.reg.Describe(rtlayout.LayoutVarObject)
	objD := m.reg.Describe(rtlayout.LayoutObject)

	m.mem[frameAddr+int64(frameD.Offset("code"))] = codeAddr
	m.mem[frameAddr+int64(frameD.Offset("stacktop"))] = stackAddr

	m.mem[codeAddr+int64(codeD.Offset("varnames"))] = varnamesAddr
	m.mem[codeAddr+int64(codeD.Offset("names"))] = namesAddr
	m.mem[codeAddr+int64(codeD.Offset("consts"))] = constsAddr
	m.mem[codeAddr+int64(codeD.Offset("freevars"))] = freenamesAddr
	m.mem[codeAddr+int64(codeD.Offset("nlocals"))] = int64(code.Nlocals)

	items := constsAddr + int64(varD.Offset("items"))
	for i := range code.Consts {
		m.mem[items+int64(i)*8] = constObj(i)
		m.mem[constObj(i)+int64(objD.Offset("refcount"))] = 1
	}
	return frameAddr
}

func (m *machine) refcount(obj int64) int64 {
	objD := m.reg.Describe(rtlayout.LayoutObject)
	return m.mem[obj+int64(objD.Offset("refcount"))]
}

func (m *machine) setRefcount(obj, n int64) {
	objD := m.reg.Describe(rtlayout.LayoutObject)
	m.mem[obj+int64(objD.Offset("refcount"))] = n
}

// localSlot returns the address of frame.localsplus[i].
func (m *machine) localSlot(i int) int64 {
	frameD := m.reg.Describe(rtlayout.LayoutFrame)
	return frameAddr + int64(frameD.Offset("localsplus")) + int64(i)*8
}

// translate lowers code into a fresh module and returns the pieces the
// tests poke at. The module is checked before anything runs.
func translate(t *testing.T, code *bytecode.CodeObject, mode fnbuild.Mode) (*ir.Module, *ir.Func, *rtlayout.Registry) {
	t.Helper()
	reg := rtlayout.NewRegistry(rtlayout.X86_64LinuxGNU(), mode == fnbuild.ModeDebug)
	mod := ir.NewModule(code.Name)
	fb, err := fnbuild.New(mod, code.Name, code, reg, mode)
	if err != nil {
		t.Fatalf("builder: %v", err)
	}
	for pc, ins := range code.Code {
		if err := fb.Op(pc, ins); err != nil {
			t.Fatalf("op %d: %v", pc, err)
		}
	}
	if err := ir.Validate(mod); err != nil {
		t.Fatalf("generated IR is invalid: %v", err)
	}
	return mod, fb.Func(), reg
}

func externID(m *ir.Module, name string) ir.ExternID {
	for i := range m.Externs {
		if m.Externs[i].Name == name {
			return ir.ExternID(i)
		}
	}
	return ir.NoExternID
}

func strID(m *ir.Module, value string) ir.StrID {
	for i := range m.Strs {
		if m.Strs[i].Value == value {
			return ir.StrID(i)
		}
	}
	return ir.NoStrID
}
