package fnbuild

import "pyrite/internal/ir"

// FormatExcArg emits the path that turns obj into a formatted runtime
// error named by excName, with obj's string form substituted into the
// single-argument template. Invoked from a branch already known to be
// the failure branch: a null obj means an error is pending from the
// lookup that produced it, and a failed string conversion leaves the
// conversion routine's own error in place, so both skip straight to
// the continuation. All paths converge; the calling handler returns
// the failure sentinel afterwards.
func (fb *Builder) FormatExcArg(excName, template string, obj ir.ValueID) {
	b := fb.b
	skip := b.NewBlock("end_format_exc")
	toString := b.NewBlock("to_string")
	format := b.NewBlock("format")

	b.CondBr(b.ICmp(ir.ICmpEq, obj, b.Null(""), "obj_null"), skip, toString)

	b.StartBlock(toString)
	str := b.Call(declAsString(fb.mod), []ir.ValueID{obj}, "obj_str")
	b.CondBr(b.ICmp(ir.ICmpEq, str, b.Null(""), "obj_str_null"), skip, format)

	b.StartBlock(format)
	excAddr := b.GlobalAddr(fb.mod.DeclareGlobal(excName, ir.Ptr()), excName+"_addr")
	exc := b.Load(excAddr, ir.Ptr(), excName)
	tmpl := b.StrAddr(template, "format_str")
	b.Call(declErrFormat(fb.mod), []ir.ValueID{exc, tmpl, str}, "")
	b.Br(skip)

	b.StartBlock(skip)
}
