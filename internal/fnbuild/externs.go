package fnbuild

import "pyrite/internal/ir"

// Runtime entry points the generated code links against. Names and
// signatures are in lock-step with the host runtime.
const (
	// externTotalRefs is the process-wide live-reference counter cell,
	// maintained only in debug mode. Updates are plain loads and
	// stores: translation is single-threaded per module and the cell's
	// accuracy contract is best-effort, matching the host runtime.
	externTotalRefs = "rt_total_refs"
	// externNegativeRefcount reports a refcount that dropped below
	// zero (debug mode), carrying a source-location tag.
	externNegativeRefcount = "rt_negative_refcount"
	// externDealloc destroys an object whose refcount reached zero.
	externDealloc = "rt_dealloc"
	// externTupleItem returns element i of a container, borrowed.
	externTupleItem = "rt_tuple_item"
	// externAsString converts an object to a C string, or null.
	externAsString = "rt_as_string"
	// externErrFormat sets a formatted runtime error from a template.
	externErrFormat = "rt_err_format"

	excUnboundLocal = "rt_exc_unbound_local"
	excUnboundFree  = "rt_exc_unbound_free"
)

// Error templates, in lock-step with the interpreter's messages.
const (
	unboundLocalMsg = "local variable '%.200s' referenced before assignment"
	unboundFreeMsg  = "free variable '%.200s' referenced before assignment in enclosing scope"
)

func declTotalRefs(m *ir.Module) ir.ExternID {
	return m.DeclareGlobal(externTotalRefs, ir.IntPtr())
}

func declNegativeRefcount(m *ir.Module) ir.ExternID {
	return m.DeclareFunc(externNegativeRefcount, ir.Sig{
		Ret:    ir.Void(),
		Params: []ir.Type{ir.Ptr(), ir.Int32(), ir.Ptr()},
	})
}

func declDealloc(m *ir.Module) ir.ExternID {
	return m.DeclareFunc(externDealloc, ir.Sig{
		Ret:    ir.Void(),
		Params: []ir.Type{ir.Ptr()},
	})
}

func declTupleItem(m *ir.Module) ir.ExternID {
	return m.DeclareFunc(externTupleItem, ir.Sig{
		Ret:    ir.Ptr(),
		Params: []ir.Type{ir.Ptr(), ir.IntPtr()},
	})
}

func declAsString(m *ir.Module) ir.ExternID {
	return m.DeclareFunc(externAsString, ir.Sig{
		Ret:    ir.Ptr(),
		Params: []ir.Type{ir.Ptr()},
	})
}

func declErrFormat(m *ir.Module) ir.ExternID {
	return m.DeclareFunc(externErrFormat, ir.Sig{
		Ret:      ir.Ptr(),
		Params:   []ir.Type{ir.Ptr(), ir.Ptr()},
		Variadic: true,
	})
}
