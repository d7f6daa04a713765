package rtlayout

import "fmt"

// Layout names. The set is closed and fixed at build time; requesting
// anything else from Describe is a programming error.
const (
	// LayoutObject is the generic object header.
	LayoutObject = "object"
	// LayoutVarObject is a fixed-size container with an element count
	// and an inline trailing array of object pointers.
	LayoutVarObject = "varobject"
	// LayoutCode is the compiled-unit descriptor.
	LayoutCode = "code"
	// LayoutTryBlock is one exception-handler-stack entry.
	LayoutTryBlock = "tryblock"
	// LayoutFrame is the per-invocation execution record.
	LayoutFrame = "frame"
)

// MaxBlocks is the depth of the frame's inline handler stack, in
// lock-step with the host runtime.
const MaxBlocks = 20

// Registry produces and caches layout descriptors for one compilation
// session. The field lists mirror the host runtime's published
// structure definitions and must be kept in lock-step with them; a
// mismatch is a silent correctness bug this package cannot detect.
//
// The debug flag adds the object header's intrusive tracking links and
// must match the reference-count sequence mode used within the same
// module. A Registry is not safe for concurrent use; the driver gives
// each session its own.
type Registry struct {
	target Target
	debug  bool
	byName map[string]*Descriptor
}

// NewRegistry creates a registry for one session.
func NewRegistry(target Target, debug bool) *Registry {
	return &Registry{
		target: target,
		debug:  debug,
		byName: make(map[string]*Descriptor, 8),
	}
}

func (r *Registry) Target() Target { return r.target }
func (r *Registry) Debug() bool    { return r.debug }

// Describe returns the cached descriptor for name, building it on
// first use. Both calls for the same name return the identical
// descriptor. Unknown names panic.
func (r *Registry) Describe(name string) *Descriptor {
	if d, ok := r.byName[name]; ok {
		return d
	}
	var d *Descriptor
	switch name {
	case LayoutObject:
		d = r.describeObject()
	case LayoutVarObject:
		d = r.describeVarObject()
	case LayoutCode:
		d = r.describeCode()
	case LayoutTryBlock:
		d = r.describeTryBlock()
	case LayoutFrame:
		d = r.describeFrame()
	default:
		panic(fmt.Sprintf("rtlayout: unknown layout %q", name))
	}
	r.byName[name] = d
	return d
}

// Keep the field lists below in lock-step with the host runtime's
// object, code and frame headers.

func (r *Registry) describeObject() *Descriptor {
	d := &Descriptor{Name: LayoutObject}
	if r.debug {
		// Intrusive doubly-linked list of live objects, debug builds
		// only.
		d.Fields = append(d.Fields,
			Field{Name: "linknext", Kind: FieldPtr},
			Field{Name: "linkprev", Kind: FieldPtr},
		)
	}
	d.Fields = append(d.Fields,
		Field{Name: "refcount", Kind: FieldIntPtr},
		Field{Name: "type", Kind: FieldPtr},
	)
	return r.finish(d)
}

func (r *Registry) describeVarObject() *Descriptor {
	d := &Descriptor{
		Name: LayoutVarObject,
		Fields: []Field{
			{Name: "object", Kind: FieldStruct, Elem: LayoutObject},
			{Name: "count", Kind: FieldIntPtr},
			{Name: "items", Kind: FieldFlexArray},
		},
	}
	return r.finish(d)
}

func (r *Registry) describeCode() *Descriptor {
	d := &Descriptor{
		Name: LayoutCode,
		Fields: []Field{
			{Name: "object", Kind: FieldStruct, Elem: LayoutObject},
			{Name: "argcount", Kind: FieldInt32},
			{Name: "nlocals", Kind: FieldInt32},
			{Name: "stacksize", Kind: FieldInt32},
			{Name: "flags", Kind: FieldInt32},
			{Name: "code", Kind: FieldPtr},
			{Name: "consts", Kind: FieldPtr},
			{Name: "names", Kind: FieldPtr},
			{Name: "varnames", Kind: FieldPtr},
			{Name: "freevars", Kind: FieldPtr},
			{Name: "cellvars", Kind: FieldPtr},
			{Name: "ncode", Kind: FieldPtr},
			{Name: "filename", Kind: FieldPtr},
			{Name: "name", Kind: FieldPtr},
			{Name: "firstlineno", Kind: FieldInt32},
			{Name: "lnotab", Kind: FieldPtr},
			{Name: "zombieframe", Kind: FieldPtr},
			// Cache slot for the function this package generates.
			{Name: "genfunc", Kind: FieldPtr},
		},
	}
	return r.finish(d)
}

func (r *Registry) describeTryBlock() *Descriptor {
	d := &Descriptor{
		Name: LayoutTryBlock,
		Fields: []Field{
			{Name: "kind", Kind: FieldInt32},
			{Name: "handler", Kind: FieldInt32},
			{Name: "level", Kind: FieldInt32},
		},
	}
	return r.finish(d)
}

func (r *Registry) describeFrame() *Descriptor {
	d := &Descriptor{
		Name: LayoutFrame,
		Fields: []Field{
			{Name: "object", Kind: FieldStruct, Elem: LayoutObject},
			{Name: "size", Kind: FieldIntPtr},
			{Name: "back", Kind: FieldPtr},
			{Name: "code", Kind: FieldPtr},
			{Name: "builtins", Kind: FieldPtr},
			{Name: "globals", Kind: FieldPtr},
			{Name: "locals", Kind: FieldPtr},
			{Name: "stackbase", Kind: FieldPtr},
			{Name: "stacktop", Kind: FieldPtr},
			{Name: "trace", Kind: FieldPtr},
			{Name: "exctype", Kind: FieldPtr},
			{Name: "excvalue", Kind: FieldPtr},
			{Name: "exctraceback", Kind: FieldPtr},
			{Name: "state", Kind: FieldPtr},
			{Name: "lasti", Kind: FieldInt32},
			{Name: "lineno", Kind: FieldInt32},
			{Name: "iblock", Kind: FieldInt32},
			{Name: "blockstack", Kind: FieldArray, Elem: LayoutTryBlock, Count: MaxBlocks},
			// Local variables first, then free variables.
			{Name: "localsplus", Kind: FieldFlexArray},
		},
	}
	return r.finish(d)
}
