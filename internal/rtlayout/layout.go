package rtlayout

import "fmt"

// FieldKind enumerates the field shapes that occur in the host
// runtime's object structures.
type FieldKind uint8

const (
	// FieldInt8 is a one-byte scalar.
	FieldInt8 FieldKind = iota
	// FieldInt32 is a four-byte scalar.
	FieldInt32
	// FieldIntPtr is a pointer-sized signed scalar (the runtime's
	// ssize type; reference counts use it).
	FieldIntPtr
	// FieldPtr is an object or byte pointer.
	FieldPtr
	// FieldStruct nests another named layout inline.
	FieldStruct
	// FieldArray is a fixed-count inline array of a named layout.
	FieldArray
	// FieldFlexArray is a zero-length trailing array of object
	// pointers. It contributes no size; the runtime over-allocates.
	FieldFlexArray
)

// Field is one field of a layout descriptor.
type Field struct {
	Name string
	Kind FieldKind
	// Elem names the nested layout for Struct and Array fields.
	Elem string
	// Count is the element count for Array fields.
	Count int
}

// Descriptor is a named, ordered field list mirroring one host runtime
// structure, with byte offsets computed for the registry's target.
// Descriptors are immutable once cached by the registry.
type Descriptor struct {
	Name    string
	Fields  []Field
	Offsets []int
	// Size excludes any trailing flexible array.
	Size  int
	Align int

	index map[string]int
}

// Index returns the position of the named field. Field names are fixed
// at build time, so an unknown name is a programming error.
func (d *Descriptor) Index(name string) int {
	i, ok := d.index[name]
	if !ok {
		panic(fmt.Sprintf("rtlayout: layout %s has no field %s", d.Name, name))
	}
	return i
}

// Offset returns the byte offset of the named field.
func (d *Descriptor) Offset(name string) int {
	return d.Offsets[d.Index(name)]
}

func (r *Registry) fieldSizeAlign(f *Field) (int, int) {
	switch f.Kind {
	case FieldInt8:
		return 1, 1
	case FieldInt32:
		return 4, 4
	case FieldIntPtr, FieldPtr:
		return r.target.PtrSize, r.target.PtrAlign
	case FieldStruct:
		elem := r.Describe(f.Elem)
		return elem.Size, elem.Align
	case FieldArray:
		elem := r.Describe(f.Elem)
		return f.Count * elem.Size, elem.Align
	case FieldFlexArray:
		return 0, r.target.PtrAlign
	default:
		panic(fmt.Sprintf("rtlayout: unknown field kind %d", f.Kind))
	}
}

// finish computes offsets with natural alignment and builds the name
// index. A flexible array may only appear as the last field.
func (r *Registry) finish(d *Descriptor) *Descriptor {
	d.Offsets = make([]int, len(d.Fields))
	d.index = make(map[string]int, len(d.Fields))
	off := 0
	align := 1
	for i := range d.Fields {
		f := &d.Fields[i]
		if f.Kind == FieldFlexArray && i != len(d.Fields)-1 {
			panic(fmt.Sprintf("rtlayout: layout %s: flexible array %s is not last", d.Name, f.Name))
		}
		size, fa := r.fieldSizeAlign(f)
		off = alignUp(off, fa)
		d.Offsets[i] = off
		d.index[f.Name] = i
		off += size
		if fa > align {
			align = fa
		}
	}
	d.Size = alignUp(off, align)
	d.Align = align
	return d
}

func alignUp(n, align int) int {
	if align <= 1 {
		return n
	}
	rem := n % align
	if rem == 0 {
		return n
	}
	return n + align - rem
}
