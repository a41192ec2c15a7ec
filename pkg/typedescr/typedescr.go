// Package typedescr implements schematika's interned type descriptors.
//
// A TypeDescr identifies the static type of a value: one of the built-in
// scalar kinds, a function signature, or a host-registered user type.
// Descriptors are interned in a Table so that equality is pointer identity,
// matching §3.2 of the specification.
package typedescr

import (
	"fmt"
	"strings"
)

// Kind distinguishes the built-in descriptor shapes.
type Kind int

const (
	// KindInvalid marks the zero value; never a descriptor actually handed
	// out by a Table.
	KindInvalid Kind = iota
	KindBool
	KindI64
	KindF64
	KindString
	// KindFunction covers every function(argtypes -> returntype) shape;
	// the specific signature is carried by TypeDescr.Args/Result.
	KindFunction
	// KindUser is reserved for host-registered descriptors; schematika's
	// core never constructs one, but Table.InternUser lets an embedder add
	// one without forking the table.
	KindUser
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindI64:
		return "i64"
	case KindF64:
		return "f64"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindUser:
		return "user"
	default:
		return "invalid"
	}
}

// TypeDescr is an interned type descriptor. The zero value is not valid;
// obtain descriptors from a Table.
type TypeDescr struct {
	kind Kind
	// name identifies a KindUser descriptor; unused otherwise.
	name string
	// argTypes and result describe a KindFunction descriptor.
	argTypes []*TypeDescr
	result   *TypeDescr
}

// Kind reports the descriptor's kind.
func (td *TypeDescr) Kind() Kind {
	if td == nil {
		return KindInvalid
	}
	return td.kind
}

// IsFunction reports whether td describes a function signature.
func (td *TypeDescr) IsFunction() bool { return td.Kind() == KindFunction }

// ArgTypes returns a function descriptor's parameter types. Panics if td is
// not a function descriptor; callers must check IsFunction first, matching
// the "internal invariant violation" error kind — this is a programmer
// error in the compiler/VM, never user-reachable.
func (td *TypeDescr) ArgTypes() []*TypeDescr {
	if !td.IsFunction() {
		panic("typedescr: ArgTypes on non-function descriptor")
	}
	return td.argTypes
}

// Result returns a function descriptor's return type.
func (td *TypeDescr) Result() *TypeDescr {
	if !td.IsFunction() {
		panic("typedescr: Result on non-function descriptor")
	}
	return td.result
}

// Equal reports whether two descriptors are the same interned instance.
// Identity comparison is correct because every descriptor is produced by
// exactly one Table, which deduplicates structurally-identical requests.
func (td *TypeDescr) Equal(other *TypeDescr) bool { return td == other }

func (td *TypeDescr) String() string {
	if td == nil {
		return "<invalid>"
	}
	switch td.kind {
	case KindFunction:
		var b strings.Builder
		b.WriteByte('(')
		for i, a := range td.argTypes {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.String())
		}
		b.WriteString(") -> ")
		b.WriteString(td.result.String())
		return b.String()
	case KindUser:
		return td.name
	default:
		return td.kind.String()
	}
}

// Table interns descriptors so that structurally-equal requests (same kind,
// same function shape) always yield the same *TypeDescr.
type Table struct {
	boolD, i64D, f64D, stringD *TypeDescr
	functions                  map[string]*TypeDescr
	users                      map[string]*TypeDescr
}

// NewTable creates a Table pre-populated with the canonical built-in scalar
// descriptors required by §3.2.
func NewTable() *Table {
	return &Table{
		boolD:     &TypeDescr{kind: KindBool},
		i64D:      &TypeDescr{kind: KindI64},
		f64D:      &TypeDescr{kind: KindF64},
		stringD:   &TypeDescr{kind: KindString},
		functions: make(map[string]*TypeDescr),
		users:     make(map[string]*TypeDescr),
	}
}

// Bool returns the canonical bool descriptor.
func (t *Table) Bool() *TypeDescr { return t.boolD }

// I64 returns the canonical i64 descriptor.
func (t *Table) I64() *TypeDescr { return t.i64D }

// F64 returns the canonical f64 descriptor.
func (t *Table) F64() *TypeDescr { return t.f64D }

// StringType returns the canonical string descriptor.
func (t *Table) StringType() *TypeDescr { return t.stringD }

// Function interns (or returns the existing) function(args -> result)
// descriptor for the given shape.
func (t *Table) Function(args []*TypeDescr, result *TypeDescr) *TypeDescr {
	key := functionKey(args, result)
	if td, ok := t.functions[key]; ok {
		return td
	}
	td := &TypeDescr{kind: KindFunction, argTypes: args, result: result}
	t.functions[key] = td
	return td
}

// InternUser interns a host-defined named descriptor; extensibility point
// named in §3.2 ("Extensible by the host").
func (t *Table) InternUser(name string) *TypeDescr {
	if td, ok := t.users[name]; ok {
		return td
	}
	td := &TypeDescr{kind: KindUser, name: name}
	t.users[name] = td
	return td
}

// functionKey builds a dedup key from descriptor pointer identity.
// Descriptors are never relocated (they live outside the GC heap, unlike
// GCValue), so each descriptor's pointer is a stable, unique tag for the
// lifetime of the Table.
func functionKey(args []*TypeDescr, result *TypeDescr) string {
	var b strings.Builder
	for _, a := range args {
		fmt.Fprintf(&b, "%p,", a)
	}
	fmt.Fprintf(&b, "|%p", result)
	return b.String()
}
