// Package value implements schematika's GC-heap value universe (§3.3):
// Bool, I64, F64, String, Array, Closure, and Primitive, each satisfying
// both ast.Value (TypeOf) and gcheap.Object (the moving-GC contract), plus
// LocalEnv, the runtime twin of a LocalSymTab (§3.6).
package value

import (
	"strconv"

	"github.com/rconybea/schematika/pkg/ast"
	"github.com/rconybea/schematika/pkg/gcheap"
	"github.com/rconybea/schematika/pkg/typedescr"
)

// Bool is a boxed boolean.
type Bool struct {
	td *typedescr.TypeDescr
	V  bool
}

// NewBool boxes v, tagged with the table's canonical bool descriptor.
func NewBool(types *typedescr.Table, v bool) *Bool {
	return &Bool{td: types.Bool(), V: v}
}

func (b *Bool) TypeOf() *typedescr.TypeDescr { return b.td }
func (b *Bool) ShallowSize() int             { return 16 }
func (b *Bool) ShallowCopy() gcheap.Object    { cp := *b; return &cp }
func (b *Bool) ForwardChildren(*gcheap.Collector) int { return b.ShallowSize() }
func (b *Bool) String() string                      { return strconv.FormatBool(b.V) }

var _ ast.Value = (*Bool)(nil)

// I64 is a boxed 64-bit signed integer.
type I64 struct {
	td *typedescr.TypeDescr
	V  int64
}

func NewI64(types *typedescr.Table, v int64) *I64 {
	return &I64{td: types.I64(), V: v}
}

func (n *I64) TypeOf() *typedescr.TypeDescr { return n.td }
func (n *I64) ShallowSize() int             { return 16 }
func (n *I64) ShallowCopy() gcheap.Object    { cp := *n; return &cp }
func (n *I64) ForwardChildren(*gcheap.Collector) int { return n.ShallowSize() }
func (n *I64) String() string                      { return strconv.FormatInt(n.V, 10) }

var _ ast.Value = (*I64)(nil)

// F64 is a boxed double-precision float.
type F64 struct {
	td *typedescr.TypeDescr
	V  float64
}

func NewF64(types *typedescr.Table, v float64) *F64 {
	return &F64{td: types.F64(), V: v}
}

func (f *F64) TypeOf() *typedescr.TypeDescr { return f.td }
func (f *F64) ShallowSize() int             { return 16 }
func (f *F64) ShallowCopy() gcheap.Object    { cp := *f; return &cp }
func (f *F64) ForwardChildren(*gcheap.Collector) int { return f.ShallowSize() }
func (f *F64) String() string                      { return strconv.FormatFloat(f.V, 'g', -1, 64) }

var _ ast.Value = (*F64)(nil)

// String is a boxed, immutable byte sequence. Its shallow size depends on
// length (§3.3), unlike the fixed-size scalar kinds.
type String struct {
	td *typedescr.TypeDescr
	V  string
}

func NewString(types *typedescr.Table, v string) *String {
	return &String{td: types.StringType(), V: v}
}

func (s *String) TypeOf() *typedescr.TypeDescr { return s.td }
func (s *String) ShallowSize() int             { return 16 + len(s.V) }
func (s *String) ShallowCopy() gcheap.Object    { cp := *s; return &cp }
func (s *String) ForwardChildren(*gcheap.Collector) int { return s.ShallowSize() }
func (s *String) String() string                      { return strconv.Quote(s.V) }

var _ ast.Value = (*String)(nil)
