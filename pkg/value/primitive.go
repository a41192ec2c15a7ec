package value

import (
	"github.com/rconybea/schematika/pkg/ast"
	"github.com/rconybea/schematika/pkg/gcheap"
	"github.com/rconybea/schematika/pkg/typedescr"
)

// NativeFunc is the uniform native-procedure signature the numeric
// primitives library (explicitly out of scope per §1) is invoked through.
// It receives already-evaluated arguments and returns a value or an error
// (e.g. division by zero, or a bad argument count if the caller bypassed
// the type checker — an internal invariant violation per §7).
type NativeFunc func(args []ast.Value) (ast.Value, error)

// Primitive is an opaque native procedure value (§3.3): it carries a name
// (for diagnostics/stack frames), its function TypeDescr, and the Go
// closure that actually runs it. Primitive has no GC children — the
// wrapped Go func is immovable host code, not heap data the collector
// tracks — so ForwardChildren is a no-op besides reporting size.
type Primitive struct {
	td   *typedescr.TypeDescr
	Name string
	Fn   NativeFunc
}

// NewPrimitive wraps fn as a callable schematika value of type td.
func NewPrimitive(td *typedescr.TypeDescr, name string, fn NativeFunc) *Primitive {
	return &Primitive{td: td, Name: name, Fn: fn}
}

func (p *Primitive) TypeOf() *typedescr.TypeDescr { return p.td }
func (p *Primitive) ShallowSize() int             { return 24 }

func (p *Primitive) ShallowCopy() gcheap.Object {
	cp := *p
	return &cp
}

func (p *Primitive) ForwardChildren(*gcheap.Collector) int { return p.ShallowSize() }

// Call invokes the wrapped native procedure.
func (p *Primitive) Call(args []ast.Value) (ast.Value, error) { return p.Fn(args) }

var _ ast.Value = (*Primitive)(nil)
