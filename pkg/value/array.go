package value

import (
	"github.com/rconybea/schematika/pkg/ast"
	"github.com/rconybea/schematika/pkg/gcheap"
	"github.com/rconybea/schematika/pkg/typedescr"
)

// Array is a mutable, length-tagged vector of values (§3.3). It has no
// user-visible static type of its own — the language's type system stops
// at function/scalar descriptors (§3.2) — so TypeOf always reports nil;
// Array exists purely as VM/runtime plumbing (an ApplyFrame's evaluated
// arguments, a LocalEnv's slot storage).
type Array struct {
	Elems []ast.Value
}

// NewArray allocates an array of n nil elements.
func NewArray(n int) *Array {
	return &Array{Elems: make([]ast.Value, n)}
}

func (a *Array) TypeOf() *typedescr.TypeDescr { return nil }

func (a *Array) ShallowSize() int { return 24 + 8*len(a.Elems) }

func (a *Array) ShallowCopy() gcheap.Object {
	cp := &Array{Elems: append([]ast.Value(nil), a.Elems...)}
	return cp
}

func (a *Array) ForwardChildren(gc *gcheap.Collector) int {
	for i, e := range a.Elems {
		if e == nil {
			continue
		}
		var o gcheap.Object = e
		gc.Forward(&o)
		a.Elems[i] = o.(ast.Value)
	}
	return a.ShallowSize()
}

// Len reports the array's element count.
func (a *Array) Len() int { return len(a.Elems) }

// Grow extends the array in place to hold at least n elements, leaving
// existing entries untouched — used by the VM's global environment, whose
// slot count grows by one each time an interactive `def` upserts a new
// name into the global symbol table (§3.6, §4.4.1 DefCont).
func (a *Array) Grow(n int) {
	if n <= len(a.Elems) {
		return
	}
	grown := make([]ast.Value, n)
	copy(grown, a.Elems)
	a.Elems = grown
}

// Get returns the value at i.
func (a *Array) Get(i int) ast.Value { return a.Elems[i] }

// Set stores v at i.
func (a *Array) Set(i int, v ast.Value) { a.Elems[i] = v }

var _ ast.Value = (*Array)(nil)
