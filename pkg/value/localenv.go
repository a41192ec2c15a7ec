package value

import (
	"github.com/rconybea/schematika/pkg/ast"
	"github.com/rconybea/schematika/pkg/gcheap"
)

// LocalEnv is the runtime twin of a LocalSymTab: a parent pointer plus an
// Array of values, one per slot (§3.6). Variable read/write walk ILink
// parents, then index by Slot. LocalEnv is itself a GC object and moves
// with its bindings; parent is stored as the bare gcheap.Object interface
// (rather than *LocalEnv) so a root LocalEnv's absent parent is a true nil
// interface, not a typed nil pointer that would need special-casing in
// Collector.Forward.
type LocalEnv struct {
	parent gcheap.Object
	vals   *Array
}

// NewLocalEnv allocates an environment with size slots, nested inside
// parent (nil for the outermost scope).
func NewLocalEnv(parent *LocalEnv, size int) *LocalEnv {
	var p gcheap.Object
	if parent != nil {
		p = parent
	}
	return &LocalEnv{parent: p, vals: NewArray(size)}
}

// Parent returns the enclosing environment, or nil at the root.
func (e *LocalEnv) Parent() *LocalEnv {
	if e.parent == nil {
		return nil
	}
	return e.parent.(*LocalEnv)
}

// Lookup walks ilink parents from e and returns the value at slot.
func (e *LocalEnv) Lookup(ilink, slot int) ast.Value {
	env := e
	for i := 0; i < ilink; i++ {
		env = env.Parent()
	}
	return env.vals.Get(slot)
}

// Assign walks ilink parents from e and stores v at slot.
func (e *LocalEnv) Assign(ilink, slot int, v ast.Value) {
	env := e
	for i := 0; i < ilink; i++ {
		env = env.Parent()
	}
	env.vals.Set(slot, v)
}

// Size reports how many slots this environment (not counting parents)
// holds.
func (e *LocalEnv) Size() int { return e.vals.Len() }

// EnsureSize grows e's own slot array to hold at least n slots. Used on
// the VM's global environment, which starts empty and gains one slot per
// top-level `def` as the interactive session proceeds.
func (e *LocalEnv) EnsureSize(n int) { e.vals.Grow(n) }

func (e *LocalEnv) ShallowSize() int { return 16 }

func (e *LocalEnv) ShallowCopy() gcheap.Object {
	cp := &LocalEnv{parent: e.parent, vals: e.vals}
	return cp
}

func (e *LocalEnv) ForwardChildren(gc *gcheap.Collector) int {
	if e.parent != nil {
		gc.Forward(&e.parent)
	}
	var vals gcheap.Object = e.vals
	gc.Forward(&vals)
	e.vals = vals.(*Array)
	return e.ShallowSize()
}
