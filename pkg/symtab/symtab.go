// Package symtab implements schematika's two symbol-table kinds (§3.5):
// GlobalSymTab, the process-wide table mutated only at interactive top
// level, and LocalSymTab, one per lexical scope (lambda body, let-region).
// Both share the same lookup/upsert shape so a single Resolve walk can
// climb from any lexical scope up through its enclosing scopes to the
// global table.
package symtab

import "github.com/rconybea/schematika/pkg/usym"

// SymbolDef is the minimal view a symbol table needs of whatever it
// stores — in practice always an *ast.VarDef. Defined here (rather than
// importing ast.VarDef directly) so symtab has no dependency on ast; ast
// depends on symtab instead, since VarDef is one of the Expression
// variants and needs a table to be upserted into.
type SymbolDef interface {
	SymbolName() usym.USym
	SetSlot(slot int)
}

// Binding locates a variable relative to some starting lexical scope:
// ILink is the number of enclosing scopes to cross, Slot is the position
// within the scope that holds it. A Binding is meaningful only alongside
// ok=true; the zero Binding is then slot 0 of the starting scope itself.
type Binding struct {
	ILink int
	Slot  int
}

// SymTab is the interface GlobalSymTab and LocalSymTab both satisfy.
type SymTab interface {
	// LookupLocal reports whether sym is bound directly in this scope
	// (not searching parents), returning its slot and definition.
	LookupLocal(sym usym.USym) (slot int, def SymbolDef, ok bool)
	// Upsert adds def to this scope (or returns the existing slot if
	// already present) and returns the assigned slot.
	Upsert(def SymbolDef) int
	// Parent returns the enclosing scope, or nil for the global table.
	Parent() SymTab
	// Len reports how many definitions this scope directly holds —
	// the runtime LocalEnv needs this to size its values array.
	Len() int
}

// Resolve walks from start outward through Parent() links, looking for
// sym in each scope in turn, and reports the Binding that would locate it
// at runtime along with the definition itself (so callers such as
// ast.Expression.AttachEnvs can wire a VarRef directly to its VarDef).
func Resolve(start SymTab, sym usym.USym) (Binding, SymbolDef, bool) {
	ilink := 0
	for s := start; s != nil; s = s.Parent() {
		if slot, def, ok := s.LookupLocal(sym); ok {
			return Binding{ILink: ilink, Slot: slot}, def, true
		}
		ilink++
	}
	return Binding{}, nil, false
}

// table is the shared storage both GlobalSymTab and LocalSymTab embed: an
// ordered, append-only list of definitions plus a name index.
type table struct {
	parent SymTab
	defs   []SymbolDef
	byName map[usym.USym]int
}

func newTable(parent SymTab) table {
	return table{parent: parent, byName: make(map[usym.USym]int)}
}

func (t *table) LookupLocal(sym usym.USym) (int, SymbolDef, bool) {
	slot, ok := t.byName[sym]
	if !ok {
		return 0, nil, false
	}
	return slot, t.defs[slot], true
}

func (t *table) Upsert(def SymbolDef) int {
	name := def.SymbolName()
	if slot, ok := t.byName[name]; ok {
		return slot
	}
	slot := len(t.defs)
	t.defs = append(t.defs, def)
	t.byName[name] = slot
	def.SetSlot(slot)
	return slot
}

func (t *table) Parent() SymTab { return t.parent }

func (t *table) Len() int { return len(t.defs) }

// GlobalSymTab is the process- (or lang.State-) wide table: it has no
// parent and is never popped. Interactive top-level `def`s upsert into it
// directly and it survives across top-level expressions (§3.5).
type GlobalSymTab struct {
	table
}

// NewGlobalSymTab creates an empty global table.
func NewGlobalSymTab() *GlobalSymTab {
	return &GlobalSymTab{table: newTable(nil)}
}

// LocalSymTab is one lexical scope: a lambda's formal-parameter list or a
// let-region introduced by a rewritten sequence (§4.3.5). It is built up
// while its binding form is being parsed and is read-only once parsing of
// that form completes (§3.5).
type LocalSymTab struct {
	table
}

// NewLocalSymTab creates an empty scope nested inside parent.
func NewLocalSymTab(parent SymTab) *LocalSymTab {
	return &LocalSymTab{table: newTable(parent)}
}
