package ast

import (
	"github.com/rconybea/schematika/pkg/gcheap"
	"github.com/rconybea/schematika/pkg/symtab"
	"github.com/rconybea/schematika/pkg/typedescr"
	"github.com/rconybea/schematika/pkg/usym"
)

// VarDef is a binder: the defined name, its (possibly still-unknown) type,
// and the slot assigned when it is upserted into a symbol table (§3.4).
// VarDef satisfies symtab.SymbolDef so a *VarDef can be stored directly in
// a GlobalSymTab or LocalSymTab.
type VarDef struct {
	exprBase
	name usym.USym
	slot int
}

// NewVarDef creates an as-yet-unslotted binder for name with declared type
// t (nil if the type is to be inferred from its definition's rhs).
func NewVarDef(name usym.USym, t *typedescr.TypeDescr) *VarDef {
	v := &VarDef{name: name}
	v.valueType = t
	return v
}

// SymbolName satisfies symtab.SymbolDef.
func (v *VarDef) SymbolName() usym.USym { return v.name }

// SetSlot satisfies symtab.SymbolDef; called by SymTab.Upsert.
func (v *VarDef) SetSlot(slot int) { v.slot = slot }

// Slot returns the position assigned by the scope this VarDef was upserted
// into.
func (v *VarDef) Slot() int { return v.slot }

// Name returns the defined symbol.
func (v *VarDef) Name() usym.USym { return v.name }

// SetValueType fills in an inferred type. Per the monotonicity invariant
// this is a no-op once a type has already been recorded.
func (v *VarDef) SetValueType(t *typedescr.TypeDescr) { v.setValueTypeOnce(t) }

func (v *VarDef) ExprKind() string { return "VarDef" }

func (v *VarDef) FreeVariables() map[usym.USym]struct{} {
	if v.freeVars == nil {
		v.freeVars = map[usym.USym]struct{}{}
	}
	return v.freeVars
}

func (v *VarDef) VisitPreorder(f func(Expression)) { f(v) }
func (v *VarDef) VisitLayer(func(Expression))      {}

func (v *VarDef) TransformLayer(func(Expression) Expression) Expression { return v }

func (v *VarDef) AttachEnvs(symtab.SymTab) error { return nil }

func (v *VarDef) ShallowSize() int { return 32 }

func (v *VarDef) ShallowCopy() gcheap.Object {
	cp := *v
	return &cp
}

func (v *VarDef) ForwardChildren(*gcheap.Collector) int { return v.ShallowSize() }
