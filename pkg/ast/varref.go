package ast

import (
	"github.com/rconybea/schematika/pkg/gcheap"
	"github.com/rconybea/schematika/pkg/symtab"
	"github.com/rconybea/schematika/pkg/usym"
)

// VarRef names an occurrence of a variable. It starts out carrying only
// the symbol the reader saw; AttachEnvs resolves Target and LinkDepth
// (§3.4, §8 "Binding linkage").
type VarRef struct {
	exprBase
	name      usym.USym
	Target    *VarDef
	LinkDepth int
}

// NewVarRef builds an unresolved reference to name.
func NewVarRef(name usym.USym) *VarRef {
	return &VarRef{name: name}
}

func (r *VarRef) Name() usym.USym { return r.name }

func (r *VarRef) ExprKind() string { return "VarRef" }

func (r *VarRef) FreeVariables() map[usym.USym]struct{} {
	if r.freeVars == nil {
		r.freeVars = map[usym.USym]struct{}{r.name: {}}
	}
	return r.freeVars
}

func (r *VarRef) VisitPreorder(f func(Expression)) { f(r) }
func (r *VarRef) VisitLayer(func(Expression))      {}

func (r *VarRef) TransformLayer(func(Expression) Expression) Expression { return r }

// AttachEnvs resolves the reference against scope. Returns
// UnboundVariableError if no enclosing scope binds the name.
func (r *VarRef) AttachEnvs(scope symtab.SymTab) error {
	binding, def, ok := symtab.Resolve(scope, r.name)
	if !ok {
		return &UnboundVariableError{Name: r.name}
	}
	vd, ok := def.(*VarDef)
	if !ok {
		return &UnboundVariableError{Name: r.name}
	}
	r.Target = vd
	r.LinkDepth = binding.ILink
	r.setValueTypeOnce(vd.ValueType())
	return nil
}

func (r *VarRef) ShallowSize() int { return 32 }

func (r *VarRef) ShallowCopy() gcheap.Object {
	cp := *r
	return &cp
}

func (r *VarRef) ForwardChildren(gc *gcheap.Collector) int {
	if r.Target != nil {
		var t gcheap.Object = r.Target
		gc.Forward(&t)
		r.Target = t.(*VarDef)
	}
	return r.ShallowSize()
}
