package ast

import (
	"github.com/rconybea/schematika/pkg/gcheap"
	"github.com/rconybea/schematika/pkg/symtab"
	"github.com/rconybea/schematika/pkg/usym"
)

// Assign is a mutating store to an existing binding: lhs := rhs. Its type
// is the rhs's type (§3.4).
type Assign struct {
	exprBase
	Lhs *VarRef
	Rhs Expression
}

// NewAssign builds lhs := rhs.
func NewAssign(lhs *VarRef, rhs Expression) *Assign {
	a := &Assign{Lhs: lhs, Rhs: rhs}
	a.setValueTypeOnce(rhs.ValueType())
	return a
}

func (a *Assign) ExprKind() string { return "Assign" }

func (a *Assign) FreeVariables() map[usym.USym]struct{} {
	if a.freeVars == nil {
		a.freeVars = union(a.Lhs.FreeVariables(), a.Rhs.FreeVariables())
	}
	return a.freeVars
}

func (a *Assign) VisitPreorder(f func(Expression)) {
	f(a)
	a.Lhs.VisitPreorder(f)
	a.Rhs.VisitPreorder(f)
}

func (a *Assign) VisitLayer(f func(Expression)) {
	f(a.Lhs)
	f(a.Rhs)
}

func (a *Assign) TransformLayer(f func(Expression) Expression) Expression {
	lhs, ok := f(a.Lhs).(*VarRef)
	if !ok {
		lhs = a.Lhs
	}
	return NewAssign(lhs, f(a.Rhs))
}

func (a *Assign) AttachEnvs(scope symtab.SymTab) error {
	if err := a.Lhs.AttachEnvs(scope); err != nil {
		return err
	}
	return a.Rhs.AttachEnvs(scope)
}

func (a *Assign) ShallowSize() int { return 32 }

func (a *Assign) ShallowCopy() gcheap.Object {
	cp := *a
	return &cp
}

func (a *Assign) ForwardChildren(gc *gcheap.Collector) int {
	var lhs gcheap.Object = a.Lhs
	gc.Forward(&lhs)
	a.Lhs = lhs.(*VarRef)

	var rhs gcheap.Object = a.Rhs
	gc.Forward(&rhs)
	a.Rhs = rhs.(Expression)
	return a.ShallowSize()
}
