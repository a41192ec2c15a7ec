package ast

import (
	"github.com/rconybea/schematika/pkg/gcheap"
	"github.com/rconybea/schematika/pkg/symtab"
	"github.com/rconybea/schematika/pkg/usym"
)

// Define binds lhs to the value of rhs. If lhs had no declared type, its
// type becomes rhs's type once rhs's type is known (§3.4, grounded on
// original_source/xo-expression/src/expression/DefineExpr.cpp's
// assign_rhs: propagate only if unset, then recompute free variables).
type Define struct {
	exprBase
	Lhs *VarDef
	Rhs Expression
}

// NewDefine builds lhs = rhs, immediately running AssignRHS so a lambda
// rhs's signature is visible to lhs before the body (if any references
// lhs recursively) is attached.
func NewDefine(lhs *VarDef, rhs Expression) *Define {
	d := &Define{Lhs: lhs, Rhs: rhs}
	d.AssignRHS(rhs)
	return d
}

// AssignRHS installs (or replaces) the rhs expression, propagates its type
// to Lhs if Lhs has none yet, and invalidates the cached free-variable set
// so it is recomputed against the new rhs.
func (d *Define) AssignRHS(rhs Expression) {
	d.Rhs = rhs
	d.Lhs.SetValueType(rhs.ValueType())
	d.setValueTypeOnce(d.Lhs.ValueType())
	d.freeVars = nil
}

func (d *Define) ExprKind() string { return "Define" }

func (d *Define) FreeVariables() map[usym.USym]struct{} {
	if d.freeVars == nil {
		d.freeVars = without(d.Rhs.FreeVariables(), d.Lhs.Name())
	}
	return d.freeVars
}

func (d *Define) VisitPreorder(f func(Expression)) {
	f(d)
	d.Rhs.VisitPreorder(f)
}

func (d *Define) VisitLayer(f func(Expression)) { f(d.Rhs) }

func (d *Define) TransformLayer(f func(Expression) Expression) Expression {
	return NewDefine(d.Lhs, f(d.Rhs))
}

func (d *Define) AttachEnvs(scope symtab.SymTab) error {
	return d.Rhs.AttachEnvs(scope)
}

func (d *Define) ShallowSize() int { return 32 }

func (d *Define) ShallowCopy() gcheap.Object {
	cp := *d
	return &cp
}

func (d *Define) ForwardChildren(gc *gcheap.Collector) int {
	var lhs gcheap.Object = d.Lhs
	gc.Forward(&lhs)
	d.Lhs = lhs.(*VarDef)

	var rhs gcheap.Object = d.Rhs
	gc.Forward(&rhs)
	d.Rhs = rhs.(Expression)
	return d.ShallowSize()
}
