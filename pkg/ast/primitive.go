package ast

import (
	"github.com/rconybea/schematika/pkg/gcheap"
	"github.com/rconybea/schematika/pkg/symtab"
	"github.com/rconybea/schematika/pkg/usym"
)

// Primitive is a direct handle to a native procedure value, function-typed
// (§3.4). ProgressSsm emits these for builtin operators once it has
// decided which concrete primitive an operator specializes to (§4.3.7);
// unlike Constant, which carries an arbitrary literal, Primitive exists so
// the reader and VM can spot "this is a builtin operator" without routing
// every `+`/`==` reference through the global symbol table.
type Primitive struct {
	exprBase
	Proc Value
}

// NewPrimitive wraps proc (a value.Primitive) as an expression.
func NewPrimitive(proc Value) *Primitive {
	p := &Primitive{Proc: proc}
	p.setValueTypeOnce(proc.TypeOf())
	return p
}

func (p *Primitive) ExprKind() string { return "Primitive" }

func (p *Primitive) FreeVariables() map[usym.USym]struct{} {
	if p.freeVars == nil {
		p.freeVars = map[usym.USym]struct{}{}
	}
	return p.freeVars
}

func (p *Primitive) VisitPreorder(f func(Expression)) { f(p) }
func (p *Primitive) VisitLayer(func(Expression))      {}

func (p *Primitive) TransformLayer(func(Expression) Expression) Expression { return p }

func (p *Primitive) AttachEnvs(symtab.SymTab) error { return nil }

func (p *Primitive) ShallowSize() int { return 24 }

func (p *Primitive) ShallowCopy() gcheap.Object {
	cp := *p
	return &cp
}

func (p *Primitive) ForwardChildren(gc *gcheap.Collector) int {
	var v gcheap.Object = p.Proc
	gc.Forward(&v)
	p.Proc = v.(Value)
	return p.ShallowSize()
}
