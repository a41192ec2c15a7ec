package ast

import (
	"github.com/rconybea/schematika/pkg/gcheap"
	"github.com/rconybea/schematika/pkg/symtab"
	"github.com/rconybea/schematika/pkg/usym"
)

// Constant wraps a literal runtime Value; its type is always known
// (§3.4: value_type = type_of(value)).
type Constant struct {
	exprBase
	Value Value
}

// NewConstant builds a Constant expression wrapping v.
func NewConstant(v Value) *Constant {
	c := &Constant{Value: v}
	c.setValueTypeOnce(v.TypeOf())
	return c
}

func (c *Constant) ExprKind() string { return "Constant" }

func (c *Constant) FreeVariables() map[usym.USym]struct{} {
	if c.freeVars == nil {
		c.freeVars = map[usym.USym]struct{}{}
	}
	return c.freeVars
}

func (c *Constant) VisitPreorder(f func(Expression)) { f(c) }
func (c *Constant) VisitLayer(func(Expression))      {}

func (c *Constant) TransformLayer(func(Expression) Expression) Expression { return c }

func (c *Constant) AttachEnvs(symtab.SymTab) error { return nil }

func (c *Constant) ShallowSize() int { return 24 }

func (c *Constant) ShallowCopy() gcheap.Object {
	cp := *c
	return &cp
}

func (c *Constant) ForwardChildren(gc *gcheap.Collector) int {
	var v gcheap.Object = c.Value
	gc.Forward(&v)
	c.Value = v.(Value)
	return c.ShallowSize()
}
