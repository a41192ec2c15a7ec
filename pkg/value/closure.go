package value

import (
	"github.com/rconybea/schematika/pkg/ast"
	"github.com/rconybea/schematika/pkg/gcheap"
	"github.com/rconybea/schematika/pkg/typedescr"
)

// Closure pairs a lambda's body with the LocalEnv captured at the moment
// the lambda expression was evaluated (§4.4.1: "materialise a
// Closure{body, current_local_env}"). Params records the formals' VarDefs
// so the VM can size and populate a fresh LocalEnv on each call without
// walking back to the originating *ast.Lambda.
type Closure struct {
	td     *typedescr.TypeDescr
	Body   ast.Expression
	Params []*ast.VarDef
	Env    *LocalEnv
}

// NewClosure builds a closure over body, capturing env.
func NewClosure(td *typedescr.TypeDescr, body ast.Expression, params []*ast.VarDef, env *LocalEnv) *Closure {
	return &Closure{td: td, Body: body, Params: params, Env: env}
}

func (c *Closure) TypeOf() *typedescr.TypeDescr { return c.td }
func (c *Closure) ShallowSize() int             { return 24 + 8*len(c.Params) }

func (c *Closure) ShallowCopy() gcheap.Object {
	cp := *c
	cp.Params = append([]*ast.VarDef(nil), c.Params...)
	return &cp
}

func (c *Closure) ForwardChildren(gc *gcheap.Collector) int {
	var body gcheap.Object = c.Body
	gc.Forward(&body)
	c.Body = body.(ast.Expression)

	for i, p := range c.Params {
		var o gcheap.Object = p
		gc.Forward(&o)
		c.Params[i] = o.(*ast.VarDef)
	}

	var env gcheap.Object = c.Env
	gc.Forward(&env)
	c.Env = env.(*LocalEnv)
	return c.ShallowSize()
}

var _ ast.Value = (*Closure)(nil)
