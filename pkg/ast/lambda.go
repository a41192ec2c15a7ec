package ast

import (
	"github.com/rconybea/schematika/pkg/gcheap"
	"github.com/rconybea/schematika/pkg/symtab"
	"github.com/rconybea/schematika/pkg/typedescr"
	"github.com/rconybea/schematika/pkg/usym"
)

// Lambda is a function literal: its formal parameters, body, and the
// lexical scope (holding exactly those parameters) that the body resolves
// variables against (§3.4). Its type is function(param types -> body
// type), finalised once every param has a type and the body's type is
// known — which for a typed lambda (§6 grammar: formal-args carry an
// optional type, and the lambda itself may carry a ': type' return
// annotation) is as soon as parsing completes.
type Lambda struct {
	exprBase
	Params []*VarDef
	Body   Expression
	// Scope is the LocalSymTab LambdaSsm pushed for this lambda's formals
	// (§4.3.3); its Parent() is the scope the lambda was written in.
	Scope *symtab.LocalSymTab
	types  *typedescr.Table
}

// NewLambda builds a lambda. types is used to intern the function
// signature once it can be determined.
func NewLambda(params []*VarDef, body Expression, scope *symtab.LocalSymTab, types *typedescr.Table) *Lambda {
	l := &Lambda{Params: params, Body: body, Scope: scope, types: types}
	l.tryFinalizeType()
	return l
}

func (l *Lambda) tryFinalizeType() {
	if l.valueType != nil || l.types == nil {
		return
	}
	argTypes := make([]*typedescr.TypeDescr, len(l.Params))
	for i, p := range l.Params {
		if p.ValueType() == nil {
			return
		}
		argTypes[i] = p.ValueType()
	}
	bodyType := l.Body.ValueType()
	if bodyType == nil {
		return
	}
	l.setValueTypeOnce(l.types.Function(argTypes, bodyType))
}

func (l *Lambda) ExprKind() string { return "Lambda" }

func (l *Lambda) FreeVariables() map[usym.USym]struct{} {
	if l.freeVars == nil {
		names := make([]usym.USym, len(l.Params))
		for i, p := range l.Params {
			names[i] = p.Name()
		}
		l.freeVars = without(l.Body.FreeVariables(), names...)
	}
	return l.freeVars
}

func (l *Lambda) VisitPreorder(f func(Expression)) {
	f(l)
	l.Body.VisitPreorder(f)
}

func (l *Lambda) VisitLayer(f func(Expression)) { f(l.Body) }

func (l *Lambda) TransformLayer(f func(Expression) Expression) Expression {
	return NewLambda(l.Params, f(l.Body), l.Scope, l.types)
}

// AttachEnvs resolves the body against Scope (which already nests the
// scope the lambda was written in — wired by LambdaSsm at parse time), not
// against the scope argument directly.
func (l *Lambda) AttachEnvs(symtab.SymTab) error {
	if err := l.Body.AttachEnvs(l.Scope); err != nil {
		return err
	}
	l.tryFinalizeType()
	return nil
}

func (l *Lambda) ShallowSize() int { return 40 + 8*len(l.Params) }

func (l *Lambda) ShallowCopy() gcheap.Object {
	cp := *l
	cp.Params = append([]*VarDef(nil), l.Params...)
	return &cp
}

func (l *Lambda) ForwardChildren(gc *gcheap.Collector) int {
	for i, p := range l.Params {
		var o gcheap.Object = p
		gc.Forward(&o)
		l.Params[i] = o.(*VarDef)
	}
	var body gcheap.Object = l.Body
	gc.Forward(&body)
	l.Body = body.(Expression)
	return l.ShallowSize()
}
