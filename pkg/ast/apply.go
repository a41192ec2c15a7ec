package ast

import (
	"github.com/rconybea/schematika/pkg/gcheap"
	"github.com/rconybea/schematika/pkg/symtab"
	"github.com/rconybea/schematika/pkg/usym"
)

// Apply calls Fn with Args, evaluated left to right after Fn (§5 Ordering
// guarantees). Fn must be function-typed by the time evaluation begins
// (§3.4); NewApply sets the result type from Fn's signature when already
// known.
type Apply struct {
	exprBase
	Fn   Expression
	Args []Expression
}

// NewApply builds fn(args...).
func NewApply(fn Expression, args []Expression) *Apply {
	a := &Apply{Fn: fn, Args: args}
	if t := fn.ValueType(); t != nil && t.IsFunction() {
		a.setValueTypeOnce(t.Result())
	}
	return a
}

func (a *Apply) ExprKind() string { return "Apply" }

func (a *Apply) FreeVariables() map[usym.USym]struct{} {
	if a.freeVars == nil {
		sets := make([]map[usym.USym]struct{}, 0, len(a.Args)+1)
		sets = append(sets, a.Fn.FreeVariables())
		for _, arg := range a.Args {
			sets = append(sets, arg.FreeVariables())
		}
		a.freeVars = union(sets...)
	}
	return a.freeVars
}

func (a *Apply) VisitPreorder(f func(Expression)) {
	f(a)
	a.Fn.VisitPreorder(f)
	for _, arg := range a.Args {
		arg.VisitPreorder(f)
	}
}

func (a *Apply) VisitLayer(f func(Expression)) {
	f(a.Fn)
	for _, arg := range a.Args {
		f(arg)
	}
}

func (a *Apply) TransformLayer(f func(Expression) Expression) Expression {
	fn := f(a.Fn)
	args := make([]Expression, len(a.Args))
	for i, arg := range a.Args {
		args[i] = f(arg)
	}
	return NewApply(fn, args)
}

// AttachEnvs resolves Fn and every argument, then enforces that Fn is
// function-typed once its type is known (§4.2 failure mode).
func (a *Apply) AttachEnvs(scope symtab.SymTab) error {
	if err := a.Fn.AttachEnvs(scope); err != nil {
		return err
	}
	for _, arg := range a.Args {
		if err := arg.AttachEnvs(scope); err != nil {
			return err
		}
	}
	if t := a.Fn.ValueType(); t != nil && !t.IsFunction() {
		return &TypeMismatchError{Context: "apply target", Got: t}
	}
	if t := a.Fn.ValueType(); t != nil && t.IsFunction() {
		a.setValueTypeOnce(t.Result())
	}
	return nil
}

func (a *Apply) ShallowSize() int { return 24 + 8*len(a.Args) }

func (a *Apply) ShallowCopy() gcheap.Object {
	cp := *a
	cp.Args = append([]Expression(nil), a.Args...)
	return &cp
}

func (a *Apply) ForwardChildren(gc *gcheap.Collector) int {
	var fn gcheap.Object = a.Fn
	gc.Forward(&fn)
	a.Fn = fn.(Expression)

	for i, arg := range a.Args {
		var o gcheap.Object = arg
		gc.Forward(&o)
		a.Args[i] = o.(Expression)
	}
	return a.ShallowSize()
}
