package ast

import (
	"github.com/rconybea/schematika/pkg/gcheap"
	"github.com/rconybea/schematika/pkg/symtab"
	"github.com/rconybea/schematika/pkg/usym"
)

// IfElse is a conditional. If WhenFalse is absent, ValueType is always nil
// (§3.4); if present, its type must match WhenTrue's or NewIfElse reports
// a TypeMismatchError (§4.2 "type-mismatch on IfElse construction").
type IfElse struct {
	exprBase
	Test      Expression
	WhenTrue  Expression
	WhenFalse Expression // nil if absent
}

// NewIfElse builds the conditional, checking the two-branch type rule.
// whenFalse may be nil.
func NewIfElse(test, whenTrue, whenFalse Expression) (*IfElse, error) {
	if whenFalse != nil {
		wt, wf := whenTrue.ValueType(), whenFalse.ValueType()
		if wt != nil && wf != nil && !wt.Equal(wf) {
			return nil, &TypeMismatchError{Context: "if/else branches", Want: wt, Got: wf}
		}
	}
	ie := &IfElse{Test: test, WhenTrue: whenTrue, WhenFalse: whenFalse}
	if whenFalse != nil {
		ie.setValueTypeOnce(whenTrue.ValueType())
	}
	return ie, nil
}

func (ie *IfElse) ExprKind() string { return "IfElse" }

func (ie *IfElse) FreeVariables() map[usym.USym]struct{} {
	if ie.freeVars == nil {
		if ie.WhenFalse != nil {
			ie.freeVars = union(ie.Test.FreeVariables(), ie.WhenTrue.FreeVariables(), ie.WhenFalse.FreeVariables())
		} else {
			ie.freeVars = union(ie.Test.FreeVariables(), ie.WhenTrue.FreeVariables())
		}
	}
	return ie.freeVars
}

func (ie *IfElse) VisitPreorder(f func(Expression)) {
	f(ie)
	ie.Test.VisitPreorder(f)
	ie.WhenTrue.VisitPreorder(f)
	if ie.WhenFalse != nil {
		ie.WhenFalse.VisitPreorder(f)
	}
}

func (ie *IfElse) VisitLayer(f func(Expression)) {
	f(ie.Test)
	f(ie.WhenTrue)
	if ie.WhenFalse != nil {
		f(ie.WhenFalse)
	}
}

func (ie *IfElse) TransformLayer(f func(Expression) Expression) Expression {
	var wf Expression
	if ie.WhenFalse != nil {
		wf = f(ie.WhenFalse)
	}
	transformed, err := NewIfElse(f(ie.Test), f(ie.WhenTrue), wf)
	if err != nil {
		// TransformLayer's contract is pure rebuilding of an
		// already-type-checked tree; a mismatch here means a caller
		// swapped in an incompatible branch, which is a programmer error.
		panic(err)
	}
	return transformed
}

func (ie *IfElse) AttachEnvs(scope symtab.SymTab) error {
	if err := ie.Test.AttachEnvs(scope); err != nil {
		return err
	}
	if err := ie.WhenTrue.AttachEnvs(scope); err != nil {
		return err
	}
	if ie.WhenFalse != nil {
		return ie.WhenFalse.AttachEnvs(scope)
	}
	return nil
}

func (ie *IfElse) ShallowSize() int { return 40 }

func (ie *IfElse) ShallowCopy() gcheap.Object {
	cp := *ie
	return &cp
}

func (ie *IfElse) ForwardChildren(gc *gcheap.Collector) int {
	var test gcheap.Object = ie.Test
	gc.Forward(&test)
	ie.Test = test.(Expression)

	var wt gcheap.Object = ie.WhenTrue
	gc.Forward(&wt)
	ie.WhenTrue = wt.(Expression)

	if ie.WhenFalse != nil {
		var wf gcheap.Object = ie.WhenFalse
		gc.Forward(&wf)
		ie.WhenFalse = wf.(Expression)
	}
	return ie.ShallowSize()
}
