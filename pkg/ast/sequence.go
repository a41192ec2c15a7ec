package ast

import (
	"github.com/rconybea/schematika/pkg/gcheap"
	"github.com/rconybea/schematika/pkg/symtab"
	"github.com/rconybea/schematika/pkg/usym"
)

// Sequence is an ordered list of expressions evaluated left to right,
// typed as its last element's type (nil if empty). By the time a Sequence
// reaches the VM it must contain no Define (§4.3.5 rewrites those into
// Apply-of-Lambda let-form first); Sequence itself stays available for
// define-free blocks and for SequenceSsm's intermediate accumulation.
type Sequence struct {
	exprBase
	Exprs []Expression
}

// NewSequence builds a sequence from exprs, typed as the last element's
// type.
func NewSequence(exprs []Expression) *Sequence {
	s := &Sequence{Exprs: exprs}
	if n := len(exprs); n > 0 {
		s.setValueTypeOnce(exprs[n-1].ValueType())
	}
	return s
}

func (s *Sequence) ExprKind() string { return "Sequence" }

func (s *Sequence) FreeVariables() map[usym.USym]struct{} {
	if s.freeVars == nil {
		sets := make([]map[usym.USym]struct{}, len(s.Exprs))
		for i, e := range s.Exprs {
			sets[i] = e.FreeVariables()
		}
		s.freeVars = union(sets...)
	}
	return s.freeVars
}

func (s *Sequence) VisitPreorder(f func(Expression)) {
	f(s)
	for _, e := range s.Exprs {
		e.VisitPreorder(f)
	}
}

func (s *Sequence) VisitLayer(f func(Expression)) {
	for _, e := range s.Exprs {
		f(e)
	}
}

func (s *Sequence) TransformLayer(f func(Expression) Expression) Expression {
	out := make([]Expression, len(s.Exprs))
	for i, e := range s.Exprs {
		out[i] = f(e)
	}
	return NewSequence(out)
}

func (s *Sequence) AttachEnvs(scope symtab.SymTab) error {
	for _, e := range s.Exprs {
		if err := e.AttachEnvs(scope); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sequence) ShallowSize() int { return 24 + 8*len(s.Exprs) }

func (s *Sequence) ShallowCopy() gcheap.Object {
	cp := *s
	cp.Exprs = append([]Expression(nil), s.Exprs...)
	return &cp
}

func (s *Sequence) ForwardChildren(gc *gcheap.Collector) int {
	for i, e := range s.Exprs {
		var o gcheap.Object = e
		gc.Forward(&o)
		s.Exprs[i] = o.(Expression)
	}
	return s.ShallowSize()
}
