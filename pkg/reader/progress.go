package reader

import (
	"github.com/rconybea/schematika/pkg/ast"
	"github.com/rconybea/schematika/pkg/token"
)

// progressSsm implements the "progress" trick (§4.3.7, §9 Design Notes):
// it simulates one-token lookahead for infix operators without the
// tokenizer supporting push-back, by stashing the expression parsed so
// far and deferring commitment until the next token reveals whether an
// operator follows.
type progressSsm struct {
	lhs ast.Expression
	op  *token.Token // nil until the first operator is seen
}

func newProgressSsm(lhs ast.Expression) *progressSsm {
	return &progressSsm{lhs: lhs}
}

// onToken only ever runs in the "just have lhs, no operator yet" state —
// once op is set, a child ExpectExprSsm owns the token stream until the
// rhs completes and calls back through onParsedExpressionWithToken.
func (s *progressSsm) onToken(r *Reader, tok token.Token) error {
	if tok.Type.IsBinop() {
		if enclosingOpBindsAsTightly(r, tok.Type) {
			// lhs is the rhs of a pending operator below us that binds at
			// least as tightly: hand lhs and the new operator back to it.
			return r.deliverParsedExpressionWithToken(s.lhs, tok)
		}
		opCopy := tok
		s.op = &opCopy
		r.push(&expectExprSsm{allowDefs: false})
		return nil
	}
	// Not an operator: lhs is the whole expression, and tok belongs to
	// whoever is waiting above us (`;`, `)`, `,`, `}`, `then`, EOF, ...).
	return r.deliverParsedExpressionWithToken(s.lhs, tok)
}

func (s *progressSsm) onParsedExpression(r *Reader, e ast.Expression) error {
	return s.onParsedExpressionWithToken(r, e, token.Token{Type: token.EOF})
}

// onParsedExpressionWithToken runs once our rhs (possibly itself a nested
// higher-precedence progressSsm's result) has completed, carrying
// whatever token terminated it — which may be another operator.
func (s *progressSsm) onParsedExpressionWithToken(r *Reader, rhs ast.Expression, tok token.Token) error {
	rhsExpr, err := s.fold(r, rhs)
	if err != nil {
		return r.fail(err)
	}

	if !tok.Type.IsBinop() {
		return r.deliverParsedExpressionWithToken(rhsExpr, tok)
	}

	op2 := tok
	if s.op.Type.Precedence() >= op2.Type.Precedence() {
		// Left-associate: fold now, restart with the new operator — unless
		// an enclosing operator binds at least as tightly, in which case
		// the folded group is its rhs and op2 goes back to it.
		if enclosingOpBindsAsTightly(r, op2.Type) {
			return r.deliverParsedExpressionWithToken(rhsExpr, op2)
		}
		s.lhs = rhsExpr
		opCopy := op2
		s.op = &opCopy
		r.push(&expectExprSsm{allowDefs: false})
		return nil
	}

	// Right side binds tighter: let a fresh progressSsm finish that group
	// first, then come back to us.
	r.push(newProgressSsm(rhsExpr))
	return r.top().onToken(r, op2)
}

// enclosingOpBindsAsTightly reports whether the progressSsm on top of the
// stack is parsing the rhs of an enclosing progressSsm whose pending
// operator has precedence >= op2's.
func enclosingOpBindsAsTightly(r *Reader, op2 token.Type) bool {
	n := len(r.frames)
	if n < 3 {
		return false
	}
	if _, ok := r.frames[n-2].ssm.(*expectExprSsm); !ok {
		return false
	}
	outer, ok := r.frames[n-3].ssm.(*progressSsm)
	return ok && outer.op != nil && outer.op.Type.Precedence() >= op2.Precedence()
}

// fold assembles the expression for `lhs op rhs` and folds it into s.lhs.
// `:=` is not a primitive call but the Assign expression (its lhs must be a
// VarRef); every other binop resolves to a primitive, specialized by
// whichever operand's type is known (§4.3.7).
func (s *progressSsm) fold(r *Reader, rhs ast.Expression) (ast.Expression, error) {
	if s.op.Type == token.Assign {
		target, ok := s.lhs.(*ast.VarRef)
		if !ok {
			return nil, &SyntaxError{SSM: "ProgressSsm", Expected: "assignable variable", Got: *s.op}
		}
		return ast.NewAssign(target, rhs), nil
	}

	operandType := s.lhs.ValueType()
	if operandType == nil {
		operandType = rhs.ValueType()
	}
	prim, err := r.Prims.Resolve(s.op.Type, operandType)
	if err != nil {
		return nil, err
	}
	return ast.NewApply(ast.NewPrimitive(prim), []ast.Expression{s.lhs, rhs}), nil
}
