package reader

import (
	"github.com/rconybea/schematika/pkg/ast"
	"github.com/rconybea/schematika/pkg/token"
	"github.com/rconybea/schematika/pkg/value"
)

// expectExprSsm is the dispatcher (§4.3.9): it routes a token to whichever
// nested SSM parses that construct, or builds a Constant/VarRef leaf
// directly, then pushes a progressSsm so a following infix operator can
// join. allowDefs controls whether a Def token is legal here (true inside
// a block's SequenceSsm; false inside, e.g., an argument list). The "}` as
// non-expression terminator" case (cancel_on_rightbrace in §4.3.9) is
// handled by the caller peeking before delegating to this SSM, rather than
// as a flag here — sequenceSsm is the only caller that needs it.
type expectExprSsm struct {
	allowDefs bool
	// topLevel marks a def reached directly from ToplevelSeqSsm, which
	// must upsert into the global symbol table as soon as its name is
	// known (§4.3.2) rather than only becoming visible once the let-form
	// rewrite binds it, so a recursive top-level function can reference
	// itself.
	topLevel bool
}

func (s *expectExprSsm) onToken(r *Reader, tok token.Token) error {
	switch tok.Type {
	case token.Def:
		if !s.allowDefs {
			return r.fail(&SyntaxError{SSM: "ExpectExprSsm", Expected: "expression (no def here)", Got: tok})
		}
		r.push(&defineSsm{topLevel: s.topLevel})
		return r.top().onToken(r, tok)

	case token.Lambda:
		r.push(&lambdaSsm{})
		return r.top().onToken(r, tok)

	case token.If:
		r.push(&ifElseSsm{})
		return r.top().onToken(r, tok)

	case token.LeftParen:
		r.push(&parenSsm{})
		return r.top().onToken(r, tok)

	case token.LeftBrace:
		r.push(&sequenceSsm{})
		return r.top().onToken(r, tok)

	case token.BoolLit:
		return s.startProgress(r, ast.NewConstant(value.NewBool(r.Types, tok.BoolVal)))

	case token.I64Lit:
		return s.startProgress(r, ast.NewConstant(value.NewI64(r.Types, tok.I64Val)))

	case token.F64Lit:
		return s.startProgress(r, ast.NewConstant(value.NewF64(r.Types, tok.F64Val)))

	case token.StringLit:
		return s.startProgress(r, ast.NewConstant(value.NewString(r.Types, tok.StringVal)))

	case token.Symbol:
		return s.startProgress(r, ast.NewVarRef(r.Syms.Intern(tok.Text)))

	default:
		return r.fail(&SyntaxError{SSM: "ExpectExprSsm", Expected: "expression", Got: tok})
	}
}

func (s *expectExprSsm) startProgress(r *Reader, primary ast.Expression) error {
	r.push(&primarySsm{expr: primary})
	return nil
}

// onParsedExpression/onParsedExpressionWithToken receive the fully
// assembled expression back from the progressSsm (or a nested
// construct's SSM, for e.g. a parenthesized or if/else primary) and pass
// it one level further up, having served its purpose as a dispatcher.
func (s *expectExprSsm) onParsedExpression(r *Reader, e ast.Expression) error {
	return r.deliverParsedExpression(e)
}

func (s *expectExprSsm) onParsedExpressionWithToken(r *Reader, e ast.Expression, tok token.Token) error {
	return r.deliverParsedExpressionWithToken(e, tok)
}
