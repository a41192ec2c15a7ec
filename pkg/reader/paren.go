package reader

import (
	"github.com/rconybea/schematika/pkg/ast"
	"github.com/rconybea/schematika/pkg/token"
)

// parenSsm implements LP0(expect-expr) -> LP1(have-expr, expect ')') ->
// done (§4.3.8). Once closed, the parenthesized expression becomes a
// fresh primary and is handed to primarySsm so a following call or infix
// operator — e.g. the `* 3` in `(1 + 2) * 3` — can still bind to it.
type parenSsm struct{}

func (s *parenSsm) onToken(r *Reader, tok token.Token) error {
	if tok.Type != token.LeftParen {
		return r.fail(&SyntaxError{SSM: "ParenSsm", Expected: "(", Got: tok})
	}
	r.push(&expectExprSsm{allowDefs: false})
	return nil
}

func (s *parenSsm) onParsedExpressionWithToken(r *Reader, e ast.Expression, tok token.Token) error {
	if tok.Type != token.RightParen {
		return r.fail(&SyntaxError{SSM: "ParenSsm", Expected: ")", Got: tok})
	}
	r.pop()
	r.push(&primarySsm{expr: e})
	return nil
}

func (s *parenSsm) onParsedExpression(r *Reader, e ast.Expression) error {
	return r.fail(&SyntaxError{SSM: "ParenSsm", Expected: ")"})
}
