package reader

import (
	"github.com/rconybea/schematika/pkg/ast"
	"github.com/rconybea/schematika/pkg/token"
)

// applySsm implements AP0->AP1(have-fn)->AP2(expect-arg)->AP3(have-arg,
// expect ',' or ')')->done (§4.3.6). It begins already holding fn (the
// caller — primarySsm — saw the expression that precedes '('); the '(' is
// forwarded to onToken as the very first token.
type applySsm struct {
	fn     ast.Expression
	args   []ast.Expression
	opened bool
}

func (s *applySsm) onToken(r *Reader, tok token.Token) error {
	if !s.opened {
		if tok.Type != token.LeftParen {
			return r.fail(&SyntaxError{SSM: "ApplySsm", Expected: "(", Got: tok})
		}
		s.opened = true
		return nil
	}
	if tok.Type == token.RightParen && len(s.args) == 0 {
		return s.finish(r)
	}
	r.push(&expectExprSsm{allowDefs: false})
	return r.top().onToken(r, tok)
}

func (s *applySsm) onParsedExpressionWithToken(r *Reader, e ast.Expression, tok token.Token) error {
	s.args = append(s.args, e)
	switch tok.Type {
	case token.Comma:
		r.push(&expectExprSsm{allowDefs: false})
		return nil
	case token.RightParen:
		return s.finish(r)
	default:
		return r.fail(&SyntaxError{SSM: "ApplySsm", Expected: "',' or ')'", Got: tok})
	}
}

func (s *applySsm) onParsedExpression(r *Reader, e ast.Expression) error {
	return r.fail(&SyntaxError{SSM: "ApplySsm", Expected: "',' or ')'"})
}

// finish folds the call into an Apply and hands it back to the enclosing
// primarySsm by mutating it in place, rather than through the
// onParsedExpression* channel — there is no lookahead token yet to deliver
// with, exactly as for ParenSsm (§4.3.8); the next real token simply lands
// on primarySsm.onToken and decides whether another call or an operator
// follows.
func (s *applySsm) finish(r *Reader) error {
	apply := ast.NewApply(s.fn, s.args)
	r.pop()
	p, ok := r.top().(*primarySsm)
	if !ok {
		return r.fail(&SyntaxError{SSM: "ApplySsm", Expected: "no call expected here"})
	}
	p.expr = apply
	return nil
}
