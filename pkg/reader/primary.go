package reader

import (
	"github.com/rconybea/schematika/pkg/ast"
	"github.com/rconybea/schematika/pkg/token"
)

// primarySsm sits between a freshly-built primary expression (a literal, a
// VarRef, or the result of ParenSsm/SequenceSsm) and ProgressSsm: call
// syntax binds tighter than any infix operator, so `f(x) + 1` must apply f
// before folding `+`, and `f(x)(y)` must chain a second call before either
// is handed to an operator. Once a non-'(' token arrives, the accumulated
// expression is primed into a ProgressSsm and primarySsm steps aside.
type primarySsm struct {
	expr ast.Expression
}

func (s *primarySsm) onToken(r *Reader, tok token.Token) error {
	if tok.Type == token.LeftParen {
		r.push(&applySsm{fn: s.expr})
		return r.top().onToken(r, tok)
	}
	e := s.expr
	r.pop()
	r.push(newProgressSsm(e))
	return r.top().onToken(r, tok)
}
