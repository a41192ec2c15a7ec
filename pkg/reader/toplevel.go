package reader

import (
	"github.com/rconybea/schematika/pkg/ast"
	"github.com/rconybea/schematika/pkg/token"
)

// toplevelSeqSsm is the permanent bottom-of-stack SSM (§4.3.1): it never
// pops, pushing a fresh ExpectExprSsm for each top-level form in turn and
// publishing the completed result (after resolving its variables via
// AttachEnvs, which is run exactly once per top-level expression, here).
type toplevelSeqSsm struct {
	mode Mode
}

func (s *toplevelSeqSsm) onToken(r *Reader, tok token.Token) error {
	if tok.Type == token.EOF {
		return nil
	}
	if s.mode == Batch && tok.Type != token.Def {
		return r.fail(&SyntaxError{SSM: "ToplevelSeqSsm", Expected: "def", Got: tok})
	}
	r.push(&expectExprSsm{allowDefs: true, topLevel: true})
	return r.top().onToken(r, tok)
}

func (s *toplevelSeqSsm) onParsedExpressionWithToken(r *Reader, e ast.Expression, tok token.Token) error {
	if s.mode == Batch {
		if _, ok := e.(*ast.Define); !ok {
			return r.fail(&SyntaxError{SSM: "ToplevelSeqSsm", Expected: "def", Got: tok})
		}
	}
	if err := e.AttachEnvs(r.Global); err != nil {
		return r.fail(err)
	}
	r.publishResult(e)
	return nil
}

func (s *toplevelSeqSsm) onParsedExpression(r *Reader, e ast.Expression) error {
	return s.onParsedExpressionWithToken(r, e, token.Token{Type: token.EOF})
}
