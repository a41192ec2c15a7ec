package reader

import (
	"github.com/rconybea/schematika/pkg/ast"
	"github.com/rconybea/schematika/pkg/token"
)

// ifElseSsm implements IF0->IF1(expect-expr)->IF2(expect-'then')->
// IF3(expect-expr)->IF4(expect-'else' or ';')->IF5(expect-expr)->
// IF6(expect-';')->done (§4.3.4). phase tracks which branch's expression
// just completed, since the 'then'/'else' keywords arrive as the
// terminator token delivered alongside that branch's expression rather
// than as a token ifElseSsm reads directly.
type ifElseSsm struct {
	started bool
	phase   int // 0 = awaiting test, 1 = awaiting whenTrue, 2 = awaiting whenFalse
	test    ast.Expression
	whenTr  ast.Expression
}

func (s *ifElseSsm) onToken(r *Reader, tok token.Token) error {
	if s.started {
		return r.fail(&SyntaxError{SSM: "IfElseSsm", Expected: "no token expected here", Got: tok})
	}
	if tok.Type != token.If {
		return r.fail(&SyntaxError{SSM: "IfElseSsm", Expected: "if", Got: tok})
	}
	s.started = true
	r.push(&expectExprSsm{allowDefs: false})
	return nil
}

func (s *ifElseSsm) onParsedExpressionWithToken(r *Reader, e ast.Expression, tok token.Token) error {
	switch s.phase {
	case 0:
		if tok.Type != token.Then {
			return r.fail(&SyntaxError{SSM: "IfElseSsm", Expected: "then", Got: tok})
		}
		s.test = e
		s.phase = 1
		r.push(&expectExprSsm{allowDefs: false})
		return nil

	case 1:
		switch tok.Type {
		case token.Else:
			s.whenTr = e
			s.phase = 2
			r.push(&expectExprSsm{allowDefs: false})
			return nil
		case token.Semicolon:
			ifelse, err := ast.NewIfElse(s.test, e, nil)
			if err != nil {
				return r.fail(err)
			}
			return r.deliverParsedExpressionWithToken(ifelse, tok)
		default:
			return r.fail(&SyntaxError{SSM: "IfElseSsm", Expected: "else or ;", Got: tok})
		}

	default: // phase 2
		if tok.Type != token.Semicolon {
			return r.fail(&SyntaxError{SSM: "IfElseSsm", Expected: ";", Got: tok})
		}
		ifelse, err := ast.NewIfElse(s.test, s.whenTr, e)
		if err != nil {
			return r.fail(err)
		}
		return r.deliverParsedExpressionWithToken(ifelse, tok)
	}
}

func (s *ifElseSsm) onParsedExpression(r *Reader, e ast.Expression) error {
	return r.fail(&SyntaxError{SSM: "IfElseSsm", Expected: "then/else/;"})
}
