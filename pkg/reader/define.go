package reader

import (
	"github.com/rconybea/schematika/pkg/ast"
	"github.com/rconybea/schematika/pkg/token"
	"github.com/rconybea/schematika/pkg/typedescr"
	"github.com/rconybea/schematika/pkg/usym"
)

const (
	def0 = iota // awaiting the `def` keyword
	def2        // have symbol, deciding ':' vs '='
	def4        // have declared type, expect '='
	def5        // expect rhs expression (handled via the exprReceiver callback, not onToken)
)

// defineSsm implements DEF0->DEF1(expect-symbol)->DEF2->DEF3(expect-type)
// ->DEF4->DEF5(expect-expr)->DEF6(expect-';')->done, with the DEF2->DEF5
// shortcut when '=' follows the symbol directly (§4.3.2).
type defineSsm struct {
	topLevel bool
	state    int
	varDef   *ast.VarDef
}

func (s *defineSsm) onToken(r *Reader, tok token.Token) error {
	switch s.state {
	case def0:
		if tok.Type != token.Def {
			return r.fail(&SyntaxError{SSM: "DefineSsm", Expected: "def", Got: tok})
		}
		r.push(&expectSymbolSsm{})
		return nil

	case def2:
		switch tok.Type {
		case token.Colon:
			r.push(&expectTypeSsm{})
			s.state = def4
			return nil
		case token.SingleAssign:
			r.push(&expectExprSsm{allowDefs: false})
			s.state = def5
			return nil
		default:
			return r.fail(&SyntaxError{SSM: "DefineSsm", Expected: "':' or '='", Got: tok})
		}

	case def4:
		if tok.Type != token.SingleAssign {
			return r.fail(&SyntaxError{SSM: "DefineSsm", Expected: "=", Got: tok})
		}
		r.push(&expectExprSsm{allowDefs: false})
		s.state = def5
		return nil

	default:
		return r.fail(&SyntaxError{SSM: "DefineSsm", Expected: "no token expected here", Got: tok})
	}
}

// onParsedSymbol receives the defined name (DEF1 popped). Per §4.3.2, a
// top-level def upserts into the global table right away so a lambda rhs
// can reference its own name recursively in its body.
func (s *defineSsm) onParsedSymbol(r *Reader, sym usym.USym) error {
	s.varDef = ast.NewVarDef(sym, nil)
	if s.topLevel {
		r.Global.Upsert(s.varDef)
	}
	s.state = def2
	return nil
}

func (s *defineSsm) onParsedTypedescr(r *Reader, td *typedescr.TypeDescr) error {
	s.varDef.SetValueType(td)
	s.state = def4
	return nil
}

func (s *defineSsm) onParsedExpressionWithToken(r *Reader, rhs ast.Expression, tok token.Token) error {
	if tok.Type != token.Semicolon {
		return r.fail(&SyntaxError{SSM: "DefineSsm", Expected: ";", Got: tok})
	}
	define := ast.NewDefine(s.varDef, rhs)
	return r.deliverParsedExpressionWithToken(define, tok)
}

func (s *defineSsm) onParsedExpression(r *Reader, e ast.Expression) error {
	return r.fail(&SyntaxError{SSM: "DefineSsm", Expected: ";"})
}
