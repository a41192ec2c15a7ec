package reader

import (
	"github.com/rconybea/schematika/pkg/ast"
	"github.com/rconybea/schematika/pkg/symtab"
	"github.com/rconybea/schematika/pkg/token"
	"github.com/rconybea/schematika/pkg/typedescr"
)

const (
	lm0 = iota // awaiting the `lambda` keyword
	lm2        // have formals, deciding ':' (return type) vs body start
	lm4        // expect body expression (handled via the exprReceiver callback)
)

// lambdaSsm implements LM0->LM1(expect-formal-arglist)->LM2->
// LM3(expect-type, optional)->LM4(expect-body-expr)->LM5(expect-';')->done
// (§4.3.3). Between LM1 and LM2 it pushes a fresh LocalSymTab holding the
// formals, parented on whatever scope encloses this lambda (r.Global at top
// level, or a surrounding lambda's/block's scope when nested) — schematika
// resolves VarRefs in a separate post-parse AttachEnvs pass rather than
// during parsing itself, so (unlike a single-pass resolver) a lambda's
// defining `def` need not have propagated anything here for recursive
// self-reference to work: the global upsert DefineSsm already performed at
// DEF2 is what makes `fact` resolvable inside its own body.
type lambdaSsm struct {
	state      int
	params     []*ast.VarDef
	scope      *symtab.LocalSymTab
	returnType *typedescr.TypeDescr
}

func (s *lambdaSsm) onToken(r *Reader, tok token.Token) error {
	switch s.state {
	case lm0:
		if tok.Type != token.Lambda {
			return r.fail(&SyntaxError{SSM: "LambdaSsm", Expected: "lambda", Got: tok})
		}
		r.push(&expectFormalArglistSsm{})
		return nil

	case lm2:
		if tok.Type == token.Colon {
			r.push(&expectTypeSsm{})
			return nil
		}
		r.push(&expectExprSsm{allowDefs: false})
		s.state = lm4
		return r.top().onToken(r, tok)

	default:
		return r.fail(&SyntaxError{SSM: "LambdaSsm", Expected: "no token expected here", Got: tok})
	}
}

func (s *lambdaSsm) onParsedFormalArglist(r *Reader, params []*ast.VarDef) error {
	s.params = params
	s.scope = symtab.NewLocalSymTab(r.enclosingScope())
	for _, p := range params {
		s.scope.Upsert(p)
	}
	s.state = lm2
	return nil
}

// lexicalScope makes lambdaSsm a scopeHolder (§3.5): once formals are
// parsed, anything nested in the body — a block, a nested lambda — parents
// its own scope on this lambda's formal scope, not on whatever enclosed
// the lambda itself.
func (s *lambdaSsm) lexicalScope() symtab.SymTab { return s.scope }

func (s *lambdaSsm) onParsedTypedescr(r *Reader, td *typedescr.TypeDescr) error {
	s.returnType = td
	r.push(&expectExprSsm{allowDefs: false})
	s.state = lm4
	return nil
}

func (s *lambdaSsm) onParsedExpressionWithToken(r *Reader, body ast.Expression, tok token.Token) error {
	if tok.Type != token.Semicolon {
		return r.fail(&SyntaxError{SSM: "LambdaSsm", Expected: ";", Got: tok})
	}
	if s.returnType != nil && body.ValueType() != nil && !s.returnType.Equal(body.ValueType()) {
		return r.fail(&ast.TypeMismatchError{Context: "lambda body", Want: s.returnType, Got: body.ValueType()})
	}
	lambda := ast.NewLambda(s.params, body, s.scope, r.Types)
	return r.deliverParsedExpressionWithToken(lambda, tok)
}

func (s *lambdaSsm) onParsedExpression(r *Reader, e ast.Expression) error {
	return r.fail(&SyntaxError{SSM: "LambdaSsm", Expected: ";"})
}
