package reader

import (
	"github.com/rconybea/schematika/pkg/ast"
	"github.com/rconybea/schematika/pkg/symtab"
	"github.com/rconybea/schematika/pkg/token"
)

// sequenceSsm accumulates expressions until '}' (§4.3.5). Each accumulated
// expression is delivered terminated by ';' (keep accumulating) or '}'
// (this expression is the block's value; finalize). If any accumulated
// expression is a Define, the block is rewritten into nested
// application-of-lambda let-form before being handed up, so the tree the
// VM ever walks contains no bare Define inside a Sequence.
//
// currentScope tracks the let-scope chain incrementally, one LocalSymTab
// deeper each time a Define is accumulated, so that anything parsed
// between that Define and the block's closing '}' — including a nested
// lambda literal that is a later sibling's rhs — sees earlier siblings via
// lexicalScope(). scopes[i] holds the scope that became current right
// after exprs[i] (nil if exprs[i] isn't a Define); buildLet reuses these
// exact objects so the scope graph a nested lambda resolved against while
// being parsed is the same graph wired into the final let-rewritten tree.
type sequenceSsm struct {
	opened       bool
	exprs        []ast.Expression
	scopes       []*symtab.LocalSymTab
	currentScope symtab.SymTab
}

func (s *sequenceSsm) onToken(r *Reader, tok token.Token) error {
	if !s.opened {
		if tok.Type != token.LeftBrace {
			return r.fail(&SyntaxError{SSM: "SequenceSsm", Expected: "{", Got: tok})
		}
		s.opened = true
		s.currentScope = r.enclosingScope()
		return nil
	}
	if tok.Type == token.RightBrace {
		return s.finish(r)
	}
	r.push(&expectExprSsm{allowDefs: true})
	return r.top().onToken(r, tok)
}

func (s *sequenceSsm) onParsedExpressionWithToken(r *Reader, e ast.Expression, tok token.Token) error {
	s.exprs = append(s.exprs, e)
	if def, ok := e.(*ast.Define); ok {
		scope := symtab.NewLocalSymTab(s.currentScope)
		scope.Upsert(def.Lhs)
		s.currentScope = scope
		s.scopes = append(s.scopes, scope)
	} else {
		s.scopes = append(s.scopes, nil)
	}
	switch tok.Type {
	case token.Semicolon:
		return nil
	case token.RightBrace:
		return s.finish(r)
	default:
		return r.fail(&SyntaxError{SSM: "SequenceSsm", Expected: "; or }", Got: tok})
	}
}

func (s *sequenceSsm) onParsedExpression(r *Reader, e ast.Expression) error {
	return r.fail(&SyntaxError{SSM: "SequenceSsm", Expected: "; or }"})
}

func (s *sequenceSsm) finish(r *Reader) error {
	if len(s.exprs) == 0 {
		return r.fail(&SyntaxError{SSM: "SequenceSsm", Expected: "expression before }"})
	}
	final, err := buildLet(r, s.exprs, s.scopes)
	if err != nil {
		return r.fail(err)
	}
	r.pop()
	r.push(&primarySsm{expr: final})
	return nil
}

// lexicalScope makes sequenceSsm a scopeHolder (§3.5): anything written
// directly inside this block — a nested lambda, a nested block — parents
// its own scope on currentScope, the let-chain as accumulated so far, so
// it can see every sibling Define that precedes it even though buildLet
// hasn't rewritten the block yet.
func (s *sequenceSsm) lexicalScope() symtab.SymTab { return s.currentScope }

// buildLet rewrites a block's accumulated expressions into let-form: the
// first Define found becomes Apply(Lambda(its variable, rest-rewritten),
// its rhs). scopes[i] is the precomputed LocalSymTab that became current
// right after exprs[i] was accumulated (see sequenceSsm.onParsedExpressionWithToken);
// reusing it here — rather than building a fresh one — keeps this rewrite
// consistent with whatever a nested lambda inside a later sibling already
// resolved its free variables against during parsing.
func buildLet(r *Reader, exprs []ast.Expression, scopes []*symtab.LocalSymTab) (ast.Expression, error) {
	for i, e := range exprs {
		def, ok := e.(*ast.Define)
		if !ok {
			continue
		}
		rest := exprs[i+1:]
		if len(rest) == 0 {
			return nil, &SyntaxError{SSM: "SequenceSsm", Expected: "expression after def"}
		}
		scope := scopes[i]
		body, err := buildLet(r, rest, scopes[i+1:])
		if err != nil {
			return nil, err
		}
		lambda := ast.NewLambda([]*ast.VarDef{def.Lhs}, body, scope, r.Types)
		apply := ast.NewApply(lambda, []ast.Expression{def.Rhs})
		if i == 0 {
			return apply, nil
		}
		prefix := append([]ast.Expression(nil), exprs[:i]...)
		return ast.NewSequence(append(prefix, apply)), nil
	}
	return ast.NewSequence(exprs), nil
}
