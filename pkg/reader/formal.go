package reader

import (
	"github.com/rconybea/schematika/pkg/ast"
	"github.com/rconybea/schematika/pkg/token"
	"github.com/rconybea/schematika/pkg/typedescr"
	"github.com/rconybea/schematika/pkg/usym"
)

// expectFormalArgSsm parses one `SYM [':' type]` formal (§4.3.10, §6
// formal-args grammar). It cannot know a formal is complete until it sees
// the token after it (the ',' or ')' the enclosing arglist owns), so it
// delivers through formalWithTokenReceiver rather than formalReceiver.
type expectFormalArgSsm struct {
	name     usym.USym
	haveName bool
	td       *typedescr.TypeDescr
	haveType bool
}

func (s *expectFormalArgSsm) onToken(r *Reader, tok token.Token) error {
	if !s.haveName {
		if tok.Type != token.Symbol {
			return r.fail(&SyntaxError{SSM: "ExpectFormalArgSsm", Expected: "parameter name", Got: tok})
		}
		s.name = r.Syms.Intern(tok.Text)
		s.haveName = true
		return nil
	}
	if s.haveType {
		return r.deliverParsedFormalWithToken(ast.NewVarDef(s.name, s.td), tok)
	}
	if tok.Type == token.Colon {
		r.push(&expectTypeSsm{})
		return nil
	}
	return r.deliverParsedFormalWithToken(ast.NewVarDef(s.name, nil), tok)
}

func (s *expectFormalArgSsm) onParsedTypedescr(r *Reader, td *typedescr.TypeDescr) error {
	s.td = td
	s.haveType = true
	return nil
}

// expectFormalArglistSsm parses `'(' [formal (',' formal)*] ')'` (§6).
type expectFormalArglistSsm struct {
	opened bool
	params []*ast.VarDef
}

func (s *expectFormalArglistSsm) onToken(r *Reader, tok token.Token) error {
	if !s.opened {
		if tok.Type != token.LeftParen {
			return r.fail(&SyntaxError{SSM: "ExpectFormalArglistSsm", Expected: "(", Got: tok})
		}
		s.opened = true
		return nil
	}
	if tok.Type == token.RightParen && len(s.params) == 0 {
		return r.deliverParsedFormalArglist(s.params)
	}
	r.push(&expectFormalArgSsm{})
	return r.top().onToken(r, tok)
}

func (s *expectFormalArglistSsm) onParsedFormalWithToken(r *Reader, def *ast.VarDef, tok token.Token) error {
	s.params = append(s.params, def)
	switch tok.Type {
	case token.Comma:
		r.push(&expectFormalArgSsm{})
		return nil
	case token.RightParen:
		return r.deliverParsedFormalArglist(s.params)
	default:
		return r.fail(&SyntaxError{SSM: "ExpectFormalArglistSsm", Expected: "',' or ')'", Got: tok})
	}
}
