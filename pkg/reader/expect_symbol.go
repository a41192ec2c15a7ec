package reader

import "github.com/rconybea/schematika/pkg/token"

// expectSymbolSsm is a one-token resumable parser (§4.3.10): it interns
// whatever Symbol token arrives and immediately delivers it, or errors on
// anything else.
type expectSymbolSsm struct{}

func (s *expectSymbolSsm) onToken(r *Reader, tok token.Token) error {
	if tok.Type != token.Symbol {
		return r.fail(&SyntaxError{SSM: "ExpectSymbolSsm", Expected: "symbol", Got: tok})
	}
	return r.deliverParsedSymbol(r.Syms.Intern(tok.Text))
}
