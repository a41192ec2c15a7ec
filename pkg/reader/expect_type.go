package reader

import "github.com/rconybea/schematika/pkg/token"

// expectTypeSsm is a one-token resumable parser (§4.3.10) for the builtin
// scalar type names that appear in a `: type` annotation. Schematika's
// surface grammar names types with plain symbols (`i64`, `f64`, `bool`,
// `string`); function and user types are never written directly in source,
// only inferred, so this is the full surface syntax for a type annotation.
type expectTypeSsm struct{}

func (s *expectTypeSsm) onToken(r *Reader, tok token.Token) error {
	if tok.Type != token.Symbol {
		return r.fail(&SyntaxError{SSM: "ExpectTypeSsm", Expected: "type name", Got: tok})
	}
	switch tok.Text {
	case "i64":
		return r.deliverParsedTypedescr(r.Types.I64())
	case "f64":
		return r.deliverParsedTypedescr(r.Types.F64())
	case "bool":
		return r.deliverParsedTypedescr(r.Types.Bool())
	case "string":
		return r.deliverParsedTypedescr(r.Types.StringType())
	default:
		return r.fail(&SyntaxError{SSM: "ExpectTypeSsm", Expected: "i64, f64, bool, or string", Got: tok})
	}
}
