// Package token defines schematika's token enumeration (§6): the
// tokenizer is explicitly out of scope for this module (tokens arrive
// pre-classified), but the reader needs a concrete Token type to dispatch
// on, so this package defines the wire contract between an external
// lexer and pkg/reader.
package token

// Type identifies a token's grammatical category.
type Type int

const (
	Illegal Type = iota
	EOF

	Symbol

	// Keywords
	Def
	If
	Then
	Else
	Lambda
	Let
	In
	End

	// Punctuation
	Colon
	DoubleColon
	Semicolon
	Comma
	Dot

	// Assignment / arrow operators
	SingleAssign // =
	Assign       // :=
	Yields       // ->

	// Brackets
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	LeftBracket
	RightBracket
	LeftAngle
	RightAngle

	// Comparison
	LessEqual
	GreatEqual
	CmpEq // ==
	CmpNe // !=

	// Arithmetic
	Plus
	Minus
	Star
	Slash

	// Literals
	BoolLit
	I64Lit
	F64Lit
	StringLit
)

var names = map[Type]string{
	Illegal:      "ILLEGAL",
	EOF:          "EOF",
	Symbol:       "SYMBOL",
	Def:          "def",
	If:           "if",
	Then:         "then",
	Else:         "else",
	Lambda:       "lambda",
	Let:          "let",
	In:           "in",
	End:          "end",
	Colon:        ":",
	DoubleColon:  "::",
	Semicolon:    ";",
	Comma:        ",",
	Dot:          ".",
	SingleAssign: "=",
	Assign:       ":=",
	Yields:       "->",
	LeftParen:    "(",
	RightParen:   ")",
	LeftBrace:    "{",
	RightBrace:   "}",
	LeftBracket:  "[",
	RightBracket: "]",
	LeftAngle:    "<",
	RightAngle:   ">",
	LessEqual:    "<=",
	GreatEqual:   ">=",
	CmpEq:        "==",
	CmpNe:        "!=",
	Plus:         "+",
	Minus:        "-",
	Star:         "*",
	Slash:        "/",
	BoolLit:      "BOOL",
	I64Lit:       "I64",
	F64Lit:       "F64",
	StringLit:    "STRING",
}

func (t Type) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// Span is a half-open source-text range, [Begin, End), used for error
// reporting (§7 Syntax error, Lex error).
type Span struct {
	Begin, End int
}

// Token is one lexical unit. Non-literal tokens carry only Type and Span;
// literal tokens additionally carry their parsed value in the
// corresponding field (§6).
type Token struct {
	Type Type
	Span Span

	BoolVal   bool
	I64Val    int64
	F64Val    float64
	StringVal string
	// Text is the literal spelling for Symbol tokens (the identifier
	// name); unused otherwise.
	Text string
}

// IsBinop reports whether t can appear as an infix operator (§4.3.7,
// §6 binop grammar).
func (t Type) IsBinop() bool {
	switch t {
	case Assign, CmpEq, CmpNe, LeftAngle, RightAngle, LessEqual, GreatEqual, Plus, Minus, Star, Slash:
		return true
	default:
		return false
	}
}

// Precedence returns the binding power of an operator token per §4.3.7's
// table (1 = lowest). Panics if t is not a binop.
func (t Type) Precedence() int {
	switch t {
	case Assign:
		return 1
	case CmpEq, CmpNe, LeftAngle, RightAngle, LessEqual, GreatEqual:
		return 2
	case Plus, Minus:
		return 3
	case Star, Slash:
		return 4
	default:
		panic("token: Precedence on non-binop type " + t.String())
	}
}
