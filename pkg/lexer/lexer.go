// Package lexer implements schematika's character tokenizer. The
// specification (§1) treats tokenizing as an external collaborator
// specified only by its output (§6's Token enumeration); this package is
// schematika's concrete implementation of that collaborator, producing
// pkg/token.Token values for pkg/reader to consume.
package lexer

import (
	"strconv"
	"unicode"

	"github.com/rconybea/schematika/pkg/token"
)

// Lexer is a hand-written, single-pass scanner over a string.
type Lexer struct {
	input        string
	position     int // current position (points at ch)
	readPosition int // position after ch
	ch           byte
}

// New creates a lexer over input.
func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// NextToken scans and returns the next token, advancing past it.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	begin := l.position
	tok := token.Token{Span: token.Span{Begin: begin}}

	switch {
	case l.ch == 0:
		tok.Type = token.EOF
	case l.ch == '"':
		tok.Type = token.StringLit
		tok.StringVal = l.readString()
	case l.ch == ':':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type = token.Assign
		} else if l.peekChar() == ':' {
			l.readChar()
			tok.Type = token.DoubleColon
		} else {
			tok.Type = token.Colon
		}
		l.readChar()
	case l.ch == ';':
		tok.Type = token.Semicolon
		l.readChar()
	case l.ch == ',':
		tok.Type = token.Comma
		l.readChar()
	case l.ch == '.':
		tok.Type = token.Dot
		l.readChar()
	case l.ch == '(':
		tok.Type = token.LeftParen
		l.readChar()
	case l.ch == ')':
		tok.Type = token.RightParen
		l.readChar()
	case l.ch == '{':
		tok.Type = token.LeftBrace
		l.readChar()
	case l.ch == '}':
		tok.Type = token.RightBrace
		l.readChar()
	case l.ch == '[':
		tok.Type = token.LeftBracket
		l.readChar()
	case l.ch == ']':
		tok.Type = token.RightBracket
		l.readChar()
	case l.ch == '+':
		tok.Type = token.Plus
		l.readChar()
	case l.ch == '-':
		if l.peekChar() == '>' {
			l.readChar()
			tok.Type = token.Yields
		} else {
			tok.Type = token.Minus
		}
		l.readChar()
	case l.ch == '*':
		tok.Type = token.Star
		l.readChar()
	case l.ch == '/':
		tok.Type = token.Slash
		l.readChar()
	case l.ch == '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type = token.CmpEq
		} else {
			tok.Type = token.SingleAssign
		}
		l.readChar()
	case l.ch == '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type = token.CmpNe
			l.readChar()
		} else {
			tok.Type = token.Illegal
			l.readChar()
		}
	case l.ch == '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type = token.LessEqual
		} else {
			tok.Type = token.LeftAngle
		}
		l.readChar()
	case l.ch == '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type = token.GreatEqual
		} else {
			tok.Type = token.RightAngle
		}
		l.readChar()
	case isLetter(l.ch):
		text := l.readIdentifier()
		tok.Type, tok.Text, tok.BoolVal = lookupIdent(text)
	case unicode.IsDigit(rune(l.ch)):
		tok.Type, tok.I64Val, tok.F64Val = l.readNumber()
	default:
		tok.Type = token.Illegal
		l.readChar()
	}

	tok.Span.End = l.position
	return tok
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '#':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		default:
			return
		}
	}
}

func (l *Lexer) readString() string {
	l.readChar() // opening quote
	start := l.position
	for l.ch != '"' && l.ch != 0 {
		l.readChar()
	}
	s := l.input[start:l.position]
	l.readChar() // closing quote
	return s
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || unicode.IsDigit(rune(l.ch)) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readNumber() (token.Type, int64, float64) {
	start := l.position
	isFloat := false
	for unicode.IsDigit(rune(l.ch)) || (l.ch == '.' && unicode.IsDigit(rune(l.peekChar()))) {
		if l.ch == '.' {
			isFloat = true
		}
		l.readChar()
	}
	text := l.input[start:l.position]
	if isFloat {
		return token.F64Lit, 0, parseFloat(text)
	}
	return token.I64Lit, parseInt(text), 0
}

func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || ch == '_'
}

var keywords = map[string]token.Type{
	"def":    token.Def,
	"if":     token.If,
	"then":   token.Then,
	"else":   token.Else,
	"lambda": token.Lambda,
	"let":    token.Let,
	"in":     token.In,
	"end":    token.End,
}

func lookupIdent(text string) (token.Type, string, bool) {
	if t, ok := keywords[text]; ok {
		return t, "", false
	}
	if text == "true" {
		return token.BoolLit, "", true
	}
	if text == "false" {
		return token.BoolLit, "", false
	}
	return token.Symbol, text, false
}

// parseInt and parseFloat: the lexer has already verified the character
// class, so a strconv error here is an internal invariant violation (§7),
// not a user-facing one.
func parseInt(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
