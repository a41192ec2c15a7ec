package lexer

import (
	"testing"

	"github.com/rconybea/schematika/pkg/token"
	"github.com/stretchr/testify/require"
)

func allTokens(input string) []token.Token {
	l := New(input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func types(toks []token.Token) []token.Type {
	out := make([]token.Type, len(toks))
	for i, tk := range toks {
		out[i] = tk.Type
	}
	return out
}

func TestDefineStatement(t *testing.T) {
	toks := allTokens(`def pi = 3.14;`)
	require.Equal(t, []token.Type{
		token.Def, token.Symbol, token.SingleAssign, token.F64Lit, token.Semicolon, token.EOF,
	}, types(toks))
	require.InDelta(t, 3.14, toks[3].F64Val, 1e-9)
}

func TestLambdaWithTypedFormal(t *testing.T) {
	toks := allTokens(`lambda(x : f64) : f64 x * x;`)
	require.Equal(t, []token.Type{
		token.Lambda, token.LeftParen, token.Symbol, token.Colon, token.Symbol, token.RightParen,
		token.Colon, token.Symbol, token.Symbol, token.Star, token.Symbol, token.Semicolon, token.EOF,
	}, types(toks))
}

func TestIfThenElse(t *testing.T) {
	toks := allTokens(`if n == 0 then 1 else n * fact(n - 1);`)
	require.Equal(t, token.If, toks[0].Type)
	require.Equal(t, token.CmpEq, toks[2].Type)
	require.Equal(t, token.I64Lit, toks[3].Type)
	require.Equal(t, int64(0), toks[3].I64Val)
}

func TestOperatorsAndArrow(t *testing.T) {
	toks := allTokens(`a := b -> c <= d >= e != f == g`)
	require.Equal(t, []token.Type{
		token.Symbol, token.Assign, token.Symbol, token.Yields, token.Symbol, token.LessEqual,
		token.Symbol, token.GreatEqual, token.Symbol, token.CmpNe, token.Symbol, token.CmpEq,
		token.Symbol, token.EOF,
	}, types(toks))
}

func TestBoolLiterals(t *testing.T) {
	toks := allTokens(`true false`)
	require.Equal(t, token.BoolLit, toks[0].Type)
	require.True(t, toks[0].BoolVal)
	require.Equal(t, token.BoolLit, toks[1].Type)
	require.False(t, toks[1].BoolVal)
}

func TestStringLiteral(t *testing.T) {
	toks := allTokens(`"hello"`)
	require.Equal(t, token.StringLit, toks[0].Type)
	require.Equal(t, "hello", toks[0].StringVal)
}

func TestCommentsAreSkipped(t *testing.T) {
	toks := allTokens("def x = 1; # trailing comment\ndef y = 2;")
	require.Equal(t, []token.Type{
		token.Def, token.Symbol, token.SingleAssign, token.I64Lit, token.Semicolon,
		token.Def, token.Symbol, token.SingleAssign, token.I64Lit, token.Semicolon, token.EOF,
	}, types(toks))
}

func TestEmptyInputYieldsImmediateEOF(t *testing.T) {
	toks := allTokens("")
	require.Equal(t, []token.Type{token.EOF}, types(toks))
}

func TestIllegalCharacter(t *testing.T) {
	toks := allTokens("@")
	require.Equal(t, token.Illegal, toks[0].Type)
}

func TestSpanCoversTokenText(t *testing.T) {
	toks := allTokens("abc")
	require.Equal(t, token.Span{Begin: 0, End: 3}, toks[0].Span)
}
