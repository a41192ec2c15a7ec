package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrecedenceOrdering(t *testing.T) {
	require.Less(t, Assign.Precedence(), CmpEq.Precedence())
	require.Less(t, CmpEq.Precedence(), Plus.Precedence())
	require.Less(t, Plus.Precedence(), Star.Precedence())
}

func TestPrecedencePanicsOnNonBinop(t *testing.T) {
	require.Panics(t, func() { Lambda.Precedence() })
}

func TestIsBinop(t *testing.T) {
	require.True(t, Plus.IsBinop())
	require.True(t, CmpNe.IsBinop())
	require.False(t, Lambda.IsBinop())
	require.False(t, Semicolon.IsBinop())
}

func TestStringNames(t *testing.T) {
	require.Equal(t, "def", Def.String())
	require.Equal(t, ":=", Assign.String())
	require.Equal(t, "UNKNOWN", Type(9999).String())
}
