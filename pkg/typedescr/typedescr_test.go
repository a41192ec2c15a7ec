package typedescr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuiltinsAreDistinctAndStable(t *testing.T) {
	tbl := NewTable()

	require.True(t, tbl.Bool().Equal(tbl.Bool()))
	require.False(t, tbl.Bool().Equal(tbl.I64()))
	require.False(t, tbl.I64().Equal(tbl.F64()))
	require.False(t, tbl.F64().Equal(tbl.StringType()))
}

func TestFunctionInterning(t *testing.T) {
	tbl := NewTable()

	sig1 := tbl.Function([]*TypeDescr{tbl.F64(), tbl.F64()}, tbl.F64())
	sig2 := tbl.Function([]*TypeDescr{tbl.F64(), tbl.F64()}, tbl.F64())
	sig3 := tbl.Function([]*TypeDescr{tbl.I64()}, tbl.F64())

	require.True(t, sig1.Equal(sig2))
	require.False(t, sig1.Equal(sig3))
	require.True(t, sig1.IsFunction())
	require.Equal(t, "(f64, f64) -> f64", sig1.String())
}

func TestUserDescriptorsDistinctByName(t *testing.T) {
	tbl := NewTable()

	p := tbl.InternUser("Point")
	q := tbl.InternUser("Point")
	r := tbl.InternUser("Quaternion")

	require.True(t, p.Equal(q))
	require.False(t, p.Equal(r))
}

func TestArgTypesPanicsOnNonFunction(t *testing.T) {
	tbl := NewTable()
	require.Panics(t, func() { tbl.I64().ArgTypes() })
}
