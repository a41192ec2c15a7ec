package value

import (
	"errors"
	"testing"

	"github.com/rconybea/schematika/pkg/ast"
	"github.com/rconybea/schematika/pkg/gcheap"
	"github.com/rconybea/schematika/pkg/typedescr"
	"github.com/stretchr/testify/require"
)

func TestScalarTypeOf(t *testing.T) {
	types := typedescr.NewTable()
	require.True(t, NewBool(types, true).TypeOf().Equal(types.Bool()))
	require.True(t, NewI64(types, 3).TypeOf().Equal(types.I64()))
	require.True(t, NewF64(types, 3.5).TypeOf().Equal(types.F64()))
	require.True(t, NewString(types, "hi").TypeOf().Equal(types.StringType()))
}

func TestStringShallowSizeGrowsWithLength(t *testing.T) {
	types := typedescr.NewTable()
	short := NewString(types, "hi")
	long := NewString(types, "hello world")
	require.Less(t, short.ShallowSize(), long.ShallowSize())
}

func TestArraySetGet(t *testing.T) {
	types := typedescr.NewTable()
	a := NewArray(3)
	a.Set(0, NewI64(types, 1))
	a.Set(1, NewI64(types, 2))
	require.Equal(t, int64(1), a.Get(0).(*I64).V)
	require.Equal(t, int64(2), a.Get(1).(*I64).V)
	require.Nil(t, a.Get(2))
}

func TestLocalEnvLookupAssignWalksParents(t *testing.T) {
	types := typedescr.NewTable()
	root := NewLocalEnv(nil, 1)
	root.Assign(0, 0, NewI64(types, 10))

	child := NewLocalEnv(root, 2)
	child.Assign(0, 0, NewI64(types, 20))

	require.Equal(t, int64(20), child.Lookup(0, 0).(*I64).V)
	require.Equal(t, int64(10), child.Lookup(1, 0).(*I64).V)

	child.Assign(1, 0, NewI64(types, 99))
	require.Equal(t, int64(99), root.Lookup(0, 0).(*I64).V)
}

func TestPrimitiveCall(t *testing.T) {
	types := typedescr.NewTable()
	sig := types.Function([]*typedescr.TypeDescr{types.I64(), types.I64()}, types.I64())
	add := NewPrimitive(sig, "+", func(args []ast.Value) (ast.Value, error) {
		return NewI64(types, args[0].(*I64).V+args[1].(*I64).V), nil
	})

	result, err := add.Call([]ast.Value{NewI64(types, 2), NewI64(types, 3)})
	require.NoError(t, err)
	require.Equal(t, int64(5), result.(*I64).V)
}

func TestPrimitivePropagatesError(t *testing.T) {
	types := typedescr.NewTable()
	sig := types.Function([]*typedescr.TypeDescr{types.I64(), types.I64()}, types.I64())
	boom := errors.New("boom")
	failing := NewPrimitive(sig, "fail", func(args []ast.Value) (ast.Value, error) {
		return nil, boom
	})

	_, err := failing.Call(nil)
	require.ErrorIs(t, err, boom)
}

func TestClosureForwardsBodyAndEnv(t *testing.T) {
	types := typedescr.NewTable()
	env := NewLocalEnv(nil, 1)
	env.Assign(0, 0, NewI64(types, 7))
	body := ast.NewConstant(NewI64(types, 7))
	sig := types.Function(nil, types.I64())
	closure := NewClosure(sig, body, nil, env)

	gc := gcheap.NewCollector()
	var root gcheap.Object = closure
	gc.Collect([]*gcheap.Object{&root})

	copied := root.(*Closure)
	require.NotSame(t, env, copied.Env)
	require.Equal(t, int64(7), copied.Env.Lookup(0, 0).(*I64).V)
}
