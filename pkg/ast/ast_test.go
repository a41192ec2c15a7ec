package ast

import (
	"testing"

	"github.com/rconybea/schematika/pkg/gcheap"
	"github.com/rconybea/schematika/pkg/symtab"
	"github.com/rconybea/schematika/pkg/typedescr"
	"github.com/rconybea/schematika/pkg/usym"
	"github.com/stretchr/testify/require"
)

// testValue is a minimal ast.Value stand-in so these tests don't need
// pkg/value (which imports ast).
type testValue struct {
	t *typedescr.TypeDescr
}

func (v *testValue) TypeOf() *typedescr.TypeDescr    { return v.t }
func (v *testValue) ShallowSize() int                { return 8 }
func (v *testValue) ShallowCopy() gcheap.Object       { cp := *v; return &cp }
func (v *testValue) ForwardChildren(*gcheap.Collector) int { return v.ShallowSize() }

func TestConstantTypeIsImmediatelyKnown(t *testing.T) {
	types := typedescr.NewTable()
	c := NewConstant(&testValue{t: types.F64()})
	require.True(t, c.ValueType().Equal(types.F64()))
}

func TestVarRefAttachEnvsResolvesBinding(t *testing.T) {
	syms := usym.NewTable()
	types := typedescr.NewTable()
	global := symtab.NewGlobalSymTab()

	xName := syms.Intern("x")
	xDef := NewVarDef(xName, types.I64())
	global.Upsert(xDef)

	ref := NewVarRef(xName)
	require.NoError(t, ref.AttachEnvs(global))
	require.Same(t, xDef, ref.Target)
	require.Equal(t, 0, ref.LinkDepth)
	require.True(t, ref.ValueType().Equal(types.I64()))
}

func TestVarRefAttachEnvsUnbound(t *testing.T) {
	syms := usym.NewTable()
	global := symtab.NewGlobalSymTab()

	ref := NewVarRef(syms.Intern("nope"))
	err := ref.AttachEnvs(global)
	require.Error(t, err)
	var unbound *UnboundVariableError
	require.ErrorAs(t, err, &unbound)
}

func TestDefineAssignRHSPropagatesTypeOnlyIfUnset(t *testing.T) {
	syms := usym.NewTable()
	types := typedescr.NewTable()

	lhs := NewVarDef(syms.Intern("pi"), nil)
	rhs := NewConstant(&testValue{t: types.F64()})
	def := NewDefine(lhs, rhs)

	require.True(t, lhs.ValueType().Equal(types.F64()))
	require.True(t, def.ValueType().Equal(types.F64()))

	// Re-assigning rhs with a different type must not move an already-set
	// lhs type (monotonicity, §8).
	otherRhs := NewConstant(&testValue{t: types.I64()})
	def.AssignRHS(otherRhs)
	require.True(t, lhs.ValueType().Equal(types.F64()))
}

func TestIfElseBranchTypeMismatchRejected(t *testing.T) {
	types := typedescr.NewTable()
	test := NewConstant(&testValue{t: types.Bool()})
	whenTrue := NewConstant(&testValue{t: types.F64()})
	whenFalse := NewConstant(&testValue{t: types.I64()})

	_, err := NewIfElse(test, whenTrue, whenFalse)
	require.Error(t, err)
	var mismatch *TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestIfElseWithoutElseHasNilType(t *testing.T) {
	types := typedescr.NewTable()
	test := NewConstant(&testValue{t: types.Bool()})
	whenTrue := NewConstant(&testValue{t: types.F64()})

	ie, err := NewIfElse(test, whenTrue, nil)
	require.NoError(t, err)
	require.Nil(t, ie.ValueType())
}

func TestApplyAttachEnvsRejectsNonFunctionTarget(t *testing.T) {
	syms := usym.NewTable()
	types := typedescr.NewTable()
	global := symtab.NewGlobalSymTab()

	notAFn := NewVarDef(syms.Intern("n"), types.I64())
	global.Upsert(notAFn)

	apply := NewApply(NewVarRef(syms.Intern("n")), nil)
	err := apply.AttachEnvs(global)
	require.Error(t, err)
}

func TestLambdaFreeVariablesExcludesParams(t *testing.T) {
	syms := usym.NewTable()
	types := typedescr.NewTable()
	global := symtab.NewGlobalSymTab()

	y := syms.Intern("y")
	yDef := NewVarDef(y, types.I64())
	global.Upsert(yDef)

	x := syms.Intern("x")
	scope := symtab.NewLocalSymTab(global)
	xParam := NewVarDef(x, types.I64())
	scope.Upsert(xParam)

	body := NewApply(NewPrimitive(&testValue{t: types.Function([]*typedescr.TypeDescr{types.I64(), types.I64()}, types.I64())}),
		[]Expression{NewVarRef(x), NewVarRef(y)})

	lambda := NewLambda([]*VarDef{xParam}, body, scope, types)
	free := lambda.FreeVariables()

	_, hasX := free[x]
	_, hasY := free[y]
	require.False(t, hasX)
	require.True(t, hasY)
}

func TestLambdaAttachEnvsResolvesBodyAgainstOwnScope(t *testing.T) {
	syms := usym.NewTable()
	types := typedescr.NewTable()
	global := symtab.NewGlobalSymTab()

	x := syms.Intern("x")
	scope := symtab.NewLocalSymTab(global)
	xParam := NewVarDef(x, types.F64())
	scope.Upsert(xParam)

	body := NewVarRef(x)
	lambda := NewLambda([]*VarDef{xParam}, body, scope, types)

	require.NoError(t, lambda.AttachEnvs(global))
	require.Same(t, xParam, body.Target)
	require.True(t, lambda.ValueType().IsFunction())
}

func TestSequenceTypeIsLastElement(t *testing.T) {
	types := typedescr.NewTable()
	seq := NewSequence([]Expression{
		NewConstant(&testValue{t: types.I64()}),
		NewConstant(&testValue{t: types.F64()}),
	})
	require.True(t, seq.ValueType().Equal(types.F64()))
}

func TestVisitPreorderVisitsEveryNode(t *testing.T) {
	types := typedescr.NewTable()
	seq := NewSequence([]Expression{
		NewConstant(&testValue{t: types.I64()}),
		NewConstant(&testValue{t: types.F64()}),
	})

	var kinds []string
	seq.VisitPreorder(func(e Expression) { kinds = append(kinds, e.ExprKind()) })
	require.Equal(t, []string{"Sequence", "Constant", "Constant"}, kinds)
}

func TestApplyForwardChildrenRewritesViaCollector(t *testing.T) {
	types := typedescr.NewTable()
	arg := NewConstant(&testValue{t: types.I64()})
	fn := NewPrimitive(&testValue{t: types.Function([]*typedescr.TypeDescr{types.I64()}, types.I64())})
	apply := NewApply(fn, []Expression{arg})

	gc := gcheap.NewCollector()
	var root gcheap.Object = apply
	stats := gc.Collect([]*gcheap.Object{&root})

	require.GreaterOrEqual(t, stats.ObjectsCopied, 3)
	copied := root.(*Apply)
	require.Equal(t, "Apply", copied.ExprKind())
	require.Equal(t, "Constant", copied.Args[0].ExprKind())
}
