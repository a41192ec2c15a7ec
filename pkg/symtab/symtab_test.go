package symtab

import (
	"testing"

	"github.com/rconybea/schematika/pkg/usym"
	"github.com/stretchr/testify/require"
)

// stubDef is a minimal SymbolDef for exercising the table without
// depending on ast.VarDef.
type stubDef struct {
	name usym.USym
	slot int
}

func (d *stubDef) SymbolName() usym.USym { return d.name }
func (d *stubDef) SetSlot(slot int)      { d.slot = slot }

func TestUpsertAssignsIncreasingSlots(t *testing.T) {
	syms := usym.NewTable()
	g := NewGlobalSymTab()

	a := &stubDef{name: syms.Intern("a")}
	b := &stubDef{name: syms.Intern("b")}

	require.Equal(t, 0, g.Upsert(a))
	require.Equal(t, 1, g.Upsert(b))
	require.Equal(t, 0, a.slot)
	require.Equal(t, 1, b.slot)
}

func TestUpsertIsIdempotentByName(t *testing.T) {
	syms := usym.NewTable()
	g := NewGlobalSymTab()
	x := syms.Intern("x")

	first := g.Upsert(&stubDef{name: x})
	second := g.Upsert(&stubDef{name: x})

	require.Equal(t, first, second)
	require.Equal(t, 1, g.Len())
}

func TestResolveFindsLocalBeforeParent(t *testing.T) {
	syms := usym.NewTable()
	g := NewGlobalSymTab()
	gx := syms.Intern("x")
	g.Upsert(&stubDef{name: gx})

	local := NewLocalSymTab(g)
	lx := syms.Intern("x")
	localDef := &stubDef{name: lx}
	local.Upsert(localDef)

	binding, def, ok := Resolve(local, syms.Intern("x"))
	require.True(t, ok)
	require.Equal(t, Binding{ILink: 0, Slot: 0}, binding)
	require.Same(t, localDef, def)
}

func TestResolveClimbsToParent(t *testing.T) {
	syms := usym.NewTable()
	g := NewGlobalSymTab()
	pi := syms.Intern("pi")
	piDef := &stubDef{name: pi}
	g.Upsert(piDef)

	inner := NewLocalSymTab(g)
	middle := NewLocalSymTab(inner)

	binding, def, ok := Resolve(middle, pi)
	require.True(t, ok)
	require.Equal(t, Binding{ILink: 2, Slot: 0}, binding)
	require.Same(t, piDef, def)
}

func TestResolveUnbound(t *testing.T) {
	syms := usym.NewTable()
	g := NewGlobalSymTab()
	local := NewLocalSymTab(g)

	_, _, ok := Resolve(local, syms.Intern("nope"))
	require.False(t, ok)
}

func TestParentOfGlobalIsNil(t *testing.T) {
	g := NewGlobalSymTab()
	require.Nil(t, g.Parent())
}
