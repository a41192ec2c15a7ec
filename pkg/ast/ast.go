// Package ast defines schematika's expression tree (§3.4, §4.2): the
// handful of node kinds a parsed program is built from, and the uniform
// operations every kind supports (type, free variables, traversal,
// environment attachment). Expressions live in the GC heap and survive
// parsing (§9 Design Notes), so every node also satisfies gcheap.Object.
package ast

import (
	"github.com/rconybea/schematika/pkg/gcheap"
	"github.com/rconybea/schematika/pkg/symtab"
	"github.com/rconybea/schematika/pkg/typedescr"
	"github.com/rconybea/schematika/pkg/usym"
)

// Value is the runtime value an expression evaluates to. It is declared
// here, not in pkg/value, so ast has no dependency on the concrete value
// kinds (Bool, I64, Closure, ...); pkg/value imports ast instead and its
// kinds satisfy this interface structurally.
type Value interface {
	gcheap.Object
	TypeOf() *typedescr.TypeDescr
}

// Expression is the interface every AST node satisfies.
type Expression interface {
	gcheap.Object

	// ExprKind names the concrete variant, for dispatch and diagnostics.
	ExprKind() string

	// ValueType is the current best-known type; nil during construction
	// until inference fills it in. Per the type-check monotonicity
	// invariant (§8), once non-nil it never changes.
	ValueType() *typedescr.TypeDescr

	// FreeVariables returns the set of symbols this node references that
	// are not bound within it. Computed lazily on first call and cached;
	// callers must not mutate the returned map.
	FreeVariables() map[usym.USym]struct{}

	// VisitPreorder calls f on this node, then descends into children.
	VisitPreorder(f func(Expression))
	// VisitLayer calls f once per immediate child, without descending.
	VisitLayer(f func(Expression))
	// TransformLayer rebuilds this node with every immediate child e
	// replaced by f(e); may return a different concrete type.
	TransformLayer(f func(Expression) Expression) Expression

	// AttachEnvs links every VarRef beneath this node (inclusive) to its
	// resolved VarDef within scope, and returns the first unbound-variable
	// error encountered, if any. Called once, post-parse.
	AttachEnvs(scope symtab.SymTab) error
}

// exprBase holds the fields every variant carries: the inferred type and
// the free-variable cache. Embedded by every concrete node.
type exprBase struct {
	valueType *typedescr.TypeDescr
	freeVars  map[usym.USym]struct{}
}

func (b *exprBase) ValueType() *typedescr.TypeDescr { return b.valueType }

// setValueTypeOnce enforces the monotonicity invariant: a non-nil
// valueType is never overwritten.
func (b *exprBase) setValueTypeOnce(t *typedescr.TypeDescr) {
	if b.valueType == nil {
		b.valueType = t
	}
}

func union(sets ...map[usym.USym]struct{}) map[usym.USym]struct{} {
	out := make(map[usym.USym]struct{})
	for _, s := range sets {
		for k := range s {
			out[k] = struct{}{}
		}
	}
	return out
}

func without(s map[usym.USym]struct{}, names ...usym.USym) map[usym.USym]struct{} {
	out := make(map[usym.USym]struct{}, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	for _, n := range names {
		delete(out, n)
	}
	return out
}

// UnboundVariableError reports a symbol with no reachable binding (§7).
type UnboundVariableError struct {
	Name usym.USym
}

func (e *UnboundVariableError) Error() string {
	return "unbound variable: " + e.Name.Name()
}

// TypeMismatchError reports a type conflict detected at parse/attach time
// (§7 type error): mismatched IfElse branches, or an Apply whose fn is
// not function-typed.
type TypeMismatchError struct {
	Context string
	Want    *typedescr.TypeDescr
	Got     *typedescr.TypeDescr
}

func (e *TypeMismatchError) Error() string {
	want, got := "<unknown>", "<unknown>"
	if e.Want != nil {
		want = e.Want.String()
	}
	if e.Got != nil {
		got = e.Got.String()
	}
	return e.Context + ": expected " + want + ", got " + got
}
