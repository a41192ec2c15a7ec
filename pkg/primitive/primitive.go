// Package primitive implements the uniform native-procedure interface the
// VM invokes arithmetic/comparison operators through (§1 "the numeric
// primitives library... invoked through a uniform procedure interface"),
// and the minimal i64/f64 built-ins ProgressSsm needs to specialize
// `+ - * / == != < <= > >=` (§4.3.7).
package primitive

import (
	"fmt"
	"math"

	"github.com/rconybea/schematika/pkg/ast"
	"github.com/rconybea/schematika/pkg/token"
	"github.com/rconybea/schematika/pkg/typedescr"
	"github.com/rconybea/schematika/pkg/value"
)

// Library holds every concrete (monomorphic) and generic (polymorphic)
// primitive, keyed by operator so the reader can specialize an infix
// operator once operand types are known, or fall back to a generic
// variant when they are not yet (§4.3.7).
type Library struct {
	types    *typedescr.Table
	concrete map[token.Type]map[*typedescr.TypeDescr]*value.Primitive
	generic  map[token.Type]*value.Primitive
}

// NewLibrary builds the standard i64/f64 arithmetic and comparison
// primitives.
func NewLibrary(types *typedescr.Table) *Library {
	lib := &Library{
		types:    types,
		concrete: make(map[token.Type]map[*typedescr.TypeDescr]*value.Primitive),
		generic:  make(map[token.Type]*value.Primitive),
	}
	lib.installArith(token.Plus, "+", func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b })
	lib.installArith(token.Minus, "-", func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
	lib.installArith(token.Star, "*", func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })
	lib.installArith(token.Slash, "/", func(a, b int64) int64 { return a / b }, func(a, b float64) float64 { return a / b })

	lib.installCmp(token.CmpEq, "==", func(a, b int64) bool { return a == b }, func(a, b float64) bool { return a == b })
	lib.installCmp(token.CmpNe, "!=", func(a, b int64) bool { return a != b }, func(a, b float64) bool { return a != b })
	lib.installCmp(token.LeftAngle, "<", func(a, b int64) bool { return a < b }, func(a, b float64) bool { return a < b })
	lib.installCmp(token.LessEqual, "<=", func(a, b int64) bool { return a <= b }, func(a, b float64) bool { return a <= b })
	lib.installCmp(token.RightAngle, ">", func(a, b int64) bool { return a > b }, func(a, b float64) bool { return a > b })
	lib.installCmp(token.GreatEqual, ">=", func(a, b int64) bool { return a >= b }, func(a, b float64) bool { return a >= b })
	return lib
}

func (lib *Library) installArith(op token.Type, name string, i64fn func(a, b int64) int64, f64fn func(a, b float64) float64) {
	i64sig := lib.types.Function([]*typedescr.TypeDescr{lib.types.I64(), lib.types.I64()}, lib.types.I64())
	f64sig := lib.types.Function([]*typedescr.TypeDescr{lib.types.F64(), lib.types.F64()}, lib.types.F64())

	i64prim := value.NewPrimitive(i64sig, name, func(args []ast.Value) (ast.Value, error) {
		a, b, err := unpackI64(name, args)
		if err != nil {
			return nil, err
		}
		if op == token.Slash {
			if b == 0 {
				return nil, fmt.Errorf("primitive %s: division by zero", name)
			}
			if a == math.MinInt64 && b == -1 {
				return nil, fmt.Errorf("primitive %s: integer overflow", name)
			}
		}
		return value.NewI64(lib.types, i64fn(a, b)), nil
	})
	f64prim := value.NewPrimitive(f64sig, name, func(args []ast.Value) (ast.Value, error) {
		a, b, err := unpackF64(name, args)
		if err != nil {
			return nil, err
		}
		if op == token.Slash && b == 0 {
			return nil, fmt.Errorf("primitive %s: division by zero", name)
		}
		return value.NewF64(lib.types, f64fn(a, b)), nil
	})
	lib.install(op, name, i64prim, f64prim)
}

func (lib *Library) installCmp(op token.Type, name string, i64fn func(a, b int64) bool, f64fn func(a, b float64) bool) {
	boolSig := func(t *typedescr.TypeDescr) *typedescr.TypeDescr {
		return lib.types.Function([]*typedescr.TypeDescr{t, t}, lib.types.Bool())
	}

	i64prim := value.NewPrimitive(boolSig(lib.types.I64()), name, func(args []ast.Value) (ast.Value, error) {
		a, b, err := unpackI64(name, args)
		if err != nil {
			return nil, err
		}
		return value.NewBool(lib.types, i64fn(a, b)), nil
	})
	f64prim := value.NewPrimitive(boolSig(lib.types.F64()), name, func(args []ast.Value) (ast.Value, error) {
		a, b, err := unpackF64(name, args)
		if err != nil {
			return nil, err
		}
		return value.NewBool(lib.types, f64fn(a, b)), nil
	})
	lib.install(op, name, i64prim, f64prim)
}

// install registers op's concrete i64/f64 specializations and a generic
// variant that dispatches on its first f64-typed argument, falling back to
// the i64 specialization — shared by installArith and installCmp, which
// differ only in how their signatures and bodies are built.
func (lib *Library) install(op token.Type, name string, i64prim, f64prim *value.Primitive) {
	lib.concrete[op] = map[*typedescr.TypeDescr]*value.Primitive{
		lib.types.I64(): i64prim,
		lib.types.F64(): f64prim,
	}
	lib.generic[op] = value.NewPrimitive(nil, name, func(args []ast.Value) (ast.Value, error) {
		if len(args) == 2 {
			if _, ok := args[0].(*value.F64); ok {
				return f64prim.Call(args)
			}
			if _, ok := args[1].(*value.F64); ok {
				return f64prim.Call(args)
			}
		}
		return i64prim.Call(args)
	})
}

// Resolve picks the primitive for op given one known operand type (nil if
// no operand's type is known yet). If operandType is non-nil, the concrete
// specialization for it is returned, or an error if op has none for that
// type (e.g. `+` on a string). If operandType is nil, the generic
// polymorphic variant is returned, to be specialized later by runtime
// inspection (§4.3.7).
func (lib *Library) Resolve(op token.Type, operandType *typedescr.TypeDescr) (*value.Primitive, error) {
	if operandType != nil {
		if byType, ok := lib.concrete[op]; ok {
			if p, ok := byType[operandType]; ok {
				return p, nil
			}
			return nil, fmt.Errorf("primitive: no %s specialization for type %s", op, operandType)
		}
	}
	if p, ok := lib.generic[op]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("primitive: unknown operator %s", op)
}

func unpackI64(name string, args []ast.Value) (int64, int64, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("primitive %s: expected 2 args, got %d", name, len(args))
	}
	a, ok1 := args[0].(*value.I64)
	b, ok2 := args[1].(*value.I64)
	if !ok1 || !ok2 {
		return 0, 0, fmt.Errorf("primitive %s: expected i64 operands", name)
	}
	return a.V, b.V, nil
}

func unpackF64(name string, args []ast.Value) (float64, float64, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("primitive %s: expected 2 args, got %d", name, len(args))
	}
	a, ok1 := args[0].(*value.F64)
	b, ok2 := args[1].(*value.F64)
	if !ok1 || !ok2 {
		return 0, 0, fmt.Errorf("primitive %s: expected f64 operands", name)
	}
	return a.V, b.V, nil
}
