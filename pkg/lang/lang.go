// Package lang bundles the process-wide tables a schematika session shares
// between its reader and VM (§9 Design Notes: "make them owned by an
// explicit 'language state' object passed along the call chain rather than
// hidden globals. The parser, VM, and collector all take a reference to
// it."). State exists exactly once per embedding; cmd/schematika's
// interactive and batch sessions each construct one and hand it to both a
// *reader.Reader and a *vm.VM.
package lang

import (
	"github.com/rconybea/schematika/pkg/ast"
	"github.com/rconybea/schematika/pkg/primitive"
	"github.com/rconybea/schematika/pkg/reader"
	"github.com/rconybea/schematika/pkg/symtab"
	"github.com/rconybea/schematika/pkg/token"
	"github.com/rconybea/schematika/pkg/typedescr"
	"github.com/rconybea/schematika/pkg/usym"
	"github.com/rconybea/schematika/pkg/vm"
)

// State holds the tables a schematika session's reader and VM share: the
// interned-symbol table, the type-descriptor table, the global symbol
// table, and the numeric-primitives library. None of these are safe to
// duplicate per-session — a second Table would intern its own, unrelated
// USym/TypeDescr handles, breaking pointer-identity comparisons against
// anything built from the first.
type State struct {
	Syms   *usym.Table
	Types  *typedescr.Table
	Global *symtab.GlobalSymTab
	Prims  *primitive.Library
}

// NewState builds a fresh set of tables for one schematika process.
func NewState() *State {
	types := typedescr.NewTable()
	return &State{
		Syms:   usym.NewTable(),
		Types:  types,
		Global: symtab.NewGlobalSymTab(),
		Prims:  primitive.NewLibrary(types),
	}
}

// Session pairs a reader and a VM over the same State, the shape every
// long-lived schematika session (REPL or batch file) needs: one reader
// accumulating parser state and global definitions across inputs, one VM
// whose global environment grows in step with the reader's global symbol
// table.
type Session struct {
	State  *State
	Reader *reader.Reader
	VM     *vm.VM
}

// NewInteractiveSession builds a Session whose reader accepts any
// expression at top level (§4.3.1), matching begin_interactive_session.
func NewInteractiveSession() *Session {
	st := NewState()
	r := reader.New(st.Syms, st.Types, st.Global, st.Prims)
	r.BeginInteractiveSession()
	return &Session{State: st, Reader: r, VM: vm.New(st.Global)}
}

// NewBatchSession builds a Session whose reader accepts only `def` forms at
// top level (§4.3.1), matching begin_batch_session.
func NewBatchSession() *Session {
	st := NewState()
	r := reader.New(st.Syms, st.Types, st.Global, st.Prims)
	r.BeginBatchSession()
	return &Session{State: st, Reader: r, VM: vm.New(st.Global)}
}

// EvalToken feeds one token into the session's reader. If that token
// completes a top-level expression, the expression is loaded onto the VM
// and run to completion, and its result is returned with done=true. If the
// reader still needs more input, done is false and value/err are both nil.
// A parse error is returned with done=true and a nil value, same as a
// runtime error from the VM — callers branch on err, not on which stage
// produced it.
func (s *Session) EvalToken(tok token.Token, eof bool) (value ast.Value, err error, done bool) {
	res := s.Reader.ReadExpr(tok, eof)
	if res.Err != nil {
		return nil, res.Err, true
	}
	if res.None {
		return nil, nil, false
	}
	s.VM.Load(res.Expr)
	v, err := s.VM.Run()
	return v, err, true
}
