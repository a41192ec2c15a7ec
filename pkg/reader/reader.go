// Package reader implements schematika's incremental parser (§4.3): a
// stack of syntax state machines (SSMs), each responsible for one
// grammatical construct, driven token-by-token from an external
// tokenizer (pkg/lexer). This is the hardest subsystem per §1 — state
// survives across partial input, and nested constructs push/pop their own
// sub-parser rather than recursing through Go's call stack, so the whole
// parse can suspend between tokens.
package reader

import (
	"fmt"

	"github.com/rconybea/schematika/pkg/ast"
	"github.com/rconybea/schematika/pkg/gcheap"
	"github.com/rconybea/schematika/pkg/primitive"
	"github.com/rconybea/schematika/pkg/symtab"
	"github.com/rconybea/schematika/pkg/token"
	"github.com/rconybea/schematika/pkg/typedescr"
	"github.com/rconybea/schematika/pkg/usym"
)

// SyntaxError reports a token illegal in the current SSM's state (§4.3.11,
// §7 Syntax error). Unbound-variable and type errors surface as their own
// concrete error types from pkg/ast but travel through the same channel.
type SyntaxError struct {
	SSM      string
	Expected string
	Got      token.Token
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error in %s: expected %s, got %s", e.SSM, e.Expected, e.Got.Type)
}

// ReaderResult is what read_expr hands back: exactly one of Expr (a
// completed top-level expression), None (more input needed), or Err.
type ReaderResult struct {
	Expr ast.Expression
	None bool
	Err  error
}

// ssm is the interface every syntax state machine satisfies: receive one
// token, mutate internal state, and possibly push a nested ssm or pop
// (reported to the Reader via the on* callback methods below, which the
// Reader invokes on the new top-of-stack ssm after a pop).
type ssm interface {
	onToken(r *Reader, tok token.Token) error
}

type symbolReceiver interface {
	onParsedSymbol(r *Reader, sym usym.USym) error
}

type typedescrReceiver interface {
	onParsedTypedescr(r *Reader, td *typedescr.TypeDescr) error
}

type formalReceiver interface {
	onParsedFormal(r *Reader, def *ast.VarDef) error
}

// formalWithTokenReceiver pairs a parsed formal with whatever token
// terminated it (','  or ')'): expectFormalArgSsm, unlike the plain
// symbol/type parsers, can only discover a formal is complete once it sees
// the separator that follows it, so it must deliver that token alongside
// the formal — the same reason ExpectExprSsm's channel comes in a
// with-token flavour.
type formalWithTokenReceiver interface {
	onParsedFormalWithToken(r *Reader, def *ast.VarDef, tok token.Token) error
}

type formalArglistReceiver interface {
	onParsedFormalArglist(r *Reader, params []*ast.VarDef) error
}

type exprReceiver interface {
	onParsedExpression(r *Reader, e ast.Expression) error
	onParsedExpressionWithToken(r *Reader, e ast.Expression, tok token.Token) error
}

// frame is one entry on the parser stack: the ssm itself plus the arena
// checkpoint taken just before it was pushed (§4.3.11).
type frame struct {
	ssm  ssm
	mark gcheap.Mark
}

// Mode selects what ToplevelSeqSsm accepts (§4.3.1).
type Mode int

const (
	Interactive Mode = iota
	Batch
)

// Reader is the parser: its stack of SSMs plus the shared language state
// (symbol/type tables, primitives) every SSM needs to build expressions.
type Reader struct {
	arena  *gcheap.Arena
	frames []frame

	Syms   *usym.Table
	Types  *typedescr.Table
	Global *symtab.GlobalSymTab
	Prims  *primitive.Library

	result ReaderResult
	err    error
}

// New creates a reader sharing the given language state. Call
// BeginInteractiveSession or BeginBatchSession before ReadExpr.
func New(syms *usym.Table, types *typedescr.Table, global *symtab.GlobalSymTab, prims *primitive.Library) *Reader {
	return &Reader{
		arena:  gcheap.NewArena(),
		Syms:   syms,
		Types:  types,
		Global: global,
		Prims:  prims,
	}
}

// BeginInteractiveSession installs a ToplevelSeqSsm accepting any
// expression (§4.3.1).
func (r *Reader) BeginInteractiveSession() {
	r.resetStack()
	r.push(&toplevelSeqSsm{mode: Interactive})
}

// BeginBatchSession installs a ToplevelSeqSsm accepting only `def` forms
// at top level; the reader has no separate declaration or type-declaration
// syntax.
func (r *Reader) BeginBatchSession() {
	r.resetStack()
	r.push(&toplevelSeqSsm{mode: Batch})
}

func (r *Reader) resetStack() {
	r.frames = nil
	r.arena = gcheap.NewArena()
	r.result = ReaderResult{}
	r.err = nil
}

// ResetToIdleToplevel discards all parser state back to a fresh top-level
// SSM in the same mode, per §4.3.11. Idempotent (§8 round-trip property).
func (r *Reader) ResetToIdleToplevel() {
	mode := Interactive
	if len(r.frames) > 0 {
		if tl, ok := r.frames[0].ssm.(*toplevelSeqSsm); ok {
			mode = tl.mode
		}
	}
	if mode == Batch {
		r.BeginBatchSession()
	} else {
		r.BeginInteractiveSession()
	}
}

// ReadExpr feeds one token into the parser. eof, when true, signals no
// more tokens will follow for this input batch (used to accept a
// trailing expression with no terminator at interactive top level, §8
// boundary behaviour).
func (r *Reader) ReadExpr(tok token.Token, eof bool) ReaderResult {
	if r.err != nil {
		// §7: at most one error recorded per batch; drop cascades.
		return ReaderResult{Err: r.err}
	}
	if tok.Type == token.EOF && eof && len(r.frames) == 1 {
		// Idle at top level with nothing left to feed: §8 "empty input
		// produces None, never Error". A trailing expression with no ';'
		// never reaches here — EOF flows through the normal onToken path
		// below like any other terminator and is handled by whichever SSM
		// (ProgressSsm, ToplevelSeqSsm, ...) is waiting for one.
		return ReaderResult{None: true}
	}
	if err := r.top().onToken(r, tok); err != nil {
		r.err = err
		return ReaderResult{Err: err}
	}
	if r.result.Expr != nil || r.result.Err != nil {
		res := r.result
		r.result = ReaderResult{}
		if res.Err != nil {
			r.err = res.Err
		}
		return res
	}
	return ReaderResult{None: true}
}

func (r *Reader) push(s ssm) {
	mark := r.arena.Checkpoint()
	r.frames = append(r.frames, frame{ssm: s, mark: mark})
}

func (r *Reader) pop() ssm {
	n := len(r.frames)
	f := r.frames[n-1]
	r.frames = r.frames[:n-1]
	r.arena.Restore(f.mark)
	return f.ssm
}

func (r *Reader) top() ssm { return r.frames[len(r.frames)-1].ssm }

// scopeHolder is implemented by ssms that introduce a lexical scope other
// constructs can nest inside: lambdaSsm (its formal scope) and sequenceSsm
// (the let-chain of the block's defines accumulated so far).
type scopeHolder interface {
	lexicalScope() symtab.SymTab
}

// enclosingScope reports the lexical scope a construct being parsed right
// now should nest its own scope inside of (§3.5): the nearest lambdaSsm's
// formal scope or sequenceSsm's accumulated let-chain still open below the
// current top of the frame stack, or the global table if none is open —
// i.e. we are parsing at true top level.
func (r *Reader) enclosingScope() symtab.SymTab {
	for i := len(r.frames) - 2; i >= 0; i-- {
		if sh, ok := r.frames[i].ssm.(scopeHolder); ok {
			return sh.lexicalScope()
		}
	}
	return r.Global
}

// publishResult is how ToplevelSeqSsm (the bottom of the stack) hands a
// completed top-level expression back out of ReadExpr.
func (r *Reader) publishResult(e ast.Expression) { r.result = ReaderResult{Expr: e} }

func (r *Reader) fail(err error) error {
	r.err = err
	return err
}

// deliverParsedSymbol pops the current (symbol-parsing) ssm and routes the
// result to the new top via the on_parsed_symbol channel (§4.3.12).
func (r *Reader) deliverParsedSymbol(sym usym.USym) error {
	r.pop()
	recv, ok := r.top().(symbolReceiver)
	if !ok {
		return r.fail(&SyntaxError{SSM: "parser", Expected: "no symbol expected here"})
	}
	return recv.onParsedSymbol(r, sym)
}

func (r *Reader) deliverParsedTypedescr(td *typedescr.TypeDescr) error {
	r.pop()
	recv, ok := r.top().(typedescrReceiver)
	if !ok {
		return r.fail(&SyntaxError{SSM: "parser", Expected: "no type expected here"})
	}
	return recv.onParsedTypedescr(r, td)
}

func (r *Reader) deliverParsedFormal(def *ast.VarDef) error {
	r.pop()
	recv, ok := r.top().(formalReceiver)
	if !ok {
		return r.fail(&SyntaxError{SSM: "parser", Expected: "no formal expected here"})
	}
	return recv.onParsedFormal(r, def)
}

func (r *Reader) deliverParsedFormalWithToken(def *ast.VarDef, tok token.Token) error {
	r.pop()
	recv, ok := r.top().(formalWithTokenReceiver)
	if !ok {
		return r.fail(&SyntaxError{SSM: "parser", Expected: "no formal expected here"})
	}
	return recv.onParsedFormalWithToken(r, def, tok)
}

func (r *Reader) deliverParsedFormalArglist(params []*ast.VarDef) error {
	r.pop()
	recv, ok := r.top().(formalArglistReceiver)
	if !ok {
		return r.fail(&SyntaxError{SSM: "parser", Expected: "no formal-arglist expected here"})
	}
	return recv.onParsedFormalArglist(r, params)
}

func (r *Reader) deliverParsedExpression(e ast.Expression) error {
	r.pop()
	recv, ok := r.top().(exprReceiver)
	if !ok {
		return r.fail(&SyntaxError{SSM: "parser", Expected: "no expression expected here"})
	}
	return recv.onParsedExpression(r, e)
}

func (r *Reader) deliverParsedExpressionWithToken(e ast.Expression, tok token.Token) error {
	r.pop()
	recv, ok := r.top().(exprReceiver)
	if !ok {
		return r.fail(&SyntaxError{SSM: "parser", Expected: "no expression expected here"})
	}
	return recv.onParsedExpressionWithToken(r, e, tok)
}
