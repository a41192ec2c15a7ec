package vm

import (
	"github.com/rconybea/schematika/pkg/ast"
	"github.com/rconybea/schematika/pkg/gcheap"
	"github.com/rconybea/schematika/pkg/value"
)

// Every frame variant is itself a GC object: it is pushed onto the stack
// register at the point evaluation of some subexpression must suspend to
// let a child evaluate, and it chains to the frame (or nil) that was on
// top before, via its own Stack field (§3.7, §4.4).

// applyFrame suspends an Apply while its fn and arguments evaluate in
// turn. fn is recorded once Fn finishes evaluating (EvalArgs' first
// entry); Args accumulates one slot per argument as each finishes.
type applyFrame struct {
	Stack   gcheap.Object
	Cont    VsmInstr
	Call    *ast.Apply
	Fn      ast.Value
	Args    *value.Array
	NextArg int
}

func (f *applyFrame) ShallowSize() int { return 48 }

func (f *applyFrame) ShallowCopy() gcheap.Object {
	cp := *f
	return &cp
}

func (f *applyFrame) ForwardChildren(gc *gcheap.Collector) int {
	if f.Stack != nil {
		gc.Forward(&f.Stack)
	}
	if f.Fn != nil {
		var fn gcheap.Object = f.Fn
		gc.Forward(&fn)
		f.Fn = fn.(ast.Value)
	}
	if f.Args != nil {
		var args gcheap.Object = f.Args
		gc.Forward(&args)
		f.Args = args.(*value.Array)
	}
	return f.ShallowSize()
}

// applyClosureFrame suspends the caller while a closure's body evaluates,
// preserving exactly the (stack, cont, local_env) triple §4.4.2 names so
// ApplyCont can restore it once the body's value is ready.
type applyClosureFrame struct {
	Stack    gcheap.Object
	Cont     VsmInstr
	LocalEnv *value.LocalEnv
}

func (f *applyClosureFrame) ShallowSize() int { return 32 }

func (f *applyClosureFrame) ShallowCopy() gcheap.Object {
	cp := *f
	return &cp
}

func (f *applyClosureFrame) ForwardChildren(gc *gcheap.Collector) int {
	if f.Stack != nil {
		gc.Forward(&f.Stack)
	}
	if f.LocalEnv != nil {
		var env gcheap.Object = f.LocalEnv
		gc.Forward(&env)
		f.LocalEnv = env.(*value.LocalEnv)
	}
	return f.ShallowSize()
}

// defContFrame suspends a Define while its rhs evaluates; DefCont stores
// the result into the global environment at Define.Lhs's slot.
type defContFrame struct {
	Stack  gcheap.Object
	Cont   VsmInstr
	Define *ast.Define
}

func (f *defContFrame) ShallowSize() int { return 24 }

func (f *defContFrame) ShallowCopy() gcheap.Object {
	cp := *f
	return &cp
}

func (f *defContFrame) ForwardChildren(gc *gcheap.Collector) int {
	if f.Stack != nil {
		gc.Forward(&f.Stack)
	}
	return f.ShallowSize()
}

// ifElseContFrame suspends an IfElse while its test evaluates; IfElseCont
// picks the branch to evaluate next (or, absent a false branch and a
// false test, resumes immediately with no value).
type ifElseContFrame struct {
	Stack  gcheap.Object
	Cont   VsmInstr
	IfElse *ast.IfElse
}

func (f *ifElseContFrame) ShallowSize() int { return 24 }

func (f *ifElseContFrame) ShallowCopy() gcheap.Object {
	cp := *f
	return &cp
}

func (f *ifElseContFrame) ForwardChildren(gc *gcheap.Collector) int {
	if f.Stack != nil {
		gc.Forward(&f.Stack)
	}
	return f.ShallowSize()
}

// seqContFrame suspends a Sequence between elements; Index names the
// element currently evaluating (0 for the first), which is the one that
// has just finished when SeqCont runs.
type seqContFrame struct {
	Stack gcheap.Object
	Cont  VsmInstr
	Seq   *ast.Sequence
	Index int
}

func (f *seqContFrame) ShallowSize() int { return 32 }

func (f *seqContFrame) ShallowCopy() gcheap.Object {
	cp := *f
	return &cp
}

func (f *seqContFrame) ForwardChildren(gc *gcheap.Collector) int {
	if f.Stack != nil {
		gc.Forward(&f.Stack)
	}
	return f.ShallowSize()
}

// assignContFrame suspends an Assign while its rhs evaluates. Not named in
// §4.4's opcode table, which enumerates Constant/VarRef/Define/IfElse/
// Sequence/Apply/Lambda but is silent on `:=` even though the grammar's
// binop precedence table (§6) and ast.Assign both provide for it; this
// frame fills that gap the same way DefCont fills the symmetric case for
// `def`.
type assignContFrame struct {
	Stack  gcheap.Object
	Cont   VsmInstr
	Assign *ast.Assign
}

func (f *assignContFrame) ShallowSize() int { return 24 }

func (f *assignContFrame) ShallowCopy() gcheap.Object {
	cp := *f
	return &cp
}

func (f *assignContFrame) ForwardChildren(gc *gcheap.Collector) int {
	if f.Stack != nil {
		gc.Forward(&f.Stack)
	}
	return f.ShallowSize()
}
