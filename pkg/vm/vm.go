// Package vm implements schematika's virtual machine (§3.7, §4.4): a
// register-and-frame tree-walking evaluator for the expression AST built by
// pkg/reader. There is no bytecode and no separate compile stage — the VM
// walks ast.Expression nodes directly, suspending into an explicit frame
// chain (rather than Go's own call stack) every time evaluation must wait
// on a child, so the whole machine state fits in a handful of registers
// that a debugger, a GC safe point, or a `step()` call can inspect between
// any two opcodes.
//
// Execution model:
//
//	VsmEval walks the expr register once per node kind (Constant, VarRef,
//	Define, IfElse, Sequence, Apply, Lambda, Assign), each either finishing
//	directly (value <- result; pc <- cont) or pushing a continuation frame
//	and recursing into a child with a fresh cont. The five frame kinds
//	(ApplyFrame, ApplyClosureFrame, DefContFrame, IfElseContFrame,
//	SeqContFrame — plus AssignContFrame, schematika's own addition for `:=`,
//	which §4.4's table is silent on) chain through the stack register the
//	same way a Go call stack would, except each frame is an ordinary GC
//	object the collector can relocate.
//
// Closures close over the local_env that is active when the Lambda node
// evaluates (§4.4.1), the runtime analogue of pkg/reader's LambdaSsm
// parenting a lambda's formal scope on whatever lexical scope encloses it
// (the global table, an enclosing lambda's formals, or a block's let-chain).
// Calling a closure parents its fresh LocalEnv on that captured environment.
package vm

import (
	"fmt"

	"github.com/rconybea/schematika/pkg/ast"
	"github.com/rconybea/schematika/pkg/gcheap"
	"github.com/rconybea/schematika/pkg/symtab"
	"github.com/rconybea/schematika/pkg/value"
)

// VsmInstr names one of the VM's opcodes: either a dispatch state the
// outer loop switches on (Eval, the continuations, Apply) or a sentinel
// (Halt, Sentinel) with no further work. Grounded on
// original_source/xo-interpreter2/include/xo/interpreter2/VsmOpcode.hpp's
// vsm_opcode enum, whose member order this mirrors member-for-member
// (AssignCont is schematika's own addition, appended rather than
// interleaved, to keep the mapping to the original obvious).
type VsmInstr int

const (
	// VsmSentinel flags a defect in the VM itself — reaching it means an
	// invariant the reader or type checker was supposed to guarantee
	// failed to hold (§7 "internal invariant violation").
	VsmSentinel VsmInstr = iota
	VsmHalt
	VsmEval
	VsmApply
	VsmEvalArgs
	VsmDefCont
	VsmApplyCont
	VsmIfElseCont
	VsmSeqCont
	VsmAssignCont
)

func (op VsmInstr) String() string {
	switch op {
	case VsmSentinel:
		return "sentinel"
	case VsmHalt:
		return "halt"
	case VsmEval:
		return "eval"
	case VsmApply:
		return "apply"
	case VsmEvalArgs:
		return "evalargs"
	case VsmDefCont:
		return "def_cont"
	case VsmApplyCont:
		return "apply_cont"
	case VsmIfElseCont:
		return "ifelse_cont"
	case VsmSeqCont:
		return "seq_cont"
	case VsmAssignCont:
		return "assign_cont"
	default:
		return fmt.Sprintf("VsmInstr(%d)", int(op))
	}
}

// VM is schematika's virtual machine: the four mutable registers of §3.7
// (pc, expr, value, cont) plus stack (the topmost continuation frame) and
// local_env (the currently active environment), and the GC machinery and
// call-stack bookkeeping those registers are rooted through.
type VM struct {
	pc       VsmInstr
	expr     ast.Expression
	value    ast.Value
	cont     VsmInstr
	stack    gcheap.Object
	localEnv *value.LocalEnv

	global    *symtab.GlobalSymTab
	globalEnv *value.LocalEnv
	gc        *gcheap.Collector

	callStack []StackFrame
	debugger  *Debugger
	steps     int
}

// New creates a virtual machine sharing global, the symbol table that
// interactive top-level `def`s upsert into; the VM's own global
// environment grows in step with it (§3.6, §4.4.1 DefCont).
func New(global *symtab.GlobalSymTab) *VM {
	return &VM{
		pc:        VsmHalt,
		cont:      VsmHalt,
		global:    global,
		globalEnv: value.NewLocalEnv(nil, global.Len()),
		gc:        gcheap.NewCollector(),
		callStack: make([]StackFrame, 0, 64),
	}
}

// Load installs expr as the next thing to evaluate (§6 "load"): pc <-
// eval, cont <- halt, stack and local_env reset to the top level. Call
// before Run or repeated Step calls.
func (vm *VM) Load(expr ast.Expression) {
	vm.globalEnv.EnsureSize(vm.global.Len())
	vm.expr = expr
	vm.value = nil
	vm.stack = nil
	vm.localEnv = vm.globalEnv
	vm.cont = VsmHalt
	vm.pc = VsmEval
}

// Value returns the last value the machine settled on (meaningful once
// Run or repeated Step calls reach Halt).
func (vm *VM) Value() ast.Value { return vm.value }

// Run executes instructions until pc reaches Halt, honoring an attached
// debugger's breakpoints and step mode, and returns the final value (or
// an error if evaluation halted on a runtime failure). Internal
// invariant violations surface as a panic rather than an error return,
// per §7 — they indicate a defect the reader/type-checker was supposed
// to rule out, not a recoverable program error.
func (vm *VM) Run() (ast.Value, error) {
	for vm.pc != VsmHalt {
		if vm.debugger != nil && vm.debugger.ShouldPause() {
			if !vm.debugger.InteractivePrompt() {
				return nil, &RuntimeError{Message: "execution aborted from debugger", StackTrace: vm.captureStackTrace()}
			}
		}
		vm.Step()
	}
	if rerr, ok := vm.value.(*value.RuntimeErrorValue); ok {
		return nil, &RuntimeError{Message: rerr.Message, StackTrace: vm.captureStackTrace()}
	}
	return vm.value, nil
}

// Step executes exactly one opcode and reports whether pc is now Halt
// (§6 "step"). Every frame push inside Step is a GC safe point (§4.4.4):
// the roots (stack, local_env, expr, value) are always self-consistent
// at that boundary, so a Collect call between any two Step calls is
// sound.
func (vm *VM) Step() bool {
	vm.steps++
	switch vm.pc {
	case VsmHalt:
		return true
	case VsmEval:
		vm.doEval()
	case VsmApply:
		vm.doApply()
	case VsmEvalArgs:
		vm.doEvalArgs()
	case VsmDefCont:
		vm.doDefCont()
	case VsmApplyCont:
		vm.doApplyCont()
	case VsmIfElseCont:
		vm.doIfElseCont()
	case VsmSeqCont:
		vm.doSeqCont()
	case VsmAssignCont:
		vm.doAssignCont()
	default:
		panic(fmt.Sprintf("vm: internal invariant violation: unreachable opcode %s", vm.pc))
	}
	return vm.pc == VsmHalt
}

// halt stops the machine immediately with an ordinary runtime-error value
// in the value register (§7 "the VM signals errors by halting with value
// holding an error object"), as opposed to a panic, which is reserved for
// invariant violations the reader should already have ruled out.
func (vm *VM) halt(message string) {
	vm.value = &value.RuntimeErrorValue{Message: message}
	vm.pc = VsmHalt
}

// Roots exposes the VM's four GC roots for a caller-driven Collect pass
// (§4.4.4). Not called automatically — schematika leaves collection
// scheduling to its caller, same as the reader's arena checkpoints are
// caller-driven rather than occurring on a timer.
func (vm *VM) Roots() []*gcheap.Object {
	roots := make([]*gcheap.Object, 0, 4)
	if vm.stack != nil {
		roots = append(roots, &vm.stack)
	}
	if vm.localEnv != nil {
		var env gcheap.Object = vm.localEnv
		roots = append(roots, &env)
	}
	if vm.expr != nil {
		var e gcheap.Object = vm.expr
		roots = append(roots, &e)
	}
	if vm.value != nil {
		var v gcheap.Object = vm.value
		roots = append(roots, &v)
	}
	return roots
}

// Collect runs a collection pass over the VM's own roots and writes the
// (possibly relocated) results back into the register set.
func (vm *VM) Collect() gcheap.CollectStats {
	var stackRoot, envRoot, exprRoot, valueRoot gcheap.Object
	if vm.stack != nil {
		stackRoot = vm.stack
	}
	if vm.localEnv != nil {
		envRoot = vm.localEnv
	}
	if vm.expr != nil {
		exprRoot = vm.expr
	}
	if vm.value != nil {
		valueRoot = vm.value
	}
	stats := vm.gc.Collect([]*gcheap.Object{&stackRoot, &envRoot, &exprRoot, &valueRoot})
	if stackRoot != nil {
		vm.stack = stackRoot
	} else {
		vm.stack = nil
	}
	if envRoot != nil {
		vm.localEnv = envRoot.(*value.LocalEnv)
	} else {
		vm.localEnv = nil
	}
	if exprRoot != nil {
		vm.expr = exprRoot.(ast.Expression)
	}
	if valueRoot != nil {
		vm.value = valueRoot.(ast.Value)
	}
	return stats
}

// EnableDebugger attaches and activates a debugger on this VM.
func (vm *VM) EnableDebugger() *Debugger {
	vm.debugger = NewDebugger(vm)
	vm.debugger.Enable()
	return vm.debugger
}

// GetDebugger returns the attached debugger, or nil if none was enabled.
func (vm *VM) GetDebugger() *Debugger { return vm.debugger }

// doEval implements the per-kind eval rules of §4.4.1.
func (vm *VM) doEval() {
	switch e := vm.expr.(type) {
	case *ast.Constant:
		vm.value = e.Value
		vm.pc = vm.cont

	case *ast.Primitive:
		vm.value = e.Proc
		vm.pc = vm.cont

	case *ast.VarRef:
		vm.value = vm.localEnv.Lookup(e.LinkDepth, e.Target.Slot())
		vm.pc = vm.cont

	case *ast.Lambda:
		closure := value.NewClosure(e.ValueType(), e.Body, e.Params, vm.localEnv)
		vm.gc.Alloc(closure)
		vm.value = closure
		vm.pc = vm.cont

	case *ast.Define:
		frame := &defContFrame{Stack: vm.stack, Cont: vm.cont, Define: e}
		vm.gc.Alloc(frame)
		vm.pushFrame("define", frame)
		vm.stack = frame
		vm.expr = e.Rhs
		vm.cont = VsmDefCont
		vm.pc = VsmEval

	case *ast.IfElse:
		frame := &ifElseContFrame{Stack: vm.stack, Cont: vm.cont, IfElse: e}
		vm.gc.Alloc(frame)
		vm.pushFrame("if/else", frame)
		vm.stack = frame
		vm.expr = e.Test
		vm.cont = VsmIfElseCont
		vm.pc = VsmEval

	case *ast.Sequence:
		if len(e.Exprs) == 0 {
			vm.value = nil
			vm.pc = vm.cont
			return
		}
		frame := &seqContFrame{Stack: vm.stack, Cont: vm.cont, Seq: e, Index: 0}
		vm.gc.Alloc(frame)
		vm.pushFrame("sequence", frame)
		vm.stack = frame
		vm.expr = e.Exprs[0]
		vm.cont = VsmSeqCont
		vm.pc = VsmEval

	case *ast.Apply:
		frame := &applyFrame{Stack: vm.stack, Cont: vm.cont, Call: e, Args: value.NewArray(len(e.Args))}
		vm.gc.Alloc(frame)
		vm.pushFrame("apply", frame)
		vm.stack = frame
		vm.expr = e.Fn
		vm.cont = VsmEvalArgs
		vm.pc = VsmEval

	case *ast.Assign:
		frame := &assignContFrame{Stack: vm.stack, Cont: vm.cont, Assign: e}
		vm.gc.Alloc(frame)
		vm.pushFrame("assign", frame)
		vm.stack = frame
		vm.expr = e.Rhs
		vm.cont = VsmAssignCont
		vm.pc = VsmEval

	default:
		panic(fmt.Sprintf("vm: internal invariant violation: unreachable expression kind %T", e))
	}
}

// doEvalArgs is reached once after Apply.Fn finishes evaluating (value
// register holds the callee) and again after each argument finishes; it
// drives the ApplyFrame through Apply.Args left to right before
// transitioning to VsmApply.
func (vm *VM) doEvalArgs() {
	frame := vm.stack.(*applyFrame)
	if frame.Fn == nil {
		frame.Fn = vm.value
	} else {
		frame.Args.Set(frame.NextArg, vm.value)
		frame.NextArg++
	}
	if frame.NextArg < len(frame.Call.Args) {
		vm.expr = frame.Call.Args[frame.NextArg]
		vm.cont = VsmEvalArgs
		vm.pc = VsmEval
		return
	}
	vm.pc = VsmApply
}

// doApply dispatches the callee recorded in the top ApplyFrame: a
// Primitive runs natively and returns immediately (§4.4.3); a Closure
// allocates a fresh LocalEnv and suspends into its body (§4.4.2).
func (vm *VM) doApply() {
	frame := vm.stack.(*applyFrame)
	switch fn := frame.Fn.(type) {
	case *value.Primitive:
		result, err := fn.Call(frame.Args.Elems)
		vm.popFrame()
		vm.stack = frame.Stack
		vm.cont = frame.Cont
		if err != nil {
			vm.halt(err.Error())
			return
		}
		vm.value = result
		vm.pc = vm.cont

	case *value.Closure:
		env := value.NewLocalEnv(fn.Env, len(fn.Params))
		for i := 0; i < frame.Args.Len(); i++ {
			env.Assign(0, i, frame.Args.Get(i))
		}
		vm.gc.Alloc(env)
		acf := &applyClosureFrame{Stack: frame.Stack, Cont: frame.Cont, LocalEnv: vm.localEnv}
		vm.gc.Alloc(acf)
		vm.popFrame()
		vm.pushFrame("closure", acf)
		vm.stack = acf
		vm.localEnv = env
		vm.expr = fn.Body
		vm.cont = VsmApplyCont
		vm.pc = VsmEval

	default:
		vm.popFrame()
		vm.halt(fmt.Sprintf("apply target is not callable: %T", frame.Fn))
	}
}

// doApplyCont restores (stack, cont, local_env) exactly as §4.4.2
// specifies, once a closure's body has produced a value.
func (vm *VM) doApplyCont() {
	frame := vm.stack.(*applyClosureFrame)
	vm.popFrame()
	vm.stack = frame.Stack
	vm.cont = frame.Cont
	vm.localEnv = frame.LocalEnv
	vm.pc = vm.cont
}

// doDefCont stores the rhs value into the global environment at the
// defined variable's slot (§4.4.1 DefCont); every Define the VM ever
// evaluates is top-level, since SequenceSsm rewrites block-scoped defines
// into Apply-of-Lambda let-form before the reader ever hands the tree to
// the VM (§4.3.5), so "the defining scope" is always the global one.
func (vm *VM) doDefCont() {
	frame := vm.stack.(*defContFrame)
	vm.globalEnv.EnsureSize(vm.global.Len())
	vm.globalEnv.Assign(0, frame.Define.Lhs.Slot(), vm.value)
	vm.popFrame()
	vm.stack = frame.Stack
	vm.cont = frame.Cont
	vm.pc = vm.cont
}

// doIfElseCont picks a branch once the test's value is known.
func (vm *VM) doIfElseCont() {
	frame := vm.stack.(*ifElseContFrame)
	vm.popFrame()
	vm.stack = frame.Stack
	vm.cont = frame.Cont

	test, ok := vm.value.(*value.Bool)
	if !ok {
		vm.halt(fmt.Sprintf("if/else test is not boolean: %T", vm.value))
		return
	}
	if test.V {
		vm.expr = frame.IfElse.WhenTrue
		vm.pc = VsmEval
		return
	}
	if frame.IfElse.WhenFalse != nil {
		vm.expr = frame.IfElse.WhenFalse
		vm.pc = VsmEval
		return
	}
	vm.value = nil
	vm.pc = vm.cont
}

// doSeqCont advances to the next element of a Sequence, or restores the
// caller once the last element's value is in hand.
func (vm *VM) doSeqCont() {
	frame := vm.stack.(*seqContFrame)
	frame.Index++
	if frame.Index < len(frame.Seq.Exprs) {
		vm.expr = frame.Seq.Exprs[frame.Index]
		vm.cont = VsmSeqCont
		vm.pc = VsmEval
		return
	}
	vm.popFrame()
	vm.stack = frame.Stack
	vm.cont = frame.Cont
	vm.pc = vm.cont
}

// doAssignCont stores the rhs value at the resolved binding, once
// Assign.Rhs has evaluated.
func (vm *VM) doAssignCont() {
	frame := vm.stack.(*assignContFrame)
	lhs := frame.Assign.Lhs
	vm.localEnv.Assign(lhs.LinkDepth, lhs.Target.Slot(), vm.value)
	vm.popFrame()
	vm.stack = frame.Stack
	vm.cont = frame.Cont
	vm.pc = vm.cont
}
