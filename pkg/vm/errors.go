// Package vm - error handling with stack traces
package vm

import (
	"fmt"
	"strings"
)

// StackFrame names one entry on the VM's call-stack bookkeeping: a
// human-readable description of the continuation frame pushed at that
// point (define/if-else/sequence/apply/assign/closure), carried alongside
// the GC frame chain purely for diagnostics. Adapted from the teacher's
// StackFrame, which named a bytecode IP and message selector; schematika
// has no IP, so the interpretation here is "what kind of suspension is
// this" rather than "where in a flat instruction stream."
type StackFrame struct {
	Name string // what kind of frame this is (define, apply, closure, ...)
}

// RuntimeError reports a program-level runtime failure (§7): the VM
// halted because `value` ended up holding a RuntimeErrorValue, as opposed
// to a panic, which is reserved for invariant violations the reader
// should already have ruled out.
type RuntimeError struct {
	Message    string
	StackTrace []StackFrame
}

// Error implements the error interface, formatting the message with a
// stack trace the same way the teacher's RuntimeError.Error does.
func (e *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)

	if len(e.StackTrace) > 0 {
		b.WriteString("\n\nStack trace:")
		for i := len(e.StackTrace) - 1; i >= 0; i-- {
			b.WriteString(fmt.Sprintf("\n  at %s", e.StackTrace[i].Name))
		}
	}

	return b.String()
}

// pushFrame records a human-readable description of a continuation frame
// just pushed, for stack-trace/debugger display; the GC frame chain
// itself (vm.stack) is the actual source of truth for evaluation.
func (vm *VM) pushFrame(name string, _ interface{}) {
	vm.callStack = append(vm.callStack, StackFrame{Name: name})
}

// popFrame undoes the matching pushFrame once a continuation frame's work
// is done.
func (vm *VM) popFrame() {
	if n := len(vm.callStack); n > 0 {
		vm.callStack = vm.callStack[:n-1]
	}
}

// captureStackTrace snapshots the current call-stack bookkeeping for
// attachment to a RuntimeError.
func (vm *VM) captureStackTrace() []StackFrame {
	return append([]StackFrame(nil), vm.callStack...)
}
