// Package vm - debugger support
package vm

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Debugger provides interactive debugging for the VM. Adapted from the
// teacher's bytecode debugger: breakpoints there were keyed by
// instruction pointer into a flat instruction stream; schematika has no
// such stream, so breakpoints here are keyed by step count (the number of
// VsmInstr dispatches executed so far), and the "current instruction"
// display shows the register set (pc/cont/expr/value) rather than a
// decoded bytecode operand.
type Debugger struct {
	vm          *VM          // The VM being debugged
	breakpoints map[int]bool // Step counts where execution should pause
	stepMode    bool         // If true, pause after each opcode
	enabled     bool         // If true, debugger is active
}

// NewDebugger creates a new debugger instance.
func NewDebugger(vm *VM) *Debugger {
	return &Debugger{
		vm:          vm,
		breakpoints: make(map[int]bool),
	}
}

// Enable activates the debugger.
func (d *Debugger) Enable() { d.enabled = true }

// Disable deactivates the debugger.
func (d *Debugger) Disable() { d.enabled = false }

// SetStepMode enables or disables step mode. In step mode, execution
// pauses after each opcode.
func (d *Debugger) SetStepMode(enabled bool) { d.stepMode = enabled }

// AddBreakpoint adds a breakpoint at the given step count.
func (d *Debugger) AddBreakpoint(step int) { d.breakpoints[step] = true }

// RemoveBreakpoint removes a breakpoint at the given step count.
func (d *Debugger) RemoveBreakpoint(step int) { delete(d.breakpoints, step) }

// ClearBreakpoints removes all breakpoints.
func (d *Debugger) ClearBreakpoints() { d.breakpoints = make(map[int]bool) }

// ShouldPause reports whether execution should pause before the next
// opcode: true in step mode, or when the step count about to run matches
// a breakpoint.
func (d *Debugger) ShouldPause() bool {
	if !d.enabled {
		return false
	}
	if d.stepMode {
		return true
	}
	return d.breakpoints[d.vm.steps]
}

// ShowCurrentInstruction displays the VM's register set.
func (d *Debugger) ShowCurrentInstruction() {
	kind := "<nil>"
	if d.vm.expr != nil {
		kind = d.vm.expr.ExprKind()
	}
	fmt.Printf("  step %d: pc=%s cont=%s expr=%s\n", d.vm.steps, d.vm.pc, d.vm.cont, kind)
}

// ShowStack displays the VM's continuation-frame chain (the stack
// register), most recently pushed first.
func (d *Debugger) ShowStack() {
	fmt.Println("Frame chain (top to bottom):")
	if d.vm.stack == nil {
		fmt.Println("  (empty)")
		return
	}
	i := 0
	for f := d.vm.stack; f != nil; {
		switch frame := f.(type) {
		case *applyFrame:
			fmt.Printf("  [%d] apply (cont=%s)\n", i, frame.Cont)
			f = frame.Stack
		case *applyClosureFrame:
			fmt.Printf("  [%d] closure-call (cont=%s)\n", i, frame.Cont)
			f = frame.Stack
		case *defContFrame:
			fmt.Printf("  [%d] define (cont=%s)\n", i, frame.Cont)
			f = frame.Stack
		case *ifElseContFrame:
			fmt.Printf("  [%d] if/else (cont=%s)\n", i, frame.Cont)
			f = frame.Stack
		case *seqContFrame:
			fmt.Printf("  [%d] sequence[%d] (cont=%s)\n", i, frame.Index, frame.Cont)
			f = frame.Stack
		case *assignContFrame:
			fmt.Printf("  [%d] assign (cont=%s)\n", i, frame.Cont)
			f = frame.Stack
		default:
			fmt.Printf("  [%d] <unknown frame %T>\n", i, f)
			f = nil
		}
		i++
	}
}

// ShowLocals displays the slots of the currently active LocalEnv (not
// its parents).
func (d *Debugger) ShowLocals() {
	fmt.Println("Local environment:")
	if d.vm.localEnv == nil || d.vm.localEnv == d.vm.globalEnv {
		fmt.Println("  (at top level; see 'globals')")
		return
	}
	for i := 0; i < d.vm.localEnv.Size(); i++ {
		v := d.vm.localEnv.Lookup(0, i)
		fmt.Printf("  [%d] %v\n", i, v)
	}
}

// ShowGlobals displays every slot of the VM's global environment.
func (d *Debugger) ShowGlobals() {
	fmt.Println("Global environment:")
	n := d.vm.globalEnv.Size()
	if n == 0 {
		fmt.Println("  (none)")
		return
	}
	for i := 0; i < n; i++ {
		fmt.Printf("  [%d] %v\n", i, d.vm.globalEnv.Lookup(0, i))
	}
}

// ShowCallStack displays the human-readable call-stack bookkeeping
// (see errors.go's pushFrame/popFrame).
func (d *Debugger) ShowCallStack() {
	fmt.Println("Call stack (top to bottom):")
	if len(d.vm.callStack) == 0 {
		fmt.Println("  (empty)")
		return
	}
	for i := len(d.vm.callStack) - 1; i >= 0; i-- {
		fmt.Printf("  %s\n", d.vm.callStack[i].Name)
	}
}

// InteractivePrompt is called when execution pauses at a breakpoint or in
// step mode; it returns whether to resume execution (false aborts the
// run).
func (d *Debugger) InteractivePrompt() (continueExecution bool) {
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("\n=== Debugger Paused ===")
	d.ShowCurrentInstruction()

	for {
		fmt.Print("debug> ")
		if !scanner.Scan() {
			return false
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		command := parts[0]

		switch command {
		case "help", "h", "?":
			d.printHelp()

		case "continue", "c":
			d.SetStepMode(false)
			return true

		case "step", "s":
			d.SetStepMode(true)
			return true

		case "next", "n":
			return true

		case "stack", "st":
			d.ShowStack()

		case "locals", "l":
			d.ShowLocals()

		case "globals", "g":
			d.ShowGlobals()

		case "callstack", "cs":
			d.ShowCallStack()

		case "instruction", "i":
			d.ShowCurrentInstruction()

		case "breakpoint", "b":
			if len(parts) < 2 {
				fmt.Println("Usage: breakpoint <step_count>")
				continue
			}
			step, err := strconv.Atoi(parts[1])
			if err != nil {
				fmt.Println("Invalid step count")
				continue
			}
			d.AddBreakpoint(step)
			fmt.Printf("Breakpoint added at step %d\n", step)

		case "delete", "d":
			if len(parts) < 2 {
				fmt.Println("Usage: delete <step_count>")
				continue
			}
			step, err := strconv.Atoi(parts[1])
			if err != nil {
				fmt.Println("Invalid step count")
				continue
			}
			d.RemoveBreakpoint(step)
			fmt.Printf("Breakpoint removed at step %d\n", step)

		case "quit", "q":
			return false

		default:
			fmt.Printf("Unknown command: %s (type 'help' for commands)\n", command)
		}
	}
}

// printHelp displays available debugger commands.
func (d *Debugger) printHelp() {
	fmt.Println("Debugger Commands:")
	fmt.Println("  help, h, ?           Show this help")
	fmt.Println("  continue, c          Continue execution")
	fmt.Println("  step, s              Enable step mode (pause after each opcode)")
	fmt.Println("  next, n              Resume; pauses after one opcode only in step mode")
	fmt.Println("  stack, st            Show the continuation-frame chain")
	fmt.Println("  locals, l            Show the active local environment")
	fmt.Println("  globals, g           Show the global environment")
	fmt.Println("  callstack, cs        Show human-readable call stack")
	fmt.Println("  instruction, i       Show current register set")
	fmt.Println("  breakpoint <n>, b    Add breakpoint at step n")
	fmt.Println("  delete <n>, d        Remove breakpoint at step n")
	fmt.Println("  quit, q              Quit debugging (abort execution)")
}
