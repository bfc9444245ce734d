// Package vm implements the engine's value model, bytecode chunk format,
// string-interning hash table, and the stack-based virtual machine that
// dispatches opcodes emitted by the compiler.
package vm

import (
	"fmt"
	"io"
	"os"
)

const (
	framesMax = 64
	stackMax  = framesMax * 256
)

// InterpretResult is the outcome of VM.Run (and of compiler.Interpret).
type InterpretResult int

const (
	InterpretOK InterpretResult = iota
	InterpretCompileError
	InterpretRuntimeError
)

// CallFrame is one activation record: the function running, its
// instruction pointer, and slotsBase, the index into VM.stack where local
// slot 0 (the callee itself) lives.
type CallFrame struct {
	function  *ObjFunction
	ip        int
	slotsBase int
}

// VM executes compiled Functions. There is one VM per running program; it
// owns the value stack, the call-frame stack, the global table, and the
// Heap (object list + intern table) that compiling and running share.
type VM struct {
	stack      []Value
	frames     [framesMax]CallFrame
	frameCount int

	globals *Table
	Heap    *Heap

	out       io.Writer
	errOut    io.Writer
	traceExec bool
}

// New returns a ready VM with its builtins already registered.
func New() *VM {
	v := &VM{
		stack:   make([]Value, 0, 256),
		globals: NewTable(),
		Heap:    NewHeap(),
		out:     os.Stdout,
		errOut:  os.Stderr,
	}
	registerBuiltins(v)
	return v
}

// SetOutput redirects `print` output and the stack lines of trace output
// (used by tests). Disassembled trace instructions always go to stdout.
func (vm *VM) SetOutput(out io.Writer) { vm.out = out }

// SetErrorOutput redirects runtime-error and stack-trace output.
func (vm *VM) SetErrorOutput(out io.Writer) { vm.errOut = out }

// ErrorOutput returns the writer runtime errors are sent to, so the
// compiler's own diagnostics can share the same stream.
func (vm *VM) ErrorOutput() io.Writer { return vm.errOut }

// SetTraceExecution toggles per-instruction disassembly tracing.
func (vm *VM) SetTraceExecution(trace bool) { vm.traceExec = trace }

// Free releases the VM's state. Globals and the intern table do not
// persist past this call; a fresh VM must be constructed with New to
// interpret again.
func (vm *VM) Free() {
	vm.Heap.Sweep()
	vm.globals = NewTable()
	vm.stack = vm.stack[:0]
	vm.frameCount = 0
}

// ============================================================================
// Stack operations
// ============================================================================

func (vm *VM) push(v Value) {
	vm.stack = append(vm.stack, v)
}

func (vm *VM) pop() Value {
	n := len(vm.stack) - 1
	v := vm.stack[n]
	vm.stack = vm.stack[:n]
	return v
}

func (vm *VM) peek(distance int) Value {
	return vm.stack[len(vm.stack)-1-distance]
}

func (vm *VM) resetStack() {
	vm.stack = vm.stack[:0]
	vm.frameCount = 0
}

// ============================================================================
// Entry point
// ============================================================================

// Run wraps fn in the initial call frame and drives the dispatch loop
// until the frame stack empties or a runtime error occurs. The caller
// (the compiler package's Interpret helper) is responsible for compiling
// source into fn first; Run never touches the lexer or compiler, so vm has
// no dependency on them.
func (vm *VM) Run(fn *ObjFunction) InterpretResult {
	vm.push(FromObj(fn))
	if ok, errMsg := vm.callValue(FromObj(fn), 0); !ok {
		fmt.Fprintln(vm.errOut, errMsg)
		vm.resetStack()
		return InterpretRuntimeError
	}

	result, rtErr := vm.run()
	if rtErr != nil {
		fmt.Fprint(vm.errOut, rtErr.Error())
		vm.resetStack()
		return InterpretRuntimeError
	}
	return result
}
