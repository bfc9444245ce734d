// Package cli wires the compiler and VM together behind the logging and
// error-reporting conventions shared by the file runner and the REPL.
package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"quill/internal/compiler"
	"quill/internal/vm"
)

// Runner owns one VM instance for the lifetime of a process invocation:
// globals and interned strings persist across every RunSource call until
// Close.
type Runner struct {
	VM  *vm.VM
	log *zap.Logger
}

// New builds a Runner with a freshly initialized VM. trace toggles
// per-instruction disassembly, verbose enables debug-level logging.
func New(trace, verbose bool) *Runner {
	v := vm.New()
	v.SetTraceExecution(trace)
	v.SetErrorOutput(color.Error)

	var log *zap.Logger
	var err error
	if verbose {
		log, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		log, err = cfg.Build()
	}
	if err != nil {
		log = zap.NewNop()
	}

	log.Info("vm initialized")
	return &Runner{VM: v, log: log}
}

// RunSource compiles and executes source against the Runner's VM. Any
// compile or runtime error is printed by the compiler or VM to their error
// output, color.Error (stderr), as plain text; no color is applied to it.
func (r *Runner) RunSource(source string) vm.InterpretResult {
	result := compiler.Interpret(r.VM, source)

	switch result {
	case vm.InterpretCompileError:
		r.log.Warn("compile error")
	case vm.InterpretRuntimeError:
		r.log.Warn("runtime error")
	}
	return result
}

// RunFile reads path and runs it, exiting the process with a status code
// drawn from the conventional sysexits.h set: 65 on a compile error, 70 on
// a runtime error.
func (r *Runner) RunFile(path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("quill: %v", err))
		os.Exit(74)
	}

	switch r.RunSource(string(source)) {
	case vm.InterpretCompileError:
		os.Exit(65)
	case vm.InterpretRuntimeError:
		os.Exit(70)
	}
}

// Close releases the VM and flushes the logger. The Runner must not be
// used afterward.
func (r *Runner) Close() {
	r.VM.Free()
	r.log.Info("vm shut down")
	_ = r.log.Sync()
}
