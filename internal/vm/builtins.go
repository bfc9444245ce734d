package vm

import "time"

// processStart anchors clock() so it reports seconds of process uptime
// rather than wall-clock time, without exposing the host clock.
var processStart = time.Now()

// registerBuiltins installs the native functions available to every script
// from the moment a VM is constructed.
func registerBuiltins(vm *VM) {
	vm.defineNative("clock", clockNative)
}

func (vm *VM) defineNative(name string, fn NativeFn) {
	native := vm.Heap.NewNative(name, fn)
	vm.globals.Set(vm.Heap.CopyString(name), FromObj(native))
}

func clockNative(args []Value) (Value, error) {
	return Number(time.Since(processStart).Seconds()), nil
}
