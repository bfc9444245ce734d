package vm

import (
	"fmt"
	"strings"
)

// run is the main dispatch loop. Each iteration fetches one opcode byte
// from the current frame's chunk and switches on it.
func (vm *VM) run() (InterpretResult, error) {
	frame := &vm.frames[vm.frameCount-1]

	for {
		if vm.traceExec {
			vm.traceStack()
			Disassemble(frame.function.Chunk, frame.ip)
		}

		instruction := OpCode(vm.readByte(frame))

		switch instruction {
		case OP_CONST:
			idx := int(vm.readByte(frame))
			vm.push(frame.function.Chunk.GetConstant(idx))

		case OP_CONST_LONG:
			idx := vm.readIndex3(frame)
			vm.push(frame.function.Chunk.GetConstant(idx))

		case OP_NIL:
			vm.push(NilValue)
		case OP_TRUE:
			vm.push(True)
		case OP_FALSE:
			vm.push(False)

		case OP_POP:
			vm.pop()

		case OP_POPN:
			n := int(vm.readByte(frame))
			vm.stack = vm.stack[:len(vm.stack)-n]

		case OP_NEGATE:
			if !vm.peek(0).IsNumber() {
				return vm.runtimeError(frame, "Operand must be a number.")
			}
			v := vm.pop()
			vm.push(Number(-v.Number))

		case OP_NOT:
			v := vm.pop()
			vm.push(Bool(v.IsFalsey()))

		case OP_EQUAL:
			b, a := vm.pop(), vm.pop()
			vm.push(Bool(a.Equals(b)))

		case OP_NOT_EQUAL:
			b, a := vm.pop(), vm.pop()
			vm.push(Bool(!a.Equals(b)))

		case OP_EQUAL_SWITCH:
			b := vm.pop()
			a := vm.peek(0)
			vm.push(Bool(a.Equals(b)))

		case OP_GREATER, OP_GREATER_EQUAL, OP_LESS, OP_LESS_EQUAL:
			if res, err := vm.comparison(frame, instruction); err != nil {
				return res, err
			}

		case OP_ADD:
			if res, err := vm.add(frame); err != nil {
				return res, err
			}

		case OP_SUB, OP_MUL, OP_DIV:
			if res, err := vm.arith(frame, instruction); err != nil {
				return res, err
			}

		case OP_PRINT:
			fmt.Fprintln(vm.out, vm.pop().String())

		case OP_DEFINE_GLOBAL:
			idx := int(vm.readByte(frame))
			name := frame.function.Chunk.GetConstant(idx).AsString()
			vm.globals.Set(name, vm.pop())

		case OP_DEFINE_GLOBAL_LONG:
			idx := vm.readIndex3(frame)
			name := frame.function.Chunk.GetConstant(idx).AsString()
			vm.globals.Set(name, vm.pop())

		case OP_GET_GLOBAL:
			idx := int(vm.readByte(frame))
			if res, err := vm.getGlobal(frame, idx); err != nil {
				return res, err
			}

		case OP_GET_GLOBAL_LONG:
			idx := vm.readIndex3(frame)
			if res, err := vm.getGlobal(frame, idx); err != nil {
				return res, err
			}

		case OP_SET_GLOBAL:
			idx := int(vm.readByte(frame))
			if res, err := vm.setGlobal(frame, idx); err != nil {
				return res, err
			}

		case OP_SET_GLOBAL_LONG:
			idx := vm.readIndex3(frame)
			if res, err := vm.setGlobal(frame, idx); err != nil {
				return res, err
			}

		case OP_GET_LOCAL:
			slot := int(vm.readByte(frame))
			vm.push(vm.stack[frame.slotsBase+slot])

		case OP_GET_LOCAL_LONG:
			slot := vm.readIndex3(frame)
			vm.push(vm.stack[frame.slotsBase+slot])

		case OP_SET_LOCAL:
			slot := int(vm.readByte(frame))
			vm.stack[frame.slotsBase+slot] = vm.peek(0)

		case OP_SET_LOCAL_LONG:
			// Always offset by slotsBase, same as the short form; treating
			// the long index as an absolute stack index would break any
			// local beyond slot 255 in a non-top-level frame.
			slot := vm.readIndex3(frame)
			vm.stack[frame.slotsBase+slot] = vm.peek(0)

		case OP_JUMP:
			offset := vm.readIndex3(frame)
			frame.ip += offset

		case OP_JUMP_IF_FALSE:
			offset := vm.readIndex3(frame)
			if vm.peek(0).IsFalsey() {
				frame.ip += offset
			}

		case OP_JUMP_IF_TRUE:
			offset := vm.readIndex3(frame)
			if !vm.peek(0).IsFalsey() {
				frame.ip += offset
			}

		case OP_JUMP_BACK:
			offset := vm.readIndex3(frame)
			frame.ip -= offset

		case OP_CALL:
			argCount := int(vm.readByte(frame))
			callee := vm.peek(argCount)
			ok, errMsg := vm.callValue(callee, argCount)
			if !ok {
				return vm.runtimeError(frame, "%s", errMsg)
			}
			frame = &vm.frames[vm.frameCount-1]

		case OP_RETURN:
			result := vm.pop()
			vm.frameCount--
			if vm.frameCount == 0 {
				vm.pop() // the top-level script's own callee slot
				return InterpretOK, nil
			}
			vm.stack = vm.stack[:frame.slotsBase]
			vm.push(result)
			frame = &vm.frames[vm.frameCount-1]

		case OP_HALT:
			return InterpretOK, nil

		default:
			return vm.runtimeError(frame, "Unknown opcode: %d", instruction)
		}
	}
}

func (vm *VM) readByte(frame *CallFrame) byte {
	b := frame.function.Chunk.Code[frame.ip]
	frame.ip++
	return b
}

// readIndex3 reads a 3-byte little-endian operand, used for long-form
// constant/global/local indices and for all jump offsets.
func (vm *VM) readIndex3(frame *CallFrame) int {
	b0 := int(vm.readByte(frame))
	b1 := int(vm.readByte(frame))
	b2 := int(vm.readByte(frame))
	return b0 | (b1 << 8) | (b2 << 16)
}

func (vm *VM) getGlobal(frame *CallFrame, constIdx int) (InterpretResult, error) {
	name := frame.function.Chunk.GetConstant(constIdx).AsString()
	v, ok := vm.globals.Get(name)
	if !ok {
		return vm.runtimeError(frame, "Undefined variable '%s'.", name.Chars)
	}
	vm.push(v)
	return InterpretOK, nil
}

func (vm *VM) setGlobal(frame *CallFrame, constIdx int) (InterpretResult, error) {
	name := frame.function.Chunk.GetConstant(constIdx).AsString()
	// SET_GLOBAL must fail on an undefined name rather than creating it:
	// perform the set, and if it reports a new key, undo it.
	if vm.globals.Set(name, vm.peek(0)) {
		vm.globals.Delete(name)
		return vm.runtimeError(frame, "Undefined variable '%s'.", name.Chars)
	}
	return InterpretOK, nil
}

func (vm *VM) comparison(frame *CallFrame, op OpCode) (InterpretResult, error) {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeError(frame, "Operands must be numbers.")
	}
	b, a := vm.pop(), vm.pop()
	switch op {
	case OP_GREATER:
		vm.push(Bool(a.Number > b.Number))
	case OP_GREATER_EQUAL:
		vm.push(Bool(a.Number >= b.Number))
	case OP_LESS:
		vm.push(Bool(a.Number < b.Number))
	case OP_LESS_EQUAL:
		vm.push(Bool(a.Number <= b.Number))
	}
	return InterpretOK, nil
}

func (vm *VM) add(frame *CallFrame) (InterpretResult, error) {
	bv, av := vm.peek(0), vm.peek(1)
	switch {
	case av.IsNumber() && bv.IsNumber():
		b, a := vm.pop(), vm.pop()
		vm.push(Number(a.Number + b.Number))
	case av.IsString() && bv.IsString():
		b, a := vm.pop(), vm.pop()
		var sb strings.Builder
		sb.WriteString(a.AsString().Chars)
		sb.WriteString(b.AsString().Chars)
		vm.push(FromObj(vm.Heap.TakeString(sb.String())))
	default:
		return vm.runtimeError(frame, "Operands must be two numbers or two strings.")
	}
	return InterpretOK, nil
}

func (vm *VM) arith(frame *CallFrame, op OpCode) (InterpretResult, error) {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeError(frame, "Operands must be numbers.")
	}
	b, a := vm.pop(), vm.pop()
	switch op {
	case OP_SUB:
		vm.push(Number(a.Number - b.Number))
	case OP_MUL:
		vm.push(Number(a.Number * b.Number))
	case OP_DIV:
		vm.push(Number(a.Number / b.Number))
	}
	return InterpretOK, nil
}

// ============================================================================
// Calls
// ============================================================================

func (vm *VM) callValue(callee Value, argCount int) (bool, string) {
	if callee.IsObj() {
		switch callee.Obj.(type) {
		case *ObjFunction:
			return vm.call(callee.AsFunction(), argCount)
		case *ObjNative:
			return vm.callNative(callee.AsNative(), argCount)
		}
	}
	return false, "Can only call functions."
}

func (vm *VM) call(fn *ObjFunction, argCount int) (bool, string) {
	if argCount != fn.Arity {
		return false, fmt.Sprintf("Expected %d arguments but got %d.", fn.Arity, argCount)
	}
	if vm.frameCount >= framesMax {
		return false, "Stack overflow."
	}
	vm.frames[vm.frameCount] = CallFrame{
		function:  fn,
		ip:        0,
		slotsBase: len(vm.stack) - argCount - 1,
	}
	vm.frameCount++
	return true, ""
}

func (vm *VM) callNative(native *ObjNative, argCount int) (bool, string) {
	args := make([]Value, argCount)
	copy(args, vm.stack[len(vm.stack)-argCount:])

	result, err := native.Fn(args)
	vm.stack = vm.stack[:len(vm.stack)-argCount-1]
	if err != nil {
		return false, err.Error()
	}
	vm.push(result)
	return true, ""
}

// ============================================================================
// Errors
// ============================================================================

func (vm *VM) runtimeError(frame *CallFrame, format string, args ...interface{}) (InterpretResult, error) {
	_ = frame
	return InterpretRuntimeError, fmt.Errorf("%s", vm.formatRuntimeError(fmt.Sprintf(format, args...)))
}

// formatRuntimeError renders the message followed by a stack trace walking
// every live call frame from the innermost outward, each as
// "[line L] in <name|script>".
func (vm *VM) formatRuntimeError(message string) string {
	var sb strings.Builder
	sb.WriteString(message)
	sb.WriteByte('\n')

	for i := vm.frameCount - 1; i >= 0; i-- {
		f := &vm.frames[i]
		line := f.function.Chunk.LineFor(f.ip - 1)
		name := "script"
		if f.function.Name != nil {
			name = f.function.Name.Chars
		}
		fmt.Fprintf(&sb, "[line %d] in %s\n", line, name)
	}

	return sb.String()
}

func (vm *VM) traceStack() {
	fmt.Fprint(vm.out, "          ")
	for _, v := range vm.stack {
		fmt.Fprintf(vm.out, "[ %s ]", v.String())
	}
	fmt.Fprintln(vm.out)
}
