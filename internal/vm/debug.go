package vm

import "fmt"

// DisassembleChunk prints every instruction in chunk under a name header,
// giving a human-readable snapshot of emitted bytecode. (The --trace mode
// decodes one instruction at a time with Disassemble instead.)
func DisassembleChunk(chunk *Chunk, name string) {
	fmt.Printf("== %s ==\n", name)
	for offset := 0; offset < chunk.Count(); {
		offset = Disassemble(chunk, offset)
	}
}

// Disassemble decodes the single instruction at offset, prints it, and
// returns the offset of the next instruction.
func Disassemble(chunk *Chunk, offset int) int {
	fmt.Printf("%04d ", offset)
	if offset > 0 && chunk.LineFor(offset) == chunk.LineFor(offset-1) {
		fmt.Print("   | ")
	} else {
		fmt.Printf("%4d ", chunk.LineFor(offset))
	}

	op := OpCode(chunk.Code[offset])
	switch op {
	case OP_CONST, OP_DEFINE_GLOBAL, OP_GET_GLOBAL, OP_SET_GLOBAL:
		return constantInstruction(chunk, op, offset)
	case OP_CONST_LONG, OP_DEFINE_GLOBAL_LONG, OP_GET_GLOBAL_LONG, OP_SET_GLOBAL_LONG:
		return constantInstructionLong(chunk, op, offset)
	case OP_GET_LOCAL, OP_SET_LOCAL, OP_POPN, OP_CALL:
		return byteInstruction(chunk, op, offset)
	case OP_GET_LOCAL_LONG, OP_SET_LOCAL_LONG:
		return index3Instruction(chunk, op, offset)
	case OP_JUMP, OP_JUMP_IF_FALSE, OP_JUMP_IF_TRUE:
		return jumpInstruction(chunk, op, offset, 1)
	case OP_JUMP_BACK:
		return jumpInstruction(chunk, op, offset, -1)
	default:
		return simpleInstruction(op, offset)
	}
}

func simpleInstruction(op OpCode, offset int) int {
	fmt.Println(op)
	return offset + 1
}

func constantInstruction(chunk *Chunk, op OpCode, offset int) int {
	idx := int(chunk.Code[offset+1])
	fmt.Printf("%-22s %4d '%s'\n", op, idx, chunk.GetConstant(idx).String())
	return offset + 2
}

func constantInstructionLong(chunk *Chunk, op OpCode, offset int) int {
	idx := int(chunk.Code[offset+1]) | int(chunk.Code[offset+2])<<8 | int(chunk.Code[offset+3])<<16
	fmt.Printf("%-22s %4d '%s'\n", op, idx, chunk.GetConstant(idx).String())
	return offset + 4
}

func byteInstruction(chunk *Chunk, op OpCode, offset int) int {
	slot := chunk.Code[offset+1]
	fmt.Printf("%-22s %4d\n", op, slot)
	return offset + 2
}

func index3Instruction(chunk *Chunk, op OpCode, offset int) int {
	idx := int(chunk.Code[offset+1]) | int(chunk.Code[offset+2])<<8 | int(chunk.Code[offset+3])<<16
	fmt.Printf("%-22s %4d\n", op, idx)
	return offset + 4
}

func jumpInstruction(chunk *Chunk, op OpCode, offset int, sign int) int {
	jump := int(chunk.Code[offset+1]) | int(chunk.Code[offset+2])<<8 | int(chunk.Code[offset+3])<<16
	target := offset + 4 + sign*jump
	fmt.Printf("%-22s %4d -> %d\n", op, offset, target)
	return offset + 4
}
