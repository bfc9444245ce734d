package vm

// OpCode is a single bytecode instruction. Some opcodes come in short/long
// pairs: the short form carries a 1-byte operand (the common case), the
// long form a 3-byte little-endian operand, so a function needs more than
// 256 constants or locals only to pay for the wider encoding.
type OpCode byte

const (
	OP_CONST OpCode = iota
	OP_CONST_LONG

	OP_NIL
	OP_TRUE
	OP_FALSE

	OP_POP
	OP_POPN

	OP_NEGATE
	OP_NOT

	OP_EQUAL
	OP_NOT_EQUAL
	OP_EQUAL_SWITCH
	OP_GREATER
	OP_GREATER_EQUAL
	OP_LESS
	OP_LESS_EQUAL

	OP_ADD
	OP_SUB
	OP_MUL
	OP_DIV

	OP_PRINT

	OP_DEFINE_GLOBAL
	OP_DEFINE_GLOBAL_LONG
	OP_GET_GLOBAL
	OP_GET_GLOBAL_LONG
	OP_SET_GLOBAL
	OP_SET_GLOBAL_LONG

	OP_GET_LOCAL
	OP_GET_LOCAL_LONG
	OP_SET_LOCAL
	OP_SET_LOCAL_LONG

	OP_JUMP
	OP_JUMP_IF_FALSE
	OP_JUMP_IF_TRUE
	OP_JUMP_BACK

	OP_CALL
	OP_RETURN

	OP_HALT
)

var opcodeNames = map[OpCode]string{
	OP_CONST:              "OP_CONST",
	OP_CONST_LONG:         "OP_CONST_LONG",
	OP_NIL:                "OP_NIL",
	OP_TRUE:               "OP_TRUE",
	OP_FALSE:              "OP_FALSE",
	OP_POP:                "OP_POP",
	OP_POPN:               "OP_POPN",
	OP_NEGATE:             "OP_NEGATE",
	OP_NOT:                "OP_NOT",
	OP_EQUAL:              "OP_EQUAL",
	OP_NOT_EQUAL:          "OP_NOT_EQUAL",
	OP_EQUAL_SWITCH:       "OP_EQUAL_SWITCH",
	OP_GREATER:            "OP_GREATER",
	OP_GREATER_EQUAL:      "OP_GREATER_EQUAL",
	OP_LESS:               "OP_LESS",
	OP_LESS_EQUAL:         "OP_LESS_EQUAL",
	OP_ADD:                "OP_ADD",
	OP_SUB:                "OP_SUB",
	OP_MUL:                "OP_MUL",
	OP_DIV:                "OP_DIV",
	OP_PRINT:              "OP_PRINT",
	OP_DEFINE_GLOBAL:      "OP_DEFINE_GLOBAL",
	OP_DEFINE_GLOBAL_LONG: "OP_DEFINE_GLOBAL_LONG",
	OP_GET_GLOBAL:         "OP_GET_GLOBAL",
	OP_GET_GLOBAL_LONG:    "OP_GET_GLOBAL_LONG",
	OP_SET_GLOBAL:         "OP_SET_GLOBAL",
	OP_SET_GLOBAL_LONG:    "OP_SET_GLOBAL_LONG",
	OP_GET_LOCAL:          "OP_GET_LOCAL",
	OP_GET_LOCAL_LONG:     "OP_GET_LOCAL_LONG",
	OP_SET_LOCAL:          "OP_SET_LOCAL",
	OP_SET_LOCAL_LONG:     "OP_SET_LOCAL_LONG",
	OP_JUMP:               "OP_JUMP",
	OP_JUMP_IF_FALSE:      "OP_JUMP_IF_FALSE",
	OP_JUMP_IF_TRUE:       "OP_JUMP_IF_TRUE",
	OP_JUMP_BACK:          "OP_JUMP_BACK",
	OP_CALL:               "OP_CALL",
	OP_RETURN:             "OP_RETURN",
	OP_HALT:               "OP_HALT",
}

func (op OpCode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}
