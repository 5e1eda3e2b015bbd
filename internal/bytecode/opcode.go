package bytecode

import "fmt"

// Opcode identifies a stack machine instruction.
type Opcode uint8

const (
	NOP Opcode = iota
	PUSH_CONST
	POP
	DUP
	LOAD_LOCAL
	STORE_LOCAL
	LOAD_GLOBAL
	ADD
	SUB
	MUL
	DIV
	MOD
	EQ
	NE
	LT
	GT
	LE
	GE
	NEG
	NOT
	JUMP
	JUMP_IF_FALSE
	JUMP_IF_TRUE
	CALL
	RETURN
	MAKE_FUNCTION
	BUILD_CLASS
	BUILD_ARRAY
	LOAD_ATTR
	STORE_ATTR
	GET_ITER
	FOR_ITER
	AWAIT
	IMPORT
	MATCH_FAIL
	HALT

	opcodeCount
)

var opcodeNames = [...]string{
	NOP:           "NOP",
	PUSH_CONST:    "PUSH_CONST",
	POP:           "POP",
	DUP:           "DUP",
	LOAD_LOCAL:    "LOAD_LOCAL",
	STORE_LOCAL:   "STORE_LOCAL",
	LOAD_GLOBAL:   "LOAD_GLOBAL",
	ADD:           "ADD",
	SUB:           "SUB",
	MUL:           "MUL",
	DIV:           "DIV",
	MOD:           "MOD",
	EQ:            "EQ",
	NE:            "NE",
	LT:            "LT",
	GT:            "GT",
	LE:            "LE",
	GE:            "GE",
	NEG:           "NEG",
	NOT:           "NOT",
	JUMP:          "JUMP",
	JUMP_IF_FALSE: "JUMP_IF_FALSE",
	JUMP_IF_TRUE:  "JUMP_IF_TRUE",
	CALL:          "CALL",
	RETURN:        "RETURN",
	MAKE_FUNCTION: "MAKE_FUNCTION",
	BUILD_CLASS:   "BUILD_CLASS",
	BUILD_ARRAY:   "BUILD_ARRAY",
	LOAD_ATTR:     "LOAD_ATTR",
	STORE_ATTR:    "STORE_ATTR",
	GET_ITER:      "GET_ITER",
	FOR_ITER:      "FOR_ITER",
	AWAIT:         "AWAIT",
	IMPORT:        "IMPORT",
	MATCH_FAIL:    "MATCH_FAIL",
	HALT:          "HALT",
}

var opcodeByName = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeNames))
	for op, name := range opcodeNames {
		m[name] = Opcode(op)
	}
	return m
}()

func (op Opcode) String() string {
	if op < opcodeCount {
		return opcodeNames[op]
	}
	return fmt.Sprintf("Opcode(%d)", uint8(op))
}

// MarshalText renders the opcode by name in JSON and YAML output.
func (op Opcode) MarshalText() ([]byte, error) {
	if op >= opcodeCount {
		return nil, fmt.Errorf("unknown opcode %d", uint8(op))
	}
	return []byte(opcodeNames[op]), nil
}

// UnmarshalText parses an opcode name.
func (op *Opcode) UnmarshalText(text []byte) error {
	parsed, ok := opcodeByName[string(text)]
	if !ok {
		return fmt.Errorf("unknown opcode %q", text)
	}
	*op = parsed
	return nil
}

// TargetOperand returns the index of the operand holding an instruction
// address, or -1 when the opcode carries none.
func (op Opcode) TargetOperand() int {
	switch op {
	case JUMP, JUMP_IF_FALSE, JUMP_IF_TRUE, FOR_ITER:
		return 0
	case MAKE_FUNCTION:
		return 1
	default:
		return -1
	}
}

// IsJump reports whether op transfers control to its target operand.
func (op Opcode) IsJump() bool {
	switch op {
	case JUMP, JUMP_IF_FALSE, JUMP_IF_TRUE:
		return true
	default:
		return false
	}
}

// ConstOperand returns the index of the operand holding a constant pool
// index, or -1.
func (op Opcode) ConstOperand() int {
	switch op {
	case PUSH_CONST, LOAD_GLOBAL, MAKE_FUNCTION, BUILD_CLASS, LOAD_ATTR, STORE_ATTR, IMPORT:
		return 0
	default:
		return -1
	}
}
