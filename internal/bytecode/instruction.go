package bytecode

import (
	"strconv"
	"strings"

	"github.com/noodle-lang/noodlec/internal/diag"
)

// Instruction is one opcode with its integer operands. Operand meaning by
// opcode:
//
//	PUSH_CONST const            LOAD_LOCAL/STORE_LOCAL slot
//	LOAD_GLOBAL nameConst       LOAD_ATTR/STORE_ATTR nameConst
//	JUMP/JUMP_IF_* target       FOR_ITER exitTarget
//	CALL argc                   BUILD_ARRAY count
//	GET_ITER async              IMPORT pathConst
//	MAKE_FUNCTION nameConst entry paramCount async
//	BUILD_CLASS nameConst methodCount fieldCount
//
// The program body stores its top-level names with STORE_LOCAL into module
// slots; function bodies read them back with LOAD_GLOBAL by name, resolved
// through the name-to-slot table that accompanies the instruction stream.
//
// Loc is only populated when compiling with debug information.
type Instruction struct {
	Op       Opcode     `json:"opcode" yaml:"opcode"`
	Operands []int      `json:"operands" yaml:"operands"`
	Loc      *diag.Span `json:"loc,omitempty" yaml:"loc,omitempty"`
}

// New builds an instruction. The operand slice is never nil so encoded
// output always carries an array.
func New(op Opcode, operands ...int) Instruction {
	if operands == nil {
		operands = []int{}
	}
	return Instruction{Op: op, Operands: operands}
}

// Target returns the instruction address the instruction refers to.
func (in Instruction) Target() (int, bool) {
	idx := in.Op.TargetOperand()
	if idx < 0 || idx >= len(in.Operands) {
		return 0, false
	}
	return in.Operands[idx], true
}

// SetTarget rewrites the address operand in place.
func (in *Instruction) SetTarget(target int) {
	idx := in.Op.TargetOperand()
	if idx < 0 || idx >= len(in.Operands) {
		return
	}
	in.Operands[idx] = target
}

func (in Instruction) String() string {
	if len(in.Operands) == 0 {
		return in.Op.String()
	}
	parts := make([]string, len(in.Operands))
	for i, operand := range in.Operands {
		parts[i] = strconv.Itoa(operand)
	}
	return in.Op.String() + " " + strings.Join(parts, " ")
}

// Equal reports whether two instructions carry the same opcode and operands.
// Locations are ignored.
func (in Instruction) Equal(other Instruction) bool {
	if in.Op != other.Op || len(in.Operands) != len(other.Operands) {
		return false
	}
	for i := range in.Operands {
		if in.Operands[i] != other.Operands[i] {
			return false
		}
	}
	return true
}
