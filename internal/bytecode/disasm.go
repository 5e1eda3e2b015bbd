package bytecode

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Disassemble renders the constant pool and the instruction listing as two
// tables. Constant operands are annotated with the value they refer to.
func Disassemble(w io.Writer, instructions []Instruction, constants []any) {
	_, _ = fmt.Fprintf(w, "Constants (%d):\n", len(constants))
	ct := table.NewWriter()
	ct.SetOutputMirror(w)
	ct.SetStyle(table.StyleLight)
	ct.AppendHeader(table.Row{"#", "Type", "Value"})
	for i, c := range constants {
		ct.AppendRow(table.Row{i, ConstantType(c), FormatConstant(c)})
	}
	ct.Render()

	_, _ = fmt.Fprintf(w, "\nInstructions (%d):\n", len(instructions))
	it := table.NewWriter()
	it.SetOutputMirror(w)
	it.SetStyle(table.StyleLight)
	it.AppendHeader(table.Row{"Addr", "Opcode", "Operands", "Comment", "Location"})
	for i, in := range instructions {
		it.AppendRow(table.Row{i, in.Op.String(), formatOperands(in.Operands), comment(in, constants), location(in)})
	}
	it.Render()
}

// ConstantType names the runtime type of a pooled constant.
func ConstantType(c any) string {
	switch c.(type) {
	case nil:
		return "none"
	case int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "string"
	case bool:
		return "bool"
	default:
		return fmt.Sprintf("%T", c)
	}
}

// FormatConstant renders a constant the way it would be written in source.
func FormatConstant(c any) string {
	switch v := c.(type) {
	case nil:
		return "none"
	case string:
		return strconv.Quote(v)
	case float64:
		s := strconv.FormatFloat(v, 'g', -1, 64)
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			s += ".0"
		}
		return s
	default:
		return fmt.Sprint(v)
	}
}

func formatOperands(operands []int) string {
	parts := make([]string, len(operands))
	for i, operand := range operands {
		parts[i] = strconv.Itoa(operand)
	}
	return strings.Join(parts, " ")
}

func comment(in Instruction, constants []any) string {
	if idx := in.Op.ConstOperand(); idx >= 0 && idx < len(in.Operands) {
		c := in.Operands[idx]
		if c >= 0 && c < len(constants) {
			return FormatConstant(constants[c])
		}
	}
	if target, ok := in.Target(); ok {
		return "-> " + strconv.Itoa(target)
	}
	return ""
}

func location(in Instruction) string {
	if in.Loc == nil {
		return ""
	}
	return fmt.Sprintf("%d:%d", in.Loc.Line, in.Loc.Column)
}
