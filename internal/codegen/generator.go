package codegen

import (
	"fmt"

	"github.com/noodle-lang/noodlec/internal/ast"
	"github.com/noodle-lang/noodlec/internal/bytecode"
	"github.com/noodle-lang/noodlec/internal/diag"
	"github.com/noodle-lang/noodlec/internal/lexer"
)

// Options controls code generation.
type Options struct {
	// Debug attaches the source span of the originating node to every
	// emitted instruction.
	Debug bool
}

// Result is the lowered program.
type Result struct {
	Instructions []bytecode.Instruction
	Constants    []any
	Diagnostics  []diag.Diagnostic

	// Globals maps each name bound in the program's top-level scope to the
	// module slot its STORE_LOCAL writes. LOAD_GLOBAL inside a function
	// body resolves its name through this table. A redeclared name maps to
	// its last slot.
	Globals map[string]int
}

// Generator lowers an AST into a linear instruction stream.
type Generator struct {
	opts   Options
	code   []bytecode.Instruction
	consts *bytecode.Pool
	diags  []diag.Diagnostic

	// Current function frame; the program body is the outermost frame.
	frame *frame

	// Type parameter names declared by enclosing functions and classes.
	typeParams []map[string]struct{}
}

// NewGenerator creates a generator with an empty constant pool.
func NewGenerator(opts Options) *Generator {
	return &Generator{
		opts:   opts,
		consts: bytecode.NewPool(),
	}
}

// Generate lowers prog with a fresh generator.
func Generate(prog *ast.Program, opts Options) Result {
	return NewGenerator(opts).Generate(prog)
}

// Generate lowers prog. The stream always ends in HALT, and diagnostics
// never stop generation: unsupported constructs become NOP placeholders.
func (g *Generator) Generate(prog *ast.Program) Result {
	g.code = nil
	g.consts = bytecode.NewPool()
	g.diags = nil
	g.typeParams = nil
	g.frame = newFrame(nil, frameModule)

	if prog != nil {
		for _, stmt := range prog.Stmts {
			g.genStmt(stmt)
		}
	}

	var end ast.Node
	if prog != nil {
		end = prog
	}
	g.emit(end, bytecode.HALT)

	return Result{
		Instructions: g.code,
		Constants:    g.consts.Values(),
		Diagnostics:  g.diags,
		Globals:      g.frame.globals(),
	}
}

// emit appends an instruction and returns its address.
func (g *Generator) emit(node ast.Node, op bytecode.Opcode, operands ...int) int {
	in := bytecode.New(op, operands...)
	if g.opts.Debug && node != nil {
		loc := node.Span().ToDiag()
		in.Loc = &loc
	}
	g.code = append(g.code, in)
	return len(g.code) - 1
}

// emitJump emits a jump-like instruction whose target is patched later.
func (g *Generator) emitJump(node ast.Node, op bytecode.Opcode, operands ...int) int {
	return g.emit(node, op, append([]int{placeholder}, operands...)...)
}

// placeholder marks an address operand that has not been patched yet.
const placeholder = -1

// patch points the jump at pos to target.
func (g *Generator) patch(pos, target int) {
	g.code[pos].SetTarget(target)
}

// patchHere points the jump at pos to the next instruction emitted.
func (g *Generator) patchHere(pos int) {
	g.patch(pos, g.here())
}

func (g *Generator) here() int {
	return len(g.code)
}

func (g *Generator) constant(v any) int {
	return g.consts.Add(v)
}

func (g *Generator) pushConst(node ast.Node, v any) {
	g.emit(node, bytecode.PUSH_CONST, g.constant(v))
}

func (g *Generator) report(sev diag.Severity, code diag.Code, msg string, span lexer.Span) {
	g.diags = append(g.diags, diag.Diagnostic{
		Stage:    diag.StageCodegen,
		Severity: sev,
		Code:     code,
		Message:  msg,
		Span:     span.ToDiag(),
	})
}

func (g *Generator) reportError(code diag.Code, node ast.Node, format string, args ...any) {
	g.report(diag.SeverityError, code, fmt.Sprintf(format, args...), node.Span())
}

func (g *Generator) reportWarning(code diag.Code, node ast.Node, format string, args ...any) {
	g.report(diag.SeverityWarning, code, fmt.Sprintf(format, args...), node.Span())
}
