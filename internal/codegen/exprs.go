package codegen

import (
	"github.com/noodle-lang/noodlec/internal/ast"
	"github.com/noodle-lang/noodlec/internal/bytecode"
	"github.com/noodle-lang/noodlec/internal/diag"
	"github.com/noodle-lang/noodlec/internal/lexer"
)

var binaryOps = map[lexer.TokenType]bytecode.Opcode{
	lexer.PLUS:     bytecode.ADD,
	lexer.MINUS:    bytecode.SUB,
	lexer.ASTERISK: bytecode.MUL,
	lexer.SLASH:    bytecode.DIV,
	lexer.PERCENT:  bytecode.MOD,
	lexer.EQ:       bytecode.EQ,
	lexer.NOT_EQ:   bytecode.NE,
	lexer.LT:       bytecode.LT,
	lexer.GT:       bytecode.GT,
	lexer.LE:       bytecode.LE,
	lexer.GE:       bytecode.GE,
}

// genExpr emits code leaving exactly one value on the stack.
func (g *Generator) genExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Literal:
		g.pushConst(e, e.Value)
	case *ast.Ident:
		g.genIdent(e)
	case *ast.BinaryExpr:
		g.genBinaryExpr(e)
	case *ast.UnaryExpr:
		g.genUnaryExpr(e)
	case *ast.AssignExpr:
		g.genAssignExpr(e)
	case *ast.CallExpr:
		g.genExpr(e.Callee)
		for _, arg := range e.Args {
			g.genExpr(arg)
		}
		g.emit(e, bytecode.CALL, len(e.Args))
	case *ast.MemberExpr:
		g.genExpr(e.Object)
		g.emit(e, bytecode.LOAD_ATTR, g.constant(e.Name.Name))
	case *ast.ArrayLit:
		for _, el := range e.Elements {
			g.genExpr(el)
		}
		g.emit(e, bytecode.BUILD_ARRAY, len(e.Elements))
	case *ast.AwaitExpr:
		g.genExpr(e.Value)
		g.emit(e, bytecode.AWAIT)
	case *ast.BlockExpr:
		g.genBlockExpr(e)
	case *ast.MatchExpr:
		g.genMatchExpr(e)
	case nil:
		// Parser recovery can leave holes; keep the stack balanced.
		g.emit(nil, bytecode.PUSH_CONST, g.constant(nil))
	default:
		g.reportError(diag.CodeGenUnsupportedNode, expr, "cannot generate code for %T", expr)
		g.emit(expr, bytecode.NOP)
		g.pushConst(expr, nil)
	}
}

func (g *Generator) genIdent(id *ast.Ident) {
	if slot, ok := g.frame.resolve(id.Name); ok {
		g.emit(id, bytecode.LOAD_LOCAL, slot)
		return
	}
	g.emit(id, bytecode.LOAD_GLOBAL, g.constant(id.Name))
}

func (g *Generator) genBinaryExpr(e *ast.BinaryExpr) {
	switch e.Op {
	case lexer.AND:
		g.genShortCircuit(e, bytecode.JUMP_IF_FALSE)
		return
	case lexer.OR:
		g.genShortCircuit(e, bytecode.JUMP_IF_TRUE)
		return
	}

	g.genExpr(e.Left)
	g.genExpr(e.Right)

	op, ok := binaryOps[e.Op]
	if !ok {
		g.reportError(diag.CodeGenUnsupportedNode, e, "unsupported binary operator '%s'", e.Op)
		op = bytecode.NOP
	}
	g.emit(e, op)
}

// genShortCircuit keeps the left operand as the result when it decides the
// outcome, otherwise discards it and evaluates the right operand.
func (g *Generator) genShortCircuit(e *ast.BinaryExpr, jump bytecode.Opcode) {
	g.genExpr(e.Left)
	g.emit(e, bytecode.DUP)
	end := g.emitJump(e, jump)
	g.emit(e, bytecode.POP)
	g.genExpr(e.Right)
	g.patchHere(end)
}

func (g *Generator) genUnaryExpr(e *ast.UnaryExpr) {
	g.genExpr(e.Operand)
	switch e.Op {
	case lexer.MINUS:
		g.emit(e, bytecode.NEG)
	case lexer.BANG:
		g.emit(e, bytecode.NOT)
	default:
		g.reportError(diag.CodeGenUnsupportedNode, e, "unsupported unary operator '%s'", e.Op)
		g.emit(e, bytecode.NOP)
	}
}

// genAssignExpr stores the value and leaves it on the stack. Assigning an
// unbound name declares it in the current scope.
func (g *Generator) genAssignExpr(e *ast.AssignExpr) {
	switch target := e.Target.(type) {
	case *ast.Ident:
		g.genExpr(e.Value)
		g.emit(e, bytecode.DUP)
		slot, ok := g.frame.resolve(target.Name)
		if !ok {
			slot, _ = g.frame.declare(target.Name)
		}
		g.emit(e, bytecode.STORE_LOCAL, slot)
	case *ast.MemberExpr:
		g.genExpr(target.Object)
		g.genExpr(e.Value)
		g.emit(e, bytecode.STORE_ATTR, g.constant(target.Name.Name))
	default:
		g.reportError(diag.CodeGenInvalidAssignTarget, e.Target, "invalid assignment target")
		g.genExpr(e.Value)
	}
}

// genBlockExpr evaluates to its trailing expression statement, or none.
func (g *Generator) genBlockExpr(e *ast.BlockExpr) {
	g.frame.pushScope()
	defer g.frame.popScope()

	n := len(e.Stmts)
	if n == 0 {
		g.pushConst(e, nil)
		return
	}
	for _, stmt := range e.Stmts[:n-1] {
		g.genStmt(stmt)
	}
	if last, ok := e.Stmts[n-1].(*ast.ExprStmt); ok {
		g.genExpr(last.Expr)
		return
	}
	g.genStmt(e.Stmts[n-1])
	g.pushConst(e, nil)
}
