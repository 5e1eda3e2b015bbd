package codegen

import (
	"github.com/noodle-lang/noodlec/internal/ast"
	"github.com/noodle-lang/noodlec/internal/bytecode"
	"github.com/noodle-lang/noodlec/internal/diag"
)

func (g *Generator) genStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		g.genLetStmt(s)
	case *ast.FnDecl:
		g.genFnDecl(s)
	case *ast.ClassDecl:
		g.genClassDecl(s)
	case *ast.ExprStmt:
		g.genExpr(s.Expr)
		g.emit(s, bytecode.POP)
	case *ast.BlockStmt:
		g.genBlock(s)
	case *ast.ReturnStmt:
		g.genReturnStmt(s)
	case *ast.IfStmt:
		g.genIfStmt(s)
	case *ast.WhileStmt:
		g.genWhileStmt(s)
	case *ast.ForStmt:
		g.genForStmt(s)
	case *ast.BreakStmt:
		g.genBreakStmt(s)
	case *ast.ContinueStmt:
		g.genContinueStmt(s)
	case *ast.ImportStmt:
		g.genImportStmt(s)
	case nil:
	default:
		g.reportError(diag.CodeGenUnsupportedNode, stmt, "cannot generate code for %T", stmt)
		g.emit(stmt, bytecode.NOP)
	}
}

func (g *Generator) genBlock(block *ast.BlockStmt) {
	if block == nil {
		return
	}
	g.frame.pushScope()
	for _, stmt := range block.Stmts {
		g.genStmt(stmt)
	}
	g.frame.popScope()
}

func (g *Generator) genLetStmt(stmt *ast.LetStmt) {
	g.checkTypeRef(stmt.Type)

	if stmt.Value != nil {
		g.genExpr(stmt.Value)
	} else {
		g.pushConst(stmt, nil)
	}

	// The value is generated before the name is bound so `let x = x`
	// reads the outer binding.
	slot := g.bind(stmt.Name.Name, stmt.Name)
	g.emit(stmt, bytecode.STORE_LOCAL, slot)
}

func (g *Generator) genReturnStmt(stmt *ast.ReturnStmt) {
	if !g.frame.inFunction() {
		g.reportError(diag.CodeGenReturnOutsideFunction, stmt, "'return' outside of a function")
		g.emit(stmt, bytecode.NOP)
		return
	}

	if stmt.Value != nil {
		g.genExpr(stmt.Value)
	} else {
		g.pushConst(stmt, nil)
	}
	g.emit(stmt, bytecode.RETURN)
}

func (g *Generator) genIfStmt(stmt *ast.IfStmt) {
	g.genExpr(stmt.Cond)
	skipThen := g.emitJump(stmt, bytecode.JUMP_IF_FALSE)

	g.genBlock(stmt.Then)

	if stmt.Else == nil {
		g.patchHere(skipThen)
		return
	}

	skipElse := g.emitJump(stmt, bytecode.JUMP)
	g.patchHere(skipThen)
	g.genStmt(stmt.Else)
	g.patchHere(skipElse)
}

func (g *Generator) genWhileStmt(stmt *ast.WhileStmt) {
	start := g.here()
	g.genExpr(stmt.Cond)
	exit := g.emitJump(stmt, bytecode.JUMP_IF_FALSE)

	l := g.pushLoop(start)
	g.genBlock(stmt.Body)
	g.popLoop()

	g.emit(stmt, bytecode.JUMP, start)
	g.patchHere(exit)
	for _, pos := range l.breaks {
		g.patchHere(pos)
	}
}

// genForStmt lowers a for-in loop. FOR_ITER pushes the next element or, when
// the iterator is exhausted, pops it and jumps to its target. A break leaves
// the iterator on the stack, so breaks land on a POP placed after the loop.
func (g *Generator) genForStmt(stmt *ast.ForStmt) {
	g.genExpr(stmt.Iterable)
	g.emit(stmt, bytecode.GET_ITER, boolOperand(stmt.IsAsync))

	head := g.emitJump(stmt, bytecode.FOR_ITER)

	g.frame.pushScope()
	slot := g.bind(stmt.Binding.Name, stmt.Binding)
	g.emit(stmt.Binding, bytecode.STORE_LOCAL, slot)

	l := g.pushLoop(head)
	g.genBlock(stmt.Body)
	g.popLoop()
	g.frame.popScope()

	g.emit(stmt, bytecode.JUMP, head)

	if len(l.breaks) > 0 {
		for _, pos := range l.breaks {
			g.patchHere(pos)
		}
		g.emit(stmt, bytecode.POP)
	}
	g.patchHere(head)
}

func (g *Generator) genBreakStmt(stmt *ast.BreakStmt) {
	l := g.frame.currentLoop()
	if l == nil {
		g.reportError(diag.CodeGenLoopControlOutsideLoop, stmt, "'break' outside of a loop")
		g.emit(stmt, bytecode.NOP)
		return
	}
	l.breaks = append(l.breaks, g.emitJump(stmt, bytecode.JUMP))
}

func (g *Generator) genContinueStmt(stmt *ast.ContinueStmt) {
	l := g.frame.currentLoop()
	if l == nil {
		g.reportError(diag.CodeGenLoopControlOutsideLoop, stmt, "'continue' outside of a loop")
		g.emit(stmt, bytecode.NOP)
		return
	}
	g.emit(stmt, bytecode.JUMP, l.continueTarget)
}

func (g *Generator) genImportStmt(stmt *ast.ImportStmt) {
	g.emit(stmt, bytecode.IMPORT, g.constant(stmt.Path))

	var binding ast.Node = stmt
	if stmt.Alias != nil {
		binding = stmt.Alias
	}
	slot := g.bind(stmt.BindingName(), binding)
	g.emit(stmt, bytecode.STORE_LOCAL, slot)
}

func (g *Generator) pushLoop(continueTarget int) *loop {
	l := &loop{continueTarget: continueTarget}
	g.frame.loops = append(g.frame.loops, l)
	return l
}

func (g *Generator) popLoop() {
	g.frame.loops = g.frame.loops[:len(g.frame.loops)-1]
}

func boolOperand(b bool) int {
	if b {
		return 1
	}
	return 0
}
