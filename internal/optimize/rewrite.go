package optimize

import "github.com/noodle-lang/noodlec/internal/ast"

// exprRewriter visits every expression in post-order and replaces it with
// the result of fn. Children are rewritten before their parents so folds
// cascade upward in a single pass.
type exprRewriter struct {
	fn func(ast.Expr) ast.Expr
}

func (r *exprRewriter) program(prog *ast.Program) {
	r.stmts(prog.Stmts)
}

func (r *exprRewriter) stmts(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		r.stmt(stmt)
	}
}

func (r *exprRewriter) block(b *ast.BlockStmt) {
	if b != nil {
		r.stmts(b.Stmts)
	}
}

func (r *exprRewriter) stmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		s.Value = r.expr(s.Value)
	case *ast.ExprStmt:
		s.Expr = r.expr(s.Expr)
	case *ast.ReturnStmt:
		s.Value = r.expr(s.Value)
	case *ast.FnDecl:
		r.block(s.Body)
	case *ast.ClassDecl:
		for _, field := range s.Fields {
			field.Default = r.expr(field.Default)
		}
		for _, method := range s.Methods {
			r.block(method.Body)
		}
	case *ast.BlockStmt:
		r.stmts(s.Stmts)
	case *ast.IfStmt:
		s.Cond = r.expr(s.Cond)
		r.block(s.Then)
		if s.Else != nil {
			r.stmt(s.Else)
		}
	case *ast.WhileStmt:
		s.Cond = r.expr(s.Cond)
		r.block(s.Body)
	case *ast.ForStmt:
		s.Iterable = r.expr(s.Iterable)
		r.block(s.Body)
	}
}

func (r *exprRewriter) expr(expr ast.Expr) ast.Expr {
	if expr == nil {
		return nil
	}

	switch e := expr.(type) {
	case *ast.BinaryExpr:
		e.Left = r.expr(e.Left)
		e.Right = r.expr(e.Right)
	case *ast.UnaryExpr:
		e.Operand = r.expr(e.Operand)
	case *ast.AwaitExpr:
		e.Value = r.expr(e.Value)
	case *ast.AssignExpr:
		e.Target = r.expr(e.Target)
		e.Value = r.expr(e.Value)
	case *ast.CallExpr:
		e.Callee = r.expr(e.Callee)
		for i, arg := range e.Args {
			e.Args[i] = r.expr(arg)
		}
	case *ast.MemberExpr:
		e.Object = r.expr(e.Object)
	case *ast.ArrayLit:
		for i, elem := range e.Elements {
			e.Elements[i] = r.expr(elem)
		}
	case *ast.BlockExpr:
		r.stmts(e.Stmts)
	case *ast.MatchExpr:
		e.Subject = r.expr(e.Subject)
		for _, c := range e.Cases {
			c.Guard = r.expr(c.Guard)
			c.Body = r.expr(c.Body)
		}
	}

	return r.fn(expr)
}
