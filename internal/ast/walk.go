package ast

// Walk traverses the AST starting from node, calling fn for each node.
// If fn returns false, Walk stops traversing that branch.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		walkStmts(n.Stmts, fn)

	case *LetStmt:
		if n.Name != nil {
			Walk(n.Name, fn)
		}
		if n.Type != nil {
			Walk(n.Type, fn)
		}
		if n.Value != nil {
			Walk(n.Value, fn)
		}

	case *FnDecl:
		if n.Name != nil {
			Walk(n.Name, fn)
		}
		for _, tp := range n.TypeParams {
			Walk(tp, fn)
		}
		for _, param := range n.Params {
			Walk(param, fn)
		}
		if n.ReturnType != nil {
			Walk(n.ReturnType, fn)
		}
		if n.Body != nil {
			Walk(n.Body, fn)
		}

	case *Param:
		if n.Name != nil {
			Walk(n.Name, fn)
		}
		if n.Type != nil {
			Walk(n.Type, fn)
		}

	case *ClassDecl:
		if n.Name != nil {
			Walk(n.Name, fn)
		}
		for _, tp := range n.TypeParams {
			Walk(tp, fn)
		}
		if n.Extends != nil {
			Walk(n.Extends, fn)
		}
		for _, iface := range n.Implements {
			Walk(iface, fn)
		}
		for _, field := range n.Fields {
			Walk(field, fn)
		}
		for _, method := range n.Methods {
			Walk(method, fn)
		}

	case *Field:
		if n.Name != nil {
			Walk(n.Name, fn)
		}
		if n.Type != nil {
			Walk(n.Type, fn)
		}
		if n.Default != nil {
			Walk(n.Default, fn)
		}

	case *TypeParam:
		if n.Name != nil {
			Walk(n.Name, fn)
		}
		if n.Bound != nil {
			Walk(n.Bound, fn)
		}

	case *TypeRef:
		for _, arg := range n.TypeArgs {
			Walk(arg, fn)
		}
		if n.UnionWith != nil {
			Walk(n.UnionWith, fn)
		}

	case *BlockStmt:
		walkStmts(n.Stmts, fn)

	case *ExprStmt:
		if n.Expr != nil {
			Walk(n.Expr, fn)
		}

	case *ReturnStmt:
		if n.Value != nil {
			Walk(n.Value, fn)
		}

	case *IfStmt:
		if n.Cond != nil {
			Walk(n.Cond, fn)
		}
		if n.Then != nil {
			Walk(n.Then, fn)
		}
		if n.Else != nil {
			Walk(n.Else, fn)
		}

	case *WhileStmt:
		if n.Cond != nil {
			Walk(n.Cond, fn)
		}
		if n.Body != nil {
			Walk(n.Body, fn)
		}

	case *ForStmt:
		if n.Binding != nil {
			Walk(n.Binding, fn)
		}
		if n.Iterable != nil {
			Walk(n.Iterable, fn)
		}
		if n.Body != nil {
			Walk(n.Body, fn)
		}

	case *ImportStmt:
		if n.Alias != nil {
			Walk(n.Alias, fn)
		}

	case *BinaryExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)

	case *UnaryExpr:
		Walk(n.Operand, fn)

	case *AwaitExpr:
		Walk(n.Value, fn)

	case *AssignExpr:
		Walk(n.Target, fn)
		Walk(n.Value, fn)

	case *CallExpr:
		Walk(n.Callee, fn)
		for _, arg := range n.Args {
			Walk(arg, fn)
		}

	case *MemberExpr:
		Walk(n.Object, fn)
		if n.Name != nil {
			Walk(n.Name, fn)
		}

	case *ArrayLit:
		for _, elem := range n.Elements {
			Walk(elem, fn)
		}

	case *BlockExpr:
		walkStmts(n.Stmts, fn)

	case *MatchExpr:
		Walk(n.Subject, fn)
		for _, c := range n.Cases {
			Walk(c, fn)
		}

	case *MatchCase:
		if n.Pattern != nil {
			Walk(n.Pattern, fn)
		}
		if n.Guard != nil {
			Walk(n.Guard, fn)
		}
		if n.Body != nil {
			Walk(n.Body, fn)
		}

	case *LiteralPattern:
		if n.Value != nil {
			Walk(n.Value, fn)
		}

	case *IdentPattern:
		if n.Name != nil {
			Walk(n.Name, fn)
		}
	}
}

func walkStmts(stmts []Stmt, fn func(Node) bool) {
	for _, stmt := range stmts {
		Walk(stmt, fn)
	}
}

// Count returns the number of nodes reachable from node, node included.
func Count(node Node) int {
	n := 0
	Walk(node, func(Node) bool {
		n++
		return true
	})
	return n
}
