package optimize

import (
	"github.com/noodle-lang/noodlec/internal/ast"
	"github.com/noodle-lang/noodlec/internal/lexer"
)

// PruneMatches collapses match expressions whose subject is a literal and
// whose first matching case can be decided without evaluating a guard. The
// match is replaced by the chosen arm's body; a binder arm becomes a block
// that binds the subject first. It returns the number of matches collapsed.
func PruneMatches(prog *ast.Program) int {
	pruned := 0
	r := &exprRewriter{fn: func(expr ast.Expr) ast.Expr {
		m, ok := expr.(*ast.MatchExpr)
		if !ok {
			return expr
		}
		subject, ok := m.Subject.(*ast.Literal)
		if !ok {
			return expr
		}
		chosen := selectCase(subject, m.Cases)
		if chosen == nil {
			return expr
		}
		pruned++
		return collapse(subject, chosen, m)
	}}
	r.program(prog)
	return pruned
}

// selectCase returns the first case that certainly matches subject, or nil
// when that cannot be decided statically.
func selectCase(subject *ast.Literal, cases []*ast.MatchCase) *ast.MatchCase {
	for _, c := range cases {
		if c.Guard != nil {
			return nil
		}
		switch pat := c.Pattern.(type) {
		case *ast.WildcardPattern, *ast.IdentPattern:
			return c
		case *ast.LiteralPattern:
			match, decidable := literalsMatch(subject, pat.Value)
			if !decidable {
				return nil
			}
			if match {
				return c
			}
		default:
			return nil
		}
	}
	return nil
}

// literalsMatch compares two literals with the same equality constant
// folding gives '==', so the int 1 matches the float 1.0.
func literalsMatch(a, b *ast.Literal) (match, decidable bool) {
	if a.Kind != b.Kind {
		return false, true
	}
	if a.Kind == ast.LiteralNumber {
		eq, ok := foldNumbers(lexer.EQ, a.Value, b.Value)
		if !ok {
			return false, false
		}
		return eq.(bool), true
	}
	return a.Value == b.Value, true
}

func collapse(subject *ast.Literal, chosen *ast.MatchCase, m *ast.MatchExpr) ast.Expr {
	binder, ok := chosen.Pattern.(*ast.IdentPattern)
	if !ok {
		return chosen.Body
	}

	bind := ast.NewLetStmt(binder.Name, nil, subject, binder.Span())
	body := ast.NewExprStmt(chosen.Body, chosen.Body.Span())
	return ast.NewBlockExpr([]ast.Stmt{bind, body}, m.Span())
}
