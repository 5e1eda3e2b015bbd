package optimize

import (
	"cmp"
	"math"

	"github.com/noodle-lang/noodlec/internal/ast"
	"github.com/noodle-lang/noodlec/internal/lexer"
)

// FoldConstants replaces literal-only unary and binary expressions with
// their value, rewriting prog in place. It returns the number of folds.
//
// Only evaluations whose result is unambiguous are folded: integer division
// must be exact, modulo needs non-negative integers, overflow and division by
// zero are left for the runtime, and operands of different kinds are never
// compared.
func FoldConstants(prog *ast.Program) int {
	folds := 0
	r := &exprRewriter{fn: func(expr ast.Expr) ast.Expr {
		var folded *ast.Literal
		switch e := expr.(type) {
		case *ast.BinaryExpr:
			folded = foldBinary(e)
		case *ast.UnaryExpr:
			folded = foldUnary(e)
		}
		if folded == nil {
			return expr
		}
		folds++
		return folded
	}}
	r.program(prog)
	return folds
}

func foldUnary(e *ast.UnaryExpr) *ast.Literal {
	operand, ok := e.Operand.(*ast.Literal)
	if !ok {
		return nil
	}

	switch e.Op {
	case lexer.MINUS:
		switch v := operand.Value.(type) {
		case int64:
			if v == math.MinInt64 {
				return nil
			}
			return ast.NewLiteral(ast.LiteralNumber, -v, e.Span())
		case float64:
			return ast.NewLiteral(ast.LiteralNumber, -v, e.Span())
		}
	case lexer.BANG:
		if v, ok := operand.Value.(bool); ok {
			return ast.NewLiteral(ast.LiteralBool, !v, e.Span())
		}
	}
	return nil
}

func foldBinary(e *ast.BinaryExpr) *ast.Literal {
	left, ok := e.Left.(*ast.Literal)
	if !ok {
		return nil
	}
	right, ok := e.Right.(*ast.Literal)
	if !ok {
		return nil
	}

	var value any
	switch {
	case left.Kind == ast.LiteralNumber && right.Kind == ast.LiteralNumber:
		value, ok = foldNumbers(e.Op, left.Value, right.Value)
	case left.Kind == ast.LiteralString && right.Kind == ast.LiteralString:
		value, ok = foldStrings(e.Op, left.Value.(string), right.Value.(string))
	case left.Kind == ast.LiteralBool && right.Kind == ast.LiteralBool:
		value, ok = foldBools(e.Op, left.Value.(bool), right.Value.(bool))
	case left.Kind == ast.LiteralNone && right.Kind == ast.LiteralNone:
		switch e.Op {
		case lexer.EQ:
			value, ok = true, true
		case lexer.NOT_EQ:
			value, ok = false, true
		default:
			ok = false
		}
	default:
		ok = false
	}
	if !ok {
		return nil
	}

	return ast.NewLiteral(kindOf(value), value, e.Span())
}

func kindOf(v any) ast.LiteralKind {
	switch v.(type) {
	case int64, float64:
		return ast.LiteralNumber
	case string:
		return ast.LiteralString
	case bool:
		return ast.LiteralBool
	default:
		return ast.LiteralNone
	}
}

func foldNumbers(op lexer.TokenType, l, r any) (any, bool) {
	li, lInt := l.(int64)
	ri, rInt := r.(int64)
	if lInt && rInt {
		return foldInts(op, li, ri)
	}
	return foldFloats(op, toFloat(l), toFloat(r))
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int64:
		return float64(n)
	case float64:
		return n
	default:
		return math.NaN()
	}
}

func foldInts(op lexer.TokenType, l, r int64) (any, bool) {
	switch op {
	case lexer.PLUS:
		sum := l + r
		if (sum > l) != (r > 0) {
			return nil, false
		}
		return sum, true
	case lexer.MINUS:
		diff := l - r
		if (diff < l) != (r > 0) {
			return nil, false
		}
		return diff, true
	case lexer.ASTERISK:
		if l == 0 || r == 0 {
			return int64(0), true
		}
		prod := l * r
		if prod/r != l || (l == -1 && r == math.MinInt64) || (r == -1 && l == math.MinInt64) {
			return nil, false
		}
		return prod, true
	case lexer.SLASH:
		if r == 0 || l%r != 0 || (l == math.MinInt64 && r == -1) {
			return nil, false
		}
		return l / r, true
	case lexer.PERCENT:
		if r <= 0 || l < 0 {
			return nil, false
		}
		return l % r, true
	}
	return compare(op, cmp.Compare(l, r))
}

func foldFloats(op lexer.TokenType, l, r float64) (any, bool) {
	if math.IsNaN(l) || math.IsNaN(r) {
		return nil, false
	}
	var result float64
	switch op {
	case lexer.PLUS:
		result = l + r
	case lexer.MINUS:
		result = l - r
	case lexer.ASTERISK:
		result = l * r
	case lexer.SLASH:
		if r == 0 {
			return nil, false
		}
		result = l / r
	case lexer.PERCENT:
		return nil, false
	default:
		return compare(op, cmp.Compare(l, r))
	}
	if math.IsInf(result, 0) {
		return nil, false
	}
	return result, true
}

func foldStrings(op lexer.TokenType, l, r string) (any, bool) {
	if op == lexer.PLUS {
		return l + r, true
	}
	return compare(op, cmp.Compare(l, r))
}

func foldBools(op lexer.TokenType, l, r bool) (any, bool) {
	switch op {
	case lexer.AND:
		return l && r, true
	case lexer.OR:
		return l || r, true
	case lexer.EQ:
		return l == r, true
	case lexer.NOT_EQ:
		return l != r, true
	default:
		return nil, false
	}
}

func compare(op lexer.TokenType, c int) (any, bool) {
	switch op {
	case lexer.EQ:
		return c == 0, true
	case lexer.NOT_EQ:
		return c != 0, true
	case lexer.LT:
		return c < 0, true
	case lexer.LE:
		return c <= 0, true
	case lexer.GT:
		return c > 0, true
	case lexer.GE:
		return c >= 0, true
	default:
		return nil, false
	}
}
