package optimize_test

import (
	"testing"

	"github.com/noodle-lang/noodlec/internal/ast"
	"github.com/noodle-lang/noodlec/internal/optimize"
	"github.com/noodle-lang/noodlec/internal/parser"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()

	p := parser.New(src)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, errs)
	}
	return prog
}

func exprOf(t *testing.T, prog *ast.Program) ast.Expr {
	t.Helper()

	if len(prog.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Stmts))
	}
	stmt, ok := prog.Stmts[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected expression statement, got %T", prog.Stmts[0])
	}
	return stmt.Expr
}

func TestFoldConstants(t *testing.T) {
	tests := []struct {
		src   string
		want  any
		folds int
	}{
		{`1 + 2 * 3;`, int64(7), 2},
		{`8 / 2;`, int64(4), 1},
		{`7 % 3;`, int64(1), 1},
		{`10 - 20;`, int64(-10), 1},
		{`1.5 + 1.5;`, float64(3), 1},
		{`1 + 0.5;`, float64(1.5), 1},
		{`-(2 + 3);`, int64(-5), 2},
		{`"noo" + "dle";`, "noodle", 1},
		{`"a" < "b";`, true, 1},
		{`3 >= 4;`, false, 1},
		{`true && false;`, false, 1},
		{`!true || true;`, true, 2},
		{`none == none;`, true, 1},
		{`2.5 != 2.5;`, false, 1},
		{`1 == 1.0;`, true, 1},
		{`2 != 2.0;`, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			prog := parse(t, tt.src)

			if n := optimize.FoldConstants(prog); n != tt.folds {
				t.Fatalf("expected %d folds, got %d", tt.folds, n)
			}
			lit, ok := exprOf(t, prog).(*ast.Literal)
			if !ok {
				t.Fatalf("expected a literal, got %T", exprOf(t, prog))
			}
			if lit.Value != tt.want {
				t.Fatalf("expected %#v, got %#v", tt.want, lit.Value)
			}
		})
	}
}

func TestFoldConstantsLeavesRuntimeCases(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"division by zero", `1 / 0;`},
		{"float division by zero", `1.0 / 0.0;`},
		{"inexact integer division", `7 / 2;`},
		{"modulo by zero", `5 % 0;`},
		{"float modulo", `5.5 % 2.0;`},
		{"overflow", `9223372036854775807 + 1;`},
		{"mixed kinds", `1 == "1";`},
		{"string arithmetic", `"a" - "b";`},
		{"non-literal operand", `x + 1;`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := parse(t, tt.src)

			if n := optimize.FoldConstants(prog); n != 0 {
				t.Fatalf("expected no folds, got %d", n)
			}
			if _, ok := exprOf(t, prog).(*ast.BinaryExpr); !ok {
				t.Fatalf("expected binary expression to survive, got %T", exprOf(t, prog))
			}
		})
	}
}

func TestFoldConstantsNegativeModuloStaysPartial(t *testing.T) {
	prog := parse(t, `-7 % 2;`)

	if n := optimize.FoldConstants(prog); n != 1 {
		t.Fatalf("expected only the negation to fold, got %d folds", n)
	}
	bin, ok := exprOf(t, prog).(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected modulo to survive, got %T", exprOf(t, prog))
	}
	if left := bin.Left.(*ast.Literal); left.Value != int64(-7) {
		t.Fatalf("expected folded -7, got %#v", left.Value)
	}
}

func TestFoldConstantsReachesNestedCode(t *testing.T) {
	prog := parse(t, `
def f(a) {
	let x = 2 * 3;
	while a < 1 + 1 {
		print([4 - 1, a]);
	}
	return match a { 1 => 10 * 10, _ => a };
}
`)

	if n := optimize.FoldConstants(prog); n != 4 {
		t.Fatalf("expected 4 folds, got %d", n)
	}

	fn := prog.Stmts[0].(*ast.FnDecl)
	let := fn.Body.Stmts[0].(*ast.LetStmt)
	if lit, ok := let.Value.(*ast.Literal); !ok || lit.Value != int64(6) {
		t.Fatalf("expected let value 6, got %#v", let.Value)
	}
}

func TestFoldConstantsKeepsSpan(t *testing.T) {
	prog := parse(t, `let x = 40 + 2;`)
	let := prog.Stmts[0].(*ast.LetStmt)
	want := let.Value.Span()

	optimize.FoldConstants(prog)

	if got := let.Value.Span(); got != want {
		t.Fatalf("expected folded literal to keep span %+v, got %+v", want, got)
	}
}
