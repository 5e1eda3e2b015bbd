package parser_test

import (
	"testing"

	"github.com/noodle-lang/noodlec/internal/ast"
	"github.com/noodle-lang/noodlec/internal/diag"
)

func parseMatch(t *testing.T, src string) (*ast.MatchExpr, int) {
	t.Helper()

	prog, errs := parseProgram(t, src)
	stmt := singleStmt[*ast.ExprStmt](t, prog)
	match, ok := stmt.Expr.(*ast.MatchExpr)
	if !ok {
		t.Fatalf("expected match expression, got %T", stmt.Expr)
	}
	return match, len(errs)
}

func TestParseMatchArrowForm(t *testing.T) {
	match, nerr := parseMatch(t, `match x { _ => "wildcard", 1 => "one" }`)
	if nerr != 0 {
		t.Fatalf("expected no errors, got %d", nerr)
	}

	if len(match.Cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(match.Cases))
	}
	if _, ok := match.Cases[0].Pattern.(*ast.WildcardPattern); !ok {
		t.Fatalf("expected wildcard first, got %T", match.Cases[0].Pattern)
	}
	lit, ok := match.Cases[1].Pattern.(*ast.LiteralPattern)
	if !ok {
		t.Fatalf("expected literal pattern second, got %T", match.Cases[1].Pattern)
	}
	if lit.Value.Value != int64(1) {
		t.Fatalf("expected literal 1, got %#v", lit.Value.Value)
	}
	body := match.Cases[0].Body.(*ast.Literal)
	if body.Value != "wildcard" {
		t.Fatalf("expected body \"wildcard\", got %#v", body.Value)
	}
}

func TestParseMatchCaseForm(t *testing.T) {
	const src = `match code {
	case 200 => "ok";
	case -1: "negative";
	case n when n > 500: { log(n); "server" };
	case _ => "other";
}`
	match, nerr := parseMatch(t, src)
	if nerr != 0 {
		t.Fatalf("expected no errors, got %d", nerr)
	}

	if len(match.Cases) != 4 {
		t.Fatalf("expected 4 cases, got %d", len(match.Cases))
	}
	neg := match.Cases[1].Pattern.(*ast.LiteralPattern)
	if neg.Value.Value != int64(-1) {
		t.Fatalf("expected -1, got %#v", neg.Value.Value)
	}
	guarded := match.Cases[2]
	if _, ok := guarded.Pattern.(*ast.IdentPattern); !ok {
		t.Fatalf("expected binder pattern, got %T", guarded.Pattern)
	}
	if guarded.Guard == nil {
		t.Fatalf("expected guard on third case")
	}
	if block, ok := guarded.Body.(*ast.BlockExpr); !ok || len(block.Stmts) != 2 {
		t.Fatalf("expected block body with 2 statements, got %#v", guarded.Body)
	}
	if _, ok := match.Cases[3].Pattern.(*ast.WildcardPattern); !ok {
		t.Fatalf("expected wildcard last")
	}
}

func TestParseMatchIfGuardAndTrailingComma(t *testing.T) {
	match, nerr := parseMatch(t, `match v { x if x > 0 => 1, none => 0, }`)
	if nerr != 0 {
		t.Fatalf("expected no errors, got %d", nerr)
	}

	if len(match.Cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(match.Cases))
	}
	if match.Cases[0].Guard == nil {
		t.Fatalf("expected if-guard on first case")
	}
	if lit := match.Cases[1].Pattern.(*ast.LiteralPattern); lit.Value.Kind != ast.LiteralNone {
		t.Fatalf("expected none literal pattern, got %s", lit.Value.Kind)
	}
}

func TestParseMatchBothFormsAgree(t *testing.T) {
	arrow, _ := parseMatch(t, `match x { 1 => "a", _ => "b" }`)
	cased, _ := parseMatch(t, `match x { case 1: "a"; case _: "b"; }`)

	if len(arrow.Cases) != len(cased.Cases) {
		t.Fatalf("case counts differ: %d vs %d", len(arrow.Cases), len(cased.Cases))
	}
	for i := range arrow.Cases {
		a := arrow.Cases[i]
		c := cased.Cases[i]
		if typeName(a.Pattern) != typeName(c.Pattern) {
			t.Fatalf("case %d: pattern %T vs %T", i, a.Pattern, c.Pattern)
		}
		if a.Body.(*ast.Literal).Value != c.Body.(*ast.Literal).Value {
			t.Fatalf("case %d: bodies differ", i)
		}
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *ast.WildcardPattern:
		return "wildcard"
	case *ast.LiteralPattern:
		return "literal"
	case *ast.IdentPattern:
		return "ident"
	default:
		return "other"
	}
}

func TestParseMatchMixedFormsReported(t *testing.T) {
	prog, errs := parseProgram(t, `match x { case 1: "a"; 2 => "b", }`)

	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if errs[0].Code != diag.CodeParserMixedMatchForms {
		t.Fatalf("expected mixed-forms code, got %s", errs[0].Code)
	}

	match := prog.Stmts[0].(*ast.ExprStmt).Expr.(*ast.MatchExpr)
	if len(match.Cases) != 2 {
		t.Fatalf("expected parsing to continue with 2 cases, got %d", len(match.Cases))
	}
}

func TestParseMatchAsLetValue(t *testing.T) {
	prog, errs := parseProgram(t, "let label = match n { 0 => \"zero\", _ => \"many\" }\nprint(label);")
	assertNoErrors(t, errs)

	if len(prog.Stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Stmts))
	}
	let := prog.Stmts[0].(*ast.LetStmt)
	if _, ok := let.Value.(*ast.MatchExpr); !ok {
		t.Fatalf("expected match value, got %T", let.Value)
	}
}
