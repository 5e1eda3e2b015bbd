package parser_test

import (
	"strings"
	"testing"

	"github.com/noodle-lang/noodlec/internal/ast"
	"github.com/noodle-lang/noodlec/internal/lexer"
	"github.com/noodle-lang/noodlec/internal/parser"
)

func parseProgram(t *testing.T, src string) (*ast.Program, []parser.ParseError) {
	t.Helper()

	p := parser.New(src)
	prog := p.ParseProgram()

	return prog, p.Errors()
}

func assertNoErrors(t *testing.T, errs []parser.ParseError) {
	t.Helper()

	if len(errs) == 0 {
		return
	}

	for _, err := range errs {
		t.Errorf("unexpected parse error: %s", err.Message)
	}
	t.Fatalf("parser reported %d error(s)", len(errs))
}

func singleStmt[T ast.Stmt](t *testing.T, prog *ast.Program) T {
	t.Helper()

	if len(prog.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Stmts))
	}
	stmt, ok := prog.Stmts[0].(T)
	if !ok {
		t.Fatalf("expected %T, got %T", *new(T), prog.Stmts[0])
	}
	return stmt
}

func TestParseLetStmtWithType(t *testing.T) {
	prog, errs := parseProgram(t, `let x: number = 42;`)
	assertNoErrors(t, errs)

	let := singleStmt[*ast.LetStmt](t, prog)
	if let.Name.Name != "x" {
		t.Fatalf("expected name x, got %q", let.Name.Name)
	}
	if let.Type == nil || let.Type.Name != "number" {
		t.Fatalf("expected type number, got %v", let.Type)
	}
	lit, ok := let.Value.(*ast.Literal)
	if !ok {
		t.Fatalf("expected literal value, got %T", let.Value)
	}
	if lit.Value != int64(42) {
		t.Fatalf("expected 42, got %#v", lit.Value)
	}
}

func TestParseLetStmtWithoutValue(t *testing.T) {
	prog, errs := parseProgram(t, `let pending;`)
	assertNoErrors(t, errs)

	let := singleStmt[*ast.LetStmt](t, prog)
	if let.Value != nil {
		t.Fatalf("expected nil value, got %T", let.Value)
	}
}

func TestParseGenericFunction(t *testing.T) {
	prog, errs := parseProgram(t, `def identity<T: Comparable>(value: T): T { return value; }`)
	assertNoErrors(t, errs)

	fn := singleStmt[*ast.FnDecl](t, prog)
	if fn.Name.Name != "identity" {
		t.Fatalf("expected name identity, got %q", fn.Name.Name)
	}
	if len(fn.TypeParams) != 1 {
		t.Fatalf("expected 1 type parameter, got %d", len(fn.TypeParams))
	}
	tp := fn.TypeParams[0]
	if tp.Name.Name != "T" {
		t.Fatalf("expected type parameter T, got %q", tp.Name.Name)
	}
	if tp.Bound == nil || tp.Bound.Name != "Comparable" {
		t.Fatalf("expected bound Comparable, got %v", tp.Bound)
	}
	if len(fn.Params) != 1 || fn.Params[0].Name.Name != "value" || fn.Params[0].Type.Name != "T" {
		t.Fatalf("unexpected params %+v", fn.Params)
	}
	if fn.ReturnType == nil || fn.ReturnType.Name != "T" {
		t.Fatalf("expected return type T, got %v", fn.ReturnType)
	}
	if fn.Body == nil || len(fn.Body.Stmts) != 1 {
		t.Fatalf("expected a single body statement")
	}
	if _, ok := fn.Body.Stmts[0].(*ast.ReturnStmt); !ok {
		t.Fatalf("expected return statement, got %T", fn.Body.Stmts[0])
	}
}

func TestParseMultipleTypeParams(t *testing.T) {
	prog, errs := parseProgram(t, `def pair<K, V: Hashable<K>>(k: K, v: V) -> Map<K, V> { }`)
	assertNoErrors(t, errs)

	fn := singleStmt[*ast.FnDecl](t, prog)
	if len(fn.TypeParams) != 2 {
		t.Fatalf("expected 2 type parameters, got %d", len(fn.TypeParams))
	}
	if got := fn.TypeParams[1].Bound.String(); got != "Hashable<K>" {
		t.Fatalf("expected bound Hashable<K>, got %q", got)
	}
	if got := fn.ReturnType.String(); got != "Map<K, V>" {
		t.Fatalf("expected return type Map<K, V>, got %q", got)
	}
}

func TestParseAsyncFunction(t *testing.T) {
	prog, errs := parseProgram(t, `async def fetch(url) { return await get(url); }`)
	assertNoErrors(t, errs)

	fn := singleStmt[*ast.FnDecl](t, prog)
	if !fn.IsAsync {
		t.Fatalf("expected async function")
	}
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	if _, ok := ret.Value.(*ast.AwaitExpr); !ok {
		t.Fatalf("expected await expression, got %T", ret.Value)
	}
}

func TestParseTypeAnnotations(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`let a: number = 1;`, "number"},
		{`let a: List<string> = 1;`, "List<string>"},
		{`let a: number[] = 1;`, "number[]"},
		{`let a: string?;`, "string?"},
		{`let a: number | string;`, "number | string"},
	}

	for _, tt := range tests {
		prog, errs := parseProgram(t, tt.src)
		assertNoErrors(t, errs)

		let := singleStmt[*ast.LetStmt](t, prog)
		if got := let.Type.String(); got != tt.want {
			t.Fatalf("%s: expected type %q, got %q", tt.src, tt.want, got)
		}
	}
}

func TestParseClassDecl(t *testing.T) {
	const src = `
class Box<T> extends Base implements Show, Eq {
	let value: T;
	count: number = 0;
	def get(): T { return value; }
	async def load() { }
}
`
	prog, errs := parseProgram(t, src)
	assertNoErrors(t, errs)

	class := singleStmt[*ast.ClassDecl](t, prog)
	if class.Name.Name != "Box" {
		t.Fatalf("expected class Box, got %q", class.Name.Name)
	}
	if len(class.TypeParams) != 1 || class.TypeParams[0].Name.Name != "T" {
		t.Fatalf("unexpected type params %+v", class.TypeParams)
	}
	if class.Extends == nil || class.Extends.Name != "Base" {
		t.Fatalf("expected extends Base")
	}
	if len(class.Implements) != 2 {
		t.Fatalf("expected 2 implemented interfaces, got %d", len(class.Implements))
	}
	if len(class.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(class.Fields))
	}
	if class.Fields[1].Default == nil {
		t.Fatalf("expected default value on count")
	}
	if len(class.Methods) != 2 || !class.Methods[1].IsAsync {
		t.Fatalf("expected 2 methods with the second async")
	}
}

func TestParseUnclosedClassKeepsPartialDecl(t *testing.T) {
	prog, errs := parseProgram(t, `class Container<T> {`)

	if len(prog.Stmts) != 1 {
		t.Fatalf("expected partial class statement, got %d statements", len(prog.Stmts))
	}
	class, ok := prog.Stmts[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("expected class declaration, got %T", prog.Stmts[0])
	}
	if len(class.TypeParams) != 1 {
		t.Fatalf("expected type parameter T to be kept")
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if !strings.Contains(errs[0].Message, "unexpected end of input") {
		t.Fatalf("expected end of input error, got %q", errs[0].Message)
	}
}

func TestParseControlFlow(t *testing.T) {
	const src = `
while i < 10 {
	if i == 5 { break; } else if i == 2 { continue; } else { i = i + 1; }
}
for async item in stream() { print(item); }
async for row in rows { }
`
	prog, errs := parseProgram(t, src)
	assertNoErrors(t, errs)

	if len(prog.Stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(prog.Stmts))
	}
	loop := prog.Stmts[0].(*ast.WhileStmt)
	ifStmt := loop.Body.Stmts[0].(*ast.IfStmt)
	if _, ok := ifStmt.Else.(*ast.IfStmt); !ok {
		t.Fatalf("expected else-if chain, got %T", ifStmt.Else)
	}
	for i, stmt := range prog.Stmts[1:] {
		forStmt := stmt.(*ast.ForStmt)
		if !forStmt.IsAsync {
			t.Fatalf("for loop %d should be async", i)
		}
	}
}

func TestParseImports(t *testing.T) {
	prog, errs := parseProgram(t, `
import std.io;
import "vendor/json" as json;
from std.math import sqrt;
`)
	assertNoErrors(t, errs)

	want := []struct{ path, binding string }{
		{"std.io", "io"},
		{"vendor/json", "json"},
		{"std.math.sqrt", "sqrt"},
	}
	for i, w := range want {
		imp := prog.Stmts[i].(*ast.ImportStmt)
		if imp.Path != w.path || imp.BindingName() != w.binding {
			t.Fatalf("import %d: expected %s as %s, got %s as %s", i, w.path, w.binding, imp.Path, imp.BindingName())
		}
	}
}

func TestParseOperatorPrecedence(t *testing.T) {
	prog, errs := parseProgram(t, `x = 1 + 2 * 3 == 7 && !done;`)
	assertNoErrors(t, errs)

	stmt := singleStmt[*ast.ExprStmt](t, prog)
	assign, ok := stmt.Expr.(*ast.AssignExpr)
	if !ok {
		t.Fatalf("expected assignment, got %T", stmt.Expr)
	}
	and, ok := assign.Value.(*ast.BinaryExpr)
	if !ok || and.Op != lexer.AND {
		t.Fatalf("expected && at the top, got %#v", assign.Value)
	}
	eq := and.Left.(*ast.BinaryExpr)
	if eq.Op != lexer.EQ {
		t.Fatalf("expected == under &&, got %s", eq.Op)
	}
	sum := eq.Left.(*ast.BinaryExpr)
	if sum.Op != lexer.PLUS {
		t.Fatalf("expected + under ==, got %s", sum.Op)
	}
	if product := sum.Right.(*ast.BinaryExpr); product.Op != lexer.ASTERISK {
		t.Fatalf("expected * bound tighter than +, got %s", product.Op)
	}
	if _, ok := and.Right.(*ast.UnaryExpr); !ok {
		t.Fatalf("expected unary on the right of &&, got %T", and.Right)
	}
}

func TestParseComparisonIsNotGeneric(t *testing.T) {
	prog, errs := parseProgram(t, `let ok = a < b && c > d;`)
	assertNoErrors(t, errs)

	let := singleStmt[*ast.LetStmt](t, prog)
	and := let.Value.(*ast.BinaryExpr)
	if and.Op != lexer.AND {
		t.Fatalf("expected &&, got %s", and.Op)
	}
	if and.Left.(*ast.BinaryExpr).Op != lexer.LT || and.Right.(*ast.BinaryExpr).Op != lexer.GT {
		t.Fatalf("expected < and > comparisons")
	}
}

func TestParseCallsMembersAndArrays(t *testing.T) {
	prog, errs := parseProgram(t, `console.log([1, 2, 3,], obj.name);`)
	assertNoErrors(t, errs)

	stmt := singleStmt[*ast.ExprStmt](t, prog)
	call := stmt.Expr.(*ast.CallExpr)
	member := call.Callee.(*ast.MemberExpr)
	if member.Name.Name != "log" {
		t.Fatalf("expected member log, got %q", member.Name.Name)
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(call.Args))
	}
	if arr := call.Args[0].(*ast.ArrayLit); len(arr.Elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(arr.Elements))
	}
}

func TestParseNumberLiterals(t *testing.T) {
	tests := []struct {
		src  string
		want any
	}{
		{"1_000", int64(1000)},
		{"0xff", int64(255)},
		{"0b101", int64(5)},
		{"1.5", 1.5},
		{"2e3", 2000.0},
		{"1.0", 1.0},
	}

	for _, tt := range tests {
		prog, errs := parseProgram(t, tt.src+";")
		assertNoErrors(t, errs)

		stmt := singleStmt[*ast.ExprStmt](t, prog)
		lit := stmt.Expr.(*ast.Literal)
		if lit.Value != tt.want {
			t.Fatalf("%s: expected %#v, got %#v", tt.src, tt.want, lit.Value)
		}
	}
}

func TestParseOptionalSemicolons(t *testing.T) {
	const src = "let a = 1\nlet b = 2\ndef f() { return a }\nf()"
	prog, errs := parseProgram(t, src)
	assertNoErrors(t, errs)

	if len(prog.Stmts) != 4 {
		t.Fatalf("expected 4 statements, got %d", len(prog.Stmts))
	}
}

func TestParseMissingSemicolonOnSameLine(t *testing.T) {
	prog, errs := parseProgram(t, `let a = 1 let b = 2;`)

	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if errs[0].Message != "expected ';', found 'let'" {
		t.Fatalf("unexpected message %q", errs[0].Message)
	}
	if len(prog.Stmts) != 2 {
		t.Fatalf("expected parsing to continue with 2 statements, got %d", len(prog.Stmts))
	}
}

func TestParseEmptyProgram(t *testing.T) {
	prog, errs := parseProgram(t, "  # nothing here\n")
	assertNoErrors(t, errs)

	if len(prog.Stmts) != 0 {
		t.Fatalf("expected no statements, got %d", len(prog.Stmts))
	}
}

func TestParseTokensCountsEverything(t *testing.T) {
	p := parser.New(`let x = 1;`)
	p.ParseProgram()

	if p.TokenCount() != 6 {
		t.Fatalf("expected 6 tokens, got %d", p.TokenCount())
	}
}
