package ast_test

import (
	"strings"
	"testing"

	"github.com/noodle-lang/noodlec/internal/ast"
	"github.com/noodle-lang/noodlec/internal/parser"
)

func TestFprint(t *testing.T) {
	src := "let x: number[] = 1 + 2;\nasync def f(a) { return -a; }\n"
	p := parser.New(src)
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}

	var b strings.Builder
	if err := ast.Fprint(&b, prog); err != nil {
		t.Fatalf("Fprint failed: %v", err)
	}

	want := []string{
		"Program @1:1",
		"  LetStmt @1:1",
		"    Ident x @1:5",
		"    TypeRef number[] @1:8",
		"    BinaryExpr + @1:19",
		"      Literal number 1 @1:19",
		"      Literal number 2 @1:23",
		"  FnDecl async @2:1",
		"    Ident f @2:11",
		"    Param @2:13",
		"      Ident a @2:13",
		"    BlockStmt @2:16",
		"      ReturnStmt @2:18",
		"        UnaryExpr - @2:25",
		"          Ident a @2:26",
	}
	got := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(want), len(got), b.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i+1, want[i], got[i])
		}
	}
}

func TestFprintTypeRefChildrenOmitted(t *testing.T) {
	p := parser.New("let m: Map<K, V> = none;")
	prog := p.ParseProgram()

	var b strings.Builder
	if err := ast.Fprint(&b, prog); err != nil {
		t.Fatalf("Fprint failed: %v", err)
	}
	if strings.Count(b.String(), "TypeRef") != 1 {
		t.Fatalf("expected a single TypeRef line, got:\n%s", b.String())
	}
	if !strings.Contains(b.String(), "TypeRef Map<K, V>") {
		t.Fatalf("expected rendered type, got:\n%s", b.String())
	}
}
