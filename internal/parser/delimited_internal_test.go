package parser

import (
	"testing"

	"github.com/noodle-lang/noodlec/internal/diag"
	"github.com/noodle-lang/noodlec/internal/lexer"
)

func TestParseDelimited_AllowsEmpty(t *testing.T) {
	p := New("()")

	if p.curTok.Type != lexer.LPAREN {
		t.Fatalf("expected initial token '(', got %s", p.curTok.Type)
	}

	// Step into the list body; curTok is now the closing token.
	p.nextToken()

	cfg := delimitedConfig{
		Closing:    lexer.RPAREN,
		Separator:  lexer.COMMA,
		AllowEmpty: true,
	}

	res, ok := parseDelimited[string](p, cfg, func(int) (string, bool) {
		t.Fatalf("unexpected element parse invocation for empty list")
		return "", false
	})

	if !ok {
		t.Fatalf("expected success for empty list, got parse failure")
	}
	if len(res.Items) != 0 {
		t.Fatalf("expected zero elements, got %d", len(res.Items))
	}
	if p.curTok.Type != lexer.RPAREN {
		t.Fatalf("expected parser to remain on closing token, got %s", p.curTok.Type)
	}
}

func TestParseDelimited_ParsesMultipleElements(t *testing.T) {
	p := New("(foo, bar, baz)")
	p.nextToken()

	res, ok := parseDelimited[string](p, delimitedConfig{Closing: lexer.RPAREN}, parseIdentLiteral(p))
	if !ok {
		t.Fatalf("expected multi-element parse to succeed")
	}

	want := []string{"foo", "bar", "baz"}
	if len(res.Items) != len(want) {
		t.Fatalf("expected %d elements, got %d", len(want), len(res.Items))
	}
	for i, v := range want {
		if res.Items[i] != v {
			t.Fatalf("expected element %d to be %q, got %q", i, v, res.Items[i])
		}
	}
	if res.Trailing {
		t.Fatalf("expected trailing flag to be false without trailing comma")
	}
}

func TestParseDelimited_TrailingCommaPolicies(t *testing.T) {
	t.Run("rejects trailing comma when disallowed", func(t *testing.T) {
		p := New("(foo,)")
		p.nextToken()

		cfg := delimitedConfig{
			Closing: lexer.RPAREN,
			Element: "name",
		}

		if res, ok := parseDelimited[string](p, cfg, parseIdentLiteral(p)); ok {
			t.Fatalf("expected failure when trailing comma is disallowed, got %#v", res)
		}

		errs := p.Errors()
		if len(errs) == 0 {
			t.Fatalf("expected parser to record an error for trailing comma")
		}
		if errs[0].Message != "expected name, found ')'" {
			t.Fatalf("unexpected message %q", errs[0].Message)
		}
	})

	t.Run("accepts trailing comma when allowed", func(t *testing.T) {
		p := New("(foo,)")
		p.nextToken()

		cfg := delimitedConfig{
			Closing:       lexer.RPAREN,
			AllowTrailing: true,
		}

		res, ok := parseDelimited[string](p, cfg, parseIdentLiteral(p))
		if !ok {
			t.Fatalf("expected success when trailing comma is allowed")
		}
		if len(res.Items) != 1 || res.Items[0] != "foo" {
			t.Fatalf("expected single element 'foo', got %#v", res.Items)
		}
		if !res.Trailing {
			t.Fatalf("expected trailing flag to be set")
		}
		if len(p.Errors()) != 0 {
			t.Fatalf("expected no parse errors, got %v", p.Errors())
		}
	})
}

func TestParseDelimited_MissingSeparator(t *testing.T) {
	p := New("(foo bar)")
	p.nextToken()

	if _, ok := parseDelimited[string](p, delimitedConfig{Closing: lexer.RPAREN}, parseIdentLiteral(p)); ok {
		t.Fatalf("expected parse failure when separator is missing")
	}

	errs := p.Errors()
	if len(errs) == 0 {
		t.Fatalf("expected parser to record an error for missing separator")
	}
	if errs[0].Message != "expected ',' or ')', found identifier 'bar'" {
		t.Fatalf("unexpected message %q", errs[0].Message)
	}
}

func TestPeekTokenAtClampsToEOF(t *testing.T) {
	p := New("a b")

	if got := p.peekTokenAt(1).Literal; got != "b" {
		t.Fatalf("expected b one ahead, got %q", got)
	}
	if got := p.peekTokenAt(10).Type; got != lexer.EOF {
		t.Fatalf("expected EOF far ahead, got %s", got)
	}

	for i := 0; i < 5; i++ {
		p.nextToken()
	}
	if p.curTok.Type != lexer.EOF || p.peekTok.Type != lexer.EOF {
		t.Fatalf("expected parser to rest on EOF")
	}
}

func parseIdentLiteral(p *Parser) func(int) (string, bool) {
	return func(_ int) (string, bool) {
		if p.curTok.Type != lexer.IDENT {
			p.reportError("expected identifier", diag.CodeParserUnexpectedToken, p.curTok.Span)
			return "", false
		}

		return p.curTok.Literal, true
	}
}
