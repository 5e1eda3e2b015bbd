package lexer

import (
	"strings"
	"testing"

	"github.com/noodle-lang/noodlec/internal/diag"
)

func TestLexerErrors_UnterminatedString(t *testing.T) {
	input := `"hello`
	l := New(input)

	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL token, got %q", tok.Type)
	}
	if tok.Raw != `"hello` {
		t.Fatalf("expected raw token %q, got %q", `"hello`, tok.Raw)
	}

	if len(l.Errors) != 1 {
		t.Fatalf("expected 1 lexer error, got %d", len(l.Errors))
	}

	err := l.Errors[0]
	if err.Kind != ErrUnterminatedString {
		t.Fatalf("expected ErrUnterminatedString, got %v", err.Kind)
	}
	if err.Message != "unterminated string literal" {
		t.Fatalf("unexpected error message %q", err.Message)
	}
	if err.Span.Line != 1 || err.Span.Column != 1 {
		t.Fatalf("expected span line=1 column=1, got line=%d column=%d", err.Span.Line, err.Span.Column)
	}
	if err.Span.Start != 0 || err.Span.End != len(input) {
		t.Fatalf("expected span [0,%d), got [%d,%d)", len(input), err.Span.Start, err.Span.End)
	}

	if next := l.NextToken(); next.Type != EOF {
		t.Fatalf("expected EOF after unterminated string, got %q", next.Type)
	}
}

func TestLexerErrors_NewlineInStringLiteral(t *testing.T) {
	input := "\"hello\nworld\""
	l := New(input)

	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL token, got %q", tok.Type)
	}
	if tok.Raw != "\"hello" {
		t.Fatalf("expected raw token %q, got %q", "\"hello", tok.Raw)
	}

	if len(l.Errors) != 1 {
		t.Fatalf("expected 1 lexer error, got %d", len(l.Errors))
	}
	if l.Errors[0].Message != "newline in string literal" {
		t.Fatalf("unexpected error message %q", l.Errors[0].Message)
	}
	if want := strings.IndexRune(input, '\n'); l.Errors[0].Span.End != want {
		t.Fatalf("expected span end %d, got %d", want, l.Errors[0].Span.End)
	}

	// scanning resumes on the next line
	next := l.NextToken()
	if next.Type != IDENT || next.Raw != "world" {
		t.Fatalf("expected identifier world, got %q %q", next.Type, next.Raw)
	}
	if next.Span.Line != 2 || next.Span.Column != 1 {
		t.Fatalf("expected 2:1, got %d:%d", next.Span.Line, next.Span.Column)
	}
}

func TestLexerErrors_UnterminatedBlockStringReportsOnce(t *testing.T) {
	input := "let s = \"\"\"never\nclosed \"quote\"\n\nlet t = 1;"
	toks, errs := Tokenize(input, "block.nd")

	if len(errs) != 1 {
		t.Fatalf("expected exactly 1 error, got %d: %+v", len(errs), errs)
	}
	if errs[0].Kind != ErrUnterminatedBlockString {
		t.Fatalf("expected ErrUnterminatedBlockString, got %v", errs[0].Kind)
	}
	if errs[0].Span.Filename != "block.nd" {
		t.Fatalf("expected filename block.nd, got %q", errs[0].Span.Filename)
	}

	// LET IDENT ASSIGN ILLEGAL EOF: everything after the opener is consumed
	expected := []TokenType{LET, IDENT, ASSIGN, ILLEGAL, EOF}
	if len(toks) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(toks))
	}
	for i, want := range expected {
		if toks[i].Type != want {
			t.Fatalf("tests[%d] - expected %q, got %q", i, want, toks[i].Type)
		}
	}
	if !strings.HasSuffix(toks[3].Raw, "let t = 1;") {
		t.Fatalf("expected error token to run to end of input, got %q", toks[3].Raw)
	}
}

func TestLexerErrors_IllegalRuneResumes(t *testing.T) {
	input := "let a = 1 @ 2 $;"
	toks, errs := Tokenize(input, "")

	expected := []TokenType{LET, IDENT, ASSIGN, INT, ILLEGAL, INT, ILLEGAL, SEMICOLON, EOF}
	if len(toks) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(toks))
	}
	for i, want := range expected {
		if toks[i].Type != want {
			t.Fatalf("tests[%d] - expected %q, got %q", i, want, toks[i].Type)
		}
	}

	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(errs))
	}
	if errs[0].Message != `illegal character "@"` {
		t.Fatalf("unexpected message %q", errs[0].Message)
	}
	if toks[4].Raw != "@" {
		t.Fatalf("expected the error token to carry the offending text, got %q", toks[4].Raw)
	}
}

func TestLexerErrors_SingleAmpersandIsIllegal(t *testing.T) {
	toks, errs := Tokenize("a & b", "")
	if toks[1].Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %q", toks[1].Type)
	}
	if len(errs) != 1 || errs[0].Kind != ErrIllegalRune {
		t.Fatalf("expected one illegal rune error, got %+v", errs)
	}
}

func TestLexerErrors_UnterminatedBlockComment(t *testing.T) {
	toks, errs := Tokenize("let a /* never closed", "")
	if len(errs) != 1 || errs[0].Kind != ErrUnterminatedBlockComment {
		t.Fatalf("expected one unterminated comment error, got %+v", errs)
	}
	if toks[len(toks)-1].Type != EOF {
		t.Fatalf("expected EOF last")
	}
}

func TestLexerErrors_InvalidHexEscape(t *testing.T) {
	l := New(`"\xZZ"`)
	tok := l.NextToken()
	if tok.Type != STRING {
		t.Fatalf("expected STRING, got %q", tok.Type)
	}
	if len(l.Errors) != 1 || l.Errors[0].Kind != ErrInvalidEscape {
		t.Fatalf("expected one invalid escape error, got %+v", l.Errors)
	}
}

func TestLexerError_ToDiagnostic(t *testing.T) {
	err := LexerError{
		Kind:    ErrUnterminatedBlockString,
		Message: "unterminated block string",
		Span:    Span{Filename: "x.nd", Line: 2, Column: 5, Start: 9, End: 30},
	}

	d := err.ToDiagnostic()
	if d.Stage != diag.StageLexer {
		t.Fatalf("expected stage %q, got %q", diag.StageLexer, d.Stage)
	}
	if d.Code != diag.CodeLexerUnterminatedBlockString {
		t.Fatalf("expected code %q, got %q", diag.CodeLexerUnterminatedBlockString, d.Code)
	}
	if d.Span.String() != "x.nd:2:5" {
		t.Fatalf("expected x.nd:2:5, got %s", d.Span)
	}
}
