package diag_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/noodle-lang/noodlec/internal/diag"
	"github.com/noodle-lang/noodlec/internal/lexer"
)

func TestFromLexerError(t *testing.T) {
	err := lexer.LexerError{
		Kind:    lexer.ErrUnterminatedString,
		Message: "unterminated string literal",
		Span: lexer.Span{
			Filename: "main.nd",
			Line:     1,
			Column:   3,
			Start:    2,
			End:      6,
		},
	}

	diagnostic := err.ToDiagnostic()

	if diagnostic.Stage != diag.StageLexer {
		t.Fatalf("expected stage %q, got %q", diag.StageLexer, diagnostic.Stage)
	}
	if diagnostic.Code != diag.CodeLexerUnterminatedString {
		t.Fatalf("expected code %q, got %q", diag.CodeLexerUnterminatedString, diagnostic.Code)
	}
	if diagnostic.Message != err.Message {
		t.Fatalf("expected message %q, got %q", err.Message, diagnostic.Message)
	}
	if diagnostic.Severity != diag.SeverityError {
		t.Fatalf("expected severity %q, got %q", diag.SeverityError, diagnostic.Severity)
	}

	wantSpan := diag.Span{
		Filename: "main.nd",
		Line:     err.Span.Line,
		Column:   err.Span.Column,
		Start:    err.Span.Start,
		End:      err.Span.End,
	}
	if diagnostic.Span != wantSpan {
		t.Fatalf("expected span %+v, got %+v", wantSpan, diagnostic.Span)
	}
}

func TestSpanString(t *testing.T) {
	tests := []struct {
		span diag.Span
		want string
	}{
		{diag.Span{Filename: "a.nd", Line: 2, Column: 5}, "a.nd:2:5"},
		{diag.Span{Line: 1, Column: 1}, "1:1"},
	}

	for i, tt := range tests {
		if got := tt.span.String(); got != tt.want {
			t.Fatalf("tests[%d] - expected %q, got %q", i, tt.want, got)
		}
	}
}

func TestHasErrorsAndCount(t *testing.T) {
	diags := []diag.Diagnostic{
		{Severity: diag.SeverityWarning, Message: "w1"},
		{Severity: diag.SeverityWarning, Message: "w2"},
	}

	if diag.HasErrors(diags) {
		t.Fatalf("expected no errors among warnings")
	}

	diags = append(diags, diag.Diagnostic{Severity: diag.SeverityError, Message: "e"})
	if !diag.HasErrors(diags) {
		t.Fatalf("expected HasErrors to be true")
	}
	if got := diag.Count(diags, diag.SeverityWarning); got != 2 {
		t.Fatalf("expected 2 warnings, got %d", got)
	}
}

func TestFormatterPrintsSnippet(t *testing.T) {
	src := "let x = 1;\nlet y = @;\n"
	var buf bytes.Buffer

	f := diag.NewFormatter(&buf, diag.PlainStyles())
	f.AddSource("main.nd", src)
	f.Format(diag.Diagnostic{
		Stage:    diag.StageLexer,
		Severity: diag.SeverityError,
		Code:     diag.CodeLexerIllegalRune,
		Message:  `illegal character "@"`,
		Span:     diag.Span{Filename: "main.nd", Line: 2, Column: 9, Start: 19, End: 20},
	}.WithHelp("remove the character"))

	out := buf.String()
	for _, want := range []string{
		"error[LEXER_ILLEGAL_RUNE]: illegal character \"@\"",
		"--> main.nd:2:9",
		"2 | let y = @;",
		"        ^",
		"help: remove the character",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestFormatterWithoutSource(t *testing.T) {
	var buf bytes.Buffer

	f := diag.NewFormatter(&buf, diag.PlainStyles())
	f.Format(diag.Diagnostic{
		Severity: diag.SeverityWarning,
		Message:  "unreachable match case",
		Span:     diag.Span{Filename: "other.nd", Line: 3, Column: 1},
	})

	out := buf.String()
	if !strings.Contains(out, "warning: unreachable match case") {
		t.Fatalf("missing header in %q", out)
	}
	if !strings.Contains(out, "--> other.nd:3:1") {
		t.Fatalf("missing location in %q", out)
	}
}
