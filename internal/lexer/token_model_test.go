package lexer

import (
	"testing"
)

func expectSpan(t *testing.T, tok Token, line, column, start, end int) {
	t.Helper()
	if tok.Span.Line != line || tok.Span.Column != column {
		t.Fatalf("%q: expected %d:%d, got %d:%d", tok.Raw, line, column, tok.Span.Line, tok.Span.Column)
	}
	if tok.Span.Start != start || tok.Span.End != end {
		t.Fatalf("%q: expected [%d,%d), got [%d,%d)", tok.Raw, start, end, tok.Span.Start, tok.Span.End)
	}
}

// TestTokenSpan_Basic tests that tokens have correct span information
func TestTokenSpan_Basic(t *testing.T) {
	l := New(`let x = 10;`)

	expectSpan(t, l.NextToken(), 1, 1, 0, 3)    // let
	expectSpan(t, l.NextToken(), 1, 5, 4, 5)    // x
	expectSpan(t, l.NextToken(), 1, 7, 6, 7)    // =
	expectSpan(t, l.NextToken(), 1, 9, 8, 10)   // 10
	expectSpan(t, l.NextToken(), 1, 11, 10, 11) // ;
	expectSpan(t, l.NextToken(), 1, 12, 11, 11) // EOF
}

// TestTokenSpan_MultiLine tests span tracking across multiple lines
func TestTokenSpan_MultiLine(t *testing.T) {
	l := New("let a = 1;\n  let b = 2;\n")

	for i := 0; i < 5; i++ {
		l.NextToken()
	}

	expectSpan(t, l.NextToken(), 2, 3, 13, 16) // let
	expectSpan(t, l.NextToken(), 2, 7, 17, 18) // b

	for i := 0; i < 3; i++ {
		l.NextToken()
	}
	eof := l.NextToken()
	if eof.Type != EOF {
		t.Fatalf("expected EOF, got %q", eof.Type)
	}
	expectSpan(t, eof, 3, 1, 24, 24)
}

// Columns count runes while offsets count bytes.
func TestTokenSpan_UnicodeColumnsAndByteOffsets(t *testing.T) {
	l := New(`let naïve = "日本";`)

	l.NextToken() // let
	ident := l.NextToken()
	if ident.Raw != "naïve" {
		t.Fatalf("expected identifier naïve, got %q", ident.Raw)
	}
	expectSpan(t, ident, 1, 5, 4, 10)

	expectSpan(t, l.NextToken(), 1, 11, 11, 12) // =

	str := l.NextToken()
	if str.Value != "日本" {
		t.Fatalf("expected decoded value 日本, got %q", str.Value)
	}
	expectSpan(t, str, 1, 13, 13, 21)

	expectSpan(t, l.NextToken(), 1, 17, 21, 22) // ;
}

func TestTokenSpan_CarriesFilename(t *testing.T) {
	toks, _ := Tokenize("x", "main.nd")
	for i, tok := range toks {
		if tok.Span.Filename != "main.nd" {
			t.Fatalf("token %d has filename %q", i, tok.Span.Filename)
		}
	}
}

func TestTokenSpan_ToDiag(t *testing.T) {
	span := Span{Filename: "f.nd", Line: 3, Column: 4, Start: 20, End: 25}
	d := span.ToDiag()
	if d.Filename != "f.nd" || d.Line != 3 || d.Column != 4 || d.Start != 20 || d.End != 25 {
		t.Fatalf("unexpected conversion %+v", d)
	}
}
