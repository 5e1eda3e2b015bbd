package lexer

import (
	"sort"

	"github.com/noodle-lang/noodlec/internal/diag"
)

// TokenType represents the type of a token
type TokenType string

// Span represents the source location of a token
type Span struct {
	Filename string // optional source filename for diagnostics
	Line     int    // 1-based line number
	Column   int    // 1-based column number, counted in runes
	Start    int    // byte offset of the first byte
	End      int    // exclusive byte offset
}

// ToDiag converts the span into the diagnostic span shape.
func (s Span) ToDiag() diag.Span {
	return diag.Span{
		Filename: s.Filename,
		Line:     s.Line,
		Column:   s.Column,
		Start:    s.Start,
		End:      s.End,
	}
}

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string // same as Value; what the parser reads
	Raw     string // exact source text
	Value   string // decoded value (strings without quotes, escapes resolved)
	Span    Span
}

// Token type constants
const (
	// Special tokens
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers and literals
	IDENT      TokenType = "IDENT"      // add, foobar, x, y, ...
	UNDERSCORE TokenType = "_"          // wildcard marker, never an identifier
	INT        TokenType = "INT"        // 1343456, 0xff, 0b1010
	FLOAT      TokenType = "FLOAT"      // 3.14, 1e9
	STRING     TokenType = "STRING"     // "hello", 'hello'
	BLOCK_STR  TokenType = "BLOCK_STR"  // """multi-line"""

	// Operators
	ASSIGN   TokenType = "="
	FATARROW TokenType = "=>"
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	BANG     TokenType = "!"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	PERCENT  TokenType = "%"
	AND      TokenType = "&&"
	OR       TokenType = "||"
	PIPE     TokenType = "|"
	QUESTION TokenType = "?"

	LT     TokenType = "<"
	GT     TokenType = ">"
	EQ     TokenType = "=="
	NOT_EQ TokenType = "!="
	LE     TokenType = "<="
	GE     TokenType = ">="

	// Delimiters
	COMMA        TokenType = ","
	SEMICOLON    TokenType = ";"
	COLON        TokenType = ":"
	DOUBLE_COLON TokenType = "::"
	DOT          TokenType = "."
	ARROW        TokenType = "->"

	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACE   TokenType = "{"
	RBRACE   TokenType = "}"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"

	// Keywords
	LET        TokenType = "LET"
	DEF        TokenType = "DEF"
	CLASS      TokenType = "CLASS"
	MATCH      TokenType = "MATCH"
	CASE       TokenType = "CASE"
	ASYNC      TokenType = "ASYNC"
	AWAIT      TokenType = "AWAIT"
	FOR        TokenType = "FOR"
	IN         TokenType = "IN"
	WHILE      TokenType = "WHILE"
	IF         TokenType = "IF"
	ELSE       TokenType = "ELSE"
	RETURN     TokenType = "RETURN"
	BREAK      TokenType = "BREAK"
	CONTINUE   TokenType = "CONTINUE"
	IMPORT     TokenType = "IMPORT"
	FROM       TokenType = "FROM"
	AS         TokenType = "AS"
	EXTENDS    TokenType = "EXTENDS"
	IMPLEMENTS TokenType = "IMPLEMENTS"
	TRUE       TokenType = "TRUE"
	FALSE      TokenType = "FALSE"
	NONE       TokenType = "NONE"
)

var keywords = map[string]TokenType{
	"let":        LET,
	"def":        DEF,
	"class":      CLASS,
	"match":      MATCH,
	"case":       CASE,
	"async":      ASYNC,
	"await":      AWAIT,
	"for":        FOR,
	"in":         IN,
	"while":      WHILE,
	"if":         IF,
	"else":       ELSE,
	"return":     RETURN,
	"break":      BREAK,
	"continue":   CONTINUE,
	"import":     IMPORT,
	"from":       FROM,
	"as":         AS,
	"extends":    EXTENDS,
	"implements": IMPLEMENTS,
	"true":       TRUE,
	"false":      FALSE,
	"none":       NONE,
}

// keywordText is the reverse of keywords, used when describing tokens.
var keywordText = func() map[TokenType]string {
	m := make(map[TokenType]string, len(keywords))
	for text, tt := range keywords {
		m[tt] = text
	}
	return m
}()

// LookupIdent checks if the identifier is a keyword
func LookupIdent(ident string) TokenType {
	if ident == "_" {
		return UNDERSCORE
	}
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Keywords returns the reserved words in sorted order.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for text := range keywords {
		words = append(words, text)
	}
	sort.Strings(words)
	return words
}

// IsKeyword reports whether tt is a reserved word.
func IsKeyword(tt TokenType) bool {
	_, ok := keywordText[tt]
	return ok
}

// Describe returns the user-facing name of a token type, as used in
// "expected X, found Y" messages.
func Describe(tt TokenType) string {
	switch tt {
	case EOF:
		return "end of input"
	case IDENT:
		return "identifier"
	case INT, FLOAT:
		return "number"
	case STRING, BLOCK_STR:
		return "string"
	case ILLEGAL:
		return "invalid token"
	}
	if text, ok := keywordText[tt]; ok {
		return "'" + text + "'"
	}
	return "'" + string(tt) + "'"
}

// DescribeToken is Describe with the token text attached where it helps.
func DescribeToken(tok Token) string {
	switch tok.Type {
	case IDENT, INT, FLOAT:
		return Describe(tok.Type) + " '" + tok.Raw + "'"
	default:
		return Describe(tok.Type)
	}
}
