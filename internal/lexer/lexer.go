package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/noodle-lang/noodlec/internal/diag"
)

type LexerErrorKind int

const (
	ErrUnterminatedString LexerErrorKind = iota
	ErrUnterminatedBlockString
	ErrUnterminatedBlockComment
	ErrIllegalRune
	ErrInvalidEscape
)

type LexerError struct {
	Kind    LexerErrorKind
	Message string
	Span    Span
}

func (k LexerErrorKind) diagnosticCode() diag.Code {
	switch k {
	case ErrUnterminatedString:
		return diag.CodeLexerUnterminatedString
	case ErrUnterminatedBlockString:
		return diag.CodeLexerUnterminatedBlockString
	case ErrUnterminatedBlockComment:
		return diag.CodeLexerUnterminatedBlockComment
	case ErrIllegalRune:
		return diag.CodeLexerIllegalRune
	case ErrInvalidEscape:
		return diag.CodeLexerInvalidEscape
	default:
		return diag.Code("LEXER_UNKNOWN_ERROR")
	}
}

// ToDiagnostic converts a lexer error into a shared diagnostic structure.
func (e LexerError) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageLexer,
		Severity: diag.SeverityError,
		Code:     e.Kind.diagnosticCode(),
		Message:  e.Message,
		Span:     e.Span.ToDiag(),
	}
}

type Option func(*Lexer)

// WithFilename attributes every emitted span to name.
func WithFilename(name string) Option {
	return func(l *Lexer) {
		l.filename = name
	}
}

// Lexer represents the lexer state
type Lexer struct {
	input    string
	filename string
	pos      int  // byte offset of the current rune
	width    int  // byte width of the current rune
	ch       rune // current rune (0 = EOF)
	line     int  // line of the current rune (1-based)
	column   int  // column of the current rune (1-based)

	Errors []LexerError
}

// New creates a new lexer for the given input.
func New(input string, opts ...Option) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.decode()
	l.column = 1
	return l
}

// Tokenize drains a fresh lexer over input. The returned slice always ends
// with an EOF token.
func Tokenize(input, filename string) ([]Token, []LexerError) {
	l := New(input, WithFilename(filename))
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks, l.Errors
		}
	}
}

func (l *Lexer) addError(kind LexerErrorKind, msg string, span Span) {
	l.Errors = append(l.Errors, LexerError{
		Kind:    kind,
		Message: msg,
		Span:    span,
	})
}

// decode loads the rune at l.pos into l.ch.
func (l *Lexer) decode() {
	if l.pos >= len(l.input) {
		l.ch = 0
		l.width = 0
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.ch = r
	l.width = w
}

// read advances to the next rune, keeping line/column in step with pos.
func (l *Lexer) read() {
	if l.pos >= len(l.input) {
		return
	}
	if l.ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos += l.width
	l.decode()
}

// peek returns the next rune without advancing.
func (l *Lexer) peek() rune {
	next := l.pos + l.width
	if next >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[next:])
	return r
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

type mark struct {
	line, column, pos int
}

func (l *Lexer) mark() mark {
	return mark{line: l.line, column: l.column, pos: l.pos}
}

func (l *Lexer) spanFrom(m mark) Span {
	return Span{
		Filename: l.filename,
		Line:     m.line,
		Column:   m.column,
		Start:    m.pos,
		End:      l.pos,
	}
}

func (l *Lexer) tokenFrom(tt TokenType, m mark) Token {
	raw := l.input[m.pos:l.pos]
	return Token{Type: tt, Literal: raw, Raw: raw, Value: raw, Span: l.spanFrom(m)}
}

// single consumes one rune and emits tt.
func (l *Lexer) single(tt TokenType) Token {
	m := l.mark()
	l.read()
	return l.tokenFrom(tt, m)
}

// either emits two when the next rune is next, otherwise one.
func (l *Lexer) either(next rune, two, one TokenType) Token {
	m := l.mark()
	l.read()
	if l.ch == next {
		l.read()
		return l.tokenFrom(two, m)
	}
	return l.tokenFrom(one, m)
}

// skipTrivia skips whitespace and comments.
func (l *Lexer) skipTrivia() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.read()
		case l.ch == '#' && !l.atEOF():
			l.skipLineComment()
		case l.ch == '/' && l.peek() == '/':
			l.skipLineComment()
		case l.ch == '/' && l.peek() == '*':
			l.skipBlockComment()
		default:
			return
		}
	}
}

func (l *Lexer) skipLineComment() {
	for l.ch != '\n' && !l.atEOF() {
		l.read()
	}
}

func (l *Lexer) skipBlockComment() {
	m := l.mark()
	l.read() // '/'
	l.read() // '*'
	depth := 1
	for depth > 0 {
		if l.atEOF() {
			l.addError(ErrUnterminatedBlockComment, "unterminated block comment", l.spanFrom(m))
			return
		}
		switch {
		case l.ch == '/' && l.peek() == '*':
			l.read()
			l.read()
			depth++
		case l.ch == '*' && l.peek() == '/':
			l.read()
			l.read()
			depth--
		default:
			l.read()
		}
	}
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipTrivia()

	if l.atEOF() {
		return Token{Type: EOF, Span: Span{
			Filename: l.filename,
			Line:     l.line,
			Column:   l.column,
			Start:    len(l.input),
			End:      len(l.input),
		}}
	}

	switch l.ch {
	case '=':
		m := l.mark()
		l.read()
		switch l.ch {
		case '=':
			l.read()
			return l.tokenFrom(EQ, m)
		case '>':
			l.read()
			return l.tokenFrom(FATARROW, m)
		}
		return l.tokenFrom(ASSIGN, m)
	case '-':
		return l.either('>', ARROW, MINUS)
	case '!':
		return l.either('=', NOT_EQ, BANG)
	case '<':
		return l.either('=', LE, LT)
	case '>':
		return l.either('=', GE, GT)
	case ':':
		return l.either(':', DOUBLE_COLON, COLON)
	case '|':
		return l.either('|', OR, PIPE)
	case '&':
		if l.peek() == '&' {
			return l.either('&', AND, AND)
		}
		return l.illegal()
	case '+':
		return l.single(PLUS)
	case '*':
		return l.single(ASTERISK)
	case '/':
		return l.single(SLASH)
	case '%':
		return l.single(PERCENT)
	case '?':
		return l.single(QUESTION)
	case ';':
		return l.single(SEMICOLON)
	case ',':
		return l.single(COMMA)
	case '.':
		return l.single(DOT)
	case '(':
		return l.single(LPAREN)
	case ')':
		return l.single(RPAREN)
	case '{':
		return l.single(LBRACE)
	case '}':
		return l.single(RBRACE)
	case '[':
		return l.single(LBRACKET)
	case ']':
		return l.single(RBRACKET)
	case '"':
		if strings.HasPrefix(l.input[l.pos:], `"""`) {
			return l.readBlockString()
		}
		return l.readString('"')
	case '\'':
		return l.readString('\'')
	}

	switch {
	case isLetter(l.ch):
		m := l.mark()
		for isLetter(l.ch) || isDigit(l.ch) {
			l.read()
		}
		tok := l.tokenFrom(IDENT, m)
		tok.Type = LookupIdent(tok.Raw)
		return tok
	case isDigit(l.ch):
		return l.readNumber()
	default:
		return l.illegal()
	}
}

func (l *Lexer) illegal() Token {
	m := l.mark()
	l.read()
	tok := l.tokenFrom(ILLEGAL, m)
	l.addError(ErrIllegalRune, "illegal character "+strconv.Quote(tok.Raw), tok.Span)
	return tok
}

// readNumber reads a number literal (decimal, hex 0x..., binary 0b..., float)
func (l *Lexer) readNumber() Token {
	m := l.mark()

	if l.ch == '0' && (l.peek() == 'x' || l.peek() == 'X') {
		l.read()
		l.read()
		for isHexDigit(l.ch) || l.ch == '_' {
			l.read()
		}
		return l.tokenFrom(INT, m)
	}
	if l.ch == '0' && (l.peek() == 'b' || l.peek() == 'B') {
		l.read()
		l.read()
		for l.ch == '0' || l.ch == '1' || l.ch == '_' {
			l.read()
		}
		return l.tokenFrom(INT, m)
	}

	tt := INT
	for isDigit(l.ch) || l.ch == '_' {
		l.read()
	}
	if l.ch == '.' && isDigit(l.peek()) {
		tt = FLOAT
		l.read()
		for isDigit(l.ch) || l.ch == '_' {
			l.read()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peek()
		if isDigit(next) || next == '+' || next == '-' {
			tt = FLOAT
			l.read()
			if l.ch == '+' || l.ch == '-' {
				l.read()
			}
			for isDigit(l.ch) || l.ch == '_' {
				l.read()
			}
		}
	}
	return l.tokenFrom(tt, m)
}

// readString reads a quoted string literal, handling escape sequences. A
// newline or end of input before the closing quote yields an ILLEGAL token.
func (l *Lexer) readString(quote rune) Token {
	m := l.mark()
	var value strings.Builder
	l.read() // opening quote

	for {
		if l.atEOF() || l.ch == '\n' {
			msg := "unterminated string literal"
			if l.ch == '\n' {
				msg = "newline in string literal"
			}
			tok := l.tokenFrom(ILLEGAL, m)
			l.addError(ErrUnterminatedString, msg, tok.Span)
			return tok
		}
		if l.ch == quote {
			l.read()
			tok := l.tokenFrom(STRING, m)
			tok.Value = value.String()
			tok.Literal = tok.Value
			return tok
		}
		if l.ch == '\\' {
			l.readEscape(&value)
			continue
		}
		value.WriteRune(l.ch)
		l.read()
	}
}

// readBlockString reads a """...""" literal. Content is taken verbatim.
func (l *Lexer) readBlockString() Token {
	m := l.mark()
	l.read()
	l.read()
	l.read()
	start := l.pos

	end := strings.Index(l.input[l.pos:], `"""`)
	if end < 0 {
		for !l.atEOF() {
			l.read()
		}
		tok := l.tokenFrom(ILLEGAL, m)
		l.addError(ErrUnterminatedBlockString, "unterminated block string", tok.Span)
		return tok
	}

	stop := l.pos + end
	for l.pos < stop {
		l.read()
	}
	value := l.input[start:stop]
	l.read()
	l.read()
	l.read()

	tok := l.tokenFrom(BLOCK_STR, m)
	tok.Value = value
	tok.Literal = value
	return tok
}

func (l *Lexer) readEscape(value *strings.Builder) {
	m := l.mark()
	l.read() // '\'
	switch l.ch {
	case 'n':
		value.WriteByte('\n')
	case 't':
		value.WriteByte('\t')
	case 'r':
		value.WriteByte('\r')
	case '0':
		value.WriteByte(0)
	case '\\', '"', '\'':
		value.WriteRune(l.ch)
	case 'x':
		l.read()
		hex := ""
		for i := 0; i < 2 && isHexDigit(l.ch); i++ {
			hex += string(l.ch)
			l.read()
		}
		if len(hex) != 2 {
			l.addError(ErrInvalidEscape, "invalid hex escape sequence", l.spanFrom(m))
			value.WriteString(`\x` + hex)
			return
		}
		// \xHH is one raw byte, not a code point.
		n, _ := strconv.ParseUint(hex, 16, 8)
		value.WriteByte(byte(n))
		return
	case 0:
		// let readString report the missing quote
		return
	default:
		value.WriteRune(l.ch)
	}
	l.read()
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isDigit(ch rune) bool {
	// Numeric literals are restricted to ASCII digits.
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') ||
		(ch >= 'a' && ch <= 'f') ||
		(ch >= 'A' && ch <= 'F')
}
