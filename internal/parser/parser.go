package parser

import (
	"github.com/noodle-lang/noodlec/internal/ast"
	"github.com/noodle-lang/noodlec/internal/lexer"
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

type Option func(*options)

type options struct {
	filename string
}

// WithFilename configures the parser to attribute all emitted spans to the provided filename.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

const (
	precedenceLowest = iota
	precedenceAssign
	precedenceOr
	precedenceAnd
	precedenceEquality
	precedenceComparison
	precedenceSum
	precedenceProduct
	precedencePrefix
	precedencePostfix
)

var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN:   precedenceAssign,
	lexer.OR:       precedenceOr,
	lexer.AND:      precedenceAnd,
	lexer.EQ:       precedenceEquality,
	lexer.NOT_EQ:   precedenceEquality,
	lexer.LT:       precedenceComparison,
	lexer.LE:       precedenceComparison,
	lexer.GT:       precedenceComparison,
	lexer.GE:       precedenceComparison,
	lexer.PLUS:     precedenceSum,
	lexer.MINUS:    precedenceSum,
	lexer.ASTERISK: precedenceProduct,
	lexer.SLASH:    precedenceProduct,
	lexer.PERCENT:  precedenceProduct,
	lexer.LPAREN:   precedencePostfix,
	lexer.DOT:      precedencePostfix,
}

// maxTypeParamScan bounds the lookahead used to confirm that a '<' after a
// declaration name opens a closed type parameter list.
const maxTypeParamScan = 64

// Parser implements a Pratt-style recursive descent parser.
//   - Lookahead: curTok is the token under examination and peekTok the one
//     after it. Both are only mutated via nextToken. peekTokenAt reads further
//     ahead without consuming.
//   - Diagnostics: errors is append-only. Callers consult Errors() after
//     ParseProgram.
//   - Spans: node spans are composed via mergeSpan so that they only grow.
type Parser struct {
	toks    []lexer.Token
	pos     int
	curTok  lexer.Token
	peekTok lexer.Token

	lexErrors  []lexer.LexerError
	tokenCount int
	errors     []ParseError

	filename string

	prefixFns map[lexer.TokenType]prefixParseFn
	infixFns  map[lexer.TokenType]infixParseFn
}

// New returns a parser initialised with the provided source input. The input
// is tokenized eagerly; ILLEGAL tokens are dropped since the lexer already
// reported them.
func New(input string, opts ...Option) *Parser {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	all, lexErrs := lexer.Tokenize(input, cfg.filename)
	toks := make([]lexer.Token, 0, len(all))
	for _, tok := range all {
		if tok.Type != lexer.ILLEGAL {
			toks = append(toks, tok)
		}
	}

	p := &Parser{
		toks:       toks,
		pos:        -1,
		lexErrors:  lexErrs,
		tokenCount: len(all),
		filename:   cfg.filename,
		prefixFns:  make(map[lexer.TokenType]prefixParseFn),
		infixFns:   make(map[lexer.TokenType]infixParseFn),
	}

	p.registerPrefix(lexer.IDENT, p.parseIdentifier)
	p.registerPrefix(lexer.INT, p.parseNumberLiteral)
	p.registerPrefix(lexer.FLOAT, p.parseNumberLiteral)
	p.registerPrefix(lexer.STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.BLOCK_STR, p.parseStringLiteral)
	p.registerPrefix(lexer.TRUE, p.parseBoolLiteral)
	p.registerPrefix(lexer.FALSE, p.parseBoolLiteral)
	p.registerPrefix(lexer.NONE, p.parseNoneLiteral)
	p.registerPrefix(lexer.MINUS, p.parsePrefixExpr)
	p.registerPrefix(lexer.BANG, p.parsePrefixExpr)
	p.registerPrefix(lexer.AWAIT, p.parseAwaitExpr)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedExpr)
	p.registerPrefix(lexer.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(lexer.MATCH, p.parseMatchExpr)

	p.registerInfix(lexer.ASSIGN, p.parseAssignExpr)
	p.registerInfix(lexer.PLUS, p.parseInfixExpr)
	p.registerInfix(lexer.MINUS, p.parseInfixExpr)
	p.registerInfix(lexer.ASTERISK, p.parseInfixExpr)
	p.registerInfix(lexer.SLASH, p.parseInfixExpr)
	p.registerInfix(lexer.PERCENT, p.parseInfixExpr)
	p.registerInfix(lexer.AND, p.parseInfixExpr)
	p.registerInfix(lexer.OR, p.parseInfixExpr)
	p.registerInfix(lexer.EQ, p.parseInfixExpr)
	p.registerInfix(lexer.NOT_EQ, p.parseInfixExpr)
	p.registerInfix(lexer.LT, p.parseInfixExpr)
	p.registerInfix(lexer.LE, p.parseInfixExpr)
	p.registerInfix(lexer.GT, p.parseInfixExpr)
	p.registerInfix(lexer.GE, p.parseInfixExpr)
	p.registerInfix(lexer.LPAREN, p.parseCallExpr)
	p.registerInfix(lexer.DOT, p.parseMemberExpr)

	// Seed curTok/peekTok.
	p.nextToken()

	return p
}

// Errors returns all recoverable parse errors that were encountered.
func (p *Parser) Errors() []ParseError {
	return p.errors
}

// LexErrors returns the errors reported while tokenizing the input.
func (p *Parser) LexErrors() []lexer.LexerError {
	return p.lexErrors
}

// TokenCount returns the number of tokens the lexer produced, EOF included.
func (p *Parser) TokenCount() int {
	return p.tokenCount
}

// ParseProgram parses a full compilation unit. It always returns a program,
// possibly with no statements.
func (p *Parser) ParseProgram() *ast.Program {
	prog := ast.NewProgram(p.curTok.Span)

	for p.curTok.Type != lexer.EOF {
		if p.curTok.Type == lexer.SEMICOLON {
			p.nextToken()
			continue
		}

		prevTok := p.curTok
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Stmts = append(prog.Stmts, stmt)
			prog.SetSpan(mergeSpan(prog.Span(), stmt.Span()))
			p.nextToken()
			continue
		}

		if p.curTok.Type == lexer.EOF {
			break
		}

		p.recoverStatement(prevTok)
	}

	prog.SetSpan(mergeSpan(prog.Span(), p.curTok.Span))

	return prog
}

// nextToken advances the token window. At end of input both curTok and
// peekTok stay on EOF.
func (p *Parser) nextToken() {
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	p.curTok = p.tokenAt(p.pos)
	p.peekTok = p.tokenAt(p.pos + 1)
}

func (p *Parser) tokenAt(i int) lexer.Token {
	if i < 0 {
		i = 0
	}
	if i >= len(p.toks) {
		i = len(p.toks) - 1
	}
	return p.toks[i]
}

// peekTokenAt returns the token n positions after curTok without consuming
// anything. peekTokenAt(1) is peekTok.
func (p *Parser) peekTokenAt(n int) lexer.Token {
	return p.tokenAt(p.pos + n)
}

// expect asserts that the peek token matches the provided type. On success it
// promotes peekTok into curTok.
func (p *Parser) expect(tt lexer.TokenType) bool {
	if p.peekTok.Type == tt {
		p.nextToken()
		return true
	}

	p.reportExpected(lexer.Describe(tt), p.peekTok)
	return false
}

func (p *Parser) registerPrefix(tokenType lexer.TokenType, fn prefixParseFn) {
	p.prefixFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType lexer.TokenType, fn infixParseFn) {
	p.infixFns[tokenType] = fn
}
