package parser

import (
	"strings"

	"github.com/noodle-lang/noodlec/internal/ast"
	"github.com/noodle-lang/noodlec/internal/lexer"
)

// parseStatement parses one statement starting at curTok. On success curTok is
// left on the statement's last token (its ';' when present).
func (p *Parser) parseStatement() ast.Stmt {
	switch p.curTok.Type {
	case lexer.LET:
		if stmt := p.parseLetStmt(); stmt != nil {
			return stmt
		}
		return nil
	case lexer.DEF:
		if decl := p.parseFnDecl(false, p.curTok.Span); decl != nil {
			return decl
		}
		return nil
	case lexer.ASYNC:
		return p.parseAsyncStmt()
	case lexer.CLASS:
		if decl := p.parseClassDecl(); decl != nil {
			return decl
		}
		return nil
	case lexer.RETURN:
		return p.parseReturnStmt()
	case lexer.IF:
		if stmt := p.parseIfStmt(); stmt != nil {
			return stmt
		}
		return nil
	case lexer.WHILE:
		return p.parseWhileStmt()
	case lexer.FOR:
		return p.parseForStmt(false, p.curTok.Span)
	case lexer.BREAK:
		stmt := ast.NewBreakStmt(p.curTok.Span)
		p.endStatement()
		return stmt
	case lexer.CONTINUE:
		stmt := ast.NewContinueStmt(p.curTok.Span)
		p.endStatement()
		return stmt
	case lexer.IMPORT:
		return p.parseImportStmt()
	case lexer.FROM:
		return p.parseFromImportStmt()
	case lexer.LBRACE:
		if block := p.parseBlockStmt(); block != nil {
			return block
		}
		return nil
	case lexer.SEMICOLON:
		// Empty statement.
		p.nextToken()
		return nil
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseAsyncStmt() ast.Stmt {
	start := p.curTok.Span

	switch p.peekTok.Type {
	case lexer.DEF:
		p.nextToken()
		if decl := p.parseFnDecl(true, start); decl != nil {
			return decl
		}
		return nil
	case lexer.FOR:
		p.nextToken()
		return p.parseForStmt(true, start)
	default:
		p.reportExpected("'def' or 'for' after 'async'", p.peekTok)
		return nil
	}
}

// parseLetStmt parses `let name (: Type)? (= value)?;`.
func (p *Parser) parseLetStmt() *ast.LetStmt {
	start := p.curTok.Span

	if !p.expect(lexer.IDENT) {
		return nil
	}
	name := ast.NewIdent(p.curTok.Literal, p.curTok.Span)

	var typ *ast.TypeRef
	if p.peekTok.Type == lexer.COLON {
		p.nextToken() // move to ':'
		p.nextToken() // move to type start
		typ = p.parseType()
		if typ == nil {
			return nil
		}
	}

	var value ast.Expr
	if p.peekTok.Type == lexer.ASSIGN {
		p.nextToken() // move to '='
		p.nextToken() // move to value start
		value = p.parseExpr(precedenceLowest)
		if value == nil {
			return nil
		}
	}

	stmt := ast.NewLetStmt(name, typ, value, mergeSpan(start, p.curTok.Span))
	p.endStatement()
	return stmt
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	start := p.curTok.Span

	switch p.peekTok.Type {
	case lexer.SEMICOLON, lexer.RBRACE, lexer.EOF:
		stmt := ast.NewReturnStmt(nil, start)
		p.endStatement()
		return stmt
	}

	if p.peekTok.Span.Line > p.curTok.Span.Line {
		return ast.NewReturnStmt(nil, start)
	}

	p.nextToken()
	value := p.parseExpr(precedenceLowest)
	if value == nil {
		return nil
	}

	stmt := ast.NewReturnStmt(value, mergeSpan(start, p.curTok.Span))
	p.endStatement()
	return stmt
}

// parseIfStmt parses `if cond { } (else if ... | else { })?`.
func (p *Parser) parseIfStmt() *ast.IfStmt {
	start := p.curTok.Span

	p.nextToken()
	cond := p.parseExpr(precedenceLowest)
	if cond == nil {
		return nil
	}

	if !p.expect(lexer.LBRACE) {
		return nil
	}
	then := p.parseBlockStmt()

	var els ast.Stmt
	if p.peekTok.Type == lexer.ELSE {
		p.nextToken() // move to 'else'

		switch p.peekTok.Type {
		case lexer.IF:
			p.nextToken()
			if nested := p.parseIfStmt(); nested != nil {
				els = nested
			}
		case lexer.LBRACE:
			p.nextToken()
			els = p.parseBlockStmt()
		default:
			p.reportExpected("'{' or 'if' after 'else'", p.peekTok)
		}
	}

	return ast.NewIfStmt(cond, then, els, mergeSpan(start, p.curTok.Span))
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	start := p.curTok.Span

	p.nextToken()
	cond := p.parseExpr(precedenceLowest)
	if cond == nil {
		return nil
	}

	if !p.expect(lexer.LBRACE) {
		return nil
	}
	body := p.parseBlockStmt()

	return ast.NewWhileStmt(cond, body, mergeSpan(start, p.curTok.Span))
}

// parseForStmt parses `for (async)? name in iterable { }`. curTok is on 'for';
// isAsync is already set when the loop was introduced by `async for`.
func (p *Parser) parseForStmt(isAsync bool, start lexer.Span) ast.Stmt {
	if p.peekTok.Type == lexer.ASYNC {
		p.nextToken()
		isAsync = true
	}

	if !p.expect(lexer.IDENT) {
		return nil
	}
	binding := ast.NewIdent(p.curTok.Literal, p.curTok.Span)

	if !p.expect(lexer.IN) {
		return nil
	}

	p.nextToken()
	iterable := p.parseExpr(precedenceLowest)
	if iterable == nil {
		return nil
	}

	if !p.expect(lexer.LBRACE) {
		return nil
	}
	body := p.parseBlockStmt()

	return ast.NewForStmt(isAsync, binding, iterable, body, mergeSpan(start, p.curTok.Span))
}

// parseImportStmt parses `import a.b.c (as alias)?;` or `import "path" (as alias)?;`.
func (p *Parser) parseImportStmt() ast.Stmt {
	start := p.curTok.Span

	p.nextToken()
	path, ok := p.parseModulePath()
	if !ok {
		return nil
	}

	alias, ok := p.parseImportAlias()
	if !ok {
		return nil
	}

	stmt := ast.NewImportStmt(path, alias, mergeSpan(start, p.curTok.Span))
	p.endStatement()
	return stmt
}

// parseFromImportStmt parses `from a.b import name (as alias)?;`, binding a
// single member of the module.
func (p *Parser) parseFromImportStmt() ast.Stmt {
	start := p.curTok.Span

	p.nextToken()
	module, ok := p.parseModulePath()
	if !ok {
		return nil
	}

	if !p.expect(lexer.IMPORT) {
		return nil
	}
	if !p.expect(lexer.IDENT) {
		return nil
	}
	member := p.curTok.Literal

	alias, ok := p.parseImportAlias()
	if !ok {
		return nil
	}
	if alias == nil {
		alias = ast.NewIdent(member, p.curTok.Span)
	}

	stmt := ast.NewImportStmt(module+"."+member, alias, mergeSpan(start, p.curTok.Span))
	p.endStatement()
	return stmt
}

func (p *Parser) parseModulePath() (string, bool) {
	switch p.curTok.Type {
	case lexer.STRING:
		return p.curTok.Value, true
	case lexer.IDENT:
		parts := []string{p.curTok.Literal}
		for p.peekTok.Type == lexer.DOT {
			p.nextToken() // move to '.'
			if !p.expect(lexer.IDENT) {
				return "", false
			}
			parts = append(parts, p.curTok.Literal)
		}
		return strings.Join(parts, "."), true
	default:
		p.reportExpected("module path", p.curTok)
		return "", false
	}
}

func (p *Parser) parseImportAlias() (*ast.Ident, bool) {
	if p.peekTok.Type != lexer.AS {
		return nil, true
	}
	p.nextToken() // move to 'as'
	if !p.expect(lexer.IDENT) {
		return nil, false
	}
	return ast.NewIdent(p.curTok.Literal, p.curTok.Span), true
}

func (p *Parser) parseExprStmt() ast.Stmt {
	start := p.curTok.Span

	expr := p.parseExpr(precedenceLowest)
	if expr == nil {
		return nil
	}

	stmt := ast.NewExprStmt(expr, mergeSpan(start, p.curTok.Span))
	p.endStatement()
	return stmt
}

// parseBlockStmt parses `{ stmts }` with curTok on '{'. An unclosed block is
// reported and returned with the statements parsed so far.
func (p *Parser) parseBlockStmt() *ast.BlockStmt {
	start := p.curTok.Span
	stmts := p.parseBlockBody()
	return ast.NewBlockStmt(stmts, mergeSpan(start, p.curTok.Span))
}

// parseBlockBody parses statements after the '{' at curTok up to the matching
// '}', leaving curTok on the '}' (or EOF when unclosed).
func (p *Parser) parseBlockBody() []ast.Stmt {
	var stmts []ast.Stmt

	p.nextToken()

	for p.curTok.Type != lexer.RBRACE && p.curTok.Type != lexer.EOF {
		if p.curTok.Type == lexer.SEMICOLON {
			p.nextToken()
			continue
		}

		prevTok := p.curTok
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
			p.nextToken()
			continue
		}

		if p.curTok.Type == lexer.RBRACE || p.curTok.Type == lexer.EOF {
			break
		}

		p.recoverStatement(prevTok)
	}

	if p.curTok.Type != lexer.RBRACE && !p.reportedAt(p.curTok.Span) {
		p.reportExpected("'}'", p.curTok)
	}

	return stmts
}
