package parser

import (
	"github.com/noodle-lang/noodlec/internal/ast"
	"github.com/noodle-lang/noodlec/internal/lexer"
)

// parseFnDecl parses `def name<TP>(params) (: T | -> T)? { body }` with curTok
// on 'def'. start is the span of the leading 'async' when present.
func (p *Parser) parseFnDecl(isAsync bool, start lexer.Span) *ast.FnDecl {
	if !p.expect(lexer.IDENT) {
		return nil
	}
	name := ast.NewIdent(p.curTok.Literal, p.curTok.Span)

	typeParams, ok := p.parseTypeParams()
	if !ok {
		return nil
	}

	if !p.expect(lexer.LPAREN) {
		return nil
	}

	params, ok := p.parseParams()
	if !ok {
		return nil
	}

	var returnType *ast.TypeRef
	if p.peekTok.Type == lexer.COLON || p.peekTok.Type == lexer.ARROW {
		p.nextToken() // move to ':' or '->'
		p.nextToken() // move to type start
		returnType = p.parseType()
		if returnType == nil {
			return nil
		}
	}

	if !p.expect(lexer.LBRACE) {
		return nil
	}
	body := p.parseBlockStmt()

	return ast.NewFnDecl(name, typeParams, params, returnType, body, isAsync, mergeSpan(start, p.curTok.Span))
}

// parseParams parses a parameter list with curTok on '('. curTok is left on ')'.
func (p *Parser) parseParams() ([]*ast.Param, bool) {
	if p.peekTok.Type == lexer.RPAREN {
		p.nextToken()
		return nil, true
	}

	p.nextToken()

	res, ok := parseDelimited[*ast.Param](p, delimitedConfig{
		Closing:       lexer.RPAREN,
		Separator:     lexer.COMMA,
		AllowTrailing: true,
		Element:       "parameter",
	}, func(int) (*ast.Param, bool) {
		if p.curTok.Type != lexer.IDENT {
			p.reportExpected("parameter name", p.curTok)
			return nil, false
		}
		name := ast.NewIdent(p.curTok.Literal, p.curTok.Span)

		var typ *ast.TypeRef
		if p.peekTok.Type == lexer.COLON {
			p.nextToken() // move to ':'
			p.nextToken() // move to type start
			typ = p.parseType()
			if typ == nil {
				return nil, false
			}
		}

		return ast.NewParam(name, typ, mergeSpan(name.Span(), p.curTok.Span)), true
	})
	if !ok {
		return nil, false
	}

	return res.Items, true
}

// parseClassDecl parses
//
//	class Name<TP> (extends T)? (implements T, ...)? { members }
//
// with curTok on 'class'. A body cut short by end of input is reported and the
// partial declaration is still returned.
func (p *Parser) parseClassDecl() *ast.ClassDecl {
	start := p.curTok.Span

	if !p.expect(lexer.IDENT) {
		return nil
	}
	name := ast.NewIdent(p.curTok.Literal, p.curTok.Span)

	typeParams, ok := p.parseTypeParams()
	if !ok {
		return nil
	}

	decl := ast.NewClassDecl(name, typeParams, start)

	if p.peekTok.Type == lexer.EXTENDS {
		p.nextToken() // move to 'extends'
		p.nextToken() // move to type start
		decl.Extends = p.parseType()
		if decl.Extends == nil {
			return nil
		}
	}

	if p.peekTok.Type == lexer.IMPLEMENTS {
		p.nextToken() // move to 'implements'
		p.nextToken() // move to first type

		res, ok := parseDelimited[*ast.TypeRef](p, delimitedConfig{
			Closing:   lexer.LBRACE,
			Separator: lexer.COMMA,
			Element:   "interface type",
		}, func(int) (*ast.TypeRef, bool) {
			typ := p.parseType()
			if typ == nil {
				return nil, false
			}
			return typ, true
		})
		if !ok {
			return nil
		}
		decl.Implements = res.Items
	} else if !p.expect(lexer.LBRACE) {
		return nil
	}

	p.parseClassBody(decl)
	decl.SetSpan(mergeSpan(start, p.curTok.Span))

	return decl
}

// parseClassBody fills decl's members. curTok starts on '{' and ends on the
// closing '}' (or EOF when the body is unclosed).
func (p *Parser) parseClassBody(decl *ast.ClassDecl) {
	p.nextToken()

	for p.curTok.Type != lexer.RBRACE && p.curTok.Type != lexer.EOF {
		prevTok := p.curTok
		if p.parseClassMember(decl) {
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
}

func (p *Parser) parseClassMember(decl *ast.ClassDecl) bool {
	switch p.curTok.Type {
	case lexer.LET:
		stmt := p.parseLetStmt()
		if stmt == nil {
			return false
		}
		decl.Fields = append(decl.Fields, ast.NewField(stmt.Name, stmt.Type, stmt.Value, stmt.Span()))
		return true

	case lexer.IDENT:
		if p.peekTok.Type != lexer.COLON {
			p.reportExpected("':' after field name", p.peekTok)
			return false
		}
		field := p.parseTypedField()
		if field == nil {
			return false
		}
		decl.Fields = append(decl.Fields, field)
		return true

	case lexer.DEF:
		method := p.parseFnDecl(false, p.curTok.Span)
		if method == nil {
			return false
		}
		decl.Methods = append(decl.Methods, method)
		return true

	case lexer.ASYNC:
		start := p.curTok.Span
		if !p.expect(lexer.DEF) {
			return false
		}
		method := p.parseFnDecl(true, start)
		if method == nil {
			return false
		}
		decl.Methods = append(decl.Methods, method)
		return true

	case lexer.SEMICOLON:
		return true

	default:
		p.reportExpected("class member", p.curTok)
		return false
	}
}

// parseTypedField parses `name: Type (= default)?;`.
func (p *Parser) parseTypedField() *ast.Field {
	name := ast.NewIdent(p.curTok.Literal, p.curTok.Span)

	p.nextToken() // move to ':'
	p.nextToken() // move to type start
	typ := p.parseType()
	if typ == nil {
		return nil
	}

	var def ast.Expr
	if p.peekTok.Type == lexer.ASSIGN {
		p.nextToken() // move to '='
		p.nextToken() // move to value start
		def = p.parseExpr(precedenceLowest)
		if def == nil {
			return nil
		}
	}

	field := ast.NewField(name, typ, def, mergeSpan(name.Span(), p.curTok.Span))
	p.endStatement()
	return field
}
