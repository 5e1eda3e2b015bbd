package lsp

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/noodle-lang/noodlec/internal/ast"
	"github.com/noodle-lang/noodlec/internal/lexer"
)

type symbolKind int

const (
	symVariable symbolKind = iota
	symFunction
	symClass
	symParam
	symTypeParam
	symImport
	symBinder
	symField
	symMethod
)

// symbol is one declared name and the region of source where it is visible.
type symbol struct {
	name   string
	kind   symbolKind
	span   lexer.Span
	scope  lexer.Span
	detail string
}

// isMember reports whether the symbol is only reachable through a receiver.
func (s *symbol) isMember() bool {
	return s.kind == symField || s.kind == symMethod
}

var wholeFile = lexer.Span{Start: 0, End: math.MaxInt}

type collector struct {
	symbols []symbol
	scopes  []lexer.Span
}

// collectSymbols indexes every declaration in prog in source order.
func collectSymbols(prog *ast.Program) []symbol {
	c := &collector{scopes: []lexer.Span{wholeFile}}
	for _, stmt := range prog.Stmts {
		c.stmt(stmt)
	}
	return c.symbols
}

func (c *collector) declare(name string, kind symbolKind, span lexer.Span, detail string) {
	if name == "" {
		return
	}
	c.symbols = append(c.symbols, symbol{
		name:   name,
		kind:   kind,
		span:   span,
		scope:  c.scopes[len(c.scopes)-1],
		detail: detail,
	})
}

func (c *collector) push(span lexer.Span) { c.scopes = append(c.scopes, span) }
func (c *collector) pop()                 { c.scopes = c.scopes[:len(c.scopes)-1] }

func (c *collector) stmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		c.expr(s.Value)
		if s.Name != nil {
			c.declare(s.Name.Name, symVariable, s.Name.Span(), letSignature(s))
		}
	case *ast.FnDecl:
		if s.Name != nil {
			c.declare(s.Name.Name, symFunction, s.Name.Span(), fnSignature(s))
		}
		c.function(s, "")
	case *ast.ClassDecl:
		c.class(s)
	case *ast.ExprStmt:
		c.expr(s.Expr)
	case *ast.BlockStmt:
		c.block(s)
	case *ast.ReturnStmt:
		c.expr(s.Value)
	case *ast.IfStmt:
		c.expr(s.Cond)
		c.block(s.Then)
		if s.Else != nil {
			c.stmt(s.Else)
		}
	case *ast.WhileStmt:
		c.expr(s.Cond)
		c.block(s.Body)
	case *ast.ForStmt:
		c.expr(s.Iterable)
		c.push(s.Span())
		if s.Binding != nil {
			c.declare(s.Binding.Name, symBinder, s.Binding.Span(), "for "+s.Binding.Name)
		}
		c.block(s.Body)
		c.pop()
	case *ast.ImportStmt:
		span := s.Span()
		if s.Alias != nil {
			span = s.Alias.Span()
		}
		c.declare(s.BindingName(), symImport, span, importSignature(s))
	}
}

func (c *collector) block(b *ast.BlockStmt) {
	if b == nil {
		return
	}
	c.push(b.Span())
	for _, stmt := range b.Stmts {
		c.stmt(stmt)
	}
	c.pop()
}

// function declares the type parameters and parameters inside the
// function's own scope. receiver is the owning class for methods.
func (c *collector) function(fn *ast.FnDecl, receiver string) {
	c.push(fn.Span())
	defer c.pop()

	c.typeParams(fn.TypeParams)
	if receiver != "" {
		c.declare("self", symParam, fn.Span(), "self: "+receiver)
	}
	for _, p := range fn.Params {
		if p.Name != nil {
			c.declare(p.Name.Name, symParam, p.Name.Span(), paramSignature(p))
		}
	}
	if fn.Body != nil {
		for _, stmt := range fn.Body.Stmts {
			c.stmt(stmt)
		}
	}
}

func (c *collector) class(cls *ast.ClassDecl) {
	if cls.Name == nil {
		return
	}
	c.declare(cls.Name.Name, symClass, cls.Name.Span(), classSignature(cls))

	c.push(cls.Span())
	defer c.pop()

	c.typeParams(cls.TypeParams)
	for _, f := range cls.Fields {
		c.expr(f.Default)
		if f.Name != nil {
			c.declare(f.Name.Name, symField, f.Name.Span(), fieldSignature(cls.Name.Name, f))
		}
	}
	for _, m := range cls.Methods {
		if m.Name != nil {
			c.declare(m.Name.Name, symMethod, m.Name.Span(), cls.Name.Name+"."+fnSignature(m))
		}
		c.function(m, cls.Name.Name)
	}
}

func (c *collector) typeParams(params []*ast.TypeParam) {
	for _, tp := range params {
		if tp.Name != nil {
			c.declare(tp.Name.Name, symTypeParam, tp.Name.Span(), typeParamSignature(tp))
		}
	}
}

func (c *collector) expr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.BinaryExpr:
		c.expr(e.Left)
		c.expr(e.Right)
	case *ast.UnaryExpr:
		c.expr(e.Operand)
	case *ast.AwaitExpr:
		c.expr(e.Value)
	case *ast.AssignExpr:
		c.expr(e.Target)
		c.expr(e.Value)
	case *ast.CallExpr:
		c.expr(e.Callee)
		for _, arg := range e.Args {
			c.expr(arg)
		}
	case *ast.MemberExpr:
		c.expr(e.Object)
	case *ast.ArrayLit:
		for _, el := range e.Elements {
			c.expr(el)
		}
	case *ast.BlockExpr:
		c.push(e.Span())
		for _, stmt := range e.Stmts {
			c.stmt(stmt)
		}
		c.pop()
	case *ast.MatchExpr:
		c.expr(e.Subject)
		for _, mc := range e.Cases {
			c.push(mc.Span())
			if p, ok := mc.Pattern.(*ast.IdentPattern); ok && p.Name != nil {
				c.declare(p.Name.Name, symBinder, p.Name.Span(), "binder "+p.Name.Name)
			}
			c.expr(mc.Guard)
			c.expr(mc.Body)
			c.pop()
		}
	}
}

// resolve finds the declaration name refers to at offset. Declarations
// already seen win, innermost scope first; otherwise the first later
// declaration in a visible scope is used, which covers calls to functions
// declared further down.
func resolve(symbols []symbol, name string, offset int) *symbol {
	var before, after *symbol
	for i := range symbols {
		sym := &symbols[i]
		if sym.name != name || sym.isMember() || !contains(sym.scope, offset) {
			continue
		}
		if sym.span.Start <= offset {
			if before == nil || width(sym.scope) < width(before.scope) ||
				(width(sym.scope) == width(before.scope) && sym.span.Start > before.span.Start) {
				before = sym
			}
		} else if after == nil {
			after = sym
		}
	}
	if before != nil {
		return before
	}
	return after
}

// visibleAt returns the symbols usable as bare names at offset, one per name.
func visibleAt(symbols []symbol, offset int) []*symbol {
	seen := make(map[string]bool)
	var out []*symbol
	for i := range symbols {
		sym := &symbols[i]
		if sym.isMember() || seen[sym.name] || !contains(sym.scope, offset) {
			continue
		}
		if best := resolve(symbols, sym.name, offset); best != nil {
			seen[sym.name] = true
			out = append(out, best)
		}
	}
	return out
}

func contains(scope lexer.Span, offset int) bool {
	return offset >= scope.Start && offset <= scope.End
}

func width(scope lexer.Span) int {
	return scope.End - scope.Start
}

// identAt returns the identifier under offset, if any.
func identAt(prog *ast.Program, offset int) *ast.Ident {
	var found *ast.Ident
	ast.Walk(prog, func(n ast.Node) bool {
		if found != nil {
			return false
		}
		if id, ok := n.(*ast.Ident); ok {
			span := id.Span()
			if offset >= span.Start && offset < span.End {
				found = id
				return false
			}
		}
		return true
	})
	return found
}

func letSignature(s *ast.LetStmt) string {
	out := "let " + s.Name.Name
	if s.Type != nil {
		out += ": " + s.Type.String()
	}
	return out
}

func fnSignature(fn *ast.FnDecl) string {
	var b strings.Builder
	if fn.IsAsync {
		b.WriteString("async ")
	}
	b.WriteString("def ")
	if fn.Name != nil {
		b.WriteString(fn.Name.Name)
	}
	writeTypeParams(&b, fn.TypeParams)
	b.WriteByte('(')
	for i, p := range fn.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(paramSignature(p))
	}
	b.WriteByte(')')
	if fn.ReturnType != nil {
		b.WriteString(": ")
		b.WriteString(fn.ReturnType.String())
	}
	return b.String()
}

func classSignature(cls *ast.ClassDecl) string {
	var b strings.Builder
	b.WriteString("class ")
	b.WriteString(cls.Name.Name)
	writeTypeParams(&b, cls.TypeParams)
	if cls.Extends != nil {
		b.WriteString(" extends ")
		b.WriteString(cls.Extends.String())
	}
	for i, iface := range cls.Implements {
		if i == 0 {
			b.WriteString(" implements ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(iface.String())
	}
	return b.String()
}

func writeTypeParams(b *strings.Builder, params []*ast.TypeParam) {
	if len(params) == 0 {
		return
	}
	b.WriteByte('<')
	for i, tp := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(typeParamSignature(tp))
	}
	b.WriteByte('>')
}

func typeParamSignature(tp *ast.TypeParam) string {
	if tp.Name == nil {
		return ""
	}
	if tp.Bound != nil {
		return tp.Name.Name + ": " + tp.Bound.String()
	}
	return tp.Name.Name
}

func paramSignature(p *ast.Param) string {
	if p.Name == nil {
		return ""
	}
	if p.Type != nil {
		return p.Name.Name + ": " + p.Type.String()
	}
	return p.Name.Name
}

func fieldSignature(owner string, f *ast.Field) string {
	out := owner + "." + f.Name.Name
	if f.Type != nil {
		out += ": " + f.Type.String()
	}
	return out
}

func importSignature(s *ast.ImportStmt) string {
	out := "import " + s.Path
	if s.Alias != nil {
		out += " as " + s.Alias.Name
	}
	return out
}

// DocumentSymbol is one entry of the hierarchical outline.
type DocumentSymbol struct {
	Name           string           `json:"name"`
	Detail         string           `json:"detail,omitempty"`
	Kind           int              `json:"kind"`
	Range          Range            `json:"range"`
	SelectionRange Range            `json:"selectionRange"`
	Children       []DocumentSymbol `json:"children,omitempty"`
}

const (
	symbolKindModule   = 2
	symbolKindClass    = 5
	symbolKindMethod   = 6
	symbolKindField    = 8
	symbolKindFunction = 12
	symbolKindVariable = 13
)

func (s *Server) handleDocumentSymbol(msg *jsonrpcMessage) *jsonrpcMessage {
	var params struct {
		TextDocument TextDocumentIdentifier `json:"textDocument"`
	}
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return replyError(msg, codeInvalidParams, "Invalid params: %v", err)
	}

	doc, ok := s.document(params.TextDocument.URI)
	if !ok {
		return reply(msg, []DocumentSymbol{})
	}
	return reply(msg, documentSymbols(doc))
}

// documentSymbols outlines the top-level declarations of a document.
func documentSymbols(doc *Document) []DocumentSymbol {
	out := []DocumentSymbol{}
	for _, stmt := range doc.Program.Stmts {
		switch s := stmt.(type) {
		case *ast.LetStmt:
			if s.Name == nil {
				continue
			}
			out = append(out, outlineEntry(doc, s.Name.Name, letSignature(s), symbolKindVariable, s.Span(), s.Name.Span()))
		case *ast.FnDecl:
			if s.Name == nil {
				continue
			}
			out = append(out, outlineEntry(doc, s.Name.Name, fnSignature(s), symbolKindFunction, s.Span(), s.Name.Span()))
		case *ast.ClassDecl:
			if s.Name == nil {
				continue
			}
			entry := outlineEntry(doc, s.Name.Name, classSignature(s), symbolKindClass, s.Span(), s.Name.Span())
			for _, f := range s.Fields {
				if f.Name != nil {
					entry.Children = append(entry.Children,
						outlineEntry(doc, f.Name.Name, fieldSignature(s.Name.Name, f), symbolKindField, f.Span(), f.Name.Span()))
				}
			}
			for _, m := range s.Methods {
				if m.Name != nil {
					entry.Children = append(entry.Children,
						outlineEntry(doc, m.Name.Name, fnSignature(m), symbolKindMethod, m.Span(), m.Name.Span()))
				}
			}
			out = append(out, entry)
		case *ast.ImportStmt:
			sel := s.Span()
			if s.Alias != nil {
				sel = s.Alias.Span()
			}
			out = append(out, outlineEntry(doc, s.BindingName(), importSignature(s), symbolKindModule, s.Span(), sel))
		}
	}
	return out
}

func outlineEntry(doc *Document, name, detail string, kind int, full, sel lexer.Span) DocumentSymbol {
	return DocumentSymbol{
		Name:           name,
		Detail:         detail,
		Kind:           kind,
		Range:          nodeRange(doc.Content, full),
		SelectionRange: nodeRange(doc.Content, sel),
	}
}
