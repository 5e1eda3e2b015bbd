package ast

import "github.com/noodle-lang/noodlec/internal/lexer"

// Node represents any AST node with an associated source span.
type Node interface {
	Span() lexer.Span
}

// Expr represents an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt represents a statement node. Declarations are statements too.
type Stmt interface {
	Node
	stmtNode()
}

// Program represents a parsed compilation unit.
type Program struct {
	Stmts []Stmt
	span  lexer.Span
}

// NewProgram constructs a program node with the provided span.
func NewProgram(span lexer.Span) *Program {
	return &Program{span: span}
}

// Span returns the span covering the entire program.
func (p *Program) Span() lexer.Span { return p.span }

// SetSpan updates the program span.
func (p *Program) SetSpan(span lexer.Span) { p.span = span }

// LetStmt represents `let name (: Type)? (= Value)?;`.
type LetStmt struct {
	Name  *Ident
	Type  *TypeRef
	Value Expr
	span  lexer.Span
}

// NewLetStmt constructs a let statement node.
func NewLetStmt(name *Ident, typ *TypeRef, value Expr, span lexer.Span) *LetStmt {
	return &LetStmt{
		Name:  name,
		Type:  typ,
		Value: value,
		span:  span,
	}
}

// Span returns the statement span.
func (s *LetStmt) Span() lexer.Span { return s.span }

// SetSpan updates the statement span.
func (s *LetStmt) SetSpan(span lexer.Span) { s.span = span }

// stmtNode marks LetStmt as a statement.
func (*LetStmt) stmtNode() {}

// FnDecl represents a function declaration.
type FnDecl struct {
	Name       *Ident
	TypeParams []*TypeParam
	Params     []*Param
	ReturnType *TypeRef
	Body       *BlockStmt
	IsAsync    bool
	span       lexer.Span
}

// NewFnDecl constructs a function declaration node.
func NewFnDecl(name *Ident, typeParams []*TypeParam, params []*Param, returnType *TypeRef, body *BlockStmt, isAsync bool, span lexer.Span) *FnDecl {
	return &FnDecl{
		Name:       name,
		TypeParams: typeParams,
		Params:     params,
		ReturnType: returnType,
		Body:       body,
		IsAsync:    isAsync,
		span:       span,
	}
}

// Span returns the declaration span.
func (d *FnDecl) Span() lexer.Span { return d.span }

// SetSpan updates the function declaration span.
func (d *FnDecl) SetSpan(span lexer.Span) { d.span = span }

// stmtNode marks FnDecl as a statement.
func (*FnDecl) stmtNode() {}

// Param represents a function parameter.
type Param struct {
	Name *Ident
	Type *TypeRef
	span lexer.Span
}

// NewParam constructs a parameter node.
func NewParam(name *Ident, typ *TypeRef, span lexer.Span) *Param {
	return &Param{Name: name, Type: typ, span: span}
}

// Span returns the parameter span.
func (p *Param) Span() lexer.Span { return p.span }

// ClassDecl represents a class declaration.
type ClassDecl struct {
	Name       *Ident
	TypeParams []*TypeParam
	Extends    *TypeRef
	Implements []*TypeRef
	Fields     []*Field
	Methods    []*FnDecl
	span       lexer.Span
}

// NewClassDecl constructs a class declaration node with no members.
func NewClassDecl(name *Ident, typeParams []*TypeParam, span lexer.Span) *ClassDecl {
	return &ClassDecl{
		Name:       name,
		TypeParams: typeParams,
		span:       span,
	}
}

// Span returns the declaration span.
func (d *ClassDecl) Span() lexer.Span { return d.span }

// SetSpan updates the class declaration span.
func (d *ClassDecl) SetSpan(span lexer.Span) { d.span = span }

// stmtNode marks ClassDecl as a statement.
func (*ClassDecl) stmtNode() {}

// Field represents a class field.
type Field struct {
	Name    *Ident
	Type    *TypeRef
	Default Expr
	span    lexer.Span
}

// NewField constructs a field node.
func NewField(name *Ident, typ *TypeRef, def Expr, span lexer.Span) *Field {
	return &Field{Name: name, Type: typ, Default: def, span: span}
}

// Span returns the field span.
func (f *Field) Span() lexer.Span { return f.span }

// BlockStmt represents `{ stmts }`.
type BlockStmt struct {
	Stmts []Stmt
	span  lexer.Span
}

// NewBlockStmt constructs a block statement node.
func NewBlockStmt(stmts []Stmt, span lexer.Span) *BlockStmt {
	return &BlockStmt{Stmts: stmts, span: span}
}

// Span returns the block span.
func (b *BlockStmt) Span() lexer.Span { return b.span }

// SetSpan updates the block span.
func (b *BlockStmt) SetSpan(span lexer.Span) { b.span = span }

// stmtNode marks BlockStmt as a statement.
func (*BlockStmt) stmtNode() {}

// ExprStmt wraps an expression evaluated for its effect.
type ExprStmt struct {
	Expr Expr
	span lexer.Span
}

// NewExprStmt constructs an expression statement node.
func NewExprStmt(expr Expr, span lexer.Span) *ExprStmt {
	return &ExprStmt{Expr: expr, span: span}
}

// Span returns the statement span.
func (s *ExprStmt) Span() lexer.Span { return s.span }

// stmtNode marks ExprStmt as a statement.
func (*ExprStmt) stmtNode() {}

// ReturnStmt represents `return value?;`.
type ReturnStmt struct {
	Value Expr
	span  lexer.Span
}

// NewReturnStmt constructs a return statement node.
func NewReturnStmt(value Expr, span lexer.Span) *ReturnStmt {
	return &ReturnStmt{Value: value, span: span}
}

// Span returns the statement span.
func (s *ReturnStmt) Span() lexer.Span { return s.span }

// stmtNode marks ReturnStmt as a statement.
func (*ReturnStmt) stmtNode() {}

// IfStmt represents `if cond { } else ...`. Else is a *BlockStmt or *IfStmt.
type IfStmt struct {
	Cond Expr
	Then *BlockStmt
	Else Stmt
	span lexer.Span
}

// NewIfStmt constructs an if statement node.
func NewIfStmt(cond Expr, then *BlockStmt, els Stmt, span lexer.Span) *IfStmt {
	return &IfStmt{Cond: cond, Then: then, Else: els, span: span}
}

// Span returns the statement span.
func (s *IfStmt) Span() lexer.Span { return s.span }

// stmtNode marks IfStmt as a statement.
func (*IfStmt) stmtNode() {}

// WhileStmt represents `while cond { }`.
type WhileStmt struct {
	Cond Expr
	Body *BlockStmt
	span lexer.Span
}

// NewWhileStmt constructs a while statement node.
func NewWhileStmt(cond Expr, body *BlockStmt, span lexer.Span) *WhileStmt {
	return &WhileStmt{Cond: cond, Body: body, span: span}
}

// Span returns the statement span.
func (s *WhileStmt) Span() lexer.Span { return s.span }

// stmtNode marks WhileStmt as a statement.
func (*WhileStmt) stmtNode() {}

// ForStmt represents `for (async)? binding in iterable { }`.
type ForStmt struct {
	IsAsync  bool
	Binding  *Ident
	Iterable Expr
	Body     *BlockStmt
	span     lexer.Span
}

// NewForStmt constructs a for statement node.
func NewForStmt(isAsync bool, binding *Ident, iterable Expr, body *BlockStmt, span lexer.Span) *ForStmt {
	return &ForStmt{
		IsAsync:  isAsync,
		Binding:  binding,
		Iterable: iterable,
		Body:     body,
		span:     span,
	}
}

// Span returns the statement span.
func (s *ForStmt) Span() lexer.Span { return s.span }

// stmtNode marks ForStmt as a statement.
func (*ForStmt) stmtNode() {}

// BreakStmt represents `break;`.
type BreakStmt struct {
	span lexer.Span
}

// NewBreakStmt constructs a break statement node.
func NewBreakStmt(span lexer.Span) *BreakStmt { return &BreakStmt{span: span} }

// Span returns the statement span.
func (s *BreakStmt) Span() lexer.Span { return s.span }

func (*BreakStmt) stmtNode() {}

// ContinueStmt represents `continue;`.
type ContinueStmt struct {
	span lexer.Span
}

// NewContinueStmt constructs a continue statement node.
func NewContinueStmt(span lexer.Span) *ContinueStmt { return &ContinueStmt{span: span} }

// Span returns the statement span.
func (s *ContinueStmt) Span() lexer.Span { return s.span }

func (*ContinueStmt) stmtNode() {}

// ImportStmt represents `import path (as alias)?;`. Path is either a dotted
// module name or a string literal value.
type ImportStmt struct {
	Path  string
	Alias *Ident
	span  lexer.Span
}

// NewImportStmt constructs an import statement node.
func NewImportStmt(path string, alias *Ident, span lexer.Span) *ImportStmt {
	return &ImportStmt{Path: path, Alias: alias, span: span}
}

// Span returns the statement span.
func (s *ImportStmt) Span() lexer.Span { return s.span }

func (*ImportStmt) stmtNode() {}

// BindingName returns the local name the import is bound to.
func (s *ImportStmt) BindingName() string {
	if s.Alias != nil {
		return s.Alias.Name
	}
	name := s.Path
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' || name[i] == '/' {
			return name[i+1:]
		}
	}
	return name
}
