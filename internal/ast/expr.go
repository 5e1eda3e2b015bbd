package ast

import (
	"strconv"

	"github.com/noodle-lang/noodlec/internal/lexer"
)

// Ident represents an identifier expression.
type Ident struct {
	Name string
	span lexer.Span
}

// NewIdent constructs an identifier node.
func NewIdent(name string, span lexer.Span) *Ident {
	return &Ident{Name: name, span: span}
}

// Span returns the identifier span.
func (i *Ident) Span() lexer.Span { return i.span }

// exprNode marks Ident as an expression.
func (*Ident) exprNode() {}

// LiteralKind discriminates Literal values.
type LiteralKind int

const (
	LiteralNumber LiteralKind = iota
	LiteralString
	LiteralBool
	LiteralNone
)

func (k LiteralKind) String() string {
	switch k {
	case LiteralNumber:
		return "number"
	case LiteralString:
		return "string"
	case LiteralBool:
		return "bool"
	case LiteralNone:
		return "none"
	default:
		return "unknown"
	}
}

// Literal represents a number, string, bool or none literal. Value holds the
// decoded Go value: int64 or float64 for numbers, string, bool, or nil.
type Literal struct {
	Kind  LiteralKind
	Value any
	span  lexer.Span
}

// NewLiteral constructs a literal node.
func NewLiteral(kind LiteralKind, value any, span lexer.Span) *Literal {
	return &Literal{Kind: kind, Value: value, span: span}
}

// Span returns the literal span.
func (l *Literal) Span() lexer.Span { return l.span }

// SetSpan updates the literal span.
func (l *Literal) SetSpan(span lexer.Span) { l.span = span }

// exprNode marks Literal as an expression.
func (*Literal) exprNode() {}

// String renders the literal the way it would be written in source.
func (l *Literal) String() string {
	switch v := l.Value.(type) {
	case nil:
		return "none"
	case string:
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return "?"
	}
}

// BinaryExpr represents `Left Op Right`.
type BinaryExpr struct {
	Op    lexer.TokenType
	Left  Expr
	Right Expr
	span  lexer.Span
}

// NewBinaryExpr constructs a binary expression node.
func NewBinaryExpr(op lexer.TokenType, left, right Expr, span lexer.Span) *BinaryExpr {
	return &BinaryExpr{Op: op, Left: left, Right: right, span: span}
}

// Span returns the expression span.
func (e *BinaryExpr) Span() lexer.Span { return e.span }

// SetSpan updates the expression span.
func (e *BinaryExpr) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks BinaryExpr as an expression.
func (*BinaryExpr) exprNode() {}

// UnaryExpr represents `-x` or `!x`.
type UnaryExpr struct {
	Op      lexer.TokenType
	Operand Expr
	span    lexer.Span
}

// NewUnaryExpr constructs a unary expression node.
func NewUnaryExpr(op lexer.TokenType, operand Expr, span lexer.Span) *UnaryExpr {
	return &UnaryExpr{Op: op, Operand: operand, span: span}
}

// Span returns the expression span.
func (e *UnaryExpr) Span() lexer.Span { return e.span }

// exprNode marks UnaryExpr as an expression.
func (*UnaryExpr) exprNode() {}

// AwaitExpr represents `await value`.
type AwaitExpr struct {
	Value Expr
	span  lexer.Span
}

// NewAwaitExpr constructs an await expression node.
func NewAwaitExpr(value Expr, span lexer.Span) *AwaitExpr {
	return &AwaitExpr{Value: value, span: span}
}

// Span returns the expression span.
func (e *AwaitExpr) Span() lexer.Span { return e.span }

// exprNode marks AwaitExpr as an expression.
func (*AwaitExpr) exprNode() {}

// AssignExpr represents `Target = Value`.
type AssignExpr struct {
	Target Expr
	Value  Expr
	span   lexer.Span
}

// NewAssignExpr constructs an assignment expression node.
func NewAssignExpr(target, value Expr, span lexer.Span) *AssignExpr {
	return &AssignExpr{Target: target, Value: value, span: span}
}

// Span returns the expression span.
func (e *AssignExpr) Span() lexer.Span { return e.span }

// exprNode marks AssignExpr as an expression.
func (*AssignExpr) exprNode() {}

// CallExpr represents `Callee(Args...)`.
type CallExpr struct {
	Callee Expr
	Args   []Expr
	span   lexer.Span
}

// NewCallExpr constructs a call expression node.
func NewCallExpr(callee Expr, args []Expr, span lexer.Span) *CallExpr {
	return &CallExpr{Callee: callee, Args: args, span: span}
}

// Span returns the expression span.
func (e *CallExpr) Span() lexer.Span { return e.span }

// exprNode marks CallExpr as an expression.
func (*CallExpr) exprNode() {}

// MemberExpr represents `Object.Name`.
type MemberExpr struct {
	Object Expr
	Name   *Ident
	span   lexer.Span
}

// NewMemberExpr constructs a member access node.
func NewMemberExpr(object Expr, name *Ident, span lexer.Span) *MemberExpr {
	return &MemberExpr{Object: object, Name: name, span: span}
}

// Span returns the expression span.
func (e *MemberExpr) Span() lexer.Span { return e.span }

// exprNode marks MemberExpr as an expression.
func (*MemberExpr) exprNode() {}

// ArrayLit represents `[a, b, c]`.
type ArrayLit struct {
	Elements []Expr
	span     lexer.Span
}

// NewArrayLit constructs an array literal node.
func NewArrayLit(elements []Expr, span lexer.Span) *ArrayLit {
	return &ArrayLit{Elements: elements, span: span}
}

// Span returns the literal span.
func (e *ArrayLit) Span() lexer.Span { return e.span }

// exprNode marks ArrayLit as an expression.
func (*ArrayLit) exprNode() {}

// BlockExpr is a braced statement list used as a match arm body. Its value is
// the value of a trailing expression statement, or none.
type BlockExpr struct {
	Stmts []Stmt
	span  lexer.Span
}

// NewBlockExpr constructs a block expression node.
func NewBlockExpr(stmts []Stmt, span lexer.Span) *BlockExpr {
	return &BlockExpr{Stmts: stmts, span: span}
}

// Span returns the block span.
func (e *BlockExpr) Span() lexer.Span { return e.span }

// exprNode marks BlockExpr as an expression.
func (*BlockExpr) exprNode() {}

// MatchExpr represents `match Subject { cases }`. Cases keep source order;
// the first matching case wins.
type MatchExpr struct {
	Subject Expr
	Cases   []*MatchCase
	span    lexer.Span
}

// NewMatchExpr constructs a match expression node.
func NewMatchExpr(subject Expr, cases []*MatchCase, span lexer.Span) *MatchExpr {
	return &MatchExpr{Subject: subject, Cases: cases, span: span}
}

// Span returns the expression span.
func (e *MatchExpr) Span() lexer.Span { return e.span }

// SetSpan updates the expression span.
func (e *MatchExpr) SetSpan(span lexer.Span) { e.span = span }

// exprNode marks MatchExpr as an expression.
func (*MatchExpr) exprNode() {}

// MatchCase is one arm of a match expression.
type MatchCase struct {
	Pattern Pattern
	Guard   Expr
	Body    Expr
	span    lexer.Span
}

// NewMatchCase constructs a match case node.
func NewMatchCase(pattern Pattern, guard, body Expr, span lexer.Span) *MatchCase {
	return &MatchCase{Pattern: pattern, Guard: guard, Body: body, span: span}
}

// Span returns the case span.
func (c *MatchCase) Span() lexer.Span { return c.span }

// IsIrrefutable reports whether the case matches every value: an unguarded
// wildcard or binder.
func (c *MatchCase) IsIrrefutable() bool {
	if c.Guard != nil {
		return false
	}
	switch c.Pattern.(type) {
	case *WildcardPattern, *IdentPattern:
		return true
	default:
		return false
	}
}
