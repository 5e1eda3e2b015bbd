package codegen

import (
	"github.com/noodle-lang/noodlec/internal/ast"
	"github.com/noodle-lang/noodlec/internal/bytecode"
)

// selfName is the implicit receiver bound to slot 0 of every method.
const selfName = "self"

func (g *Generator) genFnDecl(fn *ast.FnDecl) {
	// Bind first so the declaring frame can refer to the function by slot.
	slot := g.bind(fn.Name.Name, fn.Name)
	g.genFunction(fn, frameFunction)
	g.emit(fn, bytecode.STORE_LOCAL, slot)
}

// genFunction emits the body inline behind a jump and leaves the function
// value on the stack:
//
//	JUMP after
//	entry: <body>; PUSH_CONST none; RETURN
//	after: MAKE_FUNCTION name entry params async
func (g *Generator) genFunction(fn *ast.FnDecl, kind frameKind) {
	g.pushTypeParams(fn.TypeParams)
	defer g.popTypeParams()

	for _, p := range fn.Params {
		g.checkTypeRef(p.Type)
	}
	g.checkTypeRef(fn.ReturnType)

	skip := g.emitJump(fn, bytecode.JUMP)
	entry := g.here()

	g.pushFrame(kind)
	params := len(fn.Params)
	if kind == frameMethod {
		g.frame.declare(selfName)
		params++
	}
	for _, p := range fn.Params {
		g.bind(p.Name.Name, p.Name)
	}
	if fn.Body != nil {
		for _, stmt := range fn.Body.Stmts {
			g.genStmt(stmt)
		}
	}
	g.pushConst(fn, nil)
	g.emit(fn, bytecode.RETURN)
	g.popFrame()

	g.patchHere(skip)
	g.emit(fn, bytecode.MAKE_FUNCTION, g.constant(fn.Name.Name), entry, params, boolOperand(fn.IsAsync))
}

// genClassDecl pushes method name/function pairs, then field name/default
// pairs, and builds the class from them.
func (g *Generator) genClassDecl(cls *ast.ClassDecl) {
	slot := g.bind(cls.Name.Name, cls.Name)

	g.pushTypeParams(cls.TypeParams)
	defer g.popTypeParams()

	g.checkTypeRef(cls.Extends)
	for _, iface := range cls.Implements {
		g.checkTypeRef(iface)
	}

	for _, method := range cls.Methods {
		g.pushConst(method.Name, method.Name.Name)
		g.genFunction(method, frameMethod)
	}
	for _, field := range cls.Fields {
		g.checkTypeRef(field.Type)
		g.pushConst(field.Name, field.Name.Name)
		if field.Default != nil {
			g.genExpr(field.Default)
		} else {
			g.pushConst(field, nil)
		}
	}

	g.emit(cls, bytecode.BUILD_CLASS, g.constant(cls.Name.Name), len(cls.Methods), len(cls.Fields))
	g.emit(cls, bytecode.STORE_LOCAL, slot)
}
