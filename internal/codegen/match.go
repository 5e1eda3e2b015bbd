package codegen

import (
	"github.com/noodle-lang/noodlec/internal/ast"
	"github.com/noodle-lang/noodlec/internal/bytecode"
	"github.com/noodle-lang/noodlec/internal/diag"
)

// genMatchExpr lowers a match into a compare chain. The subject is stored in
// a hidden slot and each case, in source order, tests its pattern and guard
// and falls through to the next case on failure:
//
//	<subject>; STORE_LOCAL s
//	LOAD_LOCAL s; PUSH_CONST c; EQ; JUMP_IF_FALSE next   literal pattern
//	LOAD_LOCAL s; STORE_LOCAL b                          binder pattern
//	<guard>; JUMP_IF_FALSE next                          optional guard
//	<body>; JUMP end
//	...
//	MATCH_FAIL                                           no catch-all case
//
// Cases after the first unguarded catch-all are still generated but draw an
// unreachable-code warning.
func (g *Generator) genMatchExpr(m *ast.MatchExpr) {
	g.genExpr(m.Subject)
	subject := g.frame.alloc()
	g.emit(m, bytecode.STORE_LOCAL, subject)

	var ends []int
	exhaustive := false

	for _, c := range m.Cases {
		if exhaustive {
			g.reportWarning(diag.CodeUnreachableCode, c, "unreachable match case")
		}

		g.frame.pushScope()
		var next []int

		switch pat := c.Pattern.(type) {
		case *ast.LiteralPattern:
			g.emit(pat, bytecode.LOAD_LOCAL, subject)
			g.pushConst(pat, pat.Value.Value)
			g.emit(pat, bytecode.EQ)
			next = append(next, g.emitJump(pat, bytecode.JUMP_IF_FALSE))
		case *ast.IdentPattern:
			g.emit(pat, bytecode.LOAD_LOCAL, subject)
			slot, _ := g.frame.declare(pat.Name.Name)
			g.emit(pat, bytecode.STORE_LOCAL, slot)
		case *ast.WildcardPattern:
		default:
			g.reportError(diag.CodeGenUnsupportedNode, c, "cannot generate code for pattern %T", c.Pattern)
			g.emit(c, bytecode.NOP)
		}

		if c.Guard != nil {
			g.genExpr(c.Guard)
			next = append(next, g.emitJump(c.Guard, bytecode.JUMP_IF_FALSE))
		}

		g.genExpr(c.Body)
		ends = append(ends, g.emitJump(c, bytecode.JUMP))
		g.frame.popScope()

		for _, pos := range next {
			g.patchHere(pos)
		}

		if c.IsIrrefutable() {
			exhaustive = true
		}
	}

	if !exhaustive {
		g.emit(m, bytecode.MATCH_FAIL)
	}
	for _, pos := range ends {
		g.patchHere(pos)
	}
}
