package encoder

import (
	"github.com/LDY1998/prusti-dev/internal/footprint"
	"github.com/LDY1998/prusti-dev/internal/viper"
	"github.com/LDY1998/prusti-dev/internal/vir"
)

// packageWand encodes a wand-packaging statement. The symbolic execution
// of a package proof needs read access to every place the proof touches,
// so a read-footprint assert is injected before each statement that
// consumes places. The asserts carry the default position; a failure
// points at the package itself.
func (e *Encoder) packageWand(n *vir.PackageMagicWand) viper.Stmt {
	stmts := make([]viper.Stmt, len(n.Body))
	for i, s := range n.Body {
		stmts[i] = e.stmtInPackage(s)
	}
	return e.ast.Package(
		e.wandForPackage(n.Wand),
		e.ast.Seqn(stmts, e.localVarDecls(n.Vars)),
		e.Position(n.Position),
	)
}

func (e *Encoder) wandForPackage(wand *vir.MagicWand) *viper.MagicWandExpr {
	encoded := e.magicWand(wand)
	if e.cfg.SimplifyEncoding {
		return e.ast.SimplifiedExpression(encoded).(*viper.MagicWandExpr)
	}
	return encoded
}

// stmtInPackage encodes a statement inside a package proof body. Assign,
// Exhale and Fold are prefixed with read-footprint asserts and become a
// Seqn; conditionals recurse so nested bodies get the same treatment;
// everything else encodes as usual.
func (e *Encoder) stmtInPackage(s vir.Stmt) viper.Stmt {
	switch n := s.(type) {
	case *vir.Assign:
		stmts := e.footprintAsserts(n.Source)
		stmts = append(stmts, e.ast.AbstractAssign(e.Expr(n.Target), e.Expr(n.Source)))
		return e.ast.Seqn(stmts, nil)
	case *vir.Exhale:
		if n.Position.IsDefault() {
			panic("exhale statement without a position")
		}
		stmts := e.footprintAsserts(n.Expr)
		stmts = append(stmts, e.ast.Exhale(e.Expr(n.Expr), e.Position(n.Position)))
		return e.ast.Seqn(stmts, nil)
	case *vir.Fold:
		if len(n.Args) != 1 {
			panic("fold must have exactly one argument")
		}
		place := n.Args[0]
		if !vir.IsPlace(place) {
			panic("fold argument must be a place")
		}
		stmts := e.footprintAsserts(place)
		stmts = append(stmts, e.fold(n))
		return e.ast.Seqn(stmts, nil)
	case *vir.If:
		then := make([]viper.Stmt, len(n.Then))
		for i, s := range n.Then {
			then[i] = e.stmtInPackage(s)
		}
		els := make([]viper.Stmt, len(n.Else))
		for i, s := range n.Else {
			els[i] = e.stmtInPackage(s)
		}
		return e.ast.If(e.Expr(n.Guard), e.ast.Seqn(then, nil), e.ast.Seqn(els, nil))
	default:
		return e.Stmt(s)
	}
}

func (e *Encoder) footprintAsserts(x vir.Expr) []viper.Stmt {
	accesses := footprint.Compute(x, vir.Read)
	stmts := make([]viper.Stmt, 0, len(accesses)+1)
	for _, access := range accesses {
		stmts = append(stmts, e.ast.Assert(e.Expr(access), e.Position(vir.Position{})))
	}
	return stmts
}
