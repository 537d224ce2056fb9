package encoder

import (
	"fmt"

	"github.com/LDY1998/prusti-dev/internal/viper"
	"github.com/LDY1998/prusti-dev/internal/vir"
)

// Stmt encodes a single VIR statement. Bookkeeping statements with no
// backend counterpart become comments carrying their textual form, so the
// emitted program still shows where they sat in the original body.
func (e *Encoder) Stmt(s vir.Stmt) viper.Stmt {
	switch n := s.(type) {
	case *vir.Comment:
		return e.ast.Comment(n.Comment)
	case *vir.Label:
		return e.ast.Label(n.Label, nil)
	case *vir.Inhale:
		return e.ast.Inhale(e.Expr(n.Expr), e.Position(vir.Position{}))
	case *vir.Exhale:
		if n.Position.IsDefault() {
			panic("exhale statement without a position")
		}
		return e.ast.Exhale(e.Expr(n.Expr), e.Position(n.Position))
	case *vir.Assert:
		return e.ast.Assert(e.Expr(n.Expr), e.Position(n.Position))
	case *vir.MethodCall:
		targets := make([]viper.Expr, len(n.Targets))
		for i, t := range n.Targets {
			targets[i] = e.localVar(t, vir.Position{})
		}
		return e.ast.MethodCall(n.Method, e.exprs(n.Args), targets)
	case *vir.Assign:
		return e.ast.AbstractAssign(e.Expr(n.Target), e.Expr(n.Source))
	case *vir.Fold:
		return e.fold(n)
	case *vir.Unfold:
		return e.ast.Unfold(e.ast.PredicateAccessPredicate(
			e.ast.PredicateAccess(e.exprs(n.Args), n.Predicate),
			e.PermAmount(n.Perm),
		))
	case *vir.Obtain:
		return e.ast.Comment(n.String())
	case *vir.BeginFrame:
		return e.ast.Comment(n.String())
	case *vir.EndFrame:
		return e.ast.Comment(n.String())
	case *vir.TransferPerm:
		return e.ast.Comment(n.String())
	case *vir.ExpireBorrows:
		return e.ast.Comment(n.String())
	case *vir.PackageMagicWand:
		return e.packageWand(n)
	case *vir.ApplyMagicWand:
		return e.applyWand(n)
	case *vir.If:
		return e.ast.If(
			e.Expr(n.Guard),
			e.ast.Seqn(e.stmts(n.Then), nil),
			e.ast.Seqn(e.stmts(n.Else), nil),
		)
	case *vir.Downcast:
		return e.ast.Comment(n.String())
	default:
		panic(fmt.Sprintf("unknown statement %T", s))
	}
}

func (e *Encoder) fold(n *vir.Fold) viper.Stmt {
	pos := e.Position(n.Position)
	return e.ast.FoldWithPos(
		e.ast.PredicateAccessPredicateWithPos(
			e.ast.PredicateAccessWithPos(e.exprs(n.Args), n.Predicate, pos),
			e.PermAmount(n.Perm),
			pos,
		),
		pos,
	)
}

// applyWand inhales the dead-borrow token tied to the wand before the
// apply, so the verifier can account for the borrow expiring. A wand is
// only applicable once its borrow has expired, so a missing borrow here
// is a construction error.
func (e *Encoder) applyWand(n *vir.ApplyMagicWand) viper.Stmt {
	if n.Wand.Borrow == nil {
		panic("applied magic wand must carry a borrow")
	}
	inhale := e.ast.Inhale(
		e.deadBorrowToken(n.Wand.Borrow.ID()),
		e.Position(n.Position),
	)
	apply := e.ast.Apply(e.Expr(n.Wand), e.Position(n.Position))
	return e.ast.Seqn([]viper.Stmt{inhale, apply}, nil)
}
