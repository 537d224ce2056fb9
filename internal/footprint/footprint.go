// Package footprint computes the heap-access assertions an expression
// needs held before it can be soundly evaluated.
//
// The backend's proof search inside magic-wand packages is weaker than for
// ordinary code, so the encoder asserts each expression's footprint
// explicitly there. Outside packages the verifier infers footprints on its
// own and this package is not consulted.
package footprint

import (
	"fmt"

	"github.com/LDY1998/prusti-dev/internal/vir"
)

// Compute returns the ordered heap-access assertions that must hold before
// the expression may be evaluated, at the given permission amount.
//
// For a place, the result is one field-access predicate per access-path
// prefix in root-to-leaf order: the backend checks assertions left to
// right, and shallower permissions must be established before deeper ones
// can be framed. The base variable itself needs no assertion.
//
// For compound expressions the result is the concatenation of the
// operands' footprints. Self-describing assertions (predicate and field
// access predicates, magic wands) and pure leaves contribute nothing.
//
// An expression shape with no defined footprint is a bug in the caller and
// panics.
func Compute(e vir.Expr, perm vir.PermAmount) []vir.Expr {
	if vir.IsPlace(e) {
		return placePrefixes(e, perm)
	}

	switch x := e.(type) {
	case *vir.Const, *vir.LabelledOld:
		// Pure computations over already-owned scalars and old-state
		// snapshots need no assertion.
		return nil
	case *vir.PredicateAccessPredicate, *vir.FieldAccessPredicate, *vir.MagicWand:
		// Already self-describing.
		return nil
	case *vir.UnaryOp:
		return Compute(x.Arg, perm)
	case *vir.BinOp:
		return append(Compute(x.Left, perm), Compute(x.Right, perm)...)
	case *vir.Cond:
		accesses := Compute(x.Guard, perm)
		accesses = append(accesses, Compute(x.Then, perm)...)
		return append(accesses, Compute(x.Else, perm)...)
	case *vir.FuncApp:
		var accesses []vir.Expr
		for _, arg := range x.Args {
			accesses = append(accesses, Compute(arg, perm)...)
		}
		return accesses
	case *vir.DomainFuncApp:
		var accesses []vir.Expr
		for _, arg := range x.Args {
			accesses = append(accesses, Compute(arg, perm)...)
		}
		return accesses
	case *vir.Unfolding:
		return Compute(x.Body, perm)
	default:
		panic(fmt.Sprintf("no footprint defined for expression %T (%s)", e, e))
	}
}

// placePrefixes walks a place from its base variable outward and asserts
// permission to every field/variant step.
func placePrefixes(place vir.Expr, perm vir.PermAmount) []vir.Expr {
	switch x := place.(type) {
	case *vir.Local:
		return nil
	case *vir.FieldAccess:
		accesses := placePrefixes(x.Base, perm)
		return append(accesses, &vir.FieldAccessPredicate{
			Base: x,
			Perm: perm,
		})
	case *vir.Variant:
		accesses := placePrefixes(x.Base, perm)
		return append(accesses, &vir.FieldAccessPredicate{
			Base: x,
			Perm: perm,
		})
	case *vir.AddrOf:
		return placePrefixes(x.Base, perm)
	default:
		panic(fmt.Sprintf("not a place: %T (%s)", place, place))
	}
}
