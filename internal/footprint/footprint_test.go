package footprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LDY1998/prusti-dev/internal/vir"
)

// threeLevelPlace builds x.f.g.h.
func threeLevelPlace() vir.Expr {
	x := &vir.Local{Var: vir.NewLocalVar("x", vir.TypedRef{Pred: "X"})}
	f := &vir.FieldAccess{Base: x, Field: vir.NewField("f", vir.TypedRef{Pred: "F"})}
	g := &vir.FieldAccess{Base: f, Field: vir.NewField("g", vir.TypedRef{Pred: "G"})}
	return &vir.FieldAccess{Base: g, Field: vir.NewField("h", vir.Int{})}
}

func TestPlaceFootprintIsRootToLeaf(t *testing.T) {
	accesses := Compute(threeLevelPlace(), vir.Read)
	require.Len(t, accesses, 3)

	want := []string{
		"acc(x.f, read)",
		"acc(x.f.g, read)",
		"acc(x.f.g.h, read)",
	}
	for i, access := range accesses {
		pred, ok := access.(*vir.FieldAccessPredicate)
		require.True(t, ok)
		assert.Equal(t, vir.Read, pred.Perm)
		assert.Equal(t, want[i], access.String())
	}
}

func TestBaseVariableNeedsNoAssertion(t *testing.T) {
	x := &vir.Local{Var: vir.NewLocalVar("x", vir.TypedRef{Pred: "X"})}
	assert.Empty(t, Compute(x, vir.Write))
}

func TestPureBinaryOpOverScalarsIsEmpty(t *testing.T) {
	sum := &vir.BinOp{Op: vir.BinAdd, Left: vir.IntLit(1), Right: vir.IntLit(2)}
	assert.Empty(t, Compute(sum, vir.Read))
}

func TestCompoundFootprintConcatenatesOperands(t *testing.T) {
	x := &vir.Local{Var: vir.NewLocalVar("x", vir.TypedRef{Pred: "X"})}
	y := &vir.Local{Var: vir.NewLocalVar("y", vir.TypedRef{Pred: "Y"})}
	xf := &vir.FieldAccess{Base: x, Field: vir.NewField("f", vir.Int{})}
	yg := &vir.FieldAccess{Base: y, Field: vir.NewField("g", vir.Int{})}

	cmp := &vir.BinOp{Op: vir.BinEqCmp, Left: xf, Right: yg}
	accesses := Compute(cmp, vir.Read)
	require.Len(t, accesses, 2)
	assert.Equal(t, "acc(x.f, read)", accesses[0].String())
	assert.Equal(t, "acc(y.g, read)", accesses[1].String())
}

func TestSelfDescribingAssertionsContributeNothing(t *testing.T) {
	x := &vir.Local{Var: vir.NewLocalVar("x", vir.TypedRef{Pred: "X"})}

	acc := &vir.PredicateAccessPredicate{Predicate: "P", Arg: x, Perm: vir.Write}
	assert.Empty(t, Compute(acc, vir.Read))

	fieldAcc := &vir.FieldAccessPredicate{
		Base: &vir.FieldAccess{Base: x, Field: vir.NewField("f", vir.Int{})},
		Perm: vir.Write,
	}
	assert.Empty(t, Compute(fieldAcc, vir.Read))

	wand := &vir.MagicWand{Left: vir.BoolLit(true), Right: vir.BoolLit(true)}
	assert.Empty(t, Compute(wand, vir.Read))

	// But siblings that are places still contribute, in operand order.
	xf := &vir.FieldAccess{Base: x, Field: vir.NewField("f", vir.Int{})}
	conj := &vir.BinOp{Op: vir.BinAnd, Left: acc, Right: xf}
	accesses := Compute(conj, vir.Read)
	require.Len(t, accesses, 1)
	assert.Equal(t, "acc(x.f, read)", accesses[0].String())
}

func TestVariantStepsCountAsPrefixes(t *testing.T) {
	e := &vir.Local{Var: vir.NewLocalVar("e", vir.TypedRef{Pred: "E"})}
	some := &vir.Variant{Base: e, Field: vir.NewField("E$Some", vir.TypedRef{Pred: "E$Some"})}
	val := &vir.FieldAccess{Base: some, Field: vir.NewField("val", vir.Int{})}

	accesses := Compute(val, vir.Write)
	require.Len(t, accesses, 2)
	assert.Equal(t, "acc(e[E$Some], write)", accesses[0].String())
	assert.Equal(t, "acc(e[E$Some].val, write)", accesses[1].String())
}

func TestUnsupportedShapePanics(t *testing.T) {
	v := vir.NewLocalVar("i", vir.Int{})
	quantifier := &vir.ForAll{Vars: []vir.LocalVar{v}, Body: vir.BoolLit(true)}
	assert.Panics(t, func() { Compute(quantifier, vir.Read) })
}
