package viper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimplifiedBooleanFolding(t *testing.T) {
	f := NewAstFactory()
	pos := f.NoPosition()
	x := f.LocalVarWithPos("x", f.BoolType(), pos)

	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{"true && x", f.AndWithPos(f.TrueLitWithPos(pos), x, pos), "x"},
		{"x && true", f.AndWithPos(x, f.TrueLitWithPos(pos), pos), "x"},
		{"false && x", f.AndWithPos(f.FalseLitWithPos(pos), x, pos), "false"},
		{"false || x", f.OrWithPos(f.FalseLitWithPos(pos), x, pos), "x"},
		{"x || true", f.OrWithPos(x, f.TrueLitWithPos(pos), pos), "true"},
		{"true ==> x", f.ImpliesWithPos(f.TrueLitWithPos(pos), x, pos), "x"},
		{"false ==> x", f.ImpliesWithPos(f.FalseLitWithPos(pos), x, pos), "true"},
		{"x ==> true", f.ImpliesWithPos(x, f.TrueLitWithPos(pos), pos), "true"},
		{"!true", f.NotWithPos(f.TrueLitWithPos(pos), pos), "false"},
		{"!!x", f.NotWithPos(f.NotWithPos(x, pos), pos), "x"},
		{
			"cond folding",
			f.CondExpWithPos(f.TrueLitWithPos(pos), x, f.FalseLitWithPos(pos), pos),
			"x",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExprString(Simplified(tt.expr)))
		})
	}
}

func TestSimplifiedRecursesIntoChildren(t *testing.T) {
	f := NewAstFactory()
	pos := f.NoPosition()
	x := f.LocalVarWithPos("x", f.BoolType(), pos)

	// (true && x) ==> (false || x) simplifies to x ==> x.
	expr := f.ImpliesWithPos(
		f.AndWithPos(f.TrueLitWithPos(pos), x, pos),
		f.OrWithPos(f.FalseLitWithPos(pos), x, pos),
		pos,
	)
	assert.Equal(t, "(x ==> x)", ExprString(Simplified(expr)))
}

func TestSimplifiedLeavesResourcesAlone(t *testing.T) {
	f := NewAstFactory()
	pos := f.NoPosition()

	acc := f.PredicateAccessPredicateWithPos(
		f.PredicateAccess([]Expr{f.LocalVarWithPos("x", f.RefType(), pos)}, "P"),
		f.FullPerm(),
		pos,
	)
	assert.Equal(t, Expr(acc), Simplified(acc))
}
