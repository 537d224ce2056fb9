package vir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionIsDefault(t *testing.T) {
	assert.True(t, Position{}.IsDefault())
	assert.True(t, NewPosition(0, 0, 0).IsDefault())

	assert.False(t, NewPosition(123, 234, 345).IsDefault())
	assert.False(t, NewPosition(1, 0, 0).IsDefault())
	assert.False(t, NewPosition(0, 1, 0).IsDefault())
	assert.False(t, NewPosition(0, 0, 1).IsDefault())
}

func TestPermAmountAdd(t *testing.T) {
	amounts := []PermAmount{Read, Write, Remaining}

	for _, left := range amounts {
		for _, right := range amounts {
			got, err := left.Add(right)
			valid := (left == Read && right == Remaining) ||
				(left == Remaining && right == Read)
			if valid {
				require.NoError(t, err, "%s + %s", left, right)
				assert.Equal(t, Write, got)
				continue
			}

			require.Error(t, err, "%s + %s", left, right)
			var permErr *PermAmountError
			require.ErrorAs(t, err, &permErr)
			assert.Equal(t, ErrCodeInvalidAdd, permErr.Code)
			assert.Equal(t, left, permErr.Left)
			assert.Equal(t, right, permErr.Right)
		}
	}
}

func TestPermAmountSub(t *testing.T) {
	tests := []struct {
		left, right PermAmount
		want        PermAmount
		ok          bool
	}{
		{Write, Read, Remaining, true},
		{Write, Remaining, Read, true},
		{Write, Write, 0, false},
		{Read, Read, 0, false},
		{Read, Write, 0, false},
		{Read, Remaining, 0, false},
		{Remaining, Read, 0, false},
		{Remaining, Write, 0, false},
		{Remaining, Remaining, 0, false},
	}
	for _, tt := range tests {
		got, err := tt.left.Sub(tt.right)
		if tt.ok {
			require.NoError(t, err, "%s - %s", tt.left, tt.right)
			assert.Equal(t, tt.want, got)
			continue
		}

		require.Error(t, err, "%s - %s", tt.left, tt.right)
		var permErr *PermAmountError
		require.ErrorAs(t, err, &permErr)
		assert.Equal(t, ErrCodeInvalidSub, permErr.Code)
	}
}

func TestPermAmountCompare(t *testing.T) {
	assert.Equal(t, -1, Read.Compare(Write))
	assert.Equal(t, 1, Write.Compare(Read))
	assert.Equal(t, 0, Read.Compare(Read))
	assert.Equal(t, 0, Write.Compare(Write))

	// Remaining is incomparable with everything, including itself.
	assert.Panics(t, func() { Remaining.Compare(Read) })
	assert.Panics(t, func() { Remaining.Compare(Write) })
	assert.Panics(t, func() { Read.Compare(Remaining) })
	assert.Panics(t, func() { Write.Compare(Remaining) })
	assert.Panics(t, func() { Remaining.Compare(Remaining) })
}

func TestPermAmountIsValidForSpecs(t *testing.T) {
	assert.True(t, Read.IsValidForSpecs())
	assert.True(t, Write.IsValidForSpecs())
	assert.False(t, Remaining.IsValidForSpecs())
}

func TestTypeEqualityIsTagOnly(t *testing.T) {
	// Differently named references are the same type.
	assert.True(t, EqualShape(TypedRef{Pred: "A"}, TypedRef{Pred: "B"}))
	assert.True(t, EqualShape(DomainType{Domain: "X"}, DomainType{Domain: "Y"}))
	assert.True(t, EqualShape(Int{}, Int{}))

	assert.False(t, EqualShape(Int{}, Bool{}))
	assert.False(t, EqualShape(TypedRef{Pred: "A"}, DomainType{Domain: "A"}))
}

func TestTypeGetID(t *testing.T) {
	tests := []struct {
		typ  Type
		want TypeID
	}{
		{Int{}, TypeIDInt},
		{Bool{}, TypeIDBool},
		{TypedRef{Pred: "P"}, TypeIDRef},
		{DomainType{Domain: "D"}, TypeIDDomain},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.typ.Kind())
	}
}

func TestTypeVariant(t *testing.T) {
	typ := TypedRef{Pred: "Option"}.Variant("$Some")
	assert.Equal(t, TypedRef{Pred: "Option$Some"}, typ)

	assert.Panics(t, func() { Int{}.Variant("$Some") })
	assert.Panics(t, func() { Bool{}.Variant("$Some") })
	assert.Panics(t, func() { DomainType{Domain: "D"}.Variant("$Some") })
}

func TestTypePatch(t *testing.T) {
	substs := map[string]string{"T": "Int"}

	assert.Equal(t, TypedRef{Pred: "Vec<Int>"},
		TypedRef{Pred: "Vec<T>"}.Patch(substs))

	// No-op on non-reference types.
	assert.Equal(t, Type(Int{}), Int{}.Patch(substs))
	assert.Equal(t, Type(Bool{}), Bool{}.Patch(substs))
	assert.Equal(t, Type(DomainType{Domain: "T"}), DomainType{Domain: "T"}.Patch(substs))

	// Idempotent when no key occurs.
	assert.Equal(t, TypedRef{Pred: "Vec<Int>"},
		TypedRef{Pred: "Vec<Int>"}.Patch(map[string]string{"U": "Bool"}))
}

func TestTypePatchOverlappingKeys(t *testing.T) {
	// Longest key wins at each offset, and replacement text is not
	// rescanned, so overlapping keys substitute deterministically.
	substs := map[string]string{"T": "Int", "TT": "Bool"}
	assert.Equal(t, TypedRef{Pred: "Pair<Bool,Int>"},
		TypedRef{Pred: "Pair<TT,T>"}.Patch(substs))

	// A replacement containing another key is left alone.
	assert.Equal(t, TypedRef{Pred: "Box<TU>"},
		TypedRef{Pred: "Box<S>"}.Patch(map[string]string{"S": "TU", "T": "X"}))
}

func TestLocalVarAndFieldIdentity(t *testing.T) {
	a := NewLocalVar("x", TypedRef{Pred: "A"})
	b := NewLocalVar("x", TypedRef{Pred: "B"})
	assert.Equal(t, a.Key(), b.Key(), "identity ignores the carried type name")

	c := NewLocalVar("y", TypedRef{Pred: "A"})
	assert.NotEqual(t, a.Key(), c.Key())

	f := NewField("val_ref", TypedRef{Pred: "i32"})
	name, ok := f.TypedRefName()
	require.True(t, ok)
	assert.Equal(t, "i32", name)

	g := NewField("val_int", Int{})
	_, ok = g.TypedRefName()
	assert.False(t, ok)
}

func TestComputeIdentifier(t *testing.T) {
	args := []LocalVar{
		NewLocalVar("self", TypedRef{Pred: "Account"}),
		NewLocalVar("n", Int{}),
	}
	id := ComputeIdentifier("balance", args, Int{})
	assert.Equal(t, "balance__$TY$__Account$$int$$$int$", id)

	// Same name, different signature: identifiers must differ.
	other := ComputeIdentifier("balance", args[:1], Bool{})
	assert.NotEqual(t, id, other)

	assert.Equal(t, "f__$TY$__$bool$", ComputeIdentifier("f", nil, Bool{}))
}
