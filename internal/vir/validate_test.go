package vir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func methodWith(stmts ...Stmt) *Program {
	return &Program{
		Name:    "test",
		Methods: []Method{{Name: "m", Body: stmts}},
	}
}

func TestValidateAcceptsWellFormedProgram(t *testing.T) {
	borrow := Borrow(1)
	program := methodWith(
		&Comment{Comment: "setup"},
		&Inhale{Expr: BoolLit(true)},
		&Exhale{Expr: BoolLit(true), Position: NewPosition(1, 1, 1)},
		&Fold{
			Predicate: "P",
			Args:      []Expr{&Local{Var: NewLocalVar("x", TypedRef{Pred: "P"})}},
			Perm:      Write,
			Position:  NewPosition(2, 1, 2),
		},
		&ApplyMagicWand{
			Wand: &MagicWand{
				Left:   BoolLit(true),
				Right:  BoolLit(true),
				Borrow: &borrow,
			},
			Position: NewPosition(3, 1, 3),
		},
	)
	assert.NoError(t, Validate(program))
}

func TestValidateRejectsDefaultExhalePosition(t *testing.T) {
	err := Validate(methodWith(&Exhale{Expr: BoolLit(true)}))
	require.Error(t, err)
	var contractErr *ContractError
	require.ErrorAs(t, err, &contractErr)
	assert.Contains(t, contractErr.Message, "non-default position")
}

func TestValidateRejectsNonPlaceFoldArgument(t *testing.T) {
	err := Validate(methodWith(&Fold{
		Predicate: "P",
		Args:      []Expr{IntLit(1)},
		Perm:      Write,
		Position:  NewPosition(1, 1, 1),
	}))
	require.Error(t, err)
	var contractErr *ContractError
	require.ErrorAs(t, err, &contractErr)
	assert.Contains(t, contractErr.Message, "must be a place")
}

func TestValidateRejectsWandWithoutBorrow(t *testing.T) {
	err := Validate(methodWith(&ApplyMagicWand{
		Wand:     &MagicWand{Left: BoolLit(true), Right: BoolLit(true)},
		Position: NewPosition(1, 1, 1),
	}))
	require.Error(t, err)
	var contractErr *ContractError
	require.ErrorAs(t, err, &contractErr)
	assert.Contains(t, contractErr.Message, "borrow identifier")
}

func TestValidateRecursesIntoBranchesAndPackages(t *testing.T) {
	bad := &Exhale{Expr: BoolLit(true)} // default position

	err := Validate(methodWith(&If{
		Guard: BoolLit(true),
		Then:  []Stmt{bad},
	}))
	assert.Error(t, err)

	err = Validate(methodWith(&PackageMagicWand{
		Wand: &MagicWand{Left: BoolLit(true), Right: BoolLit(true)},
		Body: []Stmt{bad},
	}))
	assert.Error(t, err)
}

func TestValidateRejectsRemainingInSpecs(t *testing.T) {
	program := &Program{
		Name: "test",
		Functions: []Function{{
			Name:       "f",
			ReturnType: Int{},
			Pres: []Expr{&FieldAccessPredicate{
				Base: &Local{Var: NewLocalVar("x", TypedRef{Pred: "X"})},
				Perm: Remaining,
			}},
		}},
	}
	err := Validate(program)
	require.Error(t, err)
	var contractErr *ContractError
	require.ErrorAs(t, err, &contractErr)
	assert.Contains(t, contractErr.Message, "specifications")
}
