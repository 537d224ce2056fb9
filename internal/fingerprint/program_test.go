package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LDY1998/prusti-dev/internal/vir"
)

func sampleProgram() *vir.Program {
	self := vir.NewLocalVar("self", vir.TypedRef{Pred: "Account"})
	return &vir.Program{
		Name:   "account",
		Fields: []vir.Field{vir.NewField("balance", vir.Int{})},
		Predicates: []vir.Predicate{
			vir.StructPredicate{
				Name: "Account",
				This: self,
				Body: &vir.FieldAccessPredicate{
					Base: &vir.FieldAccess{
						Base:  &vir.Local{Var: self},
						Field: vir.NewField("balance", vir.Int{}),
					},
					Perm: vir.Write,
				},
			},
		},
		Methods: []vir.Method{
			{
				Name:       "deposit",
				FormalArgs: []vir.LocalVar{self},
				Body: []vir.Stmt{
					&vir.Inhale{Expr: vir.BoolLit(true)},
					&vir.Exhale{Expr: vir.BoolLit(true), Position: vir.NewPosition(4, 1, 17)},
				},
			},
		},
	}
}

func TestProgramFingerprintIsDeterministic(t *testing.T) {
	a, err := Program(sampleProgram())
	require.NoError(t, err)
	b, err := Program(sampleProgram())
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestProgramFingerprintSeesContent(t *testing.T) {
	base := MustProgram(sampleProgram())

	renamed := sampleProgram()
	renamed.Name = "other"
	assert.NotEqual(t, base, MustProgram(renamed))

	rebodied := sampleProgram()
	rebodied.Methods[0].Body[0] = &vir.Inhale{Expr: vir.BoolLit(false)}
	assert.NotEqual(t, base, MustProgram(rebodied))
}

func TestProgramFingerprintSeesPositions(t *testing.T) {
	base := MustProgram(sampleProgram())

	moved := sampleProgram()
	moved.Methods[0].Body[1] = &vir.Exhale{
		Expr:     vir.BoolLit(true),
		Position: vir.NewPosition(5, 1, 18),
	}
	assert.NotEqual(t, base, MustProgram(moved))
}

func TestHashWithDomainSeparatesDomains(t *testing.T) {
	data := []byte(`{"a":1}`)
	assert.NotEqual(t,
		hashWithDomain("vir/program/v1", data),
		hashWithDomain("vir/program/v2", data))
}
