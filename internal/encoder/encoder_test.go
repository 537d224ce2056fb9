package encoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LDY1998/prusti-dev/internal/viper"
	"github.com/LDY1998/prusti-dev/internal/vir"
)

func newTestEncoder(cfg Config) *Encoder {
	return New(viper.NewAstFactory(), cfg)
}

func TestPositionEncoding(t *testing.T) {
	e := newTestEncoder(Config{})

	pos := e.Position(vir.NewPosition(3, 5, 42))
	assert.Equal(t, viper.Position{Line: 3, Column: 5, ID: "42"}, pos)

	def := e.Position(vir.Position{})
	assert.Equal(t, viper.Position{Line: 0, Column: 0, ID: "0"}, def)
}

func TestTypeEncoding(t *testing.T) {
	e := newTestEncoder(Config{})

	assert.Equal(t, viper.IntType{}, e.Type(vir.Int{}))
	assert.Equal(t, viper.BoolType{}, e.Type(vir.Bool{}))
	assert.Equal(t, viper.RefType{}, e.Type(vir.TypedRef{Pred: "Account"}))
	assert.Equal(t, viper.DomainTypeNode{Name: "Seq$"}, e.Type(vir.DomainType{Domain: "Seq$"}))
}

func TestPermAmountEncoding(t *testing.T) {
	e := newTestEncoder(Config{})

	assert.Equal(t, "write", viper.ExprString(e.PermAmount(vir.Write)))
	assert.Equal(t, "read$()", viper.ExprString(e.PermAmount(vir.Read)))
	assert.Equal(t, "(write - read$())", viper.ExprString(e.PermAmount(vir.Remaining)))

	read, ok := e.PermAmount(vir.Read).(*viper.FuncAppExpr)
	require.True(t, ok)
	assert.True(t, read.Pos.IsNoPosition())
	assert.Equal(t, viper.PermType{}, read.Typ)
}

func TestResultVariableEncoding(t *testing.T) {
	e := newTestEncoder(Config{})

	res := e.Expr(&vir.Local{Var: vir.NewLocalVar(vir.ResultVarName, vir.Int{})})
	assert.Equal(t, "result", viper.ExprString(res))

	local := e.Expr(&vir.Local{Var: vir.NewLocalVar("x", vir.Int{})})
	assert.Equal(t, "x", viper.ExprString(local))
}

func TestFuncAppUsesComputedIdentifier(t *testing.T) {
	e := newTestEncoder(Config{})

	app := e.Expr(&vir.FuncApp{
		Name: "balance",
		Args: []vir.Expr{&vir.Local{Var: vir.NewLocalVar("acct", vir.TypedRef{Pred: "Account"})}},
		FormalArgs: []vir.LocalVar{
			vir.NewLocalVar("self", vir.TypedRef{Pred: "Account"}),
			vir.NewLocalVar("amount", vir.Int{}),
		},
		ReturnType: vir.Int{},
	})
	assert.Equal(t, "balance__$TY$__Account$$int$$$int$(acct)", viper.ExprString(app))
}

func TestWandValueCarriesDeadBorrowToken(t *testing.T) {
	e := newTestEncoder(Config{})
	left := vir.BoolLit(true)
	right := vir.BoolLit(true)

	t.Run("with borrow", func(t *testing.T) {
		borrow := vir.Borrow(7)
		wand := e.Expr(&vir.MagicWand{Left: left, Right: right, Borrow: &borrow})
		assert.Equal(t,
			"((acc(DeadBorrowToken$(7), write) && true) --* true)",
			viper.ExprString(wand))
	})

	t.Run("without borrow", func(t *testing.T) {
		wand := e.Expr(&vir.MagicWand{Left: left, Right: right})
		assert.Equal(t,
			"((acc(DeadBorrowToken$(-1), write) && true) --* true)",
			viper.ExprString(wand))
	})
}

func TestDowncastExpressionIsErased(t *testing.T) {
	e := newTestEncoder(Config{})
	base := &vir.Local{Var: vir.NewLocalVar("x", vir.TypedRef{Pred: "Enum"})}

	encoded := e.Expr(&vir.DowncastExpr{
		Base:      base,
		EnumPlace: base,
		Field:     vir.NewField("discriminant", vir.Int{}),
	})
	assert.Equal(t, "x", viper.ExprString(encoded))
}

func TestNoOpStatementsEncodeAsComments(t *testing.T) {
	e := newTestEncoder(Config{})
	x := &vir.Local{Var: vir.NewLocalVar("x", vir.TypedRef{Pred: "X"})}

	tests := []struct {
		name string
		stmt vir.Stmt
		want string
	}{
		{"obtain", &vir.Obtain{Expr: x}, "// obtain x"},
		{"begin frame", &vir.BeginFrame{}, "// begin frame"},
		{"end frame", &vir.EndFrame{}, "// end frame"},
		{"transfer perm", &vir.TransferPerm{Expiring: x, Restored: x}, "// transfer perm x --> x"},
		{"expire borrows", &vir.ExpireBorrows{Borrows: []vir.Borrow{3, 4}}, "// expire borrows [3, 4]"},
		{"downcast", &vir.Downcast{Base: x, Field: vir.NewField("f", vir.Int{})}, "// downcast x to f"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, viper.StmtString(e.Stmt(tc.stmt)))
		})
	}
}

func TestInhaleDefaultsPosition(t *testing.T) {
	e := newTestEncoder(Config{})

	stmt := e.Stmt(&vir.Inhale{Expr: vir.BoolLit(true), Position: vir.NewPosition(9, 9, 9)})
	inhale, ok := stmt.(*viper.InhaleStmt)
	require.True(t, ok)
	assert.Equal(t, viper.Position{Line: 0, Column: 0, ID: "0"}, inhale.Pos)
}

func TestExhaleRequiresPosition(t *testing.T) {
	e := newTestEncoder(Config{})

	assert.Panics(t, func() {
		e.Stmt(&vir.Exhale{Expr: vir.BoolLit(true)})
	})

	stmt := e.Stmt(&vir.Exhale{Expr: vir.BoolLit(true), Position: vir.NewPosition(1, 2, 3)})
	exhale, ok := stmt.(*viper.ExhaleStmt)
	require.True(t, ok)
	assert.Equal(t, "3", exhale.Pos.ID)
}

func TestApplyWand(t *testing.T) {
	e := newTestEncoder(Config{})
	borrow := vir.Borrow(7)
	wand := &vir.MagicWand{Left: vir.BoolLit(true), Right: vir.BoolLit(true), Borrow: &borrow}

	stmt := e.Stmt(&vir.ApplyMagicWand{Wand: wand, Position: vir.NewPosition(1, 1, 1)})
	seqn, ok := stmt.(*viper.SeqnStmt)
	require.True(t, ok)
	require.Len(t, seqn.Stmts, 2)

	inhale, ok := seqn.Stmts[0].(*viper.InhaleStmt)
	require.True(t, ok)
	assert.Equal(t, "acc(DeadBorrowToken$(7), write)", viper.ExprString(inhale.Expr))

	_, ok = seqn.Stmts[1].(*viper.ApplyStmt)
	assert.True(t, ok)
}

func TestApplyWandWithoutBorrowPanics(t *testing.T) {
	e := newTestEncoder(Config{})
	wand := &vir.MagicWand{Left: vir.BoolLit(true), Right: vir.BoolLit(true)}

	assert.Panics(t, func() {
		e.Stmt(&vir.ApplyMagicWand{Wand: wand, Position: vir.NewPosition(1, 1, 1)})
	})
}

// packageFixture builds package (true --*[7] true) { target.f := source.g.h }.
func packageFixture() *vir.PackageMagicWand {
	borrow := vir.Borrow(7)
	target := &vir.FieldAccess{
		Base:  &vir.Local{Var: vir.NewLocalVar("target", vir.TypedRef{Pred: "T"})},
		Field: vir.NewField("f", vir.TypedRef{Pred: "F"}),
	}
	source := &vir.FieldAccess{
		Base: &vir.FieldAccess{
			Base:  &vir.Local{Var: vir.NewLocalVar("source", vir.TypedRef{Pred: "S"})},
			Field: vir.NewField("g", vir.TypedRef{Pred: "G"}),
		},
		Field: vir.NewField("h", vir.Int{}),
	}
	return &vir.PackageMagicWand{
		Wand: &vir.MagicWand{
			Left:   vir.BoolLit(true),
			Right:  vir.BoolLit(true),
			Borrow: &borrow,
		},
		Body: []vir.Stmt{
			&vir.Assign{Target: target, Source: source, Kind: vir.AssignMove},
		},
		Label:    "pre_package",
		Position: vir.NewPosition(10, 2, 99),
	}
}

func TestPackageInjectsFootprintAsserts(t *testing.T) {
	e := newTestEncoder(Config{})

	stmt := e.Stmt(packageFixture())
	pkg, ok := stmt.(*viper.PackageStmt)
	require.True(t, ok)

	assert.Equal(t,
		"((acc(DeadBorrowToken$(7), write) && true) --* true)",
		viper.ExprString(pkg.Wand))

	require.Len(t, pkg.Proof.Stmts, 1)
	seqn, ok := pkg.Proof.Stmts[0].(*viper.SeqnStmt)
	require.True(t, ok)
	require.Len(t, seqn.Stmts, 3)

	first, ok := seqn.Stmts[0].(*viper.AssertStmt)
	require.True(t, ok)
	assert.Equal(t, "acc(source.g, read$())", viper.ExprString(first.Expr))
	assert.Equal(t, "0", first.Pos.ID)

	second, ok := seqn.Stmts[1].(*viper.AssertStmt)
	require.True(t, ok)
	assert.Equal(t, "acc(source.g.h, read$())", viper.ExprString(second.Expr))

	assign, ok := seqn.Stmts[2].(*viper.AssignStmt)
	require.True(t, ok)
	assert.Equal(t, "target.f", viper.ExprString(assign.Target))
}

func TestPackageRecursesThroughConditionals(t *testing.T) {
	e := newTestEncoder(Config{})
	fixture := packageFixture()
	fixture.Body = []vir.Stmt{
		&vir.If{
			Guard: vir.BoolLit(true),
			Then:  fixture.Body,
		},
	}

	stmt := e.Stmt(fixture)
	pkg, ok := stmt.(*viper.PackageStmt)
	require.True(t, ok)

	ifStmt, ok := pkg.Proof.Stmts[0].(*viper.IfStmt)
	require.True(t, ok)
	then, ok := ifStmt.Then.(*viper.SeqnStmt)
	require.True(t, ok)

	seqn, ok := then.Stmts[0].(*viper.SeqnStmt)
	require.True(t, ok)
	assert.Len(t, seqn.Stmts, 3)
}

func TestSimplifyEncoding(t *testing.T) {
	e := newTestEncoder(Config{SimplifyEncoding: true})

	encoded := e.Expr(&vir.BinOp{
		Op:    vir.BinAnd,
		Left:  vir.BoolLit(true),
		Right: &vir.Local{Var: vir.NewLocalVar("b", vir.Bool{})},
	})
	assert.Equal(t, "b", viper.ExprString(encoded))
}

func programFixture() *vir.Program {
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
					&vir.Comment{Comment: "no-op"},
				},
			},
		},
		BuiltinMethods: []vir.BodylessMethod{
			{Name: "builtin$havoc", FormalReturns: []vir.LocalVar{vir.NewLocalVar("ret", vir.Int{})}},
		},
	}
}

func TestProgramAppendsReadFunction(t *testing.T) {
	e := newTestEncoder(Config{})

	prog := e.Program(programFixture())
	require.NotEmpty(t, prog.Functions)

	read := prog.Functions[len(prog.Functions)-1]
	assert.Equal(t, ReadFuncName, read.Name)
	assert.Empty(t, read.FormalArgs)
	assert.Equal(t, viper.PermType{}, read.ReturnType)
	assert.Nil(t, read.Body)
	require.Len(t, read.Posts, 2)
	assert.Equal(t, "(none < result)", viper.ExprString(read.Posts[0]))
	assert.Equal(t, "(result < write)", viper.ExprString(read.Posts[1]))
}

func TestProgramMethodOrder(t *testing.T) {
	e := newTestEncoder(Config{})

	prog := e.Program(programFixture())
	require.Len(t, prog.Methods, 2)
	assert.Equal(t, "deposit", prog.Methods[0].Name)
	assert.Equal(t, "builtin$havoc", prog.Methods[1].Name)
}

func TestVerifyOnlyPreambleDropsMethods(t *testing.T) {
	e := newTestEncoder(Config{VerifyOnlyPreamble: true})

	prog := e.Program(programFixture())
	assert.Empty(t, prog.Methods)
	assert.Len(t, prog.Predicates, 1)
	require.NotEmpty(t, prog.Functions)
	assert.Equal(t, ReadFuncName, prog.Functions[len(prog.Functions)-1].Name)
}
