package encoder

import (
	"fmt"

	"github.com/LDY1998/prusti-dev/internal/viper"
	"github.com/LDY1998/prusti-dev/internal/vir"
)

// ReadFuncName is the globally declared nullary function representing the
// symbolic read permission amount.
const ReadFuncName = "read$"

// DeadBorrowTokenName is the synthetic nominal resource recording that a
// borrow has expired.
const DeadBorrowTokenName = "DeadBorrowToken$"

// noBorrowID renders a wand that carries no borrow identifier.
const noBorrowID = -1

// Config holds the read-only switches the encoder consults. It is threaded
// explicitly so an encoding pass is referentially transparent and testable
// in isolation.
type Config struct {
	// VerifyOnlyPreamble drops all methods from the encoded program,
	// producing a checkable skeleton of declarations.
	VerifyOnlyPreamble bool

	// SimplifyEncoding passes every encoded expression through the
	// backend's simplifier.
	SimplifyEncoding bool
}

// Encoder translates VIR into backend nodes. It is immutable after
// construction; methods may be called from one goroutine at a time per
// Encoder, and separate Encoders are fully independent.
type Encoder struct {
	ast *viper.AstFactory
	cfg Config
}

// New creates an Encoder around the given construction handle.
func New(ast *viper.AstFactory, cfg Config) *Encoder {
	return &Encoder{ast: ast, cfg: cfg}
}

// Position encodes a VIR position as a backend identifier position.
func (e *Encoder) Position(pos vir.Position) viper.Position {
	return e.ast.IdentifierPosition(pos.Line, pos.Column, fmt.Sprintf("%d", pos.ID))
}

// Type encodes a VIR type. All references erase to the backend's Ref type;
// the predicate name lives on in predicate accesses, not in the type.
func (e *Encoder) Type(typ vir.Type) viper.Type {
	switch t := typ.(type) {
	case vir.Int:
		return e.ast.IntType()
	case vir.Bool:
		return e.ast.BoolType()
	case vir.TypedRef:
		return e.ast.RefType()
	case vir.DomainType:
		return e.ast.DomainType(t.Domain)
	default:
		panic(fmt.Sprintf("unknown type %T", typ))
	}
}

// LocalVarDecl encodes a variable declaration.
func (e *Encoder) LocalVarDecl(v vir.LocalVar) *viper.LocalVarDecl {
	return e.ast.LocalVarDecl(v.VarName, e.Type(v.Typ))
}

// Field encodes a field declaration.
func (e *Encoder) Field(f vir.Field) *viper.Field {
	return e.ast.Field(f.FieldName, e.Type(f.Typ))
}

// PermAmount renders a permission amount. Write is the full-permission
// constant; Read is an application of the global symbolic read function;
// Remaining is full minus read built with the backend's arithmetic, not
// with the Permission Algebra's Sub.
func (e *Encoder) PermAmount(perm vir.PermAmount) viper.Expr {
	switch perm {
	case vir.Write:
		return e.ast.FullPerm()
	case vir.Read:
		return e.ast.FuncApp(ReadFuncName, nil, e.ast.PermType(), e.ast.NoPosition())
	case vir.Remaining:
		return e.ast.PermSub(e.PermAmount(vir.Write), e.PermAmount(vir.Read))
	default:
		panic(fmt.Sprintf("unknown permission amount %d", int(perm)))
	}
}

func (e *Encoder) localVarDecls(vars []vir.LocalVar) []*viper.LocalVarDecl {
	decls := make([]*viper.LocalVarDecl, len(vars))
	for i, v := range vars {
		decls[i] = e.LocalVarDecl(v)
	}
	return decls
}

func (e *Encoder) exprs(exprs []vir.Expr) []viper.Expr {
	out := make([]viper.Expr, len(exprs))
	for i, x := range exprs {
		out[i] = e.Expr(x)
	}
	return out
}

func (e *Encoder) stmts(stmts []vir.Stmt) []viper.Stmt {
	out := make([]viper.Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = e.Stmt(s)
	}
	return out
}

// deadBorrowToken builds acc(DeadBorrowToken$(id), write).
func (e *Encoder) deadBorrowToken(id int) *viper.PredicateAccessPredicate {
	idLit := e.ast.IntLitWithPos(fmt.Sprintf("%d", id), e.ast.NoPosition())
	return e.ast.PredicateAccessPredicate(
		e.ast.PredicateAccess([]viper.Expr{idLit}, DeadBorrowTokenName),
		e.ast.FullPerm(),
	)
}
