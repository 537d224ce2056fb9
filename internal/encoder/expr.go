package encoder

import (
	"fmt"

	"github.com/LDY1998/prusti-dev/internal/viper"
	"github.com/LDY1998/prusti-dev/internal/vir"
)

// Expr encodes a VIR expression. When SimplifyEncoding is set, the result
// is passed through the backend's simplifier before being returned.
func (e *Encoder) Expr(x vir.Expr) viper.Expr {
	encoded := e.exprInner(x)
	if e.cfg.SimplifyEncoding {
		return e.ast.SimplifiedExpression(encoded)
	}
	return encoded
}

func (e *Encoder) exprInner(x vir.Expr) viper.Expr {
	switch n := x.(type) {
	case *vir.Local:
		return e.localVar(n.Var, n.Position)
	case *vir.Variant:
		return e.ast.FieldAccessWithPos(
			e.Expr(n.Base),
			e.Field(n.Field),
			e.Position(n.Position),
		)
	case *vir.FieldAccess:
		return e.ast.FieldAccessWithPos(
			e.Expr(n.Base),
			e.Field(n.Field),
			e.Position(n.Position),
		)
	case *vir.AddrOf:
		panic("address-of expressions must be removed before encoding")
	case *vir.Const:
		return e.constValue(n.Value, n.Position)
	case *vir.LabelledOld:
		return e.ast.LabelledOldWithPos(e.Expr(n.Base), n.Label, e.Position(n.Position))
	case *vir.MagicWand:
		return e.magicWand(n)
	case *vir.PredicateAccessPredicate:
		return e.ast.PredicateAccessPredicateWithPos(
			e.ast.PredicateAccess([]viper.Expr{e.Expr(n.Arg)}, n.Predicate),
			e.PermAmount(n.Perm),
			e.Position(n.Position),
		)
	case *vir.FieldAccessPredicate:
		return e.ast.FieldAccessPredicateWithPos(
			e.Expr(n.Base),
			e.PermAmount(n.Perm),
			e.Position(n.Position),
		)
	case *vir.UnaryOp:
		return e.unaryOp(n)
	case *vir.BinOp:
		return e.binOp(n)
	case *vir.Unfolding:
		return e.ast.UnfoldingWithPos(
			e.ast.PredicateAccessPredicate(
				e.ast.PredicateAccess(e.exprs(n.Args), n.Predicate),
				e.PermAmount(n.Perm),
			),
			e.Expr(n.Body),
			e.Position(n.Position),
		)
	case *vir.Cond:
		return e.ast.CondExpWithPos(
			e.Expr(n.Guard),
			e.Expr(n.Then),
			e.Expr(n.Else),
			e.Position(n.Position),
		)
	case *vir.ForAll:
		return e.ast.ForallWithPos(
			e.localVarDecls(n.Vars),
			e.triggers(n.Triggers, n.Position),
			e.Expr(n.Body),
			e.Position(n.Position),
		)
	case *vir.LetExpr:
		return e.ast.LetExprWithPos(
			e.LocalVarDecl(n.Var),
			e.Expr(n.Def),
			e.Expr(n.Body),
			e.Position(n.Position),
		)
	case *vir.FuncApp:
		identifier := vir.ComputeIdentifier(n.Name, n.FormalArgs, n.ReturnType)
		return e.ast.FuncApp(
			identifier,
			e.exprs(n.Args),
			e.Type(n.ReturnType),
			e.Position(n.Position),
		)
	case *vir.DomainFuncApp:
		// No extra type-argument inference; the carried signature is final.
		return e.ast.DomainFuncApp(e.domainFunc(n.Func), e.exprs(n.Args))
	case *vir.InhaleExhale:
		return e.ast.InhaleExhalePred(e.Expr(n.InhaleExpr), e.Expr(n.ExhaleExpr))
	case *vir.DowncastExpr:
		// A downcast is a source-level annotation with no proof-relevant
		// effect at this layer.
		return e.Expr(n.Base)
	default:
		panic(fmt.Sprintf("unknown expression %T", x))
	}
}

// localVar encodes a variable reference, special-casing the reserved
// function-result name.
func (e *Encoder) localVar(v vir.LocalVar, pos vir.Position) viper.Expr {
	if v.VarName == vir.ResultVarName {
		return e.ast.ResultWithPos(e.Type(v.Typ), e.Position(pos))
	}
	return e.ast.LocalVarWithPos(v.VarName, e.Type(v.Typ), e.Position(pos))
}

func (e *Encoder) constValue(c vir.ConstValue, pos vir.Position) viper.Expr {
	vpos := e.Position(pos)
	switch v := c.(type) {
	case vir.BoolConst:
		if v {
			return e.ast.TrueLitWithPos(vpos)
		}
		return e.ast.FalseLitWithPos(vpos)
	case vir.IntConst:
		return e.ast.IntLitWithPos(fmt.Sprintf("%d", int64(v)), vpos)
	case vir.BigIntConst:
		return e.ast.IntLitWithPos(string(v), vpos)
	case vir.FnPtrConst:
		return e.ast.NullLitWithPos(vpos)
	default:
		panic(fmt.Sprintf("unknown constant %T", c))
	}
}

// magicWand encodes a wand value expression. The dead-borrow token is
// always conjoined into the left-hand side, using the carried borrow
// identifier or -1 when absent, mirroring the strengthening applied when
// a wand is packaged.
func (e *Encoder) magicWand(wand *vir.MagicWand) *viper.MagicWandExpr {
	borrowID := noBorrowID
	if wand.Borrow != nil {
		borrowID = wand.Borrow.ID()
	}
	pos := e.Position(wand.Position)
	lhs := e.ast.AndWithPos(e.deadBorrowToken(borrowID), e.Expr(wand.Left), pos)
	return e.ast.MagicWandWithPos(lhs, e.Expr(wand.Right), pos)
}

func (e *Encoder) unaryOp(n *vir.UnaryOp) viper.Expr {
	arg := e.Expr(n.Arg)
	pos := e.Position(n.Position)
	switch n.Op {
	case vir.UnaryNot:
		return e.ast.NotWithPos(arg, pos)
	case vir.UnaryMinus:
		return e.ast.MinusWithPos(arg, pos)
	default:
		panic(fmt.Sprintf("unknown unary operator %d", int(n.Op)))
	}
}

func (e *Encoder) binOp(n *vir.BinOp) viper.Expr {
	left := e.Expr(n.Left)
	right := e.Expr(n.Right)
	pos := e.Position(n.Position)
	switch n.Op {
	case vir.BinEqCmp:
		return e.ast.EqCmpWithPos(left, right, pos)
	case vir.BinNeCmp:
		return e.ast.NeCmpWithPos(left, right, pos)
	case vir.BinGtCmp:
		return e.ast.GtCmpWithPos(left, right, pos)
	case vir.BinGeCmp:
		return e.ast.GeCmpWithPos(left, right, pos)
	case vir.BinLtCmp:
		return e.ast.LtCmpWithPos(left, right, pos)
	case vir.BinLeCmp:
		return e.ast.LeCmpWithPos(left, right, pos)
	case vir.BinAdd:
		return e.ast.AddWithPos(left, right, pos)
	case vir.BinSub:
		return e.ast.SubWithPos(left, right, pos)
	case vir.BinMul:
		return e.ast.MulWithPos(left, right, pos)
	case vir.BinDiv:
		return e.ast.DivWithPos(left, right, pos)
	case vir.BinMod:
		return e.ast.ModWithPos(left, right, pos)
	case vir.BinAnd:
		return e.ast.AndWithPos(left, right, pos)
	case vir.BinOr:
		return e.ast.OrWithPos(left, right, pos)
	case vir.BinImplies:
		return e.ast.ImpliesWithPos(left, right, pos)
	default:
		panic(fmt.Sprintf("unknown binary operator %d", int(n.Op)))
	}
}

func (e *Encoder) triggers(triggers []vir.Trigger, pos vir.Position) []*viper.TriggerNode {
	out := make([]*viper.TriggerNode, len(triggers))
	for i, tr := range triggers {
		out[i] = e.ast.TriggerWithPos(e.exprs(tr.Parts), e.Position(pos))
	}
	return out
}

func (e *Encoder) domainFunc(fn vir.DomainFunc) *viper.DomainFuncDecl {
	return e.ast.DomainFunc(
		fn.Identifier(),
		e.localVarDecls(fn.FormalArgs),
		e.Type(fn.ReturnType),
		fn.Unique,
		fn.DomainName,
	)
}
