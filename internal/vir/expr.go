package vir

import (
	"fmt"
	"strings"
)

// Expr represents a VIR expression.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in the footprint calculator and the encoder.
//
// All nodes are immutable after construction and carry a Position for
// diagnostics.
type Expr interface {
	exprNode() // Marker method - seals interface to this package

	// Pos returns the node's source position (possibly the default).
	Pos() Position

	String() string
}

// UnaryOpKind enumerates unary operators.
type UnaryOpKind int

const (
	UnaryNot UnaryOpKind = iota
	UnaryMinus
)

// String returns the operator's concrete syntax.
func (op UnaryOpKind) String() string {
	switch op {
	case UnaryNot:
		return "!"
	case UnaryMinus:
		return "-"
	default:
		return fmt.Sprintf("UnaryOpKind(%d)", int(op))
	}
}

// BinOpKind enumerates binary operators.
type BinOpKind int

const (
	BinEqCmp BinOpKind = iota
	BinNeCmp
	BinGtCmp
	BinGeCmp
	BinLtCmp
	BinLeCmp
	BinAdd
	BinSub
	BinMul
	BinDiv
	BinMod
	BinAnd
	BinOr
	BinImplies
)

// String returns the operator's concrete syntax.
func (op BinOpKind) String() string {
	switch op {
	case BinEqCmp:
		return "=="
	case BinNeCmp:
		return "!="
	case BinGtCmp:
		return ">"
	case BinGeCmp:
		return ">="
	case BinLtCmp:
		return "<"
	case BinLeCmp:
		return "<="
	case BinAdd:
		return "+"
	case BinSub:
		return "-"
	case BinMul:
		return "*"
	case BinDiv:
		return "/"
	case BinMod:
		return "%"
	case BinAnd:
		return "&&"
	case BinOr:
		return "||"
	case BinImplies:
		return "==>"
	default:
		return fmt.Sprintf("BinOpKind(%d)", int(op))
	}
}

// ConstValue is a sealed interface over literal constants.
// Only BoolConst, IntConst, BigIntConst, and FnPtrConst implement it.
type ConstValue interface {
	constValue() // Sealed - only these types implement it
	String() string
}

// BoolConst is a boolean literal.
type BoolConst bool

func (BoolConst) constValue() {}
func (c BoolConst) String() string {
	if c {
		return "true"
	}
	return "false"
}

// IntConst is a machine-width integer literal.
type IntConst int64

func (IntConst) constValue()      {}
func (c IntConst) String() string { return fmt.Sprintf("%d", int64(c)) }

// BigIntConst is an arbitrary-precision integer literal, carried as its
// decimal text.
type BigIntConst string

func (BigIntConst) constValue()      {}
func (c BigIntConst) String() string { return string(c) }

// FnPtrConst is a function-pointer literal. It encodes to the backend's
// null literal: the value itself is never inspected by the verifier.
type FnPtrConst struct{}

func (FnPtrConst) constValue()    {}
func (FnPtrConst) String() string { return "fnptr" }

// Local is a reference to a local variable.
type Local struct {
	Var      LocalVar
	Position Position
}

func (*Local) exprNode()        {}
func (e *Local) Pos() Position  { return e.Position }
func (e *Local) String() string { return e.Var.VarName }

// Variant accesses the discriminant arm of a sum-like structure, as a
// field step on the enclosing place.
type Variant struct {
	Base     Expr
	Field    Field
	Position Position
}

func (*Variant) exprNode()       {}
func (e *Variant) Pos() Position { return e.Position }
func (e *Variant) String() string {
	return fmt.Sprintf("%s[%s]", e.Base, e.Field.FieldName)
}

// FieldAccess dereferences a field of a place.
type FieldAccess struct {
	Base     Expr
	Field    Field
	Position Position
}

func (*FieldAccess) exprNode()       {}
func (e *FieldAccess) Pos() Position { return e.Position }
func (e *FieldAccess) String() string {
	return fmt.Sprintf("%s.%s", e.Base, e.Field.FieldName)
}

// AddrOf takes the address of a place. It never reaches the encoder;
// upstream lowering removes it.
type AddrOf struct {
	Base     Expr
	Typ      Type
	Position Position
}

func (*AddrOf) exprNode()        {}
func (e *AddrOf) Pos() Position  { return e.Position }
func (e *AddrOf) String() string { return fmt.Sprintf("&(%s)", e.Base) }

// Const is a literal constant.
type Const struct {
	Value    ConstValue
	Position Position
}

func (*Const) exprNode()        {}
func (e *Const) Pos() Position  { return e.Position }
func (e *Const) String() string { return e.Value.String() }

// IntLit builds an integer literal with no position.
func IntLit(v int64) *Const {
	return &Const{Value: IntConst(v)}
}

// BoolLit builds a boolean literal with no position.
func BoolLit(v bool) *Const {
	return &Const{Value: BoolConst(v)}
}

// LabelledOld evaluates an expression in the heap state at a labelled
// program point.
type LabelledOld struct {
	Label    string
	Base     Expr
	Position Position
}

func (*LabelledOld) exprNode()       {}
func (e *LabelledOld) Pos() Position { return e.Position }
func (e *LabelledOld) String() string {
	return fmt.Sprintf("old[%s](%s)", e.Label, e.Base)
}

// MagicWand is the separation-logic implication resource Left --* Right.
// Borrow, when present, links the wand to the reborrow whose expiry makes
// the wand applicable.
type MagicWand struct {
	Left     Expr
	Right    Expr
	Borrow   *Borrow
	Position Position
}

func (*MagicWand) exprNode()       {}
func (e *MagicWand) Pos() Position { return e.Position }
func (e *MagicWand) String() string {
	if e.Borrow != nil {
		return fmt.Sprintf("(%s) --*[%d] (%s)", e.Left, e.Borrow.ID(), e.Right)
	}
	return fmt.Sprintf("(%s) --* (%s)", e.Left, e.Right)
}

// PredicateAccessPredicate asserts permission to a predicate instance.
type PredicateAccessPredicate struct {
	Predicate string
	Arg       Expr
	Perm      PermAmount
	Position  Position
}

func (*PredicateAccessPredicate) exprNode()       {}
func (e *PredicateAccessPredicate) Pos() Position { return e.Position }
func (e *PredicateAccessPredicate) String() string {
	return fmt.Sprintf("acc(%s(%s), %s)", e.Predicate, e.Arg, e.Perm)
}

// FieldAccessPredicate asserts permission to a field location.
type FieldAccessPredicate struct {
	Base     Expr
	Perm     PermAmount
	Position Position
}

func (*FieldAccessPredicate) exprNode()       {}
func (e *FieldAccessPredicate) Pos() Position { return e.Position }
func (e *FieldAccessPredicate) String() string {
	return fmt.Sprintf("acc(%s, %s)", e.Base, e.Perm)
}

// UnaryOp applies a unary operator.
type UnaryOp struct {
	Op       UnaryOpKind
	Arg      Expr
	Position Position
}

func (*UnaryOp) exprNode()        {}
func (e *UnaryOp) Pos() Position  { return e.Position }
func (e *UnaryOp) String() string { return fmt.Sprintf("%s(%s)", e.Op, e.Arg) }

// BinOp applies a binary operator.
type BinOp struct {
	Op       BinOpKind
	Left     Expr
	Right    Expr
	Position Position
}

func (*BinOp) exprNode()       {}
func (e *BinOp) Pos() Position { return e.Position }
func (e *BinOp) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
}

// Unfolding temporarily holds a predicate's unfolded permissions while
// evaluating Body.
type Unfolding struct {
	Predicate string
	Args      []Expr
	Body      Expr
	Perm      PermAmount
	Position  Position
}

func (*Unfolding) exprNode()       {}
func (e *Unfolding) Pos() Position { return e.Position }
func (e *Unfolding) String() string {
	return fmt.Sprintf("unfolding acc(%s(%s), %s) in %s",
		e.Predicate, exprList(e.Args), e.Perm, e.Body)
}

// Cond is a conditional (ternary) expression.
type Cond struct {
	Guard    Expr
	Then     Expr
	Else     Expr
	Position Position
}

func (*Cond) exprNode()       {}
func (e *Cond) Pos() Position { return e.Position }
func (e *Cond) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", e.Guard, e.Then, e.Else)
}

// Trigger is a set of expressions guiding quantifier instantiation.
type Trigger struct {
	Parts []Expr
}

func (t Trigger) String() string {
	return fmt.Sprintf("{%s}", exprList(t.Parts))
}

// ForAll is a universal quantifier.
type ForAll struct {
	Vars     []LocalVar
	Triggers []Trigger
	Body     Expr
	Position Position
}

func (*ForAll) exprNode()       {}
func (e *ForAll) Pos() Position { return e.Position }
func (e *ForAll) String() string {
	names := make([]string, len(e.Vars))
	for i, v := range e.Vars {
		names[i] = v.VarName
	}
	return fmt.Sprintf("forall %s :: %s", strings.Join(names, ", "), e.Body)
}

// LetExpr binds Def to Var while evaluating Body.
type LetExpr struct {
	Var      LocalVar
	Def      Expr
	Body     Expr
	Position Position
}

func (*LetExpr) exprNode()       {}
func (e *LetExpr) Pos() Position { return e.Position }
func (e *LetExpr) String() string {
	return fmt.Sprintf("let %s == (%s) in %s", e.Var.VarName, e.Def, e.Body)
}

// FuncApp applies a top-level function. The backend-visible identifier is
// derived from (Name, FormalArgs, ReturnType); see ComputeIdentifier.
type FuncApp struct {
	Name       string
	Args       []Expr
	FormalArgs []LocalVar
	ReturnType Type
	Position   Position
}

func (*FuncApp) exprNode()       {}
func (e *FuncApp) Pos() Position { return e.Position }
func (e *FuncApp) String() string {
	return fmt.Sprintf("%s(%s)", e.Name, exprList(e.Args))
}

// DomainFuncApp applies a domain function. Type-argument inference is not
// performed; the carried DomainFunc already fixes the signature.
type DomainFuncApp struct {
	Func     DomainFunc
	Args     []Expr
	Position Position
}

func (*DomainFuncApp) exprNode()       {}
func (e *DomainFuncApp) Pos() Position { return e.Position }
func (e *DomainFuncApp) String() string {
	return fmt.Sprintf("%s(%s)", e.Func.Name, exprList(e.Args))
}

// InhaleExhale evaluates to InhaleExpr when inhaled and ExhaleExpr when
// exhaled.
type InhaleExhale struct {
	InhaleExpr Expr
	ExhaleExpr Expr
	Position   Position
}

func (*InhaleExhale) exprNode()       {}
func (e *InhaleExhale) Pos() Position { return e.Position }
func (e *InhaleExhale) String() string {
	return fmt.Sprintf("[%s, %s]", e.InhaleExpr, e.ExhaleExpr)
}

// DowncastExpr is a source-level annotation restricting Base to one enum
// variant. It has no proof-relevant effect: the encoder erases it to Base.
type DowncastExpr struct {
	Base      Expr
	EnumPlace Expr
	Field     Field
}

func (*DowncastExpr) exprNode()       {}
func (e *DowncastExpr) Pos() Position { return e.Base.Pos() }
func (e *DowncastExpr) String() string {
	return fmt.Sprintf("(downcast %s to %s in %s)", e.EnumPlace, e.Field.FieldName, e.Base)
}

// IsPlace reports whether the expression denotes a storage location: a
// local variable, or a chain of field/variant accesses rooted at one.
func IsPlace(e Expr) bool {
	switch x := e.(type) {
	case *Local:
		return true
	case *Variant:
		return IsPlace(x.Base)
	case *FieldAccess:
		return IsPlace(x.Base)
	case *AddrOf:
		return IsPlace(x.Base)
	default:
		return false
	}
}

func exprList(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
