package viper

// Position locates a node for error reporting. The zero Position is the
// "no position" marker.
type Position struct {
	Line   int32
	Column int32
	ID     string
}

// IsNoPosition reports whether this is the "no position" marker.
func (p Position) IsNoPosition() bool {
	return p.Line == 0 && p.Column == 0 && p.ID == ""
}

// Type is a backend type.
//
// This is a sealed interface - only types in this package implement it.
type Type interface {
	typeNode() // Marker method - seals interface to this package

	String() string
}

// IntType is the backend integer type.
type IntType struct{}

func (IntType) typeNode()      {}
func (IntType) String() string { return "Int" }

// BoolType is the backend boolean type.
type BoolType struct{}

func (BoolType) typeNode()      {}
func (BoolType) String() string { return "Bool" }

// RefType is the backend reference type. All VIR references erase to it.
type RefType struct{}

func (RefType) typeNode()      {}
func (RefType) String() string { return "Ref" }

// PermType is the backend permission-amount type.
type PermType struct{}

func (PermType) typeNode()      {}
func (PermType) String() string { return "Perm" }

// DomainTypeNode is a backend domain type.
type DomainTypeNode struct {
	Name string
}

func (DomainTypeNode) typeNode()        {}
func (t DomainTypeNode) String() string { return t.Name }

// LocalVarDecl declares a typed variable (formal argument, return, bound
// or scoped variable).
type LocalVarDecl struct {
	Name string
	Typ  Type
}

// Field declares a heap field.
type Field struct {
	Name string
	Typ  Type
}

// Expr is a backend expression.
//
// This is a sealed interface - only types in this package implement it.
type Expr interface {
	exprNode() // Marker method - seals interface to this package
}

// LocalVarExpr references a variable.
type LocalVarExpr struct {
	Name string
	Typ  Type
	Pos  Position
}

func (*LocalVarExpr) exprNode() {}

// ResultExpr is the function result value.
type ResultExpr struct {
	Typ Type
	Pos Position
}

func (*ResultExpr) exprNode() {}

// BoolLitExpr is a boolean literal.
type BoolLitExpr struct {
	Value bool
	Pos   Position
}

func (*BoolLitExpr) exprNode() {}

// IntLitExpr is an integer literal carried as decimal text, which covers
// arbitrary-precision constants.
type IntLitExpr struct {
	Value string
	Pos   Position
}

func (*IntLitExpr) exprNode() {}

// NullLitExpr is the null literal.
type NullLitExpr struct {
	Pos Position
}

func (*NullLitExpr) exprNode() {}

// FullPermExpr is the full (write) permission literal.
type FullPermExpr struct{}

func (*FullPermExpr) exprNode() {}

// NoPermExpr is the zero permission literal.
type NoPermExpr struct{}

func (*NoPermExpr) exprNode() {}

// FieldAccessExpr dereferences a field.
type FieldAccessExpr struct {
	Receiver Expr
	Field    *Field
	Pos      Position
}

func (*FieldAccessExpr) exprNode() {}

// PredicateAccess names a predicate instance.
type PredicateAccess struct {
	Args []Expr
	Name string
	Pos  Position
}

func (*PredicateAccess) exprNode() {}

// PredicateAccessPredicate asserts permission to a predicate instance.
type PredicateAccessPredicate struct {
	Access *PredicateAccess
	Perm   Expr
	Pos    Position
}

func (*PredicateAccessPredicate) exprNode() {}

// FieldAccessPredicateExpr asserts permission to a field location.
type FieldAccessPredicateExpr struct {
	Location Expr
	Perm     Expr
	Pos      Position
}

func (*FieldAccessPredicateExpr) exprNode() {}

// UnaryExpr applies a unary operator ("!" or "-").
type UnaryExpr struct {
	Op  string
	Arg Expr
	Pos Position
}

func (*UnaryExpr) exprNode() {}

// BinaryExpr applies a binary operator.
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
	Pos   Position
}

func (*BinaryExpr) exprNode() {}

// MagicWandExpr is the separation-logic wand Left --* Right.
type MagicWandExpr struct {
	Left  Expr
	Right Expr
	Pos   Position
}

func (*MagicWandExpr) exprNode() {}

// UnfoldingExpr evaluates Body while temporarily unfolding a predicate.
type UnfoldingExpr struct {
	Access *PredicateAccessPredicate
	Body   Expr
	Pos    Position
}

func (*UnfoldingExpr) exprNode() {}

// CondExpr is a conditional expression.
type CondExpr struct {
	Guard Expr
	Then  Expr
	Else  Expr
	Pos   Position
}

func (*CondExpr) exprNode() {}

// TriggerNode groups quantifier instantiation patterns.
type TriggerNode struct {
	Exprs []Expr
	Pos   Position
}

// ForAllExpr is a universal quantifier.
type ForAllExpr struct {
	Vars     []*LocalVarDecl
	Triggers []*TriggerNode
	Body     Expr
	Pos      Position
}

func (*ForAllExpr) exprNode() {}

// LetExprNode binds Def to Var while evaluating Body.
type LetExprNode struct {
	Var  *LocalVarDecl
	Def  Expr
	Body Expr
	Pos  Position
}

func (*LetExprNode) exprNode() {}

// FuncAppExpr applies a top-level function by identifier.
type FuncAppExpr struct {
	Name string
	Args []Expr
	Typ  Type
	Pos  Position
}

func (*FuncAppExpr) exprNode() {}

// DomainFuncAppExpr applies a domain function.
type DomainFuncAppExpr struct {
	Func *DomainFuncDecl
	Args []Expr
	Pos  Position
}

func (*DomainFuncAppExpr) exprNode() {}

// InhaleExhaleExpr is an assertion whose inhale and exhale readings differ.
type InhaleExhaleExpr struct {
	In  Expr
	Ex  Expr
	Pos Position
}

func (*InhaleExhaleExpr) exprNode() {}

// LabelledOldExpr evaluates Body in the heap at a labelled point.
type LabelledOldExpr struct {
	Label string
	Body  Expr
	Pos   Position
}

func (*LabelledOldExpr) exprNode() {}

// Stmt is a backend statement.
//
// This is a sealed interface - only types in this package implement it.
type Stmt interface {
	stmtNode() // Marker method - seals interface to this package
}

// CommentStmt carries diagnostic text with no proof obligation.
type CommentStmt struct {
	Comment string
}

func (*CommentStmt) stmtNode() {}

// LabelStmt marks a program point.
type LabelStmt struct {
	Name string
	Invs []Expr
}

func (*LabelStmt) stmtNode() {}

// InhaleStmt assumes an assertion.
type InhaleStmt struct {
	Expr Expr
	Pos  Position
}

func (*InhaleStmt) stmtNode() {}

// ExhaleStmt consumes an assertion.
type ExhaleStmt struct {
	Expr Expr
	Pos  Position
}

func (*ExhaleStmt) stmtNode() {}

// AssertStmt checks an assertion without consuming it.
type AssertStmt struct {
	Expr Expr
	Pos  Position
}

func (*AssertStmt) stmtNode() {}

// MethodCallStmt invokes a method.
type MethodCallStmt struct {
	Method  string
	Args    []Expr
	Targets []Expr
}

func (*MethodCallStmt) stmtNode() {}

// AssignStmt is an unconditional heap/variable update.
type AssignStmt struct {
	Target Expr
	Value  Expr
}

func (*AssignStmt) stmtNode() {}

// FoldStmt folds a predicate.
type FoldStmt struct {
	Access *PredicateAccessPredicate
	Pos    Position
}

func (*FoldStmt) stmtNode() {}

// UnfoldStmt unfolds a predicate.
type UnfoldStmt struct {
	Access *PredicateAccessPredicate
}

func (*UnfoldStmt) stmtNode() {}

// SeqnStmt is a statement block with scoped declarations.
type SeqnStmt struct {
	Stmts []Stmt
	Decls []*LocalVarDecl
}

func (*SeqnStmt) stmtNode() {}

// IfStmt branches on a condition.
type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt
}

func (*IfStmt) stmtNode() {}

// PackageStmt proves a magic wand by executing the proof block.
type PackageStmt struct {
	Wand  *MagicWandExpr
	Proof *SeqnStmt
	Pos   Position
}

func (*PackageStmt) stmtNode() {}

// ApplyStmt applies a magic wand.
type ApplyStmt struct {
	Wand Expr
	Pos  Position
}

func (*ApplyStmt) stmtNode() {}

// DomainFuncDecl declares a domain function.
type DomainFuncDecl struct {
	Name       string
	FormalArgs []*LocalVarDecl
	ReturnType Type
	Unique     bool
	Domain     string
}

// AxiomDecl is a named domain axiom.
type AxiomDecl struct {
	Name   string
	Expr   Expr
	Domain string
}

// DomainDecl declares an uninterpreted sort.
type DomainDecl struct {
	Name      string
	Functions []*DomainFuncDecl
	Axioms    []*AxiomDecl
	TypeVars  []Type
}

// FunctionDecl declares a top-level function. A nil Body is abstract.
type FunctionDecl struct {
	Name       string
	FormalArgs []*LocalVarDecl
	ReturnType Type
	Pres       []Expr
	Posts      []Expr
	Pos        Position
	Body       Expr
}

// PredicateDecl declares a predicate. A nil Body is abstract.
type PredicateDecl struct {
	Name       string
	FormalArgs []*LocalVarDecl
	Body       Expr
}

// MethodDecl declares a method. A nil Body is abstract.
type MethodDecl struct {
	Name          string
	FormalArgs    []*LocalVarDecl
	FormalReturns []*LocalVarDecl
	Pres          []Expr
	Posts         []Expr
	Body          Stmt
}

// Program is a complete backend program.
type Program struct {
	Domains    []*DomainDecl
	Fields     []*Field
	Functions  []*FunctionDecl
	Predicates []*PredicateDecl
	Methods    []*MethodDecl
}
