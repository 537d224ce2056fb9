package viper

// AstFactory is the backend's node-construction capability. Every node the
// encoder emits is built through one of these methods.
//
// The factory is stateless and safe to share, but each encoding pass is
// expected to receive its own handle.
type AstFactory struct{}

// NewAstFactory returns a construction handle.
func NewAstFactory() *AstFactory {
	return &AstFactory{}
}

// Positions

// NoPosition is the "no position" marker.
func (f *AstFactory) NoPosition() Position {
	return Position{}
}

// IdentifierPosition builds a position carrying a stable identifier.
func (f *AstFactory) IdentifierPosition(line, column int32, id string) Position {
	return Position{Line: line, Column: column, ID: id}
}

// Types

func (f *AstFactory) IntType() Type  { return IntType{} }
func (f *AstFactory) BoolType() Type { return BoolType{} }
func (f *AstFactory) RefType() Type  { return RefType{} }
func (f *AstFactory) PermType() Type { return PermType{} }

func (f *AstFactory) DomainType(name string) Type { return DomainTypeNode{Name: name} }

// Declarations

func (f *AstFactory) LocalVarDecl(name string, typ Type) *LocalVarDecl {
	return &LocalVarDecl{Name: name, Typ: typ}
}

func (f *AstFactory) Field(name string, typ Type) *Field {
	return &Field{Name: name, Typ: typ}
}

func (f *AstFactory) DomainFunc(name string, formalArgs []*LocalVarDecl, returnType Type, unique bool, domain string) *DomainFuncDecl {
	return &DomainFuncDecl{
		Name:       name,
		FormalArgs: formalArgs,
		ReturnType: returnType,
		Unique:     unique,
		Domain:     domain,
	}
}

func (f *AstFactory) NamedDomainAxiom(name string, expr Expr, domain string) *AxiomDecl {
	return &AxiomDecl{Name: name, Expr: expr, Domain: domain}
}

func (f *AstFactory) Domain(name string, functions []*DomainFuncDecl, axioms []*AxiomDecl, typeVars []Type) *DomainDecl {
	return &DomainDecl{Name: name, Functions: functions, Axioms: axioms, TypeVars: typeVars}
}

func (f *AstFactory) Function(name string, formalArgs []*LocalVarDecl, returnType Type, pres, posts []Expr, pos Position, body Expr) *FunctionDecl {
	return &FunctionDecl{
		Name:       name,
		FormalArgs: formalArgs,
		ReturnType: returnType,
		Pres:       pres,
		Posts:      posts,
		Pos:        pos,
		Body:       body,
	}
}

func (f *AstFactory) Predicate(name string, formalArgs []*LocalVarDecl, body Expr) *PredicateDecl {
	return &PredicateDecl{Name: name, FormalArgs: formalArgs, Body: body}
}

func (f *AstFactory) Method(name string, formalArgs, formalReturns []*LocalVarDecl, pres, posts []Expr, body Stmt) *MethodDecl {
	return &MethodDecl{
		Name:          name,
		FormalArgs:    formalArgs,
		FormalReturns: formalReturns,
		Pres:          pres,
		Posts:         posts,
		Body:          body,
	}
}

func (f *AstFactory) Program(domains []*DomainDecl, fields []*Field, functions []*FunctionDecl, predicates []*PredicateDecl, methods []*MethodDecl) *Program {
	return &Program{
		Domains:    domains,
		Fields:     fields,
		Functions:  functions,
		Predicates: predicates,
		Methods:    methods,
	}
}

// Expressions

func (f *AstFactory) LocalVarWithPos(name string, typ Type, pos Position) Expr {
	return &LocalVarExpr{Name: name, Typ: typ, Pos: pos}
}

func (f *AstFactory) ResultWithPos(typ Type, pos Position) Expr {
	return &ResultExpr{Typ: typ, Pos: pos}
}

func (f *AstFactory) TrueLitWithPos(pos Position) Expr {
	return &BoolLitExpr{Value: true, Pos: pos}
}

func (f *AstFactory) FalseLitWithPos(pos Position) Expr {
	return &BoolLitExpr{Value: false, Pos: pos}
}

func (f *AstFactory) IntLitWithPos(value string, pos Position) Expr {
	return &IntLitExpr{Value: value, Pos: pos}
}

func (f *AstFactory) NullLitWithPos(pos Position) Expr {
	return &NullLitExpr{Pos: pos}
}

func (f *AstFactory) FullPerm() Expr { return &FullPermExpr{} }
func (f *AstFactory) NoPerm() Expr   { return &NoPermExpr{} }

// PermSub builds permission-amount subtraction using the backend's
// arithmetic.
func (f *AstFactory) PermSub(left, right Expr) Expr {
	return &BinaryExpr{Op: "-", Left: left, Right: right}
}

func (f *AstFactory) FieldAccessWithPos(receiver Expr, field *Field, pos Position) Expr {
	return &FieldAccessExpr{Receiver: receiver, Field: field, Pos: pos}
}

func (f *AstFactory) PredicateAccess(args []Expr, name string) *PredicateAccess {
	return &PredicateAccess{Args: args, Name: name}
}

func (f *AstFactory) PredicateAccessWithPos(args []Expr, name string, pos Position) *PredicateAccess {
	return &PredicateAccess{Args: args, Name: name, Pos: pos}
}

func (f *AstFactory) PredicateAccessPredicate(access *PredicateAccess, perm Expr) *PredicateAccessPredicate {
	return &PredicateAccessPredicate{Access: access, Perm: perm}
}

func (f *AstFactory) PredicateAccessPredicateWithPos(access *PredicateAccess, perm Expr, pos Position) *PredicateAccessPredicate {
	return &PredicateAccessPredicate{Access: access, Perm: perm, Pos: pos}
}

func (f *AstFactory) FieldAccessPredicateWithPos(location, perm Expr, pos Position) Expr {
	return &FieldAccessPredicateExpr{Location: location, Perm: perm, Pos: pos}
}

func (f *AstFactory) NotWithPos(arg Expr, pos Position) Expr {
	return &UnaryExpr{Op: "!", Arg: arg, Pos: pos}
}

func (f *AstFactory) MinusWithPos(arg Expr, pos Position) Expr {
	return &UnaryExpr{Op: "-", Arg: arg, Pos: pos}
}

func (f *AstFactory) binary(op string, left, right Expr, pos Position) Expr {
	return &BinaryExpr{Op: op, Left: left, Right: right, Pos: pos}
}

func (f *AstFactory) EqCmpWithPos(l, r Expr, pos Position) Expr { return f.binary("==", l, r, pos) }
func (f *AstFactory) NeCmpWithPos(l, r Expr, pos Position) Expr { return f.binary("!=", l, r, pos) }
func (f *AstFactory) GtCmpWithPos(l, r Expr, pos Position) Expr { return f.binary(">", l, r, pos) }
func (f *AstFactory) GeCmpWithPos(l, r Expr, pos Position) Expr { return f.binary(">=", l, r, pos) }
func (f *AstFactory) LtCmpWithPos(l, r Expr, pos Position) Expr { return f.binary("<", l, r, pos) }
func (f *AstFactory) LeCmpWithPos(l, r Expr, pos Position) Expr { return f.binary("<=", l, r, pos) }
func (f *AstFactory) AddWithPos(l, r Expr, pos Position) Expr   { return f.binary("+", l, r, pos) }
func (f *AstFactory) SubWithPos(l, r Expr, pos Position) Expr   { return f.binary("-", l, r, pos) }
func (f *AstFactory) MulWithPos(l, r Expr, pos Position) Expr   { return f.binary("*", l, r, pos) }
func (f *AstFactory) DivWithPos(l, r Expr, pos Position) Expr   { return f.binary("/", l, r, pos) }
func (f *AstFactory) ModWithPos(l, r Expr, pos Position) Expr   { return f.binary("%", l, r, pos) }
func (f *AstFactory) AndWithPos(l, r Expr, pos Position) Expr   { return f.binary("&&", l, r, pos) }
func (f *AstFactory) OrWithPos(l, r Expr, pos Position) Expr    { return f.binary("||", l, r, pos) }

func (f *AstFactory) ImpliesWithPos(l, r Expr, pos Position) Expr {
	return f.binary("==>", l, r, pos)
}

// LtCmp is LtCmpWithPos at no position; the global read bound axioms use it.
func (f *AstFactory) LtCmp(l, r Expr) Expr { return f.binary("<", l, r, Position{}) }

func (f *AstFactory) MagicWandWithPos(left, right Expr, pos Position) *MagicWandExpr {
	return &MagicWandExpr{Left: left, Right: right, Pos: pos}
}

func (f *AstFactory) UnfoldingWithPos(access *PredicateAccessPredicate, body Expr, pos Position) Expr {
	return &UnfoldingExpr{Access: access, Body: body, Pos: pos}
}

func (f *AstFactory) CondExpWithPos(guard, then, els Expr, pos Position) Expr {
	return &CondExpr{Guard: guard, Then: then, Else: els, Pos: pos}
}

func (f *AstFactory) TriggerWithPos(exprs []Expr, pos Position) *TriggerNode {
	return &TriggerNode{Exprs: exprs, Pos: pos}
}

func (f *AstFactory) ForallWithPos(vars []*LocalVarDecl, triggers []*TriggerNode, body Expr, pos Position) Expr {
	return &ForAllExpr{Vars: vars, Triggers: triggers, Body: body, Pos: pos}
}

func (f *AstFactory) LetExprWithPos(v *LocalVarDecl, def, body Expr, pos Position) Expr {
	return &LetExprNode{Var: v, Def: def, Body: body, Pos: pos}
}

func (f *AstFactory) FuncApp(name string, args []Expr, typ Type, pos Position) Expr {
	return &FuncAppExpr{Name: name, Args: args, Typ: typ, Pos: pos}
}

func (f *AstFactory) DomainFuncApp(fn *DomainFuncDecl, args []Expr) Expr {
	return &DomainFuncAppExpr{Func: fn, Args: args}
}

func (f *AstFactory) InhaleExhalePred(in, ex Expr) Expr {
	return &InhaleExhaleExpr{In: in, Ex: ex}
}

func (f *AstFactory) LabelledOldWithPos(body Expr, label string, pos Position) Expr {
	return &LabelledOldExpr{Label: label, Body: body, Pos: pos}
}

// Statements

func (f *AstFactory) Comment(comment string) Stmt {
	return &CommentStmt{Comment: comment}
}

func (f *AstFactory) Label(name string, invs []Expr) Stmt {
	return &LabelStmt{Name: name, Invs: invs}
}

func (f *AstFactory) Inhale(expr Expr, pos Position) Stmt {
	return &InhaleStmt{Expr: expr, Pos: pos}
}

func (f *AstFactory) Exhale(expr Expr, pos Position) Stmt {
	return &ExhaleStmt{Expr: expr, Pos: pos}
}

func (f *AstFactory) Assert(expr Expr, pos Position) Stmt {
	return &AssertStmt{Expr: expr, Pos: pos}
}

func (f *AstFactory) MethodCall(method string, args, targets []Expr) Stmt {
	return &MethodCallStmt{Method: method, Args: args, Targets: targets}
}

func (f *AstFactory) AbstractAssign(target, value Expr) Stmt {
	return &AssignStmt{Target: target, Value: value}
}

func (f *AstFactory) FoldWithPos(access *PredicateAccessPredicate, pos Position) Stmt {
	return &FoldStmt{Access: access, Pos: pos}
}

func (f *AstFactory) Unfold(access *PredicateAccessPredicate) Stmt {
	return &UnfoldStmt{Access: access}
}

func (f *AstFactory) Seqn(stmts []Stmt, decls []*LocalVarDecl) *SeqnStmt {
	return &SeqnStmt{Stmts: stmts, Decls: decls}
}

func (f *AstFactory) If(cond Expr, then, els Stmt) Stmt {
	return &IfStmt{Cond: cond, Then: then, Else: els}
}

func (f *AstFactory) Package(wand *MagicWandExpr, proof *SeqnStmt, pos Position) Stmt {
	return &PackageStmt{Wand: wand, Proof: proof, Pos: pos}
}

func (f *AstFactory) Apply(wand Expr, pos Position) Stmt {
	return &ApplyStmt{Wand: wand, Pos: pos}
}

// SimplifiedExpression runs the backend's simplification pass over an
// expression; see Simplified.
func (f *AstFactory) SimplifiedExpression(expr Expr) Expr {
	return Simplified(expr)
}
