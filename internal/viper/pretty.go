package viper

import (
	"fmt"
	"strings"
)

// Print renders a program as deterministic Viper-like concrete syntax.
// Declarations print in the order they were constructed; the encoder is
// responsible for ordering, so identical programs always print identically.
func Print(p *Program) string {
	var b strings.Builder
	for _, d := range p.Domains {
		printDomain(&b, d)
		b.WriteByte('\n')
	}
	for _, fld := range p.Fields {
		fmt.Fprintf(&b, "field %s: %s\n", fld.Name, fld.Typ)
	}
	if len(p.Fields) > 0 {
		b.WriteByte('\n')
	}
	for _, fn := range p.Functions {
		printFunction(&b, fn)
		b.WriteByte('\n')
	}
	for _, pred := range p.Predicates {
		printPredicate(&b, pred)
		b.WriteByte('\n')
	}
	for _, m := range p.Methods {
		printMethod(&b, m)
		b.WriteByte('\n')
	}
	return b.String()
}

// ExprString renders an expression.
func ExprString(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

// StmtString renders a statement at indent zero.
func StmtString(s Stmt) string {
	var b strings.Builder
	writeStmt(&b, s, 0)
	return strings.TrimRight(b.String(), "\n")
}

func printDomain(b *strings.Builder, d *DomainDecl) {
	fmt.Fprintf(b, "domain %s", d.Name)
	if len(d.TypeVars) > 0 {
		vars := make([]string, len(d.TypeVars))
		for i, tv := range d.TypeVars {
			vars[i] = tv.String()
		}
		fmt.Fprintf(b, "[%s]", strings.Join(vars, ", "))
	}
	b.WriteString(" {\n")
	for _, fn := range d.Functions {
		b.WriteString("  ")
		if fn.Unique {
			b.WriteString("unique ")
		}
		fmt.Fprintf(b, "function %s(%s): %s\n", fn.Name, declList(fn.FormalArgs), fn.ReturnType)
	}
	for _, ax := range d.Axioms {
		fmt.Fprintf(b, "  axiom %s {\n    %s\n  }\n", ax.Name, ExprString(ax.Expr))
	}
	b.WriteString("}\n")
}

func printFunction(b *strings.Builder, fn *FunctionDecl) {
	fmt.Fprintf(b, "function %s(%s): %s\n", fn.Name, declList(fn.FormalArgs), fn.ReturnType)
	for _, pre := range fn.Pres {
		fmt.Fprintf(b, "  requires %s\n", ExprString(pre))
	}
	for _, post := range fn.Posts {
		fmt.Fprintf(b, "  ensures %s\n", ExprString(post))
	}
	if fn.Body != nil {
		fmt.Fprintf(b, "{\n  %s\n}\n", ExprString(fn.Body))
	}
}

func printPredicate(b *strings.Builder, pred *PredicateDecl) {
	fmt.Fprintf(b, "predicate %s(%s)", pred.Name, declList(pred.FormalArgs))
	if pred.Body != nil {
		fmt.Fprintf(b, " {\n  %s\n}", ExprString(pred.Body))
	}
	b.WriteByte('\n')
}

func printMethod(b *strings.Builder, m *MethodDecl) {
	fmt.Fprintf(b, "method %s(%s)", m.Name, declList(m.FormalArgs))
	if len(m.FormalReturns) > 0 {
		fmt.Fprintf(b, " returns (%s)", declList(m.FormalReturns))
	}
	b.WriteByte('\n')
	for _, pre := range m.Pres {
		fmt.Fprintf(b, "  requires %s\n", ExprString(pre))
	}
	for _, post := range m.Posts {
		fmt.Fprintf(b, "  ensures %s\n", ExprString(post))
	}
	if m.Body != nil {
		writeStmt(b, m.Body, 0)
	}
}

func declList(decls []*LocalVarDecl) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = fmt.Sprintf("%s: %s", d.Name, d.Typ)
	}
	return strings.Join(parts, ", ")
}

func exprListString(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = ExprString(e)
	}
	return strings.Join(parts, ", ")
}

func writeExpr(b *strings.Builder, e Expr) {
	switch x := e.(type) {
	case *LocalVarExpr:
		b.WriteString(x.Name)
	case *ResultExpr:
		b.WriteString("result")
	case *BoolLitExpr:
		if x.Value {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case *IntLitExpr:
		b.WriteString(x.Value)
	case *NullLitExpr:
		b.WriteString("null")
	case *FullPermExpr:
		b.WriteString("write")
	case *NoPermExpr:
		b.WriteString("none")
	case *FieldAccessExpr:
		writeExpr(b, x.Receiver)
		b.WriteByte('.')
		b.WriteString(x.Field.Name)
	case *PredicateAccess:
		fmt.Fprintf(b, "%s(%s)", x.Name, exprListString(x.Args))
	case *PredicateAccessPredicate:
		fmt.Fprintf(b, "acc(%s(%s), %s)",
			x.Access.Name, exprListString(x.Access.Args), ExprString(x.Perm))
	case *FieldAccessPredicateExpr:
		fmt.Fprintf(b, "acc(%s, %s)", ExprString(x.Location), ExprString(x.Perm))
	case *UnaryExpr:
		fmt.Fprintf(b, "%s(%s)", x.Op, ExprString(x.Arg))
	case *BinaryExpr:
		fmt.Fprintf(b, "(%s %s %s)", ExprString(x.Left), x.Op, ExprString(x.Right))
	case *MagicWandExpr:
		fmt.Fprintf(b, "(%s --* %s)", ExprString(x.Left), ExprString(x.Right))
	case *UnfoldingExpr:
		fmt.Fprintf(b, "(unfolding %s in %s)", ExprString(x.Access), ExprString(x.Body))
	case *CondExpr:
		fmt.Fprintf(b, "(%s ? %s : %s)",
			ExprString(x.Guard), ExprString(x.Then), ExprString(x.Else))
	case *ForAllExpr:
		triggers := make([]string, len(x.Triggers))
		for i, tr := range x.Triggers {
			triggers[i] = fmt.Sprintf("{ %s }", exprListString(tr.Exprs))
		}
		fmt.Fprintf(b, "(forall %s ::", declList(x.Vars))
		if len(triggers) > 0 {
			b.WriteByte(' ')
			b.WriteString(strings.Join(triggers, " "))
		}
		fmt.Fprintf(b, " %s)", ExprString(x.Body))
	case *LetExprNode:
		fmt.Fprintf(b, "(let %s == (%s) in %s)",
			x.Var.Name, ExprString(x.Def), ExprString(x.Body))
	case *FuncAppExpr:
		fmt.Fprintf(b, "%s(%s)", x.Name, exprListString(x.Args))
	case *DomainFuncAppExpr:
		fmt.Fprintf(b, "%s(%s)", x.Func.Name, exprListString(x.Args))
	case *InhaleExhaleExpr:
		fmt.Fprintf(b, "[%s, %s]", ExprString(x.In), ExprString(x.Ex))
	case *LabelledOldExpr:
		fmt.Fprintf(b, "old[%s](%s)", x.Label, ExprString(x.Body))
	default:
		panic(fmt.Sprintf("unknown expression node %T", e))
	}
}

func writeStmt(b *strings.Builder, s Stmt, indent int) {
	pad := strings.Repeat("  ", indent)
	switch x := s.(type) {
	case *CommentStmt:
		fmt.Fprintf(b, "%s// %s\n", pad, x.Comment)
	case *LabelStmt:
		fmt.Fprintf(b, "%slabel %s\n", pad, x.Name)
	case *InhaleStmt:
		fmt.Fprintf(b, "%sinhale %s\n", pad, ExprString(x.Expr))
	case *ExhaleStmt:
		fmt.Fprintf(b, "%sexhale %s\n", pad, ExprString(x.Expr))
	case *AssertStmt:
		fmt.Fprintf(b, "%sassert %s\n", pad, ExprString(x.Expr))
	case *MethodCallStmt:
		if len(x.Targets) > 0 {
			fmt.Fprintf(b, "%s%s := %s(%s)\n",
				pad, exprListString(x.Targets), x.Method, exprListString(x.Args))
		} else {
			fmt.Fprintf(b, "%s%s(%s)\n", pad, x.Method, exprListString(x.Args))
		}
	case *AssignStmt:
		fmt.Fprintf(b, "%s%s := %s\n", pad, ExprString(x.Target), ExprString(x.Value))
	case *FoldStmt:
		fmt.Fprintf(b, "%sfold %s\n", pad, ExprString(x.Access))
	case *UnfoldStmt:
		fmt.Fprintf(b, "%sunfold %s\n", pad, ExprString(x.Access))
	case *SeqnStmt:
		fmt.Fprintf(b, "%s{\n", pad)
		for _, d := range x.Decls {
			fmt.Fprintf(b, "%s  var %s: %s\n", pad, d.Name, d.Typ)
		}
		for _, inner := range x.Stmts {
			writeStmt(b, inner, indent+1)
		}
		fmt.Fprintf(b, "%s}\n", pad)
	case *IfStmt:
		fmt.Fprintf(b, "%sif %s\n", pad, ExprString(x.Cond))
		writeStmt(b, x.Then, indent)
		fmt.Fprintf(b, "%selse\n", pad)
		writeStmt(b, x.Else, indent)
	case *PackageStmt:
		fmt.Fprintf(b, "%spackage %s\n", pad, ExprString(x.Wand))
		writeStmt(b, x.Proof, indent)
	case *ApplyStmt:
		fmt.Fprintf(b, "%sapply %s\n", pad, ExprString(x.Wand))
	default:
		panic(fmt.Sprintf("unknown statement node %T", s))
	}
}
