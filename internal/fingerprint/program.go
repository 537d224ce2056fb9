package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/LDY1998/prusti-dev/internal/vir"
)

// DomainProgram prefixes program fingerprints. The version suffix enables
// future algorithm migration.
const DomainProgram = "vir/program/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Program computes the content-addressed fingerprint of a verification
// program. Positions are part of the identity: they land in the encoded
// output, so two programs differing only in positions must not share a
// cache entry.
func Program(p *vir.Program) (string, error) {
	canonical, err := MarshalCanonical(programValue(p))
	if err != nil {
		return "", fmt.Errorf("fingerprint program %q: %w", p.Name, err)
	}
	return hashWithDomain(DomainProgram, canonical), nil
}

// MustProgram is like Program but panics on error. Use only in tests or
// when inputs are known to be valid.
func MustProgram(p *vir.Program) string {
	id, err := Program(p)
	if err != nil {
		panic(err)
	}
	return id
}

func programValue(p *vir.Program) Obj {
	domains := make(Arr, len(p.Domains))
	for i, d := range p.Domains {
		domains[i] = domainValue(d)
	}
	fields := make(Arr, len(p.Fields))
	for i, f := range p.Fields {
		fields[i] = fieldValue(f)
	}
	builtins := make(Arr, len(p.BuiltinMethods))
	for i, m := range p.BuiltinMethods {
		builtins[i] = Obj{
			"name":    Str(m.Name),
			"args":    localVars(m.FormalArgs),
			"returns": localVars(m.FormalReturns),
		}
	}
	methods := make(Arr, len(p.Methods))
	for i, m := range p.Methods {
		methods[i] = methodValue(m)
	}
	functions := make(Arr, len(p.Functions))
	for i, fn := range p.Functions {
		functions[i] = functionValue(fn)
	}
	predicates := make(Arr, len(p.Predicates))
	for i, pred := range p.Predicates {
		predicates[i] = predicateValue(pred)
	}
	return Obj{
		"name":            Str(p.Name),
		"domains":         domains,
		"fields":          fields,
		"builtin_methods": builtins,
		"methods":         methods,
		"functions":       functions,
		"predicates":      predicates,
	}
}

func domainValue(d vir.Domain) Obj {
	functions := make(Arr, len(d.Functions))
	for i, fn := range d.Functions {
		functions[i] = Obj{
			"name":   Str(fn.Name),
			"args":   localVars(fn.FormalArgs),
			"return": typeValue(fn.ReturnType),
			"unique": Bool(fn.Unique),
			"domain": Str(fn.DomainName),
		}
	}
	axioms := make(Arr, len(d.Axioms))
	for i, ax := range d.Axioms {
		axioms[i] = Obj{
			"name":   Str(ax.Name),
			"expr":   exprValue(ax.Expr),
			"domain": Str(ax.DomainName),
		}
	}
	typeVars := make(Arr, len(d.TypeVars))
	for i, tv := range d.TypeVars {
		typeVars[i] = typeValue(tv)
	}
	return Obj{
		"name":      Str(d.Name),
		"functions": functions,
		"axioms":    axioms,
		"type_vars": typeVars,
	}
}

func functionValue(fn vir.Function) Obj {
	obj := Obj{
		"name":   Str(fn.Name),
		"args":   localVars(fn.FormalArgs),
		"return": typeValue(fn.ReturnType),
		"pres":   exprValues(fn.Pres),
		"posts":  exprValues(fn.Posts),
	}
	if fn.Body != nil {
		obj["body"] = exprValue(fn.Body)
	}
	return obj
}

func predicateValue(p vir.Predicate) Obj {
	switch pred := p.(type) {
	case vir.StructPredicate:
		obj := Obj{
			"kind": Str("struct"),
			"name": Str(pred.Name),
			"this": localVar(pred.This),
		}
		if pred.Body != nil {
			obj["body"] = exprValue(pred.Body)
		}
		return obj
	case vir.EnumPredicate:
		variants := make(Arr, len(pred.Variants))
		for i, v := range pred.Variants {
			variants[i] = Obj{
				"guard":     exprValue(v.Guard),
				"name":      Str(v.Name),
				"predicate": predicateValue(v.Predicate),
			}
		}
		return Obj{
			"kind":         Str("enum"),
			"name":         Str(pred.Name),
			"this":         localVar(pred.This),
			"discriminant": fieldValue(pred.DiscriminantField),
			"bounds":       exprValue(pred.DiscriminantBounds),
			"variants":     variants,
		}
	case vir.BodylessPredicate:
		return Obj{
			"kind": Str("bodyless"),
			"name": Str(pred.Name),
			"this": localVar(pred.This),
		}
	default:
		panic(fmt.Sprintf("unknown predicate %T", p))
	}
}

func methodValue(m vir.Method) Obj {
	body := make(Arr, len(m.Body))
	for i, s := range m.Body {
		body[i] = stmtValue(s)
	}
	return Obj{
		"name":    Str(m.Name),
		"args":    localVars(m.FormalArgs),
		"returns": localVars(m.FormalReturns),
		"pres":    exprValues(m.Pres),
		"posts":   exprValues(m.Posts),
		"locals":  localVars(m.Locals),
		"body":    body,
	}
}

func typeValue(t vir.Type) Obj {
	switch typ := t.(type) {
	case vir.Int:
		return Obj{"kind": Str("int")}
	case vir.Bool:
		return Obj{"kind": Str("bool")}
	case vir.TypedRef:
		return Obj{"kind": Str("ref"), "name": Str(typ.Pred)}
	case vir.DomainType:
		return Obj{"kind": Str("domain"), "name": Str(typ.Domain)}
	default:
		panic(fmt.Sprintf("unknown type %T", t))
	}
}

func localVar(v vir.LocalVar) Obj {
	return Obj{"name": Str(v.VarName), "type": typeValue(v.Typ)}
}

func localVars(vars []vir.LocalVar) Arr {
	out := make(Arr, len(vars))
	for i, v := range vars {
		out[i] = localVar(v)
	}
	return out
}

func fieldValue(f vir.Field) Obj {
	return Obj{"name": Str(f.FieldName), "type": typeValue(f.Typ)}
}

func positionValue(pos vir.Position) Obj {
	return Obj{
		"line":   Int(pos.Line),
		"column": Int(pos.Column),
		"id":     Int(pos.ID),
	}
}

func exprValues(exprs []vir.Expr) Arr {
	out := make(Arr, len(exprs))
	for i, x := range exprs {
		out[i] = exprValue(x)
	}
	return out
}

func exprValue(x vir.Expr) Obj {
	switch n := x.(type) {
	case *vir.Local:
		return Obj{"kind": Str("local"), "var": localVar(n.Var), "pos": positionValue(n.Position)}
	case *vir.Variant:
		return Obj{
			"kind":  Str("variant"),
			"base":  exprValue(n.Base),
			"field": fieldValue(n.Field),
			"pos":   positionValue(n.Position),
		}
	case *vir.FieldAccess:
		return Obj{
			"kind":  Str("field"),
			"base":  exprValue(n.Base),
			"field": fieldValue(n.Field),
			"pos":   positionValue(n.Position),
		}
	case *vir.AddrOf:
		return Obj{
			"kind": Str("addr_of"),
			"base": exprValue(n.Base),
			"type": typeValue(n.Typ),
			"pos":  positionValue(n.Position),
		}
	case *vir.Const:
		return Obj{"kind": Str("const"), "value": constValue(n.Value), "pos": positionValue(n.Position)}
	case *vir.LabelledOld:
		return Obj{
			"kind":  Str("labelled_old"),
			"label": Str(n.Label),
			"base":  exprValue(n.Base),
			"pos":   positionValue(n.Position),
		}
	case *vir.MagicWand:
		obj := Obj{
			"kind":  Str("magic_wand"),
			"left":  exprValue(n.Left),
			"right": exprValue(n.Right),
			"pos":   positionValue(n.Position),
		}
		if n.Borrow != nil {
			obj["borrow"] = Int(n.Borrow.ID())
		}
		return obj
	case *vir.PredicateAccessPredicate:
		return Obj{
			"kind":      Str("pred_perm"),
			"predicate": Str(n.Predicate),
			"arg":       exprValue(n.Arg),
			"perm":      Str(n.Perm.String()),
			"pos":       positionValue(n.Position),
		}
	case *vir.FieldAccessPredicate:
		return Obj{
			"kind": Str("field_perm"),
			"base": exprValue(n.Base),
			"perm": Str(n.Perm.String()),
			"pos":  positionValue(n.Position),
		}
	case *vir.UnaryOp:
		return Obj{
			"kind": Str("unary"),
			"op":   Str(n.Op.String()),
			"arg":  exprValue(n.Arg),
			"pos":  positionValue(n.Position),
		}
	case *vir.BinOp:
		return Obj{
			"kind":  Str("binary"),
			"op":    Str(n.Op.String()),
			"left":  exprValue(n.Left),
			"right": exprValue(n.Right),
			"pos":   positionValue(n.Position),
		}
	case *vir.Unfolding:
		return Obj{
			"kind":      Str("unfolding"),
			"predicate": Str(n.Predicate),
			"args":      exprValues(n.Args),
			"body":      exprValue(n.Body),
			"perm":      Str(n.Perm.String()),
			"pos":       positionValue(n.Position),
		}
	case *vir.Cond:
		return Obj{
			"kind":  Str("cond"),
			"guard": exprValue(n.Guard),
			"then":  exprValue(n.Then),
			"else":  exprValue(n.Else),
			"pos":   positionValue(n.Position),
		}
	case *vir.ForAll:
		triggers := make(Arr, len(n.Triggers))
		for i, tr := range n.Triggers {
			triggers[i] = exprValues(tr.Parts)
		}
		return Obj{
			"kind":     Str("forall"),
			"vars":     localVars(n.Vars),
			"triggers": triggers,
			"body":     exprValue(n.Body),
			"pos":      positionValue(n.Position),
		}
	case *vir.LetExpr:
		return Obj{
			"kind": Str("let"),
			"var":  localVar(n.Var),
			"def":  exprValue(n.Def),
			"body": exprValue(n.Body),
			"pos":  positionValue(n.Position),
		}
	case *vir.FuncApp:
		return Obj{
			"kind":   Str("func_app"),
			"name":   Str(n.Name),
			"args":   exprValues(n.Args),
			"formal": localVars(n.FormalArgs),
			"return": typeValue(n.ReturnType),
			"pos":    positionValue(n.Position),
		}
	case *vir.DomainFuncApp:
		return Obj{
			"kind": Str("domain_func_app"),
			"func": Obj{
				"name":   Str(n.Func.Name),
				"args":   localVars(n.Func.FormalArgs),
				"return": typeValue(n.Func.ReturnType),
				"unique": Bool(n.Func.Unique),
				"domain": Str(n.Func.DomainName),
			},
			"args": exprValues(n.Args),
			"pos":  positionValue(n.Position),
		}
	case *vir.InhaleExhale:
		return Obj{
			"kind":   Str("inhale_exhale"),
			"inhale": exprValue(n.InhaleExpr),
			"exhale": exprValue(n.ExhaleExpr),
			"pos":    positionValue(n.Position),
		}
	case *vir.DowncastExpr:
		return Obj{
			"kind":  Str("downcast"),
			"base":  exprValue(n.Base),
			"place": exprValue(n.EnumPlace),
			"field": fieldValue(n.Field),
		}
	default:
		panic(fmt.Sprintf("unknown expression %T", x))
	}
}

func constValue(c vir.ConstValue) Obj {
	switch v := c.(type) {
	case vir.BoolConst:
		return Obj{"kind": Str("bool"), "value": Bool(v)}
	case vir.IntConst:
		return Obj{"kind": Str("int"), "value": Int(v)}
	case vir.BigIntConst:
		return Obj{"kind": Str("big_int"), "value": Str(v)}
	case vir.FnPtrConst:
		return Obj{"kind": Str("fn_ptr")}
	default:
		panic(fmt.Sprintf("unknown constant %T", c))
	}
}

func stmtValues(stmts []vir.Stmt) Arr {
	out := make(Arr, len(stmts))
	for i, s := range stmts {
		out[i] = stmtValue(s)
	}
	return out
}

func stmtValue(s vir.Stmt) Obj {
	switch n := s.(type) {
	case *vir.Comment:
		return Obj{"kind": Str("comment"), "text": Str(n.Comment)}
	case *vir.Label:
		return Obj{"kind": Str("label"), "name": Str(n.Label)}
	case *vir.Inhale:
		return Obj{"kind": Str("inhale"), "expr": exprValue(n.Expr), "pos": positionValue(n.Position)}
	case *vir.Exhale:
		return Obj{"kind": Str("exhale"), "expr": exprValue(n.Expr), "pos": positionValue(n.Position)}
	case *vir.Assert:
		return Obj{"kind": Str("assert"), "expr": exprValue(n.Expr), "pos": positionValue(n.Position)}
	case *vir.MethodCall:
		return Obj{
			"kind":    Str("method_call"),
			"method":  Str(n.Method),
			"args":    exprValues(n.Args),
			"targets": localVars(n.Targets),
		}
	case *vir.Assign:
		return Obj{
			"kind":        Str("assign"),
			"target":      exprValue(n.Target),
			"source":      exprValue(n.Source),
			"assign_kind": Int(n.Kind),
		}
	case *vir.Fold:
		return Obj{
			"kind":      Str("fold"),
			"predicate": Str(n.Predicate),
			"args":      exprValues(n.Args),
			"perm":      Str(n.Perm.String()),
			"pos":       positionValue(n.Position),
		}
	case *vir.Unfold:
		return Obj{
			"kind":      Str("unfold"),
			"predicate": Str(n.Predicate),
			"args":      exprValues(n.Args),
			"perm":      Str(n.Perm.String()),
		}
	case *vir.Obtain:
		return Obj{"kind": Str("obtain"), "expr": exprValue(n.Expr), "pos": positionValue(n.Position)}
	case *vir.BeginFrame:
		return Obj{"kind": Str("begin_frame")}
	case *vir.EndFrame:
		return Obj{"kind": Str("end_frame")}
	case *vir.TransferPerm:
		return Obj{
			"kind":      Str("transfer_perm"),
			"expiring":  exprValue(n.Expiring),
			"restored":  exprValue(n.Restored),
			"unchecked": Bool(n.Unchecked),
		}
	case *vir.ExpireBorrows:
		borrows := make(Arr, len(n.Borrows))
		for i, b := range n.Borrows {
			borrows[i] = Int(b.ID())
		}
		return Obj{"kind": Str("expire_borrows"), "borrows": borrows}
	case *vir.If:
		return Obj{
			"kind":  Str("if"),
			"guard": exprValue(n.Guard),
			"then":  stmtValues(n.Then),
			"else":  stmtValues(n.Else),
		}
	case *vir.Downcast:
		return Obj{"kind": Str("downcast"), "base": exprValue(n.Base), "field": fieldValue(n.Field)}
	case *vir.PackageMagicWand:
		return Obj{
			"kind":  Str("package"),
			"wand":  exprValue(n.Wand),
			"body":  stmtValues(n.Body),
			"label": Str(n.Label),
			"vars":  localVars(n.Vars),
			"pos":   positionValue(n.Position),
		}
	case *vir.ApplyMagicWand:
		return Obj{"kind": Str("apply"), "wand": exprValue(n.Wand), "pos": positionValue(n.Position)}
	default:
		panic(fmt.Sprintf("unknown statement %T", s))
	}
}
