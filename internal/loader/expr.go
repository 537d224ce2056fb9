package loader

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/LDY1998/prusti-dev/internal/vir"
)

func parseRequiredExpr(v cue.Value, field string) (vir.Expr, error) {
	exprVal := v.LookupPath(cue.ParsePath(field))
	if !exprVal.Exists() {
		return nil, &CompileError{Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	return parseExpr(exprVal)
}

func parseOptionalExpr(v cue.Value, field string) (vir.Expr, error) {
	exprVal := v.LookupPath(cue.ParsePath(field))
	if !exprVal.Exists() {
		return nil, nil
	}
	return parseExpr(exprVal)
}

func parseExpr(v cue.Value) (vir.Expr, error) {
	kind, err := requiredString(v, "kind")
	if err != nil {
		return nil, err
	}
	pos, err := parsePosition(v)
	if err != nil {
		return nil, err
	}

	switch kind {
	case "local":
		varVal := v.LookupPath(cue.ParsePath("var"))
		if !varVal.Exists() {
			return nil, &CompileError{Field: "var", Message: "var is required", Pos: v.Pos()}
		}
		localVar, err := parseLocalVar(varVal)
		if err != nil {
			return nil, err
		}
		return &vir.Local{Var: localVar, Position: pos}, nil
	case "variant":
		base, field, err := parseBaseAndField(v)
		if err != nil {
			return nil, err
		}
		return &vir.Variant{Base: base, Field: field, Position: pos}, nil
	case "field":
		base, field, err := parseBaseAndField(v)
		if err != nil {
			return nil, err
		}
		return &vir.FieldAccess{Base: base, Field: field, Position: pos}, nil
	case "addr_of":
		base, err := parseRequiredExpr(v, "base")
		if err != nil {
			return nil, err
		}
		typ, err := parseType(v, "type")
		if err != nil {
			return nil, err
		}
		return &vir.AddrOf{Base: base, Typ: typ, Position: pos}, nil
	case "int":
		value, err := requiredInt(v, "value")
		if err != nil {
			return nil, err
		}
		return &vir.Const{Value: vir.IntConst(value), Position: pos}, nil
	case "big_int":
		value, err := requiredString(v, "value")
		if err != nil {
			return nil, err
		}
		return &vir.Const{Value: vir.BigIntConst(value), Position: pos}, nil
	case "bool":
		boolVal := v.LookupPath(cue.ParsePath("value"))
		if !boolVal.Exists() {
			return nil, &CompileError{Field: "value", Message: "value is required", Pos: v.Pos()}
		}
		value, err := boolVal.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return &vir.Const{Value: vir.BoolConst(value), Position: pos}, nil
	case "fn_ptr":
		return &vir.Const{Value: vir.FnPtrConst{}, Position: pos}, nil
	case "old":
		label, err := requiredString(v, "label")
		if err != nil {
			return nil, err
		}
		base, err := parseRequiredExpr(v, "base")
		if err != nil {
			return nil, err
		}
		return &vir.LabelledOld{Label: label, Base: base, Position: pos}, nil
	case "magic_wand":
		return parseMagicWand(v)
	case "pred_perm":
		predicate, err := requiredString(v, "predicate")
		if err != nil {
			return nil, err
		}
		arg, err := parseRequiredExpr(v, "arg")
		if err != nil {
			return nil, err
		}
		perm, err := parsePerm(v, "perm")
		if err != nil {
			return nil, err
		}
		return &vir.PredicateAccessPredicate{
			Predicate: predicate,
			Arg:       arg,
			Perm:      perm,
			Position:  pos,
		}, nil
	case "field_perm":
		base, err := parseRequiredExpr(v, "base")
		if err != nil {
			return nil, err
		}
		perm, err := parsePerm(v, "perm")
		if err != nil {
			return nil, err
		}
		return &vir.FieldAccessPredicate{Base: base, Perm: perm, Position: pos}, nil
	case "unary":
		op, err := parseUnaryOp(v)
		if err != nil {
			return nil, err
		}
		arg, err := parseRequiredExpr(v, "arg")
		if err != nil {
			return nil, err
		}
		return &vir.UnaryOp{Op: op, Arg: arg, Position: pos}, nil
	case "binary":
		op, err := parseBinOp(v)
		if err != nil {
			return nil, err
		}
		left, err := parseRequiredExpr(v, "left")
		if err != nil {
			return nil, err
		}
		right, err := parseRequiredExpr(v, "right")
		if err != nil {
			return nil, err
		}
		return &vir.BinOp{Op: op, Left: left, Right: right, Position: pos}, nil
	case "unfolding":
		predicate, err := requiredString(v, "predicate")
		if err != nil {
			return nil, err
		}
		args, err := parseList(v, "args", parseExpr)
		if err != nil {
			return nil, err
		}
		body, err := parseRequiredExpr(v, "body")
		if err != nil {
			return nil, err
		}
		perm, err := parsePerm(v, "perm")
		if err != nil {
			return nil, err
		}
		return &vir.Unfolding{
			Predicate: predicate,
			Args:      args,
			Body:      body,
			Perm:      perm,
			Position:  pos,
		}, nil
	case "cond":
		guard, err := parseRequiredExpr(v, "guard")
		if err != nil {
			return nil, err
		}
		then, err := parseRequiredExpr(v, "then")
		if err != nil {
			return nil, err
		}
		els, err := parseRequiredExpr(v, "else")
		if err != nil {
			return nil, err
		}
		return &vir.Cond{Guard: guard, Then: then, Else: els, Position: pos}, nil
	case "forall":
		vars, err := parseList(v, "vars", parseLocalVar)
		if err != nil {
			return nil, err
		}
		triggers, err := parseList(v, "triggers", parseTrigger)
		if err != nil {
			return nil, err
		}
		body, err := parseRequiredExpr(v, "body")
		if err != nil {
			return nil, err
		}
		return &vir.ForAll{Vars: vars, Triggers: triggers, Body: body, Position: pos}, nil
	case "let":
		varVal := v.LookupPath(cue.ParsePath("var"))
		if !varVal.Exists() {
			return nil, &CompileError{Field: "var", Message: "var is required", Pos: v.Pos()}
		}
		localVar, err := parseLocalVar(varVal)
		if err != nil {
			return nil, err
		}
		def, err := parseRequiredExpr(v, "def")
		if err != nil {
			return nil, err
		}
		body, err := parseRequiredExpr(v, "body")
		if err != nil {
			return nil, err
		}
		return &vir.LetExpr{Var: localVar, Def: def, Body: body, Position: pos}, nil
	case "func_app":
		name, err := requiredString(v, "name")
		if err != nil {
			return nil, err
		}
		args, err := parseList(v, "args", parseExpr)
		if err != nil {
			return nil, err
		}
		formal, err := parseList(v, "formal_args", parseLocalVar)
		if err != nil {
			return nil, err
		}
		ret, err := parseType(v, "return")
		if err != nil {
			return nil, err
		}
		return &vir.FuncApp{
			Name:       name,
			Args:       args,
			FormalArgs: formal,
			ReturnType: ret,
			Position:   pos,
		}, nil
	case "domain_func_app":
		funcVal := v.LookupPath(cue.ParsePath("func"))
		if !funcVal.Exists() {
			return nil, &CompileError{Field: "func", Message: "func is required", Pos: v.Pos()}
		}
		fn, err := parseDomainFunc(funcVal)
		if err != nil {
			return nil, err
		}
		args, err := parseList(v, "args", parseExpr)
		if err != nil {
			return nil, err
		}
		return &vir.DomainFuncApp{Func: fn, Args: args, Position: pos}, nil
	case "inhale_exhale":
		in, err := parseRequiredExpr(v, "inhale")
		if err != nil {
			return nil, err
		}
		ex, err := parseRequiredExpr(v, "exhale")
		if err != nil {
			return nil, err
		}
		return &vir.InhaleExhale{InhaleExpr: in, ExhaleExpr: ex, Position: pos}, nil
	case "downcast":
		base, err := parseRequiredExpr(v, "base")
		if err != nil {
			return nil, err
		}
		place, err := parseRequiredExpr(v, "place")
		if err != nil {
			return nil, err
		}
		fieldVal := v.LookupPath(cue.ParsePath("field"))
		if !fieldVal.Exists() {
			return nil, &CompileError{Field: "field", Message: "field is required", Pos: v.Pos()}
		}
		field, err := parseField(fieldVal)
		if err != nil {
			return nil, err
		}
		return &vir.DowncastExpr{Base: base, EnumPlace: place, Field: field}, nil
	default:
		return nil, &CompileError{
			Field:   "kind",
			Message: fmt.Sprintf("unknown expression kind %q", kind),
			Pos:     v.Pos(),
		}
	}
}

func parseBaseAndField(v cue.Value) (vir.Expr, vir.Field, error) {
	base, err := parseRequiredExpr(v, "base")
	if err != nil {
		return nil, vir.Field{}, err
	}
	fieldVal := v.LookupPath(cue.ParsePath("field"))
	if !fieldVal.Exists() {
		return nil, vir.Field{}, &CompileError{Field: "field", Message: "field is required", Pos: v.Pos()}
	}
	field, err := parseField(fieldVal)
	if err != nil {
		return nil, vir.Field{}, err
	}
	return base, field, nil
}

func parseMagicWand(v cue.Value) (*vir.MagicWand, error) {
	pos, err := parsePosition(v)
	if err != nil {
		return nil, err
	}
	left, err := parseRequiredExpr(v, "left")
	if err != nil {
		return nil, err
	}
	right, err := parseRequiredExpr(v, "right")
	if err != nil {
		return nil, err
	}
	wand := &vir.MagicWand{Left: left, Right: right, Position: pos}

	borrowVal := v.LookupPath(cue.ParsePath("borrow"))
	if borrowVal.Exists() {
		id, err := borrowVal.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		borrow := vir.Borrow(id)
		wand.Borrow = &borrow
	}
	return wand, nil
}

func parseTrigger(v cue.Value) (vir.Trigger, error) {
	iter, err := v.List()
	if err != nil {
		return vir.Trigger{}, formatCUEError(err)
	}
	var parts []vir.Expr
	for iter.Next() {
		part, err := parseExpr(iter.Value())
		if err != nil {
			return vir.Trigger{}, err
		}
		parts = append(parts, part)
	}
	return vir.Trigger{Parts: parts}, nil
}

func parseUnaryOp(v cue.Value) (vir.UnaryOpKind, error) {
	s, err := requiredString(v, "op")
	if err != nil {
		return 0, err
	}
	switch s {
	case "!":
		return vir.UnaryNot, nil
	case "-":
		return vir.UnaryMinus, nil
	default:
		return 0, &CompileError{
			Field:   "op",
			Message: fmt.Sprintf("unknown unary operator %q", s),
			Pos:     v.Pos(),
		}
	}
}

func parseBinOp(v cue.Value) (vir.BinOpKind, error) {
	s, err := requiredString(v, "op")
	if err != nil {
		return 0, err
	}
	ops := map[string]vir.BinOpKind{
		"==":  vir.BinEqCmp,
		"!=":  vir.BinNeCmp,
		">":   vir.BinGtCmp,
		">=":  vir.BinGeCmp,
		"<":   vir.BinLtCmp,
		"<=":  vir.BinLeCmp,
		"+":   vir.BinAdd,
		"-":   vir.BinSub,
		"*":   vir.BinMul,
		"/":   vir.BinDiv,
		"%":   vir.BinMod,
		"&&":  vir.BinAnd,
		"||":  vir.BinOr,
		"==>": vir.BinImplies,
	}
	op, ok := ops[s]
	if !ok {
		return 0, &CompileError{
			Field:   "op",
			Message: fmt.Sprintf("unknown binary operator %q", s),
			Pos:     v.Pos(),
		}
	}
	return op, nil
}
