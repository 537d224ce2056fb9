package loader

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/LDY1998/prusti-dev/internal/vir"
)

func parseStmt(v cue.Value) (vir.Stmt, error) {
	kind, err := requiredString(v, "kind")
	if err != nil {
		return nil, err
	}
	pos, err := parsePosition(v)
	if err != nil {
		return nil, err
	}

	switch kind {
	case "comment":
		text, err := requiredString(v, "text")
		if err != nil {
			return nil, err
		}
		return &vir.Comment{Comment: text}, nil
	case "label":
		name, err := requiredString(v, "name")
		if err != nil {
			return nil, err
		}
		return &vir.Label{Label: name}, nil
	case "inhale":
		expr, err := parseRequiredExpr(v, "expr")
		if err != nil {
			return nil, err
		}
		return &vir.Inhale{Expr: expr, Position: pos}, nil
	case "exhale":
		expr, err := parseRequiredExpr(v, "expr")
		if err != nil {
			return nil, err
		}
		return &vir.Exhale{Expr: expr, Position: pos}, nil
	case "assert":
		expr, err := parseRequiredExpr(v, "expr")
		if err != nil {
			return nil, err
		}
		return &vir.Assert{Expr: expr, Position: pos}, nil
	case "method_call":
		method, err := requiredString(v, "method")
		if err != nil {
			return nil, err
		}
		args, err := parseList(v, "args", parseExpr)
		if err != nil {
			return nil, err
		}
		targets, err := parseList(v, "targets", parseLocalVar)
		if err != nil {
			return nil, err
		}
		return &vir.MethodCall{Method: method, Args: args, Targets: targets}, nil
	case "assign":
		target, err := parseRequiredExpr(v, "target")
		if err != nil {
			return nil, err
		}
		source, err := parseRequiredExpr(v, "source")
		if err != nil {
			return nil, err
		}
		assignKind, err := parseAssignKind(v)
		if err != nil {
			return nil, err
		}
		return &vir.Assign{Target: target, Source: source, Kind: assignKind}, nil
	case "fold":
		predicate, args, perm, err := parseFoldParts(v)
		if err != nil {
			return nil, err
		}
		return &vir.Fold{Predicate: predicate, Args: args, Perm: perm, Position: pos}, nil
	case "unfold":
		predicate, args, perm, err := parseFoldParts(v)
		if err != nil {
			return nil, err
		}
		return &vir.Unfold{Predicate: predicate, Args: args, Perm: perm}, nil
	case "obtain":
		expr, err := parseRequiredExpr(v, "expr")
		if err != nil {
			return nil, err
		}
		return &vir.Obtain{Expr: expr, Position: pos}, nil
	case "begin_frame":
		return &vir.BeginFrame{}, nil
	case "end_frame":
		return &vir.EndFrame{}, nil
	case "transfer_perm":
		expiring, err := parseRequiredExpr(v, "expiring")
		if err != nil {
			return nil, err
		}
		restored, err := parseRequiredExpr(v, "restored")
		if err != nil {
			return nil, err
		}
		unchecked, err := optionalBool(v, "unchecked")
		if err != nil {
			return nil, err
		}
		return &vir.TransferPerm{Expiring: expiring, Restored: restored, Unchecked: unchecked}, nil
	case "expire_borrows":
		borrows, err := parseList(v, "borrows", parseBorrow)
		if err != nil {
			return nil, err
		}
		return &vir.ExpireBorrows{Borrows: borrows}, nil
	case "if":
		guard, err := parseRequiredExpr(v, "guard")
		if err != nil {
			return nil, err
		}
		then, err := parseList(v, "then", parseStmt)
		if err != nil {
			return nil, err
		}
		els, err := parseList(v, "else", parseStmt)
		if err != nil {
			return nil, err
		}
		return &vir.If{Guard: guard, Then: then, Else: els}, nil
	case "downcast":
		base, err := parseRequiredExpr(v, "base")
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
		return &vir.Downcast{Base: base, Field: field}, nil
	case "package":
		wandVal := v.LookupPath(cue.ParsePath("wand"))
		if !wandVal.Exists() {
			return nil, &CompileError{Field: "wand", Message: "wand is required", Pos: v.Pos()}
		}
		wand, err := parseMagicWand(wandVal)
		if err != nil {
			return nil, err
		}
		body, err := parseList(v, "body", parseStmt)
		if err != nil {
			return nil, err
		}
		label, err := optionalString(v, "label")
		if err != nil {
			return nil, err
		}
		vars, err := parseList(v, "vars", parseLocalVar)
		if err != nil {
			return nil, err
		}
		return &vir.PackageMagicWand{
			Wand:     wand,
			Body:     body,
			Label:    label,
			Vars:     vars,
			Position: pos,
		}, nil
	case "apply":
		wandVal := v.LookupPath(cue.ParsePath("wand"))
		if !wandVal.Exists() {
			return nil, &CompileError{Field: "wand", Message: "wand is required", Pos: v.Pos()}
		}
		wand, err := parseMagicWand(wandVal)
		if err != nil {
			return nil, err
		}
		return &vir.ApplyMagicWand{Wand: wand, Position: pos}, nil
	default:
		return nil, &CompileError{
			Field:   "kind",
			Message: fmt.Sprintf("unknown statement kind %q", kind),
			Pos:     v.Pos(),
		}
	}
}

func parseFoldParts(v cue.Value) (string, []vir.Expr, vir.PermAmount, error) {
	predicate, err := requiredString(v, "predicate")
	if err != nil {
		return "", nil, 0, err
	}
	args, err := parseList(v, "args", parseExpr)
	if err != nil {
		return "", nil, 0, err
	}
	perm, err := parsePerm(v, "perm")
	if err != nil {
		return "", nil, 0, err
	}
	return predicate, args, perm, nil
}

func parseAssignKind(v cue.Value) (vir.AssignKind, error) {
	s, err := requiredString(v, "assign_kind")
	if err != nil {
		return 0, err
	}
	switch s {
	case "copy":
		return vir.AssignCopy, nil
	case "move":
		return vir.AssignMove, nil
	case "mut_borrow":
		return vir.AssignMutableBorrow, nil
	case "shared_borrow":
		return vir.AssignSharedBorrow, nil
	case "ghost":
		return vir.AssignGhost, nil
	default:
		return 0, &CompileError{
			Field:   "assign_kind",
			Message: fmt.Sprintf("unknown assignment kind %q", s),
			Pos:     v.Pos(),
		}
	}
}

func parseBorrow(v cue.Value) (vir.Borrow, error) {
	id, err := v.Int64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return vir.Borrow(id), nil
}
