package vir

import "fmt"

// ContractError reports a structural invariant the encoder would treat as
// fatal. Validate returns these so tools can reject malformed programs
// before encoding starts.
type ContractError struct {
	// Path locates the offending node (method/function name plus a
	// human-readable statement description).
	Path string

	// Message describes the violated invariant.
	Message string
}

// Error implements the error interface.
func (e *ContractError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate checks the structural contracts the encoder relies on:
//
//  1. Exhale statements carry a non-default position.
//  2. Fold and Unfold take exactly one argument, which is a place.
//  3. An applied magic wand carries a borrow identifier.
//  4. Permission amounts in function and method specifications are valid
//     for specs (never Remaining).
//
// Validate is a pure function. It returns the first violation found, or
// nil when the program is well formed. The encoder itself does not call
// Validate: a violation reaching the encoder is an upstream bug and
// terminates encoding.
func Validate(program *Program) error {
	for _, fn := range program.Functions {
		path := "function " + fn.Name
		for _, pre := range fn.Pres {
			if err := validateSpecExpr(path, pre); err != nil {
				return err
			}
		}
		for _, post := range fn.Posts {
			if err := validateSpecExpr(path, post); err != nil {
				return err
			}
		}
	}
	for _, method := range program.Methods {
		path := "method " + method.Name
		for _, pre := range method.Pres {
			if err := validateSpecExpr(path, pre); err != nil {
				return err
			}
		}
		for _, post := range method.Posts {
			if err := validateSpecExpr(path, post); err != nil {
				return err
			}
		}
		if err := validateStmts(path, method.Body); err != nil {
			return err
		}
	}
	return nil
}

func validateStmts(path string, stmts []Stmt) error {
	for _, stmt := range stmts {
		if err := validateStmt(path, stmt); err != nil {
			return err
		}
	}
	return nil
}

func validateStmt(path string, stmt Stmt) error {
	switch s := stmt.(type) {
	case *Exhale:
		if s.Position.IsDefault() {
			return &ContractError{
				Path:    fmt.Sprintf("%s: %s", path, s),
				Message: "exhale requires a non-default position",
			}
		}
	case *Fold:
		if len(s.Args) != 1 {
			return &ContractError{
				Path:    fmt.Sprintf("%s: %s", path, s),
				Message: fmt.Sprintf("fold takes exactly one argument, got %d", len(s.Args)),
			}
		}
		if !IsPlace(s.Args[0]) {
			return &ContractError{
				Path:    fmt.Sprintf("%s: %s", path, s),
				Message: "fold argument must be a place",
			}
		}
	case *Unfold:
		if len(s.Args) != 1 {
			return &ContractError{
				Path:    fmt.Sprintf("%s: %s", path, s),
				Message: fmt.Sprintf("unfold takes exactly one argument, got %d", len(s.Args)),
			}
		}
		if !IsPlace(s.Args[0]) {
			return &ContractError{
				Path:    fmt.Sprintf("%s: %s", path, s),
				Message: "unfold argument must be a place",
			}
		}
	case *ApplyMagicWand:
		if s.Wand == nil || s.Wand.Borrow == nil {
			return &ContractError{
				Path:    fmt.Sprintf("%s: %s", path, s),
				Message: "applied magic wand must carry a borrow identifier",
			}
		}
	case *If:
		if err := validateStmts(path, s.Then); err != nil {
			return err
		}
		if err := validateStmts(path, s.Else); err != nil {
			return err
		}
	case *PackageMagicWand:
		return validateStmts(path, s.Body)
	}
	return nil
}

// validateSpecExpr rejects permission amounts that may not appear in
// user-facing specifications.
func validateSpecExpr(path string, e Expr) error {
	var bad Expr
	walkAmounts(e, func(node Expr, perm PermAmount) bool {
		if !perm.IsValidForSpecs() {
			bad = node
			return false
		}
		return true
	})
	if bad != nil {
		return &ContractError{
			Path:    fmt.Sprintf("%s: %s", path, bad),
			Message: "derived permission amount is not allowed in specifications",
		}
	}
	return nil
}

// walkAmounts visits every permission amount in the expression tree.
// The visitor returns false to stop the walk.
func walkAmounts(e Expr, visit func(Expr, PermAmount) bool) bool {
	switch x := e.(type) {
	case *PredicateAccessPredicate:
		return visit(x, x.Perm)
	case *FieldAccessPredicate:
		return visit(x, x.Perm)
	case *Unfolding:
		if !visit(x, x.Perm) {
			return false
		}
		return walkAmounts(x.Body, visit)
	case *UnaryOp:
		return walkAmounts(x.Arg, visit)
	case *BinOp:
		return walkAmounts(x.Left, visit) && walkAmounts(x.Right, visit)
	case *Cond:
		return walkAmounts(x.Guard, visit) &&
			walkAmounts(x.Then, visit) &&
			walkAmounts(x.Else, visit)
	case *MagicWand:
		return walkAmounts(x.Left, visit) && walkAmounts(x.Right, visit)
	case *ForAll:
		return walkAmounts(x.Body, visit)
	case *LetExpr:
		return walkAmounts(x.Def, visit) && walkAmounts(x.Body, visit)
	case *LabelledOld:
		return walkAmounts(x.Base, visit)
	case *InhaleExhale:
		return walkAmounts(x.InhaleExpr, visit) && walkAmounts(x.ExhaleExpr, visit)
	default:
		return true
	}
}
