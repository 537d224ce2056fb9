package viper

// Simplified applies the backend's expression simplification pass: boolean
// constant folding over not/and/or/implies and conditional elimination.
// Children are simplified first, then the node itself. Unknown shapes pass
// through unchanged.
func Simplified(e Expr) Expr {
	switch x := e.(type) {
	case *UnaryExpr:
		arg := Simplified(x.Arg)
		if x.Op == "!" {
			if lit, ok := arg.(*BoolLitExpr); ok {
				return &BoolLitExpr{Value: !lit.Value, Pos: x.Pos}
			}
			if inner, ok := arg.(*UnaryExpr); ok && inner.Op == "!" {
				return inner.Arg
			}
		}
		return &UnaryExpr{Op: x.Op, Arg: arg, Pos: x.Pos}
	case *BinaryExpr:
		left := Simplified(x.Left)
		right := Simplified(x.Right)
		if folded, ok := foldBinary(x.Op, left, right, x.Pos); ok {
			return folded
		}
		return &BinaryExpr{Op: x.Op, Left: left, Right: right, Pos: x.Pos}
	case *CondExpr:
		guard := Simplified(x.Guard)
		if lit, ok := guard.(*BoolLitExpr); ok {
			if lit.Value {
				return Simplified(x.Then)
			}
			return Simplified(x.Else)
		}
		return &CondExpr{
			Guard: guard,
			Then:  Simplified(x.Then),
			Else:  Simplified(x.Else),
			Pos:   x.Pos,
		}
	case *FieldAccessPredicateExpr:
		return &FieldAccessPredicateExpr{
			Location: Simplified(x.Location),
			Perm:     Simplified(x.Perm),
			Pos:      x.Pos,
		}
	case *MagicWandExpr:
		return &MagicWandExpr{
			Left:  Simplified(x.Left),
			Right: Simplified(x.Right),
			Pos:   x.Pos,
		}
	case *UnfoldingExpr:
		return &UnfoldingExpr{Access: x.Access, Body: Simplified(x.Body), Pos: x.Pos}
	case *ForAllExpr:
		return &ForAllExpr{
			Vars:     x.Vars,
			Triggers: x.Triggers,
			Body:     Simplified(x.Body),
			Pos:      x.Pos,
		}
	case *LetExprNode:
		return &LetExprNode{
			Var:  x.Var,
			Def:  Simplified(x.Def),
			Body: Simplified(x.Body),
			Pos:  x.Pos,
		}
	case *InhaleExhaleExpr:
		return &InhaleExhaleExpr{In: Simplified(x.In), Ex: Simplified(x.Ex), Pos: x.Pos}
	case *LabelledOldExpr:
		return &LabelledOldExpr{Label: x.Label, Body: Simplified(x.Body), Pos: x.Pos}
	default:
		return e
	}
}

func foldBinary(op string, left, right Expr, pos Position) (Expr, bool) {
	leftLit, leftOK := left.(*BoolLitExpr)
	rightLit, rightOK := right.(*BoolLitExpr)

	switch op {
	case "&&":
		if leftOK {
			if leftLit.Value {
				return right, true
			}
			return &BoolLitExpr{Value: false, Pos: pos}, true
		}
		if rightOK {
			if rightLit.Value {
				return left, true
			}
			return &BoolLitExpr{Value: false, Pos: pos}, true
		}
	case "||":
		if leftOK {
			if leftLit.Value {
				return &BoolLitExpr{Value: true, Pos: pos}, true
			}
			return right, true
		}
		if rightOK {
			if rightLit.Value {
				return &BoolLitExpr{Value: true, Pos: pos}, true
			}
			return left, true
		}
	case "==>":
		if leftOK {
			if leftLit.Value {
				return right, true
			}
			return &BoolLitExpr{Value: true, Pos: pos}, true
		}
		if rightOK && rightLit.Value {
			return &BoolLitExpr{Value: true, Pos: pos}, true
		}
	case "==":
		if leftOK && rightOK {
			return &BoolLitExpr{Value: leftLit.Value == rightLit.Value, Pos: pos}, true
		}
	case "!=":
		if leftOK && rightOK {
			return &BoolLitExpr{Value: leftLit.Value != rightLit.Value, Pos: pos}, true
		}
	}
	return nil, false
}
