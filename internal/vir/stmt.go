package vir

import (
	"fmt"
	"strings"
)

// Stmt represents a VIR statement.
//
// This is a sealed interface - only types in this package implement it.
// The String form of a statement matters: statements that carry no proof
// obligation (Obtain, BeginFrame, EndFrame, TransferPerm, ExpireBorrows,
// Downcast) are encoded as backend comments holding exactly this text.
type Stmt interface {
	stmtNode() // Marker method - seals interface to this package

	String() string
}

// Comment is a free-form annotation passed through to the backend.
type Comment struct {
	Comment string
}

func (*Comment) stmtNode()        {}
func (s *Comment) String() string { return "// " + s.Comment }

// Label marks a program point that LabelledOld expressions can refer to.
type Label struct {
	Label string
}

func (*Label) stmtNode()        {}
func (s *Label) String() string { return "label " + s.Label }

// Inhale assumes that an assertion holds. Inhales are never blamed for
// verification failures, so the position is carried for provenance only
// and the encoder always emits the default position.
type Inhale struct {
	Expr     Expr
	Position Position
}

func (*Inhale) stmtNode()        {}
func (s *Inhale) String() string { return fmt.Sprintf("inhale %s", s.Expr) }

// Exhale consumes an assertion. The position must not be the default: an
// exhale is always blamable.
type Exhale struct {
	Expr     Expr
	Position Position
}

func (*Exhale) stmtNode()        {}
func (s *Exhale) String() string { return fmt.Sprintf("exhale %s", s.Expr) }

// Assert checks that an assertion holds without consuming it.
type Assert struct {
	Expr     Expr
	Position Position
}

func (*Assert) stmtNode()        {}
func (s *Assert) String() string { return fmt.Sprintf("assert %s", s.Expr) }

// MethodCall invokes a method by name.
type MethodCall struct {
	Method  string
	Args    []Expr
	Targets []LocalVar
}

func (*MethodCall) stmtNode() {}
func (s *MethodCall) String() string {
	targets := make([]string, len(s.Targets))
	for i, t := range s.Targets {
		targets[i] = t.VarName
	}
	return fmt.Sprintf("%s := %s(%s)",
		strings.Join(targets, ", "), s.Method, exprList(s.Args))
}

// AssignKind records how ownership moves in an assignment. The encoder
// treats every kind as an unconditional heap/variable update; the kind
// exists for diagnostics and upstream analyses.
type AssignKind int

const (
	AssignCopy AssignKind = iota
	AssignMove
	AssignMutableBorrow
	AssignSharedBorrow
	AssignGhost
)

// Assign updates a place or variable with the value of Source.
type Assign struct {
	Target Expr
	Source Expr
	Kind   AssignKind
}

func (*Assign) stmtNode() {}
func (s *Assign) String() string {
	return fmt.Sprintf("%s := %s", s.Target, s.Source)
}

// Fold exchanges a predicate's unfolded footprint for its folded
// abstraction. Folding can fail, so a blamable position is carried.
type Fold struct {
	Predicate string
	Args      []Expr
	Perm      PermAmount
	Position  Position
}

func (*Fold) stmtNode() {}
func (s *Fold) String() string {
	return fmt.Sprintf("fold acc(%s(%s), %s)", s.Predicate, exprList(s.Args), s.Perm)
}

// Unfold exchanges a predicate's folded abstraction for its footprint.
type Unfold struct {
	Predicate string
	Args      []Expr
	Perm      PermAmount
}

func (*Unfold) stmtNode() {}
func (s *Unfold) String() string {
	return fmt.Sprintf("unfold acc(%s(%s), %s)", s.Predicate, exprList(s.Args), s.Perm)
}

// Obtain instructs the fold/unfold algorithm to obtain permission to an
// assertion. No proof obligation reaches the backend.
type Obtain struct {
	Expr     Expr
	Position Position
}

func (*Obtain) stmtNode()        {}
func (s *Obtain) String() string { return fmt.Sprintf("obtain %s", s.Expr) }

// BeginFrame marks the start of a framed section. Backend no-op.
type BeginFrame struct{}

func (*BeginFrame) stmtNode()      {}
func (*BeginFrame) String() string { return "begin frame" }

// EndFrame marks the end of a framed section. Backend no-op.
type EndFrame struct{}

func (*EndFrame) stmtNode()      {}
func (*EndFrame) String() string { return "end frame" }

// TransferPerm moves permissions from an expiring place to the place being
// restored. Backend no-op.
type TransferPerm struct {
	Expiring  Expr
	Restored  Expr
	Unchecked bool
}

func (*TransferPerm) stmtNode() {}
func (s *TransferPerm) String() string {
	return fmt.Sprintf("transfer perm %s --> %s", s.Expiring, s.Restored)
}

// ExpireBorrows ends the listed reborrows. Backend no-op.
type ExpireBorrows struct {
	Borrows []Borrow
}

func (*ExpireBorrows) stmtNode() {}
func (s *ExpireBorrows) String() string {
	ids := make([]string, len(s.Borrows))
	for i, b := range s.Borrows {
		ids[i] = fmt.Sprintf("%d", b.ID())
	}
	return fmt.Sprintf("expire borrows [%s]", strings.Join(ids, ", "))
}

// If branches on a guard.
type If struct {
	Guard Expr
	Then  []Stmt
	Else  []Stmt
}

func (*If) stmtNode() {}
func (s *If) String() string {
	return fmt.Sprintf("if %s { %d stmts } else { %d stmts }",
		s.Guard, len(s.Then), len(s.Else))
}

// Downcast annotates that a place holds a specific enum variant.
// Backend no-op.
type Downcast struct {
	Base  Expr
	Field Field
}

func (*Downcast) stmtNode() {}
func (s *Downcast) String() string {
	return fmt.Sprintf("downcast %s to %s", s.Base, s.Field.FieldName)
}

// PackageMagicWand proves Wand by executing Body, which transforms
// permissions matching the left-hand side into the right-hand side.
// Vars are the package's local temporaries, declared in a nested scope.
type PackageMagicWand struct {
	Wand     *MagicWand
	Body     []Stmt
	Label    string
	Vars     []LocalVar
	Position Position
}

func (*PackageMagicWand) stmtNode() {}
func (s *PackageMagicWand) String() string {
	return fmt.Sprintf("package %s { %d stmts }", s.Wand, len(s.Body))
}

// ApplyMagicWand consumes Wand together with its left-hand side to obtain
// the right-hand side. The wand must carry a borrow identifier.
type ApplyMagicWand struct {
	Wand     *MagicWand
	Position Position
}

func (*ApplyMagicWand) stmtNode() {}
func (s *ApplyMagicWand) String() string {
	return fmt.Sprintf("apply %s", s.Wand)
}
