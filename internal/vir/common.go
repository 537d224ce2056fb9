package vir

import (
	"fmt"
	"sort"
	"strings"
)

// ResultVarName is the reserved local variable name for a function's return
// value. The encoder translates a local with this name to the backend's
// result-value construct instead of an ordinary variable reference.
const ResultVarName = "__result"

// Position identifies a statement or expression for error reporting.
// A zero Position means "no location" and must not be used where the
// backend requires a real location (e.g. exhale assertions).
type Position struct {
	Line   int32  `json:"line"`
	Column int32  `json:"column"`
	ID     uint64 `json:"id"`
}

// NewPosition creates a Position with the given coordinates and identifier.
func NewPosition(line, column int32, id uint64) Position {
	return Position{Line: line, Column: column, ID: id}
}

// IsDefault reports whether this is the "no location" position.
func (p Position) IsDefault() bool {
	return p.Line == 0 && p.Column == 0 && p.ID == 0
}

// PermAmount is a fractional permission amount.
//
// The ordering is partial: Read < Write, while Remaining is incomparable
// with both. Compare panics on an incomparable pair; callers must never
// order Remaining against the other two.
type PermAmount int

const (
	// Read is the symbolic read (shared access) amount.
	Read PermAmount = iota
	// Write is the full (exclusive access) amount.
	Write
	// Remaining is the permission left after Read was subtracted from Write.
	Remaining
)

// String renders the amount the way specifications display it.
func (p PermAmount) String() string {
	switch p {
	case Read:
		return "read"
	case Write:
		return "write"
	case Remaining:
		return "write-read"
	default:
		return fmt.Sprintf("PermAmount(%d)", int(p))
	}
}

// IsValidForSpecs reports whether the amount may appear directly in
// user-facing specifications. Remaining is a derived amount and may not.
func (p PermAmount) IsValidForSpecs() bool {
	switch p {
	case Read, Write:
		return true
	default:
		return false
	}
}

// PermErrorCode categorizes invalid permission combinations.
type PermErrorCode string

const (
	// ErrCodeInvalidAdd indicates the two amounts cannot be added.
	ErrCodeInvalidAdd PermErrorCode = "INVALID_ADD"

	// ErrCodeInvalidSub indicates the two amounts cannot be subtracted.
	ErrCodeInvalidSub PermErrorCode = "INVALID_SUB"
)

// PermAmountError reports an invalid Add or Sub on permission amounts.
// It identifies both operands so the caller can decide whether the invalid
// combination is a verification limitation or a bug.
type PermAmountError struct {
	Code  PermErrorCode
	Left  PermAmount
	Right PermAmount
}

// Error implements the error interface.
func (e *PermAmountError) Error() string {
	return fmt.Sprintf("%s: %s and %s", e.Code, e.Left, e.Right)
}

// Add combines two permission amounts. The only valid combinations are
// Read+Remaining and Remaining+Read, both yielding Write.
func (p PermAmount) Add(other PermAmount) (PermAmount, error) {
	if (p == Read && other == Remaining) || (p == Remaining && other == Read) {
		return Write, nil
	}
	return 0, &PermAmountError{Code: ErrCodeInvalidAdd, Left: p, Right: other}
}

// Sub subtracts a permission amount. The only valid combinations are
// Write-Read (yielding Remaining) and Write-Remaining (yielding Read).
func (p PermAmount) Sub(other PermAmount) (PermAmount, error) {
	if p == Write && other == Read {
		return Remaining, nil
	}
	if p == Write && other == Remaining {
		return Read, nil
	}
	return 0, &PermAmountError{Code: ErrCodeInvalidSub, Left: p, Right: other}
}

// Compare orders two permission amounts, returning -1, 0, or 1.
// It panics when the pair is incomparable (Remaining against Read or
// Write): such a comparison indicates broken internal consistency in the
// caller, not a value-level condition.
func (p PermAmount) Compare(other PermAmount) int {
	switch {
	case p == other && p != Remaining:
		return 0
	case p == Read && other == Write:
		return -1
	case p == Write && other == Read:
		return 1
	default:
		panic(fmt.Sprintf("undefined comparison between %s and %s", p, other))
	}
}

// TypeID is the coarse flavor of a Type, used where only the variant
// matters. It is also the key under which types hash and compare.
type TypeID int

const (
	TypeIDInt TypeID = iota
	TypeIDBool
	TypeIDRef
	TypeIDDomain
)

// String returns the TypeID name.
func (id TypeID) String() string {
	switch id {
	case TypeIDInt:
		return "Int"
	case TypeIDBool:
		return "Bool"
	case TypeIDRef:
		return "Ref"
	case TypeIDDomain:
		return "Domain"
	default:
		return fmt.Sprintf("TypeID(%d)", int(id))
	}
}

// Type is the closed set of VIR types.
//
// This is a sealed interface - only Int, Bool, TypedRef, and DomainType
// implement it. Identity is defined by variant tag only: use EqualShape (or
// key maps on Kind()) rather than comparing carried names. TypedRef("A") and
// TypedRef("B") are the same type for every purpose except display and name
// substitution.
type Type interface {
	typeNode() // Marker method - seals interface to this package

	// Kind returns the coarse TypeID. It is the identity of the type.
	Kind() TypeID

	// Name returns the display/predicate name of the type.
	Name() string

	// Variant derives the type of one arm of a sum-like structure by
	// appending a discriminant suffix to the backing predicate name.
	// Valid only on TypedRef; any other variant panics.
	Variant(suffix string) Type

	// Patch instantiates generics by textual substitution inside the
	// TypedRef predicate name. No-op on all other variants.
	Patch(substs map[string]string) Type

	String() string
}

// EqualShape reports tag-only type equality: two types are equal iff they
// share a variant, regardless of any carried name. This is the one and only
// equality the model defines for types.
func EqualShape(a, b Type) bool {
	return a.Kind() == b.Kind()
}

// Int is the mathematical integer type.
type Int struct{}

func (Int) typeNode()    {}
func (Int) Kind() TypeID { return TypeIDInt }
func (Int) Name() string { return "int" }
func (Int) Variant(suffix string) Type {
	panic("variant called on non-reference type Int")
}
func (t Int) Patch(map[string]string) Type { return t }
func (Int) String() string                 { return "Int" }

// Bool is the boolean type.
type Bool struct{}

func (Bool) typeNode()    {}
func (Bool) Kind() TypeID { return TypeIDBool }
func (Bool) Name() string { return "bool" }
func (Bool) Variant(suffix string) Type {
	panic("variant called on non-reference type Bool")
}
func (t Bool) Patch(map[string]string) Type { return t }
func (Bool) String() string                 { return "Bool" }

// TypedRef is a reference type governed by the named predicate.
type TypedRef struct {
	// Pred is the name of the predicate that encodes the type.
	Pred string
}

func (TypedRef) typeNode()      {}
func (TypedRef) Kind() TypeID   { return TypeIDRef }
func (t TypedRef) Name() string { return t.Pred }
func (t TypedRef) Variant(suffix string) Type {
	return TypedRef{Pred: t.Pred + suffix}
}

// Patch replaces every occurrence of a substitution key inside the predicate
// name in a single left-to-right pass. At each offset the keys are tried
// longest first (ties broken lexicographically), so the result is
// deterministic even when one key is a substring of another. Replacement
// text is never rescanned.
func (t TypedRef) Patch(substs map[string]string) Type {
	if len(substs) == 0 {
		return t
	}
	keys := make([]string, 0, len(substs))
	for k := range substs {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	var out strings.Builder
	name := t.Pred
	for i := 0; i < len(name); {
		replaced := false
		for _, k := range keys {
			if strings.HasPrefix(name[i:], k) {
				out.WriteString(substs[k])
				i += len(k)
				replaced = true
				break
			}
		}
		if !replaced {
			out.WriteByte(name[i])
			i++
		}
	}
	return TypedRef{Pred: out.String()}
}

func (t TypedRef) String() string { return fmt.Sprintf("Ref(%s)", t.Pred) }

// DomainType is an uninterpreted domain type with the given name.
type DomainType struct {
	Domain string
}

func (DomainType) typeNode()      {}
func (DomainType) Kind() TypeID   { return TypeIDDomain }
func (t DomainType) Name() string { return t.Domain }
func (t DomainType) Variant(suffix string) Type {
	panic("variant called on non-reference type Domain")
}
func (t DomainType) Patch(map[string]string) Type { return t }
func (t DomainType) String() string               { return fmt.Sprintf("Domain(%s)", t.Domain) }

// LocalVar is a named, typed local variable.
// Identity is (name, type tag); see Key.
type LocalVar struct {
	VarName string `json:"name"`
	Typ     Type   `json:"-"`
}

// NewLocalVar creates a local variable.
func NewLocalVar(name string, typ Type) LocalVar {
	return LocalVar{VarName: name, Typ: typ}
}

// Key returns the identity of the variable: its name and the tag of its
// type. Use this as a map key instead of the LocalVar itself.
func (v LocalVar) Key() VarKey {
	return VarKey{Name: v.VarName, Kind: v.Typ.Kind()}
}

func (v LocalVar) String() string { return v.VarName }

// VarKey is the comparable identity of a LocalVar or Field.
type VarKey struct {
	Name string
	Kind TypeID
}

// Field is a named, typed heap field.
// Identity is (name, type tag); see Key.
type Field struct {
	FieldName string `json:"name"`
	Typ       Type   `json:"-"`
}

// NewField creates a field.
func NewField(name string, typ Type) Field {
	return Field{FieldName: name, Typ: typ}
}

// Key returns the identity of the field: its name and the tag of its type.
func (f Field) Key() VarKey {
	return VarKey{Name: f.FieldName, Kind: f.Typ.Kind()}
}

// TypedRefName returns the backing predicate name when the field's type is
// a reference, and false otherwise.
func (f Field) TypedRefName() (string, bool) {
	if ref, ok := f.Typ.(TypedRef); ok {
		return ref.Pred, true
	}
	return "", false
}

func (f Field) String() string { return f.FieldName }

// Borrow is the opaque numeric handle assigned when a reborrow begins.
// It parameterizes the dead-borrow token that links reborrow lifetimes to
// magic wands.
type Borrow int

// ID returns the numeric identity of the borrow.
func (b Borrow) ID() int { return int(b) }
