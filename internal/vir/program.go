package vir

import "fmt"

// Program is a complete VIR program: the unit handed to the encoder.
type Program struct {
	Name           string
	Domains        []Domain
	Fields         []Field
	BuiltinMethods []BodylessMethod
	Methods        []Method
	Functions      []Function
	Predicates     []Predicate
}

// Domain declares an uninterpreted sort with its functions and axioms.
type Domain struct {
	Name      string
	Functions []DomainFunc
	Axioms    []DomainAxiom
	TypeVars  []Type
}

// DomainFunc declares a function belonging to a domain.
type DomainFunc struct {
	Name       string
	FormalArgs []LocalVar
	ReturnType Type
	Unique     bool
	DomainName string
}

// Identifier returns the backend-visible name of the domain function.
// Like Function identifiers, it folds the signature into the name so that
// same-named functions with different signatures never collide.
func (f DomainFunc) Identifier() string {
	return ComputeIdentifier(f.Name, f.FormalArgs, f.ReturnType)
}

// DomainAxiom is a named axiom constraining a domain.
type DomainAxiom struct {
	Name       string
	Expr       Expr
	DomainName string
}

// Function is a top-level (heap-dependent) function.
// A nil Body declares an abstract function.
type Function struct {
	Name       string
	FormalArgs []LocalVar
	ReturnType Type
	Pres       []Expr
	Posts      []Expr
	Body       Expr
}

// Identifier returns the backend-visible, signature-disambiguated name.
func (f Function) Identifier() string {
	return ComputeIdentifier(f.Name, f.FormalArgs, f.ReturnType)
}

// Predicate is a sealed interface over predicate declarations.
// Only StructPredicate, EnumPredicate, and BodylessPredicate implement it.
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package

	// PredName returns the declared predicate name.
	PredName() string
}

// StructPredicate describes the heap footprint of one structure.
// A nil Body declares an abstract predicate.
type StructPredicate struct {
	Name string
	This LocalVar
	Body Expr
}

func (StructPredicate) predicateNode()     {}
func (p StructPredicate) PredName() string { return p.Name }

// PredicateVariant is one guarded arm of an EnumPredicate.
type PredicateVariant struct {
	// Guard holds when the discriminant selects this variant.
	Guard Expr
	// Name is the discriminant suffix of the variant.
	Name string
	// Predicate describes the variant's footprint.
	Predicate StructPredicate
}

// EnumPredicate describes the footprint of a sum-like structure: permission
// to the discriminant field, its bounds, and one guarded footprint per
// variant.
type EnumPredicate struct {
	Name               string
	This               LocalVar
	DiscriminantField  Field
	DiscriminantBounds Expr
	Variants           []PredicateVariant
}

func (EnumPredicate) predicateNode()     {}
func (p EnumPredicate) PredName() string { return p.Name }

// Body assembles the predicate body: acc(this.discriminant) && bounds &&
// (guard_i ==> acc(variant_i(this), write)) for every variant.
func (p EnumPredicate) Body() Expr {
	this := &Local{Var: p.This}
	discriminant := &FieldAccess{Base: this, Field: p.DiscriminantField}
	body := Expr(&BinOp{
		Op:    BinAnd,
		Left:  &FieldAccessPredicate{Base: discriminant, Perm: Write},
		Right: p.DiscriminantBounds,
	})
	for _, variant := range p.Variants {
		arm := &BinOp{
			Op:   BinImplies,
			Left: variant.Guard,
			Right: &PredicateAccessPredicate{
				Predicate: p.Name + variant.Name,
				Arg:       this,
				Perm:      Write,
			},
		}
		body = &BinOp{Op: BinAnd, Left: body, Right: arm}
	}
	return body
}

// BodylessPredicate declares an abstract predicate over one reference.
type BodylessPredicate struct {
	Name string
	This LocalVar
}

func (BodylessPredicate) predicateNode()     {}
func (p BodylessPredicate) PredName() string { return p.Name }

// Method is a procedure with a statement body.
type Method struct {
	Name          string
	FormalArgs    []LocalVar
	FormalReturns []LocalVar
	Pres          []Expr
	Posts         []Expr
	Locals        []LocalVar
	Body          []Stmt
}

// BodylessMethod declares a method by signature only. Builtin methods
// (stubs the upstream translation calls into) take this form.
type BodylessMethod struct {
	Name          string
	FormalArgs    []LocalVar
	FormalReturns []LocalVar
}

// ComputeIdentifier derives the backend-visible identifier of a function
// from its declared name and signature. Two functions with the same declared
// name but different signatures must never collide, so the formal argument
// types and the return type are folded into the name.
func ComputeIdentifier(name string, formalArgs []LocalVar, returnType Type) string {
	identifier := name + "__$TY$__"
	for _, arg := range formalArgs {
		identifier += typeIdentifierName(arg.Typ) + "$"
	}
	return identifier + typeIdentifierName(returnType)
}

func typeIdentifierName(typ Type) string {
	switch t := typ.(type) {
	case Int:
		return "$int$"
	case Bool:
		return "$bool$"
	case TypedRef:
		return t.Pred
	case DomainType:
		return t.Domain
	default:
		panic(fmt.Sprintf("unknown type %T", typ))
	}
}
