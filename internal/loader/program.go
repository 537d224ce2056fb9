package loader

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"

	"github.com/LDY1998/prusti-dev/internal/vir"
)

// CompileProgram parses a CUE value into a verification program.
// The value should be the program struct itself.
func CompileProgram(v cue.Value) (*vir.Program, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	name, err := requiredString(v, "name")
	if err != nil {
		return nil, err
	}
	p := &vir.Program{Name: name}

	if p.Domains, err = parseList(v, "domains", parseDomain); err != nil {
		return nil, err
	}
	if p.Fields, err = parseList(v, "fields", parseField); err != nil {
		return nil, err
	}
	if p.BuiltinMethods, err = parseList(v, "builtin_methods", parseBodylessMethod); err != nil {
		return nil, err
	}
	if p.Methods, err = parseList(v, "methods", parseMethod); err != nil {
		return nil, err
	}
	if p.Functions, err = parseList(v, "functions", parseFunction); err != nil {
		return nil, err
	}
	if p.Predicates, err = parseList(v, "predicates", parsePredicate); err != nil {
		return nil, err
	}
	return p, nil
}

// parseList parses an optional list field. A missing field yields nil.
func parseList[T any](v cue.Value, field string, parse func(cue.Value) (T, error)) ([]T, error) {
	listVal := v.LookupPath(cue.ParsePath(field))
	if !listVal.Exists() {
		return nil, nil
	}
	iter, err := listVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []T
	for iter.Next() {
		elem, err := parse(iter.Value())
		if err != nil {
			return nil, err
		}
		out = append(out, elem)
	}
	return out, nil
}

func requiredString(v cue.Value, field string) (string, error) {
	fieldVal := v.LookupPath(cue.ParsePath(field))
	if !fieldVal.Exists() {
		return "", &CompileError{Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	s, err := fieldVal.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	fieldVal := v.LookupPath(cue.ParsePath(field))
	if !fieldVal.Exists() {
		return "", nil
	}
	s, err := fieldVal.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalBool(v cue.Value, field string) (bool, error) {
	fieldVal := v.LookupPath(cue.ParsePath(field))
	if !fieldVal.Exists() {
		return false, nil
	}
	b, err := fieldVal.Bool()
	if err != nil {
		return false, formatCUEError(err)
	}
	return b, nil
}

func requiredInt(v cue.Value, field string) (int64, error) {
	fieldVal := v.LookupPath(cue.ParsePath(field))
	if !fieldVal.Exists() {
		return 0, &CompileError{Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	n, err := fieldVal.Int64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return n, nil
}

// parseType maps a type string to a VIR type. References and domains
// carry their name in parentheses: "Ref(Account)", "Domain(Seq$)".
func parseType(v cue.Value, field string) (vir.Type, error) {
	s, err := requiredString(v, field)
	if err != nil {
		return nil, err
	}
	typ, ok := typeFromString(s)
	if !ok {
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("unknown type %q", s),
			Pos:     v.Pos(),
		}
	}
	return typ, nil
}

// parseTypeVar parses one element of a domain's "type_vars" list, which
// holds bare type strings rather than named fields.
func parseTypeVar(v cue.Value) (vir.Type, error) {
	s, err := v.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	typ, ok := typeFromString(s)
	if !ok {
		return nil, &CompileError{
			Field:   "type_vars",
			Message: fmt.Sprintf("unknown type %q", s),
			Pos:     v.Pos(),
		}
	}
	return typ, nil
}

func typeFromString(s string) (vir.Type, bool) {
	switch {
	case s == "Int":
		return vir.Int{}, true
	case s == "Bool":
		return vir.Bool{}, true
	case strings.HasPrefix(s, "Ref(") && strings.HasSuffix(s, ")"):
		return vir.TypedRef{Pred: s[len("Ref(") : len(s)-1]}, true
	case strings.HasPrefix(s, "Domain(") && strings.HasSuffix(s, ")"):
		return vir.DomainType{Domain: s[len("Domain(") : len(s)-1]}, true
	default:
		return nil, false
	}
}

func parsePerm(v cue.Value, field string) (vir.PermAmount, error) {
	s, err := requiredString(v, field)
	if err != nil {
		return 0, err
	}
	switch s {
	case "read":
		return vir.Read, nil
	case "write":
		return vir.Write, nil
	case "write-read":
		return vir.Remaining, nil
	default:
		return 0, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("unknown permission amount %q", s),
			Pos:     v.Pos(),
		}
	}
}

func parseLocalVar(v cue.Value) (vir.LocalVar, error) {
	name, err := requiredString(v, "name")
	if err != nil {
		return vir.LocalVar{}, err
	}
	typ, err := parseType(v, "type")
	if err != nil {
		return vir.LocalVar{}, err
	}
	return vir.NewLocalVar(name, typ), nil
}

func parseField(v cue.Value) (vir.Field, error) {
	name, err := requiredString(v, "name")
	if err != nil {
		return vir.Field{}, err
	}
	typ, err := parseType(v, "type")
	if err != nil {
		return vir.Field{}, err
	}
	return vir.NewField(name, typ), nil
}

// parsePosition parses the optional "pos" field. Absent means the
// default position.
func parsePosition(v cue.Value) (vir.Position, error) {
	posVal := v.LookupPath(cue.ParsePath("pos"))
	if !posVal.Exists() {
		return vir.Position{}, nil
	}
	line, err := requiredInt(posVal, "line")
	if err != nil {
		return vir.Position{}, err
	}
	column, err := requiredInt(posVal, "column")
	if err != nil {
		return vir.Position{}, err
	}
	id, err := requiredInt(posVal, "id")
	if err != nil {
		return vir.Position{}, err
	}
	return vir.NewPosition(int32(line), int32(column), uint64(id)), nil
}

func parseDomain(v cue.Value) (vir.Domain, error) {
	name, err := requiredString(v, "name")
	if err != nil {
		return vir.Domain{}, err
	}
	functions, err := parseList(v, "functions", parseDomainFunc)
	if err != nil {
		return vir.Domain{}, err
	}
	axioms, err := parseList(v, "axioms", parseDomainAxiom)
	if err != nil {
		return vir.Domain{}, err
	}
	typeVars, err := parseList(v, "type_vars", parseTypeVar)
	if err != nil {
		return vir.Domain{}, err
	}
	return vir.Domain{
		Name:      name,
		Functions: functions,
		Axioms:    axioms,
		TypeVars:  typeVars,
	}, nil
}

func parseDomainFunc(v cue.Value) (vir.DomainFunc, error) {
	name, err := requiredString(v, "name")
	if err != nil {
		return vir.DomainFunc{}, err
	}
	args, err := parseList(v, "args", parseLocalVar)
	if err != nil {
		return vir.DomainFunc{}, err
	}
	ret, err := parseType(v, "return")
	if err != nil {
		return vir.DomainFunc{}, err
	}
	unique, err := optionalBool(v, "unique")
	if err != nil {
		return vir.DomainFunc{}, err
	}
	domain, err := requiredString(v, "domain")
	if err != nil {
		return vir.DomainFunc{}, err
	}
	return vir.DomainFunc{
		Name:       name,
		FormalArgs: args,
		ReturnType: ret,
		Unique:     unique,
		DomainName: domain,
	}, nil
}

func parseDomainAxiom(v cue.Value) (vir.DomainAxiom, error) {
	name, err := requiredString(v, "name")
	if err != nil {
		return vir.DomainAxiom{}, err
	}
	expr, err := parseRequiredExpr(v, "expr")
	if err != nil {
		return vir.DomainAxiom{}, err
	}
	domain, err := requiredString(v, "domain")
	if err != nil {
		return vir.DomainAxiom{}, err
	}
	return vir.DomainAxiom{Name: name, Expr: expr, DomainName: domain}, nil
}

func parseFunction(v cue.Value) (vir.Function, error) {
	name, err := requiredString(v, "name")
	if err != nil {
		return vir.Function{}, err
	}
	args, err := parseList(v, "args", parseLocalVar)
	if err != nil {
		return vir.Function{}, err
	}
	ret, err := parseType(v, "return")
	if err != nil {
		return vir.Function{}, err
	}
	pres, err := parseList(v, "pres", parseExpr)
	if err != nil {
		return vir.Function{}, err
	}
	posts, err := parseList(v, "posts", parseExpr)
	if err != nil {
		return vir.Function{}, err
	}
	body, err := parseOptionalExpr(v, "body")
	if err != nil {
		return vir.Function{}, err
	}
	return vir.Function{
		Name:       name,
		FormalArgs: args,
		ReturnType: ret,
		Pres:       pres,
		Posts:      posts,
		Body:       body,
	}, nil
}

func parsePredicate(v cue.Value) (vir.Predicate, error) {
	kind, err := requiredString(v, "kind")
	if err != nil {
		return nil, err
	}
	name, err := requiredString(v, "name")
	if err != nil {
		return nil, err
	}
	thisVal := v.LookupPath(cue.ParsePath("this"))
	if !thisVal.Exists() {
		return nil, &CompileError{Field: "this", Message: "this is required", Pos: v.Pos()}
	}
	this, err := parseLocalVar(thisVal)
	if err != nil {
		return nil, err
	}

	switch kind {
	case "struct":
		body, err := parseOptionalExpr(v, "body")
		if err != nil {
			return nil, err
		}
		return vir.StructPredicate{Name: name, This: this, Body: body}, nil
	case "enum":
		discVal := v.LookupPath(cue.ParsePath("discriminant"))
		if !discVal.Exists() {
			return nil, &CompileError{Field: "discriminant", Message: "discriminant is required", Pos: v.Pos()}
		}
		disc, err := parseField(discVal)
		if err != nil {
			return nil, err
		}
		bounds, err := parseRequiredExpr(v, "bounds")
		if err != nil {
			return nil, err
		}
		variants, err := parseList(v, "variants", parsePredicateVariant)
		if err != nil {
			return nil, err
		}
		return vir.EnumPredicate{
			Name:               name,
			This:               this,
			DiscriminantField:  disc,
			DiscriminantBounds: bounds,
			Variants:           variants,
		}, nil
	case "bodyless":
		return vir.BodylessPredicate{Name: name, This: this}, nil
	default:
		return nil, &CompileError{
			Field:   "kind",
			Message: fmt.Sprintf("unknown predicate kind %q", kind),
			Pos:     v.Pos(),
		}
	}
}

func parsePredicateVariant(v cue.Value) (vir.PredicateVariant, error) {
	guard, err := parseRequiredExpr(v, "guard")
	if err != nil {
		return vir.PredicateVariant{}, err
	}
	name, err := requiredString(v, "name")
	if err != nil {
		return vir.PredicateVariant{}, err
	}
	predVal := v.LookupPath(cue.ParsePath("predicate"))
	if !predVal.Exists() {
		return vir.PredicateVariant{}, &CompileError{Field: "predicate", Message: "predicate is required", Pos: v.Pos()}
	}
	pred, err := parsePredicate(predVal)
	if err != nil {
		return vir.PredicateVariant{}, err
	}
	structPred, ok := pred.(vir.StructPredicate)
	if !ok {
		return vir.PredicateVariant{}, &CompileError{
			Field:   "predicate",
			Message: "variant predicate must be a struct predicate",
			Pos:     predVal.Pos(),
		}
	}
	return vir.PredicateVariant{Guard: guard, Name: name, Predicate: structPred}, nil
}

func parseMethod(v cue.Value) (vir.Method, error) {
	name, err := requiredString(v, "name")
	if err != nil {
		return vir.Method{}, err
	}
	args, err := parseList(v, "args", parseLocalVar)
	if err != nil {
		return vir.Method{}, err
	}
	returns, err := parseList(v, "returns", parseLocalVar)
	if err != nil {
		return vir.Method{}, err
	}
	pres, err := parseList(v, "pres", parseExpr)
	if err != nil {
		return vir.Method{}, err
	}
	posts, err := parseList(v, "posts", parseExpr)
	if err != nil {
		return vir.Method{}, err
	}
	locals, err := parseList(v, "locals", parseLocalVar)
	if err != nil {
		return vir.Method{}, err
	}
	body, err := parseList(v, "body", parseStmt)
	if err != nil {
		return vir.Method{}, err
	}
	return vir.Method{
		Name:          name,
		FormalArgs:    args,
		FormalReturns: returns,
		Pres:          pres,
		Posts:         posts,
		Locals:        locals,
		Body:          body,
	}, nil
}

func parseBodylessMethod(v cue.Value) (vir.BodylessMethod, error) {
	name, err := requiredString(v, "name")
	if err != nil {
		return vir.BodylessMethod{}, err
	}
	args, err := parseList(v, "args", parseLocalVar)
	if err != nil {
		return vir.BodylessMethod{}, err
	}
	returns, err := parseList(v, "returns", parseLocalVar)
	if err != nil {
		return vir.BodylessMethod{}, err
	}
	return vir.BodylessMethod{Name: name, FormalArgs: args, FormalReturns: returns}, nil
}
