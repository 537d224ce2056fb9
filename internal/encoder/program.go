package encoder

import (
	"fmt"
	"log/slog"

	"github.com/LDY1998/prusti-dev/internal/viper"
	"github.com/LDY1998/prusti-dev/internal/vir"
)

// Program encodes a whole VIR program. Regular methods come before builtin
// ones; with VerifyOnlyPreamble set, all methods are dropped and only the
// declaration preamble survives. The global read$ function is always
// appended after the user-declared functions.
func (e *Encoder) Program(p *vir.Program) *viper.Program {
	domains := make([]*viper.DomainDecl, len(p.Domains))
	for i, d := range p.Domains {
		domains[i] = e.domain(d)
	}
	fields := make([]*viper.Field, len(p.Fields))
	for i, f := range p.Fields {
		fields[i] = e.Field(f)
	}

	methods := make([]*viper.MethodDecl, 0, len(p.Methods)+len(p.BuiltinMethods))
	for _, m := range p.Methods {
		methods = append(methods, e.method(m))
	}
	for _, m := range p.BuiltinMethods {
		methods = append(methods, e.bodylessMethod(m))
	}
	if e.cfg.VerifyOnlyPreamble {
		methods = nil
	}

	functions := make([]*viper.FunctionDecl, 0, len(p.Functions)+1)
	for _, fn := range p.Functions {
		functions = append(functions, e.function(fn))
	}
	predicates := make([]*viper.PredicateDecl, len(p.Predicates))
	for i, pred := range p.Predicates {
		predicates[i] = e.predicate(pred)
	}

	slog.Info("encoded program",
		"program", p.Name,
		"domains", len(domains),
		"fields", len(fields),
		"functions", len(functions),
		"predicates", len(predicates),
		"methods", len(methods),
	)

	functions = append(functions, e.readFunction())

	return e.ast.Program(domains, fields, functions, predicates, methods)
}

// readFunction declares read$, the abstract nullary function standing for
// the symbolic read permission amount, bounded strictly between none and
// write.
func (e *Encoder) readFunction() *viper.FunctionDecl {
	result := e.ast.ResultWithPos(e.ast.PermType(), e.ast.NoPosition())
	return e.ast.Function(
		ReadFuncName,
		nil,
		e.ast.PermType(),
		nil,
		[]viper.Expr{
			e.ast.LtCmp(e.ast.NoPerm(), result),
			e.ast.LtCmp(result, e.ast.FullPerm()),
		},
		e.ast.NoPosition(),
		nil,
	)
}

func (e *Encoder) domain(d vir.Domain) *viper.DomainDecl {
	functions := make([]*viper.DomainFuncDecl, len(d.Functions))
	for i, fn := range d.Functions {
		functions[i] = e.domainFunc(fn)
	}
	axioms := make([]*viper.AxiomDecl, len(d.Axioms))
	for i, ax := range d.Axioms {
		axioms[i] = e.ast.NamedDomainAxiom(ax.Name, e.Expr(ax.Expr), ax.DomainName)
	}
	typeVars := make([]viper.Type, len(d.TypeVars))
	for i, tv := range d.TypeVars {
		typeVars[i] = e.Type(tv)
	}
	return e.ast.Domain(d.Name, functions, axioms, typeVars)
}

func (e *Encoder) function(fn vir.Function) *viper.FunctionDecl {
	var body viper.Expr
	if fn.Body != nil {
		body = e.Expr(fn.Body)
	}
	return e.ast.Function(
		fn.Identifier(),
		e.localVarDecls(fn.FormalArgs),
		e.Type(fn.ReturnType),
		e.exprs(fn.Pres),
		e.exprs(fn.Posts),
		e.ast.NoPosition(),
		body,
	)
}

func (e *Encoder) predicate(p vir.Predicate) *viper.PredicateDecl {
	switch pred := p.(type) {
	case vir.StructPredicate:
		var body viper.Expr
		if pred.Body != nil {
			body = e.Expr(pred.Body)
		}
		return e.ast.Predicate(pred.Name, []*viper.LocalVarDecl{e.LocalVarDecl(pred.This)}, body)
	case vir.EnumPredicate:
		return e.ast.Predicate(
			pred.Name,
			[]*viper.LocalVarDecl{e.LocalVarDecl(pred.This)},
			e.Expr(pred.Body()),
		)
	case vir.BodylessPredicate:
		return e.ast.Predicate(pred.Name, []*viper.LocalVarDecl{e.LocalVarDecl(pred.This)}, nil)
	default:
		panic(fmt.Sprintf("unknown predicate %T", p))
	}
}

func (e *Encoder) method(m vir.Method) *viper.MethodDecl {
	body := e.ast.Seqn(e.stmts(m.Body), e.localVarDecls(m.Locals))
	return e.ast.Method(
		m.Name,
		e.localVarDecls(m.FormalArgs),
		e.localVarDecls(m.FormalReturns),
		e.exprs(m.Pres),
		e.exprs(m.Posts),
		body,
	)
}

func (e *Encoder) bodylessMethod(m vir.BodylessMethod) *viper.MethodDecl {
	return e.ast.Method(
		m.Name,
		e.localVarDecls(m.FormalArgs),
		e.localVarDecls(m.FormalReturns),
		nil,
		nil,
		nil,
	)
}
