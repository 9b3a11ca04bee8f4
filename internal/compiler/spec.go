package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/warren/internal/ir"
	"github.com/roach88/warren/internal/program"
	"github.com/roach88/warren/internal/query"
)

// Spec is a program term with the queries to run against it.
type Spec struct {
	Program ir.Term
	Queries []NamedTerm
}

// NamedTerm is a query term under its declared name.
type NamedTerm struct {
	Name string
	Term ir.Term
}

// CompiledQuery is a compiled query with the registers of its variables.
type CompiledQuery struct {
	Name  string
	Term  ir.Term
	Query *query.Query
	Vars  map[string]query.Ref
}

// Compiled holds the programs of a Spec and the symbol table they share.
type Compiled struct {
	Symbols *ir.Symbols
	Fact    *program.Program
	Queries []CompiledQuery
}

// LoadSpec loads a spec from a .cue file or a directory holding one CUE
// package.
//
// The CUE value has the shape:
//
//	program: {functor: "p", args: [{var: "X"}, "a"]}
//	queries: {
//		first: {functor: "p", args: ["b", {var: "Y"}]}
//	}
func LoadSpec(path string) (*Spec, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("loading spec: %w", err)
	}

	cfg := &load.Config{Dir: path}
	args := []string{"."}
	if !info.IsDir() {
		cfg.Dir = filepath.Dir(path)
		args = []string{filepath.Base(path)}
	}

	instances := load.Instances(args, cfg)
	if len(instances) == 0 {
		return nil, fmt.Errorf("loading spec: no CUE instances in %s", path)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, formatCUEError(inst.Err)
	}

	ctx := cuecontext.New()
	v := ctx.BuildInstance(inst)
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return CompileSpec(v)
}

// CompileSpec lowers a CUE value into a Spec. The program field is required;
// queries are kept in declaration order.
func CompileSpec(v cue.Value) (*Spec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	progVal := v.LookupPath(cue.ParsePath("program"))
	if !progVal.Exists() {
		return nil, &CompileError{
			Field:   "program",
			Message: "program is required",
			Pos:     v.Pos(),
		}
	}
	prog, err := lowerTerm(progVal, "program")
	if err != nil {
		return nil, err
	}

	spec := &Spec{Program: prog}

	queriesVal := v.LookupPath(cue.ParsePath("queries"))
	if !queriesVal.Exists() {
		return spec, nil
	}
	iter, err := queriesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		name := iter.Label()
		t, err := lowerTerm(iter.Value(), "queries."+name)
		if err != nil {
			return nil, err
		}
		spec.Queries = append(spec.Queries, NamedTerm{Name: name, Term: t})
	}
	return spec, nil
}

// Compile compiles the program and every query of s against one symbol
// table.
func Compile(s *Spec) (*Compiled, error) {
	syms := ir.NewSymbols()
	fact, err := CompileFact(s.Program, syms)
	if err != nil {
		return nil, err
	}

	out := &Compiled{Symbols: syms, Fact: fact}
	for _, nq := range s.Queries {
		q, vars, err := CompileQuery(nq.Term, syms)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", nq.Name, err)
		}
		out.Queries = append(out.Queries, CompiledQuery{
			Name:  nq.Name,
			Term:  nq.Term,
			Query: q,
			Vars:  vars,
		})
	}
	return out, nil
}

// lowerTerm converts a concrete CUE value into a term. Strings and integers
// are atoms; structs are {var} or {functor, args}.
func lowerTerm(v cue.Value, field string) (ir.Term, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	switch v.Kind() {
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		if s == "" {
			return nil, &CompileError{Field: field, Message: "atom name must not be empty", Pos: v.Pos()}
		}
		return ir.Atom(s), nil

	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.Atom(strconv.FormatInt(n, 10)), nil

	case cue.FloatKind:
		return nil, &CompileError{Field: field, Message: "floats are not valid terms", Pos: v.Pos()}

	case cue.StructKind:
		return lowerStruct(v, field)

	case cue.BottomKind:
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("term must be concrete, got %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}

	default:
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("unsupported term kind: %v", v.Kind()),
			Pos:     v.Pos(),
		}
	}
}

func lowerStruct(v cue.Value, field string) (ir.Term, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var (
		varVal, functorVal, argsVal cue.Value
		hasVar, hasFunctor, hasArgs bool
	)
	for iter.Next() {
		switch label := iter.Label(); label {
		case "var":
			varVal, hasVar = iter.Value(), true
		case "functor":
			functorVal, hasFunctor = iter.Value(), true
		case "args":
			argsVal, hasArgs = iter.Value(), true
		default:
			return nil, &CompileError{
				Field:   field,
				Message: fmt.Sprintf("unknown term field %q", label),
				Pos:     iter.Value().Pos(),
			}
		}
	}

	if hasVar {
		if hasFunctor || hasArgs {
			return nil, &CompileError{Field: field, Message: "variable must not have other fields", Pos: v.Pos()}
		}
		name, err := varVal.String()
		if err != nil || name == "" {
			return nil, &CompileError{Field: field + ".var", Message: "var must be a non-empty string", Pos: varVal.Pos()}
		}
		return ir.V(name), nil
	}

	if !hasFunctor {
		return nil, &CompileError{Field: field, Message: "term must have either var or functor", Pos: v.Pos()}
	}
	functor, err := functorVal.String()
	if err != nil || functor == "" {
		return nil, &CompileError{Field: field + ".functor", Message: "functor must be a non-empty string", Pos: functorVal.Pos()}
	}
	c := ir.Compound{Functor: functor}
	if !hasArgs {
		return c, nil
	}

	list, err := argsVal.List()
	if err != nil {
		return nil, &CompileError{Field: field + ".args", Message: "args must be a list", Pos: argsVal.Pos()}
	}
	for i := 0; list.Next(); i++ {
		arg, err := lowerTerm(list.Value(), fmt.Sprintf("%s.args[%d]", field, i))
		if err != nil {
			return nil, err
		}
		c.Args = append(c.Args, arg)
	}
	return c, nil
}
