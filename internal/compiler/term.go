package compiler

import (
	"fmt"

	"github.com/roach88/warren/internal/ir"
	"github.com/roach88/warren/internal/program"
	"github.com/roach88/warren/internal/query"
)

// Anonymous is the variable name that never shares a register with another
// occurrence.
const Anonymous = "_"

// CompileQuery compiles t into a query program. Arguments are compiled before
// the structure that holds them. The returned map gives the register of every
// named variable in t.
func CompileQuery(t ir.Term, syms *ir.Symbols) (*query.Query, map[string]query.Ref, error) {
	b := query.NewBuilder()
	vars := make(map[string]query.Ref)

	var walk func(t ir.Term, field string) (query.Ref, error)
	walk = func(t ir.Term, field string) (query.Ref, error) {
		switch t := t.(type) {
		case ir.Var:
			if t.Name == "" {
				return query.Ref{}, &CompileError{Field: field, Message: "variable name must not be empty"}
			}
			if t.Name == Anonymous {
				return b.Variable(), nil
			}
			if r, ok := vars[t.Name]; ok {
				return r, nil
			}
			r := b.Variable()
			vars[t.Name] = r
			return r, nil

		case ir.Compound:
			if t.Functor == "" {
				return query.Ref{}, &CompileError{Field: field, Message: "functor must not be empty"}
			}
			args := make([]query.Ref, len(t.Args))
			for i, arg := range t.Args {
				r, err := walk(arg, fmt.Sprintf("%s.args[%d]", field, i))
				if err != nil {
					return query.Ref{}, err
				}
				args[i] = r
			}
			return b.Structure(syms.Intern(t.Functor), args...), nil

		default:
			return query.Ref{}, &CompileError{Field: field, Message: fmt.Sprintf("unsupported term %T", t)}
		}
	}

	top, err := walk(t, "query")
	if err != nil {
		return nil, nil, err
	}
	return b.Build(top), vars, nil
}

// CompileFact compiles t into a program that matches the term in register 0.
//
// Registers are allocated breadth first: every argument of a structure gets
// a register when the structure is matched, and nested structures are matched
// after their parent. A variable seen for the second time is unified with its
// first register instead of getting a new one.
func CompileFact(t ir.Term, syms *ir.Symbols) (*program.Program, error) {
	root, ok := t.(ir.Compound)
	if !ok {
		return nil, &CompileError{Field: "program", Message: fmt.Sprintf("a fact must be a structure, got %s", t)}
	}

	type pending struct {
		term  ir.Compound
		reg   int
		field string
	}

	b := program.NewBuilder()
	vars := make(map[string]int)
	next := 1
	queue := []pending{{term: root, reg: 0, field: "program"}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if item.term.Functor == "" {
			return nil, &CompileError{Field: item.field, Message: "functor must not be empty"}
		}
		b.GetStructure(syms.Intern(item.term.Functor), len(item.term.Args), item.reg)

		for i, arg := range item.term.Args {
			field := fmt.Sprintf("%s.args[%d]", item.field, i)
			switch arg := arg.(type) {
			case ir.Var:
				if arg.Name == "" {
					return nil, &CompileError{Field: field, Message: "variable name must not be empty"}
				}
				if r, seen := vars[arg.Name]; seen {
					b.UnifyValue(r)
					continue
				}
				b.UnifyVariable(next)
				if arg.Name != Anonymous {
					vars[arg.Name] = next
				}
				next++

			case ir.Compound:
				b.UnifyVariable(next)
				queue = append(queue, pending{term: arg, reg: next, field: field})
				next++

			default:
				return nil, &CompileError{Field: field, Message: fmt.Sprintf("unsupported term %T", arg)}
			}
		}
	}
	return b.Build(), nil
}
