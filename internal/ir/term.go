package ir

import "strings"

// Term is a logic term: a variable or a compound structure.
//
// This is a sealed interface - only Var and Compound implement it.
type Term interface {
	String() string
	term() // Marker method - seals interface to this package
}

// Var is a named logic variable. Two Vars with the same Name inside one term
// denote the same variable.
type Var struct {
	Name string
}

func (Var) term() {}

func (v Var) String() string {
	return v.Name
}

// Compound is a functor applied to zero or more argument terms.
// A Compound with no arguments is an atom.
type Compound struct {
	Functor string
	Args    []Term
}

func (Compound) term() {}

// String renders the term as f(a, X).
func (c Compound) String() string {
	var b strings.Builder
	c.write(&b)
	return b.String()
}

func (c Compound) write(b *strings.Builder) {
	b.WriteString(c.Functor)
	if len(c.Args) == 0 {
		return
	}
	b.WriteByte('(')
	for i, arg := range c.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		if sub, ok := arg.(Compound); ok {
			sub.write(b)
		} else {
			b.WriteString(arg.String())
		}
	}
	b.WriteByte(')')
}

// Arity returns the number of arguments.
func (c Compound) Arity() int {
	return len(c.Args)
}

// Atom creates a compound with no arguments.
func Atom(name string) Compound {
	return Compound{Functor: name}
}

// NewCompound creates a compound term f(args...).
func NewCompound(functor string, args ...Term) Compound {
	return Compound{Functor: functor, Args: args}
}

// V is a shorthand for Var{Name: name}.
func V(name string) Var {
	return Var{Name: name}
}

// Vars returns the distinct variables of t in first-occurrence order
// (depth-first, left to right).
func Vars(t Term) []Var {
	var (
		out  []Var
		seen = make(map[string]bool)
	)
	var walk func(Term)
	walk = func(t Term) {
		switch t := t.(type) {
		case Var:
			if !seen[t.Name] {
				seen[t.Name] = true
				out = append(out, t)
			}
		case Compound:
			for _, arg := range t.Args {
				walk(arg)
			}
		}
	}
	walk(t)
	return out
}

// Equal reports whether a and b are structurally identical.
func Equal(a, b Term) bool {
	switch a := a.(type) {
	case Var:
		bv, ok := b.(Var)
		return ok && a.Name == bv.Name
	case Compound:
		bc, ok := b.(Compound)
		if !ok || a.Functor != bc.Functor || len(a.Args) != len(bc.Args) {
			return false
		}
		for i := range a.Args {
			if !Equal(a.Args[i], bc.Args[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
