package compiler

import (
	"github.com/roach88/warren/internal/ir"
	"github.com/roach88/warren/internal/query"
)

// Bindings rebuilds the term bound to every named variable of a query.
// Variables whose term cannot be rebuilt, such as a cyclic binding, are left
// out of the returned map.
func Bindings(r *query.Result, vars map[string]query.Ref, syms *ir.Symbols) map[string]ir.Term {
	out := make(map[string]ir.Term, len(vars))
	b := ir.NewBuilder(syms)
	for name, ref := range vars {
		if t, ok := query.BuildTerm[ir.Term](r, ref, b); ok {
			out[name] = t
		}
	}
	return out
}
