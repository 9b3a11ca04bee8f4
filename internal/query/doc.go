// Package query compiles logic terms into WAM query programs.
//
// A Builder hands out one register per subterm, bottom up: a term's
// arguments must be built before the term itself. Each register is written by
// exactly one put_structure or set_variable instruction; every later use of
// the same subterm is a set_value.
//
//	b := query.NewBuilder()
//	x := b.Variable()          // set_variable X1
//	fx := b.Structure(f, x)    // put_structure f/1, X2; set_value X1
//	q := b.Build(fx)
//
// A built Query is immutable. Executing it against an engine.Machine yields a
// Result through which the registers of the query can be read back as terms.
package query
