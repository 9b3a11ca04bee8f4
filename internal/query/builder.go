package query

import (
	"fmt"

	"github.com/roach88/warren/internal/program"
)

// session identifies the Builder that issued a Ref. Refs are only meaningful
// against the builder, and the queries and results, of their own session.
type session struct {
	built bool
}

// Ref names the register holding a subterm of a query under construction.
// The zero Ref belongs to no builder.
type Ref struct {
	reg    int
	origin *session
}

// Register returns the register number the subterm was compiled into.
func (r Ref) Register() int {
	return r.reg
}

// String returns the register in assembly notation, e.g. X3.
func (r Ref) String() string {
	return fmt.Sprintf("X%d", r.reg)
}

// Builder emits a query program one subterm at a time.
//
// Registers are allocated from 1 upwards and never reused; register 0 is left
// for the top-level term. A Builder is not safe for concurrent use.
type Builder struct {
	code    *program.Builder
	next    int
	session *session
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		code:    program.NewBuilder(),
		next:    1,
		session: &session{},
	}
}

// Variable allocates a register for a fresh unbound variable.
func (b *Builder) Variable() Ref {
	b.checkOpen("Variable")
	r := b.alloc()
	b.code.SetVariable(r.reg)
	return r
}

// Structure allocates a register for functor applied to subterms. The arity
// of the structure is len(subterms); a structure with no subterms is a
// constant. Every subterm must have been issued by this builder.
func (b *Builder) Structure(functor int, subterms ...Ref) Ref {
	b.checkOpen("Structure")
	for _, s := range subterms {
		b.checkRef(s)
	}
	r := b.alloc()
	b.code.PutStructure(functor, len(subterms), r.reg)
	for _, s := range subterms {
		b.code.SetValue(s.reg)
	}
	return r
}

// Constant is Structure with no subterms.
func (b *Builder) Constant(functor int) Ref {
	return b.Structure(functor)
}

// Build finishes the program with top as the query's top-level term. The
// builder cannot be used afterwards.
func (b *Builder) Build(top Ref) *Query {
	b.checkOpen("Build")
	b.checkRef(top)
	b.session.built = true
	return &Query{
		program: b.code.Build(),
		top:     top,
	}
}

func (b *Builder) alloc() Ref {
	r := Ref{reg: b.next, origin: b.session}
	b.next++
	return r
}

func (b *Builder) checkOpen(method string) {
	if b.session.built {
		panic(fmt.Sprintf("query: %s called after Build", method))
	}
}

func (b *Builder) checkRef(r Ref) {
	if r.origin != b.session {
		panic(fmt.Sprintf("query: ref %s was not issued by this builder", r))
	}
}
