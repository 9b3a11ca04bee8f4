package ir

import "fmt"

// Builder reconstructs Terms from machine cells. It satisfies the engine's
// TermBuilder[Term] contract.
//
// Unbound cells become variables named _G<address>; functor ids are mapped
// back through Symbols, falling back to "#<id>" for unknown ids.
type Builder struct {
	Symbols *Symbols
}

// NewBuilder creates a Builder resolving names through syms (may be nil).
func NewBuilder(syms *Symbols) *Builder {
	return &Builder{Symbols: syms}
}

// Variable returns the variable standing for the unbound cell at id.
func (b *Builder) Variable(id int) Term {
	return Var{Name: fmt.Sprintf("_G%d", id)}
}

// Structure returns functor(args...).
func (b *Builder) Structure(functor int, args []Term) Term {
	name := fmt.Sprintf("#%d", functor)
	if b.Symbols != nil {
		if n, ok := b.Symbols.Name(functor); ok {
			name = n
		}
	}
	if len(args) == 0 {
		return Atom(name)
	}
	return Compound{Functor: name, Args: args}
}
