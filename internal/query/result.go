package query

import "github.com/roach88/warren/internal/engine"

// Result gives read access to the registers of one query execution.
type Result struct {
	machine *engine.Machine
	regs    []engine.Cell
	origin  *session
}

// Cell returns the register cell for ref. It reports false when ref was not
// issued by the builder of the executed query or names a register the
// execution did not produce.
func (r *Result) Cell(ref Ref) (engine.Cell, bool) {
	if ref.origin == nil || ref.origin != r.origin {
		return engine.Cell{}, false
	}
	if ref.reg < 0 || ref.reg >= len(r.regs) {
		return engine.Cell{}, false
	}
	return r.regs[ref.reg], true
}

// BuildTerm reconstructs the term held by ref using b. It reports false when
// the register lookup misses or the engine cannot resolve the cell.
func BuildTerm[T any](r *Result, ref Ref, b engine.TermBuilder[T]) (T, bool) {
	c, ok := r.Cell(ref)
	if !ok {
		var zero T
		return zero, false
	}
	return engine.BuildTerm(r.machine, c, b)
}
