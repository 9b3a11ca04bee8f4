package engine

// TermBuilder reconstructs a caller-chosen term representation from machine
// cells. Variable receives the heap address of an unbound cell; Structure
// receives a functor id and its already-built arguments.
type TermBuilder[T any] interface {
	Variable(id int) T
	Structure(functor int, args []T) T
}

// BuildTerm dereferences c and rebuilds the term it denotes with b.
//
// It reports false, with the zero T, when the cell is unresolved: never
// written, pointing outside the heap, not pointing at a well-formed
// structure, or part of a cyclic term.
func BuildTerm[T any](m *Machine, c Cell, b TermBuilder[T]) (T, bool) {
	return buildTerm(m, c, b, make(map[int]bool))
}

func buildTerm[T any](m *Machine, c Cell, b TermBuilder[T], visiting map[int]bool) (T, bool) {
	var zero T

	d := m.deref(c)
	switch d.Tag {
	case TagRef:
		return b.Variable(d.Value), true

	case TagStr:
		if visiting[d.Value] {
			return zero, false
		}
		f, ok := m.Cell(d.Value)
		if !ok || f.Tag != TagFun || f.Arity < 0 || d.Value+f.Arity >= m.HeapSize() {
			return zero, false
		}

		visiting[d.Value] = true
		defer delete(visiting, d.Value)

		args := make([]T, f.Arity)
		for i := range args {
			arg, ok := buildTerm(m, ref(d.Value+1+i), b, visiting)
			if !ok {
				return zero, false
			}
			args[i] = arg
		}
		return b.Structure(f.Value, args), true

	default:
		return zero, false
	}
}
