package engine

// deref follows reference chains until an unbound variable or a non-reference
// cell. Dangling addresses deref to the empty cell.
func (m *Machine) deref(c Cell) Cell {
	for c.Tag == TagRef {
		next, ok := m.Cell(c.Value)
		if !ok {
			return Cell{}
		}
		if next == c {
			return c
		}
		c = next
	}
	return c
}

// bind points the younger of two dereferenced cells at the other.
// At least one of them must be an unbound reference.
func (m *Machine) bind(a, b Cell) {
	if a.Tag == TagRef && (b.Tag != TagRef || b.Value < a.Value) {
		m.heap[a.Value] = b
		return
	}
	m.heap[b.Value] = a
}

// unify makes a and b equal, binding variables as needed.
// No occurs check is performed.
func (m *Machine) unify(a, b Cell) bool {
	pdl := [][2]Cell{{a, b}}
	for len(pdl) > 0 {
		pair := pdl[len(pdl)-1]
		pdl = pdl[:len(pdl)-1]

		d1, d2 := m.deref(pair[0]), m.deref(pair[1])
		if d1 == d2 {
			continue
		}
		if d1.IsEmpty() || d2.IsEmpty() {
			return false
		}
		if d1.Tag == TagRef || d2.Tag == TagRef {
			m.bind(d1, d2)
			continue
		}
		if d1.Tag != TagStr || d2.Tag != TagStr {
			return false
		}

		f1, ok1 := m.Cell(d1.Value)
		f2, ok2 := m.Cell(d2.Value)
		if !ok1 || !ok2 || f1.Tag != TagFun || f1 != f2 {
			return false
		}
		for i := 1; i <= f1.Arity; i++ {
			pdl = append(pdl, [2]Cell{ref(d1.Value + i), ref(d2.Value + i)})
		}
	}
	return true
}
