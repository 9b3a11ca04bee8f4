package engine

import "fmt"

// Tag identifies the kind of a Cell.
type Tag uint8

const (
	// TagEmpty marks a cell that was never written.
	TagEmpty Tag = iota

	// TagRef is a reference to a heap address; self-reference means unbound.
	TagRef

	// TagStr points at a functor cell.
	TagStr

	// TagFun is a functor cell: Value holds the functor id, Arity the arity.
	TagFun
)

// String returns a human-readable name for Tag.
func (t Tag) String() string {
	switch t {
	case TagEmpty:
		return "EMPTY"
	case TagRef:
		return "REF"
	case TagStr:
		return "STR"
	case TagFun:
		return "FUN"
	default:
		return fmt.Sprintf("Tag(%d)", t)
	}
}

// Cell is a runtime value: a heap word or a register.
type Cell struct {
	Tag   Tag
	Value int
	Arity int
}

// String renders the cell as REF 3, STR 4 or FUN 7/2.
func (c Cell) String() string {
	switch c.Tag {
	case TagFun:
		return fmt.Sprintf("FUN %d/%d", c.Value, c.Arity)
	case TagEmpty:
		return "EMPTY"
	default:
		return fmt.Sprintf("%s %d", c.Tag, c.Value)
	}
}

// IsEmpty reports whether the cell was never written.
func (c Cell) IsEmpty() bool {
	return c.Tag == TagEmpty
}

func ref(addr int) Cell { return Cell{Tag: TagRef, Value: addr} }

func str(addr int) Cell { return Cell{Tag: TagStr, Value: addr} }

func fun(functor, arity int) Cell { return Cell{Tag: TagFun, Value: functor, Arity: arity} }
