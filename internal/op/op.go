package op

import "fmt"

// Operation is a single machine instruction.
//
// This is a sealed interface - only types in this package implement it.
type Operation interface {
	// Opcode returns the instruction tag written as the first encoded word.
	Opcode() Opcode

	fmt.Stringer

	operation() // Marker method - seals interface to this package
}

// PutStructure starts a new structure f/n on the heap and stores a pointer to
// it in Register.
type PutStructure struct {
	Functor  int
	Arity    int
	Register int
}

// SetVariable pushes a fresh unbound cell and records it in Register.
// It marks the first occurrence of a variable.
type SetVariable struct {
	Register int
}

// SetValue pushes the cell already held in Register.
type SetValue struct {
	Register int
}

// GetStructure matches the term in Register against f/n, building the
// structure when Register holds an unbound variable.
type GetStructure struct {
	Functor  int
	Arity    int
	Register int
}

// UnifyVariable binds Register to the next structure argument (read mode) or
// to a fresh cell pushed on the heap (write mode).
type UnifyVariable struct {
	Register int
}

// UnifyValue unifies Register with the next structure argument (read mode) or
// pushes it on the heap (write mode).
type UnifyValue struct {
	Register int
}

func (PutStructure) operation()  {}
func (SetVariable) operation()   {}
func (SetValue) operation()      {}
func (GetStructure) operation()  {}
func (UnifyVariable) operation() {}
func (UnifyValue) operation()    {}

func (PutStructure) Opcode() Opcode  { return OpPutStructure }
func (SetVariable) Opcode() Opcode   { return OpSetVariable }
func (SetValue) Opcode() Opcode      { return OpSetValue }
func (GetStructure) Opcode() Opcode  { return OpGetStructure }
func (UnifyVariable) Opcode() Opcode { return OpUnifyVariable }
func (UnifyValue) Opcode() Opcode    { return OpUnifyValue }

// Size returns the number of machine words o occupies once encoded: the
// opcode plus one word per operand.
func Size(o Operation) int {
	switch o.(type) {
	case PutStructure, GetStructure:
		return 4
	case SetVariable, SetValue, UnifyVariable, UnifyValue:
		return 2
	default:
		panic(fmt.Sprintf("op: unknown operation %T", o))
	}
}

// Advance returns how many words the program counter moves after o executes.
// None of the current instructions transfer control, so this is the encoded
// width for every one of them.
func Advance(o Operation) int {
	switch o.(type) {
	case PutStructure, SetVariable, SetValue,
		GetStructure, UnifyVariable, UnifyValue:
		return Size(o)
	default:
		panic(fmt.Sprintf("op: unknown operation %T", o))
	}
}

// Register returns the register operand of o.
func Register(o Operation) int {
	switch o := o.(type) {
	case PutStructure:
		return o.Register
	case SetVariable:
		return o.Register
	case SetValue:
		return o.Register
	case GetStructure:
		return o.Register
	case UnifyVariable:
		return o.Register
	case UnifyValue:
		return o.Register
	default:
		panic(fmt.Sprintf("op: unknown operation %T", o))
	}
}

// Defines reports whether o gives its register a value rather than reading
// the value already there.
func Defines(o Operation) bool {
	switch o.(type) {
	case PutStructure, SetVariable, UnifyVariable:
		return true
	default:
		return false
	}
}
