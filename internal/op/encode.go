package op

import "fmt"

// Opcode is the tag word of an encoded instruction.
type Opcode int

// Zero is never a valid opcode so that an unwritten word fails to decode.
const (
	OpInvalid Opcode = iota
	OpPutStructure
	OpSetVariable
	OpSetValue
	OpGetStructure
	OpUnifyVariable
	OpUnifyValue
)

// opcodeInfo provides metadata about each opcode for decoding and listing.
type opcodeInfo struct {
	name     string
	operands int
}

var opcodeInfoTable = map[Opcode]opcodeInfo{
	OpPutStructure:  {"put_structure", 3},
	OpSetVariable:   {"set_variable", 1},
	OpSetValue:      {"set_value", 1},
	OpGetStructure:  {"get_structure", 3},
	OpUnifyVariable: {"unify_variable", 1},
	OpUnifyValue:    {"unify_value", 1},
}

// String returns the assembler mnemonic for o.
func (o Opcode) String() string {
	if info, ok := opcodeInfoTable[o]; ok {
		return info.name
	}
	return fmt.Sprintf("Opcode(%d)", int(o))
}

// Valid reports whether o names a known instruction.
func (o Opcode) Valid() bool {
	_, ok := opcodeInfoTable[o]
	return ok
}

// DecodeError reports a malformed instruction stream.
type DecodeError struct {
	PC      int
	Message string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode at %d: %s", e.PC, e.Message)
}

// Encode appends the word form of o to dst and returns the extended slice.
func Encode(dst []int, o Operation) []int {
	switch o := o.(type) {
	case PutStructure:
		return append(dst, int(OpPutStructure), o.Functor, o.Arity, o.Register)
	case GetStructure:
		return append(dst, int(OpGetStructure), o.Functor, o.Arity, o.Register)
	case SetVariable:
		return append(dst, int(OpSetVariable), o.Register)
	case SetValue:
		return append(dst, int(OpSetValue), o.Register)
	case UnifyVariable:
		return append(dst, int(OpUnifyVariable), o.Register)
	case UnifyValue:
		return append(dst, int(OpUnifyValue), o.Register)
	default:
		panic(fmt.Sprintf("op: unknown operation %T", o))
	}
}

// Decode reads the instruction starting at words[pc].
func Decode(words []int, pc int) (Operation, error) {
	if pc < 0 || pc >= len(words) {
		return nil, &DecodeError{PC: pc, Message: fmt.Sprintf("pc out of range (len %d)", len(words))}
	}
	code := Opcode(words[pc])
	info, ok := opcodeInfoTable[code]
	if !ok {
		return nil, &DecodeError{PC: pc, Message: fmt.Sprintf("unknown opcode %d", words[pc])}
	}
	if pc+info.operands >= len(words) {
		return nil, &DecodeError{PC: pc, Message: fmt.Sprintf("truncated %s", info.name)}
	}
	args := words[pc+1 : pc+1+info.operands]

	switch code {
	case OpPutStructure:
		return PutStructure{Functor: args[0], Arity: args[1], Register: args[2]}, nil
	case OpGetStructure:
		return GetStructure{Functor: args[0], Arity: args[1], Register: args[2]}, nil
	case OpSetVariable:
		return SetVariable{Register: args[0]}, nil
	case OpSetValue:
		return SetValue{Register: args[0]}, nil
	case OpUnifyVariable:
		return UnifyVariable{Register: args[0]}, nil
	default:
		return UnifyValue{Register: args[0]}, nil
	}
}

// Namer resolves functor identifiers to display names.
type Namer interface {
	Name(id int) (string, bool)
}

// Format renders o like String but with functor names from names when they
// are known. A nil Namer prints numeric identifiers.
func Format(o Operation, names Namer) string {
	switch o := o.(type) {
	case PutStructure:
		return fmt.Sprintf("%s %s/%d, X%d", OpPutStructure, functorName(o.Functor, names), o.Arity, o.Register)
	case GetStructure:
		return fmt.Sprintf("%s %s/%d, X%d", OpGetStructure, functorName(o.Functor, names), o.Arity, o.Register)
	default:
		return fmt.Sprintf("%s X%d", o.Opcode(), Register(o))
	}
}

func functorName(id int, names Namer) string {
	if names != nil {
		if name, ok := names.Name(id); ok {
			return name
		}
	}
	return fmt.Sprintf("%d", id)
}

func (o PutStructure) String() string  { return Format(o, nil) }
func (o SetVariable) String() string   { return Format(o, nil) }
func (o SetValue) String() string      { return Format(o, nil) }
func (o GetStructure) String() string  { return Format(o, nil) }
func (o UnifyVariable) String() string { return Format(o, nil) }
func (o UnifyValue) String() string    { return Format(o, nil) }
