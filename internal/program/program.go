// Package program assembles instruction sequences into flat, addressable
// word programs for the warren machine.
package program

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/roach88/warren/internal/ir"
	"github.com/roach88/warren/internal/op"
)

// Builder accumulates instructions in emission order.
// The zero value is ready to use.
type Builder struct {
	code    []int
	count   int
	maxReg  int
	hasRegs bool
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{code: make([]int, 0, 32)}
}

// Emit appends o and returns the word offset at which it was written.
func (b *Builder) Emit(o op.Operation) int {
	offset := len(b.code)
	b.code = op.Encode(b.code, o)
	b.count++
	if r := op.Register(o); !b.hasRegs || r > b.maxReg {
		b.maxReg = r
		b.hasRegs = true
	}
	return offset
}

// PutStructure emits put_structure functor/arity, Xregister.
func (b *Builder) PutStructure(functor, arity, register int) int {
	return b.Emit(op.PutStructure{Functor: functor, Arity: arity, Register: register})
}

// SetVariable emits set_variable Xregister.
func (b *Builder) SetVariable(register int) int {
	return b.Emit(op.SetVariable{Register: register})
}

// SetValue emits set_value Xregister.
func (b *Builder) SetValue(register int) int {
	return b.Emit(op.SetValue{Register: register})
}

// GetStructure emits get_structure functor/arity, Xregister.
func (b *Builder) GetStructure(functor, arity, register int) int {
	return b.Emit(op.GetStructure{Functor: functor, Arity: arity, Register: register})
}

// UnifyVariable emits unify_variable Xregister.
func (b *Builder) UnifyVariable(register int) int {
	return b.Emit(op.UnifyVariable{Register: register})
}

// UnifyValue emits unify_value Xregister.
func (b *Builder) UnifyValue(register int) int {
	return b.Emit(op.UnifyValue{Register: register})
}

// Len returns the number of words emitted so far.
func (b *Builder) Len() int {
	return len(b.code)
}

// Build finalizes the accumulated instructions into an immutable Program.
// The Builder may keep emitting afterwards without affecting the result.
func (b *Builder) Build() *Program {
	code := make([]int, len(b.code))
	copy(code, b.code)
	regs := 0
	if b.hasRegs {
		regs = b.maxReg + 1
	}
	return &Program{code: code, count: b.count, registers: regs}
}

// Program is an immutable, flat word encoding of an instruction sequence.
// It is safe for concurrent use.
type Program struct {
	code      []int
	count     int
	registers int
}

// Len returns the program length in words.
func (p *Program) Len() int {
	return len(p.code)
}

// Count returns the number of instructions.
func (p *Program) Count() int {
	return p.count
}

// Registers returns the size of register file the program needs: one more
// than the highest register it mentions, or 0 for an empty program.
func (p *Program) Registers() int {
	return p.registers
}

// Fetch decodes the instruction at word offset pc.
func (p *Program) Fetch(pc int) (op.Operation, error) {
	return op.Decode(p.code, pc)
}

// Words returns a copy of the encoded program.
func (p *Program) Words() []int {
	out := make([]int, len(p.code))
	copy(out, p.code)
	return out
}

// Operations decodes the whole program in order.
func (p *Program) Operations() []op.Operation {
	ops := make([]op.Operation, 0, p.count)
	for pc := 0; pc < len(p.code); {
		o, err := op.Decode(p.code, pc)
		if err != nil {
			// Programs come from a Builder or a validated decode.
			panic(fmt.Sprintf("program: corrupt code: %v", err))
		}
		ops = append(ops, o)
		pc += op.Advance(o)
	}
	return ops
}

// Assembly returns a human-readable listing with numeric functor ids.
func (p *Program) Assembly() string {
	return p.AssemblyWith(nil)
}

// AssemblyWith returns a listing, one instruction per line, prefixed with
// its word offset. Functor ids are resolved through names when possible.
func (p *Program) AssemblyWith(names op.Namer) string {
	var sb strings.Builder
	pc := 0
	for _, o := range p.Operations() {
		fmt.Fprintf(&sb, "%04d  %s\n", pc, op.Format(o, names))
		pc += op.Advance(o)
	}
	return sb.String()
}

// ID returns the content-addressed identity of the program.
func (p *Program) ID() string {
	buf := make([]byte, 0, len(p.code)*binary.MaxVarintLen64)
	for _, w := range p.code {
		buf = binary.AppendVarint(buf, int64(w))
	}
	return ir.ContentHash(ir.DomainProgram, buf)
}

// Validate checks that the program decodes cleanly from start to end.
func (p *Program) Validate() error {
	count, maxReg := 0, -1
	for pc := 0; pc < len(p.code); {
		o, err := op.Decode(p.code, pc)
		if err != nil {
			return err
		}
		if a, ok := arity(o); ok && a < 0 {
			return &op.DecodeError{PC: pc, Message: fmt.Sprintf("negative arity %d", a)}
		}
		if r := op.Register(o); r < 0 {
			return &op.DecodeError{PC: pc, Message: fmt.Sprintf("negative register %d", r)}
		} else if r > maxReg {
			maxReg = r
		}
		count++
		pc += op.Advance(o)
	}
	if count != p.count {
		return fmt.Errorf("program: instruction count %d, header says %d", count, p.count)
	}
	if maxReg+1 != p.registers {
		return fmt.Errorf("program: register count %d, header says %d", maxReg+1, p.registers)
	}
	return nil
}

func arity(o op.Operation) (int, bool) {
	switch o := o.(type) {
	case op.PutStructure:
		return o.Arity, true
	case op.GetStructure:
		return o.Arity, true
	default:
		return 0, false
	}
}

// FromOperations assembles ops into a Program.
func FromOperations(ops ...op.Operation) *Program {
	b := NewBuilder()
	for _, o := range ops {
		b.Emit(o)
	}
	return b.Build()
}
