package program

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/warren/internal/op"
)

func sampleProgram() *Program {
	b := NewBuilder()
	b.SetVariable(1)
	b.PutStructure(7, 1, 2)
	b.SetValue(1)
	return b.Build()
}

func TestBuilder_EmitOffsets(t *testing.T) {
	b := NewBuilder()

	assert.Equal(t, 0, b.SetVariable(1))
	assert.Equal(t, 2, b.PutStructure(7, 1, 2))
	assert.Equal(t, 6, b.SetValue(1))
	assert.Equal(t, 8, b.GetStructure(7, 1, 0))
	assert.Equal(t, 12, b.UnifyVariable(3))
	assert.Equal(t, 14, b.UnifyValue(3))
	assert.Equal(t, 16, b.Len())
}

func TestProgram_Operations(t *testing.T) {
	p := sampleProgram()

	assert.Equal(t, []op.Operation{
		op.SetVariable{Register: 1},
		op.PutStructure{Functor: 7, Arity: 1, Register: 2},
		op.SetValue{Register: 1},
	}, p.Operations())
	assert.Equal(t, 3, p.Count())
	assert.Equal(t, 8, p.Len())
	assert.Equal(t, 3, p.Registers())
}

func TestProgram_Fetch(t *testing.T) {
	p := sampleProgram()

	o, err := p.Fetch(2)
	require.NoError(t, err)
	assert.Equal(t, op.PutStructure{Functor: 7, Arity: 1, Register: 2}, o)

	_, err = p.Fetch(p.Len())
	require.Error(t, err)
}

func TestProgram_Assembly(t *testing.T) {
	p := sampleProgram()

	want := "0000  set_variable X1\n" +
		"0002  put_structure 7/1, X2\n" +
		"0006  set_value X1\n"
	assert.Equal(t, want, p.Assembly())
}

type names map[int]string

func (n names) Name(id int) (string, bool) {
	s, ok := n[id]
	return s, ok
}

func TestProgram_AssemblyWithNames(t *testing.T) {
	p := sampleProgram()

	listing := p.AssemblyWith(names{7: "f"})
	assert.Contains(t, listing, "0002  put_structure f/1, X2")
}

func TestProgram_Immutable(t *testing.T) {
	b := NewBuilder()
	b.SetVariable(1)
	p := b.Build()

	b.SetValue(1)
	assert.Equal(t, 1, p.Count())
	assert.Equal(t, 2, p.Len())

	words := p.Words()
	words[0] = 0
	require.NoError(t, p.Validate())
}

func TestProgram_Empty(t *testing.T) {
	p := NewBuilder().Build()

	assert.Equal(t, 0, p.Len())
	assert.Equal(t, 0, p.Registers())
	assert.Empty(t, p.Operations())
	assert.Equal(t, "", p.Assembly())
	require.NoError(t, p.Validate())
}

func TestProgram_ID(t *testing.T) {
	a := sampleProgram()
	b := sampleProgram()
	assert.Equal(t, a.ID(), b.ID())
	assert.Len(t, a.ID(), 64)

	c := FromOperations(op.SetVariable{Register: 1}, op.PutStructure{Functor: 8, Arity: 1, Register: 2}, op.SetValue{Register: 1})
	assert.NotEqual(t, a.ID(), c.ID())
}

func TestProgram_Validate(t *testing.T) {
	require.NoError(t, sampleProgram().Validate())

	bad := &Program{code: []int{int(op.OpSetValue)}, count: 1, registers: 1}
	require.Error(t, bad.Validate())

	wrongCount := &Program{code: []int{int(op.OpSetValue), 1}, count: 2, registers: 2}
	err := wrongCount.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "instruction count")

	negative := &Program{code: []int{int(op.OpSetValue), -1}, count: 1, registers: 0}
	err = negative.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative register")

	negativeArity := &Program{code: []int{int(op.OpPutStructure), 1, -1, 1}, count: 1, registers: 2}
	err = negativeArity.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative arity -1")

	getArity := &Program{code: []int{int(op.OpGetStructure), 1, -3, 0}, count: 1, registers: 1}
	require.Error(t, getArity.Validate())
}

func TestFromOperations(t *testing.T) {
	p := FromOperations(op.GetStructure{Functor: 1, Arity: 2, Register: 0}, op.UnifyVariable{Register: 1}, op.UnifyValue{Register: 1})

	assert.Equal(t, 3, p.Count())
	assert.Equal(t, 2, p.Registers())
	assert.Equal(t, 8, p.Len())
}
