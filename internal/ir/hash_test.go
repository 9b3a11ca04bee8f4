package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentHash_DomainSeparation(t *testing.T) {
	data := []byte("payload")

	a := ContentHash(DomainProgram, data)
	b := ContentHash(DomainTerm, data)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 64)
	assert.Equal(t, a, ContentHash(DomainProgram, data))
}

func TestTermHash_Stable(t *testing.T) {
	h1, err := TermHash(NewCompound("f", V("X")))
	require.NoError(t, err)
	h2 := MustTermHash(NewCompound("f", V("X")))
	assert.Equal(t, h1, h2)

	assert.NotEqual(t, h1, MustTermHash(NewCompound("f", V("Y"))))
	// NFC normalization makes equivalent spellings hash alike
	assert.Equal(t, MustTermHash(Atom("caf\u00e9")), MustTermHash(Atom("cafe\u0301")))
}

func TestTermHash_Error(t *testing.T) {
	_, err := TermHash(nil)
	require.Error(t, err)
	assert.Panics(t, func() { MustTermHash(nil) })
}

func TestBuilder(t *testing.T) {
	syms := NewSymbols()
	f := syms.Intern("f")
	a := syms.Intern("a")

	b := NewBuilder(syms)
	term := b.Structure(f, []Term{b.Variable(4), b.Structure(a, nil)})
	assert.Equal(t, "f(_G4, a)", term.String())

	unnamed := NewBuilder(nil).Structure(9, nil)
	assert.Equal(t, "#9", unnamed.String())
}
