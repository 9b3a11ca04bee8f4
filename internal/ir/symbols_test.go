package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbols_InternIsStable(t *testing.T) {
	syms := NewSymbols()

	f := syms.Intern("f")
	g := syms.Intern("g")
	assert.Equal(t, 0, f)
	assert.Equal(t, 1, g)
	assert.Equal(t, f, syms.Intern("f"))
	assert.Equal(t, 2, syms.Len())
	assert.Equal(t, []string{"f", "g"}, syms.Names())
}

func TestSymbols_NFCNormalization(t *testing.T) {
	syms := NewSymbols()

	// "é" precomposed (U+00E9) and decomposed (e + U+0301)
	composed := syms.Intern("caf\u00e9")
	decomposed := syms.Intern("cafe\u0301")
	assert.Equal(t, composed, decomposed)

	id, ok := syms.Lookup("cafe\u0301")
	require.True(t, ok)
	assert.Equal(t, composed, id)
}

func TestSymbols_Name(t *testing.T) {
	syms := NewSymbols()
	id := syms.Intern("håkon")

	name, ok := syms.Name(id)
	require.True(t, ok)
	assert.Equal(t, "håkon", name)

	_, ok = syms.Name(-1)
	assert.False(t, ok)
	_, ok = syms.Name(1)
	assert.False(t, ok)

	_, ok = syms.Lookup("missing")
	assert.False(t, ok)
}
