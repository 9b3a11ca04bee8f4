package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerm_String(t *testing.T) {
	testCases := []struct {
		name string
		term Term
		want string
	}{
		{"atom", Atom("a"), "a"},
		{"variable", V("X"), "X"},
		{"flat compound", NewCompound("f", V("X"), Atom("a")), "f(X, a)"},
		{"nested compound", NewCompound("p", V("Z"), NewCompound("h", V("Z"), V("W")), NewCompound("f", V("W"))), "p(Z, h(Z, W), f(W))"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.term.String())
		})
	}
}

func TestVars_FirstOccurrenceOrder(t *testing.T) {
	term := NewCompound("p", V("Z"), NewCompound("h", V("Z"), V("W")), NewCompound("f", V("W"), V("A")))
	assert.Equal(t, []Var{V("Z"), V("W"), V("A")}, Vars(term))

	assert.Empty(t, Vars(Atom("a")))
	assert.Equal(t, []Var{V("X")}, Vars(V("X")))
}

func TestEqual(t *testing.T) {
	a := NewCompound("f", V("X"), Atom("a"))

	assert.True(t, Equal(a, NewCompound("f", V("X"), Atom("a"))))
	assert.False(t, Equal(a, NewCompound("f", V("Y"), Atom("a"))))
	assert.False(t, Equal(a, NewCompound("g", V("X"), Atom("a"))))
	assert.False(t, Equal(a, NewCompound("f", V("X"))))
	assert.False(t, Equal(V("X"), Atom("X")))
}

func TestCompound_Arity(t *testing.T) {
	assert.Equal(t, 0, Atom("a").Arity())
	assert.Equal(t, 2, NewCompound("f", V("X"), V("Y")).Arity())
}
