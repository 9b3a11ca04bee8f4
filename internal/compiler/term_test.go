package compiler

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/warren/internal/engine"
	"github.com/roach88/warren/internal/ir"
	"github.com/roach88/warren/internal/op"
	"github.com/roach88/warren/internal/query"
	"github.com/roach88/warren/internal/testutil"
)

// p(Z, h(Z, W), f(W))
var classicQuery = ir.NewCompound("p",
	ir.V("Z"),
	ir.NewCompound("h", ir.V("Z"), ir.V("W")),
	ir.NewCompound("f", ir.V("W")),
)

// p(f(X), h(Y, f(a)), Y)
var classicFact = ir.NewCompound("p",
	ir.NewCompound("f", ir.V("X")),
	ir.NewCompound("h", ir.V("Y"), ir.NewCompound("f", ir.Atom("a"))),
	ir.V("Y"),
)

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestCompileQuery_Simple(t *testing.T) {
	syms := ir.NewSymbols()
	q, vars, err := CompileQuery(ir.NewCompound("f", ir.V("X")), syms)
	require.NoError(t, err)

	f, _ := syms.Lookup("f")
	assert.Equal(t, []op.Operation{
		op.SetVariable{Register: 1},
		op.PutStructure{Functor: f, Arity: 1, Register: 2},
		op.SetValue{Register: 1},
	}, q.Program().Operations())
	require.Contains(t, vars, "X")
	assert.Equal(t, 1, vars["X"].Register())
	assert.Equal(t, 2, q.TopLevel().Register())
}

func TestCompileQuery_RepeatedAndAnonymousVariables(t *testing.T) {
	testCases := []struct {
		name     string
		term     ir.Term
		expected string
		vars     []string
	}{
		{
			name: "repeated variable shares a register",
			term: ir.NewCompound("f", ir.V("X"), ir.V("X")),
			expected: "0000  set_variable X1\n" +
				"0002  put_structure f/2, X2\n" +
				"0006  set_value X1\n" +
				"0008  set_value X1\n",
			vars: []string{"X"},
		},
		{
			name: "anonymous variables are distinct",
			term: ir.NewCompound("f", ir.V("_"), ir.V("_")),
			expected: "0000  set_variable X1\n" +
				"0002  set_variable X2\n" +
				"0004  put_structure f/2, X3\n" +
				"0008  set_value X1\n" +
				"0010  set_value X2\n",
		},
		{
			name:     "constant",
			term:     ir.Atom("a"),
			expected: "0000  put_structure a/0, X1\n",
		},
		{
			name:     "bare variable",
			term:     ir.V("X"),
			expected: "0000  set_variable X1\n",
			vars:     []string{"X"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			syms := ir.NewSymbols()
			q, vars, err := CompileQuery(tc.term, syms)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, q.AssemblyWith(syms))

			var names []string
			for name := range vars {
				names = append(names, name)
			}
			assert.ElementsMatch(t, tc.vars, names)
		})
	}
}

func TestCompileQuery_Classic(t *testing.T) {
	syms := ir.NewSymbols()
	q, vars, err := CompileQuery(classicQuery, syms)
	require.NoError(t, err)

	golden(t).Assert(t, "classic_query", []byte(q.AssemblyWith(syms)))
	assert.Equal(t, 1, vars["Z"].Register())
	assert.Equal(t, 2, vars["W"].Register())
}

func TestCompileQuery_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		term  ir.Term
		field string
	}{
		{"empty functor", ir.Compound{}, "query"},
		{"empty nested functor", ir.NewCompound("f", ir.Atom("a"), ir.Compound{}), "query.args[1]"},
		{"empty variable name", ir.NewCompound("f", ir.V("")), "query.args[0]"},
		{"nil term", nil, "query"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := CompileQuery(tc.term, ir.NewSymbols())
			var ce *CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tc.field, ce.Field)
		})
	}
}

func TestCompileFact_Classic(t *testing.T) {
	syms := ir.NewSymbols()
	p, err := CompileFact(classicFact, syms)
	require.NoError(t, err)

	golden(t).Assert(t, "classic_fact", []byte(p.AssemblyWith(syms)))
	assert.Equal(t, 7, p.Registers())
	require.NoError(t, p.Validate())
}

func TestCompileFact_Atom(t *testing.T) {
	syms := ir.NewSymbols()
	p, err := CompileFact(ir.Atom("a"), syms)
	require.NoError(t, err)
	assert.Equal(t, "0000  get_structure a/0, X0\n", p.AssemblyWith(syms))
}

func TestCompileFact_RejectsVariableRoot(t *testing.T) {
	_, err := CompileFact(ir.V("X"), ir.NewSymbols())

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "program", ce.Field)
	assert.Contains(t, ce.Message, "must be a structure")
}

func TestCompileFact_Errors(t *testing.T) {
	_, err := CompileFact(ir.NewCompound("f", ir.NewCompound("g", ir.V(""))), ir.NewSymbols())

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "program.args[0].args[0]", ce.Field)
	assert.Equal(t, "program.args[0].args[0]: variable name must not be empty", err.Error())
}

func TestCompile_MatchEndToEnd(t *testing.T) {
	testCases := []struct {
		name     string
		fact     ir.Term
		query    ir.Term
		match    bool
		bindings map[string]string
	}{
		{
			name:     "classic",
			fact:     classicFact,
			query:    classicQuery,
			match:    true,
			bindings: map[string]string{"Z": "f(f(a))", "W": "f(a)"},
		},
		{
			name:     "fact variable takes query structure",
			fact:     ir.NewCompound("likes", ir.V("X"), ir.V("X")),
			query:    ir.NewCompound("likes", ir.Atom("bob"), ir.V("Who")),
			match:    true,
			bindings: map[string]string{"Who": "bob"},
		},
		{
			name:  "constant clash",
			fact:  ir.NewCompound("likes", ir.Atom("alice"), ir.V("_")),
			query: ir.NewCompound("likes", ir.Atom("bob"), ir.V("Who")),
			match: false,
		},
		{
			name:  "arity clash",
			fact:  ir.NewCompound("f", ir.Atom("a")),
			query: ir.NewCompound("f", ir.Atom("a"), ir.Atom("b")),
			match: false,
		},
		{
			name:  "repeated fact variable needs equal arguments",
			fact:  ir.NewCompound("eq", ir.V("X"), ir.V("X")),
			query: ir.NewCompound("eq", ir.Atom("a"), ir.Atom("b")),
			match: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			syms := ir.NewSymbols()
			fact, err := CompileFact(tc.fact, syms)
			require.NoError(t, err)
			q, vars, err := CompileQuery(tc.query, syms)
			require.NoError(t, err)

			m := engine.New(engine.WithLogger(testutil.DiscardLogger()))
			r, err := q.Match(context.Background(), m, fact)
			if !tc.match {
				require.Error(t, err)
				assert.True(t, engine.IsUnifyFailure(err))
				return
			}
			require.NoError(t, err)

			for name, want := range tc.bindings {
				got, ok := query.BuildTerm[ir.Term](r, vars[name], ir.NewBuilder(syms))
				require.True(t, ok, name)
				assert.Equal(t, want, got.String(), name)
			}
		})
	}
}
