package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromValue(t *testing.T) {
	testCases := []struct {
		name  string
		input any
		want  Term
	}{
		{"atom string", "a", Atom("a")},
		{"int atom", 42, Atom("42")},
		{"int64 atom", int64(-7), Atom("-7")},
		{"variable", map[string]any{"var": "X"}, V("X")},
		{"functor without args", map[string]any{"functor": "nil"}, Atom("nil")},
		{
			"compound",
			map[string]any{"functor": "f", "args": []any{"a", map[string]any{"var": "X"}}},
			NewCompound("f", Atom("a"), V("X")),
		},
		{
			"nested",
			map[string]any{"functor": "p", "args": []any{
				map[string]any{"functor": "h", "args": []any{map[string]any{"var": "Z"}}},
			}},
			NewCompound("p", NewCompound("h", V("Z"))),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FromValue(tc.input)
			require.NoError(t, err)
			assert.True(t, Equal(tc.want, got), "got %s, want %s", got, tc.want)
		})
	}
}

func TestFromValue_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		input   any
		message string
	}{
		{"empty atom", "", "must not be empty"},
		{"float", 1.5, "floats are not valid terms"},
		{"null", nil, "null"},
		{"bool", true, "unsupported term value"},
		{"var with extra field", map[string]any{"var": "X", "args": []any{}}, "must not have other fields"},
		{"empty var", map[string]any{"var": ""}, "non-empty string"},
		{"neither var nor functor", map[string]any{"name": "x"}, "either var or functor"},
		{"non-string functor", map[string]any{"functor": 3}, "functor must be a non-empty string"},
		{"unknown field", map[string]any{"functor": "f", "arity": 2}, `unknown term field "arity"`},
		{"args not a list", map[string]any{"functor": "f", "args": "a"}, "must be a list"},
		{"bad nested arg", map[string]any{"functor": "f", "args": []any{2.5}}, "f.args[0]"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromValue(tc.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}
