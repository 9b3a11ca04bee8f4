package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "test.yaml", `
name: test_scenario
description: "Test scenario for validation"
program: {functor: f, args: [a, 42]}
query: {functor: f, args: [{var: X}, {var: N}]}
max_steps: 50
expect:
  match: true
  bindings:
    X: a
    N: "42"
`)

	s, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", s.Name)
	assert.Equal(t, 50, s.MaxSteps)
	require.NotNil(t, s.Expect.Match)
	assert.True(t, *s.Expect.Match)
	assert.Equal(t, map[string]string{"X": "a", "N": "42"}, s.Expect.Bindings)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestLoadScenario_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		message string
	}{
		{
			name:    "unknown field",
			content: "name: x\ndescription: d\nprogram: a\nquery: a\nexpect: {match: true}\nbindngs: {}\n",
			message: "failed to parse YAML",
		},
		{
			name:    "missing name",
			content: "description: d\nprogram: a\nquery: a\nexpect: {match: true}\n",
			message: "name is required",
		},
		{
			name:    "missing description",
			content: "name: x\nprogram: a\nquery: a\nexpect: {match: true}\n",
			message: "description is required",
		},
		{
			name:    "missing program",
			content: "name: x\ndescription: d\nquery: a\nexpect: {match: true}\n",
			message: "program is required",
		},
		{
			name:    "missing query",
			content: "name: x\ndescription: d\nprogram: a\nexpect: {match: true}\n",
			message: "query is required",
		},
		{
			name:    "missing match",
			content: "name: x\ndescription: d\nprogram: a\nquery: a\nexpect: {}\n",
			message: "expect.match is required",
		},
		{
			name:    "bindings without match",
			content: "name: x\ndescription: d\nprogram: a\nquery: a\nexpect: {match: false, bindings: {X: a}}\n",
			message: "bindings must be empty",
		},
		{
			name:    "negative max steps",
			content: "name: x\ndescription: d\nprogram: a\nquery: a\nmax_steps: -1\nexpect: {match: true}\n",
			message: "max_steps must be non-negative",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeScenario(t, t.TempDir(), "bad.yaml", tc.content)
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenarios_OrderAndFilter(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "b.yml", "name: b\ndescription: d\nprogram: a\nquery: a\nexpect: {match: true}\n")
	writeScenario(t, dir, "a.yaml", "name: a\ndescription: d\nprogram: a\nquery: a\nexpect: {match: true}\n")
	writeScenario(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0755))

	scenarios, err := LoadScenarios(dir)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "a", scenarios[0].Name)
	assert.Equal(t, "b", scenarios[1].Name)
}

func TestLoadScenarios_ReportsFile(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "broken.yaml", "name: x\n")

	_, err := LoadScenarios(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yaml")
}
