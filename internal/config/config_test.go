package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/warren/internal/engine"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[engine]
max-steps = 500

[store]
path = "data/warren.db"

[output]
format = "json"
`)

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 500, c.Engine.MaxSteps)
	assert.Equal(t, "json", c.Output.Format)
	assert.True(t, filepath.IsAbs(c.Path))
	assert.Equal(t, filepath.Join(filepath.Dir(c.Path), "data", "warren.db"), c.Store.Path)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultMaxSteps, c.Engine.MaxSteps)
	assert.Equal(t, "text", c.Output.Format)
	assert.Empty(t, c.Store.Path)
}

func TestLoad_AbsoluteStorePath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "elsewhere.db")
	path := writeConfig(t, t.TempDir(), "[store]\npath = "+`"`+filepath.ToSlash(abs)+`"`+"\n")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.ToSlash(abs), filepath.ToSlash(c.Store.Path))
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		message string
	}{
		{"syntax", "[engine\n", "parse error"},
		{"unknown key", "[engine]\nmax_steps = 3\n", "unknown keys"},
		{"negative steps", "[engine]\nmax-steps = -1\n", "max-steps must be non-negative"},
		{"bad format", "[output]\nformat = \"yaml\"\n", "output.format must be text or json"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tc.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot read")
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[engine]\nmax-steps = 7\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	c, err := FindAndLoad(nested)
	require.NoError(t, err)
	assert.Equal(t, 7, c.Engine.MaxSteps)
	assert.Equal(t, filepath.Join(root, FileName), c.Path)
}

func TestFindAndLoad_NoFile(t *testing.T) {
	// t.TempDir() parents are not expected to hold a warren.toml
	c, err := FindAndLoad(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}
