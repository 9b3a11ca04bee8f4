package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// compiledDB compiles likesSpec into a fresh database and returns its path
// and the saved programs.
func compiledDB(t *testing.T) (string, []ProgramSummary) {
	t.Helper()
	db := filepath.Join(t.TempDir(), "warren.db")
	_, err := execute(t, NewCompileCommand(&RootOptions{Format: "text"}), writeSpec(t), "--db", db)
	require.NoError(t, err)

	out, err := execute(t, NewListCommand(&RootOptions{Format: "json"}), "--db", db)
	require.NoError(t, err)
	var resp struct {
		Data ListResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	return db, resp.Data.Programs
}

func TestDisasmQuery(t *testing.T) {
	db, programs := compiledDB(t)
	var who ProgramSummary
	for _, p := range programs {
		if p.Name == "who" {
			who = p
		}
	}
	require.NotEmpty(t, who.ID)

	out, err := execute(t, NewDisasmCommand(&RootOptions{Format: "text"}), who.ID[:12], "--db", db)
	require.NoError(t, err)

	assert.Contains(t, out, "-- query who ("+who.ID[:12]+") --\n")
	assert.Contains(t, out, "likes(alice, A, bob)\n")
	assert.Contains(t, out, "put_structure alice/0")
	assert.Contains(t, out, "put_structure likes/3")
	assert.NotContains(t, out, "runs:")
}

func TestDisasmMatchesCompile(t *testing.T) {
	db, programs := compiledDB(t)

	out, err := execute(t, NewCompileCommand(&RootOptions{Format: "json"}), writeSpec(t))
	require.NoError(t, err)
	var compiled struct {
		Data CompileResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &compiled))

	out, err = execute(t, NewDisasmCommand(&RootOptions{Format: "json"}), programs[0].ID, "--db", db)
	require.NoError(t, err)
	var disasm struct {
		Data DisasmResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &disasm))

	// The stored program reads back identical to a fresh compile.
	assert.Equal(t, compiled.Data.Program, disasm.Data.Program)
}

func TestListEmpty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "warren.db")

	out, err := execute(t, NewListCommand(&RootOptions{Format: "text"}), "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "No programs saved.\n", out)
}

func TestDisasmErrors(t *testing.T) {
	db, programs := compiledDB(t)

	t.Run("no database", func(t *testing.T) {
		out, err := execute(t, NewDisasmCommand(&RootOptions{Format: "text"}), "abc")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, out, "--db is required")
	})

	t.Run("unknown id", func(t *testing.T) {
		out, err := execute(t, NewDisasmCommand(&RootOptions{Format: "json"}), "zzzz", "--db", db)
		require.Error(t, err)

		var resp CLIResponse
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	})

	t.Run("invalid prefix", func(t *testing.T) {
		out, err := execute(t, NewDisasmCommand(&RootOptions{Format: "json"}), "a%", "--db", db)
		require.Error(t, err)

		var resp CLIResponse
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, ErrCodeBadID, resp.Error.Code)
	})

	t.Run("full id", func(t *testing.T) {
		_, err := execute(t, NewDisasmCommand(&RootOptions{Format: "json"}), programs[1].ID, "--db", db)
		assert.NoError(t, err)
	})
}
