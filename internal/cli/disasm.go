package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/warren/internal/store"
)

// DisasmOptions holds flags for the disasm command.
type DisasmOptions struct {
	*RootOptions
	Database string
	Runs     bool
}

// RunOutput is a recorded run of a fact program.
type RunOutput struct {
	ID       string            `json:"id"`
	QueryID  string            `json:"query_id"`
	Matched  bool              `json:"matched"`
	Bindings map[string]string `json:"bindings,omitempty"`
	Steps    int               `json:"steps"`
	Seq      int64             `json:"seq"`
}

// DisasmResult is the output of the disasm command.
type DisasmResult struct {
	Program ProgramOutput `json:"program"`
	Runs    []RunOutput   `json:"runs,omitempty"`
}

// Text renders the listing followed by any runs.
func (r DisasmResult) Text() string {
	var b strings.Builder
	writeProgram(&b, r.Program)
	if len(r.Runs) > 0 {
		b.WriteString("\nruns:\n")
	}
	for _, run := range r.Runs {
		status := "no match"
		if run.Matched {
			status = "match"
		}
		fmt.Fprintf(&b, "  #%d %s query=%s %s (%d steps)\n", run.Seq, shortID(run.ID), shortID(run.QueryID), status, run.Steps)
		names := make([]string, 0, len(run.Bindings))
		for name := range run.Bindings {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "    %s = %s\n", name, run.Bindings[name])
		}
	}
	return b.String()
}

// NewDisasmCommand creates the disasm command.
func NewDisasmCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DisasmOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "disasm <id>",
		Short: "Print the listing of a saved program",
		Long: `Load a program saved by "warren compile --db" or "warren run --db"
and print its source term and instruction listing. Any unique prefix of
the program id is accepted.

Example:
  warren disasm 3f9a1c --db ./warren.db
  warren disasm 3f9a1c --db ./warren.db --runs`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDisasm(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config)")
	cmd.Flags().BoolVar(&opts.Runs, "runs", false, "also list runs recorded against a fact program")

	return cmd
}

func runDisasm(ctx context.Context, opts *DisasmOptions, prefix string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := opts.formatter(cmd)

	st, err := requireStore(f, opts.storePath(opts.Database))
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.ResolveID(ctx, prefix)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("no program with id %s", prefix), nil)
	case err != nil:
		return f.Fail(ExitCommandError, ErrCodeBadID, "cannot resolve program id", err)
	}

	rec, err := st.LoadProgram(ctx, id)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to load program", err)
	}
	result := DisasmResult{Program: programOutput(rec)}

	if opts.Runs && rec.Kind == store.KindFact {
		runs, err := st.ListRuns(ctx, rec.ID)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, "failed to list runs", err)
		}
		for _, run := range runs {
			out := RunOutput{
				ID:      run.ID,
				QueryID: run.QueryID,
				Matched: run.Matched,
				Steps:   run.Steps,
				Seq:     run.Seq,
			}
			if len(run.Bindings) > 0 {
				out.Bindings = make(map[string]string, len(run.Bindings))
				for name, t := range run.Bindings {
					out.Bindings[name] = t.String()
				}
			}
			result.Runs = append(result.Runs, out)
		}
	}

	return f.Success(result)
}

// requireStore opens the database at path, failing when no path is
// configured.
func requireStore(f *OutputFormatter, path string) (*store.Store, error) {
	if path == "" {
		return nil, f.Fail(ExitCommandError, ErrCodeUsage, "--db is required (or set store.path in warren.toml)", nil)
	}
	return openStore(f, path)
}
