package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/warren/internal/compiler"
	"github.com/roach88/warren/internal/engine"
	"github.com/roach88/warren/internal/harness"
	"github.com/roach88/warren/internal/ir"
	"github.com/roach88/warren/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
	MaxSteps int

	// IDs allows overriding the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDs engine.RunIDGenerator
}

// QueryRun is the outcome of matching one query against the program.
type QueryRun struct {
	Name     string            `json:"name"`
	Query    string            `json:"query"`
	Matched  bool              `json:"matched"`
	Bindings map[string]string `json:"bindings,omitempty"`
	Steps    int               `json:"steps"`
	RunID    string            `json:"run_id,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// RunResult is the output of the run command.
type RunResult struct {
	Program string     `json:"program"`
	Runs    []QueryRun `json:"runs"`
}

// Text renders one block per query.
func (r RunResult) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "program: %s\n", r.Program)
	for _, run := range r.Runs {
		switch {
		case run.Error != "":
			fmt.Fprintf(&b, "\n✗ %s: %s\n  error: %s\n", run.Name, run.Query, run.Error)
		case !run.Matched:
			fmt.Fprintf(&b, "\n- %s: %s\n  no match\n", run.Name, run.Query)
		default:
			fmt.Fprintf(&b, "\n✓ %s: %s\n", run.Name, run.Query)
			names := make([]string, 0, len(run.Bindings))
			for name := range run.Bindings {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(&b, "  %s = %s\n", name, run.Bindings[name])
			}
		}
	}
	return b.String()
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <spec>",
		Short: "Match every query of a spec against its program",
		Long: `Compile a spec and match each of its queries against the program
term on a fresh machine, printing the binding of every named variable.

A query that does not unify with the program is reported as "no match".
Any other machine error, such as exceeding --max-steps, fails the command.
With --db the programs and every run are recorded.

Exit codes:
  0 - All queries ran (matched or not)
  1 - A query raised a machine error
  2 - Command error (spec not found, database error, etc.)

Example:
  warren run ./likes.cue
  warren run ./likes.cue --db ./warren.db --max-steps 1000`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueries(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "record programs and runs in this SQLite database")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", 0, "maximum instructions per query (default from config)")

	return cmd
}

func runQueries(ctx context.Context, opts *RunOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := opts.formatter(cmd)
	logger := opts.logger()

	if opts.MaxSteps < 0 {
		return f.Fail(ExitCommandError, ErrCodeUsage, fmt.Sprintf("--max-steps must be non-negative, got %d", opts.MaxSteps), nil)
	}
	maxSteps := opts.config().Engine.MaxSteps
	if opts.MaxSteps > 0 {
		maxSteps = opts.MaxSteps
	}

	ls, err := loadSpec(f, path)
	if err != nil {
		return err
	}

	var (
		st    *store.Store
		clock *engine.Clock
		ids   = opts.IDs
	)
	if dbPath := opts.storePath(opts.Database); dbPath != "" {
		st, err = openStore(f, dbPath)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.SavePrograms(ctx, ls.records()...); err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, "failed to save programs", err)
		}
		latest, err := st.LatestSeq(ctx)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, "failed to read run sequence", err)
		}
		clock = engine.NewClockAt(latest)
		if ids == nil {
			ids = engine.UUIDv7Generator{}
		}
	}

	result := RunResult{Program: ls.Spec.Program.String(), Runs: make([]QueryRun, 0, len(ls.Queries))}
	failed := 0
	for i, cq := range ls.Compiled.Queries {
		m := engine.New(engine.WithLogger(logger), engine.WithMaxSteps(maxSteps))
		run, bindings := matchQuery(ctx, m, cq, ls.Compiled)
		logger.Debug("query run", "query", cq.Name, "matched", run.Matched, "steps", run.Steps)

		if run.Error != "" {
			failed++
		} else if st != nil {
			rec := store.RunRecord{
				ID:        ids.Generate(),
				ProgramID: ls.Fact.ID,
				QueryID:   ls.Queries[i].ID,
				Matched:   run.Matched,
				Bindings:  bindings,
				Steps:     run.Steps,
				Seq:       clock.Next(),
			}
			if err := st.RecordRun(ctx, rec); err != nil {
				return f.Fail(ExitCommandError, ErrCodeStore, "failed to record run", err)
			}
			run.RunID = rec.ID
		}
		result.Runs = append(result.Runs, run)
	}

	if err := f.Success(result); err != nil {
		return err
	}
	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d queries failed", failed, len(result.Runs)))
	}
	return nil
}

// matchQuery matches one compiled query against the program. A failed
// unification is a normal outcome; other machine errors are reported in
// QueryRun.Error.
func matchQuery(ctx context.Context, m *engine.Machine, cq compiler.CompiledQuery, c *compiler.Compiled) (QueryRun, map[string]ir.Term) {
	run := QueryRun{Name: cq.Name, Query: cq.Term.String()}

	r, err := cq.Query.Match(ctx, m, c.Fact)
	run.Steps = m.Steps()
	switch {
	case err == nil:
	case engine.IsUnifyFailure(err):
		return run, nil
	default:
		run.Error = err.Error()
		return run, nil
	}

	run.Matched = true
	bindings := compiler.Bindings(r, cq.Vars, c.Symbols)
	run.Bindings = make(map[string]string, len(cq.Vars))
	for name := range cq.Vars {
		if t, ok := bindings[name]; ok {
			run.Bindings[name] = t.String()
		} else {
			run.Bindings[name] = harness.Unresolved
		}
	}
	return run, bindings
}
