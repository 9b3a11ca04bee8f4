package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Database string
}

// ProgramSummary is one line of the list command.
type ProgramSummary struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	Name   string `json:"name"`
	Source string `json:"source"`
}

// ListResult is the output of the list command.
type ListResult struct {
	Programs []ProgramSummary `json:"programs"`
}

// Text renders one line per program.
func (r ListResult) Text() string {
	if len(r.Programs) == 0 {
		return "No programs saved.\n"
	}
	var b strings.Builder
	for _, p := range r.Programs {
		fmt.Fprintf(&b, "%s  %-5s  %s  %s\n", shortID(p.ID), p.Kind, p.Name, p.Source)
	}
	return b.String()
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved programs",
		Long: `List every program saved in the database, facts first.

Example:
  warren list --db ./warren.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config)")

	return cmd
}

func runList(ctx context.Context, opts *ListOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := opts.formatter(cmd)

	st, err := requireStore(f, opts.storePath(opts.Database))
	if err != nil {
		return err
	}
	defer st.Close()

	recs, err := st.ListPrograms(ctx)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to list programs", err)
	}

	result := ListResult{Programs: make([]ProgramSummary, 0, len(recs))}
	for _, rec := range recs {
		result.Programs = append(result.Programs, ProgramSummary{
			ID:     rec.ID,
			Kind:   string(rec.Kind),
			Name:   rec.Name,
			Source: rec.Source.String(),
		})
	}
	return f.Success(result)
}
