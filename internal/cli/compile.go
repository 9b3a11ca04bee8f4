package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/warren/internal/ir"
	"github.com/roach88/warren/internal/store"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Database string
}

// ProgramOutput describes one compiled program.
type ProgramOutput struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Source    string `json:"source"`
	TermHash  string `json:"term_hash,omitempty"`
	TopLevel  int    `json:"top_level,omitempty"`
	Registers int    `json:"registers"`
	Assembly  string `json:"assembly"`
}

// CompileResult is the output of the compile command.
type CompileResult struct {
	Program ProgramOutput   `json:"program"`
	Queries []ProgramOutput `json:"queries"`
	Saved   bool            `json:"saved"`
}

// Text renders the listings of every program.
func (r CompileResult) Text() string {
	var b strings.Builder
	writeProgram(&b, r.Program)
	for _, q := range r.Queries {
		b.WriteString("\n")
		writeProgram(&b, q)
	}
	if r.Saved {
		fmt.Fprintf(&b, "\n✓ Saved %d program(s)\n", 1+len(r.Queries))
	}
	return b.String()
}

func writeProgram(b *strings.Builder, p ProgramOutput) {
	fmt.Fprintf(b, "-- %s %s (%s) --\n", p.Kind, p.Name, shortID(p.ID))
	fmt.Fprintf(b, "%s\n", p.Source)
	b.WriteString(p.Assembly)
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <spec>",
		Short: "Compile a spec to abstract machine code",
		Long: `Compile the program and queries of a CUE spec and print their
instruction listings.

The program term is compiled to fact code (get_structure / unify_*),
every query to query code (put_structure / set_*). With --db the compiled
programs are saved and can be listed later with "warren disasm".

Example:
  warren compile ./likes.cue
  warren compile ./specs --db ./warren.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "save compiled programs to this SQLite database")

	return cmd
}

func runCompile(ctx context.Context, opts *CompileOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := opts.formatter(cmd)
	logger := opts.logger()

	ls, err := loadSpec(f, path)
	if err != nil {
		return err
	}
	logger.Debug("spec compiled", "spec", ls.Name, "queries", len(ls.Queries), "functors", ls.Compiled.Symbols.Len())

	result := CompileResult{
		Program: programOutput(ls.Fact),
		Queries: make([]ProgramOutput, 0, len(ls.Queries)),
	}
	for _, rec := range ls.Queries {
		result.Queries = append(result.Queries, programOutput(rec))
	}

	if dbPath := opts.storePath(opts.Database); dbPath != "" {
		st, err := openStore(f, dbPath)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.SavePrograms(ctx, ls.records()...); err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, "failed to save programs", err)
		}
		logger.Info("programs saved", "db", dbPath, "count", len(ls.records()))
		result.Saved = true
	}

	return f.Success(result)
}

func programOutput(rec store.ProgramRecord) ProgramOutput {
	// The term hash identifies the source independently of functor numbering.
	hash, _ := ir.TermHash(rec.Source)
	return ProgramOutput{
		ID:        rec.ID,
		Kind:      string(rec.Kind),
		Name:      rec.Name,
		Source:    rec.Source.String(),
		TermHash:  hash,
		TopLevel:  rec.TopLevel,
		Registers: rec.Program.Registers(),
		Assembly:  rec.Program.AssemblyWith(rec.SymbolTable()),
	}
}
