package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/warren/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Filter    string // scenario name filter (glob pattern)
	GoldenDir string // compare transcripts against <dir>/<name>.golden
	Update    bool   // rewrite golden files instead of comparing
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name     string            `json:"name"`
	Pass     bool              `json:"pass"`
	Matched  bool              `json:"matched"`
	Bindings map[string]string `json:"bindings,omitempty"`
	Errors   []string          `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// Text renders one line per scenario and a summary.
func (r TestResult) Text() string {
	if r.Total == 0 {
		return "No scenarios found.\n"
	}
	var b strings.Builder
	for _, s := range r.Scenarios {
		if s.Pass {
			fmt.Fprintf(&b, "✓ %s\n", s.Name)
			continue
		}
		fmt.Fprintf(&b, "✗ %s\n", s.Name)
		for _, e := range s.Errors {
			fmt.Fprintf(&b, "  %s\n", e)
		}
	}
	fmt.Fprintf(&b, "\n%d passed, %d failed, %d total\n", r.Passed, r.Failed, r.Total)
	return b.String()
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run YAML match scenarios",
		Long: `Run every YAML scenario in a directory. Each scenario compiles a
program term and a query term, matches them and checks the expected
outcome and bindings.

With --golden the transcript of each scenario (listings and bindings) is
also compared against <dir>/<name>.golden; --update rewrites those files.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, malformed scenario, etc.)

Examples:
  warren test ./scenarios
  warren test ./scenarios --filter "classic*"
  warren test ./scenarios --golden ./scenarios/golden --update
  warren test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by name (glob pattern)")
	cmd.Flags().StringVar(&opts.GoldenDir, "golden", "", "directory of golden transcripts")
	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")

	return cmd
}

func runTests(ctx context.Context, opts *TestOptions, dir string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := opts.formatter(cmd)

	if _, err := os.Stat(dir); err != nil {
		return f.Fail(ExitCommandError, ErrCodeNotFound, "scenarios directory not found: "+dir, err)
	}
	if opts.Update && opts.GoldenDir == "" {
		return f.Fail(ExitCommandError, ErrCodeUsage, "--update requires --golden", nil)
	}
	if opts.Filter != "" {
		if _, err := filepath.Match(opts.Filter, ""); err != nil {
			return f.Fail(ExitCommandError, ErrCodeUsage, "invalid filter pattern", err)
		}
	}

	scenarios, err := harness.LoadScenarios(dir)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeCompile, "failed to load scenarios", err)
	}

	h := harness.New(
		harness.WithLogger(opts.logger()),
		harness.WithMaxSteps(opts.config().Engine.MaxSteps),
	)

	result := TestResult{Scenarios: make([]ScenarioResult, 0, len(scenarios))}
	for _, s := range scenarios {
		if opts.Filter != "" {
			if ok, _ := filepath.Match(opts.Filter, s.Name); !ok {
				continue
			}
		}
		f.VerboseLog("running scenario %s", s.Name)
		sr := runScenario(ctx, h, s, opts)
		result.Scenarios = append(result.Scenarios, sr)
		result.Total++
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if err := f.Success(result); err != nil {
		return err
	}
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios failed", result.Failed, result.Total))
	}
	return nil
}

func runScenario(ctx context.Context, h *harness.Harness, s *harness.Scenario, opts *TestOptions) ScenarioResult {
	r, err := h.Run(ctx, s)
	if err != nil {
		return ScenarioResult{Name: s.Name, Errors: []string{err.Error()}}
	}

	sr := ScenarioResult{
		Name:     s.Name,
		Pass:     r.Pass,
		Matched:  r.Matched,
		Bindings: r.Bindings,
		Errors:   r.Errors,
	}
	if opts.GoldenDir == "" {
		return sr
	}

	path := filepath.Join(opts.GoldenDir, s.Name+".golden")
	if opts.Update {
		if err := updateGoldenFile(path, r.Transcript); err != nil {
			sr.Pass = false
			sr.Errors = append(sr.Errors, err.Error())
		}
		return sr
	}

	match, err := compareWithGolden(path, r.Transcript)
	switch {
	case err != nil:
		sr.Pass = false
		sr.Errors = append(sr.Errors, fmt.Sprintf("golden comparison failed: %v", err))
	case !match:
		sr.Pass = false
		sr.Errors = append(sr.Errors, "transcript does not match golden file (run with --update to regenerate)")
	}
	return sr
}

// updateGoldenFile writes the transcript as the golden file.
func updateGoldenFile(path, transcript string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(transcript), 0644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// compareWithGolden compares the transcript against the golden file.
func compareWithGolden(path, transcript string) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("golden file %s does not exist", filepath.Base(path))
	}
	if err != nil {
		return false, fmt.Errorf("failed to read golden file: %w", err)
	}
	return string(data) == transcript, nil
}
