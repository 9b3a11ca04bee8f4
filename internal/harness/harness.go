package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/roach88/warren/internal/compiler"
	"github.com/roach88/warren/internal/engine"
	"github.com/roach88/warren/internal/ir"
	"github.com/roach88/warren/internal/program"
	"github.com/roach88/warren/internal/query"
	"github.com/roach88/warren/internal/store"
)

// Harness is the scenario execution engine.
type Harness struct {
	logger   *slog.Logger
	maxSteps int
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger handed to each machine.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = logger
	}
}

// WithMaxSteps sets the default step quota for scenarios without max_steps.
func WithMaxSteps(maxSteps int) Option {
	return func(h *Harness) {
		h.maxSteps = maxSteps
	}
}

// New creates a Harness. Logs are discarded unless WithLogger is given.
func New(opts ...Option) *Harness {
	h := &Harness{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxSteps: engine.DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario with a default Harness.
func Run(scenario *Scenario) (*Result, error) {
	return New().Run(context.Background(), scenario)
}

// Run executes a test scenario and returns the result.
//
// An error is returned when the scenario cannot be executed: a scenario
// missing required fields, a term that does not lower or compile, a store
// failure, or a machine error other than a failed unification. Unmet expectations are reported in Result.Errors.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}
	progTerm, err := ir.FromValue(scenario.Program)
	if err != nil {
		return nil, fmt.Errorf("program: %w", err)
	}
	queryTerm, err := ir.FromValue(scenario.Query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	syms := ir.NewSymbols()
	fact, err := compiler.CompileFact(progTerm, syms)
	if err != nil {
		return nil, err
	}
	q, vars, err := compiler.CompileQuery(queryTerm, syms)
	if err != nil {
		return nil, err
	}

	// Fresh in-memory database per scenario for isolation
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	factRec := store.NewProgramRecord(store.KindFact, scenario.Name, progTerm, fact, syms, 0)
	queryRec := store.NewProgramRecord(store.KindQuery, scenario.Name, queryTerm, q.Program(), syms, q.TopLevel().Register())
	if err := st.SavePrograms(ctx, factRec, queryRec); err != nil {
		return nil, err
	}

	maxSteps := h.maxSteps
	if scenario.MaxSteps > 0 {
		maxSteps = scenario.MaxSteps
	}
	m := engine.New(engine.WithLogger(h.logger), engine.WithMaxSteps(maxSteps))

	result := NewResult()
	var bindings map[string]ir.Term
	r, err := q.Match(ctx, m, fact)
	switch {
	case err == nil:
		result.Matched = true
		bindings = compiler.Bindings(r, vars, syms)
		result.Bindings = renderBindings(bindings, vars)
	case engine.IsUnifyFailure(err):
		h.logger.Debug("no match", "scenario", scenario.Name, "error", err)
	default:
		return nil, err
	}

	ids := engine.NewFixedGenerator("run-" + scenario.Name)
	clock := engine.NewClock()
	run := store.RunRecord{
		ID:        ids.Generate(),
		ProgramID: factRec.ID,
		QueryID:   queryRec.ID,
		Matched:   result.Matched,
		Bindings:  bindings,
		Steps:     m.Steps(),
		Seq:       clock.Next(),
	}
	if err := st.RecordRun(ctx, run); err != nil {
		return nil, err
	}
	runs, err := st.ListRuns(ctx, factRec.ID)
	if err != nil {
		return nil, err
	}
	if len(runs) != 1 {
		return nil, fmt.Errorf("expected 1 recorded run, found %d", len(runs))
	}
	result.Run = runs[0]

	checkExpectations(scenario, vars, result)
	result.Transcript = transcript(scenario.Name, progTerm, queryTerm, fact, q, syms, result)
	return result, nil
}

func renderBindings(terms map[string]ir.Term, vars map[string]query.Ref) map[string]string {
	out := make(map[string]string, len(vars))
	for name := range vars {
		if t, ok := terms[name]; ok {
			out[name] = t.String()
		} else {
			out[name] = Unresolved
		}
	}
	return out
}

func checkExpectations(scenario *Scenario, vars map[string]query.Ref, result *Result) {
	if want := *scenario.Expect.Match; want != result.Matched {
		result.AddError(fmt.Sprintf("expected match=%v, got match=%v", want, result.Matched))
		return
	}

	for _, name := range sortedNames(scenario.Expect.Bindings) {
		want := scenario.Expect.Bindings[name]
		if _, ok := vars[name]; !ok {
			result.AddError(fmt.Sprintf("binding %s: not a variable of the query", name))
			continue
		}
		if got := result.Bindings[name]; got != want {
			result.AddError(fmt.Sprintf("binding %s: expected %q, got %q", name, want, got))
		}
	}
}

func transcript(name string, progTerm, queryTerm ir.Term, fact *program.Program, q *query.Query, syms *ir.Symbols, result *Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", name)
	fmt.Fprintf(&b, "program: %s\n", progTerm)
	fmt.Fprintf(&b, "query: %s\n", queryTerm)

	b.WriteString("\n-- fact --\n")
	b.WriteString(fact.AssemblyWith(syms))
	b.WriteString("\n-- query --\n")
	b.WriteString(q.AssemblyWith(syms))

	b.WriteString("\n-- result --\n")
	if !result.Matched {
		b.WriteString("no match\n")
		return b.String()
	}
	b.WriteString("match\n")
	for _, v := range sortedNames(result.Bindings) {
		fmt.Fprintf(&b, "%s = %s\n", v, result.Bindings[v])
	}
	return b.String()
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
