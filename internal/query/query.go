package query

import (
	"context"
	"fmt"

	"github.com/roach88/warren/internal/engine"
	"github.com/roach88/warren/internal/op"
	"github.com/roach88/warren/internal/program"
)

// Query is a compiled query program together with the register holding its
// top-level term. A Query is immutable and safe to share between goroutines.
type Query struct {
	program *program.Program
	top     Ref
}

// Program returns the compiled instructions.
func (q *Query) Program() *program.Program {
	return q.program
}

// TopLevel returns the Ref of the query's top-level term.
func (q *Query) TopLevel() Ref {
	return q.top
}

// Assembly returns the disassembled program.
func (q *Query) Assembly() string {
	return q.program.Assembly()
}

// AssemblyWith returns the disassembled program with functor names.
func (q *Query) AssemblyWith(names op.Namer) string {
	return q.program.AssemblyWith(names)
}

// Execute resets m, builds the query term on its heap, and places the
// top-level term in register 0 so a fact program can match against it.
//
// The Result reads the machine's live registers and is invalidated by the next
// Reset or Run of m.
func (q *Query) Execute(ctx context.Context, m *engine.Machine) (*Result, error) {
	m.Reset()
	if err := m.Run(ctx, q.program); err != nil {
		return nil, fmt.Errorf("query: execute: %w", err)
	}
	top, ok := m.Register(q.top.reg)
	if !ok {
		return nil, fmt.Errorf("query: top-level register %s not written", q.top)
	}
	m.SetRegister(0, top)
	return &Result{machine: m, regs: m.Registers(), origin: q.top.origin}, nil
}

// Match executes the query and then runs fact against register 0. Matching
// failure is reported as an engine error for which engine.IsUnifyFailure holds.
//
// The fact runs under the step quota the query started, so m.Steps counts
// both programs.
//
// Fact programs overwrite the machine registers they use, so the returned
// Result keeps a copy of the query's registers taken before the match. The
// cells still point into the machine heap, where the match bound them.
func (q *Query) Match(ctx context.Context, m *engine.Machine, fact *program.Program) (*Result, error) {
	r, err := q.Execute(ctx, m)
	if err != nil {
		return nil, err
	}
	r.regs = append([]engine.Cell(nil), r.regs...)
	if err := m.Continue(ctx, fact); err != nil {
		return nil, fmt.Errorf("query: match: %w", err)
	}
	return r, nil
}
