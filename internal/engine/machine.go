package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/warren/internal/op"
	"github.com/roach88/warren/internal/program"
)

// DefaultMaxSteps is the default maximum number of instructions per run.
// Programs here never branch, so the quota only guards against programs that
// are far larger than expected.
const DefaultMaxSteps = 1 << 20

// Mode is the unification mode of GetStructure's argument instructions.
type Mode uint8

const (
	// ModeWrite builds new structure arguments on the heap.
	ModeWrite Mode = iota

	// ModeRead matches existing structure arguments.
	ModeRead
)

// String returns "read" or "write".
func (m Mode) String() string {
	if m == ModeRead {
		return "read"
	}
	return "write"
}

// Machine executes warren programs.
type Machine struct {
	heap  []Cell
	regs  []Cell
	s     int // next structure argument in read mode
	mode  Mode
	quota *QuotaEnforcer

	logger *slog.Logger
}

// Option configures a Machine.
type Option func(*Machine)

// WithMaxSteps sets the per-run instruction quota.
func WithMaxSteps(maxSteps int) Option {
	return func(m *Machine) {
		m.quota = NewQuotaEnforcer(maxSteps)
	}
}

// WithLogger sets the logger used for execution tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// New creates a Machine with an empty heap and register file.
func New(opts ...Option) *Machine {
	m := &Machine{
		heap:   make([]Cell, 0, 64),
		quota:  NewQuotaEnforcer(DefaultMaxSteps),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return m
}

// Reset clears the heap, the registers and the step counter.
func (m *Machine) Reset() {
	m.heap = m.heap[:0]
	m.regs = nil
	m.s = 0
	m.mode = ModeWrite
	m.quota.Reset()
}

// Run executes p from its first instruction against the current heap and
// registers. Unification failure stops the run with a RuntimeError.
func (m *Machine) Run(ctx context.Context, p *program.Program) error {
	m.quota.Reset()
	return m.run(ctx, p)
}

// Continue executes p like Run but keeps the step counter, so p shares the
// quota of the runs before it.
func (m *Machine) Continue(ctx context.Context, p *program.Program) error {
	return m.run(ctx, p)
}

func (m *Machine) run(ctx context.Context, p *program.Program) error {
	m.growRegisters(p.Registers())

	for pc := 0; pc < p.Len(); {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("engine: run interrupted at %d: %w", pc, err)
		}
		if err := m.quota.Check(); err != nil {
			m.logger.Error("max steps quota exceeded",
				"steps", m.quota.Current(),
				"max_steps", m.quota.MaxSteps())
			return NewStepLimitError(pc, m.quota.Current(), m.quota.MaxSteps())
		}

		o, err := p.Fetch(pc)
		if err != nil {
			return NewBadInstructionError(pc, err)
		}
		m.logger.Debug("exec", "pc", pc, "op", o.String(), "mode", m.mode.String())

		if err := m.execute(pc, o); err != nil {
			return err
		}
		pc += op.Advance(o)
	}
	return nil
}

func (m *Machine) execute(pc int, o op.Operation) error {
	switch o := o.(type) {
	case op.PutStructure:
		h := len(m.heap)
		m.heap = append(m.heap, str(h+1), fun(o.Functor, o.Arity))
		m.regs[o.Register] = m.heap[h]
		m.mode = ModeWrite

	case op.SetVariable:
		h := len(m.heap)
		m.heap = append(m.heap, ref(h))
		m.regs[o.Register] = m.heap[h]

	case op.SetValue:
		c := m.regs[o.Register]
		if c.IsEmpty() {
			return NewBadRegisterError(pc, o.Register)
		}
		m.heap = append(m.heap, c)

	case op.GetStructure:
		c := m.regs[o.Register]
		if c.IsEmpty() {
			return NewBadRegisterError(pc, o.Register)
		}
		d := m.deref(c)
		switch d.Tag {
		case TagRef:
			h := len(m.heap)
			m.heap = append(m.heap, str(h+1), fun(o.Functor, o.Arity))
			m.bind(d, m.heap[h])
			m.mode = ModeWrite
		case TagStr:
			f, ok := m.Cell(d.Value)
			if !ok || f != fun(o.Functor, o.Arity) {
				m.logger.Debug("functor clash", "pc", pc, "want", o.String(), "got", f.String())
				return NewUnifyError(pc, o)
			}
			m.s = d.Value + 1
			m.mode = ModeRead
		default:
			return NewUnifyError(pc, o)
		}

	case op.UnifyVariable:
		switch m.mode {
		case ModeRead:
			c, ok := m.Cell(m.s)
			if !ok {
				return NewBadInstructionError(pc, fmt.Errorf("structure argument %d out of heap", m.s))
			}
			m.regs[o.Register] = c
		case ModeWrite:
			h := len(m.heap)
			m.heap = append(m.heap, ref(h))
			m.regs[o.Register] = m.heap[h]
		}
		m.s++

	case op.UnifyValue:
		c := m.regs[o.Register]
		if c.IsEmpty() {
			return NewBadRegisterError(pc, o.Register)
		}
		switch m.mode {
		case ModeRead:
			if m.s >= len(m.heap) {
				return NewBadInstructionError(pc, fmt.Errorf("structure argument %d out of heap", m.s))
			}
			if !m.unify(c, ref(m.s)) {
				return NewUnifyError(pc, o)
			}
		case ModeWrite:
			m.heap = append(m.heap, c)
		}
		m.s++

	default:
		return NewBadInstructionError(pc, fmt.Errorf("unsupported operation %T", o))
	}
	return nil
}

func (m *Machine) growRegisters(n int) {
	if n > len(m.regs) {
		regs := make([]Cell, n)
		copy(regs, m.regs)
		m.regs = regs
	}
}

// Registers returns the live register file. The slice is a view: it is not
// copied and is only valid until the next Reset or Run.
func (m *Machine) Registers() []Cell {
	return m.regs
}

// Register returns register i.
func (m *Machine) Register(i int) (Cell, bool) {
	if i < 0 || i >= len(m.regs) {
		return Cell{}, false
	}
	return m.regs[i], true
}

// SetRegister stores c in register i, growing the register file if needed.
func (m *Machine) SetRegister(i int, c Cell) {
	m.growRegisters(i + 1)
	m.regs[i] = c
}

// Cell returns the heap cell at addr.
func (m *Machine) Cell(addr int) (Cell, bool) {
	if addr < 0 || addr >= len(m.heap) {
		return Cell{}, false
	}
	return m.heap[addr], true
}

// HeapSize returns the number of cells on the heap.
func (m *Machine) HeapSize() int {
	return len(m.heap)
}

// Steps returns the number of instructions executed since the last Run or
// Reset, including any Continue calls in between.
func (m *Machine) Steps() int {
	return m.quota.Current()
}
