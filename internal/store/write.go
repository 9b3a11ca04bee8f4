package store

import (
	"context"
	"fmt"
)

// SavePrograms inserts program records in one transaction.
// Uses ON CONFLICT(id) DO NOTHING for idempotency: a record already present
// keeps its original name.
func (s *Store) SavePrograms(ctx context.Context, recs ...ProgramRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save programs: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for _, rec := range recs {
		if rec.ID == "" {
			return fmt.Errorf("save programs: %s %q has no id", rec.Kind, rec.Name)
		}
		source, err := marshalSource(rec.Source)
		if err != nil {
			return fmt.Errorf("save programs: %w", err)
		}
		code, err := marshalCode(rec.Program)
		if err != nil {
			return fmt.Errorf("save programs: %w", err)
		}
		symbols, err := marshalSymbols(rec.Symbols)
		if err != nil {
			return fmt.Errorf("save programs: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO programs
			(id, kind, name, source, code, symbols, top_level)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING
		`,
			rec.ID,
			string(rec.Kind),
			rec.Name,
			source,
			code,
			symbols,
			rec.TopLevel,
		)
		if err != nil {
			return fmt.Errorf("save programs: %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save programs: commit: %w", err)
	}
	return nil
}

// RecordRun appends a run record.
//
// Note: ProgramID and QueryID must name saved programs (foreign key constraint).
func (s *Store) RecordRun(ctx context.Context, run RunRecord) error {
	bindings, err := marshalBindings(run.Bindings)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, program_id, query_id, matched, bindings, steps, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.ProgramID,
		run.QueryID,
		run.Matched,
		bindings,
		run.Steps,
		run.Seq,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}
