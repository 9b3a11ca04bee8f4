package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const programColumns = `id, kind, name, source, code, symbols, top_level`

// LoadProgram returns the program record with the given id.
// Returns sql.ErrNoRows if not found.
func (s *Store) LoadProgram(ctx context.Context, id string) (ProgramRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+programColumns+`
		FROM programs
		WHERE id = ?
	`, id)
	return scanProgram(row)
}

// ResolveID expands a unique id prefix into a full program id.
// Returns sql.ErrNoRows if no program matches.
func (s *Store) ResolveID(ctx context.Context, prefix string) (string, error) {
	if prefix == "" || strings.ContainsAny(prefix, "%_") {
		return "", fmt.Errorf("resolve id: invalid prefix %q", prefix)
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM programs
		WHERE id LIKE ? || '%'
		ORDER BY id COLLATE BINARY ASC
		LIMIT 2
	`, prefix)
	if err != nil {
		return "", fmt.Errorf("resolve id: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("resolve id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve id: %w", err)
	}

	switch len(ids) {
	case 0:
		return "", sql.ErrNoRows
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("resolve id: prefix %q is ambiguous", prefix)
	}
}

// ListPrograms returns every saved program, facts first, then by name.
// Returns an empty slice (not nil) if the store holds no programs.
func (s *Store) ListPrograms(ctx context.Context) ([]ProgramRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+programColumns+`
		FROM programs
		ORDER BY kind ASC, name COLLATE BINARY ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query programs: %w", err)
	}
	defer rows.Close()

	recs := []ProgramRecord{}
	for rows.Next() {
		rec, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate programs: %w", err)
	}
	return recs, nil
}

// ListRuns returns the runs made against a fact program, ordered by
// seq ASC, id ASC COLLATE BINARY.
// Returns an empty slice (not nil) if there are none.
func (s *Store) ListRuns(ctx context.Context, programID string) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, program_id, query_id, matched, bindings, steps, seq
		FROM runs
		WHERE program_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, programID)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunRecord{}
	for rows.Next() {
		var run RunRecord
		var bindings string
		if err := rows.Scan(
			&run.ID, &run.ProgramID, &run.QueryID, &run.Matched,
			&bindings, &run.Steps, &run.Seq,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Bindings, err = unmarshalBindings(bindings)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// LatestSeq returns the highest run seq, or 0 for an empty store.
func (s *Store) LatestSeq(ctx context.Context) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM runs`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("latest seq: %w", err)
	}
	return seq, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProgram(row scanner) (ProgramRecord, error) {
	var rec ProgramRecord
	var kind, source, symbols string
	var code []byte

	if err := row.Scan(&rec.ID, &kind, &rec.Name, &source, &code, &symbols, &rec.TopLevel); err != nil {
		return ProgramRecord{}, err
	}
	rec.Kind = Kind(kind)

	var err error
	if rec.Source, err = unmarshalSource(source); err != nil {
		return ProgramRecord{}, err
	}
	if rec.Program, err = unmarshalCode(code); err != nil {
		return ProgramRecord{}, err
	}
	if rec.Symbols, err = unmarshalSymbols(symbols); err != nil {
		return ProgramRecord{}, err
	}
	return rec, nil
}
