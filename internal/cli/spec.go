package cli

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/roach88/warren/internal/compiler"
	"github.com/roach88/warren/internal/store"
)

// loadedSpec is a compiled spec together with the store records for its
// programs. Query records follow the declaration order of the spec.
type loadedSpec struct {
	Name     string
	Spec     *compiler.Spec
	Compiled *compiler.Compiled
	Fact     store.ProgramRecord
	Queries  []store.ProgramRecord
}

// loadSpec loads and compiles the spec at path, reporting failures through f.
func loadSpec(f *OutputFormatter, path string) (*loadedSpec, error) {
	spec, err := compiler.LoadSpec(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, f.Fail(ExitCommandError, ErrCodeNotFound, "spec not found: "+path, err)
		}
		return nil, f.Fail(ExitCommandError, ErrCodeCompile, "failed to load spec", err)
	}
	compiled, err := compiler.Compile(spec)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeCompile, "failed to compile spec", err)
	}

	name := specName(path)
	ls := &loadedSpec{
		Name:     name,
		Spec:     spec,
		Compiled: compiled,
		Fact:     store.NewProgramRecord(store.KindFact, name, spec.Program, compiled.Fact, compiled.Symbols, 0),
	}
	for _, cq := range compiled.Queries {
		ls.Queries = append(ls.Queries, store.NewProgramRecord(
			store.KindQuery, cq.Name, cq.Term, cq.Query.Program(), compiled.Symbols, cq.Query.TopLevel().Register(),
		))
	}
	return ls, nil
}

// records returns the fact record followed by every query record.
func (ls *loadedSpec) records() []store.ProgramRecord {
	return append([]store.ProgramRecord{ls.Fact}, ls.Queries...)
}

// specName derives the program name from a spec path: the file name without
// its extension, or the directory name.
func specName(path string) string {
	base := filepath.Base(filepath.Clean(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// openStore opens the database at path, reporting failures through f.
func openStore(f *OutputFormatter, path string) (*store.Store, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	return st, nil
}

// shortID abbreviates a record id for text output.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
