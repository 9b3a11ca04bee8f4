package store

import (
	"bytes"

	"github.com/roach88/warren/internal/ir"
	"github.com/roach88/warren/internal/program"
)

// Kind tells fact programs from query programs.
type Kind string

const (
	KindFact  Kind = "fact"
	KindQuery Kind = "query"
)

// ProgramRecord is a compiled program with what is needed to print it.
type ProgramRecord struct {
	ID       string
	Kind     Kind
	Name     string
	Source   ir.Term
	Program  *program.Program
	Symbols  []string // functor names by id
	TopLevel int      // register of the top-level term; 0 for facts
}

// RunRecord is the outcome of matching one query against one fact program.
type RunRecord struct {
	ID        string
	ProgramID string
	QueryID   string
	Matched   bool
	Bindings  map[string]ir.Term
	Steps     int
	Seq       int64
}

// RecordID computes the content-addressed id of a program record.
// Functor ids only mean something together with their symbol table, so the
// names are hashed along with the code.
func RecordID(kind Kind, p *program.Program, symbols []string) string {
	var buf bytes.Buffer
	buf.WriteString(string(kind))
	buf.WriteByte(0)
	buf.WriteString(p.ID())
	for _, name := range symbols {
		buf.WriteByte(0)
		buf.WriteString(name)
	}
	return ir.ContentHash(ir.DomainRecord, buf.Bytes())
}

// NewProgramRecord builds a record for p, filling in its id.
func NewProgramRecord(kind Kind, name string, source ir.Term, p *program.Program, syms *ir.Symbols, topLevel int) ProgramRecord {
	names := syms.Names()
	return ProgramRecord{
		ID:       RecordID(kind, p, names),
		Kind:     kind,
		Name:     name,
		Source:   source,
		Program:  p,
		Symbols:  names,
		TopLevel: topLevel,
	}
}

// SymbolTable rebuilds the functor names of the record as a Namer.
func (r ProgramRecord) SymbolTable() *ir.Symbols {
	syms := ir.NewSymbols()
	for _, name := range r.Symbols {
		syms.Intern(name)
	}
	return syms
}
