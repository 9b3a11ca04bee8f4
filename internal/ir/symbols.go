package ir

import "golang.org/x/text/unicode/norm"

// Symbols interns functor names to dense integer identifiers, starting at 0.
// Names are NFC-normalized so that visually identical names share an id.
//
// Symbols is not safe for concurrent mutation.
type Symbols struct {
	ids   map[string]int
	names []string
}

// NewSymbols creates an empty symbol table.
func NewSymbols() *Symbols {
	return &Symbols{ids: make(map[string]int)}
}

// Intern returns the id for name, allocating one if needed.
func (s *Symbols) Intern(name string) int {
	name = norm.NFC.String(name)
	if id, ok := s.ids[name]; ok {
		return id
	}
	id := len(s.names)
	s.ids[name] = id
	s.names = append(s.names, name)
	return id
}

// Lookup returns the id for name without allocating.
func (s *Symbols) Lookup(name string) (int, bool) {
	id, ok := s.ids[norm.NFC.String(name)]
	return id, ok
}

// Name returns the name interned under id.
func (s *Symbols) Name(id int) (string, bool) {
	if id < 0 || id >= len(s.names) {
		return "", false
	}
	return s.names[id], true
}

// Len returns the number of interned names.
func (s *Symbols) Len() int {
	return len(s.names)
}

// Names returns the interned names indexed by id.
func (s *Symbols) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}
