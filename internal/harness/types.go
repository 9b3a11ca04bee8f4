package harness

import "github.com/roach88/warren/internal/store"

// Unresolved is the rendering of a binding whose term cannot be rebuilt,
// such as a cyclic term created by unification without occurs check.
const Unresolved = "<unresolved>"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if the outcome matched every expectation.
	Pass bool `json:"pass"`

	// Matched reports whether the query unified with the program.
	Matched bool `json:"matched"`

	// Bindings maps every named query variable to its rendered term.
	// Empty when the match failed.
	Bindings map[string]string `json:"bindings"`

	// Errors contains expectation mismatches. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Transcript is the text compared against golden files.
	Transcript string `json:"transcript"`

	// Run is the run record as read back from the store.
	Run store.RunRecord `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Bindings: map[string]string{},
		Errors:   []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
