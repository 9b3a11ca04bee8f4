// Package harness runs YAML scenarios that match one query against one fact.
//
// # Scenario Format
//
//	name: classic
//	description: "What this scenario checks"
//	program: {functor: p, args: [{var: X}, a]}
//	query: {functor: p, args: [b, {var: Y}]}
//	max_steps: 100        # optional
//	expect:
//	  match: true
//	  bindings:
//	    Y: "a"
//
// Terms use the shapes of ir.FromValue. Expected bindings are compared with
// the rendered term (ir.Term.String). Unbound variables render as _G<n>,
// where n is a heap address, so they are deterministic for a given scenario.
//
// Each run compiles both terms, saves them to a fresh in-memory store, matches
// them on a fresh machine, and records the run with a fixed id and logical
// clock so transcripts are reproducible for golden comparison.
package harness
