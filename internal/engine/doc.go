// Package engine implements the reference execution engine for warren
// programs: an L0-style abstract machine with a heap of tagged cells, a
// register file and read/write unification mode.
//
// There are no choice points and no backtracking. A failed unification ends
// the run with a RuntimeError (code UNIFY_FAILED).
//
// MEMORY MODEL:
//
//	REF a     reference to heap address a; unbound when heap[a] is REF a
//	STR a     pointer to the functor cell at heap address a
//	FUN f/n   functor cell, followed on the heap by its n argument cells
//
// Registers hold cells. A register that was never written holds the zero
// Cell (TagEmpty), which term reconstruction reports as unresolved.
//
// Thread-safety: a Machine is not safe for concurrent use. Callers that share
// one must serialize runs; views returned by Registers are invalidated by the
// next Reset or Run.
package engine
