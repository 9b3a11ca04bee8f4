// Package store provides SQLite-backed storage for compiled programs and the
// runs made with them.
//
// Programs are content-addressed: the record id hashes the program words, its
// kind, and the symbol table its functor ids refer to, so saving the same
// compilation twice is a no-op. Runs are append-only and ordered by seq, a
// logical clock, never by wall time.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Runs must reference saved programs
package store
