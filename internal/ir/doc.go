// Package ir provides the term representation shared by the compiler, the
// engine's term reconstruction, the harness and the CLI.
//
// This package contains type definitions and pure helpers only. All other
// internal packages may import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Term is sealed: only Var and Compound implement it
//   - Atoms are compounds with no arguments
//   - Functor names are NFC-normalized before interning
//   - Canonical JSON is the only serialization used for hashing
package ir
