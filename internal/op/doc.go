// Package op defines the instruction set of the warren abstract machine.
//
// The set is closed: Operation is a sealed interface implemented only by the
// six instruction types in this package, so backends can switch over it
// exhaustively.
//
// Construction instructions (used by queries):
//   - PutStructure f/n, Xi  - start a new structure and record it in Xi
//   - SetVariable Xi        - first occurrence: push a fresh unbound cell
//   - SetValue Xi           - later occurrence: push the cell held in Xi
//
// Matching instructions (used by program terms):
//   - GetStructure f/n, Xi  - match or build f/n against Xi
//   - UnifyVariable Xi      - first occurrence inside a structure
//   - UnifyValue Xi         - later occurrence inside a structure
//
// ENCODING:
//
// Every instruction is a fixed number of machine words: the opcode followed by
// its operands in declaration order. Size reports that width. Advance reports
// how far the program counter moves after the instruction executes. No
// instruction in this set transfers control, so the two agree today; they are
// kept as separate functions so a branching opcode can define advance on its
// own.
package op
