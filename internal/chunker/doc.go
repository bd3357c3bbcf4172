// Package chunker divides large content into token-budgeted chunks for
// map-reduce analysis.
//
// The code-aware path prefers splitting at syntactic boundaries (function,
// class, and type declarations) found by line-anchored patterns per language,
// and carries a trailing overlap into each following chunk so context is not
// lost across a split. The simple path accumulates lines against the budget
// with no boundary search.
//
// # Invariants
//
//   - The union of chunk line ranges covers every line of the input; overlap
//     creates redundancy, never gaps.
//   - Every chunk fits the token budget unless it consists of a single line
//     that alone exceeds it; such lines are emitted whole, never split.
//   - Chunks are emitted in document order and are never empty.
package chunker
