// Package sortition implements registries of k-ary weighted sum trees for
// selecting participants at random with probability proportional to their
// stake.
//
// A Tree maps 128-bit identifiers to non-negative integer weights and
// supports weight updates in O(log_k n), proportional draws in
// O(k*log_k n), and paginated enumeration of its leaf level. A Registry
// groups independent trees under caller-chosen keys and routes every
// operation to the addressed tree.
//
// The package performs no synchronization. Callers must guarantee that a
// write (CreateTree, Set, DrawDistinct) on a key is never concurrent with
// any other operation on the same key; reads may run concurrently with
// each other.
//
// Draws consume caller-supplied numbers and are fully deterministic for a
// given tree state, so the quality of the randomness is entirely the
// caller's responsibility. The lottery package provides a seeded
// math/rand layer for callers that do not need cryptographic draws.
package sortition
