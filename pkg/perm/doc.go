// Package perm provides permutations of 0..n-1 and permutation group
// computations.
//
// A [Permutation] is immutable. Composition reads left to right:
// p.Compose(q) applies p first and then q.
//
// Group functions take generator lists:
//
//   - [Orbit] and [OrbitTransversal] compute the orbit of a point.
//   - [Stabilizer] returns Schreier generators of a point stabilizer.
//   - [Order] computes the exact group order through a [Chain]
//     (Schreier-Sims), so groups far beyond 2^64 elements are fine.
//   - [OrderByStabilizers] is the plain orbit-stabilizer recursion, kept
//     as a reference for small groups.
//
// Example:
//
//	a, _ := perm.FromCycles(6, [][]int{{0, 1, 2}, {4, 5}})
//	b, _ := perm.FromCycles(6, [][]int{{2, 3}})
//	n, _ := perm.Order([]perm.Permutation{a, b}) // 48
package perm
