// Package search implements the individualization-refinement search over a
// disjoint union of two graphs.
//
// Each search node refines the current coloring and classifies it with
// package decide. Unbalanced nodes are dead ends, bijected nodes are leaves
// that yield one isomorphism, and balanced nodes branch: the smallest color
// class with at least four members is chosen, one of its left vertices x is
// individualized together with each right vertex y of the class in turn,
// and the search recurses. The coloring is snapshotted before each branch
// and restored afterwards, so the union graph is shared by the whole search.
//
// Three modes decide how much of the tree is explored:
//
//   - [Decide] stops at the first leaf.
//   - [Generators] requires a union of a graph with itself. At trivial
//     nodes (only mirror pairs individualized so far) it tries the mirror
//     first and then every other candidate not already in the orbit of x;
//     below a non-trivial node it stops at the first leaf. The leaves
//     generate the automorphism group.
//   - [Exhaustive] visits every leaf; their number is the number of
//     isomorphisms.
//
// Searches honor context cancellation and an optional node budget; both
// abort with an error matching [ErrAborted].
package search
