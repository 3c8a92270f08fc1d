// Package preprocess holds the cheap reductions applied before a search:
// twin removal, the quick reject of obviously non-isomorphic pairs,
// complement selection for dense graphs, and exact counting on trees.
package preprocess
