// Package refine implements color refinement (1-dimensional
// Weisfeiler-Leman) on a [graph.Graph].
//
// A coloring is stable when any two vertices of equal color have, for every
// color, the same number of neighbours of that color. Both strategies turn
// the current coloring of a graph into the coarsest stable coloring that
// refines it:
//
//   - [Naive] rescans every class until a full pass changes nothing.
//   - [Fast] drives splits from a worklist of classes and only revisits
//     the neighbourhood of the class being processed.
//
// The strategies may assign different numeric color ids but always group
// vertices identically. Select one with [New] or [Parse]:
//
//	s, err := refine.Parse("fast")
//	s.Refine(g)
package refine
