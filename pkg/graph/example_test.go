package graph_test

import (
	"fmt"

	"github.com/matzehuels/isotower/pkg/graph"
)

func ExampleGraph_DisjointUnionWithSelf() {
	g := graph.New(3)
	_ = g.AddEdge(0, 1)
	_ = g.AddEdge(1, 2)

	u := g.DisjointUnionWithSelf()
	graph.DegreeColoring(u)

	fmt.Println(u.Order(), u.Size())
	fmt.Println(u.Mirror(1))
	fmt.Println(u.Partition().Class(1))
	// Output:
	// 6 4
	// 4
	// [0 2 3 5]
}
