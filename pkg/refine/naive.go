package refine

import (
	"slices"

	"github.com/matzehuels/isotower/pkg/graph"
)

// Naive refines by full rescans. Each pass visits every class with at least
// two members and moves all members whose sorted neighbour-color list
// differs from the first member's into one fresh color. Passes repeat until
// nothing changes; members that differ from each other are separated by a
// later pass.
type Naive struct{}

// Kind returns KindNaive.
func (Naive) Kind() Kind { return KindNaive }

// Refine implements Strategy.
func (Naive) Refine(g *graph.Graph) {
	p := g.Partition()
	var ref, buf []int
	for changed := true; changed; {
		changed = false
		for _, c := range p.ClassIDs() {
			cls := p.Class(c)
			if len(cls) < 2 {
				continue
			}
			ref = signature(g, cls[0], ref[:0])
			var diff []int
			for _, v := range cls[1:] {
				buf = signature(g, v, buf[:0])
				if !equalInts(ref, buf) {
					diff = append(diff, v)
				}
			}
			if len(diff) > 0 {
				p.Split(diff)
				changed = true
			}
		}
	}
}

// signature appends the sorted colors of v's neighbours to dst.
func signature(g *graph.Graph, v int, dst []int) []int {
	for _, w := range g.Neighbours(v) {
		dst = append(dst, g.Color(w))
	}
	slices.Sort(dst)
	return dst
}

func equalInts(a, b []int) bool { return slices.Equal(a, b) }
