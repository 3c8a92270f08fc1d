package refine

import (
	"slices"

	"github.com/bits-and-blooms/bitset"

	"github.com/matzehuels/isotower/pkg/graph"
)

// Fast refines with a worklist of splitter classes.
//
// Popping a class C counts, for every vertex, its neighbours in C. Each class
// touched by C is regrouped by that count; the largest group keeps the old
// color and every other group is split off to a fresh color. New groups are
// queued; when the old class was not queued, its largest group can stay off
// the queue because its counts follow from the other groups.
//
// The initial queue holds every class except the largest one, provided every
// class is degree-homogeneous. Otherwise all classes are queued.
type Fast struct{}

// Kind returns KindFast.
func (Fast) Kind() Kind { return KindFast }

// Refine implements Strategy.
func (Fast) Refine(g *graph.Graph) {
	r := fastRun{
		g:     g,
		p:     g.Partition(),
		count: make([]int, g.Order()),
	}
	r.seed()
	r.loop()
}

type fastRun struct {
	g      *graph.Graph
	p      *graph.Partition
	count  []int
	queue  []int
	queued bitset.BitSet
}

func (r *fastRun) push(c int) {
	if r.queued.Test(uint(c)) {
		return
	}
	r.queued.Set(uint(c))
	r.queue = append(r.queue, c)
}

func (r *fastRun) seed() {
	ids := r.p.ClassIDs()
	skip := -1
	if r.degreeHomogeneous(ids) {
		largest := 0
		for _, c := range ids {
			if n := len(r.p.Class(c)); n > largest {
				largest, skip = n, c
			}
		}
	}
	for _, c := range ids {
		if c != skip {
			r.push(c)
		}
	}
}

func (r *fastRun) degreeHomogeneous(ids []int) bool {
	for _, c := range ids {
		cls := r.p.Class(c)
		d := r.g.Degree(cls[0])
		for _, v := range cls[1:] {
			if r.g.Degree(v) != d {
				return false
			}
		}
	}
	return true
}

func (r *fastRun) loop() {
	var touched []int
	var touchedSeen bitset.BitSet
	for len(r.queue) > 0 {
		c := r.queue[0]
		r.queue = r.queue[1:]
		r.queued.Clear(uint(c))

		splitter := slices.Clone(r.p.Class(c))
		if len(splitter) == 0 {
			continue
		}

		touched = touched[:0]
		var counted []int
		for _, v := range splitter {
			for _, w := range r.g.Neighbours(v) {
				if r.count[w] == 0 {
					counted = append(counted, w)
				}
				r.count[w]++
				x := r.p.Color(w)
				if !touchedSeen.Test(uint(x)) {
					touchedSeen.Set(uint(x))
					touched = append(touched, x)
				}
			}
		}

		for _, x := range touched {
			touchedSeen.Clear(uint(x))
			r.splitByCount(x)
		}
		for _, w := range counted {
			r.count[w] = 0
		}
	}
}

// splitByCount regroups class x by the current neighbour counts.
func (r *fastRun) splitByCount(x int) {
	cls := r.p.Class(x)
	if len(cls) < 2 {
		return
	}
	groups := map[int][]int{}
	for _, v := range cls {
		k := r.count[v]
		groups[k] = append(groups[k], v)
	}
	if len(groups) == 1 {
		return
	}

	keys := make([]int, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	keep := keys[0]
	for _, k := range keys[1:] {
		if len(groups[k]) > len(groups[keep]) {
			keep = k
		}
	}

	for _, k := range keys {
		if k != keep {
			r.push(r.p.Split(groups[k]))
		}
	}
}
