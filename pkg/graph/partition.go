package graph

import (
	"maps"
	"slices"
)

// Partition assigns every vertex exactly one color and keeps, for each
// color, the ordered list of vertices holding it. Next is the high-water
// mark used to allocate fresh colors.
//
// Class order is insertion order: vertices moved into a class are appended.
// Refinement and branching depend on that order being reproducible.
type Partition struct {
	color   []int
	classes map[int][]int
	next    int
}

// Snapshot is an immutable capture of a [Partition]. Restoring it resets
// every color, every class membership and order, and the fresh-color mark.
type Snapshot struct {
	color   []int
	classes map[int][]int
	next    int
}

func newPartition(n int) *Partition {
	p := &Partition{color: make([]int, n), classes: map[int][]int{}}
	if n > 0 {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		p.classes[0] = all
	}
	p.next = 1
	return p
}

func (p *Partition) grow(v int) {
	p.color = append(p.color, 0)
	p.classes[0] = append(p.classes[0], v)
}

func (p *Partition) clone() *Partition {
	return &Partition{color: slices.Clone(p.color), classes: cloneClasses(p.classes), next: p.next}
}

// Len returns the number of vertices covered by the partition.
func (p *Partition) Len() int { return len(p.color) }

// Color returns the color of v.
func (p *Partition) Color(v int) int { return p.color[v] }

// Colors returns a copy of the per-vertex colors.
func (p *Partition) Colors() []int { return slices.Clone(p.color) }

// Class returns the vertices of color c in class order. The slice is owned
// by the partition and must not be modified.
func (p *Partition) Class(c int) []int { return p.classes[c] }

// ClassIDs returns the colors currently in use in ascending order.
func (p *Partition) ClassIDs() []int { return slices.Sorted(maps.Keys(p.classes)) }

// NumClasses returns the number of non-empty color classes.
func (p *Partition) NumClasses() int { return len(p.classes) }

// Next returns the next fresh color id without allocating it.
func (p *Partition) Next() int { return p.next }

// Fresh allocates and returns a color id not used before.
func (p *Partition) Fresh() int {
	c := p.next
	p.next++
	return c
}

// Move recolors v to c, removing it from its old class (dropped when it
// becomes empty) and appending it to class c.
func (p *Partition) Move(v, c int) {
	old := p.color[v]
	if old == c {
		return
	}
	cls := p.classes[old]
	if i := slices.Index(cls, v); i >= 0 {
		cls = slices.Delete(cls, i, i+1)
	}
	if len(cls) == 0 {
		delete(p.classes, old)
	} else {
		p.classes[old] = cls
	}
	p.color[v] = c
	p.classes[c] = append(p.classes[c], v)
	if c >= p.next {
		p.next = c + 1
	}
}

// Split moves every vertex in vs to one fresh color and returns it. The
// vertices keep their relative order in the new class; every old class is
// rebuilt once, so splitting k vertices out of a class of size m is O(k+m).
// vs must not contain duplicates.
func (p *Partition) Split(vs []int) int {
	c := p.Fresh()
	moving := make(map[int]struct{}, len(vs))
	olds := make(map[int]struct{})
	for _, v := range vs {
		moving[v] = struct{}{}
		olds[p.color[v]] = struct{}{}
	}
	for old := range olds {
		cls := slices.DeleteFunc(p.classes[old], func(v int) bool {
			_, ok := moving[v]
			return ok
		})
		if len(cls) == 0 {
			delete(p.classes, old)
		} else {
			p.classes[old] = cls
		}
	}
	cls := make([]int, 0, len(vs))
	for _, v := range vs {
		p.color[v] = c
		cls = append(cls, v)
	}
	p.classes[c] = cls
	return c
}

// SetColors replaces the whole partition with the given per-vertex colors.
// Negative colors are not allowed. Classes list vertices in index order and
// Next becomes one more than the largest color.
func (p *Partition) SetColors(colors []int) {
	p.color = slices.Clone(colors)
	p.classes = make(map[int][]int)
	p.next = 0
	for v, c := range p.color {
		if c < 0 {
			panic("graph: negative color")
		}
		p.classes[c] = append(p.classes[c], v)
		if c >= p.next {
			p.next = c + 1
		}
	}
}

// IsDiscrete reports whether every class has exactly one vertex.
func (p *Partition) IsDiscrete() bool { return len(p.classes) == len(p.color) }

// Shape returns the partition as vertex groups independent of color ids:
// each class sorted ascending, classes ordered by their smallest vertex.
// Two partitions group vertices identically iff their shapes are equal.
func (p *Partition) Shape() [][]int {
	out := make([][]int, 0, len(p.classes))
	for _, cls := range p.classes {
		out = append(out, slices.Sorted(slices.Values(cls)))
	}
	slices.SortFunc(out, func(a, b []int) int { return a[0] - b[0] })
	return out
}

// Snapshot captures the partition in O(V).
func (p *Partition) Snapshot() Snapshot {
	return Snapshot{color: slices.Clone(p.color), classes: cloneClasses(p.classes), next: p.next}
}

// Restore resets the partition to s. The snapshot stays valid and may be
// restored again. Snapshots must be restored in LIFO order relative to the
// mutations they guard.
func (p *Partition) Restore(s Snapshot) {
	p.color = slices.Clone(s.color)
	p.classes = cloneClasses(s.classes)
	p.next = s.next
}

func cloneClasses(in map[int][]int) map[int][]int {
	out := make(map[int][]int, len(in))
	for c, cls := range in {
		out[c] = slices.Clone(cls)
	}
	return out
}
