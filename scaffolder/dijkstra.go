package scaffolder

import (
	"fmt"
	"slices"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oomph-ac/blueprint/oerror"
	"github.com/oomph-ac/blueprint/scaffolding"
	"github.com/zyedidia/generic/heap"
)

// Dijkstra is a Strategy that finds the fewest scaffold blocks connecting a component to support. It runs a
// 0/1 weighted shortest path search over outgoing edges from every member of the component, where entering
// an air position costs one block and entering a real one is free. The search ends at a real position of a
// supported component or at an air position that rests on the ground.
type Dijkstra struct{}

type dijkstraNode struct {
	cost  int
	index int
}

func (Dijkstra) ScaffoldToSupport(o *scaffolding.Overlay, id scaffolding.ComponentID) ([]int, error) {
	g, cg := o.Graph(), o.CollapsedGraph()
	b := g.Bounds()
	supported := newSupportedSet(cg)

	target := func(index int) bool {
		if !o.RealAt(index) {
			return g.GroundedAt(index)
		}
		other, _ := cg.ComponentAt(index)
		return other != id && supported.supported(other)
	}

	dist := make(map[int]int)
	prev := make(map[int]int)
	h := heap.New(func(a, b dijkstraNode) bool {
		if a.cost != b.cost {
			return a.cost < b.cost
		}
		return a.index < b.index
	})
	for _, m := range cg.Members(id) {
		dist[int(m)], prev[int(m)] = 0, -1
		h.Push(dijkstraNode{index: int(m)})
	}

	for h.Size() > 0 {
		cur, _ := h.Pop()
		if cur.cost > dist[cur.index] {
			continue
		}
		if target(cur.index) {
			return path(o, prev, cur.index), nil
		}
		mask := g.Outgoing(cur.index)
		for _, face := range cube.Faces() {
			if mask&(1<<face) == 0 {
				continue
			}
			n, _ := b.Neighbour(cur.index, face)
			cost := cur.cost
			if !o.RealAt(n) {
				cost++
			}
			if d, ok := dist[n]; ok && d <= cost {
				continue
			}
			dist[n], prev[n] = cost, cur.index
			h.Push(dijkstraNode{cost: cost, index: n})
		}
	}
	first := slices.Min(cg.Members(id))
	return nil, fmt.Errorf("%w: no scaffolding can support the %d blocks around %v", oerror.ErrUnsolvable, len(cg.Members(id)), b.Pos(int(first)))
}

// path returns the air positions on the path ending at index, starting from the end nearest the component.
func path(o *scaffolding.Overlay, prev map[int]int, index int) []int {
	var out []int
	for ; index != -1; index = prev[index] {
		if !o.RealAt(index) {
			out = append(out, index)
		}
	}
	slices.Reverse(out)
	return out
}
