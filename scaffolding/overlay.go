package scaffolding

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oomph-ac/blueprint/assert"
	"github.com/oomph-ac/blueprint/dependency"
	"github.com/oomph-ac/blueprint/world"
)

// Overlay marks every position of a dependency graph as real, meaning a block will be there, or air. Target
// blocks start out real; scaffolding is added by enabling air positions. The overlay keeps the collapsed graph
// of the real positions up to date as positions are enabled and disabled.
type Overlay struct {
	graph     *dependency.Graph
	bounds    world.Bounds
	real      []bool
	count     int
	collapsed *CollapsedGraph
}

// New returns an Overlay over the graph passed with every non-air target position enabled.
func New(g *dependency.Graph) *Overlay {
	return newOverlay(g, func(index int) bool { return !g.Air(index) })
}

func newOverlay(g *dependency.Graph, enabled func(index int) bool) *Overlay {
	o := &Overlay{
		graph:  g,
		bounds: g.Bounds(),
		real:   make([]bool, g.Bounds().Volume()),
	}
	for i := range o.real {
		if enabled(i) {
			o.real[i] = true
			o.count++
		}
	}
	o.collapsed = o.build()
	return o
}

// Graph returns the dependency graph the overlay was created over.
func (o *Overlay) Graph() *dependency.Graph {
	return o.graph
}

// CollapsedGraph returns the collapsed graph of the real positions.
func (o *Overlay) CollapsedGraph() *CollapsedGraph {
	return o.collapsed
}

// RealCount returns the number of real positions.
func (o *Overlay) RealCount() int {
	return o.count
}

// Real returns whether pos is real.
func (o *Overlay) Real(pos cube.Pos) bool {
	return o.real[o.bounds.Index(pos)]
}

// RealAt is Real by dense index.
func (o *Overlay) RealAt(index int) bool {
	return o.real[index]
}

// Air returns whether pos is air.
func (o *Overlay) Air(pos cube.Pos) bool {
	return !o.Real(pos)
}

// Enable makes an air position real.
func (o *Overlay) Enable(pos cube.Pos) {
	o.EnableIndex(o.bounds.Index(pos))
}

// Disable makes a real position air.
func (o *Overlay) Disable(pos cube.Pos) {
	o.DisableIndex(o.bounds.Index(pos))
}

// EnableIndex is Enable by dense index.
func (o *Overlay) EnableIndex(index int) {
	assert.IsTrue(!o.real[index], "enabling %v, which is already real", o.bounds.Pos(index))
	o.real[index] = true
	o.count++

	g := o.collapsed
	var preds []ComponentID
	after := noSlot
	for _, face := range cube.Faces() {
		n, ok := o.bounds.Neighbour(index, face)
		if !ok || !o.real[n] || o.graph.Outgoing(n)&(1<<face.Opposite()) == 0 {
			continue
		}
		from, _ := g.ComponentAt(n)
		preds = append(preds, from)
		if s := g.arena[from].slot; after == noSlot || g.order.label(s) > g.order.label(after) {
			after = s
		}
	}
	// Directly after its highest predecessor, edges into the new component hold the order, and only edges
	// out of it to components before that predecessor need a reorder.
	id := g.create([]int32{int32(index)}, g.order.insertAfter(after, 1)[0], o.groundedWeight(index))
	for _, from := range preds {
		g.link(from, id)
	}
	mask := o.graph.Outgoing(index)
	for _, face := range cube.Faces() {
		if mask&(1<<face) == 0 {
			continue
		}
		n, _ := o.bounds.Neighbour(index, face)
		if !o.real[n] {
			continue
		}
		to, _ := g.ComponentAt(n)
		from, _ := g.ComponentAt(index)
		g.addEdge(from, to)
	}
}

// DisableIndex is Disable by dense index.
func (o *Overlay) DisableIndex(index int) {
	assert.IsTrue(o.real[index], "disabling %v, which is already air", o.bounds.Pos(index))
	o.real[index] = false
	o.count--

	g := o.collapsed
	id, _ := g.ComponentAt(index)
	g.posComp[index] = NoComponent

	members := g.arena[id].members
	if len(members) == 1 {
		g.remove(id)
		return
	}
	rest := make([]int32, 0, len(members)-1)
	for _, m := range members {
		if int(m) != index {
			rest = append(rest, m)
		}
	}
	sccs := o.tarjan(rest, func(n int) bool {
		return o.real[n] && g.posComp[n] != NoComponent && g.Find(g.posComp[n]) == id
	})
	// The pieces take the place of the component they came from, ordered among themselves as Tarjan found
	// them, so every edge holds the order without a reorder.
	slots := g.order.insertAfter(g.arena[id].slot, len(sccs))
	g.remove(id)
	first := ComponentID(len(g.arena))
	for k, scc := range sccs {
		g.create(scc, slots[len(sccs)-1-k], o.groundedCount(scc))
	}

	for _, m := range rest {
		from, _ := g.ComponentAt(int(m))
		mask := o.graph.Outgoing(int(m))
		for _, face := range cube.Faces() {
			n, ok := o.bounds.Neighbour(int(m), face)
			if !ok || !o.real[n] {
				continue
			}
			other, _ := g.ComponentAt(n)
			if mask&(1<<face) != 0 && other != from {
				g.link(from, other)
			}
			if other < first && o.graph.Outgoing(n)&(1<<face.Opposite()) != 0 {
				g.link(other, from)
			}
		}
	}
}

func (o *Overlay) groundedWeight(index int) int32 {
	if o.graph.GroundedAt(index) {
		return 1
	}
	return 0
}

func (o *Overlay) groundedCount(members []int32) int32 {
	var n int32
	for _, m := range members {
		n += o.groundedWeight(int(m))
	}
	return n
}

// build computes the collapsed graph of the real positions from scratch.
func (o *Overlay) build() *CollapsedGraph {
	g := newCollapsedGraph(o.bounds.Volume())
	roots := make([]int32, 0, o.count)
	for i, r := range o.real {
		if r {
			roots = append(roots, int32(i))
		}
	}
	sccs := o.tarjan(roots, func(n int) bool { return o.real[n] })
	slots := g.order.insertAfter(noSlot, len(sccs))
	for k, scc := range sccs {
		// Tarjan emits a component only after everything it reaches.
		g.create(scc, slots[len(sccs)-1-k], o.groundedCount(scc))
	}

	for _, i := range roots {
		mask := o.graph.Outgoing(int(i))
		for _, face := range cube.Faces() {
			if mask&(1<<face) == 0 {
				continue
			}
			n, _ := o.bounds.Neighbour(int(i), face)
			if !o.real[n] {
				continue
			}
			from, to := g.posComp[i], g.posComp[n]
			if from != to {
				g.link(from, to)
			}
		}
	}
	return g
}

type tarjanFrame struct {
	v    int32
	face int8
}

// tarjan returns the strongly connected components reachable from roots through positions for which include
// returns true, following outgoing edges. Components are returned in reverse topological order.
func (o *Overlay) tarjan(roots []int32, include func(n int) bool) [][]int32 {
	index := make(map[int32]int32, len(roots))
	low := make(map[int32]int32, len(roots))
	onStack := make(map[int32]struct{})
	var (
		stack []int32
		call  []tarjanFrame
		out   [][]int32
		next  int32
	)
	visit := func(v int32) {
		index[v], low[v] = next, next
		next++
		stack = append(stack, v)
		onStack[v] = struct{}{}
		call = append(call, tarjanFrame{v: v})
	}

	for _, root := range roots {
		if _, seen := index[root]; seen {
			continue
		}
		visit(root)
		for len(call) > 0 {
			top := len(call) - 1
			v := call[top].v
			if call[top].face < 6 {
				face := cube.Face(call[top].face)
				call[top].face++
				if o.graph.Outgoing(int(v))&(1<<face) == 0 {
					continue
				}
				n, _ := o.bounds.Neighbour(int(v), face)
				if !include(n) {
					continue
				}
				w := int32(n)
				if _, seen := index[w]; !seen {
					visit(w)
					continue
				}
				if _, ok := onStack[w]; ok && index[w] < low[v] {
					low[v] = index[w]
				}
				continue
			}

			call = call[:top]
			if top > 0 {
				if parent := call[top-1].v; low[v] < low[parent] {
					low[parent] = low[v]
				}
			}
			if low[v] != index[v] {
				continue
			}
			var scc []int32
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				delete(onStack, w)
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			out = append(out, scc)
		}
	}
	return out
}
