package scaffolding

import (
	"cmp"
	"slices"
)

// ComponentID addresses a component in the arena of a CollapsedGraph. IDs are never reused: a component that
// is merged into another keeps pointing at it, and Find resolves an ID to the live component it ended up in.
type ComponentID int32

// NoComponent is returned for positions that are not real.
const NoComponent ComponentID = -1

type component struct {
	members  []int32
	outgoing map[ComponentID]int32
	incoming map[ComponentID]int32
	// slot is the place of the component in the order.
	slot int32
	// deletedInto is the component this one was merged into, or the component itself.
	deletedInto ComponentID
	live        bool
	grounded    int32
}

// CollapsedGraph is the dependency graph over the real positions of an Overlay with every strongly connected
// component contracted into a single node. It is always acyclic, and every component has an ord such that
// each edge points from a lower to a higher ord. Edges carry the number of position level edges they stand
// for.
type CollapsedGraph struct {
	arena   []component
	posComp []ComponentID
	live    int
	order   order

	fwdMark, bwdMark   []uint32
	fwdEpoch, bwdEpoch uint32
}

func newCollapsedGraph(volume int) *CollapsedGraph {
	g := &CollapsedGraph{posComp: make([]ComponentID, volume), order: newOrder()}
	for i := range g.posComp {
		g.posComp[i] = NoComponent
	}
	return g
}

// Find returns the live component id was merged into, compressing the path it followed.
func (g *CollapsedGraph) Find(id ComponentID) ComponentID {
	root := id
	for g.arena[root].deletedInto != root {
		root = g.arena[root].deletedInto
	}
	for id != root {
		next := g.arena[id].deletedInto
		g.arena[id].deletedInto = root
		id = next
	}
	return root
}

// ComponentAt returns the component holding the position at index, or false if the position is not real.
func (g *CollapsedGraph) ComponentAt(index int) (ComponentID, bool) {
	id := g.posComp[index]
	if id == NoComponent {
		return NoComponent, false
	}
	id = g.Find(id)
	g.posComp[index] = id
	return id, true
}

// Len returns the number of live components.
func (g *CollapsedGraph) Len() int {
	return g.live
}

// Live returns whether id is a component that has been neither merged nor removed.
func (g *CollapsedGraph) Live(id ComponentID) bool {
	return g.arena[id].live
}

// Members returns the dense indices of the positions in the component. The slice must not be modified.
func (g *CollapsedGraph) Members(id ComponentID) []int32 {
	return g.arena[id].members
}

// Ord returns the position of a live component in the topological order of the graph. Ords are not dense and
// change as the graph changes, but an edge always points from a lower to a higher ord.
func (g *CollapsedGraph) Ord(id ComponentID) int64 {
	return g.order.label(g.arena[id].slot)
}

// Grounded returns whether any member of the component rests on the ground.
func (g *CollapsedGraph) Grounded(id ComponentID) bool {
	return g.arena[id].grounded > 0
}

// OutDegree returns the number of components id has edges to.
func (g *CollapsedGraph) OutDegree(id ComponentID) int {
	return len(g.arena[id].outgoing)
}

// Outgoing returns the components id has edges to, in ascending order.
func (g *CollapsedGraph) Outgoing(id ComponentID) []ComponentID {
	return sortedKeys(g.arena[id].outgoing)
}

// Incoming returns the components with edges to id, in ascending order.
func (g *CollapsedGraph) Incoming(id ComponentID) []ComponentID {
	return sortedKeys(g.arena[id].incoming)
}

// Components returns every live component in topological order: dependants before the components they are
// placed against.
func (g *CollapsedGraph) Components() []ComponentID {
	out := make([]ComponentID, 0, g.live)
	for s := g.order.head; s != noSlot; s = g.order.slots[s].next {
		out = append(out, g.order.slots[s].comp)
	}
	return out
}

func sortedKeys(m map[ComponentID]int32) []ComponentID {
	out := make([]ComponentID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// create adds a component holding the slot passed, which must not be held by another component.
func (g *CollapsedGraph) create(members []int32, s int32, grounded int32) ComponentID {
	id := ComponentID(len(g.arena))
	g.order.slots[s].comp = id
	g.arena = append(g.arena, component{
		members:     members,
		slot:        s,
		deletedInto: id,
		live:        true,
		grounded:    grounded,
	})
	for _, m := range members {
		g.posComp[m] = id
	}
	g.live++
	return id
}

// remove deletes a live component together with its edges.
func (g *CollapsedGraph) remove(id ComponentID) {
	c := &g.arena[id]
	for y := range c.outgoing {
		delete(g.arena[y].incoming, id)
	}
	for y := range c.incoming {
		delete(g.arena[y].outgoing, id)
	}
	g.order.unlink(c.slot)
	c.members, c.outgoing, c.incoming = nil, nil, nil
	c.slot = noSlot
	c.live = false
	g.live--
}

// link records one more position level edge from a to b without touching the order.
func (g *CollapsedGraph) link(a, b ComponentID) (first bool) {
	return g.addCount(a, b, 1) == 1
}

// addCount adds n to the multiplicity of the edge a→b and returns the new multiplicity.
func (g *CollapsedGraph) addCount(a, b ComponentID, n int32) int32 {
	ca := &g.arena[a]
	if ca.outgoing == nil {
		ca.outgoing = make(map[ComponentID]int32)
	}
	ca.outgoing[b] += n

	cb := &g.arena[b]
	if cb.incoming == nil {
		cb.incoming = make(map[ComponentID]int32)
	}
	cb.incoming[a] += n
	return ca.outgoing[b]
}

// addEdge records a position level edge from a to b and restores the topological order, merging every
// component on a cycle the edge closes.
func (g *CollapsedGraph) addEdge(a, b ComponentID) {
	if a == b {
		return
	}
	if !g.link(a, b) || g.Ord(a) < g.Ord(b) {
		return
	}
	g.reorder(a, b)
}

// reorder restores the order after adding the edge a→b with ord(a) > ord(b), only visiting components with
// ords between the two.
func (g *CollapsedGraph) reorder(a, b ComponentID) {
	lb, ub := g.Ord(b), g.Ord(a)
	fwd, cycle := g.searchForward(b, ub, a)
	bwd := g.searchBackward(a, lb)

	if !cycle {
		g.assign(g.slotsOf(bwd, fwd), bwd, nil, fwd)
		return
	}

	var cyc, fPrime, bPrime []ComponentID
	for _, id := range fwd {
		if g.bwdMark[id] == g.bwdEpoch {
			cyc = append(cyc, id)
		} else {
			fPrime = append(fPrime, id)
		}
	}
	for _, id := range bwd {
		if g.fwdMark[id] != g.fwdEpoch {
			bPrime = append(bPrime, id)
		}
	}
	pool := g.slotsOf(fwd, bPrime)
	merged := g.mergeAll(cyc)
	g.assign(pool, bPrime, []ComponentID{merged}, fPrime)
}

// assign hands out the slots in pool to the components passed in the order low, mid, high, keeping the
// relative order within low and high. Slots left over are unlinked.
func (g *CollapsedGraph) assign(pool []int32, low, mid, high []ComponentID) {
	slices.SortFunc(pool, func(a, b int32) int {
		return cmp.Compare(g.order.label(a), g.order.label(b))
	})
	byOrd := func(a, b ComponentID) int {
		return cmp.Compare(g.Ord(a), g.Ord(b))
	}
	slices.SortFunc(low, byOrd)
	slices.SortFunc(high, byOrd)

	put := func(id ComponentID, s int32) {
		g.arena[id].slot = s
		g.order.slots[s].comp = id
	}
	for i, id := range low {
		put(id, pool[i])
	}
	for i, id := range mid {
		put(id, pool[len(low)+i])
	}
	for i, id := range high {
		put(id, pool[len(pool)-len(high)+i])
	}
	for _, s := range pool[len(low)+len(mid) : len(pool)-len(high)] {
		g.order.unlink(s)
	}
}

func (g *CollapsedGraph) slotsOf(groups ...[]ComponentID) []int32 {
	var pool []int32
	for _, group := range groups {
		for _, id := range group {
			pool = append(pool, g.arena[id].slot)
		}
	}
	return pool
}

func (g *CollapsedGraph) growMarks() {
	for len(g.fwdMark) < len(g.arena) {
		g.fwdMark = append(g.fwdMark, 0)
		g.bwdMark = append(g.bwdMark, 0)
	}
}

// searchForward returns every component reachable from start through components with an ord of at most ub,
// and whether target was among them.
func (g *CollapsedGraph) searchForward(start ComponentID, ub int64, target ComponentID) ([]ComponentID, bool) {
	g.growMarks()
	g.fwdEpoch++
	found := false
	visited := []ComponentID{start}
	g.fwdMark[start] = g.fwdEpoch
	stack := []ComponentID{start}
	visit := func(next ComponentID) {
		if g.fwdMark[next] == g.fwdEpoch || g.Ord(next) > ub {
			return
		}
		g.fwdMark[next] = g.fwdEpoch
		visited = append(visited, next)
		stack = append(stack, next)
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == target {
			found = true
		}
		c := &g.arena[id]
		if !g.order.within(c.slot, true, ub, len(c.outgoing)) {
			for next := range c.outgoing {
				visit(next)
			}
			continue
		}
		// Fewer components sit between id and ub than id has edges to.
		for s := g.order.slots[c.slot].next; s != noSlot && g.order.label(s) <= ub; s = g.order.slots[s].next {
			if next := g.order.slots[s].comp; c.outgoing[next] > 0 {
				visit(next)
			}
		}
	}
	return visited, found
}

// searchBackward returns every component that reaches start through components with an ord of at least lb.
func (g *CollapsedGraph) searchBackward(start ComponentID, lb int64) []ComponentID {
	g.growMarks()
	g.bwdEpoch++
	visited := []ComponentID{start}
	g.bwdMark[start] = g.bwdEpoch
	stack := []ComponentID{start}
	visit := func(prev ComponentID) {
		if g.bwdMark[prev] == g.bwdEpoch || g.Ord(prev) < lb {
			return
		}
		g.bwdMark[prev] = g.bwdEpoch
		visited = append(visited, prev)
		stack = append(stack, prev)
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		c := &g.arena[id]
		if !g.order.within(c.slot, false, lb, len(c.incoming)) {
			for prev := range c.incoming {
				visit(prev)
			}
			continue
		}
		for s := g.order.slots[c.slot].prev; s != noSlot && g.order.label(s) >= lb; s = g.order.slots[s].prev {
			if prev := g.order.slots[s].comp; c.incoming[prev] > 0 {
				visit(prev)
			}
		}
	}
	return visited
}

// mergeAll merges the components passed into the one with the most members and returns it.
func (g *CollapsedGraph) mergeAll(ids []ComponentID) ComponentID {
	into := ids[0]
	for _, id := range ids[1:] {
		if len(g.arena[id].members) > len(g.arena[into].members) {
			into = id
		}
	}
	for _, id := range ids {
		if id != into {
			g.mergeInto(id, into)
		}
	}
	return into
}

func (g *CollapsedGraph) mergeInto(id, into ComponentID) {
	c := &g.arena[id]
	for y, n := range c.outgoing {
		delete(g.arena[y].incoming, id)
		if y == into {
			continue
		}
		g.addCount(into, y, n)
	}
	for y, n := range c.incoming {
		delete(g.arena[y].outgoing, id)
		if y == into {
			continue
		}
		g.addCount(y, into, n)
	}

	t := &g.arena[into]
	t.members = append(t.members, c.members...)
	t.grounded += c.grounded
	c.members, c.outgoing, c.incoming = nil, nil, nil
	c.slot = noSlot
	c.live = false
	c.deletedInto = into
	g.live--
}
