package scaffolding

import (
	"github.com/oomph-ac/blueprint/assert"
)

// RecheckEntireCollapsedGraph recomputes the collapsed graph from scratch and panics if the incrementally
// maintained one differs from it in any way: the partition of real positions into components, the edges
// between components and their multiplicities, grounded counts, or the validity of the topological order.
func (o *Overlay) RecheckEntireCollapsedGraph() {
	fresh := o.build()
	g := o.collapsed
	assert.IsTrue(g.live == fresh.live, "incremental collapsed graph has %d components, recomputation has %d", g.live, fresh.live)

	toFresh := make(map[ComponentID]ComponentID, g.live)
	fromFresh := make(map[ComponentID]ComponentID, g.live)
	for i := range o.real {
		id, ok := g.ComponentAt(i)
		if !o.real[i] {
			assert.IsTrue(!ok, "air position %v belongs to component %d", o.bounds.Pos(i), id)
			continue
		}
		assert.IsTrue(ok && g.arena[id].live, "real position %v has no live component", o.bounds.Pos(i))
		want, _ := fresh.ComponentAt(i)
		if prev, seen := toFresh[id]; seen {
			assert.IsTrue(prev == want, "component %d spans recomputed components %d and %d", id, prev, want)
			continue
		}
		if prev, seen := fromFresh[want]; seen {
			assert.IsTrue(prev == id, "recomputed component %d is split into %d and %d", want, prev, id)
		}
		toFresh[id], fromFresh[want] = want, id
	}
	assert.IsTrue(len(toFresh) == g.live, "%d live components hold real positions, %d are live", len(toFresh), g.live)

	slots, prev := 0, int64(0)
	for s := g.order.head; s != noSlot; s = g.order.slots[s].next {
		sl := g.order.slots[s]
		assert.IsTrue(sl.label > prev, "slot %d has label %d after label %d", s, sl.label, prev)
		assert.IsTrue(g.arena[sl.comp].live && g.arena[sl.comp].slot == s, "slot %d is held by component %d, which is not live there", s, sl.comp)
		prev = sl.label
		slots++
	}
	assert.IsTrue(slots == g.live && g.order.len == g.live, "order holds %d slots (%d counted), %d components are live", g.order.len, slots, g.live)

	for id, want := range toFresh {
		c, f := &g.arena[id], &fresh.arena[want]
		assert.IsTrue(c.deletedInto == id, "live component %d is marked as merged into %d", id, c.deletedInto)
		assert.IsTrue(len(c.members) == len(f.members), "component %d has %d members, expected %d", id, len(c.members), len(f.members))
		assert.IsTrue(c.grounded == f.grounded, "component %d has %d grounded members, expected %d", id, c.grounded, f.grounded)
		assert.IsTrue(c.slot != noSlot && g.order.slots[c.slot].comp == id, "component %d does not hold its slot %d", id, c.slot)
		assert.IsTrue(len(c.outgoing) == len(f.outgoing), "component %d has %d outgoing edges, expected %d", id, len(c.outgoing), len(f.outgoing))
		assert.IsTrue(len(c.incoming) == len(f.incoming), "component %d has %d incoming edges, expected %d", id, len(c.incoming), len(f.incoming))
		for y, n := range c.outgoing {
			assert.IsTrue(g.arena[y].live, "component %d has an edge to dead component %d", id, y)
			assert.IsTrue(g.Ord(id) < g.Ord(y), "edge %d→%d violates the order: %d ≥ %d", id, y, g.Ord(id), g.Ord(y))
			assert.IsTrue(g.arena[y].incoming[id] == n, "edge %d→%d has multiplicity %d, reverse has %d", id, y, n, g.arena[y].incoming[id])
			assert.IsTrue(f.outgoing[toFresh[y]] == n, "edge %d→%d has multiplicity %d, expected %d", id, y, n, f.outgoing[toFresh[y]])
		}
	}
}
