package scaffolder

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/gammazero/deque"
	"github.com/oomph-ac/blueprint/assert"
	"github.com/oomph-ac/blueprint/dependency"
	"github.com/oomph-ac/blueprint/scaffolding"
	"github.com/oomph-ac/blueprint/state"
	"github.com/oomph-ac/blueprint/world"
	"github.com/zyedidia/generic/mapset"
)

// Output is the result of a scaffolder run.
type Output struct {
	overlay     *scaffolding.Overlay
	scaffolding []int
	scaffolds   mapset.Set[int]
	order       []int
	// resolved holds the scaffold count added for each unsupported component, keyed by the position of its
	// lowest member, in the order the components were resolved.
	resolved *orderedmap.OrderedMap[cube.Pos, int]
}

func newOutput(o *scaffolding.Overlay) *Output {
	return &Output{
		overlay:   o,
		scaffolds: mapset.New[int](),
		resolved:  orderedmap.NewOrderedMap[cube.Pos, int](),
	}
}

func (out *Output) resolve(lowest, count int) {
	pos := out.Graph().Bounds().Pos(lowest)
	prev, _ := out.resolved.Get(pos)
	out.resolved.Set(pos, prev+count)
}

// Resolved returns, for every component that needed scaffolding, the position of its lowest member and the
// number of scaffold blocks added for it, in the order the components were resolved. The map must not be
// modified.
func (out *Output) Resolved() *orderedmap.OrderedMap[cube.Pos, int] {
	return out.resolved
}

func (out *Output) add(index int) {
	out.scaffolding = append(out.scaffolding, index)
	out.scaffolds.Put(index)
}

// Overlay returns the overlay with the target blocks and all scaffolding enabled.
func (out *Output) Overlay() *scaffolding.Overlay {
	return out.overlay
}

// Graph returns the dependency graph the scaffolder ran over.
func (out *Output) Graph() *dependency.Graph {
	return out.overlay.Graph()
}

// Scaffolding returns the positions that were turned into scaffolding, in the order they were added.
func (out *Output) Scaffolding() []cube.Pos {
	return out.positions(out.scaffolding)
}

// ScaffoldCount returns the number of scaffold blocks added.
func (out *Output) ScaffoldCount() int {
	return len(out.scaffolding)
}

// IsScaffolding returns whether pos was turned into scaffolding.
func (out *Output) IsScaffolding(pos cube.Pos) bool {
	b := out.Graph().Bounds()
	return b.InRange(pos) && out.scaffolds.Has(b.Index(pos))
}

// Order returns every real position, target blocks and scaffolding alike, in an order in which each block
// comes after a block it can be placed against, or rests on the ground.
func (out *Output) Order() []cube.Pos {
	return out.positions(out.order)
}

// Solved returns the target cuboid with every scaffold position holding scaffolding.
func (out *Output) Solved() *world.Cuboid {
	m := out.Graph().Target().Mutable()
	for _, index := range out.scaffolding {
		m.SetIndex(index, state.Scaffolding)
	}
	return m.Snapshot()
}

func (out *Output) positions(indices []int) []cube.Pos {
	b := out.Graph().Bounds()
	pos := make([]cube.Pos, len(indices))
	for i, index := range indices {
		pos[i] = b.Pos(index)
	}
	return pos
}

// placementOrder walks incoming edges breadth first from every grounded real position, so each position is
// reached from a position it can be placed against.
func placementOrder(o *scaffolding.Overlay) []int {
	g := o.Graph()
	b := g.Bounds()
	visited := make([]bool, b.Volume())
	order := make([]int, 0, o.RealCount())

	var queue deque.Deque[int]
	for i := range b.Volume() {
		if o.RealAt(i) && g.GroundedAt(i) {
			visited[i] = true
			queue.PushBack(i)
		}
	}
	for queue.Len() > 0 {
		index := queue.PopFront()
		order = append(order, index)
		for _, face := range cube.Faces() {
			n, ok := b.Neighbour(index, face)
			if !ok || visited[n] || !o.RealAt(n) || g.Outgoing(n)&(1<<face.Opposite()) == 0 {
				continue
			}
			visited[n] = true
			queue.PushBack(n)
		}
	}
	assert.IsTrue(len(order) == o.RealCount(), "placement order reaches %d of %d real positions", len(order), o.RealCount())
	return order
}
