package dependency

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oomph-ac/blueprint/state"
	"github.com/oomph-ac/blueprint/world"
)

// Graph is the placement dependency graph of a cuboid. Every position is a node, evaluated as its target
// state or, where the target is air, as scaffolding. A directed edge A→B on face f means A can be placed by
// clicking B: A may be placed against f and B supports placement on the opposite face. A node needs only one
// of its outgoing edges to be satisfied.
type Graph struct {
	target   *world.Cuboid
	bounds   world.Bounds
	edges    []uint8
	grounded []bool
}

// New builds the dependency graph of the target cuboid.
func New(target *world.Cuboid) *Graph {
	b := target.Bounds()
	g := &Graph{
		target:   target,
		bounds:   b,
		edges:    make([]uint8, b.Volume()),
		grounded: make([]bool, b.Volume()),
	}
	for i, pos := range b.All() {
		d := g.DataAt(i)
		if pos.Y() == 0 && d.PlaceAgainst.Has(cube.FaceDown) {
			g.grounded[i] = true
		}
		for _, face := range cube.Faces() {
			if !d.PlaceAgainst.Has(face) {
				continue
			}
			n, ok := b.Neighbour(i, face)
			if ok && g.DataAt(n).SupportsAgainst.Has(face.Opposite()) {
				g.edges[i] |= 1 << face
			}
		}
	}
	return g
}

// Bounds returns the bounds of the graph.
func (g *Graph) Bounds() world.Bounds {
	return g.bounds
}

// Target returns the cuboid the graph was built from.
func (g *Graph) Target() *world.Cuboid {
	return g.target
}

// Data returns the state the node at pos is evaluated as: its target state, or scaffolding if the target is
// air.
func (g *Graph) Data(pos cube.Pos) state.Data {
	return g.DataAt(g.bounds.Index(pos))
}

// DataAt is Data by dense index.
func (g *Graph) DataAt(index int) state.Data {
	return g.target.AtIndex(index).ScaffoldingIfAir()
}

// Air returns whether the target state at index is air, meaning the node can only ever hold scaffolding.
func (g *Graph) Air(index int) bool {
	return g.target.AtIndex(index).Air
}

// OutgoingEdge returns whether the block at pos can be placed against its neighbour on face.
func (g *Graph) OutgoingEdge(pos cube.Pos, face cube.Face) bool {
	return g.edges[g.bounds.Index(pos)]&(1<<face) != 0
}

// IncomingEdge returns whether the neighbour of pos on face can be placed against the block at pos.
func (g *Graph) IncomingEdge(pos cube.Pos, face cube.Face) bool {
	n := pos.Side(face)
	if !g.bounds.InRange(n) {
		return false
	}
	return g.OutgoingEdge(n, face.Opposite())
}

// Outgoing returns the outgoing edges of index as a bitmask of faces.
func (g *Graph) Outgoing(index int) uint8 {
	return g.edges[index]
}

// Grounded returns whether the block at pos can be placed against the floor of the host world below the
// region.
func (g *Graph) Grounded(pos cube.Pos) bool {
	return g.grounded[g.bounds.Index(pos)]
}

// GroundedAt is Grounded by dense index.
func (g *Graph) GroundedAt(index int) bool {
	return g.grounded[index]
}

// Validate returns every non-air target position that can never be placed: it has no outgoing edges and
// does not rest on the ground, so no amount of scaffolding can support it.
func (g *Graph) Validate() []cube.Pos {
	var out []cube.Pos
	for i, pos := range g.bounds.All() {
		if !g.Air(i) && g.edges[i] == 0 && !g.grounded[i] {
			out = append(out, pos)
		}
	}
	return out
}
