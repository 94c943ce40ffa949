package surface

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oomph-ac/blueprint/assert"
	"github.com/oomph-ac/blueprint/connectivity"
	"github.com/oomph-ac/blueprint/movement"
	"github.com/oomph-ac/blueprint/settings"
	"github.com/oomph-ac/blueprint/state"
	"github.com/oomph-ac/blueprint/world"
)

// ownedFaces are the directions in which a position owns its movement edges. Every undirected edge between
// two horizontally adjacent columns is owned by the position in the column with the lower X or Z.
var ownedFaces = [2]cube.Face{cube.FaceEast, cube.FaceSouth}

const noEdge = -1

// Surface tracks every position of a region the agent can stand in and which of those positions it can walk
// between. Blocks are placed and removed one at a time, and only the edges around the changed voxel are
// recomputed.
type Surface struct {
	model  movement.Model
	world  *world.MutableCuboid
	bounds world.Bounds

	standable []bool
	owned     [][2]int32
	forest    connectivity.Forest
}

// Option configures a Surface.
type Option func(*Surface)

// WithForest makes the Surface use the connectivity implementation returned by f.
func WithForest(f func(n int) connectivity.Forest) Option {
	return func(s *Surface) {
		s.forest = f(s.bounds.Volume())
	}
}

// New builds the navigable surface of the cuboid passed. The cuboid is copied.
func New(c *world.Cuboid, p settings.Physics, opts ...Option) *Surface {
	bounds := c.Bounds()
	s := &Surface{
		model:     movement.New(p),
		world:     c.Mutable(),
		bounds:    bounds,
		standable: make([]bool, bounds.Volume()),
		owned:     make([][2]int32, bounds.Volume()),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.forest == nil {
		s.forest = connectivity.NewEulerTour(bounds.Volume())
	}

	for i, pos := range bounds.All() {
		s.standable[i] = s.model.ColumnAt(s.world, pos).Standing()
	}
	for i := range s.owned {
		s.owned[i] = [2]int32{noEdge, noEdge}
		s.updateEdges(i)
	}
	return s
}

// Bounds returns the bounds of the region.
func (s *Surface) Bounds() world.Bounds {
	return s.bounds
}

// Model returns the movement model the surface evaluates moves with.
func (s *Surface) Model() movement.Model {
	return s.model
}

// Block returns the current state at pos.
func (s *Surface) Block(pos cube.Pos) state.Data {
	return s.world.At(pos)
}

// Snapshot returns a copy of the current blocks of the region.
func (s *Surface) Snapshot() *world.Cuboid {
	return s.world.Snapshot()
}

// PlaceBlock sets the block at pos, which must lie within the region, and updates connectivity.
func (s *Surface) PlaceBlock(pos cube.Pos, d state.Data) {
	assert.IsTrue(s.bounds.InRange(pos), "placing block outside of surface at %v", pos)
	if s.world.At(pos) == d {
		return
	}
	s.world.Set(pos, d)
	s.update(pos)
}

// RemoveBlock replaces the block at pos with air and updates connectivity.
func (s *Surface) RemoveBlock(pos cube.Pos) {
	s.PlaceBlock(pos, state.Air)
}

// Standable returns whether the agent can currently stand at pos.
func (s *Surface) Standable(pos cube.Pos) bool {
	return s.bounds.InRange(pos) && s.standable[s.bounds.Index(pos)]
}

// FeetBlips returns how high above the bottom of pos the agent's feet rest when standing at pos.
func (s *Surface) FeetBlips(pos cube.Pos) int {
	return s.model.ColumnAt(s.world, pos).FeetBlips()
}

// SurfaceSize returns the number of standable positions reachable from pos, including pos itself, or false
// if pos is not standable.
func (s *Surface) SurfaceSize(pos cube.Pos) (int, bool) {
	if !s.Standable(pos) {
		return 0, false
	}
	return s.forest.ComponentSize(s.bounds.Index(pos)), true
}

// Connected returns whether a and b are both standable and the agent can walk from one to the other.
func (s *Surface) Connected(a, b cube.Pos) bool {
	if !s.Standable(a) || !s.Standable(b) {
		return false
	}
	return s.forest.Connected(s.bounds.Index(a), s.bounds.Index(b))
}

// update recomputes standability and edges around a changed voxel. Standability of a position depends on the
// voxels from one below to three above it; an edge depends on both columns from three below to three above
// its owner and on the standability of its target up to two voxels up or down.
func (s *Surface) update(pos cube.Pos) {
	for y := pos.Y() - 3; y <= pos.Y()+1; y++ {
		p := cube.Pos{pos.X(), y, pos.Z()}
		if s.bounds.InRange(p) {
			s.standable[s.bounds.Index(p)] = s.model.ColumnAt(s.world, p).Standing()
		}
	}
	for _, column := range [3]cube.Pos{pos, pos.Side(cube.FaceWest), pos.Side(cube.FaceNorth)} {
		for y := pos.Y() - 5; y <= pos.Y()+5; y++ {
			p := cube.Pos{column.X(), y, column.Z()}
			if s.bounds.InRange(p) {
				s.updateEdges(s.bounds.Index(p))
			}
		}
	}
}

// updateEdges recomputes the edges owned by index and applies the difference to the forest.
func (s *Surface) updateEdges(index int) {
	for k, face := range ownedFaces {
		old, next := s.owned[index][k], s.edge(index, face)
		if old == next {
			continue
		}
		if old != noEdge {
			s.forest.RemoveEdge(index, int(old))
		}
		if next != noEdge {
			s.forest.AddEdge(index, int(next))
		}
		s.owned[index][k] = next
	}
}

// edge returns the index the agent reaches when moving from index in the direction of face, or noEdge.
func (s *Surface) edge(index int, face cube.Face) int32 {
	if !s.standable[index] {
		return noEdge
	}
	pos := s.bounds.Pos(index)
	n := pos.Side(face)
	if !s.bounds.InRange(n) {
		return noEdge
	}
	dy, ok := s.model.BidirectionalPlayerTravel(
		s.model.ColumnAt(s.world, pos),
		s.model.ColumnAt(s.world, n),
		s.world.At(n.Sub(cube.Pos{0, 2, 0})),
		s.world.At(n.Sub(cube.Pos{0, 3, 0})),
	)
	if !ok {
		return noEdge
	}
	target := n.Add(cube.Pos{0, dy, 0})
	if !s.bounds.InRange(target) {
		return noEdge
	}
	ti := s.bounds.Index(target)
	if !s.standable[ti] {
		return noEdge
	}
	return int32(ti)
}
