package movement

import (
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oomph-ac/blueprint/settings"
	"github.com/oomph-ac/blueprint/state"
)

// openCeiling is the ceiling of a column with nothing solid above the feet voxel.
const openCeiling = math.MaxInt32 / 2

// Reader is a source of block states by position.
type Reader interface {
	At(pos cube.Pos) state.Data
}

// Model evaluates movement between voxels for one set of physics parameters.
type Model struct {
	p settings.Physics
}

// New returns a Model for the physics parameters passed.
func New(p settings.Physics) Model {
	return Model{p: p}
}

// Physics returns the parameters the model was created with.
func (m Model) Physics() settings.Physics {
	return m.p
}

// Column is a vertical stack of five voxels the agent may occupy: the block underneath its feet voxel, the
// feet voxel itself, the head voxel and two voxels above that. Heights are in blips relative to the bottom
// of the feet voxel.
type Column struct {
	Underneath, Feet, Head, Above, AboveAbove state.Data

	residency VoxelResidency
	feet      int
	ceiling   int
	standing  bool
}

// NewColumn evaluates the five voxels passed as a column.
func (m Model) NewColumn(underneath, feet, head, above, aboveAbove state.Data) Column {
	c := Column{Underneath: underneath, Feet: feet, Head: head, Above: above, AboveAbove: aboveAbove}
	c.residency, c.feet = m.Residency(underneath, feet)
	c.ceiling = m.ceiling(head, above, aboveAbove)
	c.standing = c.residency.Supported() && c.ceiling-c.feet >= m.p.RequiredHeadroom()
	return c
}

// ColumnAt returns the column with its feet voxel at pos.
func (m Model) ColumnAt(r Reader, pos cube.Pos) Column {
	return m.NewColumn(
		r.At(pos.Side(cube.FaceDown)),
		r.At(pos),
		r.At(pos.Add(cube.Pos{0, 1, 0})),
		r.At(pos.Add(cube.Pos{0, 2, 0})),
		r.At(pos.Add(cube.Pos{0, 3, 0})),
	)
}

// ceiling returns the bottom of the first colliding voxel above the feet voxel.
func (m Model) ceiling(voxels ...state.Data) int {
	for i, d := range voxels {
		if d.CollidesWithPlayer {
			return (i + 1) * m.p.BlipsPerBlock
		}
	}
	return openCeiling
}

// Standing returns whether the agent can stand in the column.
func (c Column) Standing() bool {
	return c.standing
}

// Residency returns how the agent rests in the feet voxel.
func (c Column) Residency() VoxelResidency {
	return c.residency
}

// FeetBlips returns the height of the agent's feet above the bottom of the feet voxel. It is only meaningful
// if the column is standing.
func (c Column) FeetBlips() int {
	return c.feet
}

// CeilingBlips returns the bottom of the first solid voxel above the feet voxel, or a very large value if
// the column is open.
func (c Column) CeilingBlips() int {
	return c.ceiling
}
