package world

import (
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/oomph-ac/blueprint/assert"
	"github.com/oomph-ac/blueprint/state"
)

// Cuboid is a read-only region of block states. States are stored as indices into a palette of the distinct
// states in the region, so a cuboid costs two bytes per voxel.
type Cuboid struct {
	bounds  Bounds
	palette []state.Data
	ids     []uint16
}

// NewCuboid returns a Cuboid of the bounds passed with the state at every position returned by f.
func NewCuboid(bounds Bounds, f func(pos cube.Pos) state.Data) *Cuboid {
	m := FillWithAir(bounds)
	for i, pos := range bounds.All() {
		m.SetIndex(i, f(pos))
	}
	return m.Snapshot()
}

// Capture reads the region of src with its minimum corner at origin into a Cuboid.
func Capture(src world.BlockSource, origin cube.Pos, bounds Bounds) *Cuboid {
	return NewCuboid(bounds, func(pos cube.Pos) state.Data {
		return state.FromBlock(src.Block(pos.Add(origin)))
	})
}

// Bounds returns the bounds of the cuboid.
func (c *Cuboid) Bounds() Bounds {
	return c.bounds
}

// At returns the state at pos, or state.OutOfBounds if pos lies outside the cuboid.
func (c *Cuboid) At(pos cube.Pos) state.Data {
	if !c.bounds.InRange(pos) {
		return state.OutOfBounds
	}
	return c.palette[c.ids[c.bounds.Index(pos)]]
}

// AtIndex returns the state at the dense index passed.
func (c *Cuboid) AtIndex(index int) state.Data {
	return c.palette[c.ids[index]]
}

// Mutable returns a MutableCuboid holding a copy of the cuboid.
func (c *Cuboid) Mutable() *MutableCuboid {
	m := &MutableCuboid{
		Cuboid: Cuboid{
			bounds:  c.bounds,
			palette: append([]state.Data(nil), c.palette...),
			ids:     append([]uint16(nil), c.ids...),
		},
		lookup: make(map[state.Data]uint16, len(c.palette)),
	}
	for id, d := range m.palette {
		m.lookup[d] = uint16(id)
	}
	return m
}

// MutableCuboid is a Cuboid whose states can be changed, used to paint scaffolding into a region or to track
// the world while a plan is being applied.
type MutableCuboid struct {
	Cuboid
	lookup map[state.Data]uint16
}

// FillWithAir returns a MutableCuboid of the bounds passed holding only air.
func FillWithAir(bounds Bounds) *MutableCuboid {
	return &MutableCuboid{
		Cuboid: Cuboid{
			bounds:  bounds,
			palette: []state.Data{state.Air},
			ids:     make([]uint16, bounds.Volume()),
		},
		lookup: map[state.Data]uint16{state.Air: 0},
	}
}

// Set changes the state at pos, which must be within the bounds of the cuboid.
func (m *MutableCuboid) Set(pos cube.Pos, d state.Data) {
	m.SetIndex(m.bounds.Index(pos), d)
}

// SetIndex changes the state at the dense index passed.
func (m *MutableCuboid) SetIndex(index int, d state.Data) {
	id, ok := m.lookup[d]
	if !ok {
		assert.IsTrue(len(m.palette) <= math.MaxUint16, "cuboid palette exceeds %d states", math.MaxUint16+1)
		id = uint16(len(m.palette))
		m.palette = append(m.palette, d)
		m.lookup[d] = id
	}
	m.ids[index] = id
}

// Snapshot returns a read-only copy of the current contents.
func (m *MutableCuboid) Snapshot() *Cuboid {
	return &Cuboid{
		bounds:  m.bounds,
		palette: append([]state.Data(nil), m.palette...),
		ids:     append([]uint16(nil), m.ids...),
	}
}
