package schematic

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oomph-ac/blueprint/state"
	"github.com/oomph-ac/blueprint/world"
)

// AirToken is the token every position of a new schematic holds.
const AirToken = "minecraft:air"

// Schematic is a cuboid of block state tokens such as "minecraft:oak_stairs[facing=east]", positioned in the
// world by its origin.
type Schematic struct {
	bounds world.Bounds
	tokens []string
	origin cube.Pos
}

// New returns a schematic of the size passed filled with air.
func New(width, height, length int) *Schematic {
	b := world.NewBounds(width, height, length)
	s := &Schematic{bounds: b, tokens: make([]string, b.Volume())}
	for i := range s.tokens {
		s.tokens[i] = AirToken
	}
	return s
}

// Bounds returns the size of the schematic.
func (s *Schematic) Bounds() world.Bounds {
	return s.bounds
}

// Origin returns the world position of the minimum corner of the schematic.
func (s *Schematic) Origin() cube.Pos {
	return s.origin
}

// SetOrigin moves the schematic so that its minimum corner is at origin.
func (s *Schematic) SetOrigin(origin cube.Pos) {
	s.origin = origin
}

// Set changes the token at the schematic local position pos.
func (s *Schematic) Set(pos cube.Pos, token string) {
	s.tokens[s.bounds.Index(pos)] = token
}

// Token returns the token at the schematic local position pos.
func (s *Schematic) Token(pos cube.Pos) string {
	return s.tokens[s.bounds.Index(pos)]
}

// Resolve returns the schematic as a cuboid of Data, resolving every token through the palette passed.
func (s *Schematic) Resolve(p *state.Palette) *world.Cuboid {
	return world.NewCuboid(s.bounds, func(pos cube.Pos) state.Data {
		return p.Resolve(s.Token(pos))
	})
}
