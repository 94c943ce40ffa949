package state

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oomph-ac/blueprint/game"
)

// FaceSet is a set of block faces, one bit per cube.Face.
type FaceSet uint8

const (
	NoFaces  FaceSet = 0
	AllFaces FaceSet = 1<<6 - 1
)

// FacesOf returns a FaceSet holding the faces passed.
func FacesOf(faces ...cube.Face) FaceSet {
	var s FaceSet
	for _, f := range faces {
		s |= 1 << f
	}
	return s
}

// Has returns whether face is in the set.
func (s FaceSet) Has(face cube.Face) bool {
	return s&(1<<face) != 0
}

// Data is the cached, immutable description of a block state as far as movement and placement are
// concerned. Data is a value type and is comparable.
type Data struct {
	// Name is the namespaced identifier of the block, e.g. minecraft:oak_slab.
	Name string
	// Air is true for states that count as empty space in a schematic.
	Air bool
	// CollidesWithPlayer is true if any part of the block blocks movement.
	CollidesWithPlayer bool
	// CollisionHeight is the top of the highest collision box, in blocks from the bottom of the voxel.
	// Fences and walls reach 1.5.
	CollisionHeight float32
	// FullyWalkableTop is true if the agent can stand on the top of the collision boxes.
	FullyWalkableTop bool
	// PlaceAgainst holds the faces f for which this block can be placed by clicking the neighbour on
	// side f.
	PlaceAgainst FaceSet
	// SupportsAgainst holds the faces of this block that other blocks can be placed against.
	SupportsAgainst FaceSet
}

var (
	// Air is empty space.
	Air = Data{Name: "minecraft:air", Air: true}
	// Scaffolding is the temporary block used to support unsupported parts of a build. It is placeable
	// against and supports every face.
	Scaffolding = Solid("blueprint:scaffolding")
	// OutOfBounds is returned for reads outside a cuboid. It is solid so that the agent never walks out of the
	// region, but nothing can be placed against it.
	OutOfBounds = Data{
		Name:               "blueprint:out_of_bounds",
		CollidesWithPlayer: true,
		CollisionHeight:    1,
		FullyWalkableTop:   true,
	}
)

// Solid returns the data of a plain full cube with the name passed.
func Solid(name string) Data {
	return Data{
		Name:               name,
		CollidesWithPlayer: true,
		CollisionHeight:    1,
		FullyWalkableTop:   true,
		PlaceAgainst:       AllFaces,
		SupportsAgainst:    AllFaces,
	}
}

// HeightBlips returns the collision height of the block in blips at the resolution passed, or 0 if it does
// not collide.
func (d Data) HeightBlips(blipsPerBlock int) int {
	if !d.CollidesWithPlayer {
		return 0
	}
	return game.HeightToBlips(d.CollisionHeight, blipsPerBlock)
}

// Sentinel returns whether d is one of the package level sentinels rather than data derived from a block.
func (d Data) Sentinel() bool {
	return d == Air || d == Scaffolding || d == OutOfBounds
}

// ScaffoldingIfAir returns Scaffolding if d is air, or d itself otherwise. The dependency graph uses it to
// treat every empty position of a schematic as a possible scaffold.
func (d Data) ScaffoldingIfAir() Data {
	if d.Air {
		return Scaffolding
	}
	return d
}
