package world

import (
	"iter"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oomph-ac/blueprint/assert"
)

// Bounds describes the size of a cuboid region with its minimum corner at (0, 0, 0), and converts between
// positions and dense indices. Indices are column major: all Y values of a column are adjacent.
type Bounds struct {
	sizeX, sizeY, sizeZ int
}

// NewBounds returns Bounds of the size passed. Every dimension must be positive.
func NewBounds(sizeX, sizeY, sizeZ int) Bounds {
	assert.IsTrue(sizeX > 0 && sizeY > 0 && sizeZ > 0, "invalid cuboid dimensions %dx%dx%d", sizeX, sizeY, sizeZ)
	assert.IsTrue(sizeX*sizeY*sizeZ > 0, "cuboid volume of %dx%dx%d overflows", sizeX, sizeY, sizeZ)
	return Bounds{sizeX: sizeX, sizeY: sizeY, sizeZ: sizeZ}
}

func (b Bounds) SizeX() int { return b.sizeX }
func (b Bounds) SizeY() int { return b.sizeY }
func (b Bounds) SizeZ() int { return b.sizeZ }

// Volume returns the number of voxels in the bounds.
func (b Bounds) Volume() int {
	return b.sizeX * b.sizeY * b.sizeZ
}

// InRange returns whether pos lies within the bounds.
func (b Bounds) InRange(pos cube.Pos) bool {
	return pos[0] >= 0 && pos[0] < b.sizeX &&
		pos[1] >= 0 && pos[1] < b.sizeY &&
		pos[2] >= 0 && pos[2] < b.sizeZ
}

// Index returns the dense index of pos. Calling Index with a position out of range is a programming error.
func (b Bounds) Index(pos cube.Pos) int {
	assert.IsTrue(b.InRange(pos), "position %v is outside %dx%dx%d bounds", pos, b.sizeX, b.sizeY, b.sizeZ)
	return (pos[0]*b.sizeZ+pos[2])*b.sizeY + pos[1]
}

// Pos returns the position of the dense index passed.
func (b Bounds) Pos(index int) cube.Pos {
	assert.IsTrue(index >= 0 && index < b.Volume(), "index %d is outside bounds of volume %d", index, b.Volume())
	y := index % b.sizeY
	column := index / b.sizeY
	return cube.Pos{column / b.sizeZ, y, column % b.sizeZ}
}

// Neighbour returns the index of the voxel next to index on the face passed, or false if it is out of range.
func (b Bounds) Neighbour(index int, face cube.Face) (int, bool) {
	pos := b.Pos(index)
	switch face {
	case cube.FaceDown:
		if pos[1] == 0 {
			return -1, false
		}
		return index - 1, true
	case cube.FaceUp:
		if pos[1] == b.sizeY-1 {
			return -1, false
		}
		return index + 1, true
	case cube.FaceNorth:
		if pos[2] == 0 {
			return -1, false
		}
		return index - b.sizeY, true
	case cube.FaceSouth:
		if pos[2] == b.sizeZ-1 {
			return -1, false
		}
		return index + b.sizeY, true
	case cube.FaceWest:
		if pos[0] == 0 {
			return -1, false
		}
		return index - b.sizeY*b.sizeZ, true
	case cube.FaceEast:
		if pos[0] == b.sizeX-1 {
			return -1, false
		}
		return index + b.sizeY*b.sizeZ, true
	}
	assert.Unreachable("neighbour across face %d", face)
	return -1, false
}

// All yields every index and position of the bounds in index order.
func (b Bounds) All() iter.Seq2[int, cube.Pos] {
	return func(yield func(int, cube.Pos) bool) {
		i := 0
		for x := 0; x < b.sizeX; x++ {
			for z := 0; z < b.sizeZ; z++ {
				for y := 0; y < b.sizeY; y++ {
					if !yield(i, cube.Pos{x, y, z}) {
						return
					}
					i++
				}
			}
		}
	}
}
