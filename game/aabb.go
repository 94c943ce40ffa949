package game

import (
	"github.com/chewxy/math32"
	df_cube "github.com/df-mc/dragonfly/server/block/cube"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// DFBoxToCubeBox converts a dragonfly bounding box to a float32-cube bounding box.
func DFBoxToCubeBox(b df_cube.BBox) cube.BBox {
	return cube.Box(
		float32(b.Min().X()), float32(b.Min().Y()), float32(b.Min().Z()),
		float32(b.Max().X()), float32(b.Max().Y()), float32(b.Max().Z()),
	)
}

// BlockBox returns the full unit box occupied by the voxel at pos.
func BlockBox(pos df_cube.Pos) cube.BBox {
	x, y, z := float32(pos.X()), float32(pos.Y()), float32(pos.Z())
	return cube.Box(x, y, z, x+1, y+1, z+1)
}

// EyePosition returns the eye of a player standing in the voxel at feet, with its feet feetBlips above the
// bottom of that voxel.
func EyePosition(feet df_cube.Pos, feetBlips, blipsPerBlock int) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(feet.X()) + 0.5,
		float32(feet.Y()) + float32(feetBlips)/float32(blipsPerBlock) + DefaultPlayerHeightOffset,
		float32(feet.Z()) + 0.5,
	}
}

// AABBVectorDistance calculates the distance between an AABB and a vector.
func AABBVectorDistance(a cube.BBox, v mgl32.Vec3) float32 {
	x := math32.Max(a.Min().X()-v.X(), math32.Max(0, v.X()-a.Max().X()))
	y := math32.Max(a.Min().Y()-v.Y(), math32.Max(0, v.Y()-a.Max().Y()))
	z := math32.Max(a.Min().Z()-v.Z(), math32.Max(0, v.Z()-a.Max().Z()))

	dist := math32.Sqrt(x*x + y*y + z*z)
	if math32.IsNaN(dist) {
		dist = 0
	}
	return dist
}

// BoxHeight returns the highest point of the boxes passed, or 0 if there are none.
func BoxHeight(boxes []cube.BBox) float32 {
	var h float32
	for _, b := range boxes {
		h = math32.Max(h, b.Max().Y())
	}
	return h
}
