package game

import (
	"iter"

	"github.com/chewxy/math32"
	df_cube "github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// VoxelsBetween yields every voxel the segment from start to end passes through, in order, starting with
// the voxel containing start.
// https://github.com/pmmp/Math/blob/stable/src/VoxelRayTrace.php#L67
func VoxelsBetween(start, end mgl32.Vec3) iter.Seq[df_cube.Pos] {
	return func(yield func(df_cube.Pos) bool) {
		dir := end.Sub(start)
		radius := dir.Len()
		if radius <= 0 {
			return
		}
		dir = dir.Mul(1 / radius)

		stepX := int(PHPSpaceshipOp(dir.X(), 0))
		stepY := int(PHPSpaceshipOp(dir.Y(), 0))
		stepZ := int(PHPSpaceshipOp(dir.Z(), 0))

		tMaxX := distanceToBoundary(start.X(), dir.X())
		tMaxY := distanceToBoundary(start.Y(), dir.Y())
		tMaxZ := distanceToBoundary(start.Z(), dir.Z())

		var tDeltaX, tDeltaY, tDeltaZ float32
		if dir.X() != 0 {
			tDeltaX = float32(stepX) / dir.X()
		}
		if dir.Y() != 0 {
			tDeltaY = float32(stepY) / dir.Y()
		}
		if dir.Z() != 0 {
			tDeltaZ = float32(stepZ) / dir.Z()
		}

		current := df_cube.Pos{
			int(math32.Floor(start.X())),
			int(math32.Floor(start.Y())),
			int(math32.Floor(start.Z())),
		}
		for {
			if !yield(current) {
				return
			}

			if tMaxX < tMaxY && tMaxX < tMaxZ {
				if tMaxX > radius {
					return
				}
				current[0] += stepX
				tMaxX += tDeltaX
			} else if tMaxY < tMaxZ {
				if tMaxY > radius {
					return
				}
				current[1] += stepY
				tMaxY += tDeltaY
			} else {
				if tMaxZ > radius {
					return
				}
				current[2] += stepZ
				tMaxZ += tDeltaZ
			}
		}
	}
}

// https://github.com/pmmp/Math/blob/stable/src/VoxelRayTrace.php#L134
func distanceToBoundary(s, ds float32) float32 {
	if ds == 0 {
		return math32.MaxFloat32
	}

	if ds < 0 {
		s = -s
		ds = -ds

		if math32.Floor(s) == s {
			return 0
		}
	}

	return (1 - (s - math32.Floor(s))) / ds
}
