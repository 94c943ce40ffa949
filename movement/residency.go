package movement

import "github.com/oomph-ac/blueprint/state"

// VoxelResidency describes how the agent would rest with its feet in a voxel, given the voxel and the one
// underneath it.
type VoxelResidency uint8

const (
	// Floating means there is nothing to stand on.
	Floating VoxelResidency = iota
	// StandardWithinSupport means the agent stands on a partial block inside the feet voxel, e.g. a slab.
	StandardWithinSupport
	// UnderneathProtrudes means the agent stands on the block underneath, at or above its full height.
	UnderneathProtrudes
	// PreventedByUnderneath means the block underneath sticks up into the feet voxel but cannot be stood on.
	PreventedByUnderneath
	// PreventedByWithin means the block in the feet voxel cannot be stood on.
	PreventedByWithin
	// ImpossibleWithoutSuffocating means the feet voxel is a full block.
	ImpossibleWithoutSuffocating
)

func (r VoxelResidency) String() string {
	switch r {
	case Floating:
		return "floating"
	case StandardWithinSupport:
		return "standard within support"
	case UnderneathProtrudes:
		return "underneath protrudes"
	case PreventedByUnderneath:
		return "prevented by underneath"
	case PreventedByWithin:
		return "prevented by within"
	case ImpossibleWithoutSuffocating:
		return "impossible without suffocating"
	}
	return "unknown"
}

// Supported returns whether the agent can rest on something in this residency.
func (r VoxelResidency) Supported() bool {
	return r == StandardWithinSupport || r == UnderneathProtrudes
}

// Residency returns how the agent rests in the voxel within, and the height of its feet above the bottom of
// that voxel in blips when it is supported.
func (m Model) Residency(underneath, within state.Data) (VoxelResidency, int) {
	bpb := m.p.BlipsPerBlock
	if within.CollidesWithPlayer {
		wh := within.HeightBlips(bpb)
		if underneath.CollidesWithPlayer {
			if protrusion := underneath.HeightBlips(bpb) - bpb; protrusion > wh {
				if underneath.FullyWalkableTop {
					return UnderneathProtrudes, protrusion
				}
				return PreventedByUnderneath, 0
			}
		}
		if !within.FullyWalkableTop {
			return PreventedByWithin, 0
		}
		if wh >= bpb {
			return ImpossibleWithoutSuffocating, 0
		}
		return StandardWithinSupport, wh
	}

	if !underneath.CollidesWithPlayer {
		return Floating, 0
	}
	if !underneath.FullyWalkableTop {
		return PreventedByUnderneath, 0
	}
	uh := underneath.HeightBlips(bpb)
	if uh < bpb {
		// A partial block one voxel down: the agent falls into the voxel below.
		return Floating, 0
	}
	return UnderneathProtrudes, uh - bpb
}
