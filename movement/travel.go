package movement

import "github.com/oomph-ac/blueprint/state"

// Collision is the classification of a single move of the agent into a horizontally adjacent column.
type Collision uint8

const (
	// Blocked means the move is impossible.
	Blocked Collision = iota
	// Fall means the agent can walk off into the column but has nothing to land on at its own level.
	Fall
	// VoxelLevel means the agent walks into the column without changing voxel, stepping if needed.
	VoxelLevel
	// VoxelUp means the agent walks up into the voxel above, within its step height.
	VoxelUp
	// JumpToVoxelLevel means the agent jumps onto something in the same voxel, such as a bed.
	JumpToVoxelLevel
	// JumpToVoxelUp means the agent jumps into the voxel above.
	JumpToVoxelUp
	// JumpToVoxelTwoUp means the agent jumps from a high support onto something two voxels up.
	JumpToVoxelTwoUp
)

func (c Collision) String() string {
	switch c {
	case Blocked:
		return "blocked"
	case Fall:
		return "fall"
	case VoxelLevel:
		return "voxel level"
	case VoxelUp:
		return "voxel up"
	case JumpToVoxelLevel:
		return "jump to voxel level"
	case JumpToVoxelUp:
		return "jump to voxel up"
	case JumpToVoxelTwoUp:
		return "jump to voxel two up"
	}
	return "unknown"
}

// VoxelDelta returns the change in voxel Y of the move, or false if the move does not end at a known level.
func (c Collision) VoxelDelta() (int, bool) {
	switch c {
	case VoxelLevel, JumpToVoxelLevel:
		return 0, true
	case VoxelUp, JumpToVoxelUp:
		return 1, true
	case JumpToVoxelTwoUp:
		return 2, true
	}
	return 0, false
}

// stack holds the voxels of a destination column from three below its feet voxel to three above it.
type stack [7]state.Data

func newStack(to Column, belowBelow, belowBelowBelow state.Data) stack {
	return stack{belowBelowBelow, belowBelow, to.Underneath, to.Feet, to.Head, to.Above, to.AboveAbove}
}

// at returns the voxel offset voxels above the feet voxel of the destination. Voxels outside the stack are
// treated as air; no move ever depends on them.
func (s *stack) at(offset int) state.Data {
	if offset < -3 || offset > 3 {
		return state.Air
	}
	return s[offset+3]
}

func (m Model) level(s *stack, dy int) Column {
	return m.NewColumn(s.at(dy-1), s.at(dy), s.at(dy+1), s.at(dy+2), s.at(dy+3))
}

// ceilingAt returns the ceiling of the level dy voxels up, scanning as much of the stack as is known, in blips
// relative to the bottom of the destination feet voxel.
func (m Model) ceilingAt(s *stack, dy int) int {
	for offset := dy + 1; offset <= 3; offset++ {
		if s.at(offset).CollidesWithPlayer {
			return offset * m.p.BlipsPerBlock
		}
	}
	return openCeiling
}

// linked checks if the standing agent at floor f1 under ceiling c1 and the standing level dy voxels up with
// feet feet2 can move between each other. The check is symmetric in both positions.
func (m Model) linked(f1, c1, dy, feet2, c2 int) bool {
	f2 := dy*m.p.BlipsPerBlock + feet2
	diff := f2 - f1
	if diff > m.p.MaxJumpBlips || -diff > m.p.MaxJumpBlips {
		return false
	}
	return min(c1, c2)-max(f1, f2) >= m.p.RequiredHeadroom()
}

// PlayerTravelCollides classifies the move of an agent standing in from into the horizontally adjacent
// column to, where both columns have their feet voxel at the same Y.
func (m Model) PlayerTravelCollides(from, to Column) Collision {
	if !from.Standing() {
		return Blocked
	}
	s := newStack(to, state.Air, state.Air)
	f1, c1 := from.FeetBlips(), from.CeilingBlips()
	for dy := 0; dy <= 2; dy++ {
		col := m.level(&s, dy)
		if !col.Standing() || !m.linked(f1, c1, dy, col.FeetBlips(), m.ceilingAt(&s, dy)) {
			continue
		}
		diff := dy*m.p.BlipsPerBlock + col.FeetBlips() - f1
		switch {
		case dy == 0 && diff <= m.p.StepBlips:
			return VoxelLevel
		case dy == 0:
			return JumpToVoxelLevel
		case dy == 1 && diff <= m.p.StepBlips:
			return VoxelUp
		case dy == 1:
			return JumpToVoxelUp
		default:
			return JumpToVoxelTwoUp
		}
	}

	if r, _ := m.Residency(to.Underneath, to.Feet); r == Floating && !to.Feet.CollidesWithPlayer &&
		min(c1, m.ceilingAt(&s, 0))-f1 >= m.p.RequiredHeadroom() {
		return Fall
	}
	return Blocked
}

// travelOrder is the order in which destination levels are tried. Lower deltas win so that a move and its
// reverse always pick the same pair of positions.
var travelOrder = [...]int{0, -1, 1, -2, 2}

// BidirectionalPlayerTravel returns the voxel Y delta of a move from the standing column from into the
// horizontally adjacent column to that the agent can also make in reverse. belowBelow and belowBelowBelow
// are the two voxels under to's underneath voxel. If no such move exists, false is returned. The result is
// exactly reversible: if a move from A to B yields dy, the move from B shifted by dy back to A shifted by
// dy yields -dy.
func (m Model) BidirectionalPlayerTravel(from, to Column, belowBelow, belowBelowBelow state.Data) (int, bool) {
	if !from.Standing() {
		return 0, false
	}
	s := newStack(to, belowBelow, belowBelowBelow)
	f1, c1 := from.FeetBlips(), from.CeilingBlips()
	for _, dy := range travelOrder {
		col := m.level(&s, dy)
		if col.Standing() && m.linked(f1, c1, dy, col.FeetBlips(), m.ceilingAt(&s, dy)) {
			return dy, true
		}
	}
	return 0, false
}
