package game

// Blips are the sub-voxel height unit used by the movement model. A block is BlipsPerBlock blips tall, so
// every block collision height is rounded up to a whole number of blips.
const (
	BlipsPerBlock = 16

	// PlayerHeightBlips is 1.8 blocks rounded up to the next blip.
	PlayerHeightBlips = 29
	// JumpHeightBlips is the 1.25 block jump apex, floored.
	JumpHeightBlips = 20
	// StepHeightBlips is the 0.6 block auto-step, floored.
	StepHeightBlips = 9
	// HeightEpsilonBlips is subtracted from the player height when checking headroom.
	HeightEpsilonBlips = 1
)

const (
	DefaultPlayerHeightOffset = float32(1.62)
	// DefaultReach is how far from the eye a block face can be clicked in survival.
	DefaultReach = float32(4.5)
)
