package builder

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/blueprint/state"
)

// Action is what the agent does in a single Step.
type Action uint8

const (
	// PlaceReal places a block of the schematic.
	PlaceReal Action = iota
	// PlaceScaffold places a temporary scaffold block.
	PlaceScaffold
	// RemoveScaffold breaks a scaffold block once it is no longer needed.
	RemoveScaffold
)

func (a Action) String() string {
	switch a {
	case PlaceReal:
		return "PlaceReal"
	case PlaceScaffold:
		return "PlaceScaffold"
	case RemoveScaffold:
		return "RemoveScaffold"
	}
	return "Unknown"
}

// Step is a single placement or removal. All positions are world positions.
type Step struct {
	// Pos is the block placed or broken.
	Pos cube.Pos
	// Action is what happens at Pos.
	Action Action
	// Against is the face of Pos the clicked block lies on. For removals it is the face of Pos looked at.
	Against cube.Face
	// Click is the point clicked.
	Click mgl64.Vec3
	// Stand is the position the agent stands in when performing the step.
	Stand cube.Pos
	// Data is the state placed, or the scaffolding removed.
	Data state.Data
}

// Plan is the full list of steps that builds a schematic.
type Plan struct {
	Steps []Step
	// ScaffoldCount is the number of scaffold blocks the plan places.
	ScaffoldCount int
	// LeftBehind holds the scaffold blocks that could not be reached for removal.
	LeftBehind []cube.Pos
	// Origin is the world position of the minimum corner of the planned region, which includes padding
	// around the schematic.
	Origin cube.Pos
	// Anchor is the world position the agent starts in.
	Anchor cube.Pos
}
