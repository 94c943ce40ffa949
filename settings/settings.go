package settings

import (
	"errors"
	"fmt"
	"os"

	"github.com/oomph-ac/blueprint/game"
	"github.com/pelletier/go-toml"
)

// Settings contains everything that can be configured for a planning run.
type Settings struct {
	Physics Physics
	Planner Planner
}

// Physics holds the movement parameters, all in blips.
type Physics struct {
	// BlipsPerBlock is the height resolution of a single voxel.
	BlipsPerBlock int
	// MaxJumpBlips is the largest rise between two floors the agent can jump.
	MaxJumpBlips int
	// StepBlips is the largest rise the agent walks up without jumping.
	StepBlips int
	// PlayerHeightBlips is the height of the agent's collision box.
	PlayerHeightBlips int
	// HeightEpsilonBlips is subtracted from PlayerHeightBlips when checking headroom.
	HeightEpsilonBlips int
}

// Planner holds the parameters of physical sequencing.
type Planner struct {
	// Reach is the maximum eye-to-block distance at which a block can be placed or broken.
	Reach float32
	// HorizontalPadding is the number of air columns added around the schematic for the agent to walk in.
	HorizontalPadding int
	// Headroom is the number of air layers added above the schematic.
	Headroom int
	// RemoveScaffolding is whether temporary scaffold blocks are broken once the build is complete.
	RemoveScaffolding bool
	// LineOfSight requires the ray from the agent's eye to the clicked face to be free of other blocks.
	LineOfSight bool
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	s := Settings{}
	s.Physics = DefaultPhysics()

	s.Planner.Reach = game.DefaultReach
	s.Planner.HorizontalPadding = 2
	s.Planner.Headroom = 3
	s.Planner.RemoveScaffolding = true
	return s
}

// DefaultPhysics returns the default physics parameters.
func DefaultPhysics() Physics {
	return Physics{
		BlipsPerBlock:      game.BlipsPerBlock,
		MaxJumpBlips:       game.JumpHeightBlips,
		StepBlips:          game.StepHeightBlips,
		PlayerHeightBlips:  game.PlayerHeightBlips,
		HeightEpsilonBlips: game.HeightEpsilonBlips,
	}
}

// RequiredHeadroom returns the free vertical space, in blips, the agent needs above its floor.
func (p Physics) RequiredHeadroom() int {
	return p.PlayerHeightBlips - p.HeightEpsilonBlips
}

// Validate returns an error if the physics parameters describe an agent the movement model cannot
// reason about.
func (p Physics) Validate() error {
	switch {
	case p.BlipsPerBlock <= 0:
		return fmt.Errorf("blips per block must be positive, got %d", p.BlipsPerBlock)
	case p.StepBlips < 0 || p.StepBlips > p.MaxJumpBlips:
		return fmt.Errorf("step height %d must be between 0 and the jump height %d", p.StepBlips, p.MaxJumpBlips)
	case p.MaxJumpBlips >= p.BlipsPerBlock*2:
		return fmt.Errorf("jump height %d must be lower than two blocks", p.MaxJumpBlips)
	case p.RequiredHeadroom() <= p.BlipsPerBlock || p.RequiredHeadroom() > p.BlipsPerBlock*2:
		return fmt.Errorf("player headroom %d must be between one and two blocks", p.RequiredHeadroom())
	}
	return nil
}

// Validate returns an error if any of the settings are out of range.
func (s Settings) Validate() error {
	if err := s.Physics.Validate(); err != nil {
		return err
	}
	if s.Planner.Reach <= 0 {
		return fmt.Errorf("reach must be positive, got %v", s.Planner.Reach)
	}
	if s.Planner.HorizontalPadding < 1 || s.Planner.Headroom < 2 {
		return errors.New("planner needs at least one column of padding and two layers of headroom")
	}
	return nil
}

// SaveDefault will create and save the default settings file. If the file already exists, it will return an error.
func SaveDefault(path string) error {
	s := DefaultSettings()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if data, err := toml.Marshal(s); err != nil {
			return fmt.Errorf("failed encoding default settings: %v", err)
		} else if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed creating settings file: %v", err)
		}
		return nil
	}
	return errors.New("settings file already exists")
}

// Load will load the settings from your settings file, and return an error if the file does not exist
// or holds values out of range.
func Load(path string) (Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Settings{}, errors.New("settings file doesn't exist")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("error reading config: %v", err)
	}

	settings := DefaultSettings()
	if err = toml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %v", err)
	}
	if err = settings.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid config: %v", err)
	}
	return settings, nil
}
