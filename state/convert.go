package state

import (
	"slices"
	"strings"
	"sync"

	"github.com/chewxy/math32"
	"github.com/df-mc/dragonfly/server/block"
	df_cube "github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/oomph-ac/blueprint/game"
	"github.com/samber/lo"
	"github.com/zeebo/xxh3"
)

var (
	cacheMu sync.RWMutex
	cache   = map[uint64]Data{}
)

// FromBlock returns the Data of a dragonfly block. Results are cached by a hash of the encoded block state,
// so converting the same state twice is a map lookup.
func FromBlock(b world.Block) Data {
	if _, ok := b.(block.Air); ok {
		return Air
	}

	name, properties := b.EncodeBlock()
	key := stateHash(name, properties)

	cacheMu.RLock()
	d, ok := cache[key]
	cacheMu.RUnlock()
	if ok {
		return d
	}

	d = convert(b, name)
	cacheMu.Lock()
	cache[key] = d
	cacheMu.Unlock()
	return d
}

func stateHash(name string, properties map[string]any) uint64 {
	keys := lo.Keys(properties)
	slices.Sort(keys)

	var sb strings.Builder
	sb.WriteString(name)
	for _, k := range keys {
		sb.WriteByte(';')
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(propertyString(properties[k]))
	}
	return xxh3.HashString(sb.String())
}

func convert(b world.Block, name string) Data {
	boxes := collisionBoxes(b, name)
	d := Data{Name: name}
	if height := math32.Min(game.BoxHeight(boxes), 1.5); height > 0 {
		d.CollidesWithPlayer = true
		d.CollisionHeight = height
		d.FullyWalkableTop = walkableTop(boxes, height)
	}

	m := b.Model()
	for _, face := range df_cube.Faces() {
		if m.FaceSolid(df_cube.Pos{}, face, isolated{}) {
			d.SupportsAgainst |= FacesOf(face)
		}
	}
	d.PlaceAgainst = placeAgainst(b)
	return d
}

// walkableTop checks if some box reaching the top of the block is wide enough in both directions to carry
// the agent.
func walkableTop(boxes []cube.BBox, height float32) bool {
	for _, bb := range boxes {
		if !game.Float32ApproxEq(bb.Max().Y(), height) {
			continue
		}
		w, l := bb.Max().X()-bb.Min().X(), bb.Max().Z()-bb.Min().Z()
		if w >= 0.5 && l >= 0.5 && w*l >= 0.5-1e-5 {
			return true
		}
	}
	return false
}

// placeAgainst returns the faces a block may be placed against. Attached blocks are restricted to the
// block they hang from or rest on.
func placeAgainst(b world.Block) FaceSet {
	switch b := b.(type) {
	case block.Torch:
		return FacesOf(b.Facing)
	case block.Carpet:
		return FacesOf(df_cube.FaceDown)
	case block.Ladder:
		return FacesOf(b.Facing.Face().Opposite())
	case block.Lantern:
		if b.Hanging {
			return FacesOf(df_cube.FaceUp)
		}
		return FacesOf(df_cube.FaceDown)
	}
	return AllFaces
}

// collisionBoxes returns the bounding boxes of the given block based on its name, falling back to the
// dragonfly block model.
func collisionBoxes(b world.Block, name string) []cube.BBox {
	switch name {
	case "minecraft:portal", "minecraft:end_portal":
		return nil
	case "minecraft:web":
		return []cube.BBox{cube.Box(0, 0, 0, 1, 1, 1)}
	case "minecraft:bed":
		return []cube.BBox{cube.Box(0, 0, 0, 1, 9.0/16.0, 1)}
	case "minecraft:waterlily":
		return []cube.BBox{cube.Box(0, 0, 0, 1, 1.0/64.0, 1)}
	case "minecraft:soul_sand":
		return []cube.BBox{cube.Box(0, 0, 0, 1, 7.0/8.0, 1)}
	case "minecraft:snow_layer":
		_, dat := b.EncodeBlock()
		height, ok := dat["height"].(int32)
		if !ok {
			return nil
		}
		return []cube.BBox{cube.Box(0, 0, 0, 1, float32(height+1)/8.0, 1)}
	case "minecraft:redstone_wire", "minecraft:lever", "minecraft:redstone_torch", "minecraft:unlit_redstone_torch",
		"minecraft:golden_rail", "minecraft:detector_rail", "minecraft:activator_rail", "minecraft:rail":
		return nil
	case "minecraft:repeater", "minecraft:unpowered_repeater", "minecraft:powered_repeater",
		"minecraft:comparator", "minecraft:unpowered_comparator", "minecraft:powered_comparator":
		return []cube.BBox{cube.Box(0, 0, 0, 1, 1.0/8.0, 1)}
	case "minecraft:daylight_detector", "minecraft:daylight_detector_inverted":
		return []cube.BBox{cube.Box(0, 0, 0, 1, 3.0/8.0, 1)}
	case "minecraft:vine", "minecraft:cave_vines", "minecraft:twisting_vines", "minecraft:weeping_vines",
		"minecraft:tallgrass", "minecraft:fern", "minecraft:large_fern", "minecraft:red_mushroom", "minecraft:brown_mushroom":
		return nil
	case "minecraft:flower_pot":
		return []cube.BBox{cube.Box(5/16.0, 0, 5/16.0, 11/16.0, 3/8.0, 11/16.0)}
	case "minecraft:end_portal_frame":
		return []cube.BBox{cube.Box(0, 0, 0, 1, 13.0/16.0, 1)}
	}

	dfBoxes := b.Model().BBox(df_cube.Pos{}, isolated{})
	boxes := make([]cube.BBox, len(dfBoxes))
	for i, bb := range dfBoxes {
		boxes[i] = game.DFBoxToCubeBox(bb)
	}
	return boxes
}

// isolated is a world.BlockSource with nothing but air, used to evaluate block models without neighbours.
type isolated struct{}

func (isolated) Block(df_cube.Pos) world.Block {
	return block.Air{}
}
