package scaffolder

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oomph-ac/blueprint/dependency"
	"github.com/oomph-ac/blueprint/oerror"
	"github.com/oomph-ac/blueprint/state"
	"github.com/oomph-ac/blueprint/world"
)

var stone = state.Solid("test:stone")

func run(t *testing.T, b world.Bounds, f func(pos cube.Pos) state.Data) *Output {
	t.Helper()
	out, err := Run(dependency.New(world.NewCuboid(b, f)), Dijkstra{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkOrder(t, out)
	return out
}

// checkOrder verifies every block in the placement order comes after something it can be placed against.
func checkOrder(t *testing.T, out *Output) {
	t.Helper()
	g := out.Graph()
	placed := make(map[cube.Pos]bool)
	for _, pos := range out.Order() {
		ok := g.Grounded(pos)
		for _, face := range cube.Faces() {
			if g.OutgoingEdge(pos, face) && placed[pos.Side(face)] {
				ok = true
			}
		}
		if !ok {
			t.Fatalf("%v is placed before anything it can be placed against", pos)
		}
		placed[pos] = true
	}
	if len(placed) != out.Overlay().RealCount() {
		t.Fatalf("order holds %d positions, expected %d", len(placed), out.Overlay().RealCount())
	}
}

func TestSolvedInputNeedsNoScaffolding(t *testing.T) {
	out := run(t, world.NewBounds(3, 3, 3), func(cube.Pos) state.Data { return stone })
	if out.ScaffoldCount() != 0 {
		t.Fatalf("expected no scaffolding for a solid cube, got %v", out.Scaffolding())
	}
	if len(out.Order()) != 27 {
		t.Fatalf("expected all 27 blocks in the order, got %d", len(out.Order()))
	}
}

func TestFloatingBlock(t *testing.T) {
	out := run(t, world.NewBounds(1, 3, 1), func(pos cube.Pos) state.Data {
		if pos.Y() == 2 {
			return stone
		}
		return state.Air
	})
	if out.ScaffoldCount() != 2 {
		t.Fatalf("expected a 2 block pillar under the floating block, got %v", out.Scaffolding())
	}
	if !out.IsScaffolding(cube.Pos{0, 0, 0}) || !out.IsScaffolding(cube.Pos{0, 1, 0}) {
		t.Fatalf("expected the pillar at (0, 0, 0) and (0, 1, 0), got %v", out.Scaffolding())
	}
	if out.Solved().At(cube.Pos{0, 1, 0}) != state.Scaffolding {
		t.Fatalf("solved cuboid should hold scaffolding in the pillar")
	}
	if n, ok := out.Resolved().Get(cube.Pos{0, 2, 0}); out.Resolved().Len() != 1 || !ok || n != 2 {
		t.Fatalf("expected the floating block to be the only component resolved, with 2 scaffolds, got %v", out.Resolved().Keys())
	}
}

func TestBlockAboveFloor(t *testing.T) {
	out := run(t, world.NewBounds(3, 3, 3), func(pos cube.Pos) state.Data {
		if pos.Y() == 0 || pos == (cube.Pos{1, 2, 1}) {
			return stone
		}
		return state.Air
	})
	if out.ScaffoldCount() != 1 {
		t.Fatalf("expected a single scaffold between the floor and the block, got %v", out.Scaffolding())
	}
	if out.IsScaffolding(cube.Pos{5, 5, 5}) {
		t.Fatalf("out of range positions are never scaffolding")
	}
}

func TestUnsolvable(t *testing.T) {
	// Two blocks that can only be placed against each other, with nothing to start from.
	b := world.NewBounds(2, 2, 1)
	g := dependency.New(world.NewCuboid(b, func(pos cube.Pos) state.Data {
		switch pos {
		case cube.Pos{0, 1, 0}:
			return state.Data{Name: "test:a", PlaceAgainst: state.FacesOf(cube.FaceEast), SupportsAgainst: state.FacesOf(cube.FaceEast)}
		case cube.Pos{1, 1, 0}:
			return state.Data{Name: "test:b", PlaceAgainst: state.FacesOf(cube.FaceWest), SupportsAgainst: state.FacesOf(cube.FaceWest)}
		}
		return state.Air
	}))
	if _, err := Run(g, Dijkstra{}); !errors.Is(err, oerror.ErrUnsolvable) {
		t.Fatalf("expected ErrUnsolvable, got %v", err)
	}

	floating := dependency.New(world.NewCuboid(b, func(pos cube.Pos) state.Data {
		if pos == (cube.Pos{0, 1, 0}) {
			return state.Data{Name: "test:unplaceable"}
		}
		return state.Air
	}))
	if _, err := Run(floating, Dijkstra{}); !errors.Is(err, oerror.ErrUnsolvable) {
		t.Fatalf("expected ErrUnsolvable for a block with no placement faces, got %v", err)
	}
}

func TestRandomTargets(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for range 20 {
		out := run(t, world.NewBounds(8, 8, 8), func(cube.Pos) state.Data {
			if rng.IntN(10) < 3 {
				return stone
			}
			return state.Air
		})
		out.Overlay().RecheckEntireCollapsedGraph()
		cg := out.Overlay().CollapsedGraph()
		for _, id := range cg.Components() {
			if cg.OutDegree(id) == 0 && !cg.Grounded(id) {
				t.Fatalf("component %d is still unsupported after scaffolding", id)
			}
		}
		for _, pos := range out.Scaffolding() {
			if !out.Graph().Target().At(pos).Air {
				t.Fatalf("scaffolding placed over target block at %v", pos)
			}
		}
	}
}

func TestRerunOnSolvedAddsNothing(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 4))
	for i := range 30 {
		out := run(t, world.NewBounds(8, 8, 8), func(cube.Pos) state.Data {
			if rng.IntN(10) < 3 {
				return stone
			}
			return state.Air
		})
		again := run(t, out.Graph().Bounds(), out.Solved().At)
		if again.ScaffoldCount() != 0 {
			t.Fatalf("target %d: rerunning on the solved cuboid added %d scaffolds", i, again.ScaffoldCount())
		}
		if again.Resolved().Len() != 0 {
			t.Fatalf("target %d: expected no components to need scaffolding on the rerun", i)
		}
		if len(again.Order()) != out.Overlay().RealCount() {
			t.Fatalf("target %d: expected %d blocks in the rerun order, got %d", i, out.Overlay().RealCount(), len(again.Order()))
		}
	}
}
