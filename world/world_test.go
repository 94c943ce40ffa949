package world

import (
	"testing"

	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	df_world "github.com/df-mc/dragonfly/server/world"
	"github.com/oomph-ac/blueprint/state"
)

func TestIndexRoundTrip(t *testing.T) {
	b := NewBounds(3, 4, 5)
	seen := make([]bool, b.Volume())
	for i, pos := range b.All() {
		if got := b.Index(pos); got != i {
			t.Fatalf("Index(%v) = %d, want %d", pos, got, i)
		}
		if got := b.Pos(i); got != pos {
			t.Fatalf("Pos(%d) = %v, want %v", i, got, pos)
		}
		seen[i] = true
	}
	for i, ok := range seen {
		if !ok {
			t.Fatalf("index %d never visited", i)
		}
	}
}

func TestNeighbour(t *testing.T) {
	b := NewBounds(3, 4, 5)
	for i, pos := range b.All() {
		for _, face := range cube.Faces() {
			n, ok := b.Neighbour(i, face)
			side := pos.Side(face)
			if ok != b.InRange(side) {
				t.Fatalf("Neighbour(%v, %v) in range = %v, want %v", pos, face, ok, b.InRange(side))
			}
			if ok && b.Pos(n) != side {
				t.Fatalf("Neighbour(%v, %v) = %v, want %v", pos, face, b.Pos(n), side)
			}
		}
	}
}

func TestInvalidBoundsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected zero sized bounds to panic")
		}
	}()
	NewBounds(0, 1, 1)
}

func TestNeighbourUnknownFacePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a neighbour across an unknown face to panic")
		}
	}()
	NewBounds(2, 2, 2).Neighbour(0, cube.Face(6))
}

func TestCuboid(t *testing.T) {
	b := NewBounds(2, 3, 2)
	slab := state.Data{Name: "test:slab", CollidesWithPlayer: true, CollisionHeight: 0.5, FullyWalkableTop: true}
	c := NewCuboid(b, func(pos cube.Pos) state.Data {
		if pos.Y() == 0 {
			return state.Solid("test:stone")
		}
		if pos.Y() == 1 && pos.X() == 1 {
			return slab
		}
		return state.Air
	})

	if c.At(cube.Pos{0, 0, 0}) != state.Solid("test:stone") {
		t.Fatalf("expected stone at the bottom layer")
	}
	if c.At(cube.Pos{1, 1, 1}) != slab {
		t.Fatalf("expected slab at (1, 1, 1)")
	}
	if c.At(cube.Pos{0, 2, 0}) != state.Air {
		t.Fatalf("expected air at the top layer")
	}
	for _, pos := range []cube.Pos{{-1, 0, 0}, {0, 3, 0}, {0, 0, 2}, {0, -1, 0}} {
		if c.At(pos) != state.OutOfBounds {
			t.Fatalf("expected out of bounds at %v", pos)
		}
	}

	m := c.Mutable()
	m.Set(cube.Pos{0, 2, 0}, state.Scaffolding)
	if c.At(cube.Pos{0, 2, 0}) != state.Air {
		t.Fatalf("mutating a copy must not change the original")
	}
	snap := m.Snapshot()
	m.Set(cube.Pos{0, 2, 0}, state.Air)
	if snap.At(cube.Pos{0, 2, 0}) != state.Scaffolding {
		t.Fatalf("snapshot should keep the state at the time it was taken")
	}
}

type floorSource struct{}

func (floorSource) Block(pos cube.Pos) df_world.Block {
	if pos.Y() == 64 {
		return block.Stone{}
	}
	return block.Air{}
}

func TestCapture(t *testing.T) {
	c := Capture(floorSource{}, cube.Pos{100, 64, -20}, NewBounds(2, 2, 2))
	for i, pos := range c.Bounds().All() {
		d := c.AtIndex(i)
		if pos.Y() == 0 && (!d.CollidesWithPlayer || d.Air) {
			t.Fatalf("expected captured floor at %v, got %+v", pos, d)
		}
		if pos.Y() == 1 && d != state.Air {
			t.Fatalf("expected air at %v, got %+v", pos, d)
		}
	}
}
