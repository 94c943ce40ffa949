package movement

import (
	"math/rand/v2"
	"testing"

	"github.com/oomph-ac/blueprint/settings"
	"github.com/oomph-ac/blueprint/state"
)

var (
	air   = state.Air
	stone = state.Solid("test:stone")
	slab  = partial("test:slab", 8)
	fence = state.Data{Name: "test:fence", CollidesWithPlayer: true, CollisionHeight: 1.5}
)

func partial(name string, blips int) state.Data {
	return state.Data{
		Name:               name,
		CollidesWithPlayer: true,
		CollisionHeight:    float32(blips) / 16,
		FullyWalkableTop:   true,
		PlaceAgainst:       state.AllFaces,
	}
}

func model() Model {
	return New(settings.DefaultPhysics())
}

func TestResidency(t *testing.T) {
	m := model()
	cases := []struct {
		underneath, within state.Data
		residency          VoxelResidency
		feet               int
	}{
		{air, air, Floating, 0},
		{stone, air, UnderneathProtrudes, 0},
		{slab, air, Floating, 0},
		{stone, slab, StandardWithinSupport, 8},
		{air, slab, StandardWithinSupport, 8},
		{fence, air, PreventedByUnderneath, 0},
		{air, fence, PreventedByWithin, 0},
		{stone, stone, ImpossibleWithoutSuffocating, 0},
		{fence, partial("test:carpet", 1), PreventedByUnderneath, 0},
	}
	for _, c := range cases {
		r, feet := m.Residency(c.underneath, c.within)
		if r != c.residency || (r.Supported() && feet != c.feet) {
			t.Fatalf("Residency(%v, %v) = %v/%d, want %v/%d", c.underneath.Name, c.within.Name, r, feet, c.residency, c.feet)
		}
	}
}

func TestStandingHeadroom(t *testing.T) {
	m := model()
	if !m.NewColumn(stone, air, air, stone, stone).Standing() {
		t.Fatalf("a two block gap on a full block should be standable")
	}
	if m.NewColumn(stone, air, stone, air, air).Standing() {
		t.Fatalf("a one block gap must not be standable")
	}
	if !m.NewColumn(stone, partial("test:low", 4), air, stone, air).Standing() {
		t.Fatalf("4 blips of support under a two block gap leaves exactly enough headroom")
	}
	if m.NewColumn(stone, slab, air, stone, air).Standing() {
		t.Fatalf("a slab under a two block gap leaves too little headroom")
	}
}

func TestPlayerTravelCollides(t *testing.T) {
	m := model()
	ground := m.NewColumn(stone, air, air, air, air)
	cases := []struct {
		name string
		to   Column
		want Collision
	}{
		{"flat", m.NewColumn(stone, air, air, air, air), VoxelLevel},
		{"onto slab", m.NewColumn(stone, slab, air, air, air), VoxelLevel},
		{"onto bed", m.NewColumn(stone, partial("test:bed", 10), air, air, air), JumpToVoxelLevel},
		{"block up", m.NewColumn(stone, stone, air, air, air), JumpToVoxelUp},
		{"wall", m.NewColumn(stone, stone, stone, air, air), Blocked},
		{"fence", m.NewColumn(stone, fence, air, air, air), Blocked},
		{"drop", m.NewColumn(air, air, air, air, air), Fall},
		{"drop onto slab", m.NewColumn(slab, air, air, air, air), Fall},
		{"low ceiling", m.NewColumn(stone, slab, air, stone, air), Blocked},
	}
	for _, c := range cases {
		if got := m.PlayerTravelCollides(ground, c.to); got != c.want {
			t.Fatalf("%s: PlayerTravelCollides = %v, want %v", c.name, got, c.want)
		}
	}

	onSlab := m.NewColumn(stone, slab, air, air, air)
	if got := m.PlayerTravelCollides(onSlab, m.NewColumn(stone, stone, air, air, air)); got != VoxelUp {
		t.Fatalf("stepping from a slab onto a full block should be a step up, got %v", got)
	}
	if got := m.PlayerTravelCollides(m.NewColumn(stone, air, stone, air, air), ground); got != Blocked {
		t.Fatalf("moving from a column that is not standable must be blocked, got %v", got)
	}
}

func TestJumpHeightBoundary(t *testing.T) {
	m := model()
	from := m.NewColumn(stone, air, air, air, air)

	// A full block plus a block of height h in the head voxel puts the destination floor at 16+h blips.
	atLimit := m.NewColumn(stone, stone, partial("test:limit", 4), air, air)
	if got := m.PlayerTravelCollides(from, atLimit); got != JumpToVoxelUp {
		t.Fatalf("a rise of exactly the jump height should be jumpable, got %v", got)
	}
	if dy, ok := m.BidirectionalPlayerTravel(from, atLimit, stone, stone); !ok || dy != 1 {
		t.Fatalf("expected a bidirectional move of +1 at the jump limit, got %d/%v", dy, ok)
	}

	overLimit := m.NewColumn(stone, stone, partial("test:over", 5), air, air)
	if got := m.PlayerTravelCollides(from, overLimit); got != Blocked {
		t.Fatalf("a rise of one blip more than the jump height must be blocked, got %v", got)
	}
	if _, ok := m.BidirectionalPlayerTravel(from, overLimit, stone, stone); ok {
		t.Fatalf("expected no bidirectional move over the jump limit")
	}
}

func TestBidirectionalFall(t *testing.T) {
	m := model()
	from := m.NewColumn(stone, air, air, air, air)
	hole := m.NewColumn(air, air, air, air, air)
	if dy, ok := m.BidirectionalPlayerTravel(from, hole, stone, stone); !ok || dy != -1 {
		t.Fatalf("expected to drop one voxel, got %d/%v", dy, ok)
	}
	if dy, ok := m.BidirectionalPlayerTravel(from, hole, partial("test:soul", 14), stone); !ok || dy != -2 {
		t.Fatalf("expected to drop onto the high block two voxels down, got %d/%v", dy, ok)
	}
	if _, ok := m.BidirectionalPlayerTravel(from, hole, air, stone); ok {
		t.Fatalf("a drop of two full voxels is higher than the jump and cannot be reversed")
	}
}

// randomVoxel picks from a palette weighted towards air so that stacks have standable gaps.
func randomVoxel(r *rand.Rand) state.Data {
	palette := []state.Data{
		stone, slab, fence,
		partial("test:carpet", 1),
		partial("test:bed", 9),
		partial("test:soul", 14),
		partial("test:top", 15),
		partial("test:low", 4),
		{Name: "test:post", CollidesWithPlayer: true, CollisionHeight: 1},
	}
	if r.IntN(100) < 55 {
		return air
	}
	return palette[r.IntN(len(palette))]
}

func TestBidirectionalSymmetry(t *testing.T) {
	const height = 14
	m := model()
	r := rand.New(rand.NewPCG(1, 2))

	at := func(col []state.Data, y int) state.Data {
		if y < 0 || y >= len(col) {
			return air
		}
		return col[y]
	}
	columnAt := func(col []state.Data, y int) Column {
		return m.NewColumn(at(col, y-1), at(col, y), at(col, y+1), at(col, y+2), at(col, y+3))
	}

	iterations := 200000
	if testing.Short() {
		iterations = 20000
	}
	moves := 0
	for i := 0; i < iterations; i++ {
		a, b := make([]state.Data, height), make([]state.Data, height)
		for y := range a {
			a[y], b[y] = randomVoxel(r), randomVoxel(r)
		}
		for y := 4; y < height-6; y++ {
			from := columnAt(a, y)
			dy, ok := m.BidirectionalPlayerTravel(from, columnAt(b, y), at(b, y-2), at(b, y-3))
			if !ok {
				continue
			}
			moves++
			back := y + dy
			rdy, rok := m.BidirectionalPlayerTravel(columnAt(b, back), columnAt(a, back), at(a, back-2), at(a, back-3))
			if !rok || rdy != -dy {
				t.Fatalf("move at y=%d gave %d but the reverse gave %d/%v\nA=%v\nB=%v", y, dy, rdy, rok, names(a), names(b))
			}
		}
	}
	if moves == 0 {
		t.Fatalf("random stacks produced no moves")
	}
}

func names(col []state.Data) []string {
	out := make([]string, len(col))
	for i, d := range col {
		out[i] = d.Name
	}
	return out
}
