package scaffolding

import (
	"math/rand/v2"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oomph-ac/blueprint/dependency"
	"github.com/oomph-ac/blueprint/state"
	"github.com/oomph-ac/blueprint/world"
)

func oneWay(place, supports cube.Face) state.Data {
	return state.Data{
		Name:               "test:one_way",
		CollidesWithPlayer: true,
		CollisionHeight:    1,
		PlaceAgainst:       state.FacesOf(place),
		SupportsAgainst:    state.FacesOf(supports),
	}
}

// ring returns a 2x1x2 graph whose four blocks depend on each other in a cycle a→b→c→d→a.
func ring() *dependency.Graph {
	b := world.NewBounds(2, 1, 2)
	return dependency.New(world.NewCuboid(b, func(pos cube.Pos) state.Data {
		switch pos {
		case cube.Pos{0, 0, 0}:
			return oneWay(cube.FaceEast, cube.FaceSouth)
		case cube.Pos{1, 0, 0}:
			return oneWay(cube.FaceSouth, cube.FaceWest)
		case cube.Pos{1, 0, 1}:
			return oneWay(cube.FaceWest, cube.FaceNorth)
		default:
			return oneWay(cube.FaceNorth, cube.FaceEast)
		}
	}))
}

func componentOf(t *testing.T, o *Overlay, pos cube.Pos) ComponentID {
	t.Helper()
	id, ok := o.CollapsedGraph().ComponentAt(o.bounds.Index(pos))
	if !ok {
		t.Fatalf("expected %v to be real", pos)
	}
	return id
}

func TestRingCollapses(t *testing.T) {
	o := New(ring())
	o.RecheckEntireCollapsedGraph()
	if n := o.CollapsedGraph().Len(); n != 1 {
		t.Fatalf("expected the ring to collapse into one component, got %d", n)
	}

	o.Disable(cube.Pos{0, 0, 1})
	o.RecheckEntireCollapsedGraph()
	g := o.CollapsedGraph()
	if g.Len() != 3 {
		t.Fatalf("expected a chain of 3 components after breaking the ring, got %d", g.Len())
	}
	a, b, c := componentOf(t, o, cube.Pos{0, 0, 0}), componentOf(t, o, cube.Pos{1, 0, 0}), componentOf(t, o, cube.Pos{1, 0, 1})
	if !(g.Ord(a) < g.Ord(b) && g.Ord(b) < g.Ord(c)) {
		t.Fatalf("expected ords a < b < c, got %d, %d, %d", g.Ord(a), g.Ord(b), g.Ord(c))
	}
	if g.OutDegree(c) != 0 || len(g.Incoming(a)) != 0 {
		t.Fatalf("expected c to be a sink and a to be a source")
	}

	o.Enable(cube.Pos{0, 0, 1})
	o.RecheckEntireCollapsedGraph()
	if n := o.CollapsedGraph().Len(); n != 1 {
		t.Fatalf("expected closing the ring to merge it again, got %d components", n)
	}
	id := componentOf(t, o, cube.Pos{1, 0, 1})
	if len(o.CollapsedGraph().Members(id)) != 4 {
		t.Fatalf("expected the merged component to hold all 4 blocks")
	}
}

func TestScaffoldingMerges(t *testing.T) {
	b := world.NewBounds(3, 2, 1)
	o := New(dependency.New(world.FillWithAir(b).Snapshot()))
	if o.RealCount() != 0 || o.CollapsedGraph().Len() != 0 {
		t.Fatalf("an empty target should have no real positions")
	}

	for x := range 3 {
		o.Enable(cube.Pos{x, 1, 0})
		o.RecheckEntireCollapsedGraph()
	}
	g := o.CollapsedGraph()
	if g.Len() != 1 {
		t.Fatalf("adjacent scaffolding supports itself both ways and should form one component, got %d", g.Len())
	}
	id := componentOf(t, o, cube.Pos{1, 1, 0})
	if g.Grounded(id) {
		t.Fatalf("scaffolding above the bottom layer is not grounded")
	}

	o.Enable(cube.Pos{2, 0, 0})
	o.RecheckEntireCollapsedGraph()
	if id = componentOf(t, o, cube.Pos{0, 1, 0}); !o.CollapsedGraph().Grounded(id) {
		t.Fatalf("expected the component to be grounded through the block at the bottom")
	}

	o.Disable(cube.Pos{1, 1, 0})
	o.RecheckEntireCollapsedGraph()
	if n := o.CollapsedGraph().Len(); n != 2 {
		t.Fatalf("expected removing the middle to split the row, got %d components", n)
	}
	if o.Real(cube.Pos{1, 1, 0}) || !o.Air(cube.Pos{1, 1, 0}) {
		t.Fatalf("disabled position should be air")
	}
	if g.Grounded(componentOf(t, o, cube.Pos{0, 1, 0})) {
		t.Fatalf("the detached block should no longer be grounded")
	}
}

func TestEnableTwicePanics(t *testing.T) {
	o := New(ring())
	defer func() {
		if recover() == nil {
			t.Fatalf("expected enabling a real position to panic")
		}
	}()
	o.Enable(cube.Pos{0, 0, 0})
}

func randomData(rng *rand.Rand) state.Data {
	if rng.IntN(4) == 0 {
		return state.Solid("test:stone")
	}
	return state.Data{
		Name:               "test:random",
		CollidesWithPlayer: true,
		CollisionHeight:    1,
		PlaceAgainst:       state.FaceSet(rng.IntN(64)),
		SupportsAgainst:    state.FaceSet(rng.IntN(64)),
	}
}

func TestIncrementalAgreesWithTarjan(t *testing.T) {
	size, enables, every := 64, 200_000, 10_000
	if testing.Short() {
		size, enables, every = 24, 5_000, 500
	}
	rng := rand.New(rand.NewPCG(7, 11))
	b := world.NewBounds(size, size, size)
	target := world.NewCuboid(b, func(cube.Pos) state.Data { return randomData(rng) })
	o := newOverlay(dependency.New(target), func(int) bool { return false })

	check := func() {
		o.RecheckEntireCollapsedGraph()
		var roots []int32
		for i := range b.Volume() {
			if o.RealAt(i) {
				roots = append(roots, int32(i))
			}
		}
		want := len(o.tarjan(roots, o.RealAt))
		if got := o.CollapsedGraph().Len(); got != want {
			t.Fatalf("incremental graph has %d components, Tarjan found %d", got, want)
		}
	}

	volume, limit := b.Volume(), b.Volume()/5
	for done := 0; done < enables; {
		i := rng.IntN(volume)
		switch {
		case !o.RealAt(i) && o.RealCount() < limit:
			o.EnableIndex(i)
			if done++; done%every == 0 {
				check()
			}
		case o.RealAt(i) && o.RealCount() >= limit:
			o.DisableIndex(i)
		}
	}
	check()
}

// TestDenseEnables starts from a 20% dense region and keeps enabling air positions until most of the region
// is real.
func TestDenseEnables(t *testing.T) {
	size, enables, every := 64, 200_000, 10_000
	if testing.Short() {
		size, enables, every = 20, 5_000, 1_000
	}
	rng := rand.New(rand.NewPCG(3, 5))
	b := world.NewBounds(size, size, size)
	target := world.NewCuboid(b, func(cube.Pos) state.Data { return randomData(rng) })
	o := newOverlay(dependency.New(target), func(int) bool { return rng.IntN(5) == 0 })

	var air []int
	for i := range b.Volume() {
		if !o.RealAt(i) {
			air = append(air, i)
		}
	}
	rng.Shuffle(len(air), func(i, j int) { air[i], air[j] = air[j], air[i] })
	if len(air) < enables {
		t.Fatalf("only %d air positions to enable, need %d", len(air), enables)
	}

	largest := 0
	for done, i := range air[:enables] {
		o.EnableIndex(i)
		if (done+1)%every != 0 {
			continue
		}
		o.RecheckEntireCollapsedGraph()
		g := o.CollapsedGraph()
		for _, id := range g.Components() {
			largest = max(largest, len(g.Members(id)))
		}
	}
	var roots []int32
	for i := range b.Volume() {
		if o.RealAt(i) {
			roots = append(roots, int32(i))
		}
	}
	if got, want := o.CollapsedGraph().Len(), len(o.tarjan(roots, o.RealAt)); got != want {
		t.Fatalf("incremental graph has %d components, Tarjan found %d", got, want)
	}
	t.Logf("%d real positions, largest component has %d members", o.RealCount(), largest)
}

func TestOrderRelabels(t *testing.T) {
	ord := newOrder()
	first := ord.insertAfter(noSlot, 1)[0]
	last := ord.insertAfter(first, 1)[0]
	// Every insertion halves the gap after first, so labels run out well before 100 insertions.
	for range 100 {
		ord.insertAfter(first, 1)
	}
	if ord.len != 102 {
		t.Fatalf("expected 102 slots, got %d", ord.len)
	}
	if ord.head != first || ord.tail != last {
		t.Fatalf("expected the first and last slots to stay at the ends of the list")
	}
	n, prev := 0, int64(0)
	for s := ord.head; s != noSlot; s = ord.slots[s].next {
		if ord.label(s) <= prev {
			t.Fatalf("slot %d has label %d after label %d", s, ord.label(s), prev)
		}
		prev = ord.label(s)
		n++
	}
	if n != 102 {
		t.Fatalf("walked %d slots, expected 102", n)
	}

	ord.unlink(last)
	if ord.tail == last || ord.slots[ord.tail].next != noSlot {
		t.Fatalf("expected unlinking the tail to move it back")
	}
	if got := ord.insertAfter(ord.tail, 1)[0]; got != last {
		t.Fatalf("expected the freed slot %d to be reused, got %d", last, got)
	}
}
