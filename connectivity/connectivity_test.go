package connectivity

import (
	"math/rand/v2"
	"testing"

	"github.com/gammazero/deque"
)

// bruteComponents labels every vertex with the smallest vertex of its component using a breadth first
// search over the edge set.
func bruteComponents(n int, edges map[uint64]struct{}) []int {
	adj := make([][]int, n)
	for key := range edges {
		u, v := int(key>>32), int(uint32(key))
		adj[u] = append(adj[u], v)
		adj[v] = append(adj[v], u)
	}
	label := make([]int, n)
	for i := range label {
		label[i] = -1
	}
	var q deque.Deque[int]
	for s := 0; s < n; s++ {
		if label[s] != -1 {
			continue
		}
		label[s] = s
		q.PushBack(s)
		for q.Len() > 0 {
			u := q.PopFront()
			for _, v := range adj[u] {
				if label[v] == -1 {
					label[v] = s
					q.PushBack(v)
				}
			}
		}
	}
	return label
}

func testForest(t *testing.T, newForest func(n int) Forest) {
	const n = 60
	r := rand.New(rand.NewPCG(7, 11))
	f := newForest(n)
	edges := map[uint64]struct{}{}

	for step := 0; step < 20000; step++ {
		u, v := r.IntN(n), r.IntN(n)
		if u == v {
			continue
		}
		if r.IntN(100) < 55 {
			f.AddEdge(u, v)
			edges[edgeKey(u, v)] = struct{}{}
		} else {
			f.RemoveEdge(u, v)
			delete(edges, edgeKey(u, v))
		}
		if f.HasEdge(u, v) != (func() bool { _, ok := edges[edgeKey(u, v)]; return ok })() {
			t.Fatalf("step %d: HasEdge(%d, %d) disagrees with the edge set", step, u, v)
		}

		if step%50 != 0 {
			continue
		}
		label := bruteComponents(n, edges)
		sizes := map[int]int{}
		for _, l := range label {
			sizes[l]++
		}
		for a := 0; a < n; a++ {
			if got, want := f.ComponentSize(a), sizes[label[a]]; got != want {
				t.Fatalf("step %d: ComponentSize(%d) = %d, want %d", step, a, got, want)
			}
			for b := 0; b < n; b++ {
				if got, want := f.Connected(a, b), label[a] == label[b]; got != want {
					t.Fatalf("step %d: Connected(%d, %d) = %v, want %v", step, a, b, got, want)
				}
			}
		}
	}
}

func TestEulerTour(t *testing.T) {
	testForest(t, func(n int) Forest { return NewEulerTour(n) })
}

func TestRebuild(t *testing.T) {
	testForest(t, func(n int) Forest { return NewRebuild(n) })
}

func TestEulerTourPath(t *testing.T) {
	const n = 1000
	f := NewEulerTour(n)
	for i := 0; i+1 < n; i++ {
		f.AddEdge(i, i+1)
	}
	if f.ComponentSize(0) != n || !f.Connected(0, n-1) {
		t.Fatalf("path should be a single component")
	}
	f.RemoveEdge(499, 500)
	if f.Connected(0, n-1) || f.ComponentSize(0) != 500 || f.ComponentSize(n-1) != 500 {
		t.Fatalf("cutting the middle of a path should leave two halves")
	}
	f.AddEdge(0, n-1)
	if !f.Connected(499, 500) || f.ComponentSize(250) != n {
		t.Fatalf("closing the ring should reconnect the halves")
	}
	f.AddEdge(499, 500)
	f.RemoveEdge(10, 11)
	if !f.Connected(10, 11) {
		t.Fatalf("removing one edge of a ring must find the replacement edge")
	}
}
