package connectivity

// Forest answers connectivity queries over an undirected graph on the vertices [0, n) while edges are
// inserted and removed one at a time.
//
// Implementations document their complexity. The navigable surface performs a bounded number of edge
// updates per block change and a connectivity query per candidate placement, so any implementation with
// polylogarithmic updates and queries keeps planning linear in the number of placements.
type Forest interface {
	// AddEdge inserts the undirected edge (u, v). Adding an edge that exists, or a self loop, does nothing.
	AddEdge(u, v int)
	// RemoveEdge removes the undirected edge (u, v) if it exists.
	RemoveEdge(u, v int)
	// HasEdge returns whether the edge (u, v) exists.
	HasEdge(u, v int) bool
	// Connected returns whether u and v are in the same component.
	Connected(u, v int) bool
	// ComponentSize returns the number of vertices in the component of v.
	ComponentSize(v int) int
}

func edgeKey(u, v int) uint64 {
	if u > v {
		u, v = v, u
	}
	return uint64(uint32(u))<<32 | uint64(uint32(v))
}

// adjacency is a list of neighbours per vertex. Vertices of the navigable surface have at most four
// neighbours, so removal is a linear scan.
type adjacency [][]int32

func (a adjacency) add(u, v int) {
	a[u] = append(a[u], int32(v))
}

func (a adjacency) remove(u, v int) {
	l := a[u]
	for i, w := range l {
		if int(w) == v {
			l[i] = l[len(l)-1]
			a[u] = l[:len(l)-1]
			return
		}
	}
}
