package connectivity

// Rebuild is a Forest that keeps a union-find over the current edges and rebuilds it from scratch on the first
// query after an edge removal. Insertions cost O(α(n)), removals O(1) and the first query after a removal
// O(n + m). It is intended for small regions and as a reference for EulerTour.
type Rebuild struct {
	edges  map[uint64]struct{}
	parent []int32
	size   []int32
	dirty  bool
}

// NewRebuild returns a Rebuild over n vertices without edges.
func NewRebuild(n int) *Rebuild {
	r := &Rebuild{
		edges:  make(map[uint64]struct{}),
		parent: make([]int32, n),
		size:   make([]int32, n),
	}
	r.reset()
	return r
}

func (r *Rebuild) reset() {
	for i := range r.parent {
		r.parent[i] = int32(i)
		r.size[i] = 1
	}
}

func (r *Rebuild) find(v int) int {
	for int(r.parent[v]) != v {
		r.parent[v] = r.parent[r.parent[v]]
		v = int(r.parent[v])
	}
	return v
}

func (r *Rebuild) union(u, v int) {
	u, v = r.find(u), r.find(v)
	if u == v {
		return
	}
	if r.size[u] < r.size[v] {
		u, v = v, u
	}
	r.parent[v] = int32(u)
	r.size[u] += r.size[v]
}

func (r *Rebuild) refresh() {
	if !r.dirty {
		return
	}
	r.reset()
	for key := range r.edges {
		r.union(int(key>>32), int(uint32(key)))
	}
	r.dirty = false
}

// AddEdge ...
func (r *Rebuild) AddEdge(u, v int) {
	if u == v {
		return
	}
	r.edges[edgeKey(u, v)] = struct{}{}
	if !r.dirty {
		r.union(u, v)
	}
}

// RemoveEdge ...
func (r *Rebuild) RemoveEdge(u, v int) {
	key := edgeKey(u, v)
	if _, ok := r.edges[key]; ok {
		delete(r.edges, key)
		r.dirty = true
	}
}

// HasEdge ...
func (r *Rebuild) HasEdge(u, v int) bool {
	_, ok := r.edges[edgeKey(u, v)]
	return ok
}

// Connected ...
func (r *Rebuild) Connected(u, v int) bool {
	r.refresh()
	return r.find(u) == r.find(v)
}

// ComponentSize ...
func (r *Rebuild) ComponentSize(v int) int {
	r.refresh()
	return int(r.size[r.find(v)])
}
