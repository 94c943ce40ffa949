package connectivity

import (
	"math/rand/v2"

	"github.com/oomph-ac/blueprint/assert"
)

// EulerTour is a Forest that keeps a spanning forest of the graph as Euler tours stored in treaps, with the
// remaining edges kept as non-tree edges. Link, cut, connectivity and size queries take O(log n) expected
// time. Removing a tree edge searches the smaller of the two resulting trees for a non-tree edge that
// reconnects them, taking O(s·d·log n) where s is the size of the smaller tree and d the maximum degree.
type EulerTour struct {
	vertices []*node
	edges    map[uint64]*tourEdge
	adj      adjacency
	rng      *rand.Rand
}

// tourEdge is an edge of the graph. Tree edges own two tour nodes, one per direction of traversal.
type tourEdge struct {
	tree   bool
	uv, vu *node
}

// node is a treap node holding one element of an Euler tour: either the single occurrence of a vertex or
// one direction of a tree edge.
type node struct {
	left, right, parent *node
	prio                uint64
	size, verts         int
	vertex              int32
}

// NewEulerTour returns an EulerTour over n vertices without edges.
func NewEulerTour(n int) *EulerTour {
	return &EulerTour{
		vertices: make([]*node, n),
		edges:    make(map[uint64]*tourEdge),
		adj:      make(adjacency, n),
		rng:      rand.New(rand.NewPCG(uint64(n), 0x9e3779b97f4a7c15)),
	}
}

func (t *EulerTour) newNode(vertex int32) *node {
	n := &node{prio: t.rng.Uint64(), size: 1, vertex: vertex}
	if vertex >= 0 {
		n.verts = 1
	}
	return n
}

func (t *EulerTour) vertex(v int) *node {
	n := t.vertices[v]
	if n == nil {
		n = t.newNode(int32(v))
		t.vertices[v] = n
	}
	return n
}

// AddEdge ...
func (t *EulerTour) AddEdge(u, v int) {
	if u == v {
		return
	}
	key := edgeKey(u, v)
	if _, ok := t.edges[key]; ok {
		return
	}
	e := &tourEdge{}
	t.edges[key] = e
	t.adj.add(u, v)
	t.adj.add(v, u)
	if !t.Connected(u, v) {
		t.link(e, u, v)
	}
}

// RemoveEdge ...
func (t *EulerTour) RemoveEdge(u, v int) {
	key := edgeKey(u, v)
	e, ok := t.edges[key]
	if !ok {
		return
	}
	delete(t.edges, key)
	t.adj.remove(u, v)
	t.adj.remove(v, u)
	if !e.tree {
		return
	}
	t.cut(e)

	small := u
	if t.ComponentSize(v) < t.ComponentSize(u) {
		small = v
	}
	for _, x := range t.treeVertices(small) {
		for _, w := range t.adj[x] {
			if t.Connected(x, int(w)) {
				continue
			}
			t.link(t.edges[edgeKey(x, int(w))], x, int(w))
			return
		}
	}
}

// HasEdge ...
func (t *EulerTour) HasEdge(u, v int) bool {
	_, ok := t.edges[edgeKey(u, v)]
	return ok
}

// Connected ...
func (t *EulerTour) Connected(u, v int) bool {
	if u == v {
		return true
	}
	return root(t.vertex(u)) == root(t.vertex(v))
}

// ComponentSize ...
func (t *EulerTour) ComponentSize(v int) int {
	return root(t.vertex(v)).verts
}

// reroot rotates the tour containing v so that it starts at v.
func (t *EulerTour) reroot(v int) {
	n := t.vertex(v)
	k := index(n)
	if k == 0 {
		return
	}
	a, b := splitRoot(root(n), k)
	merge(b, a)
}

func (t *EulerTour) link(e *tourEdge, u, v int) {
	assert.IsTrue(!t.Connected(u, v), "linking already connected vertices %d and %d", u, v)
	t.reroot(u)
	t.reroot(v)
	e.tree = true
	e.uv, e.vu = t.newNode(-1), t.newNode(-1)
	merge(merge(merge(root(t.vertex(u)), e.uv), root(t.vertex(v))), e.vu)
}

func (t *EulerTour) cut(e *tourEdge) {
	first, second := e.uv, e.vu
	i, j := index(first), index(second)
	if i > j {
		first, second = second, first
		i, j = j, i
	}
	a, rest := splitRoot(root(first), i)
	mid, b := splitRoot(rest, j-i+1)
	_, mid = splitRoot(mid, 1)
	splitRoot(mid, size(mid)-1)
	merge(a, b)
	e.tree, e.uv, e.vu = false, nil, nil
}

// treeVertices returns every vertex in the tree of v.
func (t *EulerTour) treeVertices(v int) []int {
	r := root(t.vertex(v))
	out := make([]int, 0, r.verts)
	stack := []*node{r}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.vertex >= 0 {
			out = append(out, int(n.vertex))
		}
		if n.left != nil && n.left.verts > 0 {
			stack = append(stack, n.left)
		}
		if n.right != nil && n.right.verts > 0 {
			stack = append(stack, n.right)
		}
	}
	return out
}

func size(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func verts(n *node) int {
	if n == nil {
		return 0
	}
	return n.verts
}

func (n *node) update() {
	n.size = 1 + size(n.left) + size(n.right)
	n.verts = verts(n.left) + verts(n.right)
	if n.vertex >= 0 {
		n.verts++
	}
}

func root(n *node) *node {
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// index returns the position of n in its tour.
func index(n *node) int {
	i := size(n.left)
	for n.parent != nil {
		if n == n.parent.right {
			i += size(n.parent.left) + 1
		}
		n = n.parent
	}
	return i
}

func merge(a, b *node) *node {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.prio > b.prio {
		a.right = merge(a.right, b)
		a.right.parent = a
		a.update()
		return a
	}
	b.left = merge(a, b.left)
	b.left.parent = b
	b.update()
	return b
}

// split splits the treap t into its first k nodes and the rest. Parent pointers of the returned roots are
// fixed up by splitRoot.
func split(t *node, k int) (*node, *node) {
	if t == nil {
		return nil, nil
	}
	if size(t.left) >= k {
		l, r := split(t.left, k)
		t.left = r
		if r != nil {
			r.parent = t
		}
		t.update()
		return l, t
	}
	l, r := split(t.right, k-size(t.left)-1)
	t.right = l
	if l != nil {
		l.parent = t
	}
	t.update()
	return t, r
}

func splitRoot(t *node, k int) (*node, *node) {
	a, b := split(t, k)
	if a != nil {
		a.parent = nil
	}
	if b != nil {
		b.parent = nil
	}
	return a, b
}
