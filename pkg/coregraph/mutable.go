package coregraph

// Mutable is a per-vertex hash-of-hash adjacency representation, the shape
// the CH builder owns and mutates while contracting. Forward and reverse
// adjacency are kept symmetric: every edge appears in both maps, and
// removing a vertex (Disconnect) removes every incident entry from both.
type Mutable struct {
	n   Vertex
	out []map[Vertex]Weight // out[u][v] = weight(u, v)
	in  []map[Vertex]Weight // in[v][u]  = weight(u, v)
}

// NewMutable creates an empty Mutable graph over n vertices.
func NewMutable(n Vertex) *Mutable {
	m := &Mutable{
		n:   n,
		out: make([]map[Vertex]Weight, n),
		in:  make([]map[Vertex]Weight, n),
	}
	for i := range m.out {
		m.out[i] = make(map[Vertex]Weight)
		m.in[i] = make(map[Vertex]Weight)
	}
	return m
}

// FromEdges builds a Mutable graph from a raw edge list, dropping
// self-loops and collapsing parallel edges to the minimum weight.
func FromEdges(edges []Edge, n Vertex) *Mutable {
	m := NewMutable(n)
	for _, e := range edges {
		if e.Tail == e.Head {
			continue
		}
		m.SetWeight(e.Tail, e.Head, e.Weight)
	}
	return m
}

func (m *Mutable) NumVertices() Vertex { return m.n }

func (m *Mutable) EdgesOut(v Vertex) []OutEdge {
	out := make([]OutEdge, 0, len(m.out[v]))
	for h, w := range m.out[v] {
		out = append(out, OutEdge{Head: h, Weight: w})
	}
	return out
}

func (m *Mutable) EdgesIn(v Vertex) []InEdge {
	in := make([]InEdge, 0, len(m.in[v]))
	for t, w := range m.in[v] {
		in = append(in, InEdge{Tail: t, Weight: w})
	}
	return in
}

func (m *Mutable) WeightOf(u, v Vertex) (Weight, bool) {
	w, ok := m.out[u][v]
	return w, ok
}

// SetWeight adds or updates the edge (u, v). If the edge already exists
// the minimum of the old and new weight is kept. Self-loops are silently
// dropped.
func (m *Mutable) SetWeight(u, v Vertex, w Weight) {
	if u == v {
		return
	}
	if old, ok := m.out[u][v]; ok && old <= w {
		return
	}
	m.out[u][v] = w
	m.in[v][u] = w
}

// Disconnect removes every edge incident to v, in both directions.
func (m *Mutable) Disconnect(v Vertex) {
	for h := range m.out[v] {
		delete(m.in[h], v)
	}
	for t := range m.in[v] {
		delete(m.out[t], v)
	}
	m.out[v] = make(map[Vertex]Weight)
	m.in[v] = make(map[Vertex]Weight)
}

// InsertAndUpdate bulk-applies a set of new edges and weight decreases.
func (m *Mutable) InsertAndUpdate(delta []Edge) {
	for _, e := range delta {
		m.SetWeight(e.Tail, e.Head, e.Weight)
	}
}

// OutDegree and InDegree count only currently-present edges; used by the
// CH builder's edge-difference priority.
func (m *Mutable) OutDegree(v Vertex) int { return len(m.out[v]) }
func (m *Mutable) InDegree(v Vertex) int  { return len(m.in[v]) }
