package coregraph

import "sort"

// Packed is a CSR (compressed sparse row) graph: immutable, optimized for
// sequential iteration at query time. Freeze builds one from a Mutable and
// Reversed builds the transpose of another Packed; both are pure
// functions of the edge set.
type Packed struct {
	n Vertex

	outFirst []uint32
	outHead  []Vertex
	outWeight []Weight

	inFirst []uint32
	inHead  []Vertex
	inWeight []Weight

	// maxEdgeWeight is computed once and carried as a radix-heap hint;
	// the binary-heap search primitives never consult it.
	maxEdgeWeight Weight
}

// Freeze converts a Mutable graph into its packed, query-optimized form.
func Freeze(m *Mutable) *Packed {
	n := m.n
	var edges []Edge
	for u := Vertex(0); u < n; u++ {
		for h, w := range m.out[u] {
			edges = append(edges, Edge{Tail: u, Head: h, Weight: w})
		}
	}
	return freezeEdges(edges, n)
}

func freezeEdges(edges []Edge, n Vertex) *Packed {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Tail != edges[j].Tail {
			return edges[i].Tail < edges[j].Tail
		}
		return edges[i].Head < edges[j].Head
	})

	p := &Packed{n: n}
	p.outFirst = make([]uint32, n+1)
	p.outHead = make([]Vertex, len(edges))
	p.outWeight = make([]Weight, len(edges))
	for i, e := range edges {
		p.outFirst[e.Tail+1]++
		p.outHead[i] = e.Head
		p.outWeight[i] = e.Weight
		if e.Weight > p.maxEdgeWeight {
			p.maxEdgeWeight = e.Weight
		}
	}
	for i := Vertex(1); i <= n; i++ {
		p.outFirst[i] += p.outFirst[i-1]
	}

	revEdges := make([]Edge, len(edges))
	for i, e := range edges {
		revEdges[i] = Edge{Tail: e.Head, Head: e.Tail, Weight: e.Weight}
	}
	sort.Slice(revEdges, func(i, j int) bool {
		if revEdges[i].Tail != revEdges[j].Tail {
			return revEdges[i].Tail < revEdges[j].Tail
		}
		return revEdges[i].Head < revEdges[j].Head
	})
	p.inFirst = make([]uint32, n+1)
	p.inHead = make([]Vertex, len(revEdges))
	p.inWeight = make([]Weight, len(revEdges))
	for i, e := range revEdges {
		p.inFirst[e.Tail+1]++
		p.inHead[i] = e.Head
		p.inWeight[i] = e.Weight
	}
	for i := Vertex(1); i <= n; i++ {
		p.inFirst[i] += p.inFirst[i-1]
	}

	return p
}

func (p *Packed) NumVertices() Vertex { return p.n }

func (p *Packed) EdgesOut(v Vertex) []OutEdge {
	start, end := p.outFirst[v], p.outFirst[v+1]
	out := make([]OutEdge, end-start)
	for i := start; i < end; i++ {
		out[i-start] = OutEdge{Head: p.outHead[i], Weight: p.outWeight[i]}
	}
	return out
}

func (p *Packed) EdgesIn(v Vertex) []InEdge {
	start, end := p.inFirst[v], p.inFirst[v+1]
	in := make([]InEdge, end-start)
	for i := start; i < end; i++ {
		in[i-start] = InEdge{Tail: p.inHead[i], Weight: p.inWeight[i]}
	}
	return in
}

func (p *Packed) WeightOf(u, v Vertex) (Weight, bool) {
	start, end := p.outFirst[u], p.outFirst[u+1]
	for i := start; i < end; i++ {
		if p.outHead[i] == v {
			return p.outWeight[i], true
		}
	}
	return 0, false
}

// MaxEdgeWeight returns the heaviest edge weight in the graph.
func (p *Packed) MaxEdgeWeight() Weight { return p.maxEdgeWeight }

// Reversed returns a Packed graph with every edge's direction flipped.
// Used by pkg/alt to compute backward landmark distances without a
// second pass over the mutable graph.
func (p *Packed) Reversed() *Packed {
	n := p.n
	var edges []Edge
	for u := Vertex(0); u < n; u++ {
		for _, oe := range p.EdgesOut(u) {
			edges = append(edges, Edge{Tail: oe.Head, Head: u, Weight: oe.Weight})
		}
	}
	return freezeEdges(edges, n)
}
