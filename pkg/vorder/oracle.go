package vorder

import (
	"sync"

	"hublink/pkg/coregraph"
	"hublink/pkg/search"
)

// DijkstraOracle answers PathOracle queries with a plain Dijkstra over
// the original graph. Safe for the concurrent sampling fan-out: every
// borrowed scratch is returned after use.
type DijkstraOracle struct {
	g    coregraph.Store
	pool sync.Pool
}

func NewDijkstraOracle(g coregraph.Store) *DijkstraOracle {
	o := &DijkstraOracle{g: g}
	o.pool.New = func() any {
		return search.NewScratch(g.NumVertices())
	}
	return o
}

func (o *DijkstraOracle) ShortestPath(s, t Vertex) ([]Vertex, Weight, error) {
	scratch := o.pool.Get().(*search.Scratch)
	defer o.pool.Put(scratch)

	d, err := search.OneToOneWithPath(o.g, s, t, scratch)
	if err != nil {
		return nil, 0, err
	}
	return search.PathTo(scratch, t), d, nil
}
