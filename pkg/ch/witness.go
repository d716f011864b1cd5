package ch

import (
	"hublink/pkg/alt"
	"hublink/pkg/coregraph"
	"hublink/pkg/search"
)

// WitnessPredicate decides whether a candidate shortcut (u, w, candidate
// weight) is necessary, i.e. whether no alternative path of equal or
// lesser weight survives once the vertex being contracted is removed.
// Clone returns an equivalent predicate with its own scratch state for
// use by a parallel worker.
type WitnessPredicate interface {
	IsNecessary(g coregraph.Store, via, u, w Vertex, candidateWeight Weight) bool
	Clone() WitnessPredicate
}

// batchWitness is implemented by predicates that can answer a whole
// out-neighbor batch with a single search. The contractor prefers this
// path: one Dijkstra per in-neighbor instead of one per (in, out) pair.
type batchWitness interface {
	witnessDistances(g coregraph.Store, via, u Vertex, targets []Vertex) map[Vertex]Weight
}

// DijkstraWitness runs one-to-many Dijkstra from u with a hop limit on
// the graph as it currently stands, hiding the vertex being contracted,
// targeting that vertex's out-neighbors.
type DijkstraWitness struct {
	HopLimit int

	n       Vertex
	scratch *search.Scratch
}

func NewDijkstraWitness(n Vertex, hopLimit int) *DijkstraWitness {
	return &DijkstraWitness{HopLimit: hopLimit, n: n, scratch: search.NewScratch(n)}
}

func (d *DijkstraWitness) Clone() WitnessPredicate {
	return NewDijkstraWitness(d.n, d.HopLimit)
}

func (d *DijkstraWitness) witnessDistances(g coregraph.Store, via, u Vertex, targets []Vertex) map[Vertex]Weight {
	set := make(map[Vertex]struct{}, len(targets))
	for _, t := range targets {
		set[t] = struct{}{}
	}
	view := excludeVertexStore{Store: g, excluded: via}
	return search.OneToManyHopLimit(view, u, set, d.HopLimit, d.scratch)
}

func (d *DijkstraWitness) IsNecessary(g coregraph.Store, via, u, w Vertex, candidateWeight Weight) bool {
	dist := d.witnessDistances(g, via, u, []Vertex{w})
	return dist[w] > candidateWeight
}

// HeuristicWitness keeps a candidate shortcut unless an upper-bound
// oracle proves a strictly shorter detour exists. Keeping is always
// safe; dropping is safe only when the oracle truly upper-bounds every
// detour distance, so this mode requires a sound heuristic.
type HeuristicWitness struct {
	H alt.Heuristic
}

func (h HeuristicWitness) IsNecessary(g coregraph.Store, via, u, w Vertex, candidateWeight Weight) bool {
	return h.H.IsUpperBoundAtLeast(u, w, candidateWeight)
}

// Clone returns the receiver: the heuristic is only read.
func (h HeuristicWitness) Clone() WitnessPredicate { return h }

// excludeVertexStore wraps a Store, hiding a single vertex so witness
// searches never route back through the vertex currently being
// contracted.
type excludeVertexStore struct {
	coregraph.Store
	excluded Vertex
}

func (s excludeVertexStore) EdgesOut(v Vertex) []coregraph.OutEdge {
	if v == s.excluded {
		return nil
	}
	edges := s.Store.EdgesOut(v)
	filtered := make([]coregraph.OutEdge, 0, len(edges))
	for _, e := range edges {
		if e.Head != s.excluded {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
