package alt

import (
	"math/rand"

	"golang.org/x/sync/errgroup"

	"hublink/pkg/coregraph"
	"hublink/pkg/search"
)

type (
	Vertex = coregraph.Vertex
	Weight = coregraph.Weight
)

const weightInf = coregraph.WeightInf

// Heuristic is an upper/lower-bound oracle over pairs of vertices, used by
// pkg/ch's heuristic witness predicate and by A*-flavored queries.
type Heuristic interface {
	LowerBound(s, t Vertex) (Weight, bool)
	UpperBound(s, t Vertex) (Weight, bool)
	IsUpperBoundAtLeast(s, t Vertex, x Weight) bool
}

// Landmark holds one-to-all forward and backward distance tables from a
// single landmark vertex, computed over the original graph and its
// transpose respectively.
type Landmark struct {
	ToWeight   []Weight // ToWeight[v]   = d(v, landmark)
	FromWeight []Weight // FromWeight[v] = d(landmark, v)
}

// lowerBound is max(d(s,L) - d(t,L), d(L,t) - d(L,s)), clamped >= 0.
// Each term only needs its own two distances to be finite, so one
// unreachable direction does not wipe out the other term's bound.
func (lm *Landmark) lowerBound(s, t Vertex) (Weight, bool) {
	var best int64
	found := false
	if toS, toT := lm.ToWeight[s], lm.ToWeight[t]; toS != weightInf && toT != weightInf {
		best = int64(toS) - int64(toT)
		found = true
	}
	if fromS, fromT := lm.FromWeight[s], lm.FromWeight[t]; fromS != weightInf && fromT != weightInf {
		if d := int64(fromT) - int64(fromS); !found || d > best {
			best = d
		}
		found = true
	}
	if !found {
		return 0, false
	}
	if best < 0 {
		best = 0
	}
	return Weight(best), true
}

// upperBound is d(s,L) + d(L,t): the cost of the actual s -> L -> t
// detour through the landmark.
func (lm *Landmark) upperBound(s, t Vertex) (Weight, bool) {
	toS, fromT := lm.ToWeight[s], lm.FromWeight[t]
	if toS == weightInf || fromT == weightInf {
		return 0, false
	}
	sum := toS + fromT
	if sum < toS { // overflow
		return 0, false
	}
	return sum, true
}

// Landmarks is a set of Landmark tables combined by max (lower bound) and
// min (upper bound).
type Landmarks struct {
	set []Landmark
}

func (l *Landmarks) LowerBound(s, t Vertex) (Weight, bool) {
	best := Weight(0)
	found := false
	for i := range l.set {
		b, ok := l.set[i].lowerBound(s, t)
		if !ok {
			continue
		}
		found = true
		if b > best {
			best = b
		}
	}
	return best, found
}

func (l *Landmarks) UpperBound(s, t Vertex) (Weight, bool) {
	best := weightInf
	found := false
	for i := range l.set {
		b, ok := l.set[i].upperBound(s, t)
		if !ok {
			continue
		}
		found = true
		if b < best {
			best = b
		}
	}
	return best, found
}

// IsUpperBoundAtLeast reports whether the combined upper bound (the
// minimum over landmarks) is at least x, short-circuiting as soon as one
// landmark disproves it. With no finite bound at all nothing proves a
// detour shorter than x, so the answer is vacuously true.
func (l *Landmarks) IsUpperBoundAtLeast(s, t Vertex, x Weight) bool {
	for i := range l.set {
		if b, ok := l.set[i].upperBound(s, t); ok && b < x {
			return false
		}
	}
	return true
}

// Composite AND-s IsUpperBoundAtLeast across multiple heuristic sources,
// e.g. a Landmarks set plus a hub-graph distance oracle: a candidate
// survives only when no source disproves the bound.
type Composite struct {
	Sources []Heuristic
}

func (c *Composite) LowerBound(s, t Vertex) (Weight, bool) {
	best := Weight(0)
	found := false
	for _, h := range c.Sources {
		b, ok := h.LowerBound(s, t)
		if !ok {
			continue
		}
		found = true
		if b > best {
			best = b
		}
	}
	return best, found
}

func (c *Composite) UpperBound(s, t Vertex) (Weight, bool) {
	best := weightInf
	found := false
	for _, h := range c.Sources {
		b, ok := h.UpperBound(s, t)
		if !ok {
			continue
		}
		found = true
		if b < best {
			best = b
		}
	}
	return best, found
}

func (c *Composite) IsUpperBoundAtLeast(s, t Vertex, x Weight) bool {
	for _, h := range c.Sources {
		if !h.IsUpperBoundAtLeast(s, t, x) {
			return false
		}
	}
	return true
}

// BuildLandmarks selects k random vertices as landmarks and computes their
// forward/backward distance tables in parallel.
func BuildLandmarks(g, transpose coregraph.Store, k int, rng *rand.Rand) (*Landmarks, error) {
	n := g.NumVertices()
	sources := make([]Vertex, k)
	for i := range sources {
		sources[i] = Vertex(rng.Intn(int(n)))
	}

	landmarks := make([]Landmark, k)
	var eg errgroup.Group
	for i, src := range sources {
		i, src := i, src
		eg.Go(func() error {
			s := search.NewScratch(n)
			toDist := search.OneToAll(transpose, src, s)
			to := toDist.Snapshot()

			s2 := search.NewScratch(n)
			fromDist := search.OneToAll(g, src, s2)
			from := fromDist.Snapshot()

			landmarks[i] = Landmark{ToWeight: to, FromWeight: from}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return &Landmarks{set: landmarks}, nil
}
