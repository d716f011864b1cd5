package vorder

import (
	"math/rand"
	"sort"

	"golang.org/x/sync/errgroup"

	"hublink/pkg/coregraph"
)

type (
	Vertex = coregraph.Vertex
	Weight = coregraph.Weight
)

// PathOracle answers shortest-path queries with the full vertex sequence,
// as required by the hitting-set sampler.
type PathOracle interface {
	ShortestPath(s, t Vertex) ([]Vertex, Weight, error)
}

// BuildOrder runs the greedy hitting-set procedure: sample k random
// (source, target) pairs, repeatedly pick the vertex hitting the most
// remaining paths and prepend it to the order, then place every vertex
// never touched at the front of the order (lowest levels) sorted by
// ascending degree. The result is level_to_vertex: index 0 is the lowest
// level, the last index the highest (contracted last).
//
// Deterministic given the same rng: the sample pairs are drawn serially
// before the parallel sampling fan-out so goroutine scheduling never
// affects the outcome.
func BuildOrder(oracle PathOracle, n Vertex, k int, degree func(Vertex) int, rng *rand.Rand) []Vertex {
	pairs := make([][2]Vertex, k)
	for i := 0; i < k; i++ {
		pairs[i] = [2]Vertex{Vertex(rng.Intn(int(n))), Vertex(rng.Intn(int(n)))}
	}

	paths := make([][]Vertex, k)
	var eg errgroup.Group
	for i := range pairs {
		i := i
		eg.Go(func() error {
			s, t := pairs[i][0], pairs[i][1]
			if s == t {
				return nil
			}
			path, _, err := oracle.ShortestPath(s, t)
			if err != nil {
				return nil // unreachable pair, simply contributes nothing
			}
			if len(path) > 1 {
				paths[i] = path
			}
			return nil
		})
	}
	_ = eg.Wait() // ShortestPath never returns a hard error worth propagating here

	remaining := make([][]Vertex, 0, k)
	for _, p := range paths {
		if len(p) > 1 {
			remaining = append(remaining, p)
		}
	}

	var order []Vertex
	touched := make(map[Vertex]bool)

	for {
		anyLong := false
		for _, p := range remaining {
			if len(p) > 1 {
				anyLong = true
				break
			}
		}
		if !anyLong {
			break
		}

		counts := make(map[Vertex]int)
		for _, p := range remaining {
			for _, v := range p {
				counts[v]++
			}
		}

		var best Vertex
		bestCount := -1
		haveBest := false
		for v, c := range counts {
			if c > bestCount || (c == bestCount && v < best) {
				best, bestCount = v, c
				haveBest = true
			}
		}
		if !haveBest {
			break
		}

		order = append([]Vertex{best}, order...)
		touched[best] = true

		kept := remaining[:0]
		for _, p := range remaining {
			hit := false
			for _, v := range p {
				if v == best {
					hit = true
					break
				}
			}
			if !hit {
				kept = append(kept, p)
			}
		}
		remaining = kept
	}

	untouched := make([]Vertex, 0, int(n)-len(touched))
	for v := Vertex(0); v < n; v++ {
		if !touched[v] {
			untouched = append(untouched, v)
		}
	}
	sort.Slice(untouched, func(i, j int) bool {
		di, dj := degree(untouched[i]), degree(untouched[j])
		if di != dj {
			return di < dj
		}
		return untouched[i] < untouched[j]
	})

	return append(untouched, order...)
}
