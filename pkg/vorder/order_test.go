package vorder

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// chainOracle answers shortest paths over the chain 0-1-2-...-(n-1).
type chainOracle struct{ n int }

func (c chainOracle) ShortestPath(s, t Vertex) ([]Vertex, Weight, error) {
	lo, hi := s, t
	step := Vertex(1)
	if lo > hi {
		lo, hi = hi, lo
	}
	var path []Vertex
	if s <= t {
		for v := s; v <= t; v += step {
			path = append(path, v)
		}
	} else {
		for v := s; ; v-- {
			path = append(path, v)
			if v == t {
				break
			}
		}
	}
	return path, Weight(hi - lo), nil
}

func TestBuildOrderProducesPermutationOfAllVertices(t *testing.T) {
	const n = 20
	oracle := chainOracle{n: n}
	degree := func(v Vertex) int { return 1 }
	rng := rand.New(rand.NewSource(7))

	order := BuildOrder(oracle, Vertex(n), 30, degree, rng)

	require.Len(t, order, n)
	seen := make(map[Vertex]bool)
	for _, v := range order {
		require.False(t, seen[v], "vertex %d appears twice", v)
		seen[v] = true
	}
	for v := Vertex(0); v < n; v++ {
		require.True(t, seen[v], "vertex %d missing from order", v)
	}
}

func TestBuildOrderIsDeterministicGivenSameSeed(t *testing.T) {
	const n = 15
	oracle := chainOracle{n: n}
	degree := func(v Vertex) int { return int(v) % 3 }

	o1 := BuildOrder(oracle, Vertex(n), 25, degree, rand.New(rand.NewSource(42)))
	o2 := BuildOrder(oracle, Vertex(n), 25, degree, rand.New(rand.NewSource(42)))

	require.Equal(t, o1, o2)
}
