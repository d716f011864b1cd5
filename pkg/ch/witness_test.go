package ch

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"hublink/pkg/alt"
	"hublink/pkg/coregraph"
)

// asymmetricRing is a one-way ring with a few chords, so most pairs have
// different distances in the two directions and several candidate
// shortcuts get genuinely dropped or kept by the witness.
func asymmetricRing() ([]coregraph.Edge, Vertex) {
	return []coregraph.Edge{
		{Tail: 0, Head: 1, Weight: 2},
		{Tail: 1, Head: 2, Weight: 3},
		{Tail: 2, Head: 3, Weight: 1},
		{Tail: 3, Head: 4, Weight: 2},
		{Tail: 4, Head: 5, Weight: 1},
		{Tail: 5, Head: 0, Weight: 4},
		{Tail: 0, Head: 3, Weight: 9},
		{Tail: 2, Head: 5, Weight: 2},
		{Tail: 1, Head: 4, Weight: 10},
	}, 6
}

func buildTestLandmarks(t *testing.T, edges []coregraph.Edge, n Vertex) *alt.Landmarks {
	t.Helper()
	g := coregraph.Freeze(coregraph.FromEdges(edges, n))
	lm, err := alt.BuildLandmarks(g, g.Reversed(), 4, rand.New(rand.NewSource(9)))
	require.NoError(t, err)
	return lm
}

// A landmark upper bound is a real detour cost, so a CH contracted with
// the landmark witness must answer exactly like Dijkstra. This is the
// same wiring the buildindex driver's --landmarks flag uses.
func TestLandmarkWitnessContractionStaysExact(t *testing.T) {
	edges, n := asymmetricRing()
	lm := buildTestLandmarks(t, edges, n)

	for name, chg := range map[string]*CHGraph{
		"fixed order": ContractFixedOrder(coregraph.FromEdges(edges, n), []Vertex{0, 1, 2, 3, 4, 5}, HeuristicWitness{H: lm}),
		"adaptive":    ContractAdaptive(coregraph.FromEdges(edges, n), HeuristicWitness{H: lm}),
	} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, chg.Validate())
			qs := NewQueryScratch()
			for s := Vertex(0); s < n; s++ {
				for d := Vertex(0); d < n; d++ {
					if s == d {
						continue
					}
					want, reachable := refDistance(t, edges, n, s, d)
					require.True(t, reachable)
					got, ok := Distance(chg, qs, s, d)
					require.True(t, ok, "no path %d -> %d", s, d)
					require.Equal(t, want, got, "distance %d -> %d", s, d)

					p, dist, ok := Path(chg, qs, s, d)
					require.True(t, ok)
					checkPath(t, edges, n, p, s, d, dist)
				}
			}
		})
	}
}

// With unreachable pairs no landmark can bound the detour, so the
// witness must conservatively keep the candidate rather than drop it.
func TestLandmarkWitnessDisconnectedGraph(t *testing.T) {
	edges := []coregraph.Edge{
		{Tail: 0, Head: 1, Weight: 1},
		{Tail: 1, Head: 2, Weight: 1},
		{Tail: 3, Head: 4, Weight: 1},
	}
	n := Vertex(5)
	lm := buildTestLandmarks(t, edges, n)

	chg := ContractFixedOrder(coregraph.FromEdges(edges, n), []Vertex{1, 0, 2, 3, 4}, HeuristicWitness{H: lm})
	require.NoError(t, chg.Validate())

	qs := NewQueryScratch()
	dist, ok := Distance(chg, qs, 0, 2)
	require.True(t, ok)
	require.Equal(t, Weight(2), dist)

	_, _, ok = Query(chg, qs, 0, 4)
	require.False(t, ok)
}
