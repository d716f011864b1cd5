package hl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hublink/pkg/ch"
	"hublink/pkg/coregraph"
	"hublink/pkg/search"
)

func lineGraph() ([]coregraph.Edge, Vertex) {
	return []coregraph.Edge{
		{Tail: 0, Head: 1, Weight: 1},
		{Tail: 1, Head: 2, Weight: 1},
		{Tail: 2, Head: 3, Weight: 1},
		{Tail: 3, Head: 4, Weight: 1},
	}, 5
}

func grid3x3() ([]coregraph.Edge, Vertex) {
	var edges []coregraph.Edge
	for r := Vertex(0); r < 3; r++ {
		for c := Vertex(0); c < 3; c++ {
			v := r*3 + c
			if c+1 < 3 {
				edges = append(edges,
					coregraph.Edge{Tail: v, Head: v + 1, Weight: 1},
					coregraph.Edge{Tail: v + 1, Head: v, Weight: 1})
			}
			if r+1 < 3 {
				edges = append(edges,
					coregraph.Edge{Tail: v, Head: v + 3, Weight: 1},
					coregraph.Edge{Tail: v + 3, Head: v, Weight: 1})
			}
		}
	}
	return edges, 9
}

func refDistance(edges []coregraph.Edge, n Vertex, s, d Vertex) (Weight, bool) {
	g := coregraph.Freeze(coregraph.FromEdges(edges, n))
	dist, err := search.OneToOne(g, s, d, search.NewScratch(n))
	if err != nil {
		return 0, false
	}
	return dist, true
}

func checkAllPairs(t *testing.T, hg *HubGraph, edges []coregraph.Edge, n Vertex) {
	t.Helper()
	for s := Vertex(0); s < n; s++ {
		for d := Vertex(0); d < n; d++ {
			want, reachable := refDistance(edges, n, s, d)
			got, ok := hg.Distance(s, d)
			require.Equal(t, reachable, ok, "reachability %d -> %d", s, d)
			if reachable {
				require.Equal(t, want, got, "distance %d -> %d", s, d)
			}
		}
	}
}

// checkLabelInvariants asserts, for every forward label: hub-sorted
// order, the owner entry at distance zero, every entry's distance equal
// to the true shortest distance, and the pruning condition that the
// overlap with the hub's backward label reproduces the entry's distance.
func checkLabelInvariants(t *testing.T, hg *HubGraph, edges []coregraph.Edge, n Vertex) {
	t.Helper()
	for s := Vertex(0); s < n; s++ {
		label := hg.Forward.Label(s)
		ownerSeen := false
		for i, e := range label {
			if i > 0 {
				require.Less(t, label[i-1].Hub, e.Hub, "label of %d is not hub-sorted", s)
			}
			if e.Hub == s {
				ownerSeen = true
				require.Equal(t, Weight(0), e.Dist)
				require.Equal(t, NoPredecessor, e.Pred)
			}
			want, reachable := refDistance(edges, n, s, e.Hub)
			require.True(t, reachable)
			require.Equal(t, want, e.Dist, "entry (%d, %d)", s, e.Hub)

			overlap, _, _, ok := Overlap(label, hg.Backward.Label(e.Hub))
			require.True(t, ok)
			require.Equal(t, e.Dist, overlap, "pruning invariant for (%d, %d)", s, e.Hub)
		}
		require.True(t, ownerSeen, "label of %d misses its owner", s)
	}
}

func buildGridCH(t *testing.T) (*ch.CHGraph, []coregraph.Edge, Vertex) {
	t.Helper()
	edges, n := grid3x3()
	chg := ch.ContractAdaptive(coregraph.FromEdges(edges, n), ch.NewDijkstraWitness(n, 16))
	require.NoError(t, chg.Validate())
	return chg, edges, n
}

func TestBuildFromCHGrid(t *testing.T) {
	chg, edges, n := buildGridCH(t)
	hg := BuildFromCH(chg)
	checkAllPairs(t, hg, edges, n)
	checkLabelInvariants(t, hg, edges, n)
}

func TestBuildFromCHIdempotent(t *testing.T) {
	chg, _, _ := buildGridCH(t)
	first := BuildFromCH(chg)
	second := BuildFromCH(chg)
	assert.Equal(t, first.Forward.Entries(), second.Forward.Entries())
	assert.Equal(t, first.Forward.First(), second.Forward.First())
	assert.Equal(t, first.Backward.Entries(), second.Backward.Entries())
	assert.Equal(t, first.Backward.First(), second.Backward.First())
}

func TestBuildBruteForceGrid(t *testing.T) {
	edges, n := grid3x3()
	order := []Vertex{4, 0, 2, 6, 8, 1, 3, 5, 7}
	hg := BuildBruteForce(coregraph.Freeze(coregraph.FromEdges(edges, n)), order, nil)
	checkAllPairs(t, hg, edges, n)
	checkLabelInvariants(t, hg, edges, n)
}

func TestBuildBruteForceLineGraph(t *testing.T) {
	edges, n := lineGraph()
	order := []Vertex{1, 2, 3, 0, 4}
	hg := BuildBruteForce(coregraph.Freeze(coregraph.FromEdges(edges, n)), order, nil)
	checkAllPairs(t, hg, edges, n)

	// the line is one-way: nothing reaches 0, so its backward label is
	// just the owner
	require.Equal(t, Label{{Hub: 0, Dist: 0, Pred: NoPredecessor}}, hg.Backward.Label(0))
}

// Scenario: 0 -> 1 (1), 1 -> 2 (1), 0 -> 2 (3) with order [0, 2, 1], so
// vertex 1 is the top of the hierarchy. The merged forward label of 0
// picks up hub 2 through the direct weight-3 edge; pruning must discard
// it because the overlap through hub 1 proves distance 2.
func TestBuildFromCHPruning(t *testing.T) {
	edges := []coregraph.Edge{
		{Tail: 0, Head: 1, Weight: 1},
		{Tail: 1, Head: 2, Weight: 1},
		{Tail: 0, Head: 2, Weight: 3},
	}
	chg := ch.ContractFixedOrder(coregraph.FromEdges(edges, 3), []Vertex{0, 2, 1}, ch.NewDijkstraWitness(3, 16))
	require.NoError(t, chg.Validate())

	hg := BuildFromCH(chg)

	f0 := hg.Forward.Label(0)
	require.Len(t, f0, 2)
	assert.Equal(t, Entry{Hub: 0, Dist: 0, Pred: NoPredecessor}, f0[0])
	assert.Equal(t, Vertex(1), f0[1].Hub)
	assert.Equal(t, Weight(1), f0[1].Dist)

	d, ok := hg.Distance(0, 2)
	require.True(t, ok)
	assert.Equal(t, Weight(2), d)

	p, d, ok := hg.Path(0, 2)
	require.True(t, ok)
	assert.Equal(t, Weight(2), d)
	assert.Equal(t, []Vertex{0, 1, 2}, p)
}

func TestHubGraphPathUnfoldsShortcuts(t *testing.T) {
	edges, n := lineGraph()
	chg := ch.ContractFixedOrder(coregraph.FromEdges(edges, n), []Vertex{1, 2, 3, 0, 4}, ch.NewDijkstraWitness(n, 16))
	hg := BuildFromCH(chg)

	p, d, ok := hg.Path(0, 4)
	require.True(t, ok)
	assert.Equal(t, Weight(4), d)
	assert.Equal(t, []Vertex{0, 1, 2, 3, 4}, p)
}

func TestHubGraphUnreachable(t *testing.T) {
	edges := []coregraph.Edge{
		{Tail: 0, Head: 1, Weight: 1},
		{Tail: 2, Head: 3, Weight: 1},
	}
	chg := ch.ContractAdaptive(coregraph.FromEdges(edges, 4), ch.NewDijkstraWitness(4, 16))
	hg := BuildFromCH(chg)

	_, ok := hg.Distance(0, 3)
	assert.False(t, ok)
	_, _, ok = hg.Path(0, 3)
	assert.False(t, ok)

	d, ok := hg.Distance(3, 3)
	require.True(t, ok)
	assert.Equal(t, Weight(0), d)
}

// A hub graph is an exact oracle, so a second hierarchy built with the
// heuristic witness over it must answer the same distances as the first.
func TestDistanceOracleGuidedContraction(t *testing.T) {
	chg, edges, n := buildGridCH(t)
	oracle := DistanceOracle{HG: BuildFromCH(chg)}

	second := ch.ContractFixedOrder(coregraph.FromEdges(edges, n), chg.LevelToVertex, ch.HeuristicWitness{H: oracle})
	require.NoError(t, second.Validate())

	qs := ch.NewQueryScratch()
	for s := Vertex(0); s < n; s++ {
		for d := Vertex(0); d < n; d++ {
			if s == d {
				continue
			}
			want, _ := refDistance(edges, n, s, d)
			got, ok := ch.Distance(second, qs, s, d)
			require.True(t, ok)
			require.Equal(t, want, got, "heuristic-guided distance %d -> %d", s, d)
		}
	}
}
