package coregraph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromEdgesDropsSelfLoopsAndCollapsesParallel(t *testing.T) {
	edges := []Edge{
		{Tail: 0, Head: 0, Weight: 5}, // self-loop, dropped
		{Tail: 0, Head: 1, Weight: 10},
		{Tail: 0, Head: 1, Weight: 3}, // parallel, min kept
		{Tail: 1, Head: 2, Weight: 1},
	}
	m := FromEdges(edges, 3)

	w, ok := m.WeightOf(0, 1)
	require.True(t, ok)
	require.Equal(t, Weight(3), w)
	require.Equal(t, 1, m.OutDegree(0))
}

func TestMutableSetWeightKeepsMinimum(t *testing.T) {
	m := NewMutable(2)
	m.SetWeight(0, 1, 5)
	m.SetWeight(0, 1, 9)
	w, ok := m.WeightOf(0, 1)
	require.True(t, ok)
	require.Equal(t, Weight(5), w)

	m.SetWeight(0, 1, 2)
	w, ok = m.WeightOf(0, 1)
	require.True(t, ok)
	require.Equal(t, Weight(2), w)
}

func TestMutableDisconnectRemovesBothDirections(t *testing.T) {
	m := NewMutable(3)
	m.SetWeight(0, 1, 1)
	m.SetWeight(1, 2, 1)
	m.SetWeight(2, 1, 1)

	m.Disconnect(1)

	require.Equal(t, 0, m.OutDegree(1))
	require.Equal(t, 0, m.InDegree(1))
	_, ok := m.WeightOf(0, 1)
	require.False(t, ok)
	_, ok = m.WeightOf(2, 1)
	require.False(t, ok)
	// edges not touching 1 remain untouched
	m.SetWeight(0, 2, 7)
	w, ok := m.WeightOf(0, 2)
	require.True(t, ok)
	require.Equal(t, Weight(7), w)
}

func TestFreezeMatchesMutable(t *testing.T) {
	m := NewMutable(4)
	m.SetWeight(0, 1, 1)
	m.SetWeight(1, 2, 1)
	m.SetWeight(2, 3, 1)
	m.SetWeight(0, 3, 10)

	p := Freeze(m)

	require.Equal(t, Vertex(4), p.NumVertices())
	for u := Vertex(0); u < 4; u++ {
		mOut := m.EdgesOut(u)
		pOut := p.EdgesOut(u)
		require.Equal(t, len(mOut), len(pOut))
		for _, oe := range mOut {
			w, ok := p.WeightOf(u, oe.Head)
			require.True(t, ok)
			require.Equal(t, oe.Weight, w)
		}
	}

	// reverse adjacency agrees too
	inEdges := p.EdgesIn(3)
	require.Len(t, inEdges, 2)
}

func TestReversedFlipsEveryEdge(t *testing.T) {
	m := NewMutable(3)
	m.SetWeight(0, 1, 4)
	m.SetWeight(1, 2, 6)
	p := Freeze(m)

	r := p.Reversed()
	w, ok := r.WeightOf(1, 0)
	require.True(t, ok)
	require.Equal(t, Weight(4), w)
	w, ok = r.WeightOf(2, 1)
	require.True(t, ok)
	require.Equal(t, Weight(6), w)
}

func TestInsertAndUpdateAppliesNewEdgesAndDecreases(t *testing.T) {
	m := NewMutable(3)
	m.SetWeight(0, 1, 9)

	m.InsertAndUpdate([]Edge{
		{Tail: 0, Head: 1, Weight: 4},  // decrease
		{Tail: 1, Head: 2, Weight: 6},  // new
		{Tail: 0, Head: 1, Weight: 12}, // worse, ignored
	})

	w, ok := m.WeightOf(0, 1)
	require.True(t, ok)
	require.Equal(t, Weight(4), w)
	w, ok = m.WeightOf(1, 2)
	require.True(t, ok)
	require.Equal(t, Weight(6), w)
}
