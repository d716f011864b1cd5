package genpairs

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hublink/pkg/coregraph"
)

func chain(n int) *coregraph.Packed {
	m := coregraph.NewMutable(coregraph.Vertex(n))
	for i := 0; i < n-1; i++ {
		m.SetWeight(coregraph.Vertex(i), coregraph.Vertex(i+1), 2)
	}
	return coregraph.Freeze(m)
}

func TestGenerateResolvesDistances(t *testing.T) {
	g := chain(8)
	cases := Generate(g, 50, rand.New(rand.NewSource(11)))
	require.Len(t, cases, 50)

	for _, c := range cases {
		if c.Source <= c.Target {
			require.True(t, c.Reachable, "pair (%d, %d)", c.Source, c.Target)
			assert.Equal(t, coregraph.Weight(2*(c.Target-c.Source)), c.Distance)
		} else {
			assert.False(t, c.Reachable, "the chain is one-way")
		}
	}
}

func TestGenerateDeterministicForSeed(t *testing.T) {
	g := chain(8)
	a := Generate(g, 20, rand.New(rand.NewSource(5)))
	b := Generate(g, 20, rand.New(rand.NewSource(5)))
	assert.Equal(t, a, b)
}

func TestGenerateEmptyInputs(t *testing.T) {
	assert.Nil(t, Generate(chain(4), 0, rand.New(rand.NewSource(1))))
	assert.Nil(t, Generate(coregraph.Freeze(coregraph.NewMutable(0)), 3, rand.New(rand.NewSource(1))))
}
