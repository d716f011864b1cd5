// Package genpairs samples random (source, target, distance) triples
// against a plain Dijkstra oracle, for regression suites and benchmark
// inputs.
package genpairs

import (
	"errors"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"hublink/pkg/coregraph"
	"hublink/pkg/search"
)

// Case is one sampled query with its reference answer.
type Case struct {
	Source    coregraph.Vertex
	Target    coregraph.Vertex
	Distance  coregraph.Weight
	Reachable bool
}

// Generate draws k random vertex pairs and resolves each against a
// one-to-one Dijkstra on g. The pairs come out of rng serially, so the
// result is deterministic for a given seed; only the searches fan out
// over the available cores, each worker reusing its own scratch.
func Generate(g coregraph.Store, k int, rng *rand.Rand) []Case {
	n := g.NumVertices()
	if n == 0 || k <= 0 {
		return nil
	}

	cases := make([]Case, k)
	for i := range cases {
		cases[i].Source = coregraph.Vertex(rng.Intn(int(n)))
		cases[i].Target = coregraph.Vertex(rng.Intn(int(n)))
	}

	workers := runtime.GOMAXPROCS(0)
	var eg errgroup.Group
	for wkr := 0; wkr < workers; wkr++ {
		wkr := wkr
		eg.Go(func() error {
			scratch := search.NewScratch(n)
			for i := wkr; i < k; i += workers {
				d, err := search.OneToOne(g, cases[i].Source, cases[i].Target, scratch)
				if errors.Is(err, search.ErrUnreachable) {
					continue
				}
				cases[i].Distance = d
				cases[i].Reachable = true
			}
			return nil
		})
	}
	_ = eg.Wait()
	return cases
}
