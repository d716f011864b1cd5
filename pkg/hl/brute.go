package hl

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"hublink/pkg/ch"
	"hublink/pkg/coregraph"
	"hublink/pkg/search"
)

// BuildBruteForce builds labels with one full Dijkstra per vertex on the
// original graph: a settled vertex t enters the forward label of s
// exactly when t itself is the highest-level vertex on the shortest path
// s -> t, with the previous peak as its predecessor. Labels are then
// pruned against the opposite direction.
//
// The shortcut map is optional; without it (or with labels whose peaks
// are not connected by contracted-graph edges) the result serves as a
// distance oracle only.
func BuildBruteForce(g *coregraph.Packed, levelToVertex []Vertex, shortcuts ch.ShortcutMap) *HubGraph {
	n := g.NumVertices()
	vertexToLevel := make([]Vertex, n)
	for level, v := range levelToVertex {
		vertexToLevel[v] = Vertex(level)
	}
	rev := g.Reversed()

	fwdRaw := make([]rawLabel, n)
	bwdRaw := make([]rawLabel, n)
	forEachVertex(n, func(s Vertex, scratch *search.Scratch) {
		fwdRaw[s] = bruteLabel(g, s, vertexToLevel, scratch)
	})
	forEachVertex(n, func(s Vertex, scratch *search.Scratch) {
		bwdRaw[s] = bruteLabel(rev, s, vertexToLevel, scratch)
	})

	// Prune both directions against the unpruned opposite so the two
	// passes see the same overlap distances regardless of order.
	fwdPruned := make([]rawLabel, n)
	bwdPruned := make([]rawLabel, n)
	forEachVertex(n, func(s Vertex, _ *search.Scratch) {
		fwdPruned[s] = pruneLabel(fwdRaw[s], bwdRaw)
		bwdPruned[s] = pruneLabel(bwdRaw[s], fwdRaw)
	})

	if shortcuts == nil {
		shortcuts = make(ch.ShortcutMap)
	}
	return assemble(fwdPruned, bwdPruned, shortcuts, levelToVertex, vertexToLevel)
}

// forEachVertex fans a per-vertex job out over the available cores, one
// reusable search scratch per worker.
func forEachVertex(n Vertex, job func(v Vertex, scratch *search.Scratch)) {
	workers := runtime.GOMAXPROCS(0)
	var eg errgroup.Group
	for wkr := 0; wkr < workers; wkr++ {
		wkr := wkr
		eg.Go(func() error {
			scratch := search.NewScratch(n)
			for v := Vertex(wkr); v < n; v += Vertex(workers) {
				job(v, scratch)
			}
			return nil
		})
	}
	_ = eg.Wait()
}

func bruteLabel(g *coregraph.Packed, s Vertex, vertexToLevel []Vertex, scratch *search.Scratch) rawLabel {
	search.ShortestPathTree(g, s, scratch)
	n := g.NumVertices()

	// peak[v] is the highest-level vertex on the tree path s -> v,
	// resolved iteratively along predecessor links.
	const unresolved = ^Vertex(0)
	peak := make([]Vertex, n)
	for i := range peak {
		peak[i] = unresolved
	}
	peak[s] = s

	var stack []Vertex
	resolve := func(v Vertex) {
		stack = stack[:0]
		for peak[v] == unresolved {
			stack = append(stack, v)
			v = scratch.Pred[v]
		}
		for i := len(stack) - 1; i >= 0; i-- {
			u := stack[i]
			p := peak[scratch.Pred[u]]
			if vertexToLevel[p] > vertexToLevel[u] {
				peak[u] = p
			} else {
				peak[u] = u
			}
		}
	}

	var label rawLabel
	for v := Vertex(0); v < n; v++ {
		if scratch.Dist.Get(v) == weightInf {
			continue
		}
		resolve(v)
		if peak[v] != v {
			continue
		}
		pred := noPredVertex
		if v != s {
			pred = peak[scratch.Pred[v]]
		}
		label = append(label, rawEntry{hub: v, dist: scratch.Dist.Get(v), pred: pred})
	}
	// ascending vertex iteration leaves the label hub-sorted already
	return label
}
