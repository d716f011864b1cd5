package ch

import (
	"container/heap"
	"fmt"
	"log"
	"runtime"
	"sync"

	"hublink/pkg/coregraph"
)

// maxShortcutsPerNode is the limit on shortcuts a single contraction can
// create in adaptive mode. Nodes exceeding this form an uncontracted
// "core" at the top of the hierarchy, assigned the highest levels in
// vertex-id order with their remaining edges carried over unchanged.
const maxShortcutsPerNode = 1000

// simulation is the outcome of simulating the contraction of one vertex:
// the shortcuts that would be added or updated, and the resulting edge
// difference (new shortcuts minus removed edges).
type simulation struct {
	vertex   Vertex
	added    []Shortcut
	updated  []Shortcut
	edgeDiff int
}

// simulate computes the candidate shortcuts for contracting v on the
// current graph. For every (u, v, w) pair with u an in-neighbor and w an
// out-neighbor, the candidate weight is weight(u,v) + weight(v,w):
//
//   - if an edge (u, w) already exists with weight <= candidate, the
//     candidate is dropped;
//   - if it exists with a larger weight, the candidate is an update;
//   - otherwise the witness predicate decides whether it is necessary.
//
// A candidate whose weight sum overflows is treated as unreachable and
// dropped.
func simulate(g *coregraph.Mutable, wp WitnessPredicate, v Vertex) simulation {
	ins := g.EdgesIn(v)
	outs := g.EdgesOut(v)
	sim := simulation{vertex: v}
	if len(ins) == 0 || len(outs) == 0 {
		sim.edgeDiff = -(len(ins) + len(outs))
		return sim
	}

	bw, _ := wp.(batchWitness)
	var targets []Vertex
	if bw != nil {
		targets = make([]Vertex, 0, len(outs))
		for _, oe := range outs {
			targets = append(targets, oe.Head)
		}
	}

	for _, ie := range ins {
		u := ie.Tail
		var detour map[Vertex]Weight
		if bw != nil {
			detour = bw.witnessDistances(g, v, u, targets)
		}
		for _, oe := range outs {
			w := oe.Head
			if w == u {
				continue
			}
			cand := ie.Weight + oe.Weight
			if cand < ie.Weight { // overflow
				continue
			}
			if existing, ok := g.WeightOf(u, w); ok {
				if existing > cand {
					sim.updated = append(sim.updated, Shortcut{Tail: u, Head: w, Weight: cand, Via: v})
				}
				continue
			}
			var necessary bool
			if bw != nil {
				necessary = detour[w] > cand
			} else {
				necessary = wp.IsNecessary(g, v, u, w, cand)
			}
			if necessary {
				sim.added = append(sim.added, Shortcut{Tail: u, Head: w, Weight: cand, Via: v})
			}
		}
	}

	sim.edgeDiff = len(sim.added) - len(ins) - len(outs)
	return sim
}

// artifacts accumulates the contraction output across the whole run.
type artifacts struct {
	levelToVertex []Vertex
	upward        []coregraph.Edge
	downward      []coregraph.Edge
	shortcuts     ShortcutMap
}

func newArtifacts(n Vertex) *artifacts {
	return &artifacts{
		levelToVertex: make([]Vertex, 0, n),
		shortcuts:     make(ShortcutMap),
	}
}

// contract finalizes the contraction of sim.vertex: its surviving edges
// are recorded into the upward/downward edge sets (every neighbor still
// in the graph will be contracted later, so it has a higher level), the
// vertex is disconnected, and the new and updated shortcut edges are
// applied to the mutable graph and the shortcut map.
func contract(g *coregraph.Mutable, sim simulation, acc *artifacts) {
	v := sim.vertex
	for _, oe := range g.EdgesOut(v) {
		acc.upward = append(acc.upward, coregraph.Edge{Tail: v, Head: oe.Head, Weight: oe.Weight})
	}
	for _, ie := range g.EdgesIn(v) {
		acc.downward = append(acc.downward, coregraph.Edge{Tail: v, Head: ie.Tail, Weight: ie.Weight})
	}
	g.Disconnect(v)
	for _, sc := range sim.added {
		g.SetWeight(sc.Tail, sc.Head, sc.Weight)
		acc.shortcuts[[2]Vertex{sc.Tail, sc.Head}] = sc.Via
	}
	for _, sc := range sim.updated {
		g.SetWeight(sc.Tail, sc.Head, sc.Weight)
		acc.shortcuts[[2]Vertex{sc.Tail, sc.Head}] = sc.Via
	}
	acc.levelToVertex = append(acc.levelToVertex, v)
}

func finalize(n Vertex, acc *artifacts) *CHGraph {
	return &CHGraph{
		LevelToVertex: acc.levelToVertex,
		VertexToLevel: invertLevels(acc.levelToVertex),
		Upward:        coregraph.Freeze(coregraph.FromEdges(acc.upward, n)),
		Downward:      coregraph.Freeze(coregraph.FromEdges(acc.downward, n)),
		Shortcuts:     acc.shortcuts,
	}
}

// ContractAdaptive contracts g bottom-up: a priority queue keyed by edge
// difference, lazily re-evaluated on extraction. The caller hands over
// ownership of g; it is drained during contraction.
func ContractAdaptive(g *coregraph.Mutable, wp WitnessPredicate) *CHGraph {
	n := g.NumVertices()
	if n == 0 {
		return finalize(0, newArtifacts(0))
	}

	// Queue priming is embarrassingly parallel: the graph is only read,
	// and every worker carries its own witness state.
	priorities := make([]int, n)
	workers := runtime.GOMAXPROCS(0)
	var wg sync.WaitGroup
	for wkr := 0; wkr < workers; wkr++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			own := wp.Clone()
			for v := Vertex(offset); v < n; v += Vertex(workers) {
				priorities[v] = simulate(g, own, v).edgeDiff
			}
		}(wkr)
	}
	wg.Wait()

	pq := newPriorityQueue(int(n))
	for v := Vertex(0); v < n; v++ {
		heap.Push(pq, &priorityEntry{vertex: v, priority: priorities[v]})
	}

	log.Printf("Starting contraction of %d vertices...", n)

	acc := newArtifacts(n)
	contracted := make([]bool, n)
	totalShortcuts := 0

	for pq.Len() > 0 {
		entry := heap.Pop(pq).(*priorityEntry)

		// Lazy update: the graph has changed since the priority was
		// computed. Re-simulate; if the vertex got worse than the next
		// candidate, push it back and move on.
		sim := simulate(g, wp, entry.vertex)
		if sim.edgeDiff > entry.priority && pq.Len() > 0 && sim.edgeDiff > (*pq)[0].priority {
			entry.priority = sim.edgeDiff
			heap.Push(pq, entry)
			continue
		}

		// Stop contracting when a single vertex would fan out too many
		// shortcuts; the remaining vertices become the core.
		if len(sim.added) > maxShortcutsPerNode {
			log.Printf("Stopping contraction: vertex %d would create %d shortcuts (limit %d). %d vertices remain in core.",
				entry.vertex, len(sim.added), maxShortcutsPerNode, int(n)-len(acc.levelToVertex))
			break
		}

		contract(g, sim, acc)
		contracted[entry.vertex] = true
		totalShortcuts += len(sim.added)

		done := len(acc.levelToVertex)
		if interval := progressInterval(int(n) - done); done%interval == 0 {
			log.Printf("Contracted %d/%d vertices, %d shortcuts so far", done, n, totalShortcuts)
		}
	}

	// Core vertices keep their remaining edges but produce no shortcuts.
	for v := Vertex(0); v < n; v++ {
		if !contracted[v] {
			contract(g, simulation{vertex: v}, acc)
		}
	}

	log.Printf("Contraction complete: %d shortcuts created", totalShortcuts)
	return finalize(n, acc)
}

// progressInterval grows coarser the more work remains, so the log tail
// stays readable at the end of a long build.
func progressInterval(remaining int) int {
	switch {
	case remaining < 1_000:
		return 100
	case remaining < 10_000:
		return 1_000
	case remaining < 100_000:
		return 10_000
	default:
		return 50_000
	}
}

// ContractFixedOrder contracts g top-down in the exact order given by
// levelToVertex (lowest level first), without re-evaluation. The order
// must be a permutation of [0, n); a corrupt order panics.
func ContractFixedOrder(g *coregraph.Mutable, levelToVertex []Vertex, wp WitnessPredicate) *CHGraph {
	n := g.NumVertices()
	if len(levelToVertex) != int(n) {
		panic(fmt.Sprintf("ch: order has %d entries for %d vertices", len(levelToVertex), n))
	}
	seen := make([]bool, n)
	for _, v := range levelToVertex {
		if v >= n || seen[v] {
			panic(fmt.Sprintf("ch: order is not a permutation of [0, %d)", n))
		}
		seen[v] = true
	}

	acc := newArtifacts(n)
	for _, v := range levelToVertex {
		contract(g, simulate(g, wp, v), acc)
	}
	return finalize(n, acc)
}
