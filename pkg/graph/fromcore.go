package graph

import (
	"hublink/pkg/ch"
	"hublink/pkg/coregraph"
)

// witnessHopLimit bounds witness searches during road-network
// contraction; detours longer than this many hops almost never beat a
// candidate shortcut on road graphs.
const witnessHopLimit = 5

// Contract runs the adaptive contraction over a road graph. It returns
// both the packed, geometry-aware overlay (what the routing engine and
// the binary format consume) and the abstract core artifact (what
// hub-label construction consumes).
func Contract(g *Graph) (*CHGraph, *ch.CHGraph) {
	edges := make([]coregraph.Edge, 0, g.NumEdges)
	for u := uint32(0); u < g.NumNodes; u++ {
		start, end := g.EdgesFrom(u)
		for e := start; e < end; e++ {
			edges = append(edges, coregraph.Edge{Tail: u, Head: g.Head[e], Weight: g.Weight[e]})
		}
	}
	core := ch.ContractAdaptive(coregraph.FromEdges(edges, g.NumNodes), ch.NewDijkstraWitness(g.NumNodes, witnessHopLimit))
	return FromCore(core, g), core
}

// FromCore flattens an abstract contraction hierarchy into the packed,
// geometry-aware CHGraph the routing engine and the binary format use.
// The upward graph becomes the forward overlay, the downward graph the
// backward overlay; per-edge middle vertices come from the shortcut map
// (original edges get -1). Node coordinates, original edges and geometry
// are carried over from the base graph.
func FromCore(core *ch.CHGraph, orig *Graph) *CHGraph {
	n := orig.NumNodes

	fwdFirstOut, fwdHead, fwdWeight, fwdMiddle := flattenOverlay(core.Upward, core.Shortcuts, n, false)
	bwdFirstOut, bwdHead, bwdWeight, bwdMiddle := flattenOverlay(core.Downward, core.Shortcuts, n, true)

	return &CHGraph{
		NumNodes:     n,
		NodeLat:      orig.NodeLat,
		NodeLon:      orig.NodeLon,
		Rank:         core.VertexToLevel,
		FwdFirstOut:  fwdFirstOut,
		FwdHead:      fwdHead,
		FwdWeight:    fwdWeight,
		FwdMiddle:    fwdMiddle,
		BwdFirstOut:  bwdFirstOut,
		BwdHead:      bwdHead,
		BwdWeight:    bwdWeight,
		BwdMiddle:    bwdMiddle,
		OrigFirstOut: orig.FirstOut,
		OrigHead:     orig.Head,
		OrigWeight:   orig.Weight,
		GeoFirstOut:  orig.GeoFirstOut,
		GeoShapeLat:  orig.GeoShapeLat,
		GeoShapeLon:  orig.GeoShapeLon,
	}
}

// flattenOverlay converts one packed half of the hierarchy into CSR
// arrays plus the per-edge middle vertex. Backward overlay edges are
// stored reversed (low vertex -> high vertex), so the shortcut map —
// keyed by the edge's original direction — is consulted with swapped
// endpoints there.
func flattenOverlay(g *coregraph.Packed, shortcuts ch.ShortcutMap, n uint32, reversed bool) (firstOut, head, weight []uint32, middle []int32) {
	firstOut = make([]uint32, n+1)
	for v := uint32(0); v < n; v++ {
		edges := g.EdgesOut(v)
		firstOut[v+1] = firstOut[v] + uint32(len(edges))
		for _, e := range edges {
			head = append(head, e.Head)
			weight = append(weight, e.Weight)
			key := [2]uint32{v, e.Head}
			if reversed {
				key = [2]uint32{e.Head, v}
			}
			if via, ok := shortcuts[key]; ok {
				middle = append(middle, int32(via))
			} else {
				middle = append(middle, -1)
			}
		}
	}
	return firstOut, head, weight, middle
}
