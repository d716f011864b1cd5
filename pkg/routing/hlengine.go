package routing

import (
	"context"
	"math"

	"hublink/pkg/graph"
	"hublink/pkg/hl"
)

// HLEngine implements Router over hub labels: a query is a linear merge
// of two labels instead of a bidirectional search. It shares the snapper
// and geometry handling with the CH engine, so the two are drop-in
// replacements for each other behind the Router interface.
type HLEngine struct {
	hg        *hl.HubGraph
	origGraph *graph.Graph
	snapper   *Snapper
}

// NewHLEngine creates a hub-label routing engine. The hub graph must
// have been built over the same (filtered) graph the snapper indexes.
func NewHLEngine(hg *hl.HubGraph, origGraph *graph.Graph) *HLEngine {
	return &HLEngine{
		hg:        hg,
		origGraph: origGraph,
		snapper:   NewSnapper(origGraph),
	}
}

// Route computes the shortest path between two points. Both snap points
// sit on an edge, so the query tries the four endpoint combinations with
// their offsets along the snapped edges and keeps the cheapest.
func (e *HLEngine) Route(ctx context.Context, start, end LatLng) (*RouteResult, error) {
	startSnap, err := e.snapper.Snap(start.Lat, start.Lng)
	if err != nil {
		return nil, err
	}
	endSnap, err := e.snapper.Snap(end.Lat, end.Lng)
	if err != nil {
		return nil, err
	}

	startWeight := e.origGraph.Weight[startSnap.EdgeIdx]
	endWeight := e.origGraph.Weight[endSnap.EdgeIdx]
	sources := [2]seed{
		{node: startSnap.NodeV, offset: uint64(math.Round(float64(startWeight) * (1 - startSnap.Ratio)))},
		{node: startSnap.NodeU, offset: uint64(math.Round(float64(startWeight) * startSnap.Ratio))},
	}
	targets := [2]seed{
		{node: endSnap.NodeU, offset: uint64(math.Round(float64(endWeight) * endSnap.Ratio))},
		{node: endSnap.NodeV, offset: uint64(math.Round(float64(endWeight) * (1 - endSnap.Ratio)))},
	}

	best := uint64(math.MaxUint64)
	var bestS, bestT uint32
	for _, s := range sources {
		for _, t := range targets {
			d, ok := e.hg.Distance(s.node, t.node)
			if !ok {
				continue
			}
			if total := s.offset + uint64(d) + t.offset; total < best {
				best = total
				bestS, bestT = s.node, t.node
			}
		}
	}
	if best == math.MaxUint64 {
		return nil, ErrNoRoute
	}

	nodes, _, ok := e.hg.Path(bestS, bestT)
	if !ok {
		return nil, ErrNoRoute
	}

	totalDistMeters := float64(best) / 1000.0
	return &RouteResult{
		TotalDistanceMeters: totalDistMeters,
		Segments: []Segment{
			{
				DistanceMeters: totalDistMeters,
				Geometry:       buildGeometry(e.origGraph, nodes),
			},
		},
	}, nil
}

type seed struct {
	node   uint32
	offset uint64
}
