package routing

import (
	"errors"
	"math"

	"github.com/tidwall/rtree"

	"hublink/pkg/geo"
	"hublink/pkg/graph"
)

const maxSnapDistMeters = 500.0

// Search window around the query point, in degrees. 0.01° of latitude is
// about 1.1 km, past the 500 m snap limit. Longitude degrees shrink with
// latitude: beyond about 63° the window's east-west half-width is below
// 500 m, so roads inside the limit but outside the window are not found.
const snapSearchRadiusDeg = 0.01

// ErrPointTooFar is returned when the query point is too far from any road.
var ErrPointTooFar = errors.New("point too far from road")

// SnapResult represents a point snapped to a road segment.
type SnapResult struct {
	EdgeIdx uint32  // index into original edge arrays
	NodeU   uint32  // source node of the edge
	NodeV   uint32  // target node of the edge
	Ratio   float64 // 0.0 = at NodeU, 1.0 = at NodeV
	Dist    float64 // distance in meters from query point to snapped point
}

// snapEdge is the R-tree payload: one original edge and its source node
// (the CSR arrays only store the head).
type snapEdge struct {
	edgeIdx uint32
	source  uint32
}

// Snapper provides nearest-road snapping backed by an R-tree over the
// segment bounding boxes, built once and queried read-only.
type Snapper struct {
	tr rtree.RTree
	g  *graph.Graph
}

// NewSnapper indexes every edge of the original graph.
func NewSnapper(g *graph.Graph) *Snapper {
	s := &Snapper{g: g}
	for u := uint32(0); u < g.NumNodes; u++ {
		start, end := g.EdgesFrom(u)
		for e := start; e < end; e++ {
			v := g.Head[e]
			uLat, uLon := g.NodeLat[u], g.NodeLon[u]
			vLat, vLon := g.NodeLat[v], g.NodeLon[v]
			s.tr.Insert(
				[2]float64{math.Min(uLon, vLon), math.Min(uLat, vLat)},
				[2]float64{math.Max(uLon, vLon), math.Max(uLat, vLat)},
				snapEdge{edgeIdx: e, source: u},
			)
		}
	}
	return s
}

// Snap finds the nearest road segment to the given lat/lng.
func (s *Snapper) Snap(lat, lng float64) (SnapResult, error) {
	bestDist := math.Inf(1)
	var bestResult SnapResult

	s.tr.Search(
		[2]float64{lng - snapSearchRadiusDeg, lat - snapSearchRadiusDeg},
		[2]float64{lng + snapSearchRadiusDeg, lat + snapSearchRadiusDeg},
		func(min, max [2]float64, value interface{}) bool {
			ce := value.(snapEdge)
			u := ce.source
			v := s.g.Head[ce.edgeIdx]

			exactDist, ratio := geo.PointToSegmentDist(
				lat, lng,
				s.g.NodeLat[u], s.g.NodeLon[u],
				s.g.NodeLat[v], s.g.NodeLon[v],
			)

			if exactDist < bestDist {
				bestDist = exactDist
				bestResult = SnapResult{
					EdgeIdx: ce.edgeIdx,
					NodeU:   u,
					NodeV:   v,
					Ratio:   ratio,
					Dist:    exactDist,
				}
			}
			return true
		},
	)

	if bestDist > maxSnapDistMeters {
		return SnapResult{}, ErrPointTooFar
	}

	return bestResult, nil
}
