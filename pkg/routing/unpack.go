package routing

import "hublink/pkg/graph"

const maxUnpackDepth = 100

const noNode = ^uint32(0) // sentinel for "no node"

// unpackOverlayPath expands a path of overlay nodes into the original
// node sequence by recursively replacing every shortcut edge with its
// middle vertex. Uses an explicit stack; a corrupt overlay degrades to
// the depth bound instead of overflowing.
func unpackOverlayPath(chg *graph.CHGraph, nodes []uint32) []uint32 {
	if len(nodes) == 0 {
		return nil
	}

	result := make([]uint32, 0, len(nodes)*2)
	result = append(result, nodes[0])

	type segment struct {
		from, to uint32
		depth    int
	}
	var stack []segment

	for i := 0; i+1 < len(nodes); i++ {
		stack = append(stack[:0], segment{nodes[i], nodes[i+1], 0})
		for len(stack) > 0 {
			seg := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			mid, ok := overlayMiddle(chg, seg.from, seg.to)
			if !ok || seg.depth >= maxUnpackDepth {
				result = append(result, seg.to)
				continue
			}
			// expand from→mid first: push mid→to below it
			stack = append(stack,
				segment{mid, seg.to, seg.depth + 1},
				segment{seg.from, mid, seg.depth + 1})
		}
	}

	return result
}

// overlayMiddle looks up the middle vertex of the overlay edge that
// connects two adjacent path nodes. The forward overlay stores the edge
// in its original direction; the backward overlay stores original y→x
// edges reversed as x→y, so the lookup tries both orientations. Original
// (non-shortcut) edges report no middle.
func overlayMiddle(chg *graph.CHGraph, from, to uint32) (uint32, bool) {
	if ei := findEdge(chg.FwdFirstOut, chg.FwdHead, from, to); ei != noNode {
		if m := chg.FwdMiddle[ei]; m >= 0 {
			return uint32(m), true
		}
		return 0, false
	}
	if ei := findEdge(chg.BwdFirstOut, chg.BwdHead, to, from); ei != noNode {
		if m := chg.BwdMiddle[ei]; m >= 0 {
			return uint32(m), true
		}
	}
	return 0, false
}

// findEdge finds an edge from source to target in a CSR graph.
func findEdge(firstOut, head []uint32, source, target uint32) uint32 {
	start := firstOut[source]
	end := firstOut[source+1]
	for e := start; e < end; e++ {
		if head[e] == target {
			return e
		}
	}
	return noNode
}
