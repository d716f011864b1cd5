package hl

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"hublink/pkg/ch"
	"hublink/pkg/coregraph"
)

// noPredVertex marks the label owner's own raw entry, which has no
// predecessor.
// While labels are under construction, predecessors are vertex ids so
// merging can propagate identity; they are rewritten to in-label indices
// only once every label is final.
const noPredVertex = ^Vertex(0)

type rawEntry struct {
	hub  Vertex
	dist Weight
	pred Vertex
}

// rawLabel is sorted ascending by hub, like the final Label.
type rawLabel []rawEntry

func seedLabel(v Vertex) rawLabel {
	return rawLabel{{hub: v, dist: 0, pred: noPredVertex}}
}

// BuildFromCH builds labels bottom-up over a contraction hierarchy,
// processing vertices in decreasing level. A vertex's forward label is
// the merged minimum over its upward neighbors' forward labels (shifted
// by the connecting edge weight) and its own seed; the backward label is
// symmetric over the downward graph. Every label a merge reads belongs
// to a strictly higher level and is already final.
func BuildFromCH(chg *ch.CHGraph) *HubGraph {
	n := len(chg.LevelToVertex)
	fwd := make([]rawLabel, n)
	bwd := make([]rawLabel, n)
	for v := Vertex(0); v < Vertex(n); v++ {
		fwd[v] = seedLabel(v)
		bwd[v] = seedLabel(v)
	}

	for level := n - 1; level >= 0; level-- {
		v := chg.LevelToVertex[level]
		f := pruneLabel(mergeNeighborLabels(v, chg.Upward, fwd), bwd)
		b := pruneLabel(mergeNeighborLabels(v, chg.Downward, bwd), fwd)
		fwd[v], bwd[v] = f, b
	}

	return assemble(fwd, bwd, chg.Shortcuts, chg.LevelToVertex, chg.VertexToLevel)
}

// mergeNeighborLabels adopts the labels of v's neighbors in g, shifted by
// the connecting edge weight, plus v's own seed, and keeps the minimum
// entry per hub. The neighbor's own entry, which has no predecessor in
// the neighbor's label, is adopted with v as its predecessor.
func mergeNeighborLabels(v Vertex, g *coregraph.Packed, labels []rawLabel) rawLabel {
	edges := g.EdgesOut(v)
	sources := make([]rawLabel, 0, len(edges)+1)
	for _, e := range edges {
		src := labels[e.Head]
		shifted := make(rawLabel, 0, len(src))
		for _, en := range src {
			d := en.dist + e.Weight
			if d < en.dist || d == weightInf { // overflow
				continue
			}
			p := en.pred
			if p == noPredVertex {
				p = v
			}
			shifted = append(shifted, rawEntry{hub: en.hub, dist: d, pred: p})
		}
		sources = append(sources, shifted)
	}
	sources = append(sources, seedLabel(v))
	return mergeSorted(sources)
}

// mergeSorted is a k-way merge of hub-sorted labels keeping, per hub, the
// minimum-distance entry. The first source wins ties, so the output is a
// pure function of the input order.
func mergeSorted(sources []rawLabel) rawLabel {
	pos := make([]int, len(sources))
	var out rawLabel
	for {
		minHub := noPredVertex
		for i, src := range sources {
			if pos[i] < len(src) && src[pos[i]].hub < minHub {
				minHub = src[pos[i]].hub
			}
		}
		if minHub == noPredVertex {
			return out
		}
		best := rawEntry{dist: weightInf}
		for i, src := range sources {
			if pos[i] < len(src) && src[pos[i]].hub == minHub {
				if e := src[pos[i]]; e.dist < best.dist {
					best = e
				}
				pos[i]++
			}
		}
		out = append(out, best)
	}
}

// pruneLabel keeps an entry only when the overlap with the opposite
// direction's label of its hub reproduces exactly the entry's distance;
// anything else is a detour some other hub pair already covers better.
func pruneLabel(label rawLabel, opposite []rawLabel) rawLabel {
	kept := make(rawLabel, 0, len(label))
	for _, e := range label {
		if d, ok := overlapRaw(label, opposite[e.hub]); ok && d == e.dist {
			kept = append(kept, e)
		}
	}
	return kept
}

func overlapRaw(a, b rawLabel) (Weight, bool) {
	best := weightInf
	found := false
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].hub < b[j].hub:
			i++
		case a[i].hub > b[j].hub:
			j++
		default:
			if sum := a[i].dist + b[j].dist; sum >= a[i].dist && sum < best {
				best = sum
				found = true
			}
			i++
			j++
		}
	}
	return best, found
}

// assemble rewrites predecessor vertex ids into in-label indices (this is
// only possible after every label is final, since index positions shift
// while merging) and packs both directions. The rewrite is independent
// per vertex and runs in parallel.
func assemble(fwd, bwd []rawLabel, shortcuts ch.ShortcutMap, levelToVertex, vertexToLevel []Vertex) *HubGraph {
	n := len(fwd)
	fwdLabels := make([]Label, n)
	bwdLabels := make([]Label, n)

	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for v := 0; v < n; v++ {
		v := v
		eg.Go(func() error {
			fwdLabels[v] = indexLabel(fwd[v])
			bwdLabels[v] = indexLabel(bwd[v])
			return nil
		})
	}
	_ = eg.Wait() // the workers never fail

	return &HubGraph{
		Forward:       NewHalfHubGraph(fwdLabels),
		Backward:      NewHalfHubGraph(bwdLabels),
		Shortcuts:     shortcuts,
		LevelToVertex: levelToVertex,
		VertexToLevel: vertexToLevel,
	}
}

func indexLabel(raw rawLabel) Label {
	pos := make(map[Vertex]int32, len(raw))
	for i, e := range raw {
		pos[e.hub] = int32(i)
	}
	out := make(Label, len(raw))
	for i, e := range raw {
		p := NoPredecessor
		if e.pred != noPredVertex {
			if j, ok := pos[e.pred]; ok {
				p = j
			}
		}
		out[i] = Entry{Hub: e.hub, Dist: e.dist, Pred: p}
	}
	return out
}
