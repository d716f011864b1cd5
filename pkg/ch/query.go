package ch

import (
	"hublink/pkg/coregraph"
	"hublink/pkg/search"
	"hublink/pkg/unfold"
)

// QueryScratch holds the per-query state of one bidirectional search:
// sparse distance maps (most vertices stay untouched), predecessor maps,
// expanded sets and queues for both directions. One scratch serves one
// query at a time; concurrent queries each own their own.
type QueryScratch struct {
	fwd sideState
	bwd sideState

	// Stalled counts the pops abandoned by the stall-on-demand check in
	// the most recent query.
	Stalled int
}

type sideState struct {
	dist     *search.SparseDistanceMap
	pred     map[Vertex]Vertex
	expanded *search.ExpandedSet
	queue    *search.DistanceQueue
}

func newSideState() sideState {
	return sideState{
		dist:     search.NewSparseDistanceMap(),
		pred:     make(map[Vertex]Vertex),
		expanded: search.NewExpandedSet(),
		queue:    search.NewDistanceQueue(),
	}
}

func NewQueryScratch() *QueryScratch {
	return &QueryScratch{fwd: newSideState(), bwd: newSideState()}
}

func (qs *QueryScratch) reset() {
	for _, side := range []*sideState{&qs.fwd, &qs.bwd} {
		side.dist.Clear()
		side.expanded.Clear()
		side.queue.Clear()
		for k := range side.pred {
			delete(side.pred, k)
		}
	}
	qs.Stalled = 0
}

// Query runs the bidirectional upward search with stall-on-demand and
// returns the meeting vertex and the shortest distance. ok is false when
// no path exists.
func Query(chg *CHGraph, qs *QueryScratch, s, t Vertex) (meet Vertex, dist Weight, ok bool) {
	if s == t {
		return s, 0, true
	}
	qs.reset()
	qs.fwd.dist.Set(s, 0)
	qs.fwd.queue.Push(0, s)
	qs.bwd.dist.Set(t, 0)
	qs.bwd.queue.Push(0, t)

	best := weightInf
	meet = search.NoVertex

	for {
		fmin, _, fok := qs.fwd.queue.Peek()
		bmin, _, bok := qs.bwd.queue.Peek()
		fActive := fok && fmin < best
		bActive := bok && bmin < best
		if !fActive && !bActive {
			break
		}
		if fActive && (!bActive || fmin <= bmin) {
			stepSide(&qs.fwd, &qs.bwd, chg.Upward, chg.Downward, &best, &meet, &qs.Stalled)
		} else {
			stepSide(&qs.bwd, &qs.fwd, chg.Downward, chg.Upward, &best, &meet, &qs.Stalled)
		}
	}

	if best == weightInf {
		return 0, 0, false
	}
	return meet, best, true
}

// stepSide pops one vertex from this side's queue. The stall check
// consults the edges the opposite search would relax: if any of them
// reveals a shorter way into the popped vertex through a higher-level
// neighbor, the pop is abandoned without relaxing anything.
func stepSide(this, other *sideState, relaxG, stallG *coregraph.Packed, best *Weight, meet *Vertex, stalled *int) {
	d, x, _ := this.queue.Pop()
	if !this.expanded.TryMark(x) {
		return
	}
	if d > this.dist.Get(x) {
		return
	}

	for _, e := range stallG.EdgesOut(x) {
		dy := this.dist.Get(e.Head)
		if dy == weightInf {
			continue
		}
		if via := dy + e.Weight; via >= dy && via < d {
			*stalled++
			return
		}
	}

	if od := other.dist.Get(x); od != weightInf {
		if total := d + od; total >= d && total < *best {
			*best = total
			*meet = x
		}
	}

	for _, e := range relaxG.EdgesOut(x) {
		nd := d + e.Weight
		if nd < d { // overflow
			continue
		}
		if nd < this.dist.Get(e.Head) {
			this.dist.Set(e.Head, nd)
			this.pred[e.Head] = x
			this.queue.Push(nd, e.Head)
		}
	}
}

// Distance is Query without the meeting vertex.
func Distance(chg *CHGraph, qs *QueryScratch, s, t Vertex) (Weight, bool) {
	_, d, ok := Query(chg, qs, s, t)
	return d, ok
}

// Path runs Query and reconstructs the full original-graph vertex
// sequence: the forward predecessor chain up to the meeting vertex, the
// backward chain down to the target, then shortcut unfolding.
func Path(chg *CHGraph, qs *QueryScratch, s, t Vertex) ([]Vertex, Weight, bool) {
	if s == t {
		return []Vertex{s}, 0, true
	}
	meet, d, ok := Query(chg, qs, s, t)
	if !ok {
		return nil, 0, false
	}

	var rev []Vertex
	for v := meet; ; {
		rev = append(rev, v)
		p, found := qs.fwd.pred[v]
		if !found {
			break
		}
		v = p
	}
	path := make([]Vertex, 0, 2*len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		path = append(path, rev[i])
	}
	for v := meet; ; {
		p, found := qs.bwd.pred[v]
		if !found {
			break
		}
		path = append(path, p)
		v = p
	}

	return unfold.Unfold(path, unfold.ShortcutMap(chg.Shortcuts)), d, true
}
