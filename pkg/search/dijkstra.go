package search

import "hublink/pkg/coregraph"

// OneToOne runs Dijkstra from src and stops as soon as dst is popped.
func OneToOne(g coregraph.Store, src, dst Vertex, s *Scratch) (Weight, error) {
	s.Reset()
	s.Dist.Set(src, 0)
	s.Queue.Push(0, src)

	for !s.Queue.IsEmpty() {
		d, u, _ := s.Queue.Pop()
		if !s.Expanded.TryMark(u) {
			continue
		}
		if d > s.Dist.Get(u) {
			continue
		}
		if u == dst {
			return d, nil
		}
		for _, e := range g.EdgesOut(u) {
			nd := d + e.Weight
			if nd < d { // overflow
				continue
			}
			if nd < s.Dist.Get(e.Head) {
				s.Dist.Set(e.Head, nd)
				s.Queue.Push(nd, e.Head)
			}
		}
	}
	return WeightInf, ErrUnreachable
}

// OneToOneWithPath is OneToOne plus predecessor tracking so the caller can
// reconstruct the path via PathTo.
func OneToOneWithPath(g coregraph.Store, src, dst Vertex, s *Scratch) (Weight, error) {
	s.Reset()
	s.Dist.Set(src, 0)
	s.Queue.Push(0, src)

	for !s.Queue.IsEmpty() {
		d, u, _ := s.Queue.Pop()
		if !s.Expanded.TryMark(u) {
			continue
		}
		if d > s.Dist.Get(u) {
			continue
		}
		if u == dst {
			return d, nil
		}
		for _, e := range g.EdgesOut(u) {
			nd := d + e.Weight
			if nd < d {
				continue
			}
			if nd < s.Dist.Get(e.Head) {
				s.Dist.Set(e.Head, nd)
				s.Pred[e.Head] = u
				s.Queue.Push(nd, e.Head)
			}
		}
	}
	return WeightInf, ErrUnreachable
}

// PathTo reconstructs the path from the search's source to dst using
// predecessor links recorded by OneToOneWithPath/ShortestPathTree.
func PathTo(s *Scratch, dst Vertex) []Vertex {
	var rev []Vertex
	v := dst
	for {
		rev = append(rev, v)
		p := s.Pred[v]
		if p == NoVertex {
			break
		}
		v = p
	}
	path := make([]Vertex, len(rev))
	for i, v := range rev {
		path[len(rev)-1-i] = v
	}
	return path
}

// OneToAll runs Dijkstra from src until the queue is exhausted, returning
// the full distance table.
func OneToAll(g coregraph.Store, src Vertex, s *Scratch) *DenseDistanceMap {
	s.Reset()
	s.Dist.Set(src, 0)
	s.Queue.Push(0, src)

	for !s.Queue.IsEmpty() {
		d, u, _ := s.Queue.Pop()
		if !s.Expanded.TryMark(u) {
			continue
		}
		if d > s.Dist.Get(u) {
			continue
		}
		for _, e := range g.EdgesOut(u) {
			nd := d + e.Weight
			if nd < d {
				continue
			}
			if nd < s.Dist.Get(e.Head) {
				s.Dist.Set(e.Head, nd)
				s.Queue.Push(nd, e.Head)
			}
		}
	}
	return s.Dist
}

// ShortestPathTree runs one-to-all Dijkstra from src and keeps predecessor
// links, for callers that need both distances and reconstructable paths
// (pkg/hl's brute-force builder).
func ShortestPathTree(g coregraph.Store, src Vertex, s *Scratch) {
	s.Reset()
	s.Dist.Set(src, 0)
	s.Queue.Push(0, src)

	for !s.Queue.IsEmpty() {
		d, u, _ := s.Queue.Pop()
		if !s.Expanded.TryMark(u) {
			continue
		}
		if d > s.Dist.Get(u) {
			continue
		}
		for _, e := range g.EdgesOut(u) {
			nd := d + e.Weight
			if nd < d {
				continue
			}
			if nd < s.Dist.Get(e.Head) {
				s.Dist.Set(e.Head, nd)
				s.Pred[e.Head] = u
				s.Queue.Push(nd, e.Head)
			}
		}
	}
}

// OneToManyHopLimit runs Dijkstra from src, refusing to relax an edge once
// the resulting hop count would exceed hopLimit, and terminates early once
// every vertex in targets has been settled. This is the witness-search
// primitive: "is there a tail->head path of length <= X avoiding v, using
// at most H hops?".
func OneToManyHopLimit(g coregraph.Store, src Vertex, targets map[Vertex]struct{}, hopLimit int, s *Scratch) map[Vertex]Weight {
	s.Reset()
	hops := make(map[Vertex]int)

	s.Dist.Set(src, 0)
	hops[src] = 0
	s.Queue.Push(0, src)

	remaining := make(map[Vertex]struct{}, len(targets))
	for t := range targets {
		remaining[t] = struct{}{}
	}

	result := make(map[Vertex]Weight)

	for !s.Queue.IsEmpty() {
		d, u, _ := s.Queue.Pop()
		if !s.Expanded.TryMark(u) {
			continue
		}
		if d > s.Dist.Get(u) {
			continue
		}
		if _, isTarget := remaining[u]; isTarget {
			result[u] = d
			delete(remaining, u)
			if len(remaining) == 0 {
				break
			}
		}

		uHops := hops[u]
		if uHops >= hopLimit {
			continue
		}
		for _, e := range g.EdgesOut(u) {
			nd := d + e.Weight
			if nd < d {
				continue
			}
			if nd < s.Dist.Get(e.Head) {
				s.Dist.Set(e.Head, nd)
				hops[e.Head] = uHops + 1
				s.Queue.Push(nd, e.Head)
			}
		}
	}

	for t := range targets {
		if _, ok := result[t]; !ok {
			result[t] = WeightInf
		}
	}
	return result
}
