package hl

import "hublink/pkg/unfold"

// Distance answers a point-to-point query by overlapping s's forward
// label with t's backward label. ok is false when no path exists.
func (hg *HubGraph) Distance(s, t Vertex) (Weight, bool) {
	if s == t {
		return 0, true
	}
	d, _, _, ok := Overlap(hg.Forward.Label(s), hg.Backward.Label(t))
	return d, ok
}

// Path reconstructs the full original-graph vertex sequence: the forward
// entry's predecessor chain gives s -> meeting hub, the backward entry's
// chain gives meeting hub -> t, and shortcut unfolding expands the
// contracted edges in between.
func (hg *HubGraph) Path(s, t Vertex) ([]Vertex, Weight, bool) {
	if s == t {
		return []Vertex{s}, 0, true
	}
	f := hg.Forward.Label(s)
	b := hg.Backward.Label(t)
	d, fi, bi, ok := Overlap(f, b)
	if !ok {
		return nil, 0, false
	}

	fchain := f.Chain(fi) // meeting -> ... -> s
	bchain := b.Chain(bi) // meeting -> ... -> t
	if fchain == nil || bchain == nil {
		return nil, 0, false
	}

	path := make([]Vertex, 0, len(fchain)+len(bchain)-1)
	for i := len(fchain) - 1; i >= 0; i-- {
		path = append(path, fchain[i])
	}
	path = append(path, bchain[1:]...)

	return unfold.Unfold(path, unfold.ShortcutMap(hg.Shortcuts)), d, true
}
