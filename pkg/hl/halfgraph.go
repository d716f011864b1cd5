package hl

import "hublink/pkg/ch"

// HalfHubGraph packs one direction's labels into a single flat entry
// vector plus a per-vertex index, so a label lookup is a slice of
// contiguous memory.
type HalfHubGraph struct {
	first   []uint32
	entries []Entry
}

// NewHalfHubGraph packs per-vertex labels. The labels are copied; the
// input may be discarded afterwards.
func NewHalfHubGraph(labels []Label) *HalfHubGraph {
	h := &HalfHubGraph{first: make([]uint32, len(labels)+1)}
	total := 0
	for _, l := range labels {
		total += len(l)
	}
	h.entries = make([]Entry, 0, total)
	for i, l := range labels {
		h.entries = append(h.entries, l...)
		h.first[i+1] = uint32(len(h.entries))
	}
	return h
}

// HalfHubGraphFromPacked wraps an already-flat representation, as read
// back from a serialized index. first must have one more element than
// there are vertices and be monotonically increasing.
func HalfHubGraphFromPacked(entries []Entry, first []uint32) *HalfHubGraph {
	return &HalfHubGraph{first: first, entries: entries}
}

func (h *HalfHubGraph) NumVertices() Vertex { return Vertex(len(h.first) - 1) }

// Label returns v's label as a view into the packed storage.
func (h *HalfHubGraph) Label(v Vertex) Label {
	return Label(h.entries[h.first[v]:h.first[v+1]])
}

// Entries and First expose the flat storage for serialization.
func (h *HalfHubGraph) Entries() []Entry { return h.entries }
func (h *HalfHubGraph) First() []uint32  { return h.first }

// HubGraph is the complete hub-label artifact: both half graphs, the
// shortcut map needed to unfold query paths, and the level order the
// labels were built over.
type HubGraph struct {
	Forward       *HalfHubGraph
	Backward      *HalfHubGraph
	Shortcuts     ch.ShortcutMap
	LevelToVertex []Vertex
	VertexToLevel []Vertex
}
