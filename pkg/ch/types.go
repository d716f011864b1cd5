package ch

import (
	"errors"
	"fmt"

	"hublink/pkg/coregraph"
)

// ErrInconsistentIndex reports a structurally corrupt CH artifact: a
// shortcut or partitioned edge that violates the level ordering.
var ErrInconsistentIndex = errors.New("ch: inconsistent index")

type (
	Vertex = coregraph.Vertex
	Weight = coregraph.Weight
)

const weightInf = coregraph.WeightInf

// Shortcut is a candidate or finalized (tail, head) edge produced while
// contracting Via.
type Shortcut struct {
	Tail, Head Vertex
	Weight     Weight
	Via        Vertex
}

// ShortcutMap records, for every shortcut edge (u, w) in the final graph,
// the single vertex v whose contraction produced it. Unfolding a path
// recursively looks up (u, w) here until no entry remains, at which point
// (u, w) is an original edge.
type ShortcutMap map[[2]Vertex]Vertex

// CHGraph is the artifact both contraction modes produce: the level
// order, its inverse, the upward/downward query graphs, and the shortcut
// map needed to unpack a CH path back into original-graph vertices.
type CHGraph struct {
	LevelToVertex []Vertex
	VertexToLevel []Vertex
	Upward        *coregraph.Packed // edges with level(tail) < level(head)
	Downward      *coregraph.Packed // reversed edges with level(tail) > level(head)
	Shortcuts     ShortcutMap
}

// Validate checks the structural invariants of the artifact: the level
// order is a permutation, every shortcut's skipped vertex sits strictly
// below both endpoints, and every upward and downward edge points from a
// lower level to a higher one. Queries never call this; it backs debug
// assertions and tests.
func (chg *CHGraph) Validate() error {
	n := Vertex(len(chg.LevelToVertex))
	seen := make([]bool, n)
	for level, v := range chg.LevelToVertex {
		if v >= n || seen[v] {
			return fmt.Errorf("%w: level order is not a permutation", ErrInconsistentIndex)
		}
		seen[v] = true
		if chg.VertexToLevel[v] != Vertex(level) {
			return fmt.Errorf("%w: vertex_to_level is not the inverse order", ErrInconsistentIndex)
		}
	}
	for key, via := range chg.Shortcuts {
		u, w := key[0], key[1]
		if chg.VertexToLevel[via] >= chg.VertexToLevel[u] || chg.VertexToLevel[via] >= chg.VertexToLevel[w] {
			return fmt.Errorf("%w: shortcut (%d, %d) skips vertex %d above an endpoint", ErrInconsistentIndex, u, w, via)
		}
	}
	for _, g := range []*coregraph.Packed{chg.Upward, chg.Downward} {
		for v := Vertex(0); v < n; v++ {
			for _, e := range g.EdgesOut(v) {
				if chg.VertexToLevel[v] >= chg.VertexToLevel[e.Head] {
					return fmt.Errorf("%w: edge (%d, %d) does not ascend the level order", ErrInconsistentIndex, v, e.Head)
				}
			}
		}
	}
	return nil
}

func invertLevels(levelToVertex []Vertex) []Vertex {
	n := len(levelToVertex)
	vertexToLevel := make([]Vertex, n)
	for level, v := range levelToVertex {
		vertexToLevel[v] = Vertex(level)
	}
	return vertexToLevel
}
