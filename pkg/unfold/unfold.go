// Package unfold expands a path over a contracted graph back into the
// original-graph vertex sequence, recursively replacing every shortcut
// edge with the vertex it skipped.
package unfold

import "hublink/pkg/coregraph"

type Vertex = coregraph.Vertex

// ShortcutMap is the (tail, head) -> skipped-vertex map a CH build
// records. Unfold reads it in a single direction: the vertex-pair path
// passed in already carries the direction the shortcut was created in.
type ShortcutMap map[[2]Vertex]Vertex

// maxUnfoldDepth bounds the number of insertion passes. Unfolding
// genuinely terminates because every shortcut's skipped vertex has
// strictly lower level than both endpoints, but a corrupt map must not
// hang a query.
const maxUnfoldDepth = 64

// Unfold repeatedly inserts skipped vertices between adjacent pairs of a
// CH path until no pair is a shortcut, or maxUnfoldDepth passes are
// exhausted. Implemented as repeated passes over the path, without
// recursion, so a pathological (cyclic) map degrades to a depth cutoff
// rather than a stack overflow.
func Unfold(path []Vertex, shortcuts ShortcutMap) []Vertex {
	if len(shortcuts) == 0 || len(path) < 2 {
		return path
	}

	cur := path
	for depth := 0; depth < maxUnfoldDepth; depth++ {
		next := make([]Vertex, 0, len(cur))
		changed := false
		for i := 0; i < len(cur); i++ {
			next = append(next, cur[i])
			if i+1 >= len(cur) {
				break
			}
			if via, ok := shortcuts[[2]Vertex{cur[i], cur[i+1]}]; ok {
				next = append(next, via)
				changed = true
			}
		}
		cur = next
		if !changed {
			break
		}
	}
	return cur
}
