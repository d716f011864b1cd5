// Package alt implements the ALT (A*, Landmarks, Triangle inequality)
// distance heuristic used as an alternative to Dijkstra witness search
// during CH contraction and, standalone, as an upper-bound oracle.
package alt
