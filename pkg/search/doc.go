// Package search provides the shared Dijkstra scratch objects and search
// primitives (one-to-one, one-to-all, hop-limited one-to-many) that the
// vertex-order builder, the CH contraction witness search, and the hub
// label brute-force builder all reuse to avoid per-call allocation.
package search
