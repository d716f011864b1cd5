// Package hl builds and queries hub labels: per-vertex forward and
// backward sorted sets of (hub, distance, predecessor) entries such that
// a point-to-point query reduces to a linear merge of two labels. Labels
// are built either by brute-force pruned Dijkstra over the original
// graph or bottom-up by merging over a contraction hierarchy.
package hl
