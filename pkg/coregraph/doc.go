// Package coregraph holds the in-memory directed weighted graph that the
// rest of the preprocessing and query engines operate on: a dense vertex
// id space, a packed read-optimized representation for queries, and a
// mutable hash-based representation for contraction.
package coregraph
