// Package ch builds and queries Contraction Hierarchies: vertex
// contraction (bottom-up adaptive or top-down fixed-order), shortcut
// bookkeeping, and a bidirectional stall-on-demand query engine over the
// resulting upward/downward graphs.
package ch
