// Package vorder builds a contraction order for CH via the greedy
// hitting-set heuristic: sample random shortest paths, repeatedly pull out
// the vertex that hits the most remaining paths, and place the untouched
// remainder at the bottom of the order by ascending degree.
package vorder
