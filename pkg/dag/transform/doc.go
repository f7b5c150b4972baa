// Package transform provides graph analyses and rewrites over a [dag.DAG].
//
// # Cycle Detection
//
// [Cycles] returns the strongly connected components that contain a cycle,
// each sorted by node key, with the list itself sorted by the key of each
// component's first member. Self-loops count as a cycle of one.
//
// [BreakCycles] removes the back edges found by a key-ordered depth-first
// search so that the remaining graph is acyclic. The ordering engine does
// not need it (it cuts cycles while sorting); it is used when a hierarchy
// is laid out for preview.
package transform
