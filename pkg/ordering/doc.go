// Package ordering turns an unordered subject set into one deterministic
// sequence.
//
// # Modes
//
//   - [Alphabetical] sorts by sort key: the CURIE when one exists, else the
//     absolute IRI, compared by codepoint.
//   - [Topological] builds the dependency graph of the set along a relation
//     (an edge A → B means A depends on B, e.g. subclass → superclass) and
//     repeatedly emits the least-key node whose dependencies have all been
//     emitted.
//   - [Rooted] places each configured root followed by its descendant
//     closure, in configuration order, then sorts the remainder
//     topologically.
//
// # Cycles
//
// Cycles never fail an ordering. When no node is ready, the least-key
// remaining node is emitted anyway (a cycle cut) and its outstanding
// dependencies are treated as satisfied. Every cut is returned in
// [Plan.Cuts] and passed to the reporter installed with
// [WithCycleReporter], so the choice can be audited.
//
// # Guarantees
//
// For every mode the result has exactly the members of the input, without
// duplicates, and identical inputs give identical outputs. Two subjects with
// no path between them appear in key order.
package ordering
