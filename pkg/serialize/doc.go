// Package serialize writes an ordered subject sequence as text without ever
// re-sorting it.
//
// Generic RDF writers normalize subject order; the writers here emit one
// block per subject in exactly the order they are given, which is the whole
// point of computing an ordering. Within a block, predicates follow a
// [PredicateOrder] (rdf:type first, then configured leading predicates, the
// alphabetical remainder, then configured trailing predicates) and objects
// are sorted by their rendered text.
//
// # Turtle
//
// [Turtle] declares only the prefixes its output actually uses. Blank nodes
// referenced once are expanded inline as [ ... ] and well-formed RDF lists
// as ( ... ). Blank nodes referenced more than once, or met again while
// already being expanded, are written as _:nN labels and given their own
// block after the ordered subjects. Labels are numbered by first appearance,
// so writing a document read back from Turtle output reproduces it byte for
// byte. A subject without statements produces a comment line naming it.
//
// # N-Triples
//
// [NTriples] writes one statement per line, grouping each subject's
// statements (and those of the blank nodes it reaches) in sequence order.
//
// Neither writer mutates the graph.
package serialize
