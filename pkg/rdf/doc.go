// Package rdf provides the minimal RDF model the ordering core works on.
//
// # Terms and triples
//
// A [Term] is a small comparable value (IRI, blank node or literal) that can
// be used directly as a map key. The zero Term acts as a wildcard in
// [Graph.Match] patterns.
//
// # Graph capability
//
// The ordering core never depends on a concrete storage engine. Everything
// it needs is the [Graph] interface: a wildcard triple-pattern query. [Store]
// is the in-memory implementation used by the CLI and the tests; any other
// backend implementing Match is usable.
//
//	g := rdf.NewStore()
//	g.Add(rdf.Triple{S: rdf.IRI(ex+"Dog"), P: rdf.SubClassOf, O: rdf.IRI(ex+"Mammal")})
//	for t := range g.Match(rdf.Term{}, rdf.SubClassOf, rdf.Term{}) {
//	    fmt.Println(t.S, "->", t.O)
//	}
//
// Graphs are treated as read-only snapshots for the duration of a run;
// nothing in ttlorder mutates a graph after loading.
package rdf
