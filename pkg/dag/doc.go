// Package dag provides the dependency graph the ordering engine sorts.
//
// # Overview
//
// Nodes are subjects of one section; an edge From → To means "From depends
// on To" (for a class hierarchy: subclass → superclass). Every node carries
// a sort [Node.Key], the alphabetical key used to break ties, and all
// listing methods return nodes in key order so that callers never observe
// map iteration order.
//
// Despite the name, a DAG here may contain cycles: real ontologies do. The
// ordering engine resolves them with an explicit cut policy, and
// [transform.Cycles] reports them for diagnostics.
//
// # Basic Usage
//
//	g := dag.New()
//	_ = g.AddNode(dag.Node{ID: "ex:Dog", Key: "ex:Dog"})
//	_ = g.AddNode(dag.Node{ID: "ex:Animal", Key: "ex:Animal"})
//	_ = g.AddEdge(dag.Edge{From: "ex:Dog", To: "ex:Animal"})
//
//	g.Dependencies("ex:Dog")    // [ex:Animal]
//	g.Dependents("ex:Animal")   // [ex:Dog]
//	g.Descendants("ex:Animal")  // [ex:Animal ex:Dog]
//
// # Concurrency
//
// DAG is not safe for concurrent use without external synchronization.
package dag
