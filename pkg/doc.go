// Package pkg provides the libraries behind ttlorder, which writes RDF graphs
// in a stable, hierarchy-aware statement order.
//
// # Overview
//
// Serializers usually emit subjects in hash or insertion order, so a one-line
// change to an ontology can reshuffle the whole file. ttlorder computes an
// explicit subject order from declarative profiles and serializes the graph in
// exactly that order. The pkg directory is organized into four areas:
//
//  1. Model: [rdf] terms and graphs, [curie] prefix tables
//  2. Ordering: [selector], [dag], [ordering]
//  3. Output: [serialize], [sink], [manifest], [render/nodelink]
//  4. Orchestration: [profile], [pipeline], [observability]
//
// # Architecture
//
// The data flow for one (source, profile) pair:
//
//	Turtle / N-Triples source
//	         ↓
//	    [rdf/load] (parse into an rdf.Store, scan prefixes)
//	         ↓
//	    [selector] (one subject set per profile section)
//	         ↓
//	    [ordering] (alphabetical, topological or rooted order)
//	         ↓
//	    [serialize] (order-preserving Turtle or N-Triples)
//	         ↓
//	    [sink] (atomic file write, unchanged detection)
//
// # Quick Start
//
//	src, _ := load.File("animals.ttl")
//	cfg, _ := profile.Load("order.yml")
//
//	runner, _ := pipeline.NewRunner(pipeline.Options{
//	    Config: cfg,
//	    Sink:   sink.NewMemorySink(),
//	})
//	results, _ := runner.Run(ctx, src, nil)
//	for _, r := range results {
//	    fmt.Println(r.Output, r.Status, len(r.Order))
//	}
//
// # Determinism
//
// Every order is a pure function of the graph, the prefix table and the
// profile. Ties are broken by the subject's short form, so output bytes are
// stable across runs and across the order statements appear in the source.
//
// [rdf]: https://pkg.go.dev/github.com/matzehuels/ttlorder/pkg/rdf
// [rdf/load]: https://pkg.go.dev/github.com/matzehuels/ttlorder/pkg/rdf/load
// [curie]: https://pkg.go.dev/github.com/matzehuels/ttlorder/pkg/curie
// [selector]: https://pkg.go.dev/github.com/matzehuels/ttlorder/pkg/selector
// [dag]: https://pkg.go.dev/github.com/matzehuels/ttlorder/pkg/dag
// [ordering]: https://pkg.go.dev/github.com/matzehuels/ttlorder/pkg/ordering
// [serialize]: https://pkg.go.dev/github.com/matzehuels/ttlorder/pkg/serialize
// [sink]: https://pkg.go.dev/github.com/matzehuels/ttlorder/pkg/sink
// [manifest]: https://pkg.go.dev/github.com/matzehuels/ttlorder/pkg/manifest
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/ttlorder/pkg/render/nodelink
// [profile]: https://pkg.go.dev/github.com/matzehuels/ttlorder/pkg/profile
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/ttlorder/pkg/pipeline
// [observability]: https://pkg.go.dev/github.com/matzehuels/ttlorder/pkg/observability
package pkg
