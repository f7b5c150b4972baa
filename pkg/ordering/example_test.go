package ordering_test

import (
	"fmt"

	"github.com/matzehuels/ttlorder/pkg/curie"
	"github.com/matzehuels/ttlorder/pkg/ordering"
	"github.com/matzehuels/ttlorder/pkg/rdf"
)

func ExampleEngine_Order() {
	const ex = "http://example.org/"
	g := rdf.NewStore()
	g.Add(rdf.Triple{S: rdf.IRI(ex + "Dog"), P: rdf.SubClassOf, O: rdf.IRI(ex + "Mammal")})
	g.Add(rdf.Triple{S: rdf.IRI(ex + "Mammal"), P: rdf.SubClassOf, O: rdf.IRI(ex + "Animal")})
	table := curie.MustTable(map[string]string{"ex": ex})

	subjects := []rdf.Term{rdf.IRI(ex + "Dog"), rdf.IRI(ex + "Mammal"), rdf.IRI(ex + "Animal")}
	e := ordering.New(g, table)

	for _, spec := range []ordering.Spec{
		{Mode: ordering.Alphabetical},
		{Mode: ordering.Rooted, Roots: []string{"ex:Animal"}},
	} {
		out, _ := e.Order(subjects, spec)
		for i, t := range out {
			key, _ := table.Contract(t.Value)
			if i > 0 {
				fmt.Print(" ")
			}
			fmt.Print(key)
		}
		fmt.Println()
	}
	// Output:
	// ex:Animal ex:Dog ex:Mammal
	// ex:Animal ex:Mammal ex:Dog
}

func ExampleWithCycleReporter() {
	const ex = "http://example.org/"
	g := rdf.NewStore()
	g.Add(rdf.Triple{S: rdf.IRI(ex + "A"), P: rdf.SubClassOf, O: rdf.IRI(ex + "B")})
	g.Add(rdf.Triple{S: rdf.IRI(ex + "B"), P: rdf.SubClassOf, O: rdf.IRI(ex + "A")})
	table := curie.MustTable(map[string]string{"ex": ex})

	e := ordering.New(g, table, ordering.WithCycleReporter(func(c ordering.CycleCut) {
		fmt.Println("cut at", c.Key)
	}))
	_, _ = e.Order([]rdf.Term{rdf.IRI(ex + "B"), rdf.IRI(ex + "A")}, ordering.Spec{Mode: ordering.Topological})
	// Output:
	// cut at ex:A
}
