package serialize

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/ttlorder/pkg/curie"
	"github.com/matzehuels/ttlorder/pkg/rdf"
	"github.com/matzehuels/ttlorder/pkg/rdf/load"
)

const ex = "http://example.org/"

var table = curie.MustTable(map[string]string{
	"ex":   ex,
	"rdf":  rdf.RDFNS,
	"rdfs": rdf.RDFSNS,
	"owl":  rdf.OWLNS,
	"xsd":  rdf.XSDNS,
})

func iri(local string) rdf.Term { return rdf.IRI(ex + local) }

func owl(local string) rdf.Term { return rdf.IRI(rdf.OWLNS + local) }

func turtle(t *testing.T, g rdf.Graph, opts Options, subjects ...rdf.Term) string {
	t.Helper()
	if opts.Table.Len() == 0 {
		opts.Table = table
	}
	var buf bytes.Buffer
	if err := NewTurtle(opts).Write(&buf, g, subjects); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return buf.String()
}

func TestTurtleSubjectOrder(t *testing.T) {
	g := rdf.NewStore()
	for _, n := range []string{"X", "Y", "Z"} {
		g.Add(rdf.Triple{S: iri(n), P: rdf.Type, O: rdf.OWLClass})
	}
	out := turtle(t, g, Options{}, iri("Z"), iri("X"), iri("Y"))

	z := strings.Index(out, "ex:Z a")
	x := strings.Index(out, "ex:X a")
	y := strings.Index(out, "ex:Y a")
	if z < 0 || x < 0 || y < 0 || !(z < x && x < y) {
		t.Errorf("blocks not in given order:\n%s", out)
	}
}

func dog() *rdf.Store {
	g := rdf.NewStore()
	g.Add(rdf.Triple{S: iri("Dog"), P: rdf.SubClassOf, O: iri("Pet")})
	g.Add(rdf.Triple{S: iri("Dog"), P: iri("legs"), O: rdf.TypedLiteral("4", rdf.XSDNS+"integer")})
	g.Add(rdf.Triple{S: iri("Dog"), P: rdf.Comment, O: rdf.Literal("A \"dog\"\nwith a tail")})
	g.Add(rdf.Triple{S: iri("Dog"), P: rdf.SubClassOf, O: iri("Mammal")})
	g.Add(rdf.Triple{S: iri("Dog"), P: rdf.Label, O: rdf.LangLiteral("Dog", "en")})
	g.Add(rdf.Triple{S: iri("Dog"), P: rdf.Type, O: rdf.OWLClass})
	return g
}

func TestTurtleBlock(t *testing.T) {
	opts := Options{Rules: Rules{Classes: PredicateOrder{
		First: []rdf.Term{rdf.Label, rdf.Comment},
		Last:  []rdf.Term{rdf.SubClassOf},
	}}}
	got := turtle(t, dog(), opts, iri("Dog"))
	want := `@prefix ex: <http://example.org/> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .

ex:Dog a owl:Class ;
    rdfs:label "Dog"@en ;
    rdfs:comment "A \"dog\"\nwith a tail" ;
    ex:legs "4"^^xsd:integer ;
    rdfs:subClassOf ex:Mammal,
        ex:Pet .
`
	if got != want {
		t.Errorf("Write() =\n%s\nwant\n%s", got, want)
	}
}

func TestTurtleDefaultPredicateOrder(t *testing.T) {
	got := turtle(t, dog(), Options{}, iri("Dog"))
	lines := strings.Split(got, "\n")
	var preds []string
	for _, l := range lines {
		if strings.HasPrefix(l, "ex:Dog ") || strings.HasPrefix(l, "    ") && !strings.HasPrefix(l, "        ") {
			f := strings.Fields(l)
			if f[0] == "ex:Dog" {
				f = f[1:]
			}
			preds = append(preds, f[0])
		}
	}
	want := []string{"a", "ex:legs", "rdfs:comment", "rdfs:label", "rdfs:subClassOf"}
	if !slices.Equal(preds, want) {
		t.Errorf("predicates = %v, want %v", preds, want)
	}
}

func TestTurtlePrefixOrder(t *testing.T) {
	got := turtle(t, dog(), Options{PrefixOrder: []string{"rdfs", "owl", "rdf"}}, iri("Dog"))
	var prefixes []string
	for _, l := range strings.Split(got, "\n") {
		if strings.HasPrefix(l, "@prefix ") {
			prefixes = append(prefixes, strings.Fields(l)[1])
		}
	}
	// rdf is configured but unused: rdf:type renders as "a".
	want := []string{"rdfs:", "owl:", "ex:", "xsd:"}
	if !slices.Equal(prefixes, want) {
		t.Errorf("prefixes = %v, want %v", prefixes, want)
	}
}

func TestTurtleOnlyUsedPrefixes(t *testing.T) {
	g := rdf.NewStore()
	g.Add(rdf.Triple{S: iri("a"), P: iri("p"), O: rdf.IRI("http://elsewhere.org/x")})
	got := turtle(t, g, Options{}, iri("a"))
	want := "@prefix ex: <http://example.org/> .\n\nex:a ex:p <http://elsewhere.org/x> .\n"
	if got != want {
		t.Errorf("Write() = %q, want %q", got, want)
	}
}

func TestTurtleInlineBlankNode(t *testing.T) {
	g := rdf.NewStore()
	r := rdf.Blank("r")
	g.Add(rdf.Triple{S: iri("Dog"), P: rdf.Type, O: rdf.OWLClass})
	g.Add(rdf.Triple{S: iri("Dog"), P: rdf.SubClassOf, O: r})
	g.Add(rdf.Triple{S: r, P: owl("someValuesFrom"), O: iri("Person")})
	g.Add(rdf.Triple{S: r, P: owl("onProperty"), O: iri("hasOwner")})
	g.Add(rdf.Triple{S: r, P: rdf.Type, O: rdf.Restriction})

	got := turtle(t, g, Options{}, iri("Dog"))
	want := `ex:Dog a owl:Class ;
    rdfs:subClassOf [ a owl:Restriction ;
        owl:onProperty ex:hasOwner ;
        owl:someValuesFrom ex:Person ] .
`
	if !strings.HasSuffix(got, "\n\n"+want) {
		t.Errorf("Write() =\n%s\nwant suffix\n%s", got, want)
	}
	if strings.Contains(got, "_:") {
		t.Errorf("inline blank node was labeled:\n%s", got)
	}
}

func TestTurtleCollection(t *testing.T) {
	g := rdf.NewStore()
	l1, l2 := rdf.Blank("l1"), rdf.Blank("l2")
	g.Add(rdf.Triple{S: iri("C"), P: owl("unionOf"), O: l1})
	g.Add(rdf.Triple{S: l1, P: rdf.First, O: iri("A")})
	g.Add(rdf.Triple{S: l1, P: rdf.Rest, O: l2})
	g.Add(rdf.Triple{S: l2, P: rdf.First, O: iri("B")})
	g.Add(rdf.Triple{S: l2, P: rdf.Rest, O: rdf.Nil})

	got := turtle(t, g, Options{}, iri("C"))
	if !strings.HasSuffix(got, "\nex:C owl:unionOf ( ex:A ex:B ) .\n") {
		t.Errorf("Write() =\n%s", got)
	}
	if strings.Contains(got, "@prefix rdf:") {
		t.Errorf("rdf prefix declared for a collection:\n%s", got)
	}
}

func TestTurtleSharedBlankNode(t *testing.T) {
	g := rdf.NewStore()
	x := rdf.Blank("x")
	g.Add(rdf.Triple{S: iri("A"), P: iri("p"), O: x})
	g.Add(rdf.Triple{S: iri("B"), P: iri("p"), O: x})
	g.Add(rdf.Triple{S: x, P: rdf.Label, O: rdf.Literal("shared")})

	got := turtle(t, g, Options{}, iri("A"), iri("B"))
	want := `ex:A ex:p _:n0 .

ex:B ex:p _:n0 .

_:n0 rdfs:label "shared" .
`
	if !strings.HasSuffix(got, "\n\n"+want) {
		t.Errorf("Write() =\n%s\nwant suffix\n%s", got, want)
	}
}

func TestTurtleBlankCycle(t *testing.T) {
	g := rdf.NewStore()
	x, y := rdf.Blank("x"), rdf.Blank("y")
	g.Add(rdf.Triple{S: iri("A"), P: iri("p"), O: x})
	g.Add(rdf.Triple{S: x, P: iri("q"), O: y})
	g.Add(rdf.Triple{S: y, P: iri("q"), O: x})

	got := turtle(t, g, Options{}, iri("A"))
	want := `ex:A ex:p _:n0 .

_:n0 ex:q [ ex:q _:n0 ] .
`
	if !strings.HasSuffix(got, "\n\n"+want) {
		t.Errorf("Write() =\n%s\nwant suffix\n%s", got, want)
	}
}

func TestTurtleEmptySubject(t *testing.T) {
	g := rdf.NewStore()
	g.Add(rdf.Triple{S: iri("A"), P: rdf.Label, O: rdf.Literal("a")})

	got := turtle(t, g, Options{}, iri("Ghost"), iri("A"))
	if !strings.Contains(got, "# ex:Ghost\n\nex:A rdfs:label \"a\" .\n") {
		t.Errorf("Write() =\n%s", got)
	}
}

func TestTurtleDeterministic(t *testing.T) {
	g := dog()
	g.Add(rdf.Triple{S: iri("Dog"), P: iri("friend"), O: rdf.Blank("f1")})
	g.Add(rdf.Triple{S: iri("Dog"), P: iri("friend"), O: rdf.Blank("f2")})
	g.Add(rdf.Triple{S: rdf.Blank("f1"), P: rdf.Label, O: rdf.Literal("Rex")})
	g.Add(rdf.Triple{S: rdf.Blank("f2"), P: rdf.Label, O: rdf.Literal("Ace")})

	first := turtle(t, g, Options{}, iri("Dog"))
	for i := 0; i < 10; i++ {
		if got := turtle(t, g, Options{}, iri("Dog")); got != first {
			t.Fatalf("run %d differs:\n%s\nvs\n%s", i, got, first)
		}
	}
	if !strings.Contains(first, "ex:friend [ rdfs:label \"Ace\" ],\n        [ rdfs:label \"Rex\" ] ;") {
		t.Errorf("objects not sorted by rendered text:\n%s", first)
	}
}

type reparseCase struct {
	g        *rdf.Store
	subjects []rdf.Term
}

// reparseGraphs returns graphs whose Turtle form exercises inline blank
// nodes, collections, shared and cyclic blank nodes and escaped literals.
func reparseGraphs() map[string]reparseCase {
	classes := dog()
	classes.Add(rdf.Triple{S: iri("Mammal"), P: rdf.Type, O: rdf.OWLClass})
	classes.Add(rdf.Triple{S: iri("Dog"), P: iri("note"), O: rdf.Literal("tab\there \"q\" back\\slash Größe 犬")})
	classes.Add(rdf.Triple{S: iri("Dog"), P: rdf.Label, O: rdf.LangLiteral("Hund\tÄ", "de")})

	nested := rdf.NewStore()
	r := rdf.Blank("r")
	nested.Add(rdf.Triple{S: iri("Dog"), P: rdf.SubClassOf, O: r})
	nested.Add(rdf.Triple{S: r, P: rdf.Type, O: rdf.Restriction})
	nested.Add(rdf.Triple{S: r, P: owl("onProperty"), O: iri("hasOwner")})
	nested.Add(rdf.Triple{S: r, P: owl("someValuesFrom"), O: iri("Person")})
	l1, l2, l3 := rdf.Blank("l1"), rdf.Blank("l2"), rdf.Blank("l3")
	m1, m2, k := rdf.Blank("m1"), rdf.Blank("m2"), rdf.Blank("k")
	nested.Add(rdf.Triple{S: iri("Mammal"), P: owl("unionOf"), O: l1})
	nested.Add(rdf.Triple{S: l1, P: rdf.First, O: iri("A")})
	nested.Add(rdf.Triple{S: l1, P: rdf.Rest, O: l2})
	nested.Add(rdf.Triple{S: l2, P: rdf.First, O: m1})
	nested.Add(rdf.Triple{S: l2, P: rdf.Rest, O: l3})
	nested.Add(rdf.Triple{S: l3, P: rdf.First, O: k})
	nested.Add(rdf.Triple{S: l3, P: rdf.Rest, O: rdf.Nil})
	nested.Add(rdf.Triple{S: m1, P: rdf.First, O: iri("B")})
	nested.Add(rdf.Triple{S: m1, P: rdf.Rest, O: m2})
	nested.Add(rdf.Triple{S: m2, P: rdf.First, O: iri("C")})
	nested.Add(rdf.Triple{S: m2, P: rdf.Rest, O: rdf.Nil})
	nested.Add(rdf.Triple{S: k, P: iri("name"), O: rdf.Literal("x")})

	shared := rdf.NewStore()
	s, cx, cy := rdf.Blank("s"), rdf.Blank("cx"), rdf.Blank("cy")
	shared.Add(rdf.Triple{S: iri("Mammal"), P: iri("friend"), O: s})
	shared.Add(rdf.Triple{S: iri("Dog"), P: iri("friend"), O: s})
	shared.Add(rdf.Triple{S: s, P: rdf.Label, O: rdf.Literal("shared")})
	shared.Add(rdf.Triple{S: iri("Dog"), P: iri("p"), O: cx})
	shared.Add(rdf.Triple{S: cx, P: iri("q"), O: cy})
	shared.Add(rdf.Triple{S: cy, P: iri("q"), O: cx})

	// x is referenced before y but y's inline owner sorts first.
	inner := rdf.NewStore()
	x, y := rdf.Blank("x"), rdf.Blank("y")
	bs, br := rdf.Blank("bs"), rdf.Blank("br")
	inner.Add(rdf.Triple{S: iri("A"), P: iri("p"), O: bs})
	inner.Add(rdf.Triple{S: iri("A"), P: iri("p"), O: br})
	inner.Add(rdf.Triple{S: bs, P: iri("s"), O: x})
	inner.Add(rdf.Triple{S: br, P: iri("r"), O: y})
	inner.Add(rdf.Triple{S: iri("C"), P: iri("t"), O: x})
	inner.Add(rdf.Triple{S: iri("C"), P: iri("t"), O: y})
	inner.Add(rdf.Triple{S: x, P: rdf.Label, O: rdf.Literal("x")})
	inner.Add(rdf.Triple{S: y, P: rdf.Label, O: rdf.Literal("y")})

	return map[string]reparseCase{
		"escaped literals":  {classes, []rdf.Term{iri("Mammal"), iri("Dog")}},
		"restriction lists": {nested, []rdf.Term{iri("Mammal"), iri("Dog")}},
		"shared and cyclic": {shared, []rdf.Term{iri("Mammal"), iri("Dog")}},
		"labels inside [ ]": {inner, []rdf.Term{iri("A"), iri("C")}},
	}
}

func blankCount(g rdf.Graph) int {
	seen := make(map[rdf.Term]bool)
	for tr := range g.Match(rdf.Term{}, rdf.Term{}, rdf.Term{}) {
		for _, term := range []rdf.Term{tr.S, tr.O} {
			if term.IsBlank() {
				seen[term] = true
			}
		}
	}
	return len(seen)
}

func TestTurtleReparses(t *testing.T) {
	for name, tt := range reparseGraphs() {
		t.Run(name, func(t *testing.T) {
			first := turtle(t, tt.g, Options{}, tt.subjects...)

			back, _, err := load.Bytes([]byte(first), load.FormatTurtle)
			if err != nil {
				t.Fatalf("reparse error = %v\n%s", err, first)
			}
			if back.Len() != tt.g.Len() {
				t.Errorf("reparsed %d triples, want %d\n%s", back.Len(), tt.g.Len(), first)
			}
			if got, want := blankCount(back), blankCount(tt.g); got != want {
				t.Errorf("reparsed %d blank nodes, want %d\n%s", got, want, first)
			}
			for tr := range tt.g.Match(rdf.Term{}, rdf.Term{}, rdf.Term{}) {
				if !tr.S.IsBlank() && !tr.O.IsBlank() && !back.Has(tr) {
					t.Errorf("lost triple %s", tr)
				}
			}

			second := turtle(t, back, Options{}, tt.subjects...)
			if second != first {
				t.Errorf("second Write() differs:\n%s\nfirst:\n%s", second, first)
			}
		})
	}
}

func TestTurtleLabelsByFirstAppearance(t *testing.T) {
	g := reparseGraphs()["labels inside [ ]"].g
	got := turtle(t, g, Options{}, iri("A"), iri("C"))
	want := `ex:A ex:p [ ex:r _:n0 ],
        [ ex:s _:n1 ] .

ex:C ex:t _:n0,
        _:n1 .

_:n0 rdfs:label "y" .

_:n1 rdfs:label "x" .
`
	if !strings.HasSuffix(got, "\n\n"+want) {
		t.Errorf("Write() =\n%s\nwant suffix\n%s", got, want)
	}
}

func TestNTriples(t *testing.T) {
	g := rdf.NewStore()
	b := rdf.Blank("n1")
	g.Add(rdf.Triple{S: iri("A"), P: rdf.Label, O: rdf.Literal("a")})
	g.Add(rdf.Triple{S: iri("A"), P: iri("p"), O: b})
	g.Add(rdf.Triple{S: b, P: rdf.Label, O: rdf.Literal("inner")})
	g.Add(rdf.Triple{S: iri("B"), P: rdf.Type, O: rdf.OWLClass})

	var buf bytes.Buffer
	if err := (NTriples{Table: table}).Write(&buf, g, []rdf.Term{iri("B"), iri("A")}); err != nil {
		t.Fatal(err)
	}
	want := `<http://example.org/B> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/2002/07/owl#Class> .
<http://example.org/A> <http://example.org/p> _:n1 .
<http://example.org/A> <http://www.w3.org/2000/01/rdf-schema#label> "a" .
_:n1 <http://www.w3.org/2000/01/rdf-schema#label> "inner" .
`
	if buf.String() != want {
		t.Errorf("Write() =\n%s\nwant\n%s", buf.String(), want)
	}
}
