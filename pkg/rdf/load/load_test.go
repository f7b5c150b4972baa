package load

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	errs "github.com/matzehuels/ttlorder/pkg/errors"
	"github.com/matzehuels/ttlorder/pkg/rdf"
)

const animals = `@prefix ex: <http://example.org/> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .

ex:Animal a owl:Class ;
    rdfs:label "Animal"@en .

ex:Dog a owl:Class ;
    rdfs:subClassOf ex:Mammal .

ex:Mammal a owl:Class ;
    rdfs:subClassOf ex:Animal .
`

func TestPrefixes(t *testing.T) {
	src := []byte("@prefix ex: <http://example.org/> .\nPREFIX owl: <http://www.w3.org/2002/07/owl#>\n@prefix : <http://default.org/> .\n")
	table, err := Prefixes(src)
	if err != nil {
		t.Fatalf("Prefixes() error = %v", err)
	}
	for prefix, want := range map[string]string{
		"ex":  "http://example.org/",
		"owl": "http://www.w3.org/2002/07/owl#",
		"":    "http://default.org/",
	} {
		if got, ok := table.Namespace(prefix); !ok || got != want {
			t.Errorf("Namespace(%q) = (%q, %v), want %q", prefix, got, ok, want)
		}
	}
}

func TestBytesTurtle(t *testing.T) {
	g, table, err := Bytes([]byte(animals), FormatTurtle)
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	if g.Len() != 6 {
		t.Errorf("Len() = %d, want 6", g.Len())
	}
	if table.Len() != 3 {
		t.Errorf("prefix count = %d, want 3", table.Len())
	}
	dog := rdf.IRI("http://example.org/Dog")
	if !g.Has(rdf.Triple{S: dog, P: rdf.SubClassOf, O: rdf.IRI("http://example.org/Mammal")}) {
		t.Error("missing Dog subClassOf Mammal")
	}
	if !g.Has(rdf.Triple{S: rdf.IRI("http://example.org/Animal"), P: rdf.Label, O: rdf.LangLiteral("Animal", "en")}) {
		t.Error("missing language-tagged label")
	}
}

func TestBytesNTriples(t *testing.T) {
	src := "<http://example.org/a> <http://example.org/p> \"x\" .\n<http://example.org/a> <http://example.org/p> _:b0 .\n"
	g, _, err := Read(strings.NewReader(src), FormatNTriples)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if g.Len() != 2 {
		t.Errorf("Len() = %d, want 2", g.Len())
	}
	blanks := 0
	for tr := range g.Match(rdf.Term{}, rdf.Term{}, rdf.Term{}) {
		if tr.O.IsBlank() {
			blanks++
			if strings.HasPrefix(tr.O.Value, "_:") {
				t.Errorf("blank label kept its _: prefix: %q", tr.O.Value)
			}
		}
	}
	if blanks != 1 {
		t.Errorf("blank objects = %d, want 1", blanks)
	}
}

const blankPrefixes = `@prefix ex: <http://example.org/> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
`

func blankLabels(g *rdf.Store) map[string]bool {
	labels := make(map[string]bool)
	for tr := range g.Match(rdf.Term{}, rdf.Term{}, rdf.Term{}) {
		for _, term := range []rdf.Term{tr.S, tr.O} {
			if term.IsBlank() {
				labels[term.Value] = true
			}
		}
	}
	return labels
}

func TestBytesTurtleBlankScopes(t *testing.T) {
	tests := []struct {
		name        string
		src         string
		wantTriples int
		wantBlanks  int
		wantLabels  []string
	}{
		{
			name:        "anonymous and written",
			src:         "ex:A ex:p [ ex:q ex:x ] .\nex:B ex:p _:b1 .\n_:b1 ex:r ex:y .\n",
			wantTriples: 4,
			wantBlanks:  2,
			wantLabels:  []string{"b1"},
		},
		{
			name:        "collection cells and written",
			src:         "ex:A ex:p ( ex:x ex:y ) .\n_:b1 ex:r ex:z .\n_:b2 ex:r ex:z .\n",
			wantTriples: 7,
			wantBlanks:  4,
			wantLabels:  []string{"b1", "b2"},
		},
		{
			name:        "same label twice",
			src:         "_:x ex:p _:x .\nex:A ex:q _:x .\n",
			wantTriples: 2,
			wantBlanks:  1,
			wantLabels:  []string{"x"},
		},
		{
			name:        "label ends before dot",
			src:         "ex:A ex:p _:n0.\n_:n0 ex:q ex:B .\n",
			wantTriples: 2,
			wantBlanks:  1,
			wantLabels:  []string{"n0"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _, err := Bytes([]byte(blankPrefixes+tt.src), FormatTurtle)
			if err != nil {
				t.Fatalf("Bytes() error = %v", err)
			}
			if g.Len() != tt.wantTriples {
				t.Errorf("Len() = %d, want %d", g.Len(), tt.wantTriples)
			}
			labels := blankLabels(g)
			if len(labels) != tt.wantBlanks {
				t.Errorf("distinct blank nodes = %d (%v), want %d", len(labels), labels, tt.wantBlanks)
			}
			for _, l := range tt.wantLabels {
				if !labels[l] {
					t.Errorf("written label %q not kept: %v", l, labels)
				}
			}
		})
	}
}

func TestBytesTurtleLabelsInStringsAndIRIs(t *testing.T) {
	src := blankPrefixes + `<http://example.org/_:x> rdfs:label "_:b1 stays", '_:b2 too', """long _:b3 "quoted" text""" . # _:b4
ex:A ex:p _:b1 .
`
	g, _, err := Bytes([]byte(src), FormatTurtle)
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	subj := rdf.IRI("http://example.org/_:x")
	for _, v := range []string{"_:b1 stays", "_:b2 too", `long _:b3 "quoted" text`} {
		if !g.Has(rdf.Triple{S: subj, P: rdf.Label, O: rdf.Literal(v)}) {
			t.Errorf("missing label %q", v)
		}
	}
	if !g.Has(rdf.Triple{S: rdf.IRI("http://example.org/A"), P: rdf.IRI("http://example.org/p"), O: rdf.Blank("b1")}) {
		t.Error("missing ex:A ex:p _:b1")
	}
}

func TestScopeBlankLabels(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"_:a ex:p _:b .", "_:ua ex:p _:ub ."},
		{"ex:A ex:p _:b1.", "ex:A ex:p _:ub1."},
		{`ex:A ex:p "_:a" .`, `ex:A ex:p "_:a" .`},
		{"<http://x/_:a> ex:p [] . # _:c", "<http://x/_:a> ex:p [] . # _:c"},
		{"ex:A ex:p (_:a _:b) .", "ex:A ex:p (_:ua _:ub) ."},
	}
	for _, tt := range tests {
		got, _ := scopeBlankLabels([]byte(tt.in))
		if string(got) != tt.want {
			t.Errorf("scopeBlankLabels(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFileNotFound(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "missing.ttl"))
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("File() error = %v, want %s", err, errs.ErrCodeFileNotFound)
	}
}

func TestFileAndStem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "animals.ttl")
	if err := os.WriteFile(path, []byte(animals), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := File(path)
	if err != nil {
		t.Fatalf("File() error = %v", err)
	}
	if src.Stem() != "animals" {
		t.Errorf("Stem() = %q, want %q", src.Stem(), "animals")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.ttl":    FormatTurtle,
		"a.nt":     FormatNTriples,
		"a.NT":     FormatNTriples,
		"a.turtle": FormatTurtle,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}
