package rdf

import (
	"slices"
	"testing"
)

const ex = "http://example.org/"

func sampleStore() *Store {
	s := NewStore()
	s.Add(Triple{IRI(ex + "Dog"), Type, OWLClass})
	s.Add(Triple{IRI(ex + "Dog"), SubClassOf, IRI(ex + "Mammal")})
	s.Add(Triple{IRI(ex + "Mammal"), Type, OWLClass})
	s.Add(Triple{IRI(ex + "Mammal"), SubClassOf, IRI(ex + "Animal")})
	s.Add(Triple{IRI(ex + "Animal"), Type, OWLClass})
	s.Add(Triple{IRI(ex + "Animal"), Label, LangLiteral("Animal", "EN")})
	return s
}

func TestStoreAddDeduplicates(t *testing.T) {
	s := sampleStore()
	if s.Add(Triple{IRI(ex + "Dog"), Type, OWLClass}) {
		t.Error("Add() of duplicate returned true")
	}
	if s.Len() != 6 {
		t.Errorf("Len() = %d, want 6", s.Len())
	}
}

func TestStoreMatch(t *testing.T) {
	s := sampleStore()
	tests := []struct {
		name    string
		s, p, o Term
		want    int
	}{
		{"all wildcards", Term{}, Term{}, Term{}, 6},
		{"by subject", IRI(ex + "Dog"), Term{}, Term{}, 2},
		{"by predicate", Term{}, SubClassOf, Term{}, 2},
		{"by object", Term{}, Type, OWLClass, 3},
		{"fully bound", IRI(ex + "Dog"), SubClassOf, IRI(ex + "Mammal"), 1},
		{"no match", IRI(ex + "Cat"), Term{}, Term{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := 0
			for range s.Match(tt.s, tt.p, tt.o) {
				n++
			}
			if n != tt.want {
				t.Errorf("Match() yielded %d triples, want %d", n, tt.want)
			}
		})
	}
}

func TestStoreMatchInsertionOrder(t *testing.T) {
	s := sampleStore()
	got := Subjects(s, Type, OWLClass)
	want := []Term{IRI(ex + "Dog"), IRI(ex + "Mammal"), IRI(ex + "Animal")}
	if !slices.Equal(got, want) {
		t.Errorf("Subjects() = %v, want %v", got, want)
	}
}

func TestMatchEarlyStop(t *testing.T) {
	s := sampleStore()
	n := 0
	for range s.Match(Term{}, Term{}, Term{}) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("iteration continued after break: %d", n)
	}
}

func TestHasType(t *testing.T) {
	s := sampleStore()
	if !HasType(s, IRI(ex+"Dog"), ClassTypes...) {
		t.Error("HasType(Dog, class) = false")
	}
	if HasType(s, IRI(ex+"Dog"), PropertyTypes...) {
		t.Error("HasType(Dog, property) = true")
	}
}

func TestTermString(t *testing.T) {
	tests := []struct {
		term Term
		want string
	}{
		{IRI(ex + "A"), "<http://example.org/A>"},
		{Blank("_:b1"), "_:b1"},
		{Literal("a \"q\"\n"), `"a \"q\"\n"`},
		{LangLiteral("chat", "FR"), `"chat"@fr`},
		{TypedLiteral("1", XSDNS+"integer"), `"1"^^<http://www.w3.org/2001/XMLSchema#integer>`},
		{TypedLiteral("s", XSDNS+"string"), `"s"`},
	}
	for _, tt := range tests {
		if got := tt.term.String(); got != tt.want {
			t.Errorf("String() = %s, want %s", got, tt.want)
		}
	}
}

func TestEscapeString(t *testing.T) {
	if got := EscapeString("a\\b\t\x01"); got != `a\\b\t\u0001` {
		t.Errorf("EscapeString() = %q", got)
	}
}

func TestCompareIsTotal(t *testing.T) {
	terms := []Term{Literal("b"), IRI(ex + "b"), Blank("x"), IRI(ex + "a"), LangLiteral("b", "en")}
	SortTerms(terms)
	want := []Term{IRI(ex + "a"), IRI(ex + "b"), Blank("x"), Literal("b"), LangLiteral("b", "en")}
	if !slices.Equal(terms, want) {
		t.Errorf("SortTerms() = %v, want %v", terms, want)
	}
}

func TestExtract(t *testing.T) {
	s := sampleStore()
	r := Blank("r")
	s.Add(Triple{IRI(ex + "Dog"), SubClassOf, r})
	s.Add(Triple{r, Type, Restriction})
	s.Add(Triple{IRI(ex + "Cat"), Label, Literal("cat")})

	out := Extract(s, []Term{IRI(ex + "Dog"), IRI(ex + "Missing")})
	if out.Len() != 4 {
		t.Errorf("Len() = %d, want 4", out.Len())
	}
	if !out.Has(Triple{r, Type, Restriction}) {
		t.Error("reachable blank node triples missing")
	}
	if HasAny(out, IRI(ex+"Cat"), Term{}, Term{}) {
		t.Error("unrequested subject copied")
	}
}
