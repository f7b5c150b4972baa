package serialize

import (
	"slices"
	"strings"

	"github.com/matzehuels/ttlorder/pkg/curie"
	"github.com/matzehuels/ttlorder/pkg/rdf"
)

// PredicateOrder pins predicates to the start or end of a subject block.
type PredicateOrder struct {
	First []rdf.Term
	Last  []rdf.Term
}

// IsZero reports whether the rule pins nothing.
func (p PredicateOrder) IsZero() bool { return len(p.First) == 0 && len(p.Last) == 0 }

// Sort returns preds in block order: rdf:type, First in order, the
// remainder by sort key, then Last in order. Predicates named in First but
// absent from preds are skipped; a predicate in both First and Last is
// treated as First.
func (p PredicateOrder) Sort(preds []rdf.Term, table curie.Table) []rdf.Term {
	present := make(map[rdf.Term]bool, len(preds))
	for _, t := range preds {
		present[t] = true
	}
	taken := make(map[rdf.Term]bool, len(preds))
	out := make([]rdf.Term, 0, len(present))
	take := func(t rdf.Term) {
		if present[t] && !taken[t] {
			taken[t] = true
			out = append(out, t)
		}
	}

	take(rdf.Type)
	for _, t := range p.First {
		take(t)
	}
	last := make(map[rdf.Term]bool, len(p.Last))
	for _, t := range p.Last {
		if !taken[t] {
			last[t] = true
		}
	}

	var middle []rdf.Term
	for t := range present {
		if !taken[t] && !last[t] {
			middle = append(middle, t)
		}
	}
	slices.SortFunc(middle, func(a, b rdf.Term) int {
		if c := strings.Compare(table.SortKey(a.Value), table.SortKey(b.Value)); c != 0 {
			return c
		}
		return rdf.Compare(a, b)
	})
	for _, t := range middle {
		take(t)
	}
	for _, t := range p.Last {
		take(t)
	}
	return out
}

// Kind is the classification used to pick a predicate rule.
type Kind string

const (
	KindClass      Kind = "classes"
	KindProperty   Kind = "properties"
	KindIndividual Kind = "individuals"
	KindDefault    Kind = "default"
)

// Classify returns the kind of s: class and property meta-types win over
// any other type, anything else with a type is an individual.
func Classify(g rdf.Graph, s rdf.Term) Kind {
	switch {
	case rdf.HasType(g, s, rdf.ClassTypes...):
		return KindClass
	case rdf.HasType(g, s, rdf.PropertyTypes...):
		return KindProperty
	case rdf.HasAny(g, s, rdf.Type, rdf.Term{}):
		return KindIndividual
	}
	return KindDefault
}

// Rules holds one predicate rule per kind.
type Rules struct {
	Classes     PredicateOrder
	Properties  PredicateOrder
	Individuals PredicateOrder
	Default     PredicateOrder
}

// For returns the rule for k, falling back to Default when the kind's own
// rule is empty.
func (r Rules) For(k Kind) PredicateOrder {
	var p PredicateOrder
	switch k {
	case KindClass:
		p = r.Classes
	case KindProperty:
		p = r.Properties
	case KindIndividual:
		p = r.Individuals
	}
	if p.IsZero() {
		return r.Default
	}
	return p
}
