// Package selector picks the subjects that belong to one section of an
// ordering profile.
//
// A [Spec] names a semantic category (classes, object properties, datatype
// properties, annotation properties, individuals, the ontology header) or a
// configured pattern, plus identifiers to exclude after selection. [Select]
// returns an unordered [Set]; ordering is the job of package ordering.
package selector

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/ttlorder/pkg/curie"
	errs "github.com/matzehuels/ttlorder/pkg/errors"
	"github.com/matzehuels/ttlorder/pkg/rdf"
)

// Category is a built-in selection category.
type Category string

const (
	Class              Category = "class"
	ObjectProperty     Category = "object-property"
	DatatypeProperty   Category = "datatype-property"
	AnnotationProperty Category = "annotation-property"
	Individual         Category = "individual"
	Ontology           Category = "ontology"
)

var aliases = map[string]Category{
	"class":                 Class,
	"classes":               Class,
	"object-property":       ObjectProperty,
	"object_property":       ObjectProperty,
	"object_properties":     ObjectProperty,
	"obj_props":             ObjectProperty,
	"datatype-property":     DatatypeProperty,
	"datatype_property":     DatatypeProperty,
	"datatype_properties":   DatatypeProperty,
	"data_props":            DatatypeProperty,
	"annotation-property":   AnnotationProperty,
	"annotation_property":   AnnotationProperty,
	"annotation_properties": AnnotationProperty,
	"individual":            Individual,
	"individuals":           Individual,
	"ontology":              Ontology,
	"header":                Ontology,
}

// ParseCategory resolves a category name or alias. It is case-insensitive.
func ParseCategory(name string) (Category, bool) {
	c, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// Categories returns the canonical built-in category names.
func Categories() []Category {
	return []Category{Class, ObjectProperty, DatatypeProperty, AnnotationProperty, Individual, Ontology}
}

// IsProperty reports whether c selects properties. Property sections order
// along rdfs:subPropertyOf by default.
func (c Category) IsProperty() bool {
	return c == ObjectProperty || c == DatatypeProperty || c == AnnotationProperty
}

// Spec describes one selection.
type Spec struct {
	// Category is a built-in category name, an alias, or the key of a
	// named pattern in Patterns.
	Category string
	// Exclude lists CURIEs or IRIs removed from the result.
	Exclude []string
	// Patterns maps configured selector names to "predicate object"
	// patterns such as "rdf:type owl:Class". A name here takes precedence
	// over a built-in category of the same name.
	Patterns map[string]string
}

// Set is an unordered collection of unique subjects.
type Set map[rdf.Term]struct{}

// NewSet builds a set from terms.
func NewSet(terms ...rdf.Term) Set {
	s := make(Set, len(terms))
	for _, t := range terms {
		s[t] = struct{}{}
	}
	return s
}

// Add inserts t.
func (s Set) Add(t rdf.Term) { s[t] = struct{}{} }

// Has reports whether t is in the set.
func (s Set) Has(t rdf.Term) bool {
	_, ok := s[t]
	return ok
}

// Len returns the number of members.
func (s Set) Len() int { return len(s) }

// Terms returns the members sorted by [rdf.Compare]. Use it wherever a
// stable iteration order is required.
func (s Set) Terms() []rdf.Term {
	ts := slices.Collect(maps.Keys(s))
	rdf.SortTerms(ts)
	return ts
}

// Select returns the subjects of g matching spec. Identifiers in the spec
// are resolved through table. An unknown category is an
// ErrCodeUnknownSelector error; no matches is an empty set.
func Select(g rdf.Graph, spec Spec, table curie.Table) (Set, error) {
	var (
		set Set
		err error
	)
	if pattern, ok := spec.Patterns[spec.Category]; ok {
		set, err = selectPattern(g, spec.Category, pattern, table)
	} else if c, ok := ParseCategory(spec.Category); ok {
		set = selectCategory(g, c)
	} else {
		err = errs.New(errs.ErrCodeUnknownSelector, "unknown selector %q", spec.Category)
	}
	if err != nil {
		return nil, err
	}

	for _, ex := range spec.Exclude {
		iri, err := table.Resolve(ex)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "exclude %q", ex)
		}
		delete(set, rdf.IRI(iri))
	}
	return set, nil
}

func selectCategory(g rdf.Graph, c Category) Set {
	switch c {
	case Class:
		return classes(g)
	case ObjectProperty:
		return typed(g, rdf.ObjectProperty)
	case DatatypeProperty:
		return typed(g, rdf.DatatypeProperty)
	case AnnotationProperty:
		return typed(g, rdf.AnnotationProperty)
	case Individual:
		return individuals(g)
	case Ontology:
		return typed(g, rdf.Ontology)
	}
	return Set{}
}

// typed returns the named subjects declared with any of the given types.
func typed(g rdf.Graph, types ...rdf.Term) Set {
	set := Set{}
	for _, typ := range types {
		for t := range g.Match(rdf.Term{}, rdf.Type, typ) {
			if !t.S.IsBlank() {
				set.Add(t.S)
			}
		}
	}
	return set
}

func classes(g rdf.Graph) Set {
	set := typed(g, rdf.ClassTypes...)
	for t := range g.Match(rdf.Term{}, rdf.SubClassOf, rdf.Term{}) {
		if !t.S.IsBlank() {
			set.Add(t.S)
		}
	}
	return set
}

func individuals(g rdf.Graph) Set {
	cls := classes(g)
	set := Set{}
	for t := range g.Match(rdf.Term{}, rdf.Type, rdf.Term{}) {
		if t.S.IsBlank() || !t.O.IsIRI() {
			continue
		}
		if !rdf.HasType(g, t.O, rdf.ClassTypes...) {
			continue
		}
		if cls.Has(t.S) || rdf.HasType(g, t.S, rdf.PropertyTypes...) {
			continue
		}
		set.Add(t.S)
	}
	return set
}

func selectPattern(g rdf.Graph, name, pattern string, table curie.Table) (Set, error) {
	fields := strings.Fields(pattern)
	if len(fields) != 2 {
		return nil, errs.New(errs.ErrCodeInvalidConfig,
			"selector %q: pattern %q must be \"predicate object\"", name, pattern)
	}
	pred, err := resolvePredicate(fields[0], table)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "selector %q", name)
	}
	obj, err := table.Resolve(fields[1])
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "selector %q", name)
	}

	set := Set{}
	for t := range g.Match(rdf.Term{}, pred, rdf.IRI(obj)) {
		if !t.S.IsBlank() {
			set.Add(t.S)
		}
	}
	return set, nil
}

func resolvePredicate(ref string, table curie.Table) (rdf.Term, error) {
	if ref == "a" {
		return rdf.Type, nil
	}
	iri, err := table.Resolve(ref)
	if err != nil {
		return rdf.Term{}, err
	}
	return rdf.IRI(iri), nil
}
