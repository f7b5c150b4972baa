package rdf

// Well-known namespaces.
const (
	RDFNS  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNS = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNS  = "http://www.w3.org/2002/07/owl#"
	XSDNS  = "http://www.w3.org/2001/XMLSchema#"
)

// WellKnownPrefixes are bound for configuration lookups and output when a
// document does not declare them itself.
var WellKnownPrefixes = map[string]string{
	"rdf":  RDFNS,
	"rdfs": RDFSNS,
	"owl":  OWLNS,
	"xsd":  XSDNS,
}

// Vocabulary terms used by selection, ordering and serialization.
var (
	Type     = IRI(RDFNS + "type")
	Property = IRI(RDFNS + "Property")
	First    = IRI(RDFNS + "first")
	Rest     = IRI(RDFNS + "rest")
	Nil      = IRI(RDFNS + "nil")

	RDFSClass     = IRI(RDFSNS + "Class")
	SubClassOf    = IRI(RDFSNS + "subClassOf")
	SubPropertyOf = IRI(RDFSNS + "subPropertyOf")
	Label         = IRI(RDFSNS + "label")
	Comment       = IRI(RDFSNS + "comment")

	OWLClass           = IRI(OWLNS + "Class")
	ObjectProperty     = IRI(OWLNS + "ObjectProperty")
	DatatypeProperty   = IRI(OWLNS + "DatatypeProperty")
	AnnotationProperty = IRI(OWLNS + "AnnotationProperty")
	Ontology           = IRI(OWLNS + "Ontology")
	Restriction        = IRI(OWLNS + "Restriction")

	XSDString = IRI(XSDNS + "string")
)

// ClassTypes are the meta-types that declare a class.
var ClassTypes = []Term{OWLClass, RDFSClass}

// PropertyTypes are the meta-types that declare a property.
var PropertyTypes = []Term{ObjectProperty, DatatypeProperty, AnnotationProperty, Property}
