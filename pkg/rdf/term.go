package rdf

import (
	"strings"
)

// Kind distinguishes the three RDF term types.
type Kind uint8

const (
	// KindNone marks the zero Term, used as a wildcard in patterns.
	KindNone Kind = iota
	// KindIRI is an absolute resource name.
	KindIRI
	// KindBlank is an anonymous node scoped to one document.
	KindBlank
	// KindLiteral is a lexical value with optional language or datatype.
	KindLiteral
)

// Term is an RDF term. For IRIs Value is the absolute IRI, for blank nodes
// the document-local label (without "_:"), for literals the lexical form.
type Term struct {
	Kind     Kind
	Value    string
	Lang     string // literals only
	Datatype string // literals only; empty for plain and language-tagged literals
}

// IRI returns an IRI term.
func IRI(iri string) Term { return Term{Kind: KindIRI, Value: iri} }

// Blank returns a blank node term with the given label.
func Blank(label string) Term {
	return Term{Kind: KindBlank, Value: strings.TrimPrefix(label, "_:")}
}

// Literal returns a plain literal.
func Literal(v string) Term { return Term{Kind: KindLiteral, Value: v} }

// LangLiteral returns a language-tagged literal. Tags are stored lower-case.
func LangLiteral(v, lang string) Term {
	return Term{Kind: KindLiteral, Value: v, Lang: strings.ToLower(lang)}
}

// TypedLiteral returns a literal with an explicit datatype IRI.
// xsd:string is normalized to a plain literal.
func TypedLiteral(v, datatype string) Term {
	if datatype == XSDString.Value {
		datatype = ""
	}
	return Term{Kind: KindLiteral, Value: v, Datatype: datatype}
}

// IsZero reports whether t is the wildcard term.
func (t Term) IsZero() bool { return t.Kind == KindNone }

// IsIRI reports whether t is an IRI.
func (t Term) IsIRI() bool { return t.Kind == KindIRI }

// IsBlank reports whether t is a blank node.
func (t Term) IsBlank() bool { return t.Kind == KindBlank }

// IsLiteral reports whether t is a literal.
func (t Term) IsLiteral() bool { return t.Kind == KindLiteral }

// String returns the N-Triples form of t.
func (t Term) String() string {
	switch t.Kind {
	case KindIRI:
		return "<" + t.Value + ">"
	case KindBlank:
		return "_:" + t.Value
	case KindLiteral:
		s := `"` + EscapeString(t.Value) + `"`
		switch {
		case t.Lang != "":
			return s + "@" + t.Lang
		case t.Datatype != "":
			return s + "^^<" + t.Datatype + ">"
		}
		return s
	}
	return "*"
}

// EscapeString escapes a literal's lexical form for use inside a
// double-quoted Turtle or N-Triples string.
func EscapeString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				b.WriteString(`\u00`)
				b.WriteByte("0123456789ABCDEF"[r>>4])
				b.WriteByte("0123456789ABCDEF"[r&0xf])
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Triple is one subject–predicate–object statement.
type Triple struct {
	S, P, O Term
}

// String returns the N-Triples line for t, without the trailing newline.
func (t Triple) String() string {
	return t.S.String() + " " + t.P.String() + " " + t.O.String() + " ."
}
