// Package curie converts between absolute IRIs and compact "prefix:local"
// identifiers under an immutable prefix table.
//
// A [Table] is built once per source graph and passed explicitly to every
// component that renders or resolves identifiers; there is no process-wide
// namespace registry. Tables are values: [Table.With] returns a modified copy
// and leaves the receiver untouched, so a table can be shared between
// goroutines without synchronization.
//
// # Round-trip guarantee
//
// [Table.Contract] only returns a short form whose local part is a valid
// Turtle local name, so Expand(Contract(iri)) == iri whenever Contract
// succeeds.
//
// # Sort keys
//
// [Table.SortKey] is the stable key used for every alphabetical comparison in
// ttlorder: the short form when one exists, the absolute IRI otherwise,
// compared by byte (codepoint) order.
package curie

import (
	"slices"
	"strings"
	"unicode"

	errs "github.com/matzehuels/ttlorder/pkg/errors"
)

// Entry is a single prefix binding.
type Entry struct {
	Prefix    string
	Namespace string
}

// Table is an immutable prefix-to-namespace mapping.
// The zero value is an empty, usable table.
type Table struct {
	byPrefix map[string]string
	// longest namespace first, so contraction can stop early on ties
	entries []Entry
}

// NewTable builds a table from prefix/namespace pairs.
// It returns an ErrCodeMalformedPrefix error if a prefix label or namespace
// is invalid.
func NewTable(bindings map[string]string) (Table, error) {
	t := Table{byPrefix: make(map[string]string, len(bindings))}
	for p, ns := range bindings {
		if err := errs.ValidatePrefixName(p); err != nil {
			return Table{}, err
		}
		if err := errs.ValidateNamespace(ns); err != nil {
			return Table{}, errs.Wrap(errs.ErrCodeMalformedPrefix, err, "prefix %q", p)
		}
		t.byPrefix[p] = ns
	}
	t.reindex()
	return t, nil
}

// MustTable is like NewTable but panics on error. Intended for tests and
// package-level vocabularies.
func MustTable(bindings map[string]string) Table {
	t, err := NewTable(bindings)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) reindex() {
	t.entries = t.entries[:0]
	for p, ns := range t.byPrefix {
		t.entries = append(t.entries, Entry{Prefix: p, Namespace: ns})
	}
	slices.SortFunc(t.entries, func(a, b Entry) int {
		if d := len(b.Namespace) - len(a.Namespace); d != 0 {
			return d
		}
		return strings.Compare(a.Prefix, b.Prefix)
	})
}

// With returns a copy of t with prefix bound to ns, replacing any previous
// binding of prefix.
func (t Table) With(prefix, ns string) (Table, error) {
	if err := errs.ValidatePrefixName(prefix); err != nil {
		return t, err
	}
	if err := errs.ValidateNamespace(ns); err != nil {
		return t, errs.Wrap(errs.ErrCodeMalformedPrefix, err, "prefix %q", prefix)
	}
	out := Table{byPrefix: make(map[string]string, len(t.byPrefix)+1)}
	for p, n := range t.byPrefix {
		out.byPrefix[p] = n
	}
	out.byPrefix[prefix] = ns
	out.reindex()
	return out, nil
}

// WithDefaults returns a copy of t that also binds each default prefix
// whose label and namespace are both unused in t. Existing bindings always
// win, so a document that maps "rdfs" elsewhere keeps its own mapping.
func (t Table) WithDefaults(defaults map[string]string) Table {
	bound := make(map[string]bool, len(t.byPrefix))
	out := Table{byPrefix: make(map[string]string, len(t.byPrefix)+len(defaults))}
	for p, ns := range t.byPrefix {
		out.byPrefix[p] = ns
		bound[ns] = true
	}
	for p, ns := range defaults {
		if _, ok := out.byPrefix[p]; ok || bound[ns] {
			continue
		}
		if errs.ValidatePrefixName(p) != nil || errs.ValidateNamespace(ns) != nil {
			continue
		}
		out.byPrefix[p] = ns
	}
	out.reindex()
	return out
}

// Len returns the number of bindings.
func (t Table) Len() int { return len(t.byPrefix) }

// Namespace returns the namespace bound to prefix.
func (t Table) Namespace(prefix string) (string, bool) {
	ns, ok := t.byPrefix[prefix]
	return ns, ok
}

// Entries returns all bindings sorted by prefix.
func (t Table) Entries() []Entry {
	out := slices.Clone(t.entries)
	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.Prefix, b.Prefix) })
	return out
}

// Expand converts a CURIE to an absolute IRI. It reports false if the text
// has no colon or its prefix is not bound.
func (t Table) Expand(curie string) (string, bool) {
	prefix, local, ok := strings.Cut(curie, ":")
	if !ok {
		return "", false
	}
	ns, ok := t.byPrefix[prefix]
	if !ok {
		return "", false
	}
	return ns + local, true
}

// Contract returns the shortest CURIE for iri whose local part is a valid
// Turtle local name, breaking length ties by prefix. It reports false when no
// binding applies.
func (t Table) Contract(iri string) (string, bool) {
	_, best, ok := t.contract(iri)
	return best, ok
}

// ContractPrefix is like Contract but also returns the prefix that was used.
func (t Table) ContractPrefix(iri string) (prefix, curie string, ok bool) {
	return t.contract(iri)
}

func (t Table) contract(iri string) (string, string, bool) {
	var bestPrefix, best string
	found := false
	for _, e := range t.entries {
		local, ok := strings.CutPrefix(iri, e.Namespace)
		if !ok || !IsLocalName(local) {
			continue
		}
		c := e.Prefix + ":" + local
		if !found || len(c) < len(best) || (len(c) == len(best) && c < best) {
			bestPrefix, best, found = e.Prefix, c, true
		}
	}
	return bestPrefix, best, found
}

// SortKey returns the stable comparison key for iri: its short form when one
// exists, otherwise the absolute IRI.
func (t Table) SortKey(iri string) string {
	if c, ok := t.Contract(iri); ok {
		return c
	}
	return iri
}

// Resolve turns a reference from configuration into an absolute IRI.
// Accepted forms are "<iri>", a CURIE with a bound prefix, or an absolute
// IRI ("scheme://..." or "urn:..."). Anything else is an
// ErrCodeUnresolvable error.
func (t Table) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "<") && strings.HasSuffix(ref, ">") && len(ref) > 2 {
		return ref[1 : len(ref)-1], nil
	}
	if iri, ok := t.Expand(ref); ok {
		return iri, nil
	}
	if IsAbsolute(ref) {
		return ref, nil
	}
	return "", errs.New(errs.ErrCodeUnresolvable, "cannot resolve %q: prefix not bound", ref)
}

// IsAbsolute reports whether s looks like an absolute IRI.
func IsAbsolute(s string) bool {
	scheme, rest, ok := strings.Cut(s, ":")
	if !ok || scheme == "" {
		return false
	}
	for i, r := range scheme {
		if !(unicode.IsLetter(r) || (i > 0 && (unicode.IsDigit(r) || r == '+' || r == '-' || r == '.'))) {
			return false
		}
	}
	return strings.HasPrefix(rest, "//") || strings.EqualFold(scheme, "urn")
}

// IsLocalName reports whether s can be written as the local part of a
// Turtle prefixed name without escaping. The empty string is valid.
func IsLocalName(s string) bool {
	if s == "" {
		return true
	}
	for i, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
		case r == '-' || r == '.':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return !strings.HasSuffix(s, ".")
}
