package rdf

import (
	"iter"
	"slices"
	"strings"
)

// Graph is the read-only query capability the ordering core needs.
// Match yields every triple matching the pattern; a zero Term in any
// position matches anything. Implementations must yield triples in a
// deterministic order for an unchanged graph.
type Graph interface {
	Match(s, p, o Term) iter.Seq[Triple]
}

// Store is an in-memory Graph that keeps triples in insertion order and
// indexes them by subject, predicate and object.
//
// Store is not safe for concurrent mutation, but concurrent Match calls on a
// store that is no longer being modified are safe.
type Store struct {
	triples []Triple
	seen    map[Triple]struct{}
	bySubj  map[Term][]int
	byPred  map[Term][]int
	byObj   map[Term][]int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		seen:   make(map[Triple]struct{}),
		bySubj: make(map[Term][]int),
		byPred: make(map[Term][]int),
		byObj:  make(map[Term][]int),
	}
}

// Add inserts t. Duplicate triples are ignored. It reports whether the
// triple was new.
func (s *Store) Add(t Triple) bool {
	if _, ok := s.seen[t]; ok {
		return false
	}
	i := len(s.triples)
	s.seen[t] = struct{}{}
	s.triples = append(s.triples, t)
	s.bySubj[t.S] = append(s.bySubj[t.S], i)
	s.byPred[t.P] = append(s.byPred[t.P], i)
	s.byObj[t.O] = append(s.byObj[t.O], i)
	return true
}

// Len returns the number of triples.
func (s *Store) Len() int { return len(s.triples) }

// Has reports whether the exact triple is present.
func (s *Store) Has(t Triple) bool {
	_, ok := s.seen[t]
	return ok
}

// Match implements Graph using the most selective bound position.
func (s *Store) Match(subj, pred, obj Term) iter.Seq[Triple] {
	return func(yield func(Triple) bool) {
		var idx []int
		scanAll := true
		pick := func(m map[Term][]int, k Term) {
			if k.IsZero() {
				return
			}
			cand := m[k]
			if scanAll || len(cand) < len(idx) {
				idx, scanAll = cand, false
			}
		}
		pick(s.bySubj, subj)
		pick(s.byPred, pred)
		pick(s.byObj, obj)

		emit := func(t Triple) bool {
			if !subj.IsZero() && t.S != subj {
				return true
			}
			if !pred.IsZero() && t.P != pred {
				return true
			}
			if !obj.IsZero() && t.O != obj {
				return true
			}
			return yield(t)
		}

		if scanAll {
			for _, t := range s.triples {
				if !emit(t) {
					return
				}
			}
			return
		}
		for _, i := range idx {
			if !emit(s.triples[i]) {
				return
			}
		}
	}
}

// Subjects returns the distinct subjects of triples matching (?, p, o), in
// first-seen order.
func Subjects(g Graph, p, o Term) []Term {
	return distinct(g.Match(Term{}, p, o), func(t Triple) Term { return t.S })
}

// Objects returns the distinct objects of triples matching (s, p, ?), in
// first-seen order.
func Objects(g Graph, s, p Term) []Term {
	return distinct(g.Match(s, p, Term{}), func(t Triple) Term { return t.O })
}

// HasAny reports whether at least one triple matches the pattern.
func HasAny(g Graph, s, p, o Term) bool {
	for range g.Match(s, p, o) {
		return true
	}
	return false
}

// HasType reports whether s is declared with any of the given types.
func HasType(g Graph, s Term, types ...Term) bool {
	for _, typ := range types {
		if HasAny(g, s, Type, typ) {
			return true
		}
	}
	return false
}

// Extract copies the triples of the given subjects into a new store,
// together with the triples of every blank node reachable from them
// through object positions. Subjects are visited in the given order.
func Extract(g Graph, subjects []Term) *Store {
	out := NewStore()
	seen := make(map[Term]bool, len(subjects))
	queue := slices.Clone(subjects)
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		if seen[s] {
			continue
		}
		seen[s] = true
		for t := range g.Match(s, Term{}, Term{}) {
			out.Add(t)
			if t.O.IsBlank() && !seen[t.O] {
				queue = append(queue, t.O)
			}
		}
	}
	return out
}

// Compare orders terms by kind, then value, language and datatype. It is
// a total order used wherever a deterministic fallback is needed.
func Compare(a, b Term) int {
	if a.Kind != b.Kind {
		return int(a.Kind) - int(b.Kind)
	}
	if c := strings.Compare(a.Value, b.Value); c != 0 {
		return c
	}
	if c := strings.Compare(a.Lang, b.Lang); c != 0 {
		return c
	}
	return strings.Compare(a.Datatype, b.Datatype)
}

// SortTerms sorts terms in place by Compare.
func SortTerms(ts []Term) { slices.SortFunc(ts, Compare) }

func distinct(seq iter.Seq[Triple], pick func(Triple) Term) []Term {
	var out []Term
	seen := make(map[Term]struct{})
	for t := range seq {
		v := pick(t)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
