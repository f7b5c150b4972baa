package ordering

import (
	"slices"
	"strings"

	"github.com/matzehuels/ttlorder/pkg/curie"
	"github.com/matzehuels/ttlorder/pkg/dag"
	errs "github.com/matzehuels/ttlorder/pkg/errors"
	"github.com/matzehuels/ttlorder/pkg/rdf"
)

// Spec configures one ordering.
type Spec struct {
	Mode Mode
	// Roots are CURIEs or IRIs, processed in order. Only used by Rooted.
	Roots []string
	// Relation is the hierarchy predicate; zero means rdfs:subClassOf.
	Relation rdf.Term
}

// CycleCut records a node emitted while it still had unemitted
// dependencies.
type CycleCut struct {
	Node    rdf.Term
	Key     string
	Pending []rdf.Term // dependencies not yet emitted, in key order
}

// Plan is the full outcome of an ordering.
type Plan struct {
	Order []rdf.Term
	Cuts  []CycleCut
	// Graph is the dependency graph the plan was computed on. Nil for
	// Alphabetical.
	Graph *dag.DAG
}

// Engine orders subject sets of one graph.
type Engine struct {
	graph  rdf.Graph
	table  curie.Table
	report func(CycleCut)
}

// Option configures an Engine.
type Option func(*Engine)

// WithCycleReporter installs fn to be called for every cycle cut, in the
// order the cuts are made.
func WithCycleReporter(fn func(CycleCut)) Option {
	return func(e *Engine) { e.report = fn }
}

// New creates an engine over g. table supplies sort keys and resolves roots.
func New(g rdf.Graph, table curie.Table, opts ...Option) *Engine {
	e := &Engine{graph: g, table: table}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Order returns subjects in the order described by spec.
func (e *Engine) Order(subjects []rdf.Term, spec Spec) ([]rdf.Term, error) {
	p, err := e.Plan(subjects, spec)
	if err != nil {
		return nil, err
	}
	return p.Order, nil
}

// Plan is like Order but also returns the cuts and the dependency graph.
// Duplicate subjects are ignored.
func (e *Engine) Plan(subjects []rdf.Term, spec Spec) (*Plan, error) {
	switch spec.Mode {
	case Alphabetical, Topological, Rooted:
	default:
		return nil, errs.New(errs.ErrCodeInvalidMode, "unknown sort mode %q", spec.Mode)
	}
	rel := spec.Relation
	if rel.IsZero() {
		rel = rdf.SubClassOf
	}

	s := e.newSorter(subjects, rel)
	if spec.Mode == Alphabetical {
		return &Plan{Order: s.terms(s.ids)}, nil
	}
	s.buildEdges()

	if spec.Mode == Topological || len(spec.Roots) == 0 {
		s.sort(s.ids, "")
		return s.plan(), nil
	}

	for _, ref := range spec.Roots {
		iri, err := e.table.Resolve(ref)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeUnresolvableRoot, err, "root %q", ref)
		}
		root := rdf.IRI(iri)
		closure := s.closure(root)
		first := ""
		if id := root.String(); s.member[id] && !s.placed[id] {
			first = id
		}
		s.sort(closure, first)
	}
	s.sort(s.unplaced(), "")
	return s.plan(), nil
}

// sorter holds the state of one Plan call. Nodes are identified by their
// N-Triples form so IRIs and blank nodes cannot collide.
type sorter struct {
	e      *Engine
	rel    rdf.Term
	g      *dag.DAG
	ids    []string // members in key order
	term   map[string]rdf.Term
	member map[string]bool
	placed map[string]bool
	out    []rdf.Term
	cuts   []CycleCut
}

func (e *Engine) newSorter(subjects []rdf.Term, rel rdf.Term) *sorter {
	s := &sorter{
		e:      e,
		rel:    rel,
		g:      dag.New(),
		term:   make(map[string]rdf.Term, len(subjects)),
		member: make(map[string]bool, len(subjects)),
		placed: make(map[string]bool, len(subjects)),
	}
	for _, t := range subjects {
		id := t.String()
		if s.member[id] {
			continue
		}
		s.member[id] = true
		s.term[id] = t
		_ = s.g.AddNode(dag.Node{ID: id, Key: e.key(t)})
	}
	s.ids = s.g.IDs()
	return s
}

func (e *Engine) key(t rdf.Term) string {
	switch t.Kind {
	case rdf.KindIRI:
		return e.table.SortKey(t.Value)
	case rdf.KindBlank:
		return "_:" + t.Value
	}
	return t.Value
}

// buildEdges adds one edge per relation triple between two distinct members.
func (s *sorter) buildEdges() {
	for _, id := range s.ids {
		for tr := range s.e.graph.Match(s.term[id], s.rel, rdf.Term{}) {
			dep := tr.O.String()
			if dep == id || !s.member[dep] {
				continue
			}
			_ = s.g.AddEdge(dag.Edge{From: id, To: dep})
		}
	}
}

// closure returns the unplaced members that transitively depend on root.
// root itself is included when it is an unplaced member. Traversal only
// passes through members; an absent root contributes its direct dependents
// from the graph.
func (s *sorter) closure(root rdf.Term) []string {
	rootID := root.String()
	seen := map[string]bool{rootID: true}
	var out []string
	if s.member[rootID] && !s.placed[rootID] {
		out = append(out, rootID)
	}

	var queue []string
	if s.member[rootID] {
		queue = append(queue, s.g.Dependents(rootID)...)
	} else {
		for tr := range s.e.graph.Match(rdf.Term{}, s.rel, root) {
			queue = append(queue, tr.S.String())
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] || !s.member[id] || s.placed[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
		queue = append(queue, s.g.Dependents(id)...)
	}
	return out
}

func (s *sorter) unplaced() []string {
	var out []string
	for _, id := range s.ids {
		if !s.placed[id] {
			out = append(out, id)
		}
	}
	return out
}

// sort appends the nodes of subset (which must all be unplaced) in
// dependency order. Dependencies outside subset are ignored. If first is
// non-empty it is emitted before anything else, as a cut if it still has
// pending dependencies inside subset.
func (s *sorter) sort(subset []string, first string) {
	if len(subset) == 0 {
		return
	}
	in := make(map[string]bool, len(subset))
	for _, id := range subset {
		in[id] = true
	}
	ordered := slices.Clone(subset)
	slices.SortFunc(ordered, s.compare)

	remaining := make(map[string]int, len(subset))
	ready := &readyQueue{less: func(a, b string) bool { return s.compare(a, b) < 0 }}
	for _, id := range ordered {
		for _, dep := range s.g.Dependencies(id) {
			if in[dep] {
				remaining[id]++
			}
		}
		if remaining[id] == 0 {
			ready.push(id)
		}
	}

	emitted := make(map[string]bool, len(subset))
	emit := func(id string) {
		emitted[id] = true
		s.placed[id] = true
		s.out = append(s.out, s.term[id])
		for _, dependent := range s.g.Dependents(id) {
			if !in[dependent] || emitted[dependent] {
				continue
			}
			remaining[dependent]--
			if remaining[dependent] == 0 {
				ready.push(dependent)
			}
		}
	}
	cut := func(id string) {
		c := CycleCut{Node: s.term[id], Key: s.g.Key(id)}
		for _, dep := range s.g.Dependencies(id) {
			if in[dep] && !emitted[dep] {
				c.Pending = append(c.Pending, s.term[dep])
			}
		}
		s.cuts = append(s.cuts, c)
		if s.e.report != nil {
			s.e.report(c)
		}
		emit(id)
	}

	if first != "" && in[first] {
		if remaining[first] > 0 {
			cut(first)
		} else {
			emit(first)
		}
	}

	next := 0 // scan position in ordered for cut selection
	for len(emitted) < len(subset) {
		if id, ok := ready.pop(emitted); ok {
			emit(id)
			continue
		}
		for emitted[ordered[next]] {
			next++
		}
		cut(ordered[next])
	}
}

func (s *sorter) compare(a, b string) int {
	if c := strings.Compare(s.g.Key(a), s.g.Key(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func (s *sorter) terms(ids []string) []rdf.Term {
	out := make([]rdf.Term, len(ids))
	for i, id := range ids {
		out[i] = s.term[id]
	}
	return out
}

func (s *sorter) plan() *Plan {
	return &Plan{Order: s.out, Cuts: s.cuts, Graph: s.g}
}

// Order is a convenience wrapper around New(g, table).Order.
func Order(g rdf.Graph, table curie.Table, subjects []rdf.Term, spec Spec) ([]rdf.Term, error) {
	return New(g, table).Order(subjects, spec)
}
