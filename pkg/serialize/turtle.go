package serialize

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/ttlorder/pkg/curie"
	"github.com/matzehuels/ttlorder/pkg/rdf"
)

// Writer serializes the given subjects of g, in order, to w.
type Writer interface {
	Write(w io.Writer, g rdf.Graph, subjects []rdf.Term) error
}

// Options configure a Turtle writer.
type Options struct {
	// Table renders IRIs as CURIEs.
	Table curie.Table
	// PrefixOrder lists prefixes declared first, in this order. Remaining
	// used prefixes follow alphabetically.
	PrefixOrder []string
	// Rules orders predicates within each subject block.
	Rules Rules
}

// Turtle writes ordered Turtle.
type Turtle struct {
	opts Options
}

// NewTurtle creates a Turtle writer.
func NewTurtle(opts Options) *Turtle {
	return &Turtle{opts: opts}
}

// maxLabelPasses bounds the relabeling passes of one Write.
const maxLabelPasses = 4

// Write emits one block per subject in the given order, preceded by the
// prefixes the blocks use.
//
// Blank nodes are labeled _:n0, _:n1, ... in order of first appearance. Object
// lists are sorted by their rendered text, labels included, so the body is
// rendered again with the previous pass's numbering until the numbering is
// stable. Reading the output back and writing it again yields the same bytes.
func (t *Turtle) Write(w io.Writer, g rdf.Graph, subjects []rdf.Term) error {
	var (
		rank     map[rdf.Term]int
		body     string
		prefixes string
	)
	for range maxLabelPasses {
		e := newEmitter(g, t.opts, rank)
		var sb strings.Builder
		e.body(&sb, subjects)
		var next map[rdf.Term]int
		body, next = e.relabel(sb.String())
		prefixes = e.prefixBlock()
		if maps.Equal(next, rank) {
			break
		}
		rank = next
	}

	bw := bufio.NewWriter(w)
	if prefixes != "" {
		bw.WriteString(prefixes)
		bw.WriteString("\n")
	}
	bw.WriteString(body)
	return bw.Flush()
}

// emitter holds the state of one Write call.
type emitter struct {
	g    rdf.Graph
	opts Options

	refs     map[rdf.Term]int  // times each blank node occurs as an object
	rank     map[rdf.Term]int  // label numbering from the previous pass
	labels   map[rdf.Term]int  // assigned label ids
	byID     map[int]rdf.Term  // inverse of labels
	labeled  map[rdf.Term]bool // blank nodes that must never be inlined
	stack    map[rdf.Term]bool // blank nodes currently being expanded
	queued   map[rdf.Term]bool
	pending  []rdf.Term // labeled blank nodes still owed a block
	used     map[string]bool
	topLevel map[rdf.Term]bool
}

func newEmitter(g rdf.Graph, opts Options, rank map[rdf.Term]int) *emitter {
	e := &emitter{
		g:        g,
		opts:     opts,
		refs:     make(map[rdf.Term]int),
		rank:     rank,
		labels:   make(map[rdf.Term]int),
		byID:     make(map[int]rdf.Term),
		labeled:  make(map[rdf.Term]bool),
		stack:    make(map[rdf.Term]bool),
		queued:   make(map[rdf.Term]bool),
		used:     make(map[string]bool),
		topLevel: make(map[rdf.Term]bool),
	}
	for tr := range g.Match(rdf.Term{}, rdf.Term{}, rdf.Term{}) {
		if tr.O.IsBlank() {
			e.refs[tr.O]++
		}
	}
	return e
}

func (e *emitter) body(sb *strings.Builder, subjects []rdf.Term) {
	seen := make(map[rdf.Term]bool, len(subjects))
	var order []rdf.Term
	for _, s := range subjects {
		if seen[s] {
			continue
		}
		seen[s] = true
		order = append(order, s)
		e.topLevel[s] = true
		if s.IsBlank() {
			e.labeled[s] = true
		}
	}

	first := true
	block := func(s rdf.Term) {
		if !first {
			sb.WriteString("\n")
		}
		first = false
		e.block(sb, s)
	}
	for _, s := range order {
		block(s)
	}
	for len(e.pending) > 0 {
		// Owed blocks follow label order so a reparsed document numbers its
		// blank nodes the same way.
		i := 0
		for j, b := range e.pending {
			if e.labels[b] < e.labels[e.pending[i]] {
				i = j
			}
		}
		b := e.pending[i]
		e.pending = slices.Delete(e.pending, i, i+1)
		if e.topLevel[b] || !rdf.HasAny(e.g, b, rdf.Term{}, rdf.Term{}) {
			continue
		}
		e.topLevel[b] = true
		block(b)
	}
}

func (e *emitter) block(sb *strings.Builder, s rdf.Term) {
	subj := e.subject(s)
	preds := e.predicates(s)
	if len(preds) == 0 {
		fmt.Fprintf(sb, "# %s\n", subj)
		return
	}
	e.stack[s] = true
	sb.WriteString(subj)
	sb.WriteString(" ")
	sb.WriteString(e.predicateList(s, preds, 4))
	sb.WriteString(" .\n")
	delete(e.stack, s)
}

func (e *emitter) subject(s rdf.Term) string {
	if s.IsBlank() {
		return e.label(s)
	}
	return e.term(s)
}

// predicates returns the distinct predicates of s in block order.
func (e *emitter) predicates(s rdf.Term) []rdf.Term {
	var preds []rdf.Term
	seen := make(map[rdf.Term]bool)
	for tr := range e.g.Match(s, rdf.Term{}, rdf.Term{}) {
		if !seen[tr.P] {
			seen[tr.P] = true
			preds = append(preds, tr.P)
		}
	}
	if len(preds) == 0 {
		return nil
	}
	rule := e.opts.Rules.For(Classify(e.g, s))
	return rule.Sort(preds, e.opts.Table)
}

// predicateList renders "p o1, o2 ; p2 o3" with continuation lines at
// indent spaces.
func (e *emitter) predicateList(s rdf.Term, preds []rdf.Term, indent int) string {
	pad := strings.Repeat(" ", indent)
	parts := make([]string, 0, len(preds))
	for _, p := range preds {
		var objs []string
		for tr := range e.g.Match(s, p, rdf.Term{}) {
			objs = append(objs, e.object(tr.O, indent+4))
		}
		slices.Sort(objs)
		parts = append(parts, e.predicate(p)+" "+strings.Join(objs, ",\n"+pad+"    "))
	}
	return strings.Join(parts, " ;\n"+pad)
}

func (e *emitter) predicate(p rdf.Term) string {
	if p == rdf.Type {
		return "a"
	}
	return e.term(p)
}

func (e *emitter) object(o rdf.Term, indent int) string {
	if !o.IsBlank() {
		if o == rdf.Nil {
			return "()"
		}
		return e.term(o)
	}
	if e.stack[o] || e.labeled[o] || e.refs[o] > 1 {
		return e.reference(o)
	}
	if items, ok := e.list(o); ok {
		return e.collection(o, items, indent)
	}
	preds := e.predicates(o)
	if len(preds) == 0 {
		return "[]"
	}
	e.stack[o] = true
	defer delete(e.stack, o)
	return "[ " + e.predicateList(o, preds, indent) + " ]"
}

// reference renders a labeled blank node and schedules its block.
func (e *emitter) reference(b rdf.Term) string {
	e.labeled[b] = true
	if !e.queued[b] {
		e.queued[b] = true
		e.pending = append(e.pending, b)
	}
	return e.label(b)
}

// label returns a placeholder for b that relabel later replaces with _:n<i>.
// Placeholders are delimited by NUL, which never survives literal escaping,
// and sort by the previous pass's numbering.
func (e *emitter) label(b rdf.Term) string {
	id, ok := e.labels[b]
	if !ok {
		if r, seen := e.rank[b]; seen {
			id = r
		} else {
			id = len(e.rank) + len(e.labels)
		}
		e.labels[b] = id
		e.byID[id] = b
	}
	return fmt.Sprintf("\x00%09d\x00", id)
}

// relabel replaces placeholders in text with _:n<i>, numbering blank nodes by
// first appearance, and returns that numbering.
func (e *emitter) relabel(text string) (string, map[rdf.Term]int) {
	order := make(map[rdf.Term]int)
	var sb strings.Builder
	for {
		i := strings.IndexByte(text, 0)
		if i < 0 {
			sb.WriteString(text)
			break
		}
		j := i + 1 + strings.IndexByte(text[i+1:], 0)
		id, _ := strconv.Atoi(text[i+1 : j])
		b := e.byID[id]
		n, ok := order[b]
		if !ok {
			n = len(order)
			order[b] = n
		}
		sb.WriteString(text[:i])
		fmt.Fprintf(&sb, "_:n%d", n)
		text = text[j+1:]
	}
	return sb.String(), order
}

// list reports whether head starts a well-formed RDF collection whose cells
// are referenced once and carry nothing but rdf:first and rdf:rest.
func (e *emitter) list(head rdf.Term) ([]rdf.Term, bool) {
	var items []rdf.Term
	seen := make(map[rdf.Term]bool)
	for cur := head; cur != rdf.Nil; {
		if !cur.IsBlank() || seen[cur] || e.refs[cur] != 1 || e.labeled[cur] || e.stack[cur] {
			return nil, false
		}
		seen[cur] = true
		var first, rest []rdf.Term
		for tr := range e.g.Match(cur, rdf.Term{}, rdf.Term{}) {
			switch tr.P {
			case rdf.First:
				first = append(first, tr.O)
			case rdf.Rest:
				rest = append(rest, tr.O)
			default:
				return nil, false
			}
		}
		if len(first) != 1 || len(rest) != 1 {
			return nil, false
		}
		items = append(items, first[0])
		cur = rest[0]
	}
	return items, true
}

func (e *emitter) collection(head rdf.Term, items []rdf.Term, indent int) string {
	e.stack[head] = true
	defer delete(e.stack, head)
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = e.object(it, indent)
	}
	return "( " + strings.Join(parts, " ") + " )"
}

// term renders a non-blank term, recording the prefixes it uses.
func (e *emitter) term(t rdf.Term) string {
	switch t.Kind {
	case rdf.KindIRI:
		return e.iri(t.Value)
	case rdf.KindLiteral:
		lit := `"` + rdf.EscapeString(t.Value) + `"`
		switch {
		case t.Lang != "":
			return lit + "@" + t.Lang
		case t.Datatype != "":
			return lit + "^^" + e.iri(t.Datatype)
		}
		return lit
	case rdf.KindBlank:
		return e.label(t)
	}
	return ""
}

func (e *emitter) iri(iri string) string {
	if prefix, c, ok := e.opts.Table.ContractPrefix(iri); ok {
		e.used[prefix] = true
		return c
	}
	return "<" + iri + ">"
}

func (e *emitter) prefixBlock() string {
	var sb strings.Builder
	done := make(map[string]bool)
	write := func(p string) {
		ns, _ := e.opts.Table.Namespace(p)
		fmt.Fprintf(&sb, "@prefix %s: <%s> .\n", p, ns)
		done[p] = true
	}
	for _, p := range e.opts.PrefixOrder {
		if e.used[p] && !done[p] {
			write(p)
		}
	}
	var rest []string
	for p := range e.used {
		if !done[p] {
			rest = append(rest, p)
		}
	}
	slices.Sort(rest)
	for _, p := range rest {
		write(p)
	}
	return sb.String()
}
