package dag

import (
	"errors"
	"slices"
	"strings"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Metadata stores arbitrary key-value pairs attached to nodes.
type Metadata map[string]any

// Node is a vertex of the dependency graph.
type Node struct {
	ID   string   // Unique identifier
	Key  string   // Sort key for tie-breaking; defaults to ID
	Meta Metadata // Arbitrary metadata (never nil after AddNode)
}

// Edge is a dependency: From depends on To.
type Edge struct {
	From string
	To   string
}

// DAG is a directed dependency graph with deterministic, key-ordered
// adjacency. The zero value is not usable; use New.
type DAG struct {
	nodes    map[string]*Node
	edges    []Edge
	edgeSet  map[Edge]struct{}
	outgoing map[string][]string // nodeID -> dependencies
	incoming map[string][]string // nodeID -> dependents
}

// New creates an empty graph.
func New() *DAG {
	return &DAG{
		nodes:    make(map[string]*Node),
		edgeSet:  make(map[Edge]struct{}),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a node. Returns ErrInvalidNodeID if the ID is empty or
// ErrDuplicateNodeID if it already exists. An empty Key defaults to the ID.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Key == "" {
		n.Key = n.ID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	d.nodes[n.ID] = &n
	return nil
}

// AddEdge adds a dependency between two existing nodes. Adding an edge that
// already exists is a no-op. Self-loops are stored like any other edge.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if _, ok := d.edgeSet[e]; ok {
		return nil
	}
	d.edgeSet[e] = struct{}{}
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = d.insertSorted(d.outgoing[e.From], e.To)
	d.incoming[e.To] = d.insertSorted(d.incoming[e.To], e.From)
	return nil
}

func (d *DAG) insertSorted(ids []string, id string) []string {
	i, _ := slices.BinarySearchFunc(ids, id, d.compareIDs)
	return slices.Insert(ids, i, id)
}

func (d *DAG) compareIDs(a, b string) int {
	if c := strings.Compare(d.nodes[a].Key, d.nodes[b].Key); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// RemoveEdge removes the edge from→to if it exists.
func (d *DAG) RemoveEdge(from, to string) {
	e := Edge{From: from, To: to}
	if _, ok := d.edgeSet[e]; !ok {
		return
	}
	delete(d.edgeSet, e)
	d.edges = slices.DeleteFunc(d.edges, func(x Edge) bool { return x == e })
	d.outgoing[from] = slices.DeleteFunc(d.outgoing[from], func(s string) bool { return s == to })
	d.incoming[to] = slices.DeleteFunc(d.incoming[to], func(s string) bool { return s == from })
}

// HasEdge reports whether the edge from→to exists.
func (d *DAG) HasEdge(from, to string) bool {
	_, ok := d.edgeSet[Edge{From: from, To: to}]
	return ok
}

// Nodes returns all nodes ordered by key, then ID. The returned pointers
// refer to the graph's own nodes.
func (d *DAG) Nodes() []*Node {
	nodes := make([]*Node, 0, len(d.nodes))
	for _, n := range d.nodes {
		nodes = append(nodes, n)
	}
	slices.SortFunc(nodes, func(a, b *Node) int { return d.compareIDs(a.ID, b.ID) })
	return nodes
}

// IDs returns all node IDs ordered by key, then ID.
func (d *DAG) IDs() []string {
	ids := make([]string, 0, len(d.nodes))
	for _, n := range d.Nodes() {
		ids = append(ids, n.ID)
	}
	return ids
}

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges in the graph.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Node returns the node with the given ID.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Key returns the sort key of id, or id itself if the node is unknown.
func (d *DAG) Key(id string) string {
	if n, ok := d.nodes[id]; ok {
		return n.Key
	}
	return id
}

// Dependencies returns the nodes id depends on, in key order. The returned
// slice must not be modified.
func (d *DAG) Dependencies(id string) []string { return d.outgoing[id] }

// Dependents returns the nodes that depend on id, in key order. The
// returned slice must not be modified.
func (d *DAG) Dependents(id string) []string { return d.incoming[id] }

// OutDegree returns the number of dependencies of id.
func (d *DAG) OutDegree(id string) int { return len(d.outgoing[id]) }

// InDegree returns the number of dependents of id.
func (d *DAG) InDegree(id string) int { return len(d.incoming[id]) }

// Sources returns nodes without dependencies (hierarchy roots), in key order.
func (d *DAG) Sources() []*Node {
	var out []*Node
	for _, n := range d.Nodes() {
		if len(d.outgoing[n.ID]) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// Sinks returns nodes nothing depends on (hierarchy leaves), in key order.
func (d *DAG) Sinks() []*Node {
	var out []*Node
	for _, n := range d.Nodes() {
		if len(d.incoming[n.ID]) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// Descendants returns id followed by every node that transitively depends
// on it, in breadth-first, key-ordered discovery order. Cycles are
// tolerated. Returns nil if id is unknown.
func (d *DAG) Descendants(id string) []string {
	if _, ok := d.nodes[id]; !ok {
		return nil
	}
	seen := map[string]bool{id: true}
	out := []string{id}
	for i := 0; i < len(out); i++ {
		for _, dep := range d.incoming[out[i]] {
			if !seen[dep] {
				seen[dep] = true
				out = append(out, dep)
			}
		}
	}
	return out
}

// Subgraph returns a new graph containing only the given nodes and the
// edges between them. Unknown IDs are ignored.
func (d *DAG) Subgraph(ids []string) *DAG {
	sub := New()
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		if n, ok := d.nodes[id]; ok && !keep[id] {
			keep[id] = true
			_ = sub.AddNode(Node{ID: n.ID, Key: n.Key, Meta: n.Meta})
		}
	}
	for _, e := range d.edges {
		if keep[e.From] && keep[e.To] {
			_ = sub.AddEdge(e)
		}
	}
	return sub
}
