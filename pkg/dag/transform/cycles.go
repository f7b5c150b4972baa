package transform

import (
	"slices"
	"strings"

	"github.com/matzehuels/ttlorder/pkg/dag"
)

// Cycles returns the cyclic strongly connected components of g using
// Tarjan's algorithm. Output is deterministic for a given graph.
func Cycles(g *dag.DAG) [][]string {
	var (
		index   = make(map[string]int)
		low     = make(map[string]int)
		onStack = make(map[string]bool)
		stack   []string
		next    int
		out     [][]string
	)

	var visit func(id string)
	visit = func(id string) {
		index[id] = next
		low[id] = next
		next++
		stack = append(stack, id)
		onStack[id] = true

		for _, dep := range g.Dependencies(id) {
			if _, seen := index[dep]; !seen {
				visit(dep)
				low[id] = min(low[id], low[dep])
			} else if onStack[dep] {
				low[id] = min(low[id], index[dep])
			}
		}

		if low[id] != index[id] {
			return
		}
		var comp []string
		for {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[top] = false
			comp = append(comp, top)
			if top == id {
				break
			}
		}
		if len(comp) > 1 || g.HasEdge(id, id) {
			out = append(out, comp)
		}
	}

	for _, id := range g.IDs() {
		if _, seen := index[id]; !seen {
			visit(id)
		}
	}

	byKey := func(a, b string) int {
		if c := strings.Compare(g.Key(a), g.Key(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	}
	for _, comp := range out {
		slices.SortFunc(comp, byKey)
	}
	slices.SortFunc(out, func(a, b []string) int { return byKey(a[0], b[0]) })
	return out
}

// InCycle returns the set of nodes that belong to some cycle.
func InCycle(g *dag.DAG) map[string]bool {
	set := make(map[string]bool)
	for _, comp := range Cycles(g) {
		for _, id := range comp {
			set[id] = true
		}
	}
	return set
}

// BreakCycles removes back edges until g is acyclic and returns the removed
// edges in discovery order.
func BreakCycles(g *dag.DAG) []dag.Edge {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int)
	var backEdges []dag.Edge

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		for _, dep := range g.Dependencies(node) {
			switch color[dep] {
			case white:
				dfs(dep)
			case gray:
				backEdges = append(backEdges, dag.Edge{From: node, To: dep})
			}
		}
		color[node] = black
	}

	for _, n := range g.Sinks() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	for _, e := range backEdges {
		g.RemoveEdge(e.From, e.To)
	}
	return backEdges
}
