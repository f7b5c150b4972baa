package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/ttlorder/pkg/dag"
	"github.com/matzehuels/ttlorder/pkg/dag/transform"
)

// Options configures hierarchy diagram rendering.
type Options struct {
	// Order is the emission order of the node IDs. Nodes listed here are
	// labeled with their 1-based position.
	Order []string
	// Cuts lists nodes that were emitted before all of their dependencies.
	Cuts []string
	// Detailed includes node metadata in labels.
	Detailed bool
	// Title is drawn above the diagram when set.
	Title string
}

// ToDOT converts a dependency graph to Graphviz DOT source.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Edges point from a dependency to its dependents, so hierarchy roots are
// drawn at the top. Nodes on a cycle are filled orange; cut nodes get a
// bold red outline.
func ToDOT(g *dag.DAG, opts Options) string {
	pos := make(map[string]int, len(opts.Order))
	for i, id := range opts.Order {
		pos[id] = i + 1
	}
	cut := make(map[string]bool, len(opts.Cuts))
	for _, id := range opts.Cuts {
		cut[id] = true
	}
	cyclic := transform.InCycle(g)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		label := fmtLabel(*n, pos[n.ID], opts.Detailed)
		attrs := fmtAttrs(label, cyclic[n.ID], cut[n.ID])
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	edges := g.Edges()
	slices.SortFunc(edges, func(a, b dag.Edge) int {
		if c := strings.Compare(a.To, b.To); c != 0 {
			return c
		}
		return strings.Compare(a.From, b.From)
	})
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.To, e.From)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n dag.Node, pos int, detailed bool) string {
	label := n.Key
	if pos > 0 {
		label = fmt.Sprintf("%d. %s", pos, label)
	}
	if !detailed || len(n.Meta) == 0 {
		return label
	}

	var parts []string
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(label string, cyclic, cut bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if cyclic {
		attrs = append(attrs, "fillcolor=orange")
	}
	if cut {
		attrs = append(attrs, "color=red", "penwidth=3")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with a plain
// viewBox so the preview scales in a browser.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
