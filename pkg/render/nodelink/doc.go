// Package nodelink renders section hierarchies as node-link diagrams.
//
// # Overview
//
// A preview shows the dependency graph one section was ordered on, with
// every node labeled by its final position. It lets a reviewer check at a
// glance that parents precede children and see where cycles forced a cut.
//
// # Usage
//
// Convert a DAG to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(plan.Graph, nodelink.Options{Order: ids})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # DOT Format
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) with rounded
// box nodes. Nodes on a cycle are filled orange and cut nodes carry a red
// outline. The DOT text is deterministic for a given graph and order, so it
// can also be checked in and diffed.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
