// Package render converts graphs to Graphviz DOT and raster/vector formats.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/grasplabs/grasp/pkg/graph"
)

// Options configures graph rendering.
type Options struct {
	// Detailed includes degree and attributes in node labels.
	// When false, only the node ID is shown.
	Detailed bool

	// Components colors each connected component distinctly.
	Components bool
}

// componentPalette cycles through fill colors when component coloring is on.
var componentPalette = []string{
	"#a6cee3", "#b2df8a", "#fb9a99", "#fdbf6f",
	"#cab2d6", "#ffff99", "#1f78b4", "#33a02c",
}

// ToDOT converts a graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// Nodes and edges are emitted in the graph's canonical order, so the same
// graph always produces the same DOT text.
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	fill := nodeFills(g, opts)
	for _, id := range g.Nodes() {
		label := fmtLabel(g, id, opts.Detailed)
		attrs := []string{fmt.Sprintf("label=%q", label)}
		if color, ok := fill[id]; ok {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", color))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -- %q;\n", e.A, e.B)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(g *graph.Graph, id string, detailed bool) string {
	if !detailed {
		return id
	}

	parts := []string{fmt.Sprintf("deg: %d", g.Degree(id))}
	for _, a := range g.NodeAttrs(id) {
		parts = append(parts, fmt.Sprintf("%s: %s", a.Name, strings.Join(a.Values, ",")))
	}

	return id + "\n" + strings.Join(parts, "\n")
}

// nodeFills assigns a palette color per connected component.
// Returns an empty map when component coloring is disabled.
func nodeFills(g *graph.Graph, opts Options) map[string]string {
	fill := make(map[string]string)
	if !opts.Components {
		return fill
	}
	for i, comp := range g.Components() {
		color := componentPalette[i%len(componentPalette)]
		for _, id := range comp {
			fill[id] = color
		}
	}
	return fill
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.PNG)
}

func renderFormat(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
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
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
