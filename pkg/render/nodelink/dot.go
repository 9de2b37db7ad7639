package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/graf/pkg/graph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds annotations and linked regions to node labels and
	// annotation labels to edges. When false, only IDs are shown.
	Detailed bool
}

// ToDOT converts an annotation graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// Nodes are written sorted by ID and edges in insertion order, so the output
// is stable for a given graph. Root nodes are drawn with a bold outline.
func ToDOT(g *graph.Graph, opts Options) string {
	roots := make(map[string]bool)
	for _, n := range g.Roots() {
		roots[n.ID()] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=11];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		label := fmtNodeLabel(n, opts.Detailed)
		attrs := fmtNodeAttrs(label, roots[n.ID()] || n.Root)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if label := fmtEdgeLabel(e, opts.Detailed); label != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From(), e.To(), label)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From(), e.To())
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtNodeLabel(n *graph.Node, detailed bool) string {
	if !detailed {
		return n.ID()
	}

	parts := []string{n.ID()}
	for _, a := range n.Annotations() {
		parts = append(parts, fmtAnnotation(a))
	}
	for _, r := range n.Regions() {
		parts = append(parts, fmt.Sprintf("%s [%s]", r.ID(), r.AnchorString()))
	}
	return strings.Join(parts, "\n")
}

func fmtEdgeLabel(e *graph.Edge, detailed bool) string {
	if !detailed {
		return ""
	}
	var parts []string
	for _, a := range e.Annotations() {
		parts = append(parts, fmtAnnotation(a))
	}
	return strings.Join(parts, "\n")
}

// fmtAnnotation formats an annotation as "label" or "label fs".
func fmtAnnotation(a *graph.Annotation) string {
	if a.Features.Empty() {
		return a.Label
	}
	return a.Label + " " + a.Features.String()
}

func fmtNodeAttrs(label string, root bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if root {
		attrs = append(attrs, "penwidth=2.5", "fontname=\"bold\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	svg, err := renderDOT(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(svg), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return renderDOT(dot, graphviz.PNG)
}

func renderDOT(dot string, format graphviz.Format) ([]byte, error) {
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
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the diagram scales from the
// origin with explicit width and height.
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

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
