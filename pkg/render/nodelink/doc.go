// Package nodelink renders annotation graphs as node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz, where
// graph nodes appear as boxes connected by arrows. It is a debugging and
// inspection aid: the canonical serialization of a graph is GrAF XML (see
// package io), and a diagram is only a view of its structure.
//
// # Usage
//
// Convert a graph to DOT format, then render it:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//	png, err := nodelink.RenderPNG(dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: node labels list the node's annotations (label and feature
//     structure) and linked regions; edge labels list edge annotations.
//
// Root nodes, whether named in the header or flagged on the node, are drawn
// with a heavier outline.
//
// # DOT Format
//
// The [ToDOT] output can be rendered in-process, saved and processed with
// external Graphviz tools, or edited before rendering. Node order follows
// node ID and edge order follows insertion, so DOT output is stable.
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz], which embeds Graphviz and
// needs no external binaries.
package nodelink
