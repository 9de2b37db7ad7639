// Package render groups the visual renderers for annotation graphs.
//
// The canonical serialization of a graph is GrAF XML, written by package io.
// The renderers here produce views for humans:
//
//   - [nodelink]: Graphviz node-link diagrams (DOT, SVG, PNG)
//
// [nodelink]: github.com/matzehuels/graf/pkg/render/nodelink
package render
