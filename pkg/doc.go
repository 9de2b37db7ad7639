// Package pkg provides the libraries behind graf, a Go implementation of the
// Graph Annotation Format (GrAF) and its ISO 24612 Linguistic Annotation
// Framework data model.
//
// # Overview
//
// GrAF represents linguistic annotations as a standoff graph: the primary
// text is never modified, regions of it are addressed through anchors, and
// annotations (labelled feature structures) hang off graph nodes and edges.
// The pkg directory is organized as:
//
//  1. [feature] - Feature structures, subsumption and unification
//  2. [graph] - The annotation graph: regions, nodes, edges, annotation spaces
//  3. [io] - Streaming GrAF XML parser and deterministic renderer
//  4. [render/nodelink] - Graphviz diagrams of annotation graphs
//  5. [errors], [observability], [buildinfo] - Shared plumbing
//
// # Architecture
//
// The typical data flow:
//
//	GrAF XML files (doc-seg.xml, doc-penn.xml, ...)
//	         ↓
//	    [io] parser (dependsOn resolution, deferred references, merge)
//	         ↓
//	    [graph] (query, edit, unify features)
//	         ↓
//	    [io] renderer / [render/nodelink]
//	         ↓
//	    GrAF XML, DOT, SVG
//
// # Quick Start
//
//	g, err := io.ImportXML("corpus/doc-penn.xml")
//	if err != nil {
//	    return err
//	}
//	for a := range g.Select(graph.Query{Label: "tok"}) {
//	    fmt.Println(a.ID, a.Features)
//	}
//	err = io.ExportXML(g, "out.xml")
//
// # Error Handling
//
// Every failure carries a [errors.Code] (INVALID_REGION, MISSING_REF,
// DEPENDENCY_NOT_FOUND, ...) that callers test with [errors.Is]. Parse
// errors are prefixed with the source name and line.
//
// [feature]: github.com/matzehuels/graf/pkg/feature
// [graph]: github.com/matzehuels/graf/pkg/graph
// [io]: github.com/matzehuels/graf/pkg/io
// [render/nodelink]: github.com/matzehuels/graf/pkg/render/nodelink
// [errors]: github.com/matzehuels/graf/pkg/errors
// [errors.Code]: github.com/matzehuels/graf/pkg/errors#Code
// [errors.Is]: github.com/matzehuels/graf/pkg/errors#Is
// [observability]: github.com/matzehuels/graf/pkg/observability
// [buildinfo]: github.com/matzehuels/graf/pkg/buildinfo
package pkg
