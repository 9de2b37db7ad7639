// Package graph provides the in-memory model of a GrAF annotation graph.
//
// # Overview
//
// A GrAF document describes linguistic annotations standoff-style: the
// primary text lives elsewhere, and the document holds a graph whose nodes
// point into that text through regions and whose nodes and edges carry
// labelled feature structures.
//
// The model has four layers:
//
//   - [Region]s: spans of primary data bounded by two or more [Anchor]s
//   - [Node]s, linked to regions through [Link]s
//   - [Edge]s, directed connections between nodes
//   - [Annotation]s on nodes and edges, grouped into [AnnotationSpace]s
//
// # Ownership
//
// The [Graph] owns everything. Cross references are stored as IDs and
// resolved through the graph: an edge knows its endpoint node IDs, a node
// knows its edge IDs, a region knows the IDs of nodes linked to it, and an
// annotation knows the [ElementRef] of its owner and the ID of its space.
// This keeps node/edge cycles free of pointer cycles and gives every entity
// a stable identity.
//
// # Building Graphs
//
//	g := graph.New()
//	r, _ := graph.NewRegion("r1", graph.Offset(0), graph.Offset(5))
//	g.AddRegion(r)
//
//	n1 := g.EnsureNode("n1")
//	n1.AddRegion(r)
//	e, _ := g.CreateEdge("n1", "n2", "")   // creates n2, names the edge "e1"
//
//	pos, _ := g.CreateSpace("xces", "penn")
//	a := g.Annotate(n1, "tok", nil)
//	pos.Add(a)
//
// [Graph.CreateEdge] creates unknown endpoint nodes on demand; [Graph.AddEdge]
// requires both endpoints to be registered already. Either way the edge is
// threaded into both endpoints' edge lists as part of the insertion.
//
// # Identifiers
//
// Edge IDs default to "e1", "e2", ... from a per-graph counter; annotation
// IDs come from the graph's [IDGenerator] ("a1", "a2", ... by default, or
// UUID based via [WithIDGenerator] and [NewUUIDGenerator]). Generated IDs
// skip values already in use. No ID state is global.
//
// # Ordering
//
// [Graph.Nodes] is sorted by ID, [Graph.Regions] by region order (anchor
// count, then anchors, then ID) and [Graph.Edges] by insertion position.
// The XML renderer depends on these orders for byte-identical output.
//
// # Traversal Marks
//
// Every element carries a visited flag for mark/clear traversals.
// [Graph.Clear] unmarks a node and its visited descendants and terminates on
// cyclic graphs.
//
// # Concurrency
//
// A Graph is not safe for concurrent mutation. Concurrent readers are fine
// once construction has finished.
package graph
