package graph

import "slices"

// Element is a node or edge: anything that carries annotations and takes
// part in mark/clear traversals.
type Element interface {
	ID() string
	Kind() ElementKind
	Annotations() []*Annotation
	// AddAnnotation attaches a and records the element on it. It returns
	// false when an annotation with the same ID is already attached.
	AddAnnotation(a *Annotation) bool
	// Annotation returns the first annotation with the given label.
	Annotation(label string) (*Annotation, bool)
	Visited() bool
	SetVisited(v bool)
}

// SameElement reports whether a and b are the same kind of element with the
// same ID.
func SameElement(a, b Element) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Kind() == b.Kind() && a.ID() == b.ID()
}

// element holds the state shared by nodes and edges.
type element struct {
	id      string
	kind    ElementKind
	anns    annotations
	visited bool
}

// ID returns the element identifier.
func (e *element) ID() string { return e.id }

// Kind returns KindNode or KindEdge.
func (e *element) Kind() ElementKind { return e.kind }

// Annotations returns the attached annotations in insertion order.
func (e *element) Annotations() []*Annotation { return slices.Clone(e.anns.list) }

// AddAnnotation attaches a to the element.
func (e *element) AddAnnotation(a *Annotation) bool {
	if !e.anns.add(a) {
		return false
	}
	a.element = ElementRef{Kind: e.kind, ID: e.id}
	return true
}

// Annotation returns the first annotation with the given label.
func (e *element) Annotation(label string) (*Annotation, bool) {
	return e.anns.byLabel(label)
}

// Visited reports the traversal mark.
func (e *element) Visited() bool { return e.visited }

// SetVisited sets the traversal mark.
func (e *element) SetVisited(v bool) { e.visited = v }

// Visit marks the element as visited.
func (e *element) Visit() { e.visited = true }

// edgeList is an ordered set of edge IDs with O(1) membership.
type edgeList struct {
	ids   []string
	index map[string]int
}

func (l *edgeList) add(id string) bool {
	if _, ok := l.index[id]; ok {
		return false
	}
	if l.index == nil {
		l.index = make(map[string]int)
	}
	l.index[id] = len(l.ids)
	l.ids = append(l.ids, id)
	return true
}

func (l *edgeList) has(id string) bool {
	_, ok := l.index[id]
	return ok
}

// Node is a vertex of the annotation graph.
//
// A node keeps the IDs of its in- and out-edges in insertion order; the
// edges themselves live in the owning [Graph]. Nodes are linked to regions
// of the primary data through [Link]s.
type Node struct {
	element

	// Root marks nodes declared with root="true".
	Root bool

	in    edgeList
	out   edgeList
	links []*Link
}

// NewNode returns an unattached node.
func NewNode(id string) *Node {
	return &Node{element: element{id: id, kind: KindNode}}
}

// InEdges returns the IDs of incoming edges in insertion order.
func (n *Node) InEdges() []string { return slices.Clone(n.in.ids) }

// OutEdges returns the IDs of outgoing edges in insertion order.
func (n *Node) OutEdges() []string { return slices.Clone(n.out.ids) }

// HasInEdge reports whether the edge with id ends at n.
func (n *Node) HasInEdge(id string) bool { return n.in.has(id) }

// HasOutEdge reports whether the edge with id starts at n.
func (n *Node) HasOutEdge(id string) bool { return n.out.has(id) }

// InDegree returns the number of incoming edges.
func (n *Node) InDegree() int { return len(n.in.ids) }

// OutDegree returns the number of outgoing edges.
func (n *Node) OutDegree() int { return len(n.out.ids) }

// Degree returns InDegree()+OutDegree().
func (n *Node) Degree() int { return n.InDegree() + n.OutDegree() }

// AddLink appends l and records n on every region l refers to. The regions
// do not have to be registered with the graph; rendering writes them out
// with the registered ones.
func (n *Node) AddLink(l *Link) {
	n.links = append(n.links, l)
	for _, r := range l.regions {
		r.addNode(n.id)
	}
}

// AddRegion links n to r through a new single-region link.
func (n *Node) AddRegion(r *Region) {
	n.AddLink(NewLink(r))
}

// Links returns the node's links in order.
func (n *Node) Links() []*Link { return slices.Clone(n.links) }

// Regions returns every region reached through the node's links, in order.
func (n *Node) Regions() []*Region {
	var out []*Region
	for _, l := range n.links {
		out = append(out, l.regions...)
	}
	return out
}

// Edge is a directed connection between two nodes.
//
// Endpoints are stored as node IDs and fixed at construction.
type Edge struct {
	element

	from     string
	to       string
	position int
}

// NewEdge returns an unattached edge from one node to another. A nil
// endpoint is an INVALID_EDGE error.
func NewEdge(id string, from, to *Node) (*Edge, error) {
	if from == nil || to == nil {
		return nil, invalidEdge(id)
	}
	return &Edge{element: element{id: id, kind: KindEdge}, from: from.id, to: to.id}, nil
}

// From returns the source node ID.
func (e *Edge) From() string { return e.from }

// To returns the target node ID.
func (e *Edge) To() string { return e.to }

// Position returns the insertion position assigned by the graph. Edges are
// rendered in position order.
func (e *Edge) Position() int { return e.position }
