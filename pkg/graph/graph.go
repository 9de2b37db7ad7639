package graph

import (
	"iter"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/graf/pkg/errors"
	"github.com/matzehuels/graf/pkg/feature"
)

// Option configures a Graph.
type Option func(*Graph)

// WithIDGenerator replaces the default "a<N>" annotation ID sequence.
func WithIDGenerator(gen IDGenerator) Option {
	return func(g *Graph) { g.ids = gen }
}

// Graph is the aggregate root of an annotation document.
//
// It owns every node, edge, region and annotation space, keyed by ID.
// Cross references between them are IDs resolved through the graph.
//
// The zero value is not usable - use New. A Graph is not safe for
// concurrent mutation.
type Graph struct {
	// Features is the graph-level feature structure. Never nil after New.
	Features *feature.Structure
	// Content is the primary text. The parser leaves it empty; a document
	// header's LoadPrimaryData fills it in.
	Content string

	header Header

	nodes     map[string]*Node
	edges     map[string]*Edge
	edgeOrder []string
	edgeSeq   int
	nextPos   int
	regions   map[string]*Region

	spaces map[string]*AnnotationSpace
	ids    IDGenerator
	annIDs map[string]struct{}
}

// New returns an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		Features: feature.New(""),
		nodes:    make(map[string]*Node),
		edges:    make(map[string]*Edge),
		regions:  make(map[string]*Region),
		spaces:   make(map[string]*AnnotationSpace),
		ids:      NewSequence("a"),
		annIDs:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Header returns the document header.
func (g *Graph) Header() *Header { return &g.header }

// =============================================================================
// Nodes
// =============================================================================

// AddNode registers n, replacing any node with the same ID.
func (g *Graph) AddNode(n *Node) {
	g.nodes[n.id] = n
}

// EnsureNode returns the node with id, creating and registering an empty one
// if needed.
func (g *Graph) EnsureNode(id string) *Node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := NewNode(id)
	g.nodes[id] = n
	return n
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes sorted by ID.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, id := range slices.Sorted(maps.Keys(g.nodes)) {
		out = append(out, g.nodes[id])
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// =============================================================================
// Edges
// =============================================================================

// AddEdge registers e and threads it into both endpoints' edge lists. Both
// endpoints must already be registered. An edge ID that is already in use is
// a DUPLICATE_ID error.
func (g *Graph) AddEdge(e *Edge) error {
	if e.id == "" {
		e.id = g.nextEdgeID()
	}
	if _, dup := g.edges[e.id]; dup {
		return errors.New(errors.ErrCodeDuplicateID, "edge %q already exists", e.id)
	}
	from, ok := g.nodes[e.from]
	if !ok {
		return errors.New(errors.ErrCodeInvalidEdge, "edge %q: unknown source node %q", e.id, e.from)
	}
	to, ok := g.nodes[e.to]
	if !ok {
		return errors.New(errors.ErrCodeInvalidEdge, "edge %q: unknown target node %q", e.id, e.to)
	}
	for _, a := range e.anns.list {
		a.element = ElementRef{Kind: KindEdge, ID: e.id}
	}
	e.position = g.nextPos
	g.nextPos++
	g.edges[e.id] = e
	g.edgeOrder = append(g.edgeOrder, e.id)
	from.out.add(e.id)
	to.in.add(e.id)
	return nil
}

// CreateEdge connects the nodes with the given IDs, creating empty nodes for
// unknown IDs. An empty id is replaced by the next free "e<N>".
func (g *Graph) CreateEdge(fromID, toID, id string) (*Edge, error) {
	if fromID == "" || toID == "" {
		return nil, invalidEdge(id)
	}
	return g.Connect(g.EnsureNode(fromID), g.EnsureNode(toID), id)
}

// Connect creates an edge between two nodes, registering either node if the
// graph does not know it yet. An empty id is replaced by the next free "e<N>".
func (g *Graph) Connect(from, to *Node, id string) (*Edge, error) {
	if from == nil || to == nil {
		return nil, invalidEdge(id)
	}
	for _, n := range []*Node{from, to} {
		if _, ok := g.nodes[n.id]; !ok {
			g.nodes[n.id] = n
		}
	}
	if id == "" {
		id = g.nextEdgeID()
	}
	e, err := NewEdge(id, from, to)
	if err != nil {
		return nil, err
	}
	if err := g.AddEdge(e); err != nil {
		return nil, err
	}
	return e, nil
}

func (g *Graph) nextEdgeID() string {
	for {
		g.edgeSeq++
		id := "e" + strconv.Itoa(g.edgeSeq)
		if _, taken := g.edges[id]; !taken {
			return id
		}
	}
}

func invalidEdge(id string) error {
	return errors.New(errors.ErrCodeInvalidEdge, "edge %q needs both a source and a target node", id)
}

// Edge returns the edge with the given ID.
func (g *Graph) Edge(id string) (*Edge, bool) {
	e, ok := g.edges[id]
	return e, ok
}

// Edges returns all edges in position order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edgeOrder))
	for _, id := range g.edgeOrder {
		out = append(out, g.edges[id])
	}
	return out
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// FindEdge returns the first edge from one node to another. It scans the
// shorter of the source's out-edges and the target's in-edges.
func (g *Graph) FindEdge(fromID, toID string) (*Edge, bool) {
	from, ok := g.nodes[fromID]
	if !ok {
		return nil, false
	}
	to, ok := g.nodes[toID]
	if !ok {
		return nil, false
	}
	candidates := from.out.ids
	if len(to.in.ids) < len(candidates) {
		candidates = to.in.ids
	}
	for _, id := range candidates {
		if e := g.edges[id]; e.from == fromID && e.to == toID {
			return e, true
		}
	}
	return nil, false
}

// Parent returns the source node of n's first in-edge. A node without
// in-edges is a NO_SUCH_ELEMENT error.
func (g *Graph) Parent(n *Node) (*Node, error) {
	if len(n.in.ids) == 0 {
		return nil, errors.New(errors.ErrCodeNoSuchElement, "node %q has no parent", n.id)
	}
	e := g.edges[n.in.ids[0]]
	return g.nodes[e.from], nil
}

// Children returns the target nodes of n's out-edges, in edge order.
func (g *Graph) Children(n *Node) []*Node {
	out := make([]*Node, 0, len(n.out.ids))
	for _, id := range n.out.ids {
		out = append(out, g.nodes[g.edges[id].to])
	}
	return out
}

// Clear resets the visited mark on n and on every visited node reachable
// from it. Only visited nodes are descended into, and each is unmarked
// before its children are examined, so cycles terminate.
func (g *Graph) Clear(n *Node) {
	n.visited = false
	for _, id := range n.out.ids {
		child := g.nodes[g.edges[id].to]
		if child.visited {
			g.Clear(child)
		}
	}
}

// ClearAll resets the visited mark on every node and edge.
func (g *Graph) ClearAll() {
	for _, n := range g.nodes {
		n.visited = false
	}
	for _, e := range g.edges {
		e.visited = false
	}
}

// =============================================================================
// Regions
// =============================================================================

// AddRegion registers r, replacing any region with the same ID.
func (g *Graph) AddRegion(r *Region) {
	g.regions[r.id] = r
}

// Region returns the region with the given ID.
func (g *Graph) Region(id string) (*Region, bool) {
	r, ok := g.regions[id]
	return r, ok
}

// Regions returns all regions in region order.
func (g *Graph) Regions() []*Region {
	out := slices.Collect(maps.Values(g.regions))
	slices.SortFunc(out, (*Region).Compare)
	return out
}

// RegionCount returns the number of regions.
func (g *Graph) RegionCount() int { return len(g.regions) }

// GetRegion returns the region spanning exactly the given anchors.
// When several match, the lowest in region order wins.
func (g *Graph) GetRegion(anchors ...Anchor) (*Region, bool) {
	var found *Region
	for _, r := range g.regions {
		if r.HasAnchors(anchors...) && (found == nil || r.Compare(found) < 0) {
			found = r
		}
	}
	return found, found != nil
}

// ShiftRegions moves every region's anchors by delta.
func (g *Graph) ShiftRegions(delta int) {
	for _, r := range g.regions {
		r.Shift(delta)
	}
}

// =============================================================================
// Annotation spaces
// =============================================================================

// CreateSpace registers a new annotation space and threads it into the
// header. Re-declaring a space with the same type returns the existing one;
// a different type is an ANNOTATION_SET_TYPE_MISMATCH error.
func (g *Graph) CreateSpace(id, typ string) (*AnnotationSpace, error) {
	if s, ok := g.spaces[id]; ok {
		if s.Type != typ {
			return nil, errors.New(errors.ErrCodeSpaceTypeMismatch,
				"annotation space %q declared with type %q, previously %q", id, typ, s.Type)
		}
		return s, nil
	}
	s := NewAnnotationSpace(id, typ)
	g.AddSpace(s)
	return s, nil
}

// AddSpace registers s in the graph and header, replacing any space with the
// same ID.
func (g *Graph) AddSpace(s *AnnotationSpace) {
	g.spaces[s.ID] = s
	g.header.addSpace(s)
}

// Space returns the annotation space with the given ID.
func (g *Graph) Space(id string) (*AnnotationSpace, bool) {
	s, ok := g.spaces[id]
	return s, ok
}

// Spaces returns the annotation spaces in declaration order.
func (g *Graph) Spaces() []*AnnotationSpace { return g.header.Spaces() }

// =============================================================================
// Roots and lookup
// =============================================================================

// Root returns the first node named in the header's root list.
func (g *Graph) Root() (*Node, bool) {
	if len(g.header.roots) == 0 {
		return nil, false
	}
	n, ok := g.nodes[g.header.roots[0]]
	return n, ok
}

// SetRoot makes n the only root. n must be registered, otherwise the error
// is NODE_NOT_IN_GRAPH.
func (g *Graph) SetRoot(n *Node) error {
	if err := g.checkRegistered(n); err != nil {
		return err
	}
	g.header.ClearRoots()
	g.header.AddRoot(n.id)
	return nil
}

// AddRoot appends n to the root list. n must be registered.
func (g *Graph) AddRoot(n *Node) error {
	if err := g.checkRegistered(n); err != nil {
		return err
	}
	g.header.AddRoot(n.id)
	return nil
}

// Roots returns the registered root nodes in declaration order.
func (g *Graph) Roots() []*Node {
	var out []*Node
	for _, id := range g.header.roots {
		if n, ok := g.nodes[id]; ok {
			out = append(out, n)
		}
	}
	return out
}

func (g *Graph) checkRegistered(n *Node) error {
	if n == nil {
		return errors.New(errors.ErrCodeNodeNotInGraph, "root node is nil")
	}
	if cur, ok := g.nodes[n.id]; !ok || cur != n {
		return errors.New(errors.ErrCodeNodeNotInGraph, "node %q is not in the graph", n.id)
	}
	return nil
}

// Element returns the node, or failing that the edge, with the given ID.
// A miss is a NO_SUCH_ELEMENT error.
func (g *Graph) Element(id string) (Element, error) {
	if n, ok := g.nodes[id]; ok {
		return n, nil
	}
	if e, ok := g.edges[id]; ok {
		return e, nil
	}
	return nil, errors.New(errors.ErrCodeNoSuchElement, "no node or edge %q", id)
}

// =============================================================================
// Annotations
// =============================================================================

// CreateAnnotation returns a new annotation with a generated ID that is not
// used anywhere else in the graph. The annotation is not attached.
func (g *Graph) CreateAnnotation(label string, fs *feature.Structure) *Annotation {
	return NewAnnotation(g.nextAnnotationID(), label, fs)
}

// Annotate creates an annotation and attaches it to el.
func (g *Graph) Annotate(el Element, label string, fs *feature.Structure) *Annotation {
	a := g.CreateAnnotation(label, fs)
	el.AddAnnotation(a)
	return a
}

// ReserveAnnotationID marks an explicitly supplied annotation ID as taken so
// that generated IDs never collide with it.
func (g *Graph) ReserveAnnotationID(id string) {
	if id != "" {
		g.annIDs[id] = struct{}{}
	}
}

func (g *Graph) nextAnnotationID() string {
	for {
		id := g.ids.Next()
		if _, taken := g.annIDs[id]; !taken {
			g.annIDs[id] = struct{}{}
			return id
		}
	}
}

// AssignAnnotationIDs gives every annotation without an ID a generated one
// and returns the number assigned. Existing IDs are reserved first, so
// generated IDs never collide with them.
func (g *Graph) AssignAnnotationIDs() int {
	lists := make([]*annotations, 0, len(g.nodes)+len(g.edges))
	for _, n := range g.Nodes() {
		lists = append(lists, &n.anns)
	}
	for _, e := range g.Edges() {
		lists = append(lists, &e.anns)
	}
	for _, l := range lists {
		for _, a := range l.list {
			g.ReserveAnnotationID(a.ID)
		}
	}

	assigned := 0
	for _, l := range lists {
		for _, a := range l.list {
			if a.ID == "" {
				a.ID = g.nextAnnotationID()
				assigned++
			}
		}
		l.reindex()
	}
	for _, s := range g.header.spaces {
		for _, a := range s.list {
			if a.ID == "" {
				a.ID = g.nextAnnotationID()
				assigned++
			}
		}
		s.reindex()
	}
	return assigned
}

// Select yields every annotation matching q: node annotations in node order,
// then edge annotations in edge order.
func (g *Graph) Select(q Query) iter.Seq[*Annotation] {
	return func(yield func(*Annotation) bool) {
		for _, n := range g.Nodes() {
			for _, a := range n.anns.list {
				if q.Matches(a) && !yield(a) {
					return
				}
			}
		}
		for _, e := range g.Edges() {
			for _, a := range e.anns.list {
				if q.Matches(a) && !yield(a) {
					return
				}
			}
		}
	}
}

// LabelUsage counts annotations per label across all nodes and edges.
type LabelUsage struct {
	Label string
	Count int
}

// Usage returns the annotation label histogram sorted by label.
func (g *Graph) Usage() []LabelUsage {
	counts := make(map[string]int)
	for a := range g.Select(Query{}) {
		counts[a.Label]++
	}
	out := make([]LabelUsage, 0, len(counts))
	for _, label := range slices.Sorted(maps.Keys(counts)) {
		out = append(out, LabelUsage{Label: label, Count: counts[label]})
	}
	return out
}

// AnnotationCount returns the number of annotations attached to nodes and
// edges.
func (g *Graph) AnnotationCount() int {
	n := 0
	for _, node := range g.nodes {
		n += len(node.anns.list)
	}
	for _, e := range g.edges {
		n += len(e.anns.list)
	}
	return n
}

// Summary returns a one-line description, e.g. "3 nodes, 2 edges, 4 regions".
func (g *Graph) Summary() string {
	parts := []string{
		strconv.Itoa(len(g.nodes)) + " nodes",
		strconv.Itoa(len(g.edges)) + " edges",
		strconv.Itoa(len(g.regions)) + " regions",
		strconv.Itoa(g.AnnotationCount()) + " annotations",
	}
	return strings.Join(parts, ", ")
}
