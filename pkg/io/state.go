package io

import (
	"encoding/xml"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/graf/pkg/errors"
	"github.com/matzehuels/graf/pkg/feature"
	"github.com/matzehuels/graf/pkg/graph"
	"github.com/matzehuels/graf/pkg/observability"
)

// parseState is the scratch state of one document parse.
//
// While streaming, edges, links, roots and annotations whose ref is not yet
// a known node are only recorded. They are resolved when </graph> closes,
// once every node, region and merged dependency is known.
type parseState struct {
	p       *Parser
	sess    *session
	parents []*graph.Graph
	source  string

	g    *graph.Graph
	done bool

	stack []string

	node  *graph.Node
	ann   *graph.Annotation
	group *graph.AnnotationSpace

	fsStack []*feature.Structure
	fStack  []*featureFrame
	rootBuf strings.Builder

	pendingEdges []pendingEdge
	pendingLinks []pendingLink
	pendingAnns  []pendingAnnotation
	roots        []string
}

type pendingEdge struct {
	id, from, to string
}

type pendingLink struct {
	node    *graph.Node
	targets []string
}

type pendingAnnotation struct {
	ref string
	ann *graph.Annotation
}

type featureFrame struct {
	name   string
	value  string
	hasVal bool
	nested *feature.Structure
	text   strings.Builder
}

func (st *parseState) parent() string {
	if len(st.stack) == 0 {
		return ""
	}
	return st.stack[len(st.stack)-1]
}

func (st *parseState) start(se xml.StartElement) error {
	name := se.Name.Local
	parent := st.parent()
	st.stack = append(st.stack, name)

	if name == elGraph {
		st.openGraph()
		return nil
	}
	if st.g == nil {
		return errors.New(errors.ErrCodeMalformedXML, "<%s> outside <graph>", name)
	}

	switch name {
	case elRoot:
		st.rootBuf.Reset()
	case elDependsOn:
		return st.openDependsOn(se)
	case elAnnotationSet:
		return st.openAnnotationSet(se)
	case elAnnotationSpace:
		return st.openAnnotationSpace(se)
	case elAnnotationGroup:
		return st.openGroup(se)
	case elRegion:
		return st.openRegion(se)
	case elNode:
		return st.openNode(se)
	case elLink:
		return st.openLink(se)
	case elEdge:
		return st.openEdge(se)
	case elAnnotation:
		return st.openAnnotation(se)
	case elFeatureStructure:
		st.openFS(se, parent)
	case elFeature:
		return st.openFeature(se)
	}
	return nil
}

func (st *parseState) end(ee xml.EndElement) error {
	name := ee.Name.Local
	st.stack = st.stack[:len(st.stack)-1]
	if st.g == nil {
		return nil
	}

	switch name {
	case elGraph:
		return st.closeGraph()
	case elRoot:
		if id := strings.TrimSpace(st.rootBuf.String()); id != "" {
			st.roots = append(st.roots, id)
		}
	case elNode:
		st.node = nil
	case elAnnotation:
		st.ann = nil
	case elAnnotationGroup:
		st.group = nil
	case elFeatureStructure:
		if len(st.fsStack) > 0 {
			st.fsStack = st.fsStack[:len(st.fsStack)-1]
		}
	case elFeature:
		return st.closeFeature()
	}
	return nil
}

func (st *parseState) chars(cd xml.CharData) {
	switch st.parent() {
	case elFeature:
		if n := len(st.fStack); n > 0 {
			st.fStack[n-1].text.Write(cd)
		}
	case elRoot:
		st.rootBuf.Write(cd)
	}
}

// =============================================================================
// Header
// =============================================================================

func (st *parseState) openGraph() {
	st.g = graph.New(st.p.graphOpts...)
	st.done = false
	st.node, st.ann, st.group = nil, nil, nil
	st.fsStack, st.fStack = nil, nil
	st.pendingEdges, st.pendingLinks, st.pendingAnns, st.roots = nil, nil, nil, nil
}

func (st *parseState) openDependsOn(se xml.StartElement) error {
	typ, ok := attr(se, atFID)
	if !ok {
		typ, ok = attr(se, atType)
	}
	if !ok || typ == "" {
		return missing(elDependsOn, atFID+"|"+atType)
	}
	st.g.Header().AddDependency(typ)
	return st.resolveDependency(typ)
}

func (st *parseState) openAnnotationSet(se xml.StartElement) error {
	name, ok := attr(se, atName)
	if !ok {
		return missing(elAnnotationSet, atName)
	}
	typ, ok := attr(se, atType)
	if !ok {
		return missing(elAnnotationSet, atType)
	}
	_, err := st.g.CreateSpace(name, typ)
	return err
}

func (st *parseState) openAnnotationSpace(se xml.StartElement) error {
	id, ok := attr(se, atSpaceID)
	if !ok {
		return missing(elAnnotationSpace, atSpaceID)
	}
	typ, _ := attr(se, atSpaceTyp)
	_, err := st.g.CreateSpace(id, typ)
	return err
}

func (st *parseState) openGroup(se xml.StartElement) error {
	id, ok := attr(se, atType)
	if !ok {
		id, ok = attr(se, atSpaceID)
	}
	if !ok {
		return missing(elAnnotationGroup, atType)
	}
	s, ok := st.g.Space(id)
	if !ok {
		return errors.New(errors.ErrCodeUnknownSpace, "annotation space %q is not declared", id)
	}
	st.group = s
	return nil
}

// =============================================================================
// Regions, nodes, links, edges
// =============================================================================

func (st *parseState) openRegion(se xml.StartElement) error {
	id, ok := xmlID(se)
	if !ok {
		return missing(elRegion, atID)
	}
	raw, ok := attr(se, atAnchors)
	if !ok {
		return missing(elRegion, atAnchors)
	}
	anchors, err := graph.ParseAnchors(raw, st.p.anchors)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRegion, err, "region %q", id)
	}
	r, err := graph.NewRegion(id, anchors...)
	if err != nil {
		return err
	}
	st.g.AddRegion(r)
	return nil
}

func (st *parseState) openNode(se xml.StartElement) error {
	id, ok := xmlID(se)
	if !ok {
		return missing(elNode, atID)
	}
	n := st.g.EnsureNode(id)
	if v, _ := attr(se, atRoot); v == "true" {
		n.Root = true
	}
	st.node = n
	return nil
}

func (st *parseState) openLink(se xml.StartElement) error {
	if st.node == nil {
		return errors.New(errors.ErrCodeMalformedXML, "<link> outside <node>")
	}
	targets, ok := attr(se, atTargets)
	if !ok {
		return missing(elLink, atTargets)
	}
	st.pendingLinks = append(st.pendingLinks, pendingLink{node: st.node, targets: strings.Fields(targets)})
	return nil
}

func (st *parseState) openEdge(se xml.StartElement) error {
	id, ok := xmlID(se)
	if !ok {
		return missing(elEdge, "xml:id")
	}
	from, ok := attr(se, atFrom)
	if !ok {
		return missing(elEdge, atFrom)
	}
	to, ok := attr(se, atTo)
	if !ok {
		return missing(elEdge, atTo)
	}
	st.pendingEdges = append(st.pendingEdges, pendingEdge{id: id, from: from, to: to})
	return nil
}

// =============================================================================
// Annotations and features
// =============================================================================

func (st *parseState) openAnnotation(se xml.StartElement) error {
	label, ok := attr(se, atLabel)
	if !ok {
		return errors.New(errors.ErrCodeMissingLabel, "<a> without a label")
	}
	ref, ok := attr(se, atRef)
	if !ok {
		return errors.New(errors.ErrCodeMissingRef, "annotation %q is not associated with any element", label)
	}

	id, _ := xmlID(se)
	st.g.ReserveAnnotationID(id)
	a := graph.NewAnnotation(id, label, nil)

	space := st.group
	if as, ok := attr(se, atSpace); ok {
		s, ok := st.g.Space(as)
		if !ok {
			return errors.New(errors.ErrCodeUnknownSpace, "annotation space %q is not declared", as)
		}
		space = s
	}
	if space != nil {
		space.Add(a)
	}

	if n, ok := st.g.Node(ref); ok {
		n.AddAnnotation(a)
	} else {
		st.pendingAnns = append(st.pendingAnns, pendingAnnotation{ref: ref, ann: a})
	}
	st.ann = a
	return nil
}

func (st *parseState) openFS(se xml.StartElement, parent string) {
	typ, _ := attr(se, atType)
	var fs *feature.Structure

	switch {
	case parent == elFeature && len(st.fStack) > 0:
		fs = feature.New(typ)
		st.fStack[len(st.fStack)-1].nested = fs
	case parent == elAnnotation && st.ann != nil:
		fs = feature.New(typ)
		st.ann.Features = fs
	case parent == elGraph:
		fs = st.g.Features
		if typ != "" {
			fs.Type = typ
		}
	default:
		fs = feature.New(typ)
	}
	st.fsStack = append(st.fsStack, fs)
}

func (st *parseState) openFeature(se xml.StartElement) error {
	name, ok := attr(se, atName)
	if !ok {
		return missing(elFeature, atName)
	}
	value, hasVal := attr(se, atValue)
	st.fStack = append(st.fStack, &featureFrame{name: name, value: value, hasVal: hasVal})
	return nil
}

func (st *parseState) closeFeature() error {
	n := len(st.fStack)
	if n == 0 {
		return nil
	}
	f := st.fStack[n-1]
	st.fStack = st.fStack[:n-1]

	if len(st.fsStack) == 0 {
		return errors.New(errors.ErrCodeOrphanFeature, "feature %q outside any <fs>", f.name)
	}

	var v feature.Value
	switch {
	case f.nested != nil:
		v = f.nested
	case f.hasVal:
		v = feature.Atom(f.value)
	default:
		v = feature.Atom(strings.TrimSpace(f.text.String()))
	}
	st.fsStack[len(st.fsStack)-1].Put(f.name, v)
	return nil
}

// =============================================================================
// Deferred resolution
// =============================================================================

func (st *parseState) closeGraph() error {
	if err := st.resolveEdges(); err != nil {
		return err
	}
	if err := st.resolveEdgeAnnotations(); err != nil {
		return err
	}
	st.resolveLinks()
	if err := st.resolveRoots(); err != nil {
		return err
	}
	if len(st.parents) == 0 {
		st.g.AssignAnnotationIDs()
	}
	st.done = true
	return nil
}

// lookupNode finds a node in this document, or in a document currently
// merging this one. Nodes found only upstream get an empty placeholder here
// that merging folds back into the upstream node.
func (st *parseState) lookupNode(id string) (*graph.Node, bool) {
	if n, ok := st.g.Node(id); ok {
		return n, true
	}
	for _, up := range slices.Backward(st.parents) {
		if _, ok := up.Node(id); ok {
			return st.g.EnsureNode(id), true
		}
	}
	return nil, false
}

// lookupRegion finds a region in this document or upstream. Upstream
// regions are copied locally; merging re-points links at the upstream copy.
func (st *parseState) lookupRegion(id string) (*graph.Region, bool) {
	if r, ok := st.g.Region(id); ok {
		return r, true
	}
	for _, up := range slices.Backward(st.parents) {
		if r, ok := up.Region(id); ok {
			cp, err := graph.NewRegion(id, r.Anchors()...)
			if err != nil {
				return nil, false
			}
			st.g.AddRegion(cp)
			return cp, true
		}
	}
	return nil, false
}

func (st *parseState) resolveEdges() error {
	for _, pe := range st.pendingEdges {
		from, ok := st.lookupNode(pe.from)
		if !ok {
			return errors.New(errors.ErrCodeInvalidEdge, "edge %q: unknown source node %q", pe.id, pe.from)
		}
		to, ok := st.lookupNode(pe.to)
		if !ok {
			return errors.New(errors.ErrCodeInvalidEdge, "edge %q: unknown target node %q", pe.id, pe.to)
		}
		if _, err := st.g.Connect(from, to, pe.id); err != nil {
			return err
		}
	}
	return nil
}

func (st *parseState) resolveEdgeAnnotations() error {
	for _, pa := range st.pendingAnns {
		if e, ok := st.g.Edge(pa.ref); ok {
			e.AddAnnotation(pa.ann)
			continue
		}
		if n, ok := st.g.Node(pa.ref); ok {
			n.AddAnnotation(pa.ann)
			continue
		}
		return errors.New(errors.ErrCodeDanglingAnnotationRef,
			"annotation %q refers to %q, which is neither a node nor an edge", pa.ann.Label, pa.ref)
	}
	return nil
}

func (st *parseState) resolveLinks() {
	for _, pl := range st.pendingLinks {
		regions := make([]*graph.Region, 0, len(pl.targets))
		for _, id := range pl.targets {
			r, ok := st.lookupRegion(id)
			if !ok {
				st.p.logger.Warn("link target not found", "node", pl.node.ID(), "region", id, "source", describe(st.source))
				continue
			}
			regions = append(regions, r)
		}
		if len(regions) > 0 {
			pl.node.AddLink(graph.NewLink(regions...))
		}
	}
}

func (st *parseState) resolveRoots() error {
	ids := st.roots
	if len(ids) == 0 {
		for _, n := range st.g.Nodes() {
			if n.Root {
				ids = append(ids, n.ID())
			}
		}
	}
	for i, id := range ids {
		n, ok := st.g.Node(id)
		if !ok {
			return errors.New(errors.ErrCodeRootNotFound, "root %q is not a node of this graph", id)
		}
		var err error
		if i == 0 {
			err = st.g.SetRoot(n)
		} else {
			err = st.g.AddRoot(n)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Dependencies
// =============================================================================

func (st *parseState) resolveDependency(typ string) (err error) {
	if st.sess.parsed[typ] {
		st.p.logger.Debug("dependency already parsed", "type", typ)
		return nil
	}
	st.sess.parsed[typ] = true

	start := time.Now()
	defer func() { observability.Parse().OnDependency(typ, time.Since(start), err) }()

	if st.p.resolver == nil {
		return errors.New(errors.ErrCodeDependencyNotFound, "no resolver for dependency %q", typ)
	}
	rc, err := st.p.resolver.Resolve(typ)
	if err != nil {
		if errors.Is(err, errors.ErrCodeDependencyNotFound) {
			return err
		}
		return errors.Wrap(errors.ErrCodeDependencyNotFound, err, "resolve dependency %q", typ)
	}
	defer rc.Close()

	st.p.logger.Debug("parsing dependency", "type", typ, "from", describe(st.source))
	parents := append(slices.Clip(st.parents), st.g)
	dep, err := st.p.parse(rc, typ, st.sess, parents)
	if err != nil {
		return err
	}
	if err := merge(st.g, dep); err != nil {
		return fmt.Errorf("merge dependency %q: %w", typ, err)
	}
	st.p.logger.Debug("merged dependency", "type", typ, "nodes", dep.NodeCount(), "edges", dep.EdgeCount())
	return nil
}

// =============================================================================
// Attribute helpers
// =============================================================================

func attr(se xml.StartElement, name string) (string, bool) {
	for _, a := range se.Attr {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// xmlID returns the xml:id attribute, accepting a bare id as well.
func xmlID(se xml.StartElement) (string, bool) {
	for _, a := range se.Attr {
		if a.Name.Local == "id" && (a.Name.Space == xmlNamespace || a.Name.Space == "xml") {
			return a.Value, a.Value != ""
		}
	}
	if v, ok := attr(se, "id"); ok {
		return v, v != ""
	}
	return "", false
}

func missing(element, attribute string) error {
	return errors.New(errors.ErrCodeMissingAttribute, "<%s> requires %s", element, attribute)
}
