package io

import (
	"bufio"
	"encoding/xml"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/graf/pkg/feature"
	"github.com/matzehuels/graf/pkg/graph"
)

// xmlWriter emits indented XML with self-closing empty elements. The first
// write error sticks and is reported by flush.
type xmlWriter struct {
	w      *bufio.Writer
	indent string
	depth  int
	err    error
}

type attrPair struct{ name, value string }

func newXMLWriter(w io.Writer, indent string) *xmlWriter {
	return &xmlWriter{w: bufio.NewWriter(w), indent: indent}
}

func (x *xmlWriter) writeString(s string) {
	if x.err != nil {
		return
	}
	_, x.err = x.w.WriteString(s)
}

func (x *xmlWriter) line() {
	x.writeString(strings.Repeat(x.indent, x.depth))
}

func (x *xmlWriter) tag(name string, attrs []attrPair, selfClose bool) {
	x.line()
	x.writeString("<" + name)
	for _, a := range attrs {
		x.writeString(" " + a.name + `="`)
		x.escape(a.value)
		x.writeString(`"`)
	}
	if selfClose {
		x.writeString("/>\n")
		return
	}
	x.writeString(">\n")
	x.depth++
}

// open writes a start tag and indents following content.
func (x *xmlWriter) open(name string, attrs ...attrPair) { x.tag(name, attrs, false) }

// empty writes a self-closing element.
func (x *xmlWriter) empty(name string, attrs ...attrPair) { x.tag(name, attrs, true) }

// close writes an end tag.
func (x *xmlWriter) close(name string) {
	x.depth--
	x.line()
	x.writeString("</" + name + ">\n")
}

// text writes an element whose only content is character data.
func (x *xmlWriter) text(name, content string) {
	x.line()
	x.writeString("<" + name + ">")
	x.escape(content)
	x.writeString("</" + name + ">\n")
}

func (x *xmlWriter) escape(s string) {
	if x.err != nil {
		return
	}
	x.err = xml.EscapeText(x.w, []byte(s))
}

func (x *xmlWriter) flush() error {
	if x.err != nil {
		return x.err
	}
	return x.w.Flush()
}

// renderer walks a graph in the canonical document order.
type renderer struct {
	x *xmlWriter
	g *graph.Graph
}

func (r *renderer) render() error {
	r.x.writeString(xml.Header)
	r.x.open(elGraph, attrPair{"xmlns", Namespace})
	r.header()
	if !r.g.Features.Empty() || r.g.Features.Type != "" {
		r.featureStructure(r.g.Features)
	}
	for _, reg := range r.regions() {
		r.x.empty(elRegion, attrPair{atID, reg.ID()}, attrPair{atAnchors, reg.AnchorString()})
	}
	for _, n := range r.g.Nodes() {
		r.node(n)
	}
	for _, e := range r.g.Edges() {
		r.edge(e)
	}
	r.x.close(elGraph)
	return r.x.flush()
}

// regions returns the graph's regions plus any region a node links to
// without it being registered, so every link target is written out.
// Registered regions win on ID clashes.
func (r *renderer) regions() []*graph.Region {
	out := r.g.Regions()
	seen := make(map[string]bool, len(out))
	for _, reg := range out {
		seen[reg.ID()] = true
	}
	extra := false
	for _, n := range r.g.Nodes() {
		for _, reg := range n.Regions() {
			if !seen[reg.ID()] {
				seen[reg.ID()] = true
				out = append(out, reg)
				extra = true
			}
		}
	}
	if extra {
		slices.SortFunc(out, (*graph.Region).Compare)
	}
	return out
}

func (r *renderer) header() {
	h := r.g.Header()
	r.x.open(elHeader)

	if usage := r.g.Usage(); len(usage) > 0 {
		r.x.open(elTagsDecl)
		for _, u := range usage {
			r.x.empty(elTagUsage, attrPair{atGI, u.Label}, attrPair{atOccurs, strconv.Itoa(u.Count)})
		}
		r.x.close(elTagsDecl)
	}

	if deps := h.DependsOn(); len(deps) > 0 {
		r.x.open(elDependencies)
		for _, d := range deps {
			r.x.empty(elDependsOn, attrPair{atFID, d})
		}
		r.x.close(elDependencies)
	}

	if spaces := h.Spaces(); len(spaces) > 0 {
		r.x.open(elAnnotationSpaces)
		for _, s := range spaces {
			attrs := []attrPair{{atSpaceID, s.ID}}
			if s.Type != "" {
				attrs = append(attrs, attrPair{atSpaceTyp, s.Type})
			}
			r.x.empty(elAnnotationSpace, attrs...)
		}
		r.x.close(elAnnotationSpaces)
	}

	if roots := h.Roots(); len(roots) > 0 {
		r.x.open(elRoots)
		for _, id := range roots {
			r.x.text(elRoot, id)
		}
		r.x.close(elRoots)
	}

	r.x.close(elHeader)
}

func (r *renderer) node(n *graph.Node) {
	attrs := []attrPair{{atID, n.ID()}}
	if n.Root {
		attrs = append(attrs, attrPair{atRoot, "true"})
	}
	links := n.Links()
	if len(links) == 0 {
		r.x.empty(elNode, attrs...)
	} else {
		r.x.open(elNode, attrs...)
		for _, l := range links {
			r.x.empty(elLink, attrPair{atTargets, l.TargetIDs()})
		}
		r.x.close(elNode)
	}
	for _, a := range n.Annotations() {
		r.annotation(a, n.ID())
	}
}

func (r *renderer) edge(e *graph.Edge) {
	r.x.empty(elEdge, attrPair{atID, e.ID()}, attrPair{atFrom, e.From()}, attrPair{atTo, e.To()})
	for _, a := range e.Annotations() {
		r.annotation(a, e.ID())
	}
}

func (r *renderer) annotation(a *graph.Annotation, ref string) {
	attrs := []attrPair{{atLabel, a.Label}, {atRef, ref}}
	if a.ID != "" {
		attrs = append(attrs, attrPair{atID, a.ID})
	}
	if s := a.Space(); s != "" {
		attrs = append(attrs, attrPair{atSpace, s})
	}
	if a.Features.Empty() && a.Features.Type == "" {
		r.x.empty(elAnnotation, attrs...)
		return
	}
	r.x.open(elAnnotation, attrs...)
	r.featureStructure(a.Features)
	r.x.close(elAnnotation)
}

func (r *renderer) featureStructure(fs *feature.Structure) {
	var attrs []attrPair
	if fs.Type != "" {
		attrs = append(attrs, attrPair{atType, fs.Type})
	}
	if fs.Empty() {
		r.x.empty(elFeatureStructure, attrs...)
		return
	}
	r.x.open(elFeatureStructure, attrs...)
	for name, v := range fs.All() {
		if nested, ok := feature.AsStructure(v); ok {
			r.x.open(elFeature, attrPair{atName, name})
			r.featureStructure(nested)
			r.x.close(elFeature)
			continue
		}
		r.x.empty(elFeature, attrPair{atName, name}, attrPair{atValue, v.String()})
	}
	r.x.close(elFeatureStructure)
}
