// Package io reads and writes GrAF XML, the ISO 24612 standoff annotation
// format.
//
// # Overview
//
// A GrAF document is a <graph> element in the http://www.xces.org/ns/GrAF/1.0/
// namespace holding, in order, a header, regions, nodes and edges, with
// annotations interleaved:
//
//	<graph xmlns="http://www.xces.org/ns/GrAF/1.0/">
//	    <header>
//	        <dependencies><dependsOn f.id="seg"/></dependencies>
//	        <annotationSpaces><annotationSpace as.id="xces"/></annotationSpaces>
//	        <roots><root>n1</root></roots>
//	    </header>
//	    <region xml:id="r1" anchors="0 5"/>
//	    <node xml:id="n1"><link targets="r1"/></node>
//	    <a label="tok" ref="n1" as="xces">
//	        <fs><f name="msd" value="NN"/></fs>
//	    </a>
//	    <edge xml:id="e1" from="n1" to="n2"/>
//	</graph>
//
// [ReadXML] and [ImportXML] parse documents; [WriteXML], [MarshalXML] and
// [ExportXML] render them.
//
// # Parsing
//
// The parser streams the document once. Because GrAF allows references to
// elements that appear later, edges, links, roots and annotations that do not
// refer to an already-seen node are recorded and resolved when </graph>
// closes. An error anywhere aborts the parse; no partial graph is returned.
//
// Both historical encodings are accepted: <annotationSet name type> and
// <annotationSpace as.id>, <dependsOn type> and <dependsOn f.id>, feature
// values as a value attribute or as element text, and annotations nested in
// <edge> or placed after it. Annotations may also be grouped in an
// <as type="..."> element instead of carrying an as attribute.
//
// # Dependencies
//
// A <dependsOn> names an annotation type whose document must be merged into
// this one. The parser asks its [Resolver] for the document, parses it into a
// separate graph and merges spaces, nodes, edges and regions. Every type is
// parsed at most once per top-level parse, which also breaks dependency
// cycles. Resolvers are provided for in-memory documents ([MapResolver]), the
// <base>-<type>.xml file convention ([FileResolver]) and .hdr document headers
// ([HeaderResolver]).
//
// # Rendering
//
// The renderer writes a canonical form: annotations follow their element as
// siblings, atomic features are <f name value/> elements, and header lists
// use the f.id and annotationSpace spellings. Output order is fully
// determined by the graph, so the same graph always renders to the same
// bytes.
package io
