package io

import (
	"io"

	"github.com/matzehuels/graf/pkg/graph"
)

// ReadXML decodes one GrAF XML document from r.
//
// Forward references are allowed anywhere in the document: edges, links,
// roots and annotations on edges are resolved when </graph> is reached.
// dependsOn declarations are resolved through the resolver given with
// [WithResolver]; without one they fail with DEPENDENCY_NOT_FOUND.
//
// ReadXML returns an error, and no graph, if:
//   - The XML is malformed (MALFORMED_XML)
//   - A region has fewer than 2 anchors or an unparsable anchor (INVALID_REGION)
//   - A required attribute is missing (MISSING_LABEL, MISSING_REF, MISSING_ATTRIBUTE)
//   - An annotation names an undeclared space (UNKNOWN_ANNOTATION_SPACE)
//   - A space is re-declared with another type (ANNOTATION_SET_TYPE_MISMATCH)
//   - An edge endpoint, root or annotation ref never resolves
//     (INVALID_EDGE, ROOT_NOT_FOUND, DANGLING_ANNOTATION_REF)
//   - A feature appears outside any feature structure (ORPHAN_FEATURE)
//   - A dependency cannot be located (DEPENDENCY_NOT_FOUND)
//
// Errors carry the source name and line of the offending element. ReadXML
// does not close r.
func ReadXML(r io.Reader, opts ...Option) (*graph.Graph, error) {
	return NewParser(opts...).Parse(r)
}

// ImportXML reads the GrAF XML file at path.
//
// Unless a resolver is supplied, dependencies are looked up next to the file
// using the <base>-<type>.xml naming convention (see [FileResolver]).
func ImportXML(path string, opts ...Option) (*graph.Graph, error) {
	return NewParser(opts...).ParseFile(path)
}
