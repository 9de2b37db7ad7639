package graph

import (
	"slices"

	"github.com/matzehuels/graf/pkg/feature"
)

// ElementKind distinguishes the two kinds of annotatable graph elements.
type ElementKind int

const (
	// KindNode marks a *Node.
	KindNode ElementKind = iota + 1
	// KindEdge marks an *Edge.
	KindEdge
)

// String returns "node" or "edge".
func (k ElementKind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindEdge:
		return "edge"
	}
	return "unknown"
}

// ElementRef identifies the element that owns an annotation.
type ElementRef struct {
	Kind ElementKind
	ID   string
}

// IsZero reports whether the reference is unset.
func (r ElementRef) IsZero() bool { return r.Kind == 0 }

// Annotation is a labelled feature structure attached to one node or edge.
//
// The owning element and space are recorded as IDs and set by
// [Node.AddAnnotation], [Edge.AddAnnotation] and [AnnotationSpace.Add].
// An annotation is never moved between elements.
type Annotation struct {
	ID       string
	Label    string
	Features *feature.Structure

	element ElementRef
	space   string
}

// NewAnnotation returns an annotation with the given label. A nil fs is
// replaced by an empty untyped structure. An empty id is filled in when the
// annotation is created through [Graph.CreateAnnotation] or [Graph.Annotate].
func NewAnnotation(id, label string, fs *feature.Structure) *Annotation {
	if fs == nil {
		fs = feature.New("")
	}
	return &Annotation{ID: id, Label: label, Features: fs}
}

// Element returns the owning element reference and whether one is set.
func (a *Annotation) Element() (ElementRef, bool) {
	return a.element, !a.element.IsZero()
}

// Space returns the ID of the annotation space holding a, or "".
func (a *Annotation) Space() string { return a.space }

// Clone returns a deep copy of a without its element reference. The space ID
// is kept so that the copy can be re-registered in the same space.
func (a *Annotation) Clone() *Annotation {
	return &Annotation{
		ID:       a.ID,
		Label:    a.Label,
		Features: a.Features.Clone(),
		space:    a.space,
	}
}

// annotations is the ordered, ID-deduplicated annotation list embedded in
// every graph element. Annotations without an ID are deduplicated by
// identity until they get one.
type annotations struct {
	list []*Annotation
	ids  map[string]struct{}
}

func (l *annotations) add(a *Annotation) bool {
	if a.ID == "" {
		if slices.Contains(l.list, a) {
			return false
		}
	} else {
		if _, dup := l.ids[a.ID]; dup {
			return false
		}
		if l.ids == nil {
			l.ids = make(map[string]struct{})
		}
		l.ids[a.ID] = struct{}{}
	}
	l.list = append(l.list, a)
	return true
}

func (l *annotations) byLabel(label string) (*Annotation, bool) {
	for _, a := range l.list {
		if a.Label == label {
			return a, true
		}
	}
	return nil, false
}

func (l *annotations) reindex() {
	l.ids = make(map[string]struct{}, len(l.list))
	for _, a := range l.list {
		if a.ID != "" {
			l.ids[a.ID] = struct{}{}
		}
	}
}
