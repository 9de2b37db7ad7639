package graph

import (
	"iter"
	"slices"

	"github.com/matzehuels/graf/pkg/errors"
	"github.com/matzehuels/graf/pkg/feature"
)

// Query selects annotations. Zero-valued fields match everything, so the
// zero Query matches every annotation.
type Query struct {
	Label    string             // exact label
	Features *feature.Structure // must subsume the annotation's features
	Space    string             // owning space ID
}

// Matches reports whether a satisfies every set field of q.
func (q Query) Matches(a *Annotation) bool {
	if q.Label != "" && a.Label != q.Label {
		return false
	}
	if q.Space != "" && a.space != q.Space {
		return false
	}
	if q.Features != nil && !q.Features.Subsumes(a.Features) {
		return false
	}
	return true
}

// AnnotationSpace is a named, typed collection of annotations, roughly an
// annotation layer. It indexes annotations; it does not own them.
type AnnotationSpace struct {
	ID   string
	Type string

	list []*Annotation
	ids  map[string]int
}

// NewAnnotationSpace returns an empty space.
func NewAnnotationSpace(id, typ string) *AnnotationSpace {
	return &AnnotationSpace{ID: id, Type: typ, ids: make(map[string]int)}
}

// Add puts a in the space and records the space on a. Adding an annotation
// whose ID is already present, or adding the same ID-less annotation twice,
// is a no-op and returns false.
func (s *AnnotationSpace) Add(a *Annotation) bool {
	if s.index(a) >= 0 {
		return false
	}
	if s.ids == nil {
		s.ids = make(map[string]int)
	}
	if a.ID != "" {
		s.ids[a.ID] = len(s.list)
	}
	s.list = append(s.list, a)
	a.space = s.ID
	return true
}

// Contains reports whether an annotation with id is in the space.
func (s *AnnotationSpace) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of annotations in the space.
func (s *AnnotationSpace) Len() int { return len(s.list) }

// Annotations returns the annotations in insertion order.
func (s *AnnotationSpace) Annotations() []*Annotation { return slices.Clone(s.list) }

// Select yields annotations matching q. Each call starts a fresh pass.
func (s *AnnotationSpace) Select(q Query) iter.Seq[*Annotation] {
	return filter(s.list, q, true)
}

// SelectNot yields annotations that do not match q.
func (s *AnnotationSpace) SelectNot(q Query) iter.Seq[*Annotation] {
	return filter(s.list, q, false)
}

// First returns the first annotation matching q, or a NO_MATCH error.
func (s *AnnotationSpace) First(q Query) (*Annotation, error) {
	for a := range s.Select(q) {
		return a, nil
	}
	return nil, errors.New(errors.ErrCodeNoMatch, "no annotation in space %q matches %s", s.ID, q)
}

// Remove drops the annotation with a's ID from the space, or a itself when
// it has no ID.
func (s *AnnotationSpace) Remove(a *Annotation) bool {
	i := s.index(a)
	if i < 0 {
		return false
	}
	s.list[i].space = ""
	s.list = slices.Delete(s.list, i, i+1)
	s.reindex()
	return true
}

// RemoveMatching drops every annotation matching q, keeping the SelectNot
// complement, and returns the removed annotations.
func (s *AnnotationSpace) RemoveMatching(q Query) []*Annotation {
	removed := slices.Collect(s.Select(q))
	if len(removed) == 0 {
		return nil
	}
	s.list = slices.Collect(s.SelectNot(q))
	for _, a := range removed {
		a.space = ""
	}
	s.reindex()
	return removed
}

func (s *AnnotationSpace) index(a *Annotation) int {
	if a.ID == "" {
		return slices.Index(s.list, a)
	}
	if i, ok := s.ids[a.ID]; ok {
		return i
	}
	return -1
}

func (s *AnnotationSpace) reindex() {
	s.ids = make(map[string]int, len(s.list))
	for i, a := range s.list {
		if a.ID != "" {
			s.ids[a.ID] = i
		}
	}
}

func filter(list []*Annotation, q Query, want bool) iter.Seq[*Annotation] {
	return func(yield func(*Annotation) bool) {
		for _, a := range list {
			if q.Matches(a) == want && !yield(a) {
				return
			}
		}
	}
}

// String describes the query for error messages.
func (q Query) String() string {
	s := "{"
	sep := ""
	if q.Label != "" {
		s += "label=" + q.Label
		sep = " "
	}
	if q.Features != nil {
		s += sep + "features=" + q.Features.String()
		sep = " "
	}
	if q.Space != "" {
		s += sep + "space=" + q.Space
	}
	return s + "}"
}
