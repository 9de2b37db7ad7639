package graph

import "slices"

// Header carries the document-level declarations of a graph: its root node
// IDs, the annotation types it depends on and its annotation spaces.
//
// The space registry mirrors the graph's own and is updated by
// [Graph.CreateSpace] and [Graph.AddSpace].
type Header struct {
	roots     []string
	dependsOn []string
	spaces    []*AnnotationSpace
	spaceIdx  map[string]int
}

// Roots returns the root node IDs in declaration order.
func (h *Header) Roots() []string { return slices.Clone(h.roots) }

// AddRoot appends id to the root list unless already present.
func (h *Header) AddRoot(id string) {
	if !slices.Contains(h.roots, id) {
		h.roots = append(h.roots, id)
	}
}

// ClearRoots empties the root list.
func (h *Header) ClearRoots() { h.roots = nil }

// DependsOn returns the annotation types this document depends on.
func (h *Header) DependsOn() []string { return slices.Clone(h.dependsOn) }

// AddDependency records a dependsOn type, ignoring duplicates.
func (h *Header) AddDependency(typ string) bool {
	if slices.Contains(h.dependsOn, typ) {
		return false
	}
	h.dependsOn = append(h.dependsOn, typ)
	return true
}

// Spaces returns the annotation spaces in declaration order.
func (h *Header) Spaces() []*AnnotationSpace { return slices.Clone(h.spaces) }

// Space returns the space with the given ID.
func (h *Header) Space(id string) (*AnnotationSpace, bool) {
	i, ok := h.spaceIdx[id]
	if !ok {
		return nil, false
	}
	return h.spaces[i], true
}

func (h *Header) addSpace(s *AnnotationSpace) {
	if i, ok := h.spaceIdx[s.ID]; ok {
		h.spaces[i] = s
		return
	}
	if h.spaceIdx == nil {
		h.spaceIdx = make(map[string]int)
	}
	h.spaceIdx[s.ID] = len(h.spaces)
	h.spaces = append(h.spaces, s)
}
