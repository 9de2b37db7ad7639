package io

import (
	"github.com/matzehuels/graf/pkg/errors"
	"github.com/matzehuels/graf/pkg/graph"
)

// merge folds a parsed dependency into dst.
//
// Regions are copied first so that links can be re-pointed at dst's regions.
// Nodes already present in dst (placeholders for upstream references, or
// nodes shared between layers) absorb the dependency node's annotations and
// links. Edges are re-created against dst's nodes with copied annotations.
// An edge ID dst already has must join the same endpoints, and its
// annotations are added to the existing edge; any other reuse of the ID is
// DUPLICATE_ID. Spaces come last so that copied edge annotations are
// registered instead of the originals.
func merge(dst, src *graph.Graph) error {
	for _, r := range src.Regions() {
		if _, ok := dst.Region(r.ID()); ok {
			continue
		}
		cp, err := graph.NewRegion(r.ID(), r.Anchors()...)
		if err != nil {
			return err
		}
		dst.AddRegion(cp)
	}

	for _, n := range src.Nodes() {
		target := dst.EnsureNode(n.ID())
		target.Root = target.Root || n.Root
		for _, a := range n.Annotations() {
			dst.ReserveAnnotationID(a.ID)
			target.AddAnnotation(a)
		}
		for _, l := range n.Links() {
			regions := make([]*graph.Region, 0, l.Len())
			for _, r := range l.Regions() {
				if dr, ok := dst.Region(r.ID()); ok {
					regions = append(regions, dr)
				}
			}
			if len(regions) > 0 {
				target.AddLink(graph.NewLink(regions...))
			}
		}
	}

	copies := make(map[*graph.Annotation]*graph.Annotation)
	for _, e := range src.Edges() {
		de, ok := dst.Edge(e.ID())
		if ok {
			if de.From() != e.From() || de.To() != e.To() {
				return errors.New(errors.ErrCodeDuplicateID,
					"edge %q is declared as %s->%s and %s->%s", e.ID(), de.From(), de.To(), e.From(), e.To())
			}
		} else {
			from, _ := dst.Node(e.From())
			to, _ := dst.Node(e.To())
			var err error
			if de, err = dst.Connect(from, to, e.ID()); err != nil {
				return err
			}
		}
		for _, a := range e.Annotations() {
			cp := a.Clone()
			dst.ReserveAnnotationID(cp.ID)
			if !de.AddAnnotation(cp) {
				cp = nil
			}
			copies[a] = cp
		}
	}

	for _, s := range src.Spaces() {
		ds, err := dst.CreateSpace(s.ID, s.Type)
		if err != nil {
			return err
		}
		for _, a := range s.Annotations() {
			if cp, ok := copies[a]; ok {
				if cp == nil {
					continue
				}
				a = cp
			}
			ds.Add(a)
		}
	}
	return nil
}
