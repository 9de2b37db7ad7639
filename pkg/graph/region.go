package graph

import (
	"slices"
	"strings"

	"github.com/matzehuels/graf/pkg/errors"
)

// Region is a span of primary data bounded by two or more anchors.
//
// A region records the IDs of the nodes linked to it; that list is maintained
// by [Node.AddLink] and never edited directly.
type Region struct {
	id      string
	anchors []Anchor
	nodes   []string
}

// NewRegion returns a region over the given anchors. Fewer than two anchors
// is an INVALID_REGION error.
func NewRegion(id string, anchors ...Anchor) (*Region, error) {
	if len(anchors) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidRegion, "region %q needs at least 2 anchors, got %d", id, len(anchors))
	}
	return &Region{id: id, anchors: slices.Clone(anchors)}, nil
}

// ID returns the region identifier.
func (r *Region) ID() string { return r.id }

// Anchors returns a copy of the anchor sequence.
func (r *Region) Anchors() []Anchor { return slices.Clone(r.anchors) }

// Len returns the number of anchors.
func (r *Region) Len() int { return len(r.anchors) }

// Start returns the first anchor.
func (r *Region) Start() Anchor { return r.anchors[0] }

// End returns the last anchor.
func (r *Region) End() Anchor { return r.anchors[len(r.anchors)-1] }

// Nodes returns the IDs of nodes linked to this region, in link order.
func (r *Region) Nodes() []string { return slices.Clone(r.nodes) }

// Shift moves every anchor by delta. It is used when primary data is
// concatenated and offsets have to be rebased.
func (r *Region) Shift(delta int) {
	for i, a := range r.anchors {
		r.anchors[i] = a.Shift(delta)
	}
}

// Compare orders regions by anchor count, then by anchor sequence, then by
// ID so that distinct regions never compare equal.
func (r *Region) Compare(other *Region) int {
	if c := len(r.anchors) - len(other.anchors); c != 0 {
		if c < 0 {
			return -1
		}
		return 1
	}
	if c := compareAnchors(r.anchors, other.anchors); c != 0 {
		return c
	}
	return strings.Compare(r.id, other.id)
}

// HasAnchors reports whether the region spans exactly the given anchors.
func (r *Region) HasAnchors(anchors ...Anchor) bool {
	return len(anchors) == len(r.anchors) && compareAnchors(r.anchors, anchors) == 0
}

// AnchorString returns the anchors attribute value, e.g. "0 5".
func (r *Region) AnchorString() string {
	parts := make([]string, len(r.anchors))
	for i, a := range r.anchors {
		parts[i] = a.String()
	}
	return strings.Join(parts, " ")
}

func (r *Region) addNode(id string) {
	r.nodes = append(r.nodes, id)
}

// Link groups the regions a node covers. A link refers to regions; it does
// not own them.
type Link struct {
	regions []*Region
}

// NewLink returns a link over the given regions.
func NewLink(regions ...*Region) *Link {
	return &Link{regions: slices.Clone(regions)}
}

// Regions returns the linked regions in order.
func (l *Link) Regions() []*Region { return slices.Clone(l.regions) }

// Len returns the number of linked regions.
func (l *Link) Len() int { return len(l.regions) }

// TargetIDs returns the region IDs joined by spaces, as written in the
// targets attribute.
func (l *Link) TargetIDs() string {
	ids := make([]string, len(l.regions))
	for i, r := range l.regions {
		ids[i] = r.id
	}
	return strings.Join(ids, " ")
}
