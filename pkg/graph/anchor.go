package graph

import (
	"strconv"
	"strings"

	"github.com/matzehuels/graf/pkg/errors"
)

// Anchor is a position in the primary data. Anchors are immutable values;
// Shift returns a new anchor.
type Anchor interface {
	// Compare returns -1, 0 or +1 as the receiver orders before, equal to,
	// or after other.
	Compare(other Anchor) int
	// Shift returns the anchor moved by delta positions.
	Shift(delta int) Anchor
	// String returns the token written to the anchors attribute.
	String() string
}

// AnchorParser turns one whitespace-free token of a region's anchors
// attribute into an Anchor.
type AnchorParser func(token string) (Anchor, error)

// Offset is a character offset into the primary text. It is the default
// anchor type.
type Offset int

// Compare orders offsets numerically. Anchors of other types are compared by
// their string form.
func (o Offset) Compare(other Anchor) int {
	if p, ok := other.(Offset); ok {
		switch {
		case o < p:
			return -1
		case o > p:
			return 1
		}
		return 0
	}
	return strings.Compare(o.String(), other.String())
}

// Shift returns o+delta.
func (o Offset) Shift(delta int) Anchor { return o + Offset(delta) }

// String returns the decimal offset.
func (o Offset) String() string { return strconv.Itoa(int(o)) }

// ParseOffset is the default AnchorParser. It accepts non-negative decimal
// integers.
func ParseOffset(token string) (Anchor, error) {
	n, err := strconv.Atoi(token)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidAnchor, err, "anchor %q is not an integer offset", token)
	}
	if n < 0 {
		return nil, errors.New(errors.ErrCodeInvalidAnchor, "anchor %q is negative", token)
	}
	return Offset(n), nil
}

// ParseAnchors splits an anchors attribute on whitespace and parses each
// token with parse (ParseOffset when nil).
func ParseAnchors(s string, parse AnchorParser) ([]Anchor, error) {
	if parse == nil {
		parse = ParseOffset
	}
	fields := strings.Fields(s)
	anchors := make([]Anchor, 0, len(fields))
	for _, f := range fields {
		a, err := parse(f)
		if err != nil {
			return nil, err
		}
		anchors = append(anchors, a)
	}
	return anchors, nil
}

func compareAnchors(a, b []Anchor) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := a[i].Compare(b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}
