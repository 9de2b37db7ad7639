package feature

import (
	"fmt"

	"github.com/matzehuels/graf/pkg/errors"
)

// ConflictError reports where two structures failed to unify.
type ConflictError struct {
	Path   string // '/'-joined feature path; empty for a type clash at the top
	Reason string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("unification conflict: %s", e.Reason)
	}
	return fmt.Sprintf("unification conflict at %s: %s", e.Path, e.Reason)
}

// Code returns the error code for this error type.
func (e *ConflictError) Code() errors.Code {
	return errors.ErrCodeUnification
}

// Subsumes reports whether every feature of s is present in other with an
// equal atom or a nested structure that s's nested structure subsumes.
// A nil or empty structure subsumes everything. Type tags are not compared.
func (s *Structure) Subsumes(other *Structure) bool {
	for name, v := range s.All() {
		ov, ok := other.Value(name)
		if !ok {
			return false
		}
		switch sv := v.(type) {
		case Atom:
			oa, ok := ov.(Atom)
			if !ok || sv != oa {
				return false
			}
		case *Structure:
			os, ok := ov.(*Structure)
			if !ok || !sv.Subsumes(os) {
				return false
			}
		}
	}
	return true
}

// Unify returns a new structure holding the features of both s and other.
// Neither operand is modified.
//
// Unification fails with a *ConflictError when both type tags are set and
// differ, when a shared feature is atomic on one side and nested on the other,
// or when shared atoms differ.
func (s *Structure) Unify(other *Structure) (*Structure, error) {
	return unify(s, other, "")
}

func unify(a, b *Structure, path string) (*Structure, error) {
	typ := a.typ()
	switch {
	case typ == "":
		typ = b.typ()
	case b.typ() != "" && b.typ() != typ:
		return nil, &ConflictError{Path: path, Reason: fmt.Sprintf("type %q vs %q", typ, b.typ())}
	}

	out := a.Clone()
	if out == nil {
		out = &Structure{}
	}
	out.Type = typ

	for name, bv := range b.All() {
		sub := join(path, name)
		av, ok := out.Value(name)
		if !ok {
			out.Put(name, cloneValue(bv))
			continue
		}
		switch x := av.(type) {
		case Atom:
			y, ok := bv.(Atom)
			if !ok {
				return nil, &ConflictError{Path: sub, Reason: "atom vs structure"}
			}
			if x != y {
				return nil, &ConflictError{Path: sub, Reason: fmt.Sprintf("%q vs %q", x, y)}
			}
		case *Structure:
			y, ok := bv.(*Structure)
			if !ok {
				return nil, &ConflictError{Path: sub, Reason: "structure vs atom"}
			}
			merged, err := unify(x, y, sub)
			if err != nil {
				return nil, err
			}
			out.Put(name, merged)
		}
	}
	return out, nil
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "/" + name
}
