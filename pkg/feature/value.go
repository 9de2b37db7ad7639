package feature

// Value is the value of a single feature: either an [Atom] or a *[Structure].
// The interface is sealed; no other implementations exist.
type Value interface {
	isValue()
	String() string
}

// Atom is an atomic feature value. Atoms compare by string equality.
type Atom string

func (Atom) isValue() {}

// String returns the atom text.
func (a Atom) String() string { return string(a) }

func (*Structure) isValue() {}

// IsAtom reports whether v is an atomic value.
func IsAtom(v Value) bool {
	_, ok := v.(Atom)
	return ok
}

// AsStructure returns v as a *Structure when it is a nested structure.
func AsStructure(v Value) (*Structure, bool) {
	s, ok := v.(*Structure)
	return s, ok
}

// cloneValue deep-copies nested structures. Atoms are immutable.
func cloneValue(v Value) Value {
	if s, ok := v.(*Structure); ok {
		return s.Clone()
	}
	return v
}

func equalValues(a, b Value) bool {
	switch av := a.(type) {
	case Atom:
		bv, ok := b.(Atom)
		return ok && av == bv
	case *Structure:
		bv, ok := b.(*Structure)
		return ok && av.Equal(bv)
	}
	return false
}
