package feature

import (
	"iter"
	"strings"

	"github.com/matzehuels/graf/pkg/errors"
)

// Structure is a typed, ordered feature structure.
//
// The zero value is an untyped, empty structure ready to use.
type Structure struct {
	// Type is the optional type tag. Empty means untyped.
	Type string

	names  []string
	values map[string]Value
}

// New returns an empty structure with the given type tag.
func New(typ string) *Structure {
	return &Structure{Type: typ}
}

// Len returns the number of top-level features.
func (s *Structure) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Empty reports whether the structure has no features. A nil structure is empty.
func (s *Structure) Empty() bool { return s.Len() == 0 }

// Names returns the top-level feature names in insertion order.
func (s *Structure) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// All yields top-level features in insertion order.
func (s *Structure) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if s == nil {
			return
		}
		for _, name := range s.names {
			if !yield(name, s.values[name]) {
				return
			}
		}
	}
}

// Put stores v under name without interpreting '/' in the name.
// An existing feature keeps its position.
func (s *Structure) Put(name string, v Value) {
	if s.values == nil {
		s.values = make(map[string]Value)
	}
	if _, ok := s.values[name]; !ok {
		s.names = append(s.names, name)
	}
	s.values[name] = v
}

// Value returns the top-level feature called name.
func (s *Structure) Value(name string) (Value, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.values[name]
	return v, ok
}

func (s *Structure) delete(name string) bool {
	if _, ok := s.values[name]; !ok {
		return false
	}
	delete(s.values, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the value at path, or a NO_SUCH_FEATURE error.
func (s *Structure) Get(path string) (Value, error) {
	segs, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	cur := s
	for i, seg := range segs {
		v, ok := cur.Value(seg)
		if !ok {
			return nil, errors.New(errors.ErrCodeNoSuchFeature, "no feature %q", strings.Join(segs[:i+1], "/"))
		}
		if i == len(segs)-1 {
			return v, nil
		}
		next, ok := v.(*Structure)
		if !ok {
			return nil, errors.New(errors.ErrCodeNoSuchFeature, "feature %q is atomic", strings.Join(segs[:i+1], "/"))
		}
		cur = next
	}
	return nil, errors.New(errors.ErrCodeNoSuchFeature, "no feature %q", path)
}

// Lookup is Get without the error detail.
func (s *Structure) Lookup(path string) (Value, bool) {
	v, err := s.Get(path)
	return v, err == nil
}

// Set stores v at path, creating intermediate structures as needed.
// An atomic value found on the way is replaced by a new structure.
// Only a malformed path is an error.
func (s *Structure) Set(path string, v Value) error {
	segs, err := splitPath(path)
	if err != nil {
		return err
	}
	cur := s
	for _, seg := range segs[:len(segs)-1] {
		next, ok := cur.values[seg].(*Structure)
		if !ok {
			next = &Structure{}
			cur.Put(seg, next)
		}
		cur = next
	}
	cur.Put(segs[len(segs)-1], v)
	return nil
}

// Remove deletes the feature at path. Missing features yield NO_SUCH_FEATURE.
func (s *Structure) Remove(path string) error {
	segs, err := splitPath(path)
	if err != nil {
		return err
	}
	parent := s
	if len(segs) > 1 {
		v, err := s.Get(strings.Join(segs[:len(segs)-1], "/"))
		if err != nil {
			return err
		}
		p, ok := v.(*Structure)
		if !ok {
			return errors.New(errors.ErrCodeNoSuchFeature, "no feature %q", path)
		}
		parent = p
	}
	if !parent.delete(segs[len(segs)-1]) {
		return errors.New(errors.ErrCodeNoSuchFeature, "no feature %q", path)
	}
	return nil
}

// Clone returns a deep copy. Cloning nil returns nil.
func (s *Structure) Clone() *Structure {
	if s == nil {
		return nil
	}
	c := &Structure{Type: s.Type}
	for _, name := range s.names {
		c.Put(name, cloneValue(s.values[name]))
	}
	return c
}

// Equal reports structural equality, including type tags. Feature order is
// not significant. nil and an empty untyped structure are equal.
func (s *Structure) Equal(other *Structure) bool {
	if s.typ() != other.typ() || s.Len() != other.Len() {
		return false
	}
	for name, v := range s.All() {
		ov, ok := other.Value(name)
		if !ok || !equalValues(v, ov) {
			return false
		}
	}
	return true
}

// String renders the structure in a compact bracketed form, e.g.
// "ptb[msd=NN morph=[number=sg]]".
func (s *Structure) String() string {
	var b strings.Builder
	s.format(&b)
	return b.String()
}

func (s *Structure) format(b *strings.Builder) {
	b.WriteString(s.typ())
	b.WriteByte('[')
	first := true
	for name, v := range s.All() {
		if !first {
			b.WriteByte(' ')
		}
		first = false
		b.WriteString(name)
		b.WriteByte('=')
		if nested, ok := v.(*Structure); ok {
			nested.format(b)
		} else {
			b.WriteString(v.String())
		}
	}
	b.WriteByte(']')
}

func (s *Structure) typ() string {
	if s == nil {
		return ""
	}
	return s.Type
}

func splitPath(path string) ([]string, error) {
	p := strings.TrimPrefix(path, "/")
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return nil, errors.New(errors.ErrCodeInvalidPath, "empty feature path %q", path)
	}
	segs := strings.Split(p, "/")
	for _, seg := range segs {
		if seg == "" {
			return nil, errors.New(errors.ErrCodeInvalidPath, "empty segment in feature path %q", path)
		}
	}
	return segs, nil
}
