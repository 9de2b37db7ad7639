package feature

import (
	"errors"
	"testing"

	grafErrors "github.com/matzehuels/graf/pkg/errors"
)

func TestSubsumes(t *testing.T) {
	tests := []struct {
		name string
		a, b *Structure
		want bool
	}{
		{"subset", fs("", "a", "1"), fs("", "a", "1", "b", "2"), true},
		{"value differs", fs("", "a", "1"), fs("", "a", "2"), false},
		{"empty subsumes anything", New(""), fs("", "a", "1"), true},
		{"nil subsumes anything", nil, fs("", "a", "1"), true},
		{"reflexive", fs("", "a", "1", "n", fs("", "x", "y")), fs("", "a", "1", "n", fs("", "x", "y")), true},
		{"missing feature", fs("", "c", "1"), fs("", "a", "1"), false},
		{"nested subset", fs("", "n", fs("", "x", "1")), fs("", "n", fs("", "x", "1", "y", "2")), true},
		{"nested mismatch", fs("", "n", fs("", "x", "1")), fs("", "n", fs("", "x", "2")), false},
		{"atom vs nested", fs("", "n", "1"), fs("", "n", fs("", "x", "1")), false},
		{"superset does not subsume", fs("", "a", "1", "b", "2"), fs("", "a", "1"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Subsumes(tt.b); got != tt.want {
				t.Errorf("Subsumes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnify(t *testing.T) {
	tests := []struct {
		name     string
		a, b     *Structure
		want     *Structure
		conflict string
	}{
		{
			name: "disjoint",
			a:    fs("", "a", "1"),
			b:    fs("", "b", "2"),
			want: fs("", "a", "1", "b", "2"),
		},
		{
			name:     "atom conflict",
			a:        fs("", "a", "1"),
			b:        fs("", "a", "2"),
			conflict: "a",
		},
		{
			name: "equal shared atom",
			a:    fs("", "a", "1"),
			b:    fs("", "a", "1", "c", "3"),
			want: fs("", "a", "1", "c", "3"),
		},
		{
			name: "nested merge",
			a:    fs("", "n", fs("", "x", "1")),
			b:    fs("", "n", fs("", "y", "2")),
			want: fs("", "n", fs("", "x", "1", "y", "2")),
		},
		{
			name:     "nested conflict",
			a:        fs("", "n", fs("", "x", "1")),
			b:        fs("", "n", fs("", "x", "2")),
			conflict: "n/x",
		},
		{
			name:     "atom vs structure",
			a:        fs("", "n", "1"),
			b:        fs("", "n", fs("")),
			conflict: "n",
		},
		{
			name:     "type clash",
			a:        fs("np", "a", "1"),
			b:        fs("vp", "b", "2"),
			conflict: "",
		},
		{
			name: "one side typed",
			a:    fs("np", "a", "1"),
			b:    fs("", "b", "2"),
			want: fs("np", "a", "1", "b", "2"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.a.Unify(tt.b)
			if tt.want == nil {
				var ce *ConflictError
				if !errors.As(err, &ce) {
					t.Fatalf("Unify() error = %v, want *ConflictError", err)
				}
				if ce.Path != tt.conflict {
					t.Errorf("ConflictError.Path = %q, want %q", ce.Path, tt.conflict)
				}
				if !grafErrors.Is(err, grafErrors.ErrCodeUnification) {
					t.Errorf("Unify() error code = %v, want %v", grafErrors.GetCode(err), grafErrors.ErrCodeUnification)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unify() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Unify() = %v, want %v", got, tt.want)
			}
			if !tt.a.Subsumes(got) || !tt.b.Subsumes(got) {
				t.Errorf("Unify() = %v is not subsumed by both operands", got)
			}
		})
	}
}

func TestUnifyDoesNotMutate(t *testing.T) {
	a := fs("", "n", fs("", "x", "1"))
	b := fs("", "n", fs("", "y", "2"))
	got, err := a.Unify(b)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := a.Lookup("n/y"); ok {
		t.Error("Unify mutated receiver")
	}
	if _, ok := b.Lookup("n/x"); ok {
		t.Error("Unify mutated argument")
	}
	if err := got.Set("n/y", Atom("changed")); err != nil {
		t.Fatal(err)
	}
	if v, _ := b.Get("n/y"); v != Atom("2") {
		t.Errorf("result shares storage with argument: n/y = %v", v)
	}
}
