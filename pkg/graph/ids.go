package graph

import (
	"strconv"

	"github.com/google/uuid"
)

// IDGenerator produces candidate annotation IDs. The graph skips candidates
// that are already taken, so generators need not track usage themselves.
type IDGenerator interface {
	Next() string
}

// Sequence generates prefix1, prefix2, ... It is the graph's default
// generator with prefix "a".
type Sequence struct {
	Prefix string
	n      int
}

// NewSequence returns a sequence starting at 1.
func NewSequence(prefix string) *Sequence {
	return &Sequence{Prefix: prefix}
}

// Next returns the next ID in the sequence.
func (s *Sequence) Next() string {
	s.n++
	return s.Prefix + strconv.Itoa(s.n)
}

// UUIDGenerator generates random "a-<uuid>" IDs. Use it when annotations
// created in separate processes are later merged into one graph.
type UUIDGenerator struct{}

// NewUUIDGenerator returns a random ID generator.
func NewUUIDGenerator() UUIDGenerator { return UUIDGenerator{} }

// Next returns a fresh random ID. The prefix keeps it a valid XML name.
func (UUIDGenerator) Next() string {
	return "a-" + uuid.NewString()
}
