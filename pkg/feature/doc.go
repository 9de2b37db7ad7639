// Package feature implements typed feature structures: the attribute-value
// payload carried by every annotation in a graf graph.
//
// # Overview
//
// A [Structure] is an optional type name plus an ordered mapping from feature
// names to [Value]s. A Value is either an [Atom] (an opaque string) or a nested
// *Structure, so feature structures form trees:
//
//	fs := feature.New("ptb")
//	fs.Put("msd", feature.Atom("NN"))
//	_ = fs.Set("morph/number", feature.Atom("sg"))   // creates "morph" on the way
//
// Names keep insertion order so that rendering a structure back to XML is
// deterministic.
//
// # Paths
//
// [Structure.Get], [Structure.Set] and [Structure.Remove] address nested
// features with '/'-separated paths. A single leading or trailing separator is
// ignored; empty segments ("a//b") are rejected with INVALID_PATH. Set creates
// intermediate structures as needed and replaces an atomic intermediate with a
// fresh structure. [Structure.Put] stores a name verbatim, without path parsing,
// which is what the XML parser uses.
//
// # Subsumption and Unification
//
// A structure S subsumes T when every feature of S is present in T with a
// compatible value: equal atoms, or nested structures where S's subsumes T's.
// Subsumption is reflexive, and the empty structure subsumes everything. It is
// the matching relation used by annotation queries.
//
// [Structure.Unify] merges two structures without mutating either. Disjoint
// features are combined, shared atoms must be equal, and shared nested
// structures are unified recursively. Conflicts return a *[ConflictError]
// naming the path at which unification failed. A result R of a successful
// unification of A and B is subsumed by both (A.Subsumes(R) && B.Subsumes(R)).
package feature
