// Package io converts between fact-format text and in-memory graphs.
//
// # Overview
//
// This package pairs a builder (fact atoms in, [graph.Graph] out) with a
// serializer (graph in, fact lines out). The fact format is the
// line-oriented ASP syntax implemented by [asp]: one fact per line,
// `predicate(arg1,...,argN).`.
//
// # Building Rules
//
// Given a configured edge predicate P, each atom is interpreted as:
//
//   - P with exactly two arguments: an undirected edge between the two
//     nodes, both created if absent.
//   - Any predicate with exactly one argument: a node declaration. This is
//     how isolated nodes survive the round trip.
//   - A zero-argument atom `z.`: shorthand declaring the node z.
//   - A two-argument atom whose arguments name an existing edge: a
//     flag-like attribute on that edge.
//   - Anything else: a node attribute. The first argument is the owning
//     node (created if absent); the predicate name and the remaining
//     arguments form the attribute.
//
// Building is deterministic: the same atom sequence and edge predicate
// always produce the same graph.
//
// # Serialization
//
// [Lines] emits a canonical, minimal fact sequence: unary facts for nodes
// with no incident edges and no attributes, then edges, then node
// attributes, then edge attributes, each group lexicographically sorted.
// Every edge appears exactly once, in canonical (a,b) order with a ≤ b.
// Edges precede edge attributes so that re-reading attaches attributes to
// edges that already exist.
//
// The core contract is round-trip equivalence, not byte equivalence:
// re-reading the emitted lines with the same edge predicate reconstructs a
// structurally identical graph. Because the output is canonical, a second
// round trip is byte-identical to the first.
//
// The edge predicate is independently configurable for reading and writing,
// which is how `grasp clean` migrates a file from one edge relation name to
// another.
//
// [asp]: github.com/grasplabs/grasp/pkg/asp
package io
