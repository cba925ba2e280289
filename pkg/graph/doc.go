// Package graph provides the undirected attributed graph at the center of
// grasp.
//
// # Model
//
// A [Graph] is a set of string-identified nodes, a set of undirected edges
// ((a,b) and (b,a) are the same edge and are deduplicated), and an attribute
// store attaching named value tuples to nodes and edges. Nodes are created
// implicitly on first mention, so building a graph from a fact stream never
// needs a separate declaration pass.
//
// # Determinism
//
// All enumeration methods ([Graph.Nodes], [Graph.Edges],
// [Graph.Neighbors], [Graph.Components]) return lexicographically sorted
// results, independent of insertion order or Go's map iteration order. This
// is what makes serialized output reproducible byte for byte across runs.
//
// # Derived views
//
// [Graph.Components] partitions the node set into connected components and
// [Graph.Subgraph] materializes the induced subgraph of a node set,
// including restricted edges and attributes. Components are read-only
// copies: mutating one never affects the parent graph.
//
// Degree and local clustering coefficient computations live in this package
// too ([Graph.Degrees], [Graph.ClusteringCoefficients]); they back the info
// command and the renderer.
package graph
