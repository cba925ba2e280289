package graph

import (
	"errors"
	"slices"
	"strings"
)

var (
	// ErrEmptyNodeID is returned when a node identifier is empty.
	// All nodes must have non-empty identifiers.
	ErrEmptyNodeID = errors.New("node ID must not be empty")

	// ErrUnknownNode is returned by lookups for a node that does not exist.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownEdge is returned by [Graph.AddEdgeAttr] when no edge exists
	// between the given endpoints.
	ErrUnknownEdge = errors.New("unknown edge")
)

// Attr is a named attribute value attached to a node or an edge.
// Values holds the attribute's value tuple; it may be empty for flag-like
// attributes.
type Attr struct {
	Name   string
	Values []string
}

// Edge is an undirected edge in canonical form: A is never greater than B,
// so (a,b) and (b,a) map to the same Edge value.
type Edge struct {
	A, B string
}

// NewEdge returns the canonical Edge for the unordered pair (a, b).
func NewEdge(a, b string) Edge {
	if b < a {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

// Graph is an undirected graph with string node identifiers and an attribute
// store for nodes and edges. Nodes are created implicitly when first
// mentioned by an edge or an attribute. Duplicate edges are collapsed:
// adding (a,b) after (b,a) has no effect.
//
// The zero value is not usable - use [New]. Graph is not safe for concurrent
// mutation; once fully built it may be read from multiple goroutines.
type Graph struct {
	nodes     map[string]struct{}
	edges     map[Edge]struct{}
	adj       map[string][]string
	nodeAttrs map[string][]Attr
	edgeAttrs map[Edge][]Attr
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:     make(map[string]struct{}),
		edges:     make(map[Edge]struct{}),
		adj:       make(map[string][]string),
		nodeAttrs: make(map[string][]Attr),
		edgeAttrs: make(map[Edge][]Attr),
	}
}

// AddNode ensures a node with the given ID exists.
// Adding an existing node is a no-op.
func (g *Graph) AddNode(id string) error {
	if id == "" {
		return ErrEmptyNodeID
	}
	g.nodes[id] = struct{}{}
	return nil
}

// AddEdge ensures an undirected edge between a and b, creating either
// endpoint if it does not exist yet. (a,b) and (b,a) are the same edge;
// adding it twice is a no-op.
func (g *Graph) AddEdge(a, b string) error {
	if a == "" || b == "" {
		return ErrEmptyNodeID
	}
	g.nodes[a] = struct{}{}
	g.nodes[b] = struct{}{}

	e := NewEdge(a, b)
	if _, ok := g.edges[e]; ok {
		return nil
	}
	g.edges[e] = struct{}{}
	g.adj[e.A] = append(g.adj[e.A], e.B)
	if e.A != e.B {
		g.adj[e.B] = append(g.adj[e.B], e.A)
	}
	return nil
}

// HasNode reports whether the node exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// HasEdge reports whether an edge exists between a and b, in either order.
func (g *Graph) HasEdge(a, b string) bool {
	_, ok := g.edges[NewEdge(a, b)]
	return ok
}

// AddNodeAttr attaches a named attribute to a node, creating the node if it
// does not exist yet. Attributes accumulate in insertion order; the same
// name may appear more than once.
func (g *Graph) AddNodeAttr(id, name string, values ...string) error {
	if id == "" {
		return ErrEmptyNodeID
	}
	g.nodes[id] = struct{}{}
	g.nodeAttrs[id] = append(g.nodeAttrs[id], Attr{Name: name, Values: slices.Clone(values)})
	return nil
}

// AddEdgeAttr attaches a named attribute to the edge between a and b.
// Returns [ErrUnknownEdge] if no such edge exists: edge attributes never
// create edges implicitly.
func (g *Graph) AddEdgeAttr(a, b, name string, values ...string) error {
	e := NewEdge(a, b)
	if _, ok := g.edges[e]; !ok {
		return ErrUnknownEdge
	}
	g.edgeAttrs[e] = append(g.edgeAttrs[e], Attr{Name: name, Values: slices.Clone(values)})
	return nil
}

// NodeAttrs returns a copy of the attributes attached to the node, in
// insertion order. Returns nil for nodes without attributes.
func (g *Graph) NodeAttrs(id string) []Attr {
	return cloneAttrs(g.nodeAttrs[id])
}

// EdgeAttrs returns a copy of the attributes attached to the edge between
// a and b, in insertion order. Returns nil for edges without attributes.
func (g *Graph) EdgeAttrs(a, b string) []Attr {
	return cloneAttrs(g.edgeAttrs[NewEdge(a, b)])
}

// Nodes returns all node IDs in lexicographic order.
func (g *Graph) Nodes() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Edges returns all edges sorted by their canonical endpoint pair.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, len(g.edges))
	for e := range g.edges {
		edges = append(edges, e)
	}
	slices.SortFunc(edges, CompareEdges)
	return edges
}

// CompareEdges orders edges by first endpoint, then second.
func CompareEdges(x, y Edge) int {
	if c := strings.Compare(x.A, y.A); c != 0 {
		return c
	}
	return strings.Compare(x.B, y.B)
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Neighbors returns the nodes adjacent to id in lexicographic order.
// A self-loop contributes the node itself once.
func (g *Graph) Neighbors(id string) []string {
	n := slices.Clone(g.adj[id])
	slices.Sort(n)
	return n
}

// Degree returns the number of edges incident to the node.
// A self-loop counts once. Returns 0 for unknown nodes.
func (g *Graph) Degree(id string) int { return len(g.adj[id]) }

// Subgraph returns the subgraph induced by the given node set: the nodes
// themselves, every edge whose both endpoints are in the set, and the
// attributes restricted accordingly. Unknown IDs are ignored.
func (g *Graph) Subgraph(ids []string) *Graph {
	sub := New()
	keep := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := g.nodes[id]; ok {
			keep[id] = struct{}{}
			sub.nodes[id] = struct{}{}
			if attrs := g.nodeAttrs[id]; len(attrs) > 0 {
				sub.nodeAttrs[id] = cloneAttrs(attrs)
			}
		}
	}
	for e := range g.edges {
		if _, okA := keep[e.A]; !okA {
			continue
		}
		if _, okB := keep[e.B]; !okB {
			continue
		}
		sub.edges[e] = struct{}{}
		sub.adj[e.A] = append(sub.adj[e.A], e.B)
		if e.A != e.B {
			sub.adj[e.B] = append(sub.adj[e.B], e.A)
		}
		if attrs := g.edgeAttrs[e]; len(attrs) > 0 {
			sub.edgeAttrs[e] = cloneAttrs(attrs)
		}
	}
	return sub
}

// Equal reports whether two graphs are structurally identical: same node
// set, same edge set as unordered pairs, and the same attribute multiset on
// every node and edge. Attribute order is not significant.
func (g *Graph) Equal(o *Graph) bool {
	if o == nil || len(g.nodes) != len(o.nodes) || len(g.edges) != len(o.edges) {
		return false
	}
	for id := range g.nodes {
		if _, ok := o.nodes[id]; !ok {
			return false
		}
		if !equalAttrs(g.nodeAttrs[id], o.nodeAttrs[id]) {
			return false
		}
	}
	for e := range g.edges {
		if _, ok := o.edges[e]; !ok {
			return false
		}
		if !equalAttrs(g.edgeAttrs[e], o.edgeAttrs[e]) {
			return false
		}
	}
	return true
}

func cloneAttrs(attrs []Attr) []Attr {
	if attrs == nil {
		return nil
	}
	out := make([]Attr, len(attrs))
	for i, a := range attrs {
		out[i] = Attr{Name: a.Name, Values: slices.Clone(a.Values)}
	}
	return out
}

// equalAttrs compares attribute lists as multisets.
func equalAttrs(a, b []Attr) bool {
	if len(a) != len(b) {
		return false
	}
	as, bs := cloneAttrs(a), cloneAttrs(b)
	slices.SortFunc(as, compareAttrs)
	slices.SortFunc(bs, compareAttrs)
	for i := range as {
		if as[i].Name != bs[i].Name || !slices.Equal(as[i].Values, bs[i].Values) {
			return false
		}
	}
	return true
}

func compareAttrs(x, y Attr) int {
	if c := strings.Compare(x.Name, y.Name); c != 0 {
		return c
	}
	return slices.Compare(x.Values, y.Values)
}
