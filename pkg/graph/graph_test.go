package graph

import (
	"errors"
	"slices"
	"testing"
)

func TestAddEdgeSymmetry(t *testing.T) {
	g := New()
	if err := g.AddEdge("b", "a"); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := g.AddEdge("a", "b"); err != nil {
		t.Fatalf("AddEdge reversed: %v", err)
	}

	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1 (reversed edge must collapse)", g.EdgeCount())
	}
	if !g.HasEdge("a", "b") || !g.HasEdge("b", "a") {
		t.Error("HasEdge must hold in both orders")
	}
	if g.NodeCount() != 2 {
		t.Errorf("NodeCount = %d, want 2 (endpoints created implicitly)", g.NodeCount())
	}
}

func TestAddEdgeSelfLoop(t *testing.T) {
	g := New()
	if err := g.AddEdge("a", "a"); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", g.EdgeCount())
	}
	if got := g.Degree("a"); got != 1 {
		t.Errorf("Degree(a) = %d, want 1 (self-loop counts once)", got)
	}
	if got := g.Neighbors("a"); !slices.Equal(got, []string{"a"}) {
		t.Errorf("Neighbors(a) = %v, want [a]", got)
	}
}

func TestEmptyNodeID(t *testing.T) {
	g := New()
	if err := g.AddNode(""); !errors.Is(err, ErrEmptyNodeID) {
		t.Errorf("AddNode(\"\") = %v, want ErrEmptyNodeID", err)
	}
	if err := g.AddEdge("", "b"); !errors.Is(err, ErrEmptyNodeID) {
		t.Errorf("AddEdge(\"\", b) = %v, want ErrEmptyNodeID", err)
	}
	if err := g.AddNodeAttr("", "color", "red"); !errors.Is(err, ErrEmptyNodeID) {
		t.Errorf("AddNodeAttr(\"\") = %v, want ErrEmptyNodeID", err)
	}
}

func TestNodeAttrs(t *testing.T) {
	g := New()
	if err := g.AddNodeAttr("a", "color", "red"); err != nil {
		t.Fatalf("AddNodeAttr: %v", err)
	}
	if err := g.AddNodeAttr("a", "color", "blue"); err != nil {
		t.Fatalf("AddNodeAttr: %v", err)
	}

	if !g.HasNode("a") {
		t.Error("attribute must create its node implicitly")
	}

	attrs := g.NodeAttrs("a")
	if len(attrs) != 2 {
		t.Fatalf("got %d attrs, want 2 (same name accumulates)", len(attrs))
	}
	if attrs[0].Name != "color" || attrs[0].Values[0] != "red" {
		t.Errorf("first attr = %+v, want color=red", attrs[0])
	}

	// Mutating the returned slice must not affect the graph.
	attrs[0].Values[0] = "mutated"
	if g.NodeAttrs("a")[0].Values[0] != "red" {
		t.Error("NodeAttrs must return a copy")
	}
}

func TestEdgeAttrs(t *testing.T) {
	g := New()
	if err := g.AddEdgeAttr("a", "b", "weight", "2"); !errors.Is(err, ErrUnknownEdge) {
		t.Errorf("AddEdgeAttr without edge = %v, want ErrUnknownEdge", err)
	}

	if err := g.AddEdge("a", "b"); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := g.AddEdgeAttr("b", "a", "weight", "2"); err != nil {
		t.Fatalf("AddEdgeAttr reversed endpoints: %v", err)
	}
	if err := g.AddEdgeAttr("a", "b", "bridge"); err != nil {
		t.Fatalf("AddEdgeAttr flag: %v", err)
	}

	attrs := g.EdgeAttrs("a", "b")
	if len(attrs) != 2 {
		t.Fatalf("got %d attrs, want 2", len(attrs))
	}
	if !slices.Equal(g.EdgeAttrs("b", "a")[0].Values, []string{"2"}) {
		t.Error("edge attrs must be reachable with endpoints in either order")
	}
	if len(attrs[1].Values) != 0 {
		t.Errorf("flag attr values = %v, want empty", attrs[1].Values)
	}
}

func TestNodesAndEdgesSorted(t *testing.T) {
	g := New()
	_ = g.AddEdge("c", "b")
	_ = g.AddEdge("a", "c")
	_ = g.AddNode("d")

	if got := g.Nodes(); !slices.Equal(got, []string{"a", "b", "c", "d"}) {
		t.Errorf("Nodes = %v, want sorted", got)
	}
	edges := g.Edges()
	want := []Edge{{A: "a", B: "c"}, {A: "b", B: "c"}}
	if !slices.Equal(edges, want) {
		t.Errorf("Edges = %v, want %v", edges, want)
	}
}

func TestSubgraph(t *testing.T) {
	g := New()
	_ = g.AddEdge("a", "b")
	_ = g.AddEdge("b", "c")
	_ = g.AddEdge("c", "d")
	_ = g.AddNodeAttr("a", "color", "red")
	_ = g.AddEdgeAttr("a", "b", "weight", "1")

	sub := g.Subgraph([]string{"a", "b", "c", "zzz"})

	if sub.NodeCount() != 3 {
		t.Errorf("NodeCount = %d, want 3 (unknown IDs ignored)", sub.NodeCount())
	}
	if sub.EdgeCount() != 2 {
		t.Errorf("EdgeCount = %d, want 2 (c-d crosses the boundary)", sub.EdgeCount())
	}
	if sub.HasEdge("c", "d") {
		t.Error("edge to excluded node must not survive")
	}
	if len(sub.NodeAttrs("a")) != 1 || len(sub.EdgeAttrs("a", "b")) != 1 {
		t.Error("attributes must be carried into the induced subgraph")
	}
}

func TestEqual(t *testing.T) {
	build := func() *Graph {
		g := New()
		_ = g.AddEdge("a", "b")
		_ = g.AddNodeAttr("a", "color", "red")
		_ = g.AddNodeAttr("a", "color", "blue")
		_ = g.AddEdgeAttr("a", "b", "weight", "2")
		return g
	}

	g1, g2 := build(), build()
	if !g1.Equal(g2) {
		t.Error("identical graphs must be equal")
	}

	// Attribute order is not significant.
	g3 := New()
	_ = g3.AddEdge("b", "a")
	_ = g3.AddNodeAttr("a", "color", "blue")
	_ = g3.AddNodeAttr("a", "color", "red")
	_ = g3.AddEdgeAttr("b", "a", "weight", "2")
	if !g1.Equal(g3) {
		t.Error("attribute order and edge direction must not matter")
	}

	// Differences that must be detected.
	g4 := build()
	_ = g4.AddNode("extra")
	if g1.Equal(g4) {
		t.Error("extra node must break equality")
	}

	g5 := build()
	_ = g5.AddNodeAttr("a", "color", "red")
	if g1.Equal(g5) {
		t.Error("attr multiplicity must break equality")
	}

	if g1.Equal(nil) {
		t.Error("Equal(nil) must be false")
	}
}

func TestComponents(t *testing.T) {
	g := New()
	_ = g.AddEdge("a", "b")
	_ = g.AddEdge("b", "c")
	_ = g.AddEdge("x", "y")
	_ = g.AddNode("lonely")

	comps := g.Components()
	want := [][]string{{"a", "b", "c"}, {"lonely"}, {"x", "y"}}
	if len(comps) != len(want) {
		t.Fatalf("got %d components, want %d", len(comps), len(want))
	}
	for i := range want {
		if !slices.Equal(comps[i], want[i]) {
			t.Errorf("component %d = %v, want %v", i, comps[i], want[i])
		}
	}
}

func TestComponentsEmpty(t *testing.T) {
	if comps := New().Components(); len(comps) != 0 {
		t.Errorf("empty graph components = %v, want none", comps)
	}
}

func TestComponentsPartition(t *testing.T) {
	g := New()
	_ = g.AddEdge("a", "b")
	_ = g.AddEdge("c", "d")
	_ = g.AddEdge("d", "e")
	_ = g.AddNode("f")

	seen := make(map[string]int)
	for _, comp := range g.Components() {
		for _, id := range comp {
			seen[id]++
		}
	}
	if len(seen) != g.NodeCount() {
		t.Errorf("components cover %d nodes, want %d", len(seen), g.NodeCount())
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("node %s appears in %d components, want 1", id, n)
		}
	}
}

func TestDegrees(t *testing.T) {
	g := New()
	_ = g.AddEdge("a", "b")
	_ = g.AddEdge("a", "c")
	_ = g.AddNode("d")

	deg := g.Degrees()
	want := map[string]int{"a": 2, "b": 1, "c": 1, "d": 0}
	for id, w := range want {
		if deg[id] != w {
			t.Errorf("Degrees[%s] = %d, want %d", id, deg[id], w)
		}
	}
}

func TestClusteringCoefficient(t *testing.T) {
	// Triangle: every node fully clustered.
	tri := New()
	_ = tri.AddEdge("a", "b")
	_ = tri.AddEdge("b", "c")
	_ = tri.AddEdge("a", "c")
	if got := tri.ClusteringCoefficient("a"); got != 1.0 {
		t.Errorf("triangle coefficient = %v, want 1.0", got)
	}

	// Path: middle node's neighbors are not connected.
	path := New()
	_ = path.AddEdge("a", "b")
	_ = path.AddEdge("b", "c")
	if got := path.ClusteringCoefficient("b"); got != 0.0 {
		t.Errorf("path coefficient = %v, want 0.0", got)
	}

	// Degree < 2 is defined as 0.
	if got := path.ClusteringCoefficient("a"); got != 0.0 {
		t.Errorf("leaf coefficient = %v, want 0.0", got)
	}
	if got := path.ClusteringCoefficient("missing"); got != 0.0 {
		t.Errorf("unknown node coefficient = %v, want 0.0", got)
	}
}
