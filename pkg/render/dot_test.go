package render

import (
	"strings"
	"testing"

	"github.com/grasplabs/grasp/pkg/graph"
)

func buildGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	if err := g.AddEdge("a", "b"); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge("x", "y"); err != nil {
		t.Fatal(err)
	}
	if err := g.AddNodeAttr("a", "color", "red"); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(buildGraph(t), Options{})

	if !strings.HasPrefix(dot, "graph G {") {
		t.Errorf("DOT must declare an undirected graph:\n%s", dot)
	}
	if !strings.Contains(dot, `"a" -- "b";`) {
		t.Errorf("missing undirected edge:\n%s", dot)
	}
	if strings.Contains(dot, "->") {
		t.Errorf("undirected graph must not use directed edges:\n%s", dot)
	}
}

func TestToDOTDeterministic(t *testing.T) {
	g := buildGraph(t)
	if ToDOT(g, Options{}) != ToDOT(g, Options{}) {
		t.Error("same graph must render to identical DOT")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(buildGraph(t), Options{Detailed: true})
	if !strings.Contains(dot, "deg: 1") {
		t.Errorf("detailed labels must include degree:\n%s", dot)
	}
	if !strings.Contains(dot, "color: red") {
		t.Errorf("detailed labels must include attributes:\n%s", dot)
	}
}

func TestToDOTComponentColors(t *testing.T) {
	dot := ToDOT(buildGraph(t), Options{Components: true})
	if !strings.Contains(dot, "fillcolor=") {
		t.Errorf("component coloring must set fill colors:\n%s", dot)
	}

	plain := ToDOT(buildGraph(t), Options{})
	if strings.Contains(plain, componentPalette[0]) {
		t.Error("palette must not leak into uncolored output")
	}
}
