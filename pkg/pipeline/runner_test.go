package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/grasplabs/grasp/pkg/cache"
	"github.com/grasplabs/grasp/pkg/errors"
	"github.com/grasplabs/grasp/pkg/graph"
)

func testRunner(t *testing.T) *Runner {
	t.Helper()
	return NewRunner(cache.NewNullCache(), nil, log.NewWithOptions(io.Discard, log.Options{}))
}

func writeFacts(t *testing.T, dir, name, facts string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(facts), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestCleanInPlace(t *testing.T) {
	dir := t.TempDir()
	src := writeFacts(t, dir, "graph.lp", "edge(b,a).\nedge(a,b).\n% comment\n")

	r := testRunner(t)
	g, _, err := r.Clean(context.Background(), Options{Source: src})
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("cleaned graph has %d nodes and %d edges, want 2 and 1", g.NodeCount(), g.EdgeCount())
	}

	got, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("read result: %v", err)
	}
	if string(got) != "edge(a,b).\n" {
		t.Errorf("cleaned file = %q, want single canonical edge", got)
	}
}

func TestCleanIdempotent(t *testing.T) {
	dir := t.TempDir()
	src := writeFacts(t, dir, "graph.lp", "edge(b,a).\nz.\nlabel(b,\"two words\").\nedge(a,c).\n")

	r := testRunner(t)
	ctx := context.Background()
	if _, _, err := r.Clean(ctx, Options{Source: src}); err != nil {
		t.Fatalf("first Clean: %v", err)
	}
	once, _ := os.ReadFile(src)

	if _, _, err := r.Clean(ctx, Options{Source: src}); err != nil {
		t.Fatalf("second Clean: %v", err)
	}
	twice, _ := os.ReadFile(src)

	if string(once) != string(twice) {
		t.Errorf("clean is not idempotent:\n--- once\n%s--- twice\n%s", once, twice)
	}
}

func TestCleanToTarget(t *testing.T) {
	dir := t.TempDir()
	src := writeFacts(t, dir, "in.lp", "edge(a,b).\n")
	target := filepath.Join(dir, "out.lp")

	r := testRunner(t)
	opts := Options{Source: src, Target: target, TargetEdgePredicate: "rel"}
	if _, _, err := r.Clean(context.Background(), opts); err != nil {
		t.Fatalf("Clean: %v", err)
	}

	original, _ := os.ReadFile(src)
	if string(original) != "edge(a,b).\n" {
		t.Error("source must be untouched when a target is given")
	}
	got, _ := os.ReadFile(target)
	if string(got) != "rel(a,b).\n" {
		t.Errorf("target = %q, want edge rewritten to rel", got)
	}
}

// countingCache counts lookups so tests can verify how often an operation
// consults the cache, and therefore how often it parses its source.
type countingCache struct {
	cache.Cache
	gets int
}

func (c *countingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.gets++
	return c.Cache.Get(ctx, key)
}

func TestCleanReadsSourceOnce(t *testing.T) {
	dir := t.TempDir()
	src := writeFacts(t, dir, "graph.lp", "edge(a,b).\n")

	cc := &countingCache{Cache: cache.NewNullCache()}
	r := NewRunner(cc, nil, log.NewWithOptions(io.Discard, log.Options{}))

	g, cached, err := r.Clean(context.Background(), Options{Source: src})
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if cached {
		t.Error("null cache must never report a hit")
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", g.EdgeCount())
	}
	if cc.gets != 1 {
		t.Errorf("cache lookups = %d, want 1 (clean must load its source once)", cc.gets)
	}
}

func TestSplit(t *testing.T) {
	dir := t.TempDir()
	src := writeFacts(t, dir, "graph.lp", "edge(a,b).\nedge(c,d).\nnode(e).\n")

	r := testRunner(t)
	paths, err := r.Split(context.Background(), Options{Source: src})
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	want := []string{
		filepath.Join(dir, "graph_0.lp"),
		filepath.Join(dir, "graph_1.lp"),
		filepath.Join(dir, "graph_2.lp"),
	}
	if len(paths) != len(want) {
		t.Fatalf("got %d outputs %v, want %d", len(paths), paths, len(want))
	}
	for i, p := range want {
		if paths[i] != p {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], p)
		}
	}

	// Components are discovered in lexicographic order of their smallest node.
	c0, _ := os.ReadFile(paths[0])
	if string(c0) != "edge(a,b).\n" {
		t.Errorf("component 0 = %q, want edge(a,b)", c0)
	}
	c2, _ := os.ReadFile(paths[2])
	if string(c2) != "node(e).\n" {
		t.Errorf("component 2 = %q, want isolated node fact", c2)
	}
}

func TestSplitInvalidTemplateWritesNothing(t *testing.T) {
	dir := t.TempDir()
	src := writeFacts(t, dir, "graph.lp", "edge(a,b).\n")

	r := testRunner(t)
	_, err := r.Split(context.Background(), Options{Source: src, Template: filepath.Join(dir, "no-slot.lp")})
	if !errors.Is(err, errors.ErrCodeInvalidTemplate) {
		t.Fatalf("error = %v, want INVALID_TEMPLATE", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the source", len(entries))
	}
}

func TestInfo(t *testing.T) {
	dir := t.TempDir()
	src := writeFacts(t, dir, "graph.lp", "edge(a,b).\nedge(b,c).\nedge(a,c).\nedge(x,y).\nnode(iso).\n")

	r := testRunner(t)
	res, err := r.Info(context.Background(), Options{Source: src})
	if err != nil {
		t.Fatalf("Info: %v", err)
	}

	if res.Nodes != 6 {
		t.Errorf("Nodes = %d, want 6", res.Nodes)
	}
	if res.Edges != 4 {
		t.Errorf("Edges = %d, want 4", res.Edges)
	}
	if res.Components != 3 {
		t.Errorf("Components = %d, want 3", res.Components)
	}
	if res.IsolatedNodes != 1 {
		t.Errorf("IsolatedNodes = %d, want 1", res.IsolatedNodes)
	}
	if res.DegreeMin != 0 || res.DegreeMax != 2 {
		t.Errorf("degree range = [%d, %d], want [0, 2]", res.DegreeMin, res.DegreeMax)
	}
	// Triangle nodes have coefficient 1, the rest 0: mean = 3/6.
	if res.MeanClustering != 0.5 {
		t.Errorf("MeanClustering = %v, want 0.5", res.MeanClustering)
	}
}

func TestLoadMissingSource(t *testing.T) {
	r := testRunner(t)
	_, _, err := r.Load(context.Background(), Options{Source: filepath.Join(t.TempDir(), "nope.lp")})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadCaching(t *testing.T) {
	dir := t.TempDir()
	src := writeFacts(t, dir, "graph.lp", "edge(a,b).\n")

	fc, err := cache.NewFileCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(fc, nil, log.NewWithOptions(io.Discard, log.Options{}))
	defer r.Close()

	ctx := context.Background()
	g1, hit, err := r.Load(ctx, Options{Source: src})
	if err != nil {
		t.Fatalf("first Load: %v", err)
	}
	if hit {
		t.Error("first load must miss")
	}

	g2, hit, err := r.Load(ctx, Options{Source: src})
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if !hit {
		t.Error("second load must hit")
	}
	if !g1.Equal(g2) {
		t.Error("cached graph must equal the original")
	}

	// Changing the file content must bypass the stale entry.
	writeFacts(t, dir, "graph.lp", "edge(a,b).\nedge(b,c).\n")
	g3, hit, err := r.Load(ctx, Options{Source: src})
	if err != nil {
		t.Fatalf("third Load: %v", err)
	}
	if hit {
		t.Error("changed content must miss")
	}
	if g3.EdgeCount() != 2 {
		t.Errorf("EdgeCount = %d, want 2", g3.EdgeCount())
	}
}

func TestRenderDOT(t *testing.T) {
	dir := t.TempDir()
	src := writeFacts(t, dir, "graph.lp", "edge(a,b).\n")

	r := testRunner(t)
	artifacts, err := r.Render(context.Background(), Options{Source: src, Formats: []string{FormatDOT}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	dot := string(artifacts[FormatDOT])
	if !strings.Contains(dot, `"a" -- "b";`) {
		t.Errorf("DOT output missing edge:\n%s", dot)
	}
}

func TestDescribeEmpty(t *testing.T) {
	res := Describe(graph.New())
	if res.Nodes != 0 || res.Edges != 0 || res.Components != 0 {
		t.Errorf("empty graph stats = %+v, want zeros", res)
	}
}
