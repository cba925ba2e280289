package io

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/grasplabs/grasp/pkg/asp"
	"github.com/grasplabs/grasp/pkg/graph"
)

// NodePredicate is the predicate used to emit isolated nodes as unary facts.
const NodePredicate = "node"

// Lines returns the canonical fact lines for g, using edgePredicate as the
// edge relation name on output. The sequence is lazy, finite, and
// restartable: ranging over it twice yields the same lines twice.
//
// Emission order (each group sorted lexicographically):
//
//  1. unary facts for nodes with no incident edges and no attributes
//  2. edge facts, one per undirected edge in canonical endpoint order
//  3. node attribute facts
//  4. edge attribute facts
//
// Re-reading the sequence with the same edge predicate reconstructs a graph
// structurally equal to g.
func Lines(g *graph.Graph, edgePredicate string) iter.Seq[string] {
	if edgePredicate == "" {
		edgePredicate = DefaultEdgePredicate
	}
	return func(yield func(string) bool) {
		for _, id := range g.Nodes() {
			if g.Degree(id) == 0 && len(g.NodeAttrs(id)) == 0 {
				if !yield(asp.Atom{Predicate: NodePredicate, Args: []string{id}}.String()) {
					return
				}
			}
		}
		for _, e := range g.Edges() {
			if !yield(asp.Atom{Predicate: edgePredicate, Args: []string{e.A, e.B}}.String()) {
				return
			}
		}
		for _, id := range g.Nodes() {
			for _, atom := range attrAtoms([]string{id}, g.NodeAttrs(id)) {
				if !yield(atom.String()) {
					return
				}
			}
		}
		for _, e := range g.Edges() {
			for _, atom := range attrAtoms([]string{e.A, e.B}, g.EdgeAttrs(e.A, e.B)) {
				if !yield(atom.String()) {
					return
				}
			}
		}
	}
}

// attrAtoms converts an entity's attributes to sorted fact atoms.
// The owner arguments (node ID, or canonical edge endpoints) come first.
func attrAtoms(owner []string, attrs []graph.Attr) []asp.Atom {
	atoms := make([]asp.Atom, 0, len(attrs))
	for _, a := range attrs {
		args := make([]string, 0, len(owner)+len(a.Values))
		args = append(args, owner...)
		args = append(args, a.Values...)
		atoms = append(atoms, asp.Atom{Predicate: a.Name, Args: args})
	}
	slices.SortFunc(atoms, func(x, y asp.Atom) int {
		if c := strings.Compare(x.Predicate, y.Predicate); c != 0 {
			return c
		}
		return slices.Compare(x.Args, y.Args)
	})
	return atoms
}

// WriteGraph writes the canonical fact lines for g to w.
func WriteGraph(g *graph.Graph, w io.Writer, edgePredicate string) error {
	bw := bufio.NewWriter(w)
	for line := range Lines(g, edgePredicate) {
		if _, err := bw.WriteString(line); err != nil {
			return fmt.Errorf("write facts: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("write facts: %w", err)
		}
	}
	return bw.Flush()
}

// ExportFile writes g as fact text to path, replacing the file atomically:
// lines are written to a temporary file in the same directory which is then
// renamed over path, so a failed write never leaves a truncated resource.
func ExportFile(g *graph.Graph, path string, edgePredicate string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".grasp-*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteGraph(g, tmp, edgePredicate); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
