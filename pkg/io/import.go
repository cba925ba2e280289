package io

import (
	"fmt"
	"io"
	"os"

	"github.com/grasplabs/grasp/pkg/asp"
	"github.com/grasplabs/grasp/pkg/graph"
)

// DefaultEdgePredicate is the predicate name recognized as the edge
// relation when none is configured.
const DefaultEdgePredicate = "edge"

// Options configures reading a fact resource into a graph.
type Options struct {
	// EdgePredicate is the predicate denoting graph connectivity.
	// Defaults to [DefaultEdgePredicate] when empty.
	EdgePredicate string

	// Strict fails the read on the first malformed line instead of
	// skipping it.
	Strict bool

	// OnSkip is invoked for each malformed line skipped in lenient mode.
	// May be nil.
	OnSkip func(line int, text string, err error)
}

func (o Options) edgePredicate() string {
	if o.EdgePredicate == "" {
		return DefaultEdgePredicate
	}
	return o.EdgePredicate
}

// FromAtoms assembles a graph from an atom sequence using the building
// rules described in the package documentation. An empty edgePredicate
// means [DefaultEdgePredicate].
func FromAtoms(atoms []asp.Atom, edgePredicate string) *graph.Graph {
	if edgePredicate == "" {
		edgePredicate = DefaultEdgePredicate
	}
	g := graph.New()
	for _, atom := range atoms {
		switch {
		case atom.Predicate == edgePredicate && atom.Arity() == 2:
			_ = g.AddEdge(atom.Args[0], atom.Args[1])
		case atom.Arity() == 0:
			_ = g.AddNode(atom.Predicate)
		case atom.Arity() == 1:
			_ = g.AddNode(atom.Args[0])
		case atom.Arity() == 2 && g.HasEdge(atom.Args[0], atom.Args[1]):
			_ = g.AddEdgeAttr(atom.Args[0], atom.Args[1], atom.Predicate)
		case atom.Arity() >= 3 && g.HasEdge(atom.Args[0], atom.Args[1]):
			_ = g.AddEdgeAttr(atom.Args[0], atom.Args[1], atom.Predicate, atom.Args[2:]...)
		default:
			_ = g.AddNodeAttr(atom.Args[0], atom.Predicate, atom.Args[1:]...)
		}
	}
	return g
}

// ReadGraph parses fact text from r and builds the graph it describes.
// Malformed lines follow the lenient/strict policy in opts.
func ReadGraph(r io.Reader, opts Options) (*graph.Graph, error) {
	atoms, err := asp.Read(r, asp.ReadOptions{Strict: opts.Strict, OnSkip: opts.OnSkip})
	if err != nil {
		return nil, err
	}
	return FromAtoms(atoms, opts.edgePredicate()), nil
}

// ImportFile reads the fact file at path and returns the decoded graph.
// The error wraps the underlying cause with the file path for context.
func ImportFile(path string, opts Options) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := ReadGraph(f, opts)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return g, nil
}
