package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/grasplabs/grasp/pkg/cache"
	"github.com/grasplabs/grasp/pkg/errors"
	"github.com/grasplabs/grasp/pkg/graph"
	grio "github.com/grasplabs/grasp/pkg/io"
	"github.com/grasplabs/grasp/pkg/observability"
	"github.com/grasplabs/grasp/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store operation results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// InfoResult contains graph statistics for the info operation.
type InfoResult struct {
	Nodes          int     `json:"nodes"`
	Edges          int     `json:"edges"`
	IsolatedNodes  int     `json:"isolated_nodes"`
	Components     int     `json:"components"`
	DegreeMin      int     `json:"degree_min"`
	DegreeMax      int     `json:"degree_max"`
	DegreeMean     float64 `json:"degree_mean"`
	MeanClustering float64 `json:"mean_clustering"`
}

// Load reads the source fact file and builds its graph, with caching.
//
// The cache key embeds the content hash of the source bytes plus the read
// options, so an edited file is always re-read. Cached graphs are stored
// as their canonical fact serialization; a hit replays those lines
// through the builder, which reconstructs a structurally equal graph.
func (r *Runner) Load(ctx context.Context, opts Options) (*graph.Graph, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRead(); err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(opts.Source)
	if err != nil {
		if os.IsNotExist(err) {
			err = errors.Wrap(errors.ErrCodeFileNotFound, err, "source %s not found", opts.Source)
		}
		return nil, false, err
	}

	return r.build(ctx, opts.Source, data, opts)
}

// LoadBytes builds a graph from in-memory fact text with the same caching
// as Load. The HTTP API uses this, since its sources arrive as request
// bodies rather than files.
func (r *Runner) LoadBytes(ctx context.Context, data []byte, opts Options) (*graph.Graph, bool, error) {
	r.applyLogger(&opts)
	if opts.EdgePredicate == "" {
		opts.EdgePredicate = DefaultEdgePredicate
	}
	if err := errors.ValidatePredicateName(opts.EdgePredicate); err != nil {
		return nil, false, err
	}
	return r.build(ctx, "facts", data, opts)
}

// build parses fact text into a graph, consulting the cache first.
// source only labels hook calls and log lines.
func (r *Runner) build(ctx context.Context, source string, data []byte, opts Options) (*graph.Graph, bool, error) {
	start := time.Now()
	observability.Pipeline().OnReadStart(ctx, source)

	cacheKey := r.Keyer.GraphKey(cache.Hash(data), opts.GraphKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if cached, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "graph")
			g, err := grio.ReadGraph(bytes.NewReader(cached), opts.ReadOptions())
			if err == nil {
				observability.Pipeline().OnReadComplete(ctx, source, g.NodeCount(), time.Since(start), nil)
				return g, true, nil
			}
			// Corrupt entry, fall through to re-read
			_ = r.Cache.Delete(ctx, cacheKey)
		} else {
			observability.Cache().OnCacheMiss(ctx, "graph")
		}
	}

	readOpts := opts.ReadOptions()
	readOpts.OnSkip = func(line int, text string, err error) {
		opts.Logger.Warn("skipped malformed line",
			"source", source,
			"line", line,
			"err", err)
	}

	g, err := grio.ReadGraph(bytes.NewReader(data), readOpts)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeParse, err, "read %s", source)
		observability.Pipeline().OnReadComplete(ctx, source, 0, time.Since(start), err)
		return nil, false, err
	}

	// Cache the canonical serialization
	var buf bytes.Buffer
	if err := grio.WriteGraph(g, &buf, opts.EdgePredicate); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, buf.Bytes(), cache.TTLGraph); err == nil {
			observability.Cache().OnCacheSet(ctx, "graph", buf.Len())
		}
	}

	observability.Pipeline().OnReadComplete(ctx, source, g.NodeCount(), time.Since(start), nil)
	return g, false, nil
}

// Clean normalizes a fact file: reads the source, rebuilds the graph, and
// writes its canonical serialization to the target. Duplicate and reversed
// edge facts collapse, lines come out sorted, and terms are re-quoted
// minimally. Running clean on its own output is a no-op byte for byte.
//
// The written graph and whether it came from the cache are returned, so
// callers reporting statistics need no second read.
func (r *Runner) Clean(ctx context.Context, opts Options) (*graph.Graph, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	g, hit, err := r.Load(ctx, opts)
	if err != nil {
		return nil, false, err
	}

	start := time.Now()
	observability.Pipeline().OnWriteStart(ctx, opts.Target)
	err = grio.ExportFile(g, opts.Target, opts.TargetEdgePredicate)
	observability.Pipeline().OnWriteComplete(ctx, opts.Target, g.EdgeCount(), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	opts.Logger.Info("cleaned facts",
		"source", opts.Source,
		"target", opts.Target,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"cached", hit)
	return g, hit, nil
}

// Split partitions a fact file into one output per connected component.
//
// The template is validated before anything is read or written, and the
// write phase is all-or-nothing: outputs are written atomically one
// component at a time, and a failure removes every output written so far,
// so the operation never leaves a partial component set behind.
//
// Returns the written paths, ordered by component index.
func (r *Runner) Split(ctx context.Context, opts Options) ([]string, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForSplit(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnSplitStart(ctx, opts.Source)

	g, _, err := r.Load(ctx, opts)
	if err != nil {
		observability.Pipeline().OnSplitComplete(ctx, opts.Source, 0, time.Since(start), err)
		return nil, err
	}

	components := g.Components()
	written := make([]string, 0, len(components))
	for i, comp := range components {
		sub := g.Subgraph(comp)
		path := ComponentPath(opts.Template, i)
		if err := grio.ExportFile(sub, path, opts.TargetEdgePredicate); err != nil {
			for _, p := range written {
				_ = os.Remove(p)
			}
			observability.Pipeline().OnSplitComplete(ctx, opts.Source, 0, time.Since(start), err)
			return nil, fmt.Errorf("write component %d: %w", i, err)
		}
		written = append(written, path)
	}

	observability.Pipeline().OnSplitComplete(ctx, opts.Source, len(written), time.Since(start), nil)
	opts.Logger.Info("split facts",
		"source", opts.Source,
		"components", len(written))
	return written, nil
}

// Info reads a fact file and returns its graph statistics.
func (r *Runner) Info(ctx context.Context, opts Options) (InfoResult, error) {
	r.applyLogger(&opts)
	g, _, err := r.Load(ctx, opts)
	if err != nil {
		return InfoResult{}, err
	}
	return Describe(g), nil
}

// Describe computes statistics for an already loaded graph.
func Describe(g *graph.Graph) InfoResult {
	res := InfoResult{
		Nodes:      g.NodeCount(),
		Edges:      g.EdgeCount(),
		Components: len(g.Components()),
	}

	degrees := g.Degrees()
	first := true
	var degreeSum int
	for _, d := range degrees {
		if d == 0 {
			res.IsolatedNodes++
		}
		if first || d < res.DegreeMin {
			res.DegreeMin = d
		}
		if d > res.DegreeMax {
			res.DegreeMax = d
		}
		degreeSum += d
		first = false
	}
	if len(degrees) > 0 {
		res.DegreeMean = float64(degreeSum) / float64(len(degrees))
	}

	coeffs := g.ClusteringCoefficients()
	var coeffSum float64
	for _, c := range coeffs {
		coeffSum += c
	}
	if len(coeffs) > 0 {
		res.MeanClustering = coeffSum / float64(len(coeffs))
	}

	return res
}

// Render reads a fact file and renders it in the requested formats,
// with per-artifact caching. Returns artifacts keyed by format.
func (r *Runner) Render(ctx context.Context, opts Options) (map[string][]byte, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	g, _, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}

	// Artifact keys hash the canonical serialization, not the raw source,
	// so equivalent inputs share cached artifacts.
	var buf bytes.Buffer
	if err := grio.WriteGraph(g, &buf, opts.EdgePredicate); err != nil {
		return nil, fmt.Errorf("serialize for cache key: %w", err)
	}
	graphHash := cache.Hash(buf.Bytes())

	dot := render.ToDOT(g, render.Options{Detailed: opts.Detailed, Components: opts.Components})

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")

		var data []byte
		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = render.RenderSVG(dot)
		case FormatPNG:
			data, err = render.RenderPNG(dot)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data

		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return artifacts, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
