// Package pipeline provides the core fact-file operations for grasp.
//
// This package implements the read → transform → write pipeline that can be
// used by CLI and API components. By centralizing this logic, we ensure
// consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Read: Parse fact lines and build the undirected graph
//  2. Transform: Pass through (clean), partition into connected
//     components (split), or compute statistics (info)
//  3. Write: Serialize graphs back to canonical fact lines, or render
//     them as DOT, SVG, or PNG
//
// Each stage can be run independently or as part of a complete operation.
//
// # Usage
//
// Create a Runner and run an operation:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source: "graph.lp",
//	    Target: "graph_clean.lp",
//	}
//	g, cached, err := runner.Clean(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Run individual stages:
//
//	// Read only
//	g, cached, err := runner.Load(ctx, opts)
//
//	// Statistics from an already loaded graph
//	info := pipeline.Describe(g)
package pipeline

import (
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/grasplabs/grasp/pkg/cache"
	"github.com/grasplabs/grasp/pkg/errors"
	grio "github.com/grasplabs/grasp/pkg/io"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultEdgePredicate is the edge relation name used when none is configured.
const DefaultEdgePredicate = grio.DefaultEdgePredicate

// Format constants for render output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ValidFormats is the set of supported render formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
	FormatPNG: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline operation.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Source is the fact file to read.
	Source string `json:"source"`

	// Target is the output path for clean. Empty means rewrite Source
	// in place.
	Target string `json:"target,omitempty"`

	// Template names the per-component outputs for split. It must
	// contain the {} slot exactly once; the slot is replaced by the
	// 0-based component index. Empty means derive from Source as
	// <stem>_{}<ext>.
	Template string `json:"template,omitempty"`

	// EdgePredicate is the predicate recognized as the edge relation on
	// input. Defaults to [DefaultEdgePredicate].
	EdgePredicate string `json:"edge_predicate,omitempty"`

	// TargetEdgePredicate is the edge relation name used on output.
	// Defaults to EdgePredicate, so a plain clean preserves the
	// predicate while setting both allows renaming it.
	TargetEdgePredicate string `json:"target_edge_predicate,omitempty"`

	// Strict fails on the first malformed line instead of skipping it.
	Strict bool `json:"strict,omitempty"`

	// Refresh bypasses the graph cache and re-reads the source.
	Refresh bool `json:"refresh,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Detailed   bool     `json:"detailed,omitempty"`
	Components bool     `json:"components,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a render format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: dot, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all render formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForRead(); err != nil {
		return err
	}
	o.SetWriteDefaults()
	if err := errors.ValidatePredicateName(o.TargetEdgePredicate); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForRead checks required fields for reading a source.
func (o *Options) ValidateForRead() error {
	if err := errors.ValidateResourcePath(o.Source); err != nil {
		return err
	}
	if o.EdgePredicate == "" {
		o.EdgePredicate = DefaultEdgePredicate
	}
	if err := errors.ValidatePredicateName(o.EdgePredicate); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetWriteDefaults sets default values for writing.
// An empty target means the source is rewritten in place, and an empty
// target predicate means the input predicate is preserved.
func (o *Options) SetWriteDefaults() {
	if o.Target == "" {
		o.Target = o.Source
	}
	if o.TargetEdgePredicate == "" {
		o.TargetEdgePredicate = o.EdgePredicate
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForSplit validates and defaults the split template.
// Called before any output is written so that a bad template never
// produces partial results.
func (o *Options) ValidateForSplit() error {
	if err := o.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if o.Template == "" {
		o.Template = DeriveTemplate(o.Source)
	}
	return errors.ValidateTargetTemplate(o.Template)
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForRead(); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatDOT}
	}
	return ValidateFormats(o.Formats)
}

// ReadOptions returns the io-level options for reading the source.
func (o *Options) ReadOptions() grio.Options {
	return grio.Options{
		EdgePredicate: o.EdgePredicate,
		Strict:        o.Strict,
	}
}

// GraphKeyOpts returns cache key options for the parsed graph.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		EdgePredicate: o.EdgePredicate,
		Strict:        o.Strict,
	}
}

// ArtifactKeyOpts returns cache key options for a rendered artifact.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Detailed:   o.Detailed,
		Components: o.Components,
	}
}

// DeriveTemplate builds the default split template for a source path:
// the source stem with a _{} suffix before the extension, so graph.lp
// becomes graph_{}.lp.
func DeriveTemplate(source string) string {
	ext := filepath.Ext(source)
	stem := strings.TrimSuffix(source, ext)
	return stem + "_" + errors.TemplateSlot + ext
}

// ComponentPath resolves the output path for one component by substituting
// the component index into the template slot.
func ComponentPath(template string, index int) string {
	return strings.Replace(template, errors.TemplateSlot, strconv.Itoa(index), 1)
}
