package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/grasplabs/grasp/pkg/buildinfo"
	"github.com/grasplabs/grasp/pkg/cache"
	"github.com/grasplabs/grasp/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "grasp"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config
}

// New creates a new CLI instance with a default logger and config defaults.
// The config file is loaded lazily in RootCommand's PersistentPreRunE so
// that a broken file produces a proper command error.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: defaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "grasp",
		Short:        "Grasp converts graphs to and from ASP fact files",
		Long:         `Grasp is a CLI tool for working with graphs encoded as logic-programming fact files: normalizing them, splitting them into connected components, inspecting their structure, and rendering them.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.cleanCommand())
	root.AddCommand(c.splitCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cache, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

// newCache builds the cache backend selected in the config file.
// Backend failures degrade to a null cache rather than failing the command.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache || c.Config.Cache.Backend == CacheBackendNone {
		return cache.NewNullCache(), nil
	}

	if c.Config.Cache.Backend == CacheBackendRedis {
		rc, err := cache.NewRedisCache(ctx, c.Config.Cache.RedisAddr)
		if err != nil {
			c.Logger.Warn("redis cache unavailable, caching disabled", "addr", c.Config.Cache.RedisAddr, "err", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	}

	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/grasp/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions builds pipeline options from config defaults plus
// per-command flags.
func (c *CLI) pipelineOptions(source string, flags *factFlags) pipeline.Options {
	opts := pipeline.Options{
		Source:              source,
		EdgePredicate:       c.Config.EdgePredicate,
		Strict:              c.Config.Strict,
		Refresh:             flags.refresh,
		TargetEdgePredicate: flags.targetEdgePredicate,
		Logger:              c.Logger,
	}
	if flags.edgePredicate != "" {
		opts.EdgePredicate = flags.edgePredicate
	}
	if flags.strict {
		opts.Strict = true
	}
	return opts
}

// factFlags are the read/write flags shared by the fact-file commands.
type factFlags struct {
	edgePredicate       string
	targetEdgePredicate string
	strict              bool
	refresh             bool
	noCache             bool
}

// register adds the shared flags to cmd.
func (f *factFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.edgePredicate, "edge-predicate", "e", "", "predicate read as the edge relation (default \"edge\")")
	cmd.Flags().StringVar(&f.targetEdgePredicate, "target-edge-predicate", "", "predicate written for edges (default: same as input)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "fail on the first malformed line instead of skipping it")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "bypass cache")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching entirely")
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatDOT}
	}
	return strings.Split(s, ",")
}
