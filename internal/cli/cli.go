// Package cli implements the journey command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/journey/pkg/buildinfo"
	"github.com/matzehuels/journey/pkg/cache"
	"github.com/matzehuels/journey/pkg/config"
	"github.com/matzehuels/journey/pkg/generate"
	"github.com/matzehuels/journey/pkg/pipeline"
	"github.com/matzehuels/journey/pkg/store"
	"github.com/matzehuels/journey/pkg/store/backends"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "journey"

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

	// Out receives command output. Defaults to os.Stdout.
	Out io.Writer

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Journey turns campaign descriptions into automation graphs",
		Long:         `Journey generates marketing automation journeys from plain-language descriptions, repairs them against the requested message counts and lays them out for a visual canvas.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(log.WithContext(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.requirementsCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.repairCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Factories
// =============================================================================

func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// newGenerator builds the configured generation client, memoized in the
// file cache unless noCache is set.
func (c *CLI) newGenerator(cfg config.Config, noCache bool) (generate.Generator, error) {
	ch, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return cachedGenerator(cfg, ch), nil
}

// cachedGenerator wraps the configured client with ch. A NullCache yields
// the bare client.
func cachedGenerator(cfg config.Config, ch cache.Cache) generate.Generator {
	client := generate.NewClient(cfg.Generator)
	if _, off := ch.(cache.NullCache); off {
		return client
	}
	return &generate.Cached{
		Generator: client,
		Cache:     ch,
		Model:     cfg.Generator.Model,
		TTL:       cfg.Generator.CacheTTL,
	}
}

func (c *CLI) openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	st, err := backends.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("opened store", "backend", cfg.Store.String())
	return st, nil
}

// newRunner creates a pipeline runner for CLI use. Either argument may be
// nil.
func (c *CLI) newRunner(cfg config.Config, gen generate.Generator, st store.Store) *pipeline.Runner {
	r := pipeline.NewRunner(gen, st, c.Logger)
	r.Model = cfg.Generator.Model
	return r
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
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

// cacheDir returns the cache directory using XDG standard (~/.cache/journey/).
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

// parseFormats parses a comma-separated format string into a slice.
// Empty yields nil.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
