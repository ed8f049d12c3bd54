// Package cli implements the geobuffer command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/geobuffer/pkg/cache"
	"github.com/matzehuels/geobuffer/pkg/config"
	"github.com/matzehuels/geobuffer/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "geobuffer"
)

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

	// Config is loaded by the root command before any subcommand runs.
	Config config.Config

	// ConfigFile is the file Config was loaded from, or "" for defaults.
	ConfigFile string
}

// New creates a new CLI instance with a default logger and the built-in
// configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig loads the config file named by explicit, or the default config
// file if it exists.
func (c *CLI) loadConfig(explicit string) error {
	path, err := config.Resolve(explicit)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Config, c.ConfigFile = cfg, path
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. A cache backend that
// cannot be opened is logged and replaced by a null cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	r := pipeline.NewRunner(c.newCache(ctx, noCache), nil, c.Logger)
	r.TTL = c.Config.Cache.TTL.Duration
	return r
}

func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	ch, err := cache.Open(ctx, c.Config.Cache)
	if err != nil {
		c.Logger.Warn("cache disabled", "backend", c.Config.Cache.Backend, "err", err)
		return cache.NewNullCache()
	}
	return ch
}
