// Package cli implements the netplot command-line interface.
//
// Commands:
//   - plot: Build, reduce, lay out and draw a network from a matrix file
//   - export: Write the reduced network as JSON or Pajek
//   - inspect: Browse vertices, degrees and communities in the terminal
//   - serve: Run the HTTP API
//   - cache: Manage the layout cache
//
// All commands support --verbose (-v) for debug-level logging and
// --log-format for text, JSON or logfmt logs.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/netplot/pkg/buildinfo"
	"github.com/matzehuels/netplot/pkg/cache"
	"github.com/matzehuels/netplot/pkg/errors"
	"github.com/matzehuels/netplot/pkg/matrix"
	"github.com/matzehuels/netplot/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "netplot"

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
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var logFormat string
	root := &cobra.Command{
		Use:           appName,
		Short:         "Netplot draws bibliometric networks from adjacency matrices",
		Long:          `Netplot builds co-citation, collaboration, coupling and co-word networks from an adjacency matrix, keeps the most connected vertices, detects communities and draws the result.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := setLogFormat(c.Logger, logFormat); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logFormat, "log-format", logFormatText, "log format: text, json, logfmt")

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.plotCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Plotter Factory
// =============================================================================

// newPlotter creates a pipeline plotter for CLI use.
func (c *CLI) newPlotter(noCache bool) (*pipeline.Plotter, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewPlotter(cache, releaseKeyer(), c.Logger), nil
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

// releaseKeyer scopes cache keys to the running release so that entries
// written by another version are never read back.
func releaseKeyer() cache.Keyer {
	return cache.WithPrefix(nil, buildinfo.Version+":")
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/netplot/).
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

// basePath derives the output path stem. An empty output uses the input
// file name without its extension; a known image extension on output is
// stripped.
func basePath(output, input string) string {
	if output == "" {
		if input == "-" {
			return appName
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if validFormats[strings.ToLower(ext)] {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output
}

// =============================================================================
// Input
// =============================================================================

// readMatrix loads a matrix from path, or CSV from stdin when path is "-".
func readMatrix(ctx context.Context, path string) (*matrix.Adjacency, error) {
	logger := loggerFromContext(ctx)
	var (
		m   *matrix.Adjacency
		err error
	)
	if path == "-" {
		m, err = matrix.ReadCSV(os.Stdin)
	} else {
		m, err = matrix.ReadFile(path)
	}
	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	logger.Debug("loaded matrix", "path", path, "size", m.Size(), "symmetric", m.IsSymmetric())
	return m, nil
}
