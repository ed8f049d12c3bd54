package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/geobuffer/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The persistent --verbose flag switches the logger to debug level and
// --config names a TOML config file; without it the file under the user
// config directory is used when present.
func (c *CLI) RootCommand() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:   appName,
		Short: "Geobuffer computes buffers of planar geometries",
		Long: `Geobuffer computes the buffer of points, lines and polygons: the region
within a distance of the input, with round, flat or square line ends and
round, mitre or bevel joins. Negative distances shrink polygons.

Results are cached, and can be written as WKT, GeoJSON, SVG, PNG, PDF or
as a DOT dump of the topology graph.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig(configPath)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/geobuffer/config.toml)")

	root.AddCommand(c.bufferCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
