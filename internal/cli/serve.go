package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/geobuffer/pkg/cache"
	"github.com/matzehuels/geobuffer/pkg/server"
)

// apiKeyPrefix separates API entries from CLI entries in a shared backend.
const apiKeyPrefix = "api:"

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API until interrupted.

Endpoints:
  POST /v1/buffer        buffer one geometry (JSON)
  POST /v1/buffer/batch  buffer a GeoJSON FeatureCollection
  GET  /healthz          liveness probe
  GET  /version          build information

The listen address, timeouts and body size limit come from the [server]
section of the config file; --addr overrides the address.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config
			if addr != "" {
				cfg.Server.Addr = addr
			}

			runner := c.newRunner(ctx, noCache)
			defer runner.Close()
			runner.Keyer = cache.NewScopedKeyer(runner.Keyer, apiKeyPrefix)

			c.Logger.Info("starting server", "addr", cfg.Server.Addr, "cache", cfg.Cache.Backend)
			return server.New(cfg, runner, c.Logger).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
